package commands

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/dropvault/dropvault/dropvault"
)

const itemsPerPage = 10

var Inventory = discord.SlashCommandCreate{
	Name:        "inventory",
	Description: "🎒 View your items",
}

func InventoryHandler(b *dropvault.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		a, err := b.Ledger.EnsureAccount(int64(e.User().ID), e.User().Username)
		if err != nil {
			return errorEmbed(e, userMessage(err))
		}
		if len(a.Inventory) == 0 {
			return errorEmbed(e, "Your inventory is empty. Open a case first!")
		}

		items := a.Inventory
		totalPages := (len(items) + itemsPerPage - 1) / itemsPerPage

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				start := page * itemsPerPage
				end := min(start+itemsPerPage, len(items))

				var description strings.Builder
				var total int64
				for _, it := range items {
					if it.Variation != nil {
						total += it.Variation.Price
					} else {
						total += it.Value
					}
				}
				for _, it := range items[start:end] {
					description.WriteString(formatItem(it))
					description.WriteString("\n")
				}
				fmt.Fprintf(&description, "\n%d items worth **%d** coins total", len(items), total)

				embed.SetTitlef("🎒 %s's inventory", e.User().Username).
					SetDescription(description.String()).
					SetColor(infoColor)
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}
