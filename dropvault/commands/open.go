package commands

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/dropvault/dropvault/dropvault"
)

var Open = discord.SlashCommandCreate{
	Name:        "open",
	Description: "🎁 Open a case and win an item",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:         "case",
			Description:  "Which case to open",
			Required:     true,
			Autocomplete: true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "count",
			Description: "How many to open at once (capped by your level unlocks)",
			Required:    false,
		},
	},
}

func OpenHandler(b *dropvault.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if _, err := b.Ledger.EnsureAccount(int64(e.User().ID), e.User().Username); err != nil {
			return errorEmbed(e, userMessage(err))
		}

		def, ok := findCase(b, e.SlashCommandInteractionData().String("case"))
		if !ok {
			return errorEmbed(e, "No case matches that name.")
		}
		count := 1
		if n := e.SlashCommandInteractionData().Int("count"); n > 1 {
			count = n
		}

		res, err := b.Ledger.OpenCase(int64(e.User().ID), def.ID, count)
		if err != nil {
			return errorEmbed(e, userMessage(err))
		}

		var description strings.Builder
		for _, it := range res.Items {
			description.WriteString(formatItem(it))
			description.WriteString("\n")
		}
		fmt.Fprintf(&description, "\nSpent **%d** coins, gained **%d** XP. Balance: **%d**",
			res.Cost, res.XPGained, res.Balance)

		embed := discord.Embed{
			Title:       fmt.Sprintf("🎁 %s opened", def.Name),
			Description: description.String(),
			Color:       successColor,
			Footer: &discord.EmbedFooter{
				Text: fmt.Sprintf("Opened by %s", e.User().Username),
			},
		}
		if len(res.Items) == 1 && res.Items[0].ImageURL != "" {
			embed.Thumbnail = &discord.EmbedResource{URL: res.Items[0].ImageURL}
		}
		return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed}})
	}
}
