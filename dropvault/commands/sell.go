package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/dropvault/dropvault/dropvault"
)

var Sell = discord.SlashCommandCreate{
	Name:        "sell",
	Description: "💸 Sell items back for coins",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "item",
			Description: "Sell one item at its value",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "instance",
					Description: "Item instance ID (shown in /inventory)",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "all",
			Description: "Sell your whole inventory",
		},
	},
}

func SellHandler(b *dropvault.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if _, err := b.Ledger.EnsureAccount(int64(e.User().ID), e.User().Username); err != nil {
			return errorEmbed(e, userMessage(err))
		}
		data := e.SlashCommandInteractionData()

		switch *data.SubCommandName {
		case "item":
			price, err := b.Ledger.SellItem(int64(e.User().ID), data.String("instance"))
			if err != nil {
				return errorEmbed(e, userMessage(err))
			}
			return successEmbed(e, "💸 Item sold", fmt.Sprintf("You received **%d** coins.", price))
		case "all":
			total, err := b.Ledger.SellAllItems(int64(e.User().ID))
			if err != nil {
				return errorEmbed(e, userMessage(err))
			}
			if total == 0 {
				return errorEmbed(e, "Your inventory is already empty.")
			}
			return successEmbed(e, "💸 Inventory sold", fmt.Sprintf("You received **%d** coins.", total))
		default:
			return errorEmbed(e, "Unknown subcommand.")
		}
	}
}
