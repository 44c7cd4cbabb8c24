package commands

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/dropvault/dropvault/dropvault"
)

var Wager = discord.SlashCommandCreate{
	Name:        "wager",
	Description: "🎲 Bet coins against another player on a coin flip",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "challenge",
			Description: "Challenge someone to a wager",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "Who to challenge",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "stake",
					Description: "Coins each side puts up",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "accept",
			Description: "Accept a wager and settle it",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "id",
					Description: "Wager ID",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "decline",
			Description: "Decline or withdraw a pending wager",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "id",
					Description: "Wager ID",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "List your pending wagers",
		},
	},
}

func WagerHandler(b *dropvault.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if _, err := b.Ledger.EnsureAccount(int64(e.User().ID), e.User().Username); err != nil {
			return errorEmbed(e, userMessage(err))
		}
		data := e.SlashCommandInteractionData()
		callerID := int64(e.User().ID)

		switch *data.SubCommandName {
		case "challenge":
			target := data.User("user")
			if _, err := b.Ledger.EnsureAccount(int64(target.ID), target.Username); err != nil {
				return errorEmbed(e, userMessage(err))
			}
			w, err := b.Ledger.ProposeWager(callerID, int64(target.ID), int64(data.Int("stake")))
			if err != nil {
				return errorEmbed(e, userMessage(err))
			}
			return successEmbed(e, "🎲 Wager proposed",
				fmt.Sprintf("`%s`: **%d** coins on the line. %s can accept with `/wager accept id:%s`",
					w.ID, w.Stake, target.Username, w.ID))
		case "accept":
			w, err := b.Ledger.AcceptWager(data.String("id"), callerID)
			if err != nil {
				return errorEmbed(e, userMessage(err))
			}
			return successEmbed(e, "🎲 Wager settled",
				fmt.Sprintf("<@%d> wins **%d** coins!", w.WinnerID, w.Stake))
		case "decline":
			if err := b.Ledger.CancelWager(data.String("id"), callerID); err != nil {
				return errorEmbed(e, userMessage(err))
			}
			return successEmbed(e, "🎲 Wager cancelled", fmt.Sprintf("Wager `%s` is off.", data.String("id")))
		case "list":
			pending := b.Ledger.PendingWagersFor(callerID)
			if len(pending) == 0 {
				return errorEmbed(e, "You have no pending wagers.")
			}
			var description strings.Builder
			for _, w := range pending {
				fmt.Fprintf(&description, "`%s` <@%d> vs <@%d>, stake %d\n",
					w.ID, w.ChallengerID, w.OpponentID, w.Stake)
			}
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{{
					Title:       "🎲 Pending wagers",
					Description: description.String(),
					Color:       infoColor,
				}},
			})
		default:
			return errorEmbed(e, "Unknown subcommand.")
		}
	}
}
