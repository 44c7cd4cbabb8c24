package commands

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/dropvault/dropvault/dropvault"
	"github.com/dropvault/dropvault/dropvault/ledger"
)

var Trade = discord.SlashCommandCreate{
	Name:        "trade",
	Description: "🔄 Trade coins and items with another player",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "offer",
			Description: "Propose a trade",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "Who to trade with",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "give-items",
					Description: "Comma-separated instance IDs you offer",
					Required:    false,
				},
				discord.ApplicationCommandOptionString{
					Name:        "want-items",
					Description: "Comma-separated instance IDs you want",
					Required:    false,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "give-coins",
					Description: "Coins you offer",
					Required:    false,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "want-coins",
					Description: "Coins you want",
					Required:    false,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "accept",
			Description: "Accept a pending trade",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "id",
					Description: "Trade ID",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "decline",
			Description: "Decline or withdraw a pending trade",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "id",
					Description: "Trade ID",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "List your pending trades",
		},
	},
}

func splitItemIDs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func describeTrade(t ledger.TradeOffer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "`%s` <@%d> → <@%d>", t.ID, t.FromID, t.ToID)
	if t.OfferedCoins > 0 {
		fmt.Fprintf(&b, ", offers %d coins", t.OfferedCoins)
	}
	if len(t.OfferedItemIDs) > 0 {
		fmt.Fprintf(&b, ", offers items %s", strings.Join(t.OfferedItemIDs, ", "))
	}
	if t.RequestedCoins > 0 {
		fmt.Fprintf(&b, ", wants %d coins", t.RequestedCoins)
	}
	if len(t.RequestedItemIDs) > 0 {
		fmt.Fprintf(&b, ", wants items %s", strings.Join(t.RequestedItemIDs, ", "))
	}
	return b.String()
}

func TradeHandler(b *dropvault.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if _, err := b.Ledger.EnsureAccount(int64(e.User().ID), e.User().Username); err != nil {
			return errorEmbed(e, userMessage(err))
		}
		data := e.SlashCommandInteractionData()
		callerID := int64(e.User().ID)

		switch *data.SubCommandName {
		case "offer":
			target := data.User("user")
			if _, err := b.Ledger.EnsureAccount(int64(target.ID), target.Username); err != nil {
				return errorEmbed(e, userMessage(err))
			}
			t, err := b.Ledger.ProposeTrade(
				callerID,
				int64(target.ID),
				splitItemIDs(data.String("give-items")),
				splitItemIDs(data.String("want-items")),
				int64(data.Int("give-coins")),
				int64(data.Int("want-coins")),
			)
			if err != nil {
				return errorEmbed(e, userMessage(err))
			}
			return successEmbed(e, "🔄 Trade proposed",
				fmt.Sprintf("%s\n\n%s can accept with `/trade accept id:%s`", describeTrade(*t), target.Username, t.ID))
		case "accept":
			t, err := b.Ledger.AcceptTrade(data.String("id"), callerID)
			if err != nil {
				return errorEmbed(e, userMessage(err))
			}
			return successEmbed(e, "🔄 Trade completed", describeTrade(*t))
		case "decline":
			if err := b.Ledger.CancelTrade(data.String("id"), callerID); err != nil {
				return errorEmbed(e, userMessage(err))
			}
			return successEmbed(e, "🔄 Trade cancelled", fmt.Sprintf("Trade `%s` is off.", data.String("id")))
		case "list":
			pending := b.Ledger.PendingTradesFor(callerID)
			if len(pending) == 0 {
				return errorEmbed(e, "You have no pending trades.")
			}
			var description strings.Builder
			for _, t := range pending {
				description.WriteString(describeTrade(t))
				description.WriteString("\n")
			}
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{{
					Title:       "🔄 Pending trades",
					Description: description.String(),
					Color:       infoColor,
				}},
			})
		default:
			return errorEmbed(e, "Unknown subcommand.")
		}
	}
}
