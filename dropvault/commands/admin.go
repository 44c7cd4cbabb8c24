package commands

import (
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/dropvault/dropvault/dropvault"
)

var Admin = discord.SlashCommandCreate{
	Name:        "vault-admin",
	Description: "🛠️ Economy administration",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "grant",
			Description: "Credit or debit an account",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "Target account",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "delta",
					Description: "Coins to add (negative to remove)",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "set-balance",
			Description: "Overwrite an account's balance",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "Target account",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "amount",
					Description: "New balance",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "ban",
			Description: "Ban an account from the economy",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "Target account",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "unban",
			Description: "Lift an account's ban",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "Target account",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "reset",
			Description: "Reset an account to its starting state",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "Target account",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "grant-xp",
			Description: "Grant XP to an account",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "Target account",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "xp",
					Description: "XP to grant",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "promo-create",
			Description: "Create a promo code",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "code",
					Description: "The code text",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "amount",
					Description: "Coins granted per redemption",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "max-uses",
					Description: "Total redemption cap (0 for unlimited)",
					Required:    false,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "promo-delete",
			Description: "Delete a promo code",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "code",
					Description: "The code to delete",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "grant-all",
			Description: "Run the daily grant for everyone now",
		},
	},
}

func AdminHandler(b *dropvault.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !b.IsAdmin(e.User().ID) {
			return errorEmbed(e, "You are not allowed to use admin commands.")
		}
		data := e.SlashCommandInteractionData()

		switch *data.SubCommandName {
		case "grant":
			target := data.User("user")
			if _, err := b.Ledger.EnsureAccount(int64(target.ID), target.Username); err != nil {
				return errorEmbed(e, userMessage(err))
			}
			balance, err := b.Ledger.AdjustBalance(int64(target.ID), int64(data.Int("delta")))
			if err != nil {
				return errorEmbed(e, userMessage(err))
			}
			slog.Info("Admin balance grant",
				slog.String("admin", e.User().ID.String()),
				slog.String("target", target.ID.String()),
				slog.Int("delta", data.Int("delta")))
			return successEmbed(e, "🛠️ Balance adjusted",
				fmt.Sprintf("%s now has **%d** coins.", target.Username, balance))
		case "set-balance":
			target := data.User("user")
			if _, err := b.Ledger.EnsureAccount(int64(target.ID), target.Username); err != nil {
				return errorEmbed(e, userMessage(err))
			}
			if err := b.Ledger.SetBalance(int64(target.ID), int64(data.Int("amount"))); err != nil {
				return errorEmbed(e, userMessage(err))
			}
			return successEmbed(e, "🛠️ Balance set",
				fmt.Sprintf("%s now has **%d** coins.", target.Username, data.Int("amount")))
		case "ban":
			target := data.User("user")
			if err := b.Ledger.SetBanned(int64(target.ID), true); err != nil {
				return errorEmbed(e, userMessage(err))
			}
			slog.Info("Account banned",
				slog.String("admin", e.User().ID.String()),
				slog.String("target", target.ID.String()))
			return successEmbed(e, "🛠️ Account banned",
				fmt.Sprintf("%s is banned from the economy.", target.Username))
		case "unban":
			target := data.User("user")
			if err := b.Ledger.SetBanned(int64(target.ID), false); err != nil {
				return errorEmbed(e, userMessage(err))
			}
			return successEmbed(e, "🛠️ Account unbanned",
				fmt.Sprintf("%s is back in the economy.", target.Username))
		case "reset":
			target := data.User("user")
			if err := b.Ledger.ResetAccount(int64(target.ID)); err != nil {
				return errorEmbed(e, userMessage(err))
			}
			slog.Info("Account reset",
				slog.String("admin", e.User().ID.String()),
				slog.String("target", target.ID.String()))
			return successEmbed(e, "🛠️ Account reset",
				fmt.Sprintf("%s is back to the starting state.", target.Username))
		case "grant-xp":
			target := data.User("user")
			if _, err := b.Ledger.EnsureAccount(int64(target.ID), target.Username); err != nil {
				return errorEmbed(e, userMessage(err))
			}
			if err := b.Ledger.GrantXP(int64(target.ID), data.Int("xp")); err != nil {
				return errorEmbed(e, userMessage(err))
			}
			return successEmbed(e, "🛠️ XP granted",
				fmt.Sprintf("%s received **%d** XP.", target.Username, data.Int("xp")))
		case "promo-create":
			p, err := b.Ledger.CreatePromoCode(data.String("code"), int64(data.Int("amount")), data.Int("max-uses"))
			if err != nil {
				return errorEmbed(e, userMessage(err))
			}
			return successEmbed(e, "🛠️ Promo created",
				fmt.Sprintf("Code `%s` grants **%d** coins.", p.Code, p.GrantAmount))
		case "promo-delete":
			if err := b.Ledger.DeletePromoCode(data.String("code")); err != nil {
				return errorEmbed(e, userMessage(err))
			}
			return successEmbed(e, "🛠️ Promo deleted", "The code is gone.")
		case "grant-all":
			loc, err := b.Cfg.Economy.Location()
			if err != nil {
				return errorEmbed(e, "Daily rewards are misconfigured.")
			}
			granted, err := b.Ledger.GrantDailyToAll(b.Cfg.Economy.DailyAmount, loc)
			if err != nil {
				return errorEmbed(e, userMessage(err))
			}
			if granted == 0 {
				return errorEmbed(e, "Today's grant already ran.")
			}
			return successEmbed(e, "🛠️ Daily grant",
				fmt.Sprintf("Granted **%d** coins to %d accounts.", b.Cfg.Economy.DailyAmount, granted))
		default:
			return errorEmbed(e, "Unknown subcommand.")
		}
	}
}
