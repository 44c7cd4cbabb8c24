package commands

import (
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/dropvault/dropvault/dropvault"
)

var Daily = discord.SlashCommandCreate{
	Name:        "daily",
	Description: "🗓️ Claim your daily reward",
}

func DailyHandler(b *dropvault.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if _, err := b.Ledger.EnsureAccount(int64(e.User().ID), e.User().Username); err != nil {
			return errorEmbed(e, userMessage(err))
		}

		loc, err := b.Cfg.Economy.Location()
		if err != nil {
			slog.Error("Invalid economy timezone", slog.Any("error", err))
			return errorEmbed(e, "Daily rewards are misconfigured. Tell an admin.")
		}
		balance, err := b.Ledger.ClaimDaily(int64(e.User().ID), b.Cfg.Economy.DailyAmount, loc)
		if err != nil {
			return errorEmbed(e, userMessage(err))
		}
		return successEmbed(e, "🗓️ Daily claimed",
			fmt.Sprintf("You received **%d** coins. Balance: **%d**", b.Cfg.Economy.DailyAmount, balance))
	}
}
