package commands

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/dropvault/dropvault/dropvault"
	"github.com/dropvault/dropvault/dropvault/ledger"
)

var Balance = discord.SlashCommandCreate{
	Name:        "balance",
	Description: "💰 View your balance, level and progression",
}

func BalanceHandler(b *dropvault.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		a, err := b.Ledger.EnsureAccount(int64(e.User().ID), e.User().Username)
		if err != nil {
			return errorEmbed(e, userMessage(err))
		}

		description := fmt.Sprintf("```ansi\n"+
			"\x1b[1;36mBalance:\x1b[0m %d coins\n"+
			"\x1b[1;35mLevel:\x1b[0m %d\n"+
			"\x1b[0;37m%s\x1b[0m\n"+
			"\n"+
			"\x1b[1;33mLifetime earnings:\x1b[0m %d\n"+
			"\x1b[1;33mMilestones:\x1b[0m %d\n"+
			"\x1b[1;33mOpenings per command:\x1b[0m %d\n"+
			"```",
			a.Balance,
			a.Level,
			xpBar(a.XP),
			a.LifetimeEarnings,
			a.MilestonesReached,
			a.MaxCaseOpenings,
		)

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "💰 Balance",
				Description: description,
				Color:       successColor,
				Footer: &discord.EmbedFooter{
					Text: fmt.Sprintf("Requested by %s", e.User().Username),
				},
			}},
		})
	}
}

func xpBar(xp int) string {
	const barLength = 10

	filled := xp * barLength / ledger.XPPerLevel
	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < barLength; i++ {
		if i < filled {
			bar.WriteString("■")
		} else {
			bar.WriteString("□")
		}
	}
	fmt.Fprintf(&bar, "] %d/%d XP", xp, ledger.XPPerLevel)
	return bar.String()
}
