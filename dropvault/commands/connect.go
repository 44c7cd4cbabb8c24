package commands

import (
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/dropvault/dropvault/dropvault"
	"github.com/dropvault/dropvault/dropvault/ledger"
)

var Connect = discord.SlashCommandCreate{
	Name:        "connect",
	Description: "🔗 Join the economy and receive your starting coins",
}

func ConnectHandler(b *dropvault.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		a, err := b.Ledger.CreateAccount(int64(e.User().ID), e.User().Username)
		if errors.Is(err, ledger.ErrAlreadyExists) {
			a, err = b.Ledger.Account(int64(e.User().ID))
			if err != nil {
				return errorEmbed(e, userMessage(err))
			}
			return successEmbed(e, "🔗 Already connected",
				fmt.Sprintf("Welcome back, %s. You have **%d** coins.", a.DisplayName, a.Balance))
		}
		if err != nil {
			return errorEmbed(e, userMessage(err))
		}
		return successEmbed(e, "🔗 Connected",
			fmt.Sprintf("Welcome, %s! You start with **%d** coins. Try `/cases` to see what you can open.",
				a.DisplayName, a.Balance))
	}
}
