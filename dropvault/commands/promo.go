package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/dropvault/dropvault/dropvault"
)

var Promo = discord.SlashCommandCreate{
	Name:        "promo",
	Description: "🎟️ Redeem a promo code",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "code",
			Description: "The code to redeem",
			Required:    true,
		},
	},
}

func PromoHandler(b *dropvault.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if _, err := b.Ledger.EnsureAccount(int64(e.User().ID), e.User().Username); err != nil {
			return errorEmbed(e, userMessage(err))
		}
		balance, err := b.Ledger.RedeemPromo(int64(e.User().ID), e.SlashCommandInteractionData().String("code"))
		if err != nil {
			return errorEmbed(e, userMessage(err))
		}
		return successEmbed(e, "🎟️ Code redeemed", fmt.Sprintf("Balance: **%d** coins", balance))
	}
}
