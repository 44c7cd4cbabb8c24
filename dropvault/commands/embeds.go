// Package commands implements the chat-facing surface: opening cases,
// checking balances, trading, wagering and the admin toolbox.
package commands

import (
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/dropvault/dropvault/dropvault/ledger"
)

const (
	successColor = 0x2ECC71
	errorColor   = 0xE74C3C
	infoColor    = 0x3498DB
)

func errorEmbed(e *handler.CommandEvent, message string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       "Error",
			Description: message,
			Color:       errorColor,
		}},
	})
}

func successEmbed(e *handler.CommandEvent, title, description string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       title,
			Description: description,
			Color:       successColor,
		}},
	})
}

// userMessage translates engine errors into text fit for a chat reply.
func userMessage(err error) string {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "You don't have enough coins for that."
	case errors.Is(err, ledger.ErrDailyClaimed):
		return "You already claimed your daily reward today."
	case errors.Is(err, ledger.ErrAccountBanned):
		return "This account is banned from the economy."
	case errors.Is(err, ledger.ErrSelfTarget):
		return "You can't target yourself with that."
	case errors.Is(err, ledger.ErrItemNotFound):
		return "That item isn't in the inventory."
	case errors.Is(err, ledger.ErrStaleOffer):
		return "This offer is no longer valid, the balances or items behind it changed."
	case errors.Is(err, ledger.ErrNotPending):
		return "This offer was already settled or cancelled."
	case errors.Is(err, ledger.ErrNotAuthorized):
		return "This offer isn't yours to act on."
	case errors.Is(err, ledger.ErrAlreadyRedeemed):
		return "You already redeemed this code."
	case errors.Is(err, ledger.ErrRedemptionsExhausted):
		return "This code has no redemptions left."
	case errors.Is(err, ledger.ErrCodeInactive):
		return "This code is not active."
	case errors.Is(err, ledger.ErrCodeNotFound):
		return "Unknown promo code."
	case errors.Is(err, ledger.ErrNotFound):
		return "Account not found. Run any economy command once to register."
	case errors.Is(err, ledger.ErrInvalidAmount):
		return "That amount is not valid."
	case errors.Is(err, ledger.ErrValidation):
		return err.Error()
	default:
		return "Something went wrong. Please try again later."
	}
}

func formatItem(it ledger.ItemInstance) string {
	if it.Variation != nil {
		return fmt.Sprintf("**%s** (%s) [%s] - %d coins `%s`", it.Name, it.Variation.Name, it.Rarity, it.Variation.Price, it.InstanceID)
	}
	return fmt.Sprintf("**%s** [%s] - %d coins `%s`", it.Name, it.Rarity, it.Value, it.InstanceID)
}
