package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/dropvault/dropvault/dropvault"
	"github.com/dropvault/dropvault/dropvault/handlers"
)

var Commands = []discord.ApplicationCommandCreate{
	Connect,
	Balance,
	Cases,
	Open,
	Inventory,
	Sell,
	Daily,
	Promo,
	Trade,
	Wager,
	Admin,
}

// Register wires every command handler into the router.
func Register(h *handler.Mux, b *dropvault.Bot) {
	h.Command("/connect", handlers.WrapWithLogging("connect", ConnectHandler(b)))
	h.Command("/balance", handlers.WrapWithLogging("balance", BalanceHandler(b)))
	h.Command("/cases", handlers.WrapWithLogging("cases", CasesHandler(b)))
	h.Command("/open", handlers.WrapWithLogging("open", OpenHandler(b)))
	h.Autocomplete("/open", CaseAutocompleteHandler(b))
	h.Command("/inventory", handlers.WrapWithLogging("inventory", InventoryHandler(b)))
	h.Command("/sell", handlers.WrapWithLogging("sell", SellHandler(b)))
	h.Command("/daily", handlers.WrapWithLogging("daily", DailyHandler(b)))
	h.Command("/promo", handlers.WrapWithLogging("promo", PromoHandler(b)))
	h.Command("/trade", handlers.WrapWithLogging("trade", TradeHandler(b)))
	h.Command("/wager", handlers.WrapWithLogging("wager", WagerHandler(b)))
	h.Command("/vault-admin", handlers.WrapWithLogging("vault-admin", AdminHandler(b)))
}
