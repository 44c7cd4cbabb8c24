package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dropvault/dropvault/dropvault/ledger"
)

type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func sendData(c *fiber.Ctx, data any) error {
	return c.JSON(apiResponse{Success: true, Data: data})
}

func sendError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(apiResponse{Success: false, Code: code, Message: message})
}

// sendLedgerError translates engine errors into HTTP status codes.
func sendLedgerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, ledger.ErrItemNotFound),
		errors.Is(err, ledger.ErrCodeNotFound):
		return sendError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ledger.ErrAlreadyExists):
		return sendError(c, fiber.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return sendError(c, fiber.StatusConflict, "INSUFFICIENT_FUNDS", err.Error())
	case errors.Is(err, ledger.ErrAlreadyRedeemed),
		errors.Is(err, ledger.ErrRedemptionsExhausted),
		errors.Is(err, ledger.ErrCodeInactive):
		return sendError(c, fiber.StatusConflict, "PROMO_REJECTED", err.Error())
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrValidation):
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", err.Error())
	default:
		return sendError(c, fiber.StatusInternalServerError, "INTERNAL", err.Error())
	}
}
