package web

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/dropvault/dropvault/dropvault/ledger"
)

func parseAccountID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func (s *Server) handleListAccounts(c *fiber.Ctx) error {
	return sendData(c, s.ledger.ListAccounts())
}

func (s *Server) handleGetAccount(c *fiber.Ctx) error {
	id, err := parseAccountID(c)
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid account id")
	}
	a, err := s.ledger.Account(id)
	if err != nil {
		return sendLedgerError(c, err)
	}
	return sendData(c, a)
}

func (s *Server) handleSetBalance(c *fiber.Ctx) error {
	id, err := parseAccountID(c)
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid account id")
	}
	var body struct {
		Amount int64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid body")
	}
	if err := s.ledger.SetBalance(id, body.Amount); err != nil {
		return sendLedgerError(c, err)
	}
	s.log.Info("balance set", "account", id, "amount", body.Amount)
	return sendData(c, fiber.Map{"id": id, "balance": body.Amount})
}

func (s *Server) handleAdjustBalance(c *fiber.Ctx) error {
	id, err := parseAccountID(c)
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid account id")
	}
	var body struct {
		Delta int64 `json:"delta"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid body")
	}
	balance, err := s.ledger.AdjustBalance(id, body.Delta)
	if err != nil {
		return sendLedgerError(c, err)
	}
	return sendData(c, fiber.Map{"id": id, "balance": balance})
}

func (s *Server) handleBan(c *fiber.Ctx) error   { return s.setBanned(c, true) }
func (s *Server) handleUnban(c *fiber.Ctx) error { return s.setBanned(c, false) }

func (s *Server) setBanned(c *fiber.Ctx, banned bool) error {
	id, err := parseAccountID(c)
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid account id")
	}
	if err := s.ledger.SetBanned(id, banned); err != nil {
		return sendLedgerError(c, err)
	}
	s.log.Info("ban flag changed", "account", id, "banned", banned)
	return sendData(c, fiber.Map{"id": id, "banned": banned})
}

func (s *Server) handleGrantXP(c *fiber.Ctx) error {
	id, err := parseAccountID(c)
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid account id")
	}
	var body struct {
		XP int `json:"xp"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid body")
	}
	if err := s.ledger.GrantXP(id, body.XP); err != nil {
		return sendLedgerError(c, err)
	}
	a, err := s.ledger.Account(id)
	if err != nil {
		return sendLedgerError(c, err)
	}
	return sendData(c, fiber.Map{"id": id, "level": a.Level, "xp": a.XP})
}

func (s *Server) handleResetAccount(c *fiber.Ctx) error {
	id, err := parseAccountID(c)
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid account id")
	}
	if err := s.ledger.ResetAccount(id); err != nil {
		return sendLedgerError(c, err)
	}
	s.log.Info("account reset", "account", id)
	a, err := s.ledger.Account(id)
	if err != nil {
		return sendLedgerError(c, err)
	}
	return sendData(c, a)
}

func (s *Server) handleMintItem(c *fiber.Ctx) error {
	id, err := parseAccountID(c)
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid account id")
	}
	var body struct {
		ItemID   string `json:"item_id"`
		Name     string `json:"name"`
		Rarity   string `json:"rarity"`
		Value    int64  `json:"value"`
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid body")
	}
	inst, err := s.ledger.MintItem(id, ledger.WonItem{
		ItemID:   body.ItemID,
		Name:     body.Name,
		Rarity:   body.Rarity,
		Value:    body.Value,
		ImageURL: body.ImageURL,
	})
	if err != nil {
		return sendLedgerError(c, err)
	}
	return sendData(c, inst)
}

func (s *Server) handleRemoveItem(c *fiber.Ctx) error {
	id, err := parseAccountID(c)
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid account id")
	}
	if err := s.ledger.RemoveItem(id, c.Params("instance")); err != nil {
		return sendLedgerError(c, err)
	}
	return sendData(c, fiber.Map{"id": id, "removed": c.Params("instance")})
}
