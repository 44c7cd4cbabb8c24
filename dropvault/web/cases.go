package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dropvault/dropvault/dropvault/ledger"
)

func (s *Server) handleListCases(c *fiber.Ctx) error {
	return sendData(c, s.ledger.Cases())
}

func (s *Server) handleUpsertCase(c *fiber.Ctx) error {
	var def ledger.CaseDefinition
	if err := c.BodyParser(&def); err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid body")
	}
	if err := s.ledger.UpsertCase(def); err != nil {
		return sendLedgerError(c, err)
	}
	s.log.Info("case upserted", "case", def.ID)
	return sendData(c, def)
}

func (s *Server) handleSetCaseEnabled(c *fiber.Ctx) error {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid body")
	}
	if err := s.ledger.SetCaseEnabled(c.Params("id"), body.Enabled); err != nil {
		return sendLedgerError(c, err)
	}
	return sendData(c, fiber.Map{"id": c.Params("id"), "enabled": body.Enabled})
}

func (s *Server) handleDeleteCase(c *fiber.Ctx) error {
	if err := s.ledger.DeleteCase(c.Params("id")); err != nil {
		return sendLedgerError(c, err)
	}
	s.log.Info("case deleted", "case", c.Params("id"))
	return sendData(c, fiber.Map{"id": c.Params("id")})
}

// handleImportCasesJSON bulk-loads case definitions. Mode "replace" swaps
// the whole catalog; "merge" (the default) upserts each case. Both validate
// every definition before any change lands.
func (s *Server) handleImportCasesJSON(c *fiber.Ctx) error {
	var body struct {
		Mode  string                  `json:"mode"`
		Cases []ledger.CaseDefinition `json:"cases"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid body")
	}
	if len(body.Cases) == 0 {
		return sendError(c, fiber.StatusBadRequest, "VALIDATION", "no cases given")
	}
	for i := range body.Cases {
		if err := ledger.ValidateCase(&body.Cases[i]); err != nil {
			return sendLedgerError(c, err)
		}
	}
	switch body.Mode {
	case "replace":
		if err := s.ledger.ReplaceCatalog(body.Cases); err != nil {
			return sendLedgerError(c, err)
		}
	default:
		for i := range body.Cases {
			if err := s.ledger.UpsertCase(body.Cases[i]); err != nil {
				return sendLedgerError(c, err)
			}
		}
	}
	s.log.Info("catalog imported", "mode", body.Mode, "cases", len(body.Cases))
	return sendData(c, fiber.Map{"imported": len(body.Cases)})
}

func (s *Server) handleRedeemPromo(c *fiber.Ctx) error {
	var body struct {
		AccountID int64  `json:"account_id"`
		Code      string `json:"code"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid body")
	}
	balance, err := s.ledger.RedeemPromo(body.AccountID, body.Code)
	if err != nil {
		return sendLedgerError(c, err)
	}
	return sendData(c, fiber.Map{"id": body.AccountID, "balance": balance})
}

func (s *Server) handleListPromos(c *fiber.Ctx) error {
	return sendData(c, s.ledger.PromoCodes())
}

func (s *Server) handleCreatePromo(c *fiber.Ctx) error {
	var body struct {
		Code           string `json:"code"`
		GrantAmount    int64  `json:"grant_amount"`
		MaxRedemptions int    `json:"max_redemptions"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid body")
	}
	p, err := s.ledger.CreatePromoCode(body.Code, body.GrantAmount, body.MaxRedemptions)
	if err != nil {
		return sendLedgerError(c, err)
	}
	s.log.Info("promo created", "code", p.ID, "amount", p.GrantAmount)
	return c.Status(fiber.StatusCreated).JSON(apiResponse{Success: true, Data: p})
}

func (s *Server) handleSetPromoActive(c *fiber.Ctx) error {
	var body struct {
		Active bool `json:"active"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid body")
	}
	if err := s.ledger.SetPromoActive(c.Params("code"), body.Active); err != nil {
		return sendLedgerError(c, err)
	}
	return sendData(c, fiber.Map{"code": c.Params("code"), "active": body.Active})
}

func (s *Server) handleDeletePromo(c *fiber.Ctx) error {
	if err := s.ledger.DeletePromoCode(c.Params("code")); err != nil {
		return sendLedgerError(c, err)
	}
	return sendData(c, fiber.Map{"code": c.Params("code")})
}

func (s *Server) handleListLevelRewards(c *fiber.Ctx) error {
	return sendData(c, s.ledger.LevelRewards())
}

func (s *Server) handleSetLevelReward(c *fiber.Ctx) error {
	var r ledger.LevelReward
	if err := c.BodyParser(&r); err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid body")
	}
	if err := s.ledger.SetLevelReward(r); err != nil {
		return sendLedgerError(c, err)
	}
	return sendData(c, r)
}

func (s *Server) handleDeleteLevelReward(c *fiber.Ctx) error {
	level, err := c.ParamsInt("level")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid level")
	}
	if err := s.ledger.DeleteLevelReward(level); err != nil {
		return sendLedgerError(c, err)
	}
	return sendData(c, fiber.Map{"level": level})
}
