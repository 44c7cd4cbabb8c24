package web

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dropvault/dropvault/dropvault/database"
)

// AuditReader serves the read side of the optional Postgres audit trail.
type AuditReader interface {
	RecentEvents(ctx context.Context, accountID int64, limit int) ([]database.LedgerEvent, error)
}

// AttachAudit enables GET /api/audit/recent. Without it the endpoint
// reports the trail as disabled.
func (s *Server) AttachAudit(r AuditReader) {
	s.audit = r
}

func (s *Server) handleAuditRecent(c *fiber.Ctx) error {
	if s.audit == nil {
		return sendError(c, fiber.StatusNotFound, "NOT_FOUND", "audit trail disabled")
	}
	events, err := s.audit.RecentEvents(c.Context(), int64(c.QueryInt("account")), c.QueryInt("limit"))
	if err != nil {
		s.log.Error("audit query failed", "error", err)
		return sendError(c, fiber.StatusInternalServerError, "INTERNAL", "audit query failed")
	}
	return sendData(c, events)
}
