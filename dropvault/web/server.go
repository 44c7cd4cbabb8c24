// Package web exposes the admin HTTP API: account management, catalog
// editing and XML import/export. Gameplay stays on the chat commands; this
// surface is for operators.
package web

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dropvault/dropvault/dropvault/ledger"
)

type Config struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	AdminToken string `toml:"admin_token"`
}

type Server struct {
	app    *fiber.App
	ledger *ledger.Ledger
	cfg    Config
	log    *slog.Logger
	audit  AuditReader
	images ImageStore
}

func NewServer(l *ledger.Ledger, cfg Config, log *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "dropvault-admin",
		DisableStartupMessage: true,
	})
	s := &Server{app: app, ledger: l, cfg: cfg, log: log}

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(compress.New())

	app.Get("/health", s.handleHealth)

	api := app.Group("/api", s.requireAdminToken)

	api.Get("/accounts", s.handleListAccounts)
	api.Get("/accounts/export", s.handleExportAccounts)
	api.Post("/accounts/import", s.handleImportAccounts)
	api.Get("/accounts/:id", s.handleGetAccount)
	api.Post("/accounts/:id/balance", s.handleSetBalance)
	api.Post("/accounts/:id/adjust", s.handleAdjustBalance)
	api.Post("/accounts/:id/ban", s.handleBan)
	api.Post("/accounts/:id/unban", s.handleUnban)
	api.Post("/accounts/:id/xp", s.handleGrantXP)
	api.Post("/accounts/:id/reset", s.handleResetAccount)
	api.Post("/accounts/:id/inventory", s.handleMintItem)
	api.Delete("/accounts/:id/items/:instance", s.handleRemoveItem)

	api.Get("/cases", s.handleListCases)
	api.Get("/cases/export", s.handleExportCases)
	api.Post("/cases/import", s.handleImportCasesJSON)
	api.Post("/cases/import-xml", s.handleImportCasesXML)
	api.Post("/cases", s.handleUpsertCase)
	api.Post("/cases/:id/enabled", s.handleSetCaseEnabled)
	api.Delete("/cases/:id", s.handleDeleteCase)

	api.Get("/promos", s.handleListPromos)
	api.Post("/promos", s.handleCreatePromo)
	api.Post("/promos/redeem", s.handleRedeemPromo)
	api.Post("/promos/:code/active", s.handleSetPromoActive)
	api.Delete("/promos/:code", s.handleDeletePromo)

	api.Get("/audit/recent", s.handleAuditRecent)

	api.Post("/images/:case/:item", s.handleUploadImage)
	api.Delete("/images/:case/:item", s.handleDeleteImage)

	api.Get("/level-rewards", s.handleListLevelRewards)
	api.Post("/level-rewards", s.handleSetLevelReward)
	api.Delete("/level-rewards/:level", s.handleDeleteLevelReward)

	return s
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen() error {
	s.log.Info("admin API listening", slog.String("addr", s.cfg.Addr))
	return s.app.Listen(s.cfg.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// requireAdminToken guards the API with a static bearer token. An empty
// configured token locks the API out entirely rather than leaving it open.
func (s *Server) requireAdminToken(c *fiber.Ctx) error {
	if s.cfg.AdminToken == "" {
		return sendError(c, fiber.StatusForbidden, "FORBIDDEN", "admin API disabled")
	}
	if c.Get("Authorization") != "Bearer "+s.cfg.AdminToken {
		return sendError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid admin token")
	}
	return c.Next()
}
