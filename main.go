package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"golang.org/x/sync/errgroup"

	"github.com/dropvault/dropvault/dropvault"
	"github.com/dropvault/dropvault/dropvault/commands"
	"github.com/dropvault/dropvault/dropvault/database"
	"github.com/dropvault/dropvault/dropvault/ledger"
	"github.com/dropvault/dropvault/dropvault/logger"
	"github.com/dropvault/dropvault/dropvault/services"
	"github.com/dropvault/dropvault/dropvault/web"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	log := logger.Setup("DropVault")

	log.Info("Starting DropVault",
		slog.String("version", version),
		slog.String("commit", commit))

	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := dropvault.LoadConfig(*path)
	if err != nil {
		log.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	log.Info("Configuration loaded successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	gateway, err := openGateway(ctx, cfg, log)
	if err != nil {
		cancel()
		log.Error("Failed to open storage gateway", slog.Any("error", err))
		os.Exit(-1)
	}

	led := ledger.New()
	if err := database.LoadOrSeed(ctx, led, gateway, log); err != nil {
		cancel()
		log.Error("Failed to restore ledger state", slog.Any("error", err))
		os.Exit(-1)
	}
	cancel()
	log.Info("Ledger restored", slog.Int("accounts", len(led.ListAccounts())))

	var auditSink ledger.AuditSink
	var auditRepo *database.AuditRepository
	if cfg.Audit.Enabled {
		auditCtx, auditCancel := context.WithTimeout(context.Background(), 30*time.Second)
		pg, err := database.NewPostgresDB(auditCtx, cfg.Audit)
		if err != nil {
			auditCancel()
			log.Error("Failed to connect audit database", slog.Any("error", err))
			os.Exit(-1)
		}
		repo := database.NewAuditRepository(pg.Bun())
		if err := repo.Init(auditCtx); err != nil {
			auditCancel()
			log.Error("Failed to initialize audit schema", slog.Any("error", err))
			os.Exit(-1)
		}
		auditCancel()
		defer pg.Close()
		auditSink = repo
		auditRepo = repo
		log.Info("Audit trail enabled", slog.String("database", cfg.Audit.Database))
	}

	b := dropvault.New(*cfg, version, commit)
	b.Ledger = led
	b.Gateway = gateway
	b.Flusher = ledger.NewFlusher(led, gateway, auditSink, cfg.Storage.FlushDelay(), log)

	if cfg.Spaces.Enabled {
		spaces, err := services.NewSpacesService(
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.ItemRoot,
		)
		if err != nil {
			log.Error("Failed to initialize Spaces", slog.Any("error", err))
			os.Exit(-1)
		}
		b.Spaces = spaces
	}

	h := handler.New()
	commands.Register(h, b)

	if err := b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		log.Error("Failed to setup bot", slog.Any("error", err))
		os.Exit(-1)
	}

	if *shouldSyncCommands {
		log.Info("Syncing commands", slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err := handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			log.Error("Failed to sync commands", slog.Any("error", err))
			os.Exit(-1)
		}
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, runCtx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		return b.Flusher.Run(runCtx)
	})

	loc, err := cfg.Economy.Location()
	if err != nil {
		log.Error("Invalid economy timezone", slog.Any("error", err))
		os.Exit(-1)
	}
	if cfg.Economy.DailyAmount > 0 {
		g.Go(func() error {
			return dropvault.RunDailyGrants(runCtx, led, cfg.Economy.DailyAmount, loc, log)
		})
	}

	if cfg.Web.Enabled {
		srv := web.NewServer(led, cfg.Web, log)
		if auditRepo != nil {
			srv.AttachAudit(auditRepo)
		}
		if b.Spaces != nil {
			srv.AttachImages(b.Spaces)
		}
		g.Go(srv.Listen)
		g.Go(func() error {
			<-runCtx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	gwCtx, gwCancel := context.WithTimeout(runCtx, 10*time.Second)
	if err := b.Client.OpenGateway(gwCtx); err != nil {
		gwCancel()
		log.Error("Failed to open gateway", slog.Any("error", err))
		os.Exit(-1)
	}
	gwCancel()

	log.Info("DropVault is running. Press CTRL-C to exit.")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Shutdown with error", slog.Any("error", err))
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer closeCancel()
	b.Client.Close(closeCtx)
	if err := gateway.Close(closeCtx); err != nil {
		log.Error("Failed to close storage gateway", slog.Any("error", err))
	}
	log.Info("Shutdown complete")
}

func openGateway(ctx context.Context, cfg *dropvault.Config, log *slog.Logger) (database.Gateway, error) {
	switch cfg.Storage.Driver {
	case "mongo":
		return database.NewMongoGateway(ctx, cfg.Storage.Mongo, log)
	default:
		path := cfg.Storage.FilePath
		if path == "" {
			path = "data/snapshot.json"
		}
		log.Info("Using file snapshot storage", slog.String("path", path))
		return database.NewFileGateway(path), nil
	}
}
