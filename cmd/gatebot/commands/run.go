package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/cobra"

	"github.com/edgard/gatebot/internal/bot"
	"github.com/edgard/gatebot/internal/bot/handlers"
	"github.com/edgard/gatebot/internal/bot/tasks"
	"github.com/edgard/gatebot/internal/config"
	"github.com/edgard/gatebot/internal/database"
	"github.com/edgard/gatebot/internal/debounce"
	"github.com/edgard/gatebot/internal/logger"
	"github.com/edgard/gatebot/internal/metrics"
	"github.com/edgard/gatebot/internal/server"
	"github.com/edgard/gatebot/internal/telegram"
	"github.com/edgard/gatebot/internal/verifier"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot until interrupted",
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	log.Info("Starting gatebot", "version", version, "environment", cfg.App.Environment)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return err
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	debounceStore, evictor, closeDebounce, err := newDebounceStore(ctx, cfg.Debounce, log)
	if err != nil {
		log.Error("Failed to initialize debounce store", "backend", cfg.Debounce.Backend, "error", err)
		return err
	}
	defer closeDebounce()

	webhook, webhookMode := cfg.WebhookMode()

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(ignoreUpdate(log)),
	}
	if webhookMode && cfg.Telegram.WebhookSecret != "" {
		botOpts = append(botOpts, tgbot.WithWebhookSecretToken(cfg.Telegram.WebhookSecret))
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return err
	}

	v := verifier.New(tg, cfg.Gate.Channels, cfg.Verifier.QueryTimeout, log)

	hDeps := handlers.HandlerDeps{
		Logger:     log,
		Config:     cfg,
		API:        tg,
		Verifier:   v,
		StartGuard: debounce.NewGuard("start", debounceStore, cfg.Debounce.StartThreshold, log),
		CheckGuard: debounce.NewGuard("check", debounceStore, cfg.Debounce.CheckThreshold, log),
		Store:      store,
	}
	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return err
	}

	tDeps := tasks.TaskDeps{
		Logger:  log,
		Store:   store,
		Evictor: evictor,
		Config:  cfg,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return err
	}

	transport := telegram.NewTransport(tg, telegram.TransportOptions{
		Webhook:            webhookMode,
		WebhookURL:         webhook.URL,
		WebhookSecret:      cfg.Telegram.WebhookSecret,
		DropPendingUpdates: cfg.Telegram.DropPendingUpdates,
	}, log)

	metrics.MustRegister()
	httpServer := server.New(server.Options{
		Port:            cfg.HTTP.Port,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
		Mode:            transport.Mode(),
		WebhookPath:     webhook.Path,
		Webhook:         transport.WebhookHandler(),
		Database:        store,
	}, log)

	log.Info("Starting bot...", "mode", transport.Mode(), "channels", len(cfg.Gate.Channels), "port", cfg.HTTP.Port)
	app := bot.NewBot(log, transport, httpServer, sched)
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		return runErr
	}

	log.Info("Bot stopped gracefully.")
	return nil
}

// setup loads configuration and installs the process logger.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		slog.Error("Failed to load configuration", "path", cfgFile, "error", err)
		return nil, nil, err
	}

	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		return nil, nil, err
	}
	return cfg, log, nil
}

// newDebounceStore builds the configured debounce backend. The evictor is nil
// for backends that expire entries themselves.
func newDebounceStore(ctx context.Context, cfg config.DebounceConfig, log *slog.Logger) (debounce.Store, tasks.Evictor, func(), error) {
	switch cfg.Backend {
	case config.DebounceBackendValkey:
		store, err := debounce.NewValkeyStore(cfg.ValkeyURL, cfg.Retention)
		if err != nil {
			return nil, nil, nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			// Guards fail open, so a dead valkey only disables debouncing.
			log.Warn("Valkey is not reachable, debouncing is degraded", "error", err)
		}
		log.Info("Debounce store ready", "backend", cfg.Backend)
		return store, nil, store.Close, nil
	case config.DebounceBackendMemory, "":
		store := debounce.NewMemoryStore()
		log.Info("Debounce store ready", "backend", config.DebounceBackendMemory)
		return store, store, func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown debounce backend %q", cfg.Backend)
	}
}

func ignoreUpdate(log *slog.Logger) tgbot.HandlerFunc {
	return func(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
		log.DebugContext(ctx, "Ignoring unhandled update", "update_id", update.ID)
	}
}
