package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/StarCase_Go/internal/bootstrap"
	"github.com/osse101/StarCase_Go/internal/casebox"
	"github.com/osse101/StarCase_Go/internal/catalog"
	"github.com/osse101/StarCase_Go/internal/config"
	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/feed"
	"github.com/osse101/StarCase_Go/internal/leaderboard"
	"github.com/osse101/StarCase_Go/internal/prize"
	"github.com/osse101/StarCase_Go/internal/server"
	"github.com/osse101/StarCase_Go/internal/sse"
	"github.com/osse101/StarCase_Go/internal/telegram"
	"github.com/osse101/StarCase_Go/internal/user"
	"github.com/osse101/StarCase_Go/internal/validation"
	"github.com/osse101/StarCase_Go/internal/worker"
)

// @title StarCase API
// @version 1.0
// @description Case-opening economy backend for the StarCase Telegram mini app.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	initFallbackLogger()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Failed to set up logger", "error", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if err := run(cfg); err != nil {
		slog.Error("StarCase exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		return err
	}

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		_ = events.Publisher.Shutdown(context.Background())
		return err
	}

	catalogService := catalog.NewService(store, validation.NewSchemaValidator(), catalog.Config{
		Path:       cfg.CatalogPath,
		SchemaPath: cfg.CatalogSchemaPath,
		CacheTTL:   cfg.CatalogCacheTTL,
	})
	if err := bootstrap.SyncCatalog(ctx, catalogService); err != nil {
		store.Close()
		_ = events.Publisher.Shutdown(context.Background())
		return err
	}

	userService := user.NewService(store, user.Config{
		StartingStars: cfg.StartingStars,
		MaxAttempts:   cfg.TxMaxAttempts,
		RetryBackoff:  cfg.TxRetryBackoff,
	})
	caseService := casebox.NewService(store, prize.NewSelector(prize.SecureSource()), events.Publisher, casebox.Config{
		MaxMultiplier:    cfg.CaseMaxMultiplier,
		MaxAttempts:      cfg.TxMaxAttempts,
		RetryBackoff:     cfg.TxRetryBackoff,
		UpgradeHouseEdge: cfg.UpgradeHouseEdge,
		UpgradeMaxChance: casebox.DefaultUpgradeMaxChance,
	})
	leaderboardService := leaderboard.NewService(store, cfg.LeaderboardSize, cfg.LeaderboardCacheTTL)

	hub := sse.NewHub()
	hub.Start()
	liveFeed := feed.NewService(cfg.FeedCapacity, hub)

	components := bootstrap.ShutdownComponents{
		Hub:                hub,
		ResilientPublisher: events.Publisher,
		Store:              store,
	}

	notifier, err := startTelegram(ctx, cfg, userService, &components)
	if err != nil {
		bootstrap.GracefulShutdown(context.Background(), components)
		return err
	}

	bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:    events.Bus,
		Feed:        liveFeed,
		Broadcaster: hub,
		Notifier:    notifier,
	})

	weeklyReset := worker.NewWeeklyResetWorker(store, events.Publisher, leaderboardService, cfg.WeeklyResetSchedule)
	if err := weeklyReset.Start(); err != nil {
		bootstrap.GracefulShutdown(context.Background(), components)
		return err
	}
	components.WeeklyResetWorker = weeklyReset

	srv := server.NewServer(server.Options{
		Port:         cfg.Port,
		APIKey:       cfg.APIKey,
		MaxBodyBytes: cfg.MaxRequestBodyBytes,
	}, server.Dependencies{
		Store:       store,
		Users:       userService,
		Cases:       caseService,
		Catalog:     catalogService,
		Leaderboard: leaderboardService,
		Feed:        liveFeed,
		Hub:         hub,
		WeeklyReset: weeklyReset,
	})
	components.Server = srv

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err = <-serverErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, components)

	return err
}

// startTelegram starts the drop notifier and command bot when a token is set.
// The notifier is returned so it can be subscribed to the bus.
func startTelegram(ctx context.Context, cfg *config.Config, users user.Service, components *bootstrap.ShutdownComponents) (*telegram.Notifier, error) {
	if !cfg.TelegramEnabled() {
		slog.Info("Telegram disabled, no bot token configured")
		return nil, nil
	}

	client, err := telegram.NewClient(cfg.TelegramBotToken)
	if err != nil {
		return nil, err
	}

	var notifier *telegram.Notifier
	if cfg.TelegramNotifyChatID != 0 {
		minRarity, err := domain.ParseRarity(cfg.TelegramNotifyMinRarity)
		if err != nil {
			return nil, err
		}
		notifier = telegram.NewNotifier(client, telegram.NotifierConfig{
			ChatID:    cfg.TelegramNotifyChatID,
			MinRarity: minRarity,
		})
		notifier.Start(ctx)
		components.Notifier = notifier
	}

	if cfg.TelegramBotEnabled {
		botCtx, cancelBot := context.WithCancel(context.WithoutCancel(ctx))
		components.StopBot = cancelBot
		bot := telegram.NewBot(client, users)
		go func() {
			if err := bot.Run(botCtx); err != nil {
				slog.Error("Telegram bot stopped with error", "error", err)
			}
		}()
	}

	return notifier, nil
}
