package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/StarCase_Go/internal/event"
	"github.com/osse101/StarCase_Go/internal/repository"
	"github.com/osse101/StarCase_Go/internal/server"
	"github.com/osse101/StarCase_Go/internal/sse"
	"github.com/osse101/StarCase_Go/internal/telegram"
	"github.com/osse101/StarCase_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil components are skipped.
type ShutdownComponents struct {
	Server             *server.Server
	WeeklyResetWorker  *worker.WeeklyResetWorker
	Notifier           *telegram.Notifier
	Hub                *sse.Hub
	ResilientPublisher *event.ResilientPublisher
	Store              repository.Store
	// StopBot cancels the Telegram long-poll loop
	StopBot context.CancelFunc
}

// GracefulShutdown stops components in dependency order:
//  1. HTTP server (stop accepting new requests)
//  2. Telegram bot and the weekly reset worker
//  3. Event publisher (flush pending events)
//  4. Telegram notifier (drain queued announcements)
//  5. SSE hub, then the store
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.StopBot != nil {
		components.StopBot()
		slog.Info(LogMsgBotStopped)
	}

	if components.WeeklyResetWorker != nil {
		if err := components.WeeklyResetWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgWeeklyResetShutdownFailed, "error", err)
		}
	}

	// Flush retries before the notifier stops so late drops still get announced
	if components.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if components.Notifier != nil {
		if err := components.Notifier.Shutdown(ctx); err != nil {
			slog.Error(LogMsgNotifierShutdownFailed, "error", err)
		}
	}

	if components.Hub != nil {
		components.Hub.Stop()
	}

	if components.Store != nil {
		components.Store.Close()
		slog.Info(LogMsgStoreClosed)
	}

	slog.Info(LogMsgServerStopped)
}
