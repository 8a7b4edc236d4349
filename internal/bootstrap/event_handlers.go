package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/StarCase_Go/internal/event"
	"github.com/osse101/StarCase_Go/internal/feed"
	"github.com/osse101/StarCase_Go/internal/metrics"
	"github.com/osse101/StarCase_Go/internal/telegram"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus    event.Bus
	Feed        *feed.Service
	Broadcaster feed.Broadcaster
	// Notifier is nil when Telegram notifications are disabled
	Notifier *telegram.Notifier
}

// RegisterEventHandlers sets up all event subscribers:
//   - metrics collector for business counters
//   - live feed for case.opened and item.upgraded
//   - Telegram notifier for rare drops
//   - SSE push of leaderboard.reset
func RegisterEventHandlers(deps EventHandlerDependencies) {
	metrics.NewEventMetricsCollector().Register(deps.EventBus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	if deps.Feed != nil {
		deps.Feed.Subscribe(deps.EventBus)
		slog.Info(LogMsgFeedSubscribed)
	}

	if deps.Notifier != nil {
		deps.Notifier.Subscribe(deps.EventBus)
		slog.Info(LogMsgNotifierSubscribed)
	}

	if deps.Broadcaster != nil {
		broadcaster := deps.Broadcaster
		deps.EventBus.Subscribe(event.LeaderboardReset, func(ctx context.Context, evt event.Event) error {
			broadcaster.Broadcast(SSEEventLeaderboardReset, evt.Payload)
			return nil
		})
		slog.Info(LogMsgLeaderboardBridgeSet)
	}
}
