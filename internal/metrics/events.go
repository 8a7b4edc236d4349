package metrics

import (
	"context"

	"github.com/osse101/StarCase_Go/internal/event"
	"github.com/osse101/StarCase_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records business metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	for _, t := range []event.Type{
		event.CaseOpened,
		event.ItemUpgraded,
		event.ItemSold,
		event.ItemWithdrawn,
		event.LeaderboardReset,
	} {
		bus.Subscribe(t, e.HandleEvent)
	}
}

// HandleEvent updates counters from typed payloads
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.CaseOpened:
		p, err := event.DecodePayload[event.CaseOpenedPayloadV1](evt.Payload)
		if err != nil {
			return e.fail(ctx, evt, err)
		}
		CasesOpened.WithLabelValues(p.CaseID).Add(float64(p.Multiplier))
		StarsSpent.WithLabelValues(p.CaseID).Add(float64(p.Spent))
		for _, d := range p.Drops {
			ItemsWon.WithLabelValues(d.Rarity).Inc()
		}
	case event.ItemUpgraded:
		p, err := event.DecodePayload[event.ItemUpgradedPayloadV1](evt.Payload)
		if err != nil {
			return e.fail(ctx, evt, err)
		}
		outcome := "lost"
		if p.Success {
			outcome = "won"
		}
		Upgrades.WithLabelValues(outcome).Inc()
	case event.ItemSold:
		ItemsSold.Inc()
	case event.ItemWithdrawn:
		ItemsWithdrawn.Inc()
	case event.LeaderboardReset:
		LeaderboardResets.Inc()
	}
	return nil
}

func (e *EventMetricsCollector) fail(ctx context.Context, evt event.Event, err error) error {
	EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
	logger.FromContext(ctx).Warn(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
	return err
}
