// Package feed keeps the most recent drops in memory and pushes new ones to
// live stream subscribers.
package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/StarCase_Go/internal/event"
	"github.com/osse101/StarCase_Go/internal/logger"
)

// Defaults
const (
	DefaultCapacity = 50

	// EventTypeDrop is the SSE event type of a new feed entry
	EventTypeDrop = "feed.drop"
)

// Sources of a drop
const (
	SourceCase    = "case"
	SourceUpgrade = "upgrade"
)

// Log messages
const (
	LogMsgSubscribed    = "Live feed subscribed to drop events"
	LogMsgDecodeFailed  = "Live feed could not decode event payload"
	LogMsgDropsRecorded = "Live feed recorded drops"
)

// Drop is one entry of the live feed
type Drop struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Username  string       `json:"username"`
	Source    string       `json:"source"`
	CaseID    string       `json:"case_id,omitempty"`
	CaseName  string       `json:"case_name,omitempty"`
	Item      event.DropV1 `json:"item"`
	Timestamp int64        `json:"timestamp"`
}

// Broadcaster receives every new drop. *sse.Hub satisfies it.
type Broadcaster interface {
	Broadcast(eventType string, payload interface{})
}

// Service is the live feed
type Service struct {
	mu    sync.RWMutex
	ring  []Drop
	next  int
	count int

	broadcaster Broadcaster
	newID       func() string
}

// NewService creates a feed holding at most capacity drops. broadcaster may be nil.
func NewService(capacity int, broadcaster Broadcaster) *Service {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Service{
		ring:        make([]Drop, capacity),
		broadcaster: broadcaster,
		newID:       uuid.NewString,
	}
}

// Subscribe registers the feed on the bus
func (s *Service) Subscribe(bus event.Bus) {
	bus.Subscribe(event.CaseOpened, s.handleCaseOpened)
	bus.Subscribe(event.ItemUpgraded, s.handleItemUpgraded)
	logger.FromContext(context.Background()).Info(LogMsgSubscribed,
		"types", []event.Type{event.CaseOpened, event.ItemUpgraded},
		"capacity", len(s.ring))
}

// Capacity returns the maximum number of drops kept
func (s *Service) Capacity() int {
	return len(s.ring)
}

// Add appends a drop, overwriting the oldest one when full
func (s *Service) Add(d Drop) {
	if d.ID == "" {
		d.ID = s.newID()
	}
	if d.Timestamp == 0 {
		d.Timestamp = time.Now().Unix()
	}

	s.mu.Lock()
	s.ring[s.next] = d
	s.next = (s.next + 1) % len(s.ring)
	if s.count < len(s.ring) {
		s.count++
	}
	s.mu.Unlock()

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(EventTypeDrop, d)
	}
}

// Recent returns up to limit drops, newest first. limit <= 0 returns all.
func (s *Service) Recent(limit int) []Drop {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := s.count
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Drop, n)
	for i := 0; i < n; i++ {
		idx := (s.next - 1 - i + len(s.ring)) % len(s.ring)
		out[i] = s.ring[idx]
	}
	return out
}

func (s *Service) handleCaseOpened(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.CaseOpenedPayloadV1](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgDecodeFailed, "type", evt.Type, "error", err)
		return fmt.Errorf("decode %s: %w", evt.Type, err)
	}
	for _, item := range payload.Drops {
		s.Add(Drop{
			UserID:    payload.UserID,
			Username:  payload.Username,
			Source:    SourceCase,
			CaseID:    payload.CaseID,
			CaseName:  payload.CaseName,
			Item:      item,
			Timestamp: payload.Timestamp,
		})
	}
	logger.FromContext(ctx).Debug(LogMsgDropsRecorded, "case_id", payload.CaseID, "count", len(payload.Drops))
	return nil
}

func (s *Service) handleItemUpgraded(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.ItemUpgradedPayloadV1](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgDecodeFailed, "type", evt.Type, "error", err)
		return fmt.Errorf("decode %s: %w", evt.Type, err)
	}
	// Failed upgrades produce nothing to show
	if !payload.Success || payload.Drop == nil {
		return nil
	}
	s.Add(Drop{
		UserID:    payload.UserID,
		Username:  payload.Username,
		Source:    SourceUpgrade,
		Item:      *payload.Drop,
		Timestamp: payload.Timestamp,
	})
	return nil
}
