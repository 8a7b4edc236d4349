package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/StarCase_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version  string                 `json:"version"`
	Type     Type                   `json:"type"`
	Payload  interface{}            `json:"payload"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Event types
const (
	CaseOpened       Type = domain.EventTypeCaseOpened
	ItemUpgraded     Type = domain.EventTypeItemUpgraded
	ItemSold         Type = domain.EventTypeItemSold
	ItemWithdrawn    Type = domain.EventTypeItemWithdrawn
	LeaderboardReset Type = domain.EventTypeLeaderboardReset
)

// DropV1 describes one item handed out by a case or upgrade
type DropV1 struct {
	InventoryID string `json:"inventory_id,omitempty"`
	ItemID      string `json:"item_id"`
	ItemName    string `json:"item_name"`
	Rarity      string `json:"rarity"`
	StarValue   int64  `json:"star_value"`
	ImageURL    string `json:"image_url,omitempty"`
}

// NewDrop builds a drop from a catalog item
func NewDrop(item domain.Item, inventoryID string) DropV1 {
	return DropV1{
		InventoryID: inventoryID,
		ItemID:      item.ID,
		ItemName:    item.Name,
		Rarity:      string(item.Rarity),
		StarValue:   item.StarValue,
		ImageURL:    item.ImageURL,
	}
}

// CaseOpenedPayloadV1 is the typed payload for case.opened events
type CaseOpenedPayloadV1 struct {
	UserID     string   `json:"user_id"`
	Username   string   `json:"username"`
	CaseID     string   `json:"case_id"`
	CaseName   string   `json:"case_name"`
	Multiplier int      `json:"multiplier"`
	Spent      int64    `json:"spent"`
	Drops      []DropV1 `json:"drops"`
	Timestamp  int64    `json:"timestamp"`
}

// ItemUpgradedPayloadV1 is the typed payload for item.upgraded events
type ItemUpgradedPayloadV1 struct {
	UserID       string  `json:"user_id"`
	Username     string  `json:"username"`
	SourceItemID string  `json:"source_item_id"`
	TargetItemID string  `json:"target_item_id"`
	Success      bool    `json:"success"`
	Chance       float64 `json:"chance"`
	Drop         *DropV1 `json:"drop,omitempty"`
	Timestamp    int64   `json:"timestamp"`
}

// ItemSoldPayloadV1 is the typed payload for item.sold events
type ItemSoldPayloadV1 struct {
	UserID      string `json:"user_id"`
	InventoryID string `json:"inventory_id"`
	ItemID      string `json:"item_id"`
	StarValue   int64  `json:"star_value"`
	Timestamp   int64  `json:"timestamp"`
}

// ItemWithdrawnPayloadV1 is the typed payload for item.withdrawn events
type ItemWithdrawnPayloadV1 struct {
	UserID       string `json:"user_id"`
	WithdrawalID string `json:"withdrawal_id"`
	InventoryID  string `json:"inventory_id"`
	ItemID       string `json:"item_id"`
	Wallet       string `json:"wallet"`
	Timestamp    int64  `json:"timestamp"`
}

// LeaderboardResetPayloadV1 is the typed payload for leaderboard.reset events
type LeaderboardResetPayloadV1 struct {
	ResetTime       time.Time `json:"reset_time"`
	RecordsAffected int64     `json:"records_affected"`
}

// NewCaseOpenedEvent creates a case.opened event
func NewCaseOpenedEvent(payload CaseOpenedPayloadV1) Event {
	return Event{Version: EventSchemaVersion, Type: CaseOpened, Payload: payload}
}

// NewItemUpgradedEvent creates an item.upgraded event
func NewItemUpgradedEvent(payload ItemUpgradedPayloadV1) Event {
	return Event{Version: EventSchemaVersion, Type: ItemUpgraded, Payload: payload}
}

// NewItemSoldEvent creates an item.sold event
func NewItemSoldEvent(payload ItemSoldPayloadV1) Event {
	return Event{Version: EventSchemaVersion, Type: ItemSold, Payload: payload}
}

// NewItemWithdrawnEvent creates an item.withdrawn event
func NewItemWithdrawnEvent(payload ItemWithdrawnPayloadV1) Event {
	return Event{Version: EventSchemaVersion, Type: ItemWithdrawn, Payload: payload}
}

// NewLeaderboardResetEvent creates a leaderboard.reset event
func NewLeaderboardResetEvent(resetTime time.Time, recordsAffected int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LeaderboardReset,
		Payload: LeaderboardResetPayloadV1{
			ResetTime:       resetTime,
			RecordsAffected: recordsAffected,
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// Publisher publishes without surfacing errors to the caller
type Publisher interface {
	PublishWithRetry(ctx context.Context, event Event)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber synchronously and aggregates their errors
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
