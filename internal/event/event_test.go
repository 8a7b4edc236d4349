package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/StarCase_Go/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	var got Event

	bus.Subscribe(CaseOpened, func(ctx context.Context, event Event) error {
		got = event
		return nil
	})

	evt := NewCaseOpenedEvent(CaseOpenedPayloadV1{UserID: "u1", CaseID: "starter"})
	require.NoError(t, bus.Publish(context.Background(), evt))

	assert.Equal(t, CaseOpened, got.Type)
	assert.Equal(t, EventSchemaVersion, got.Version)
	payload, err := DecodePayload[CaseOpenedPayloadV1](got.Payload)
	require.NoError(t, err)
	assert.Equal(t, "starter", payload.CaseID)
}

func TestMemoryBus_PublishMultipleHandlers(t *testing.T) {
	bus := NewMemoryBus()
	count := 0
	handler := func(ctx context.Context, event Event) error {
		count++
		return nil
	}

	bus.Subscribe(ItemSold, handler)
	bus.Subscribe(ItemSold, handler)

	require.NoError(t, bus.Publish(context.Background(), Event{Version: "1.0", Type: ItemSold}))
	assert.Equal(t, 2, count)
}

func TestMemoryBus_NoSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	assert.NoError(t, bus.Publish(context.Background(), Event{Type: ItemWithdrawn}))
}

func TestMemoryBus_PublishErrorStillRunsRemainingHandlers(t *testing.T) {
	bus := NewMemoryBus()
	ran := false

	bus.Subscribe(ItemUpgraded, func(ctx context.Context, event Event) error {
		return errors.New("handler error")
	})
	bus.Subscribe(ItemUpgraded, func(ctx context.Context, event Event) error {
		ran = true
		return nil
	})

	err := bus.Publish(context.Background(), Event{Version: "1.0", Type: ItemUpgraded})
	assert.Error(t, err)
	assert.True(t, ran)
}

func TestDecodePayload_JSONFallback(t *testing.T) {
	raw := map[string]interface{}{
		"user_id":   "u1",
		"case_id":   "starter",
		"spent":     float64(300),
		"drops":     []interface{}{map[string]interface{}{"item_id": "gem", "rarity": "Rare"}},
		"timestamp": float64(1),
	}

	payload, err := DecodePayload[CaseOpenedPayloadV1](raw)
	require.NoError(t, err)
	assert.Equal(t, int64(300), payload.Spent)
	require.Len(t, payload.Drops, 1)
	assert.Equal(t, "Rare", payload.Drops[0].Rarity)
}

func TestDecodePayload_PointersAndNil(t *testing.T) {
	payload, err := DecodePayload[ItemUpgradedPayloadV1](&ItemUpgradedPayloadV1{UserID: "u1", Success: true})
	require.NoError(t, err)
	assert.Equal(t, "u1", payload.UserID)
	assert.True(t, payload.Success)

	_, err = DecodePayload[ItemUpgradedPayloadV1]((*ItemUpgradedPayloadV1)(nil))
	assert.Error(t, err)

	_, err = DecodePayload[ItemUpgradedPayloadV1](nil)
	assert.Error(t, err)
}

func TestNewDrop(t *testing.T) {
	drop := NewDrop(domain.Item{ID: "gem", Name: "Gem", Rarity: domain.RarityEpic, StarValue: 99}, "inv-1")
	assert.Equal(t, "inv-1", drop.InventoryID)
	assert.Equal(t, "Epic", drop.Rarity)
	assert.Equal(t, int64(99), drop.StarValue)
}

func TestNewLeaderboardResetEvent(t *testing.T) {
	now := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	evt := NewLeaderboardResetEvent(now, 12)
	assert.Equal(t, LeaderboardReset, evt.Type)
	payload, ok := evt.Payload.(LeaderboardResetPayloadV1)
	require.True(t, ok)
	assert.Equal(t, int64(12), payload.RecordsAffected)
}

func TestCalculateRetryDelay(t *testing.T) {
	base := 2 * time.Second
	assert.Equal(t, 2*time.Second, CalculateRetryDelay(base, 1))
	assert.Equal(t, 4*time.Second, CalculateRetryDelay(base, 2))
	assert.Equal(t, 16*time.Second, CalculateRetryDelay(base, 4))
	assert.Equal(t, 2*time.Second, CalculateRetryDelay(base, 0))
}
