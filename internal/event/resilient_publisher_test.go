package event

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBus is a test double for event.Bus
type mockBus struct {
	mu           sync.Mutex
	calls        []Event
	failCount    int32
	shouldFail   func(attempt int) bool
	publishDelay time.Duration
}

func (m *mockBus) Publish(ctx context.Context, event Event) error {
	m.mu.Lock()
	m.calls = append(m.calls, event)
	callCount := len(m.calls)
	m.mu.Unlock()

	if m.publishDelay > 0 {
		time.Sleep(m.publishDelay)
	}

	if m.shouldFail != nil && m.shouldFail(callCount) {
		atomic.AddInt32(&m.failCount, 1)
		return errors.New("mock publish error")
	}
	return nil
}

func (m *mockBus) Subscribe(eventType Type, handler Handler) {}

func (m *mockBus) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func TestResilientPublisher_SuccessfulPublish(t *testing.T) {
	tmpFile := t.TempDir() + "/deadletter.jsonl"
	bus := &mockBus{}

	rp, err := NewResilientPublisher(bus, 3, 100*time.Millisecond, tmpFile)
	require.NoError(t, err)
	defer rp.Shutdown(context.Background())

	rp.PublishWithRetry(context.Background(), Event{Type: CaseOpened, Payload: map[string]interface{}{"test": "data"}})

	assert.Equal(t, 1, bus.CallCount())
	content, _ := os.ReadFile(tmpFile)
	assert.Empty(t, content)
}

func TestResilientPublisher_RetrySuccess(t *testing.T) {
	tmpFile := t.TempDir() + "/deadletter.jsonl"
	bus := &mockBus{shouldFail: func(attempt int) bool { return attempt == 1 }}

	rp, err := NewResilientPublisher(bus, 3, 50*time.Millisecond, tmpFile)
	require.NoError(t, err)
	defer rp.Shutdown(context.Background())

	rp.PublishWithRetry(context.Background(), Event{Type: CaseOpened})

	assert.Eventually(t, func() bool { return bus.CallCount() == 2 }, time.Second, 10*time.Millisecond)
	content, _ := os.ReadFile(tmpFile)
	assert.Empty(t, content)
}

func TestResilientPublisher_RetryExhaustionWritesDeadLetter(t *testing.T) {
	tmpFile := t.TempDir() + "/deadletter.jsonl"
	bus := &mockBus{shouldFail: func(int) bool { return true }}

	rp, err := NewResilientPublisher(bus, 2, 20*time.Millisecond, tmpFile)
	require.NoError(t, err)

	rp.PublishWithRetry(context.Background(), Event{Type: ItemSold, Payload: map[string]interface{}{"id": "456"}})

	// initial + 2 retries
	assert.Eventually(t, func() bool { return bus.CallCount() >= 3 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, rp.Shutdown(context.Background()))

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	require.NotEmpty(t, content)

	var entry DeadLetterEntry
	require.NoError(t, json.Unmarshal(content, &entry))
	assert.Equal(t, ItemSold, entry.Event.Type)
	assert.Equal(t, DeadLetterSchemaVersion, entry.SchemaVersion)
	assert.NotEmpty(t, entry.LastError)
	assert.Equal(t, 2, entry.Attempts)
}

func TestResilientPublisher_QueueOverflow(t *testing.T) {
	tmpFile := t.TempDir() + "/deadletter.jsonl"
	bus := &mockBus{shouldFail: func(int) bool { return true }}

	// No worker is started, so the queue fills after five events
	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, 5),
		maxRetries: 3,
		retryDelay: time.Hour,
		shutdown:   make(chan struct{}),
	}
	dl, err := NewDeadLetterWriter(tmpFile)
	require.NoError(t, err)
	rp.deadLetter = dl
	defer dl.Close()

	for i := 0; i < 10; i++ {
		rp.PublishWithRetry(context.Background(), Event{Type: CaseOpened, Payload: map[string]interface{}{"id": i}})
	}

	assert.Len(t, rp.retryQueue, 5)
	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	assert.NotEmpty(t, content)
}

func TestResilientPublisher_ShutdownDrainsQueue(t *testing.T) {
	tmpFile := t.TempDir() + "/deadletter.jsonl"
	var calls int32
	bus := &mockBus{shouldFail: func(int) bool { return atomic.AddInt32(&calls, 1) <= 3 }}

	rp, err := NewResilientPublisher(bus, 5, time.Hour, tmpFile)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		rp.PublishWithRetry(context.Background(), Event{Type: ItemUpgraded, Payload: map[string]interface{}{"id": i}})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, rp.Shutdown(ctx))

	// Every queued event got one final attempt despite the hour-long delay
	assert.Equal(t, 6, bus.CallCount())
	content, _ := os.ReadFile(tmpFile)
	assert.Empty(t, content)
}

func TestResilientPublisher_ConcurrentPublishes(t *testing.T) {
	tmpFile := t.TempDir() + "/deadletter.jsonl"
	bus := &mockBus{}
	rp, err := NewResilientPublisher(bus, 3, 50*time.Millisecond, tmpFile)
	require.NoError(t, err)
	defer rp.Shutdown(context.Background())

	const goroutines, perGoroutine = 10, 5
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				rp.PublishWithRetry(context.Background(), Event{Type: CaseOpened, Payload: map[string]interface{}{"g": id, "e": j}})
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, goroutines*perGoroutine, bus.CallCount())
}
