package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/StarCase_Go/internal/database/memory"
	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/event"
	"github.com/osse101/StarCase_Go/internal/testing/leaktest"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishWithRetry(ctx context.Context, evt event.Event) {
	m.Called(ctx, evt)
}

type countingInvalidator struct {
	calls atomic.Int32
}

func (c *countingInvalidator) Invalidate() { c.calls.Add(1) }

type slowResetter struct {
	started chan struct{}
	release chan struct{}
}

func (s *slowResetter) ResetWeeklySpending(ctx context.Context) (int64, error) {
	close(s.started)
	<-s.release
	return 1, nil
}

type failingResetter struct{}

func (failingResetter) ResetWeeklySpending(ctx context.Context) (int64, error) {
	return 0, errors.New("db down")
}

func seededStore() *memory.Store {
	store := memory.New()
	store.PutUser(domain.User{ID: "u1", TelegramID: 1, Username: "alice", WeeklySpending: 500})
	store.PutUser(domain.User{ID: "u2", TelegramID: 2, Username: "bob", WeeklySpending: 20})
	store.PutUser(domain.User{ID: "u3", TelegramID: 3, Username: "carol"})
	return store
}

func TestRunNow_ResetsPublishesAndInvalidates(t *testing.T) {
	store := seededStore()
	pub := &MockPublisher{}
	cache := &countingInvalidator{}
	w := NewWeeklyResetWorker(store, pub, cache, "")
	resetAt := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return resetAt }

	pub.On("PublishWithRetry", mock.Anything, event.NewLeaderboardResetEvent(resetAt, 2)).Once()

	affected, err := w.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
	assert.Equal(t, int32(1), cache.calls.Load())

	top, err := store.TopWeeklySpenders(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, top)
	pub.AssertExpectations(t)
}

func TestRunNow_FailureDoesNotPublish(t *testing.T) {
	pub := &MockPublisher{}
	cache := &countingInvalidator{}
	w := NewWeeklyResetWorker(failingResetter{}, pub, cache, "")

	_, err := w.RunNow(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.Zero(t, cache.calls.Load())
	pub.AssertNotCalled(t, "PublishWithRetry", mock.Anything, mock.Anything)
}

func TestStart_RejectsInvalidSchedule(t *testing.T) {
	w := NewWeeklyResetWorker(seededStore(), nil, nil, "not a schedule")
	err := w.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a schedule")
	require.NoError(t, w.Shutdown(context.Background()))
}

func TestStart_FiresOnSchedule(t *testing.T) {
	defer leaktest.NewGoroutineChecker(t).Check(0)

	store := seededStore()
	cache := &countingInvalidator{}
	w := NewWeeklyResetWorker(store, nil, cache, "@every 1s")
	require.NoError(t, w.Start())

	require.Eventually(t, func() bool { return cache.calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, w.Shutdown(ctx))

	u, err := store.GetUserByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, u.WeeklySpending)
}

func TestShutdown_WaitsForInFlightReset(t *testing.T) {
	defer leaktest.NewGoroutineChecker(t).Check(0)

	resetter := &slowResetter{started: make(chan struct{}), release: make(chan struct{})}
	w := NewWeeklyResetWorker(resetter, nil, nil, "")
	require.NoError(t, w.Start())

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_, _ = w.RunNow(context.Background())
	}()
	<-resetter.started

	shutdownDone := make(chan error, 1)
	go func() { shutdownDone <- w.Shutdown(context.Background()) }()

	select {
	case <-shutdownDone:
		t.Fatal("Shutdown returned while a reset was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(resetter.release)
	require.NoError(t, <-shutdownDone)
	<-runDone

	_, err := w.RunNow(context.Background())
	assert.ErrorIs(t, err, ErrWorkerStopped)
}

func TestShutdown_Timeout(t *testing.T) {
	resetter := &slowResetter{started: make(chan struct{}), release: make(chan struct{})}
	w := NewWeeklyResetWorker(resetter, nil, nil, "")

	go func() { _, _ = w.RunNow(context.Background()) }()
	<-resetter.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Shutdown(ctx), context.DeadlineExceeded)
	close(resetter.release)
}
