package telegram

import (
	"context"
	"sync"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/StarCase_Go/internal/domain"
)

// fakeClient records outgoing messages and serves a scripted update channel
type fakeClient struct {
	mu      sync.Mutex
	sent    []*telego.SendMessageParams
	err     error
	updates chan telego.Update
}

func (f *fakeClient) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &telego.Message{}, nil
}

func (f *fakeClient) UpdatesViaLongPolling(ctx context.Context, _ *telego.GetUpdatesParams, _ ...telego.LongPollingOption) (<-chan telego.Update, error) {
	out := make(chan telego.Update)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case u, ok := <-f.updates:
				if !ok {
					return
				}
				select {
				case out <- u:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (f *fakeClient) messages() []*telego.SendMessageParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*telego.SendMessageParams(nil), f.sent...)
}

// MockUsers implements Users for testing
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) Register(ctx context.Context, telegramID int64, username string) (*domain.User, bool, error) {
	args := m.Called(ctx, telegramID, username)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Bool(1), args.Error(2)
}

func (m *MockUsers) GetProfileByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
