package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/StarCase_Go/internal/casebox"
	"github.com/osse101/StarCase_Go/internal/catalog"
	"github.com/osse101/StarCase_Go/internal/database/memory"
	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/feed"
	"github.com/osse101/StarCase_Go/internal/leaderboard"
	"github.com/osse101/StarCase_Go/internal/prize"
	"github.com/osse101/StarCase_Go/internal/sse"
	"github.com/osse101/StarCase_Go/internal/user"
	"github.com/osse101/StarCase_Go/internal/validation"
)

const testAPIKey = "test-key"

type stubResetter struct {
	calls int
}

func (s *stubResetter) RunNow(ctx context.Context) (int64, error) {
	s.calls++
	return 3, nil
}

func newTestRouter(t *testing.T, resetter *stubResetter) (http.Handler, *memory.Store) {
	t.Helper()

	store := memory.New()
	store.PutUser(domain.User{ID: "u1", TelegramID: 7, Username: "bob", Balance: domain.Balance{Stars: 500}})
	store.PutItem(domain.Item{ID: "cap", Name: "Cap", Rarity: domain.RarityRare, StarValue: 150})
	store.PutCase(domain.Case{
		ID:      "basic",
		Name:    "Basic",
		Price:   100,
		Entries: []domain.CaseEntry{{ItemID: "cap", Probability: 1}},
	})

	deps := Dependencies{
		Store:       store,
		Users:       user.NewService(store, user.Config{StartingStars: 0, MaxAttempts: 3}),
		Cases:       casebox.NewService(store, prize.NewSelector(prize.FixedSource(0.5)), nil, casebox.DefaultConfig()),
		Catalog:     catalog.NewService(store, validation.NewSchemaValidator(), catalog.Config{CacheTTL: time.Minute, CacheSize: 8}),
		Leaderboard: leaderboard.NewService(store, 10, time.Minute),
		Feed:        feed.NewService(10, nil),
		Hub:         sse.NewHub(),
	}
	if resetter != nil {
		deps.WeeklyReset = resetter
	}

	return NewRouter(Options{APIKey: testAPIKey}, deps), store
}

func do(t *testing.T, h http.Handler, method, target, key string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if key != "" {
		req.Header.Set(HeaderAPIKey, key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicRoutes(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	for _, path := range []string{
		"/healthz",
		"/readyz",
		"/version",
		"/api/v1/catalog/items",
		"/api/v1/cases",
		"/api/v1/cases/basic",
		"/api/v1/leaderboard",
		"/api/v1/feed",
	} {
		t.Run(path, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouter_UnknownCaseIs404(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := do(t, h, http.MethodGet, "/api/v1/cases/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ProtectedRoutesRequireKey(t *testing.T) {
	h, _ := newTestRouter(t, &stubResetter{})

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/cases/open"},
		{http.MethodPost, "/api/v1/user/register"},
		{http.MethodGet, "/api/v1/user/profile?user_id=u1"},
		{http.MethodGet, "/api/v1/user/inventory?user_id=u1"},
		{http.MethodPost, "/api/v1/user/item/sell"},
		{http.MethodPost, "/api/v1/user/item/withdraw"},
		{http.MethodPost, "/api/v1/user/item/upgrade"},
		{http.MethodPost, "/api/v1/admin/user/credit"},
		{http.MethodPost, "/api/v1/admin/catalog/reload"},
		{http.MethodPost, "/api/v1/admin/leaderboard/reset"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := do(t, h, rt.method, rt.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			rec = do(t, h, rt.method, rt.path, "wrong", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRouter_OpenCaseFlow(t *testing.T) {
	h, store := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/cases/open", testAPIKey, map[string]interface{}{
		"case_id": "basic",
		"user_id": "u1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result casebox.OpenResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, int64(100), result.Spent)
	require.Len(t, result.Prizes, 1)
	assert.Equal(t, int64(400), result.Balance.Stars)

	inv, err := store.GetInventory(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, inv, 1)
	assert.Equal(t, "cap", inv[0].ID)

	rec = do(t, h, http.MethodGet, "/api/v1/leaderboard", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"u1"`)
}

func TestRouter_WeeklyResetRoute(t *testing.T) {
	t.Run("mounted when a resetter is wired", func(t *testing.T) {
		resetter := &stubResetter{}
		h, _ := newTestRouter(t, resetter)

		rec := do(t, h, http.MethodPost, "/api/v1/admin/leaderboard/reset", testAPIKey, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, resetter.calls)
	})

	t.Run("absent otherwise", func(t *testing.T) {
		h, _ := newTestRouter(t, nil)

		rec := do(t, h, http.MethodPost, "/api/v1/admin/leaderboard/reset", testAPIKey, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, nil)
	do(t, h, http.MethodGet, "/healthz", "", nil)

	rec := do(t, h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestNewServer(t *testing.T) {
	srv := NewServer(Options{Port: 9123, APIKey: testAPIKey}, Dependencies{
		Store: memory.New(),
		Hub:   sse.NewHub(),
	})
	assert.Equal(t, ":9123", srv.httpServer.Addr)
	assert.Equal(t, DefaultReadHeaderTimeout, srv.httpServer.ReadHeaderTimeout)
	assert.NotNil(t, srv.Handler())
	assert.NoError(t, srv.Stop(context.Background()))
}

func TestRouter_SwaggerDoc(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := do(t, h, http.MethodGet, "/swagger/doc.json", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "StarCase API")
	assert.Contains(t, rec.Body.String(), "/api/v1/cases/open")
}
