package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/event"
	"github.com/osse101/StarCase_Go/internal/feed"
)

func TestHandleGetLeaderboard(t *testing.T) {
	entries := []domain.LeaderboardEntry{
		{Rank: 1, UserID: "user-2", Username: "bob", WeeklySpending: 900},
		{Rank: 2, UserID: "user-1", Username: "alice", WeeklySpending: 300},
	}

	t.Run("default size", func(t *testing.T) {
		mockSvc := &MockLeaderboardService{}
		mockSvc.On("Top", mock.Anything, 0).Return(entries, nil)

		rec := serve(t, HandleGetLeaderboard(mockSvc), http.MethodGet, "/api/v1/leaderboard", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, entries, decodeBody[[]domain.LeaderboardEntry](t, rec))
	})

	t.Run("explicit limit", func(t *testing.T) {
		mockSvc := &MockLeaderboardService{}
		mockSvc.On("Top", mock.Anything, 1).Return(entries[:1], nil)

		rec := serve(t, HandleGetLeaderboard(mockSvc), http.MethodGet, "/api/v1/leaderboard?limit=1", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockSvc.AssertExpectations(t)
	})

	for _, limit := range []string{"0", "-3", "101", "ten"} {
		t.Run("rejects limit "+limit, func(t *testing.T) {
			mockSvc := &MockLeaderboardService{}

			rec := serve(t, HandleGetLeaderboard(mockSvc), http.MethodGet, "/api/v1/leaderboard?limit="+limit, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), ErrMsgInvalidLimit)
			mockSvc.AssertNotCalled(t, "Top", mock.Anything, mock.Anything)
		})
	}
}

func TestHandleGetFeed(t *testing.T) {
	reader := &stubFeed{drops: []feed.Drop{
		{ID: "d2", Username: "bob", Source: feed.SourceUpgrade, Item: event.DropV1{ItemID: "pepe", Rarity: "NFT"}},
		{ID: "d1", Username: "alice", Source: feed.SourceCase, CaseID: "starter", Item: event.DropV1{ItemID: "bear"}},
	}}

	rec := serve(t, HandleGetFeed(reader), http.MethodGet, "/api/v1/feed?limit=1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[[]feed.Drop](t, rec)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "d2", got[0].ID)
	}

	rec = serve(t, HandleGetFeed(reader), http.MethodGet, "/api/v1/feed?limit=51", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
