package handler

import (
	"net/http"

	"github.com/osse101/StarCase_Go/internal/leaderboard"
)

// HandleGetLeaderboard returns the weekly spending ranking
// @Summary Weekly leaderboard
// @Tags leaderboard
// @Produce json
// @Param limit query int false "Number of entries (1-100)"
// @Success 200 {array} domain.LeaderboardEntry
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/leaderboard [get]
func HandleGetLeaderboard(svc leaderboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(r, w, leaderboard.MaxSize)
		if !ok {
			return
		}

		entries, err := svc.Top(r.Context(), limit)
		if err != nil {
			respondServiceError(w, r, ErrMsgLeaderboardFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, entries)
	}
}
