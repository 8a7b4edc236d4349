package handler

import (
	"net/http"

	"github.com/osse101/StarCase_Go/internal/feed"
)

// FeedReader serves snapshots of the live feed
type FeedReader interface {
	Recent(limit int) []feed.Drop
	Capacity() int
}

// HandleGetFeed returns the most recent drops, newest first
// @Summary Live feed snapshot
// @Tags feed
// @Produce json
// @Param limit query int false "Number of drops"
// @Success 200 {array} feed.Drop
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/feed [get]
func HandleGetFeed(reader FeedReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(r, w, reader.Capacity())
		if !ok {
			return
		}
		respondJSON(w, http.StatusOK, reader.Recent(limit))
	}
}
