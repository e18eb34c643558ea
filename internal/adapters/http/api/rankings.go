// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/yomu/leitura/internal/domain/model"
	"github.com/yomu/leitura/internal/domain/period"
)

// RFC3339 for response timestamps.
const timeFormat = time.RFC3339

// RankingDependencies defines the interface for ranking reads.
type RankingDependencies interface {
	GetRanking(ctx context.Context, scope period.Scope, p period.Period) (*model.RankingSnapshot, error)
}

// RankingHandler handles ranking requests.
type RankingHandler struct {
	deps     RankingDependencies
	maxLimit int
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps RankingDependencies, maxLimit int) *RankingHandler {
	return &RankingHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetRanking handles GET /rankings?scope=&period=&user_id=&limit= requests.
// The returned snapshot may be stale by up to the staleness throttle.
func (h *RankingHandler) HandleGetRanking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	scope, err := parseScope(q.Get("scope"), q.Get("user_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	p := period.Period(q.Get("period"))
	if p == "" {
		p = period.Total
	}

	limit := h.maxLimit
	if limitStr := q.Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 || n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "bad_request", ErrInvalidLimit)
			return
		}
		limit = n
	}

	snap, err := h.deps.GetRanking(r.Context(), scope, p)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	entries := snap.Entries
	if len(entries) > limit {
		entries = entries[:limit]
	}
	writeJSON(w, http.StatusOK, snapshotResponse{
		Scope:     string(snap.Key.Scope.Kind),
		Period:    string(snap.Key.Period),
		Entries:   entries,
		UpdatedAt: snap.UpdatedAt.Format(timeFormat),
	})
}
