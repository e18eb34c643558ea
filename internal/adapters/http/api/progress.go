// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/yomu/leitura/internal/domain/model"
)

// ProgressDependencies defines the interface for progress recording.
type ProgressDependencies interface {
	RecordProgress(ctx context.Context, userID, bookID string, unit model.ProgressUnit, quantity int) (*model.ProgressEntry, error)
	CurrentLevel(ctx context.Context, userID string) (int64, int, error)
}

// ProgressHandler handles progress submissions.
type ProgressHandler struct {
	deps ProgressDependencies
}

// NewProgressHandler creates a new progress handler.
func NewProgressHandler(deps ProgressDependencies) *ProgressHandler {
	return &ProgressHandler{deps: deps}
}

// progressRequest mirrors the POST /progress body.
type progressRequest struct {
	UserID   string `json:"user_id"`
	BookID   string `json:"book_id"`
	Unit     string `json:"unit"`
	Quantity int    `json:"quantity"`
}

func (p progressRequest) validate() error {
	switch {
	case strings.TrimSpace(p.UserID) == "":
		return errors.New("missing user_id")
	case strings.TrimSpace(p.BookID) == "":
		return errors.New("missing book_id")
	case strings.TrimSpace(p.Unit) == "":
		return errors.New("missing unit")
	}
	return nil
}

// progressResponse is the read shape of a recorded entry.
type progressResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	BookID    string `json:"book_id"`
	Unit      string `json:"unit"`
	Quantity  int    `json:"quantity"`
	XPEarned  int64  `json:"xp_earned"`
	CreatedAt string `json:"created_at"`
}

// HandlePostProgress handles POST /progress requests.
func (h *ProgressHandler) HandlePostProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	entry, err := h.deps.RecordProgress(r.Context(), req.UserID, req.BookID, model.ProgressUnit(req.Unit), req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, progressResponse{
		ID:        entry.ID,
		UserID:    entry.UserID,
		BookID:    entry.BookID,
		Unit:      string(entry.Unit),
		Quantity:  entry.Quantity,
		XPEarned:  entry.XPEarned,
		CreatedAt: entry.CreatedAt.Format(timeFormat),
	})
}
