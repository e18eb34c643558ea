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

// GoalDependencies defines the interface for goal operations.
type GoalDependencies interface {
	CreateGoal(ctx context.Context, userID string, typ model.GoalType, unit model.GoalUnit, target int) (*model.Goal, error)
	GetGoal(ctx context.Context, id string) (*model.Goal, error)
}

// GoalHandler handles goal requests.
type GoalHandler struct {
	deps GoalDependencies
}

// NewGoalHandler creates a new goal handler.
func NewGoalHandler(deps GoalDependencies) *GoalHandler {
	return &GoalHandler{deps: deps}
}

// goalRequest mirrors the POST /goals body.
type goalRequest struct {
	UserID string `json:"user_id"`
	Type   string `json:"type"`
	Unit   string `json:"unit"`
	Target int    `json:"target"`
}

// HandlePostGoal handles POST /goals requests.
func (h *GoalHandler) HandlePostGoal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	g, err := h.deps.CreateGoal(r.Context(), req.UserID, model.GoalType(req.Type), model.GoalUnit(req.Unit), req.Target)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

// HandleGetGoal handles GET /goals/{id} requests.
func (h *GoalHandler) HandleGetGoal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/goals/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing goal id"))
		return
	}
	g, err := h.deps.GetGoal(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
