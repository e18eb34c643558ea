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

// UserDependencies defines the interface for user operations.
type UserDependencies interface {
	CreateUser(ctx context.Context, username, name, email string) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByInviteCode(ctx context.Context, code string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	CurrentLevel(ctx context.Context, userID string) (int64, int, error)
	ListBooksByUser(ctx context.Context, userID string) ([]*model.Book, error)
	ListProgressByUser(ctx context.Context, userID string) ([]*model.ProgressEntry, error)
	ListGoalsByUser(ctx context.Context, userID string) ([]*model.Goal, error)
	ListFriendships(ctx context.Context, userID string) ([]*model.FriendEdge, error)
	ListNotificationsByUser(ctx context.Context, userID string) ([]*model.Notification, error)
	ListReferralsByUser(ctx context.Context, userID string) ([]*model.Referral, error)
}

// UserHandler handles user requests.
type UserHandler struct {
	deps UserDependencies
}

// NewUserHandler creates a new user handler.
func NewUserHandler(deps UserDependencies) *UserHandler {
	return &UserHandler{deps: deps}
}

// userRequest mirrors the POST /users body.
type userRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// levelResponse is the read shape of GET /users/{id}/level.
type levelResponse struct {
	UserID       string `json:"user_id"`
	CumulativeXP int64  `json:"cumulative_xp"`
	Level        int    `json:"level"`
}

// HandleUsers handles POST /users and GET /users requests.
func (h *UserHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req userRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		user, err := h.deps.CreateUser(r.Context(), req.Username, req.Name, req.Email)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, user)
	case http.MethodGet:
		users, err := h.deps.ListUsers(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	default:
		http.NotFound(w, r)
	}
}

// HandleUserSubtree handles GET /users/{id}, GET /users/{id}/level,
// GET /users/{id}/{books,progress,goals,friendships,notifications,referrals},
// and GET /users/invite/{code}.
func (h *UserHandler) HandleUserSubtree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/users/")
	parts := strings.Split(path, "/")

	if len(parts) == 2 && parts[0] == "invite" {
		user, err := h.deps.GetUserByInviteCode(r.Context(), parts[1])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
		return
	}

	switch len(parts) {
	case 1:
		if parts[0] == "" {
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing user id"))
			return
		}
		user, err := h.deps.GetUser(r.Context(), parts[0])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	case 2:
		h.handleUserCollection(w, r, parts[0], parts[1])
	default:
		http.NotFound(w, r)
	}
}

func (h *UserHandler) handleUserCollection(w http.ResponseWriter, r *http.Request, userID, collection string) {
	ctx := r.Context()

	// Shared existence check so unknown users 404 uniformly.
	if _, err := h.deps.GetUser(ctx, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	var (
		payload any
		err     error
	)
	switch collection {
	case "level":
		xp, lvl, lerr := h.deps.CurrentLevel(ctx, userID)
		payload, err = levelResponse{UserID: userID, CumulativeXP: xp, Level: lvl}, lerr
	case "books":
		payload, err = h.deps.ListBooksByUser(ctx, userID)
	case "progress":
		payload, err = h.deps.ListProgressByUser(ctx, userID)
	case "goals":
		payload, err = h.deps.ListGoalsByUser(ctx, userID)
	case "friendships":
		payload, err = h.deps.ListFriendships(ctx, userID)
	case "notifications":
		payload, err = h.deps.ListNotificationsByUser(ctx, userID)
	case "referrals":
		payload, err = h.deps.ListReferralsByUser(ctx, userID)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}
