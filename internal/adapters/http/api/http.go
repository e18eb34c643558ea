// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yomu/leitura/internal/adapters/repository"
	service "github.com/yomu/leitura/internal/app"
	"github.com/yomu/leitura/internal/domain/goal"
	"github.com/yomu/leitura/internal/domain/model"
	"github.com/yomu/leitura/internal/domain/period"
	"github.com/yomu/leitura/internal/domain/scoring"
)

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to implementations in other
// packages.
type Dependencies interface {
	ProgressDependencies
	RankingDependencies
	UserDependencies
	BookDependencies
	GoalDependencies
	SocialDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	progressHandler *ProgressHandler
	rankingHandler  *RankingHandler
	userHandler     *UserHandler
	bookHandler     *BookHandler
	goalHandler     *GoalHandler
	socialHandler   *SocialHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRankingLimit int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		progressHandler: NewProgressHandler(deps),
		rankingHandler:  NewRankingHandler(deps, maxRankingLimit),
		userHandler:     NewUserHandler(deps),
		bookHandler:     NewBookHandler(deps),
		goalHandler:     NewGoalHandler(deps),
		socialHandler:   NewSocialHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/progress", MetricsMiddleware(s.progressHandler.HandlePostProgress, "progress"))
	mux.HandleFunc("/rankings", MetricsMiddleware(s.rankingHandler.HandleGetRanking, "rankings"))
	mux.HandleFunc("/users", MetricsMiddleware(s.userHandler.HandleUsers, "users"))
	mux.HandleFunc("/users/", MetricsMiddleware(s.userHandler.HandleUserSubtree, "users"))
	mux.HandleFunc("/books", MetricsMiddleware(s.bookHandler.HandlePostBook, "books"))
	mux.HandleFunc("/books/", MetricsMiddleware(s.bookHandler.HandleGetBook, "books"))
	mux.HandleFunc("/goals", MetricsMiddleware(s.goalHandler.HandlePostGoal, "goals"))
	mux.HandleFunc("/goals/", MetricsMiddleware(s.goalHandler.HandleGetGoal, "goals"))
	mux.HandleFunc("/friendships", MetricsMiddleware(s.socialHandler.HandlePostFriendship, "friendships"))
	mux.HandleFunc("/friendships/", MetricsMiddleware(s.socialHandler.HandleFriendshipAction, "friendships"))
	mux.HandleFunc("/referrals", MetricsMiddleware(s.socialHandler.HandlePostReferral, "referrals"))
	mux.HandleFunc("/referrals/", MetricsMiddleware(s.socialHandler.HandleReferralAction, "referrals"))
	mux.HandleFunc("/notifications/", MetricsMiddleware(s.socialHandler.HandleNotificationAction, "notifications"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates domain error kinds into HTTP responses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err)
	case errors.Is(err, scoring.ErrInvalidQuantity),
		errors.Is(err, goal.ErrGoalNotActive),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrSelfFriendship),
		errors.Is(err, service.ErrSelfReferral),
		errors.Is(err, service.ErrNotPending):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrNotFriends):
		writeError(w, http.StatusConflict, "not_friends", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// parseScope builds a ranking scope from query parameters.
func parseScope(kind, userID string) (period.Scope, error) {
	switch period.ScopeKind(kind) {
	case period.General, "":
		return period.GeneralScope(), nil
	case period.Friends:
		if userID == "" {
			return period.Scope{}, errors.New("user_id is required for the FRIENDS scope")
		}
		return period.FriendScope(userID), nil
	default:
		return period.Scope{}, errors.New("unknown scope: " + kind)
	}
}

// snapshotResponse is the read shape of a ranking snapshot.
type snapshotResponse struct {
	Scope     string               `json:"scope"`
	Period    string               `json:"period"`
	Entries   []model.RankingEntry `json:"entries"`
	UpdatedAt string               `json:"updated_at"`
}
