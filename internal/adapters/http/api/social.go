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

// SocialDependencies defines the interface for friendship, referral and
// notification operations.
type SocialDependencies interface {
	RequestFriendship(ctx context.Context, requesterID, addresseeID string) (*model.FriendEdge, error)
	AcceptFriendship(ctx context.Context, id string) (*model.FriendEdge, error)
	BlockFriendship(ctx context.Context, id string) (*model.FriendEdge, error)
	CreateReferral(ctx context.Context, senderID, recipientID, bookID, message string) (*model.Referral, error)
	MarkReferralRead(ctx context.Context, id string) error
	MarkNotificationRead(ctx context.Context, id string) error
}

// SocialHandler handles friendship, referral and notification requests.
type SocialHandler struct {
	deps SocialDependencies
}

// NewSocialHandler creates a new social handler.
func NewSocialHandler(deps SocialDependencies) *SocialHandler {
	return &SocialHandler{deps: deps}
}

// friendshipRequest mirrors the POST /friendships body.
type friendshipRequest struct {
	RequesterID string `json:"requester_id"`
	AddresseeID string `json:"addressee_id"`
}

// HandlePostFriendship handles POST /friendships requests.
func (h *SocialHandler) HandlePostFriendship(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req friendshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	edge, err := h.deps.RequestFriendship(r.Context(), req.RequesterID, req.AddresseeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, edge)
}

// HandleFriendshipAction handles POST /friendships/{id}/accept and
// POST /friendships/{id}/block requests.
func (h *SocialHandler) HandleFriendshipAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	id, action, ok := splitAction(r.URL.Path, "/friendships/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("expected /friendships/{id}/{accept|block}"))
		return
	}
	var (
		edge *model.FriendEdge
		err  error
	)
	switch action {
	case "accept":
		edge, err = h.deps.AcceptFriendship(r.Context(), id)
	case "block":
		edge, err = h.deps.BlockFriendship(r.Context(), id)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, edge)
}

// referralRequest mirrors the POST /referrals body.
type referralRequest struct {
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	BookID      string `json:"book_id"`
	Message     string `json:"message"`
}

// HandlePostReferral handles POST /referrals requests.
func (h *SocialHandler) HandlePostReferral(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req referralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	ref, err := h.deps.CreateReferral(r.Context(), req.SenderID, req.RecipientID, req.BookID, req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ref)
}

// HandleReferralAction handles POST /referrals/{id}/read requests.
func (h *SocialHandler) HandleReferralAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	id, action, ok := splitAction(r.URL.Path, "/referrals/")
	if !ok || action != "read" {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.MarkReferralRead(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// HandleNotificationAction handles POST /notifications/{id}/read requests.
func (h *SocialHandler) HandleNotificationAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	id, action, ok := splitAction(r.URL.Path, "/notifications/")
	if !ok || action != "read" {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.MarkNotificationRead(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// splitAction parses "{prefix}{id}/{action}" paths.
func splitAction(path, prefix string) (id, action string, ok bool) {
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
