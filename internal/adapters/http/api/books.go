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

// BookDependencies defines the interface for book operations.
type BookDependencies interface {
	CreateBook(ctx context.Context, userID, title, author string, pages, chapters int) (*model.Book, error)
	GetBook(ctx context.Context, id string) (*model.Book, error)
}

// BookHandler handles book requests.
type BookHandler struct {
	deps BookDependencies
}

// NewBookHandler creates a new book handler.
func NewBookHandler(deps BookDependencies) *BookHandler {
	return &BookHandler{deps: deps}
}

// bookRequest mirrors the POST /books body.
type bookRequest struct {
	UserID   string `json:"user_id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Pages    int    `json:"pages"`
	Chapters int    `json:"chapters"`
}

// HandlePostBook handles POST /books requests.
func (h *BookHandler) HandlePostBook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	book, err := h.deps.CreateBook(r.Context(), req.UserID, req.Title, req.Author, req.Pages, req.Chapters)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

// HandleGetBook handles GET /books/{id} requests.
func (h *BookHandler) HandleGetBook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/books/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing book id"))
		return
	}
	book, err := h.deps.GetBook(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}
