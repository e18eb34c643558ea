package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/yomu/leitura/internal/domain/model"
)

// MemoryBookStore implements BookStore with a mutex-protected map.
type MemoryBookStore struct {
	mu     sync.RWMutex
	books  map[string]*model.Book
	byUser map[string][]string
}

// NewMemoryBookStore creates an empty book store.
func NewMemoryBookStore() *MemoryBookStore {
	return &MemoryBookStore{
		books:  make(map[string]*model.Book),
		byUser: make(map[string][]string),
	}
}

// Create stores a new book.
func (s *MemoryBookStore) Create(_ context.Context, b *model.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.books[b.ID]; exists {
		return fmt.Errorf("%w: book id %s", ErrConflict, b.ID)
	}
	cp := *b
	s.books[b.ID] = &cp
	s.byUser[b.UserID] = append(s.byUser[b.UserID], b.ID)
	return nil
}

// Get returns the book by id.
func (s *MemoryBookStore) Get(_ context.Context, id string) (*model.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[id]
	if !ok {
		return nil, fmt.Errorf("%w: book %s", ErrNotFound, id)
	}
	cp := *b
	return &cp, nil
}

// ListByUser returns the user's books in creation order.
func (s *MemoryBookStore) ListByUser(_ context.Context, userID string) ([]*model.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userID]
	out := make([]*model.Book, 0, len(ids))
	for _, id := range ids {
		cp := *s.books[id]
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
