package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/yomu/leitura/internal/domain/model"
)

// MemoryGoalStore implements GoalStore with a mutex-protected map.
// Update closures run under the store lock, which is what makes the
// goal tracker's increment-and-flip atomic.
type MemoryGoalStore struct {
	mu     sync.RWMutex
	goals  map[string]*model.Goal
	byUser map[string][]string
}

// NewMemoryGoalStore creates an empty goal store.
func NewMemoryGoalStore() *MemoryGoalStore {
	return &MemoryGoalStore{
		goals:  make(map[string]*model.Goal),
		byUser: make(map[string][]string),
	}
}

// Create stores a new goal.
func (s *MemoryGoalStore) Create(_ context.Context, g *model.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.goals[g.ID]; exists {
		return fmt.Errorf("%w: goal id %s", ErrConflict, g.ID)
	}
	cp := *g
	s.goals[g.ID] = &cp
	s.byUser[g.UserID] = append(s.byUser[g.UserID], g.ID)
	return nil
}

// Get returns the goal by id.
func (s *MemoryGoalStore) Get(_ context.Context, id string) (*model.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.goals[id]
	if !ok {
		return nil, fmt.Errorf("%w: goal %s", ErrNotFound, id)
	}
	cp := *g
	return &cp, nil
}

// ListByUser returns the user's goals in creation order.
func (s *MemoryGoalStore) ListByUser(_ context.Context, userID string) ([]*model.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userID]
	out := make([]*model.Goal, 0, len(ids))
	for _, id := range ids {
		cp := *s.goals[id]
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Update applies fn to the stored goal under the store lock.
func (s *MemoryGoalStore) Update(_ context.Context, id string, fn func(*model.Goal) error) (*model.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[id]
	if !ok {
		return nil, fmt.Errorf("%w: goal %s", ErrNotFound, id)
	}
	if err := fn(g); err != nil {
		return nil, err
	}
	cp := *g
	return &cp, nil
}
