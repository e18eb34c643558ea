package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/yomu/leitura/internal/domain/model"
)

// MemoryProgressStore implements ProgressStore with a mutex-protected
// append-only slice per user. Entries are immutable once created.
type MemoryProgressStore struct {
	mu     sync.RWMutex
	byID   map[string]*model.ProgressEntry
	byUser map[string][]*model.ProgressEntry
}

// NewMemoryProgressStore creates an empty progress store.
func NewMemoryProgressStore() *MemoryProgressStore {
	return &MemoryProgressStore{
		byID:   make(map[string]*model.ProgressEntry),
		byUser: make(map[string][]*model.ProgressEntry),
	}
}

// Create stores a new progress entry.
func (s *MemoryProgressStore) Create(_ context.Context, e *model.ProgressEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[e.ID]; exists {
		return fmt.Errorf("%w: progress entry %s", ErrConflict, e.ID)
	}
	cp := *e
	s.byID[e.ID] = &cp
	s.byUser[e.UserID] = append(s.byUser[e.UserID], &cp)
	return nil
}

// ListByUser returns the user's entries ordered by creation time.
func (s *MemoryProgressStore) ListByUser(_ context.Context, userID string) ([]*model.ProgressEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.byUser[userID]
	out := make([]*model.ProgressEntry, 0, len(entries))
	for _, e := range entries {
		cp := *e
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// AggregateXPSince sums XP per user over entries created at or after
// since. A zero since means no lower bound; a nil population selects
// every user.
func (s *MemoryProgressStore) AggregateXPSince(_ context.Context, since time.Time, population []string) ([]Aggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var users map[string][]*model.ProgressEntry
	if population == nil {
		users = s.byUser
	} else {
		users = make(map[string][]*model.ProgressEntry, len(population))
		for _, id := range population {
			if entries, ok := s.byUser[id]; ok {
				users[id] = entries
			}
		}
	}

	out := make([]Aggregate, 0, len(users))
	for userID, entries := range users {
		agg := Aggregate{UserID: userID}
		for _, e := range entries {
			if !since.IsZero() && e.CreatedAt.Before(since) {
				continue
			}
			agg.XP += e.XPEarned
			if agg.FirstAt.IsZero() || e.CreatedAt.Before(agg.FirstAt) {
				agg.FirstAt = e.CreatedAt
			}
		}
		if agg.XP > 0 {
			out = append(out, agg)
		}
	}
	return out, nil
}
