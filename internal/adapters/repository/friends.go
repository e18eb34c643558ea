package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/yomu/leitura/internal/domain/model"
)

// MemoryFriendStore implements FriendStore with a mutex-protected map.
type MemoryFriendStore struct {
	mu     sync.RWMutex
	edges  map[string]*model.FriendEdge
	byUser map[string][]string
	byPair map[pairKey]string
}

// pairKey canonicalizes the unordered user pair.
type pairKey struct {
	lo, hi string
}

func newPairKey(a, b string) pairKey {
	if a < b {
		return pairKey{lo: a, hi: b}
	}
	return pairKey{lo: b, hi: a}
}

// NewMemoryFriendStore creates an empty friend store.
func NewMemoryFriendStore() *MemoryFriendStore {
	return &MemoryFriendStore{
		edges:  make(map[string]*model.FriendEdge),
		byUser: make(map[string][]string),
		byPair: make(map[pairKey]string),
	}
}

// Create stores a new friendship edge. Fails with ErrConflict when an
// edge between the pair already exists.
func (s *MemoryFriendStore) Create(_ context.Context, e *model.FriendEdge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.edges[e.ID]; exists {
		return fmt.Errorf("%w: friendship id %s", ErrConflict, e.ID)
	}
	pair := newPairKey(e.RequesterID, e.AddresseeID)
	if _, exists := s.byPair[pair]; exists {
		return fmt.Errorf("%w: friendship between %s and %s", ErrConflict, e.RequesterID, e.AddresseeID)
	}

	cp := *e
	s.edges[e.ID] = &cp
	s.byUser[e.RequesterID] = append(s.byUser[e.RequesterID], e.ID)
	s.byUser[e.AddresseeID] = append(s.byUser[e.AddresseeID], e.ID)
	s.byPair[pair] = e.ID
	return nil
}

// Get returns the edge by id.
func (s *MemoryFriendStore) Get(_ context.Context, id string) (*model.FriendEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.edges[id]
	if !ok {
		return nil, fmt.Errorf("%w: friendship %s", ErrNotFound, id)
	}
	cp := *e
	return &cp, nil
}

// ListByUser returns every edge touching userID.
func (s *MemoryFriendStore) ListByUser(_ context.Context, userID string) ([]*model.FriendEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userID]
	out := make([]*model.FriendEdge, 0, len(ids))
	for _, id := range ids {
		cp := *s.edges[id]
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RequestedAt.Before(out[j].RequestedAt) })
	return out, nil
}

// FindBetween returns the edge between two users regardless of direction.
func (s *MemoryFriendStore) FindBetween(_ context.Context, userA, userB string) (*model.FriendEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPair[newPairKey(userA, userB)]
	if !ok {
		return nil, fmt.Errorf("%w: friendship between %s and %s", ErrNotFound, userA, userB)
	}
	cp := *s.edges[id]
	return &cp, nil
}

// Update applies fn to the stored edge under the store lock.
func (s *MemoryFriendStore) Update(_ context.Context, id string, fn func(*model.FriendEdge) error) (*model.FriendEdge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.edges[id]
	if !ok {
		return nil, fmt.Errorf("%w: friendship %s", ErrNotFound, id)
	}
	if err := fn(e); err != nil {
		return nil, err
	}
	cp := *e
	return &cp, nil
}

// AcceptedFriendsOf returns the ids of users connected to userID by an
// ACCEPTED edge at call time.
func (s *MemoryFriendStore) AcceptedFriendsOf(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for _, id := range s.byUser[userID] {
		e := s.edges[id]
		if e.Status != model.FriendAccepted {
			continue
		}
		if peer := e.Other(userID); peer != "" {
			out = append(out, peer)
		}
	}
	sort.Strings(out)
	return out, nil
}
