package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/yomu/leitura/internal/domain/model"
)

// MemoryUserStore implements UserStore with a mutex-protected map.
type MemoryUserStore struct {
	mu           sync.RWMutex
	users        map[string]*model.User
	byUsername   map[string]string
	byEmail      map[string]string
	byInviteCode map[string]string
}

// NewMemoryUserStore creates an empty user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users:        make(map[string]*model.User),
		byUsername:   make(map[string]string),
		byEmail:      make(map[string]string),
		byInviteCode: make(map[string]string),
	}
}

// Create stores a new user.
func (s *MemoryUserStore) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.ID]; exists {
		return fmt.Errorf("%w: user id %s", ErrConflict, u.ID)
	}
	if _, exists := s.byUsername[u.Username]; exists {
		return fmt.Errorf("%w: username %s", ErrConflict, u.Username)
	}
	if _, exists := s.byEmail[u.Email]; exists {
		return fmt.Errorf("%w: email %s", ErrConflict, u.Email)
	}
	if _, exists := s.byInviteCode[u.InviteCode]; exists {
		return fmt.Errorf("%w: invite code %s", ErrConflict, u.InviteCode)
	}

	cp := *u
	s.users[u.ID] = &cp
	s.byUsername[u.Username] = u.ID
	s.byEmail[u.Email] = u.ID
	s.byInviteCode[u.InviteCode] = u.ID
	return nil
}

// Get returns the user by id.
func (s *MemoryUserStore) Get(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	cp := *u
	return &cp, nil
}

// GetByInviteCode returns the user owning the invite code.
func (s *MemoryUserStore) GetByInviteCode(ctx context.Context, code string) (*model.User, error) {
	s.mu.RLock()
	id, ok := s.byInviteCode[code]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: invite code %s", ErrNotFound, code)
	}
	return s.Get(ctx, id)
}

// List returns all users ordered by id for determinism.
func (s *MemoryUserStore) List(_ context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update applies fn to the stored user under the store lock.
func (s *MemoryUserStore) Update(_ context.Context, id string, fn func(*model.User) error) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	if err := fn(u); err != nil {
		return nil, err
	}
	cp := *u
	return &cp, nil
}

// Count returns the number of registered users.
func (s *MemoryUserStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
