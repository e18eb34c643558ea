package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/yomu/leitura/internal/domain/model"
)

// MemoryNotificationStore implements NotificationStore.
type MemoryNotificationStore struct {
	mu     sync.RWMutex
	byID   map[string]*model.Notification
	byUser map[string][]string
}

// NewMemoryNotificationStore creates an empty notification store.
func NewMemoryNotificationStore() *MemoryNotificationStore {
	return &MemoryNotificationStore{
		byID:   make(map[string]*model.Notification),
		byUser: make(map[string][]string),
	}
}

// Create stores a new notification.
func (s *MemoryNotificationStore) Create(_ context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[n.ID]; exists {
		return fmt.Errorf("%w: notification id %s", ErrConflict, n.ID)
	}
	cp := *n
	s.byID[n.ID] = &cp
	s.byUser[n.UserID] = append(s.byUser[n.UserID], n.ID)
	return nil
}

// ListByUser returns the user's notifications, newest first.
func (s *MemoryNotificationStore) ListByUser(_ context.Context, userID string) ([]*model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userID]
	out := make([]*model.Notification, 0, len(ids))
	for _, id := range ids {
		cp := *s.byID[id]
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// MarkRead flags the notification as read.
func (s *MemoryNotificationStore) MarkRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: notification %s", ErrNotFound, id)
	}
	n.Read = true
	return nil
}

// MemoryReferralStore implements ReferralStore.
type MemoryReferralStore struct {
	mu          sync.RWMutex
	byID        map[string]*model.Referral
	byRecipient map[string][]string
}

// NewMemoryReferralStore creates an empty referral store.
func NewMemoryReferralStore() *MemoryReferralStore {
	return &MemoryReferralStore{
		byID:        make(map[string]*model.Referral),
		byRecipient: make(map[string][]string),
	}
}

// Create stores a new referral.
func (s *MemoryReferralStore) Create(_ context.Context, r *model.Referral) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[r.ID]; exists {
		return fmt.Errorf("%w: referral id %s", ErrConflict, r.ID)
	}
	cp := *r
	s.byID[r.ID] = &cp
	s.byRecipient[r.RecipientID] = append(s.byRecipient[r.RecipientID], r.ID)
	return nil
}

// ListByRecipient returns referrals sent to userID, newest first.
func (s *MemoryReferralStore) ListByRecipient(_ context.Context, userID string) ([]*model.Referral, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byRecipient[userID]
	out := make([]*model.Referral, 0, len(ids))
	for _, id := range ids {
		cp := *s.byID[id]
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// MarkRead flags the referral as read.
func (s *MemoryReferralStore) MarkRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: referral %s", ErrNotFound, id)
	}
	r.Read = true
	return nil
}
