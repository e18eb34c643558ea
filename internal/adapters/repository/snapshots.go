package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yomu/leitura/internal/domain/model"
	"github.com/yomu/leitura/internal/domain/period"
	"github.com/yomu/leitura/pkg/metrics"
)

// MemorySnapshotStore implements SnapshotStore with a mutex-protected
// map keyed by (scope, period). The freshness compare-and-swap in
// ReplaceIfFresher is what keeps a recompute that started earlier but
// finished later from clobbering a fresher result, and it keeps
// UpdatedAt monotonically non-decreasing per key.
type MemorySnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]*model.RankingSnapshot
}

// NewMemorySnapshotStore creates an empty snapshot store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{
		snapshots: make(map[string]*model.RankingSnapshot),
	}
}

// Get returns the live snapshot for key.
func (s *MemorySnapshotStore) Get(_ context.Context, key period.Key) (*model.RankingSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[key.String()]
	if !ok {
		return nil, fmt.Errorf("%w: snapshot %s", ErrNotFound, key)
	}
	return cloneSnapshot(snap), nil
}

// ReplaceIfFresher swaps in snap unless a fresher snapshot is stored.
func (s *MemorySnapshotStore) ReplaceIfFresher(_ context.Context, snap *model.RankingSnapshot) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := snap.Key.String()
	if existing, ok := s.snapshots[k]; ok && snap.UpdatedAt.Before(existing.UpdatedAt) {
		metrics.RecordSnapshotStaleBasis()
		return false, nil
	}
	s.snapshots[k] = cloneSnapshot(snap)
	metrics.RecordSnapshotReplaced()
	return true, nil
}

// UpdatedAt returns the stored snapshot's basis time.
func (s *MemorySnapshotStore) UpdatedAt(_ context.Context, key period.Key) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[key.String()]
	if !ok {
		return time.Time{}, false
	}
	return snap.UpdatedAt, true
}

func cloneSnapshot(snap *model.RankingSnapshot) *model.RankingSnapshot {
	cp := *snap
	cp.Entries = make([]model.RankingEntry, len(snap.Entries))
	copy(cp.Entries, snap.Entries)
	return &cp
}
