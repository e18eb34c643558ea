// Package inflight tracks recomputation keys that are currently being
// processed so redundant concurrent recomputes of the same snapshot are
// coalesced.
package inflight

import (
	"context"
	"sync"
	"sync/atomic"
)

// Guard records keys with work in flight.
type Guard interface {
	// TryAcquire atomically checks whether key is already in flight and
	// claims it if not. Returns true if the claim succeeded.
	TryAcquire(ctx context.Context, key string) bool

	// Release frees key so a later recompute may claim it again. Safe to
	// call for keys that were never acquired.
	Release(ctx context.Context, key string)

	// Size returns the number of keys currently in flight.
	Size() int64
}

// inMemoryGuard implements Guard with a mutex-protected set.
type inMemoryGuard struct {
	mu   sync.Mutex
	keys map[string]struct{}
	size atomic.Int64
}

// NewInMemoryGuard creates a new in-memory guard.
func NewInMemoryGuard() Guard {
	return &inMemoryGuard{keys: make(map[string]struct{})}
}

// TryAcquire atomically claims key if it is not already claimed.
func (g *inMemoryGuard) TryAcquire(_ context.Context, key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.keys[key]; exists {
		return false
	}
	g.keys[key] = struct{}{}
	g.size.Add(1)
	return true
}

// Release frees key.
func (g *inMemoryGuard) Release(_ context.Context, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.keys[key]; exists {
		delete(g.keys, key)
		g.size.Add(-1)
	}
}

// Size returns the number of keys currently in flight.
func (g *inMemoryGuard) Size() int64 {
	return g.size.Load()
}
