package ranking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yomu/leitura/internal/adapters/repository"
	"github.com/yomu/leitura/internal/domain/inflight"
	"github.com/yomu/leitura/internal/domain/model"
	"github.com/yomu/leitura/internal/domain/period"
	"github.com/yomu/leitura/pkg/logger"
	"github.com/yomu/leitura/pkg/metrics"
)

// Default minimum snapshot age before a key is recomputed again.
const defaultThrottleWindow = 5 * time.Minute

// Recomputer is the slice of the engine the scheduler drives.
type Recomputer interface {
	RecomputeGeneral(ctx context.Context, p period.Period) (*model.RankingSnapshot, error)
	RecomputeFriends(ctx context.Context, userID string, p period.Period) (*model.RankingSnapshot, error)
}

// Scheduler reacts to ProgressRecorded events. For each candidate
// (scope, period) key it checks the stored snapshot's age against the
// throttle window, coalesces keys already being recomputed, and runs
// the engine for the rest. The same throttle applies to the general
// and friend scopes.
//
// Errors are logged and counted here; they never travel back to the
// request that triggered the event.
type Scheduler struct {
	engine    Recomputer
	snapshots repository.SnapshotStore
	guard     inflight.Guard
	clock     model.Clock
	throttle  time.Duration
	logger    logger.Logger
}

// SchedulerOption applies a configuration option to the Scheduler.
type SchedulerOption func(*Scheduler)

// WithThrottleWindow sets the minimum snapshot age before recomputation.
// A zero window disables throttling.
func WithThrottleWindow(window time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if window >= 0 {
			s.throttle = window
		}
	}
}

// WithSchedulerClock overrides the scheduler clock.
func WithSchedulerClock(clock model.Clock) SchedulerOption {
	return func(s *Scheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithSchedulerLogger sets a custom logger for the scheduler.
func WithSchedulerLogger(l logger.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewScheduler creates a recalculation scheduler.
func NewScheduler(engine Recomputer, snapshots repository.SnapshotStore, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		engine:    engine,
		snapshots: snapshots,
		guard:     inflight.NewInMemoryGuard(),
		clock:     model.SystemClock(),
		throttle:  defaultThrottleWindow,
		logger:    logger.Get().Named("ranking-scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recalculate evaluates every candidate key for the event and
// recomputes the stale ones. It implements the worker Recalculator
// contract; the returned error aggregates per-key failures for the
// worker's log and is never seen by the event producer.
func (s *Scheduler) Recalculate(ctx context.Context, event model.ProgressRecorded) error {
	var errs []error

	for _, p := range period.All() {
		key := period.Key{Scope: period.GeneralScope(), Period: p}
		if err := s.maybeRecompute(ctx, key, func() error {
			_, err := s.engine.RecomputeGeneral(ctx, p)
			return err
		}); err != nil {
			errs = append(errs, err)
		}
	}

	for _, p := range period.FriendPeriods() {
		key := period.Key{Scope: period.FriendScope(event.UserID), Period: p}
		if err := s.maybeRecompute(ctx, key, func() error {
			_, err := s.engine.RecomputeFriends(ctx, event.UserID, p)
			return err
		}); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// maybeRecompute runs fn for key unless the stored snapshot is still
// fresh or another recompute for the key is in flight.
func (s *Scheduler) maybeRecompute(ctx context.Context, key period.Key, fn func() error) error {
	if updatedAt, ok := s.snapshots.UpdatedAt(ctx, key); ok {
		if age := s.clock.Now().Sub(updatedAt); age < s.throttle {
			metrics.RecordRecomputeThrottled(string(key.Scope.Kind))
			s.logger.Debug(ctx, "skipping recompute; snapshot still fresh",
				logger.String("key", key.String()),
				logger.Duration("age", age),
			)
			return nil
		}
	}

	if !s.guard.TryAcquire(ctx, key.String()) {
		metrics.RecordRecomputeCoalesced()
		s.logger.Debug(ctx, "skipping recompute; key already in flight",
			logger.String("key", key.String()),
		)
		return nil
	}
	defer s.guard.Release(ctx, key.String())

	if err := fn(); err != nil {
		metrics.RecordRecomputeError(string(key.Scope.Kind))
		s.logger.Error(ctx, "recompute failed",
			logger.String("key", key.String()),
			logger.Error(err),
		)
		return fmt.Errorf("recompute %s: %w", key, err)
	}
	return nil
}
