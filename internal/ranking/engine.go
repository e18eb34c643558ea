// Package ranking computes leaderboard snapshots and schedules their
// asynchronous recomputation.
package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yomu/leitura/internal/adapters/repository"
	"github.com/yomu/leitura/internal/domain/model"
	"github.com/yomu/leitura/internal/domain/period"
	"github.com/yomu/leitura/pkg/logger"
	"github.com/yomu/leitura/pkg/metrics"
)

// Engine recomputes ranking snapshots. Each recomputation aggregates
// the XP a population earned inside the period window, orders the
// result, and replaces the stored snapshot through the store's
// freshness guard. Recomputing twice over unchanged data yields the
// same ordered entries; only the basis timestamp moves.
type Engine struct {
	progress  repository.ProgressStore
	friends   repository.FriendStore
	snapshots repository.SnapshotStore
	clock     model.Clock
	logger    logger.Logger
}

// EngineOption applies a configuration option to the Engine.
type EngineOption func(*Engine)

// WithEngineClock overrides the engine clock.
func WithEngineClock(clock model.Clock) EngineOption {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithEngineLogger sets a custom logger for the engine.
func WithEngineLogger(l logger.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates a ranking engine.
func NewEngine(progress repository.ProgressStore, friends repository.FriendStore, snapshots repository.SnapshotStore, opts ...EngineOption) *Engine {
	e := &Engine{
		progress:  progress,
		friends:   friends,
		snapshots: snapshots,
		clock:     model.SystemClock(),
		logger:    logger.Get().Named("ranking-engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RecomputeGeneral rebuilds the snapshot for (GENERAL, p) over every
// user with qualifying progress inside the window.
func (e *Engine) RecomputeGeneral(ctx context.Context, p period.Period) (*model.RankingSnapshot, error) {
	key := period.Key{Scope: period.GeneralScope(), Period: p}
	return e.recompute(ctx, key, nil)
}

// RecomputeFriends rebuilds the snapshot for (FRIENDS(userID), p). The
// population is the subject plus the users connected by an ACCEPTED
// edge at computation time; membership is a snapshot-time fact and is
// not retroactively corrected when edges change later.
func (e *Engine) RecomputeFriends(ctx context.Context, userID string, p period.Period) (*model.RankingSnapshot, error) {
	peers, err := e.friends.AcceptedFriendsOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve friends of %s: %w", userID, err)
	}
	population := append([]string{userID}, peers...)
	key := period.Key{Scope: period.FriendScope(userID), Period: p}
	return e.recompute(ctx, key, population)
}

// recompute aggregates, orders, and replaces the snapshot at key. A nil
// population means the global one.
func (e *Engine) recompute(ctx context.Context, key period.Key, population []string) (*model.RankingSnapshot, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRecomputeDuration(float64(time.Since(start).Milliseconds()))
	}()

	// The basis is read before aggregation so the freshness guard below
	// compares the time the data was observed, not the time the write
	// happened.
	basis := e.clock.Now()
	since, bounded := key.Period.WindowStart(basis)
	if !bounded {
		since = time.Time{}
	}

	aggs, err := e.progress.AggregateXPSince(ctx, since, population)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", key, err)
	}

	// Friend scopes list the whole population, including members with
	// no qualifying progress.
	if population != nil {
		aggs = fillMissing(aggs, population)
	}

	entries := order(aggs)
	snap := &model.RankingSnapshot{
		Key:       key,
		Entries:   entries,
		UpdatedAt: basis,
	}

	accepted, err := e.snapshots.ReplaceIfFresher(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("replace snapshot %s: %w", key, err)
	}
	if !accepted {
		e.logger.Debug(ctx, "snapshot basis older than stored; keeping stored",
			logger.String("key", key.String()),
			logger.Time("basis", basis),
		)
	}

	metrics.RecordRecomputeRun(string(key.Scope.Kind))
	return snap, nil
}

// order sorts aggregates by descending score, breaking ties by earlier
// first qualifying entry and then by user id, and assigns ranks.
func order(aggs []repository.Aggregate) []model.RankingEntry {
	sort.SliceStable(aggs, func(i, j int) bool {
		a, b := aggs[i], aggs[j]
		if a.XP != b.XP {
			return a.XP > b.XP
		}
		if !a.FirstAt.Equal(b.FirstAt) {
			return a.FirstAt.Before(b.FirstAt)
		}
		return a.UserID < b.UserID
	})

	entries := make([]model.RankingEntry, len(aggs))
	for i, agg := range aggs {
		entries[i] = model.RankingEntry{
			Rank:   i + 1,
			UserID: agg.UserID,
			Score:  agg.XP,
		}
	}
	return entries
}

// fillMissing appends zero-score aggregates for population members the
// window aggregation did not produce.
func fillMissing(aggs []repository.Aggregate, population []string) []repository.Aggregate {
	present := make(map[string]struct{}, len(aggs))
	for _, agg := range aggs {
		present[agg.UserID] = struct{}{}
	}
	for _, id := range population {
		if _, ok := present[id]; !ok {
			aggs = append(aggs, repository.Aggregate{UserID: id})
		}
	}
	return aggs
}
