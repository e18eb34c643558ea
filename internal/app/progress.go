package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yomu/leitura/internal/adapters/repository"
	goaltracker "github.com/yomu/leitura/internal/domain/goal"
	"github.com/yomu/leitura/internal/domain/level"
	"github.com/yomu/leitura/internal/domain/model"
	"github.com/yomu/leitura/internal/domain/period"
	"github.com/yomu/leitura/internal/domain/scoring"
	"github.com/yomu/leitura/pkg/logger"
	"github.com/yomu/leitura/pkg/metrics"
)

// RecordProgress is the synchronous write path. It validates the user
// and book, scores the entry, persists it, accumulates the user's XP,
// recomputes the level, applies the quantity to matching active goals,
// and emits a ProgressRecorded event once the whole unit of work has
// succeeded. Nothing is written before validation passes, so a
// rejected request leaves no partial state behind.
func (s *Service) RecordProgress(ctx context.Context, userID, bookID string, unit model.ProgressUnit, quantity int) (*model.ProgressEntry, error) {
	if !unit.Valid() {
		metrics.RecordProgressRejected("invalid_unit")
		return nil, fmt.Errorf("%w: progress unit %q", ErrInvalidInput, unit)
	}

	xp, err := scoring.Score(unit, quantity)
	if err != nil {
		metrics.RecordProgressRejected("invalid_quantity")
		return nil, err
	}

	if _, err := s.users.Get(ctx, userID); err != nil {
		metrics.RecordProgressRejected("user_not_found")
		return nil, err
	}
	book, err := s.books.Get(ctx, bookID)
	if err != nil {
		metrics.RecordProgressRejected("book_not_found")
		return nil, err
	}
	if book.UserID != userID {
		metrics.RecordProgressRejected("book_not_found")
		return nil, fmt.Errorf("%w: book %s for user %s", repository.ErrNotFound, bookID, userID)
	}

	now := s.clock.Now()
	entry := &model.ProgressEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		BookID:    bookID,
		Unit:      unit,
		Quantity:  quantity,
		XPEarned:  xp,
		CreatedAt: now,
	}
	if err := s.progress.Create(ctx, entry); err != nil {
		return nil, err
	}

	var leveledUp bool
	var newLevel int
	user, err := s.users.Update(ctx, userID, func(u *model.User) error {
		u.CumulativeXP += xp
		newLevel = level.For(u.CumulativeXP)
		leveledUp = newLevel > u.Level
		u.Level = newLevel
		u.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	completedGoals := s.applyGoalProgress(ctx, userID, unit, quantity)

	s.notifyWritePath(ctx, user, leveledUp, completedGoals)

	metrics.RecordProgressRecorded()
	metrics.AddXPAwarded(xp)

	// The unit of work is committed; from here the event is best-effort.
	if ok := s.eventQueue.Enqueue(ctx, model.ProgressRecorded{UserID: userID, RecordedAt: now}); !ok {
		s.logger.Warn(ctx, "progress event dropped; rankings will catch up on the next event",
			logger.String("userID", userID),
		)
	}

	return entry, nil
}

// applyGoalProgress routes the recorded quantity into every active goal
// of the user whose unit matches. Goals that raced into a terminal
// state between listing and update are skipped. Returns the goals that
// completed in this pass.
func (s *Service) applyGoalProgress(ctx context.Context, userID string, unit model.ProgressUnit, quantity int) []*model.Goal {
	goals, err := s.goals.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "listing goals failed", logger.String("userID", userID), logger.Error(err))
		return nil
	}

	now := s.clock.Now()
	var completed []*model.Goal
	for _, g := range goals {
		if goaltracker.StateAt(g, now) != goaltracker.StateActive || !g.Unit.Matches(unit) {
			continue
		}

		var completedNow bool
		updated, err := s.goals.Update(ctx, g.ID, func(stored *model.Goal) error {
			wasCompleted := stored.Completed
			if err := goaltracker.Apply(stored, quantity, now); err != nil {
				return err
			}
			completedNow = !wasCompleted && stored.Completed
			return nil
		})
		if err != nil {
			if errors.Is(err, goaltracker.ErrGoalNotActive) {
				continue
			}
			s.logger.Error(ctx, "applying goal progress failed",
				logger.String("goalID", g.ID),
				logger.Error(err),
			)
			continue
		}
		if completedNow {
			metrics.RecordGoalCompletion()
			completed = append(completed, updated)
		}
	}
	return completed
}

// notifyWritePath creates the notifications owed for this write: one
// per completed goal and one for a level-up.
func (s *Service) notifyWritePath(ctx context.Context, user *model.User, leveledUp bool, completedGoals []*model.Goal) {
	now := s.clock.Now()

	for _, g := range completedGoals {
		n := &model.Notification{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			Type:      model.NotifGoalCompleted,
			Title:     "Goal completed",
			Message:   fmt.Sprintf("You reached your %s goal of %d.", g.Type, g.Target),
			CreatedAt: now,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			s.logger.Error(ctx, "creating goal notification failed", logger.Error(err))
		}
	}

	if leveledUp {
		metrics.RecordLevelUp()
		n := &model.Notification{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			Type:      model.NotifLevelUp,
			Title:     "Level up",
			Message:   fmt.Sprintf("You reached level %d.", user.Level),
			CreatedAt: now,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			s.logger.Error(ctx, "creating level notification failed", logger.Error(err))
		}
	}
}

// ListProgressByUser returns the user's progress history in creation
// order.
func (s *Service) ListProgressByUser(ctx context.Context, userID string) ([]*model.ProgressEntry, error) {
	return s.progress.ListByUser(ctx, userID)
}

// CurrentLevel returns the user's cumulative XP and derived level.
func (s *Service) CurrentLevel(ctx context.Context, userID string) (int64, int, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return user.CumulativeXP, user.Level, nil
}

// GetRanking returns the live snapshot for the (scope, period) key. The
// snapshot may be stale by up to the throttle window; readers never
// trigger recomputation.
func (s *Service) GetRanking(ctx context.Context, scope period.Scope, p period.Period) (*model.RankingSnapshot, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: scope", ErrInvalidInput)
	}
	if !p.Valid() {
		return nil, fmt.Errorf("%w: period %q", ErrInvalidInput, p)
	}
	return s.snapshots.Get(ctx, period.Key{Scope: scope, Period: p})
}
