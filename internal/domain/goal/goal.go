// Package goal implements the goal progress state machine.
//
// A goal is ACTIVE inside its window, COMPLETED once its current amount
// reaches the target, and EXPIRED when the window ends first. COMPLETED
// and EXPIRED are terminal. The increment-and-flip in Apply must run
// under the goal store's lock so two concurrent increments cannot both
// observe current < target without either flipping the flag.
package goal

import (
	"fmt"
	"time"

	"github.com/yomu/leitura/internal/domain/model"
)

// State is the lifecycle state of a goal at a point in time.
type State string

// Goal states.
const (
	StateActive    State = "ACTIVE"
	StateCompleted State = "COMPLETED"
	StateExpired   State = "EXPIRED"
)

// StateAt returns the goal's state as of now. Completion wins over
// expiry: a goal completed inside its window stays COMPLETED after the
// window ends.
func StateAt(g *model.Goal, now time.Time) State {
	switch {
	case g.Completed:
		return StateCompleted
	case now.Before(g.WindowStart) || !now.Before(g.WindowEnd):
		return StateExpired
	default:
		return StateActive
	}
}

// Apply accumulates amount into the goal's current total and flips the
// completion flag when the target is reached. The flag transition is
// one-way; Apply on a completed or expired goal fails with
// ErrGoalNotActive and amounts below one fail with ErrInvalidAmount.
// The mutation happens in place; callers persist the goal afterwards
// inside the same unit of work.
func Apply(g *model.Goal, amount int, now time.Time) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}
	if st := StateAt(g, now); st != StateActive {
		return fmt.Errorf("%w: goal %s is %s", ErrGoalNotActive, g.ID, st)
	}
	g.Current += amount
	if g.Current >= g.Target {
		g.Completed = true
	}
	g.UpdatedAt = now
	return nil
}

// NewGoal builds a goal whose window is fixed at creation from the goal
// type's duration.
func NewGoal(id, userID string, typ model.GoalType, unit model.GoalUnit, target int, start time.Time) (*model.Goal, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: goal type %q", ErrInvalidGoal, typ)
	}
	if !unit.Valid() {
		return nil, fmt.Errorf("%w: goal unit %q", ErrInvalidGoal, unit)
	}
	if target <= 0 {
		return nil, fmt.Errorf("%w: target %d", ErrInvalidGoal, target)
	}
	return &model.Goal{
		ID:          id,
		UserID:      userID,
		Type:        typ,
		Unit:        unit,
		Target:      target,
		WindowStart: start,
		WindowEnd:   start.Add(typ.WindowDuration()),
		CreatedAt:   start,
		UpdatedAt:   start,
	}, nil
}
