package goal

import "errors"

// Sentinel kinds for goal errors.
var (
	ErrGoalNotActive = errors.New("goal not active")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidGoal   = errors.New("invalid goal")
)
