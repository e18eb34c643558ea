// Package model contains domain entities passed between layers.
//
// Entities are passive data holders: they carry ids of related entities
// instead of live references, and all derived fields (XP, level, goal
// completion) are computed by the owning component before persistence.
package model

import "time"

// ProgressUnit is the unit a reading-progress entry is measured in.
type ProgressUnit string

// Progress units.
const (
	UnitPage    ProgressUnit = "PAGE"
	UnitChapter ProgressUnit = "CHAPTER"
)

// Valid reports whether u is one of the enumerated progress units.
func (u ProgressUnit) Valid() bool {
	return u == UnitPage || u == UnitChapter
}

// ProgressEntry records a single unit of reading progress. Immutable once
// created; XPEarned is derived at creation time and never recomputed.
type ProgressEntry struct {
	ID        string
	UserID    string
	BookID    string
	Unit      ProgressUnit
	Quantity  int
	XPEarned  int64
	CreatedAt time.Time
}

// User carries the gamification-relevant user state. CumulativeXP and
// Level are mutated exclusively by the progress recorder.
type User struct {
	ID           string
	Username     string
	Name         string
	Email        string
	InviteCode   string
	CumulativeXP int64
	Level        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Book is a user's logged book.
type Book struct {
	ID        string
	UserID    string
	Title     string
	Author    string
	Pages     int
	Chapters  int
	CreatedAt time.Time
}

// GoalType fixes the goal window duration at creation.
type GoalType string

// Goal types and their window durations.
const (
	GoalDaily   GoalType = "DAILY"
	GoalWeekly  GoalType = "WEEKLY"
	GoalMonthly GoalType = "MONTHLY"
)

// WindowDuration returns the length of the goal window for the type.
func (t GoalType) WindowDuration() time.Duration {
	switch t {
	case GoalDaily:
		return 24 * time.Hour
	case GoalWeekly:
		return 7 * 24 * time.Hour
	case GoalMonthly:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// Valid reports whether t is one of the enumerated goal types.
func (t GoalType) Valid() bool {
	return t.WindowDuration() > 0
}

// GoalUnit selects which progress entries count toward a goal.
type GoalUnit string

// Goal units. UnitAny matches progress of any unit.
const (
	GoalUnitPage    GoalUnit = "PAGE"
	GoalUnitChapter GoalUnit = "CHAPTER"
	GoalUnitAny     GoalUnit = "ANY"
)

// Valid reports whether u is one of the enumerated goal units.
func (u GoalUnit) Valid() bool {
	return u == GoalUnitPage || u == GoalUnitChapter || u == GoalUnitAny
}

// Matches reports whether progress measured in p counts toward the goal.
func (u GoalUnit) Matches(p ProgressUnit) bool {
	return u == GoalUnitAny || string(u) == string(p)
}

// Goal tracks a user's reading target inside a fixed window.
// Current is monotonically non-decreasing and Completed flips from
// false to true at most once; both are mutated only by the goal tracker.
type Goal struct {
	ID          string
	UserID      string
	Type        GoalType
	Unit        GoalUnit
	Target      int
	Current     int
	WindowStart time.Time
	WindowEnd   time.Time
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FriendStatus is the lifecycle state of a friendship edge.
type FriendStatus string

// Friendship statuses. Only accepted edges contribute to friend-scoped
// ranking populations.
const (
	FriendPending  FriendStatus = "PENDING"
	FriendAccepted FriendStatus = "ACCEPTED"
	FriendBlocked  FriendStatus = "BLOCKED"
)

// FriendEdge is an unordered pair of users plus a status.
type FriendEdge struct {
	ID          string
	RequesterID string
	AddresseeID string
	Status      FriendStatus
	RequestedAt time.Time
	AcceptedAt  time.Time
}

// Other returns the peer of userID on the edge, or "" if userID is not
// on the edge.
func (e FriendEdge) Other(userID string) string {
	switch userID {
	case e.RequesterID:
		return e.AddresseeID
	case e.AddresseeID:
		return e.RequesterID
	default:
		return ""
	}
}

// Referral is a book recommendation sent between accepted friends.
type Referral struct {
	ID          string
	SenderID    string
	RecipientID string
	BookID      string
	Message     string
	Read        bool
	CreatedAt   time.Time
}

// NotificationType classifies a notification.
type NotificationType string

// Notification types produced by the write path.
const (
	NotifGoalCompleted NotificationType = "GOAL_COMPLETED"
	NotifLevelUp       NotificationType = "LEVEL_UP"
	NotifReferral      NotificationType = "REFERRAL"
)

// Notification is a message surfaced to a user.
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	Read      bool
	CreatedAt time.Time
}

// ProgressRecorded is the domain event emitted after a progress-recording
// unit of work commits. It is the only payload flowing through the
// recalculation queue.
type ProgressRecorded struct {
	UserID     string
	RecordedAt time.Time
}

// Clock supplies the current time. Injected wherever staleness or window
// checks happen so tests stay deterministic.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return ClockFunc(time.Now) }
