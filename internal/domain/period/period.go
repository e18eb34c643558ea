// Package period defines ranking scopes, aggregation periods, and the
// snapshot keys derived from them.
package period

import (
	"fmt"
	"time"
)

// Window lengths for the rolling aggregation periods.
const (
	weeklyWindow  = 7 * 24 * time.Hour
	monthlyWindow = 30 * 24 * time.Hour
	yearlyWindow  = 365 * 24 * time.Hour
)

// Period is the time window a ranking aggregates over.
type Period string

// Aggregation periods. Total has no lower bound.
const (
	Weekly  Period = "WEEKLY"
	Monthly Period = "MONTHLY"
	Yearly  Period = "YEARLY"
	Total   Period = "TOTAL"
)

// All lists every period recomputed for the general scope.
func All() []Period {
	return []Period{Weekly, Monthly, Yearly, Total}
}

// FriendPeriods lists the periods recomputed for friend scopes.
func FriendPeriods() []Period {
	return []Period{Weekly, Monthly}
}

// Valid reports whether p is one of the enumerated periods.
func (p Period) Valid() bool {
	switch p {
	case Weekly, Monthly, Yearly, Total:
		return true
	default:
		return false
	}
}

// WindowStart returns the inclusive lower bound of the period window
// ending at now. The second result is false for Total, which is
// unbounded.
func (p Period) WindowStart(now time.Time) (time.Time, bool) {
	switch p {
	case Weekly:
		return now.Add(-weeklyWindow), true
	case Monthly:
		return now.Add(-monthlyWindow), true
	case Yearly:
		return now.Add(-yearlyWindow), true
	default:
		return time.Time{}, false
	}
}

// ScopeKind separates the global population from a user's friend set.
type ScopeKind string

// Scope kinds.
const (
	General ScopeKind = "GENERAL"
	Friends ScopeKind = "FRIENDS"
)

// Scope is the population a ranking is computed over. UserID is set only
// for friend scopes.
type Scope struct {
	Kind   ScopeKind
	UserID string
}

// GeneralScope returns the global scope.
func GeneralScope() Scope { return Scope{Kind: General} }

// FriendScope returns the friend scope for userID.
func FriendScope(userID string) Scope {
	return Scope{Kind: Friends, UserID: userID}
}

// Valid reports whether the scope is well formed.
func (s Scope) Valid() bool {
	switch s.Kind {
	case General:
		return s.UserID == ""
	case Friends:
		return s.UserID != ""
	default:
		return false
	}
}

// Key identifies a ranking snapshot. Exactly one live snapshot exists
// per key at any time.
type Key struct {
	Scope  Scope
	Period Period
}

// String renders the key for logging and map usage.
func (k Key) String() string {
	if k.Scope.Kind == Friends {
		return fmt.Sprintf("%s(%s)/%s", k.Scope.Kind, k.Scope.UserID, k.Period)
	}
	return fmt.Sprintf("%s/%s", k.Scope.Kind, k.Period)
}
