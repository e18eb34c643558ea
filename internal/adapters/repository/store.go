// Package repository defines the entity store interfaces and their
// in-memory implementations.
//
// Each store owns one entity family and serializes writes behind its own
// lock; mutation closures run under that lock so read-modify-write
// sequences (XP accumulation, goal increment-and-flip) stay atomic.
// Stores hand out copies, never internal pointers.
package repository

import (
	"context"
	"time"

	"github.com/yomu/leitura/internal/domain/model"
	"github.com/yomu/leitura/internal/domain/period"
)

// UserStore provides access to user records.
type UserStore interface {
	// Create stores a new user. Fails with ErrConflict when the
	// username, email, or invite code is already taken.
	Create(ctx context.Context, u *model.User) error

	// Get returns the user by id, or ErrNotFound.
	Get(ctx context.Context, id string) (*model.User, error)

	// GetByInviteCode returns the user owning the invite code.
	GetByInviteCode(ctx context.Context, code string) (*model.User, error)

	// List returns all users.
	List(ctx context.Context) ([]*model.User, error)

	// Update applies fn to the stored user under the store lock.
	Update(ctx context.Context, id string, fn func(*model.User) error) (*model.User, error)

	// Count returns the number of registered users.
	Count(ctx context.Context) int
}

// BookStore provides access to book records.
type BookStore interface {
	Create(ctx context.Context, b *model.Book) error
	Get(ctx context.Context, id string) (*model.Book, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Book, error)
}

// Aggregate is one row of a window aggregation: the XP a user earned
// inside the window plus the timestamp of their earliest qualifying
// entry, used as the ranking tie-break.
type Aggregate struct {
	UserID  string
	XP      int64
	FirstAt time.Time
}

// ProgressStore provides access to immutable progress entries.
type ProgressStore interface {
	Create(ctx context.Context, e *model.ProgressEntry) error
	ListByUser(ctx context.Context, userID string) ([]*model.ProgressEntry, error)

	// AggregateXPSince sums XP per user over entries created at or after
	// since. A zero since means no lower bound. A nil population selects
	// every user; otherwise only the listed users are aggregated, and
	// users with no qualifying entries are omitted.
	AggregateXPSince(ctx context.Context, since time.Time, population []string) ([]Aggregate, error)
}

// GoalStore provides access to goal records.
type GoalStore interface {
	Create(ctx context.Context, g *model.Goal) error
	Get(ctx context.Context, id string) (*model.Goal, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Goal, error)

	// Update applies fn to the stored goal under the store lock. The
	// goal tracker's increment-and-flip runs inside fn so concurrent
	// applications serialize.
	Update(ctx context.Context, id string, fn func(*model.Goal) error) (*model.Goal, error)
}

// FriendStore provides access to friendship edges.
type FriendStore interface {
	Create(ctx context.Context, e *model.FriendEdge) error
	Get(ctx context.Context, id string) (*model.FriendEdge, error)
	ListByUser(ctx context.Context, userID string) ([]*model.FriendEdge, error)

	// FindBetween returns the edge between two users regardless of
	// direction, or ErrNotFound.
	FindBetween(ctx context.Context, userA, userB string) (*model.FriendEdge, error)

	// Update applies fn to the stored edge under the store lock.
	Update(ctx context.Context, id string, fn func(*model.FriendEdge) error) (*model.FriendEdge, error)

	// AcceptedFriendsOf returns the ids of users connected to userID by
	// an ACCEPTED edge at call time.
	AcceptedFriendsOf(ctx context.Context, userID string) ([]string, error)
}

// NotificationStore provides access to notifications.
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID string) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// ReferralStore provides access to book referrals.
type ReferralStore interface {
	Create(ctx context.Context, r *model.Referral) error
	ListByRecipient(ctx context.Context, userID string) ([]*model.Referral, error)
	MarkRead(ctx context.Context, id string) error
}

// SnapshotStore holds the live ranking snapshot per (scope, period) key.
type SnapshotStore interface {
	// Get returns the live snapshot for key, or ErrNotFound.
	Get(ctx context.Context, key period.Key) (*model.RankingSnapshot, error)

	// ReplaceIfFresher swaps in snap if and only if its basis
	// (UpdatedAt) is not older than the stored snapshot's. Returns true
	// when the store accepted the replacement.
	ReplaceIfFresher(ctx context.Context, snap *model.RankingSnapshot) (bool, error)

	// UpdatedAt returns the stored snapshot's basis time. The second
	// result is false when no snapshot exists for key yet.
	UpdatedAt(ctx context.Context, key period.Key) (time.Time, bool)
}
