package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	goaltracker "github.com/yomu/leitura/internal/domain/goal"
	"github.com/yomu/leitura/internal/domain/model"
	"github.com/yomu/leitura/pkg/logger"
	"github.com/yomu/leitura/pkg/metrics"
)

// Invite codes are the first characters of a UUID, uppercased.
const inviteCodeLength = 8

// CreateUser registers a new user with a generated invite code.
func (s *Service) CreateUser(ctx context.Context, username, name, email string) (*model.User, error) {
	switch {
	case strings.TrimSpace(username) == "":
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	case strings.TrimSpace(name) == "":
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	case strings.TrimSpace(email) == "" || !strings.Contains(email, "@"):
		return nil, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}

	now := s.clock.Now()
	user := &model.User{
		ID:         uuid.NewString(),
		Username:   username,
		Name:       name,
		Email:      email,
		InviteCode: newInviteCode(),
		Level:      1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	metrics.UpdateTotalUsers(s.users.Count(ctx))
	return user, nil
}

func newInviteCode() string {
	return strings.ToUpper(uuid.NewString()[:inviteCodeLength])
}

// GetUser returns the user by id.
func (s *Service) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.users.Get(ctx, id)
}

// GetUserByInviteCode returns the user owning the invite code.
func (s *Service) GetUserByInviteCode(ctx context.Context, code string) (*model.User, error) {
	return s.users.GetByInviteCode(ctx, code)
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}

// CreateBook logs a book for a user.
func (s *Service) CreateBook(ctx context.Context, userID, title, author string, pages, chapters int) (*model.Book, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if pages < 0 || chapters < 0 {
		return nil, fmt.Errorf("%w: pages and chapters must not be negative", ErrInvalidInput)
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}

	book := &model.Book{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Author:    author,
		Pages:     pages,
		Chapters:  chapters,
		CreatedAt: s.clock.Now(),
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// GetBook returns the book by id.
func (s *Service) GetBook(ctx context.Context, id string) (*model.Book, error) {
	return s.books.Get(ctx, id)
}

// ListBooksByUser returns the user's books.
func (s *Service) ListBooksByUser(ctx context.Context, userID string) ([]*model.Book, error) {
	return s.books.ListByUser(ctx, userID)
}

// CreateGoal opens a goal for a user. The window is fixed at creation
// from the goal type's duration.
func (s *Service) CreateGoal(ctx context.Context, userID string, typ model.GoalType, unit model.GoalUnit, target int) (*model.Goal, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	g, err := goaltracker.NewGoal(uuid.NewString(), userID, typ, unit, target, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.goals.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// GetGoal returns the goal by id.
func (s *Service) GetGoal(ctx context.Context, id string) (*model.Goal, error) {
	return s.goals.Get(ctx, id)
}

// ListGoalsByUser returns the user's goals.
func (s *Service) ListGoalsByUser(ctx context.Context, userID string) ([]*model.Goal, error) {
	return s.goals.ListByUser(ctx, userID)
}

// RequestFriendship opens a PENDING edge between two users.
func (s *Service) RequestFriendship(ctx context.Context, requesterID, addresseeID string) (*model.FriendEdge, error) {
	if requesterID == addresseeID {
		return nil, ErrSelfFriendship
	}
	if _, err := s.users.Get(ctx, requesterID); err != nil {
		return nil, err
	}
	if _, err := s.users.Get(ctx, addresseeID); err != nil {
		return nil, err
	}

	edge := &model.FriendEdge{
		ID:          uuid.NewString(),
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      model.FriendPending,
		RequestedAt: s.clock.Now(),
	}
	if err := s.friends.Create(ctx, edge); err != nil {
		return nil, err
	}
	return edge, nil
}

// AcceptFriendship flips a PENDING edge to ACCEPTED.
func (s *Service) AcceptFriendship(ctx context.Context, id string) (*model.FriendEdge, error) {
	now := s.clock.Now()
	return s.friends.Update(ctx, id, func(e *model.FriendEdge) error {
		if e.Status != model.FriendPending {
			return fmt.Errorf("%w: status %s", ErrNotPending, e.Status)
		}
		e.Status = model.FriendAccepted
		e.AcceptedAt = now
		return nil
	})
}

// BlockFriendship flips an edge to BLOCKED from any status.
func (s *Service) BlockFriendship(ctx context.Context, id string) (*model.FriendEdge, error) {
	return s.friends.Update(ctx, id, func(e *model.FriendEdge) error {
		e.Status = model.FriendBlocked
		return nil
	})
}

// ListFriendships returns every edge touching the user.
func (s *Service) ListFriendships(ctx context.Context, userID string) ([]*model.FriendEdge, error) {
	return s.friends.ListByUser(ctx, userID)
}

// CreateReferral recommends a book to an accepted friend and notifies
// the recipient.
func (s *Service) CreateReferral(ctx context.Context, senderID, recipientID, bookID, message string) (*model.Referral, error) {
	if senderID == recipientID {
		return nil, ErrSelfReferral
	}
	sender, err := s.users.Get(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.Get(ctx, recipientID); err != nil {
		return nil, err
	}
	book, err := s.books.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}

	edge, err := s.friends.FindBetween(ctx, senderID, recipientID)
	if err != nil || edge.Status != model.FriendAccepted {
		return nil, fmt.Errorf("%w: %s and %s", ErrNotFriends, senderID, recipientID)
	}

	now := s.clock.Now()
	referral := &model.Referral{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: recipientID,
		BookID:      bookID,
		Message:     message,
		CreatedAt:   now,
	}
	if err := s.referrals.Create(ctx, referral); err != nil {
		return nil, err
	}

	notification := &model.Notification{
		ID:        uuid.NewString(),
		UserID:    recipientID,
		Type:      model.NotifReferral,
		Title:     "Book recommendation",
		Message:   fmt.Sprintf("%s recommended %q to you.", sender.Username, book.Title),
		CreatedAt: now,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		s.logger.Error(ctx, "creating referral notification failed", logger.Error(err))
	}

	return referral, nil
}

// ListReferralsByUser returns referrals sent to the user.
func (s *Service) ListReferralsByUser(ctx context.Context, userID string) ([]*model.Referral, error) {
	return s.referrals.ListByRecipient(ctx, userID)
}

// MarkReferralRead flags a referral as read.
func (s *Service) MarkReferralRead(ctx context.Context, id string) error {
	return s.referrals.MarkRead(ctx, id)
}

// ListNotificationsByUser returns the user's notifications.
func (s *Service) ListNotificationsByUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	return s.notifications.ListByUser(ctx, userID)
}

// MarkNotificationRead flags a notification as read.
func (s *Service) MarkNotificationRead(ctx context.Context, id string) error {
	return s.notifications.MarkRead(ctx, id)
}
