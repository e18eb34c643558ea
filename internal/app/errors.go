package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrSelfFriendship = errors.New("users cannot befriend themselves")
	ErrSelfReferral   = errors.New("users cannot refer books to themselves")
	ErrNotFriends     = errors.New("users are not accepted friends")
	ErrNotPending     = errors.New("friendship is not pending")
)
