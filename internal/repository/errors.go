// Package repository implements MySQL-backed storage for users, topics,
// subscriptions, posts and comments. Sentinel errors defined here let
// the service and handler layers distinguish failure scenarios without
// inspecting driver-specific error strings.
package repository

import (
	"errors"
	"strings"
)

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrTopicNotFound is returned when a topic lookup matches no row.
var ErrTopicNotFound = errors.New("topic not found")

// ErrPostNotFound is returned when a post lookup matches no row.
var ErrPostNotFound = errors.New("post not found")

// ErrCommentNotFound is returned when a comment lookup matches no row.
var ErrCommentNotFound = errors.New("comment not found")

// ErrEmailExists signals a registration or profile update with an email
// already taken by another user. Handlers translate it to HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists signals a username already taken by another user.
var ErrUsernameExists = errors.New("username already exists")

// ErrAlreadySubscribed is returned when inserting a (user, topic)
// subscription pair that already exists.
var ErrAlreadySubscribed = errors.New("already subscribed")

// ErrNotSubscribed is returned when removing a subscription pair that
// does not exist.
var ErrNotSubscribed = errors.New("not subscribed")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// isDuplicateKey reports whether err is a MySQL duplicate-key violation
// (error 1062). The driver does not expose a typed error for it.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "1062")
}
