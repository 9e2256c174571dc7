// Package store defines the queue store capability shared by all backends.
//
// Queues are mutated through whole-queue replacement only; callers compute
// the new full sequence from their most recent read and submit it wholesale.
package store

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/peltonpa/youtube-scheduler/internal/domain/user"
)

// Errors
var (
	ErrOwnerNotFound = errors.New("owner not found")
	ErrUserNotFound  = errors.New("user not found")
)

// Owner identifies a room owner.
type Owner struct {
	ID string
}

// Store is the queue store capability. Production and test implementations
// both satisfy it, so the session can be exercised without network I/O.
type Store interface {
	// CreateOwner creates a new room owner.
	CreateOwner(ctx context.Context) (Owner, error)
	// CreateUser creates a user with an empty queue under the given owner.
	CreateUser(ctx context.Context, name, ownerID string) (user.User, error)
	// ListUsers returns the owner's users in creation order.
	ListUsers(ctx context.Context, ownerID string) ([]user.User, error)
	// ReplaceQueue replaces a user's whole video queue and returns the
	// updated user.
	ReplaceQueue(ctx context.Context, userID string, queue []string) (user.User, error)
	// GetQueue returns a single user with their current queue.
	GetQueue(ctx context.Context, userID string) (user.User, error)
}
