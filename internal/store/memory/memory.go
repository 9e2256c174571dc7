// Package memory provides an in-memory queue store.
//
// It backs the server when no Redis is configured and gives tests a
// deterministic store without network I/O.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/peltonpa/youtube-scheduler/internal/domain/user"
	"github.com/peltonpa/youtube-scheduler/internal/store"
)

type ownerRecord struct {
	id      string
	userIDs []string // creation order
}

// Store is a mutex-guarded in-memory queue store.
type Store struct {
	mu     sync.RWMutex
	owners map[string]*ownerRecord
	users  map[string]*user.User
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		owners: make(map[string]*ownerRecord),
		users:  make(map[string]*user.User),
	}
}

// CreateOwner creates a new room owner.
func (s *Store) CreateOwner(ctx context.Context) (store.Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.owners[id] = &ownerRecord{id: id}
	return store.Owner{ID: id}, nil
}

// CreateUser creates a user with an empty queue under the given owner.
func (s *Store) CreateUser(ctx context.Context, name, ownerID string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, ok := s.owners[ownerID]
	if !ok {
		return user.User{}, store.ErrOwnerNotFound
	}

	u := &user.User{
		ID:         uuid.New().String(),
		Name:       name,
		VideoQueue: []string{},
	}
	s.users[u.ID] = u
	owner.userIDs = append(owner.userIDs, u.ID)

	return cloneUser(u), nil
}

// ListUsers returns the owner's users in creation order.
func (s *Store) ListUsers(ctx context.Context, ownerID string) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owner, ok := s.owners[ownerID]
	if !ok {
		return nil, store.ErrOwnerNotFound
	}

	users := make([]user.User, 0, len(owner.userIDs))
	for _, id := range owner.userIDs {
		if u, ok := s.users[id]; ok {
			users = append(users, cloneUser(u))
		}
	}
	return users, nil
}

// ReplaceQueue replaces a user's whole video queue.
func (s *Store) ReplaceQueue(ctx context.Context, userID string, queue []string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return user.User{}, store.ErrUserNotFound
	}

	replaced := make([]string, len(queue))
	copy(replaced, queue)
	u.VideoQueue = replaced

	return cloneUser(u), nil
}

// GetQueue returns a single user with their current queue.
func (s *Store) GetQueue(ctx context.Context, userID string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return user.User{}, store.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// cloneUser copies a user so callers never share slices with the store.
func cloneUser(u *user.User) user.User {
	queue := make([]string, len(u.VideoQueue))
	copy(queue, u.VideoQueue)
	return user.User{ID: u.ID, Name: u.Name, VideoQueue: queue}
}
