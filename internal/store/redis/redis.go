// Package redis provides a Redis-backed queue store.
package redis

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/peltonpa/youtube-scheduler/internal/domain/user"
	"github.com/peltonpa/youtube-scheduler/internal/store"
)

// Config represents Redis store configuration.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Store is a Redis-backed queue store.
//
// Key layout:
//
//	owner:{id}            marker for owner existence
//	owner:{id}:users      list of user ids in creation order
//	user:{id}             hash with name and owner fields
//	user:{id}:queue       list of queued video ids
type Store struct {
	rc *goredis.Client
}

// New creates a Redis store and verifies connectivity.
func New(ctx context.Context, cfg Config) (*Store, error) {
	rc := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rc.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to redis")
	}

	return &Store{rc: rc}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.rc.Close()
}

func ownerKey(ownerID string) string {
	return "owner:" + ownerID
}

func ownerUsersKey(ownerID string) string {
	return "owner:" + ownerID + ":users"
}

func userKey(userID string) string {
	return "user:" + userID
}

func userQueueKey(userID string) string {
	return "user:" + userID + ":queue"
}

// CreateOwner creates a new room owner.
func (s *Store) CreateOwner(ctx context.Context) (store.Owner, error) {
	id := uuid.New().String()
	if err := s.rc.Set(ctx, ownerKey(id), "1", 0).Err(); err != nil {
		return store.Owner{}, errors.Wrap(err, "failed to create owner")
	}
	return store.Owner{ID: id}, nil
}

// CreateUser creates a user with an empty queue under the given owner.
func (s *Store) CreateUser(ctx context.Context, name, ownerID string) (user.User, error) {
	exists, err := s.rc.Exists(ctx, ownerKey(ownerID)).Result()
	if err != nil {
		return user.User{}, errors.Wrap(err, "failed to check owner")
	}
	if exists == 0 {
		return user.User{}, store.ErrOwnerNotFound
	}

	id := uuid.New().String()

	pipe := s.rc.TxPipeline()
	pipe.HSet(ctx, userKey(id), "name", name, "owner", ownerID)
	pipe.RPush(ctx, ownerUsersKey(ownerID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return user.User{}, errors.Wrap(err, "failed to create user")
	}

	return user.User{ID: id, Name: name, VideoQueue: []string{}}, nil
}

// ListUsers returns the owner's users in creation order.
func (s *Store) ListUsers(ctx context.Context, ownerID string) ([]user.User, error) {
	exists, err := s.rc.Exists(ctx, ownerKey(ownerID)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to check owner")
	}
	if exists == 0 {
		return nil, store.ErrOwnerNotFound
	}

	ids, err := s.rc.LRange(ctx, ownerUsersKey(ownerID), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list user ids")
	}

	users := make([]user.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.getUser(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// ReplaceQueue replaces a user's whole video queue. The delete and the push
// run in one transaction so readers never observe a half-replaced queue.
func (s *Store) ReplaceQueue(ctx context.Context, userID string, queue []string) (user.User, error) {
	name, err := s.rc.HGet(ctx, userKey(userID), "name").Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return user.User{}, store.ErrUserNotFound
		}
		return user.User{}, errors.Wrap(err, "failed to get user")
	}

	pipe := s.rc.TxPipeline()
	pipe.Del(ctx, userQueueKey(userID))
	if len(queue) > 0 {
		values := make([]interface{}, len(queue))
		for i, v := range queue {
			values[i] = v
		}
		pipe.RPush(ctx, userQueueKey(userID), values...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return user.User{}, errors.Wrap(err, "failed to replace queue")
	}

	replaced := make([]string, len(queue))
	copy(replaced, queue)
	return user.User{ID: userID, Name: name, VideoQueue: replaced}, nil
}

// GetQueue returns a single user with their current queue.
func (s *Store) GetQueue(ctx context.Context, userID string) (user.User, error) {
	return s.getUser(ctx, userID)
}

func (s *Store) getUser(ctx context.Context, userID string) (user.User, error) {
	name, err := s.rc.HGet(ctx, userKey(userID), "name").Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return user.User{}, store.ErrUserNotFound
		}
		return user.User{}, errors.Wrap(err, "failed to get user")
	}

	queue, err := s.rc.LRange(ctx, userQueueKey(userID), 0, -1).Result()
	if err != nil {
		return user.User{}, errors.Wrap(err, "failed to get queue")
	}
	if queue == nil {
		queue = []string{}
	}

	return user.User{ID: userID, Name: name, VideoQueue: queue}, nil
}
