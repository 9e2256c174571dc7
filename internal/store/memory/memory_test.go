package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peltonpa/youtube-scheduler/internal/store"
)

func TestCreateAndListUsers(t *testing.T) {
	ctx := context.Background()
	s := New()

	owner, err := s.CreateOwner(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, owner.ID)

	names := []string{"kari", "seppo", "ismo"}
	for _, name := range names {
		u, err := s.CreateUser(ctx, name, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, name, u.Name)
		assert.Equal(t, []string{}, u.VideoQueue)
	}

	users, err := s.ListUsers(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, users, 3)

	// Creation order is preserved.
	for i, u := range users {
		assert.Equal(t, names[i], u.Name)
	}
}

func TestCreateUser_UnknownOwner(t *testing.T) {
	s := New()

	_, err := s.CreateUser(context.Background(), "kari", "missing")
	assert.ErrorIs(t, err, store.ErrOwnerNotFound)
}

func TestListUsers_UnknownOwner(t *testing.T) {
	s := New()

	_, err := s.ListUsers(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrOwnerNotFound)
}

func TestReplaceQueue(t *testing.T) {
	ctx := context.Background()
	s := New()

	owner, err := s.CreateOwner(ctx)
	require.NoError(t, err)
	created, err := s.CreateUser(ctx, "kari", owner.ID)
	require.NoError(t, err)

	queue := []string{"DXOPAHGOmL4", "ozOLfaHtL5I"}
	updated, err := s.ReplaceQueue(ctx, created.ID, queue)
	require.NoError(t, err)
	assert.Equal(t, queue, updated.VideoQueue)

	// The store keeps its own copy; mutating the caller's slice is harmless.
	queue[0] = "mutated"
	got, err := s.GetQueue(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "DXOPAHGOmL4", got.VideoQueue[0])

	// Replacement is wholesale: an empty queue clears everything.
	updated, err = s.ReplaceQueue(ctx, created.ID, []string{})
	require.NoError(t, err)
	assert.Empty(t, updated.VideoQueue)
}

func TestReplaceQueue_UnknownUser(t *testing.T) {
	s := New()

	_, err := s.ReplaceQueue(context.Background(), "missing", []string{"DXOPAHGOmL4"})
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestGetQueue_UnknownUser(t *testing.T) {
	s := New()

	_, err := s.GetQueue(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestOwnersAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := New()

	ownerA, err := s.CreateOwner(ctx)
	require.NoError(t, err)
	ownerB, err := s.CreateOwner(ctx)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := s.CreateUser(ctx, fmt.Sprintf("a%d", i), ownerA.ID)
		require.NoError(t, err)
	}
	_, err = s.CreateUser(ctx, "b0", ownerB.ID)
	require.NoError(t, err)

	usersA, err := s.ListUsers(ctx, ownerA.ID)
	require.NoError(t, err)
	usersB, err := s.ListUsers(ctx, ownerB.ID)
	require.NoError(t, err)

	assert.Len(t, usersA, 2)
	assert.Len(t, usersB, 1)
}
