package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasQueuedVideos(t *testing.T) {
	tests := []struct {
		name     string
		queue    []string
		expected bool
	}{
		{name: "non-empty queue", queue: []string{"dQw4w9WgXcQ"}, expected: true},
		{name: "empty queue", queue: []string{}, expected: false},
		{name: "nil queue", queue: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := User{ID: "u1", Name: "Test", VideoQueue: tt.queue}
			assert.Equal(t, tt.expected, u.HasQueuedVideos())
		})
	}
}

func TestPoppedQueue(t *testing.T) {
	u := User{ID: "u1", VideoQueue: []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"}}

	popped := u.PoppedQueue()
	assert.Equal(t, []string{"bbbbbbbbbbb", "ccccccccccc"}, popped)
	// The original queue is untouched.
	assert.Equal(t, []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"}, u.VideoQueue)

	// Popping a single-element queue leaves an empty, non-nil slice.
	single := User{ID: "u2", VideoQueue: []string{"aaaaaaaaaaa"}}
	assert.Equal(t, []string{}, single.PoppedQueue())

	empty := User{ID: "u3"}
	assert.Equal(t, []string{}, empty.PoppedQueue())
}

func TestCloneAll(t *testing.T) {
	users := []User{
		{ID: "u1", Name: "A", VideoQueue: []string{"aaaaaaaaaaa"}},
		{ID: "u2", Name: "B", VideoQueue: []string{"bbbbbbbbbbb", "ccccccccccc"}},
	}

	cloned := CloneAll(users)
	assert.Equal(t, users, cloned)

	// Mutating the clone must not leak into the source.
	cloned[0].VideoQueue[0] = "zzzzzzzzzzz"
	cloned[1].VideoQueue = cloned[1].VideoQueue[1:]
	assert.Equal(t, "aaaaaaaaaaa", users[0].VideoQueue[0])
	assert.Len(t, users[1].VideoQueue, 2)
}
