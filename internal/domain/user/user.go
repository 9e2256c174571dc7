// Package user provides the User domain entity.
package user

// User represents a participant in a room with a personal video queue.
type User struct {
	ID         string   // Opaque unique id
	Name       string   // Display name
	VideoQueue []string // Pending video ids in playback order
}

// HasQueuedVideos reports whether the user is eligible for scheduling.
func (u *User) HasQueuedVideos() bool {
	return len(u.VideoQueue) > 0
}

// PoppedQueue returns a copy of the queue with its head removed.
// Returns an empty slice for an already-empty queue.
func (u *User) PoppedQueue() []string {
	if len(u.VideoQueue) == 0 {
		return []string{}
	}
	rest := make([]string, len(u.VideoQueue)-1)
	copy(rest, u.VideoQueue[1:])
	return rest
}

// CloneAll deep-copies a user snapshot so callers can mutate it freely.
func CloneAll(users []User) []User {
	cloned := make([]User, len(users))
	for i, u := range users {
		queue := make([]string, len(u.VideoQueue))
		copy(queue, u.VideoQueue)
		cloned[i] = User{ID: u.ID, Name: u.Name, VideoQueue: queue}
	}
	return cloned
}
