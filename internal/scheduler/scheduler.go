// Package scheduler selects the next video to play across user queues.
//
// Selection is a pure function of the user snapshot and the session's
// last-played record. Users who have never had a video scheduled this session
// win over everyone else, so a newly added user always gets one turn before
// any repeat. Among previously scheduled users the least recently served one
// is picked, approximating max-min fairness across participants rather than
// across videos.
package scheduler

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/peltonpa/youtube-scheduler/internal/domain/user"
)

// ErrEmptyQueue indicates the selected user's queue was empty at video-read
// time. The snapshot and the selection disagreed, which is a logic fault
// rather than a normal runtime condition.
var ErrEmptyQueue = errors.New("selected user has an empty queue")

// Candidate is the (user, video) pair chosen to play next.
type Candidate struct {
	UserID  string
	VideoID string
}

// Next returns the fairest next candidate, or nil when no user has a queued
// video. Ties are broken by position in the input slice, so selection is
// deterministic for a given snapshot.
func Next(users []user.User, lastPlayed map[string]time.Time) (*Candidate, error) {
	pick := -1

	// New-user priority: the first eligible user never scheduled this session
	// wins outright.
	for i := range users {
		if !users[i].HasQueuedVideos() {
			continue
		}
		if _, scheduled := lastPlayed[users[i].ID]; !scheduled {
			pick = i
			break
		}
	}

	// Fallback: least recently served among eligible users.
	if pick == -1 {
		for i := range users {
			if !users[i].HasQueuedVideos() {
				continue
			}
			if pick == -1 || lastPlayed[users[i].ID].Before(lastPlayed[users[pick].ID]) {
				pick = i
			}
		}
	}

	if pick == -1 {
		return nil, nil
	}

	selected := &users[pick]
	if len(selected.VideoQueue) == 0 {
		return nil, errors.Wrapf(ErrEmptyQueue, "user %s", selected.ID)
	}

	return &Candidate{UserID: selected.ID, VideoID: selected.VideoQueue[0]}, nil
}
