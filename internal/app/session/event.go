package session

import "github.com/peltonpa/youtube-scheduler/internal/scheduler"

// EventType represents a session event type.
type EventType int

const (
	EventVideoStarted EventType = iota // A video entered playback
	EventVideoEnded                    // The playing video finished
	EventVideoSkipped                  // The playing video was skipped
	EventQueueEmpty                    // No eligible user remains
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventVideoStarted:
		return "video_started"
	case EventVideoEnded:
		return "video_ended"
	case EventVideoSkipped:
		return "video_skipped"
	case EventQueueEmpty:
		return "queue_empty"
	default:
		return "unknown"
	}
}

// Event represents a session event.
type Event struct {
	Type      EventType
	Candidate *scheduler.Candidate // Affected (user, video) pair, nil for EventQueueEmpty
	State     State                // Session state after the event
}
