// Package session drives the owner's playback session.
package session

// State represents the playback session state.
type State int

const (
	StateIdle     State = iota // No video playing, no candidate in flight
	StateAwaiting              // Candidate chosen, queue-pop write in flight
	StatePlaying               // Video is playing
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaiting:
		return "awaiting"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}
