package session

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/peltonpa/youtube-scheduler/internal/domain/user"
	"github.com/peltonpa/youtube-scheduler/internal/scheduler"
	"github.com/peltonpa/youtube-scheduler/internal/store"
)

// Errors
var (
	ErrNoVideo = errors.New("no video playing")
)

// Player is the playback widget boundary. It consumes a video id and starts
// playback; the "video ended" signal comes back through OnVideoEnded.
type Player interface {
	Play(ctx context.Context, videoID string) error
}

// Config holds session manager configuration.
type Config struct {
	OwnerID string // Room owner whose users are scheduled
}

// Manager owns the room's currently-playing state and last-played record and
// drives selection on start, snapshot arrival and completion events.
//
// lastPlayed is session-transient: it starts empty on every new session and
// is never persisted. A user id appears in it exactly when one of their
// videos has been scheduled since the session started.
type Manager struct {
	mu sync.Mutex

	store  store.Store
	player Player

	ownerID string

	// Snapshot of all users, refreshed by the poller. The optimistic pop of
	// an in-flight or playing video is applied here so the same video is
	// never selected twice concurrently.
	users []user.User

	lastPlayed map[string]time.Time
	state      State
	pending    *scheduler.Candidate // Candidate whose pop write is in flight
	current    *scheduler.Candidate // Candidate currently playing

	eventCh   chan Event
	refreshCh chan struct{}

	now func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager creates a new session manager.
func NewManager(st store.Store, p Player, cfg Config) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		store:      st,
		player:     p,
		ownerID:    cfg.OwnerID,
		lastPlayed: make(map[string]time.Time),
		state:      StateIdle,
		eventCh:    make(chan Event, 10),
		refreshCh:  make(chan struct{}, 1),
		now:        time.Now,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Events returns the event channel.
func (m *Manager) Events() <-chan Event {
	return m.eventCh
}

// RefreshRequests signals that a fresh snapshot pull is wanted, typically
// right after a queue-pop write landed. The poller drains this channel.
func (m *Manager) RefreshRequests() <-chan struct{} {
	return m.refreshCh
}

// Start fetches the initial snapshot and begins playback if any user has a
// queued video.
func (m *Manager) Start(ctx context.Context) error {
	users, err := m.store.ListUsers(ctx, m.ownerID)
	if err != nil {
		return errors.Wrap(err, "failed to fetch initial snapshot")
	}

	m.mu.Lock()
	m.users = users
	m.mu.Unlock()

	return m.playNext(ctx)
}

// ApplySnapshot merges a freshly fetched snapshot into the session.
//
// The snapshot replaces the previous one for display reads, but never
// triggers re-selection while a video is in flight or playing; re-selection
// is event-driven. A snapshot that raced with the optimistic pop and still
// carries the popped head has the head dropped again.
func (m *Manager) ApplySnapshot(ctx context.Context, users []user.User) {
	m.mu.Lock()
	m.users = users

	if cand := m.inFlightLocked(); cand != nil {
		m.reapplyPopLocked(cand)
	}

	wasIdle := m.state == StateIdle
	m.mu.Unlock()

	if !wasIdle {
		return
	}
	if err := m.playNext(ctx); err != nil {
		zlog.Error().Err(err).Msg("session: selection after snapshot failed")
	}
}

// OnVideoEnded handles the playback widget's "video ended" signal and
// schedules the next video.
func (m *Manager) OnVideoEnded(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StatePlaying || m.current == nil {
		m.mu.Unlock()
		return ErrNoVideo
	}

	ended := m.current
	m.current = nil
	m.state = StateIdle
	m.sendEventLocked(Event{Type: EventVideoEnded, Candidate: ended, State: m.state})
	m.mu.Unlock()

	return m.playNext(ctx)
}

// Skip abandons the playing video and runs a normal selection pass.
func (m *Manager) Skip(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StatePlaying || m.current == nil {
		m.mu.Unlock()
		return ErrNoVideo
	}

	skipped := m.current
	m.current = nil
	m.state = StateIdle
	m.sendEventLocked(Event{Type: EventVideoSkipped, Candidate: skipped, State: m.state})
	m.mu.Unlock()

	return m.playNext(ctx)
}

// Snapshot returns a copy of the current user snapshot for display.
func (m *Manager) Snapshot() []user.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return user.CloneAll(m.users)
}

// CurrentlyPlaying returns the playing candidate, if any.
func (m *Manager) CurrentlyPlaying() (*scheduler.Candidate, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, false
	}
	c := *m.current
	return &c, true
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastPlayed returns a copy of the last-played record.
func (m *Manager) LastPlayed() map[string]time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(map[string]time.Time, len(m.lastPlayed))
	for id, ts := range m.lastPlayed {
		cp[id] = ts
	}
	return cp
}

// Close releases the manager's resources.
func (m *Manager) Close() {
	m.cancel()
	close(m.eventCh)
}

// playNext runs one selection pass: select a candidate, issue the queue-pop
// write, and on acknowledgement record the turn and start playback.
//
// The write-then-timestamp-then-play order is mandatory: a failed write must
// not advance the fairness bookkeeping, so on failure the session falls back
// to Idle and the next pass reconsiders the same candidate.
func (m *Manager) playNext(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateIdle {
		m.mu.Unlock()
		return nil
	}

	cand, err := scheduler.Next(m.users, m.lastPlayed)
	if err != nil {
		m.mu.Unlock()
		// Snapshot and selection disagreed. Surface it, never play an
		// undefined video.
		return errors.Wrap(err, "selection invariant violated")
	}
	if cand == nil {
		m.sendEventLocked(Event{Type: EventQueueEmpty, State: m.state})
		m.mu.Unlock()
		return nil
	}

	newQueue := m.poppedQueueLocked(cand.UserID)
	m.pending = cand
	m.state = StateAwaiting
	m.mu.Unlock()

	// Queue-pop write. Only one is ever in flight: selection only runs from
	// Idle, and the session stays in Awaiting until this resolves.
	if _, err := m.store.ReplaceQueue(ctx, cand.UserID, newQueue); err != nil {
		m.mu.Lock()
		m.pending = nil
		m.state = StateIdle
		m.mu.Unlock()
		return errors.Wrapf(err, "queue-pop write for user %s failed", cand.UserID)
	}

	m.mu.Lock()
	m.reapplyPopLocked(cand)
	m.lastPlayed[cand.UserID] = m.now()
	m.pending = nil
	m.current = cand
	m.state = StatePlaying
	m.sendEventLocked(Event{Type: EventVideoStarted, Candidate: cand, State: m.state})
	m.mu.Unlock()

	// Resynchronize with the store without blocking the new playback.
	m.requestRefresh()

	if err := m.player.Play(ctx, cand.VideoID); err != nil {
		zlog.Error().Err(err).Str("video", cand.VideoID).Msg("session: player failed to start")
		return errors.Wrap(err, "player failed to start")
	}

	zlog.Debug().
		Str("user", cand.UserID).
		Str("video", cand.VideoID).
		Msg("session: video started")

	return nil
}

// inFlightLocked returns the candidate whose pop must stay visible, if any.
func (m *Manager) inFlightLocked() *scheduler.Candidate {
	if m.pending != nil {
		return m.pending
	}
	return m.current
}

// poppedQueueLocked computes the candidate user's queue with its head
// removed, based on the session's most recent read.
func (m *Manager) poppedQueueLocked(userID string) []string {
	for i := range m.users {
		if m.users[i].ID == userID {
			return m.users[i].PoppedQueue()
		}
	}
	return []string{}
}

// reapplyPopLocked drops the candidate's video from the head of its user's
// queue in the local snapshot, if still present. Keeps the optimistic pop
// visible to the next selection even when a stale snapshot raced the write.
func (m *Manager) reapplyPopLocked(cand *scheduler.Candidate) {
	for i := range m.users {
		if m.users[i].ID != cand.UserID {
			continue
		}
		if len(m.users[i].VideoQueue) > 0 && m.users[i].VideoQueue[0] == cand.VideoID {
			m.users[i].VideoQueue = m.users[i].PoppedQueue()
		}
		return
	}
}

// sendEventLocked sends an event without blocking.
// Must be called with lock held.
func (m *Manager) sendEventLocked(e Event) {
	select {
	case m.eventCh <- e:
	case <-m.ctx.Done():
	default:
		// Channel full, drop event
	}
}

// requestRefresh asks the poller for an immediate snapshot pull.
func (m *Manager) requestRefresh() {
	select {
	case m.refreshCh <- struct{}{}:
	default:
		// A refresh is already pending
	}
}
