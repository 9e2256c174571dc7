// Package poller keeps the session's user snapshot fresh.
//
// Freshness is pull-based: every interval the authoritative snapshot is
// re-fetched and handed to the sink. A fetch failure is logged and the next
// tick naturally re-attempts; there is no dedicated retry machinery.
package poller

import (
	"context"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/peltonpa/youtube-scheduler/internal/domain/user"
	"github.com/peltonpa/youtube-scheduler/internal/store"
)

// Sink receives freshly fetched snapshots.
type Sink interface {
	ApplySnapshot(ctx context.Context, users []user.User)
}

// Config holds poller configuration.
type Config struct {
	OwnerID  string
	Interval time.Duration // Reference value 5s
}

// Poller periodically pulls the owner's user/queue snapshot from the store.
type Poller struct {
	store   store.Store
	sink    Sink
	ownerID string

	interval time.Duration
	refresh  <-chan struct{} // Out-of-band pull requests from the session
}

// New creates a poller. refresh may be nil when no out-of-band pulls are
// wanted.
func New(st store.Store, sink Sink, refresh <-chan struct{}, cfg Config) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{
		store:    st,
		sink:     sink,
		ownerID:  cfg.OwnerID,
		interval: interval,
		refresh:  refresh,
	}
}

// Run polls until the context is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-p.refresh:
		}

		p.pollOnce(ctx)
	}
}

// pollOnce fetches one snapshot and feeds it to the sink.
func (p *Poller) pollOnce(ctx context.Context) {
	users, err := p.store.ListUsers(ctx, p.ownerID)
	if err != nil {
		zlog.Warn().Err(err).Msg("poller: snapshot fetch failed")
		return
	}

	p.sink.ApplySnapshot(ctx, users)
}
