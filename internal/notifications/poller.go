package notifications

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// Poller reloads the feed's first page periodically. After a failed poll it
// waits according to an exponential back-off that resets on success.
type Poller struct {
	feed     *Feed
	every    time.Duration
	onUpdate func(FeedState)
	newBO    func() backoff.BackOff
}

// NewPoller creates a poller; onUpdate may be nil.
func NewPoller(feed *Feed, every time.Duration, onUpdate func(FeedState)) *Poller {
	if every <= 0 {
		every = 30 * time.Second
	}
	p := &Poller{feed: feed, every: every, onUpdate: onUpdate}
	p.newBO = func() backoff.BackOff {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = p.every
		bo.MaxInterval = 10 * p.every
		bo.MaxElapsedTime = 0
		return bo
	}
	return p
}

// Run polls right away and then every interval until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	log.Info().Dur("poll_every", p.every).Msg("notification poller started")

	bo := p.newBO()
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("notification poller stopping")
			return
		case <-timer.C:
			wait := p.every
			if err := p.poll(ctx); err != nil {
				wait = bo.NextBackOff()
				if wait == backoff.Stop {
					wait = p.every
				}
				log.Warn().Err(err).Dur("retry_in", wait).Msg("notification poll failed")
			} else {
				bo.Reset()
			}
			timer.Reset(wait)
		}
	}
}

func (p *Poller) poll(ctx context.Context) error {
	err := p.feed.Load(ctx)
	if errors.Is(err, ErrBusy) {
		return nil
	}
	if err != nil {
		return err
	}
	if p.onUpdate != nil {
		p.onUpdate(p.feed.Snapshot())
	}
	return nil
}
