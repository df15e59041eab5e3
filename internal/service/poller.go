package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"fourheat/internal/logger"
	"fourheat/internal/models"
)

// refresher is the part of Monitoring the poller drives.
type refresher interface {
	Refresh(ctx context.Context) (models.Snapshot, error)
}

// PollerService is the scheduler: it calls Refresh on a fixed interval and
// pushes fresh snapshots to subscribers.
type PollerService struct {
	source refresher
	log    *logger.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]chan models.Snapshot
}

func NewPollerService(source refresher, log *logger.Logger) *PollerService {
	if log == nil {
		log = logger.NewNop()
	}
	return &PollerService{
		source: source,
		log:    log,
		subs:   make(map[int]chan models.Snapshot),
	}
}

// Run refreshes once right away, then on every tick until ctx is canceled.
// Ticks never overlap: a slow refresh delays the next one.
func (p *PollerService) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.tick(ctx)
		}
	}
}

func (p *PollerService) tick(ctx context.Context) {
	snap, err := p.source.Refresh(ctx)
	switch {
	case err == nil:
		p.publish(snap)
	case errors.Is(err, ErrNoData):
		p.log.Infow("stove_poll_no_data")
	case ctx.Err() != nil:
		// shutting down
	default:
		p.log.Errorw("stove_poll_failed", "err", err)
	}
}

// Subscribe returns a channel receiving every fresh snapshot and a cancel
// func. Slow subscribers only ever see the latest snapshot.
func (p *PollerService) Subscribe() (<-chan models.Snapshot, func()) {
	ch := make(chan models.Snapshot, 1)

	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = ch
	p.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
			close(ch)
		})
	}
}

func (p *PollerService) publish(snap models.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range p.subs {
		// drop the undelivered snapshot, keep the newest
		select {
		case <-ch:
		default:
		}
		ch <- snap.Clone()
	}
}
