package service

import (
	"context"
	"sync"
	"time"

	"fourheat/internal/models"
)

// reply is one scripted exchange result.
type reply struct {
	raw string
	err error
}

// fakeExchanger serves scripted replies in order and records every frame.
// When block is set, each call signals entered and waits on block or ctx.
type fakeExchanger struct {
	mu      sync.Mutex
	replies []reply
	frames  []string

	entered chan struct{}
	block   chan struct{}
}

func (f *fakeExchanger) SendAndReceive(ctx context.Context, frame []byte) ([]byte, error) {
	f.mu.Lock()
	f.frames = append(f.frames, string(frame))
	var r reply
	if len(f.replies) > 0 {
		r, f.replies = f.replies[0], f.replies[1:]
	}
	f.mu.Unlock()

	if f.block != nil {
		if f.entered != nil {
			f.entered <- struct{}{}
		}
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return []byte(r.raw), nil
}

func (f *fakeExchanger) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.frames...)
}

type commandCall struct{ command, outcome string }

type fakeRecorder struct {
	mu       sync.Mutex
	refresh  []string
	commands []commandCall
	timings  int
}

func (r *fakeRecorder) RefreshOutcome(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refresh = append(r.refresh, outcome)
}

func (r *fakeRecorder) CommandOutcome(command, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, commandCall{command, outcome})
}

func (r *fakeRecorder) FetchTiming(time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timings++
}

// fakeReadingRepo satisfies repository.ReadingRepo.
type fakeReadingRepo struct {
	saved   []models.Snapshot
	savedAt []time.Time
	saveErr error

	stored  []models.StoredReading
	listErr error
}

func (f *fakeReadingRepo) SaveSnapshot(_ context.Context, snap models.Snapshot, at time.Time) error {
	f.saved = append(f.saved, snap)
	f.savedAt = append(f.savedAt, at)
	return f.saveErr
}

func (f *fakeReadingRepo) List(context.Context) ([]models.StoredReading, error) {
	return f.stored, f.listErr
}
