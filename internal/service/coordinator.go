package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fourheat/internal/logger"
	"fourheat/internal/models"
	"fourheat/internal/protocol"
	"fourheat/internal/transport"
)

// ErrUpdateFailed wraps every non-timeout refresh failure.
var ErrUpdateFailed = errors.New("stove update failed")

// Exchanger sends one frame and returns the raw reply.
// *transport.Client is the production implementation.
type Exchanger interface {
	SendAndReceive(ctx context.Context, frame []byte) ([]byte, error)
}

// Recorder receives refresh and command outcomes (Prometheus in production).
type Recorder interface {
	RefreshOutcome(outcome string)
	CommandOutcome(command, outcome string)
	FetchTiming(start time.Time)
}

type nopRecorder struct{}

func (nopRecorder) RefreshOutcome(string)         {}
func (nopRecorder) CommandOutcome(string, string) {}
func (nopRecorder) FetchTiming(time.Time)         {}

// Outcome classifies a single Poll call.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"      // fetched and merged
	OutcomeStale   Outcome = "stale"   // another fetch was in flight
	OutcomeTimeout Outcome = "timeout" // timed out, cached snapshot (if any) kept
	OutcomeExpired Outcome = "expired" // timed out past the retry budget, cache dropped
	OutcomeFailed  Outcome = "failed"  // hard error, cache untouched
)

// DeviceIdentity is fixed for the lifetime of a coordinator.
type DeviceIdentity struct {
	Host    string
	Port    int
	Mode    protocol.Mode
	StoveID string
}

// CoordinatorConfig is the construction-time input of a Coordinator.
type CoordinatorConfig struct {
	Identity       DeviceIdentity
	SocketTimeout  time.Duration
	TimeoutRetries int
}

// Coordinator polls the stove with at most one fetch in flight and keeps
// the last successfully parsed snapshot.
type Coordinator struct {
	identity     DeviceIdentity
	fetchTimeout time.Duration
	retries      int
	ex           Exchanger
	log          *logger.Logger
	rec          Recorder

	mu       sync.Mutex
	inFlight bool
	timeouts int
	last     models.Snapshot // nil when absent
}

// NewCoordinator builds a coordinator. rec may be nil.
func NewCoordinator(cfg CoordinatorConfig, ex Exchanger, log *logger.Logger, rec Recorder) (*Coordinator, error) {
	if ex == nil {
		return nil, errors.New("coordinator: exchanger required")
	}
	if cfg.SocketTimeout <= 0 {
		return nil, errors.New("coordinator: socket timeout must be > 0")
	}
	if cfg.TimeoutRetries < 0 {
		return nil, errors.New("coordinator: timeout retries must be >= 0")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Coordinator{
		identity:     cfg.Identity,
		fetchTimeout: cfg.SocketTimeout + protocol.OuterTimeoutSlack,
		retries:      cfg.TimeoutRetries,
		ex:           ex,
		log:          log.With("stove_id", cfg.Identity.StoveID, "host", cfg.Identity.Host, "port", cfg.Identity.Port),
		rec:          rec,
	}, nil
}

// Identity returns the device identity.
func (c *Coordinator) Identity() DeviceIdentity { return c.identity }

// Snapshot returns a copy of the cached snapshot, nil when absent.
func (c *Coordinator) Snapshot() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last.Clone()
}

// TimeoutCount returns the number of consecutive timeouts absorbed so far.
func (c *Coordinator) TimeoutCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeouts
}

// Refresh fetches fresh data. Timeouts never surface as errors; any other
// failure is returned wrapped in ErrUpdateFailed.
func (c *Coordinator) Refresh(ctx context.Context) (models.Snapshot, error) {
	snap, _, err := c.Poll(ctx)
	return snap, err
}

// Poll is Refresh that also reports how the call ended.
func (c *Coordinator) Poll(ctx context.Context) (models.Snapshot, Outcome, error) {
	if !c.begin() {
		c.log.Warnw("stove_stale_data", "reason", "update already in flight")
		c.rec.RefreshOutcome(string(OutcomeStale))
		return c.Snapshot(), OutcomeStale, nil
	}
	defer c.end()

	start := time.Now()
	update, err := c.fetch(ctx)
	c.rec.FetchTiming(start)

	snap, outcome, err := c.apply(update, err)
	c.rec.RefreshOutcome(string(outcome))
	return snap, outcome, err
}

func (c *Coordinator) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return false
	}
	c.inFlight = true
	return true
}

func (c *Coordinator) end() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

// fetch runs the data query, falling back to the error query once.
func (c *Coordinator) fetch(ctx context.Context) (models.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	tokens, err := c.query(ctx, protocol.DataQuery())
	if err != nil {
		return nil, err
	}
	if protocol.IsErrorResult(tokens) {
		c.log.Infow("stove_error_result", "action", "querying error report")
		if tokens, err = c.query(ctx, protocol.ErrorQuery()); err != nil {
			return nil, err
		}
	}
	return protocol.ParseTokens(tokens)
}

func (c *Coordinator) query(ctx context.Context, frame []byte) ([]string, error) {
	raw, err := c.ex.SendAndReceive(ctx, frame)
	if err != nil {
		return nil, err
	}
	return protocol.DecodeResponse(raw), nil
}

// apply folds one fetch result into the update state.
func (c *Coordinator) apply(update models.Snapshot, err error) (models.Snapshot, Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case err == nil:
		c.last = protocol.Merge(c.last, update)
		c.timeouts = 0
		c.log.Debugw("stove_refreshed", "points", len(update))
		return c.last.Clone(), OutcomeOK, nil

	case isTimeout(err):
		c.log.Errorw("stove_refresh_timeout", "err", err, "timeouts", c.timeouts)
		if c.last == nil {
			return nil, OutcomeTimeout, nil
		}
		if c.timeouts < c.retries {
			c.timeouts++
			return c.last.Clone(), OutcomeTimeout, nil
		}
		c.log.Errorw("stove_data_expired", "timeouts", c.timeouts, "retries", c.retries)
		c.last = nil
		return nil, OutcomeExpired, nil

	default:
		c.log.Errorw("stove_refresh_failed", "err", err)
		return nil, OutcomeFailed, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}
}

func isTimeout(err error) bool {
	return errors.Is(err, transport.ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}
