package service

import (
	"context"
	"time"

	"fourheat/internal/logger"
	"fourheat/internal/models"
	"fourheat/internal/protocol"
	"fourheat/internal/repository"

	"github.com/google/uuid"
)

// commander is the part of *Dispatcher the stove service depends on.
type commander interface {
	TurnOn(ctx context.Context)
	TurnOff(ctx context.Context)
	Unblock(ctx context.Context)
	SetValue(ctx context.Context, pointID string, value int64)
}

type StoveService struct {
	cmd       commander
	eventRepo repository.EventRepo
	log       *logger.Logger
}

func NewStoveService(cmd commander, eventRepo repository.EventRepo, log *logger.Logger) *StoveService {
	if log == nil {
		log = logger.NewNop()
	}
	return &StoveService{cmd: cmd, eventRepo: eventRepo, log: log}
}

// TurnOn sends the mode's ON frame and logs a COMMAND event.
func (s *StoveService) TurnOn(ctx context.Context) {
	s.cmd.TurnOn(ctx)
	s.record(ctx, CommandOn, "Turn on requested", nil)
}

// TurnOff sends the mode's OFF frame and logs a COMMAND event.
func (s *StoveService) TurnOff(ctx context.Context) {
	s.cmd.TurnOff(ctx)
	s.record(ctx, CommandOff, "Turn off requested", nil)
}

// Unblock sends the mode's UNBLOCK frame and logs a COMMAND event.
func (s *StoveService) Unblock(ctx context.Context) {
	s.cmd.Unblock(ctx)
	s.record(ctx, CommandUnblock, "Unblock requested", nil)
}

// SetValue rejects arguments the frame cannot carry, then dispatches.
// The dispatch itself reports nothing back.
func (s *StoveService) SetValue(ctx context.Context, p SetValueParams) error {
	if _, err := protocol.EncodeSetValue(p.PointID, p.Value); err != nil {
		return err
	}
	s.cmd.SetValue(ctx, p.PointID, p.Value)
	s.record(ctx, CommandSetValue, "Set value requested", map[string]any{
		"point_id": p.PointID,
		"value":    p.Value,
	})
	return nil
}

func (s *StoveService) record(ctx context.Context, command, desc string, extra map[string]any) {
	meta := map[string]any{"command": command}
	for k, v := range extra {
		meta[k] = v
	}
	err := s.eventRepo.Append(ctx, models.StoveEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        models.EventCommand,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil {
		s.log.Errorw("stove_event_append_failed", "command", command, "err", err)
	}
}
