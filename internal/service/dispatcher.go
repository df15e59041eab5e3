package service

import (
	"context"
	"errors"

	"fourheat/internal/logger"
	"fourheat/internal/protocol"
)

// Command names used in logs and metrics.
const (
	CommandOn       = "on"
	CommandOff      = "off"
	CommandUnblock  = "unblock"
	CommandSetValue = "set_value"
)

// Dispatcher sends fire-and-forget commands. Failures are logged and
// counted, never returned, and the polling state is never touched.
type Dispatcher struct {
	cmds protocol.CommandSet
	ex   Exchanger
	log  *logger.Logger
	rec  Recorder
}

// NewDispatcher selects the command frames for mode once.
func NewDispatcher(id DeviceIdentity, ex Exchanger, log *logger.Logger, rec Recorder) (*Dispatcher, error) {
	if ex == nil {
		return nil, errors.New("dispatcher: exchanger required")
	}
	cmds, err := protocol.Commands(id.Mode)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Dispatcher{
		cmds: cmds,
		ex:   ex,
		log:  log.With("stove_id", id.StoveID, "host", id.Host),
		rec:  rec,
	}, nil
}

func (d *Dispatcher) TurnOn(ctx context.Context) { d.send(ctx, CommandOn, d.cmds.On) }

func (d *Dispatcher) TurnOff(ctx context.Context) { d.send(ctx, CommandOff, d.cmds.Off) }

func (d *Dispatcher) Unblock(ctx context.Context) { d.send(ctx, CommandUnblock, d.cmds.Unblock) }

// SetValue writes value to data point pointID. Invalid arguments are
// rejected before any connection is opened.
func (d *Dispatcher) SetValue(ctx context.Context, pointID string, value int64) {
	frame, err := protocol.EncodeSetValue(pointID, value)
	if err != nil {
		d.log.Errorw("stove_command_failed", "command", CommandSetValue, "err", err)
		d.rec.CommandOutcome(CommandSetValue, "failed")
		return
	}
	d.log.Debugw("stove_command_frame", "command", CommandSetValue, "frame", string(frame))
	d.send(ctx, CommandSetValue, frame)
}

func (d *Dispatcher) send(ctx context.Context, name string, frame []byte) {
	reply, err := d.ex.SendAndReceive(ctx, frame)
	if err != nil {
		d.log.Errorw("stove_command_failed", "command", name, "err", err)
		d.rec.CommandOutcome(name, "failed")
		return
	}
	d.log.Debugw("stove_command_sent", "command", name, "reply", string(reply))
	d.rec.CommandOutcome(name, "ok")
}
