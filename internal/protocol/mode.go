package protocol

import (
	"fmt"
	"strings"
)

// Mode selects which command frames map to on/off/unblock.
type Mode string

const (
	ModeBasic     Mode = "basic"
	ModeAlternate Mode = "alternate"
)

// CommandSet holds the opaque frames for one mode.
type CommandSet struct {
	On      []byte
	Off     []byte
	Unblock []byte
}

var modeCommands = map[Mode][3]string{
	ModeBasic: {
		`["SEC","1","J30253000000000001"]`,
		`["SEC","1","J30254000000000001"]`,
		`["SEC","1","J30255000000000001"]`,
	},
	ModeAlternate: {
		`["SEC","1","I30253000000000001"]`,
		`["SEC","1","I30254000000000001"]`,
		`["SEC","1","I30255000000000001"]`,
	},
}

// ParseMode accepts "basic" or "alternate" in any case; empty means basic.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return ModeBasic, nil
	}
	if _, ok := modeCommands[m]; !ok {
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidArgument, s)
	}
	return m, nil
}

// Commands returns the command frames for mode.
func Commands(mode Mode) (CommandSet, error) {
	frames, ok := modeCommands[mode]
	if !ok {
		return CommandSet{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidArgument, mode)
	}
	return CommandSet{
		On:      []byte(frames[0]),
		Off:     []byte(frames[1]),
		Unblock: []byte(frames[2]),
	}, nil
}
