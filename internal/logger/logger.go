package logger

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Output encodings.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	ErrUnknownLevel  = errors.New("unknown log level")
	ErrUnknownFormat = errors.New("unknown log format")
)

// Options selects the level and encoder. Empty fields mean info/console.
type Options struct {
	Level  string
	Format string
}

func (o Options) normalized() Options {
	return Options{
		Level:  strings.ToLower(strings.TrimSpace(o.Level)),
		Format: strings.ToLower(strings.TrimSpace(o.Format)),
	}
}

// Validate reports whether New would accept o.
func (o Options) Validate() error {
	o = o.normalized()
	if _, err := toZapLevel(o.Level); err != nil {
		return err
	}
	if _, err := newEncoder(o.Format); err != nil {
		return err
	}
	return nil
}

var (
	// globalLogger holds the singleton logger instance.
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger. The first call fixes its options;
// invalid options fall back to info/console and are reported once.
func Get(opts Options) *Logger {
	once.Do(func() {
		l, err := New(opts)
		if err != nil {
			l, _ = New(Options{})
			l.Warnw("logger_options_invalid", "err", err)
		}
		globalLogger = l
	})
	return globalLogger
}

// New builds a logger writing to stdout.
func New(opts Options) (*Logger, error) {
	return newLogger(opts, zapcore.Lock(os.Stdout))
}

// NewNop returns a logger that discards everything. Meant for tests.
func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func newLogger(opts Options, ws zapcore.WriteSyncer) (*Logger, error) {
	opts = opts.normalized()
	level, err := toZapLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	enc, err := newEncoder(opts.Format)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(enc, ws, zap.NewAtomicLevelAt(level))
	return &Logger{SugaredLogger: zap.New(core).Sugar()}, nil
}

func unknown(kind error, v string) error {
	return fmt.Errorf("%w: %q", kind, v)
}
