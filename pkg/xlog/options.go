package xlog

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/HorseArcher567/logsink/pkg/xlog/rotate"
)

// Option configures a Logger or a Nop.
type Option func(*options)

type options struct {
	configFile   string
	consoleLevel Level
	truncate     bool
	location     *time.Location
	mode         rotate.Mode
	maxAge       int
	console      io.Writer
	diag         *slog.Logger
	now          func() time.Time
	exit         func(code int)
}

func newOptions(opts []Option) *options {
	o := &options{
		configFile: DefaultConfigFile,
		location:   time.Local,
		mode:       rotate.DayOfMonth,
		console:    os.Stdout,
		now:        time.Now,
		exit:       os.Exit,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.diag == nil {
		o.diag = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return o
}

// WithConfigFile sets the config source. Defaults to DefaultConfigFile.
func WithConfigFile(path string) Option {
	return func(o *options) {
		if path != "" {
			o.configFile = path
		}
	}
}

// WithConsoleLevel overrides the console threshold from the config source.
// The file threshold is not affected.
func WithConsoleLevel(level Level) Option {
	return func(o *options) {
		o.consoleLevel = level
	}
}

// WithTruncate opens the log file truncated instead of appending to it.
func WithTruncate(truncate bool) Option {
	return func(o *options) {
		o.truncate = truncate
	}
}

// WithLocation sets the timezone used for timestamps and rotation dates.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithRotateMode selects how the existing file's date is compared to today.
func WithRotateMode(mode rotate.Mode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithArchiveMaxAge removes archives older than days after a rotation.
func WithArchiveMaxAge(days int) Option {
	return func(o *options) {
		o.maxAge = days
	}
}

// WithConsole redirects the console sink. Defaults to os.Stdout.
func WithConsole(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.console = w
		}
	}
}

// WithDiagnostics sets where the logger reports its own problems.
// Defaults to a text handler on os.Stderr.
func WithDiagnostics(l *slog.Logger) Option {
	return func(o *options) {
		o.diag = l
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithExit replaces os.Exit for MustNew.
func WithExit(exit func(code int)) Option {
	return func(o *options) {
		if exit != nil {
			o.exit = exit
		}
	}
}
