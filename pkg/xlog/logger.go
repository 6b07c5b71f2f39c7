package xlog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/HorseArcher567/logsink/pkg/xlog/rotate"
)

// TimeFormat is the timestamp layout of every record: HH:MM:SS DD/MM/YY.
const TimeFormat = "15:04:05 02/01/06"

// ErrFileOpen means the log file could not be opened for writing.
var ErrFileOpen = errors.New("error while trying to write to log file")

// Logger writes records to the console and to a log file, each gated by its
// own threshold. The log file is archived once per day when the Logger is
// created.
//
// A Logger does no locking; use one per goroutine or serialize calls.
type Logger struct {
	dir      string
	filename string
	file     *os.File
	levels   Thresholds

	loc     *time.Location
	now     func() time.Time
	console io.Writer
	diag    *slog.Logger
}

// New creates a Logger writing to dir/filename and makes it the current sink.
//
// The directory is created if needed, yesterday's file is moved to
// dir/archives, thresholds are read from the config file, and the log file is
// opened. Only a failure to open the log file is returned; every other
// problem is reported to the diagnostics logger and construction goes on.
func New(dir, filename string, opts ...Option) (*Logger, error) {
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrFileOpen)
	}
	o := newOptions(opts)
	path := filepath.Join(dir, filename)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		o.diag.Warn("failed to create log directory", "dir", dir, "error", err)
	}

	archived, err := rotate.Rotate(rotate.Config{
		Dir:      dir,
		Filename: filename,
		Mode:     o.mode,
		MaxAge:   o.maxAge,
		Location: o.location,
		Now:      o.now,
	})
	if err != nil {
		o.diag.Error("log rotation failed, keeping current file", "path", path, "error", err)
	} else if archived != "" {
		o.diag.Debug("log file archived", "path", path, "archive", archived)
	}

	levels, err := LoadThresholds(o.configFile)
	if err != nil {
		o.diag.Error("failed to load log levels", "config", o.configFile, "error", err)
	}
	if o.consoleLevel != LevelUnset {
		levels.Console = o.consoleLevel
	}

	file, err := rotate.Open(path, o.truncate)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFileOpen, path, err)
	}

	l := &Logger{
		dir:      dir,
		filename: filename,
		file:     file,
		levels:   levels,
		loc:      o.location,
		now:      o.now,
		console:  o.console,
		diag:     o.diag,
	}
	SetCurrent(l)
	return l, nil
}

// MustNew is like New but terminates the process with status 1 when the log
// file cannot be opened. A process that cannot log should not run.
func MustNew(dir, filename string, opts ...Option) *Logger {
	l, err := New(dir, filename, opts...)
	if err != nil {
		o := newOptions(opts)
		o.diag.Error("cannot start without a log file, check the main error log", "error", err)
		o.exit(1)
		return nil
	}
	return l
}

// Path returns the active log file path.
func (l *Logger) Path() string {
	return filepath.Join(l.dir, l.filename)
}

// Thresholds returns the effective per-sink thresholds.
func (l *Logger) Thresholds() Thresholds {
	return l.levels
}

// Enabled reports whether a record at level reaches each sink.
func (l *Logger) Enabled(level Level) (console, file bool) {
	return l.levels.Console.admits(level), l.levels.File.admits(level)
}

// Log writes msg at the named level. Unknown level names are rejected with
// ErrUnknownLevel and nothing is written.
func (l *Logger) Log(level, msg string) error {
	lv, err := ParseLevel(level)
	if err != nil {
		return err
	}
	l.emit(lv, msg)
	return nil
}

// Debug, Info, Warn and Error write msg at a fixed level.
func (l *Logger) Debug(msg string) { l.emit(LevelDebug, msg) }
func (l *Logger) Info(msg string)  { l.emit(LevelInfo, msg) }
func (l *Logger) Warn(msg string)  { l.emit(LevelWarn, msg) }
func (l *Logger) Error(msg string) { l.emit(LevelError, msg) }

// Debugf, Infof, Warnf and Errorf format the message with fmt.Sprintf first.
func (l *Logger) Debugf(format string, args ...any) { l.emit(LevelDebug, fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...any)  { l.emit(LevelInfo, fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...any)  { l.emit(LevelWarn, fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any) { l.emit(LevelError, fmt.Sprintf(format, args...)) }

// Close flushes and closes the log file. Records logged afterwards only reach
// the console. Close is idempotent.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	clearCurrent(l)

	syncErr := l.file.Sync()
	closeErr := l.file.Close()
	l.file = nil
	return errors.Join(syncErr, closeErr)
}

func (l *Logger) emit(level Level, msg string) {
	toConsole, toFile := l.Enabled(level)
	if !toConsole && !toFile {
		return
	}

	line := l.format(level, msg)
	if toConsole {
		if _, err := io.WriteString(l.console, line); err != nil {
			l.diag.Error("failed to write to console", "error", err)
		}
	}
	if toFile && l.file != nil {
		if _, err := l.file.WriteString(line); err != nil {
			l.diag.Error("failed to write to log file", "path", l.Path(), "error", err)
		}
	}
}

func (l *Logger) format(level Level, msg string) string {
	return fmt.Sprintf("[%s] %s: %s\n", l.now().In(l.loc).Format(TimeFormat), level, msg)
}
