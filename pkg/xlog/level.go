package xlog

import (
	"errors"
	"fmt"
	"strings"
)

// Level is the severity of a record. Higher is more severe.
type Level int

const (
	// LevelUnset is the zero value: a sink with an unset threshold never emits.
	LevelUnset Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// ErrUnknownLevel is returned for a level name other than DEBUG, INFO, WARN or ERROR.
var ErrUnknownLevel = errors.New("unknown log level")

// String returns the upper-case level name used in log lines.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelUnset:
		return "UNSET"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// ParseLevel resolves a level name, ignoring case.
func ParseLevel(name string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	default:
		return LevelUnset, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
}

// admits reports whether a record of rank passes threshold l.
func (l Level) admits(rank Level) bool {
	return l != LevelUnset && rank >= l
}
