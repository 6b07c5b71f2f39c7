package app

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/HorseArcher567/logsink/pkg/xlog"
)

// Class is the kind of problem an Event reports.
type Class int

const (
	ClassNotice Class = iota
	ClassDeprecated
	ClassWarning
	ClassError
	ClassUnknown
)

func (c Class) String() string {
	switch c {
	case ClassNotice:
		return "notice"
	case ClassDeprecated:
		return "deprecated"
	case ClassWarning:
		return "warning"
	case ClassError:
		return "error"
	default:
		return "unknown"
	}
}

// Fatal reports whether the process terminates after logging this class.
func (c Class) Fatal() bool {
	return c != ClassNotice && c != ClassDeprecated && c != ClassWarning
}

// Event is an uncaught problem raised somewhere in the process.
type Event struct {
	Class   Class
	File    string
	Line    int
	Message string
}

// Reporter routes Events to a sink. Error and unknown events terminate the
// process after they are logged.
type Reporter struct {
	sink xlog.Sink
	diag *slog.Logger
	exit func(code int)
}

// NewReporter creates a Reporter for sink. sink may be nil: events are then
// reported as diagnostics and nothing terminates. diag and exit default to a
// stderr text logger and os.Exit.
func NewReporter(sink xlog.Sink, diag *slog.Logger, exit func(code int)) *Reporter {
	if diag == nil {
		diag = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	if exit == nil {
		exit = os.Exit
	}
	return &Reporter{sink: sink, diag: diag, exit: exit}
}

// Report logs ev and exits with status 1 for fatal classes.
func (r *Reporter) Report(ev Event) {
	if r.sink == nil {
		r.diag.Error("no logger instance", "class", ev.Class, "file", ev.File, "line", ev.Line, "message", ev.Message)
		return
	}

	switch ev.Class {
	case ClassNotice, ClassDeprecated:
		r.sink.Info(fmt.Sprintf("Notice: %s on line %d : %s", ev.File, ev.Line, ev.Message))
	case ClassWarning:
		r.sink.Warn(fmt.Sprintf("File: %s on line %d : %s", ev.File, ev.Line, ev.Message))
	case ClassError:
		r.sink.Error(fmt.Sprintf("File: %s on line %d : %s", ev.File, ev.Line, ev.Message))
		r.exit(1)
	default:
		r.sink.Error(fmt.Sprintf("Unknown error : %s on line %d", ev.File, ev.Line))
		r.exit(1)
	}
}

// panicSite returns the first non-runtime frame below runtime.gopanic.
func panicSite(skip int) (string, int) {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(skip, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	inPanic := false
	for {
		fr, more := frames.Next()
		if inPanic && !strings.HasPrefix(fr.Function, "runtime.") {
			return fr.File, fr.Line
		}
		if fr.Function == "runtime.gopanic" {
			inPanic = true
		}
		if !more {
			break
		}
	}
	return "unknown", 0
}
