package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"runtime"
	"time"

	"github.com/HorseArcher567/logsink/pkg/xlog"
)

// ShutdownHook is executed during shutdown, before the sink is closed.
type ShutdownHook func(ctx context.Context, a *App)

// RunFunc is the body of the application. A returned error is reported as an
// error event.
type RunFunc func(ctx context.Context, a *App) error

// App owns the process log sink: it creates it, hands it to the code it runs,
// routes uncaught problems to it and closes it on the way out.
type App struct {
	// log is the application-wide sink.
	log xlog.Sink
	// sinkOpts are appended when the sink is built from config.
	sinkOpts []xlog.Option

	// reporter routes uncaught problems to log.
	reporter *Reporter

	diag *slog.Logger
	exit func(code int)

	shutdownHooks []ShutdownHook
	closed        bool
}

// New creates a new App and builds its sink from the framework configuration.
func New(framework *Framework, opts ...Option) (*App, error) {
	if framework == nil {
		return nil, errors.New("app: framework config cannot be nil")
	}

	a := &App{exit: os.Exit}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if a.diag == nil {
		a.diag = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	if a.log == nil {
		sink, err := xlog.Open(framework.LoggerCfg, append([]xlog.Option{
			xlog.WithDiagnostics(a.diag),
			xlog.WithExit(a.exit),
		}, a.sinkOpts...)...)
		if err != nil {
			return nil, fmt.Errorf("app: failed to open log sink: %w", err)
		}
		a.log = sink
	}

	a.reporter = NewReporter(a.log, a.diag, a.terminate)
	return a, nil
}

// MustNew is like New but reports the error and exits with status 1.
func MustNew(framework *Framework, opts ...Option) *App {
	a, err := New(framework, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	return a
}

// Logger returns the application sink.
func (a *App) Logger() xlog.Sink {
	return a.log
}

// Reporter returns the reporter bound to the application sink.
func (a *App) Reporter() *Reporter {
	return a.reporter
}

// Report forwards ev to the application reporter.
func (a *App) Report(ev Event) {
	a.reporter.Report(ev)
}

// OnShutdown registers a hook to be executed during shutdown.
func (a *App) OnShutdown(h ShutdownHook) *App {
	if h != nil {
		a.shutdownHooks = append(a.shutdownHooks, h)
	}
	return a
}

// Recover turns a panic into an error event. It must be deferred directly.
func (a *App) Recover() {
	r := recover()
	if r == nil {
		return
	}
	file, line := panicSite(2)
	a.reporter.Report(Event{
		Class:   ClassError,
		File:    file,
		Line:    line,
		Message: fmt.Sprintf("panic: %v", r),
	})
}

// Run executes fn with a context carrying the sink, then shuts down.
// Panics and returned errors are reported as error events.
func (a *App) Run(fn RunFunc) {
	defer a.Close()
	defer a.Recover()

	ctx := xlog.WithContext(context.Background(), a.log)
	if err := fn(ctx, a); err != nil {
		file, line := funcSite(fn)
		a.reporter.Report(Event{Class: ClassError, File: file, Line: line, Message: err.Error()})
	}
}

// Close runs the shutdown hooks and closes the sink. It is idempotent.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true

	// Fixed timeout duration, can be extended to read from configuration later.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, h := range a.shutdownHooks {
		h(ctx, a)
	}

	if err := a.log.Close(); err != nil {
		a.diag.Error("failed to close log sink", "error", err)
	}
}

// terminate closes the sink before exiting so the last record is flushed.
func (a *App) terminate(code int) {
	a.Close()
	a.exit(code)
}

func funcSite(fn any) (string, int) {
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return "unknown", 0
	}
	return f.FileLine(f.Entry())
}
