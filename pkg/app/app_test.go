package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HorseArcher567/logsink/pkg/xlog"
)

// recordSink remembers every record it receives.
type recordSink struct {
	records []string
	closed  int
}

func (s *recordSink) Debug(msg string) { s.records = append(s.records, "DEBUG: "+msg) }
func (s *recordSink) Info(msg string)  { s.records = append(s.records, "INFO: "+msg) }
func (s *recordSink) Warn(msg string)  { s.records = append(s.records, "WARN: "+msg) }
func (s *recordSink) Error(msg string) { s.records = append(s.records, "ERROR: "+msg) }
func (s *recordSink) Log(level, msg string) error {
	s.records = append(s.records, level+": "+msg)
	return nil
}
func (s *recordSink) Close() error {
	s.closed++
	return nil
}

type exitRecorder struct {
	codes []int
}

func (e *exitRecorder) exit(code int) { e.codes = append(e.codes, code) }

func TestReporter(t *testing.T) {
	tests := []struct {
		name   string
		event  Event
		record string
		exits  bool
	}{
		{
			name:   "notice",
			event:  Event{Class: ClassNotice, File: "main.go", Line: 12, Message: "undefined index"},
			record: "INFO: Notice: main.go on line 12 : undefined index",
		},
		{
			name:   "deprecated",
			event:  Event{Class: ClassDeprecated, File: "main.go", Line: 3, Message: "old call"},
			record: "INFO: Notice: main.go on line 3 : old call",
		},
		{
			name:   "warning",
			event:  Event{Class: ClassWarning, File: "db.go", Line: 40, Message: "slow query"},
			record: "WARN: File: db.go on line 40 : slow query",
		},
		{
			name:   "error",
			event:  Event{Class: ClassError, File: "db.go", Line: 41, Message: "connection lost"},
			record: "ERROR: File: db.go on line 41 : connection lost",
			exits:  true,
		},
		{
			name:   "unknown",
			event:  Event{Class: Class(42), File: "db.go", Line: 7, Message: "ignored"},
			record: "ERROR: Unknown error : db.go on line 7",
			exits:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordSink{}
			exit := &exitRecorder{}
			NewReporter(sink, nil, exit.exit).Report(tt.event)

			if len(sink.records) != 1 || sink.records[0] != tt.record {
				t.Errorf("records = %q, want %q", sink.records, tt.record)
			}
			if tt.exits {
				if len(exit.codes) != 1 || exit.codes[0] != 1 {
					t.Errorf("exit codes = %v, want [1]", exit.codes)
				}
			} else if len(exit.codes) != 0 {
				t.Errorf("unexpected exit %v", exit.codes)
			}
			if tt.event.Class.Fatal() != tt.exits {
				t.Errorf("Fatal() = %v, want %v", tt.event.Class.Fatal(), tt.exits)
			}
		})
	}
}

func TestReporter_NoSink(t *testing.T) {
	diag := &bytes.Buffer{}
	exit := &exitRecorder{}

	r := NewReporter(nil, slog.New(slog.NewTextHandler(diag, nil)), exit.exit)
	r.Report(Event{Class: ClassError, File: "main.go", Line: 1, Message: "boom"})

	if !strings.Contains(diag.String(), "no logger instance") {
		t.Errorf("expected diagnostic, got %q", diag.String())
	}
	if len(exit.codes) != 0 {
		t.Error("a missing sink must not terminate the process")
	}
}

func TestNew(t *testing.T) {
	t.Cleanup(func() { xlog.SetCurrent(nil) })

	if _, err := New(nil); err == nil {
		t.Error("expected error for nil framework")
	}

	dir := t.TempDir()
	levels := filepath.Join(dir, "logger.ini")
	if err := os.WriteFile(levels, []byte("[file]\nlevel = info\n[console]\nlevel = error\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := New(&Framework{LoggerCfg: xlog.Config{
		Dir:        filepath.Join(dir, "log"),
		File:       "app.log",
		LevelsFile: levels,
	}}, WithSinkOptions(xlog.WithConsole(&bytes.Buffer{})))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	l, ok := a.Logger().(*xlog.Logger)
	if !ok {
		t.Fatalf("expected *xlog.Logger, got %T", a.Logger())
	}
	l.Info("started")

	content, err := os.ReadFile(filepath.Join(dir, "log", "app.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "INFO: started") {
		t.Errorf("unexpected log content %q", string(content))
	}
}

func TestNew_Disabled(t *testing.T) {
	t.Cleanup(func() { xlog.SetCurrent(nil) })

	a, err := New(&Framework{LoggerCfg: xlog.Config{Disabled: true}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := a.Logger().(*xlog.Nop); !ok {
		t.Errorf("expected *xlog.Nop, got %T", a.Logger())
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(&Framework{LoggerCfg: xlog.Config{ConsoleLevel: "loud"}})
	if !errors.Is(err, xlog.ErrUnknownLevel) {
		t.Errorf("expected ErrUnknownLevel, got %v", err)
	}
}

func newTestApp(t *testing.T) (*App, *recordSink, *exitRecorder) {
	t.Helper()
	sink := &recordSink{}
	exit := &exitRecorder{}
	a, err := New(&Framework{}, WithSink(sink), WithExit(exit.exit))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a, sink, exit
}

func TestRun(t *testing.T) {
	a, sink, exit := newTestApp(t)

	var hooked bool
	a.OnShutdown(func(ctx context.Context, a *App) { hooked = true })

	a.Run(func(ctx context.Context, a *App) error {
		s, ok := xlog.FromContext(ctx)
		if !ok || s != a.Logger() {
			t.Error("context should carry the application sink")
		}
		s.Info("working")
		return nil
	})

	if len(sink.records) != 1 || sink.records[0] != "INFO: working" {
		t.Errorf("records = %q", sink.records)
	}
	if !hooked {
		t.Error("shutdown hook was not executed")
	}
	if sink.closed != 1 {
		t.Errorf("sink closed %d times, want 1", sink.closed)
	}
	if len(exit.codes) != 0 {
		t.Errorf("unexpected exit %v", exit.codes)
	}
}

func TestRun_Error(t *testing.T) {
	a, sink, exit := newTestApp(t)

	a.Run(func(ctx context.Context, a *App) error {
		return fmt.Errorf("job failed")
	})

	if len(sink.records) != 1 {
		t.Fatalf("records = %q", sink.records)
	}
	rec := sink.records[0]
	if !strings.HasPrefix(rec, "ERROR: File: ") || !strings.Contains(rec, "app_test.go") || !strings.HasSuffix(rec, ": job failed") {
		t.Errorf("unexpected record %q", rec)
	}
	if len(exit.codes) != 1 || exit.codes[0] != 1 {
		t.Errorf("exit codes = %v, want [1]", exit.codes)
	}
	if sink.closed != 1 {
		t.Errorf("sink should be closed once before exit, got %d", sink.closed)
	}
}

func TestRun_Panic(t *testing.T) {
	a, sink, exit := newTestApp(t)

	a.Run(func(ctx context.Context, a *App) error {
		panic("boom")
	})

	if len(sink.records) != 1 {
		t.Fatalf("records = %q", sink.records)
	}
	rec := sink.records[0]
	if !strings.HasPrefix(rec, "ERROR: File: ") || !strings.HasSuffix(rec, ": panic: boom") {
		t.Errorf("unexpected record %q", rec)
	}
	if len(exit.codes) != 1 || exit.codes[0] != 1 {
		t.Errorf("exit codes = %v, want [1]", exit.codes)
	}
}

func TestReport_Warning(t *testing.T) {
	a, sink, exit := newTestApp(t)
	defer a.Close()

	a.Report(Event{Class: ClassWarning, File: "x.go", Line: 9, Message: "careful"})

	if len(sink.records) != 1 || sink.records[0] != "WARN: File: x.go on line 9 : careful" {
		t.Errorf("records = %q", sink.records)
	}
	if len(exit.codes) != 0 || sink.closed != 0 {
		t.Error("warnings must not shut the application down")
	}
}

func TestClose_Idempotent(t *testing.T) {
	a, sink, _ := newTestApp(t)
	a.Close()
	a.Close()
	if sink.closed != 1 {
		t.Errorf("sink closed %d times, want 1", sink.closed)
	}
}
