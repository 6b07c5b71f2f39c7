package xlog

import (
	"fmt"
	"io"
	"sync/atomic"
)

// Sink is what callers log through. *Logger writes records; *Nop discards
// them.
type Sink interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Log(level, msg string) error
	Close() error
}

var (
	_ Sink = (*Logger)(nil)
	_ Sink = (*Nop)(nil)
)

type holder struct {
	sink Sink
}

var current atomic.Pointer[holder]

// Current returns the most recently constructed sink. ok is false when none
// has been constructed yet (or the last one was closed).
func Current() (s Sink, ok bool) {
	h := current.Load()
	if h == nil {
		return nil, false
	}
	return h.sink, true
}

// SetCurrent replaces the current sink. A nil sink clears it.
func SetCurrent(s Sink) {
	if s == nil {
		current.Store(nil)
		return
	}
	current.Store(&holder{sink: s})
}

func clearCurrent(s Sink) {
	if h := current.Load(); h != nil && h.sink == s {
		current.CompareAndSwap(h, nil)
	}
}

// Nop is a Sink that performs no I/O for Debug, Info, Warn and Error. Log
// still prints to the console, unfiltered.
type Nop struct {
	console io.Writer
}

// NewNop creates a Nop and makes it the current sink. Only WithConsole is
// honoured.
func NewNop(opts ...Option) *Nop {
	o := newOptions(opts)
	n := &Nop{console: o.console}
	SetCurrent(n)
	return n
}

func (*Nop) Debug(string) {}
func (*Nop) Info(string)  {}
func (*Nop) Warn(string)  {}
func (*Nop) Error(string) {}

// Log writes "LEVEL: msg" to the console whatever the level.
func (n *Nop) Log(level, msg string) error {
	_, err := fmt.Fprintf(n.console, "%s: %s\n", level, msg)
	return err
}

func (n *Nop) Close() error {
	clearCurrent(n)
	return nil
}
