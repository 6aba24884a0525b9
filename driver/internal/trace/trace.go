// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

// Package trace provides the flag toggled diagnostic logger of the protocol
// layer. A Trace discards its output until enabled, so instrumented code can
// log unconditionally behind an On() guard.
package trace

import (
	"io"
	"log"
	"os"
	"strconv"
)

// A Trace is a prefixed log.Logger writing to stderr when enabled and to
// io.Discard otherwise.
type Trace struct {
	*log.Logger
}

// New creates a disabled Trace with the given prefix.
func New(prefix string) *Trace {
	return &Trace{Logger: log.New(io.Discard, prefix+" ", log.Ldate|log.Ltime|log.Lshortfile)}
}

// On reports whether the trace output is enabled.
func (t *Trace) On() bool { return t.Writer() != io.Discard }

// SetOn enables or disables the trace output.
func (t *Trace) SetOn(on bool) {
	var w io.Writer = io.Discard
	if on {
		w = os.Stderr
	}
	t.SetOutput(w)
}

// A Flag toggles a Trace through the flag package.
type Flag struct {
	trace *Trace
}

// NewFlag creates a Flag toggling t.
func NewFlag(t *Trace) *Flag { return &Flag{trace: t} }

// String implements the flag.Value interface. The flag package probes a zero
// Flag for the default value.
func (f *Flag) String() string {
	if f.trace == nil {
		return "false"
	}
	return strconv.FormatBool(f.trace.On())
}

// IsBoolFlag implements the flag.Value interface.
func (f *Flag) IsBoolFlag() bool { return true }

// Set implements the flag.Value interface.
func (f *Flag) Set(s string) error {
	on, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	f.trace.SetOn(on)
	return nil
}
