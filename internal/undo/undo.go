/*
 * teco - Reversible undo log.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package undo implements the engine's append-only rubout log: every
// mutation the engine performs pushes a token whose Run, executed in
// reverse order, restores the cell it mutated. Interactive (keystroke
// granular) undo is built entirely out of this log plus the savepoint
// markers the command-line controller drops between characters.
package undo

import "github.com/tecoengine/teco/internal/errs"

// Token is one reversible record. Run restores whatever it captured.
type Token struct {
	Name string // diagnostic label, e.g. "qreg.SetInteger"
	Size int    // payload size charged against the memory budget
	Run  func()
}

// Log is a singly linked (here: slice-backed) stack of tokens. Popping
// the top and calling its Run restores the previous state; there is no
// redo, only rubout.
type Log struct {
	tokens    []Token
	savepoint []int // indices into tokens marking one input character each
	size      int   // running byte-size counter
	limit     int   // configured budget, 0 = unlimited
	enabled   bool  // false in batch mode: Push becomes a no-op
}

// New returns a Log with undo recording enabled.
func New() *Log {
	return &Log{enabled: true}
}

// SetEnabled toggles recording. Batch-mode execution (munged scripts,
// --eval) disables it so that Push is a true no-op.
// "must be a no-op (returning null) if undo is globally disabled".
func (l *Log) SetEnabled(enabled bool) {
	l.enabled = enabled
	if !enabled {
		l.tokens = nil
		l.savepoint = nil
		l.size = 0
	}
}

func (l *Log) Enabled() bool { return l.enabled }

// SetLimit configures the memory budget in bytes. 0 disables the check.
func (l *Log) SetLimit(n int) { l.limit = n }

// Size returns the running payload-size counter.
func (l *Log) Size() int { return l.size }

// Push records a reversible mutation. It is a no-op when undo is
// disabled. It returns MEMLIMIT if recording this token would exceed
// the configured memory budget.
func (l *Log) Push(name string, size int, run func()) error {
	if !l.enabled {
		return nil
	}
	if l.limit > 0 && l.size+size > l.limit {
		return errs.New(errs.MEMLIMIT, "undo log would exceed memory limit of %d bytes", l.limit)
	}
	l.tokens = append(l.tokens, Token{Name: name, Size: size, Run: run})
	l.size += size
	return nil
}

// PushScalar is a convenience wrapper for the common "restore scalar"
// token variant: it captures a copy of *cell now and writes it back on
// rubout.
func PushScalar[T any](l *Log, name string, cell *T) error {
	old := *cell
	return l.Push(name, sizeOf(old), func() { *cell = old })
}

func sizeOf(v any) int {
	switch x := v.(type) {
	case int:
		return 8
	case int64:
		return 8
	case bool:
		return 1
	case string:
		return len(x)
	case []byte:
		return len(x)
	default:
		return 16
	}
}

// Savepoint demarcates the start of a new input character. Rubout pops
// and runs tokens until (and including) the most recent savepoint.
func (l *Log) Savepoint() {
	if !l.enabled {
		return
	}
	l.savepoint = append(l.savepoint, len(l.tokens))
}

// Rubout undoes all tokens pushed since the most recent savepoint and
// removes that savepoint marker. It reports false if there was nothing
// to rub out (the log is at its outermost savepoint).
func (l *Log) Rubout() bool {
	if len(l.savepoint) == 0 {
		return false
	}
	mark := l.savepoint[len(l.savepoint)-1]
	l.savepoint = l.savepoint[:len(l.savepoint)-1]
	l.unwindTo(mark)
	return true
}

// unwindTo pops and runs tokens down to (not including) index mark, in
// reverse insertion order.
func (l *Log) unwindTo(mark int) {
	for len(l.tokens) > mark {
		last := len(l.tokens) - 1
		tok := l.tokens[last]
		l.tokens = l.tokens[:last]
		l.size -= tok.Size
		tok.Run()
	}
}

// RuboutAll rewinds every character typed so far, restoring the engine
// to the state it had before the first savepoint. Used by command-line
// replacement ("{"/"}") to back out to a common prefix.
func (l *Log) RuboutAll() {
	for l.Rubout() {
	}
}

// Mark returns an opaque checkpoint of the token stream, independent of
// the per-character savepoint stack. UnwindTo restores it later without
// disturbing savepoints, for callers (Engine.Step) that need to discard
// a partial command attempt rather than rub out a committed keystroke.
func (l *Log) Mark() int { return len(l.tokens) }

// UnwindTo rewinds to a checkpoint returned by Mark.
func (l *Log) UnwindTo(mark int) { l.unwindTo(mark) }

// Pending reports how many characters (savepoints) can still be rubbed
// out.
func (l *Log) Pending() int { return len(l.savepoint) }
