/*
 * teco - String-building sub-machine.
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

// Package strbuild implements the small state machine that consumes a
// TECO string argument one character at a time and emits a rewritten
// output string: case folding (^V/^W), literal escapes (^Q/^R),
// Q-Register interpolation (^EQq, ^EUq, ^E\q), and shell-escaping
// (^E@).
package strbuild

import (
	"fmt"
	"strconv"
	"strings"
)

type state int

const (
	stNormal state = iota
	stVerbatim // ^Q/^R seen: next rune emitted as-is, no caret-fold
	stCaretMode // '^' seen: next rune folded to its control-character value
	stCtlE
	stQSpecU
	stQSpecQ
	stQSpecBackslash
)

// Lookups is the set of callbacks the builder consults for Q-Register
// interpolation and radix formatting; Engine wires these to the real
// Q-Register table.
type Lookups struct {
	RegisterString  func(name string) (string, error)
	RegisterInteger func(name string) (int, error)
	Radix           func() int
}

// Machine holds the in-progress case-fold sticky state across calls to
// Feed, so a caller can drive it one rune at a time (as the main parser
// does) or all at once via Build.
type Machine struct {
	st     state
	out    strings.Builder

	caseOneShot int // 0 none, +1 upper, -1 lower: applies to the very next emitted rune
	caseSticky  int // 0 none, +1 upper (mode_upper), -1 lower (mode_lower): applies until toggled off

	shellEscapeNext bool // ^E@ seen: shell-quote the next emitted chunk

	lookups Lookups
}

// New returns a fresh string-building machine.
func New(lookups Lookups) *Machine {
	return &Machine{lookups: lookups}
}

// Build runs the whole input string through the machine and returns the
// rewritten result. It is equivalent to calling Feed for every rune.
func Build(lookups Lookups, input string) (string, error) {
	m := New(lookups)
	for _, r := range input {
		if err := m.Feed(r); err != nil {
			return "", err
		}
	}
	return m.Result(), nil
}

// Result returns the bytes accumulated so far.
func (m *Machine) Result() string { return m.out.String() }

// Feed consumes one input rune, possibly emitting zero or more output
// runes into the accumulated result.
func (m *Machine) Feed(r rune) error {
	switch m.st {
	case stNormal:
		return m.feedNormal(r)
	case stVerbatim:
		m.st = stNormal
		m.emit(r)
		return nil
	case stCaretMode:
		m.st = stNormal
		m.emit(r - '@')
		return nil
	case stCtlE:
		return m.feedCtlE(r)
	case stQSpecU, stQSpecQ, stQSpecBackslash:
		return m.feedQSpec(r)
	}
	return nil
}

func (m *Machine) feedNormal(r rune) error {
	switch r {
	case 0x11, 0x12: // ^Q, ^R: next character emitted verbatim
		m.st = stVerbatim
		return nil
	case 0x16: // ^V: lower the next char, or toggle sticky-lower if already sticky-lower
		if m.caseSticky == -1 {
			m.caseSticky = 0
			return nil
		}
		m.caseOneShot = -1
		return nil
	case 0x17: // ^W: upper the next char, or toggle sticky-upper if already sticky-upper
		if m.caseSticky == 1 {
			m.caseSticky = 0
			return nil
		}
		m.caseOneShot = 1
		return nil
	case 0x05: // ^E
		m.st = stCtlE
		return nil
	case '^':
		m.st = stCaretMode
		return nil
	default:
		m.emit(r)
		return nil
	}
}

func (m *Machine) feedCtlE(r rune) error {
	switch r {
	case 'Q', 'q':
		m.st = stQSpecQ
		return nil
	case 'U', 'u':
		m.st = stQSpecU
		return nil
	case '\\':
		m.st = stQSpecBackslash
		return nil
	case '@':
		m.st = stNormal
		m.shellEscapeNext = true
		return nil
	default:
		m.st = stNormal
		m.emit('^')
		m.emit('E')
		m.emit(r)
		return nil
	}
}

// feedQSpec consumes a single-character Q-Register name and performs
// the ^EQq / ^EUq / ^E\q production. Longer names (".q", "#xy",
// "[name]") are not recognized here: only the one rune after ^EQ, ^EU
// or ^E\ is taken as the name.
func (m *Machine) feedQSpec(r rune) error {
	st := m.st
	m.st = stNormal
	return m.EmitRegister(st, string(r))
}

// EmitRegister performs the ^EQq / ^EUq / ^E\q production for the given
// already-resolved register name. Within this module its only caller
// is feedQSpec.
func (m *Machine) EmitRegister(st state, name string) error {
	switch st {
	case stQSpecQ:
		if m.lookups.RegisterString == nil {
			return fmt.Errorf("no register lookup configured")
		}
		s, err := m.lookups.RegisterString(name)
		if err != nil {
			return err
		}
		text := s
		if m.shellEscapeNext {
			text = ShellEscape(s)
			m.shellEscapeNext = false
		}
		for _, c := range text {
			m.emit(c)
		}
		return nil
	case stQSpecU:
		if m.lookups.RegisterInteger == nil {
			return fmt.Errorf("no register lookup configured")
		}
		n, err := m.lookups.RegisterInteger(name)
		if err != nil {
			return err
		}
		m.emit(rune(n))
		return nil
	case stQSpecBackslash:
		if m.lookups.RegisterInteger == nil {
			return fmt.Errorf("no register lookup configured")
		}
		n, err := m.lookups.RegisterInteger(name)
		if err != nil {
			return err
		}
		radix := 10
		if m.lookups.Radix != nil {
			radix = m.lookups.Radix()
		}
		for _, c := range strconv.FormatInt(int64(n), radix) {
			m.emit(c)
		}
		return nil
	}
	return nil
}

// QSpecQState, QSpecUState and QSpecBackslashState expose the internal
// state constants to the qspec package without making the whole state
// type public.
const (
	QSpecQState         = stQSpecQ
	QSpecUState         = stQSpecU
	QSpecBackslashState = stQSpecBackslash
)

// emit appends r to the output, applying any pending case-fold.
func (m *Machine) emit(r rune) {
	fold := m.caseSticky
	if m.caseOneShot != 0 {
		fold = m.caseOneShot
		m.caseOneShot = 0
	}
	switch {
	case fold > 0:
		r = toUpper(r)
	case fold < 0:
		r = toLower(r)
	}
	m.out.WriteRune(r)
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// ShellEscape shell-quotes s per POSIX sh: wraps in single quotes,
// escaping any embedded single quote as '\''.
func ShellEscape(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
