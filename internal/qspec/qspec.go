/*
 * teco - Q-Register-spec sub-machine.
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

// Package qspec parses a Q-Register reference: a single uppercased
// letter, a "." prefix marking the register local to the current macro
// frame, a "#" prefix introducing a two-character name, or a bracketed
// "[name]" long name whose contents run through the string-building
// sub-machine (so a bracketed name may itself interpolate another
// Q-Register via ^EQq).
package qspec

import (
	"strings"
	"unicode"

	"github.com/tecoengine/teco/internal/strbuild"
)

type state int

const (
	stStart state = iota
	stFirstChar  // after '#': first of two name chars expected
	stSecondChar // after '#x': second name char expected
	stBracket    // inside [...]
	stDone
)

// Machine accumulates one Q-Register name across successive calls to
// Feed, the way the main parser drives every other sub-machine.
type Machine struct {
	st      state
	local   bool
	nesting int
	name    strings.Builder
	hashBuf [1]byte
	strb    *strbuild.Machine
}

// New returns a fresh Q-Register-spec machine. lookups is passed through
// to the nested string-building machine used to resolve bracketed names.
func New(lookups strbuild.Lookups) *Machine {
	return &Machine{strb: strbuild.New(lookups)}
}

// Done reports whether the machine has consumed a complete register
// reference.
func (m *Machine) Done() bool { return m.st == stDone }

// Local reports whether the parsed reference named a local (macro-frame)
// register, i.e. was prefixed with ".".
func (m *Machine) Local() bool { return m.local }

// Name returns the resolved, uppercased register name. Valid only once
// Done reports true.
func (m *Machine) Name() string { return m.name.String() }

// Feed consumes one input rune, returning true once the reference is
// complete (Done becomes true on the same call that returns true).
func (m *Machine) Feed(r rune) (bool, error) {
	switch m.st {
	case stStart:
		return m.feedStart(r)
	case stFirstChar:
		m.name.WriteRune(toUpper(r))
		m.st = stSecondChar
		return false, nil
	case stSecondChar:
		m.name.WriteRune(toUpper(r))
		m.st = stDone
		return true, nil
	case stBracket:
		return m.feedBracket(r)
	}
	return true, nil
}

func (m *Machine) feedStart(r rune) (bool, error) {
	switch r {
	case '#':
		m.st = stFirstChar
		return false, nil
	case '[':
		m.st = stBracket
		m.nesting++
		return false, nil
	case '.':
		if !m.local {
			m.local = true
			return false, nil
		}
		fallthrough
	default:
		m.name.WriteRune(toUpper(r))
		m.st = stDone
		return true, nil
	}
}

func (m *Machine) feedBracket(r rune) (bool, error) {
	switch r {
	case '[':
		m.nesting++
	case ']':
		m.nesting--
		if m.nesting == 0 {
			m.name.WriteString(m.strb.Result())
			m.st = stDone
			return true, nil
		}
	}
	if err := m.strb.Feed(r); err != nil {
		return false, err
	}
	return false, nil
}

func toUpper(r rune) rune { return unicode.ToUpper(r) }
