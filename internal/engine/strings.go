/*
 * teco - String-argument reading and insertion commands.
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

package engine

import (
	"strings"

	"github.com/tecoengine/teco/internal/errs"
	"github.com/tecoengine/teco/internal/strbuild"
)

// readUntilEsc reads characters from the current frame up to (and
// consuming) a terminating ESC, optionally running each one through a
// string-building machine first. machine == nil means string-building
// is disabled for this argument (as "EI" wants relative to "I").
func (e *Engine) readUntilEsc(machine *strbuild.Machine) (string, error) {
	var raw strings.Builder
	for {
		r, ok := e.take()
		if !ok {
			return "", errs.New(errs.ARGEXPECTED, "unterminated string argument")
		}
		if r == '\x1b' {
			if machine != nil {
				return machine.Result(), nil
			}
			return raw.String(), nil
		}
		if machine != nil {
			if err := machine.Feed(r); err != nil {
				return "", err
			}
			continue
		}
		raw.WriteRune(r)
	}
}

// cmdInsert implements "I" (string-building enabled) and "^I"
// (indent-insert: a single tab character is inserted before the
// string-built text; spaces are never used for the indent).
func (e *Engine) cmdInsert(indent bool) error {
	d, err := e.activeDoc()
	if err != nil {
		return err
	}
	text, err := e.readUntilEsc(strbuild.New(e.strbuildLookups()))
	if err != nil {
		return err
	}
	if indent {
		text = "\t" + text
	}
	pos := d.GetCurrentPos()
	d.AddText(pos, text)
	d.GotoPos(pos + len([]rune(text)))
	return nil
}

// cmdInsertRaw implements "EI": like "I" but string-building is
// disabled, so register interpolation and case-shift escapes are
// inserted literally.
func (e *Engine) cmdInsertRaw() error {
	d, err := e.activeDoc()
	if err != nil {
		return err
	}
	text, err := e.readUntilEsc(nil)
	if err != nil {
		return err
	}
	pos := d.GetCurrentPos()
	d.AddText(pos, text)
	d.GotoPos(pos + len([]rune(text)))
	return nil
}

// cmdMessage implements "^A <text> ^A": prints text as a user message.
// ^A is its own default terminator (in addition to ESC).
func (e *Engine) cmdMessage() error {
	var b strings.Builder
	for {
		r, ok := e.take()
		if !ok {
			return errs.New(errs.ARGEXPECTED, "unterminated ^A message")
		}
		if r == '\x01' || r == '\x1b' {
			break
		}
		b.WriteRune(r)
	}
	e.print(b.String())
	return nil
}

// cmdAppendString implements "^Uq <text> ESC": string-builds text and
// appends it to q's string content (replacing, with ":^Uq").
func (e *Engine) cmdAppendString() error {
	name, local, err := e.readQRegSpec()
	if err != nil {
		return err
	}
	text, err := e.readUntilEsc(strbuild.New(e.strbuildLookups()))
	if err != nil {
		return err
	}
	r := e.insertReg(name, local)
	if e.ps.colonCount > 0 {
		return r.SetString(e.Undo, e.bufferHooks(), text)
	}
	return r.AppendString(e.Undo, e.bufferHooks(), text)
}
