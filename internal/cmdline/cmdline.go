/*
 * teco - Command-line controller.
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

// Package cmdline holds the full typed command line as the engine
// parses it one character at a time, and implements the two commands
// that manipulate the line itself rather than the document: rubout
// (undo back to the previous character's savepoint) and the "{"/"}"
// pair that lets the line be edited as ordinary text.
package cmdline

import "github.com/tecoengine/teco/internal/undo"

// ReplacementRegister is the Q-Register name "{" copies the in-progress
// line into: the ESC codepoint, which no ordinary command can type as a
// register name.
const ReplacementRegister = "\x1b"

// EditCallback is consulted before the main parser sees a keystroke; it
// reports whether it consumed the keystroke itself (rubout, completion,
// an in-line search) rather than letting the parser step on it.
type EditCallback func(r rune) (handled bool, err error)

// StepCallback advances the main parser by exactly one character.
type StepCallback func(text string, pos int) error

// Controller owns the raw command-line text and the prefix of it the
// parser has consumed so far.
type Controller struct {
	text      string
	parsedLen int
	log       *undo.Log
}

// New returns an empty controller bound to log, so that every character
// it processes becomes individually rubout-able.
func New(log *undo.Log) *Controller {
	return &Controller{log: log}
}

// Text returns the full line typed so far.
func (c *Controller) Text() string { return c.text }

// Parsed returns the prefix of Text the parser has already consumed.
func (c *Controller) Parsed() string { return c.text[:c.parsedLen] }

// ParsedLen returns len(Parsed()).
func (c *Controller) ParsedLen() int { return c.parsedLen }

// Feed appends r to the line and either hands it to edit (if edit
// reports it handled the keystroke) or advances the parser with step.
// Either way a per-character savepoint is recorded afterward so Rubout
// can undo exactly one keystroke at a time.
func (c *Controller) Feed(r rune, edit EditCallback, step StepCallback) error {
	oldText, oldParsed := c.text, c.parsedLen
	c.text += string(r)
	if c.log != nil {
		_ = c.log.Push("cmdline.feed", len(c.text)+16, func() {
			c.text, c.parsedLen = oldText, oldParsed
		})
	}

	if edit != nil {
		handled, err := edit(r)
		if err != nil {
			return err
		}
		if handled {
			c.savepoint()
			return nil
		}
	}

	if err := step(c.text, c.parsedLen); err != nil {
		return err
	}
	c.parsedLen = len(c.text)
	c.savepoint()
	return nil
}

func (c *Controller) savepoint() {
	if c.log != nil {
		c.log.Savepoint()
	}
}

// Rubout undoes exactly the most recent keystroke, restoring every
// piece of state (document, expression stack, Q-registers, buffer
// ring, parser state) the tokens since the last savepoint touched.
// Reports whether there was anything to rub out.
func (c *Controller) Rubout() bool {
	if c.log == nil {
		return false
	}
	return c.log.Rubout()
}

// Reset clears the line entirely, e.g. once a top-level command line
// has finished executing and a fresh prompt begins.
func (c *Controller) Reset() {
	c.text = ""
	c.parsedLen = 0
}

// Diverge returns how many leading runes oldText and newText share --
// the point "}" must rub out back to before replaying the remainder of
// newText. This is how the controller avoids re-doing work common to
// both the old and new command lines after a "{"..."}" edit.
func Diverge(oldText, newText string) int {
	old := []rune(oldText)
	neu := []rune(newText)
	n := 0
	for n < len(old) && n < len(neu) && old[n] == neu[n] {
		n++
	}
	return n
}
