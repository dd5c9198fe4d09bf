/*
 * teco - Q-Register push-down stack ([q / ]q).
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

package qreg

import (
	"github.com/tecoengine/teco/internal/errs"
	"github.com/tecoengine/teco/internal/undo"
)

// savedReg is one entry on the push-down stack: a copy of the integer
// plus ownership of the document content at push time.
type savedReg struct {
	name    string
	integer int
	text    string
}

// Stack is the register push-down stack used by "[q" / "]q". It is
// itself undo-tracked so that a single rubout of "[q" pops the entry it
// pushed.
type Stack struct {
	entries []savedReg
	log     *undo.Log
}

// NewStack returns an empty push-down stack bound to log.
func NewStack(log *undo.Log) *Stack { return &Stack{log: log} }

// Push copies r's integer and string content onto the stack.
func (s *Stack) Push(r *Register) error {
	if r.Kind != KindPlain {
		return errs.New(errs.QREGOPUNSUPPORTED, "cannot push a non-plain register")
	}
	entry := savedReg{name: r.Name, integer: r.Integer, text: textOf(r.Doc)}
	s.entries = append(s.entries, entry)
	if s.log != nil {
		_ = s.log.Push("qreg.stack.push", len(entry.text)+24, func() {
			s.entries = s.entries[:len(s.entries)-1]
		})
	}
	return nil
}

// Pop exchanges the top stack entry's contents back into r, whichever
// register the entry was pushed from: register names are not compared.
// It is an error if the stack is empty.
func (s *Stack) Pop(r *Register) error {
	if len(s.entries) == 0 {
		return errs.New(errs.FAILED, "Q-Register push-down stack is empty")
	}
	if r.Kind != KindPlain {
		return errs.New(errs.QREGOPUNSUPPORTED, "cannot pop into a non-plain register")
	}
	top := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]

	oldInt, oldText := r.Integer, textOf(r.Doc)
	r.Integer = top.integer
	r.Doc.SetText(top.text)

	if s.log != nil {
		savedTop := top
		_ = s.log.Push("qreg.stack.pop", len(oldText)+len(savedTop.text)+24, func() {
			s.entries = append(s.entries, savedTop)
			r.Integer = oldInt
			r.Doc.SetText(oldText)
		})
	}
	return nil
}

// Depth reports how many entries are currently on the stack.
func (s *Stack) Depth() int { return len(s.entries) }
