/*
 * teco - Top-level stepping loop.
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
	"context"
	"unicode"

	"github.com/tecoengine/teco/internal/errs"
	"github.com/tecoengine/teco/internal/qreg"
)

// parserState is the per-frame accumulator for the command currently
// being assembled: pending digits and the colon/at modifier counts.
// It resets after every complete command (NORMAL mode only -- the
// parse-only skim modes do not accumulate arguments at all).
type parserState struct {
	haveDigits bool
	digits     int
	colonCount int
	atFlag     bool
}

func newParserState() *parserState { return &parserState{} }

func (ps *parserState) reset() {
	ps.haveDigits = false
	ps.digits = 0
	ps.colonCount = 0
	ps.atFlag = false
}

// cur returns the character at the current frame's PC without
// consuming it.
func (e *Engine) cur() (rune, bool) {
	f := e.frame()
	if f.PC >= len(f.Text) {
		return 0, false
	}
	return f.Text[f.PC], true
}

// take returns the character at the current frame's PC and advances
// past it.
func (e *Engine) take() (rune, bool) {
	r, ok := e.cur()
	if ok {
		e.frame().PC++
	}
	return r, ok
}

// atFrameEnd reports whether the current frame has no more input.
func (e *Engine) atFrameEnd() bool {
	f := e.frame()
	return f.PC >= len(f.Text)
}

// Run loads text as a fresh top-level frame and executes it to
// completion (EOF, "$$" return, or an unhandled error).
func (e *Engine) Run(ctx context.Context, text string) error {
	e.pushFrame(&Frame{Name: "*toplevel*", Text: []rune(text), Labels: map[string]int{}})
	defer func() { e.frames = e.frames[:len(e.frames)-1] }()
	return e.runFrame(ctx)
}

// runFrame steps the current (topmost) frame until it runs out of
// input or raises RETURN/QUIT. RETURN is absorbed here (macro return);
// QUIT and any ordinary error propagate to the caller.
func (e *Engine) runFrame(ctx context.Context) error {
	for !e.atFrameEnd() {
		if err := e.step(ctx); err != nil {
			if errs.Is(err, errs.RETURN) {
				return nil
			}
			return err
		}
	}
	if f := e.frame(); len(f.Loops) > 0 || len(f.Conds) > 0 {
		return errs.New(errs.SYNTAX, "unterminated loop or conditional at end of %s", f.Name)
	}
	return nil
}

// RunMacro executes text as a called macro (Mq semantics): a new
// frame and fresh goto table, sharing the caller's locals if shared is
// non-nil (":Mq") or starting a fresh, empty local table otherwise.
func (e *Engine) RunMacro(ctx context.Context, name, text string, shared *qreg.Table) error {
	f := &Frame{Name: name, Text: []rune(text), Labels: map[string]int{}, Locals: shared}
	e.pushFrame(f)
	defer func() { e.frames = e.frames[:len(e.frames)-1] }()
	return e.runFrame(ctx)
}

// step assembles and executes exactly one top-level command, consuming
// whatever modifier/digit/control-prefix characters precede it.
func (e *Engine) step(ctx context.Context) error {
	if err := e.checkInterrupt(); err != nil {
		return err
	}

	f := e.frame()
	if f.Mode != ModeNormal {
		return e.skimOne()
	}

	ps := e.ps
	for {
		r, ok := e.take()
		if !ok {
			return errs.New(errs.ARGEXPECTED, "command truncated")
		}
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			continue
		case r == ':':
			if ps.colonCount >= 2 {
				return errs.New(errs.MODIFIER, "too many ':' modifiers")
			}
			ps.colonCount++
			continue
		case r == '@':
			ps.atFlag = true
			continue
		case r == '^':
			cr, ok := e.take()
			if !ok {
				return errs.New(errs.ARGEXPECTED, "unterminated ^ command")
			}
			e.takeNumber()
			return e.finishCommand(e.dispatchControl(ctx, unicode.ToUpper(cr)))
		case r == 'E' || r == 'e':
			cr, ok := e.take()
			if !ok {
				return errs.New(errs.ARGEXPECTED, "unterminated E command")
			}
			e.takeNumber()
			return e.finishCommand(e.dispatchE(ctx, unicode.ToUpper(cr)))
		case isRadixDigit(r, e.radix):
			ps.haveDigits = true
			ps.digits = ps.digits*e.radix + digitValue(r)
			continue
		default:
			e.takeNumber()
			return e.finishCommand(e.dispatch(ctx, r))
		}
	}
}

// FeedText appends s to the current (top-level) frame's text without
// disturbing PC -- the interactive command line's way of handing the
// engine whatever the user just typed before asking it to Step. Only
// meaningful at the outermost frame; called macros already own their
// whole text up front.
func (e *Engine) FeedText(s string) {
	f := e.frames[0]
	f.Text = append(f.Text, []rune(s)...)
}

// Step executes exactly one top-level command, resuming from wherever
// the frame's PC and parserState were left by the previous call. It is
// the per-keystroke entry point cmdline.Controller.Feed drives: each
// call is handed whatever text is available right now, which may end
// mid-command (the user has not typed the rest of it yet).
//
// When that happens step returns ARGEXPECTED with the frame exactly at
// EOF -- indistinguishable, from in here, from "there is truly nothing
// more coming" -- so Step treats reaching EOF while short on input as
// "come back after the next keystroke": it rewinds every side effect
// the doomed attempt made (via the undo log, exactly as Rubout would)
// and restores PC and the modifier accumulator, and reports success.
// A real error (unrecognized command, bad argument, etc.) still
// propagates normally.
func (e *Engine) Step(ctx context.Context) error {
	f := e.frame()
	startPC := f.PC
	startPS := *e.ps
	mark := e.Undo.Mark()

	err := e.step(ctx)
	if err != nil && e.atFrameEnd() && errs.Is(err, errs.ARGEXPECTED) {
		e.Undo.UnwindTo(mark)
		f.PC = startPC
		*e.ps = startPS
		return nil
	}
	return err
}

// finishCommand resets the per-command modifier/digit accumulator
// after dispatch runs, regardless of outcome, so a failed command does
// not leak state into the next one.
func (e *Engine) finishCommand(err error) error {
	e.ps.reset()
	return err
}

func isRadixDigit(r rune, radix int) bool {
	switch {
	case r >= '0' && r <= '9':
		return int(r-'0') < radix
	case radix == 16 && r >= 'A' && r <= 'F':
		return true
	case radix == 16 && r >= 'a' && r <= 'f':
		return true
	default:
		return false
	}
}

func digitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	}
	return 0
}

// takeNumber consumes any digits accumulated so far, pushing them as a
// signed literal operand (the pending unary '-' is handled by the
// expression stack itself, via PushOp(OpSub) at an operator position).
func (e *Engine) takeNumber() {
	ps := e.ps
	if ps.haveDigits {
		e.Expr.PushNumber(ps.digits)
		ps.haveDigits = false
		ps.digits = 0
	}
}

// requireModifiers enforces a command's declared colon/at ceiling,
// matching the dispatch table's modifier_colon/modifier_at fields.
func (e *Engine) requireModifiers(maxColon int, allowAt bool) error {
	ps := e.ps
	if ps.colonCount > maxColon {
		return errs.New(errs.MODIFIER, "too many ':' modifiers for this command")
	}
	if ps.atFlag && !allowAt {
		return errs.New(errs.MODIFIER, "'@' is not valid for this command")
	}
	return nil
}
