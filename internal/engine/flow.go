/*
 * teco - Macros, goto, conditionals and loops.
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
	"strings"
	"unicode"

	"github.com/tecoengine/teco/internal/errs"
)

// cmdLoopOpen implements "<": pop_num_calc(-1) is the counter. Zero
// skips the whole loop body; otherwise a loop frame is pushed with the
// body's start position.
func (e *Engine) cmdLoopOpen() error {
	n, err := e.Expr.PopNumCalc(-1)
	if err != nil {
		return err
	}
	f := e.frame()
	if n == 0 {
		f.Mode = ModeParseOnlyLoop
		f.SkipDepth = 0
		return nil
	}
	passBarrier := e.ps.colonCount > 0
	e.openLoopBarrier(passBarrier)
	f.Loops = append(f.Loops, loopFrame{pc: f.PC, counter: n, passBarrier: passBarrier})
	return nil
}

// openLoopBarrier installs the implicit argument barrier a plain
// "<...>" loop's body runs inside -- ":<" (passBarrier) omits it on
// purpose, sharing the surrounding expression stack across iterations.
func (e *Engine) openLoopBarrier(passBarrier bool) {
	if !passBarrier {
		e.Expr.BraceOpen()
	}
}

// closeLoopBarrier discards whatever the loop body left above its
// barrier. Called at every ">" (whether looping back or exiting) and
// on every early exit (";", "F>"), so one iteration's unconsumed stack
// values never leak into the next iteration or out past the loop.
func (e *Engine) closeLoopBarrier(passBarrier bool) {
	if !passBarrier {
		e.Expr.DiscardToBrace()
	}
}

// cmdLoopClose implements ">": decrements the innermost loop's counter
// and either jumps back to the loop's start or pops the frame.
func (e *Engine) cmdLoopClose(ctx context.Context) error {
	f := e.frame()
	if len(f.Loops) == 0 {
		return errs.New(errs.SYNTAX, "'>' with no open loop")
	}
	top := &f.Loops[len(f.Loops)-1]
	top.counter--
	e.closeLoopBarrier(top.passBarrier)
	if top.counter != 0 {
		e.openLoopBarrier(top.passBarrier)
		f.PC = top.pc
		return nil
	}
	f.Loops = f.Loops[:len(f.Loops)-1]
	return nil
}

// cmdLoopBreak implements ";": pops a boolean (defaulting to the last
// search outcome) and, if true, exits the innermost loop early.
func (e *Engine) cmdLoopBreak() error {
	def := 0
	if e.lastSearchOK {
		def = -1
	}
	n, err := e.Expr.PopNumCalc(def)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	f := e.frame()
	if len(f.Loops) == 0 {
		return errs.New(errs.SYNTAX, "';' with no open loop")
	}
	top := f.Loops[len(f.Loops)-1]
	f.Loops = f.Loops[:len(f.Loops)-1]
	e.closeLoopBarrier(top.passBarrier)
	f.Mode = ModeParseOnlyLoop
	f.SkipDepth = 0
	return nil
}

// cmdLoopEarlyExit implements the "F" loop/conditional jump family:
// F> ends the innermost loop early, F< restarts it (or resets PC to 0
// outside any loop), F' and F| jump to the end or else-arm of the
// innermost conditional.
func (e *Engine) cmdFCommand() error {
	r, ok := e.take()
	if !ok {
		return errs.New(errs.ARGEXPECTED, "unterminated F command")
	}
	f := e.frame()
	switch r {
	case '>':
		if len(f.Loops) == 0 {
			return errs.New(errs.SYNTAX, "F> with no open loop")
		}
		top := f.Loops[len(f.Loops)-1]
		f.Loops = f.Loops[:len(f.Loops)-1]
		e.closeLoopBarrier(top.passBarrier)
		f.Mode = ModeParseOnlyLoop
		f.SkipDepth = 0
		return nil
	case '<':
		if len(f.Loops) == 0 {
			f.PC = 0
			return nil
		}
		f.PC = f.Loops[len(f.Loops)-1].pc
		return nil
	case '\'':
		if len(f.Conds) == 0 {
			return errs.New(errs.SYNTAX, "F' with no open conditional")
		}
		f.Mode = ModeParseOnlyCondForce
		f.SkipDepth = 0
		return nil
	case '|':
		if len(f.Conds) == 0 {
			return errs.New(errs.SYNTAX, "F| with no open conditional")
		}
		f.Mode = ModeParseOnlyCond
		f.SkipDepth = 0
		return nil
	case 'S', 'R', 'K', 'D':
		return e.cmdFSearchReplace(r)
	default:
		return errs.New(errs.SYNTAX, "unrecognized F command F%c", r)
	}
}

// cmdCondOpen implements 'n"X': tests the popped value n against type
// character X and, if false, enters skip mode looking for the matching
// '|' or '\''.
func (e *Engine) cmdCondOpen() error {
	r, ok := e.take()
	if !ok {
		return errs.New(errs.ARGEXPECTED, "unterminated \" command")
	}
	n, err := e.Expr.PopNumCalc(0)
	if err != nil {
		return err
	}
	f := e.frame()
	f.Conds = append(f.Conds, condFrame{})
	if condTrue(n, r, e.Expr.Empty()) {
		return nil
	}
	f.Mode = ModeParseOnlyCond
	f.SkipDepth = 0
	return nil
}

func condTrue(n int, typ rune, stackEmpty bool) bool {
	switch unicode.ToUpper(typ) {
	case 'A':
		return unicode.IsLetter(rune(n))
	case 'C':
		return isSymbolChar(rune(n))
	case 'D':
		return n >= '0' && n <= '9'
	case 'S', 'T':
		return n != 0
	case 'F', 'U':
		return n == 0
	case 'E', '=':
		return n == 0
	case 'N':
		return n != 0
	case 'G', '>':
		return n > 0
	case 'L', '<':
		return n < 0
	case 'R':
		return unicode.IsLetter(rune(n)) || (n >= '0' && n <= '9')
	case 'V':
		return unicode.IsLower(rune(n))
	case 'W':
		return unicode.IsUpper(rune(n))
	case 'I':
		return n == '/' || n == '\\'
	case '~':
		return stackEmpty
	default:
		return n != 0
	}
}

func isSymbolChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '$' || r == '_'
}

// cmdCondElse implements '|' reached while executing a true branch: it
// skips the remainder of the conditional (the else arm) unconditionally.
func (e *Engine) cmdCondElse() error {
	f := e.frame()
	if len(f.Conds) == 0 {
		return errs.New(errs.SYNTAX, "'|' with no open conditional")
	}
	f.Mode = ModeParseOnlyCondForce
	f.SkipDepth = 0
	return nil
}

// cmdCondClose implements '\'': ends a conditional, popping its frame.
func (e *Engine) cmdCondClose() error {
	f := e.frame()
	if len(f.Conds) == 0 {
		return errs.New(errs.SYNTAX, "''' with no open conditional")
	}
	f.Conds = f.Conds[:len(f.Conds)-1]
	return nil
}

// cmdLabel implements "!label!": declares a jump target at the
// position immediately following the closing '!'.
func (e *Engine) cmdLabel() error {
	var b strings.Builder
	for {
		r, ok := e.take()
		if !ok {
			return errs.New(errs.ARGEXPECTED, "unterminated ! label")
		}
		if r == '!' {
			break
		}
		b.WriteRune(r)
	}
	e.frame().Labels[b.String()] = e.frame().PC
	return nil
}

// cmdGotoLabel implements "Olabel$" and its computed-goto variant
// "Ol1,l2,...,ln$".
func (e *Engine) cmdGotoLabel(ctx context.Context) error {
	text, err := e.readUntilEsc(nil)
	if err != nil {
		return err
	}
	labels := strings.Split(text, ",")
	target := labels[0]
	if len(labels) > 1 {
		n, err := e.Expr.PopNumCalc(1)
		if err != nil {
			return err
		}
		if n < 1 || n > len(labels) {
			return nil
		}
		target = labels[n-1]
	}
	f := e.frame()
	if pc, ok := f.Labels[target]; ok {
		f.PC = pc
		return nil
	}
	f.Mode = ModeParseOnlyGoto
	f.GotoWant = target
	return nil
}

// skimOne advances one character while the current frame is in a
// parse-only skipping mode, looking only for the construct that would
// return it to NORMAL mode.
func (e *Engine) skimOne() error {
	f := e.frame()
	r, ok := e.take()
	if !ok {
		return errs.New(errs.SYNTAX, "unterminated goto, loop or conditional in %s", f.Name)
	}

	switch f.Mode {
	case ModeParseOnlyGoto:
		if r != '!' {
			return nil
		}
		var b strings.Builder
		for {
			c, ok := e.take()
			if !ok {
				return errs.New(errs.ARGEXPECTED, "unterminated ! label")
			}
			if c == '!' {
				break
			}
			b.WriteRune(c)
		}
		name := b.String()
		f.Labels[name] = f.PC
		if name == f.GotoWant {
			f.Mode = ModeNormal
			f.GotoWant = ""
		}
		return nil

	case ModeParseOnlyLoop:
		switch r {
		case '<':
			f.SkipDepth++
		case '>':
			if f.SkipDepth == 0 {
				f.Mode = ModeNormal
				return nil
			}
			f.SkipDepth--
		}
		return nil

	case ModeParseOnlyCond:
		switch r {
		case '"':
			if _, ok := e.cur(); ok {
				e.take() // consume the type character along with '"'
			}
			f.SkipDepth++
		case '\'':
			if f.SkipDepth == 0 {
				f.Conds = f.Conds[:len(f.Conds)-1]
				f.Mode = ModeNormal
				return nil
			}
			f.SkipDepth--
		case '|':
			if f.SkipDepth == 0 {
				f.Mode = ModeNormal
				return nil
			}
		}
		return nil

	case ModeParseOnlyCondForce:
		switch r {
		case '"':
			if _, ok := e.cur(); ok {
				e.take()
			}
			f.SkipDepth++
		case '\'':
			if f.SkipDepth == 0 {
				f.Conds = f.Conds[:len(f.Conds)-1]
				f.Mode = ModeNormal
				return nil
			}
			f.SkipDepth--
		}
		return nil
	}
	return nil
}
