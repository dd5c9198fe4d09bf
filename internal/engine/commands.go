/*
 * teco - Arithmetic, movement, deletion and miscellaneous commands.
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
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/tecoengine/teco/internal/doc"
	"github.com/tecoengine/teco/internal/errs"
	"github.com/tecoengine/teco/internal/expr"
)

// dispatch handles one top-level command character (anything that was
// not a digit, modifier, '^' or 'E' prefix).
func (e *Engine) dispatch(ctx context.Context, r rune) error {
	switch r {
	case '+', '-', '*', '/', '&', '#':
		e.Expr.PushOp(opFor(r))
		return nil
	case '(':
		e.Expr.BraceOpen()
		return nil
	case ')':
		return e.Expr.BraceClose()
	case ',':
		e.Expr.PushOp(expr.OpNew)
		return nil

	case '.':
		d, err := e.activeDoc()
		if err != nil {
			return err
		}
		e.Expr.PushNumber(d.GetCurrentPos())
		return nil
	case 'Z':
		d, err := e.activeDoc()
		if err != nil {
			return err
		}
		e.Expr.PushNumber(d.GetLength())
		return nil
	case 'H':
		e.Expr.PushNumber(0)
		d, err := e.activeDoc()
		if err != nil {
			return err
		}
		e.Expr.PushNumber(d.GetLength())
		return nil

	case '=':
		return e.cmdPrintNumber()

	case 'J':
		return e.cmdGoto()
	case 'C':
		return e.cmdMoveChars(1)
	case 'R':
		return e.cmdMoveChars(-1)
	case 'L':
		return e.cmdMoveLines(1)
	case 'B':
		return e.cmdMoveLines(-1)
	case 'K':
		return e.cmdDeleteLines()
	case 'D':
		return e.cmdDeleteChars()
	case 'A':
		return e.cmdReadChar()
	case 'W':
		return e.cmdMoveWords(1)
	case 'P':
		return e.cmdMoveWords(-1)
	case 'V':
		return e.cmdDeleteWords(1)
	case 'Y':
		return e.cmdDeleteWords(-1)

	case 'I':
		return e.cmdInsert(false)
	case 'S':
		return e.cmdSearch()
	case 'N':
		return e.cmdSearchAllBuffers()
	case 'F':
		return e.cmdFCommand()
	case 'O':
		return e.cmdGotoLabel(ctx)

	case 'Q':
		return e.cmdGetInteger()
	case 'U':
		return e.cmdSetInteger()
	case '%':
		return e.cmdIncrement()
	case 'X':
		return e.cmdCopyToReg()
	case 'G':
		return e.cmdInsertFromReg()
	case '[':
		return e.cmdPushReg()
	case ']':
		return e.cmdPopReg()
	case 'M':
		return e.cmdCallMacro(ctx)

	case '<':
		return e.cmdLoopOpen()
	case '>':
		return e.cmdLoopClose(ctx)
	case ';':
		return e.cmdLoopBreak()
	case '"':
		return e.cmdCondOpen()
	case '|':
		return e.cmdCondElse()
	case '\'':
		return e.cmdCondClose()
	case '!':
		return e.cmdLabel()

	case '\x1b':
		return e.cmdEscape(ctx)

	default:
		return errs.New(errs.SYNTAX, "unrecognized command %q", r)
	}
}

func opFor(r rune) expr.OpKind {
	switch r {
	case '+':
		return expr.OpAdd
	case '-':
		return expr.OpSub
	case '*':
		return expr.OpMul
	case '/':
		return expr.OpDiv
	case '&':
		return expr.OpAnd
	case '#':
		return expr.OpOr
	}
	return expr.OpAdd
}

// pushBool pushes classic TECO's boolean convention: -1 for success, 0
// for failure.
func (e *Engine) pushBool(ok bool) {
	if ok {
		e.Expr.PushNumber(-1)
	} else {
		e.Expr.PushNumber(0)
	}
}

// setRange records the glyph range a movement/deletion command acted
// on, for ^Y/^S to inspect afterward.
func (e *Engine) setRange(from, to int) {
	if len(e.ranges) == 0 {
		e.ranges = make([][2]int, 1)
	}
	e.ranges[0] = [2]int{from, to}
}

func (e *Engine) cmdGoto() error {
	if err := e.requireModifiers(0, false); err != nil {
		return err
	}
	d, err := e.activeDoc()
	if err != nil {
		return err
	}
	n, err := e.Expr.PopNumCalc(0)
	if err != nil {
		return err
	}
	if n < 0 || n > d.GetLength() {
		return errs.New(errs.MOVE, "J: position %d is off-page", n)
	}
	d.GotoPos(n)
	return nil
}

func (e *Engine) cmdMoveChars(sign int) error {
	if err := e.requireModifiers(1, false); err != nil {
		return err
	}
	d, err := e.activeDoc()
	if err != nil {
		return err
	}
	n, err := e.Expr.PopNumCalc(1)
	if err != nil {
		return err
	}
	from := d.GetCurrentPos()
	pos, ok := d.PositionRelative(from, sign*n)
	if !ok {
		if e.ps.colonCount > 0 {
			e.pushBool(false)
			return nil
		}
		return errs.New(errs.MOVE, "movement would go off-page")
	}
	d.GotoPos(pos)
	if from <= pos {
		e.setRange(from, pos)
	} else {
		e.setRange(pos, from)
	}
	if e.ps.colonCount > 0 {
		e.pushBool(true)
	}
	return nil
}

func (e *Engine) cmdMoveLines(sign int) error {
	if err := e.requireModifiers(1, false); err != nil {
		return err
	}
	d, err := e.activeDoc()
	if err != nil {
		return err
	}
	n, err := e.Expr.PopNumCalc(1)
	if err != nil {
		return err
	}
	curLine := d.LineFromPosition(d.GetCurrentPos())
	lastLine := d.LineFromPosition(d.GetLength())
	target := curLine + sign*n
	if target < 0 || target > lastLine {
		if e.ps.colonCount > 0 {
			e.pushBool(false)
			return nil
		}
		return errs.New(errs.MOVE, "movement would go off-page")
	}
	pos := d.PositionFromLine(target)
	d.GotoPos(pos)
	if e.ps.colonCount > 0 {
		e.pushBool(true)
	}
	return nil
}

// isWordChar reports whether r belongs to the document's current
// word-character set (see doc.Document.WordCharacters).
func isWordChar(r rune, wordChars string) bool {
	return strings.ContainsRune(wordChars, r)
}

// wordOffset returns the position n words forward (n > 0) or backward
// (n < 0) from pos, skipping a leading run of non-word characters and
// then the following (or preceding) run of word characters per step --
// the same gap-then-word scan classic word-motion commands use. It
// clamps at the document's edges rather than failing, since running out
// of whole words to skip is not an error the way running off-page is
// for plain character motion.
func wordOffset(d doc.Document, wordChars string, pos, n int) int {
	length := d.GetLength()
	for ; n > 0; n-- {
		for pos < length {
			r, err := d.GetCharAt(pos)
			if err != nil || isWordChar(r, wordChars) {
				break
			}
			pos++
		}
		for pos < length {
			r, err := d.GetCharAt(pos)
			if err != nil || !isWordChar(r, wordChars) {
				break
			}
			pos++
		}
	}
	for ; n < 0; n++ {
		for pos > 0 {
			r, err := d.GetCharAt(pos - 1)
			if err != nil || isWordChar(r, wordChars) {
				break
			}
			pos--
		}
		for pos > 0 {
			r, err := d.GetCharAt(pos - 1)
			if err != nil || !isWordChar(r, wordChars) {
				break
			}
			pos--
		}
	}
	return pos
}

// cmdMoveWords implements "W" (sign 1, forward) and "P" (sign -1,
// backward): moves dot by n words (default 1).
func (e *Engine) cmdMoveWords(sign int) error {
	if err := e.requireModifiers(1, false); err != nil {
		return err
	}
	d, err := e.activeDoc()
	if err != nil {
		return err
	}
	n, err := e.Expr.PopNumCalc(1)
	if err != nil {
		return err
	}
	from := d.GetCurrentPos()
	pos := wordOffset(d, d.WordCharacters(), from, sign*n)
	d.GotoPos(pos)
	if from <= pos {
		e.setRange(from, pos)
	} else {
		e.setRange(pos, from)
	}
	if e.ps.colonCount > 0 {
		e.pushBool(true)
	}
	return nil
}

// cmdDeleteWords implements "V" (sign 1, forward) and "Y" (sign -1,
// backward): deletes n words (default 1) starting at dot.
func (e *Engine) cmdDeleteWords(sign int) error {
	if err := e.requireModifiers(1, false); err != nil {
		return err
	}
	d, err := e.activeDoc()
	if err != nil {
		return err
	}
	n, err := e.Expr.PopNumCalc(1)
	if err != nil {
		return err
	}
	dot := d.GetCurrentPos()
	target := wordOffset(d, d.WordCharacters(), dot, sign*n)
	from, to := dot, target
	if target < dot {
		from, to = target, dot
	}
	if err := d.DeleteRange(from, to); err != nil {
		return errs.New(errs.RANGE, "%s", err)
	}
	e.setRange(from, to)
	if e.ps.colonCount > 0 {
		e.pushBool(true)
	}
	return nil
}

// rangeArgs resolves a movement/deletion command's 1-or-2 argument
// convention into an explicit (from, to) glyph range.
func (e *Engine) rangeArgs(lineMode bool, sign int) (from, to int, err error) {
	d, err := e.activeDoc()
	if err != nil {
		return 0, 0, err
	}
	dot := d.GetCurrentPos()
	if e.Expr.Args() >= 2 {
		to, err = e.Expr.PopNum(0)
		if err != nil {
			return 0, 0, err
		}
		from, err = e.Expr.PopNum(0)
		if err != nil {
			return 0, 0, err
		}
		return from, to, nil
	}
	n, err := e.Expr.PopNumCalc(1)
	if err != nil {
		return 0, 0, err
	}
	if lineMode {
		curLine := d.LineFromPosition(dot)
		target := curLine + sign*n
		pos := d.PositionFromLine(target)
		if sign*n >= 0 {
			return dot, pos, nil
		}
		return pos, dot, nil
	}
	pos, ok := d.PositionRelative(dot, sign*n)
	if !ok {
		return 0, 0, errs.New(errs.MOVE, "range would go off-page")
	}
	if sign*n >= 0 {
		return dot, pos, nil
	}
	return pos, dot, nil
}

func (e *Engine) cmdDeleteChars() error {
	if err := e.requireModifiers(1, false); err != nil {
		return err
	}
	from, to, err := e.rangeArgs(false, 1)
	if err != nil {
		if e.ps.colonCount > 0 {
			e.pushBool(false)
			return nil
		}
		return err
	}
	d, _ := e.activeDoc()
	if err := d.DeleteRange(from, to); err != nil {
		return errs.New(errs.RANGE, "%s", err)
	}
	e.setRange(from, to)
	if e.ps.colonCount > 0 {
		e.pushBool(true)
	}
	return nil
}

func (e *Engine) cmdDeleteLines() error {
	if err := e.requireModifiers(1, false); err != nil {
		return err
	}
	from, to, err := e.rangeArgs(true, 1)
	if err != nil {
		if e.ps.colonCount > 0 {
			e.pushBool(false)
			return nil
		}
		return err
	}
	d, _ := e.activeDoc()
	if err := d.DeleteRange(from, to); err != nil {
		return errs.New(errs.RANGE, "%s", err)
	}
	e.setRange(from, to)
	if e.ps.colonCount > 0 {
		e.pushBool(true)
	}
	return nil
}

func (e *Engine) cmdReadChar() error {
	if err := e.requireModifiers(0, false); err != nil {
		return err
	}
	d, err := e.activeDoc()
	if err != nil {
		return err
	}
	n, err := e.Expr.PopNumCalc(0)
	if err != nil {
		return err
	}
	r, err := d.GetCharAt(d.GetCurrentPos() + n)
	if err != nil {
		return err
	}
	e.Expr.PushNumber(int(r))
	return nil
}

func (e *Engine) cmdRangeOf(n int) error {
	if n >= len(e.ranges) {
		return errs.New(errs.SUBPATTERN, "no such range")
	}
	e.Expr.PushNumber(e.ranges[n][0])
	e.Expr.PushNumber(e.ranges[n][1])
	return nil
}

func (e *Engine) cmdRangeLen() error {
	if len(e.ranges) == 0 {
		return errs.New(errs.SUBPATTERN, "no active range")
	}
	r := e.ranges[0]
	e.Expr.PushNumber(-(r[1] - r[0]))
	return nil
}

// cmdConvertLineOffsets implements ^Q: with no colon, converts a
// from,to glyph range into a line count; colon-modified, converts an
// absolute position into a line number.
func (e *Engine) cmdConvertLineOffsets() error {
	d, err := e.activeDoc()
	if err != nil {
		return err
	}
	if e.ps.colonCount > 0 {
		pos, err := e.Expr.PopNumCalc(d.GetCurrentPos())
		if err != nil {
			return err
		}
		e.Expr.PushNumber(d.LineFromPosition(pos))
		return nil
	}
	if e.Expr.Args() >= 2 {
		to, err := e.Expr.PopNum(0)
		if err != nil {
			return err
		}
		from, err := e.Expr.PopNum(0)
		if err != nil {
			return err
		}
		e.Expr.PushNumber(d.LineFromPosition(to) - d.LineFromPosition(from))
		return nil
	}
	e.Expr.PushNumber(d.LineFromPosition(d.GetCurrentPos()))
	return nil
}

func (e *Engine) cmdPrintNumber() error {
	ps := e.ps
	// Peek ahead for a run of up to two more '=' (===) deferred one
	// character, per classic TECO's "=" / "==" / "===" family.
	count := 1
	for count < 3 {
		r, ok := e.cur()
		if !ok || r != '=' {
			break
		}
		e.take()
		count++
	}
	n, err := e.Expr.PopNumCalc(0)
	if err != nil {
		return err
	}
	var s string
	switch count {
	case 1:
		s = fmt.Sprintf("%d", n)
	case 2:
		s = fmt.Sprintf("%o", n)
	default:
		s = fmt.Sprintf("%x", n)
	}
	if ps.colonCount == 0 {
		s += "\n"
	}
	e.print(s)
	return nil
}

// print writes user-visible output. The default sink is the logger at
// info level; cmd/teco replaces this by setting Engine.Stdout.
func (e *Engine) print(s string) {
	if e.Stdout != nil {
		_, _ = e.Stdout(s)
		return
	}
	e.log.Info(s)
}

func (e *Engine) cmdSleep() error {
	n, err := e.Expr.PopNumCalc(0)
	if err != nil {
		return err
	}
	time.Sleep(time.Duration(n) * time.Millisecond)
	return nil
}

func (e *Engine) cmdTimeOfDay() error {
	switch e.ps.colonCount {
	case 0:
		t := time.Now()
		e.Expr.PushNumber(t.Hour()*10000 + t.Minute()*100 + t.Second())
	case 1:
		e.Expr.PushNumber(int(time.Now().Unix()))
	default:
		e.Expr.PushNumber(int(time.Now().UnixMicro()))
	}
	return nil
}

func (e *Engine) cmdDate() error {
	t := time.Now()
	e.Expr.PushNumber((t.Year()%100)*10000 + int(t.Month())*100 + t.Day())
	return nil
}

// cmdCtrlC implements "^C^C": a lone "^C" is a no-op lookahead for the
// confirming second one; only the immediate "^C^C" pair sets the exit
// flag and raises QUIT.
func (e *Engine) cmdCtrlC() error {
	f := e.frame()
	if f.PC+1 < len(f.Text) && f.Text[f.PC] == '^' && unicode.ToUpper(f.Text[f.PC+1]) == 'C' {
		f.PC += 2
		return errs.Quit(0)
	}
	return nil
}

// cmdBitwiseNot implements "^_": pops a value and pushes its bitwise
// complement, the same operand the comparison commands consult.
func (e *Engine) cmdBitwiseNot() error {
	n, err := e.Expr.PopNumCalc(0)
	if err != nil {
		return err
	}
	e.Expr.PushNumber(^n)
	return nil
}

func (e *Engine) cmdEscape(ctx context.Context) error {
	r, ok := e.cur()
	if ok && r == '\x1b' {
		e.take()
		return errs.Return()
	}
	e.Expr.DiscardArgs()
	return nil
}

// dispatchControl handles the character following a '^' prefix.
func (e *Engine) dispatchControl(ctx context.Context, upper rune) error {
	switch upper {
	case 'A':
		return e.cmdMessage()
	case 'C':
		return e.cmdCtrlC()
	case '_':
		return e.cmdBitwiseNot()
	case 'Y':
		return e.cmdRangeOf(0)
	case 'S':
		return e.cmdRangeLen()
	case 'Q':
		return e.cmdConvertLineOffsets()
	case 'W':
		return e.cmdSleep()
	case 'B':
		return e.cmdDate()
	case 'H':
		return e.cmdTimeOfDay()
	case 'I':
		return e.cmdInsert(true)
	case 'U':
		return e.cmdAppendString()
	default:
		return errs.New(errs.SYNTAX, "unrecognized control command ^%c", unicode.ToUpper(upper))
	}
}
