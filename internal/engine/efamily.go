/*
 * teco - The "E" command family: EC, EG, EI, EM, ES.
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
	"os"
	"strings"

	"github.com/tecoengine/teco/internal/errs"
	"github.com/tecoengine/teco/internal/spawn"
)

// dispatchE handles the letter following a top-level "E", the large
// family of commands that do not fit the single-character dispatch
// table (EC, EG, EI, EM, ES, ...).
func (e *Engine) dispatchE(ctx context.Context, upper rune) error {
	switch upper {
	case 'C':
		return e.cmdRunExternal(ctx, false)
	case 'G':
		return e.cmdRunExternal(ctx, true)
	case 'I':
		return e.cmdInsertRaw()
	case 'M':
		return e.cmdLoadMacroFile(ctx)
	case 'S':
		return e.cmdScintillaDispatch()
	default:
		return errs.New(errs.SYNTAX, "unrecognized E command E%c", upper)
	}
}

// cmdRunExternal implements "EC" (replace the range with the child's
// output) and "EG" (store the child's output into a register instead).
func (e *Engine) cmdRunExternal(ctx context.Context, toReg bool) error {
	var regName string
	var local bool
	var err error
	if toReg {
		regName, local, err = e.readQRegSpec()
		if err != nil {
			return err
		}
	}
	from, to, err := e.rangeArgs(false, 1)
	if err != nil {
		return err
	}
	cmdText, err := e.readUntilEsc(nil)
	if err != nil {
		return err
	}

	var res spawn.Result
	if toReg {
		res, err = e.RunExternalTo(ctx, cmdText, from, to, qualifyLocal(regName, local))
	} else {
		res, err = e.RunExternal(ctx, cmdText, from, to)
	}
	if err != nil {
		return err
	}
	if e.ps.colonCount > 0 {
		e.Expr.PushNumber(spawn.ExitBoolean(res))
	}
	return nil
}

// qualifyLocal is a placeholder seam for routing EG's target register
// through insertReg's local/global split; RunExternalTo currently only
// inserts into the global table, matching classic TECO's convention
// that EG's target is always a global register.
func qualifyLocal(name string, local bool) string { return name }

// cmdLoadMacroFile implements "EMfile$": reads file, strips a leading
// "#!" line if present, and executes the remainder as a macro.
func (e *Engine) cmdLoadMacroFile(ctx context.Context) error {
	filename, err := e.readUntilEsc(nil)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return errs.New(errs.MODULE, "%s", err)
	}
	text := string(data)
	if strings.HasPrefix(text, "#!") {
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[i+1:]
		}
	}
	return e.RunMacro(ctx, filename, text, nil)
}

// cmdScintillaDispatch implements "ES@msg,wparam@lparam$": the three
// operands are read as one ESC-terminated string; the text before the
// next '@' is split on ',' into msg and wparam, and the rest is lparam.
// An empty field falls back to popping the expression stack, matching
// the "missing parts default to the top of the stack" rule.
func (e *Engine) cmdScintillaDispatch() error {
	raw, err := e.readUntilEsc(nil)
	if err != nil {
		return err
	}
	raw = strings.TrimPrefix(raw, "@")
	head, lparam, _ := strings.Cut(raw, "@")
	msgField, wparamField, _ := strings.Cut(head, ",")
	fields := []string{msgField, wparamField, lparam}
	operand := func(s string) (string, error) {
		if s != "" {
			return s, nil
		}
		n, err := e.Expr.PopNumCalc(0)
		if err != nil {
			return "", err
		}
		return itoa(n), nil
	}
	msg, err := operand(fields[0])
	if err != nil {
		return err
	}
	wparam, err := operand(fields[1])
	if err != nil {
		return err
	}
	lparam, err := operand(fields[2])
	if err != nil {
		return err
	}
	result, err := e.Dispatch(msg, wparam, lparam)
	if err != nil {
		return err
	}
	e.Expr.PushNumber(result)
	return nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}
