/*
 * teco - Q-Register letter commands (Q U % X G [ ] M).
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

	"github.com/tecoengine/teco/internal/errs"
	"github.com/tecoengine/teco/internal/qreg"
)

// cmdGetInteger implements "Qq": push q's integer value. ":Qq" pushes
// q's string size instead (the colon-modified variant classic TECO
// uses for "how big is this register's text").
func (e *Engine) cmdGetInteger() error {
	name, local, err := e.readQRegSpec()
	if err != nil {
		return err
	}
	r := e.findNamed(name, local)
	if r == nil {
		return errs.New(errs.INVALIDQREG, "Q-Register %q does not exist", qreg.Canonical(name))
	}
	if e.ps.colonCount > 0 {
		n, err := r.GetSize(e.bufferHooks())
		if err != nil {
			return err
		}
		e.Expr.PushNumber(n)
		return nil
	}
	e.Expr.PushNumber(r.GetInteger(e.bufferHooks()))
	return nil
}

// cmdSetInteger implements "Uq": pop the top of the expression stack
// and store it as q's integer value, creating q if needed.
func (e *Engine) cmdSetInteger() error {
	name, local, err := e.readQRegSpec()
	if err != nil {
		return err
	}
	n, err := e.Expr.PopNumCalc(0)
	if err != nil {
		return err
	}
	r := e.insertReg(name, local)
	return r.SetInteger(e.Undo, e.bufferHooks(), n)
}

// cmdIncrement implements "%q": adds the popped value to q's integer
// and pushes the new value.
func (e *Engine) cmdIncrement() error {
	name, local, err := e.readQRegSpec()
	if err != nil {
		return err
	}
	n, err := e.Expr.PopNumCalc(1)
	if err != nil {
		return err
	}
	r := e.insertReg(name, local)
	next := r.GetInteger(e.bufferHooks()) + n
	if err := r.SetInteger(e.Undo, e.bufferHooks(), next); err != nil {
		return err
	}
	e.Expr.PushNumber(next)
	return nil
}

// cmdCopyToReg implements "Xq": copy the addressed range into q's
// string, replacing its prior content (or appending, with ":Xq").
func (e *Engine) cmdCopyToReg() error {
	name, local, err := e.readQRegSpec()
	if err != nil {
		return err
	}
	from, to, err := e.rangeArgs(false, 1)
	if err != nil {
		return err
	}
	d, err := e.activeDoc()
	if err != nil {
		return err
	}
	text, err := d.GetTextRange(from, to)
	if err != nil {
		return err
	}
	r := e.insertReg(name, local)
	if e.ps.colonCount > 0 {
		return r.AppendString(e.Undo, e.bufferHooks(), text)
	}
	return r.SetString(e.Undo, e.bufferHooks(), text)
}

// cmdInsertFromReg implements "Gq": insert q's string content at dot.
func (e *Engine) cmdInsertFromReg() error {
	name, local, err := e.readQRegSpec()
	if err != nil {
		return err
	}
	r := e.findNamed(name, local)
	if r == nil {
		return errs.New(errs.INVALIDQREG, "Q-Register %q does not exist", qreg.Canonical(name))
	}
	text, err := r.GetString(e.bufferHooks())
	if err != nil {
		return err
	}
	d, err := e.activeDoc()
	if err != nil {
		return err
	}
	d.AddText(d.GetCurrentPos(), text)
	d.GotoPos(d.GetCurrentPos() + len([]rune(text)))
	return nil
}

// cmdPushReg implements "[q": save q's contents on the global
// push-down stack.
func (e *Engine) cmdPushReg() error {
	name, local, err := e.readQRegSpec()
	if err != nil {
		return err
	}
	r := e.findNamed(name, local)
	if r == nil {
		r = e.insertReg(name, local)
	}
	return e.RegStack.Push(r)
}

// cmdPopReg implements "]q": restore q's contents from the top of the
// global push-down stack.
func (e *Engine) cmdPopReg() error {
	name, local, err := e.readQRegSpec()
	if err != nil {
		return err
	}
	r := e.insertReg(name, local)
	return e.RegStack.Pop(r)
}

// cmdCallMacro implements "Mq": execute q's string content as a
// macro. ":Mq" shares the caller's local Q-Register table instead of
// starting a fresh one.
func (e *Engine) cmdCallMacro(ctx context.Context) error {
	name, local, err := e.readQRegSpec()
	if err != nil {
		return err
	}
	r := e.findNamed(name, local)
	if r == nil {
		return errs.New(errs.INVALIDQREG, "Q-Register %q does not exist", qreg.Canonical(name))
	}
	text, err := r.GetString(e.bufferHooks())
	if err != nil {
		return err
	}
	var shared *qreg.Table
	if e.ps.colonCount > 0 {
		shared = e.frame().Locals
	}
	return e.RunMacro(ctx, qreg.Canonical(name), text, shared)
}

// findNamed looks a register up honoring an explicit local/global
// designation from a just-parsed Q-Register spec (as opposed to
// findReg's locals-then-globals fallback).
func (e *Engine) findNamed(name string, local bool) *qreg.Register {
	if local {
		if locals := e.frame().Locals; locals != nil {
			return locals.Find(name)
		}
		return nil
	}
	return e.Global.Find(name)
}
