/*
 * teco - Main parser/dispatcher.
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

// Package engine ties the expression stack, Q-Register store, buffer
// ring, undo log, string-building and Q-Register-spec sub-machines,
// search compiler, Scintilla dispatch and external-command spawner
// into the single character-at-a-time command interpreter that runs a
// TECO program.
package engine

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/tecoengine/teco/internal/buffer"
	"github.com/tecoengine/teco/internal/cmdline"
	"github.com/tecoengine/teco/internal/doc"
	"github.com/tecoengine/teco/internal/errs"
	"github.com/tecoengine/teco/internal/expr"
	"github.com/tecoengine/teco/internal/memlimit"
	"github.com/tecoengine/teco/internal/qreg"
	"github.com/tecoengine/teco/internal/qspec"
	"github.com/tecoengine/teco/internal/sci"
	"github.com/tecoengine/teco/internal/search"
	"github.com/tecoengine/teco/internal/spawn"
	"github.com/tecoengine/teco/internal/strbuild"
	"github.com/tecoengine/teco/internal/undo"
)

// Mode selects how the parser treats an incoming character: executing
// it normally, or skimming past it while looking for the target of a
// goto, the end of a zero-count loop, or the else/end of a failed
// conditional.
type Mode int

const (
	ModeNormal Mode = iota
	ModeParseOnlyGoto
	ModeParseOnlyLoop
	ModeParseOnlyCond
	ModeParseOnlyCondForce
	ModeLexing
)

// loopFrame is one open "<...>" loop.
type loopFrame struct {
	pc      int
	counter int
	passBarrier bool // true for ":<", which omits the implicit argument barrier
}

// condFrame is one open "n"X...|...'" conditional.
type condFrame struct {
	sawElse bool
}

// Frame is one macro invocation. Mq pushes a frame with a fresh goto
// table and (unless called with ":Mq") fresh locals; the top-level
// command line is frame 0.
type Frame struct {
	Name   string // register/file/hook name, for diagnostics
	Text   []rune
	PC     int
	Locals *qreg.Table
	Labels map[string]int
	Loops  []loopFrame
	Conds  []condFrame
	Mode     Mode
	GotoWant string // label being sought in ModeParseOnlyGoto
	SkipDepth int   // nesting depth tracked while skimming a loop or conditional
}

// Engine is the whole interpreter: every piece of shared, process-wide
// state the spec calls out, reachable from one struct because the
// engine is single-threaded.
type Engine struct {
	Expr   *expr.Stack
	Undo   *undo.Log
	Ring   *buffer.Ring
	Global *qreg.Table

	RegStack *qreg.Stack
	CmdLine  *cmdline.Controller

	frames []*Frame

	curReg *qreg.Register // non-nil while a Q-Register is being edited instead of a buffer

	radix int // 8, 10 or 16 for numeric I/O (^R)

	interrupted atomic.Bool
	memLimit    int64
	sampler     memlimit.Sampler

	replRegister *qreg.Register

	log *slog.Logger

	lastSearchOK bool
	ranges       [][2]int // ranges[0] is the whole match, 1.. are captured groups

	edFlags int // ED flag word: shell emulation, auto-EOL, etc.

	ps *parserState

	// Stdout, if set, receives every "=", "^A" and similar print
	// command's output instead of the structured logger. cmd/teco
	// wires this to the interactive terminal.
	Stdout func(s string) (int, error)
}

// ED flag bits, matching classic TECO's ED register.
const (
	EDAutoEOL  = 16
	EDShellEmu = 128
)

// New builds an engine with one empty buffer already open and current.
func New(log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	u := undo.New()
	e := &Engine{
		Expr:   expr.New(u),
		Undo:   u,
		Ring:   buffer.New(u),
		Global: qreg.NewTable(u, true),
		radix:  10,
		log:    log,
		ps:     newParserState(),
	}
	e.RegStack = qreg.NewStack(u)
	e.CmdLine = cmdline.New(u)
	e.Ring.Add(doc.NewMemory())
	e.pushFrame(&Frame{Name: "*toplevel*", Labels: map[string]int{}})
	e.Global.SetBufferRingHooks(e.bufferHooks())
	return e
}

func (e *Engine) pushFrame(f *Frame) { e.frames = append(e.frames, f) }

func (e *Engine) frame() *Frame { return e.frames[len(e.frames)-1] }

// SetInterrupted is called from the engine's SIGINT handler (wired by
// cmd/teco) to request cooperative cancellation at the next poll point.
func (e *Engine) SetInterrupted(v bool) { e.interrupted.Store(v) }

// Interrupted reports whether cancellation has been requested.
func (e *Engine) Interrupted() bool { return e.interrupted.Load() }

// SetMemLimit configures the undo-log/rss memory budget in bytes. 0
// disables the check and stops the background sampler; a positive
// limit starts it lazily, matching the "polling thread runs only
// while a limit is configured" rule.
func (e *Engine) SetMemLimit(n int64) {
	e.memLimit = n
	e.Undo.SetLimit(int(n))
	if n > 0 {
		e.sampler.Start(memSamplePeriod)
	} else {
		e.sampler.Stop()
	}
}

// memSamplePeriod is how often the background sampler reads RSS.
const memSamplePeriod = 50 * time.Millisecond

// pollInterval is how often blocking points (EC/EG pumping, ^W sleep,
// the command-line read) check the interrupt flag.
const pollInterval = 100 * time.Millisecond

// checkInterrupt is the per-step poll point: it returns the
// INTERRUPTED pseudo-error if cancellation has been requested, and
// MEMLIMIT if the sampled resident-set size has exceeded the
// configured budget.
func (e *Engine) checkInterrupt() error {
	if e.interrupted.Load() {
		e.interrupted.Store(false)
		return errs.Interrupted()
	}
	if e.memLimit > 0 {
		if rss := e.sampler.RSS(); rss > 0 && rss > e.memLimit {
			return errs.New(errs.MEMLIMIT, "resident set size %d exceeds limit of %d bytes", rss, e.memLimit)
		}
	}
	return nil
}

// activeDoc returns the document currently receiving commands: the
// current buffer's, or the Q-Register being edited instead.
func (e *Engine) activeDoc() (doc.Document, error) {
	if e.curReg != nil {
		return e.curReg.Doc, nil
	}
	b := e.Ring.Current()
	if b == nil {
		return nil, errs.New(errs.INVALIDBUF, "no current buffer or Q-Register")
	}
	return b.Doc, nil
}

// strbuildLookups binds the string-building sub-machine's register
// interpolation productions to this engine's Q-Register store.
func (e *Engine) strbuildLookups() strbuild.Lookups {
	return strbuild.Lookups{
		RegisterString: func(name string) (string, error) {
			r := e.findReg(name)
			if r == nil {
				return "", errs.New(errs.INVALIDQREG, "Q-Register %q does not exist", name)
			}
			return r.GetString(e.bufferHooks())
		},
		RegisterInteger: func(name string) (int, error) {
			r := e.findReg(name)
			if r == nil {
				return 0, errs.New(errs.INVALIDQREG, "Q-Register %q does not exist", name)
			}
			return r.GetInteger(e.bufferHooks()), nil
		},
		Radix: func() int { return e.radix },
	}
}

func (e *Engine) searchLookups() search.Lookups {
	return search.Lookups{
		RegisterString: e.strbuildLookups().RegisterString,
	}
}

// bufferHooks lets the BufferInfo ("*") Q-Register variant reach the
// ring without qreg importing buffer directly.
func (e *Engine) bufferHooks() qreg.BufferRingHooks {
	return qreg.BufferRingHooks{
		CurrentID:       e.Ring.CurrentID,
		CurrentFilename: e.Ring.CurrentFilename,
		SwitchTo:        e.Ring.SetCurrent,
	}
}

// findReg looks up name first in the current frame's locals, then in
// the global table, matching classic TECO scoping.
func (e *Engine) findReg(name string) *qreg.Register {
	if locals := e.frame().Locals; locals != nil {
		if r := locals.Find(name); r != nil {
			return r
		}
	}
	return e.Global.Find(name)
}

// insertReg is like findReg but creates the register (in locals if the
// Q-Register-spec said so, else globals) if it does not yet exist.
func (e *Engine) insertReg(name string, local bool) *qreg.Register {
	if local {
		if e.frame().Locals == nil {
			e.frame().Locals = qreg.NewTable(e.Undo, true)
		}
		return e.frame().Locals.Insert(name)
	}
	return e.Global.Insert(name)
}

// readQRegSpec drives a fresh qspec.Machine over the frame's text
// starting at its current PC, leaving PC just past the reference.
func (e *Engine) readQRegSpec() (name string, local bool, err error) {
	f := e.frame()
	m := qspec.New(e.strbuildLookups())
	for {
		if f.PC >= len(f.Text) {
			return "", false, errs.New(errs.ARGEXPECTED, "unterminated Q-Register reference")
		}
		r := f.Text[f.PC]
		f.PC++
		done, err := m.Feed(r)
		if err != nil {
			return "", false, err
		}
		if done {
			return m.Name(), m.Local(), nil
		}
	}
}

// EnvironSnapshot renders the engine's environment Q-Registers ($NAME)
// as a process environment list, for EC/EG children.
func (e *Engine) EnvironSnapshot() []string {
	names := e.Global.AutoComplete("$")
	out := os.Environ()
	for _, n := range names {
		if len(n) <= 1 {
			continue
		}
		r := e.Global.Find(n)
		if r == nil {
			continue
		}
		s, err := r.GetString(e.bufferHooks())
		if err != nil {
			continue
		}
		out = append(out, n[1:]+"="+s)
	}
	return out
}

// spawnEnv binds the EC/EG external-command runner to this engine's
// $SHELL/$COMSPEC Q-Registers, ED flags and interrupt/memory state.
func (e *Engine) spawnEnv() spawn.Env {
	return spawn.Env{
		Shell: func() (string, error) {
			return e.envVar("$SHELL")
		},
		ComSpec: func() (string, error) {
			return e.envVar("$COMSPEC")
		},
		ShellEmu:  e.edFlags&EDShellEmu != 0,
		Environ:   e.EnvironSnapshot,
		Dir:       os.Getwd,
		PollEvery: pollInterval,
		Interrupt: e.interrupted.Load,
		MemLimit:  int(e.memLimit),
	}
}

func (e *Engine) envVar(name string) (string, error) {
	r := e.Global.Find(name)
	if r == nil {
		return "", nil
	}
	return r.GetString(e.bufferHooks())
}

// RunExternal executes cmd (EC semantics): its stdin is the selected
// range of the active document, its stdout replaces that range.
func (e *Engine) RunExternal(ctx context.Context, cmd string, from, to int) (spawn.Result, error) {
	d, err := e.activeDoc()
	if err != nil {
		return spawn.Result{}, err
	}
	stdin, err := d.GetTextRange(from, to)
	if err != nil {
		return spawn.Result{}, err
	}
	res, err := spawn.Run(ctx, cmd, stdin, e.spawnEnv())
	if err != nil {
		return res, err
	}
	if err := d.ReplaceSel(from, to, res.Output); err != nil {
		return res, err
	}
	return res, nil
}

// RunExternalTo executes cmd (EG semantics): its stdin is the selected
// range, its stdout is stored into register q instead of the document.
func (e *Engine) RunExternalTo(ctx context.Context, cmd string, from, to int, regName string) (spawn.Result, error) {
	d, err := e.activeDoc()
	if err != nil {
		return spawn.Result{}, err
	}
	stdin, err := d.GetTextRange(from, to)
	if err != nil {
		return spawn.Result{}, err
	}
	res, err := spawn.Run(ctx, cmd, stdin, e.spawnEnv())
	if err != nil {
		return res, err
	}
	r := e.insertReg(regName, false)
	if err := r.SetString(e.Undo, e.bufferHooks(), res.Output); err != nil {
		return res, err
	}
	return res, nil
}

// Dispatch sends one ES message through to the active document.
func (e *Engine) Dispatch(msgOperand, wparamOperand, lparamOperand string) (int, error) {
	msg, err := sci.ResolveOperand(msgOperand)
	if err != nil {
		return 0, err
	}
	wparam, err := sci.ResolveOperand(wparamOperand)
	if err != nil {
		return 0, err
	}
	lparam, err := sci.ResolveOperand(lparamOperand)
	if err != nil {
		return 0, err
	}
	d, err := e.activeDoc()
	if err != nil {
		return 0, err
	}
	return sci.Dispatch(d, msg, wparam, lparam)
}
