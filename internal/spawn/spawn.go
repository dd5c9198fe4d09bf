/*
 * teco - External command execution (EC/EG).
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

// Package spawn runs an external command (EC/EG), feeding it the
// selected buffer range on stdin and capturing its stdout, with
// interrupt polling and a memory cap on the accumulating output.
package spawn

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/tecoengine/teco/internal/errs"
)

// Env resolves the two environment Q-Registers spawn needs and supplies
// the full environment snapshot for the child.
type Env struct {
	Shell      func() (string, error) // $SHELL, POSIX only
	ComSpec    func() (string, error) // $COMSPEC, Windows only
	ShellEmu   bool                   // ed flag: tokenize in-process instead of via a shell
	Environ    func() []string
	Dir        func() (string, error)
	PollEvery  time.Duration // interrupt poll interval, defaults to 100ms
	Interrupt  func() bool   // reports whether SIGINT has been requested
	MemLimit   int           // 0 = unlimited
}

// Result is what a spawned command produced.
type Result struct {
	Output   string
	ExitCode int
	Signaled bool
}

// argv builds the command line that execs the shell with cmd: on
// Windows it uses $COMSPEC /q /c command; every other platform is
// treated as POSIX, consulting $SHELL and passing "-c command". Only
// the shell emulation flag tokenizes cmd in-process instead; there is
// no separate fallback for platforms that are neither POSIX nor
// Windows.
func argv(cmd string, env Env) ([]string, error) {
	if env.ShellEmu {
		return tokenize(cmd), nil
	}
	if runtime.GOOS == "windows" {
		comspec := "cmd.exe"
		if env.ComSpec != nil {
			if s, err := env.ComSpec(); err == nil && s != "" {
				comspec = s
			}
		}
		return []string{comspec, "/q", "/c", cmd}, nil
	}
	shell := "/bin/sh"
	if env.Shell != nil {
		if s, err := env.Shell(); err == nil && s != "" {
			shell = s
		}
	}
	return []string{shell, "-c", cmd}, nil
}

// tokenize performs a minimal POSIX-shell-like word split honoring
// single and double quotes, used only when shell emulation is
// requested.
func tokenize(cmd string) []string {
	var out []string
	var cur strings.Builder
	var quote rune
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range cmd {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ' ' || r == '\t':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

// Run spawns cmd, feeding it stdin and returning its captured stdout
// (capped at env.MemLimit bytes, if set) once the process exits or is
// interrupted.
func Run(ctx context.Context, cmd string, stdin string, env Env) (Result, error) {
	parts, err := argv(cmd, env)
	if err != nil {
		return Result{}, err
	}
	if len(parts) == 0 {
		return Result{}, errs.New(errs.FAILED, "empty command")
	}

	c := exec.CommandContext(ctx, parts[0], parts[1:]...)
	if env.Environ != nil {
		c.Env = env.Environ()
	}
	if env.Dir != nil {
		if d, err := env.Dir(); err == nil {
			c.Dir = d
		}
	}
	c.Stdin = strings.NewReader(stdin)

	stdout, err := c.StdoutPipe()
	if err != nil {
		return Result{}, errs.New(errs.MODULE, "%s", err)
	}
	c.Stderr = nil // stderr is discarded, not captured

	if err := c.Start(); err != nil {
		return Result{}, errs.New(errs.MODULE, "%s", err)
	}

	out, err := pump(ctx, stdout, env)
	waitErr := c.Wait()

	result := Result{Output: out}
	if exitErr, ok := waitErr.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
		// ExitCode reports -1 for a child terminated by a signal.
		result.Signaled = result.ExitCode == -1
	} else if waitErr == nil {
		result.ExitCode = 0
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

// pump reads r in a loop, polling the interrupt flag every PollEvery
// (default 100ms) and stopping once env.MemLimit bytes have
// accumulated.
func pump(ctx context.Context, r io.Reader, env Env) (string, error) {
	interval := env.PollEvery
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	var buf bytes.Buffer
	chunk := make([]byte, 4096)
	done := make(chan struct{})
	var readErr error
	go func() {
		defer close(done)
		for {
			n, err := r.Read(chunk)
			if n > 0 {
				buf.Write(chunk[:n])
				if env.MemLimit > 0 && buf.Len() > env.MemLimit {
					readErr = errs.New(errs.MEMLIMIT, "external command output exceeded the memory limit")
					return
				}
			}
			if err != nil {
				if err != io.EOF {
					readErr = errs.New(errs.MODULE, "%s", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return buf.String(), readErr
		case <-ticker.C:
			if env.Interrupt != nil && env.Interrupt() {
				return buf.String(), errs.Interrupted()
			}
		case <-ctx.Done():
			return buf.String(), errs.Interrupted()
		}
	}
}

// ExitBoolean implements the ":EC" return convention: SUCCESS (1) for
// exit code 0, |exit_code| for non-zero, 0 if the process did not exit
// normally (e.g. it was signaled).
func ExitBoolean(r Result) int {
	switch {
	case r.Signaled:
		return 0
	case r.ExitCode == 0:
		return 1
	default:
		if r.ExitCode < 0 {
			return -r.ExitCode
		}
		return r.ExitCode
	}
}
