/*
 * teco - Main process.
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

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	getopt "github.com/pborman/getopt/v2"
	"github.com/peterh/liner"

	"github.com/tecoengine/teco/internal/cmdline"
	"github.com/tecoengine/teco/internal/config"
	"github.com/tecoengine/teco/internal/engine"
	"github.com/tecoengine/teco/internal/errs"
	"github.com/tecoengine/teco/internal/logger"
)

var Logger *slog.Logger

func main() {
	optEval := getopt.StringLong("eval", 'e', "", "Evaluate a command string and exit")
	optMung := getopt.StringLong("mung", 'm', "", "Load and execute file as a macro, then enter interactive mode")
	optNoProfile := getopt.BoolLong("no-profile", 0, "Skip loading the startup profile")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optMemLimit := getopt.StringLong("mem-limit", 0, "", "Undo-log/RSS memory limit in bytes (0 or empty = unlimited)")
	optDebug := getopt.BoolLong("debug", 'd', "Mirror every log record to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		var err error
		file, err = os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "teco: cannot create log file:", err)
			os.Exit(1)
		}
	}
	Logger = logger.New(file, slog.LevelDebug, *optDebug)
	slog.SetDefault(Logger)

	e := engine.New(Logger)
	if *optMemLimit != "" {
		n, err := strconv.ParseInt(*optMemLimit, 10, 64)
		if err != nil {
			fmt.Fprintln(os.Stderr, "teco: invalid --mem-limit:", err)
			os.Exit(1)
		}
		e.SetMemLimit(n)
	}
	e.Stdout = func(s string) (int, error) { return fmt.Print(s) }

	if !*optNoProfile {
		if err := config.Load(config.ProfilePath()); err != nil && !os.IsNotExist(err) {
			Logger.Warn("profile load failed", "error", err)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for range sigChan {
			e.SetInterrupted(true)
		}
	}()

	ctx := context.Background()

	if *optEval != "" {
		if err := runAndReport(ctx, e, *optEval); err != nil {
			os.Exit(1)
		}
		return
	}

	if *optMung != "" {
		data, err := os.ReadFile(*optMung)
		if err != nil {
			Logger.Error("cannot read mung file", "file", *optMung, "error", err)
			os.Exit(1)
		}
		if err := runAndReport(ctx, e, string(data)); err != nil {
			os.Exit(1)
		}
	}

	interactive(ctx, e)
}

// runAndReport executes text as a top-level command line, printing any
// surfaced error. QUIT is treated as a clean exit, not a failure.
func runAndReport(ctx context.Context, e *engine.Engine, text string) error {
	err := e.Run(ctx, text)
	if err == nil || errs.Is(err, errs.QUIT) {
		return nil
	}
	fmt.Fprintln(os.Stderr, "teco:", err)
	return err
}

// interactive drives the line-edited REPL. liner still owns the raw
// terminal and the user's in-progress line editing, but once a line is
// handed back it is replayed one rune at a time through
// cmdline.Controller.Feed, which is what actually executes it: every
// keystroke steps the engine immediately (engine.Engine.Step), so a
// command left unfinished at end of line (no terminating ESC yet, an
// open string argument, ...) simply resumes on the next line instead
// of erroring, matching the way a real TECO command line can span
// more than one line of typed input. "$$" (RETURN at top level) or a
// confirmed ^C^C quits.
func interactive(ctx context.Context, e *engine.Engine) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	edit := ruboutEditCallback(e)
	step := func(text string, pos int) error {
		e.FeedText(text[pos:])
		return e.Step(ctx)
	}

	for {
		command, err := line.Prompt("*")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			slog.Error("error reading line", "error", err)
			return
		}
		line.AppendHistory(command)

		var runErr error
		for _, r := range command {
			if runErr = e.CmdLine.Feed(r, edit, step); runErr != nil {
				break
			}
		}
		e.CmdLine.Reset()
		if runErr == nil {
			continue
		}
		if errs.Is(runErr, errs.QUIT) {
			return
		}
		fmt.Println("?" + runErr.Error())
	}
}

// ruboutEditCallback lets a literal rubout/backspace byte arriving in
// the fed stream undo the previous keystroke through the command
// line's own undo-log-backed Rubout, instead of being executed as a
// command character.
func ruboutEditCallback(e *engine.Engine) cmdline.EditCallback {
	return func(r rune) (bool, error) {
		if r == 0x7f || r == '\b' {
			e.CmdLine.Rubout()
			return true, nil
		}
		return false, nil
	}
}
