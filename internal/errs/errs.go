/*
 * teco - Tagged engine errors.
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

// Package errs defines the tagged error kinds used throughout the engine.
//
// Errors are never native panics: every mutating call returns its error
// through an ordinary (value, error) pair, and the four pseudo-error kinds
// (CMDLINE, RETURN, QUIT, INTERRUPTED) are unwound by type switch at the one
// designated handler for each, never by an ordinary error check.
package errs

import "fmt"

// Kind names one of the tagged error variants.
type Kind int

const (
	FAILED Kind = iota
	SYNTAX
	MODIFIER
	ARGEXPECTED
	CODEPOINT
	MOVE
	WORDS
	RANGE
	SUBPATTERN
	INVALIDBUF
	INVALIDQREG
	QREGOPUNSUPPORTED
	QREGCONTAINSNULL
	EDITINGLOCALQREG
	MEMLIMIT
	CLIPBOARD
	WIN32
	MODULE
	INTERRUPTED
	CMDLINE
	RETURN
	QUIT
)

var names = map[Kind]string{
	FAILED:            "FAILED",
	SYNTAX:            "SYNTAX",
	MODIFIER:          "MODIFIER",
	ARGEXPECTED:       "ARGEXPECTED",
	CODEPOINT:         "CODEPOINT",
	MOVE:              "MOVE",
	WORDS:             "WORDS",
	RANGE:             "RANGE",
	SUBPATTERN:        "SUBPATTERN",
	INVALIDBUF:        "INVALIDBUF",
	INVALIDQREG:       "INVALIDQREG",
	QREGOPUNSUPPORTED: "QREGOPUNSUPPORTED",
	QREGCONTAINSNULL:  "QREGCONTAINSNULL",
	EDITINGLOCALQREG:  "EDITINGLOCALQREG",
	MEMLIMIT:          "MEMLIMIT",
	CLIPBOARD:         "CLIPBOARD",
	WIN32:             "WIN32",
	MODULE:            "MODULE",
	INTERRUPTED:       "INTERRUPTED",
	CMDLINE:           "CMDLINE",
	RETURN:            "RETURN",
	QUIT:              "QUIT",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Signal reports whether this kind is one of the four pseudo-errors that
// unwind macro frames instead of being handled by an ordinary error check.
func (k Kind) Signal() bool {
	switch k {
	case INTERRUPTED, CMDLINE, RETURN, QUIT:
		return true
	default:
		return false
	}
}

// Frame names the context (Q-Register, file, or hook) that introduced one
// level of the macro-call chain, for diagnostics on an unhandled error.
type Frame struct {
	Name string // Q-Register name, file name, or hook name.
	PC   int    // Position within that frame's macro text.
}

// Error is the tagged value every engine operation returns on failure.
type Error struct {
	Kind    Kind
	Message string
	Pos     int     // Position in the current macro frame.
	Frames  []Frame // Outer frames, innermost first.

	// Payload carries extra data for pseudo-errors: the exit code for
	// QUIT, the replacement command line for CMDLINE.
	Payload any
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds a plain error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithPos attaches the macro-frame position an error occurred at.
func (e *Error) WithPos(pos int) *Error {
	e.Pos = pos
	return e
}

// PushFrame records the frame (register/file/hook name) that is about to
// be entered, so a later unhandled error can report the full call chain.
func (e *Error) PushFrame(name string, pc int) *Error {
	e.Frames = append(e.Frames, Frame{Name: name, PC: pc})
	return e
}

// Quit builds the QUIT pseudo-error carrying the process exit code.
func Quit(code int) *Error {
	return &Error{Kind: QUIT, Payload: code}
}

// Return builds the RETURN pseudo-error raised by "$$".
func Return() *Error {
	return &Error{Kind: RETURN}
}

// Interrupted builds the INTERRUPTED pseudo-error raised by SIGINT.
func Interrupted() *Error {
	return &Error{Kind: INTERRUPTED}
}

// CmdLine builds the CMDLINE pseudo-error raised by "}", carrying the new
// command line text the controller should replay.
func CmdLine(newLine string) *Error {
	return &Error{Kind: CMDLINE, Payload: newLine}
}

// Is reports whether err is a tagged *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
