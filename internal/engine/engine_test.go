package engine

import (
	"context"
	"testing"

	"github.com/tecoengine/teco/internal/errs"
)

// bufferText returns the current buffer's full text, for assertions.
func bufferText(t *testing.T, e *Engine) string {
	t.Helper()
	d, err := e.activeDoc()
	if err != nil {
		t.Fatalf("activeDoc: %v", err)
	}
	s, err := d.GetTextRange(0, d.GetLength())
	if err != nil {
		t.Fatalf("GetTextRange: %v", err)
	}
	return s
}

func TestInsertAndMoveDot(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "Ihello world\x1b"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "hello world" {
		t.Errorf("buffer = %q, want hello world", got)
	}
}

func TestArithmeticPushesComputedValue(t *testing.T) {
	e := New(nil)
	var out string
	e.Stdout = func(s string) (int, error) { out += s; return len(s), nil }
	if err := e.Run(context.Background(), "2+3="); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "5\n" {
		t.Errorf("printed %q, want 5\\n", out)
	}
}

func TestNegativeLiteralPrintsWithSign(t *testing.T) {
	e := New(nil)
	var out string
	e.Stdout = func(s string) (int, error) { out += s; return len(s), nil }
	if err := e.Run(context.Background(), "-1="); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "-1\n" {
		t.Errorf("printed %q, want -1\\n", out)
	}
}

func TestSignedLiteralsMultiplyToPositiveOne(t *testing.T) {
	e := New(nil)
	var out string
	e.Stdout = func(s string) (int, error) { out += s; return len(s), nil }
	if err := e.Run(context.Background(), "-1*-1="); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "1\n" {
		t.Errorf("printed %q, want 1\\n", out)
	}
}

func TestMoveCommandWithNumericArgument(t *testing.T) {
	// This exercises the central takeNumber() flush: "5C" must move dot
	// forward by 5, not leave the literal 5 stranded on the expr stack.
	e := New(nil)
	if err := e.Run(context.Background(), "Ihello world\x1bJ5C"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	d, err := e.activeDoc()
	if err != nil {
		t.Fatalf("activeDoc: %v", err)
	}
	if d.GetCurrentPos() != 5 {
		t.Errorf("dot = %d, want 5 (5C from position 0)", d.GetCurrentPos())
	}
}

func TestQRegisterSetAndGetInteger(t *testing.T) {
	e := New(nil)
	var out string
	e.Stdout = func(s string) (int, error) { out += s; return len(s), nil }
	if err := e.Run(context.Background(), "42Ua Qa="); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "42\n" {
		t.Errorf("printed %q, want 42\\n", out)
	}
}

func TestQRegisterStringRoundTrip(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "Ihello\x1bHXaHKGa"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "hello" {
		t.Errorf("buffer after copy-out/delete/insert-back = %q, want hello", got)
	}
}

func TestDeleteChars(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "Ihello world\x1bJ5D"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != " world" {
		t.Errorf("buffer = %q, want \" world\"", got)
	}
}

func TestLoopIteration(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "3<Ix\x1b>"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "xxx" {
		t.Errorf("buffer = %q, want xxx", got)
	}
}

func TestConditionalTrueBranch(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "0\"EIyes\x1b'"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "yes" {
		t.Errorf("buffer = %q, want yes", got)
	}
}

func TestConditionalFalseBranchSkipsToElse(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "1\"EIyes\x1b|EIno\x1b'"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "no" {
		t.Errorf("buffer = %q, want no", got)
	}
}

func TestReturnStopsTopLevelMacro(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "Ia\x1b\x1b\x1bIb\x1b"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "a" {
		t.Errorf("buffer = %q, want a (double ESC should have stopped execution before Ib)", got)
	}
}

func TestQuitPropagates(t *testing.T) {
	e := New(nil)
	err := e.Run(context.Background(), "^C^C")
	if !errs.Is(err, errs.QUIT) {
		t.Errorf("Run(^C^C) error = %v, want QUIT", err)
	}
}

func TestLoneCtrlCIsNoOp(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "^CIhello\x1b"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "hello" {
		t.Errorf("buffer = %q, want hello (a lone ^C must not quit)", got)
	}
}

func TestUnterminatedStringIsArgExpected(t *testing.T) {
	e := New(nil)
	err := e.Run(context.Background(), "Ihello")
	if !errs.Is(err, errs.ARGEXPECTED) {
		t.Errorf("Run(unterminated I) error = %v, want ARGEXPECTED", err)
	}
}

func TestUnrecognizedCommand(t *testing.T) {
	e := New(nil)
	err := e.Run(context.Background(), "~")
	if !errs.Is(err, errs.SYNTAX) {
		t.Errorf("Run(~) error = %v, want SYNTAX", err)
	}
}

func TestColonModifiedMoveReportsFailureInsteadOfError(t *testing.T) {
	e := New(nil)
	var out string
	e.Stdout = func(s string) (int, error) { out += s; return len(s), nil }
	if err := e.Run(context.Background(), ":100C="); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "0\n" {
		t.Errorf("printed %q, want 0\\n (colon-modified out-of-range move pushes failure boolean)", out)
	}
}

func TestRadixOutput(t *testing.T) {
	e := New(nil)
	var out string
	e.Stdout = func(s string) (int, error) { out += s; return len(s), nil }
	if err := e.Run(context.Background(), "255=="); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "377\n" {
		t.Errorf("printed %q, want 377\\n (octal)", out)
	}
}
