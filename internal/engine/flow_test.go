package engine

import (
	"context"
	"testing"
)

func TestLoopBreakExitsEarly(t *testing.T) {
	e := New(nil)
	// Each iteration inserts "x" then immediately breaks with "1;".
	if err := e.Run(context.Background(), "3<Ix\x1b1;>"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "x" {
		t.Errorf("buffer = %q, want x (';' should have broken out after the first pass)", got)
	}
}

func TestLoopBarrierDiscardsUnconsumedPushes(t *testing.T) {
	e := New(nil)
	// Each iteration pushes a stray "7" it never consumes. A plain
	// "<...>" loop installs an implicit argument barrier, so none of
	// that should survive past the loop.
	if err := e.Run(context.Background(), "3<7>"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !e.Expr.Empty() {
		t.Error("expression stack should be empty after the loop (the barrier should have discarded each iteration's stray 7)")
	}
}

func TestColonLoopSharesStackAcrossIterations(t *testing.T) {
	e := New(nil)
	// ":<" deliberately omits the barrier, so the three stray pushes
	// should accumulate instead of being discarded.
	if err := e.Run(context.Background(), "3:<7>"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if e.Expr.Empty() {
		t.Error("':<' should not install the implicit argument barrier; pushes should accumulate across iterations")
	}
}

func TestLoopZeroCountSkipsBody(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "0<Ix\x1b>Iy\x1b"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "y" {
		t.Errorf("buffer = %q, want y (0< should skip its body entirely)", got)
	}
}

func TestFGreaterThanEndsLoopEarly(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "3<Ix\x1bF>Iy\x1b>Iz\x1b"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "xz" {
		t.Errorf("buffer = %q, want xz (F> should skip to the matching '>' and exit)", got)
	}
}

func TestGotoLabelForward(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "Oskip\x1bIa\x1b!skip!Ib\x1b"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "b" {
		t.Errorf("buffer = %q, want b (goto should have skipped the Ia insert)", got)
	}
}

func TestComputedGotoSelectsByIndex(t *testing.T) {
	e := New(nil)
	// "2O" selects the second label in the comma-separated list.
	if err := e.Run(context.Background(), "2Oone,two\x1bIa\x1b!one!Ib\x1b!two!Ic\x1b"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "c" {
		t.Errorf("buffer = %q, want c", got)
	}
}

func TestConditionalElseSkipsTrueArmWhenFalse(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "0\"S1;Iyes\x1b'Ino\x1b"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "no" {
		t.Errorf("buffer = %q, want no", got)
	}
}

func TestFPipeJumpsToElseArm(t *testing.T) {
	e := New(nil)
	// Inside the true arm, F| skips the rest of that arm and runs the else arm.
	if err := e.Run(context.Background(), "1\"SIa\x1bF|Ib\x1b|Ic\x1b'Id\x1b"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "acd" {
		t.Errorf("buffer = %q, want acd", got)
	}
}
