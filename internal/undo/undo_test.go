package undo

import (
	"testing"

	"github.com/tecoengine/teco/internal/errs"
)

func TestPushAndRubout(t *testing.T) {
	l := New()
	x := 1
	l.Savepoint()
	if err := PushScalar(l, "x", &x); err != nil {
		t.Fatalf("PushScalar: %v", err)
	}
	x = 2
	if !l.Rubout() {
		t.Fatal("Rubout() = false, want true")
	}
	if x != 1 {
		t.Errorf("x = %d after rubout, want 1", x)
	}
}

func TestRuboutWithNoSavepoint(t *testing.T) {
	l := New()
	if l.Rubout() {
		t.Error("Rubout() on empty log = true, want false")
	}
}

func TestMultipleSavepointsUnwindOneAtATime(t *testing.T) {
	l := New()
	x := 0

	l.Savepoint()
	_ = PushScalar(l, "x", &x)
	x = 1

	l.Savepoint()
	_ = PushScalar(l, "x", &x)
	x = 2

	if !l.Rubout() {
		t.Fatal("first Rubout() = false")
	}
	if x != 1 {
		t.Errorf("x after first rubout = %d, want 1", x)
	}
	if !l.Rubout() {
		t.Fatal("second Rubout() = false")
	}
	if x != 0 {
		t.Errorf("x after second rubout = %d, want 0", x)
	}
}

func TestRuboutAll(t *testing.T) {
	l := New()
	x := 0
	for i := 1; i <= 3; i++ {
		l.Savepoint()
		_ = PushScalar(l, "x", &x)
		x = i
	}
	l.RuboutAll()
	if x != 0 {
		t.Errorf("x after RuboutAll = %d, want 0", x)
	}
	if l.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", l.Pending())
	}
}

func TestDisabledIsNoOp(t *testing.T) {
	l := New()
	l.SetEnabled(false)
	x := 0
	l.Savepoint()
	if err := PushScalar(l, "x", &x); err != nil {
		t.Fatalf("PushScalar: %v", err)
	}
	x = 5
	if l.Rubout() {
		t.Error("Rubout() on disabled log = true, want false")
	}
	if x != 5 {
		t.Errorf("x = %d, want unchanged 5 (undo disabled)", x)
	}
}

func TestMemLimitExceeded(t *testing.T) {
	l := New()
	l.SetLimit(4)
	err := l.Push("big", 8, func() {})
	if err == nil {
		t.Fatal("Push over limit: got nil error, want MEMLIMIT")
	}
	if !errs.Is(err, errs.MEMLIMIT) {
		t.Errorf("Push over limit error = %v, want MEMLIMIT", err)
	}
}

func TestSizeTracksPushAndRubout(t *testing.T) {
	l := New()
	l.Savepoint()
	x := "hello"
	if err := PushScalar(l, "x", &x); err != nil {
		t.Fatalf("PushScalar: %v", err)
	}
	if l.Size() != 5 {
		t.Errorf("Size() = %d, want 5", l.Size())
	}
	l.Rubout()
	if l.Size() != 0 {
		t.Errorf("Size() after rubout = %d, want 0", l.Size())
	}
}
