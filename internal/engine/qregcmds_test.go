package engine

import (
	"context"
	"testing"

	"github.com/tecoengine/teco/internal/errs"
)

func TestPushPopRegRestoresContent(t *testing.T) {
	e := New(nil)
	// Seed register a with "first", push it, overwrite it, then pop
	// to restore the original text and integer.
	prog := "Ifirst\x1bHXa" +
		"7Ua[a" +
		"Isecond\x1bHXa" +
		"]aGa"
	if err := e.Run(context.Background(), prog); err != nil {
		t.Fatalf("Run: %v", err)
	}
	r := e.findReg("a")
	if r == nil {
		t.Fatalf("register a not found")
	}
	if got := r.GetInteger(e.bufferHooks()); got != 7 {
		t.Errorf("register a integer after pop = %d, want 7", got)
	}
	s, err := r.GetString(e.bufferHooks())
	if err != nil {
		t.Fatalf("GetString: %v", err)
	}
	if s != "first" {
		t.Errorf("register a string after pop = %q, want first", s)
	}
}

func TestPopEmptyPushDownStackFails(t *testing.T) {
	e := New(nil)
	err := e.Run(context.Background(), "]a")
	if err == nil {
		t.Fatalf("Run(]a) with nothing pushed: want error, got nil")
	}
}

func TestInsertFromRegMissingIsInvalidQReg(t *testing.T) {
	e := New(nil)
	err := e.Run(context.Background(), "Gz")
	if !errs.Is(err, errs.INVALIDQREG) {
		t.Errorf("Run(Gz) error = %v, want INVALIDQREG", err)
	}
}
