package engine

import (
	"context"
	"testing"

	"github.com/tecoengine/teco/internal/errs"
)

func TestSearchMovesDotPastMatch(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "Ihello world\x1bJSworld\x1b"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	d, err := e.activeDoc()
	if err != nil {
		t.Fatalf("activeDoc: %v", err)
	}
	if d.GetCurrentPos() != 11 {
		t.Errorf("dot after search = %d, want 11 (end of match)", d.GetCurrentPos())
	}
}

func TestSearchNotFoundFails(t *testing.T) {
	e := New(nil)
	err := e.Run(context.Background(), "Ihello world\x1bJSxyz\x1b")
	if !errs.Is(err, errs.FAILED) {
		t.Errorf("Run(failing search) error = %v, want FAILED", err)
	}
}

func TestColonSearchPushesBooleanInsteadOfError(t *testing.T) {
	e := New(nil)
	var out string
	e.Stdout = func(s string) (int, error) { out += s; return len(s), nil }
	if err := e.Run(context.Background(), "Ihello world\x1bJ:Sxyz\x1b="); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "0\n" {
		t.Errorf("printed %q, want 0\\n (colon search should push failure boolean)", out)
	}
}

func TestSearchReplaceSubstitutesMatch(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "Ihello world\x1bJFSworld\x1bthere\x1b"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "hello there" {
		t.Errorf("buffer = %q, want \"hello there\"", got)
	}
}

func TestSearchKillUpToMatch(t *testing.T) {
	e := New(nil)
	// FK deletes from dot up to (but not including) the match.
	if err := e.Run(context.Background(), "Ihello world\x1bJFKworld\x1b"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "world" {
		t.Errorf("buffer = %q, want world", got)
	}
}
