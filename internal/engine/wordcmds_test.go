package engine

import (
	"context"
	"testing"
)

func TestMoveWordForwardLandsAfterWord(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "Ihello world\x1b0JW"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	d, err := e.activeDoc()
	if err != nil {
		t.Fatalf("activeDoc: %v", err)
	}
	if d.GetCurrentPos() != 5 {
		t.Errorf("dot = %d, want 5 (W should stop right after 'hello')", d.GetCurrentPos())
	}
}

func TestMoveWordForwardSkipsGapBeforeNextWord(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "Ihello world\x1b0J2W"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	d, err := e.activeDoc()
	if err != nil {
		t.Fatalf("activeDoc: %v", err)
	}
	if d.GetCurrentPos() != 11 {
		t.Errorf("dot = %d, want 11 (2W should land at the end of 'world')", d.GetCurrentPos())
	}
}

func TestMoveWordBackwardLandsAtWordStart(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "Ihello world\x1bP"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	d, err := e.activeDoc()
	if err != nil {
		t.Fatalf("activeDoc: %v", err)
	}
	if d.GetCurrentPos() != 6 {
		t.Errorf("dot = %d, want 6 (P from the end should land at the start of 'world')", d.GetCurrentPos())
	}
}

func TestDeleteWordForwardRemovesFirstWord(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "Ihello world\x1b0JV"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != " world" {
		t.Errorf("buffer = %q, want \" world\" (V should have deleted 'hello')", got)
	}
}

func TestDeleteWordBackwardRemovesLastWord(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "Ihello world\x1bY"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "hello " {
		t.Errorf("buffer = %q, want \"hello \" (Y should have deleted 'world')", got)
	}
}

func TestMoveWordColonModifiedPushesSuccessBoolean(t *testing.T) {
	e := New(nil)
	var out string
	e.Stdout = func(s string) (int, error) { out += s; return len(s), nil }
	if err := e.Run(context.Background(), "Ihello world\x1b0J:W="); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "-1\n" {
		t.Errorf("printed %q, want -1\\n (':W' always succeeds, clamped at the buffer edges)", out)
	}
}
