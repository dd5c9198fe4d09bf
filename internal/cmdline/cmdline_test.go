package cmdline

import (
	"testing"

	"github.com/tecoengine/teco/internal/undo"
)

func TestFeedAndRubout(t *testing.T) {
	log := undo.New()
	c := New(log)

	var stepped string
	step := func(text string, pos int) error {
		stepped = text
		return nil
	}

	if err := c.Feed('a', nil, step); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if err := c.Feed('b', nil, step); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if c.Text() != "ab" {
		t.Fatalf("Text() = %q, want ab", c.Text())
	}
	if stepped != "ab" {
		t.Fatalf("stepped = %q, want ab", stepped)
	}

	if !c.Rubout() {
		t.Fatal("expected rubout to succeed")
	}
	if c.Text() != "a" {
		t.Fatalf("Text() after rubout = %q, want a", c.Text())
	}
}

func TestEditCallbackConsumesKeystroke(t *testing.T) {
	log := undo.New()
	c := New(log)

	stepCalled := false
	step := func(text string, pos int) error {
		stepCalled = true
		return nil
	}
	edit := func(r rune) (bool, error) { return true, nil }

	if err := c.Feed('x', edit, step); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if stepCalled {
		t.Error("step should not be called when edit handles the keystroke")
	}
	if c.Text() != "x" {
		t.Errorf("Text() = %q, want x", c.Text())
	}
}

func TestDiverge(t *testing.T) {
	if n := Diverge("abcdef", "abcxyz"); n != 3 {
		t.Errorf("Diverge = %d, want 3", n)
	}
	if n := Diverge("abc", "abc"); n != 3 {
		t.Errorf("Diverge = %d, want 3", n)
	}
}
