package qspec

import (
	"testing"

	"github.com/tecoengine/teco/internal/strbuild"
)

func feedAll(t *testing.T, m *Machine, s string) bool {
	t.Helper()
	done := false
	for _, r := range s {
		var err error
		done, err = m.Feed(r)
		if err != nil {
			t.Fatalf("Feed(%q): %v", r, err)
		}
		if done {
			break
		}
	}
	return done
}

func TestSingleLetter(t *testing.T) {
	m := New(strbuildLookups())
	if !feedAll(t, m, "a") {
		t.Fatal("expected done after single letter")
	}
	if m.Name() != "A" {
		t.Errorf("Name() = %q, want A", m.Name())
	}
	if m.Local() {
		t.Errorf("Local() = true, want false")
	}
}

func TestLocal(t *testing.T) {
	m := New(strbuildLookups())
	if !feedAll(t, m, ".x") {
		t.Fatal("expected done")
	}
	if !m.Local() {
		t.Error("Local() = false, want true")
	}
	if m.Name() != "X" {
		t.Errorf("Name() = %q, want X", m.Name())
	}
}

func TestHashTwoChar(t *testing.T) {
	m := New(strbuildLookups())
	if !feedAll(t, m, "#AB") {
		t.Fatal("expected done")
	}
	if m.Name() != "AB" {
		t.Errorf("Name() = %q, want AB", m.Name())
	}
}

func TestBracketLong(t *testing.T) {
	m := New(strbuildLookups())
	if !feedAll(t, m, "[myreg]") {
		t.Fatal("expected done")
	}
	if m.Name() != "myreg" {
		t.Errorf("Name() = %q, want myreg", m.Name())
	}
}

func TestBracketNested(t *testing.T) {
	m := New(strbuildLookups())
	if !feedAll(t, m, "[a[b]c]") {
		t.Fatal("expected done")
	}
	if m.Name() != "a[b]c" {
		t.Errorf("Name() = %q, want a[b]c", m.Name())
	}
}

func strbuildLookups() strbuild.Lookups {
	return strbuild.Lookups{}
}
