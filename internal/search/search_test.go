package search

import "testing"

func TestCompileLiteral(t *testing.T) {
	restr, ok, err := Compile("abc", Lookups{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !ok {
		t.Fatal("expected complete pattern")
	}
	if restr != "abc" {
		t.Errorf("restr = %q, want abc", restr)
	}
}

func TestCompileDigitClass(t *testing.T) {
	restr, ok, err := Compile("\x05D", Lookups{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !ok {
		t.Fatal("expected complete pattern")
	}
	if restr != "[0-9]" {
		t.Errorf("restr = %q, want [0-9]", restr)
	}
}

func TestCompileIncomplete(t *testing.T) {
	_, ok, err := Compile("\x05", Lookups{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if ok {
		t.Fatal("expected incomplete pattern to report not-ok")
	}
}

func TestCompileAlternation(t *testing.T) {
	restr, ok, err := Compile("\x05[foo,bar]", Lookups{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !ok {
		t.Fatal("expected complete pattern")
	}
	if restr != "(foo|bar)" {
		t.Errorf("restr = %q, want (foo|bar)", restr)
	}
}

func TestMatcherFindForward(t *testing.T) {
	restr, ok, err := Compile("wor", Lookups{})
	if err != nil || !ok {
		t.Fatalf("Compile: ok=%v err=%v", ok, err)
	}
	m, err := NewMatcher(restr)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	match, found, err := m.FindForward("hello world", 0)
	if err != nil {
		t.Fatalf("FindForward: %v", err)
	}
	if !found {
		t.Fatal("expected a match")
	}
	if match.From != 6 || match.To != 9 {
		t.Errorf("match = %+v, want From=6 To=9", match)
	}
}
