package strbuild

import "testing"

func feedString(t *testing.T, m *Machine, s string) {
	t.Helper()
	for _, r := range s {
		if err := m.Feed(r); err != nil {
			t.Fatalf("Feed(%q): %v", r, err)
		}
	}
}

func TestPlainPassthrough(t *testing.T) {
	got, err := Build(Lookups{}, "hello world")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got != "hello world" {
		t.Errorf("Build = %q, want hello world", got)
	}
}

func TestCaretModeControlChar(t *testing.T) {
	// ^M means a literal carriage return (0x0D).
	got, err := Build(Lookups{}, "a^Mb")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := "a\rb"
	if got != want {
		t.Errorf("Build = %q, want %q", got, want)
	}
}

func TestVerbatimEscape(t *testing.T) {
	m := New(Lookups{})
	feedString(t, m, "a")
	if err := m.Feed(0x11); err != nil { // ^Q
		t.Fatalf("Feed ^Q: %v", err)
	}
	if err := m.Feed('^'); err != nil {
		t.Fatalf("Feed '^': %v", err)
	}
	if got := m.Result(); got != "a^" {
		t.Errorf("Result = %q, want a^ (caret emitted verbatim, not entering caret mode)", got)
	}
}

func TestOneShotUpperLower(t *testing.T) {
	m := New(Lookups{})
	if err := m.Feed(0x17); err != nil { // ^W upper next
		t.Fatalf("Feed ^W: %v", err)
	}
	feedString(t, m, "abc")
	if got := m.Result(); got != "Abc" {
		t.Errorf("Result = %q, want Abc (only first letter uppercased)", got)
	}
}

func TestCtlEQInterpolatesRegisterString(t *testing.T) {
	lk := Lookups{
		RegisterString: func(name string) (string, error) {
			if name == "a" {
				return "VALUE", nil
			}
			return "", nil
		},
	}
	m := New(lk)
	if err := m.Feed(0x05); err != nil { // ^E
		t.Fatalf("Feed ^E: %v", err)
	}
	if err := m.Feed('Q'); err != nil {
		t.Fatalf("Feed Q: %v", err)
	}
	if err := m.Feed('a'); err != nil {
		t.Fatalf("Feed a: %v", err)
	}
	if got := m.Result(); got != "VALUE" {
		t.Errorf("Result = %q, want VALUE", got)
	}
}

func TestCtlEUInterpolatesRegisterInteger(t *testing.T) {
	lk := Lookups{
		RegisterInteger: func(name string) (int, error) { return 'X', nil },
	}
	m := New(lk)
	_ = m.Feed(0x05)
	_ = m.Feed('U')
	if err := m.Feed('a'); err != nil {
		t.Fatalf("Feed a: %v", err)
	}
	if got := m.Result(); got != "X" {
		t.Errorf("Result = %q, want X", got)
	}
}

func TestCtlEBackslashFormatsRadix(t *testing.T) {
	lk := Lookups{
		RegisterInteger: func(name string) (int, error) { return 255, nil },
		Radix:           func() int { return 16 },
	}
	m := New(lk)
	_ = m.Feed(0x05)
	_ = m.Feed('\\')
	if err := m.Feed('a'); err != nil {
		t.Fatalf("Feed a: %v", err)
	}
	if got := m.Result(); got != "ff" {
		t.Errorf("Result = %q, want ff", got)
	}
}

func TestShellEscape(t *testing.T) {
	cases := map[string]string{
		"":        "''",
		"abc":     "'abc'",
		"a'b":     `'a'\''b'`,
		"a b  c":  "'a b  c'",
	}
	for in, want := range cases {
		if got := ShellEscape(in); got != want {
			t.Errorf("ShellEscape(%q) = %q, want %q", in, got, want)
		}
	}
}
