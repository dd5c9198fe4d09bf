package spawn

import "testing"

func TestTokenize(t *testing.T) {
	got := tokenize(`echo "hello world" 'foo bar'`)
	want := []string{"echo", "hello world", "foo bar"}
	if len(got) != len(want) {
		t.Fatalf("tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tokenize[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestArgvShellEmu(t *testing.T) {
	got, err := argv("echo hi", Env{ShellEmu: true})
	if err != nil {
		t.Fatalf("argv: %v", err)
	}
	want := []string{"echo", "hi"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("argv = %v, want %v", got, want)
	}
}

func TestExitBoolean(t *testing.T) {
	cases := []struct {
		r    Result
		want int
	}{
		{Result{ExitCode: 0}, 1},
		{Result{ExitCode: 3}, 3},
		{Result{Signaled: true}, 0},
	}
	for _, c := range cases {
		if got := ExitBoolean(c.r); got != c.want {
			t.Errorf("ExitBoolean(%+v) = %d, want %d", c.r, got, c.want)
		}
	}
}
