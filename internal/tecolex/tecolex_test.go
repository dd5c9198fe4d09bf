package tecolex

import "testing"

func TestTokenizeReturnsWholeInputAsOneSpan(t *testing.T) {
	got := Tokenize("hello world")
	if len(got) != 1 {
		t.Fatalf("Tokenize() returned %d spans, want 1", len(got))
	}
	if got[0].Start != 0 || got[0].End != len("hello world") || got[0].Class != "default" {
		t.Errorf("span = %+v, want {0 %d default}", got[0], len("hello world"))
	}
}
