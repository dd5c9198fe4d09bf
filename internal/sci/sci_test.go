package sci

import (
	"testing"

	"github.com/tecoengine/teco/internal/doc"
)

func TestLookupCaseAndPrefix(t *testing.T) {
	cases := []string{"GETLENGTH", "getlength", "SCI_GETLENGTH", "sci_GetLength"}
	for _, name := range cases {
		id, ok := Lookup(name)
		if !ok || id != MsgGetLength {
			t.Errorf("Lookup(%q) = %d,%v want %d,true", name, id, ok, MsgGetLength)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, ok := Lookup("NOSUCHMESSAGE"); ok {
		t.Error("expected unknown symbol to fail")
	}
}

func TestResolveOperandLiteral(t *testing.T) {
	n, err := ResolveOperand("42")
	if err != nil || n != 42 {
		t.Errorf("ResolveOperand(42) = %d,%v", n, err)
	}
}

func TestDispatchGotoAndPos(t *testing.T) {
	m := doc.NewMemory()
	m.SetText("hello world")
	if _, err := Dispatch(m, MsgGotoPos, 5, 0); err != nil {
		t.Fatalf("Dispatch GOTOPOS: %v", err)
	}
	pos, err := Dispatch(m, MsgGetCurrentPos, 0, 0)
	if err != nil {
		t.Fatalf("Dispatch GETCURRENTPOS: %v", err)
	}
	if pos != 5 {
		t.Errorf("pos = %d, want 5", pos)
	}
}
