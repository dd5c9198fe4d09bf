package doc

import "testing"

func TestSetTextAndGetTextRange(t *testing.T) {
	m := NewMemory()
	m.SetText("hello world")
	got, err := m.GetTextRange(0, 5)
	if err != nil {
		t.Fatalf("GetTextRange: %v", err)
	}
	if got != "hello" {
		t.Errorf("GetTextRange(0,5) = %q, want hello", got)
	}
	if m.GetLength() != 11 {
		t.Errorf("GetLength() = %d, want 11", m.GetLength())
	}
}

func TestAddTextShiftsPos(t *testing.T) {
	m := NewMemory()
	m.SetText("abcdef")
	m.GotoPos(3)
	m.AddText(3, "XYZ")
	got, _ := m.GetTextRange(0, m.GetLength())
	if got != "abcXYZdef" {
		t.Errorf("text = %q, want abcXYZdef", got)
	}
	if m.GetCurrentPos() != 6 {
		t.Errorf("pos = %d, want 6 (shifted by inserted length)", m.GetCurrentPos())
	}
}

func TestDeleteRange(t *testing.T) {
	m := NewMemory()
	m.SetText("abcdef")
	if err := m.DeleteRange(1, 3); err != nil {
		t.Fatalf("DeleteRange: %v", err)
	}
	got, _ := m.GetTextRange(0, m.GetLength())
	if got != "adef" {
		t.Errorf("text = %q, want adef", got)
	}
}

func TestDeleteRangeOutOfBounds(t *testing.T) {
	m := NewMemory()
	m.SetText("abc")
	if err := m.DeleteRange(0, 10); err == nil {
		t.Error("DeleteRange out of bounds: got nil error, want error")
	}
}

func TestReplaceSel(t *testing.T) {
	m := NewMemory()
	m.SetText("abcdef")
	if err := m.ReplaceSel(1, 4, "XY"); err != nil {
		t.Fatalf("ReplaceSel: %v", err)
	}
	got, _ := m.GetTextRange(0, m.GetLength())
	if got != "aXYef" {
		t.Errorf("text = %q, want aXYef", got)
	}
	if m.GetCurrentPos() != 3 {
		t.Errorf("pos = %d, want 3", m.GetCurrentPos())
	}
}

func TestGetCharAtOffPage(t *testing.T) {
	m := NewMemory()
	m.SetText("ab")
	r, err := m.GetCharAt(5)
	if err != nil {
		t.Fatalf("GetCharAt: %v", err)
	}
	if r != RuneOffPage {
		t.Errorf("GetCharAt(5) = %q, want RuneOffPage", r)
	}
}

func TestPositionRelative(t *testing.T) {
	m := NewMemory()
	m.SetText("abcdef")
	pos, ok := m.PositionRelative(2, 3)
	if !ok || pos != 5 {
		t.Errorf("PositionRelative(2,3) = (%d,%v), want (5,true)", pos, ok)
	}
	if _, ok := m.PositionRelative(2, 100); ok {
		t.Error("PositionRelative past end: ok = true, want false")
	}
}

func TestLineFromPositionAndBack(t *testing.T) {
	m := NewMemory()
	m.SetText("one\ntwo\nthree")
	if got := m.LineFromPosition(5); got != 1 {
		t.Errorf("LineFromPosition(5) = %d, want 1", got)
	}
	if got := m.PositionFromLine(2); got != 8 {
		t.Errorf("PositionFromLine(2) = %d, want 8", got)
	}
}

func TestSetSelAndGetSel(t *testing.T) {
	m := NewMemory()
	m.SetText("abcdef")
	m.SetSel(1, 4)
	a, p := m.GetSel()
	if a != 1 || p != 4 {
		t.Errorf("GetSel() = (%d,%d), want (1,4)", a, p)
	}
}
