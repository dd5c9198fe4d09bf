package expr

import "testing"

func TestPushNumberPopNum(t *testing.T) {
	s := New(nil)
	s.PushNumber(5)
	v, err := s.PopNum(-1)
	if err != nil {
		t.Fatalf("PopNum: %v", err)
	}
	if v != 5 {
		t.Errorf("PopNum = %d, want 5", v)
	}
}

func TestPopNumDefault(t *testing.T) {
	s := New(nil)
	v, err := s.PopNum(42)
	if err != nil {
		t.Fatalf("PopNum: %v", err)
	}
	if v != 42 {
		t.Errorf("PopNum on empty stack = %d, want 42 (default)", v)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		run  func(s *Stack)
		want int
	}{
		{"add", func(s *Stack) {
			s.PushNumber(2)
			s.PushOp(OpAdd)
			s.PushNumber(3)
		}, 5},
		{"precedence", func(s *Stack) {
			s.PushNumber(2)
			s.PushOp(OpAdd)
			s.PushNumber(3)
			s.PushOp(OpMul)
			s.PushNumber(4)
		}, 14}, // 2+(3*4): '*' binds tighter than '+'
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(nil)
			tt.run(s)
			got, err := s.PopNum(0)
			if err != nil {
				t.Fatalf("PopNum: %v", err)
			}
			if got != tt.want {
				t.Errorf("result = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUnaryMinusIsSignPrefix(t *testing.T) {
	s := New(nil)
	s.PushOp(OpSub)
	if s.NumSign() != -1 {
		t.Fatalf("NumSign = %d, want -1", s.NumSign())
	}
	v, err := s.PopNumCalc(7)
	if err != nil {
		t.Fatalf("PopNumCalc: %v", err)
	}
	if v != -7 {
		t.Errorf("PopNumCalc = %d, want -7", v)
	}
	if s.NumSign() != 1 {
		t.Errorf("NumSign after PopNumCalc = %d, want reset to 1", s.NumSign())
	}
}

func TestPushNumberAppliesPendingSign(t *testing.T) {
	s := New(nil)
	s.PushOp(OpSub)
	s.PushNumber(5)
	got, err := s.PopNum(0)
	if err != nil {
		t.Fatalf("PopNum: %v", err)
	}
	if got != -5 {
		t.Errorf("-5 literal = %d, want -5", got)
	}
	if s.NumSign() != 1 {
		t.Errorf("NumSign after PushNumber = %d, want reset to 1", s.NumSign())
	}
}

func TestDoubleUnaryMinusCancels(t *testing.T) {
	s := New(nil)
	s.PushOp(OpSub)
	s.PushOp(OpSub)
	s.PushNumber(5)
	got, err := s.PopNum(0)
	if err != nil {
		t.Fatalf("PopNum: %v", err)
	}
	if got != 5 {
		t.Errorf("--5 literal = %d, want 5", got)
	}
}

func TestBraceOpenFoldsPendingSign(t *testing.T) {
	s := New(nil)
	s.PushOp(OpSub)
	s.BraceOpen()
	s.PushNumber(3)
	s.PushOp(OpAdd)
	s.PushNumber(4)
	if err := s.BraceClose(); err != nil {
		t.Fatalf("BraceClose: %v", err)
	}
	got, err := s.PopNum(0)
	if err != nil {
		t.Fatalf("PopNum: %v", err)
	}
	if got != -7 {
		t.Errorf("-(3+4) = %d, want -7", got)
	}
}

func TestBraces(t *testing.T) {
	s := New(nil)
	s.PushNumber(1)
	s.PushOp(OpAdd)
	s.BraceOpen()
	s.PushNumber(2)
	s.PushOp(OpAdd)
	s.PushNumber(3)
	if err := s.BraceClose(); err != nil {
		t.Fatalf("BraceClose: %v", err)
	}
	got, err := s.PopNum(0)
	if err != nil {
		t.Fatalf("PopNum: %v", err)
	}
	if got != 6 {
		t.Errorf("result = %d, want 6", got)
	}
}

func TestBraceCloseUnmatched(t *testing.T) {
	s := New(nil)
	s.PushNumber(1)
	if err := s.BraceClose(); err == nil {
		t.Error("BraceClose with no open brace: got nil error, want error")
	}
}

func TestDivisionByZero(t *testing.T) {
	s := New(nil)
	s.PushNumber(1)
	s.PushOp(OpDiv)
	s.PushNumber(0)
	if _, err := s.PopNum(0); err == nil {
		t.Error("division by zero: got nil error, want error")
	}
}

func TestArgsAndComma(t *testing.T) {
	s := New(nil)
	s.PushNumber(1)
	s.PushOp(OpNew)
	s.PushNumber(2)
	if got := s.Args(); got != 1 {
		t.Errorf("Args() = %d, want 1 (stop at comma barrier)", got)
	}
}

func TestDiscardArgs(t *testing.T) {
	s := New(nil)
	s.PushNumber(1)
	s.PushOp(OpAdd)
	s.PushNumber(2)
	s.DiscardArgs()
	if !s.Empty() {
		t.Error("DiscardArgs did not clear the stack")
	}
}

func TestEmpty(t *testing.T) {
	s := New(nil)
	if !s.Empty() {
		t.Error("new stack should be Empty")
	}
	s.PushNumber(1)
	if s.Empty() {
		t.Error("stack with a pushed number should not be Empty")
	}
}
