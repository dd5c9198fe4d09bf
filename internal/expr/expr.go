/*
 * teco - Expression stack evaluator.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package expr implements the combined operand/operator expression stack:
// arithmetic braces, the pervasive "n?:sign" pop-with-default convention,
// and the comma argument-separator used by from,to range commands.
package expr

import "github.com/tecoengine/teco/internal/undo"

// OpKind names a pending binary operator or stack sentinel.
type OpKind int

const (
	OpAdd OpKind = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpAnd
	OpOr
	OpXor
	OpBrace // '(' sentinel
	OpNew   // ',' argument separator
)

var precedence = map[OpKind]int{
	OpPow: 4,
	OpMul: 3, OpDiv: 3, OpMod: 3,
	OpAdd: 2, OpSub: 2,
	OpAnd: 1, OpOr: 1, OpXor: 1,
}

// item is one stack slot: either a number, a pending operator, or the
// brace-open sentinel.
type item struct {
	isNum bool
	num   int
	op    OpKind
}

// Stack is the expression evaluator's operand/operator stack plus the
// num_sign prefix variable shared with unary '-'.
type Stack struct {
	items    []item
	numSign  int // +1 or -1, consumed by PushNumber, BraceOpen and PopNumCalc's default
	braceLvl int
	log      *undo.Log
}

// New returns an empty evaluator bound to the given undo log (nil is
// permitted for non-interactive use where rubout of stack state is not
// needed).
func New(log *undo.Log) *Stack {
	return &Stack{numSign: 1, log: log}
}

func (s *Stack) pushUndo() {
	if s.log == nil {
		return
	}
	snapshot := append([]item(nil), s.items...)
	braceLvl := s.braceLvl
	_ = s.log.Push("expr.push", 24, func() {
		s.items = snapshot
		s.braceLvl = braceLvl
	})
}

// Empty reports whether the stack holds no values or operators at all.
func (s *Stack) Empty() bool { return len(s.items) == 0 }

// BraceLevel returns the current arithmetic-brace nesting depth.
func (s *Stack) BraceLevel() int { return s.braceLvl }

// PushNumber pushes a literal integer operand. It never merges with a
// directly preceding number: callers accumulate digits themselves and
// call PushNumber once per complete literal. A pending sign from a leading
// unary '-' (see PushOp) is applied to n and consumed here, so "-5"
// pushes -5 rather than leaving the sign stranded for PopNumCalc's
// no-argument default to pick up later.
func (s *Stack) PushNumber(n int) {
	n *= s.numSign
	s.numSign = 1
	s.pushUndo()
	s.items = append(s.items, item{isNum: true, num: n})
}

// PushOp pushes a pending binary operator or a ',' argument separator.
// A leading '-' with nothing before it flips NumSign instead of pushing
// a unary operator node, matching classic TECO's "-" sign-prefix rule.
func (s *Stack) PushOp(k OpKind) {
	if k == OpSub && s.atOperatorPosition() {
		s.numSign = -s.numSign
		return
	}
	// Fold pending operators of equal or higher precedence first, so the
	// operators left on the stack rise in precedence toward the top.
	if p, ok := precedence[k]; ok {
		for len(s.items) >= 3 && !s.items[len(s.items)-2].isNum &&
			precedence[s.items[len(s.items)-2].op] >= p {
			if done, _ := s.reduceOnce(); !done {
				break
			}
		}
	}
	s.pushUndo()
	s.items = append(s.items, item{op: k})
}

// atOperatorPosition reports whether the stack is currently expecting an
// operand (i.e. empty, or topped by an operator/brace/separator) — the
// position where a '-' is a sign prefix rather than subtraction.
func (s *Stack) atOperatorPosition() bool {
	if len(s.items) == 0 {
		return true
	}
	top := s.items[len(s.items)-1]
	return !top.isNum
}

// BraceOpen pushes the '(' sentinel and bumps the brace-nesting depth.
// A pending negative sign (from a leading unary '-' with nothing yet
// pushed to carry it) is folded in as "-1 *" ahead of the group, so
// "-(3+4)" evaluates to -7 rather than losing the sign.
func (s *Stack) BraceOpen() {
	if s.numSign < 0 {
		s.numSign = 1
		s.PushNumber(-1)
		s.pushUndo()
		s.items = append(s.items, item{op: OpMul})
	}
	s.pushUndo()
	s.items = append(s.items, item{op: OpBrace})
	s.braceLvl++
}

// BraceClose reduces the stack down to (and consumes) the matching '('.
func (s *Stack) BraceClose() error {
	if err := s.reduce(); err != nil {
		return err
	}
	if len(s.items) < 2 {
		return errSyntax("unmatched )")
	}
	// items: [... OpBrace, Number]
	val := s.items[len(s.items)-1]
	brace := s.items[len(s.items)-2]
	if !val.isNum || brace.op != OpBrace {
		return errSyntax("unmatched )")
	}
	s.pushUndo()
	s.items = s.items[:len(s.items)-2]
	s.items = append(s.items, val)
	s.braceLvl--
	return nil
}

// DiscardToBrace drops every value and operator above the nearest
// open '(' (and the brace sentinel itself), decrementing the brace
// depth -- the non-erroring counterpart to BraceClose, used to wipe
// out whatever a "<...>" loop's implicit argument barrier caught
// rather than trying to reduce it to one surviving value.
func (s *Stack) DiscardToBrace() {
	s.pushUndo()
	i := len(s.items) - 1
	for ; i >= 0; i-- {
		if s.items[i].op == OpBrace && !s.items[i].isNum {
			s.items = s.items[:i]
			s.braceLvl--
			return
		}
	}
	s.items = s.items[:0]
}

// Args returns the number of operand values above the nearest ',' or
// stack bottom — i.e. how many "arguments" a command accepting from,to
// form would see if evaluated now.
func (s *Stack) Args() int {
	n := 0
	for i := len(s.items) - 1; i >= 0; i-- {
		it := s.items[i]
		if it.op == OpNew && !it.isNum {
			break
		}
		if it.isNum {
			n++
		}
	}
	return n
}

// reduce folds operator/operand pairs according to precedence until no
// further reduction is possible (stopping at a brace-open sentinel, the
// base of the stack, or a ',' separator).
func (s *Stack) reduce() error {
	for {
		progressed, err := s.reduceOnce()
		if err != nil {
			return err
		}
		if !progressed {
			return nil
		}
	}
}

// reduceOnce folds the (num, op, num) triple at the top of the stack, if
// one exists. Because PushOp folds equal-or-higher-precedence operators
// before pushing a new one, the top triple always holds the
// highest-precedence pending operator.
func (s *Stack) reduceOnce() (bool, error) {
	if len(s.items) < 3 {
		return false, nil
	}
	right := s.items[len(s.items)-1]
	op := s.items[len(s.items)-2]
	left := s.items[len(s.items)-3]
	if !right.isNum || op.isNum || !left.isNum {
		return false, nil
	}
	if op.op == OpBrace || op.op == OpNew {
		return false, nil
	}
	val, err := apply(op.op, left.num, right.num)
	if err != nil {
		return false, err
	}
	s.pushUndo()
	s.items = s.items[:len(s.items)-3]
	s.items = append(s.items, item{isNum: true, num: val})
	return true, nil
}

func apply(op OpKind, a, b int) (int, error) {
	switch op {
	case OpAdd:
		return a + b, nil
	case OpSub:
		return a - b, nil
	case OpMul:
		return a * b, nil
	case OpDiv:
		if b == 0 {
			return 0, errSyntax("division by zero")
		}
		return a / b, nil
	case OpMod:
		if b == 0 {
			return 0, errSyntax("division by zero")
		}
		return a % b, nil
	case OpAnd:
		return a & b, nil
	case OpOr:
		return a | b, nil
	case OpXor:
		return a ^ b, nil
	default:
		return 0, errSyntax("unsupported operator")
	}
}

// Eval reduces the stack fully and returns the single resulting value.
// If the stack has no values at all, Eval returns (0, false, nil)
// rather than an error so that callers like PopNum can fall through to
// their own default.
func (s *Stack) Eval() (int, bool, error) {
	if err := s.reduce(); err != nil {
		return 0, false, err
	}
	if len(s.items) == 0 {
		return 0, false, nil
	}
	top := s.items[len(s.items)-1]
	if !top.isNum {
		return 0, false, errSyntax("expression did not reduce to a value")
	}
	return top.num, true, nil
}

// PopNum pops and returns the fully reduced top value, or def if the
// stack (above any ',' barrier) is empty.
func (s *Stack) PopNum(def int) (int, error) {
	if s.Args() == 0 {
		return def, nil
	}
	val, ok, err := s.Eval()
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	s.pushUndo()
	s.items = s.items[:len(s.items)-1]
	return val, nil
}

// PopNumCalc implements the pervasive "n?:sign" pop-with-default
// convention: if there are pending values, pop and return the reduced
// top; otherwise return sign*def and reset NumSign to 1.
func (s *Stack) PopNumCalc(def int) (int, error) {
	if s.Args() > 0 {
		return s.PopNum(def)
	}
	val := s.numSign * def
	s.numSign = 1
	return val, nil
}

// NumSign returns the pending sign-prefix variable set by a leading
// unary '-'.
func (s *Stack) NumSign() int { return s.numSign }

// DiscardArgs drops every value and operator above the nearest ','
// separator (the separator itself stays), or the whole stack if there
// is none — used by
// ESC-escape ("discard args") and by error recovery.
func (s *Stack) DiscardArgs() {
	s.pushUndo()
	i := len(s.items) - 1
	for ; i >= 0; i-- {
		if s.items[i].op == OpNew && !s.items[i].isNum {
			break
		}
	}
	s.items = s.items[:i+1]
	s.numSign = 1
}

func errSyntax(msg string) error {
	return syntaxErr(msg)
}

// syntaxErr is a small adapter so this package need not import errs for
// its common-case internal errors while still being wrappable by the
// caller; engine-level callers convert via expr.IsSyntax.
type syntaxErr string

func (e syntaxErr) Error() string { return string(e) }

// IsSyntax reports whether err originated from this package's own
// grammar checks (as opposed to a lower-level failure).
func IsSyntax(err error) bool {
	_, ok := err.(syntaxErr)
	return ok
}
