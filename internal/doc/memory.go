/*
 * teco - In-memory reference Document.
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

package doc

import "errors"

// Memory is a minimal rune-slice Document. It is not a faithful
// Scintilla: no piece table, no styling, no line-cache -- it exists so
// the engine's own tests and the cmd/teco shell have something to edit.
type Memory struct {
	runes   []rune
	anchor  int
	pos     int
	eolMode int
	codePage int
	wordChars string
	undoDepth int
	inAction  bool
}

// NewMemory returns an empty in-memory document with UTF-8 codepage and
// LF line endings by default.
func NewMemory() *Memory {
	return &Memory{
		eolMode:   EOLLF,
		codePage:  65001,
		wordChars: "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_",
	}
}

func (m *Memory) GetLength() int { return len(m.runes) }

func (m *Memory) GetCharAt(pos int) (rune, error) {
	if pos < 0 || pos >= len(m.runes) {
		return RuneOffPage, nil
	}
	return m.runes[pos], nil
}

func (m *Memory) GetTextRange(from, to int) (string, error) {
	if from > to {
		from, to = to, from
	}
	if from < 0 || to > len(m.runes) {
		return "", errors.New("range out of bounds")
	}
	return string(m.runes[from:to]), nil
}

func (m *Memory) SetText(text string) {
	m.runes = []rune(text)
	m.pos, m.anchor = 0, 0
}

func (m *Memory) AddText(pos int, text string) {
	ins := []rune(text)
	if pos < 0 {
		pos = 0
	}
	if pos > len(m.runes) {
		pos = len(m.runes)
	}
	out := make([]rune, 0, len(m.runes)+len(ins))
	out = append(out, m.runes[:pos]...)
	out = append(out, ins...)
	out = append(out, m.runes[pos:]...)
	m.runes = out
	if m.pos >= pos {
		m.pos += len(ins)
	}
}

func (m *Memory) AppendText(text string) {
	m.runes = append(m.runes, []rune(text)...)
}

func (m *Memory) DeleteRange(from, to int) error {
	if from > to {
		from, to = to, from
	}
	if from < 0 || to > len(m.runes) {
		return errors.New("range out of bounds")
	}
	m.runes = append(m.runes[:from:from], m.runes[to:]...)
	if m.pos > to {
		m.pos -= to - from
	} else if m.pos > from {
		m.pos = from
	}
	return nil
}

func (m *Memory) ReplaceSel(from, to int, text string) error {
	if err := m.DeleteRange(from, to); err != nil {
		return err
	}
	m.AddText(from, text)
	m.pos = from + len([]rune(text))
	return nil
}

func (m *Memory) ClearAll() {
	m.runes = nil
	m.pos, m.anchor = 0, 0
}

func (m *Memory) GetCurrentPos() int { return m.pos }
func (m *Memory) GotoPos(pos int) {
	m.pos = pos
	m.anchor = pos
}
func (m *Memory) SetSel(anchor, pos int) { m.anchor, m.pos = anchor, pos }
func (m *Memory) GetSel() (int, int)     { return m.anchor, m.pos }

func (m *Memory) PositionRelative(pos, n int) (int, bool) {
	target := pos + n
	if target < 0 || target > len(m.runes) {
		return pos, false
	}
	return target, true
}

func (m *Memory) PositionFromLine(line int) int {
	if line <= 0 {
		return 0
	}
	count := 0
	for i, r := range m.runes {
		if r == '\n' {
			count++
			if count == line {
				return i + 1
			}
		}
	}
	return len(m.runes)
}

func (m *Memory) LineFromPosition(pos int) int {
	line := 0
	for i, r := range m.runes {
		if i >= pos {
			break
		}
		if r == '\n' {
			line++
		}
	}
	return line
}

func (m *Memory) IndexPositionFromLine(line int) int { return m.PositionFromLine(line) }
func (m *Memory) LineFromIndexPosition(idx int) int  { return m.LineFromPosition(idx) }

func (m *Memory) CountCharacters(from, to int) int {
	if from > to {
		from, to = to, from
	}
	return to - from
}

func (m *Memory) GetEOLMode() int     { return m.eolMode }
func (m *Memory) SetEOLMode(mode int) { m.eolMode = mode }
func (m *Memory) GetCodePage() int    { return m.codePage }
func (m *Memory) SetCodePage(cp int)  { m.codePage = cp }

func (m *Memory) BeginUndoAction() { m.inAction = true }
func (m *Memory) EndUndoAction()   { m.inAction = false }
func (m *Memory) Undo()            {}

func (m *Memory) WordCharacters() string { return m.wordChars }

// SetWordCharacters overrides the word-character set used by W/P/V/Y.
func (m *Memory) SetWordCharacters(chars string) { m.wordChars = chars }
