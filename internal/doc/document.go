/*
 * teco - Document ("Scintilla") message port.
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

// Package doc defines the Document interface that stands in for a real
// Scintilla text buffer/view. Scintilla itself is an excluded external
// collaborator; this package only names the messages the engine is
// allowed to send it and ships one in-memory reference
// implementation so the engine can be built and tested without a real
// Scintilla present.
package doc

// EOL mode constants, matching Scintilla's SC_EOL_* values.
const (
	EOLCRLF = 0
	EOLCR   = 1
	EOLLF   = 2
)

// Document is the message port the engine sends every buffer mutation
// and query through. Positions and lengths are in glyphs (runes), never
// bytes, except where a method name says otherwise.
type Document interface {
	GetLength() int
	GetCharAt(pos int) (rune, error) // -1 off-page, -2 invalid byte, -3 incomplete sequence is reported via Sentinel consts below
	GetTextRange(from, to int) (string, error)
	SetText(text string)
	AddText(pos int, text string)
	AppendText(text string)
	DeleteRange(from, to int) error
	ReplaceSel(from, to int, text string) error
	ClearAll()

	GetCurrentPos() int
	GotoPos(pos int)
	SetSel(anchor, pos int)
	GetSel() (anchor, pos int)

	PositionRelative(pos, n int) (int, bool) // false if it would move off-page
	PositionFromLine(line int) int
	LineFromPosition(pos int) int
	IndexPositionFromLine(line int) int
	LineFromIndexPosition(idx int) int
	CountCharacters(from, to int) int

	GetEOLMode() int
	SetEOLMode(mode int)

	GetCodePage() int
	SetCodePage(cp int)

	BeginUndoAction()
	EndUndoAction()
	Undo()

	WordCharacters() string // current word-character set, for W/P/V/Y
}

// Sentinel values returned in place of a rune by GetCharAt.
const (
	RuneOffPage    rune = -1
	RuneInvalid    rune = -2
	RuneIncomplete rune = -3
)
