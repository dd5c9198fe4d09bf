/*
 * teco - Scintilla message dispatch.
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

// Package sci implements the "ES" Scintilla message dispatch: a
// statically sorted symbol table mapping message names (the SCI_
// prefix is optional, lookup is case-insensitive) to the numeric
// message id the engine sends to a doc.Document through its Dispatch
// method.
package sci

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tecoengine/teco/internal/doc"
	"github.com/tecoengine/teco/internal/errs"
)

// Message ids, in the conventional Scintilla ordering. Any real build
// would share these with the official header; they are renumbered here
// since this package does not link against the real library.
const (
	MsgSetText = iota + 1
	MsgAddText
	MsgAppendText
	MsgDeleteRange
	MsgReplaceSel
	MsgClearAll
	MsgGotoPos
	MsgGetCurrentPos
	MsgSetSel
	MsgGetSel
	MsgGetLength
	MsgGetCharAt
	MsgGetTextRangeFull
	MsgGetRangePointer
	MsgGetGapPosition
	MsgPositionRelative
	MsgPositionFromLine
	MsgLineFromPosition
	MsgIndexPositionFromLine
	MsgLineFromIndexPosition
	MsgCountCharacters
	MsgGetEOLMode
	MsgSetEOLMode
	MsgBeginUndoAction
	MsgEndUndoAction
	MsgUndo
	MsgGetCodePage
	MsgSetCodePage
	MsgAllocateLineCharacterIndex
	MsgReleaseLineCharacterIndex
	MsgSetRepresentation
)

type symbol struct {
	name string
	id   int
}

// table is kept sorted by name so Lookup can binary search it.
var table = func() []symbol {
	s := []symbol{
		{"SETTEXT", MsgSetText},
		{"ADDTEXT", MsgAddText},
		{"APPENDTEXT", MsgAppendText},
		{"DELETERANGE", MsgDeleteRange},
		{"REPLACESEL", MsgReplaceSel},
		{"CLEARALL", MsgClearAll},
		{"GOTOPOS", MsgGotoPos},
		{"GETCURRENTPOS", MsgGetCurrentPos},
		{"SETSEL", MsgSetSel},
		{"GETSEL", MsgGetSel},
		{"GETLENGTH", MsgGetLength},
		{"GETCHARAT", MsgGetCharAt},
		{"GETTEXTRANGEFULL", MsgGetTextRangeFull},
		{"GETRANGEPOINTER", MsgGetRangePointer},
		{"GETGAPPOSITION", MsgGetGapPosition},
		{"POSITIONRELATIVE", MsgPositionRelative},
		{"POSITIONFROMLINE", MsgPositionFromLine},
		{"LINEFROMPOSITION", MsgLineFromPosition},
		{"INDEXPOSITIONFROMLINE", MsgIndexPositionFromLine},
		{"LINEFROMINDEXPOSITION", MsgLineFromIndexPosition},
		{"COUNTCHARACTERS", MsgCountCharacters},
		{"GETEOLMODE", MsgGetEOLMode},
		{"SETEOLMODE", MsgSetEOLMode},
		{"BEGINUNDOACTION", MsgBeginUndoAction},
		{"ENDUNDOACTION", MsgEndUndoAction},
		{"UNDO", MsgUndo},
		{"GETCODEPAGE", MsgGetCodePage},
		{"SETCODEPAGE", MsgSetCodePage},
		{"ALLOCATELINECHARACTERINDEX", MsgAllocateLineCharacterIndex},
		{"RELEASELINECHARACTERINDEX", MsgReleaseLineCharacterIndex},
		{"SETREPRESENTATION", MsgSetRepresentation},
	}
	sort.Slice(s, func(i, j int) bool { return s[i].name < s[j].name })
	return s
}()

// Lookup resolves a message name to its numeric id. The "SCI_" prefix is
// optional and matching is case-insensitive.
func Lookup(name string) (int, bool) {
	key := strings.ToUpper(strings.TrimPrefix(strings.ToUpper(name), "SCI_"))
	i := sort.Search(len(table), func(i int) bool { return table[i].name >= key })
	if i < len(table) && table[i].name == key {
		return table[i].id, true
	}
	return 0, false
}

// ResolveOperand interprets one ES string argument: a bare integer
// literal, or a symbolic name looked up via Lookup.
func ResolveOperand(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	if id, ok := Lookup(s); ok {
		return id, nil
	}
	return 0, errs.New(errs.SYNTAX, "unknown Scintilla symbol %q", s)
}

// Dispatch sends one message to d and returns its integer result, the
// way "ES@msg,wparam@lparam$" does once both operands have resolved.
func Dispatch(d doc.Document, msg, wparam, lparam int) (int, error) {
	switch msg {
	case MsgSetText:
		return 0, errs.New(errs.QREGOPUNSUPPORTED, "SETTEXT requires a string payload, not dispatched through ES")
	case MsgClearAll:
		d.ClearAll()
		return 0, nil
	case MsgGotoPos:
		d.GotoPos(wparam)
		return 0, nil
	case MsgGetCurrentPos:
		return d.GetCurrentPos(), nil
	case MsgSetSel:
		d.SetSel(wparam, lparam)
		return 0, nil
	case MsgGetSel:
		anchor, _ := d.GetSel()
		return anchor, nil
	case MsgGetLength:
		return d.GetLength(), nil
	case MsgGetCharAt:
		r, err := d.GetCharAt(wparam)
		return int(r), err
	case MsgDeleteRange:
		return 0, d.DeleteRange(wparam, wparam+lparam)
	case MsgPositionFromLine:
		return d.PositionFromLine(wparam), nil
	case MsgLineFromPosition:
		return d.LineFromPosition(wparam), nil
	case MsgIndexPositionFromLine:
		return d.IndexPositionFromLine(wparam), nil
	case MsgLineFromIndexPosition:
		return d.LineFromIndexPosition(wparam), nil
	case MsgCountCharacters:
		return d.CountCharacters(wparam, lparam), nil
	case MsgGetEOLMode:
		return d.GetEOLMode(), nil
	case MsgSetEOLMode:
		d.SetEOLMode(wparam)
		return 0, nil
	case MsgBeginUndoAction:
		d.BeginUndoAction()
		return 0, nil
	case MsgEndUndoAction:
		d.EndUndoAction()
		return 0, nil
	case MsgUndo:
		d.Undo()
		return 0, nil
	case MsgGetCodePage:
		return d.GetCodePage(), nil
	case MsgSetCodePage:
		d.SetCodePage(wparam)
		return 0, nil
	case MsgPositionRelative:
		pos, ok := d.PositionRelative(wparam, lparam)
		if !ok {
			return 0, errs.New(errs.MOVE, "position would move off-page")
		}
		return pos, nil
	case MsgGetRangePointer, MsgGetGapPosition, MsgAllocateLineCharacterIndex,
		MsgReleaseLineCharacterIndex, MsgSetRepresentation:
		// No-ops against the in-memory reference document: there is no
		// piece table or gap buffer to report on.
		return 0, nil
	default:
		return 0, errs.New(errs.QREGOPUNSUPPORTED, "unsupported ES message id %d", msg)
	}
}
