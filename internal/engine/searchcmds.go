/*
 * teco - Search and search/replace commands.
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

package engine

import (
	"github.com/tecoengine/teco/internal/doc"
	"github.com/tecoengine/teco/internal/errs"
	"github.com/tecoengine/teco/internal/search"
)

// searchScope resolves a search command's 0/1/2-argument convention
// into the window to search within and a repeat count with direction.
func (e *Engine) searchScope() (from, to, count int, err error) {
	d, derr := e.activeDoc()
	if derr != nil {
		return 0, 0, 0, derr
	}
	if e.Expr.Args() >= 2 {
		to, err = e.Expr.PopNum(0)
		if err != nil {
			return 0, 0, 0, err
		}
		from, err = e.Expr.PopNum(0)
		if err != nil {
			return 0, 0, 0, err
		}
		return from, to, 1, nil
	}
	count, err = e.Expr.PopNumCalc(1)
	if err != nil {
		return 0, 0, 0, err
	}
	return 0, d.GetLength(), count, nil
}

// runSearch compiles pattern and looks for one match within [from,to),
// starting at dot and honoring count's sign for direction. On success,
// dot moves past the match, the selection is set, and ranges[0..] is
// populated. On failure, ranges are cleared and the "_" register's
// integer records the failure.
func (e *Engine) runSearch(d doc.Document, pattern string, from, to, count int) (bool, error) {
	restr, ok, err := search.Compile(pattern, e.searchLookups())
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	m, err := search.NewMatcher(restr)
	if err != nil {
		return false, err
	}
	text, err := d.GetTextRange(from, to)
	if err != nil {
		return false, err
	}

	var match search.Match
	var found bool
	if count >= 0 {
		start := d.GetCurrentPos() - from
		if start < 0 {
			start = 0
		}
		match, found, err = m.FindForward(text, start)
	} else {
		start := d.GetCurrentPos() - from
		match, found, err = m.FindBackward(text, start)
	}
	if err != nil {
		return false, err
	}
	if !found {
		e.ranges = nil
		e.setUnderscore(0)
		return false, nil
	}
	absFrom, absTo := match.From+from, match.To+from
	d.GotoPos(absTo)
	d.SetSel(absFrom, absTo)
	e.ranges = make([][2]int, 1+len(match.Groups))
	e.ranges[0] = [2]int{absFrom, absTo}
	for i, g := range match.Groups {
		e.ranges[i+1] = [2]int{g[0] + from, g[1] + from}
	}
	e.setUnderscore(-1)
	return true, nil
}

// setUnderscore records the last search outcome in the conventional
// "_" Q-Register, as ";" consults by default.
func (e *Engine) setUnderscore(n int) {
	e.lastSearchOK = n != 0
	r := e.insertReg("_", false)
	_ = r.SetInteger(e.Undo, e.bufferHooks(), n)
}

func (e *Engine) cmdSearch() error {
	from, to, count, err := e.searchScope()
	if err != nil {
		return err
	}
	pattern, err := e.readUntilEsc(nil)
	if err != nil {
		return err
	}
	d, err := e.activeDoc()
	if err != nil {
		return err
	}
	found, err := e.runSearch(d, pattern, from, to, count)
	if err != nil {
		return err
	}
	if e.ps.colonCount > 0 {
		e.pushBool(found)
		return nil
	}
	if !found {
		return errs.New(errs.FAILED, "search failed")
	}
	return nil
}

// cmdSearchAllBuffers implements "N": like S, but on failure in the
// current buffer it advances through the ring, retrying from the start
// of each subsequent buffer.
func (e *Engine) cmdSearchAllBuffers() error {
	from, to, count, err := e.searchScope()
	if err != nil {
		return err
	}
	pattern, err := e.readUntilEsc(nil)
	if err != nil {
		return err
	}
	for {
		d, err := e.activeDoc()
		if err != nil {
			return err
		}
		found, err := e.runSearch(d, pattern, from, to, count)
		if err != nil {
			return err
		}
		if found {
			return nil
		}
		cur := e.Ring.Current()
		if cur == nil {
			break
		}
		all := e.Ring.All()
		idx := -1
		for i, b := range all {
			if b == cur {
				idx = i
				break
			}
		}
		if idx < 0 || idx+1 >= len(all) {
			break
		}
		next := all[idx+1]
		if err := e.Ring.SetCurrent(next.ID); err != nil {
			return err
		}
		next.Doc.GotoPos(0)
		to = next.Doc.GetLength()
		from = 0
	}
	if e.ps.colonCount > 0 {
		e.pushBool(false)
		return nil
	}
	return errs.New(errs.FAILED, "search failed in every buffer")
}

// cmdFCommand is defined in flow.go for the F> F< F' F| family; this
// file's "F" entry point dispatches search/replace instead when the
// next character is S, R, K or D.
func (e *Engine) cmdFSearchReplace(sub rune) error {
	from, to, count, err := e.searchScope()
	if err != nil {
		return err
	}
	pattern, err := e.readUntilEsc(nil)
	if err != nil {
		return err
	}
	d, err := e.activeDoc()
	if err != nil {
		return err
	}
	origDot := d.GetCurrentPos()
	found, err := e.runSearch(d, pattern, from, to, count)
	if err != nil {
		return err
	}
	if !found {
		if e.ps.colonCount > 0 {
			e.pushBool(false)
			return nil
		}
		return errs.New(errs.FAILED, "search failed")
	}
	matchFrom, matchTo := e.ranges[0][0], e.ranges[0][1]

	switch sub {
	case 'K':
		// Deletes everything between the old dot and the found text,
		// leaving the found text itself intact.
		delFrom, delTo := origDot, matchFrom
		if matchTo < origDot {
			delFrom, delTo = matchTo, origDot
		}
		if err := d.DeleteRange(delFrom, delTo); err != nil {
			return errs.New(errs.RANGE, "%s", err)
		}
	case 'D':
		if err := d.DeleteRange(matchFrom, matchTo); err != nil {
			return errs.New(errs.RANGE, "%s", err)
		}
	case 'S', 'R':
		var repl string
		if sub == 'R' {
			r := e.findReg("-")
			if r != nil {
				repl, err = r.GetString(e.bufferHooks())
				if err != nil {
					return err
				}
			}
		} else {
			repl, err = e.readUntilEsc(nil)
			if err != nil {
				return err
			}
		}
		if err := d.ReplaceSel(matchFrom, matchTo, repl); err != nil {
			return err
		}
	}
	if e.ps.colonCount > 0 {
		e.pushBool(true)
	}
	return nil
}
