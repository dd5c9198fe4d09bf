/*
 * teco - Q-Register store.
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

// Package qreg implements the Q-Register store: a pair of ordered tables
// (global, local-to-macro-frame) mapping arbitrary byte-string register
// names to typed slots, each carrying an integer, a sub-document, and a
// backing-store variant (plain memory, clipboard, working directory,
// buffer-ring info, environment variable).
package qreg

import (
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/google/btree"

	"github.com/tecoengine/teco/internal/doc"
	"github.com/tecoengine/teco/internal/errs"
	"github.com/tecoengine/teco/internal/undo"
)

// Kind selects a register's backing-store behavior.
type Kind int

const (
	KindPlain Kind = iota
	KindBufferInfo
	KindWorkingDir
	KindClipboard
	KindEnvironment
)

// Register is one named slot.
type Register struct {
	Name     string
	Integer  int
	Doc      doc.Document
	Kind     Kind
	MustUndo bool
}

// less orders registers by name for the btree index.
func less(a, b *Register) bool { return a.Name < b.Name }

// BufferRingHooks lets the BufferInfo (`*`) register variant reach the
// buffer ring without this package importing it directly (the ring
// imports qreg for the register-stack undo machinery, so the dependency
// must run this way to avoid a cycle).
type BufferRingHooks struct {
	CurrentID       func() int
	CurrentFilename func() string
	SwitchTo        func(id int) error
}

// Table is one Q-Register namespace (global, or local to a macro
// frame). It is backed by a btree.BTreeG ordered by name, giving
// find/insert/remove in O(log n) and an ordered walk for auto-complete,
// giving find/insert/remove in O(log n) plus an ordered walk for auto-complete.
type Table struct {
	tree     *btree.BTreeG[*Register]
	mustUndo bool
	log      *undo.Log
	ring     BufferRingHooks
}

// NewTable returns an empty table. mustUndo is propagated to newly
// inserted registers as their default undo-tracking flag.
func NewTable(log *undo.Log, mustUndo bool) *Table {
	return &Table{
		tree:     btree.NewG(32, less),
		mustUndo: mustUndo,
		log:      log,
	}
}

// SetBufferRingHooks wires the `*` register variant to a live buffer
// ring. Call once at startup.
func (t *Table) SetBufferRingHooks(h BufferRingHooks) { t.ring = h }

// Find returns the register named name, or nil if it does not exist.
func (t *Table) Find(name string) *Register {
	if r, ok := t.tree.Get(&Register{Name: name}); ok {
		return r
	}
	return nil
}

// Insert creates (or returns the existing) register named name. Newly
// created registers default to KindPlain and inherit the table's
// must-undo flag, with an in-memory document for their sub-buffer.
func (t *Table) Insert(name string) *Register {
	if r := t.Find(name); r != nil {
		return r
	}
	r := &Register{Name: name, Doc: doc.NewMemory(), MustUndo: t.mustUndo, Kind: kindFor(name)}
	t.tree.ReplaceOrInsert(r)
	if t.log != nil && r.MustUndo {
		_ = t.log.Push("qreg.insert", len(name)+32, func() {
			t.tree.Delete(r)
		})
	}
	return r
}

// kindFor infers the special backing-store variant from conventional
// register names.
func kindFor(name string) Kind {
	switch {
	case name == "*":
		return KindBufferInfo
	case name == "$":
		return KindWorkingDir
	case name == "~" || name == "~P" || name == "~S" || name == "~C":
		return KindClipboard
	case strings.HasPrefix(name, "$") && len(name) > 1:
		return KindEnvironment
	default:
		return KindPlain
	}
}

// Remove deletes the register named name, if present, pushing an undo
// token that re-inserts it (with its prior contents) on rubout.
func (t *Table) Remove(name string) error {
	r, ok := t.tree.Get(&Register{Name: name})
	if !ok {
		return errs.New(errs.INVALIDQREG, "Q-Register %q does not exist", Canonical(name))
	}
	t.tree.Delete(r)
	if t.log != nil {
		_ = t.log.Push("qreg.remove", len(name)+32, func() {
			t.tree.ReplaceOrInsert(r)
		})
	}
	return nil
}

// AutoComplete returns every register name in the table beginning with
// prefix, in sorted order.
func (t *Table) AutoComplete(prefix string) []string {
	var out []string
	t.tree.AscendGreaterOrEqual(&Register{Name: prefix}, func(r *Register) bool {
		if !strings.HasPrefix(r.Name, prefix) {
			return false
		}
		out = append(out, r.Name)
		return true
	})
	return out
}

// Canonical renders a register name in its printable canonical form:
// control characters shown as ^X.
func Canonical(name string) string {
	var b strings.Builder
	for _, c := range []byte(name) {
		if c < 0x20 {
			b.WriteByte('^')
			b.WriteByte(c + '@')
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// --- per-register operations (the "vtable") ---

// GetInteger returns the register's integer slot, with the BufferInfo
// variant returning the active buffer id.
func (r *Register) GetInteger(hooks BufferRingHooks) int {
	if r.Kind == KindBufferInfo && hooks.CurrentID != nil {
		return hooks.CurrentID()
	}
	return r.Integer
}

// SetInteger sets the register's integer slot, pushing an undo token.
// The BufferInfo variant switches the current buffer instead.
func (r *Register) SetInteger(log *undo.Log, hooks BufferRingHooks, n int) error {
	if r.Kind == KindBufferInfo {
		if hooks.SwitchTo == nil {
			return errs.New(errs.QREGOPUNSUPPORTED, "buffer-info register has no ring attached")
		}
		return hooks.SwitchTo(n)
	}
	old := r.Integer
	r.Integer = n
	if log != nil {
		_ = log.Push("qreg.setinteger", 16, func() { r.Integer = old })
	}
	return nil
}

// GetString returns the register's string content, honoring the
// special variants' backing store.
func (r *Register) GetString(hooks BufferRingHooks) (string, error) {
	switch r.Kind {
	case KindBufferInfo:
		if hooks.CurrentFilename != nil {
			return filepath(hooks.CurrentFilename()), nil
		}
		return "", nil
	case KindWorkingDir:
		wd, err := os.Getwd()
		if err != nil {
			return "", errs.New(errs.MODULE, "%s", err)
		}
		return filepath(wd), nil
	case KindClipboard:
		s, err := clipboard.ReadAll()
		if err != nil {
			return "", errs.New(errs.CLIPBOARD, "%s", err)
		}
		return s, nil
	case KindEnvironment:
		return os.Getenv(envName(r.Name)), nil
	default:
		return textOf(r.Doc), nil
	}
}

// SetString replaces the register's string content, pushing an undo
// token for the Plain variant and performing the side effect (chdir,
// clipboard write, setenv) for the special variants.
func (r *Register) SetString(log *undo.Log, hooks BufferRingHooks, s string) error {
	switch r.Kind {
	case KindBufferInfo:
		return errs.New(errs.QREGOPUNSUPPORTED, "buffer-info register string is read-only")
	case KindWorkingDir:
		if strings.ContainsRune(s, 0) {
			return errs.New(errs.QREGCONTAINSNULL, "working directory contains NUL")
		}
		old, _ := os.Getwd()
		if err := os.Chdir(s); err != nil {
			return errs.New(errs.MODULE, "%s", err)
		}
		if log != nil && old != "" {
			_ = log.Push("qreg.chdir", len(old), func() { _ = os.Chdir(old) })
		}
		return nil
	case KindClipboard:
		if err := clipboard.WriteAll(s); err != nil {
			return errs.New(errs.CLIPBOARD, "%s", err)
		}
		return nil
	case KindEnvironment:
		name := envName(r.Name)
		old, had := os.LookupEnv(name)
		_ = os.Setenv(name, s)
		if log != nil {
			_ = log.Push("qreg.setenv", len(s), func() {
				if had {
					_ = os.Setenv(name, old)
				} else {
					_ = os.Unsetenv(name)
				}
			})
		}
		return nil
	default:
		old := textOf(r.Doc)
		r.Doc.SetText(s)
		if log != nil {
			_ = log.Push("qreg.setstring", len(old)+len(s), func() { r.Doc.SetText(old) })
		}
		return nil
	}
}

// AppendString appends to the register's string content.
func (r *Register) AppendString(log *undo.Log, hooks BufferRingHooks, s string) error {
	if r.Kind != KindPlain {
		cur, err := r.GetString(hooks)
		if err != nil {
			return err
		}
		return r.SetString(log, hooks, cur+s)
	}
	before := r.Doc.GetLength()
	r.Doc.AppendText(s)
	if log != nil {
		_ = log.Push("qreg.append", len(s), func() { _ = r.Doc.DeleteRange(before, r.Doc.GetLength()) })
	}
	return nil
}

// GetSize returns the length, in glyphs, of the register's string.
func (r *Register) GetSize(hooks BufferRingHooks) (int, error) {
	if r.Kind == KindPlain {
		return r.Doc.GetLength(), nil
	}
	s, err := r.GetString(hooks)
	if err != nil {
		return 0, err
	}
	return len([]rune(s)), nil
}

// GetCharacter returns the codepoint at position pos in the register's
// string (Plain variant only -- others are not addressable by position).
func (r *Register) GetCharacter(pos int) (rune, error) {
	if r.Kind != KindPlain {
		return 0, errs.New(errs.QREGOPUNSUPPORTED, "register is not position-addressable")
	}
	return r.Doc.GetCharAt(pos)
}

// ExchangeString swaps this register's string content with other's,
// pushing a single undo token that swaps them back.
func (r *Register) ExchangeString(log *undo.Log, other *Register) error {
	if r.Kind != KindPlain || other.Kind != KindPlain {
		return errs.New(errs.QREGOPUNSUPPORTED, "exchange requires plain registers")
	}
	a := textOf(r.Doc)
	b := textOf(other.Doc)
	r.Doc.SetText(b)
	other.Doc.SetText(a)
	if log != nil {
		_ = log.Push("qreg.exchange", len(a)+len(b), func() {
			r.Doc.SetText(a)
			other.Doc.SetText(b)
		})
	}
	return nil
}

func textOf(d doc.Document) string {
	s, _ := d.GetTextRange(0, d.GetLength())
	return s
}

func envName(regName string) string { return strings.TrimPrefix(regName, "$") }

func filepath(name string) string { return strings.ReplaceAll(name, "\\", "/") }
