/*
 * teco - Buffer ring.
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

// Package buffer implements the buffer ring: the doubly-linked list of
// currently loaded documents. It is
// stored as an arena (slice) plus integer indices rather than raw
// pointers, so that an undo token can cheaply remember "re-insert the
// buffer that used to be at this index, between these neighbours".
package buffer

import (
	"github.com/tecoengine/teco/internal/doc"
	"github.com/tecoengine/teco/internal/errs"
	"github.com/tecoengine/teco/internal/undo"
)

// Buffer is one ring entry.
type Buffer struct {
	ID       int
	Filename string
	HasName  bool
	Dirty    bool
	Doc      doc.Document

	prev, next int // arena indices, -1 = none
	removed    bool
}

// Ring is the doubly linked list of buffers, arena-backed.
type Ring struct {
	arena   []*Buffer
	head    int // index of first buffer, -1 if empty
	current int // index of the current buffer, -1 if none (a Q-Reg is being edited instead)
	nextID  int
	log     *undo.Log
}

// New returns an empty ring.
func New(log *undo.Log) *Ring {
	return &Ring{head: -1, current: -1, log: log}
}

// Add appends a new unnamed buffer and makes it current, returning it.
func (r *Ring) Add(d doc.Document) *Buffer {
	b := &Buffer{ID: r.nextID, Doc: d, prev: -1, next: -1}
	r.nextID++
	idx := len(r.arena)
	r.arena = append(r.arena, b)

	if r.head == -1 {
		r.head = idx
	} else {
		tail := r.tailIndex()
		r.arena[tail].next = idx
		b.prev = tail
	}
	prevCurrent := r.current
	r.current = idx
	if r.log != nil {
		_ = r.log.Push("ring.add", 32, func() {
			r.removeIndex(idx)
			r.current = prevCurrent
		})
	}
	return b
}

func (r *Ring) tailIndex() int {
	idx := r.head
	for r.arena[idx].next != -1 {
		idx = r.arena[idx].next
	}
	return idx
}

// indexOf finds the arena index of buffer b, or -1.
func (r *Ring) indexOf(b *Buffer) int {
	for i, e := range r.arena {
		if e == b && !e.removed {
			return i
		}
	}
	return -1
}

// Remove unlinks buffer b from the ring, pushing an undo token that
// re-splices it back between its former neighbours.
func (r *Ring) Remove(b *Buffer) error {
	idx := r.indexOf(b)
	if idx == -1 {
		return errs.New(errs.INVALIDBUF, "buffer %d is not in the ring", b.ID)
	}
	prev, next := b.prev, b.next
	wasCurrent := r.current == idx
	wasHead := r.head == idx

	r.removeIndex(idx)
	if wasCurrent {
		switch {
		case next != -1:
			r.current = next
		case prev != -1:
			r.current = prev
		default:
			r.current = -1
		}
	}

	if r.log != nil {
		_ = r.log.Push("ring.remove", 32, func() {
			b.removed = false
			b.prev, b.next = prev, next
			if prev != -1 {
				r.arena[prev].next = idx
			} else {
				r.head = idx
			}
			if next != -1 {
				r.arena[next].prev = idx
			}
			if wasHead {
				r.head = idx
			}
			if wasCurrent {
				r.current = idx
			}
		})
	}
	return nil
}

func (r *Ring) removeIndex(idx int) {
	b := r.arena[idx]
	prev, next := b.prev, b.next
	if prev != -1 {
		r.arena[prev].next = next
	} else {
		r.head = next
	}
	if next != -1 {
		r.arena[next].prev = prev
	}
	b.removed = true
}

// Current returns the active buffer, or nil if a Q-Register is being
// edited instead.
func (r *Ring) Current() *Buffer {
	if r.current == -1 {
		return nil
	}
	return r.arena[r.current]
}

// SetCurrent switches the active buffer to the one with the given id,
// returning an error if it does not exist.
func (r *Ring) SetCurrent(id int) error {
	for i, b := range r.arena {
		if !b.removed && b.ID == id {
			old := r.current
			r.current = i
			if r.log != nil {
				_ = r.log.Push("ring.setcurrent", 8, func() { r.current = old })
			}
			return nil
		}
	}
	return errs.New(errs.INVALIDBUF, "buffer %d does not exist", id)
}

// ClearCurrent marks that no ring buffer is active (a Q-Register is
// being edited instead).
func (r *Ring) ClearCurrent() {
	old := r.current
	r.current = -1
	if r.log != nil {
		_ = r.log.Push("ring.clearcurrent", 8, func() { r.current = old })
	}
}

// All returns every live buffer in ring order.
func (r *Ring) All() []*Buffer {
	var out []*Buffer
	for idx := r.head; idx != -1; idx = r.arena[idx].next {
		out = append(out, r.arena[idx])
	}
	return out
}

// ByID returns the buffer with the given id, or nil.
func (r *Ring) ByID(id int) *Buffer {
	for _, b := range r.arena {
		if !b.removed && b.ID == id {
			return b
		}
	}
	return nil
}

// CurrentFilename returns the current buffer's filename, or "" if
// unnamed or no buffer is current.
func (r *Ring) CurrentFilename() string {
	b := r.Current()
	if b == nil {
		return ""
	}
	return b.Filename
}

// CurrentID returns the current buffer's id, or -1.
func (r *Ring) CurrentID() int {
	b := r.Current()
	if b == nil {
		return -1
	}
	return b.ID
}
