/*
 * teco - Help index (unimplemented)
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

// Package help is a placeholder for the "?topic$" help-index lookup.
// Loading and searching a help-text index is out of scope for this
// engine: it is a documentation browser bolted onto the parser, not
// part of the command language itself. Lookup always reports not
// found so that callers of "?" fail cleanly rather than silently.
package help

import "errors"

// ErrNotImplemented is returned by every Lookup call.
var ErrNotImplemented = errors.New("help: index not implemented")

// Lookup returns ErrNotImplemented for every topic; no help text is
// ever returned.
func Lookup(topic string) (string, error) {
	return "", ErrNotImplemented
}
