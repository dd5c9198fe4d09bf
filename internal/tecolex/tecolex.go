/*
 * teco - SciTECO-source lexer (unimplemented)
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

// Package tecolex is a placeholder for syntax highlighting of TECO
// source inside a Scintilla-backed editor. Coloring command text is a
// presentation concern layered on top of the parser, not part of the
// execution engine; this rewrite leaves it unimplemented. Tokenize
// always reports the whole input as one undifferentiated span.
package tecolex

// Span is one lexical region: [Start, End) classified as Class.
type Span struct {
	Start, End int
	Class      string
}

// Tokenize returns the whole of text as one span of class "default";
// no highlighting classification is done.
func Tokenize(text string) []Span {
	return []Span{{Start: 0, End: len(text), Class: "default"}}
}
