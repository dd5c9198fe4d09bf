/*
 * teco - Search pattern compiler.
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

// Package search compiles a SciTECO search pattern -- which extends the
// POSIX character-class world with a handful of ^E escapes -- into a
// regexp2 pattern in a single left-to-right pass. The compiler tolerates
// incomplete patterns: an unterminated class or ^E escape yields an
// empty regex rather than an error, which is what lets interactive
// search-as-you-type recompile after every keystroke.
package search

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/tecoengine/teco/internal/errs"
	"github.com/tecoengine/teco/internal/qspec"
	"github.com/tecoengine/teco/internal/strbuild"
)

// Lookups resolves ^EGq, which splices the escaped string contents of
// Q-Register q into the pattern.
type Lookups struct {
	RegisterString func(name string) (string, error)
}

type classState int

const (
	classStart classState = iota
	classCtlE
	classAnyQ
)

// classToRegexp consumes as much of pattern[*i:] as forms a single
// character class and returns its bracket-interior content (e.g. "a-z"
// for ^EV), or "" if the runes at *i do not begin a class at all, or if
// the class is present but incomplete -- both cases are reported the
// same way, matching the original compiler's documented imprecision
// around patterns that are incomplete after already closing once.
func classToRegexp(pattern []rune, i *int, lk Lookups, escapeDefault bool) (string, error) {
	st := classStart
	for *i < len(pattern) {
		r := pattern[*i]
		switch st {
		case classStart:
			switch r {
			case 0x13: // ^S
				*i++
				return "^a-zA-Z0-9", nil
			case 0x05: // ^E
				st = classCtlE
			default:
				if !escapeDefault {
					return "", nil
				}
				*i++
				return regexp.QuoteMeta(string(r)), nil
			}
		case classCtlE:
			switch upper(r) {
			case 'A':
				*i++
				return "a-zA-Z", nil
			case 'B':
				*i++
				return "^a-zA-Z0-9", nil
			case 'C':
				*i++
				return "a-zA-Z0-9.$", nil
			case 'D':
				*i++
				return "0-9", nil
			case 'G':
				st = classAnyQ
				// consumed below by the nested qreg-spec machine
			case 'L':
				*i++
				return "\r\n\v\f", nil
			case 'R':
				*i++
				return "a-zA-Z0-9", nil
			case 'V':
				*i++
				return "a-z", nil
			case 'W':
				*i++
				return "A-Z", nil
			default:
				return "", nil
			}
		case classAnyQ:
			qm := qspec.New(strbuild.Lookups{})
			for *i < len(pattern) {
				done, err := qm.Feed(pattern[*i])
				*i++
				if err != nil {
					return "", err
				}
				if done {
					if lk.RegisterString == nil {
						return "", errs.New(errs.MODULE, "no register lookup configured for ^EG")
					}
					s, err := lk.RegisterString(qm.Name())
					if err != nil {
						return "", err
					}
					return regexp.QuoteMeta(s), nil
				}
			}
			return "", nil
		}
		*i++
	}
	return "", nil
}

// Compile converts a whole SciTECO search pattern into a regexp2 source
// string. ok is false when the pattern is syntactically incomplete (not
// an error -- the caller should treat it as "no match yet").
func Compile(pattern string, lk Lookups) (restr string, ok bool, err error) {
	runes := []rune(pattern)
	i := 0
	out, err := patternToRegexp(runes, &i, lk, false)
	if err != nil {
		return "", false, err
	}
	if out == "" && len(runes) > 0 {
		return "", false, nil
	}
	return out, true, nil
}

// alternationToRegexp parses the comma-separated list inside ^E[...]
// into a parenthesized regex alternation, assuming the opening "["
// (right after ^E) has already been consumed.
func alternationToRegexp(pattern []rune, i *int, lk Lookups) (string, bool, error) {
	var re strings.Builder
	re.WriteByte('(')
	for {
		if *i >= len(pattern) {
			return "", false, nil
		}
		switch pattern[*i] {
		case ',':
			re.WriteByte('|')
			*i++
		case ']':
			re.WriteByte(')')
			*i++
			return re.String(), true, nil
		default:
			inner, err := patternToRegexp(pattern, i, lk, true)
			if err != nil {
				return "", false, err
			}
			if inner == "" {
				return "", false, nil
			}
			re.WriteString(inner)
		}
	}
}

func patternToRegexp(pattern []rune, i *int, lk Lookups, singleExpr bool) (string, error) {
	var re strings.Builder

	for {
		start := *i
		class, err := classToRegexp(pattern, i, lk, false)
		if err != nil {
			return "", err
		}
		if class != "" {
			re.WriteByte('[')
			re.WriteString(class)
			re.WriteByte(']')
			if singleExpr {
				break
			}
			continue
		}
		*i = start

		if *i >= len(pattern) {
			break
		}

		r := pattern[*i]
		switch r {
		case 0x18: // ^X
			re.WriteByte('.')
			*i++
		case 0x0E: // ^N
			*i++
			negated, err := classToRegexp(pattern, i, lk, true)
			if err != nil {
				return "", err
			}
			if negated == "" {
				return "", nil
			}
			re.WriteString("[^")
			re.WriteString(negated)
			re.WriteByte(']')
		case 0x05: // ^E
			*i++
			if *i >= len(pattern) {
				return "", nil
			}
			switch upper(pattern[*i]) {
			case 'M':
				*i++
				inner, err := patternToRegexp(pattern, i, lk, true)
				if err != nil {
					return "", err
				}
				if inner == "" {
					return "", nil
				}
				re.WriteByte('(')
				re.WriteString(inner)
				re.WriteString(")+")
			case 'S':
				*i++
				re.WriteString(`\s+`)
			case 'X':
				*i++
				re.WriteByte('.')
			case '[':
				*i++
				alt, ok, err := alternationToRegexp(pattern, i, lk)
				if err != nil {
					return "", err
				}
				if !ok {
					return "", nil
				}
				re.WriteString(alt)
			default:
				return "", errs.New(errs.SYNTAX, "invalid ^E sequence %q in search pattern", pattern[*i])
			}
		default:
			seg := regexp.QuoteMeta(string(r))
			re.WriteString(seg)
			*i++
		}

		if singleExpr {
			break
		}
		if *i >= len(pattern) {
			break
		}
	}

	return re.String(), nil
}

func upper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

// Matcher wraps a compiled regexp2 pattern with the direction/count
// semantics of the F-family search commands.
type Matcher struct {
	re *regexp2.Regexp
}

// NewMatcher compiles restr (as produced by Compile) into a usable
// matcher.
func NewMatcher(restr string) (*Matcher, error) {
	re, err := regexp2.Compile(restr, regexp2.None)
	if err != nil {
		return nil, errs.New(errs.SYNTAX, "%s", err)
	}
	return &Matcher{re: re}, nil
}

// Match is one successful match: the whole-match span and any captured
// group spans, all in glyph (rune) offsets.
type Match struct {
	From, To int
	Groups   [][2]int
}

// FindForward searches text for the next match starting at or after
// from, returning ok=false on no match.
func (m *Matcher) FindForward(text string, from int) (Match, bool, error) {
	runes := []rune(text)
	if from < 0 {
		from = 0
	}
	if from > len(runes) {
		return Match{}, false, nil
	}
	match, err := m.re.FindRunesMatchStartingAt(runes, from)
	if err != nil {
		return Match{}, false, errs.New(errs.SYNTAX, "%s", err)
	}
	if match == nil {
		return Match{}, false, nil
	}
	return toMatch(match), true, nil
}

// FindBackward searches text backward from "from", returning the
// closest match whose start is < from.
func (m *Matcher) FindBackward(text string, from int) (Match, bool, error) {
	runes := []rune(text)
	if from > len(runes) {
		from = len(runes)
	}
	var best *Match
	pos := 0
	for pos <= from {
		match, err := m.re.FindRunesMatchStartingAt(runes, pos)
		if err != nil {
			return Match{}, false, errs.New(errs.SYNTAX, "%s", err)
		}
		if match == nil {
			break
		}
		mm := toMatch(match)
		if mm.From >= from {
			break
		}
		cp := mm
		best = &cp
		pos = mm.From + 1
	}
	if best == nil {
		return Match{}, false, nil
	}
	return *best, true, nil
}

func toMatch(match *regexp2.Match) Match {
	groups := match.Groups()
	out := Match{From: match.Index, To: match.Index + match.Length}
	for _, g := range groups[1:] {
		if len(g.Captures) == 0 {
			out.Groups = append(out.Groups, [2]int{-1, -1})
			continue
		}
		c := g.Captures[len(g.Captures)-1]
		out.Groups = append(out.Groups, [2]int{c.Index, c.Index + c.Length})
	}
	return out
}

// Describe renders a compile error's offending rune for diagnostics.
func Describe(err error) string {
	return fmt.Sprintf("invalid search pattern: %s", err)
}
