/*
 * teco - Startup configuration file parser
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

// Package config loads the small line-oriented profile format cmd/teco
// reads from $SCITECOCONFIG/.teco_ini (or a --no-profile override):
// one keyword per line, whitespace-separated arguments, '#' comments,
// quoted-string values. Keywords are registered by callback, the same
// pattern the emulator this is descended from uses for device models.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// Handler is invoked once per recognized keyword line, with args split
// on whitespace (quoted segments kept intact as one arg).
type Handler func(args []string) error

var keywords = map[string]Handler{}

// Register binds name (case-insensitive) to fn. Call from an init()
// function, mirroring the teacher's RegisterModel/RegisterOption.
func Register(name string, fn Handler) {
	keywords[strings.ToUpper(name)] = fn
}

var lineNumber int

// Load reads path line by line, dispatching each recognized keyword to
// its registered handler. A line whose first word has no registered
// handler is an error, matching the teacher's "No type registered"
// behavior -- startup files are meant to be terse and typo-checked.
func Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	lineNumber = 0
	reader := bufio.NewReader(file)
	for {
		raw, err := reader.ReadString('\n')
		lineNumber++
		if len(raw) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if perr := parseLine(raw); perr != nil {
			return perr
		}
		if err != nil {
			return nil
		}
	}
}

type cursor struct {
	line string
	pos  int
}

func (c *cursor) isEOL() bool {
	return c.pos >= len(c.line) || c.line[c.pos] == '#'
}

func (c *cursor) skipSpace() {
	for !c.isEOL() && unicode.IsSpace(rune(c.line[c.pos])) {
		c.pos++
	}
}

// token reads one whitespace-delimited word, or a "quoted string" if
// the next character is a double quote (embedded "" is a literal
// quote, matching the teacher's parseQuoteString).
func (c *cursor) token() string {
	c.skipSpace()
	if c.isEOL() {
		return ""
	}
	if c.line[c.pos] == '"' {
		c.pos++
		var b strings.Builder
		for c.pos < len(c.line) {
			if c.line[c.pos] == '"' {
				if c.pos+1 < len(c.line) && c.line[c.pos+1] == '"' {
					b.WriteByte('"')
					c.pos += 2
					continue
				}
				c.pos++
				break
			}
			b.WriteByte(c.line[c.pos])
			c.pos++
		}
		return b.String()
	}
	start := c.pos
	for !c.isEOL() && !unicode.IsSpace(rune(c.line[c.pos])) {
		c.pos++
	}
	return c.line[start:c.pos]
}

func parseLine(raw string) error {
	c := &cursor{line: strings.TrimRight(raw, "\r\n")}
	keyword := c.token()
	if keyword == "" {
		return nil
	}
	handler, ok := keywords[strings.ToUpper(keyword)]
	if !ok {
		return fmt.Errorf("config: unknown keyword %q, line %d", keyword, lineNumber)
	}
	var args []string
	for {
		tok := c.token()
		if tok == "" && c.isEOL() {
			break
		}
		args = append(args, tok)
	}
	return handler(args)
}

// ProfilePath resolves the startup profile file: $SCITECOCONFIG/.teco_ini
// if the variable is set, else $HOME/.teco_ini.
func ProfilePath() string {
	if p := os.Getenv("SCITECOCONFIG"); p != "" {
		return p + string(os.PathSeparator) + ".teco_ini"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".teco_ini"
	}
	return home + string(os.PathSeparator) + ".teco_ini"
}
