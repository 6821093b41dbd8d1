// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package searchdata

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ianlewis/go-doxsearch/internal/jslit"
)

var (
	// ErrMalformed indicates the fragment is not a searchData array literal.
	ErrMalformed = errors.New("searchdata: malformed")

	// ErrNoTargets indicates an entry without any targets.
	ErrNoTargets = errors.New("searchdata: entry has no targets")

	// ErrBadKey indicates an entry key that does not decode to a printable
	// identifier.
	ErrBadKey = errors.New("searchdata: bad key")
)

// maxEntrySize bounds the size of a single entry literal.
const maxEntrySize = 16 << 20

// Scanner scans a fragment from start to end.
type Scanner struct {
	r io.ReadCloser
	s *bufio.Scanner

	// inArray is set after the opening bracket of the searchData array.
	inArray bool

	// done is set after the closing bracket of the searchData array.
	done bool

	entry *Entry
	n     int
	err   error
}

// NewScanner returns a new fragment scanner. The Scanner assumes ownership of
// the reader and should be closed with the Close method.
func NewScanner(r io.ReadCloser) *Scanner {
	s := &Scanner{
		r: r,
		s: bufio.NewScanner(bufio.NewReader(r)),
	}
	s.s.Buffer(make([]byte, 0, 64*1024), maxEntrySize)
	s.s.Split(s.splitEntry)
	return s
}

// Scan advances to the next entry. It returns false if the scan stops either
// by reaching the end of the array or an error.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	if !s.s.Scan() {
		if s.s.Err() == nil && !s.done {
			s.err = fmt.Errorf("%w: missing closing bracket", ErrMalformed)
		}
		return false
	}

	e, err := parseEntry(s.s.Bytes())
	if err != nil {
		s.err = fmt.Errorf("entry %d: %w", s.n, err)
		return false
	}
	s.entry = e
	s.n++
	return true
}

// Entry returns the entry read by the last call to Scan.
func (s *Scanner) Entry() *Entry {
	return s.entry
}

// Err returns the first error encountered.
func (s *Scanner) Err() error {
	if s.err != nil {
		return s.err
	}
	//nolint:wrapcheck // error should not be wrapped
	return s.s.Err()
}

// Close closes the underlying reader.
func (s *Scanner) Close() error {
	err := s.r.Close()
	if err != nil {
		return fmt.Errorf("closing search data: %w", err)
	}
	return nil
}

// splitEntry returns one top level element of the searchData array per
// token. The declaration before the array and anything after it are skipped.
// Skipped input is consumed within the same call as the following token
// because bufio.Scanner stops at EOF after a call that returns no token.
func (s *Scanner) splitEntry(data []byte, atEOF bool) (int, []byte, error) {
	pos := 0
	for {
		if s.done {
			// Discard the trailing semicolon and whitespace.
			return len(data), nil, nil
		}

		if !s.inArray {
			i := bytes.IndexByte(data[pos:], '[')
			if i < 0 {
				if atEOF {
					return 0, nil, fmt.Errorf("%w: no array found", ErrMalformed)
				}
				return len(data), nil, nil
			}
			s.inArray = true
			pos += i + 1
		}

		for pos < len(data) && isSep(data[pos]) {
			pos++
		}
		if pos == len(data) {
			if atEOF {
				return 0, nil, fmt.Errorf("%w: missing closing bracket", ErrMalformed)
			}
			return pos, nil, nil
		}

		switch data[pos] {
		case ']':
			s.done = true
			pos++
		case '[':
			end := matchBracket(data[pos:])
			if end < 0 {
				if atEOF {
					return 0, nil, fmt.Errorf("%w: unterminated entry", ErrMalformed)
				}
				// Request more data.
				return pos, nil, nil
			}
			return pos + end + 1, data[pos : pos+end+1], nil
		default:
			return 0, nil, fmt.Errorf("%w: unexpected %q", ErrMalformed, data[pos])
		}
	}
}

// matchBracket returns the index of the bracket closing the one at b[0], or
// -1 if b does not contain it. Brackets inside string literals are ignored.
func matchBracket(b []byte) int {
	depth := 0
	var quote byte
	for i := 0; i < len(b); i++ {
		c := b[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isSep(c byte) bool {
	return c == ',' || c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// parseEntry parses a single [key,[label,target...]] literal.
func parseEntry(b []byte) (*Entry, error) {
	l := jslit.NewLexer(b)
	e := &Entry{}

	var err error
	if err = l.Expect('['); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if e.Key, err = l.ExpectString(); err != nil {
		return nil, fmt.Errorf("%w: key: %w", ErrMalformed, err)
	}
	if err = l.Expect(','); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err = l.Expect('['); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if e.Label, err = l.ExpectString(); err != nil {
		return nil, fmt.Errorf("%w: label: %w", ErrMalformed, err)
	}

	for {
		more, err := l.Accept(',')
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if !more {
			break
		}
		// Tolerate a trailing comma.
		end, err := l.Accept(']')
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if end {
			return finishEntry(l, e)
		}
		t, err := parseTarget(l)
		if err != nil {
			return nil, fmt.Errorf("%w: target %d of %q: %w", ErrMalformed, len(e.Targets), e.Key, err)
		}
		e.Targets = append(e.Targets, t)
	}

	if err := l.Expect(']'); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return finishEntry(l, e)
}

// finishEntry consumes the closing bracket of the entry.
func finishEntry(l *jslit.Lexer, e *Entry) (*Entry, error) {
	if err := l.Expect(']'); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err := l.ExpectEOF(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return e, nil
}

// parseTarget parses a single [url,flag,scope] literal.
func parseTarget(l *jslit.Lexer) (*Target, error) {
	t := &Target{}
	if err := l.Expect('['); err != nil {
		return nil, err
	}
	var err error
	if t.URL, err = l.ExpectString(); err != nil {
		return nil, err
	}
	if err = l.Expect(','); err != nil {
		return nil, err
	}
	flag, err := l.ExpectInt()
	if err != nil {
		return nil, err
	}
	t.Local = flag != 0
	if err = l.Expect(','); err != nil {
		return nil, err
	}
	if t.Scope, err = l.ExpectString(); err != nil {
		return nil, err
	}
	if _, err = l.Accept(','); err != nil {
		return nil, err
	}
	if err = l.Expect(']'); err != nil {
		return nil, err
	}
	return t, nil
}
