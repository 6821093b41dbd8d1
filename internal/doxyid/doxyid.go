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

// Package doxyid decodes and encodes the escaped identifiers Doxygen uses as
// search keys. Every byte that is not an ASCII letter or digit is written as
// an underscore followed by two lowercase hex digits, so "get_kind" becomes
// "get_5fkind" and "Getting started" becomes "getting_20started".
package doxyid

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrBadEscape indicates an underscore that does not begin a two digit hex
// escape.
var ErrBadEscape = errors.New("bad escape")

// ErrNotPrintable indicates the decoded identifier contains non-printable
// characters or invalid UTF-8.
var ErrNotPrintable = errors.New("not printable")

// Decode decodes an escaped identifier.
func Decode(key string) (string, error) {
	if strings.IndexByte(key, '_') < 0 {
		return key, checkPrintable(key)
	}

	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c != '_' {
			b.WriteByte(c)
			continue
		}
		if i+2 >= len(key) {
			return "", fmt.Errorf("%w: %q at %d", ErrBadEscape, key, i)
		}
		hi, ok1 := unhex(key[i+1])
		lo, ok2 := unhex(key[i+2])
		if !ok1 || !ok2 {
			return "", fmt.Errorf("%w: %q at %d", ErrBadEscape, key, i)
		}
		b.WriteByte(hi<<4 | lo)
		i += 2
	}

	s := b.String()
	return s, checkPrintable(s)
}

// Encode escapes s the way Doxygen does. Encode does not lowercase s.
func Encode(s string) string {
	const hexDigits = "0123456789abcdef"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('_')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0xf])
	}
	return b.String()
}

func checkPrintable(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: %q: invalid utf-8", ErrNotPrintable, s)
	}
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return fmt.Errorf("%w: %q", ErrNotPrintable, s)
		}
	}
	return nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
