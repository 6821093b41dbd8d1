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

// Package jslit implements a lexer for the small subset of JavaScript that
// Doxygen writes into its search data files: variable declarations whose
// values are array or object literals of strings and integers.
package jslit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ErrSyntax indicates the input is not valid in the supported subset.
var ErrSyntax = errors.New("syntax error")

// Kind is the kind of a token.
type Kind int

const (
	// EOF is returned at the end of the input.
	EOF Kind = iota

	// String is a quoted string literal. Token.Text holds the decoded value.
	String

	// Number is an integer literal.
	Number

	// Ident is an identifier such as "var" or "searchData".
	Ident

	// Punct is a single punctuation character.
	Punct
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case String:
		return "string"
	case Number:
		return "number"
	case Ident:
		return "identifier"
	case Punct:
		return "punctuation"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is a lexical token.
type Token struct {
	Kind Kind

	// Text is the decoded string value for String tokens and the literal
	// source text for all other kinds.
	Text string

	// Offset is the byte offset of the token in the input.
	Offset int
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "EOF"
	}
	return fmt.Sprintf("%v %q", t.Kind, t.Text)
}

const punctuation = "[]{}(),:;="

// Lexer splits input into tokens.
type Lexer struct {
	src    []byte
	pos    int
	peeked *Token
}

// NewLexer returns a Lexer reading from src.
func NewLexer(src []byte) *Lexer {
	return &Lexer{src: src}
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (Token, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}
	tok, err := l.lex()
	if err != nil {
		return Token{}, err
	}
	l.peeked = &tok
	return tok, nil
}

// Next consumes and returns the next token.
func (l *Lexer) Next() (Token, error) {
	if l.peeked != nil {
		tok := *l.peeked
		l.peeked = nil
		return tok, nil
	}
	return l.lex()
}

// Accept consumes the next token if it is the punctuation p. It reports
// whether the token was consumed.
func (l *Lexer) Accept(p byte) (bool, error) {
	tok, err := l.Peek()
	if err != nil {
		return false, err
	}
	if tok.Kind != Punct || tok.Text[0] != p {
		return false, nil
	}
	l.peeked = nil
	return true, nil
}

// Expect consumes the next token and returns an error if it is not the
// punctuation p.
func (l *Lexer) Expect(p byte) error {
	tok, err := l.Next()
	if err != nil {
		return err
	}
	if tok.Kind != Punct || tok.Text[0] != p {
		return unexpected(tok, fmt.Sprintf("%q", p))
	}
	return nil
}

// ExpectString consumes a string literal and returns its decoded value.
func (l *Lexer) ExpectString() (string, error) {
	tok, err := l.Next()
	if err != nil {
		return "", err
	}
	if tok.Kind != String {
		return "", unexpected(tok, "string")
	}
	return tok.Text, nil
}

// ExpectInt consumes an integer literal.
func (l *Lexer) ExpectInt() (int, error) {
	tok, err := l.Next()
	if err != nil {
		return 0, err
	}
	if tok.Kind != Number {
		return 0, unexpected(tok, "number")
	}
	n, err := strconv.Atoi(tok.Text)
	if err != nil {
		return 0, fmt.Errorf("%w: offset %d: %w", ErrSyntax, tok.Offset, err)
	}
	return n, nil
}

// ExpectIdent consumes an identifier. If name is not empty the identifier
// must match it.
func (l *Lexer) ExpectIdent(name string) (string, error) {
	tok, err := l.Next()
	if err != nil {
		return "", err
	}
	if tok.Kind != Ident || (name != "" && tok.Text != name) {
		want := "identifier"
		if name != "" {
			want = strconv.Quote(name)
		}
		return "", unexpected(tok, want)
	}
	return tok.Text, nil
}

// ExpectEOF returns an error if any tokens remain.
func (l *Lexer) ExpectEOF() error {
	tok, err := l.Next()
	if err != nil {
		return err
	}
	if tok.Kind != EOF {
		return unexpected(tok, "EOF")
	}
	return nil
}

func unexpected(tok Token, want string) error {
	return fmt.Errorf("%w: offset %d: unexpected %v, want %s", ErrSyntax, tok.Offset, tok, want)
}

func (l *Lexer) lex() (Token, error) {
	if err := l.skipSpace(); err != nil {
		return Token{}, err
	}
	if l.pos >= len(l.src) {
		return Token{Kind: EOF, Offset: l.pos}, nil
	}

	start := l.pos
	c := l.src[l.pos]
	switch {
	case c == '\'' || c == '"':
		s, err := l.lexString(c)
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: String, Text: s, Offset: start}, nil
	case c == '-' || isDigit(c):
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		text := string(l.src[start:l.pos])
		if text == "-" {
			return Token{}, fmt.Errorf("%w: offset %d: lone '-'", ErrSyntax, start)
		}
		return Token{Kind: Number, Text: text, Offset: start}, nil
	case isIdentStart(c):
		for l.pos < len(l.src) && (isIdentStart(l.src[l.pos]) || isDigit(l.src[l.pos])) {
			l.pos++
		}
		return Token{Kind: Ident, Text: string(l.src[start:l.pos]), Offset: start}, nil
	case strings.IndexByte(punctuation, c) >= 0:
		l.pos++
		return Token{Kind: Punct, Text: string(c), Offset: start}, nil
	default:
		r, _ := utf8.DecodeRune(l.src[l.pos:])
		return Token{}, fmt.Errorf("%w: offset %d: unexpected character %q", ErrSyntax, start, r)
	}
}

// skipSpace skips whitespace and comments.
func (l *Lexer) skipSpace() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			end := strings.Index(string(l.src[l.pos+2:]), "*/")
			if end < 0 {
				return fmt.Errorf("%w: offset %d: unterminated comment", ErrSyntax, l.pos)
			}
			l.pos += end + 4
		default:
			return nil
		}
	}
	return nil
}

// lexString decodes a quoted string starting at l.pos.
func (l *Lexer) lexString(quote byte) (string, error) {
	start := l.pos
	l.pos++ // opening quote

	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch c {
		case quote:
			l.pos++
			return b.String(), nil
		case '\n', '\r':
			return "", fmt.Errorf("%w: offset %d: newline in string", ErrSyntax, l.pos)
		case '\\':
			if err := l.lexEscape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return "", fmt.Errorf("%w: offset %d: unterminated string", ErrSyntax, start)
}

// lexEscape decodes the escape sequence at l.pos into b.
func (l *Lexer) lexEscape(b *strings.Builder) error {
	start := l.pos
	l.pos++ // backslash
	if l.pos >= len(l.src) {
		return fmt.Errorf("%w: offset %d: unterminated escape", ErrSyntax, start)
	}
	c := l.src[l.pos]
	l.pos++
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0':
		b.WriteByte(0)
	case 'x':
		n, err := l.hex(2)
		if err != nil {
			return err
		}
		b.WriteRune(rune(n))
	case 'u':
		n, err := l.hex(4)
		if err != nil {
			return err
		}
		r := rune(n)
		if utf16.IsSurrogate(r) {
			// Combine with a following low surrogate if there is one.
			if l.pos+1 < len(l.src) && l.src[l.pos] == '\\' && l.src[l.pos+1] == 'u' {
				save := l.pos
				l.pos += 2
				n2, err := l.hex(4)
				if err == nil {
					if dec := utf16.DecodeRune(r, rune(n2)); dec != utf8.RuneError {
						b.WriteRune(dec)
						return nil
					}
				}
				l.pos = save
			}
			r = utf8.RuneError
		}
		b.WriteRune(r)
	default:
		// Covers \\, \', \" and the identity escapes.
		b.WriteByte(c)
	}
	return nil
}

func (l *Lexer) hex(n int) (uint64, error) {
	if l.pos+n > len(l.src) {
		return 0, fmt.Errorf("%w: offset %d: short hex escape", ErrSyntax, l.pos)
	}
	v, err := strconv.ParseUint(string(l.src[l.pos:l.pos+n]), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: offset %d: bad hex escape", ErrSyntax, l.pos)
	}
	l.pos += n
	return v, nil
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
