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

// Package sections implements reading the searchdata.js file of a Doxygen
// search directory.
//
// searchdata.js describes the sections of the search index (all, classes,
// functions, ...) using three object literals keyed by section ID:
//
//	var indexSectionsWithContent = { 0: "_abcdefg", 1: "abc" };
//	var indexSectionNames = { 0: "all", 1: "classes" };
//	var indexSectionLabels = { 0: "All", 1: "Classes" };
//
// indexSectionsWithContent lists the first characters that have a fragment
// file for the section. indexSectionLabels is missing in files written by
// older Doxygen releases.
package sections

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"

	"github.com/ianlewis/go-doxsearch/internal/jslit"
)

var (
	// ErrMalformed indicates searchdata.js could not be parsed.
	ErrMalformed = errors.New("sections: malformed")

	// ErrMissingNames indicates that indexSectionNames is missing.
	ErrMissingNames = errors.New("sections: missing indexSectionNames")

	// ErrUnknownSection indicates a section ID without a name.
	ErrUnknownSection = errors.New("sections: unknown section")
)

const (
	contentVar = "indexSectionsWithContent"
	namesVar   = "indexSectionNames"
	labelsVar  = "indexSectionLabels"
)

// Section is a section of the search index.
type Section struct {
	// ID is the section's key in searchdata.js.
	ID int

	// Name is used in fragment file names, e.g. "all".
	Name string

	// Label is the display label, e.g. "All". It may be empty.
	Label string

	// Content holds the first characters that have a fragment file, in
	// order.
	Content string
}

// Has reports whether the section has a fragment for the first character c.
func (s *Section) Has(c rune) bool {
	return strings.ContainsRune(s.Content, unicode.ToLower(c))
}

// Chars returns the characters in Content.
func (s *Section) Chars() []rune {
	return []rune(s.Content)
}

// FileName returns the base name, without extension, of the fragment file
// for the first character c, e.g. "all_67" for 'g'.
func (s *Section) FileName(c rune) string {
	return fmt.Sprintf("%s_%02x", s.Name, unicode.ToLower(c))
}

// Sections is the parsed content of a searchdata.js file.
type Sections struct {
	// sections are in ID order.
	sections []*Section
}

// New reads searchdata.js from r.
func New(r io.Reader) (*Sections, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading searchdata.js: %w", err)
	}

	vars, err := parseVars(b)
	if err != nil {
		return nil, err
	}

	names, ok := vars[namesVar]
	if !ok {
		return nil, ErrMissingNames
	}
	content := vars[contentVar]
	labels := vars[labelsVar]

	for id := range content {
		if _, ok := names[id]; !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownSection, id)
		}
	}

	s := &Sections{}
	for id, name := range names {
		s.sections = append(s.sections, &Section{
			ID:      id,
			Name:    name,
			Label:   labels[id],
			Content: content[id],
		})
	}
	slices.SortFunc(s.sections, func(a, b *Section) int {
		return a.ID - b.ID
	})

	return s, nil
}

// All returns all sections in ID order.
func (s *Sections) All() []*Section {
	return slices.Clone(s.sections)
}

// Section returns the section with the given name, or nil.
func (s *Sections) Section(name string) *Section {
	for _, sec := range s.sections {
		if sec.Name == name {
			return sec
		}
	}
	return nil
}

// parseVars parses a sequence of `var NAME = { INT: STRING, ... };`
// statements. Declarations whose value is not an object literal of strings
// are rejected.
func parseVars(b []byte) (map[string]map[int]string, error) {
	l := jslit.NewLexer(b)
	vars := map[string]map[int]string{}
	for {
		tok, err := l.Peek()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if tok.Kind == jslit.EOF {
			return vars, nil
		}
		// Stray semicolons are allowed between statements.
		if ok, err := l.Accept(';'); err != nil || ok {
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
			}
			continue
		}

		name, obj, err := parseVar(l)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		vars[name] = obj
	}
}

func parseVar(l *jslit.Lexer) (string, map[int]string, error) {
	if _, err := l.ExpectIdent("var"); err != nil {
		return "", nil, err
	}
	name, err := l.ExpectIdent("")
	if err != nil {
		return "", nil, err
	}
	if err := l.Expect('='); err != nil {
		return "", nil, err
	}
	if err := l.Expect('{'); err != nil {
		return "", nil, err
	}

	obj := map[int]string{}
	for {
		if ok, err := l.Accept('}'); err != nil || ok {
			if err != nil {
				return "", nil, err
			}
			break
		}
		id, err := l.ExpectInt()
		if err != nil {
			return "", nil, err
		}
		if err := l.Expect(':'); err != nil {
			return "", nil, err
		}
		v, err := l.ExpectString()
		if err != nil {
			return "", nil, err
		}
		if _, dup := obj[id]; dup {
			return "", nil, fmt.Errorf("%s: duplicate key %d", name, id)
		}
		obj[id] = v

		comma, err := l.Accept(',')
		if err != nil {
			return "", nil, err
		}
		if !comma {
			if err := l.Expect('}'); err != nil {
				return "", nil, err
			}
			break
		}
	}

	if _, err := l.Accept(';'); err != nil {
		return "", nil, err
	}
	return name, obj, nil
}
