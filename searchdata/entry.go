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
	"fmt"
	"strings"

	"github.com/k3a/html2text"

	"github.com/ianlewis/go-doxsearch/internal/doxyid"
)

// Target is one documentation anchor for an entry.
type Target struct {
	// URL is the anchor URL relative to the search directory.
	URL string

	// Local is true when the anchor is part of the documentation set and false
	// for external links imported from tag files.
	Local bool

	// Scope is the HTML escaped label of the enclosing scope. It is empty for
	// pages.
	Scope string
}

// ScopeText returns the scope label with HTML entities decoded.
func (t *Target) ScopeText() string {
	return html2text.HTMLEntitiesToText(t.Scope)
}

// Entry is a search index entry. Entries returned by a Table are shared and
// must not be modified.
type Entry struct {
	// Key is the escaped lowercase key used for matching.
	Key string

	// Label is the display label.
	Label string

	// Targets are the anchors for the label in file order.
	Targets []*Target
}

// Name returns the decoded key. If the key cannot be decoded it is returned
// as is.
func (e *Entry) Name() string {
	name, err := doxyid.Decode(e.Key)
	if err != nil {
		return e.Key
	}
	return name
}

// Validate checks that the entry has at least one target and that its key
// decodes to a printable string.
func (e *Entry) Validate() error {
	if len(e.Targets) == 0 {
		return fmt.Errorf("%w: %q", ErrNoTargets, e.Key)
	}
	if _, err := doxyid.Decode(e.Key); err != nil {
		return fmt.Errorf("%w: %w", ErrBadKey, err)
	}
	return nil
}

// String returns a string representation of the Entry.
func (e *Entry) String() string {
	var b strings.Builder
	b.WriteString(e.Label)
	b.WriteString("\n")
	for _, t := range e.Targets {
		b.WriteString("  ")
		if scope := t.ScopeText(); scope != "" {
			b.WriteString(scope)
			b.WriteString(" ")
		}
		b.WriteString(t.URL)
		b.WriteString("\n")
	}
	return b.String()
}
