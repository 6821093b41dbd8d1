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

package sections_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ianlewis/go-doxsearch/internal/testutil"
	"github.com/ianlewis/go-doxsearch/sections"
)

const doxygenSearchData = `var indexSectionsWithContent =
{
  0: "abcdefg",
  1: "deg",
  2: "g"
};

var indexSectionNames =
{
  0: "all",
  1: "classes",
  2: "pages"
};

var indexSectionLabels =
{
  0: "All",
  1: "Classes",
  2: "Pages"
};

`

// TestNew tests New.
func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		expected []*sections.Section
		err      error
	}{
		{
			name: "doxygen",
			data: doxygenSearchData,
			expected: []*sections.Section{
				{ID: 0, Name: "all", Label: "All", Content: "abcdefg"},
				{ID: 1, Name: "classes", Label: "Classes", Content: "deg"},
				{ID: 2, Name: "pages", Label: "Pages", Content: "g"},
			},
		},
		{
			name: "no labels",
			data: `var indexSectionsWithContent = { 0: "g" }; var indexSectionNames = { 0: "all" };`,
			expected: []*sections.Section{
				{ID: 0, Name: "all", Content: "g"},
			},
		},
		{
			name: "unordered ids and trailing comma",
			data: `var indexSectionNames = { 3: "files", 1: "classes", };`,
			expected: []*sections.Section{
				{ID: 1, Name: "classes"},
				{ID: 3, Name: "files"},
			},
		},
		{
			name: "missing names",
			data: `var indexSectionsWithContent = { 0: "g" };`,
			err:  sections.ErrMissingNames,
		},
		{
			name: "unknown section",
			data: `var indexSectionsWithContent = { 1: "g" }; var indexSectionNames = { 0: "all" };`,
			err:  sections.ErrUnknownSection,
		},
		{
			name: "not an object",
			data: `var indexSectionNames = [ "all" ];`,
			err:  sections.ErrMalformed,
		},
		{
			name: "duplicate key",
			data: `var indexSectionNames = { 0: "all", 0: "classes" };`,
			err:  sections.ErrMalformed,
		},
		{
			name: "not javascript",
			data: `<!DOCTYPE html>`,
			err:  sections.ErrMalformed,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			s, err := sections.New(strings.NewReader(test.data))
			if !errors.Is(err, test.err) {
				t.Fatalf("New: want: %v, got: %v", test.err, err)
			}
			if test.err != nil {
				return
			}
			if diff := cmp.Diff(test.expected, s.All()); diff != "" {
				t.Fatalf("All (-want, +got):\n%s", diff)
			}
		})
	}
}

// TestNew_testutil tests reading a file written by testutil.MakeSections.
func TestNew_testutil(t *testing.T) {
	t.Parallel()

	want := []*sections.Section{
		{ID: 0, Name: "all", Label: "All", Content: "_g"},
		{ID: 5, Name: "functions", Label: "Functions", Content: "g"},
	}
	s, err := sections.New(bytes.NewReader(testutil.MakeSections(want)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if diff := cmp.Diff(want, s.All()); diff != "" {
		t.Fatalf("All (-want, +got):\n%s", diff)
	}
}

// TestSections_Section tests Sections.Section and the Section helpers.
func TestSections_Section(t *testing.T) {
	t.Parallel()

	s, err := sections.New(strings.NewReader(doxygenSearchData))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := s.Section("none"); got != nil {
		t.Fatalf("Section(none): want: nil, got: %v", got)
	}

	all := s.Section("all")
	if all == nil {
		t.Fatal("Section(all): want section, got nil")
	}
	if want, got := "all_67", all.FileName('g'); want != got {
		t.Fatalf("FileName('g'): want: %q, got: %q", want, got)
	}
	if want, got := "all_67", all.FileName('G'); want != got {
		t.Fatalf("FileName('G'): want: %q, got: %q", want, got)
	}
	if want, got := "all_5f", all.FileName('_'); want != got {
		t.Fatalf("FileName('_'): want: %q, got: %q", want, got)
	}
	if !all.Has('G') {
		t.Fatal("Has('G'): want: true")
	}
	if all.Has('z') {
		t.Fatal("Has('z'): want: false")
	}
	if diff := cmp.Diff([]rune("abcdefg"), all.Chars()); diff != "" {
		t.Fatalf("Chars (-want, +got):\n%s", diff)
	}
}
