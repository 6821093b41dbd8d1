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

package doxsearch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ianlewis/go-doxsearch/internal/folding"
	"github.com/ianlewis/go-doxsearch/internal/testutil"
	"github.com/ianlewis/go-doxsearch/searchdata"
	"github.com/ianlewis/go-doxsearch/sections"
)

func entry(key, label, url, scope string) *searchdata.Entry {
	return &searchdata.Entry{
		Key:     key,
		Label:   label,
		Targets: []*searchdata.Target{{URL: url, Local: true, Scope: scope}},
	}
}

func labels(entries []*searchdata.Entry) []string {
	var l []string
	for _, e := range entries {
		l = append(l, e.Label)
	}
	return l
}

func testSite() *testutil.Site {
	return &testutil.Site{
		Sections: []*sections.Section{
			{ID: 0, Name: "all", Label: "All", Content: "ag"},
			{ID: 1, Name: "classes", Label: "Classes", Content: "g"},
		},
		Fragments: map[string][]*searchdata.Entry{
			"all_61": {
				entry("append", "append", "../a.html#1", "dnnl::post_ops"),
				entry("append_5fsum", "append_sum", "../a.html#2", "dnnl::post_ops"),
			},
			"all_67": {
				entry("get", "get", "../handle.html#1", "dnnl::handle"),
				entry("get_5fsum", "get_sum", "../a.html#3", "dnnl::post_ops"),
				entry("gru_5fforward", "gru_forward", "../gru.html", "dnnl"),
			},
			"classes_67": {
				entry("gru_5fforward", "gru_forward", "../gru.html", "dnnl"),
			},
		},
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	searchDir := testutil.MakeSite(t, filepath.Join(root, "search"), testSite())

	for _, path := range []string{searchDir, root} {
		s, err := Open(path, nil)
		if err != nil {
			t.Fatalf("Open(%q): %v", path, err)
		}
		if want, got := searchDir, s.Dir(); want != got {
			t.Fatalf("Dir: want: %q, got: %q", want, got)
		}
		want := []string{"all", "classes"}
		var got []string
		for _, sec := range s.Sections() {
			got = append(got, sec.Name)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("Sections (-want, +got):\n%s", diff)
		}
	}
}

func TestOpen_errors(t *testing.T) {
	t.Parallel()

	t.Run("not a site", func(t *testing.T) {
		t.Parallel()

		if _, err := Open(t.TempDir(), nil); !errors.Is(err, ErrNotSite) {
			t.Fatalf("Open: want: %v, got: %v", ErrNotSite, err)
		}
	})

	t.Run("bad searchdata.js", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		testutil.WriteFile(t, filepath.Join(dir, "searchdata.js"), []byte("var x = [1];"), testutil.None)
		if _, err := Open(dir, nil); !errors.Is(err, sections.ErrMalformed) {
			t.Fatalf("Open: want: %v, got: %v", sections.ErrMalformed, err)
		}
	})
}

func TestOpenAll(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.MakeSite(t, filepath.Join(root, "a", "html", "search"), testSite())
	testutil.MakeSite(t, filepath.Join(root, "b", "search"), testSite())
	broken := filepath.Join(root, "c")
	if err := os.MkdirAll(broken, 0o700); err != nil {
		t.Fatal(err)
	}
	testutil.WriteFile(t, filepath.Join(broken, "searchdata.js"), []byte("not javascript"), testutil.None)

	sites, errs := OpenAll(root, nil)
	if want, got := 2, len(sites); want != got {
		t.Fatalf("OpenAll: want %d sites, got %d", want, got)
	}
	if want, got := 1, len(errs); want != got {
		t.Fatalf("OpenAll: want %d errors, got %d: %v", want, got, errs)
	}
}

func TestSite_Search(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		section  string
		query    string
		expected []string
		err      error
	}{
		{
			name:     "prefix",
			section:  "all",
			query:    "get",
			expected: []string{"get", "get_sum"},
		},
		{
			name:     "case insensitive",
			section:  "all",
			query:    "GRU",
			expected: []string{"gru_forward"},
		},
		{
			name:     "other fragment",
			section:  "all",
			query:    "append_",
			expected: []string{"append_sum"},
		},
		{
			name:     "substring is not a prefix",
			section:  "all",
			query:    "sum",
			expected: nil,
		},
		{
			name:     "no fragment for character",
			section:  "all",
			query:    "zeta",
			expected: nil,
		},
		{
			name:     "empty query",
			section:  "all",
			query:    "",
			expected: nil,
		},
		{
			name:     "space is not folded",
			section:  "all",
			query:    " get",
			expected: nil,
		},
		{
			name:     "section",
			section:  "classes",
			query:    "g",
			expected: []string{"gru_forward"},
		},
		{
			name:    "unknown section",
			section: "files",
			query:   "g",
			err:     ErrUnknownSection,
		},
	}

	s, err := Open(testutil.MakeSite(t, t.TempDir(), testSite()), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := s.Search(test.section, test.query)
			if !errors.Is(err, test.err) {
				t.Fatalf("Search: want: %v, got: %v", test.err, err)
			}
			if diff := cmp.Diff(test.expected, labels(got)); diff != "" {
				t.Fatalf("Search (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestSite_Find(t *testing.T) {
	t.Parallel()

	for _, c := range []testutil.Compression{testutil.None, testutil.Gzip, testutil.DictZip} {
		site := testSite()
		site.Compression = c
		s, err := Open(testutil.MakeSite(t, t.TempDir(), site), &Options{Concurrency: 1})
		if err != nil {
			t.Fatalf("Open: %v", err)
		}

		got, err := s.Find(context.Background(), "all", "SUM")
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		// Fragments are ordered by the section's content.
		if diff := cmp.Diff([]string{"append_sum", "get_sum"}, labels(got)); diff != "" {
			t.Fatalf("Find (-want, +got):\n%s", diff)
		}

		for _, query := range []string{"nothing", "sum ", " sum", "get  sum"} {
			got, err = s.Find(context.Background(), "all", query)
			if err != nil {
				t.Fatalf("Find(%q): %v", query, err)
			}
			if got != nil {
				t.Fatalf("Find(%q): want: nil, got: %v", query, labels(got))
			}
		}
	}
}

func TestSite_Find_loose(t *testing.T) {
	t.Parallel()

	s, err := Open(testutil.MakeSite(t, t.TempDir(), testSite()), &Options{Folder: folding.Loose})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	got, err := s.Find(context.Background(), "all", "  SUM ")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if diff := cmp.Diff([]string{"append_sum", "get_sum"}, labels(got)); diff != "" {
		t.Fatalf("Find (-want, +got):\n%s", diff)
	}
}

func TestSite_Find_errors(t *testing.T) {
	t.Parallel()

	t.Run("missing fragment", func(t *testing.T) {
		t.Parallel()

		site := testSite()
		delete(site.Fragments, "all_61")
		s, err := Open(testutil.MakeSite(t, t.TempDir(), site), nil)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if _, err := s.Find(context.Background(), "all", "get"); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("Find: want: %v, got: %v", os.ErrNotExist, err)
		}
	})

	t.Run("malformed fragment", func(t *testing.T) {
		t.Parallel()

		dir := testutil.MakeSite(t, t.TempDir(), testSite())
		testutil.WriteFile(t, filepath.Join(dir, "all_67.js"), []byte("var searchData=[['g',"), testutil.None)
		s, err := Open(dir, nil)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if _, err := s.Find(context.Background(), "all", "get"); !errors.Is(err, searchdata.ErrMalformed) {
			t.Fatalf("Find: want: %v, got: %v", searchdata.ErrMalformed, err)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()

		s, err := Open(testutil.MakeSite(t, t.TempDir(), testSite()), nil)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := s.Find(ctx, "all", "get"); !errors.Is(err, context.Canceled) {
			t.Fatalf("Find: want: %v, got: %v", context.Canceled, err)
		}
	})

	t.Run("unknown section", func(t *testing.T) {
		t.Parallel()

		s, err := Open(testutil.MakeSite(t, t.TempDir(), testSite()), nil)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if _, err := s.Find(context.Background(), "files", "get"); !errors.Is(err, ErrUnknownSection) {
			t.Fatalf("Find: want: %v, got: %v", ErrUnknownSection, err)
		}
	})
}

func TestSite_Table(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	s, err := Open(testutil.MakeSite(t, t.TempDir(), testSite()), &Options{Logger: zap.New(core)})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// Concurrent callers share a single load.
	var wg sync.WaitGroup
	tables := make([]*searchdata.Table, 8)
	for i := range tables {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tbl, err := s.Table("all", 'g')
			if err != nil {
				t.Errorf("Table: %v", err)
				return
			}
			tables[i] = tbl
		}()
	}
	wg.Wait()

	for _, tbl := range tables {
		if tbl != tables[0] {
			t.Fatal("Table: want the same cached table")
		}
	}
	if want, got := 3, tables[0].Len(); want != got {
		t.Fatalf("Len: want: %d, got: %d", want, got)
	}
	if want, got := 1, logs.FilterMessage("loading fragment").Len(); want != got {
		t.Fatalf("loading fragment logs: want: %d, got: %d", want, got)
	}

	if _, err := s.Table("all", 'z'); !errors.Is(err, ErrNoFragment) {
		t.Fatalf("Table('z'): want: %v, got: %v", ErrNoFragment, err)
	}
}

func TestSite_ResolveURL(t *testing.T) {
	t.Parallel()

	s, err := Open(testutil.MakeSite(t, filepath.Join(t.TempDir(), "html", "search"), testSite()), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	htmlDir := filepath.ToSlash(filepath.Dir(s.Dir()))

	tests := []struct {
		target   *searchdata.Target
		expected string
	}{
		{
			target:   &searchdata.Target{URL: "../structdnnl_1_1engine.html#a6e9", Local: true},
			expected: htmlDir + "/structdnnl_1_1engine.html#a6e9",
		},
		{
			target:   &searchdata.Target{URL: "https://example.com/a.html", Local: true},
			expected: "https://example.com/a.html",
		},
		{
			target:   &searchdata.Target{URL: "../../other/a.html"},
			expected: "../../other/a.html",
		},
	}

	for _, test := range tests {
		if got := s.ResolveURL(test.target); got != test.expected {
			t.Errorf("ResolveURL(%q): want: %q, got: %q", test.target.URL, test.expected, got)
		}
	}
}

func TestOpenTable(t *testing.T) {
	t.Parallel()

	path := filepath.Join("searchdata", "testdata", "all_67.js")
	table, err := OpenTable(path, nil)
	if err != nil {
		t.Fatalf("OpenTable: %v", err)
	}
	if want, got := 4, len(table.Search("gru")); want != got {
		t.Fatalf("Search: want %d entries, got %d", want, got)
	}
}
