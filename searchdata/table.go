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
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/transform"

	"github.com/ianlewis/go-doxsearch/internal/doxyid"
	"github.com/ianlewis/go-doxsearch/internal/folding"
	"github.com/ianlewis/go-doxsearch/internal/index"
)

// Options are options for a Table.
type Options struct {
	// Folder returns a [transform.Transformer] that performs folding (e.g.
	// case folding, whitespace folding, etc.) on labels, keys and queries.
	Folder func() transform.Transformer
}

// DefaultOptions is the default options for a Table. Labels and queries are
// case folded. Whitespace is matched literally.
var DefaultOptions = &Options{
	Folder: folding.Default,
}

// record is an entry along with its folded forms.
type record struct {
	entry *Entry

	// label is the folded label.
	label string

	// key is the folded escaped key.
	key string

	// name is the folded decoded key.
	name string
}

// Table is an immutable in-memory search index fragment. It is safe for
// concurrent use.
type Table struct {
	// records are in file order.
	records []*record

	byLabel *index.Index[*record]
	byName  *index.Index[*record]

	foldTransformer func() transform.Transformer
}

// New returns a new Table by reading the fragment from r. New closes r.
func New(r io.ReadCloser, options *Options) (*Table, error) {
	s := NewScanner(r)
	defer s.Close()

	var entries []*Entry
	for s.Scan() {
		entries = append(entries, s.Entry())
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scanning search data: %w", err)
	}

	return NewFromEntries(entries, options)
}

// NewFromEntries returns a new Table holding entries in the given order.
// Every entry is validated.
func NewFromEntries(entries []*Entry, options *Options) (*Table, error) {
	if options == nil {
		options = DefaultOptions
	}

	t := &Table{
		foldTransformer: DefaultOptions.Folder,
	}
	if options.Folder != nil {
		t.foldTransformer = options.Folder
	}

	t.records = make([]*record, 0, len(entries))
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		// Validate guarantees the key decodes.
		name, _ := doxyid.Decode(e.Key)

		r := &record{entry: e}
		var err error
		if r.label, err = t.fold(e.Label); err != nil {
			return nil, fmt.Errorf("folding label %q: %w", e.Label, err)
		}
		if r.key, err = t.fold(e.Key); err != nil {
			return nil, fmt.Errorf("folding key %q: %w", e.Key, err)
		}
		if r.name, err = t.fold(name); err != nil {
			return nil, fmt.Errorf("folding key %q: %w", name, err)
		}
		t.records = append(t.records, r)
	}

	t.byLabel = index.NewIndex(t.records, func(r *record) string { return r.label })
	t.byName = index.NewIndex(t.records, func(r *record) string { return r.name })

	return t, nil
}

// Open reads the fragment at path. Files ending in .gz or .dz are
// decompressed.
func Open(path string, options *Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening search data: %w", err)
	}

	var r io.ReadCloser = f
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".gz" || ext == ".dz" {
		// dictzip files are gzip files with extra random access headers.
		z, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("creating gzip reader for %q: %w", path, err)
		}
		r = &gzipFile{Reader: z, f: f}
	}

	t, err := New(r, options)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return t, nil
}

// gzipFile closes both the gzip stream and the underlying file.
type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	zErr := g.Reader.Close()
	fErr := g.f.Close()
	if zErr != nil {
		return fmt.Errorf("closing gzip stream: %w", zErr)
	}
	if fErr != nil {
		return fmt.Errorf("closing file: %w", fErr)
	}
	return nil
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.records)
}

// Entries returns all entries in file order.
func (t *Table) Entries() []*Entry {
	entries := make([]*Entry, 0, len(t.records))
	for _, r := range t.records {
		entries = append(entries, r.entry)
	}
	return entries
}

// Search returns the entries whose label or key contains query, ignoring
// case, in file order. An empty query matches every entry. Search returns nil
// if nothing matches.
func (t *Table) Search(query string) []*Entry {
	q := t.foldQuery(query)

	var entries []*Entry
	for _, r := range t.records {
		if strings.Contains(r.label, q) || strings.Contains(r.key, q) || strings.Contains(r.name, q) {
			entries = append(entries, r.entry)
		}
	}
	return entries
}

// Lookup returns the entries whose label equals label, ignoring case, in
// file order.
func (t *Table) Lookup(label string) []*Entry {
	return entriesOf(t.byLabel.Search(t.foldQuery(label)))
}

// SearchPrefix returns the entries whose decoded key starts with prefix,
// ignoring case. Results are ordered by key and entries with equal keys keep
// file order.
func (t *Table) SearchPrefix(prefix string) []*Entry {
	return entriesOf(t.byName.Prefix(t.foldQuery(prefix)))
}

func (t *Table) fold(s string) (string, error) {
	return folding.String(t.foldTransformer, s)
}

// foldQuery folds a query. A query that cannot be folded is used verbatim.
func (t *Table) foldQuery(query string) string {
	q, err := t.fold(query)
	if err != nil {
		return query
	}
	return q
}

func entriesOf(records []*record) []*Entry {
	var entries []*Entry
	for _, r := range records {
		entries = append(entries, r.entry)
	}
	return entries
}
