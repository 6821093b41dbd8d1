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
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/transform"

	"github.com/ianlewis/go-doxsearch/internal/folding"
	"github.com/ianlewis/go-doxsearch/searchdata"
	"github.com/ianlewis/go-doxsearch/sections"
)

const searchDataFile = "searchdata.js"

var (
	// ErrNotSite indicates a directory without a searchdata.js file.
	ErrNotSite = errors.New("not a Doxygen search directory")

	// ErrUnknownSection indicates a section name not listed in searchdata.js.
	ErrUnknownSection = errors.New("unknown section")

	// ErrNoFragment indicates that no fragment file exists for a section and
	// first character.
	ErrNoFragment = errors.New("no fragment")
)

// Options are options for opening a Site.
type Options struct {
	// Folder returns a [transform.Transformer] that performs folding on
	// labels, keys and queries. See [searchdata.Options].
	Folder func() transform.Transformer

	// Logger receives debug logs. A nil Logger disables logging.
	Logger *zap.Logger

	// Concurrency bounds the number of fragments Find loads at once.
	Concurrency int
}

// DefaultOptions is the default options for a Site.
var DefaultOptions = &Options{
	Folder:      folding.Default,
	Concurrency: 4,
}

// Site is a Doxygen search directory. Site is safe for concurrent use.
type Site struct {
	dir      string
	sections *sections.Sections

	folder      func() transform.Transformer
	logger      *zap.Logger
	concurrency int

	mu     sync.Mutex
	tables map[string]*searchdata.Table
	loads  singleflight.Group
}

// OpenAll opens all search directories under a directory. This function will
// return all successfully opened sites along with any errors that occurred.
func OpenAll(path string, options *Options) ([]*Site, []error) {
	var sites []*Site
	var errs []error
	if err := filepath.WalkDir(path, func(path string, info fs.DirEntry, err error) error {
		// Walking the file path will ignore errors.
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if !info.IsDir() && info.Name() == searchDataFile {
			site, err := Open(filepath.Dir(path), options)
			if err != nil {
				errs = append(errs, err)
				return nil
			}
			sites = append(sites, site)
		}
		return nil
	}); err != nil {
		errs = append(errs, err)
		return nil, errs
	}
	return sites, errs
}

// Open opens the search directory at path. path may also be the HTML output
// directory containing the search directory.
func Open(path string, options *Options) (*Site, error) {
	if options == nil {
		options = DefaultOptions
	}

	s := &Site{
		folder:      DefaultOptions.Folder,
		logger:      zap.NewNop(),
		concurrency: DefaultOptions.Concurrency,
		tables:      map[string]*searchdata.Table{},
	}
	if options.Folder != nil {
		s.folder = options.Folder
	}
	if options.Logger != nil {
		s.logger = options.Logger
	}
	if options.Concurrency > 0 {
		s.concurrency = options.Concurrency
	}

	for _, dir := range []string{path, filepath.Join(path, "search")} {
		if _, err := os.Stat(filepath.Join(dir, searchDataFile)); err == nil {
			s.dir = dir
			break
		}
	}
	if s.dir == "" {
		return nil, fmt.Errorf("%w: %q", ErrNotSite, path)
	}

	sdPath := filepath.Join(s.dir, searchDataFile)
	f, err := os.Open(sdPath)
	if err != nil {
		return nil, fmt.Errorf("error opening %q: %w", sdPath, err)
	}
	defer f.Close()

	s.sections, err = sections.New(f)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", sdPath, err)
	}

	s.logger.Debug("opened search directory",
		zap.String("dir", s.dir),
		zap.Int("sections", len(s.sections.All())))

	return s, nil
}

// OpenTable opens a single fragment file.
func OpenTable(path string, options *Options) (*searchdata.Table, error) {
	if options == nil {
		options = DefaultOptions
	}
	//nolint:wrapcheck // searchdata.Open adds the path.
	return searchdata.Open(path, &searchdata.Options{Folder: options.Folder})
}

// Dir returns the search directory.
func (s *Site) Dir() string {
	return s.dir
}

// Sections returns the sections of the search index in ID order.
func (s *Site) Sections() []*sections.Section {
	return s.sections.All()
}

// Table returns the fragment for section and first character c, loading it
// on first use.
func (s *Site) Table(section string, c rune) (*searchdata.Table, error) {
	sec := s.sections.Section(section)
	if sec == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	if !sec.Has(c) {
		return nil, fmt.Errorf("%w: section %q, character %q", ErrNoFragment, section, c)
	}

	name := sec.FileName(c)

	s.mu.Lock()
	t, ok := s.tables[name]
	s.mu.Unlock()
	if ok {
		return t, nil
	}

	v, err, _ := s.loads.Do(name, func() (any, error) {
		// A previous load may have finished since the cache was checked.
		s.mu.Lock()
		t, ok := s.tables[name]
		s.mu.Unlock()
		if ok {
			return t, nil
		}

		t, err := s.load(name)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.tables[name] = t
		s.mu.Unlock()
		return t, nil
	})
	if err != nil {
		//nolint:wrapcheck // load adds context.
		return nil, err
	}
	return v.(*searchdata.Table), nil
}

// Search performs the lookup of the Doxygen search widget: the fragment for
// the query's first character is loaded and its entries whose key starts
// with the query are returned.
func (s *Site) Search(section, query string) ([]*searchdata.Entry, error) {
	folded, err := folding.String(s.folder, query)
	if err != nil {
		return nil, fmt.Errorf("folding query %q: %w", query, err)
	}
	if folded == "" {
		return nil, nil
	}
	c, _ := utf8.DecodeRuneInString(folded)

	t, err := s.Table(section, c)
	if errors.Is(err, ErrNoFragment) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t.SearchPrefix(query), nil
}

// Find returns the entries of every fragment of section whose label or key
// contains query, ignoring case. Fragments are loaded concurrently and
// results are ordered by fragment, then by file order.
func (s *Site) Find(ctx context.Context, section, query string) ([]*searchdata.Entry, error) {
	sec := s.sections.Section(section)
	if sec == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}

	chars := sec.Chars()
	results := make([][]*searchdata.Entry, len(chars))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, c := range chars {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := s.Table(section, c)
			if err != nil {
				return err
			}
			results[i] = t.Search(query)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		//nolint:wrapcheck // Table adds context.
		return nil, err
	}

	var entries []*searchdata.Entry
	for _, r := range results {
		entries = append(entries, r...)
	}
	return entries, nil
}

// ResolveURL resolves the target's URL against the search directory, which
// yields a path inside the HTML output directory. External URLs are returned
// as is.
func (s *Site) ResolveURL(t *searchdata.Target) string {
	if !t.Local || strings.Contains(t.URL, "://") {
		return t.URL
	}
	return path.Join(filepath.ToSlash(s.dir), t.URL)
}

// load reads the fragment file with the given base name.
func (s *Site) load(name string) (*searchdata.Table, error) {
	p := findFragmentPath(filepath.Join(s.dir, name))
	if p == "" {
		return nil, fmt.Errorf("fragment %q: %w", filepath.Join(s.dir, name), os.ErrNotExist)
	}

	s.logger.Debug("loading fragment", zap.String("path", p))
	t, err := searchdata.Open(p, &searchdata.Options{Folder: s.folder})
	if err != nil {
		//nolint:wrapcheck // searchdata.Open adds the path.
		return nil, err
	}
	s.logger.Debug("loaded fragment", zap.String("path", p), zap.Int("entries", t.Len()))
	return t, nil
}

// findFragmentPath returns the path of the fragment file for the base path,
// or an empty string if none exists.
func findFragmentPath(base string) string {
	exts := []string{".js", ".js.gz", ".js.dz", ".JS", ".JS.gz", ".JS.GZ", ".JS.DZ"}
	for _, ext := range exts {
		p := base + ext
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
