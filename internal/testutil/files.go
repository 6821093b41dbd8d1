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

package testutil

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/ianlewis/go-dictzip"

	"github.com/ianlewis/go-doxsearch/searchdata"
	"github.com/ianlewis/go-doxsearch/sections"
)

// Compression is a compression format for test files.
type Compression int

const (
	// None writes plain files.
	None Compression = iota

	// Gzip writes gzip files with a .gz suffix.
	Gzip

	// DictZip writes dictzip files with a .dz suffix.
	DictZip
)

// Ext returns the file name suffix for the compression format.
func (c Compression) Ext() string {
	switch c {
	case Gzip:
		return ".gz"
	case DictZip:
		return ".dz"
	default:
		return ""
	}
}

// WriteFile writes data to path plus the compression suffix and returns the
// full path.
func WriteFile(t *testing.T, path string, data []byte, c Compression) string {
	t.Helper()

	path += c.Ext()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	switch c {
	case Gzip:
		z := gzip.NewWriter(f)
		if _, err := z.Write(data); err != nil {
			t.Fatal(err)
		}
		if err := z.Close(); err != nil {
			t.Fatal(err)
		}
	case DictZip:
		z, err := dictzip.NewWriter(f)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := z.Write(data); err != nil {
			t.Fatal(err)
		}
		if err := z.Close(); err != nil {
			t.Fatal(err)
		}
	default:
		if _, err := f.Write(data); err != nil {
			t.Fatal(err)
		}
	}

	return path
}

// Site describes a test search directory.
type Site struct {
	// Sections are written to searchdata.js.
	Sections []*sections.Section

	// Fragments maps fragment base names (e.g. "all_67") to their entries.
	Fragments map[string][]*searchdata.Entry

	// Compression is used for fragment files. searchdata.js is always
	// written uncompressed.
	Compression Compression
}

// MakeSite writes the site to dir, creating it if needed, and returns dir.
func MakeSite(t *testing.T, dir string, site *Site) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	WriteFile(t, filepath.Join(dir, "searchdata.js"), MakeSections(site.Sections), None)
	for name, entries := range site.Fragments {
		WriteFile(t, filepath.Join(dir, name+".js"), MakeSearchData(entries), site.Compression)
	}
	return dir
}
