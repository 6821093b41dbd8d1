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
	"bytes"
	"fmt"
	"strings"

	"github.com/ianlewis/go-doxsearch/searchdata"
	"github.com/ianlewis/go-doxsearch/sections"
)

// MakeSearchData makes a test fragment given a list of entries, formatted the
// way Doxygen writes them.
func MakeSearchData(entries []*searchdata.Entry) []byte {
	var b bytes.Buffer
	b.WriteString("var searchData=\n[\n")
	for i, e := range entries {
		fmt.Fprintf(&b, "  [%s,[%s", quote(e.Key), quote(e.Label))
		for _, t := range e.Targets {
			flag := 0
			if t.Local {
				flag = 1
			}
			fmt.Fprintf(&b, ",[%s,%d,%s]", quote(t.URL), flag, quote(t.Scope))
		}
		b.WriteString("]]")
		if i < len(entries)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("];\n")
	return b.Bytes()
}

// MakeSections makes a test searchdata.js file describing the given
// sections.
func MakeSections(secs []*sections.Section) []byte {
	var b bytes.Buffer
	writeVar := func(name string, value func(*sections.Section) string) {
		fmt.Fprintf(&b, "var %s =\n{\n", name)
		for i, s := range secs {
			fmt.Fprintf(&b, "  %d: %s", s.ID, jsonQuote(value(s)))
			if i < len(secs)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString("};\n\n")
	}
	writeVar("indexSectionsWithContent", func(s *sections.Section) string { return s.Content })
	writeVar("indexSectionNames", func(s *sections.Section) string { return s.Name })
	writeVar("indexSectionLabels", func(s *sections.Section) string { return s.Label })
	return b.Bytes()
}

// quote returns s as a single quoted JavaScript string.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}

// jsonQuote returns s as a double quoted JavaScript string.
func jsonQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
