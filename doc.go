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

// Package doxsearch implements a library for reading the client side search
// index of Doxygen HTML documentation in pure Go.
//
// The search/ directory of Doxygen HTML output contains several files:
//  1. searchdata.js lists the sections of the index (all, classes,
//     functions, ...) and the first characters each section has entries
//     for. See package sections.
//  2. One fragment per section and first character, e.g. all_67.js holds
//     the entries of the "all" section whose keys start with 'g' (0x67).
//     See package searchdata.
//  3. HTML pages and scripts for the search widget, which are ignored.
//
// A Site loads fragments lazily as queries need them.
package doxsearch
