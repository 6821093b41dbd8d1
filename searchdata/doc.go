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

// Package searchdata implements reading Doxygen search index fragments.
//
// A fragment is a JavaScript file such as search/all_67.js that assigns a
// single array literal to the searchData variable:
//
//	var searchData=
//	[
//	  ['get_5fkind',['get_kind',['../a.html#x',1,'dnnl::engine::get_kind()'],...]],
//	  ...
//	];
//
// Each element has three parts:
//  1. The key: the lowercase label escaped so that only ASCII letters and
//     digits remain. Other bytes are written as an underscore followed by two
//     hex digits.
//  2. The label: the text shown in search results.
//  3. One or more targets: the anchor URL relative to the search directory,
//     a flag that is 1 for links inside the documentation and 0 for external
//     links, and the label of the enclosing scope.
//
// A Table holds a fragment in memory and answers case-insensitive substring
// queries in file order. Scanner reads a fragment one entry at a time.
package searchdata
