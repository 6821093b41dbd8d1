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

// Package folding provides the text folding used to compare search labels
// with user queries.
package folding

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
)

// Default returns a transformer that performs Unicode case folding only.
// Whitespace is kept as is. Transformers carry state so a new one is needed
// for every string.
func Default() transform.Transformer {
	return cases.Fold()
}

// Loose returns a transformer that performs Unicode case folding followed by
// whitespace folding.
func Loose() transform.Transformer {
	return transform.Chain(cases.Fold(), &Whitespace{})
}

// String folds s with a new transformer from f.
func String(f func() transform.Transformer, s string) (string, error) {
	//nolint:wrapcheck // callers add context.
	folded, _, err := transform.String(f(), s)
	return folded, err
}
