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

package index

import (
	"slices"
	"sort"
	"strings"
)

type keyed[V any] struct {
	key   string
	value V
}

// Index is a sorted array index over string keys. Values with equal keys keep
// the order in which they were given to NewIndex.
type Index[V any] struct {
	// sorted by key, then by original position.
	index []keyed[V]
}

// NewIndex creates an index of values using key to compute each value's
// sort key.
func NewIndex[V any](values []V, key func(V) string) *Index[V] {
	sorted := make([]keyed[V], 0, len(values))
	for _, v := range values {
		sorted = append(sorted, keyed[V]{key: key(v), value: v})
	}
	slices.SortStableFunc(sorted, func(a, b keyed[V]) int {
		return strings.Compare(a.key, b.key)
	})

	return &Index[V]{
		index: sorted,
	}
}

// Len returns the number of values in the index.
func (idx *Index[V]) Len() int {
	return len(idx.index)
}

// Search performs a binary search over the index and returns the values
// whose key equals query.
func (idx *Index[V]) Search(query string) []V {
	i, found := sort.Find(len(idx.index), func(i int) int {
		return strings.Compare(query, idx.index[i].key)
	})
	if !found {
		return nil
	}

	var result []V
	for ; i < len(idx.index) && idx.index[i].key == query; i++ {
		result = append(result, idx.index[i].value)
	}
	return result
}

// Prefix returns the values whose key starts with prefix in key order.
func (idx *Index[V]) Prefix(prefix string) []V {
	i := sort.Search(len(idx.index), func(i int) bool {
		return idx.index[i].key >= prefix
	})

	var result []V
	for ; i < len(idx.index) && strings.HasPrefix(idx.index[i].key, prefix); i++ {
		result = append(result, idx.index[i].value)
	}
	return result
}
