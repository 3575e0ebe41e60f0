// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package stringseq provides functions for converting iterator sequences to strings.
package stringseq

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Join concatenates the elements of its first argument to create a single string. The separator
// string sep is placed between elements in the resulting string.
func Join(seq iter.Seq[string], sep string) string {
	var b strings.Builder
	n := 0
	for item := range seq {
		if n > 0 {
			b.WriteString(sep)
		}
		b.WriteString(item)
		n++
	}
	return b.String()
}

// Map returns a sequence applying f to every element of seq.
func Map[T any](seq iter.Seq[T], f func(T) string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for item := range seq {
			if !yield(f(item)) {
				return
			}
		}
	}
}

// JoinFunc formats every element of a slice with f and joins the results with sep.
func JoinFunc[T any](items []T, f func(T) string, sep string) string {
	return Join(Map(slices.Values(items), f), sep)
}

// JoinStringer joins the string representation of every element of a slice with sep.
func JoinStringer[T fmt.Stringer](items []T, sep string) string {
	return JoinFunc(items, func(x T) string { return x.String() }, sep)
}
