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

// Package uname provides unique names.
package uname

import "fmt"

// Unique generates unique versions of names from per-root monotonic counters.
type Unique struct {
	names map[string]int
}

// New name generator.
func New() *Unique {
	return &Unique{names: make(map[string]int)}
}

// Version returns the next version of root, formatted as root.N.
// Versions of a root start at 1 and never repeat.
func (n *Unique) Version(root string) string {
	next := n.names[root] + 1
	n.names[root] = next
	return fmt.Sprintf("%s.%d", root, next)
}
