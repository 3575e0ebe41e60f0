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

// Package scope provides a generic chain of lexical namespaces.
package scope

import (
	"iter"

	"github.com/pkg/errors"
)

// Scope stores key,value pairs local to a lexical level.
// A value can be retrieved from its key by querying the scope and,
// if not found, its parents recursively.
type Scope[V any] struct {
	parent *Scope[V]
	local  map[string]V
}

// New returns a new scope given a parent, which can be nil.
func New[V any](parent *Scope[V]) *Scope[V] {
	return &Scope[V]{
		parent: parent,
		local:  make(map[string]V),
	}
}

// Define maps `key` to `value` in the local level.
// It fails if `key` is already defined at this level.
func (s *Scope[V]) Define(key string, value V) error {
	if _, exists := s.local[key]; exists {
		return errors.Errorf("%s already defined in this scope", key)
	}
	s.local[key] = value
	return nil
}

// FindLocal returns the value defined for key at this level only.
func (s *Scope[V]) FindLocal(key string) (V, bool) {
	value, ok := s.local[key]
	return value, ok
}

// Find a key in the scope and its parents. The nearest definition wins.
func (s *Scope[V]) Find(key string) (value V, ok bool) {
	for level := range s.Chain() {
		if value, ok = level.local[key]; ok {
			return
		}
	}
	return
}

// Chain iterates from this scope outward to the root.
func (s *Scope[V]) Chain() iter.Seq[*Scope[V]] {
	return func(yield func(*Scope[V]) bool) {
		for level := s; level != nil; level = level.parent {
			if !yield(level) {
				return
			}
		}
	}
}
