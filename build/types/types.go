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

// Package types defines the types of the language and the rules
// to implicitly convert values between them.
package types

import (
	"fmt"

	"github.com/minic-org/minic/base/stringseq"
)

type (
	// Type of a value, a variable, or a function.
	Type interface {
		// Base returns the scalar kind the type is built over:
		// the type itself for a simple type, the element type of an array,
		// and the base of the result type of a function.
		Base() Base
		// Equal returns true if both types are the same.
		Equal(Type) bool
		fmt.Stringer
	}

	// Base is a scalar kind. A Base is also a simple Type.
	Base int

	// Array is an array of scalars. The length of an array
	// is a property of its value, not of its type.
	Array struct {
		Elem Base
	}

	// Func is the type of a function.
	Func struct {
		Result Type
		Params []Type
	}
)

// Base kinds.
const (
	Void Base = iota
	Int
	Char
	Float
	Bool
)

var baseNames = [...]string{
	Void:  "void",
	Int:   "int",
	Char:  "char",
	Float: "float",
	Bool:  "bool",
}

// ParseBase returns the base kind given its name in the source.
func ParseBase(name string) (Base, bool) {
	for b, n := range baseNames {
		if n == name {
			return Base(b), true
		}
	}
	return Void, false
}

// Base returns the receiver.
func (b Base) Base() Base { return b }

// Equal returns true if other is the same base kind.
func (b Base) Equal(other Type) bool {
	ob, ok := other.(Base)
	return ok && ob == b
}

func (b Base) String() string {
	if b < 0 || int(b) >= len(baseNames) {
		return fmt.Sprintf("Base(%d)", int(b))
	}
	return baseNames[b]
}

// ArrayOf returns the type of an array of elem.
func ArrayOf(elem Base) Array {
	return Array{Elem: elem}
}

// Base returns the element kind.
func (a Array) Base() Base { return a.Elem }

// Equal returns true if other is an array with the same element kind.
func (a Array) Equal(other Type) bool {
	oa, ok := other.(Array)
	return ok && oa.Elem == a.Elem
}

func (a Array) String() string {
	return a.Elem.String() + "[]"
}

// Base returns the base kind of the result.
func (f Func) Base() Base { return f.Result.Base() }

// Equal returns true if other is a function with the same result
// and pairwise equal parameters.
func (f Func) Equal(other Type) bool {
	of, ok := other.(Func)
	if !ok || !f.Result.Equal(of.Result) || len(f.Params) != len(of.Params) {
		return false
	}
	for i, p := range f.Params {
		if !p.Equal(of.Params[i]) {
			return false
		}
	}
	return true
}

func (f Func) String() string {
	return fmt.Sprintf("%s(%s)", f.Result, stringseq.JoinStringer(f.Params, ", "))
}

// IsSimple returns true if typ is a scalar kind, that is neither
// an array nor a function.
func IsSimple(typ Type) bool {
	_, ok := typ.(Base)
	return ok
}

// IsArray returns true if typ is an array type.
func IsArray(typ Type) bool {
	_, ok := typ.(Array)
	return ok
}

// IsVoid returns true if typ is the void kind.
func IsVoid(typ Type) bool {
	return typ == nil || Void.Equal(typ)
}
