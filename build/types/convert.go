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

package types

import (
	"slices"

	"github.com/minic-org/minic/build/token"
)

// Implicit conversions. The order of the targets is the order
// in which they are tried when resolving a binary operator.
var conversions = map[Base][]Base{
	Int:   {Float, Bool, Char},
	Float: {Bool, Int, Char},
	Bool:  {Int, Char, Float},
	Char:  {Int, Bool, Float},
}

// Conversions returns the kinds a value of type from can be implicitly
// converted to, in resolution order. Arrays, functions, and void
// cannot be converted.
func Conversions(from Type) []Base {
	b, ok := from.(Base)
	if !ok {
		return nil
	}
	return conversions[b]
}

// Convertible returns true if a value of type from can be implicitly
// converted to type to. Identical types are not conversions.
func Convertible(from, to Type) bool {
	tb, ok := to.(Base)
	if !ok {
		return false
	}
	return slices.Contains(Conversions(from), tb)
}

// AssignableTo returns true if a value of type from can be stored
// in a location of type to, either directly or after a conversion.
func AssignableTo(from, to Type) bool {
	return from.Equal(to) || Convertible(from, to)
}

type operands struct {
	x, y Base
}

var (
	arithmetic = map[operands]Base{
		{Int, Int}:     Int,
		{Float, Float}: Float,
	}
	ordering = map[operands]Base{
		{Int, Int}:     Bool,
		{Float, Float}: Bool,
		{Char, Char}:   Bool,
	}
	equality = map[operands]Base{
		{Int, Int}:     Bool,
		{Float, Float}: Bool,
		{Char, Char}:   Bool,
		{Bool, Bool}:   Bool,
	}
	bitwise = map[operands]Base{
		{Int, Int}: Int,
	}
	logical = map[operands]Base{
		{Bool, Bool}: Bool,
	}

	compatibility = map[token.Op]map[operands]Base{
		token.Add:  arithmetic,
		token.Sub:  arithmetic,
		token.Mul:  arithmetic,
		token.Div:  arithmetic,
		token.Geq:  ordering,
		token.Leq:  ordering,
		token.Gtr:  ordering,
		token.Lss:  ordering,
		token.Neq:  equality,
		token.Eql:  equality,
		token.And:  bitwise,
		token.Or:   bitwise,
		token.Xor:  bitwise,
		token.LAnd: logical,
		token.LOr:  logical,
	}
)

// Resolution is the outcome of resolving a binary operator.
type Resolution struct {
	// X and Y are the types the left and right operands need to be
	// converted to, or nil if the operand is used as is.
	X, Y Type
	// Result is the type of the operation.
	Result Type
}

// ResolveBinary finds how to apply op to operands of types x and y.
// Rules are tried in order and the first match wins:
//  1. both operand types are supported as they are,
//  2. the right operand is converted to one of its targets,
//  3. the left operand is converted to one of its targets,
//  4. both operands are arrays of the same element kind compared for
//     (in)equality.
//
// Arrays support no other operator, even when both element kinds match.
// An array comparison is a bool and compares references, not elements.
func ResolveBinary(op token.Op, x, y Type) (Resolution, bool) {
	combos := compatibility[op]
	xb, xSimple := x.(Base)
	yb, ySimple := y.(Base)
	if xSimple && ySimple {
		if res, ok := combos[operands{xb, yb}]; ok {
			return Resolution{Result: res}, true
		}
		for _, target := range conversions[yb] {
			if res, ok := combos[operands{xb, target}]; ok {
				return Resolution{Y: target, Result: res}, true
			}
		}
		for _, target := range conversions[xb] {
			if res, ok := combos[operands{target, yb}]; ok {
				return Resolution{X: target, Result: res}, true
			}
		}
		return Resolution{}, false
	}
	if IsArray(x) && x.Equal(y) && (op == token.Eql || op == token.Neq) {
		return Resolution{Result: Bool}, true
	}
	return Resolution{}, false
}
