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
	"strconv"
)

// Value is a constant of a simple type.
type Value struct {
	Type Base
	// Int holds the value of int and char constants, and 0 or 1 for bool constants.
	Int int64
	// Float holds the value of float constants.
	Float float64
}

// IntValue returns an int constant.
func IntValue(x int64) Value { return Value{Type: Int, Int: x} }

// CharValue returns a char constant given its code.
func CharValue(c rune) Value { return Value{Type: Char, Int: int64(c)} }

// FloatValue returns a float constant.
func FloatValue(x float64) Value { return Value{Type: Float, Float: x} }

// BoolValue returns a bool constant.
func BoolValue(b bool) Value {
	v := Value{Type: Bool}
	if b {
		v.Int = 1
	}
	return v
}

// Bool returns true for a non-zero constant.
func (v Value) Bool() bool {
	if v.Type == Float {
		return v.Float != 0
	}
	return v.Int != 0
}

func (v Value) String() string {
	switch v.Type {
	case Float:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(v.Int != 0)
	case Char:
		return strconv.QuoteRune(rune(v.Int))
	}
	return strconv.FormatInt(v.Int, 10)
}
