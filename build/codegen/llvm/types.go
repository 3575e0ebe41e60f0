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

package llvm

import (
	"fmt"
	"math"
	"strconv"

	"github.com/minic-org/minic/build/codegen"
	"github.com/minic-org/minic/build/token"
	"github.com/minic-org/minic/build/types"
)

// Folder evaluates constant expressions with the arithmetic of the target:
// chars are unsigned bytes and floats are doubles.
var Folder = codegen.Folder{CharBits: 8, FloatBits: 64}

var (
	typeNames = map[types.Base]string{
		types.Void:  "void",
		types.Int:   "i32",
		types.Char:  "i8",
		types.Float: "double",
		types.Bool:  "i1",
	}
	zeros = map[types.Base]string{
		types.Int:   "0",
		types.Char:  "0",
		types.Float: "0.0",
		types.Bool:  "false",
	}
	elemSizes = map[types.Base]int{
		types.Int:   4,
		types.Char:  1,
		types.Float: 8,
		types.Bool:  1,
	}
)

// typeName returns the name of a type in the IR. Arrays are pointers
// to their first element.
func typeName(typ types.Type) string {
	if types.IsArray(typ) {
		return "ptr"
	}
	return typeNames[typ.Base()]
}

func zero(typ types.Type) string {
	if types.IsArray(typ) {
		return "null"
	}
	return zeros[typ.Base()]
}

// constant returns the operand of a constant value.
func constant(val types.Value) string {
	switch val.Type {
	case types.Bool:
		return strconv.FormatBool(val.Int != 0)
	case types.Char:
		return strconv.Itoa(int(int8(uint8(val.Int))))
	case types.Float:
		return fmt.Sprintf("0x%016X", math.Float64bits(val.Float))
	}
	return strconv.FormatInt(int64(int32(val.Int)), 10)
}

type opKey struct {
	op   token.Op
	kind types.Base
}

// binaryOps maps operators, given the kind of their operands, to instructions.
// Chars are unsigned. Float comparisons are ordered except for
// inequality which is true if an operand is not a number.
var binaryOps = map[opKey]string{
	{token.Add, types.Int}:    "add",
	{token.Sub, types.Int}:    "sub",
	{token.Mul, types.Int}:    "mul",
	{token.Div, types.Int}:    "sdiv",
	{token.Eql, types.Int}:    "icmp eq",
	{token.Neq, types.Int}:    "icmp ne",
	{token.Lss, types.Int}:    "icmp slt",
	{token.Leq, types.Int}:    "icmp sle",
	{token.Gtr, types.Int}:    "icmp sgt",
	{token.Geq, types.Int}:    "icmp sge",
	{token.And, types.Int}:    "and",
	{token.Or, types.Int}:     "or",
	{token.Xor, types.Int}:    "xor",
	{token.Eql, types.Char}:   "icmp eq",
	{token.Neq, types.Char}:   "icmp ne",
	{token.Lss, types.Char}:   "icmp ult",
	{token.Leq, types.Char}:   "icmp ule",
	{token.Gtr, types.Char}:   "icmp ugt",
	{token.Geq, types.Char}:   "icmp uge",
	{token.Add, types.Float}:  "fadd",
	{token.Sub, types.Float}:  "fsub",
	{token.Mul, types.Float}:  "fmul",
	{token.Div, types.Float}:  "fdiv",
	{token.Eql, types.Float}:  "fcmp oeq",
	{token.Neq, types.Float}:  "fcmp une",
	{token.Lss, types.Float}:  "fcmp olt",
	{token.Leq, types.Float}:  "fcmp ole",
	{token.Gtr, types.Float}:  "fcmp ogt",
	{token.Geq, types.Float}:  "fcmp oge",
	{token.Eql, types.Bool}:   "icmp eq",
	{token.Neq, types.Bool}:   "icmp ne",
	{token.LAnd, types.Bool}:  "and",
	{token.LOr, types.Bool}:   "or",
	{token.Eql, types.Void}:   "icmp eq",
	{token.Neq, types.Void}:   "icmp ne",
}

// arrayKind keys the comparison of arrays in binaryOps.
const arrayKind = types.Void

type convKey struct {
	from, to types.Base
}

// conversions maps conversions to a cast instruction. Conversions to bool
// are comparisons with zero and are not listed.
var conversions = map[convKey]string{
	{types.Int, types.Float}:  "sitofp",
	{types.Char, types.Float}: "uitofp",
	{types.Bool, types.Float}: "uitofp",
	{types.Float, types.Int}:  "fptosi",
	{types.Float, types.Char}: "fptoui",
	{types.Int, types.Char}:   "trunc",
	{types.Char, types.Int}:   "zext",
	{types.Bool, types.Int}:   "zext",
	{types.Bool, types.Char}:  "zext",
}
