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

package cil

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/minic-org/minic/build/codegen"
	"github.com/minic-org/minic/build/token"
	"github.com/minic-org/minic/build/types"
)

// Folder evaluates constants with the arithmetic of the runtime:
// char is a 16-bit code unit and float a single precision number.
var Folder = codegen.Folder{CharBits: 16, FloatBits: 32}

var (
	typeNames = map[types.Base]string{
		types.Void:  "void",
		types.Int:   "int32",
		types.Char:  "char",
		types.Float: "float32",
		types.Bool:  "bool",
	}
	systemNames = map[types.Base]string{
		types.Int:   "[mscorlib]System.Int32",
		types.Char:  "[mscorlib]System.Char",
		types.Float: "[mscorlib]System.Single",
		types.Bool:  "[mscorlib]System.Boolean",
	}
	storeElem = map[types.Base]string{
		types.Int:   "stelem.i4",
		types.Char:  "stelem.i2",
		types.Float: "stelem.r4",
		types.Bool:  "stelem.i1",
	}
	loadElem = map[types.Base]string{
		types.Int:   "ldelem.i4",
		types.Char:  "ldelem.u2",
		types.Float: "ldelem.r4",
		types.Bool:  "ldelem.u1",
	}
)

// typeName returns the name of a type in signatures.
func typeName(typ types.Type) string {
	if types.IsArray(typ) {
		return typeNames[typ.Base()] + "[]"
	}
	return typeNames[typ.Base()]
}

type opKey struct {
	op    token.Op
	float bool
}

// binaryOps maps operators to their instructions. Comparisons missing
// from the runtime are the negation of the complementary comparison.
// Float comparisons use the unordered forms so that negating them
// is false if an operand is not a number.
var binaryOps = map[opKey][]string{
	{token.Add, false}:  {"add"},
	{token.Sub, false}:  {"sub"},
	{token.Mul, false}:  {"mul"},
	{token.Div, false}:  {"div"},
	{token.Add, true}:   {"add"},
	{token.Sub, true}:   {"sub"},
	{token.Mul, true}:   {"mul"},
	{token.Div, true}:   {"div"},
	{token.Eql, false}:  {"ceq"},
	{token.Eql, true}:   {"ceq"},
	{token.Neq, false}:  {"ceq", "ldc.i4.0", "ceq"},
	{token.Neq, true}:   {"ceq", "ldc.i4.0", "ceq"},
	{token.Gtr, false}:  {"cgt"},
	{token.Gtr, true}:   {"cgt"},
	{token.Lss, false}:  {"clt"},
	{token.Lss, true}:   {"clt"},
	{token.Geq, false}:  {"clt", "ldc.i4.0", "ceq"},
	{token.Geq, true}:   {"clt.un", "ldc.i4.0", "ceq"},
	{token.Leq, false}:  {"cgt", "ldc.i4.0", "ceq"},
	{token.Leq, true}:   {"cgt.un", "ldc.i4.0", "ceq"},
	{token.And, false}:  {"and"},
	{token.Or, false}:   {"or"},
	{token.Xor, false}:  {"xor"},
	{token.LAnd, false}: {"and"},
	{token.LOr, false}:  {"or"},
}

type convKey struct {
	from, to types.Base
}

// conversions maps conversions to their instructions. An empty list
// means the value is already represented as expected on the stack.
var conversions = map[convKey][]string{
	{types.Int, types.Float}:  {"conv.r4"},
	{types.Char, types.Float}: {"conv.r4"},
	{types.Bool, types.Float}: {"conv.r4"},
	{types.Float, types.Int}:  {"conv.i4"},
	{types.Float, types.Char}: {"conv.u2"},
	{types.Int, types.Char}:   {"conv.u2"},
	{types.Bool, types.Char}:  {},
	{types.Char, types.Int}:   {},
	{types.Bool, types.Int}:   {},
	{types.Int, types.Bool}:   {"ldc.i4.0", "ceq", "ldc.i4.0", "ceq"},
	{types.Char, types.Bool}:  {"ldc.i4.0", "ceq", "ldc.i4.0", "ceq"},
	{types.Float, types.Bool}: {"ldc.r4 0.0", "ceq", "ldc.i4.0", "ceq"},
}

const (
	writeLine = "call void [mscorlib]System.Console::WriteLine(%s)"
	readLine  = "call string [mscorlib]System.Console::ReadLine()"
)

// builtins maps builtin functions to the instructions emitted
// once their arguments have been pushed.
var builtins = map[string][]string{
	"print_int":   {fmt.Sprintf(writeLine, "int32")},
	"print_float": {fmt.Sprintf(writeLine, "float32")},
	"print_char":  {fmt.Sprintf(writeLine, "char")},
	"print_bool":  {fmt.Sprintf(writeLine, "bool")},
	"print_string": {
		"newobj instance void [mscorlib]System.String::.ctor(char[])",
		fmt.Sprintf(writeLine, "string"),
	},
	"read_int": {readLine,
		"call int32 [mscorlib]System.Int32::Parse(string)",
	},
	"read_float": {readLine,
		"call float32 [mscorlib]System.Single::Parse(string)",
	},
	"read_bool": {readLine,
		"call bool [mscorlib]System.Boolean::Parse(string)",
	},
	"read_char": {readLine,
		"ldc.i4.0",
		"callvirt instance char [mscorlib]System.String::get_Chars(int32)",
	},
	"read_string": {readLine,
		"callvirt instance char[] [mscorlib]System.String::ToCharArray()",
	},
}

// immediate returns the instruction loading a constant.
func immediate(val types.Value) (string, []string) {
	switch val.Type {
	case types.Bool:
		if val.Int != 0 {
			return "ldc.i4.1", nil
		}
		return "ldc.i4.0", nil
	case types.Char:
		if val.Int <= 127 {
			return "ldc.i4.s", []string{strconv.FormatInt(val.Int, 10)}
		}
		return "ldc.i4", []string{strconv.FormatInt(val.Int, 10)}
	case types.Float:
		return "ldc.r4", []string{formatFloat(val.Float)}
	}
	return "ldc.i4", []string{fmt.Sprintf("0x%X", uint32(int32(val.Int)))}
}

// formatFloat returns the shortest decimal representation of a single
// precision number. The representation always has a decimal point.
func formatFloat(x float64) string {
	switch {
	case math.IsInf(x, 1):
		return "float32(0x7F800000)"
	case math.IsInf(x, -1):
		return "float32(0xFF800000)"
	}
	s := strconv.FormatFloat(x, 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
