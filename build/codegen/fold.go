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

package codegen

import (
	"math"

	"github.com/minic-org/minic/build/ast"
	"github.com/minic-org/minic/build/checker"
	"github.com/minic-org/minic/build/token"
	"github.com/minic-org/minic/build/types"
	"golang.org/x/exp/constraints"
)

// Folder evaluates literal-only expressions with the arithmetic of a target:
// int is a 32-bit two's complement integer, char an unsigned integer
// of CharBits bits, and float an IEEE floating point number of FloatBits bits.
//
// Expressions whose value at runtime depends on the target beyond these
// properties are not folded: integer division by zero or overflowing,
// out of range conversions from float, and results which are not finite.
type Folder struct {
	CharBits  int
	FloatBits int
}

// IsConstant returns true if expr only depends on literals. expr is an
// expression as used, that is either an expression without conversion
// or the conversion of an expression.
func IsConstant(info *checker.Info, expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.Literal:
		return true
	case *ast.TypeConversion:
		return IsConstant(info, e.X)
	case *ast.Unary:
		return IsConstant(info, info.Converted(e.X))
	case *ast.Binary:
		return IsConstant(info, info.Converted(e.X)) && IsConstant(info, info.Converted(e.Y))
	}
	return false
}

// Eval evaluates an expression as used. It returns false if the expression
// is not constant or cannot be evaluated at compile time.
func (f Folder) Eval(info *checker.Info, expr ast.Expr) (types.Value, bool) {
	switch e := expr.(type) {
	case *ast.Literal:
		val, ok := info.Values[e]
		if !ok {
			return types.Value{}, false
		}
		return f.Literal(val)
	case *ast.TypeConversion:
		x, ok := f.Eval(info, e.X)
		if !ok {
			return types.Value{}, false
		}
		return f.convert(x, e.To)
	case *ast.Unary:
		x, ok := f.Eval(info, info.Converted(e.X))
		if !ok || e.Op == token.Add {
			return x, ok
		}
		if x.Type == types.Float {
			return f.float(-x.Float)
		}
		return types.IntValue(int64(-int32(x.Int))), true
	case *ast.Binary:
		x, ok := f.Eval(info, info.Converted(e.X))
		if !ok {
			return types.Value{}, false
		}
		y, ok := f.Eval(info, info.Converted(e.Y))
		if !ok {
			return types.Value{}, false
		}
		return f.binary(e.Op, x, y)
	}
	return types.Value{}, false
}

// Literal rounds the value of a literal to the precision of the target.
// The rounded value is returned even if it is not finite, in which case
// the boolean is false.
func (f Folder) Literal(val types.Value) (types.Value, bool) {
	switch val.Type {
	case types.Float:
		return f.float(val.Float)
	case types.Char:
		return types.CharValue(rune(f.char(val.Int))), true
	}
	return val, true
}

func (f Folder) char(x int64) int64 {
	return x & (1<<f.CharBits - 1)
}

// float rounds x to the precision of the target. It returns false
// if the rounded value is not finite.
func (f Folder) float(x float64) (types.Value, bool) {
	if f.FloatBits == 32 {
		x = float64(float32(x))
	}
	return types.FloatValue(x), !math.IsInf(x, 0) && !math.IsNaN(x)
}

func (f Folder) convert(x types.Value, to types.Base) (types.Value, bool) {
	if x.Type == to {
		return x, true
	}
	switch to {
	case types.Bool:
		return types.BoolValue(x.Bool()), true
	case types.Float:
		if x.Type == types.Int {
			return f.float(float64(int32(x.Int)))
		}
		return f.float(float64(x.Int))
	case types.Int:
		if x.Type != types.Float {
			return types.IntValue(x.Int), true
		}
		t := math.Trunc(x.Float)
		if t < math.MinInt32 || t > math.MaxInt32 {
			return types.Value{}, false
		}
		return types.IntValue(int64(t)), true
	case types.Char:
		if x.Type != types.Float {
			return types.CharValue(rune(f.char(x.Int))), true
		}
		t := math.Trunc(x.Float)
		if t < 0 || t >= float64(int64(1)<<f.CharBits) {
			return types.Value{}, false
		}
		return types.CharValue(rune(t)), true
	}
	return types.Value{}, false
}

func (f Folder) binary(op token.Op, x, y types.Value) (types.Value, bool) {
	if x.Type != y.Type {
		return types.Value{}, false
	}
	switch {
	case op.IsComparison():
		var res, ok bool
		switch {
		case x.Type != types.Float:
			res, ok = compare(op, x.Int, y.Int)
		case f.FloatBits == 32:
			res, ok = compare(op, float32(x.Float), float32(y.Float))
		default:
			res, ok = compare(op, x.Float, y.Float)
		}
		return types.BoolValue(res), ok
	case op.IsLogical():
		if op == token.LAnd {
			return types.BoolValue(x.Bool() && y.Bool()), true
		}
		return types.BoolValue(x.Bool() || y.Bool()), true
	case op.IsBitwise():
		res, ok := bitwise(op, int32(x.Int), int32(y.Int))
		return types.IntValue(int64(res)), ok
	}
	if x.Type == types.Float {
		if f.FloatBits == 32 {
			res, ok := arith(op, float32(x.Float), float32(y.Float))
			if !ok {
				return types.Value{}, false
			}
			return f.float(float64(res))
		}
		res, ok := arith(op, x.Float, y.Float)
		if !ok {
			return types.Value{}, false
		}
		return f.float(res)
	}
	xi, yi := int32(x.Int), int32(y.Int)
	if op == token.Div && (yi == 0 || (xi == math.MinInt32 && yi == -1)) {
		return types.Value{}, false
	}
	res, ok := arith(op, xi, yi)
	return types.IntValue(int64(res)), ok
}

func arith[T constraints.Integer | constraints.Float](op token.Op, x, y T) (T, bool) {
	switch op {
	case token.Add:
		return x + y, true
	case token.Sub:
		return x - y, true
	case token.Mul:
		return x * y, true
	case token.Div:
		return x / y, true
	}
	return 0, false
}

func compare[T constraints.Ordered](op token.Op, x, y T) (bool, bool) {
	switch op {
	case token.Eql:
		return x == y, true
	case token.Neq:
		return x != y, true
	case token.Lss:
		return x < y, true
	case token.Leq:
		return x <= y, true
	case token.Gtr:
		return x > y, true
	case token.Geq:
		return x >= y, true
	}
	return false, false
}

func bitwise[T constraints.Integer](op token.Op, x, y T) (T, bool) {
	switch op {
	case token.And:
		return x & y, true
	case token.Or:
		return x | y, true
	case token.Xor:
		return x ^ y, true
	}
	return 0, false
}
