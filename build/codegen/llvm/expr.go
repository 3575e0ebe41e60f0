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
	"strings"

	"github.com/minic-org/minic/build/ast"
	"github.com/minic-org/minic/build/codegen"
	"github.com/minic-org/minic/build/symtab"
	"github.com/minic-org/minic/build/token"
	"github.com/minic-org/minic/build/types"
)

// expr lowers the value of an expression after conversion and
// returns the operand holding it.
func (g *generator) expr(expr ast.Expr) string {
	return g.value(g.Info.Converted(expr))
}

// value lowers an expression as used. Constant expressions are
// replaced by their value if folding is enabled.
func (g *generator) value(used ast.Expr) string {
	if _, isLit := used.(*ast.Literal); !isLit && g.Opts.Fold && codegen.IsConstant(g.Info, used) {
		if val, ok := Folder.Eval(g.Info, used); ok {
			return constant(val)
		}
	}
	return g.exprRaw(used)
}

func (g *generator) exprRaw(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Literal:
		val, ok := g.Info.Values[e]
		if !ok {
			g.Fail(e, "literal %s has not been decoded", e.Text)
		}
		val, _ = Folder.Literal(val)
		return constant(val)
	case *ast.Ident:
		return g.load(e, g.Ident(e))
	case *ast.TypeConversion:
		return g.conversion(e)
	case *ast.Unary:
		x := g.expr(e.X)
		if e.Op != token.Sub {
			return x
		}
		if types.Float.Equal(g.TypeOf(e.X)) {
			return g.def("neg", "fneg", "double "+x)
		}
		return g.def("neg", "sub", "i32 0", x)
	case *ast.Binary:
		x := g.expr(e.X)
		y := g.expr(e.Y)
		typ := g.TypeOf(e.X)
		kind := typ.Base()
		if types.IsArray(typ) {
			kind = arrayKind
		}
		op, ok := binaryOps[opKey{op: e.Op, kind: kind}]
		if !ok {
			g.Fail(e, "operator %s not supported on %s", e.Op, typ)
		}
		root := strings.Fields(op)[0]
		return g.def(root, op, typeName(typ)+" "+x, y)
	case *ast.Index:
		elem := g.element(e)
		return g.def(e.Array.Name, "load", typeNames[g.Ident(e.Array).Type.Base()], "ptr "+elem)
	case *ast.Call:
		return g.call(e)
	}
	g.Fail(expr, "expression %T not supported", expr)
	return ""
}

// element returns the address of an element of an array.
func (g *generator) element(index *ast.Index) string {
	id := g.Ident(index.Array)
	base := g.load(index.Array, id)
	i := g.expr(index.Index)
	return g.def("idx", "getelementptr", typeNames[id.Type.Base()], "ptr "+base, "i32 "+i)
}

func (g *generator) conversion(conv *ast.TypeConversion) string {
	x := g.value(conv.X)
	from := g.Info.Types[conv.X]
	if from == nil || !types.IsSimple(from) {
		g.Fail(conv, "conversion from %v to %s not supported", from, conv.To)
	}
	fromBase := from.Base()
	switch {
	case fromBase == conv.To:
		return x
	case conv.To == types.Bool && fromBase == types.Float:
		return g.def("bool", "fcmp une", "double "+x, "0.0")
	case conv.To == types.Bool:
		return g.def("bool", "icmp ne", typeNames[fromBase]+" "+x, "0")
	}
	op, ok := conversions[convKey{from: fromBase, to: conv.To}]
	if !ok {
		g.Fail(conv, "conversion from %s to %s not supported", from, conv.To)
	}
	return g.def("conv", op, fmt.Sprintf("%s %s to %s", typeNames[fromBase], x, typeNames[conv.To]))
}

func (g *generator) load(src ast.Node, id *symtab.Ident) string {
	return g.def(id.Name, "load", typeName(id.Type), "ptr "+g.addr(src, id))
}

// call lowers a call and returns its result, empty for void functions.
func (g *generator) call(call *ast.Call) string {
	callee := g.Callee(call)
	args := make([]string, len(call.Args))
	for i, arg := range call.Args {
		args[i] = g.expr(arg)
	}
	if callee.Builtin {
		lower, ok := builtins[callee.Name]
		if !ok {
			g.Fail(call, "builtin %s not supported", callee.Name)
		}
		return lower(g, args)
	}
	fn := callee.Type.(types.Func)
	typed := make([]string, len(args))
	for i, arg := range args {
		typed[i] = typeName(fn.Params[i]) + " " + arg
	}
	text := fmt.Sprintf("%s %s(%s)", typeName(fn.Result), symbol(callee.Name), strings.Join(typed, ", "))
	if types.IsVoid(fn.Result) {
		g.emit("call", text)
		return ""
	}
	return g.def("call", "call", text)
}
