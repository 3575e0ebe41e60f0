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

	"github.com/minic-org/minic/base/stringseq"
	"github.com/minic-org/minic/build/ast"
	"github.com/minic-org/minic/build/codegen"
	"github.com/minic-org/minic/build/symtab"
	"github.com/minic-org/minic/build/token"
	"github.com/minic-org/minic/build/types"
)

// expr lowers the value of an expression after conversion.
func (g generator) expr(expr ast.Expr) {
	g.value(g.Info.Converted(expr))
}

// value lowers an expression as used. Constant expressions are
// replaced by their value if folding is enabled.
func (g generator) value(used ast.Expr) {
	if _, isLit := used.(*ast.Literal); !isLit && g.Opts.Fold && codegen.IsConstant(g.Info, used) {
		if val, ok := Folder.Eval(g.Info, used); ok {
			op, args := immediate(val)
			g.Log.Emit(op, args...)
			return
		}
	}
	g.exprRaw(used)
}

func (g generator) exprRaw(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Literal:
		val, ok := g.Info.Values[e]
		if !ok {
			g.Fail(e, "literal %s has not been decoded", e.Text)
		}
		val, _ = Folder.Literal(val)
		op, args := immediate(val)
		g.Log.Emit(op, args...)
	case *ast.Ident:
		g.load(e, g.Ident(e))
	case *ast.TypeConversion:
		g.conversion(e)
	case *ast.Unary:
		g.expr(e.X)
		if e.Op == token.Sub {
			g.Log.Emit("neg")
		}
	case *ast.Binary:
		g.expr(e.X)
		g.expr(e.Y)
		float := types.Float.Equal(g.TypeOf(e.X))
		instrs, ok := binaryOps[opKey{op: e.Op, float: float}]
		if !ok {
			g.Fail(e, "operator %s not supported on %s", e.Op, g.TypeOf(e.X))
		}
		for _, in := range instrs {
			g.Log.Emit(in)
		}
	case *ast.Index:
		id := g.Ident(e.Array)
		g.load(e.Array, id)
		g.expr(e.Index)
		g.Log.Emit(loadElem[id.Type.Base()])
	case *ast.Call:
		g.call(e)
	default:
		g.Fail(expr, "expression %T not supported", expr)
	}
}

func (g generator) conversion(conv *ast.TypeConversion) {
	g.value(conv.X)
	from := g.Info.Types[conv.X]
	if from == nil {
		g.Fail(conv, "conversion of an expression without a type")
	}
	instrs, ok := conversions[convKey{from: from.Base(), to: conv.To}]
	if !ok || !types.IsSimple(from) {
		g.Fail(conv, "conversion from %s to %s not supported", from, conv.To)
	}
	for _, in := range instrs {
		g.raw(in)
	}
}

func (g generator) load(src ast.Node, id *symtab.Ident) {
	switch {
	case g.IsParam(id):
		g.Log.Emit("ldarg.s", id.Name)
	case id.Kind == symtab.Local:
		g.Log.Emit("ldloc.s", id.Name)
	case id.IsStatic():
		g.Log.Emit("ldsfld", field(id))
	default:
		g.Fail(src, "cannot load %s", id)
	}
}

func (g generator) call(call *ast.Call) {
	callee := g.Callee(call)
	if callee.Builtin {
		instrs, ok := builtins[callee.Name]
		if !ok {
			g.Fail(call, "builtin %s not supported", callee.Name)
		}
		for _, arg := range call.Args {
			g.expr(arg)
		}
		for _, in := range instrs {
			g.raw(in)
		}
		return
	}
	for _, arg := range call.Args {
		g.expr(arg)
	}
	fn := callee.Type.(types.Func)
	g.Log.Emit("call", fmt.Sprintf("%s %s::%s(%s)",
		typeName(fn.Result), ClassName, callee.Name, stringseq.JoinFunc(fn.Params, typeName, ", ")))
}
