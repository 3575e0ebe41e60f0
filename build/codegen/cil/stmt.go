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

	"github.com/minic-org/minic/build/ast"
	"github.com/minic-org/minic/build/symtab"
	"github.com/minic-org/minic/build/types"
)

func (g generator) stmts(list *ast.StmtList) {
	if list == nil {
		return
	}
	for _, stmt := range list.List {
		g.stmt(stmt)
	}
}

func (g generator) stmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.StmtList:
		g.stmts(s)
	case *ast.VarDecl:
		for _, v := range s.Vars {
			if assign, ok := v.(*ast.Assign); ok {
				g.assign(assign)
			}
		}
	case *ast.ArrayDecl:
		id := g.Ident(s.Name)
		g.expr(s.Size)
		g.Log.Emit("newarr", systemNames[id.Type.Base()])
		g.store(id)
	case *ast.Assign:
		g.assign(s)
	case *ast.Call:
		g.call(s)
		if !types.IsVoid(g.Info.Types[s]) {
			g.Log.Emit("pop")
		}
	case *ast.If:
		g.ifStmt(s)
	case *ast.While:
		g.loop(s.Cond, s.Body, nil)
	case *ast.For:
		if s.Init != nil {
			g.stmt(s.Init)
		}
		g.loop(g.Info.Cond(s), s.Body, s.Step)
	case *ast.Return:
		if s.Value != nil {
			g.expr(s.Value)
		}
		g.Log.Emit("ret")
	case *ast.FunctionDecl:
		// Functions are lowered to methods of their own.
	default:
		g.Fail(stmt, "statement %T not supported", stmt)
	}
}

func (g generator) assign(assign *ast.Assign) {
	switch target := assign.Target.(type) {
	case *ast.Ident:
		g.expr(assign.Value)
		g.store(g.Ident(target))
	case *ast.Index:
		id := g.Ident(target.Array)
		g.load(target.Array, id)
		g.expr(target.Index)
		g.expr(assign.Value)
		g.Log.Emit(storeElem[id.Type.Base()])
	default:
		g.Fail(assign, "cannot assign to %T", assign.Target)
	}
}

func (g generator) ifStmt(s *ast.If) {
	c := g.NextControl()
	falseLabel := fmt.Sprintf("IL_IF_FALSE_%d", c)
	endLabel := fmt.Sprintf("IL_IF_END_%d", c)
	g.expr(s.Cond)
	g.Log.Emit("brfalse", falseLabel)
	g.stmts(s.Then)
	g.Log.Emit("br", endLabel)
	g.Log.Label(falseLabel)
	g.Log.Emit("nop")
	g.stmts(s.Else)
	g.Log.Label(endLabel)
	g.Log.Emit("nop")
}

// loop lowers while and for loops with the condition checked
// at the bottom of the loop.
func (g generator) loop(cond ast.Expr, body *ast.StmtList, step ast.Stmt) {
	c := g.NextControl()
	bodyLabel := fmt.Sprintf("IL_WHILE_BODY_%d", c)
	ctrlLabel := fmt.Sprintf("IL_WHILE_CTRL_%d", c)
	g.Log.Emit("br", ctrlLabel)
	g.Log.Label(bodyLabel)
	g.Log.Emit("nop")
	g.stmts(body)
	if step != nil {
		g.stmt(step)
	}
	g.Log.Label(ctrlLabel)
	g.Log.Emit("nop")
	g.expr(cond)
	g.Log.Emit("brtrue", bodyLabel)
}

func field(id *symtab.Ident) string {
	return fmt.Sprintf("%s %s::%s", typeName(id.Type), ClassName, id.Name)
}

func (g generator) store(id *symtab.Ident) {
	switch {
	case g.IsParam(id):
		g.Log.Emit("starg.s", id.Name)
	case id.Kind == symtab.Local:
		g.Log.Emit("stloc.s", id.Name)
	case id.IsStatic():
		g.Log.Emit("stsfld", field(id))
	default:
		g.Fail(id.Decl, "cannot store into %s", id)
	}
}
