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

	"github.com/minic-org/minic/build/ast"
	"github.com/minic-org/minic/build/symtab"
	"github.com/minic-org/minic/build/types"
)

func (g *generator) stmts(list *ast.StmtList) {
	if list == nil {
		return
	}
	for _, stmt := range list.List {
		g.stmt(stmt)
	}
}

func (g *generator) stmt(stmt ast.Stmt) {
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
		g.arrayDecl(s)
	case *ast.Assign:
		g.assign(s)
	case *ast.Call:
		g.call(s)
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
		if s.Value == nil {
			g.ret("void")
			return
		}
		val := g.expr(s.Value)
		g.ret(typeName(g.TypeOf(s.Value)) + " " + val)
	case *ast.FunctionDecl:
		// Functions are lowered to functions of their own.
	default:
		g.Fail(stmt, "statement %T not supported", stmt)
	}
}

func (g *generator) arrayDecl(decl *ast.ArrayDecl) {
	id := g.Ident(decl.Name)
	elem := id.Type.Base()
	size := g.expr(decl.Size)
	count := g.def("size", "sext", fmt.Sprintf("i32 %s to i64", size))
	if elem == types.Char {
		// print_string reads up to a zero.
		count = g.def("size", "add", "i64 "+count, "1")
	}
	arr := g.def(decl.Name.Name, "call", fmt.Sprintf("ptr %s(i64 %s, i64 %d)", g.use("calloc"), count, elemSizes[elem]))
	g.store(decl.Name, id, arr)
}

func (g *generator) assign(assign *ast.Assign) {
	switch target := assign.Target.(type) {
	case *ast.Ident:
		val := g.expr(assign.Value)
		g.store(target, g.Ident(target), val)
	case *ast.Index:
		elem := g.element(target)
		val := g.expr(assign.Value)
		g.emit("store", typeNames[g.Ident(target.Array).Type.Base()]+" "+val, "ptr "+elem)
	default:
		g.Fail(assign, "cannot assign to %T", assign.Target)
	}
}

func (g *generator) ifStmt(s *ast.If) {
	c := g.NextControl()
	thenLabel := fmt.Sprintf("if.then.%d", c)
	elseLabel := fmt.Sprintf("if.else.%d", c)
	endLabel := fmt.Sprintf("if.end.%d", c)
	cond := g.expr(s.Cond)
	g.terminate("br", "i1 "+cond, "label %"+thenLabel, "label %"+elseLabel)
	g.label(thenLabel)
	g.stmts(s.Then)
	g.jump(endLabel)
	g.label(elseLabel)
	g.stmts(s.Else)
	g.jump(endLabel)
	g.label(endLabel)
}

// loop lowers while and for loops with the condition checked
// at the bottom of the loop.
func (g *generator) loop(cond ast.Expr, body *ast.StmtList, step ast.Stmt) {
	c := g.NextControl()
	bodyLabel := fmt.Sprintf("while.body.%d", c)
	ctrlLabel := fmt.Sprintf("while.cond.%d", c)
	endLabel := fmt.Sprintf("while.end.%d", c)
	g.jump(ctrlLabel)
	g.label(bodyLabel)
	g.stmts(body)
	if step != nil {
		g.stmt(step)
	}
	g.jump(ctrlLabel)
	g.label(ctrlLabel)
	val := g.expr(cond)
	g.terminate("br", "i1 "+val, "label %"+bodyLabel, "label %"+endLabel)
	g.label(endLabel)
}

// addr returns the address of a variable.
func (g *generator) addr(src ast.Node, id *symtab.Ident) string {
	switch {
	case g.IsParam(id), id.Kind == symtab.Local:
		return slot(id)
	case id.IsStatic():
		return symbol(id.Name)
	}
	g.Fail(src, "%s has no address", id)
	return ""
}

func (g *generator) store(src ast.Node, id *symtab.Ident, val string) {
	g.emit("store", typeName(id.Type)+" "+val, "ptr "+g.addr(src, id))
}
