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

// Package astbuilder builds syntax trees from a compact s-expression
// notation. Programs are written as a sequence of statements:
//
//	(var int (= x 2) y)
//	(array char s 10)
//	(= (index s 0) 'a')
//	(func int add ((int a) (int[] b)) (block (return (+ a (index b 0)))))
//	(if c (block ...) (block ...))
//	(while c (block ...))
//	(for (= i 0) (< i 10) (= i (+ i 1)) (block ...))
//	(call print_int x)
//
// Every element after the type of a var declares one variable: either
// a name, or an assignment to a name giving its initial value.
// Absent parts of a for loop are written _. A unary minus is written
// (- x). Atoms starting with a digit, a dot, or a quote, and the
// keywords true and false, are literals. Other atoms are identifiers.
// A # starts a comment running to the end of the line.
package astbuilder

import (
	"strings"

	"github.com/minic-org/minic/build/ast"
	"github.com/minic-org/minic/build/token"
	"github.com/pkg/errors"
)

type builder struct{}

// Parse builds a program from its s-expression notation.
func Parse(src string) (*ast.StmtList, error) {
	forms, err := read(src)
	if err != nil {
		return nil, err
	}
	var b builder
	prog := &ast.StmtList{Pos: token.Pos{Line: 1, Column: 1}}
	for _, form := range forms {
		stmt, err := b.stmt(form)
		if err != nil {
			return nil, err
		}
		prog.List = append(prog.List, stmt)
	}
	return prog, nil
}

// MustParse builds a program and panics if the notation is invalid.
func MustParse(src string) *ast.StmtList {
	prog, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return prog
}

func errorf(f *form, format string, a ...any) error {
	return errors.Errorf("%s: "+format, append([]any{f.pos}, a...)...)
}

func (b *builder) ident(f *form) (*ast.Ident, error) {
	if f.isList() || isLiteral(f.atom) || f.atom == "_" {
		return nil, errorf(f, "want an identifier but got %s", f)
	}
	return &ast.Ident{Pos: f.pos, Name: f.atom}, nil
}

// typeName splits a type written name or name[].
func (b *builder) typeName(f *form) (*ast.Ident, bool, error) {
	if f.isList() {
		return nil, false, errorf(f, "want a type but got %s", f)
	}
	name, isArray := strings.CutSuffix(f.atom, "[]")
	return &ast.Ident{Pos: f.pos, Name: name}, isArray, nil
}

func (b *builder) block(f *form) (*ast.StmtList, error) {
	if f.head() != "block" {
		return nil, errorf(f, "want a block but got %s", f)
	}
	list := &ast.StmtList{Pos: f.pos}
	for _, sub := range f.list[1:] {
		stmt, err := b.stmt(sub)
		if err != nil {
			return nil, err
		}
		list.List = append(list.List, stmt)
	}
	return list, nil
}

func (b *builder) optStmt(f *form) (ast.Stmt, error) {
	if f.atom == "_" {
		return nil, nil
	}
	return b.stmt(f)
}

func (b *builder) optExpr(f *form) (ast.Expr, error) {
	if f.atom == "_" {
		return nil, nil
	}
	return b.expr(f)
}

func (b *builder) want(f *form, min, max int) error {
	n := len(f.list) - 1
	if n < min || n > max {
		return errorf(f, "%s: wrong number of operands: %d", f.head(), n)
	}
	return nil
}

func (b *builder) stmt(f *form) (ast.Stmt, error) {
	if !f.isList() {
		return nil, errorf(f, "want a statement but got %s", f)
	}
	switch f.head() {
	case "block":
		return b.block(f)
	case "var":
		return b.varDecl(f)
	case "array":
		if err := b.want(f, 3, 3); err != nil {
			return nil, err
		}
		elem, err := b.ident(f.list[1])
		if err != nil {
			return nil, err
		}
		name, err := b.ident(f.list[2])
		if err != nil {
			return nil, err
		}
		size, err := b.expr(f.list[3])
		if err != nil {
			return nil, err
		}
		return &ast.ArrayDecl{Pos: f.pos, Elem: elem, Name: name, Size: size}, nil
	case "=":
		return b.assign(f)
	case "call":
		return b.call(f)
	case "if":
		if err := b.want(f, 2, 3); err != nil {
			return nil, err
		}
		cond, err := b.expr(f.list[1])
		if err != nil {
			return nil, err
		}
		then, err := b.block(f.list[2])
		if err != nil {
			return nil, err
		}
		stmt := &ast.If{Pos: f.pos, Cond: cond, Then: then}
		if len(f.list) == 4 {
			if stmt.Else, err = b.block(f.list[3]); err != nil {
				return nil, err
			}
		}
		return stmt, nil
	case "while":
		if err := b.want(f, 2, 2); err != nil {
			return nil, err
		}
		cond, err := b.expr(f.list[1])
		if err != nil {
			return nil, err
		}
		body, err := b.block(f.list[2])
		if err != nil {
			return nil, err
		}
		return &ast.While{Pos: f.pos, Cond: cond, Body: body}, nil
	case "for":
		return b.forStmt(f)
	case "func":
		return b.funcDecl(f)
	case "return":
		if err := b.want(f, 0, 1); err != nil {
			return nil, err
		}
		ret := &ast.Return{Pos: f.pos}
		if len(f.list) == 2 {
			var err error
			if ret.Value, err = b.expr(f.list[1]); err != nil {
				return nil, err
			}
		}
		return ret, nil
	}
	return nil, errorf(f, "unknown statement %s", f.head())
}

func (b *builder) varDecl(f *form) (*ast.VarDecl, error) {
	if err := b.want(f, 2, len(f.list)); err != nil {
		return nil, err
	}
	typ, err := b.ident(f.list[1])
	if err != nil {
		return nil, err
	}
	decl := &ast.VarDecl{Pos: f.pos, Type: typ}
	for _, v := range f.list[2:] {
		var node ast.Node
		if v.isList() {
			node, err = b.assign(v)
		} else {
			node, err = b.ident(v)
		}
		if err != nil {
			return nil, err
		}
		decl.Vars = append(decl.Vars, node)
	}
	return decl, nil
}

func (b *builder) assign(f *form) (*ast.Assign, error) {
	if f.head() != "=" {
		return nil, errorf(f, "want an assignment but got %s", f)
	}
	if err := b.want(f, 2, 2); err != nil {
		return nil, err
	}
	var target ast.Expr
	var err error
	if f.list[1].isList() {
		target, err = b.index(f.list[1])
	} else {
		target, err = b.ident(f.list[1])
	}
	if err != nil {
		return nil, err
	}
	value, err := b.expr(f.list[2])
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Pos: f.pos, Target: target, Value: value}, nil
}

func (b *builder) forStmt(f *form) (*ast.For, error) {
	if err := b.want(f, 4, 4); err != nil {
		return nil, err
	}
	init, err := b.optStmt(f.list[1])
	if err != nil {
		return nil, err
	}
	cond, err := b.optExpr(f.list[2])
	if err != nil {
		return nil, err
	}
	step, err := b.optStmt(f.list[3])
	if err != nil {
		return nil, err
	}
	body, err := b.block(f.list[4])
	if err != nil {
		return nil, err
	}
	return &ast.For{Pos: f.pos, Init: init, Cond: cond, Step: step, Body: body}, nil
}

func (b *builder) funcDecl(f *form) (*ast.FunctionDecl, error) {
	if err := b.want(f, 4, 4); err != nil {
		return nil, err
	}
	result, resultArray, err := b.typeName(f.list[1])
	if err != nil {
		return nil, err
	}
	name, err := b.ident(f.list[2])
	if err != nil {
		return nil, err
	}
	params := f.list[3]
	if !params.isList() {
		return nil, errorf(params, "want a parameter list but got %s", params)
	}
	args := &ast.ArgumentList{Pos: params.pos}
	for _, p := range params.list {
		if !p.isList() || len(p.list) != 2 {
			return nil, errorf(p, "want (type name) but got %s", p)
		}
		typ, isArray, err := b.typeName(p.list[0])
		if err != nil {
			return nil, err
		}
		pname, err := b.ident(p.list[1])
		if err != nil {
			return nil, err
		}
		args.List = append(args.List, &ast.Argument{Pos: p.pos, Type: typ, Name: pname, IsArray: isArray})
	}
	body, err := b.block(f.list[4])
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDecl{
		Pos:         f.pos,
		Result:      result,
		ResultArray: resultArray,
		Name:        name,
		Params:      args,
		Body:        body,
	}, nil
}

func (b *builder) index(f *form) (*ast.Index, error) {
	if f.head() != "index" {
		return nil, errorf(f, "want an array element but got %s", f)
	}
	if err := b.want(f, 2, 2); err != nil {
		return nil, err
	}
	array, err := b.ident(f.list[1])
	if err != nil {
		return nil, err
	}
	index, err := b.expr(f.list[2])
	if err != nil {
		return nil, err
	}
	return &ast.Index{Pos: f.pos, Array: array, Index: index}, nil
}

func (b *builder) call(f *form) (*ast.Call, error) {
	if err := b.want(f, 1, len(f.list)); err != nil {
		return nil, err
	}
	fn, err := b.ident(f.list[1])
	if err != nil {
		return nil, err
	}
	call := &ast.Call{Pos: f.pos, Func: fn}
	for _, a := range f.list[2:] {
		arg, err := b.expr(a)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	return call, nil
}

func (b *builder) expr(f *form) (ast.Expr, error) {
	if !f.isList() {
		if isLiteral(f.atom) {
			return &ast.Literal{Pos: f.pos, Text: f.atom}, nil
		}
		return b.ident(f)
	}
	switch f.head() {
	case "index":
		return b.index(f)
	case "call":
		return b.call(f)
	}
	op, ok := token.Lookup(f.head())
	if !ok {
		return nil, errorf(f, "unknown operator %s", f.head())
	}
	if len(f.list) == 2 && (op == token.Sub || op == token.Add) {
		x, err := b.expr(f.list[1])
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Pos: f.pos, Op: op, X: x}, nil
	}
	if err := b.want(f, 2, 2); err != nil {
		return nil, err
	}
	x, err := b.expr(f.list[1])
	if err != nil {
		return nil, err
	}
	y, err := b.expr(f.list[2])
	if err != nil {
		return nil, err
	}
	return &ast.Binary{Pos: f.pos, Op: op, X: x, Y: y}, nil
}

func isLiteral(atom string) bool {
	if atom == "true" || atom == "false" {
		return true
	}
	if atom == "" {
		return false
	}
	c := atom[0]
	return ('0' <= c && c <= '9') || c == '.' || c == '\''
}
