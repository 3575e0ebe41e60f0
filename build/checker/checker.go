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

// Package checker resolves the names and the types of a program
// and inserts the implicit conversions.
//
// The analysis stops at the first error, except for the arguments of
// a call: all the arguments that cannot be converted are reported
// together in a single error.
package checker

import (
	"github.com/minic-org/minic/build/ast"
	"github.com/minic-org/minic/build/fmterr"
	"github.com/minic-org/minic/build/symtab"
	"github.com/minic-org/minic/build/types"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

type checker struct {
	info *Info
}

// Check a program given the universe holding the builtin functions.
// The statements of the program are declared in a new global scope
// child of universe.
func Check(prog *ast.StmtList, universe *symtab.Scope) (*Info, error) {
	if prog == nil {
		return nil, fmterr.Internal(errors.New("nil program"))
	}
	c := &checker{info: newInfo()}
	global := universe.Child()
	for _, stmt := range prog.List {
		if err := c.stmt(global, stmt); err != nil {
			return nil, err
		}
	}
	c.info.Globals = global.Statics()
	return c.info, nil
}

func (c *checker) block(s *symtab.Scope, list *ast.StmtList) error {
	if list == nil {
		return nil
	}
	for _, stmt := range list.List {
		if err := c.stmt(s, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) stmt(s *symtab.Scope, stmt ast.Stmt) error {
	switch stmt := stmt.(type) {
	case *ast.StmtList:
		return c.block(s.Child(), stmt)
	case *ast.VarDecl:
		return c.varDecl(s, stmt)
	case *ast.ArrayDecl:
		return c.arrayDecl(s, stmt)
	case *ast.Assign:
		return c.assign(s, stmt)
	case *ast.Call:
		_, err := c.call(s, stmt)
		return err
	case *ast.If:
		if err := c.cond(s, stmt.Cond); err != nil {
			return err
		}
		if err := c.block(s.Child(), stmt.Then); err != nil {
			return err
		}
		return c.block(s.Child(), stmt.Else)
	case *ast.While:
		if err := c.cond(s, stmt.Cond); err != nil {
			return err
		}
		return c.block(s.Child(), stmt.Body)
	case *ast.For:
		return c.forStmt(s, stmt)
	case *ast.FunctionDecl:
		return c.funcDecl(s, stmt)
	case *ast.Return:
		return c.returnStmt(s, stmt)
	}
	return fmterr.Internalf(stmt, "statement %T not supported", stmt)
}

func (c *checker) forStmt(s *symtab.Scope, loop *ast.For) error {
	s = s.Child()
	if loop.Init != nil {
		if err := c.stmt(s, loop.Init); err != nil {
			return err
		}
	}
	cond := loop.Cond
	if cond == nil {
		implicit := &ast.Literal{Pos: loop.Pos, Text: "true"}
		c.info.Implicit[loop] = implicit
		cond = implicit
	}
	if err := c.cond(s, cond); err != nil {
		return err
	}
	if loop.Step != nil {
		if err := c.stmt(s, loop.Step); err != nil {
			return err
		}
	}
	return c.block(s.Child(), loop.Body)
}

// cond checks a condition and converts it to bool.
func (c *checker) cond(s *symtab.Scope, cond ast.Expr) error {
	if _, err := c.expr(s, cond); err != nil {
		return err
	}
	return c.convert(cond, types.Bool, "condition")
}

// simpleType resolves the name of a simple type. void is accepted
// only if allowVoid is true.
func (c *checker) simpleType(name *ast.Ident, allowVoid bool) (types.Base, error) {
	base, ok := types.ParseBase(name.Name)
	if !ok || (base == types.Void && !allowVoid) {
		return types.Void, fmterr.Errorf(name, fmterr.UnknownType, "%s is not a type", name.Name)
	}
	return base, nil
}

func (c *checker) declare(s *symtab.Scope, name *ast.Ident, typ types.Type, size ast.Expr) error {
	id := &symtab.Ident{Name: name.Name, Type: typ, Size: size, Decl: name}
	if err := s.AddVar(id); err != nil {
		return err
	}
	c.info.Idents[name] = id
	return nil
}

func (c *checker) varDecl(s *symtab.Scope, decl *ast.VarDecl) error {
	base, err := c.simpleType(decl.Type, false)
	if err != nil {
		return err
	}
	for _, v := range decl.Vars {
		switch v := v.(type) {
		case *ast.Ident:
			if err := c.declare(s, v, base, nil); err != nil {
				return err
			}
		case *ast.Assign:
			name, ok := v.Target.(*ast.Ident)
			if !ok {
				return fmterr.Internalf(v, "cannot declare %T", v.Target)
			}
			if err := c.declare(s, name, base, nil); err != nil {
				return err
			}
			if err := c.assign(s, v); err != nil {
				return err
			}
		default:
			return fmterr.Internalf(v, "cannot declare %T", v)
		}
	}
	return nil
}

func (c *checker) arrayDecl(s *symtab.Scope, decl *ast.ArrayDecl) error {
	elem, err := c.simpleType(decl.Elem, false)
	if err != nil {
		return err
	}
	if _, err := c.expr(s, decl.Size); err != nil {
		return err
	}
	if err := c.convert(decl.Size, types.Int, "array size"); err != nil {
		return err
	}
	return c.declare(s, decl.Name, types.ArrayOf(elem), decl.Size)
}

func (c *checker) assign(s *symtab.Scope, assign *ast.Assign) error {
	var target types.Type
	var err error
	switch t := assign.Target.(type) {
	case *ast.Ident:
		target, err = c.ident(s, t)
		if err == nil && !types.IsSimple(target) && !types.IsArray(target) {
			err = fmterr.Errorf(t, fmterr.IncompatibleTypes, "cannot assign to function %s", t.Name)
		}
	case *ast.Index:
		target, err = c.index(s, t)
	default:
		err = fmterr.Internalf(assign, "cannot assign to %T", assign.Target)
	}
	if err != nil {
		return err
	}
	if _, err := c.expr(s, assign.Value); err != nil {
		return err
	}
	if err := c.convert(assign.Value, target, "assignment"); err != nil {
		return err
	}
	c.info.Types[assign] = target
	return nil
}

func (c *checker) funcDecl(s *symtab.Scope, decl *ast.FunctionDecl) error {
	if s.InFunction() {
		return fmterr.Errorf(decl.Name, fmterr.NestedFunctionNotSupported, "function %s declared in function %s", decl.Name.Name, s.Func().Name)
	}
	var result types.Type
	resultBase, err := c.simpleType(decl.Result, !decl.ResultArray)
	if err != nil {
		return err
	}
	result = resultBase
	if decl.ResultArray {
		result = types.ArrayOf(resultBase)
	}
	fn := &symtab.Function{Name: decl.Name.Name, Result: result}
	params := s.Child()
	params.SetFunc(fn)
	if decl.Params != nil {
		for _, arg := range decl.Params.List {
			base, err := c.simpleType(arg.Type, false)
			if err != nil {
				return err
			}
			var typ types.Type = base
			if arg.IsArray {
				typ = types.ArrayOf(base)
			}
			id := &symtab.Ident{Name: arg.Name.Name, Type: typ, Decl: arg.Name}
			if err := params.AddParam(id); err != nil {
				return err
			}
			c.info.Idents[arg.Name] = id
		}
	}
	fid := &symtab.Ident{Name: fn.Name, Type: fn.Type(), Decl: decl.Name}
	if err := s.AddFunc(fid); err != nil {
		return err
	}
	fn.Ident = fid
	c.info.Idents[decl.Name] = fid
	c.info.Funcs[decl] = fn
	return c.block(params.Child(), decl.Body)
}

func (c *checker) returnStmt(s *symtab.Scope, ret *ast.Return) error {
	fn := s.Func()
	if fn == nil {
		return fmterr.Errorf(ret, fmterr.ReturnOutsideFunction, "return statement outside of a function")
	}
	if ret.Value == nil {
		if !types.IsVoid(fn.Result) {
			return fmterr.Errorf(ret, fmterr.IncompatibleTypes, "missing return value in function %s returning %s", fn.Name, fn.Result)
		}
		return nil
	}
	if _, err := c.expr(s, ret.Value); err != nil {
		return err
	}
	if types.IsVoid(fn.Result) {
		return fmterr.Errorf(ret.Value, fmterr.IncompatibleTypes, "function %s does not return a value", fn.Name)
	}
	return c.convert(ret.Value, fn.Result, "return value")
}

// convert records the conversion of the value of expr to type to.
func (c *checker) convert(expr ast.Expr, to types.Type, context string) error {
	err := c.conversion(expr, to)
	if err == nil {
		return nil
	}
	return fmterr.At(expr, fmterr.IncompatibleTypes, errors.Wrap(err, context))
}

func (c *checker) conversion(expr ast.Expr, to types.Type) error {
	from := c.info.Types[expr]
	if from == nil {
		return fmterr.Internalf(expr, "expression %T has not been checked", expr)
	}
	if from.Equal(to) {
		return nil
	}
	if !types.Convertible(from, to) {
		return errors.Errorf("cannot convert %s to %s", from, to)
	}
	conv := &ast.TypeConversion{Pos: expr.Position(), X: expr, To: to.Base()}
	c.info.Conversions[expr] = conv
	c.info.Types[conv] = to
	return nil
}

func (c *checker) expr(s *symtab.Scope, expr ast.Expr) (typ types.Type, err error) {
	switch expr := expr.(type) {
	case *ast.Literal:
		typ, err = c.literal(expr)
	case *ast.Ident:
		typ, err = c.ident(s, expr)
	case *ast.Unary:
		typ, err = c.unary(s, expr)
	case *ast.Binary:
		typ, err = c.binary(s, expr)
	case *ast.Index:
		typ, err = c.index(s, expr)
	case *ast.Call:
		typ, err = c.call(s, expr)
	default:
		err = fmterr.Internalf(expr, "expression %T not supported", expr)
	}
	if err != nil {
		return nil, err
	}
	c.info.Types[expr] = typ
	return typ, nil
}

func (c *checker) literal(lit *ast.Literal) (types.Type, error) {
	val, err := parseLiteral(lit.Text)
	if err != nil {
		return nil, fmterr.At(lit, fmterr.InvalidLiteral, err)
	}
	c.info.Values[lit] = val
	return val.Type, nil
}

func (c *checker) ident(s *symtab.Scope, ident *ast.Ident) (types.Type, error) {
	id, ok := s.Lookup(ident.Name)
	if !ok {
		return nil, fmterr.Errorf(ident, fmterr.UnknownIdentifier, "%s is not defined", ident.Name)
	}
	c.info.Idents[ident] = id
	c.info.Types[ident] = id.Type
	return id.Type, nil
}

func (c *checker) unary(s *symtab.Scope, unary *ast.Unary) (types.Type, error) {
	typ, err := c.expr(s, unary.X)
	if err != nil {
		return nil, err
	}
	switch {
	case types.Int.Equal(typ), types.Float.Equal(typ):
		return typ, nil
	case types.Convertible(typ, types.Int):
		if err := c.conversion(unary.X, types.Int); err != nil {
			return nil, err
		}
		return types.Int, nil
	}
	return nil, fmterr.Errorf(unary, fmterr.IncompatibleOperator, "operator %s not applicable to %s", unary.Op, typ)
}

func (c *checker) binary(s *symtab.Scope, binary *ast.Binary) (types.Type, error) {
	x, err := c.expr(s, binary.X)
	if err != nil {
		return nil, err
	}
	y, err := c.expr(s, binary.Y)
	if err != nil {
		return nil, err
	}
	res, ok := types.ResolveBinary(binary.Op, x, y)
	if !ok {
		return nil, fmterr.Errorf(binary, fmterr.IncompatibleOperator, "operator %s not applicable to (%s, %s)", binary.Op, x, y)
	}
	if res.X != nil {
		if err := c.conversion(binary.X, res.X); err != nil {
			return nil, fmterr.At(binary.X, fmterr.IncompatibleOperator, err)
		}
	}
	if res.Y != nil {
		if err := c.conversion(binary.Y, res.Y); err != nil {
			return nil, fmterr.At(binary.Y, fmterr.IncompatibleOperator, err)
		}
	}
	return res.Result, nil
}

func (c *checker) index(s *symtab.Scope, index *ast.Index) (types.Type, error) {
	typ, err := c.ident(s, index.Array)
	if err != nil {
		return nil, err
	}
	array, ok := typ.(types.Array)
	if !ok {
		return nil, fmterr.Errorf(index.Array, fmterr.NotAnArray, "%s of type %s is not an array", index.Array.Name, typ)
	}
	if _, err := c.expr(s, index.Index); err != nil {
		return nil, err
	}
	if err := c.convert(index.Index, types.Int, "array index"); err != nil {
		return nil, err
	}
	c.info.Types[index] = array.Elem
	return array.Elem, nil
}

func (c *checker) call(s *symtab.Scope, call *ast.Call) (types.Type, error) {
	typ, err := c.ident(s, call.Func)
	if err != nil {
		return nil, err
	}
	fn, ok := typ.(types.Func)
	if !ok {
		return nil, fmterr.Errorf(call.Func, fmterr.NotAFunction, "%s of type %s is not a function", call.Func.Name, typ)
	}
	if len(fn.Params) != len(call.Args) {
		return nil, fmterr.Errorf(call, fmterr.ArgumentCountMismatch, "%s expects %d arguments but got %d", call.Func.Name, len(fn.Params), len(call.Args))
	}
	var mismatches error
	for i, arg := range call.Args {
		if _, err := c.expr(s, arg); err != nil {
			return nil, err
		}
		if err := c.conversion(arg, fn.Params[i]); err != nil {
			mismatches = multierr.Append(mismatches, errors.Wrapf(err, "argument %d of %s", i+1, call.Func.Name))
		}
	}
	if err := fmterr.Aggregate(call, fmterr.ArgumentTypeMismatch, mismatches); err != nil {
		return nil, err
	}
	c.info.Types[call] = fn.Result
	return fn.Result, nil
}
