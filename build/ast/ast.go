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

// Package ast declares the syntax tree of a program.
//
// The set of nodes is closed: expressions implement Expr,
// statements implement Stmt, and a call implements both.
// Nodes are never modified once built. The semantic analysis
// records its results in a separate table.
package ast

import (
	"github.com/minic-org/minic/build/token"
	"github.com/minic-org/minic/build/types"
)

type (
	// Node is a node in the syntax tree.
	Node interface {
		Position() token.Pos
	}

	// Expr is an expression.
	Expr interface {
		Node
		exprNode()
	}

	// Stmt is a statement.
	Stmt interface {
		Node
		stmtNode()
	}
)

// Expressions.
type (
	// Literal is a literal as written in the source.
	Literal struct {
		token.Pos
		Text string
	}

	// Ident is a reference to, or the declaration of, a name.
	Ident struct {
		token.Pos
		Name string
	}

	// Unary is a unary operation: +x or -x.
	Unary struct {
		token.Pos
		Op token.Op
		X  Expr
	}

	// Binary is a binary operation.
	Binary struct {
		token.Pos
		Op   token.Op
		X, Y Expr
	}

	// Index is an access to an element of an array.
	Index struct {
		token.Pos
		Array *Ident
		Index Expr
	}

	// Call is a function call. A call is also a statement.
	Call struct {
		token.Pos
		Func *Ident
		Args []Expr
	}

	// TypeConversion converts the value of an expression to a simple type.
	// Conversions are never parsed: the semantic analysis creates them
	// for implicit conversions.
	TypeConversion struct {
		token.Pos
		X  Expr
		To types.Base
	}
)

// Statements.
type (
	// Assign stores a value into a variable or an array element.
	// The target is either an *Ident or an *Index.
	Assign struct {
		token.Pos
		Target Expr
		Value  Expr
	}

	// VarDecl declares variables of a simple type.
	// Each variable is either an *Ident or an *Assign initializing it.
	VarDecl struct {
		token.Pos
		Type *Ident
		Vars []Node
	}

	// ArrayDecl declares an array and allocates its elements.
	ArrayDecl struct {
		token.Pos
		Elem *Ident
		Name *Ident
		Size Expr
	}

	// If is a conditional statement. Else is nil if absent.
	If struct {
		token.Pos
		Cond Expr
		Then *StmtList
		Else *StmtList
	}

	// While is a loop checking its condition before each iteration.
	While struct {
		token.Pos
		Cond Expr
		Body *StmtList
	}

	// For is a loop. Init, Cond, and Step are nil if absent.
	For struct {
		token.Pos
		Init Stmt
		Cond Expr
		Step Stmt
		Body *StmtList
	}

	// StmtList is a sequence of statements. A program is a StmtList.
	StmtList struct {
		token.Pos
		List []Stmt
	}

	// FunctionDecl declares a function.
	FunctionDecl struct {
		token.Pos
		Result      *Ident
		ResultArray bool
		Name        *Ident
		Params      *ArgumentList
		Body        *StmtList
	}

	// Return returns from a function. Value is nil for void functions.
	Return struct {
		token.Pos
		Value Expr
	}
)

// Declarations of function parameters.
type (
	// Argument is a formal parameter of a function.
	Argument struct {
		token.Pos
		Type    *Ident
		Name    *Ident
		IsArray bool
	}

	// ArgumentList is the list of formal parameters of a function.
	ArgumentList struct {
		token.Pos
		List []*Argument
	}
)

func (*Literal) exprNode()        {}
func (*Ident) exprNode()          {}
func (*Unary) exprNode()          {}
func (*Binary) exprNode()         {}
func (*Index) exprNode()          {}
func (*Call) exprNode()           {}
func (*TypeConversion) exprNode() {}

func (*Call) stmtNode()         {}
func (*Assign) stmtNode()       {}
func (*VarDecl) stmtNode()      {}
func (*ArrayDecl) stmtNode()    {}
func (*If) stmtNode()           {}
func (*While) stmtNode()        {}
func (*For) stmtNode()          {}
func (*StmtList) stmtNode()     {}
func (*FunctionDecl) stmtNode() {}
func (*Return) stmtNode()       {}

var (
	_ Expr = (*Call)(nil)
	_ Stmt = (*Call)(nil)
	_ Node = (*Argument)(nil)
	_ Node = (*ArgumentList)(nil)
)
