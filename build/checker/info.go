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

package checker

import (
	"github.com/minic-org/minic/build/ast"
	"github.com/minic-org/minic/build/symtab"
	"github.com/minic-org/minic/build/types"
)

// Info is the result of the semantic analysis of a program.
// The syntax tree is left untouched: everything the analysis resolves
// or inserts is recorded in Info.
type Info struct {
	// Types maps expressions and assignments to their type.
	Types map[ast.Node]types.Type
	// Idents maps identifiers to what they declare or refer to.
	Idents map[*ast.Ident]*symtab.Ident
	// Conversions maps expressions to the conversion applied to their value.
	Conversions map[ast.Expr]*ast.TypeConversion
	// Values maps literals to their value.
	Values map[*ast.Literal]types.Value
	// Implicit maps loops without a condition to the condition
	// inserted by the analysis.
	Implicit map[*ast.For]*ast.Literal
	// Funcs maps function declarations to their descriptor.
	Funcs map[*ast.FunctionDecl]*symtab.Function
	// Globals lists globals and global-locals of the program in slot order.
	Globals []*symtab.Ident
}

func newInfo() *Info {
	return &Info{
		Types:       make(map[ast.Node]types.Type),
		Idents:      make(map[*ast.Ident]*symtab.Ident),
		Conversions: make(map[ast.Expr]*ast.TypeConversion),
		Values:      make(map[*ast.Literal]types.Value),
		Implicit:    make(map[*ast.For]*ast.Literal),
		Funcs:       make(map[*ast.FunctionDecl]*symtab.Function),
	}
}

// TypeOf returns the type of an expression before any conversion,
// or nil if the expression has not been checked.
func (info *Info) TypeOf(expr ast.Expr) types.Type {
	return info.Types[expr]
}

// Converted returns the expression whose value is used in place of expr:
// the conversion of expr if the analysis inserted one, expr otherwise.
func (info *Info) Converted(expr ast.Expr) ast.Expr {
	if conv, ok := info.Conversions[expr]; ok {
		return conv
	}
	return expr
}

// Cond returns the condition of a loop, explicit or inserted.
func (info *Info) Cond(loop *ast.For) ast.Expr {
	if loop.Cond != nil {
		return loop.Cond
	}
	return info.Implicit[loop]
}
