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

// Package codegen provides the state and the helpers shared by
// the targets lowering a checked program to instructions.
//
// Generation assumes the program has been checked successfully.
// Any inconsistency found while lowering is a bug in the compiler:
// targets panic with an internal error, recovered by Recover
// at their entry point.
package codegen

import (
	"fmt"

	"github.com/minic-org/minic/base/uname"
	"github.com/minic-org/minic/build/ast"
	"github.com/minic-org/minic/build/checker"
	"github.com/minic-org/minic/build/fmterr"
	"github.com/minic-org/minic/build/symtab"
	"github.com/minic-org/minic/build/types"
)

// DefaultAssemblyName is the name of the generated assembly or module
// if none is specified.
const DefaultAssemblyName = "program"

// Options configure a generation pass.
type Options struct {
	// Fold enables the evaluation of literal-only expressions
	// at compile time.
	Fold bool
	// AssemblyName names the generated assembly or module.
	AssemblyName string
}

// Context is the state of a generation pass. It is owned by
// a single pass and never shared.
type Context struct {
	Info *checker.Info
	Opts Options
	Log  *Log
	// Func is the function being lowered, nil at the top level.
	Func *symtab.Function

	versions *uname.Unique
	control  int
}

// NewContext returns a new context to lower a checked program.
func NewContext(info *checker.Info, opts Options) *Context {
	if opts.AssemblyName == "" {
		opts.AssemblyName = DefaultAssemblyName
	}
	return &Context{
		Info:     info,
		Opts:     opts,
		Log:      &Log{},
		versions: uname.New(),
	}
}

// Version returns a fresh version of a name. Versions of a name never repeat.
func (ctx *Context) Version(name string) string {
	return ctx.versions.Version(name)
}

// NextControl returns a fresh number to suffix the labels
// of a control structure.
func (ctx *Context) NextControl() int {
	ctx.control++
	return ctx.control
}

// Fail aborts the generation with an internal error located at node.
func (ctx *Context) Fail(node ast.Node, format string, a ...any) {
	var src fmterr.Positioner
	if node != nil {
		src = node
	}
	panic(fmterr.Internalf(src, format, a...))
}

// TypeOf returns the type of an expression as used, that is after conversion.
func (ctx *Context) TypeOf(expr ast.Expr) types.Type {
	typ := ctx.Info.Types[ctx.Info.Converted(expr)]
	if typ == nil {
		ctx.Fail(expr, "no type for expression %T", expr)
	}
	return typ
}

// Ident returns the identifier an AST identifier refers to.
func (ctx *Context) Ident(ident *ast.Ident) *symtab.Ident {
	id := ctx.Info.Idents[ident]
	if id == nil {
		ctx.Fail(ident, "identifier %s has not been resolved", ident.Name)
	}
	return id
}

// IsParam returns true if id is a parameter of the function being lowered.
func (ctx *Context) IsParam(id *symtab.Ident) bool {
	return ctx.Func != nil && id.Kind == symtab.Param && ctx.Func.Param(id.Name) == id
}

// Recover converts a panic raised while lowering into an error stored in err.
// It is meant to be deferred by the entry point of a target.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if rErr, ok := r.(error); ok && fmterr.IsInternal(rErr) {
		*err = rErr
		return
	}
	*err = fmterr.Internal(fmt.Errorf("%v", r))
}
