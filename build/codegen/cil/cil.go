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

// Package cil lowers a checked program to Common Intermediate Language,
// as assembled by ilasm.
//
// Functions become static methods of a Program class. Globals become
// static fields initialized, together with the other statements at the
// top level of the program, by the type initializer of the class.
package cil

import (
	"fmt"
	"strings"

	"github.com/minic-org/minic/base/stringseq"
	"github.com/minic-org/minic/base/tmpl"
	"github.com/minic-org/minic/build/ast"
	"github.com/minic-org/minic/build/checker"
	"github.com/minic-org/minic/build/codegen"
	"github.com/minic-org/minic/build/symtab"
	"github.com/minic-org/minic/build/types"
	"github.com/pkg/errors"
)

// ClassName is the class holding the methods and fields of a program.
const ClassName = "Program"

var header = tmpl.Parse("header", `.assembly extern mscorlib
{
	.publickeytoken = (B7 7A 5C 56 19 34 E0 89)
	.ver 4:0:0:0
}
.assembly {{.Name}}
{
	.ver 1:0:0:0
}
.module {{.Name}}.exe

.class private auto ansi {{.Class}} extends [mscorlib]System.Object
{`)

type generator struct {
	*codegen.Context
}

// Generate lowers a checked program to a CIL listing.
func Generate(prog *ast.StmtList, info *checker.Info, opts codegen.Options) (_ *codegen.Log, err error) {
	defer codegen.Recover(&err)
	g := generator{Context: codegen.NewContext(info, opts)}
	if err := g.program(prog); err != nil {
		return nil, err
	}
	return g.Log, nil
}

func (g generator) program(prog *ast.StmtList) error {
	head, err := tmpl.Render(header, struct{ Name, Class string }{
		Name:  g.Opts.AssemblyName,
		Class: ClassName,
	})
	if err != nil {
		return err
	}
	for _, line := range strings.Split(head, "\n") {
		g.Log.Directive(line)
	}
	g.Log.Indent()
	for _, id := range g.Info.Globals {
		g.Log.Directive(fmt.Sprintf(".field private static %s %s", typeName(id.Type), id.Name))
	}
	var funcs []*ast.FunctionDecl
	ast.Inspect(prog, func(n ast.Node) bool {
		if fn, ok := n.(*ast.FunctionDecl); ok {
			funcs = append(funcs, fn)
			return false
		}
		return true
	})
	for _, fn := range funcs {
		g.function(fn)
	}
	if hasInitializer(prog, g.Info) {
		g.initializer(prog)
	}
	g.Log.Dedent()
	g.Log.Directive("}")
	return nil
}

// hasInitializer returns true if the top level of the program declares
// globals or executes statements.
func hasInitializer(prog *ast.StmtList, info *checker.Info) bool {
	if len(info.Globals) > 0 {
		return true
	}
	for _, stmt := range prog.List {
		if _, isFunc := stmt.(*ast.FunctionDecl); !isFunc {
			return true
		}
	}
	return false
}

func (g generator) initializer(prog *ast.StmtList) {
	g.Log.Directive(".method private hidebysig specialname rtspecialname static void .cctor() cil managed")
	g.Log.Directive("{")
	g.Log.Indent()
	g.Log.Directive(".maxstack 8")
	g.Func = nil
	g.stmts(prog)
	g.Log.Emit("ret")
	g.Log.Dedent()
	g.Log.Directive("}")
}

func param(id *symtab.Ident) string {
	return typeName(id.Type) + " " + id.Name
}

// local declares the local of a method stored at index i.
func local(i int, id *symtab.Ident) (string, error) {
	if id.Slot != i {
		return "", errors.Errorf("local %s stored at %d but allocated to slot %d", id.Name, i, id.Slot)
	}
	return fmt.Sprintf("[%d] %s", i, param(id)), nil
}

func (g generator) function(decl *ast.FunctionDecl) {
	fn := g.Info.Funcs[decl]
	if fn == nil {
		g.Fail(decl, "function %s has not been checked", decl.Name.Name)
	}
	g.Log.Directive(fmt.Sprintf(".method private hidebysig static %s %s(%s) cil managed",
		typeName(fn.Result), fn.Name, stringseq.JoinFunc(fn.Params, param, ", ")))
	g.Log.Directive("{")
	g.Log.Indent()
	if fn.Name == "main" {
		g.Log.Directive(".entrypoint")
	}
	g.Log.Directive(".maxstack 8")
	if locals := codegen.CollectLocals(g.Info, decl.Body); len(locals) > 0 {
		decls, err := tmpl.IterateFunc(locals, ", ", local)
		if err != nil {
			g.Fail(decl, "%v", err)
		}
		g.Log.Directive(fmt.Sprintf(".locals init (%s)", decls))
	}
	g.Func = fn
	g.stmts(decl.Body)
	if !codegen.Returns(decl.Body) {
		g.zero(fn.Result)
		g.Log.Emit("ret")
	}
	g.Func = nil
	g.Log.Dedent()
	g.Log.Directive("}")
}

// zero pushes the zero value of a type, nothing for void.
func (g generator) zero(typ types.Type) {
	switch {
	case types.IsVoid(typ):
	case types.IsArray(typ):
		g.Log.Emit("ldnull")
	case types.Float.Equal(typ):
		g.Log.Emit("ldc.r4", "0.0")
	default:
		g.Log.Emit("ldc.i4.0")
	}
}

// raw emits an instruction written as text.
func (g generator) raw(text string) {
	op, args, ok := strings.Cut(text, " ")
	if !ok {
		g.Log.Emit(op)
		return
	}
	g.Log.Emit(op, args)
}
