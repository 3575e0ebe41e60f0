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

// Package llvm lowers a checked program to the textual form of the LLVM IR.
//
// Every variable lives in memory: parameters and locals in stack slots
// allocated when a function is entered, globals in module globals.
// Each load defines a fresh register. Arrays are zeroed heap
// allocations referenced by a pointer.
//
// Statements at the top level of the program run in an initializer
// function called first by main.
package llvm

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
)

// InitName is the global name of the function initializing the program.
const InitName = "@minic.init"

var header = tmpl.Parse("header", `; ModuleID = '{{.Name}}'
source_filename = "{{.Name}}"`)

type generator struct {
	*codegen.Context
	// terminated is true if the current block ends with a terminator.
	terminated bool
	used       map[string]bool
	init       bool
}

// Generate lowers a checked program to an LLVM module.
func Generate(prog *ast.StmtList, info *checker.Info, opts codegen.Options) (_ *codegen.Log, err error) {
	defer codegen.Recover(&err)
	g := &generator{
		Context: codegen.NewContext(info, opts),
		used:    make(map[string]bool),
	}
	if err := g.module(prog); err != nil {
		return nil, err
	}
	return g.Log, nil
}

func (g *generator) module(prog *ast.StmtList) error {
	g.init = hasInitializer(prog, g.Info)
	body := g.Log
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
	if g.init {
		g.initializer(prog)
	}

	head, err := tmpl.Render(header, struct{ Name string }{Name: g.Opts.AssemblyName})
	if err != nil {
		return err
	}
	g.Log = &codegen.Log{}
	for _, line := range strings.Split(head, "\n") {
		g.Log.Directive(line)
	}
	var defs []string
	for _, decl := range runtime {
		if g.used[decl.name] {
			defs = append(defs, decl.text)
		}
	}
	for _, id := range g.Info.Globals {
		defs = append(defs, fmt.Sprintf("%s = global %s %s", symbol(id.Name), typeName(id.Type), zero(id.Type)))
	}
	if len(defs) > 0 {
		g.Log.Directive("")
	}
	for _, def := range defs {
		g.Log.Directive(def)
	}
	g.Log.Append(body)
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

func (g *generator) initializer(prog *ast.StmtList) {
	g.Log.Directive("")
	g.Log.Directive(fmt.Sprintf("define internal void %s() {", InitName))
	g.Func = nil
	g.enter()
	g.stmts(prog)
	if !g.terminated {
		g.ret("void")
	}
	g.leave()
}

// param returns a parameter of a function as declared in its signature.
// Names of values and blocks share a namespace: only the entry block
// is named without a dot.
func param(id *symtab.Ident) string {
	return typeName(id.Type) + " %" + id.Name + ".arg"
}

// slot returns the stack slot of a parameter or a local.
func slot(id *symtab.Ident) string {
	return "%" + id.Name + ".addr"
}

func (g *generator) function(decl *ast.FunctionDecl) {
	fn := g.Info.Funcs[decl]
	if fn == nil {
		g.Fail(decl, "function %s has not been checked", decl.Name.Name)
	}
	g.Log.Directive("")
	g.Log.Directive(fmt.Sprintf("define %s %s(%s) {",
		typeName(fn.Result), symbol(fn.Name), stringseq.JoinFunc(fn.Params, param, ", ")))
	g.Func = fn
	g.enter()
	for _, id := range fn.Params {
		g.emitDef(slot(id), "alloca", typeName(id.Type))
		g.emit("store", param(id), "ptr "+slot(id))
	}
	for _, id := range codegen.CollectLocals(g.Info, decl.Body) {
		g.emitDef(slot(id), "alloca", typeName(id.Type))
		g.emit("store", typeName(id.Type)+" "+zero(id.Type), "ptr "+slot(id))
	}
	if fn.Name == "main" && g.init {
		g.emit("call", fmt.Sprintf("void %s()", InitName))
	}
	g.stmts(decl.Body)
	if !g.terminated {
		if types.IsVoid(fn.Result) {
			g.ret("void")
		} else {
			g.terminate("unreachable")
		}
	}
	g.Func = nil
	g.leave()
}

// enter starts the body of a function. The opening line has been emitted.
func (g *generator) enter() {
	g.Log.Indent()
	g.label("entry")
}

func (g *generator) leave() {
	g.Log.Dedent()
	g.Log.Directive("}")
}

// label starts a new block.
func (g *generator) label(name string) {
	g.Log.Label(name)
	g.terminated = false
}

// live starts a new block if the current one has been terminated,
// so that instructions following a terminator are well formed.
func (g *generator) live() {
	if g.terminated {
		g.label(fmt.Sprintf("ret.after.%d", g.NextControl()))
	}
}

func (g *generator) emit(op string, args ...string) {
	g.live()
	g.Log.Emit(op, args...)
}

func (g *generator) emitDef(reg, op string, args ...string) {
	g.live()
	g.Log.Def(reg, op, args...)
}

// def emits an instruction defining a fresh register named after root.
func (g *generator) def(root, op string, args ...string) string {
	reg := "%" + g.Version(root)
	g.emitDef(reg, op, args...)
	return reg
}

func (g *generator) terminate(op string, args ...string) {
	g.emit(op, args...)
	g.terminated = true
}

func (g *generator) ret(arg string) {
	g.terminate("ret", arg)
}

// jump branches to a label unless the current block is already terminated.
func (g *generator) jump(label string) {
	if g.terminated {
		return
	}
	g.terminate("br", "label %"+label)
}
