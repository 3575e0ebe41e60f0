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

package codegen

import (
	"github.com/minic-org/minic/build/ast"
	"github.com/minic-org/minic/build/checker"
	"github.com/minic-org/minic/build/symtab"
)

// CollectLocals returns the variables and arrays declared anywhere in body,
// flattened across nested blocks, in declaration order.
func CollectLocals(info *checker.Info, body ast.Node) []*symtab.Ident {
	var locals []*symtab.Ident
	declared := func(name *ast.Ident) {
		if id := info.Idents[name]; id != nil {
			locals = append(locals, id)
		}
	}
	ast.Inspect(body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.VarDecl:
			for _, v := range n.Vars {
				switch v := v.(type) {
				case *ast.Ident:
					declared(v)
				case *ast.Assign:
					if name, ok := v.Target.(*ast.Ident); ok {
						declared(name)
					}
				}
			}
			return false
		case *ast.ArrayDecl:
			declared(n.Name)
			return false
		case *ast.FunctionDecl:
			return false
		}
		return true
	})
	return locals
}

// Callee returns the function called by a call.
func (ctx *Context) Callee(call *ast.Call) *symtab.Ident {
	id := ctx.Ident(call.Func)
	if !id.IsFunc() {
		ctx.Fail(call, "%s is not a function", call.Func.Name)
	}
	return id
}

// Returns reports whether a list of statements ends with a return statement.
func Returns(list *ast.StmtList) bool {
	if list == nil || len(list.List) == 0 {
		return false
	}
	switch last := list.List[len(list.List)-1].(type) {
	case *ast.Return:
		return true
	case *ast.StmtList:
		return Returns(last)
	}
	return false
}
