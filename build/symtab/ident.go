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

package symtab

import (
	"fmt"

	"github.com/minic-org/minic/build/ast"
	"github.com/minic-org/minic/build/types"
)

// Kind is the storage class of an identifier.
type Kind int

// Storage classes.
const (
	// Global is declared at the top level of the program.
	// Functions and builtins are globals.
	Global Kind = iota
	// GlobalLocal is declared in a block at the top level of the program,
	// outside of any function. It is stored like a global.
	GlobalLocal
	// Param is a formal parameter of a function.
	Param
	// Local is declared in the body of a function.
	Local
)

func (k Kind) String() string {
	switch k {
	case Global:
		return "global"
	case GlobalLocal:
		return "global-local"
	case Param:
		return "param"
	case Local:
		return "local"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// NoSlot is the slot of identifiers without storage, that is functions.
const NoSlot = -1

// Ident describes a declared name.
type Ident struct {
	Name string
	Type types.Type
	Kind Kind
	// Slot is the index of the storage of the identifier among the
	// parameters or the locals of its function, or among the program statics.
	Slot    int
	Builtin bool
	// Size is the size expression of a declared array. It is nil for
	// other identifiers and for array parameters.
	Size ast.Expr
	// Decl is the node declaring the identifier, nil for builtins.
	Decl ast.Node
}

// IsFunc returns true if the identifier names a function.
func (id *Ident) IsFunc() bool {
	_, ok := id.Type.(types.Func)
	return ok
}

// IsArray returns true if the identifier names an array.
func (id *Ident) IsArray() bool {
	return types.IsArray(id.Type)
}

// IsStatic returns true if the identifier is stored for the whole
// lifetime of the program.
func (id *Ident) IsStatic() bool {
	return !id.IsFunc() && (id.Kind == Global || id.Kind == GlobalLocal)
}

func (id *Ident) String() string {
	if id.IsFunc() {
		return fmt.Sprintf("%s: %s (%s)", id.Name, id.Type, id.Kind)
	}
	return fmt.Sprintf("%s: %s (%s %d)", id.Name, id.Type, id.Kind, id.Slot)
}

// Function is the descriptor of the function being declared.
// A scope owned by a function finds it with Scope.Func.
type Function struct {
	Name   string
	Result types.Type
	// Ident is nil while the parameters of the function are declared.
	Ident  *Ident
	Params []*Ident
	// Locals lists the locals of the function in slot order,
	// regardless of the block declaring them.
	Locals []*Ident
}

func (fn *Function) find(list []*Ident, name string) *Ident {
	for _, id := range list {
		if id.Name == name {
			return id
		}
	}
	return nil
}

// Param returns the parameter of the function with a given name.
func (fn *Function) Param(name string) *Ident {
	return fn.find(fn.Params, name)
}

// Type returns the type of the function given its parameters.
func (fn *Function) Type() types.Func {
	params := make([]types.Type, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Type
	}
	return types.Func{Result: fn.Result, Params: params}
}
