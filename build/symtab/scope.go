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

// Package symtab implements the symbol table: nested lexical scopes
// binding names to identifiers and allocating their storage slots.
//
// Scopes form a tree rooted at the universe, which holds the builtin
// functions. The only child of the universe is the global scope of
// a program. Slots are allocated per function for parameters and locals,
// and per program for globals, never per block.
package symtab

import (
	"github.com/minic-org/minic/build/fmterr"
	"github.com/minic-org/minic/build/token"
	"github.com/minic-org/minic/build/types"
	"github.com/minic-org/minic/internal/base/scope"
)

type level int

const (
	universeLevel level = iota
	globalLevel
	blockLevel
)

// program is shared by all the scopes of a program.
type program struct {
	global *Scope
	// statics lists globals and global-locals in slot order.
	statics []*Ident
}

// Scope is a lexical scope.
type Scope struct {
	names  *scope.Scope[*Ident]
	parent *Scope
	level  level
	prog   *program
	fn     *Function
}

// Child returns a new scope nested in s. The child of the universe
// is the global scope of a new program.
func (s *Scope) Child() *Scope {
	child := &Scope{
		names:  scope.New(s.names),
		parent: s,
		level:  blockLevel,
		prog:   s.prog,
	}
	if s.level == universeLevel {
		child.level = globalLevel
		child.prog = &program{global: child}
	}
	return child
}

// Parent returns the enclosing scope, nil for the universe.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Global returns the global scope of the program, nil for the universe.
func (s *Scope) Global() *Scope {
	if s.prog == nil {
		return nil
	}
	return s.prog.global
}

// Statics returns the globals and global-locals of the program
// in slot order.
func (s *Scope) Statics() []*Ident {
	if s.prog == nil {
		return nil
	}
	return s.prog.statics
}

// SetFunc marks s as the scope of a function being declared.
func (s *Scope) SetFunc(fn *Function) {
	s.fn = fn
}

// Func returns the function owning the scope, searching outward,
// or nil if the scope is not in a function.
func (s *Scope) Func() *Function {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.fn != nil {
			return sc.fn
		}
	}
	return nil
}

// InFunction returns true if the scope is in a function.
func (s *Scope) InFunction() bool {
	return s.Func() != nil
}

// Lookup returns the nearest identifier bound to name.
func (s *Scope) Lookup(name string) (*Ident, bool) {
	return s.names.Find(name)
}

// LookupLocal returns the identifier bound to name in s only.
func (s *Scope) LookupLocal(name string) (*Ident, bool) {
	return s.names.FindLocal(name)
}

func duplicate(id *Ident, prev *Ident) error {
	if prev.Decl != nil && prev.Decl.Position().IsValid() {
		return fmterr.Errorf(id.Decl, fmterr.DuplicateIdentifier, "%s redeclared, previous declaration at %s", id.Name, prev.Decl.Position())
	}
	return fmterr.Errorf(id.Decl, fmterr.DuplicateIdentifier, "%s redeclared", id.Name)
}

func reserved(id *Ident) error {
	if token.IsKeyword(id.Name) {
		return fmterr.Errorf(id.Decl, fmterr.ReservedName, "cannot use %s as a name", id.Name)
	}
	return nil
}

func (s *Scope) define(id *Ident) error {
	if prev, ok := s.names.FindLocal(id.Name); ok {
		return duplicate(id, prev)
	}
	return s.names.Define(id.Name, id)
}

// globalConflict returns a previous global declaration of name:
// a builtin, a global, a function, or a global-local.
func (s *Scope) globalConflict(name string) *Ident {
	if prev, ok := s.prog.global.Lookup(name); ok {
		return prev
	}
	for _, prev := range s.prog.statics {
		if prev.Name == name {
			return prev
		}
	}
	return nil
}

// AddParam declares a parameter of the function owning s.
// A parameter collides only with the other parameters.
func (s *Scope) AddParam(id *Ident) error {
	fn := s.Func()
	if fn == nil {
		return fmterr.Internalf(id.Decl, "parameter %s declared outside of a function", id.Name)
	}
	if err := reserved(id); err != nil {
		return err
	}
	if prev := fn.Param(id.Name); prev != nil {
		return duplicate(id, prev)
	}
	id.Kind = Param
	id.Slot = len(fn.Params)
	if err := s.define(id); err != nil {
		return err
	}
	fn.Params = append(fn.Params, id)
	return nil
}

// AddVar declares a variable or an array in s. In a function, a local
// collides with any parameter or local of the function, even in another
// block, but can shadow a global. At the top level, a global collides
// with other globals, and a global-local collides with any visible name.
func (s *Scope) AddVar(id *Ident) error {
	if s.prog == nil {
		return fmterr.Internalf(id.Decl, "variable %s declared in the universe", id.Name)
	}
	if err := reserved(id); err != nil {
		return err
	}
	if fn := s.Func(); fn != nil {
		prev := fn.Param(id.Name)
		if prev == nil {
			prev = fn.find(fn.Locals, id.Name)
		}
		if prev != nil {
			return duplicate(id, prev)
		}
		id.Kind = Local
		id.Slot = len(fn.Locals)
		if err := s.define(id); err != nil {
			return err
		}
		fn.Locals = append(fn.Locals, id)
		return nil
	}
	id.Kind = Global
	if s.level == blockLevel {
		id.Kind = GlobalLocal
		if prev, ok := s.Lookup(id.Name); ok {
			return duplicate(id, prev)
		}
	}
	if prev := s.globalConflict(id.Name); prev != nil {
		return duplicate(id, prev)
	}
	id.Slot = len(s.prog.statics)
	if err := s.define(id); err != nil {
		return err
	}
	s.prog.statics = append(s.prog.statics, id)
	return nil
}

// AddFunc declares a function in the global scope, regardless of
// the scope it is called on.
func (s *Scope) AddFunc(id *Ident) error {
	global := s.Global()
	if global == nil {
		return fmterr.Internalf(id.Decl, "function %s declared in the universe", id.Name)
	}
	if err := reserved(id); err != nil {
		return err
	}
	if prev := s.globalConflict(id.Name); prev != nil {
		return duplicate(id, prev)
	}
	id.Kind = Global
	id.Slot = NoSlot
	return global.define(id)
}

// Universe returns a new root scope holding the builtin functions.
func Universe() *Scope {
	u := &Scope{names: scope.New[*Ident](nil), level: universeLevel}
	for _, b := range Builtins() {
		u.names.Define(b.Name, b)
	}
	return u
}

// Builtins returns the descriptors of the builtin functions.
func Builtins() []*Ident {
	var ids []*Ident
	builtin := func(name string, result types.Type, params ...types.Type) {
		ids = append(ids, &Ident{
			Name:    name,
			Type:    types.Func{Result: result, Params: params},
			Kind:    Global,
			Slot:    NoSlot,
			Builtin: true,
		})
	}
	str := types.ArrayOf(types.Char)
	builtin("print_int", types.Void, types.Int)
	builtin("print_float", types.Void, types.Float)
	builtin("print_char", types.Void, types.Char)
	builtin("print_bool", types.Void, types.Bool)
	builtin("print_string", types.Void, str)
	builtin("read_int", types.Int)
	builtin("read_float", types.Float)
	builtin("read_char", types.Char)
	builtin("read_bool", types.Bool)
	builtin("read_string", str)
	return ids
}
