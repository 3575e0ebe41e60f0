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

// Package build compiles programs: a program is checked once, then
// lowered to the instructions of a target.
package build

import (
	"github.com/minic-org/minic/build/ast"
	"github.com/minic-org/minic/build/checker"
	"github.com/minic-org/minic/build/codegen"
	"github.com/minic-org/minic/build/codegen/cil"
	"github.com/minic-org/minic/build/codegen/llvm"
	"github.com/minic-org/minic/build/symtab"
	"github.com/pkg/errors"
)

var (
	// ErrAlreadyChecked is returned when a unit is checked more than once.
	ErrAlreadyChecked = errors.New("program already checked")
	// ErrNotChecked is returned when a unit is lowered before being checked.
	ErrNotChecked = errors.New("program not checked")
)

// Unit is a program being compiled. A unit is checked at most once.
type Unit struct {
	prog *ast.StmtList
	cfg  *config

	checked  bool
	info     *checker.Info
	checkErr error
}

// NewUnit returns a compilation unit for a program.
func NewUnit(prog *ast.StmtList, opts ...Option) (*Unit, error) {
	if prog == nil {
		return nil, errors.Errorf("no program to compile")
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &Unit{prog: prog, cfg: cfg}, nil
}

// Target returns the target the unit is lowered to.
func (u *Unit) Target() Target {
	return u.cfg.target
}

// Check analyzes the program. It returns the first semantic error found.
func (u *Unit) Check() (*checker.Info, error) {
	if u.checked {
		return nil, ErrAlreadyChecked
	}
	u.checked = true
	u.info, u.checkErr = checker.Check(u.prog, symtab.Universe())
	if u.checkErr != nil {
		u.info = nil
		return nil, u.checkErr
	}
	return u.info, nil
}

// Info returns the result of the analysis, nil if the program
// has not been checked successfully.
func (u *Unit) Info() *checker.Info {
	return u.info
}

// Generate lowers the checked program to its target.
func (u *Unit) Generate() (*codegen.Log, error) {
	if !u.checked {
		return nil, ErrNotChecked
	}
	if u.checkErr != nil {
		return nil, u.checkErr
	}
	switch u.cfg.target {
	case LLVM:
		return llvm.Generate(u.prog, u.info, u.cfg.gen)
	default:
		return cil.Generate(u.prog, u.info, u.cfg.gen)
	}
}

// Compile checks a program and lowers it to a target.
func Compile(prog *ast.StmtList, opts ...Option) (*codegen.Log, error) {
	u, err := NewUnit(prog, opts...)
	if err != nil {
		return nil, err
	}
	if _, err := u.Check(); err != nil {
		return nil, err
	}
	return u.Generate()
}
