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

package build

import (
	"fmt"

	"github.com/minic-org/minic/build/codegen"
	"github.com/pkg/errors"
)

// Target is the instruction set a program is lowered to.
type Target int

const (
	// CIL is the Common Intermediate Language of .NET.
	CIL Target = iota
	// LLVM is the textual LLVM IR.
	LLVM
)

func (t Target) String() string {
	switch t {
	case CIL:
		return "cil"
	case LLVM:
		return "llvm"
	}
	return fmt.Sprintf("Target(%d)", int(t))
}

type (
	// Option configures a compilation unit.
	Option interface {
		option()
	}

	// TargetOption selects the target of the generation.
	TargetOption struct {
		Target Target
	}

	// FoldOption enables or disables the evaluation of constant
	// expressions at compile time.
	FoldOption struct {
		Fold bool
	}

	// AssemblyNameOption names the generated assembly or module.
	AssemblyNameOption struct {
		Name string
	}
)

func (TargetOption) option()       {}
func (FoldOption) option()         {}
func (AssemblyNameOption) option() {}

// WithTarget returns an option selecting the target.
func WithTarget(t Target) Option {
	return TargetOption{Target: t}
}

// WithFolding returns an option enabling or disabling constant folding.
func WithFolding(fold bool) Option {
	return FoldOption{Fold: fold}
}

// WithAssemblyName returns an option naming the generated assembly or module.
func WithAssemblyName(name string) Option {
	return AssemblyNameOption{Name: name}
}

type config struct {
	target Target
	gen    codegen.Options
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		target: CIL,
		gen: codegen.Options{
			Fold:         true,
			AssemblyName: codegen.DefaultAssemblyName,
		},
	}
	for _, opt := range opts {
		switch optT := opt.(type) {
		case TargetOption:
			if optT.Target != CIL && optT.Target != LLVM {
				return nil, errors.Errorf("target %s not supported", optT.Target)
			}
			cfg.target = optT.Target
		case FoldOption:
			cfg.gen.Fold = optT.Fold
		case AssemblyNameOption:
			if optT.Name == "" {
				return nil, errors.Errorf("empty assembly name")
			}
			cfg.gen.AssemblyName = optT.Name
		default:
			return nil, errors.Errorf("option of type %T not supported", optT)
		}
	}
	return cfg, nil
}
