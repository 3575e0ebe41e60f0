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

package fmterr

import (
	"fmt"

	"github.com/minic-org/minic/build/token"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Positioner is anything located in the source, typically a syntax node.
type Positioner interface {
	Position() token.Pos
}

// Error is a semantic error attached to a position in the source.
type Error struct {
	Kind Kind
	Pos  token.Pos
	Err  error
}

var _ error = (*Error)(nil)

// Errorf returns a semantic error of a given kind located at src.
// src can be nil if the error has no position.
func Errorf(src Positioner, kind Kind, format string, a ...any) *Error {
	return At(src, kind, errors.Errorf(format, a...))
}

// At attaches a kind and the position of src to an existing error.
func At(src Positioner, kind Kind, err error) *Error {
	var pos token.Pos
	if src != nil {
		pos = src.Position()
	}
	return &Error{Kind: kind, Pos: pos, Err: err}
}

// Aggregate returns a single error of a given kind grouping
// all the errors combined in errs.
// It returns nil if errs is nil.
func Aggregate(src Positioner, kind Kind, errs error) error {
	if errs == nil {
		return nil
	}
	return At(src, kind, errs)
}

// Error returns a string description of the error.
func (err *Error) Error() string {
	msg := err.Kind.String()
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	if !err.Pos.IsValid() {
		return msg
	}
	return err.Pos.String() + ": " + msg
}

// Is returns true if target is the kind of the error.
func (err *Error) Is(target error) bool {
	kind, ok := target.(Kind)
	return ok && kind == err.Kind
}

// Unwrap the error.
func (err *Error) Unwrap() error {
	return err.Err
}

// Causes returns the individual errors grouped by the error.
// An error that does not aggregate other errors is its own cause.
func (err *Error) Causes() []error {
	return multierr.Errors(err.Err)
}

// Format writes the error into the state of the formatter.
func (err *Error) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}
