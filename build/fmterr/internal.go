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

	"github.com/pkg/errors"
)

// ErrInternal is the cause of every internal error.
var ErrInternal = errors.New("minic internal error")

type internalError struct {
	pos string
	err error
}

// Internal marks an error as internal. An internal error is never caused
// by the program being compiled: it is a bug in the compiler.
func Internal(err error) error {
	return internalError{err: err}
}

// Internalf returns an internal error located at src. src can be nil.
func Internalf(src Positioner, format string, a ...any) error {
	ie := internalError{err: errors.Errorf(format, a...)}
	if src != nil && src.Position().IsValid() {
		ie.pos = src.Position().String() + ": "
	}
	return ie
}

// IsInternal returns true if err is an internal error.
func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

func (err internalError) Error() string {
	return fmt.Sprintf("%s. This is a bug in minic. Please report it. Error:\n%s%s", ErrInternal, err.pos, err.err)
}

func (err internalError) Is(target error) bool {
	return target == ErrInternal
}

func (err internalError) Unwrap() error {
	return err.err
}

// Format writes the error into the state of the formatter.
func (err internalError) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}
