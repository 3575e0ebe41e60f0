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

// Package fmterr defines the errors reported while compiling a program
// and formats them given a position in the source.
package fmterr

import "fmt"

// Kind classifies a semantic error. A Kind is an error so that callers
// can test for it with errors.Is.
type Kind int

// Kinds of semantic errors.
const (
	UnknownIdentifier Kind = iota + 1
	UnknownType
	DuplicateIdentifier
	IncompatibleOperator
	IncompatibleTypes
	ArgumentCountMismatch
	ArgumentTypeMismatch
	NotAnArray
	NotAFunction
	NestedFunctionNotSupported
	ReturnOutsideFunction
	InvalidLiteral
	ReservedName
)

var kindNames = map[Kind]string{
	UnknownIdentifier:          "unknown identifier",
	UnknownType:                "unknown type",
	DuplicateIdentifier:        "duplicate identifier",
	IncompatibleOperator:       "incompatible operator",
	IncompatibleTypes:          "incompatible types",
	ArgumentCountMismatch:      "argument count mismatch",
	ArgumentTypeMismatch:       "argument type mismatch",
	NotAnArray:                 "not an array",
	NotAFunction:               "not a function",
	NestedFunctionNotSupported: "nested function not supported",
	ReturnOutsideFunction:      "return outside function",
	InvalidLiteral:             "invalid literal",
	ReservedName:               "reserved name",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error returns the name of the kind.
func (k Kind) Error() string {
	return k.String()
}
