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

// Package token defines source positions, operators, and keywords
// shared by the syntax tree and the type system.
package token

import "fmt"

// Pos is a position in the source. The zero value means no position.
type Pos struct {
	Line, Column int
}

// Position returns the position itself so that any node embedding
// a Pos reports where it starts.
func (p Pos) Position() Pos {
	return p
}

// IsValid returns true if the position refers to a line in the source.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Op is a unary or binary operator.
type Op int

// Operators of the language.
const (
	Illegal Op = iota

	Add // +
	Sub // -
	Mul // *
	Div // /

	Geq // >=
	Leq // <=
	Neq // !=
	Eql // ==
	Gtr // >
	Lss // <

	And // &
	Or  // |
	Xor // ^

	LAnd // &&
	LOr  // ||
)

var ops = [...]string{
	Illegal: "ILLEGAL",
	Add:     "+",
	Sub:     "-",
	Mul:     "*",
	Div:     "/",
	Geq:     ">=",
	Leq:     "<=",
	Neq:     "!=",
	Eql:     "==",
	Gtr:     ">",
	Lss:     "<",
	And:     "&",
	Or:      "|",
	Xor:     "^",
	LAnd:    "&&",
	LOr:     "||",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(ops) {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return ops[op]
}

// Lookup returns the operator spelled s.
func Lookup(s string) (Op, bool) {
	for op, sym := range ops {
		if Op(op) != Illegal && sym == s {
			return Op(op), true
		}
	}
	return Illegal, false
}

// IsArithmetic returns true for + - * and /.
func (op Op) IsArithmetic() bool {
	return Add <= op && op <= Div
}

// IsComparison returns true for relational and equality operators.
func (op Op) IsComparison() bool {
	return Geq <= op && op <= Lss
}

// IsBitwise returns true for & | and ^.
func (op Op) IsBitwise() bool {
	return And <= op && op <= Xor
}

// IsLogical returns true for && and ||.
func (op Op) IsLogical() bool {
	return op == LAnd || op == LOr
}

var keywords = map[string]bool{
	"return": true,
	"for":    true,
	"int":    true,
	"char":   true,
	"void":   true,
	"double": true,
	"float":  true,
	"bool":   true,
	"if":     true,
	"else":   true,
	"while":  true,
	"true":   true,
	"false":  true,
}

// IsKeyword reports whether name is a reserved word of the language.
func IsKeyword(name string) bool {
	return keywords[name]
}
