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
	"strings"

	listfmt "github.com/minic-org/minic/base/fmt"
)

// Instr is an instruction of the target.
type Instr struct {
	// Label is the name of a branch target. An instruction with a label
	// and no operation marks a position in the listing.
	Label string
	// Def is the register defined by the instruction, if any.
	Def  string
	Op   string
	Args []string
}

// IsLabel returns true if the instruction only marks a branch target.
func (in Instr) IsLabel() bool {
	return in.Op == "" && in.Label != ""
}

func (in Instr) String() string {
	var s strings.Builder
	if in.Label != "" {
		s.WriteString(in.Label)
		s.WriteString(":")
		if in.Op == "" {
			return s.String()
		}
		s.WriteString(" ")
	}
	if in.Def != "" {
		s.WriteString(in.Def)
		s.WriteString(" = ")
	}
	s.WriteString(in.Op)
	if len(in.Args) > 0 {
		s.WriteString(" ")
		s.WriteString(strings.Join(in.Args, ", "))
	}
	return s.String()
}

type entry struct {
	depth int
	// instr is nil for directives.
	instr *Instr
	text  string
}

// Log is the ordered output of a generation pass: instructions
// interleaved with target directives.
type Log struct {
	entries []entry
	depth   int
}

// Emit appends an instruction.
func (l *Log) Emit(op string, args ...string) {
	l.append(Instr{Op: op, Args: args})
}

// Def appends an instruction defining a register.
func (l *Log) Def(def, op string, args ...string) {
	l.append(Instr{Def: def, Op: op, Args: args})
}

// Label appends a branch target.
func (l *Log) Label(name string) {
	l.append(Instr{Label: name})
}

func (l *Log) append(in Instr) {
	l.entries = append(l.entries, entry{depth: l.depth, instr: &in})
}

// Directive appends a line of text which is not an instruction,
// typically a declaration or a brace.
func (l *Log) Directive(text string) {
	l.entries = append(l.entries, entry{depth: l.depth, text: text})
}

// Append appends the entries of another log, keeping their indentation
// relative to the current one.
func (l *Log) Append(other *Log) {
	for _, e := range other.entries {
		e.depth += l.depth
		l.entries = append(l.entries, e)
	}
}

// Indent increases the indentation of the next entries.
func (l *Log) Indent() {
	l.depth++
}

// Dedent decreases the indentation of the next entries.
func (l *Log) Dedent() {
	if l.depth > 0 {
		l.depth--
	}
}

// Instrs returns the instructions in order, without the directives.
func (l *Log) Instrs() []Instr {
	var instrs []Instr
	for _, e := range l.entries {
		if e.instr != nil {
			instrs = append(instrs, *e.instr)
		}
	}
	return instrs
}

// Len returns the number of entries in the log.
func (l *Log) Len() int {
	return len(l.entries)
}

// String returns the listing of the log. Labels are not indented
// relative to their enclosing block.
func (l *Log) String() string {
	var s strings.Builder
	for _, e := range l.entries {
		depth := e.depth
		line := e.text
		if e.instr != nil {
			line = e.instr.String()
			if e.instr.IsLabel() && depth > 0 {
				depth--
			}
		}
		s.WriteString(listfmt.IndentWith(strings.Repeat("\t", depth), line+"\n"))
	}
	return s.String()
}

// Numbered returns the listing with line numbers.
func (l *Log) Numbered() string {
	return listfmt.Number(l.String())
}
