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

package codegen_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/minic-org/minic/build/codegen"
)

func TestInstrString(t *testing.T) {
	tests := []struct {
		instr codegen.Instr
		want  string
	}{
		{instr: codegen.Instr{Op: "ret"}, want: "ret"},
		{instr: codegen.Instr{Op: "ldc.i4", Args: []string{"0x2A"}}, want: "ldc.i4 0x2A"},
		{instr: codegen.Instr{Label: "IL_IF_END_1"}, want: "IL_IF_END_1:"},
		{instr: codegen.Instr{Label: "entry", Op: "nop"}, want: "entry: nop"},
		{
			instr: codegen.Instr{Def: "%x.1", Op: "add", Args: []string{"i32 %a.1", "%b.2"}},
			want:  "%x.1 = add i32 %a.1, %b.2",
		},
	}
	for _, test := range tests {
		if got := test.instr.String(); got != test.want {
			t.Errorf("got %q but want %q", got, test.want)
		}
	}
}

func TestLog(t *testing.T) {
	l := &codegen.Log{}
	l.Directive(".method f")
	l.Directive("{")
	l.Indent()
	l.Emit("ldc.i4", "0x1")
	l.Label("L1")
	l.Def("%x.1", "add", "i32 %a", "%b")
	l.Dedent()
	l.Directive("}")
	l.Dedent()

	const want = `.method f
{
	ldc.i4 0x1
L1:
	%x.1 = add i32 %a, %b
}
`
	if diff := cmp.Diff(want, l.String()); diff != "" {
		t.Errorf("unexpected listing (-want +got):\n%s", diff)
	}
	const wantNumbered = `1 .method f
2 {
3 	ldc.i4 0x1
4 L1:
5 	%x.1 = add i32 %a, %b
6 }
`
	if diff := cmp.Diff(wantNumbered, l.Numbered()); diff != "" {
		t.Errorf("unexpected numbered listing (-want +got):\n%s", diff)
	}
	if got := l.Len(); got != 6 {
		t.Errorf("got %d entries but want 6", got)
	}
	wantInstrs := []codegen.Instr{
		{Op: "ldc.i4", Args: []string{"0x1"}},
		{Label: "L1"},
		{Def: "%x.1", Op: "add", Args: []string{"i32 %a", "%b"}},
	}
	if diff := cmp.Diff(wantInstrs, l.Instrs()); diff != "" {
		t.Errorf("unexpected instructions (-want +got):\n%s", diff)
	}
}
