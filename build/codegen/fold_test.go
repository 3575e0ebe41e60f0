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
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/minic-org/minic/build/ast"
	"github.com/minic-org/minic/build/checker"
	"github.com/minic-org/minic/build/codegen"
	"github.com/minic-org/minic/build/symtab"
	"github.com/minic-org/minic/build/types"
	"github.com/minic-org/minic/internal/astbuilder"
)

var (
	cilFolder  = codegen.Folder{CharBits: 16, FloatBits: 32}
	llvmFolder = codegen.Folder{CharBits: 8, FloatBits: 64}
)

// argument checks a call to a print function and returns
// its argument as used by the call.
func argument(t *testing.T, print, expr string) (*checker.Info, ast.Expr) {
	t.Helper()
	prog := astbuilder.MustParse(fmt.Sprintf("(func void f ((int x)) (block (call %s %s)))", print, expr))
	info, err := checker.Check(prog, symtab.Universe())
	if err != nil {
		t.Fatalf("cannot check %s: %v", expr, err)
	}
	call := prog.List[0].(*ast.FunctionDecl).Body.List[0].(*ast.Call)
	return info, info.Converted(call.Args[0])
}

func TestFold(t *testing.T) {
	third := 1.0 / 3.0
	tests := []struct {
		print       string
		expr        string
		cil, llvm   types.Value
		noCIL       bool
		noLLVM      bool
		nonConstant bool
	}{
		{print: "print_int", expr: "(+ 2 3)", cil: types.IntValue(5), llvm: types.IntValue(5)},
		{print: "print_int", expr: "(- (* 3 4))", cil: types.IntValue(-12), llvm: types.IntValue(-12)},
		{print: "print_int", expr: "(* 65536 65536)", cil: types.IntValue(0), llvm: types.IntValue(0)},
		{print: "print_int", expr: "(+ 2147483647 1)", cil: types.IntValue(-2147483648), llvm: types.IntValue(-2147483648)},
		{print: "print_int", expr: "(/ 7 (- 2))", cil: types.IntValue(-3), llvm: types.IntValue(-3)},
		{print: "print_int", expr: "2.9", cil: types.IntValue(2), llvm: types.IntValue(2)},
		{print: "print_int", expr: "(- 2.9)", cil: types.IntValue(-2), llvm: types.IntValue(-2)},
		{print: "print_int", expr: "true", cil: types.IntValue(1), llvm: types.IntValue(1)},
		{print: "print_float", expr: "(/ 1.0 3.0)", cil: types.FloatValue(float64(float32(third))), llvm: types.FloatValue(third)},
		{print: "print_float", expr: "7", cil: types.FloatValue(7), llvm: types.FloatValue(7)},
		{print: "print_char", expr: "(+ 'a' 200)", cil: types.CharValue(297), llvm: types.CharValue(41)},
		{print: "print_char", expr: "66", cil: types.CharValue('B'), llvm: types.CharValue('B')},
		{print: "print_bool", expr: "(== 'a' 'a')", cil: types.BoolValue(true), llvm: types.BoolValue(true)},
		{print: "print_bool", expr: "(< 1 2.5)", cil: types.BoolValue(true), llvm: types.BoolValue(true)},
		{print: "print_bool", expr: "(&& true 0)", cil: types.BoolValue(false), llvm: types.BoolValue(false)},
		{print: "print_bool", expr: "2.5", cil: types.BoolValue(true), llvm: types.BoolValue(true)},
		{print: "print_int", expr: "(^ 6 3)", cil: types.IntValue(5), llvm: types.IntValue(5)},
		{print: "print_int", expr: "(/ 1 0)", noCIL: true, noLLVM: true},
		{print: "print_int", expr: "(/ (- (- 2147483647) 1) (- 1))", noCIL: true, noLLVM: true},
		{print: "print_int", expr: "3.0e9", noCIL: true, noLLVM: true},
		{print: "print_char", expr: "(- 1.0)", noCIL: true, noLLVM: true},
		{print: "print_float", expr: "(/ 1.0 0.0)", noCIL: true, noLLVM: true},
		{print: "print_float", expr: "1e39", noCIL: true, llvm: types.FloatValue(1e39)},
		{print: "print_float", expr: "(* 1e20 1e20)", noCIL: true, llvm: types.FloatValue(1e40)},
		{print: "print_int", expr: "(+ x 1)", nonConstant: true, noCIL: true, noLLVM: true},
		{print: "print_int", expr: "(call read_int)", nonConstant: true, noCIL: true, noLLVM: true},
	}
	for _, test := range tests {
		info, used := argument(t, test.print, test.expr)
		if got := codegen.IsConstant(info, used); got != !test.nonConstant {
			t.Errorf("%s: IsConstant = %v but want %v", test.expr, got, !test.nonConstant)
		}
		for _, target := range []struct {
			name   string
			folder codegen.Folder
			want   types.Value
			no     bool
		}{
			{name: "cil", folder: cilFolder, want: test.cil, no: test.noCIL},
			{name: "llvm", folder: llvmFolder, want: test.llvm, no: test.noLLVM},
		} {
			got, ok := target.folder.Eval(info, used)
			if ok == target.no {
				t.Errorf("%s on %s: got folded %v but want %v", test.expr, target.name, ok, !target.no)
				continue
			}
			if !ok {
				continue
			}
			if diff := cmp.Diff(target.want, got); diff != "" {
				t.Errorf("%s on %s: unexpected value (-want +got):\n%s", test.expr, target.name, diff)
			}
		}
	}
}

func TestFoldFloatPerOperation(t *testing.T) {
	info, used := argument(t, "print_float", "(+ 0.1 0.2)")
	got, ok := cilFolder.Eval(info, used)
	if !ok {
		t.Fatal("(+ 0.1 0.2) has not been folded")
	}
	want := types.FloatValue(float64(float32(0.1) + float32(0.2)))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected single precision value (-want +got):\n%s", diff)
	}
	got, _ = llvmFolder.Eval(info, used)
	x, y := 0.1, 0.2
	if diff := cmp.Diff(types.FloatValue(x+y), got); diff != "" {
		t.Errorf("unexpected double precision value (-want +got):\n%s", diff)
	}
}

func TestFoldLiteral(t *testing.T) {
	got, ok := cilFolder.Literal(types.CharValue(0x1F600))
	if !ok || got != types.CharValue(0xF600) {
		t.Errorf("got %v, %v but want %v, true", got, ok, types.CharValue(0xF600))
	}
	got, ok = cilFolder.Literal(types.FloatValue(1e39))
	if ok {
		t.Errorf("1e39 is finite in single precision: %v", got)
	}
	got, ok = llvmFolder.Literal(types.FloatValue(1e39))
	if !ok || got != types.FloatValue(1e39) {
		t.Errorf("got %v, %v but want 1e39, true", got, ok)
	}
}
