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

package cil_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/minic-org/minic/build/checker"
	"github.com/minic-org/minic/build/codegen"
	"github.com/minic-org/minic/build/codegen/cil"
	"github.com/minic-org/minic/build/fmterr"
	"github.com/minic-org/minic/build/symtab"
	"github.com/minic-org/minic/internal/astbuilder"
)

func generate(t *testing.T, src string, fold bool) *codegen.Log {
	t.Helper()
	prog, err := astbuilder.Parse(src)
	if err != nil {
		t.Fatalf("cannot parse:\n%s\nerror: %v", src, err)
	}
	info, err := checker.Check(prog, symtab.Universe())
	if err != nil {
		t.Fatalf("cannot check:\n%s\nerror: %+v", src, err)
	}
	log, err := cil.Generate(prog, info, codegen.Options{Fold: fold})
	if err != nil {
		t.Fatalf("cannot generate:\n%s\nerror: %+v", src, err)
	}
	return log
}

func ops(instrs []codegen.Instr) []string {
	var ops []string
	for _, in := range instrs {
		if !in.IsLabel() {
			ops = append(ops, in.Op)
		}
	}
	return ops
}

func TestFoldingPreservesValues(t *testing.T) {
	tests := []struct {
		print string
		expr  string
		want  string
	}{
		{print: "print_int", expr: "(+ 2 3)", want: "5"},
		{print: "print_int", expr: "(- 2 (* 3 4))", want: "-10"},
		{print: "print_int", expr: "(/ 7 2)", want: "3"},
		{print: "print_int", expr: "(- 7)", want: "-7"},
		{print: "print_int", expr: "(^ 6 3)", want: "5"},
		{print: "print_int", expr: "(| 4 (& 7 2))", want: "6"},
		{print: "print_float", expr: "(/ 1.0 3.0)", want: "0.33333334"},
		{print: "print_float", expr: "(* 0.5 (- 4.0))", want: "-2"},
		{print: "print_bool", expr: "(< 1 2)", want: "true"},
		{print: "print_bool", expr: "(!= 1 1)", want: "false"},
		{print: "print_bool", expr: "(>= 2.5 2.5)", want: "true"},
		{print: "print_bool", expr: "(<= 3.5 2.5)", want: "false"},
		{print: "print_bool", expr: "(&& true false)", want: "false"},
		{print: "print_bool", expr: "(|| true false)", want: "true"},
		{print: "print_char", expr: "(+ 'A' 1)", want: "B"},
		{print: "print_int", expr: "'a'", want: "97"},
		{print: "print_bool", expr: "7", want: "true"},
		{print: "print_bool", expr: "0.0", want: "false"},
	}
	for _, test := range tests {
		src := fmt.Sprintf("(call %s %s)", test.print, test.expr)
		var outs [2]string
		var lens [2]int
		for i, fold := range []bool{false, true} {
			log := generate(t, src, fold)
			m := &machine{}
			if err := m.run(log.Instrs()); err != nil {
				t.Errorf("%s (fold=%v): %v\n%s", src, fold, err, log.Numbered())
				continue
			}
			outs[i] = strings.Join(m.out, "\n")
			lens[i] = len(log.Instrs())
		}
		if outs[0] != test.want {
			t.Errorf("%s: got %q but want %q", src, outs[0], test.want)
		}
		if outs[1] != outs[0] {
			t.Errorf("%s: folded output %q differs from unfolded output %q", src, outs[1], outs[0])
		}
		if lens[1] > lens[0] {
			t.Errorf("%s: folding produced %d instructions, more than %d without folding", src, lens[1], lens[0])
		}
	}
}

func TestFoldedDeclaration(t *testing.T) {
	const src = "(var int (= a (+ 2 3)))"
	folded := generate(t, src, true)
	want := []codegen.Instr{
		{Op: "ldc.i4", Args: []string{"0x5"}},
		{Op: "stsfld", Args: []string{"int32 Program::a"}},
		{Op: "ret"},
	}
	if diff := cmp.Diff(want, folded.Instrs()); diff != "" {
		t.Errorf("unexpected folded instructions (-want +got):\n%s", diff)
	}
	unfolded := generate(t, src, false)
	if diff := cmp.Diff([]string{"ldc.i4", "ldc.i4", "add", "stsfld", "ret"}, ops(unfolded.Instrs())); diff != "" {
		t.Errorf("unexpected unfolded instructions (-want +got):\n%s", diff)
	}
}

func TestNoFoldingOnRuntimeErrors(t *testing.T) {
	for _, src := range []string{
		"(call print_int (/ 1 0))",
		"(call print_int (/ (- (- 2147483647) 1) (- 1)))",
	} {
		log := generate(t, src, true)
		if got := ops(log.Instrs()); !contains(got, "div") {
			t.Errorf("%s: division has been folded:\n%s", src, log)
		}
	}
}

func contains(ops []string, op string) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}

func TestForWithoutClausesLowersAsWhileTrue(t *testing.T) {
	const (
		while   = "(func void main () (block (while true (block (call print_int 1)))))"
		forLoop = "(func void main () (block (for _ _ _ (block (call print_int 1)))))"
	)
	for _, fold := range []bool{false, true} {
		w := generate(t, while, fold)
		f := generate(t, forLoop, fold)
		if diff := cmp.Diff(w.String(), f.String()); diff != "" {
			t.Errorf("fold=%v: for(;;) and while(true) listings differ (-while +for):\n%s", fold, diff)
		}
		var brtrue, br int
		for _, op := range ops(f.Instrs()) {
			switch op {
			case "brtrue":
				brtrue++
			case "br":
				br++
			}
		}
		if brtrue != 1 || br != 1 {
			t.Errorf("fold=%v: got %d brtrue and %d br but want 1 of each:\n%s", fold, brtrue, br, f)
		}
	}
}

func TestLabelsAreUnique(t *testing.T) {
	const src = `
(func void main () (block
  (var int (= i 0))
  (for (= i 0) (< i 10) (= i (+ i 1)) (block
    (if (< i 5)
      (block (while (> i 7) (block (= i (+ i 1)))))
      (block (if true (block (call print_int i))))
    )
    (while false (block))
  ))
))`
	log := generate(t, src, false)
	labels := make(map[string]bool)
	var targets []string
	for _, in := range log.Instrs() {
		if in.IsLabel() {
			if labels[in.Label] {
				t.Errorf("label %s defined twice", in.Label)
			}
			labels[in.Label] = true
			continue
		}
		switch in.Op {
		case "br", "brtrue", "brfalse":
			targets = append(targets, in.Args[0])
		}
	}
	if len(labels) != 10 {
		t.Errorf("got %d labels but want 10:\n%s", len(labels), log.Numbered())
	}
	for _, target := range targets {
		if !labels[target] {
			t.Errorf("branch to undefined label %s", target)
		}
	}
}

func checkLines(t *testing.T, log *codegen.Log, want ...string) {
	t.Helper()
	lines := make(map[string]bool)
	for _, line := range strings.Split(log.String(), "\n") {
		lines[strings.TrimSpace(line)] = true
	}
	for _, w := range want {
		if !lines[w] {
			t.Errorf("line %q missing from listing:\n%s", w, log.Numbered())
		}
	}
}

func TestMethods(t *testing.T) {
	const src = `
(func int add ((int a) (int b)) (block (return (+ a b))))
(func void main () (block
  (var int (= x (call add 1 2)))
  (array char s 3)
  (= (index s 0) 'z')
  (= x (+ x 1))
  (call print_int x)
  (call print_string s)
))`
	log := generate(t, src, false)
	checkLines(t, log,
		".assembly program",
		".module program.exe",
		".class private auto ansi Program extends [mscorlib]System.Object",
		".method private hidebysig static int32 add(int32 a, int32 b) cil managed",
		"ldarg.s a",
		"ldarg.s b",
		".method private hidebysig static void main() cil managed",
		".entrypoint",
		".maxstack 8",
		".locals init ([0] int32 x, [1] char[] s)",
		"call int32 Program::add(int32, int32)",
		"stloc.s x",
		"newarr [mscorlib]System.Char",
		"stelem.i2",
		"newobj instance void [mscorlib]System.String::.ctor(char[])",
		"call void [mscorlib]System.Console::WriteLine(string)",
	)
	if strings.Contains(log.String(), ".cctor") {
		t.Errorf("unexpected type initializer in a program without top-level statements:\n%s", log)
	}
}

func TestGlobals(t *testing.T) {
	const src = `
(var float (= g 1))
(func void main () (block (call print_float g)))
(block (var int (= h 2)))
`
	log := generate(t, src, false)
	checkLines(t, log,
		".field private static float32 g",
		".field private static int32 h",
		".method private hidebysig specialname rtspecialname static void .cctor() cil managed",
		"conv.r4",
		"stsfld float32 Program::g",
		"stsfld int32 Program::h",
		"ldsfld float32 Program::g",
	)
}

func TestDiscardedResult(t *testing.T) {
	const src = `
(func int f () (block (return 1)))
(func void main () (block (call f) (call print_int 2)))
`
	log := generate(t, src, false)
	want := []string{"call", "pop", "ldc.i4", "call", "ret"}
	var main []string
	in := false
	for _, line := range strings.Split(log.String(), "\n") {
		line = strings.TrimSpace(line)
		if strings.Contains(line, " main() ") {
			in = true
			continue
		}
		if !in || strings.HasPrefix(line, ".") || line == "{" || line == "}" || line == "" {
			continue
		}
		op, _, _ := strings.Cut(line, " ")
		main = append(main, op)
	}
	if diff := cmp.Diff(want, main); diff != "" {
		t.Errorf("unexpected instructions in main (-want +got):\n%s", diff)
	}
}

func TestFallThroughReturnsZero(t *testing.T) {
	tests := []struct {
		result string
		want   []string
	}{
		{result: "int", want: []string{"ldc.i4.0", "ret"}},
		{result: "float", want: []string{"ldc.r4", "ret"}},
		{result: "int[]", want: []string{"ldnull", "ret"}},
		{result: "void", want: []string{"nop", "ret"}},
	}
	for _, test := range tests {
		src := fmt.Sprintf("(func %s f ((bool c)) (block (if c (block (return)))))", test.result)
		if test.result != "void" {
			src = fmt.Sprintf("(func %s f ((%s c)) (block (if true (block (return c)))))", test.result, test.result)
		}
		log := generate(t, src, false)
		got := ops(log.Instrs())
		got = got[len(got)-2:]
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%s: unexpected end of function (-want +got):\n%s", src, diff)
		}
	}
}

func TestAssemblyName(t *testing.T) {
	prog := astbuilder.MustParse("(call print_int 1)")
	info, err := checker.Check(prog, symtab.Universe())
	if err != nil {
		t.Fatal(err)
	}
	log, err := cil.Generate(prog, info, codegen.Options{AssemblyName: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	checkLines(t, log, ".assembly hello", ".module hello.exe")
}

func TestUncheckedProgram(t *testing.T) {
	prog := astbuilder.MustParse("(call print_int x)")
	_, err := cil.Generate(prog, &checker.Info{}, codegen.Options{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !fmterr.IsInternal(err) {
		t.Errorf("got error %v but want an internal error", err)
	}
}
