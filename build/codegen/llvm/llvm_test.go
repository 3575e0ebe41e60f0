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

package llvm_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/minic-org/minic/build/checker"
	"github.com/minic-org/minic/build/codegen"
	"github.com/minic-org/minic/build/codegen/llvm"
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
	log, err := llvm.Generate(prog, info, codegen.Options{Fold: fold})
	if err != nil {
		t.Fatalf("cannot generate:\n%s\nerror: %+v", src, err)
	}
	checkBlocks(t, log)
	return log
}

func isTerminator(in codegen.Instr) bool {
	switch in.Op {
	case "br", "ret", "unreachable":
		return true
	}
	return false
}

// checkBlocks checks every function of a module: every block ends with
// exactly one terminator, registers are defined once, and branches
// target existing blocks.
func checkBlocks(t *testing.T, log *codegen.Log) {
	t.Helper()
	instrs := log.Instrs()
	for len(instrs) > 0 {
		end := 1
		for end < len(instrs) && instrs[end].Label != "entry" {
			end++
		}
		checkFunction(t, log, instrs[:end])
		instrs = instrs[end:]
	}
}

// checkFunction checks the instructions of a single function.
// Values and blocks are local to a function.
func checkFunction(t *testing.T, log *codegen.Log, instrs []codegen.Instr) {
	t.Helper()
	labels := make(map[string]bool)
	defs := make(map[string]bool)
	for i, in := range instrs {
		if in.IsLabel() {
			if labels[in.Label] {
				t.Errorf("block %s defined twice:\n%s", in.Label, log.Numbered())
			}
			labels[in.Label] = true
			if i > 0 && !isTerminator(instrs[i-1]) {
				t.Errorf("block %s follows %q which is not a terminator:\n%s", in.Label, instrs[i-1], log.Numbered())
			}
			continue
		}
		if isTerminator(in) && i+1 < len(instrs) && !instrs[i+1].IsLabel() {
			t.Errorf("%q follows terminator %q:\n%s", instrs[i+1], in, log.Numbered())
		}
		if in.Def != "" {
			if defs[in.Def] {
				t.Errorf("register %s defined twice:\n%s", in.Def, log.Numbered())
			}
			defs[in.Def] = true
		}
	}
	if !isTerminator(instrs[len(instrs)-1]) {
		t.Errorf("last block does not end with a terminator:\n%s", log.Numbered())
	}
	for _, in := range instrs {
		if in.Op != "br" {
			continue
		}
		for _, arg := range in.Args {
			target, ok := strings.CutPrefix(arg, "label %")
			if ok && !labels[target] {
				t.Errorf("branch to undefined block %s:\n%s", target, log.Numbered())
			}
		}
	}
}

func TestFunctionsShareSlotNames(t *testing.T) {
	log := generate(t, `
(func int f ((int a)) (block (var int (= x a)) (return x)))
(func int g ((int a)) (block (var int (= x (call f a))) (return x)))
`, false)
	var slots []string
	for _, in := range log.Instrs() {
		if in.Op == "alloca" {
			slots = append(slots, in.Def)
		}
	}
	want := []string{"%a.addr", "%x.addr", "%a.addr", "%x.addr"}
	if diff := cmp.Diff(want, slots); diff != "" {
		t.Errorf("unexpected stack slots (-want +got):\n%s", diff)
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

func TestFunction(t *testing.T) {
	log := generate(t, "(func int sq ((int x)) (block (return (* x x))))", false)
	const want = `; ModuleID = 'program'
source_filename = "program"

define i32 @sq(i32 %x.arg) {
entry:
	%x.addr = alloca i32
	store i32 %x.arg, ptr %x.addr
	%x.1 = load i32, ptr %x.addr
	%x.2 = load i32, ptr %x.addr
	%mul.1 = mul i32 %x.1, %x.2
	ret i32 %mul.1
}
`
	if diff := cmp.Diff(want, log.String()); diff != "" {
		t.Errorf("unexpected listing (-want +got):\n%s", diff)
	}
}

func TestGlobals(t *testing.T) {
	const src = `
(var int (= a (+ 2 3)))
(block (array char s 4))
(func void main () (block (call print_int a)))
`
	log := generate(t, src, true)
	checkLines(t, log,
		`@.fmt.int = private unnamed_addr constant [4 x i8] c"%d\0A\00"`,
		"declare i32 @printf(ptr, ...)",
		"declare ptr @calloc(i64, i64)",
		"@a = global i32 0",
		"@s = global ptr null",
		"define void @main() {",
		"call void @minic.init()",
		"%a.1 = load i32, ptr @a",
		"call i32 (ptr, ...) @printf(ptr @.fmt.int, i32 %a.1)",
		"ret void",
		"define internal void @minic.init() {",
		"store i32 5, ptr @a",
		"%size.1 = sext i32 4 to i64",
		"%size.2 = add i64 %size.1, 1",
		"%s.1 = call ptr @calloc(i64 %size.2, i64 1)",
		"store ptr %s.1, ptr @s",
	)
	if strings.Contains(log.String(), "scanf") {
		t.Errorf("scanf declared but not used:\n%s", log)
	}

	unfolded := generate(t, src, false)
	checkLines(t, unfolded,
		"%add.1 = add i32 2, 3",
		"store i32 %add.1, ptr @a",
	)
}

func TestNoInitializer(t *testing.T) {
	log := generate(t, "(func void main () (block (call print_int 1)))", true)
	if strings.Contains(log.String(), llvm.InitName) {
		t.Errorf("unexpected initializer:\n%s", log)
	}
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
	}
}

func TestControlFlow(t *testing.T) {
	const src = `
(func int f ((int n)) (block
  (var int (= i 0))
  (for (= i 0) (< i n) (= i (+ i 1)) (block
    (if (== i 3) (block (return i)) (block (call print_int i)))
    (while (> i 10) (block (return 0) (= i 1)))
  ))
  (if (> n 0) (block (return 1)) (block (return 2)))
))
(func void g () (block (return) (call print_int 1)))
`
	log := generate(t, src, false)
	checkLines(t, log,
		"br label %while.cond.1",
		"while.body.1:",
		"if.end.2:",
		"br i1 %icmp.3, label %while.body.1, label %while.end.1",
		"ret.after.4:",
		"unreachable",
	)
}

func TestConversions(t *testing.T) {
	const src = `
(func void f ((int i) (float x) (char c) (bool b)) (block
  (var float (= y i))
  (var int (= j x))
  (var char (= d x))
  (var bool (= e x))
  (= e i)
  (= j c)
  (= y c)
  (= d i)
  (= j b)
  (= y (- y))
  (= j (- c))
))`
	log := generate(t, src, false)
	ops := make(map[string]bool)
	for _, in := range log.Instrs() {
		ops[in.Op] = true
	}
	for _, op := range []string{"sitofp", "fptosi", "fptoui", "fcmp une", "icmp ne", "zext", "uitofp", "trunc", "fneg", "sub"} {
		if !ops[op] {
			t.Errorf("no %s instruction in listing:\n%s", op, log.Numbered())
		}
	}
}

func TestBuiltins(t *testing.T) {
	const src = `
(func void main () (block
  (call print_float (/ 1.0 4.0))
  (call print_char 200)
  (call print_bool (< 1 2))
  (call print_string (call read_string))
  (call print_int (call read_int))
  (call print_bool (call read_bool))
  (call print_float (call read_float))
  (call print_char (call read_char))
))`
	log := generate(t, src, true)
	checkLines(t, log,
		"call i32 (ptr, ...) @printf(ptr @.fmt.float, double 0x3FD0000000000000)",
		"%char.1 = zext i8 -56 to i32",
		"%bool.1 = select i1 true, ptr @.str.true, ptr @.str.false",
		"%buf.1 = call ptr @calloc(i64 256, i64 1)",
		"call i32 (ptr, ...) @scanf(ptr @.scan.str, ptr %buf.1)",
		"call i32 (ptr, ...) @scanf(ptr @.scan.int, ptr @.read.int)",
		"%read.1 = load i32, ptr @.read.int",
		`@.scan.str = private unnamed_addr constant [7 x i8] c" %255s\00"`,
		"@.read.float = private global double 0.0",
		"declare i32 @scanf(ptr, ...)",
	)
}

func TestArrays(t *testing.T) {
	const src = `
(func float[] f ((float[] a) (int i)) (block
  (= (index a i) (+ (index a 0) 1.5))
  (return a)
))
(func bool same ((float[] a) (float[] b)) (block (return (== a b))))
`
	log := generate(t, src, false)
	checkLines(t, log,
		"define ptr @f(ptr %a.arg, i32 %i.arg) {",
		"%idx.1 = getelementptr double, ptr %a.1, i32 %i.1",
		"%a.3 = load double, ptr %idx.2",
		"store double %fadd.1, ptr %idx.1",
		"ret ptr %a.4",
		"%icmp.1 = icmp eq ptr %a.5, %b.1",
	)
}

func TestReservedSymbols(t *testing.T) {
	const src = `
(var int calloc)
(func void printf () (block (= calloc 1)))
(func void main () (block (call printf) (array int x 2)))
`
	log := generate(t, src, true)
	checkLines(t, log,
		"@calloc.user = global i32 0",
		"define void @printf.user() {",
		"store i32 1, ptr @calloc.user",
		"call void @printf.user()",
		"declare ptr @calloc(i64, i64)",
	)
}

func TestUncheckedProgram(t *testing.T) {
	prog := astbuilder.MustParse("(call print_int x)")
	_, err := llvm.Generate(prog, &checker.Info{}, codegen.Options{})
	if !fmterr.IsInternal(err) {
		t.Errorf("got error %v but want an internal error", err)
	}
}
