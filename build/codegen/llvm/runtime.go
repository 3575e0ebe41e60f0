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

package llvm

import (
	"fmt"
	"strings"
)

// declaration is a module-level definition of the runtime support.
type declaration struct {
	name string
	text string
}

func cstring(name, s string) declaration {
	escaped := strings.NewReplacer("\n", `\0A`, `"`, `\22`).Replace(s)
	return declaration{
		name: name,
		text: fmt.Sprintf(`@%s = private unnamed_addr constant [%d x i8] c"%s\00"`, name, len(s)+1, escaped),
	}
}

// runtime lists the declarations builtins may depend on, in the order
// they appear in a module. Only the declarations used are emitted.
var runtime = []declaration{
	cstring(".fmt.int", "%d\n"),
	cstring(".fmt.float", "%f\n"),
	cstring(".fmt.char", "%c\n"),
	cstring(".fmt.str", "%s\n"),
	cstring(".str.true", "true"),
	cstring(".str.false", "false"),
	cstring(".scan.int", " %d"),
	cstring(".scan.float", " %lf"),
	cstring(".scan.char", " %c"),
	cstring(".scan.str", fmt.Sprintf(" %%%ds", readBufferSize-1)),
	{name: ".read.int", text: "@.read.int = private global i32 0"},
	{name: ".read.float", text: "@.read.float = private global double 0.0"},
	{name: ".read.char", text: "@.read.char = private global i8 0"},
	{name: "printf", text: "declare i32 @printf(ptr, ...)"},
	{name: "scanf", text: "declare i32 @scanf(ptr, ...)"},
	{name: "calloc", text: "declare ptr @calloc(i64, i64)"},
}

// readBufferSize is the size of the buffer allocated by read_string,
// including the terminating zero.
const readBufferSize = 256

// reservedSymbols are the symbols of the runtime support which user
// functions and globals may not use as is.
var reservedSymbols = map[string]bool{
	"printf": true,
	"scanf":  true,
	"calloc": true,
}

// symbol returns the global name of a user function or variable.
func symbol(name string) string {
	if reservedSymbols[name] {
		return "@" + name + ".user"
	}
	return "@" + name
}

// use marks a runtime declaration as used and returns its global name.
func (g *generator) use(name string) string {
	g.used[name] = true
	return "@" + name
}

func (g *generator) printf(format string, args ...string) {
	printf := g.use("printf")
	fmtArg := "ptr " + g.use(format)
	g.emit("call", fmt.Sprintf("i32 (ptr, ...) %s(%s)", printf, strings.Join(append([]string{fmtArg}, args...), ", ")))
}

// scan reads a value of type typ with scanf into a scratch global
// and returns the loaded value.
func (g *generator) scan(format, scratch, typ string) string {
	scanf := g.use("scanf")
	dst := g.use(scratch)
	g.emit("call", fmt.Sprintf("i32 (ptr, ...) %s(ptr %s, ptr %s)", scanf, g.use(format), dst))
	return g.def("read", "load", typ, "ptr "+dst)
}

// builtins lowers calls to builtin functions given their arguments,
// already converted to the type of the parameters. They return the result
// of the call, if any.
var builtins = map[string]func(g *generator, args []string) string{
	"print_int": func(g *generator, args []string) string {
		g.printf(".fmt.int", "i32 "+args[0])
		return ""
	},
	"print_float": func(g *generator, args []string) string {
		g.printf(".fmt.float", "double "+args[0])
		return ""
	},
	"print_char": func(g *generator, args []string) string {
		c := g.def("char", "zext", fmt.Sprintf("i8 %s to i32", args[0]))
		g.printf(".fmt.char", "i32 "+c)
		return ""
	},
	"print_bool": func(g *generator, args []string) string {
		s := g.def("bool", "select", "i1 "+args[0], "ptr "+g.use(".str.true"), "ptr "+g.use(".str.false"))
		g.printf(".fmt.str", "ptr "+s)
		return ""
	},
	"print_string": func(g *generator, args []string) string {
		g.printf(".fmt.str", "ptr "+args[0])
		return ""
	},
	"read_int": func(g *generator, args []string) string {
		return g.scan(".scan.int", ".read.int", "i32")
	},
	"read_float": func(g *generator, args []string) string {
		return g.scan(".scan.float", ".read.float", "double")
	},
	"read_char": func(g *generator, args []string) string {
		return g.scan(".scan.char", ".read.char", "i8")
	},
	"read_bool": func(g *generator, args []string) string {
		x := g.scan(".scan.int", ".read.int", "i32")
		return g.def("bool", "icmp ne", "i32 "+x, "0")
	},
	"read_string": func(g *generator, args []string) string {
		buf := g.def("buf", "call", fmt.Sprintf("ptr %s(i64 %d, i64 1)", g.use("calloc"), readBufferSize))
		g.emit("call", fmt.Sprintf("i32 (ptr, ...) %s(ptr %s, ptr %s)", g.use("scanf"), g.use(".scan.str"), buf))
		return buf
	},
}
