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

// Package buildtest runs compilation test cases written in Markdown.
//
// A test case starts with a heading "Test: <name>". It has one input
// fence holding a program in the s-expression notation of astbuilder
// and one or more assertion fences:
//
//	```minic
//	(call print_int (+ 1 2))
//	```
//
//	```cil
//	ldc.i4 0x3
//	call void [mscorlib]System.Console::WriteLine(int32)
//	```
//
// Listing assertions (cil, cil-nofold, llvm, llvm-nofold) pass if their
// lines appear consecutively in the listing generated for the target,
// ignoring indentation. An error assertion gives the kind of the error
// expected from the analysis, optionally followed by " at line:column".
package buildtest

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputFence is the language of the fence holding the program of a test case.
const InputFence = "minic"

// AssertionType is the language of an assertion fence.
type AssertionType string

const (
	AssertionCIL        AssertionType = "cil"
	AssertionCILNoFold  AssertionType = "cil-nofold"
	AssertionLLVM       AssertionType = "llvm"
	AssertionLLVMNoFold AssertionType = "llvm-nofold"
	AssertionCheckError AssertionType = "error"
)

var assertionTypes = map[AssertionType]bool{
	AssertionCIL:        true,
	AssertionCILNoFold:  true,
	AssertionLLVM:       true,
	AssertionLLVMNoFold: true,
	AssertionCheckError: true,
}

// Assertion is an expectation about the compilation of a test case.
type Assertion struct {
	Type    AssertionType
	Content string
	Line    int
}

// TestCase is a program and the expectations about its compilation.
type TestCase struct {
	Name       string
	Input      string
	Line       int
	Assertions []Assertion
}

// ExtractTestCases parses a Markdown document and returns its test cases.
func ExtractTestCases(markdown string) ([]TestCase, error) {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []TestCase
	var current *TestCase
	flush := func() error {
		if current == nil {
			return nil
		}
		if current.Input == "" {
			return errors.Errorf("line %d: test %q has no %s fence", current.Line, current.Name, InputFence)
		}
		if len(current.Assertions) == 0 {
			return errors.Errorf("line %d: test %q has no assertion", current.Line, current.Name)
		}
		cases = append(cases, *current)
		return nil
	}
	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, source)
			name, ok := strings.CutPrefix(heading, "Test: ")
			if !ok {
				return ast.WalkContinue, nil
			}
			if err := flush(); err != nil {
				return ast.WalkStop, err
			}
			current = &TestCase{Name: name, Line: lineOf(n, source)}
		case *ast.FencedCodeBlock:
			lang := string(n.Language(source))
			line := lineOf(n, source)
			if lang == "" {
				return ast.WalkContinue, nil
			}
			if current == nil {
				return ast.WalkStop, errors.Errorf("line %d: %s fence outside of a test", line, lang)
			}
			content := strings.TrimRight(codeBlockText(n, source), "\n")
			switch {
			case lang == InputFence:
				if current.Input != "" {
					return ast.WalkStop, errors.Errorf("line %d: test %q has more than one %s fence", line, current.Name, InputFence)
				}
				current.Input = content
			case assertionTypes[AssertionType(lang)]:
				current.Assertions = append(current.Assertions, Assertion{
					Type:    AssertionType(lang),
					Content: content,
					Line:    line,
				})
			default:
				return ast.WalkStop, errors.Errorf("line %d: unknown fence %q in test %q", line, lang, current.Name)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return cases, nil
}

func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func codeBlockText(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

// lineOf returns the line number of the content of a node.
// For fences, it is the line following the opening marker.
func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	return bytes.Count(source[:min(start, len(source))], []byte("\n")) + 1
}
