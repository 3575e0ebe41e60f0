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

package buildtest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minic-org/minic/build"
	"github.com/minic-org/minic/build/fmterr"
	"github.com/minic-org/minic/internal/astbuilder"
	"github.com/nalgeon/be"
	"github.com/pkg/errors"
)

var listingOptions = map[AssertionType][]build.Option{
	AssertionCIL:        {build.WithTarget(build.CIL)},
	AssertionCILNoFold:  {build.WithTarget(build.CIL), build.WithFolding(false)},
	AssertionLLVM:       {build.WithTarget(build.LLVM)},
	AssertionLLVMNoFold: {build.WithTarget(build.LLVM), build.WithFolding(false)},
}

// Run runs the test cases of all the Markdown files matching a pattern.
func Run(t *testing.T, pattern string) {
	files, err := filepath.Glob(pattern)
	be.Err(t, err, nil)
	if len(files) == 0 {
		t.Fatalf("no test file matching %s", pattern)
	}
	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".md"), func(t *testing.T) {
			content, err := os.ReadFile(file)
			be.Err(t, err, nil)
			cases, err := ExtractTestCases(string(content))
			be.Err(t, err, nil)
			for _, tc := range cases {
				t.Run(tc.Name, func(t *testing.T) {
					RunTestCase(t, file, tc)
				})
			}
		})
	}
}

// RunTestCase compiles the program of a test case and checks its assertions.
func RunTestCase(t *testing.T, file string, tc TestCase) {
	for _, assertion := range tc.Assertions {
		prog, err := astbuilder.Parse(tc.Input)
		if err != nil {
			t.Fatalf("%s:%d: cannot parse program: %v", file, tc.Line, err)
		}
		if assertion.Type == AssertionCheckError {
			unit, err := build.NewUnit(prog)
			be.Err(t, err, nil)
			_, err = unit.Check()
			if msg := CheckError(err, assertion.Content); msg != "" {
				t.Errorf("%s:%d: %s", file, assertion.Line, msg)
			}
			continue
		}
		log, err := build.Compile(prog, listingOptions[assertion.Type]...)
		if err != nil {
			t.Errorf("%s:%d: cannot compile:\n%+v", file, assertion.Line, err)
			continue
		}
		if !ContainsLines(log.String(), assertion.Content) {
			t.Errorf("%s:%d: %s listing does not contain:\n%s\nlisting:\n%s", file, assertion.Line, assertion.Type, assertion.Content, log.Numbered())
		}
	}
}

// CheckError returns a message describing how err differs from the
// expected error, written as "kind" or "kind at line:column".
// It returns an empty string if err is as expected.
func CheckError(err error, want string) string {
	if err == nil {
		return "no error but want " + want
	}
	var fmtErr *fmterr.Error
	if !errors.As(err, &fmtErr) {
		return "got error " + err.Error() + " but want " + want
	}
	kind, pos, hasPos := strings.Cut(want, " at ")
	if fmtErr.Kind.String() != kind {
		return "got error " + err.Error() + " but want a " + kind + " error"
	}
	if hasPos && fmtErr.Pos.String() != pos {
		return "got error at " + fmtErr.Pos.String() + " but want " + pos + ": " + err.Error()
	}
	return ""
}

// ContainsLines returns true if the lines of excerpt appear
// consecutively in listing. Indentation is ignored.
func ContainsLines(listing, excerpt string) bool {
	all := trimLines(listing)
	want := trimLines(excerpt)
	if len(want) == 0 {
		return true
	}
	for i := 0; i+len(want) <= len(all); i++ {
		match := true
		for j, line := range want {
			if all[i+j] != line {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func trimLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		lines = append(lines, strings.TrimSpace(line))
	}
	return lines
}
