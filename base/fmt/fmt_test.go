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

package fmt_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	listfmt "github.com/minic-org/minic/base/fmt"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		txt  string
		want string
	}{
		{
			txt: `
ldc.i4 0x2
ret
`,
			want: `
1 ldc.i4 0x2
2 ret
`,
		},
		{
			txt: `
nop
nop
nop
nop
nop
nop
nop
nop
nop
ret
`,
			want: `
01 nop
02 nop
03 nop
04 nop
05 nop
06 nop
07 nop
08 nop
09 nop
10 ret
`,
		},
	}
	for _, test := range tests {
		got := listfmt.Number(strings.TrimSpace(test.txt))
		want := strings.TrimSpace(test.want)
		if got != want {
			t.Errorf("got:\n%s\nbut want:\n%s\ndiff:\n%s", got, want, cmp.Diff(got, want))
		}
	}
	if got := listfmt.Number(""); got != "" {
		t.Errorf("Number(\"\") = %q, want empty", got)
	}
}

func TestIndent(t *testing.T) {
	got := listfmt.IndentWith("  ", "a\n\nb\n")
	want := "  a\n\n  b\n"
	if got != want {
		t.Errorf("got %q but want %q", got, want)
	}
}
