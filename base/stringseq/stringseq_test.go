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

package stringseq_test

import (
	"slices"
	"strconv"
	"testing"

	"github.com/minic-org/minic/base/stringseq"
)

type name string

func (n name) String() string { return string(n) }

func TestJoin(t *testing.T) {
	if got, want := stringseq.Join(slices.Values([]string{"int32", "float32"}), ", "), "int32, float32"; got != want {
		t.Errorf("Join() = %q, want %q", got, want)
	}
	if got := stringseq.Join(slices.Values([]string(nil)), ", "); got != "" {
		t.Errorf("Join(nil) = %q, want empty", got)
	}
	if got, want := stringseq.JoinFunc([]int{1, 2, 3}, strconv.Itoa, "-"), "1-2-3"; got != want {
		t.Errorf("JoinFunc() = %q, want %q", got, want)
	}
	if got, want := stringseq.JoinStringer([]name{"a", "b"}, " "), "a b"; got != want {
		t.Errorf("JoinStringer() = %q, want %q", got, want)
	}
}
