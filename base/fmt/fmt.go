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

// Package fmt provides utility methods for laying out instruction listings.
package fmt

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Number adds a line number prefix to all lines in a string.
// Numbers are zero-padded to the width of the largest one.
func Number(x string) string {
	if x == "" {
		return ""
	}
	lines := slices.Collect(strings.Lines(x))
	numDigits := int(math.Log10(float64(len(lines)))) + 1
	fmtString := fmt.Sprintf("%%0%dd %%s", numDigits)
	var s strings.Builder
	for i, line := range lines {
		s.WriteString(fmt.Sprintf(fmtString, i+1, line))
	}
	return s.String()
}

// IndentWith prefixes every non-empty line of x with prefix.
func IndentWith(prefix, x string) string {
	var y strings.Builder
	for line := range strings.Lines(x) {
		if strings.TrimSpace(line) != "" {
			y.WriteString(prefix)
		}
		y.WriteString(line)
	}
	return y.String()
}
