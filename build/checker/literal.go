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

package checker

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/minic-org/minic/build/types"
	"github.com/pkg/errors"
)

var (
	decimalLiteral = regexp.MustCompile(`^[0-9]+$`)
	hexLiteral     = regexp.MustCompile(`^0[xX][0-9a-fA-F]+$`)
	floatLiteral   = regexp.MustCompile(`^([0-9]+\.[0-9]*|\.[0-9]+|[0-9]+\.?)([eE][+-]?[0-9]+)?$`)

	charEscapes = map[byte]rune{
		'n':  '\n',
		't':  '\t',
		'r':  '\r',
		'0':  0,
		'\\': '\\',
		'\'': '\'',
	}
)

// parseLiteral decodes the text of a literal. The bool keywords are
// recognized before numbers.
func parseLiteral(text string) (types.Value, error) {
	switch {
	case text == "true":
		return types.BoolValue(true), nil
	case text == "false":
		return types.BoolValue(false), nil
	case strings.HasPrefix(text, "'"):
		return parseChar(text)
	case decimalLiteral.MatchString(text):
		x, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return types.Value{}, errors.Errorf("integer %s overflows int", text)
		}
		return types.IntValue(x), nil
	case hexLiteral.MatchString(text):
		x, err := strconv.ParseInt(text[2:], 16, 32)
		if err != nil {
			return types.Value{}, errors.Errorf("integer %s overflows int", text)
		}
		return types.IntValue(x), nil
	case floatLiteral.MatchString(text):
		x, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsInf(x, 0) {
			return types.Value{}, errors.Errorf("float %s out of range", text)
		}
		return types.FloatValue(x), nil
	}
	return types.Value{}, errors.Errorf("cannot decode %q", text)
}

func parseChar(text string) (types.Value, error) {
	if len(text) < 3 || !strings.HasSuffix(text, "'") {
		return types.Value{}, errors.Errorf("malformed character %s", text)
	}
	body := text[1 : len(text)-1]
	switch {
	case len(body) == 1 && body[0] != '\\' && body[0] != '\'':
		if body[0] > 0x7f {
			return types.Value{}, errors.Errorf("character %s is not ASCII", text)
		}
		return types.CharValue(rune(body[0])), nil
	case len(body) == 2 && body[0] == '\\':
		c, ok := charEscapes[body[1]]
		if !ok {
			return types.Value{}, errors.Errorf("unknown escape sequence in %s", text)
		}
		return types.CharValue(c), nil
	}
	return types.Value{}, errors.Errorf("malformed character %s", text)
}
