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
	"strconv"
	"strings"

	"github.com/minic-org/minic/build/codegen"
	"github.com/pkg/errors"
)

// machine runs straight-line code of a type initializer: constants,
// arithmetic, conversions, static fields, and console output.
type machine struct {
	stack  []any
	fields map[string]any
	out    []string
}

func (m *machine) push(v any) {
	m.stack = append(m.stack, v)
}

func (m *machine) pop() any {
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func toFloat(v any) float32 {
	switch v := v.(type) {
	case float32:
		return v
	case int32:
		return float32(v)
	}
	panic(fmt.Sprintf("cannot convert %T to float32", v))
}

func parseImmediate(arg string) (int32, error) {
	if strings.HasPrefix(arg, "0x") {
		x, err := strconv.ParseUint(arg[2:], 16, 32)
		return int32(uint32(x)), err
	}
	x, err := strconv.ParseInt(arg, 10, 32)
	return int32(x), err
}

func (m *machine) binary(op string) error {
	y, x := m.pop(), m.pop()
	if xf, ok := x.(float32); ok {
		yf := toFloat(y)
		switch op {
		case "add":
			m.push(xf + yf)
		case "sub":
			m.push(xf - yf)
		case "mul":
			m.push(xf * yf)
		case "div":
			m.push(xf / yf)
		case "ceq":
			m.push(boolInt(xf == yf))
		case "cgt":
			m.push(boolInt(xf > yf))
		case "clt":
			m.push(boolInt(xf < yf))
		case "cgt.un":
			m.push(boolInt(!(xf <= yf)))
		case "clt.un":
			m.push(boolInt(!(xf >= yf)))
		default:
			return errors.Errorf("%s not supported on float32", op)
		}
		return nil
	}
	xi, yi := x.(int32), y.(int32)
	switch op {
	case "add":
		m.push(xi + yi)
	case "sub":
		m.push(xi - yi)
	case "mul":
		m.push(xi * yi)
	case "div":
		m.push(xi / yi)
	case "and":
		m.push(xi & yi)
	case "or":
		m.push(xi | yi)
	case "xor":
		m.push(xi ^ yi)
	case "ceq":
		m.push(boolInt(xi == yi))
	case "cgt", "cgt.un":
		m.push(boolInt(xi > yi))
	case "clt", "clt.un":
		m.push(boolInt(xi < yi))
	default:
		return errors.Errorf("%s not supported on int32", op)
	}
	return nil
}

func (m *machine) write(arg string) {
	v := m.pop()
	switch {
	case strings.HasSuffix(arg, "(char)"):
		m.out = append(m.out, string(rune(v.(int32))))
	case strings.HasSuffix(arg, "(bool)"):
		m.out = append(m.out, strconv.FormatBool(v.(int32) != 0))
	default:
		m.out = append(m.out, fmt.Sprint(v))
	}
}

func (m *machine) run(instrs []codegen.Instr) error {
	m.fields = make(map[string]any)
	for _, in := range instrs {
		var arg string
		if len(in.Args) > 0 {
			arg = in.Args[0]
		}
		switch in.Op {
		case "", "nop", "ret":
		case "ldc.i4.0":
			m.push(int32(0))
		case "ldc.i4.1":
			m.push(int32(1))
		case "ldc.i4", "ldc.i4.s":
			x, err := parseImmediate(arg)
			if err != nil {
				return err
			}
			m.push(x)
		case "ldc.r4":
			x, err := strconv.ParseFloat(arg, 32)
			if err != nil {
				return err
			}
			m.push(float32(x))
		case "neg":
			switch v := m.pop().(type) {
			case int32:
				m.push(-v)
			case float32:
				m.push(-v)
			}
		case "conv.r4":
			m.push(toFloat(m.pop()))
		case "conv.i4":
			m.push(int32(m.pop().(float32)))
		case "conv.u2":
			switch v := m.pop().(type) {
			case int32:
				m.push(int32(uint16(v)))
			case float32:
				m.push(int32(uint16(v)))
			}
		case "stsfld":
			m.fields[arg] = m.pop()
		case "ldsfld":
			m.push(m.fields[arg])
		case "pop":
			m.pop()
		case "call":
			if !strings.Contains(arg, "Console::WriteLine") {
				return errors.Errorf("call to %s not supported", arg)
			}
			m.write(arg)
		default:
			if err := m.binary(in.Op); err != nil {
				return err
			}
		}
	}
	if len(m.stack) != 0 {
		return errors.Errorf("%d values left on the stack", len(m.stack))
	}
	return nil
}
