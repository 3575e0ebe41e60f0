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

package astbuilder

import (
	"strings"

	"github.com/minic-org/minic/build/token"
	"github.com/pkg/errors"
)

// form is an atom or a parenthesized list of forms.
type form struct {
	pos  token.Pos
	atom string
	list []*form
}

func (f *form) isList() bool {
	return f.list != nil
}

// head returns the first atom of a list.
func (f *form) head() string {
	if len(f.list) == 0 || f.list[0].isList() {
		return ""
	}
	return f.list[0].atom
}

func (f *form) String() string {
	if !f.isList() {
		return f.atom
	}
	var s []string
	for _, sub := range f.list {
		s = append(s, sub.String())
	}
	return "(" + strings.Join(s, " ") + ")"
}

type reader struct {
	src []rune
	off int
	pos token.Pos
}

func read(src string) ([]*form, error) {
	r := &reader{src: []rune(src), pos: token.Pos{Line: 1, Column: 1}}
	var forms []*form
	for {
		r.skip()
		if r.eof() {
			return forms, nil
		}
		f, err := r.form()
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
}

func (r *reader) eof() bool {
	return r.off >= len(r.src)
}

func (r *reader) peek() rune {
	return r.src[r.off]
}

func (r *reader) next() rune {
	c := r.src[r.off]
	r.off++
	if c == '\n' {
		r.pos.Line++
		r.pos.Column = 1
	} else {
		r.pos.Column++
	}
	return c
}

// skip spaces and comments.
func (r *reader) skip() {
	for !r.eof() {
		switch c := r.peek(); {
		case c == '#':
			for !r.eof() && r.peek() != '\n' {
				r.next()
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			r.next()
		default:
			return
		}
	}
}

func (r *reader) form() (*form, error) {
	start := r.pos
	switch r.peek() {
	case ')':
		return nil, errors.Errorf("%s: unexpected )", start)
	case '(':
		r.next()
		f := &form{pos: start, list: []*form{}}
		for {
			r.skip()
			if r.eof() {
				return nil, errors.Errorf("%s: missing )", start)
			}
			if r.peek() == ')' {
				r.next()
				return f, nil
			}
			sub, err := r.form()
			if err != nil {
				return nil, err
			}
			f.list = append(f.list, sub)
		}
	case '\'':
		return r.char(start)
	}
	var atom strings.Builder
	for !r.eof() {
		c := r.peek()
		if c == '(' || c == ')' || c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '#' {
			break
		}
		atom.WriteRune(r.next())
	}
	return &form{pos: start, atom: atom.String()}, nil
}

// char reads a quoted character, keeping its escape sequence as written.
func (r *reader) char(start token.Pos) (*form, error) {
	var atom strings.Builder
	atom.WriteRune(r.next())
	for !r.eof() {
		c := r.next()
		atom.WriteRune(c)
		if c == '\\' && !r.eof() {
			atom.WriteRune(r.next())
			continue
		}
		if c == '\'' {
			return &form{pos: start, atom: atom.String()}, nil
		}
	}
	return nil, errors.Errorf("%s: unterminated character", start)
}
