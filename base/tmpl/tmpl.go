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

// Package tmpl provides helper functions for Go templates.
package tmpl

import (
	"strings"
	"text/template"

	"github.com/pkg/errors"
)

// Parse parses a template, panicking on error.
// It is meant for templates compiled into the binary.
func Parse(name, text string) *template.Template {
	return template.Must(template.New(name).Parse(text))
}

// Render executes a template and returns its output.
func Render(tmpl *template.Template, data any) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Errorf("cannot render template %s: %v", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// IterateFunc runs a function to generate a string over a slice of objects.
// The result is all the strings joined by sep.
func IterateFunc[T any](objs []T, sep string, f func(int, T) (string, error)) (string, error) {
	var ss []string
	for i, obj := range objs {
		s, err := f(i, obj)
		if err != nil {
			return "", err
		}
		ss = append(ss, s)
	}
	return strings.Join(ss, sep), nil
}
