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

package ast

import "fmt"

// Inspect traverses the tree in depth-first order. It calls f(node)
// and, if f returns true, inspects the children of node.
// Absent optional children are skipped.
func Inspect(node Node, f func(Node) bool) {
	if isNil(node) || !f(node) {
		return
	}
	for _, child := range Children(node) {
		Inspect(child, f)
	}
}

// Children returns the direct children of a node in source order.
func Children(node Node) []Node {
	var children []Node
	add := func(nodes ...Node) {
		for _, n := range nodes {
			if !isNil(n) {
				children = append(children, n)
			}
		}
	}
	switch n := node.(type) {
	case *Literal, *Ident:
	case *Unary:
		add(n.X)
	case *Binary:
		add(n.X, n.Y)
	case *Index:
		add(n.Array, n.Index)
	case *Call:
		add(n.Func)
		for _, arg := range n.Args {
			add(arg)
		}
	case *TypeConversion:
		add(n.X)
	case *Assign:
		add(n.Target, n.Value)
	case *VarDecl:
		add(n.Type)
		for _, v := range n.Vars {
			add(v)
		}
	case *ArrayDecl:
		add(n.Elem, n.Name, n.Size)
	case *If:
		add(n.Cond, n.Then, n.Else)
	case *While:
		add(n.Cond, n.Body)
	case *For:
		add(n.Init, n.Cond, n.Step, n.Body)
	case *StmtList:
		for _, stmt := range n.List {
			add(stmt)
		}
	case *FunctionDecl:
		add(n.Result, n.Name, n.Params, n.Body)
	case *Return:
		add(n.Value)
	case *Argument:
		add(n.Type, n.Name)
	case *ArgumentList:
		for _, arg := range n.List {
			add(arg)
		}
	default:
		panic(fmt.Sprintf("ast node %T not supported", node))
	}
	return children
}

// isNil returns true for a nil interface or a typed nil pointer
// stored in an interface.
func isNil(node Node) bool {
	switch n := node.(type) {
	case nil:
		return true
	case *Literal:
		return n == nil
	case *Ident:
		return n == nil
	case *Unary:
		return n == nil
	case *Binary:
		return n == nil
	case *Index:
		return n == nil
	case *Call:
		return n == nil
	case *TypeConversion:
		return n == nil
	case *Assign:
		return n == nil
	case *VarDecl:
		return n == nil
	case *ArrayDecl:
		return n == nil
	case *If:
		return n == nil
	case *While:
		return n == nil
	case *For:
		return n == nil
	case *StmtList:
		return n == nil
	case *FunctionDecl:
		return n == nil
	case *Return:
		return n == nil
	case *Argument:
		return n == nil
	case *ArgumentList:
		return n == nil
	}
	return false
}
