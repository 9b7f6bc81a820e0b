// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Walk traverses a syntax tree in depth-first order.
// It starts by calling f(n); n must not be nil.
// If f returns true, Walk calls itself
// recursively for each non-nil child of n.
// Walk then calls f(nil).
func Walk(n Node, f func(Node) bool) {
	if n == nil {
		panic("nil")
	}
	if !f(n) {
		return
	}

	switch n := n.(type) {
	case *File:
		walkStmts(n.Stmts, f)

	case *ExprStmt:
		Walk(n.X, f)

	case *BranchStmt:
		// no-op

	case *ImportStmt:
		for _, name := range n.Names {
			if name.As != nil {
				Walk(name.As, f)
			}
		}

	case *AssignStmt:
		Walk(n.LHS, f)
		if n.Annotation != nil {
			Walk(n.Annotation, f)
		}
		if n.RHS != nil {
			Walk(n.RHS, f)
		}

	case *AssertStmt:
		Walk(n.Cond, f)
		if n.Msg != nil {
			Walk(n.Msg, f)
		}

	case *DefStmt:
		for _, d := range n.Decorators {
			Walk(d, f)
		}
		Walk(n.Name, f)
		walkFunction(&n.Function, f)

	case *ClassStmt:
		for _, d := range n.Decorators {
			Walk(d, f)
		}
		Walk(n.Name, f)
		for _, base := range n.Bases {
			Walk(base, f)
		}
		walkStmts(n.Body, f)

	case *DelStmt:
		for _, x := range n.List {
			Walk(x, f)
		}

	case *IfStmt:
		Walk(n.Cond, f)
		walkStmts(n.True, f)
		walkStmts(n.False, f)

	case *RaiseStmt:
		if n.X != nil {
			Walk(n.X, f)
		}
		if n.Cause != nil {
			Walk(n.Cause, f)
		}

	case *ReturnStmt:
		if n.Result != nil {
			Walk(n.Result, f)
		}

	case *TryStmt:
		walkStmts(n.Body, f)
		for _, clause := range n.Handlers {
			Walk(clause, f)
		}
		walkStmts(n.Else, f)
		walkStmts(n.Finally, f)

	case *ExceptClause:
		if n.Type != nil {
			Walk(n.Type, f)
		}
		if n.As != nil {
			Walk(n.As, f)
		}
		walkStmts(n.Body, f)

	case *WhileStmt:
		Walk(n.Cond, f)
		walkStmts(n.Body, f)

	case *WithStmt:
		for _, item := range n.Items {
			Walk(item, f)
		}
		walkStmts(n.Body, f)

	case *WithItem:
		Walk(n.X, f)
		if n.As != nil {
			Walk(n.As, f)
		}

	case *ForStmt:
		Walk(n.Vars, f)
		Walk(n.X, f)
		walkStmts(n.Body, f)
		walkStmts(n.Else, f)

	case *Ident, *Literal:
		// no-op

	case *Param:
		if n.Name != nil {
			Walk(n.Name, f)
		}
		if n.Annotation != nil {
			Walk(n.Annotation, f)
		}
		if n.Default != nil {
			Walk(n.Default, f)
		}

	case *LambdaExpr:
		walkFunction(&n.Function, f)

	case *CallExpr:
		Walk(n.Fn, f)
		for _, arg := range n.Args {
			Walk(arg, f)
		}

	case *DotExpr:
		Walk(n.X, f)
		Walk(n.Name, f)

	case *Comprehension:
		Walk(n.Body, f)
		for _, clause := range n.Clauses {
			Walk(clause, f)
		}

	case *ForClause:
		Walk(n.Vars, f)
		Walk(n.X, f)

	case *IfClause:
		Walk(n.Cond, f)

	case *DictExpr:
		for _, entry := range n.List {
			Walk(entry, f)
		}

	case *DictEntry:
		Walk(n.Key, f)
		Walk(n.Value, f)

	case *SetExpr:
		for _, x := range n.List {
			Walk(x, f)
		}

	case *ListExpr:
		for _, x := range n.List {
			Walk(x, f)
		}

	case *CondExpr:
		Walk(n.Cond, f)
		Walk(n.True, f)
		Walk(n.False, f)

	case *TupleExpr:
		for _, x := range n.List {
			Walk(x, f)
		}

	case *UnaryExpr:
		if n.X != nil {
			Walk(n.X, f)
		}

	case *BinaryExpr:
		Walk(n.X, f)
		Walk(n.Y, f)

	case *SliceExpr:
		Walk(n.X, f)
		if n.Lo != nil {
			Walk(n.Lo, f)
		}
		if n.Hi != nil {
			Walk(n.Hi, f)
		}
		if n.Step != nil {
			Walk(n.Step, f)
		}

	case *IndexExpr:
		Walk(n.X, f)
		Walk(n.Y, f)

	default:
		panic(n)
	}

	f(nil)
}

func walkStmts(stmts []Stmt, f func(Node) bool) {
	for _, stmt := range stmts {
		Walk(stmt, f)
	}
}

func walkFunction(fn *Function, f func(Node) bool) {
	for _, param := range fn.Params {
		Walk(param, f)
	}
	if fn.Returns != nil {
		Walk(fn.Returns, f)
	}
	walkStmts(fn.Body, f)
}
