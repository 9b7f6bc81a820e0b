// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve classifies every identifier occurrence in a parsed
// program as bound or free, and canonicalizes the free occurrences
// into the external symbols they refer to.
//
// A name is bound if some frame of the lexical scope stack binds it:
// by assignment, import, definition, loop or comprehension target,
// exception name, or the builtin frame at the bottom. Everything else
// read by the program is free, and is recorded as a Symbol naming the
// dotted module path (and member, if the read was an attribute chain)
// that an import could satisfy.
//
// The analysis reproduces the host language's scoping rules without
// executing anything: function and class bodies get their own frames,
// comprehension and exception targets are ephemeral, loop variables
// leak into the enclosing frame, and annotations evaluate where the
// definition is declared. Because sibling definitions may refer to
// each other in either order, a candidate only counts as free once
// every scope that could still bind it has been left.
package resolve

import (
	"fmt"

	"github.com/sneakers-the-rat/no-more-imports/syntax"
)

// Analyze traverses a parsed program and returns the set of free
// symbols it references, in first-encounter order.
//
// Each call owns its own scope stack and symbol set, so independent
// calls may run concurrently.
func Analyze(f *syntax.File) *SymbolSet {
	r := &resolver{scope: newScopeStack(), free: new(SymbolSet)}
	r.stmts(f.Stmts)
	r.sweep()
	return r.free
}

type resolver struct {
	scope *scopeStack
	free  *SymbolSet
}

// pop discards the innermost frame and runs the forward-reference
// sweep: a candidate recorded inside the frame may have been bound by
// a later sibling statement, so it is re-checked on the way out.
func (r *resolver) pop() {
	r.scope.pop()
	r.sweep()
}

// sweep retracts every candidate whose module is bound in a frame
// still on the stack.
func (r *resolver) sweep() {
	r.free.retract(func(sym *Symbol) bool {
		return r.scope.isBound(sym.Module)
	})
}

func (r *resolver) stmts(stmts []syntax.Stmt) {
	for _, stmt := range stmts {
		r.stmt(stmt)
	}
}

func (r *resolver) stmt(stmt syntax.Stmt) {
	switch stmt := stmt.(type) {
	case *syntax.ExprStmt:
		r.expr(stmt.X)

	case *syntax.BranchStmt:
		// no-op

	case *syntax.ImportStmt:
		// Imports bind their targets; they are never themselves free.
		// A plain "import a.b" binds the dotted path itself, which
		// the prefix test in classify matches.
		for _, name := range stmt.Names {
			if name.As != nil {
				r.scope.bind(name.As.Name)
			} else {
				r.scope.bind(name.Path)
			}
		}

	case *syntax.AssignStmt:
		r.assign(stmt.LHS)
		if stmt.Annotation != nil {
			r.expr(stmt.Annotation)
		}
		if stmt.RHS != nil {
			r.expr(stmt.RHS)
		}

	case *syntax.DefStmt:
		for _, d := range stmt.Decorators {
			r.expr(d)
		}
		// The return annotation evaluates where the definition is
		// declared, not inside the body.
		if stmt.Returns != nil {
			r.annotation(stmt.Returns)
		}
		// The name binds in the enclosing frame before the body is
		// entered, so recursion is not a free reference.
		r.scope.bind(stmt.Name.Name)
		r.function(&stmt.Function)

	case *syntax.ClassStmt:
		for _, d := range stmt.Decorators {
			r.expr(d)
		}
		for _, base := range stmt.Bases {
			if kw, ok := base.(*syntax.BinaryExpr); ok && kw.Op == syntax.EQ {
				r.expr(kw.Y) // keyword base (metaclass=M); the name is not a read
				continue
			}
			r.expr(base)
		}
		r.scope.bind(stmt.Name.Name)
		r.scope.push()
		r.stmts(stmt.Body)
		r.pop()

	case *syntax.DelStmt:
		for _, x := range stmt.List {
			r.delete(x)
		}

	case *syntax.ForStmt:
		// Loop variables leak: they bind in the current frame and
		// stay visible after the loop ends.
		r.assign(stmt.Vars)
		r.expr(stmt.X)
		r.stmts(stmt.Body)
		r.stmts(stmt.Else)

	case *syntax.IfStmt:
		r.expr(stmt.Cond)
		r.stmts(stmt.True)
		r.stmts(stmt.False)

	case *syntax.WhileStmt:
		r.expr(stmt.Cond)
		r.stmts(stmt.Body)

	case *syntax.ReturnStmt:
		if stmt.Result != nil {
			r.expr(stmt.Result)
		}

	case *syntax.RaiseStmt:
		if stmt.X != nil {
			r.expr(stmt.X)
		}
		if stmt.Cause != nil {
			r.expr(stmt.Cause)
		}

	case *syntax.AssertStmt:
		r.expr(stmt.Cond)
		if stmt.Msg != nil {
			r.expr(stmt.Msg)
		}

	case *syntax.TryStmt:
		r.stmts(stmt.Body)
		for _, clause := range stmt.Handlers {
			// The caught-exception name is scoped to the clause.
			r.scope.push()
			if clause.As != nil {
				r.scope.bind(clause.As.Name)
			}
			if clause.Type != nil {
				r.expr(clause.Type)
			}
			r.stmts(clause.Body)
			r.pop()
		}
		r.stmts(stmt.Else)
		r.stmts(stmt.Finally)

	case *syntax.WithStmt:
		for _, item := range stmt.Items {
			r.expr(item.X)
			if item.As != nil {
				r.assign(item.As)
			}
		}
		r.stmts(stmt.Body)

	default:
		panic(fmt.Sprintf("unexpected stmt %T", stmt))
	}
}

// function resolves a def or lambda body in a frame of its own.
// Parameters bind in the new frame, and parameter annotations and
// defaults are read inside it.
func (r *resolver) function(fn *syntax.Function) {
	r.scope.push()
	for _, param := range fn.Params {
		if param.Name != nil {
			r.scope.bind(param.Name.Name)
		}
		if param.Annotation != nil {
			r.annotation(param.Annotation)
		}
		if param.Default != nil {
			r.expr(param.Default)
		}
	}
	r.stmts(fn.Body)
	r.pop()
}

// annotation classifies a type annotation. Identifier and attribute
// annotations are read occurrences; a string annotation is parsed as
// a dotted name. Any other shape (subscripts, unions) is skipped.
func (r *resolver) annotation(ann syntax.Expr) {
	switch ann := ann.(type) {
	case *syntax.Ident:
		r.classify(ann.Name, ann.NamePos)
	case *syntax.DotExpr:
		if name := flattenAttr(ann); name != "" {
			r.classify(name, syntax.Start(ann))
		}
	case *syntax.Literal:
		if s, ok := ann.Value.(string); ok && s != "" {
			r.classify(s, ann.TokenPos)
		}
	}
}

// assign binds an assignment, loop, or "as" target. Subscript targets
// contain only reads (x[i] = v reads x and i), so those are visited
// as expressions.
func (r *resolver) assign(lhs syntax.Expr) {
	switch lhs := lhs.(type) {
	case *syntax.Ident:
		r.scope.bind(lhs.Name)
	case *syntax.TupleExpr:
		for _, x := range lhs.List {
			r.assign(x)
		}
	case *syntax.ListExpr:
		for _, x := range lhs.List {
			r.assign(x)
		}
	case *syntax.DotExpr:
		if name := flattenAttr(lhs); name != "" {
			r.scope.bind(name)
		}
	case *syntax.IndexExpr:
		r.expr(lhs.X)
		r.expr(lhs.Y)
	case *syntax.SliceExpr:
		r.expr(lhs)
	}
}

// delete resolves one target of a del statement.
func (r *resolver) delete(x syntax.Expr) {
	switch x := x.(type) {
	case *syntax.Ident:
		r.scope.unbind(x.Name)
	case *syntax.DotExpr:
		if name := flattenAttr(x); name != "" {
			r.scope.unbind(name)
		}
	case *syntax.IndexExpr:
		// del x[i] reads x and i
		r.expr(x.X)
		r.expr(x.Y)
	}
}

func (r *resolver) expr(e syntax.Expr) {
	switch e := e.(type) {
	case *syntax.Ident:
		r.classify(e.Name, e.NamePos)

	case *syntax.Literal:
		// no-op

	case *syntax.DotExpr:
		// An attribute chain is classified as a whole; the chain is
		// flattened to its dotted spelling and never descended into.
		if name := flattenAttr(e); name != "" {
			r.classify(name, syntax.Start(e))
		}

	case *syntax.CallExpr:
		r.expr(e.Fn)
		for _, arg := range e.Args {
			if kw, ok := arg.(*syntax.BinaryExpr); ok && kw.Op == syntax.EQ {
				r.expr(kw.Y) // keyword argument; the name is not a read
				continue
			}
			r.expr(arg)
		}

	case *syntax.LambdaExpr:
		r.function(&e.Function)

	case *syntax.Comprehension:
		// Comprehension targets live in an ephemeral frame, bound
		// before any contained expression is read, and never leak.
		r.scope.push()
		for _, clause := range e.Clauses {
			if fc, ok := clause.(*syntax.ForClause); ok {
				r.assign(fc.Vars)
			}
		}
		r.expr(e.Body)
		for _, clause := range e.Clauses {
			switch clause := clause.(type) {
			case *syntax.ForClause:
				r.expr(clause.X)
			case *syntax.IfClause:
				r.expr(clause.Cond)
			}
		}
		r.pop()

	case *syntax.CondExpr:
		r.expr(e.Cond)
		r.expr(e.True)
		r.expr(e.False)

	case *syntax.IndexExpr:
		r.expr(e.X)
		r.expr(e.Y)

	case *syntax.SliceExpr:
		r.expr(e.X)
		if e.Lo != nil {
			r.expr(e.Lo)
		}
		if e.Hi != nil {
			r.expr(e.Hi)
		}
		if e.Step != nil {
			r.expr(e.Step)
		}

	case *syntax.ListExpr:
		for _, x := range e.List {
			r.expr(x)
		}

	case *syntax.SetExpr:
		for _, x := range e.List {
			r.expr(x)
		}

	case *syntax.TupleExpr:
		for _, x := range e.List {
			r.expr(x)
		}

	case *syntax.DictExpr:
		for _, entry := range e.List {
			r.expr(entry)
		}

	case *syntax.DictEntry:
		r.expr(e.Key)
		r.expr(e.Value)

	case *syntax.UnaryExpr:
		if e.X != nil {
			r.expr(e.X)
		}

	case *syntax.BinaryExpr:
		r.expr(e.X)
		r.expr(e.Y)

	default:
		panic(fmt.Sprintf("unexpected expr %T", e))
	}
}

// classify records a read of a (possibly dotted) name as a
// free-symbol candidate unless some prefix of it is bound.
func (r *resolver) classify(name string, pos syntax.Position) {
	sym := symbolFromDotted(name, pos)
	for _, part := range sym.Parts() {
		if r.scope.isBound(part) {
			return
		}
	}
	r.free.add(sym)
}

// flattenAttr flattens an attribute chain such as a.b.c to its dotted
// spelling. A chain rooted in a call degrades, best effort, to the
// call's target (f().x gives "f"); any other root yields "" and the
// occurrence is skipped.
func flattenAttr(attr *syntax.DotExpr) string {
	switch x := attr.X.(type) {
	case *syntax.DotExpr:
		if prefix := flattenAttr(x); prefix != "" {
			return prefix + "." + attr.Name.Name
		}
	case *syntax.Ident:
		return x.Name + "." + attr.Name.Name
	case *syntax.CallExpr:
		switch fn := x.Fn.(type) {
		case *syntax.Ident:
			return fn.Name
		case *syntax.DotExpr:
			return flattenAttr(fn)
		}
	}
	return ""
}
