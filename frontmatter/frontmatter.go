// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package frontmatter synthesizes the declarations that would bind a
// program's free symbols before it runs.
//
// The declarations come in two groups: one import per distinct module
// path, in the order the analysis first encountered them, followed by
// one assignment per alias binding the bare spelling to its fully
// qualified name. The sequence is deterministic for a given symbol
// set, so rewriting the same program twice yields the same output.
package frontmatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sneakers-the-rat/no-more-imports/resolve"
	"github.com/sneakers-the-rat/no-more-imports/syntax"
)

// Stmts returns the declarations in structural form, for splicing
// ahead of a parsed program's statements.
func Stmts(set *resolve.SymbolSet) []syntax.Stmt {
	var stmts []syntax.Stmt
	for _, mod := range modules(set) {
		stmts = append(stmts, &syntax.ImportStmt{
			Names: []*syntax.ImportName{{Path: mod}},
		})
	}
	for _, s := range set.Symbols {
		for _, alias := range sortedAliases(s) {
			stmts = append(stmts, &syntax.AssignStmt{
				Op:  syntax.EQ,
				LHS: &syntax.Ident{Name: alias},
				RHS: dotted(s.FullName()),
			})
		}
	}
	return stmts
}

// Text returns the declarations as source text, one per line, for
// splicing ahead of a program's source.
func Text(set *resolve.SymbolSet) string {
	var b strings.Builder
	for _, mod := range modules(set) {
		fmt.Fprintf(&b, "import %s\n", mod)
	}
	for _, s := range set.Symbols {
		for _, alias := range sortedAliases(s) {
			fmt.Fprintf(&b, "%s = %s\n", alias, s.FullName())
		}
	}
	return b.String()
}

// Apply records the bindings the declarations would create into
// table, mapping each bound name to the fully qualified id it stands
// for. It is the explicit equivalent of evaluating Text inside a
// target scope.
func Apply(set *resolve.SymbolSet, table map[string]string) {
	for _, mod := range modules(set) {
		table[mod] = mod
	}
	for _, s := range set.Symbols {
		for _, alias := range sortedAliases(s) {
			table[alias] = s.FullName()
		}
	}
}

// modules returns the distinct module paths of set, preserving
// first-seen order.
func modules(set *resolve.SymbolSet) []string {
	seen := make(map[string]bool)
	var mods []string
	for _, s := range set.Symbols {
		if !seen[s.Module] {
			seen[s.Module] = true
			mods = append(mods, s.Module)
		}
	}
	return mods
}

// sortedAliases returns a symbol's aliases in a stable order.
func sortedAliases(s *resolve.Symbol) []string {
	if len(s.Aliases) == 0 {
		return nil
	}
	aliases := make([]string, 0, len(s.Aliases))
	for a := range s.Aliases {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	return aliases
}

// dotted builds the expression spelling a dotted name.
func dotted(name string) syntax.Expr {
	parts := strings.Split(name, ".")
	var x syntax.Expr = &syntax.Ident{Name: parts[0]}
	for _, part := range parts[1:] {
		x = &syntax.DotExpr{X: x, Name: &syntax.Ident{Name: part}}
	}
	return x
}
