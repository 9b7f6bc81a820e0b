// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"strings"

	"github.com/sneakers-the-rat/no-more-imports/syntax"
)

// A Symbol is one external reference a program makes without binding
// it first: a dotted module path plus an optional member reached
// through it.
type Symbol struct {
	Module  string          // dotted module path
	Member  string          // member referenced through the module; may be ""
	Aliases map[string]bool // bare spellings that referred to this symbol
	Pos     syntax.Position // first occurrence
}

// symbolFromDotted splits a dotted name at its last dot: "a.b.c"
// gives module "a.b" and member "c"; a bare name is all module.
func symbolFromDotted(name string, pos syntax.Position) *Symbol {
	sym := &Symbol{Aliases: make(map[string]bool), Pos: pos}
	if i := strings.LastIndex(name, "."); i >= 0 {
		sym.Module, sym.Member = name[:i], name[i+1:]
	} else {
		sym.Module = name
	}
	return sym
}

// FullName returns the fully qualified name of the symbol.
func (s *Symbol) FullName() string {
	if s.Member == "" {
		return s.Module
	}
	return s.Module + "." + s.Member
}

// Parts returns every dotted prefix of the fully qualified name,
// shortest first: for module.sub.A they are "module", "module.sub",
// and "module.sub.A". A reference is considered bound if any of its
// parts is bound.
func (s *Symbol) Parts() []string {
	full := s.FullName()
	var parts []string
	for i := 0; i < len(full); i++ {
		if full[i] == '.' {
			parts = append(parts, full[:i])
		}
	}
	return append(parts, full)
}

// A SymbolSet is an ordered collection of Symbols. Its order is the
// order in which the symbols were first encountered during analysis,
// which the synthesized frontmatter preserves.
type SymbolSet struct {
	Symbols []*Symbol
}

// add merges an occurrence into the set. The merge rule, applied
// against each recorded symbol in order:
//  1. A bare occurrence spelling an existing symbol's member becomes
//     an alias of that symbol.
//  2. An occurrence under an already-recorded module path is covered
//     by the import that path will produce.
//  3. Anything else appends a new symbol.
func (set *SymbolSet) add(sym *Symbol) {
	for _, s := range set.Symbols {
		if sym.Module == s.Member && sym.Member == "" {
			s.Aliases[sym.Module] = true
			return
		}
		if sym.Module == s.Module {
			return
		}
	}
	set.Symbols = append(set.Symbols, sym)
}

// retract removes every symbol for which remove returns true.
func (set *SymbolSet) retract(remove func(*Symbol) bool) {
	kept := set.Symbols[:0]
	for _, s := range set.Symbols {
		if !remove(s) {
			kept = append(kept, s)
		}
	}
	set.Symbols = kept
}

// Contains reports whether the set records a symbol with the given
// module path and member.
func (set *SymbolSet) Contains(module, member string) bool {
	for _, s := range set.Symbols {
		if s.Module == module && s.Member == member {
			return true
		}
	}
	return false
}
