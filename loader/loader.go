// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loader rewrites importless source so it can run: it
// analyzes a module's free names and splices the synthesized
// frontmatter ahead of the original source, and can best-effort
// install the external packages the frontmatter refers to.
//
// The loader is a collaborator around the core analysis; it does the
// I/O the core never does.
package loader

import (
	"os"
	"strings"

	"github.com/sneakers-the-rat/no-more-imports/frontmatter"
	"github.com/sneakers-the-rat/no-more-imports/resolve"
	"github.com/sneakers-the-rat/no-more-imports/syntax"
)

// Rewrite parses src, analyzes its free names, and returns the source
// with the synthesized frontmatter spliced ahead of it, together with
// the symbol set the analysis produced. Splicing text rather than
// re-serializing the tree keeps the original lines intact, so error
// messages from the rewritten program still show the source that
// produced them. Parse errors propagate unmodified.
func Rewrite(filename string, src []byte) ([]byte, *resolve.SymbolSet, error) {
	f, err := syntax.Parse(filename, src)
	if err != nil {
		return nil, nil, err
	}
	set := resolve.Analyze(f)
	text := frontmatter.Text(set)
	if text == "" {
		return src, set, nil
	}
	out := make([]byte, 0, len(text)+len(src))
	out = append(out, text...)
	out = append(out, src...)
	return out, set, nil
}

// RewriteFile reads and rewrites the named file.
func RewriteFile(filename string) ([]byte, *resolve.SymbolSet, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, err
	}
	return Rewrite(filename, src)
}

// Packages returns the first dotted segment of every module path in
// set that is not on the skip list, deduplicated in first-seen order.
// These are the packages the program needs but the host cannot be
// assumed to have.
func Packages(set *resolve.SymbolSet) []string {
	seen := make(map[string]bool)
	var pkgs []string
	for _, s := range set.Symbols {
		base, _, _ := strings.Cut(s.Module, ".")
		if base == "" || Skip(base) || seen[base] {
			continue
		}
		seen[base] = true
		pkgs = append(pkgs, base)
	}
	return pkgs
}
