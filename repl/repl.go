// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repl provides a read/analyze/print loop.
//
// It supports readline-style command editing,
// and interrupts through Control-C.
//
// Each input is parsed as a single compound statement
// (reading continuation lines as needed) and analyzed
// together with everything entered before it, so names
// bound earlier in the session stay bound. The REPL then
// prints each free name with the symbol it resolved to,
// followed by the import declarations that would make the
// session's input runnable.
package repl // import "github.com/sneakers-the-rat/no-more-imports/repl"

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/chzyer/readline"
	"github.com/sneakers-the-rat/no-more-imports/frontmatter"
	"github.com/sneakers-the-rat/no-more-imports/resolve"
	"github.com/sneakers-the-rat/no-more-imports/syntax"
)

var interrupted = make(chan os.Signal, 1)

// REPL executes a read, analyze, print loop.
func REPL() {
	signal.Notify(interrupted, os.Interrupt)
	defer signal.Stop(interrupted)

	rl, err := readline.New(">>> ")
	if err != nil {
		PrintError(err)
		return
	}
	defer rl.Close()

	var session []syntax.Stmt
	for {
		if err := rap(rl, &session); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rap reads, analyzes, and prints one item.
//
// It returns an error (possibly readline.ErrInterrupt)
// only if readline failed. Syntax errors are printed.
func rap(rl *readline.Instance, session *[]syntax.Stmt) error {
	eof := false

	// readline returns EOF, ErrInterrupted, or a line including "\n".
	rl.SetPrompt(">>> ")
	readline := func() ([]byte, error) {
		line, err := rl.Readline()
		rl.SetPrompt("... ")
		if err != nil {
			if err == io.EOF {
				eof = true
			}
			return nil, err
		}
		return []byte(line + "\n"), nil
	}

	// parse
	f, err := syntax.ParseCompoundStmt("<stdin>", readline)
	if err != nil {
		if eof {
			return io.EOF
		}
		PrintError(err)
		return nil
	}
	if len(f.Stmts) == 0 {
		return nil // blank line
	}

	// Analyze the whole session so far, so that an import or
	// assignment entered earlier still binds its name now.
	f.Stmts = append(*session, f.Stmts...)
	free := resolve.Analyze(f)
	*session = f.Stmts

	// print
	for _, sym := range free.Symbols {
		fmt.Printf("%s: free %s\n", sym.Pos, sym.FullName())
	}
	if text := frontmatter.Text(free); text != "" {
		fmt.Print(text)
	}
	return nil
}

// PrintError prints the error to stderr.
func PrintError(err error) {
	fmt.Fprintln(os.Stderr, err)
}
