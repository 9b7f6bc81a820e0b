// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The nmi command analyzes an importless Python program: it resolves
// the program's free names to the modules they refer to and prints the
// program with the synthesized import declarations spliced ahead of it.
// With no arguments and an interactive stdin, it starts a
// read-analyze-print loop (REPL).
package main // import "github.com/sneakers-the-rat/no-more-imports/cmd/nmi"

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/sneakers-the-rat/no-more-imports/frontmatter"
	"github.com/sneakers-the-rat/no-more-imports/loader"
	"github.com/sneakers-the-rat/no-more-imports/repl"
)

// flags
var (
	names    = flag.Bool("names", false, "print the free names instead of rewriting")
	front    = flag.Bool("frontmatter", false, "print only the synthesized import declarations")
	install  = flag.Bool("install", false, "pip install the distribution packages the program needs")
	quiet    = flag.Bool("quiet", false, "suppress installer progress output")
	execprog = flag.String("c", "", "analyze program `prog`")
)

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("nmi: ")
	log.SetFlags(0)
	flag.Parse()

	var (
		filename string
		src      []byte
		err      error
	)
	switch {
	case *execprog != "":
		// Analyze provided program.
		filename = "cmdline"
		src = []byte(*execprog)
	case flag.NArg() == 1:
		// Analyze specified file.
		filename = flag.Arg(0)
		src, err = os.ReadFile(filename)
		if err != nil {
			log.Print(err)
			return 1
		}
	case flag.NArg() == 0:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Println("Welcome to no-more-imports")
			repl.REPL()
			return 0
		}
		filename = "<stdin>"
		src, err = io.ReadAll(os.Stdin)
		if err != nil {
			log.Print(err)
			return 1
		}
	default:
		log.Print("want at most one Python file name")
		return 1
	}

	out, free, err := loader.Rewrite(filename, src)
	if err != nil {
		repl.PrintError(err)
		return 1
	}

	if *install {
		inst := &loader.Installer{Quiet: *quiet}
		if err := inst.Install(context.Background(), free); err != nil {
			log.Print(err)
			return 1
		}
	}

	switch {
	case *names:
		for _, sym := range free.Symbols {
			fmt.Printf("%s: %s\n", sym.Pos, sym.FullName())
		}
	case *front:
		fmt.Print(frontmatter.Text(free))
	default:
		os.Stdout.Write(out)
	}

	return 0
}
