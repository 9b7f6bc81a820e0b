// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sneakers-the-rat/no-more-imports/resolve"
)

// An Installer best-effort installs the external packages a symbol
// set needs, through an external package manager. The zero value uses
// pip and writes progress to stderr.
type Installer struct {
	// Command is the package-manager invocation to which each package
	// name is appended. If nil, it is ["python", "-m", "pip", "install"].
	Command []string

	// Quiet suppresses progress output.
	Quiet bool

	// Output receives progress messages; if nil, os.Stderr.
	Output io.Writer
}

// Install runs the package manager once per package named by set,
// skipping standard-library modules. Failures are collected per
// package; one package failing to install does not stop the rest.
func (in *Installer) Install(ctx context.Context, set *resolve.SymbolSet) error {
	pkgs := Packages(set)
	if len(pkgs) == 0 {
		return nil
	}

	out := in.Output
	if out == nil {
		out = os.Stderr
	}
	if !in.Quiet {
		fmt.Fprintf(out, "installing: %s\n", strings.Join(pkgs, " "))
	}

	command := in.Command
	if command == nil {
		command = []string{"python", "-m", "pip", "install"}
	}

	var errs []error
	for _, pkg := range pkgs {
		args := append(append([]string(nil), command[1:]...), pkg)
		cmd := exec.CommandContext(ctx, command[0], args...)
		output, err := cmd.CombinedOutput()
		if err != nil {
			errs = append(errs, fmt.Errorf("install %s: %v: %s",
				pkg, err, bytes.TrimSpace(output)))
		}
	}
	return errors.Join(errs...)
}
