// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chunkedfile provides utilities for testing that analysis
// findings are reported in the appropriate places.
//
// A chunked file consists of several chunks of input text separated by
// "---" lines.  Each chunk is an input to the program under test, such
// as the free-name analyzer.  Lines containing "###" are interpreted
// as expectations: the following text is a Go string literal denoting
// a regular expression that should match a finding reported for that
// line, such as a free symbol or an error message.
//
// Example:
//
//	re.match("a", "a") ### "re\.match"
//	---
//	import re
//	re.match("a", "a")
//
// A client test feeds each chunk of text into the program under test,
// then calls chunk.Got for each finding that actually occurred.  Any
// discrepancy between the actual and expected findings is reported
// using the client's reporter, which is typically a testing.T.
package chunkedfile

import (
	"fmt"
	"os"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

const debug = false

// A Chunk is a portion of a chunked file.
// It carries the findings expected for it, keyed by line number.
type Chunk struct {
	Source   string
	filename string
	report   Reporter
	want     map[int]*regexp.Regexp
}

// Reporter is implemented by *testing.T.
type Reporter interface {
	Errorf(format string, args ...interface{})
}

// Read parses a chunked file and returns its chunks.
// It reports failures using the reporter.
//
// Messages of the form "file.py:line:col: ..." are prefixed by a
// newline so that the Go source position added by (*testing.T).Errorf
// appears on a separate line so as not to confuse editors.
func Read(filename string, report Reporter) []Chunk {
	data, err := os.ReadFile(filename)
	if err != nil {
		report.Errorf("%s", err)
		return nil
	}
	eol := "\n"
	if runtime.GOOS == "windows" {
		eol = "\r\n"
	}
	return readBytes(filename, data, report, eol)
}

func readBytes(filename string, data []byte, report Reporter, eol string) (chunks []Chunk) {
	linenum := 1
	for i, chunk := range strings.Split(string(data), eol+"---"+eol) {
		if debug {
			fmt.Printf("chunk %d at line %d: %s\n", i, linenum, chunk)
		}
		// Pad with newlines so the line numbers match the original file.
		src := strings.Repeat("\n", linenum-1) + chunk

		want := make(map[int]*regexp.Regexp)

		// Parse comments of the form:
		// ### "expected finding".
		lines := strings.Split(chunk, "\n")
		for j := 0; j < len(lines); j, linenum = j+1, linenum+1 {
			line := lines[j]
			hashes := strings.Index(line, "###")
			if hashes < 0 {
				continue
			}
			rest := strings.TrimSpace(line[hashes+len("###"):])
			pattern, err := strconv.Unquote(rest)
			if err != nil {
				report.Errorf("\n%s:%d: not a quoted regexp: %s", filename, linenum, rest)
				continue
			}
			rx, err := regexp.Compile(pattern)
			if err != nil {
				report.Errorf("\n%s:%d: %v", filename, linenum, err)
				continue
			}
			want[linenum] = rx
			if debug {
				fmt.Printf("\t%d\t%s\n", linenum, rx)
			}
		}
		linenum++

		chunks = append(chunks, Chunk{src, filename, report, want})
	}
	return chunks
}

// Got should be called by the client to report a finding at a
// particular line. Got reports unexpected findings to the chunk's
// reporter.
func (chunk *Chunk) Got(linenum int, msg string) {
	if rx, ok := chunk.want[linenum]; ok {
		delete(chunk.want, linenum)
		if !rx.MatchString(msg) {
			chunk.report.Errorf("\n%s:%d: finding %q does not match pattern %q", chunk.filename, linenum, msg, rx)
		}
	} else {
		chunk.report.Errorf("\n%s:%d: unexpected finding: %v", chunk.filename, linenum, msg)
	}
}

// Done should be called by the client to indicate that the chunk has
// no more findings. Done reports expected findings that did not occur
// to the chunk's reporter.
func (chunk *Chunk) Done() {
	for linenum, rx := range chunk.want {
		chunk.report.Errorf("\n%s:%d: expected finding matching %q", chunk.filename, linenum, rx)
	}
}
