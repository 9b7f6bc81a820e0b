// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package chunkedfile

import (
	"fmt"
	"testing"
)

type testReporter struct {
	reported []string
}

func (r *testReporter) Errorf(format string, args ...interface{}) {
	formatted := fmt.Sprintf(format, args...)
	r.reported = append(r.reported, formatted)
}

func (r *testReporter) assertNone(t *testing.T) {
	if len(r.reported) > 0 {
		t.Errorf("reporter expected no errors, got %d", len(r.reported))
	}
}

func (r *testReporter) assertOne(t *testing.T, exp string) {
	if len(r.reported) != 1 {
		t.Fatalf("reporter expected 1 error, got %d", len(r.reported))
	}
	if r.reported[0] != exp {
		t.Fatalf("reporter expected %q, got %q", exp, r.reported[0])
	}
}

func (r *testReporter) reset() {
	r.reported = nil
}

func TestChunkedFile(t *testing.T) {
	data := []byte(`np.array([1]) ### "np\\.array"
---
import numpy as np
np.array([1])
`)

	reporter := &testReporter{}
	chunks := readBytes("test_file", data, reporter, "\n")

	reporter.assertNone(t) // should not have reported any errors

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	// Check the first chunk.
	exp := `np.array([1]) ### "np\\.array"`
	chunk := chunks[0]
	if chunk.Source != exp {
		t.Fatalf("expected %q, got %q", exp, chunk.Source)
	}

	// First chunk has one expectation.

	if len(chunk.want) != 1 {
		t.Fatalf("expected 1 expectation, got %d", len(chunk.want))
	}

	exp = `np\.array`
	for _, re := range chunk.want {
		if re.String() != exp {
			t.Fatalf("expected %q, got %q", exp, re.String())
		}
	}

	reporter.assertNone(t)

	// Report a finding that is expected.

	chunk.Got(1, "np.array")

	reporter.assertNone(t) // the finding was expected

	if len(chunk.want) != 0 {
		// The expectation should have been consumed.
		t.Fatalf("expected 0 expectations, got %d", len(chunk.want))
	}

	// Report the same finding again.
	// Now the reporter should flag it as unexpected.

	chunk.Got(1, "np.array")

	exp = "\ntest_file:1: unexpected finding: np.array"
	reporter.assertOne(t, exp)

	// Check the second chunk.

	exp = "\n\nimport numpy as np\nnp.array([1])\n"
	chunk = chunks[1]
	if chunk.Source != exp {
		t.Fatalf("expected %q, got %q", exp, chunk.Source)
	}

	// Second chunk has no expectations.

	if len(chunk.want) != 0 {
		t.Fatalf("expected 0 expectations, got %d", len(chunk.want))
	}

	// Report a finding that is not expected.

	reporter.reset()
	chunk.Got(123, "foobar")

	exp = "\ntest_file:123: unexpected finding: foobar"
	reporter.assertOne(t, exp)
}
