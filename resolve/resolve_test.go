// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve_test

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sneakers-the-rat/no-more-imports/internal/chunkedfile"
	"github.com/sneakers-the-rat/no-more-imports/resolve"
	"github.com/sneakers-the-rat/no-more-imports/syntax"
)

func TestAnalyze(t *testing.T) {
	filename := "testdata/resolve.py"
	for _, chunk := range chunkedfile.Read(filename, t) {
		f, err := syntax.Parse(filename, chunk.Source)
		if err != nil {
			t.Error(err)
			continue
		}
		for _, s := range resolve.Analyze(f).Symbols {
			chunk.Got(int(s.Pos.Line), s.FullName())
		}
		chunk.Done()
	}
}

// A sym is the comparable projection of a resolve.Symbol used by the
// property tests below.
type sym struct {
	Module, Member string
	Aliases        []string
}

func analyze(t *testing.T, src string) []sym {
	t.Helper()
	f, err := syntax.Parse("test.py", src)
	if err != nil {
		t.Fatal(err)
	}
	var out []sym
	for _, s := range resolve.Analyze(f).Symbols {
		var aliases []string
		for a := range s.Aliases {
			aliases = append(aliases, a)
		}
		sort.Strings(aliases)
		out = append(out, sym{s.Module, s.Member, aliases})
	}
	return out
}

// A name assigned before any read of it, in the same or an enclosing
// scope, is never free.
func TestBindingPrecedence(t *testing.T) {
	got := analyze(t, `
x = 1
def f():
    return x + 1
f()
`)
	if diff := cmp.Diff([]sym(nil), got); diff != "" {
		t.Errorf("free symbols (-want +got):\n%s", diff)
	}
}

func TestAttributeSplitting(t *testing.T) {
	got := analyze(t, "pkg.sub.Name\n")
	want := []sym{{Module: "pkg.sub", Member: "Name"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("free symbols (-want +got):\n%s", diff)
	}
}

// A bare use of a name previously seen as a qualified member becomes
// an alias of the existing symbol, not a new entry.
func TestAliasMerge(t *testing.T) {
	got := analyze(t, `
value = random.randint(1, 10)
other = randint(1, 10)
`)
	want := []sym{{Module: "random", Member: "randint", Aliases: []string{"randint"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("free symbols (-want +got):\n%s", diff)
	}
}

// Loop variables bind in the enclosing frame and remain visible after
// the loop.
func TestLoopLeakage(t *testing.T) {
	got := analyze(t, `
for i in range(3):
    pass
last = i
`)
	if diff := cmp.Diff([]sym(nil), got); diff != "" {
		t.Errorf("free symbols (-want +got):\n%s", diff)
	}
}

// Comprehension targets are scoped to the comprehension.
func TestComprehensionIsolation(t *testing.T) {
	got := analyze(t, `
squares = [y * y for y in range(3)]
again = y
`)
	want := []sym{{Module: "y"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("free symbols (-want +got):\n%s", diff)
	}
}

// A global defined after the function that reads it is not free once
// the whole program has been analyzed.
func TestForwardReference(t *testing.T) {
	got := analyze(t, `
def f():
    return g + 1
g = 2
`)
	if diff := cmp.Diff([]sym(nil), got); diff != "" {
		t.Errorf("free symbols (-want +got):\n%s", diff)
	}
}

func TestEndToEnd(t *testing.T) {
	got := analyze(t, "re.match('a', 'a'); typing.List\n")
	want := []sym{
		{Module: "re", Member: "match"},
		{Module: "typing", Member: "List"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("free symbols (-want +got):\n%s", diff)
	}
}

// Two symbols under the same module path collapse into the first.
func TestDuplicateModuleSuppression(t *testing.T) {
	got := analyze(t, `
np.zeros(3)
np.ones(3)
`)
	want := []sym{{Module: "np", Member: "zeros"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("free symbols (-want +got):\n%s", diff)
	}
}

func TestContains(t *testing.T) {
	f, err := syntax.Parse("test.py", "re.match('a', 'a')\n")
	if err != nil {
		t.Fatal(err)
	}
	set := resolve.Analyze(f)
	if !set.Contains("re", "match") {
		t.Errorf(`Contains("re", "match") = false, want true`)
	}
	if set.Contains("re", "sub") {
		t.Errorf(`Contains("re", "sub") = true, want false`)
	}
}
