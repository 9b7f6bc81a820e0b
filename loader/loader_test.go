// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loader_test

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sneakers-the-rat/no-more-imports/loader"
	"github.com/sneakers-the-rat/no-more-imports/resolve"
	"github.com/sneakers-the-rat/no-more-imports/syntax"
)

func TestSkip(t *testing.T) {
	for _, test := range []struct {
		name string
		want bool
	}{
		{"os", true},
		{"os.path", true},
		{"collections.abc", true},
		{"numpy", false},
		{"numpy.linalg", false},
		{"no_more_imports", true},
		{"pip", true},
	} {
		if got := loader.Skip(test.name); got != test.want {
			t.Errorf("Skip(%q) = %v, want %v", test.name, got, test.want)
		}
	}
}

func TestRewrite(t *testing.T) {
	src := []byte("df = pd.DataFrame({'a': [1]})\n")
	out, set, err := loader.Rewrite("m.py", src)
	if err != nil {
		t.Fatal(err)
	}
	want := "import pd\ndf = pd.DataFrame({'a': [1]})\n"
	if string(out) != want {
		t.Errorf("Rewrite = %q, want %q", out, want)
	}
	if !set.Contains("pd", "DataFrame") {
		t.Errorf("symbol set missing pd.DataFrame")
	}

	// The rewritten source must itself be clean.
	f, err := syntax.Parse("m.py", out)
	if err != nil {
		t.Fatal(err)
	}
	if free := resolve.Analyze(f); len(free.Symbols) != 0 {
		t.Errorf("rewritten source still has %d free symbols", len(free.Symbols))
	}
}

func TestRewriteNoFreeNames(t *testing.T) {
	src := []byte("import re\nre.match('a', 'a')\n")
	out, _, err := loader.Rewrite("m.py", src)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, src) {
		t.Errorf("Rewrite modified a source with no free names: %q", out)
	}
}

func TestRewriteParseError(t *testing.T) {
	_, _, err := loader.Rewrite("m.py", []byte("def f(\n"))
	if err == nil {
		t.Fatal("Rewrite of malformed source succeeded")
	}
	if !strings.Contains(err.Error(), "m.py:") {
		t.Errorf("parse error %q lacks position", err)
	}
}

func TestPackages(t *testing.T) {
	f, err := syntax.Parse("m.py", `
os.getcwd()
np.zeros(3)
pd.DataFrame()
json.loads("{}")
`)
	if err != nil {
		t.Fatal(err)
	}
	got := loader.Packages(resolve.Analyze(f))
	// os and json are standard library; np and pd are not.
	want := []string{"np", "pd"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Packages (-want +got):\n%s", diff)
	}
}

func TestInstallNothingToDo(t *testing.T) {
	f, err := syntax.Parse("m.py", "os.getcwd()\n")
	if err != nil {
		t.Fatal(err)
	}
	// All modules are standard library, so the command never runs.
	in := &loader.Installer{Quiet: true, Command: []string{"definitely-not-a-command"}}
	if err := in.Install(context.Background(), resolve.Analyze(f)); err != nil {
		t.Errorf("Install = %v, want nil", err)
	}
}

func TestInstallCollectsFailures(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on the false utility")
	}
	f, err := syntax.Parse("m.py", "np.zeros(3)\npd.DataFrame()\n")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	in := &loader.Installer{Command: []string{"false"}, Output: &buf}
	err = in.Install(context.Background(), resolve.Analyze(f))
	if err == nil {
		t.Fatal("Install with a failing command succeeded")
	}
	// Both packages are attempted despite the first failure.
	for _, pkg := range []string{"np", "pd"} {
		if !strings.Contains(err.Error(), "install "+pkg) {
			t.Errorf("error %q does not mention package %s", err, pkg)
		}
	}
	if !strings.Contains(buf.String(), "np pd") {
		t.Errorf("progress output %q does not list the packages", buf.String())
	}
}
