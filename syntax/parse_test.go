// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/sneakers-the-rat/no-more-imports/syntax"
)

func TestExprParseTrees(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`print(1)`,
			`(CallExpr Fn=print Args=(1))`},
		{"print(1)\n",
			`(CallExpr Fn=print Args=(1))`},
		{`x + 1`,
			`(BinaryExpr X=x Op=+ Y=1)`},
		{`[x for x in y]`,
			`(Comprehension Kind=[ Body=x Clauses=((ForClause Vars=x X=y)))`},
		{`x[i].f(42)`,
			`(CallExpr Fn=(DotExpr X=(IndexExpr X=x Y=i) Name=f) Args=(42))`},
		{`x.f()`,
			`(CallExpr Fn=(DotExpr X=x Name=f))`},
		{`x+y*z`,
			`(BinaryExpr X=x Op=+ Y=(BinaryExpr X=y Op=* Y=z))`},
		{`x%y-z`,
			`(BinaryExpr X=(BinaryExpr X=x Op=% Y=y) Op=- Y=z)`},
		{`a + b not in c`,
			`(BinaryExpr X=(BinaryExpr X=a Op=+ Y=b) Op=not in Y=c)`},
		{`a ** b`,
			`(BinaryExpr X=a Op=** Y=b)`},
		{`lambda x, *args, **kwargs: None`,
			`(LambdaExpr Params=((Param Name=x) (Param Star=* Name=args) (Param Star=** Name=kwargs)) Body=((ReturnStmt Result=None)))`},
		{`{"one": 1}`,
			`(DictExpr List=((DictEntry Key="one" Value=1)))`},
		{`a[i]`,
			`(IndexExpr X=a Y=i)`},
		{`a[i:]`,
			`(SliceExpr X=a Lo=i)`},
		{`a[:j]`,
			`(SliceExpr X=a Hi=j)`},
		{`a[::]`,
			`(SliceExpr X=a)`},
		{`a[::k]`,
			`(SliceExpr X=a Step=k)`},
		{`[]`,
			`(ListExpr)`},
		{`[1]`,
			`(ListExpr List=(1))`},
		{`[1,]`,
			`(ListExpr List=(1))`},
		{`[1, 2]`,
			`(ListExpr List=(1 2))`},
		{`{1, 2}`,
			`(SetExpr List=(1 2))`},
		{`()`,
			`(TupleExpr)`},
		{`(4,)`,
			`(TupleExpr List=(4))`},
		{`(4)`,
			`4`},
		{`(4, 5)`,
			`(TupleExpr List=(4 5))`},
		{`1, 2, 3`,
			`(TupleExpr List=(1 2 3))`},
		{`{}`,
			`(DictExpr)`},
		{`{"a": 1, "b": 2}`,
			`(DictExpr List=((DictEntry Key="a" Value=1) (DictEntry Key="b" Value=2)))`},
		{`{x: y for (x, y) in z}`,
			`(Comprehension Kind={ Body=(DictEntry Key=x Value=y) Clauses=((ForClause Vars=(TupleExpr List=(x y)) X=z)))`},
		{`{x: y for a in b if c}`,
			`(Comprehension Kind={ Body=(DictEntry Key=x Value=y) Clauses=((ForClause Vars=a X=b) (IfClause Cond=c)))`},
		{`{x for x in y}`,
			`(Comprehension Kind={ Body=x Clauses=((ForClause Vars=x X=y)))`},
		{`(x for x in y)`,
			`(Comprehension Kind=( Body=x Clauses=((ForClause Vars=x X=y)))`},
		{`[e for x in y if cond1 if cond2]`,
			`(Comprehension Kind=[ Body=e Clauses=((ForClause Vars=x X=y) (IfClause Cond=cond1) (IfClause Cond=cond2)))`},
		{`-1 + +2`,
			`(BinaryExpr X=(UnaryExpr Op=- X=1) Op=+ Y=(UnaryExpr Op=+ X=2))`},
		{`"foo" + "bar"`,
			`(BinaryExpr X="foo" Op=+ Y="bar")`},
		{`"foo" "bar"`,
			`"foobar"`},
		{`-1 * 2`, // prec(unary -) > prec(binary *)
			`(BinaryExpr X=(UnaryExpr Op=- X=1) Op=* Y=2)`},
		{`-x[i]`, // prec(unary -) < prec(x[i])
			`(UnaryExpr Op=- X=(IndexExpr X=x Y=i))`},
		{`a | b & c | d`, // prec(|) < prec(&)
			`(BinaryExpr X=(BinaryExpr X=a Op=| Y=(BinaryExpr X=b Op=& Y=c)) Op=| Y=d)`},
		{`a or b and c or d`,
			`(BinaryExpr X=(BinaryExpr X=a Op=or Y=(BinaryExpr X=b Op=and Y=c)) Op=or Y=d)`},
		{`a and b or c and d`,
			`(BinaryExpr X=(BinaryExpr X=a Op=and Y=b) Op=or Y=(BinaryExpr X=c Op=and Y=d))`},
		{`f(1, x=y)`,
			`(CallExpr Fn=f Args=(1 (BinaryExpr X=x Op== Y=y)))`},
		{`f(*args, **kwargs)`,
			`(CallExpr Fn=f Args=((UnaryExpr Op=* X=args) (UnaryExpr Op=** X=kwargs)))`},
		{`f(x for x in y)`,
			`(CallExpr Fn=f Args=((Comprehension Kind=( Body=x Clauses=((ForClause Vars=x X=y)))))`},
		{`a if b else c`,
			`(CondExpr Cond=b True=a False=c)`},
		{`a and not b`,
			`(BinaryExpr X=a Op=and Y=(UnaryExpr Op=not X=b))`},
		{`a is not b`,
			`(BinaryExpr X=a Op=is Y=b)`},
		{`await f(x)`,
			`(UnaryExpr Op=await X=(CallExpr Fn=f Args=(x)))`},
	} {
		e, err := syntax.ParseExpr("foo.py", test.input)
		var got string
		if err != nil {
			got = stripPos(err)
		} else {
			got = treeString(e)
		}
		if test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

func TestStmtParseTrees(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`print(1)`,
			`(ExprStmt X=(CallExpr Fn=print Args=(1)))`},
		{`return 1, 2`,
			`(ReturnStmt Result=(TupleExpr List=(1 2)))`},
		{`return`,
			`(ReturnStmt)`},
		{`for i in "abc": break`,
			`(ForStmt Vars=i X="abc" Body=((BranchStmt Token=break)))`},
		{`for x, y in z: pass`,
			`(ForStmt Vars=(TupleExpr List=(x y)) X=z Body=((BranchStmt Token=pass)))`},
		{`if True: pass`,
			`(IfStmt Cond=True True=((BranchStmt Token=pass)))`},
		{`if True: pass
else:
	pass`,
			`(IfStmt Cond=True True=((BranchStmt Token=pass)) False=((BranchStmt Token=pass)))`},
		{"if a: pass\nelif b: pass\nelse: pass",
			`(IfStmt Cond=a True=((BranchStmt Token=pass)) False=((IfStmt Cond=b True=((BranchStmt Token=pass)) False=((BranchStmt Token=pass)))))`},
		{`x, y = 1, 2`,
			`(AssignStmt Op== LHS=(TupleExpr List=(x y)) RHS=(TupleExpr List=(1 2)))`},
		{`x[i] = 1`,
			`(AssignStmt Op== LHS=(IndexExpr X=x Y=i) RHS=1)`},
		{`x.f = 1`,
			`(AssignStmt Op== LHS=(DotExpr X=x Name=f) RHS=1)`},
		{`x += 1`,
			`(AssignStmt Op=+= LHS=x RHS=1)`},
		{`x: int = 1`,
			`(AssignStmt Op== LHS=x Annotation=int RHS=1)`},
		{`x: int`,
			`(AssignStmt Op== LHS=x Annotation=int)`},
		{`a = b = 1`,
			`(AssignStmt Op== LHS=(TupleExpr List=(a b)) RHS=1)`},
		{`import os`,
			`(ImportStmt Names=((ImportName Path=os)))`},
		{`import os.path, sys as system`,
			`(ImportStmt Names=((ImportName Path=os.path) (ImportName Path=sys As=system)))`},
		{`from typing import List, Dict as D`,
			`(ImportStmt From=typing Names=((ImportName Path=List) (ImportName Path=Dict As=D)))`},
		{`from . import sibling`,
			`(ImportStmt From=. Names=((ImportName Path=sibling)))`},
		{`from mod import *`,
			`(ImportStmt From=mod Names=((ImportName Path=*)))`},
		{`del x, y`,
			`(DelStmt List=(x y))`},
		{`raise ValueError(msg) from err`,
			`(RaiseStmt X=(CallExpr Fn=ValueError Args=(msg)) Cause=err)`},
		{`assert x, "boom"`,
			`(AssertStmt Cond=x Msg="boom")`},
		{`def f(x, *args, **kwargs):
	pass`,
			`(DefStmt Name=f Params=((Param Name=x) (Param Star=* Name=args) (Param Star=** Name=kwargs)) Body=((BranchStmt Token=pass)))`},
		{`def f(a, b, c=d): pass`,
			`(DefStmt Name=f Params=((Param Name=a) (Param Name=b) (Param Name=c Default=d)) Body=((BranchStmt Token=pass)))`},
		{`def f(x: int, y: str = "") -> bool: pass`,
			`(DefStmt Name=f Params=((Param Name=x Annotation=int) (Param Name=y Annotation=str Default="")) Returns=bool Body=((BranchStmt Token=pass)))`},
		{`def f():
	def g():
		pass
	pass`,
			`(DefStmt Name=f Body=((DefStmt Name=g Body=((BranchStmt Token=pass))) (BranchStmt Token=pass)))`},
		{`@decorator
def f(): pass`,
			`(DefStmt Name=f Decorators=(decorator) Body=((BranchStmt Token=pass)))`},
		{`@mod.decorator(arg)
class A: pass`,
			`(ClassStmt Name=A Decorators=((CallExpr Fn=(DotExpr X=mod Name=decorator) Args=(arg))) Body=((BranchStmt Token=pass)))`},
		{`class A(Base, metaclass=M):
	x = 1`,
			`(ClassStmt Name=A Bases=(Base (BinaryExpr X=metaclass Op== Y=M)) Body=((AssignStmt Op== LHS=x RHS=1)))`},
		{`while x:
	x -= 1`,
			`(WhileStmt Cond=x Body=((AssignStmt Op=-= LHS=x RHS=1)))`},
		{`try:
	pass
except ValueError as e:
	raise
finally:
	pass`,
			`(TryStmt Body=((BranchStmt Token=pass)) Handlers=((ExceptClause Type=ValueError As=e Body=((RaiseStmt)))) Finally=((BranchStmt Token=pass)))`},
		{`try:
	pass
except:
	pass`,
			`(TryStmt Body=((BranchStmt Token=pass)) Handlers=((ExceptClause Body=((BranchStmt Token=pass)))))`},
		{`with open(f) as fh, lock:
	pass`,
			`(WithStmt Items=((WithItem X=(CallExpr Fn=open Args=(f)) As=fh) (WithItem X=lock)) Body=((BranchStmt Token=pass)))`},
		{`async def f():
	await g()`,
			`(DefStmt Name=f Body=((ExprStmt X=(UnaryExpr Op=await X=(CallExpr Fn=g)))))`},
		{`f(); g()`,
			`(ExprStmt X=(CallExpr Fn=f))`},
		{`f();`,
			`(ExprStmt X=(CallExpr Fn=f))`},
	} {
		f, err := syntax.Parse("foo.py", test.input)
		if err != nil {
			t.Errorf("parse `%s` failed: %v", test.input, stripPos(err))
			continue
		}
		if got := treeString(f.Stmts[0]); test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

// TestFileParseTrees tests sequences of statements, and particularly
// the handling of indentation, newlines, semicolons, line
// continuations, and blank lines.
func TestFileParseTrees(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`x = 1
print(x)`,
			`(AssignStmt Op== LHS=x RHS=1)
(ExprStmt X=(CallExpr Fn=print Args=(x)))`},
		{"if cond:\n\tpass",
			`(IfStmt Cond=cond True=((BranchStmt Token=pass)))`},
		{`def f():
	pass
pass

pass`,
			`(DefStmt Name=f Body=((BranchStmt Token=pass)))
(BranchStmt Token=pass)
(BranchStmt Token=pass)`},
		{`pass; pass`,
			`(BranchStmt Token=pass)
(BranchStmt Token=pass)`},
		{"pass\n\npass",
			`(BranchStmt Token=pass)
(BranchStmt Token=pass)`},
		{`x = (1 +
2)`,
			`(AssignStmt Op== LHS=x RHS=(BinaryExpr X=1 Op=+ Y=2))`},
		{`x = 1 \
+ 2`,
			`(AssignStmt Op== LHS=x RHS=(BinaryExpr X=1 Op=+ Y=2))`},
	} {
		f, err := syntax.Parse("foo.py", test.input)
		if err != nil {
			t.Errorf("parse `%s` failed: %v", test.input, stripPos(err))
			continue
		}
		var buf bytes.Buffer
		for i, stmt := range f.Stmts {
			if i > 0 {
				buf.WriteByte('\n')
			}
			writeTree(&buf, reflect.ValueOf(stmt))
		}
		if got := buf.String(); test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`def f(`, "got end of file, want identifier"},
		{`x = `, "got newline, want primary expression"},
		{`if x pass`, "got pass, want ':'"},
		{`try:
	pass`, "try statement must have at least one except or finally clause"},
		{`a not b`, "got identifier, want in"},
		{`a < b < c`, "< does not associate with < (use parens)"},
	} {
		_, err := syntax.Parse("foo.py", test.input)
		if err == nil {
			t.Errorf("parse `%s` unexpectedly succeeded", test.input)
			continue
		}
		if got := stripPos(err); got != test.want {
			t.Errorf("parse `%s` error = %q, want %q", test.input, got, test.want)
		}
	}
}

// stripPos removes the file:line:col prefix from an error message.
func stripPos(err error) string {
	s := err.Error()
	if i := strings.Index(s, ": "); i >= 0 {
		s = s[i+len(": "):]
	}
	return s
}

// treeString prints a syntax node as a parenthesized tree.
// Idents are printed as foo and Literals as "foo" or 42.
// Structs are printed as (type name=value ...).
// Only non-empty fields are shown.
func treeString(n syntax.Node) string {
	var buf bytes.Buffer
	writeTree(&buf, reflect.ValueOf(n))
	return buf.String()
}

func writeTree(out *bytes.Buffer, x reflect.Value) {
	switch x.Kind() {
	case reflect.String, reflect.Int, reflect.Bool:
		fmt.Fprintf(out, "%v", x.Interface())
	case reflect.Ptr, reflect.Interface:
		if elem := x.Elem(); elem.Kind() == 0 {
			out.WriteString("nil")
		} else {
			writeTree(out, elem)
		}
	case reflect.Struct:
		switch v := x.Interface().(type) {
		case syntax.Literal:
			switch v.Token {
			case syntax.STRING:
				fmt.Fprintf(out, "%q", v.Value)
			case syntax.INT, syntax.FLOAT:
				fmt.Fprintf(out, "%v", v.Value)
			}
			return
		case syntax.Ident:
			out.WriteString(v.Name)
			return
		}
		fmt.Fprintf(out, "(%s", strings.TrimPrefix(x.Type().String(), "syntax."))
		writeFields(out, x)
		fmt.Fprintf(out, ")")
	default:
		fmt.Fprintf(out, "%T", x.Interface())
	}
}

func writeFields(out *bytes.Buffer, x reflect.Value) {
	for i, n := 0, x.NumField(); i < n; i++ {
		f := x.Field(i)
		if f.Type() == reflect.TypeOf(syntax.Position{}) {
			continue // skip positions
		}
		sf := x.Type().Field(i)
		if sf.Anonymous {
			// an embedded Function; print its fields inline
			writeFields(out, f)
			continue
		}
		name := sf.Name
		if f.Type() == reflect.TypeOf(syntax.Token(0)) {
			if tok := syntax.Token(f.Int()); tok != 0 {
				fmt.Fprintf(out, " %s=%s", name, tok)
			}
			continue
		}

		switch f.Kind() {
		case reflect.Slice:
			if n := f.Len(); n > 0 {
				fmt.Fprintf(out, " %s=(", name)
				for i := 0; i < n; i++ {
					if i > 0 {
						out.WriteByte(' ')
					}
					writeTree(out, f.Index(i))
				}
				out.WriteByte(')')
			}
			continue
		case reflect.Ptr, reflect.Interface:
			if f.IsNil() {
				continue
			}
		case reflect.Int:
			if f.Int() != 0 {
				fmt.Fprintf(out, " %s=%d", name, f.Int())
			}
			continue
		case reflect.Bool:
			if f.Bool() {
				fmt.Fprintf(out, " %s", name)
			}
			continue
		case reflect.String:
			if f.String() != "" {
				fmt.Fprintf(out, " %s=%s", name, f.String())
			}
			continue
		}
		fmt.Fprintf(out, " %s=", name)
		writeTree(out, f)
	}
}
