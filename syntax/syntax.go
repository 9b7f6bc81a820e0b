// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax provides a parser and abstract syntax tree for the
// importless Python dialect analyzed by this project.
//
// The grammar is the subset of Python that name analysis cares about:
// definitions, assignments, imports, the compound statements that
// introduce or leak bindings, and the expression forms those contain.
package syntax

// A Node is a node in a syntax tree.
type Node interface {
	// Span returns the start and end position of the expression.
	Span() (start, end Position)
}

// Start returns the start position of the expression.
func Start(n Node) Position {
	start, _ := n.Span()
	return start
}

// End returns the end position of the expression.
func End(n Node) Position {
	_, end := n.Span()
	return end
}

// A File represents a source file.
type File struct {
	Path  string
	Stmts []Stmt
}

func (x *File) Span() (start, end Position) {
	if len(x.Stmts) == 0 {
		return
	}
	start, _ = x.Stmts[0].Span()
	_, end = x.Stmts[len(x.Stmts)-1].Span()
	return start, end
}

// A Stmt is a statement.
type Stmt interface {
	Node
	stmt()
}

func (*AssertStmt) stmt() {}
func (*AssignStmt) stmt() {}
func (*BranchStmt) stmt() {}
func (*ClassStmt) stmt()  {}
func (*DefStmt) stmt()    {}
func (*DelStmt) stmt()    {}
func (*ExprStmt) stmt()   {}
func (*ForStmt) stmt()    {}
func (*IfStmt) stmt()     {}
func (*ImportStmt) stmt() {}
func (*RaiseStmt) stmt()  {}
func (*ReturnStmt) stmt() {}
func (*TryStmt) stmt()    {}
func (*WhileStmt) stmt()  {}
func (*WithStmt) stmt()   {}

// An AssignStmt represents an assignment:
//
//	x = 0
//	x, y = y, x
//	x += 1
//	x: T = 0
//
// For an annotated assignment, Annotation is set and RHS may be nil
// (a bare declaration such as "x: int").
type AssignStmt struct {
	OpPos      Position
	Op         Token // = EQ | {PLUS,MINUS,STAR,SLASH,SLASHSLASH,PERCENT}_EQ
	LHS        Expr
	Annotation Expr // nil unless x: T [= v]
	RHS        Expr // nil only if Annotation != nil
}

func (x *AssignStmt) Span() (start, end Position) {
	start, _ = x.LHS.Span()
	if x.RHS != nil {
		_, end = x.RHS.Span()
	} else {
		_, end = x.Annotation.Span()
	}
	return
}

// An AssertStmt represents an assertion: assert Cond [, Msg].
type AssertStmt struct {
	Assert Position
	Cond   Expr
	Msg    Expr // may be nil
}

func (x *AssertStmt) Span() (start, end Position) {
	last := x.Cond
	if x.Msg != nil {
		last = x.Msg
	}
	_, end = last.Span()
	return x.Assert, end
}

// A Function represents the common parts of LambdaExpr and DefStmt.
// A lambda's body is a single synthesized ReturnStmt.
type Function struct {
	StartPos Position // position of DEF or LAMBDA token
	Params   []*Param
	Returns  Expr // return annotation; nil for lambda
	Body     []Stmt
}

func (x *Function) Span() (start, end Position) {
	_, end = x.Body[len(x.Body)-1].Span()
	return x.StartPos, end
}

// A Param represents one parameter of a function:
//
//	name
//	name: T
//	name=default
//	*name
//	*            (keyword-only marker; Name is nil)
//	**name
type Param struct {
	StarPos    Position // position of * or **, if any
	Star       Token    // ILLEGAL | STAR | STARSTAR
	Name       *Ident   // nil only for a bare * marker
	Annotation Expr     // may be nil
	Default    Expr     // may be nil
}

func (x *Param) Span() (start, end Position) {
	if x.Star != ILLEGAL {
		start = x.StarPos
	} else {
		start, _ = x.Name.Span()
	}
	switch {
	case x.Default != nil:
		_, end = x.Default.Span()
	case x.Annotation != nil:
		_, end = x.Annotation.Span()
	case x.Name != nil:
		_, end = x.Name.Span()
	default:
		end = x.StarPos.add(x.Star.String())
	}
	return
}

// A DefStmt represents a function definition.
type DefStmt struct {
	Def        Position
	Name       *Ident
	Decorators []Expr
	Function
}

func (x *DefStmt) Span() (start, end Position) {
	_, end = x.Function.Body[len(x.Body)-1].Span()
	return x.Def, end
}

// A ClassStmt represents a class definition:
// class Name(Bases): Body.
type ClassStmt struct {
	Class      Position
	Name       *Ident
	Bases      []Expr // base classes and keyword args, possibly empty
	Decorators []Expr
	Body       []Stmt
}

func (x *ClassStmt) Span() (start, end Position) {
	_, end = x.Body[len(x.Body)-1].Span()
	return x.Class, end
}

// A DelStmt unbinds its targets: del x, y.z.
type DelStmt struct {
	Del  Position
	List []Expr
}

func (x *DelStmt) Span() (start, end Position) {
	_, end = x.List[len(x.List)-1].Span()
	return x.Del, end
}

// An ExprStmt is an expression evaluated for side effects.
type ExprStmt struct {
	X Expr
}

func (x *ExprStmt) Span() (start, end Position) {
	return x.X.Span()
}

// An IfStmt is a conditional: if Cond: True; else: False.
// 'elif' is desugared into a chain of IfStmts.
type IfStmt struct {
	If      Position // IF or ELIF
	Cond    Expr
	True    []Stmt
	ElsePos Position // ELSE or ELIF
	False   []Stmt   // optional
}

func (x *IfStmt) Span() (start, end Position) {
	body := x.False
	if body == nil {
		body = x.True
	}
	_, end = body[len(body)-1].Span()
	return x.If, end
}

// An ImportStmt brings module paths or their members into scope:
//
//	import a.b, c as d
//	from a.b import x, y as z
//
// For a plain import, From is "" and each name's Path is a dotted
// module path. For a from-import, From is the dotted module path and
// each name's Path is a member name (or "*").
type ImportStmt struct {
	ImportPos Position // position of IMPORT or FROM
	From      string
	FromPos   Position
	Names     []*ImportName
}

func (x *ImportStmt) Span() (start, end Position) {
	last := x.Names[len(x.Names)-1]
	if last.As != nil {
		_, end = last.As.Span()
	} else {
		end = last.PathPos.add(last.Path)
	}
	return x.ImportPos, end
}

// An ImportName is one imported target within an ImportStmt.
type ImportName struct {
	Path    string
	PathPos Position
	As      *Ident // may be nil
}

func (x *ImportName) Span() (start, end Position) {
	if x.As != nil {
		_, end = x.As.Span()
	} else {
		end = x.PathPos.add(x.Path)
	}
	return x.PathPos, end
}

// A BranchStmt changes the flow of control: break, continue, pass.
type BranchStmt struct {
	Token    Token // = BREAK | CONTINUE | PASS
	TokenPos Position
}

func (x *BranchStmt) Span() (start, end Position) {
	return x.TokenPos, x.TokenPos.add(x.Token.String())
}

// A RaiseStmt raises an exception: raise [X [from Cause]].
type RaiseStmt struct {
	Raise Position
	X     Expr // may be nil
	Cause Expr // may be nil
}

func (x *RaiseStmt) Span() (start, end Position) {
	switch {
	case x.Cause != nil:
		_, end = x.Cause.Span()
	case x.X != nil:
		_, end = x.X.Span()
	default:
		end = x.Raise.add("raise")
	}
	return x.Raise, end
}

// A ReturnStmt returns from a function.
type ReturnStmt struct {
	Return Position
	Result Expr // may be nil
}

func (x *ReturnStmt) Span() (start, end Position) {
	if x.Result == nil {
		return x.Return, x.Return.add("return")
	}
	_, end = x.Result.Span()
	return x.Return, end
}

// A TryStmt represents try/except/else/finally.
type TryStmt struct {
	Try      Position
	Body     []Stmt
	Handlers []*ExceptClause
	Else     []Stmt // optional
	Finally  []Stmt // optional
}

func (x *TryStmt) Span() (start, end Position) {
	var body []Stmt
	switch {
	case x.Finally != nil:
		body = x.Finally
	case x.Else != nil:
		body = x.Else
	case len(x.Handlers) > 0:
		body = x.Handlers[len(x.Handlers)-1].Body
	default:
		body = x.Body
	}
	_, end = body[len(body)-1].Span()
	return x.Try, end
}

// An ExceptClause is one handler of a TryStmt:
// except Type as As: Body.
type ExceptClause struct {
	Except Position
	Type   Expr   // may be nil (bare except)
	As     *Ident // may be nil
	Body   []Stmt
}

func (x *ExceptClause) Span() (start, end Position) {
	_, end = x.Body[len(x.Body)-1].Span()
	return x.Except, end
}

// A WhileStmt is a while loop: while Cond: Body.
type WhileStmt struct {
	While Position
	Cond  Expr
	Body  []Stmt
}

func (x *WhileStmt) Span() (start, end Position) {
	_, end = x.Body[len(x.Body)-1].Span()
	return x.While, end
}

// A WithStmt is a context-manager block: with Items: Body.
type WithStmt struct {
	With  Position
	Items []*WithItem
	Body  []Stmt
}

func (x *WithStmt) Span() (start, end Position) {
	_, end = x.Body[len(x.Body)-1].Span()
	return x.With, end
}

// A WithItem is one "X as As" clause of a WithStmt.
type WithItem struct {
	X  Expr
	As Expr // name or tuple of names; may be nil
}

func (x *WithItem) Span() (start, end Position) {
	start, end = x.X.Span()
	if x.As != nil {
		_, end = x.As.Span()
	}
	return
}

// A ForStmt represents a loop: for Vars in X: Body.
type ForStmt struct {
	For  Position
	Vars Expr // name, or tuple of names
	X    Expr
	Body []Stmt
	Else []Stmt // optional
}

func (x *ForStmt) Span() (start, end Position) {
	body := x.Body
	if x.Else != nil {
		body = x.Else
	}
	_, end = body[len(body)-1].Span()
	return x.For, end
}

// An Expr is an expression.
type Expr interface {
	Node
	expr()
}

func (*BinaryExpr) expr()    {}
func (*CallExpr) expr()      {}
func (*Comprehension) expr() {}
func (*CondExpr) expr()      {}
func (*DictEntry) expr()     {}
func (*DictExpr) expr()      {}
func (*DotExpr) expr()       {}
func (*Ident) expr()         {}
func (*IndexExpr) expr()     {}
func (*LambdaExpr) expr()    {}
func (*ListExpr) expr()      {}
func (*Literal) expr()       {}
func (*SetExpr) expr()       {}
func (*SliceExpr) expr()     {}
func (*TupleExpr) expr()     {}
func (*UnaryExpr) expr()     {}

// An Ident represents an identifier.
type Ident struct {
	NamePos Position
	Name    string
}

func (x *Ident) Span() (start, end Position) {
	return x.NamePos, x.NamePos.add(x.Name)
}

// A Literal represents a literal string or number.
type Literal struct {
	Token    Token // = STRING | INT | FLOAT
	TokenPos Position
	Raw      string      // uninterpreted text
	Value    interface{} // = string | int64 | *big.Int | float64
}

func (x *Literal) Span() (start, end Position) {
	return x.TokenPos, x.TokenPos.add(x.Raw)
}

// A CallExpr represents a function call expression: Fn(Args).
// Keyword arguments are represented as BinaryExpr(x=y) and
// *args/**kwargs as UnaryExpr, as in the concrete syntax.
type CallExpr struct {
	Fn     Expr
	Lparen Position
	Args   []Expr
	Rparen Position
}

func (x *CallExpr) Span() (start, end Position) {
	start, _ = x.Fn.Span()
	return start, x.Rparen.add(")")
}

// A DotExpr represents a field or method selector: X.Name.
type DotExpr struct {
	X       Expr
	Dot     Position
	NamePos Position
	Name    *Ident
}

func (x *DotExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Name.Span()
	return
}

// A Comprehension represents a list, set, dict, or generator
// comprehension: [Body for ... if ...] and friends.
type Comprehension struct {
	Kind    Token    // LBRACK (list), LBRACE (set/dict), LPAREN (generator)
	Lbrack  Position // position of Kind token
	Body    Expr     // a DictEntry for dict comprehensions
	Clauses []Node   // = *ForClause | *IfClause
	Rbrack  Position
}

func (x *Comprehension) Span() (start, end Position) {
	return x.Lbrack, x.Rbrack.add("]")
}

// A ForClause represents a for clause in a comprehension: for Vars in X.
type ForClause struct {
	For  Position
	Vars Expr // name, or tuple of names
	In   Position
	X    Expr
}

func (x *ForClause) Span() (start, end Position) {
	_, end = x.X.Span()
	return x.For, end
}

// An IfClause represents an if clause in a comprehension: if Cond.
type IfClause struct {
	If   Position
	Cond Expr
}

func (x *IfClause) Span() (start, end Position) {
	_, end = x.Cond.Span()
	return x.If, end
}

// A DictExpr represents a dictionary literal: { List }.
type DictExpr struct {
	Lbrace Position
	List   []Expr // all *DictEntrys
	Rbrace Position
}

func (x *DictExpr) Span() (start, end Position) {
	return x.Lbrace, x.Rbrace.add("}")
}

// A DictEntry represents a dictionary entry: Key: Value.
// Used only within a DictExpr or a dict Comprehension.
type DictEntry struct {
	Key   Expr
	Colon Position
	Value Expr
}

func (x *DictEntry) Span() (start, end Position) {
	start, _ = x.Key.Span()
	_, end = x.Value.Span()
	return start, end
}

// A SetExpr represents a set literal: { List }.
type SetExpr struct {
	Lbrace Position
	List   []Expr
	Rbrace Position
}

func (x *SetExpr) Span() (start, end Position) {
	return x.Lbrace, x.Rbrace.add("}")
}

// A LambdaExpr represents an inline function abstraction.
type LambdaExpr struct {
	Lambda Position
	Function
}

func (x *LambdaExpr) Span() (start, end Position) {
	_, end = x.Function.Body[len(x.Body)-1].Span()
	return x.Lambda, end
}

// A ListExpr represents a list literal: [ List ].
type ListExpr struct {
	Lbrack Position
	List   []Expr
	Rbrack Position
}

func (x *ListExpr) Span() (start, end Position) {
	return x.Lbrack, x.Rbrack.add("]")
}

// CondExpr represents the conditional: X if COND else ELSE.
type CondExpr struct {
	If      Position
	Cond    Expr
	True    Expr
	ElsePos Position
	False   Expr
}

func (x *CondExpr) Span() (start, end Position) {
	start, _ = x.True.Span()
	_, end = x.False.Span()
	return start, end
}

// A TupleExpr represents a tuple literal: (List).
type TupleExpr struct {
	Lparen Position // optional (e.g. in x, y = 0, 1), but required if List is empty
	List   []Expr
	Rparen Position
}

func (x *TupleExpr) Span() (start, end Position) {
	if x.Lparen.IsValid() {
		return x.Lparen, x.Rparen
	} else {
		return Start(x.List[0]), End(x.List[len(x.List)-1])
	}
}

// A UnaryExpr represents a unary expression: Op X.
// In a call, Op may be STAR or STARSTAR.
type UnaryExpr struct {
	OpPos Position
	Op    Token
	X     Expr
}

func (x *UnaryExpr) Span() (start, end Position) {
	_, end = x.X.Span()
	return x.OpPos, end
}

// A BinaryExpr represents a binary expression: X Op Y.
type BinaryExpr struct {
	X     Expr
	OpPos Position
	Op    Token
	Y     Expr
}

func (x *BinaryExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Y.Span()
	return start, end
}

// A SliceExpr represents a slice or substring expression: X[Lo:Hi:Step].
type SliceExpr struct {
	X            Expr
	Lbrack       Position
	Lo, Hi, Step Expr // all optional
	Rbrack       Position
}

func (x *SliceExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	return start, x.Rbrack
}

// An IndexExpr represents an index expression: X[Y].
type IndexExpr struct {
	X      Expr
	Lbrack Position
	Y      Expr
	Rbrack Position
}

func (x *IndexExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	return start, x.Rbrack
}
