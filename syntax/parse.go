// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file defines a recursive-descent parser for the analyzed
// Python dialect.

import (
	"fmt"
	"strings"
)

// Parse parses the input data and returns the corresponding parse tree.
//
// If src != nil, ParseFile parses the source from src and the filename
// is only used when recording position information.  The type of the
// argument for the src parameter must be string, []byte, or io.Reader.
// If src == nil, ParseFile parses the file specified by filename.
func Parse(filename string, src interface{}) (f *File, err error) {
	in, err := newScanner(filename, src)
	if err != nil {
		return nil, err
	}
	p := parser{in: in}
	defer p.in.recover(&err)

	p.nextToken() // read first lookahead token
	f = p.parseFile()
	if f != nil {
		f.Path = filename
	}
	p.assertInitialState()
	return f, nil
}

// ParseExpr parses a single expression from src.
// The src may be a string, []byte, or io.Reader.
func ParseExpr(filename string, src interface{}) (expr Expr, err error) {
	in, err := newScanner(filename, src)
	if err != nil {
		return nil, err
	}
	p := parser{in: in}
	defer p.in.recover(&err)

	p.nextToken() // read first lookahead token
	expr = p.parseExpr(false)

	// A following newline (e.g. "f()\n") appears outside any bracket,
	// braces, or parentheses and is thus materialized.
	if p.tok == NEWLINE {
		p.nextToken()
	}

	if p.tok != EOF {
		p.in.errorf(p.in.pos, "got %#v after expression, want EOF", p.tok)
	}
	p.assertInitialState()
	return expr, nil
}

// ParseCompoundStmt parses a single compound statement:
// a blank line, a def, class, if, for, while, try, or with statement,
// or a semicolon-separated list of simple statements followed
// by a newline. These are the units on which the REPL operates.
// ParseCompoundStmt does not consume any following input.
// The parser calls the readline function each
// time it needs a new line of input.
func ParseCompoundStmt(filename string, readline func() ([]byte, error)) (f *File, err error) {
	in, err := newScanner(filename, readline)
	if err != nil {
		return nil, err
	}

	p := parser{in: in}
	defer p.in.recover(&err)

	p.nextToken() // read first lookahead token

	var stmts []Stmt
	switch p.tok {
	case AT, DEF, CLASS, IF, FOR, WHILE, TRY, WITH, ASYNC:
		stmts = p.parseStmt(stmts)
	case NEWLINE:
		// blank line
	default:
		stmts = p.parseSimpleStmt(stmts, false)
		// Do not consume newline, to avoid blocking again.
	}

	return &File{Path: filename, Stmts: stmts}, nil
}

type parser struct {
	in     *scanner
	tok    Token
	tokval tokenValue
}

// nextToken advances the scanner and returns the position of the
// previous token.
func (p *parser) nextToken() Position {
	oldpos := p.tokval.pos
	p.tok = p.in.nextToken(&p.tokval)
	// enable to see the token stream
	if debug {
		fmt.Printf("nextToken: %-20s%+v\n", p.tok, p.tokval.pos)
	}
	return oldpos
}

const debug = false

// file_input = (NEWLINE | stmt)* EOF
func (p *parser) parseFile() *File {
	var stmts []Stmt
	for p.tok != EOF {
		if p.tok == NEWLINE {
			p.nextToken()
			continue
		}
		stmts = p.parseStmt(stmts)
	}
	return &File{Stmts: stmts}
}

func (p *parser) parseStmt(stmts []Stmt) []Stmt {
	switch p.tok {
	case AT:
		return append(stmts, p.parseDecorated())
	case DEF:
		return append(stmts, p.parseDefStmt(nil))
	case CLASS:
		return append(stmts, p.parseClassStmt(nil))
	case IF:
		return append(stmts, p.parseIfStmt())
	case FOR:
		return append(stmts, p.parseForStmt())
	case WHILE:
		return append(stmts, p.parseWhileStmt())
	case TRY:
		return append(stmts, p.parseTryStmt())
	case WITH:
		return append(stmts, p.parseWithStmt())
	case ASYNC:
		// "async" is transparent to name analysis:
		// async def/for/with parse like their plain forms.
		p.nextToken()
		switch p.tok {
		case DEF:
			return append(stmts, p.parseDefStmt(nil))
		case FOR:
			return append(stmts, p.parseForStmt())
		case WITH:
			return append(stmts, p.parseWithStmt())
		}
		p.in.errorf(p.in.pos, "got %#v after async, want def, for, or with", p.tok)
	}
	return p.parseSimpleStmt(stmts, true)
}

// decorated = (AT test NEWLINE)+ (defstmt | classstmt)
func (p *parser) parseDecorated() Stmt {
	var decorators []Expr
	for p.tok == AT {
		p.nextToken()
		decorators = append(decorators, p.parseTest())
		if p.tok == NEWLINE {
			p.nextToken()
		}
	}
	if p.tok == ASYNC {
		p.nextToken()
	}
	switch p.tok {
	case DEF:
		return p.parseDefStmt(decorators)
	case CLASS:
		return p.parseClassStmt(decorators)
	}
	p.in.errorf(p.in.pos, "got %#v after decorators, want def or class", p.tok)
	panic("unreachable")
}

func (p *parser) parseDefStmt(decorators []Expr) Stmt {
	defpos := p.nextToken() // consume DEF
	id := p.parseIdent()
	p.consume(LPAREN)
	params := p.parseParams(RPAREN, true)
	p.consume(RPAREN)
	var returns Expr
	if p.tok == ARROW {
		p.nextToken()
		returns = p.parseTest()
	}
	body := p.parseSuite()
	return &DefStmt{
		Def:        defpos,
		Name:       id,
		Decorators: decorators,
		Function: Function{
			StartPos: defpos,
			Params:   params,
			Returns:  returns,
			Body:     body,
		},
	}
}

func (p *parser) parseClassStmt(decorators []Expr) Stmt {
	classpos := p.nextToken() // consume CLASS
	id := p.parseIdent()
	var bases []Expr
	if p.tok == LPAREN {
		p.nextToken()
		bases = p.parseArgs(RPAREN)
		p.consume(RPAREN)
	}
	body := p.parseSuite()
	return &ClassStmt{
		Class:      classpos,
		Name:       id,
		Bases:      bases,
		Decorators: decorators,
		Body:       body,
	}
}

func (p *parser) parseIfStmt() Stmt {
	ifpos := p.nextToken() // consume IF or ELIF
	cond := p.parseTest()
	body := p.parseSuite()
	ifStmt := &IfStmt{
		If:   ifpos,
		Cond: cond,
		True: body,
	}
	tail := ifStmt
	for p.tok == ELIF {
		elifpos := p.in.pos
		s := p.parseIfStmt().(*IfStmt)
		tail.ElsePos = elifpos
		tail.False = []Stmt{s}
		tail = s
	}
	if p.tok == ELSE {
		tail.ElsePos = p.nextToken() // consume ELSE
		tail.False = p.parseSuite()
	}
	return ifStmt
}

func (p *parser) parseForStmt() Stmt {
	forpos := p.nextToken() // consume FOR
	vars := p.parseForLoopVariables()
	p.consume(IN)
	x := p.parseExpr(false)
	body := p.parseSuite()
	stmt := &ForStmt{
		For:  forpos,
		Vars: vars,
		X:    x,
		Body: body,
	}
	if p.tok == ELSE {
		p.nextToken()
		stmt.Else = p.parseSuite()
	}
	return stmt
}

func (p *parser) parseWhileStmt() Stmt {
	whilepos := p.nextToken() // consume WHILE
	cond := p.parseTest()
	body := p.parseSuite()
	return &WhileStmt{
		While: whilepos,
		Cond:  cond,
		Body:  body,
	}
}

func (p *parser) parseTryStmt() Stmt {
	trypos := p.nextToken() // consume TRY
	body := p.parseSuite()
	stmt := &TryStmt{Try: trypos, Body: body}
	for p.tok == EXCEPT {
		clause := &ExceptClause{Except: p.nextToken()}
		if p.tok != COLON {
			clause.Type = p.parseTest()
			if p.tok == AS {
				p.nextToken()
				clause.As = p.parseIdent()
			}
		}
		clause.Body = p.parseSuite()
		stmt.Handlers = append(stmt.Handlers, clause)
	}
	if p.tok == ELSE {
		p.nextToken()
		stmt.Else = p.parseSuite()
	}
	if p.tok == FINALLY {
		p.nextToken()
		stmt.Finally = p.parseSuite()
	}
	if len(stmt.Handlers) == 0 && stmt.Finally == nil {
		p.in.error(trypos, "try statement must have at least one except or finally clause")
	}
	return stmt
}

func (p *parser) parseWithStmt() Stmt {
	withpos := p.nextToken() // consume WITH
	var items []*WithItem
	for {
		item := &WithItem{X: p.parseTest()}
		if p.tok == AS {
			p.nextToken()
			item.As = p.parseForLoopVariables()
		}
		items = append(items, item)
		if p.tok != COMMA {
			break
		}
		p.nextToken()
	}
	body := p.parseSuite()
	return &WithStmt{With: withpos, Items: items, Body: body}
}

// parseForLoopVariables parses "v in" in a for-loop or comprehension,
// or an "as" target. It is like parseExpr(false), but it avoids
// parseTest so that it does not consume IN as a binary operator, and
// it permits an unparenthesized tuple.
func (p *parser) parseForLoopVariables() Expr {
	v := p.parsePrimaryWithSuffix()
	if p.tok != COMMA {
		return v
	}
	list := []Expr{v}
	for p.tok == COMMA {
		p.nextToken()
		if p.tok == IN || p.tok == COLON {
			break
		}
		list = append(list, p.parsePrimaryWithSuffix())
	}
	return &TupleExpr{List: list}
}

// simple_stmt = small_stmt (SEMI small_stmt)* SEMI? NEWLINE
// In REPL mode, it does not consume the NEWLINE.
func (p *parser) parseSimpleStmt(stmts []Stmt, consumeNEWLINE bool) []Stmt {
	for {
		stmts = append(stmts, p.parseSmallStmt())
		if p.tok != SEMI {
			break
		}
		p.nextToken() // consume SEMI
		if p.tok == NEWLINE || p.tok == EOF {
			break
		}
	}
	// EOF without NEWLINE occurs in `if x: pass`, for example.
	if p.tok != EOF && consumeNEWLINE {
		p.consume(NEWLINE)
	}
	return stmts
}

// small_stmt = RETURN expr?
//            | PASS | BREAK | CONTINUE
//            | DEL primary_list
//            | IMPORT ... | FROM ...
//            | RAISE test (FROM test)?
//            | ASSERT test (COMMA test)?
//            | assign_stmt
//            | expr
func (p *parser) parseSmallStmt() Stmt {
	switch p.tok {
	case RETURN:
		pos := p.nextToken() // consume RETURN
		var result Expr
		if p.tok != EOF && p.tok != NEWLINE && p.tok != SEMI {
			result = p.parseExpr(false)
		}
		return &ReturnStmt{Return: pos, Result: result}

	case BREAK, CONTINUE, PASS:
		tok := p.tok
		pos := p.nextToken() // consume it
		return &BranchStmt{Token: tok, TokenPos: pos}

	case DEL:
		pos := p.nextToken() // consume DEL
		var list []Expr
		for {
			list = append(list, p.parsePrimaryWithSuffix())
			if p.tok != COMMA {
				break
			}
			p.nextToken()
		}
		return &DelStmt{Del: pos, List: list}

	case IMPORT:
		return p.parseImportStmt()

	case FROM:
		return p.parseFromImportStmt()

	case RAISE:
		pos := p.nextToken() // consume RAISE
		stmt := &RaiseStmt{Raise: pos}
		if p.tok != EOF && p.tok != NEWLINE && p.tok != SEMI {
			stmt.X = p.parseTest()
			if p.tok == FROM {
				p.nextToken()
				stmt.Cause = p.parseTest()
			}
		}
		return stmt

	case ASSERT:
		pos := p.nextToken() // consume ASSERT
		stmt := &AssertStmt{Assert: pos, Cond: p.parseTest()}
		if p.tok == COMMA {
			p.nextToken()
			stmt.Msg = p.parseTest()
		}
		return stmt
	}

	// Assignment
	x := p.parseExpr(false)
	switch p.tok {
	case EQ, PLUS_EQ, MINUS_EQ, STAR_EQ, SLASH_EQ, SLASHSLASH_EQ, PERCENT_EQ:
		op := p.tok
		pos := p.nextToken() // consume op
		rhs := p.parseExpr(false)
		if op == EQ && p.tok == EQ {
			// Chained assignment, a = b = c, binds a and b to c.
			// For analysis it is equivalent to a tuple of targets.
			targets := []Expr{x, rhs}
			for p.tok == EQ {
				p.nextToken()
				targets = append(targets, p.parseExpr(false))
			}
			rhs = targets[len(targets)-1]
			x = &TupleExpr{List: targets[:len(targets)-1]}
		}
		return &AssignStmt{OpPos: pos, Op: op, LHS: x, RHS: rhs}

	case COLON:
		// Annotated assignment: x: T = v, or bare declaration x: T.
		p.nextToken() // consume COLON
		ann := p.parseTest()
		stmt := &AssignStmt{Op: EQ, LHS: x, Annotation: ann}
		if p.tok == EQ {
			stmt.OpPos = p.nextToken()
			stmt.RHS = p.parseExpr(false)
		}
		return stmt
	}

	// Expression statement (e.g. function call).
	return &ExprStmt{X: x}
}

// import_stmt = IMPORT dotted_name (AS ident)? (COMMA dotted_name (AS ident)?)*
func (p *parser) parseImportStmt() Stmt {
	pos := p.nextToken() // consume IMPORT
	stmt := &ImportStmt{ImportPos: pos}
	for {
		name := &ImportName{PathPos: p.tokval.pos}
		name.Path = p.parseDottedName(false)
		if p.tok == AS {
			p.nextToken()
			name.As = p.parseIdent()
		}
		stmt.Names = append(stmt.Names, name)
		if p.tok != COMMA {
			break
		}
		p.nextToken()
	}
	return stmt
}

// from_import_stmt = FROM dotted_name IMPORT
//                    (STAR | import_names | LPAREN import_names RPAREN)
func (p *parser) parseFromImportStmt() Stmt {
	pos := p.nextToken() // consume FROM
	stmt := &ImportStmt{ImportPos: pos, FromPos: p.tokval.pos}
	stmt.From = p.parseDottedName(true)
	p.consume(IMPORT)

	if p.tok == STAR {
		starpos := p.nextToken()
		stmt.Names = []*ImportName{{Path: "*", PathPos: starpos}}
		return stmt
	}

	paren := false
	if p.tok == LPAREN {
		paren = true
		p.nextToken()
	}
	for {
		name := &ImportName{PathPos: p.tokval.pos}
		name.Path = p.parseIdent().Name
		if p.tok == AS {
			p.nextToken()
			name.As = p.parseIdent()
		}
		stmt.Names = append(stmt.Names, name)
		if p.tok != COMMA {
			break
		}
		p.nextToken()
		if paren && p.tok == RPAREN { // trailing comma
			break
		}
	}
	if paren {
		p.consume(RPAREN)
	}
	return stmt
}

// dotted_name = DOT* ident (DOT ident)*
// Leading dots (relative imports) are permitted only if relative is set.
func (p *parser) parseDottedName(relative bool) string {
	var buf strings.Builder
	for relative && p.tok == DOT {
		p.nextToken()
		buf.WriteByte('.')
	}
	if buf.Len() > 0 && p.tok != IDENT {
		// "from . import x"
		return buf.String()
	}
	buf.WriteString(p.parseIdent().Name)
	for p.tok == DOT {
		p.nextToken()
		buf.WriteByte('.')
		buf.WriteString(p.parseIdent().Name)
	}
	return buf.String()
}

// parseTest parses a 'test', a single-component expression.
func (p *parser) parseTest() Expr {
	if p.tok == LAMBDA {
		return p.parseLambda(true)
	}

	x := p.parseTestPrec(0)

	// conditional expression (t IF cond ELSE f)
	if p.tok == IF {
		ifpos := p.nextToken()
		cond := p.parseTestPrec(0)
		if p.tok != ELSE {
			p.in.error(ifpos, "conditional expression without else clause")
		}
		elsepos := p.nextToken()
		else_ := p.parseTest()
		return &CondExpr{If: ifpos, Cond: cond, True: x, ElsePos: elsepos, False: else_}
	}

	return x
}

// parseTestNoCond parses a a single-component expression without
// consuming a trailing 'if expr else expr'.
func (p *parser) parseTestNoCond() Expr {
	if p.tok == LAMBDA {
		return p.parseLambda(false)
	}
	return p.parseTestPrec(0)
}

// parseLambda parses a lambda expression.
// The allowCond flag allows the body to be an 'a if b else c' conditional.
func (p *parser) parseLambda(allowCond bool) Expr {
	lambda := p.nextToken() // consume LAMBDA
	var params []*Param
	if p.tok != COLON {
		params = p.parseParams(COLON, false)
	}
	p.consume(COLON)

	var body Expr
	if allowCond {
		body = p.parseTest()
	} else {
		body = p.parseTestNoCond()
	}

	return &LambdaExpr{
		Lambda: lambda,
		Function: Function{
			StartPos: lambda,
			Params:   params,
			Body:     []Stmt{&ReturnStmt{Result: body}},
		},
	}
}

func (p *parser) parseTestPrec(prec int) Expr {
	if prec >= len(preclevels) {
		return p.parseUnary()
	}

	// expr = NOT expr
	if p.tok == NOT && prec == int(precedence[NOT]) {
		pos := p.nextToken()
		x := p.parseTestPrec(prec)
		return &UnaryExpr{
			OpPos: pos,
			Op:    NOT,
			X:     x,
		}
	}

	return p.parseBinopExpr(prec)
}

// expr = test (OP test)*
// Uses precedence climbing; see http://www.engr.mun.ca/~theo/Misc/exp_parsing.htm#climbing.
func (p *parser) parseBinopExpr(prec int) Expr {
	x := p.parseTestPrec(prec + 1)
	for first := true; ; first = false {
		if p.tok == NOT {
			p.nextToken() // consume NOT
			// In this context, NOT must be followed by IN.
			// Replace NOT IN by a single NOT_IN token.
			if p.tok != IN {
				p.in.errorf(p.in.pos, "got %#v, want in", p.tok)
			}
			p.tok = NOT_IN
		}

		// Binary operator of specified precedence?
		opprec := int(precedence[p.tok])
		if opprec < prec {
			return x
		}

		// Comparisons are non-associative.
		if !first && opprec == int(precedence[EQL]) {
			p.in.errorf(p.in.pos, "%s does not associate with %s (use parens)",
				x.(*BinaryExpr).Op, p.tok)
		}

		op := p.tok
		pos := p.nextToken()
		if op == IS && p.tok == NOT {
			// "is not": negation is irrelevant to analysis;
			// keep the IS operator.
			p.nextToken()
		}
		y := p.parseTestPrec(opprec + 1)
		x = &BinaryExpr{OpPos: pos, Op: op, X: x, Y: y}
	}
}

// precedence maps each operator to its precedence (0-8), or -1 for other tokens.
var precedence [maxToken]int8

// preclevels groups operators of equal precedence.
// Comparisons are nonassociative; other binary operators associate
// to the left. Unary MINUS, unary PLUS, and TILDE have higher
// precedence so are handled in parsePrimary.
var preclevels = [...][]Token{
	{OR},                                   // or
	{AND},                                  // and
	{NOT},                                  // not (unary)
	{EQL, NEQ, LT, GT, LE, GE, IN, NOT_IN, IS}, // comparisons
	{PIPE},                                 // |
	{CIRCUMFLEX},                           // ^
	{AMP},                                  // &
	{LTLT, GTGT},                           // << >>
	{MINUS, PLUS},                          // -
	{STAR, PERCENT, SLASH, SLASHSLASH},     // * % / //
	{STARSTAR},                             // **
}

func init() {
	// populate precedence table
	for i := range precedence {
		precedence[i] = -1
	}
	for level, tokens := range preclevels {
		for _, tok := range tokens {
			precedence[tok] = int8(level)
		}
	}
}

// parseUnary parses a unary expression, or a primary with suffixes.
//
//	unary = PLUS primary
//	      | MINUS primary
//	      | TILDE primary
//	      | AWAIT primary
//	      | primary
func (p *parser) parseUnary() Expr {
	switch p.tok {
	case MINUS, PLUS, TILDE, AWAIT:
		tok := p.tok
		pos := p.nextToken()
		x := p.parseUnary()
		return &UnaryExpr{OpPos: pos, Op: tok, X: x}
	}
	return p.parsePrimaryWithSuffix()
}

// parsePrimaryWithSuffix parses a primary expression followed by
// a possibly empty sequence of suffixes: calls, selections, and
// indexing/slicing.
func (p *parser) parsePrimaryWithSuffix() Expr {
	x := p.parsePrimary()
	for {
		switch p.tok {
		case DOT:
			dot := p.nextToken()
			id := p.parseIdent()
			x = &DotExpr{Dot: dot, X: x, Name: id}
		case LBRACK:
			x = p.parseSliceSuffix(x)
		case LPAREN:
			x = p.parseCallSuffix(x)
		default:
			return x
		}
	}
}

// parseSliceSuffix parses an index or slice suffix: x[i] or x[lo:hi:step].
func (p *parser) parseSliceSuffix(x Expr) Expr {
	lbrack := p.nextToken()
	var lo, hi, step Expr
	if p.tok != COLON {
		y := p.parseExpr(false)

		// index x[y]
		if p.tok == RBRACK {
			rbrack := p.nextToken()
			return &IndexExpr{
				X:      x,
				Lbrack: lbrack,
				Y:      y,
				Rbrack: rbrack,
			}
		}

		lo = y
	}

	// slice or substring x[lo:hi:step]
	if p.tok == COLON {
		p.nextToken()
		if p.tok != COLON && p.tok != COMMA && p.tok != RBRACK {
			hi = p.parseTest()
		}
	}
	if p.tok == COLON {
		p.nextToken()
		if p.tok != RBRACK {
			step = p.parseTest()
		}
	}
	rbrack := p.consume(RBRACK)
	return &SliceExpr{
		X:      x,
		Lbrack: lbrack,
		Lo:     lo,
		Hi:     hi,
		Step:   step,
		Rbrack: rbrack,
	}
}

// parseCallSuffix parses a call suffix: x(args).
func (p *parser) parseCallSuffix(fn Expr) Expr {
	lparen := p.consume(LPAREN)
	var rparen Position
	var args []Expr
	if p.tok == RPAREN {
		rparen = p.nextToken()
	} else {
		args = p.parseArgs(RPAREN)
		rparen = p.consume(RPAREN)
	}
	return &CallExpr{
		Fn:     fn,
		Lparen: lparen,
		Args:   args,
		Rparen: rparen,
	}
}

// parseArgs parses a list of call arguments, which may include
// keyword arguments (name=value), *args, **kwargs, and a bare
// generator expression (f(x for x in y)).
func (p *parser) parseArgs(term Token) []Expr {
	var args []Expr
	for p.tok != term && p.tok != EOF {
		if len(args) > 0 {
			p.consume(COMMA)
		}
		if p.tok == term {
			break // allow trailing comma
		}

		// *args or **kwargs
		if p.tok == STAR || p.tok == STARSTAR {
			op := p.tok
			pos := p.nextToken()
			x := p.parseTest()
			args = append(args, &UnaryExpr{
				OpPos: pos,
				Op:    op,
				X:     x,
			})
			continue
		}

		x := p.parseTest()

		// keyword argument: name=value
		if p.tok == EQ {
			opPos := p.nextToken()
			y := p.parseTest()
			x = &BinaryExpr{
				X:     x,
				OpPos: opPos,
				Op:    EQ,
				Y:     y,
			}
		}

		// Bare generator expression: f(x for x in y).
		// The call's closing paren doubles as the generator's,
		// so the clauses are parsed here without consuming it.
		if len(args) == 0 && p.tok == FOR {
			var clauses []Node
			for p.tok == FOR || p.tok == IF {
				if p.tok == FOR {
					pos := p.nextToken()
					vars := p.parseForLoopVariables()
					in := p.consume(IN)
					clauses = append(clauses, &ForClause{For: pos, Vars: vars, In: in, X: p.parseTestNoCond()})
				} else {
					pos := p.nextToken()
					clauses = append(clauses, &IfClause{If: pos, Cond: p.parseTestNoCond()})
				}
			}
			args = append(args, &Comprehension{
				Kind:    LPAREN,
				Lbrack:  Start(x),
				Body:    x,
				Clauses: clauses,
				Rbrack:  p.tokval.pos,
			})
			break
		}

		args = append(args, x)
	}
	return args
}

// parseParams parses a parameter list terminated by term
// (RPAREN for def, COLON for lambda). Annotations (x: T) are
// permitted only if allowAnnotations is set, as a lambda's
// terminating colon would be ambiguous.
func (p *parser) parseParams(term Token, allowAnnotations bool) []*Param {
	var params []*Param
	for p.tok != term && p.tok != EOF {
		if len(params) > 0 {
			p.consume(COMMA)
		}
		if p.tok == term {
			break // allow trailing comma
		}

		param := new(Param)
		switch p.tok {
		case STAR, STARSTAR:
			param.Star = p.tok
			param.StarPos = p.nextToken()
			if p.tok == IDENT {
				param.Name = p.parseIdent()
			} else if param.Star == STARSTAR {
				p.in.errorf(p.in.pos, "got %#v, want identifier after **", p.tok)
			}
		default:
			param.Name = p.parseIdent()
			if allowAnnotations && p.tok == COLON {
				p.nextToken()
				param.Annotation = p.parseTest()
			}
		}
		if p.tok == EQ {
			p.nextToken()
			param.Default = p.parseTest()
		}
		params = append(params, param)
	}
	return params
}

// parsePrimary parses a primary expression:
//
//	primary = IDENT
//	        | INT | FLOAT | STRING
//	        | '[' ... ']'    list literal or comprehension
//	        | '(' ... ')'    tuple, grouping, or generator
//	        | '{' ... '}'    dict or set literal or comprehension
func (p *parser) parsePrimary() Expr {
	switch p.tok {
	case IDENT:
		return p.parseIdent()

	case INT, FLOAT, STRING:
		var val interface{}
		tok := p.tok
		switch tok {
		case INT:
			if p.tokval.bigInt != nil {
				val = p.tokval.bigInt
			} else {
				val = p.tokval.int
			}
		case FLOAT:
			val = p.tokval.float
		case STRING:
			val = p.tokval.string
		}
		raw := p.tokval.raw
		pos := p.nextToken()
		lit := &Literal{Token: tok, TokenPos: pos, Raw: raw, Value: val}
		// Adjacent string literals concatenate implicitly.
		for tok == STRING && p.tok == STRING {
			lit.Raw += " " + p.tokval.raw
			lit.Value = lit.Value.(string) + p.tokval.string
			p.nextToken()
		}
		return lit

	case LBRACK:
		return p.parseList()

	case LBRACE:
		return p.parseDict()

	case LPAREN:
		lparen := p.nextToken()
		if p.tok == RPAREN {
			// empty tuple
			rparen := p.nextToken()
			return &TupleExpr{Lparen: lparen, Rparen: rparen}
		}
		if p.tok == LAMBDA {
			x := p.parseLambda(true)
			p.consume(RPAREN)
			return x
		}
		x := p.parseExpr(true) // allow trailing comma
		if p.tok == FOR {
			// generator expression: (x for y in z)
			return p.parseComprehensionSuffix(lparen, LPAREN, x, RPAREN)
		}
		rparen := p.consume(RPAREN)
		if tuple, ok := x.(*TupleExpr); ok {
			tuple.Lparen = lparen
			tuple.Rparen = rparen
		}
		return x

	case MINUS, PLUS, TILDE, AWAIT:
		return p.parseUnary()
	}
	p.in.errorf(p.in.pos, "got %#v, want primary expression", p.tok)
	panic("unreachable")
}

// parseList parses a list literal or a list comprehension.
func (p *parser) parseList() Expr {
	lbrack := p.nextToken()
	if p.tok == RBRACK {
		// empty List
		rbrack := p.nextToken()
		return &ListExpr{Lbrack: lbrack, Rbrack: rbrack}
	}

	x := p.parseTest()

	if p.tok == FOR {
		// list comprehension
		return p.parseComprehensionSuffix(lbrack, LBRACK, x, RBRACK)
	}

	exprs := []Expr{x}
	if p.tok == COMMA {
		// multi-item list literal
		exprs = p.parseExprs(exprs, true) // allow trailing comma
	}

	rbrack := p.consume(RBRACK)
	return &ListExpr{Lbrack: lbrack, List: exprs, Rbrack: rbrack}
}

// parseDict parses a dict or set literal, or a dict or set comprehension.
func (p *parser) parseDict() Expr {
	lbrace := p.nextToken()
	if p.tok == RBRACE {
		// empty dict
		rbrace := p.nextToken()
		return &DictExpr{Lbrace: lbrace, Rbrace: rbrace}
	}

	x := p.parseTest()

	if p.tok == COLON {
		// dict literal or comprehension
		colon := p.nextToken()
		v := p.parseTest()
		entry := &DictEntry{Key: x, Colon: colon, Value: v}

		if p.tok == FOR {
			// dict comprehension
			return p.parseComprehensionSuffix(lbrace, LBRACE, entry, RBRACE)
		}

		entries := []Expr{entry}
		for p.tok == COMMA {
			p.nextToken()
			if p.tok == RBRACE {
				break
			}
			k := p.parseTest()
			colon := p.consume(COLON)
			v := p.parseTest()
			entries = append(entries, &DictEntry{Key: k, Colon: colon, Value: v})
		}
		rbrace := p.consume(RBRACE)
		return &DictExpr{Lbrace: lbrace, List: entries, Rbrace: rbrace}
	}

	if p.tok == FOR {
		// set comprehension
		return p.parseComprehensionSuffix(lbrace, LBRACE, x, RBRACE)
	}

	// set literal
	exprs := []Expr{x}
	if p.tok == COMMA {
		exprs = p.parseExprs(exprs, true) // allow trailing comma
	}
	rbrace := p.consume(RBRACE)
	return &SetExpr{Lbrace: lbrace, List: exprs, Rbrace: rbrace}
}

// parseComprehensionSuffix parses the suffix of a comprehension:
// one or more copies of 'for x in y' or 'if c', terminated by endBrace.
func (p *parser) parseComprehensionSuffix(lbrace Position, kind Token, body Expr, endBrace Token) Expr {
	var clauses []Node
	for p.tok != endBrace {
		if p.tok == FOR {
			pos := p.nextToken()
			vars := p.parseForLoopVariables()
			in := p.consume(IN)
			// Following the grammar, a for clause is followed by
			// an "or_test", not a "test", to avoid ambiguity with
			// the 'if' of an IfClause.
			x := p.parseTestNoCond()
			clauses = append(clauses, &ForClause{For: pos, Vars: vars, In: in, X: x})
		} else if p.tok == IF {
			pos := p.nextToken()
			cond := p.parseTestNoCond()
			clauses = append(clauses, &IfClause{If: pos, Cond: cond})
		} else {
			p.in.errorf(p.in.pos, "got %#v, want '%s', for, or if", p.tok, endBrace)
		}
	}
	rbrace := p.nextToken()

	return &Comprehension{
		Kind:    kind,
		Lbrack:  lbrace,
		Body:    body,
		Clauses: clauses,
		Rbrack:  rbrace,
	}
}

// parseExpr parses an expression, possible consisting of a
// comma-separated list of 'test' expressions (a tuple).
//
// In many cases we must use parseTest to avoid ambiguity such as
// f(x, y) vs. f((x, y)).
func (p *parser) parseExpr(inParens bool) Expr {
	x := p.parseTest()
	if p.tok != COMMA {
		return x
	}

	// tuple
	exprs := p.parseExprs([]Expr{x}, inParens)
	return &TupleExpr{List: exprs}
}

// parseExprs parses a comma-separated list of expressions, starting with the comma.
// It is used to parse tuples and list elements.
// expr_list = (',' expr)* ','?
func (p *parser) parseExprs(exprs []Expr, allowTrailingComma bool) []Expr {
	for p.tok == COMMA {
		pos := p.nextToken()
		if terminatesExprList(p.tok) {
			if !allowTrailingComma {
				p.in.error(pos, "unparenthesized tuple with trailing comma")
			}
			break
		}
		exprs = append(exprs, p.parseTest())
	}
	return exprs
}

func (p *parser) parseIdent() *Ident {
	if p.tok != IDENT {
		p.in.errorf(p.in.pos, "got %#v, want identifier", p.tok)
	}
	id := &Ident{
		NamePos: p.tokval.pos,
		Name:    p.tokval.raw,
	}
	p.nextToken()
	return id
}

func (p *parser) consume(t Token) Position {
	if p.tok != t {
		p.in.errorf(p.in.pos, "got %#v, want %#v", p.tok, t)
	}
	return p.nextToken()
}

// terminatesExprList reports whether tok terminates an expression list.
func terminatesExprList(tok Token) bool {
	switch tok {
	case EOF, NEWLINE, EQ, RBRACE, RBRACK, RPAREN, SEMI:
		return true
	}
	return false
}

// Comments may be attached in future; for now the parser checks
// that the scanner ends in a sane state.
func (p *parser) assertInitialState() {
	if p.in.depth != 0 {
		panic("unbalanced brackets at end of parse")
	}
}

// parseSuite parses a suite of statements: either a simple statement
// on the same line, or an indented block.
//
// suite = COLON (simple_stmt | NEWLINE INDENT stmt+ OUTDENT)
func (p *parser) parseSuite() []Stmt {
	p.consume(COLON)
	if p.tok == NEWLINE {
		p.nextToken() // consume NEWLINE
		p.consume(INDENT)
		var stmts []Stmt
		for p.tok != OUTDENT && p.tok != EOF {
			stmts = p.parseStmt(stmts)
		}
		p.consume(OUTDENT)
		return stmts
	}

	return p.parseSimpleStmt(nil, true)
}
