package parser

import (
	"strconv"

	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/lexer"
)

// atTermStop reports whether the peek token ends a flat term sequence: the
// member terminator and EOF always do, plus any caller-supplied stop tokens.
// A Cond's test/then/else sub-sequences additionally stop at THEN/ELIF/ELSE.
func (p *Parser) atTermStop(extra ...lexer.TokenType) bool {
	if p.peekTokenIs(lexer.SEMICOLON) || p.peekTokenIs(lexer.EOF) {
		return true
	}
	for _, t := range extra {
		if p.peekTokenIs(t) {
			return true
		}
	}
	return false
}

// parseExprUntil parses a flat sequence of terms (§4.1 "parsed as a flat
// sequence of terms… operator fixity and precedence are not resolved at
// parse time") until a stop token, SEMICOLON, or EOF. Produces an Expr even
// for a single term; the Simplifier later collapses single-term Exprs.
func (p *Parser) parseExprUntil(stop ...lexer.TokenType) *ast.Expr {
	startSpan := p.peekSpan()
	var terms []ast.Term
	for !p.atTermStop(stop...) {
		t := p.parseTerm()
		if t == nil {
			break
		}
		terms = append(terms, t)
	}
	endSpan := startSpan
	if len(terms) > 0 {
		endSpan = terms[len(terms)-1].Span()
	}
	return &ast.Expr{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: spanBetween(startSpan, endSpan)}}, Terms: terms}
}

// parseBody parses a function/operator/let body: zero or more local
// `let name [: Type] = rhs ;` bindings desugared as immediately-invoked
// Lambdas, followed by a final flat term sequence. Local lets are sugar,
// not a distinct AST node: `let x = e1; rest` becomes
// `App(Lambda([Param x], rest), Expr(e1))`, matching §4.14.3's description
// of a function body as "a sequence of let-bindings culminating in a body
// expression" without inventing a Let term the data model (§3) never lists.
func (p *Parser) parseBody() ast.Term {
	if p.peekTokenIs(lexer.LET) {
		letSpan := p.peekSpan()
		p.nextToken() // consume LET
		if !p.expectPeek(lexer.IDENT) {
			return p.failTerm(letSpan, "expected binding name after 'let'")
		}
		name := p.curToken.Literal
		nameSpan := p.curSpan()
		var typeAsc ast.Type
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			typeAsc = p.parseTypeSpec()
		}
		if !p.expectPeek(lexer.DEFINE) {
			return p.failTerm(letSpan, "expected '=' in let binding")
		}
		rhs := p.parseExprUntil()
		if !p.expectPeek(lexer.SEMICOLON) {
			return p.failTerm(letSpan, "expected ';' after let binding")
		}
		rest := p.parseBody()
		param := &ast.Param{BaseNode: ast.BaseNode{SrcSpan: nameSpan}, Name: name, TypeAsc: typeAsc}
		lam := &ast.Lambda{
			TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: spanBetween(letSpan, rest.Span())}},
			Params:    []*ast.Param{param},
			Body:      rest,
		}
		return &ast.App{
			TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: lam.SrcSpan}},
			Fn:        lam,
			Arg:       rhs,
		}
	}
	return p.parseExprUntil()
}

func (p *Parser) failTerm(span ast.SrcSpan, msg string) ast.Term {
	return &ast.TermError{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, RawText: p.curToken.Literal, Message: msg}
}

// parseTerm recognizes a single term: a literal, reference, parenthesized
// group/tuple, conditional, placeholder, hole, or @native marker — then
// applies any trailing `.field` selections (§3 FieldAccess note in term.go).
func (p *Parser) parseTerm() ast.Term {
	var t ast.Term
	switch p.peekToken.Type {
	case lexer.INT:
		p.nextToken()
		v, _ := strconv.ParseInt(p.curToken.Literal, 10, 64)
		t = &ast.IntLit{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: p.curSpan()}}, Value: v}
	case lexer.FLOAT:
		p.nextToken()
		v, _ := strconv.ParseFloat(p.curToken.Literal, 64)
		t = &ast.FloatLit{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: p.curSpan()}}, Value: v}
	case lexer.STRING:
		p.nextToken()
		t = &ast.StringLit{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: p.curSpan()}}, Value: p.curToken.Literal}
	case lexer.TRUE:
		p.nextToken()
		t = &ast.BoolLit{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: p.curSpan()}}, Value: true}
	case lexer.FALSE:
		p.nextToken()
		t = &ast.BoolLit{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: p.curSpan()}}, Value: false}
	case lexer.PLACEHOLDER:
		p.nextToken()
		t = &ast.Placeholder{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: p.curSpan()}}}
	case lexer.HOLE:
		p.nextToken()
		t = &ast.Hole{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: p.curSpan()}}}
	case lexer.IDENT, lexer.OPERATOR:
		p.nextToken()
		t = &ast.Ref{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: p.curSpan()}}, Name: p.curToken.Literal}
	case lexer.IF:
		t = p.parseCond()
	case lexer.LPAREN:
		t = p.parseParenOrTuple()
	case lexer.AT:
		t = p.parseNativeImplTerm()
	default:
		p.nextToken()
		t = &ast.TermError{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: p.curSpan()}}, RawText: p.curToken.Literal, Message: "unrecognized term"}
	}
	for p.peekTokenIs(lexer.DOT) {
		p.nextToken() // consume DOT
		if !p.expectPeek(lexer.IDENT) {
			t = &ast.TermError{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: p.curSpan()}}, RawText: p.curToken.Literal, Message: "expected field name after '.'"}
			continue
		}
		t = &ast.FieldAccess{
			TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: spanBetween(t.Span(), p.curSpan())}},
			Target:    t,
			Field:     p.curToken.Literal,
		}
	}
	return t
}

// parseParenOrTuple parses `(expr)` as a TermGroup or `(e1, e2, …)` as a
// Tuple. Unit `()` is its own literal.
func (p *Parser) parseParenOrTuple() ast.Term {
	openSpan := p.peekSpan()
	p.nextToken() // consume LPAREN
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return &ast.UnitLit{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: spanBetween(openSpan, p.curSpan())}}}
	}
	first := p.parseExprUntil(lexer.RPAREN, lexer.COMMA)
	if p.peekTokenIs(lexer.COMMA) {
		elems := []ast.Term{unwrapSingle(first)}
		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			elems = append(elems, unwrapSingle(p.parseExprUntil(lexer.RPAREN, lexer.COMMA)))
		}
		if !p.expectPeek(lexer.RPAREN) {
			return p.failTerm(openSpan, "expected ')' to close tuple")
		}
		return &ast.Tuple{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: spanBetween(openSpan, p.curSpan())}}, Elements: elems}
	}
	if !p.expectPeek(lexer.RPAREN) {
		return p.failTerm(openSpan, "expected ')'")
	}
	return &ast.TermGroup{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: spanBetween(openSpan, p.curSpan())}}, Inner: first}
}

func unwrapSingle(e *ast.Expr) ast.Term {
	if len(e.Terms) == 1 {
		return e.Terms[0]
	}
	return e
}

// parseCond parses `if test then thenExpr (elif test then thenExpr)* else elseExpr`.
func (p *Parser) parseCond() ast.Term {
	startSpan := p.peekSpan()
	p.nextToken() // consume IF
	var cases []ast.CondCase
	for {
		test := p.parseExprUntil(lexer.THEN)
		if !p.expectPeek(lexer.THEN) {
			return p.failTerm(startSpan, "expected 'then'")
		}
		then := p.parseExprUntil(lexer.ELIF, lexer.ELSE)
		cases = append(cases, ast.CondCase{Test: unwrapSingle(test), Then: unwrapSingle(then)})
		if p.peekTokenIs(lexer.ELIF) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(lexer.ELSE) {
		return p.failTerm(startSpan, "expected 'else'")
	}
	elseExpr := p.parseExprUntil()
	return &ast.Cond{
		TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: spanBetween(startSpan, p.curSpan())}},
		Cases:     cases,
		Else:      unwrapSingle(elseExpr),
	}
}

// parseNativeImplTerm parses an `@native[...]` body marker appearing where a
// term is expected (an external/template function body). The bracketed
// content is kept as raw template text; substitution placeholders
// (%result, %type, %operand) are interpreted by the back end, not here.
func (p *Parser) parseNativeImplTerm() ast.Term {
	startSpan := p.peekSpan()
	p.nextToken() // consume AT
	if !p.expectPeek(lexer.IDENT) || p.curToken.Literal != "native" {
		return p.failTerm(startSpan, "expected 'native' after '@'")
	}
	template := ""
	var mem *ast.MemEffect
	if p.peekTokenIs(lexer.LBRACKET) {
		template, mem = p.parseBracketAttrs()
	}
	return &ast.NativeImpl{
		TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: spanBetween(startSpan, p.curSpan())}},
		Template:  template,
		MemEffect: mem,
	}
}

// parseBracketAttrs parses `[k=v, k2=v2, ...]` attribute lists used by both
// @native term markers and @native type annotations, returning the raw
// template text (if a `t=` entry is present) and a MemEffect (if `mem=`
// is present).
func (p *Parser) parseBracketAttrs() (string, *ast.MemEffect) {
	p.nextToken() // consume LBRACKET
	var template string
	var mem *ast.MemEffect
	for {
		key := p.collectAttrToken()
		if !p.expectPeek(lexer.DEFINE) {
			break
		}
		val := p.collectAttrValue()
		switch key {
		case "t":
			template = val
		case "mem":
			if val == "heap" {
				m := ast.MemEffectAlloc
				mem = &m
			} else {
				m := ast.MemEffectStatic
				mem = &m
			}
		}
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RBRACKET)
	return template, mem
}

// collectAttrToken consumes and stringifies a single attribute key token.
func (p *Parser) collectAttrToken() string {
	p.nextToken()
	return p.curToken.Literal
}

// collectAttrValue consumes one or more adjacent tokens forming an
// attribute value and concatenates their literal text, so that an LLVM
// pointer type like `*i8` (lexed as OPERATOR "*" then IDENT "i8") reads
// back as a single string.
func (p *Parser) collectAttrValue() string {
	out := ""
	for !p.peekTokenIs(lexer.COMMA) && !p.peekTokenIs(lexer.RBRACKET) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		out += p.curToken.Literal
	}
	return out
}
