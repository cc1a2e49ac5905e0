package parser

import (
	"strconv"

	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/lexer"
)

// parseMember tries each member form in the order §4.1 specifies — op-def,
// let, fn, struct, type/native-type-def — and falls back to failedMemberP
// on total failure. Binary and unary op-defs share one parser here
// (parseOpDef): both begin with `op <name>(...)` and arity is read off the
// parsed parameter count rather than decided by trying two separate
// grammars, since Go's combinator `try` makes that speculative split
// unnecessary (see DESIGN.md).
func (p *Parser) parseMember() ast.Decl {
	doc := p.peekDoc()
	var decl ast.Decl
	switch {
	case p.peekTokenIs(lexer.OP):
		decl = p.parseOpDef()
	case p.peekTokenIs(lexer.LET):
		decl = p.parseLetDecl()
	case p.peekTokenIs(lexer.FN):
		decl = p.parseFnDecl()
	case p.peekTokenIs(lexer.STRUCT):
		decl = p.parseStructDecl()
	case p.peekTokenIs(lexer.TYPE):
		decl = p.parseTypeDecl()
	default:
		decl = p.failedMemberP()
	}
	attachDoc(decl, doc)
	return decl
}

func attachDoc(decl ast.Decl, doc *string) {
	if doc == nil {
		return
	}
	switch d := decl.(type) {
	case *ast.Bnd:
		d.Doc = doc
	case *ast.TypeStruct:
		d.Doc = doc
	case *ast.TypeDef:
		d.Doc = doc
	case *ast.TypeAlias:
		d.Doc = doc
	}
}

// failedMemberP recovers from a member the parser could not recognize by
// consuming up to the next member terminator (or EOF), recording the raw
// consumed text (§4.1).
func (p *Parser) failedMemberP() ast.Decl {
	start := p.peekSpan()
	var raw []byte
	for !p.peekTokenIs(lexer.SEMICOLON) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		raw = append(raw, p.curToken.Literal...)
		raw = append(raw, ' ')
	}
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return &ast.ParsingMemberError{
		BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, p.curSpan())},
		RawText:  string(raw),
		Message:  "could not parse member",
	}
}

// bindingIdOrError reads an identifier at a binding-name position,
// succeeding structurally even when the captured text is not a valid
// identifier (§4.1 "bindingIdOrError… succeed structurally but return
// Left(invalid)… enabling precise per-identifier errors rather than whole-
// member rejection"). Returns the valid name, or "" plus a *ast.ParsingIdError.
func (p *Parser) bindingIdOrError() (string, *ast.ParsingIdError) {
	if p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
		return p.curToken.Literal, nil
	}
	p.nextToken()
	return "", &ast.ParsingIdError{
		TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: p.curSpan()}},
		RawText:   p.curToken.Literal,
		Message:   "expected a binding name",
	}
}

// operatorIdOrError reads an identifier at an operator-name position: it
// accepts either a generic OPERATOR symbol run or a named IDENT operator
// like "and"/"or"/"not".
func (p *Parser) operatorIdOrError() (string, *ast.ParsingIdError) {
	if p.peekTokenIs(lexer.OPERATOR) || p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
		return p.curToken.Literal, nil
	}
	p.nextToken()
	return "", &ast.ParsingIdError{
		TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: p.curSpan()}},
		RawText:   p.curToken.Literal,
		Message:   "expected an operator symbol or name",
	}
}

// parseParamList parses `(p1: T1, ~p2: T2, ...)`, where a leading `~`
// marks a consuming parameter (§4.14.4).
func (p *Parser) parseParamList() []*ast.Param {
	p.nextToken() // consume LPAREN
	var params []*ast.Param
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}
	for {
		startSpan := p.peekSpan()
		consuming := false
		if p.peekTokenIs(lexer.OPERATOR) && p.peekToken.Literal == "~" {
			p.nextToken()
			consuming = true
		}
		if !p.expectPeek(lexer.IDENT) {
			break
		}
		name := p.curToken.Literal
		var typeAsc ast.Type
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			typeAsc = p.parseTypeSpec()
		}
		endSpan := p.curSpan()
		if typeAsc != nil {
			endSpan = typeAsc.Span()
		}
		params = append(params, &ast.Param{
			BaseNode: ast.BaseNode{SrcSpan: spanBetween(startSpan, endSpan)},
			Name:     name,
			TypeAsc:  typeAsc,
			Consuming: consuming,
		})
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RPAREN)
	return params
}

// parseLetDecl parses `let name [: Type] = body ;` at module scope.
func (p *Parser) parseLetDecl() ast.Decl {
	start := p.peekSpan()
	p.nextToken() // consume LET
	name, idErr := p.bindingIdOrError()
	if idErr != nil {
		p.skipToSemicolon()
		return &ast.InvalidMember{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, p.curSpan())}, Reason: idErr.Message}
	}
	var typeAsc ast.Type
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		typeAsc = p.parseTypeSpec()
	}
	if !p.expectPeek(lexer.DEFINE) {
		p.skipToSemicolon()
		return &ast.InvalidMember{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, p.curSpan())}, Reason: "expected '=' in let declaration"}
	}
	body := p.parseBody()
	p.expectPeek(lexer.SEMICOLON)
	return &ast.Bnd{
		BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, p.curSpan())},
		Name:     name,
		TypeAsc:  typeAsc,
		Body:     body,
	}
}

// parseFnDecl parses `fn name(params): RetType = body ;`, desugaring
// directly to a Bnd whose body is a Lambda (§4.1).
func (p *Parser) parseFnDecl() ast.Decl {
	start := p.peekSpan()
	p.nextToken() // consume FN
	name, idErr := p.bindingIdOrError()
	if idErr != nil {
		p.skipToSemicolon()
		return &ast.InvalidMember{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, p.curSpan())}, Reason: idErr.Message}
	}
	if !p.peekTokenIs(lexer.LPAREN) {
		p.skipToSemicolon()
		return &ast.InvalidMember{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, p.curSpan())}, Reason: "expected '(' after function name"}
	}
	params := p.parseParamList()
	var retType ast.Type
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		retType = p.parseTypeSpec()
	}
	if !p.expectPeek(lexer.DEFINE) {
		p.skipToSemicolon()
		return &ast.InvalidMember{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, p.curSpan())}, Reason: "expected '=' in function declaration"}
	}
	body := p.parseBody()
	end := p.curSpan()
	p.expectPeek(lexer.SEMICOLON)
	lam := &ast.Lambda{
		TypedBase:     ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, end)}},
		Params:        params,
		ReturnTypeAsc: retType,
		Body:          body,
	}
	return &ast.Bnd{
		BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, end)},
		Name:     name,
		Meta: &ast.BindingMeta{
			Origin:         ast.OriginFunction,
			Arity:          ast.ArityOf(len(params)),
			Precedence:     ast.DefaultPrecedence,
			Associativity:  ast.AssocLeft,
			OriginalName:   name,
			MangledName:    name,
		},
		Body: lam,
	}
}

// parseOpDef parses `op <symbol>(params): RetType [precedence] [assoc] =
// body ;`. Arity (unary vs binary) follows from the parsed parameter
// count; precedence/associativity default to 50/Left for binary, 50/Right
// for unary when omitted (§4.1).
func (p *Parser) parseOpDef() ast.Decl {
	start := p.peekSpan()
	p.nextToken() // consume OP
	symbol, idErr := p.operatorIdOrError()
	if idErr != nil {
		p.skipToSemicolon()
		return &ast.InvalidMember{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, p.curSpan())}, Reason: idErr.Message}
	}
	if !p.peekTokenIs(lexer.LPAREN) {
		p.skipToSemicolon()
		return &ast.InvalidMember{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, p.curSpan())}, Reason: "expected '(' after operator symbol"}
	}
	params := p.parseParamList()
	arity := ast.ArityOf(len(params))
	origin := ast.OriginOperator

	var retType ast.Type
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		retType = p.parseTypeSpec()
	}
	precedence := ast.DefaultPrecedence
	if p.peekTokenIs(lexer.INT) {
		p.nextToken()
		if v, err := strconv.Atoi(p.curToken.Literal); err == nil {
			precedence = v
		}
	}
	assoc := ast.DefaultAssociativity(origin, arity)
	if p.peekTokenIs(lexer.IDENT) && (p.peekToken.Literal == "left" || p.peekToken.Literal == "right") {
		p.nextToken()
		if p.curToken.Literal == "left" {
			assoc = ast.AssocLeft
		} else {
			assoc = ast.AssocRight
		}
	}
	if !p.expectPeek(lexer.DEFINE) {
		p.skipToSemicolon()
		return &ast.InvalidMember{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, p.curSpan())}, Reason: "expected '=' in operator declaration"}
	}
	body := p.parseBody()
	end := p.curSpan()
	p.expectPeek(lexer.SEMICOLON)
	mangled := mangleOperatorName(symbol, arity.Count())
	lam := &ast.Lambda{
		TypedBase:     ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, end)}},
		Params:        params,
		ReturnTypeAsc: retType,
		Body:          body,
	}
	return &ast.Bnd{
		BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, end)},
		Name:     mangled,
		Meta: &ast.BindingMeta{
			Origin:        origin,
			Arity:         arity,
			Precedence:    precedence,
			Associativity: assoc,
			OriginalName:  symbol,
			MangledName:   mangled,
		},
		Body: lam,
	}
}

// parseStructDecl parses `struct Name { f1: T1, f2: T2, … } ;`.
func (p *Parser) parseStructDecl() ast.Decl {
	start := p.peekSpan()
	p.nextToken() // consume STRUCT
	if !p.expectPeek(lexer.IDENT) {
		p.skipToSemicolon()
		return &ast.InvalidMember{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, p.curSpan())}, Reason: "expected a struct name"}
	}
	name := p.curToken.Literal
	if !p.peekTokenIs(lexer.LBRACE) {
		p.skipToSemicolon()
		return &ast.InvalidMember{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, p.curSpan())}, Reason: "expected '{' after struct name"}
	}
	fields := p.parseNativeStructFields()
	end := p.curSpan()
	p.expectPeek(lexer.SEMICOLON)
	return &ast.TypeStruct{
		BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, end)},
		Name:     name,
		Fields:   fields,
	}
}

// parseTypeDecl parses `type Name = <typeSpec> ;`. The resulting
// declaration is a TypeDef when the right-hand side is a native
// (primitive/pointer/struct) type — the native-type-def member — or a
// TypeAlias for any other type expression (§3 distinguishes TypeDef from
// TypeAlias; the grammar for both is identical, so the distinction is made
// from the parsed right-hand side's shape — see DESIGN.md).
func (p *Parser) parseTypeDecl() ast.Decl {
	start := p.peekSpan()
	p.nextToken() // consume TYPE
	if !p.expectPeek(lexer.IDENT) {
		p.skipToSemicolon()
		return &ast.InvalidMember{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, p.curSpan())}, Reason: "expected a type name"}
	}
	name := p.curToken.Literal
	if !p.expectPeek(lexer.DEFINE) {
		p.skipToSemicolon()
		return &ast.InvalidMember{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, p.curSpan())}, Reason: "expected '=' in type declaration"}
	}
	rhs := p.parseTypeSpec()
	end := p.curSpan()
	p.expectPeek(lexer.SEMICOLON)
	switch rhs.(type) {
	case *ast.NativePrimitive, *ast.NativePointer, *ast.NativeStruct:
		return &ast.TypeDef{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, end)}, Name: name, Typ: rhs}
	default:
		return &ast.TypeAlias{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, end)}, Name: name, Target: rhs}
	}
}

func (p *Parser) skipToSemicolon() {
	for !p.peekTokenIs(lexer.SEMICOLON) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
	}
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
}
