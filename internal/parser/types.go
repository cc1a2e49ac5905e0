package parser

import (
	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/lexer"
)

// parseTypeSpec parses a chain of type atoms separated by `->`, grouping
// with `(...)` (§4.1 "typeSpecP parses a chain of type atoms separated by
// ->"). `A -> B -> C` right-associates into TypeFn([A, B], C).
func (p *Parser) parseTypeSpec() ast.Type {
	first := p.parseTypeAtom()
	if !p.peekTokenIs(lexer.ARROW) {
		return first
	}
	var chain []ast.Type
	chain = append(chain, first)
	for p.peekTokenIs(lexer.ARROW) {
		p.nextToken()
		chain = append(chain, p.parseTypeAtom())
	}
	ret := chain[len(chain)-1]
	params := chain[:len(chain)-1]
	return &ast.TypeFn{
		TypeBase:   ast.TypeBase{BaseNode: ast.BaseNode{SrcSpan: spanBetween(first.Span(), ret.Span())}},
		ParamTypes: params,
		ReturnType: ret,
	}
}

// parseTypeAtom parses one type atom: a parenthesized type spec (possibly a
// tuple type), a named type reference, or an `@native` annotation form.
func (p *Parser) parseTypeAtom() ast.Type {
	switch p.peekToken.Type {
	case lexer.LPAREN:
		start := p.peekSpan()
		p.nextToken()
		first := p.parseTypeSpec()
		if p.peekTokenIs(lexer.COMMA) {
			elems := []ast.Type{first}
			for p.peekTokenIs(lexer.COMMA) {
				p.nextToken()
				elems = append(elems, p.parseTypeSpec())
			}
			p.expectPeek(lexer.RPAREN)
			return &ast.TypeTuple{TypeBase: ast.TypeBase{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, p.curSpan())}}, Elements: elems}
		}
		p.expectPeek(lexer.RPAREN)
		return first
	case lexer.AT:
		return p.parseNativeType()
	case lexer.IDENT:
		p.nextToken()
		return &ast.TypeRef{TypeBase: ast.TypeBase{BaseNode: ast.BaseNode{SrcSpan: p.curSpan()}}, Name: p.curToken.Literal}
	default:
		p.nextToken()
		return &ast.InvalidType{TypeBase: ast.TypeBase{BaseNode: ast.BaseNode{SrcSpan: p.curSpan()}}, Reason: "expected a type"}
	}
}

// parseNativeType parses one of the three `@native` annotation forms
// (§4.1): `@native[t=<llvm>]`, `@native[t=*<llvm>]`, `@native[mem=heap]`
// (a primitive/pointer native type, optionally heap-tagged), or
// `@native { f1: T1, … }` with an optional leading `[mem=heap]`.
func (p *Parser) parseNativeType() ast.Type {
	start := p.peekSpan()
	p.nextToken() // consume AT
	if !p.expectPeek(lexer.IDENT) || p.curToken.Literal != "native" {
		return &ast.InvalidType{TypeBase: ast.TypeBase{BaseNode: ast.BaseNode{SrcSpan: p.curSpan()}}, Reason: "expected 'native' after '@'"}
	}
	var mem *ast.MemEffect
	if p.peekTokenIs(lexer.LBRACKET) {
		// Could be a bracket-only form (@native[t=...] / @native[mem=heap])
		// or a leading mem attribute before a struct body. Peek past the
		// bracket to decide.
		if p.lbracketPrecedesStructBody() {
			mem = p.parseLeadingMemAttr()
		} else {
			llvm, m := p.parseBracketAttrs()
			mem = m
			if len(llvm) > 0 && llvm[0] == '*' {
				return &ast.NativePointer{TypeBase: ast.TypeBase{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, p.curSpan())}}, LLVMType: llvm[1:], MemEffect: mem}
			}
			return &ast.NativePrimitive{TypeBase: ast.TypeBase{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, p.curSpan())}}, LLVMType: llvm, MemEffect: mem}
		}
	}
	if p.peekTokenIs(lexer.LBRACE) {
		fields := p.parseNativeStructFields()
		return &ast.NativeStruct{TypeBase: ast.TypeBase{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, p.curSpan())}}, Fields: fields, MemEffect: mem}
	}
	return &ast.InvalidType{TypeBase: ast.TypeBase{BaseNode: ast.BaseNode{SrcSpan: spanBetween(start, p.curSpan())}}, Reason: "expected '[' or '{' after '@native'"}
}

// lbracketPrecedesStructBody reports whether the upcoming `[...]` is a
// leading `[mem=heap]` attribute followed by a `{ ... }` struct body,
// versus a standalone `[t=...]`/`[mem=...]` primitive/pointer annotation.
// Scans the pre-lexed token slice without consuming.
func (p *Parser) lbracketPrecedesStructBody() bool {
	depth := 0
	for i := p.pos - 1; i < len(p.tokens); i++ {
		switch p.tokens[i].tok.Type {
		case lexer.LBRACKET:
			depth++
		case lexer.RBRACKET:
			depth--
			if depth == 0 {
				if i+1 < len(p.tokens) {
					return p.tokens[i+1].tok.Type == lexer.LBRACE
				}
				return false
			}
		}
	}
	return false
}

func (p *Parser) parseLeadingMemAttr() *ast.MemEffect {
	_, mem := p.parseBracketAttrs()
	return mem
}

// parseNativeStructFields parses `{ f1: T1, f2: T2, ... }`.
func (p *Parser) parseNativeStructFields() []*ast.Field {
	p.nextToken() // consume LBRACE
	var fields []*ast.Field
	if p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		return fields
	}
	for {
		if !p.expectPeek(lexer.IDENT) {
			break
		}
		nameSpan := p.curSpan()
		name := p.curToken.Literal
		if !p.expectPeek(lexer.COLON) {
			break
		}
		typ := p.parseTypeSpec()
		fields = append(fields, &ast.Field{BaseNode: ast.BaseNode{SrcSpan: spanBetween(nameSpan, typ.Span())}, Name: name, TypeAsc: typ})
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RBRACE)
	return fields
}
