// Package parser implements MinnieML's flat, backtracking, recovering
// parser (§4.1). Unlike a classic single-token-lookahead descent parser, the
// cursor here holds the entire pre-lexed token stream so combinators can
// save a position and roll back to it when a tentative parse fails —
// needed because top-level members are tried in an ordered sequence
// (binary op-def, unary op-def, let, fn, struct, type-alias, native type
// def) and only the first that matches should consume anything.
package parser

import (
	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/lexer"
)

// tokenInfo pairs a lexed token with any doc comment immediately preceding
// it, captured at lex time so the parser never has to re-derive it.
type tokenInfo struct {
	tok lexer.Token
	doc *string
}

func tokenize(input string) []tokenInfo {
	lx := lexer.New(input)
	var out []tokenInfo
	for {
		tok := lx.Next()
		doc := lx.TakePendingDoc()
		out = append(out, tokenInfo{tok: tok, doc: doc})
		if tok.Type == lexer.EOF {
			break
		}
	}
	return out
}

// Parser holds the pre-lexed token stream and a cursor position. peekToken
// is tokens[pos-1] and curToken is tokens[pos-2]: nextToken reads
// tokens[pos] into peekToken and then advances pos. Mirrors the
// teacher's curToken/peekToken pair, generalized with mark/reset so members
// can be tried and abandoned without re-lexing.
type Parser struct {
	tokens []tokenInfo
	pos    int // one past the index of peekToken

	curToken  lexer.Token
	peekToken lexer.Token

	moduleName string
	source     *ast.SourceInfo

	errors []string // internal diagnostics; never surfaced as Go errors (§ "error-accumulating")
}

// New creates a parser over source text for the named module.
func New(moduleName, sourceText string) *Parser {
	p := &Parser{
		tokens:     tokenize(sourceText),
		moduleName: moduleName,
		source:     ast.NewSourceInfo(moduleName, sourceText),
	}
	// A single nextToken() leaves curToken as the EOF-valued zero sentinel
	// ("nothing consumed yet") and peekToken as the first real token. Every
	// parse function below tests peekTokenIs(...) for the upcoming token
	// and calls nextToken() to consume it into curToken — so the cursor
	// must start with the first token already in peek position, not
	// already consumed into curToken.
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos].tok
		p.pos++
	} else {
		p.peekToken = lexer.Token{Type: lexer.EOF}
	}
}

// mark returns a cursor snapshot that reset can later restore to.
func (p *Parser) mark() int { return p.pos }

// reset rewinds the parser to a previously marked position. pos is the
// value recorded by mark(), one past the peek-token index; curToken/peekToken are rebuilt from
// the underlying token slice.
func (p *Parser) reset(pos int) {
	p.pos = pos
	if p.pos >= 2 {
		p.curToken = p.tokens[p.pos-2].tok
	} else {
		p.curToken = lexer.Token{Type: lexer.EOF}
	}
	if p.pos-1 < len(p.tokens) {
		p.peekToken = p.tokens[p.pos-1].tok
	} else {
		p.peekToken = lexer.Token{Type: lexer.EOF}
	}
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

// expectPeek consumes the peek token if it matches, else leaves state
// untouched and reports failure to the caller.
func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	return false
}

// peekDoc returns the doc comment (if any) attached to the peek token.
func (p *Parser) peekDoc() *string {
	if p.pos-1 >= 0 && p.pos-1 < len(p.tokens) {
		return p.tokens[p.pos-1].doc
	}
	return nil
}

func (p *Parser) curSpan() ast.SrcSpan {
	return spanOf(p.curToken)
}

func (p *Parser) peekSpan() ast.SrcSpan {
	return spanOf(p.peekToken)
}

func spanOf(t lexer.Token) ast.SrcSpan {
	start := ast.SrcPoint{Line: t.Pos.Line, Col: t.Pos.Column, Index: t.Pos.Offset}
	end := ast.SrcPoint{Line: t.Pos.Line, Col: t.Pos.Column + len(t.Literal), Index: t.Pos.Offset + len(t.Literal)}
	return ast.NewSpan(start, end)
}

func spanBetween(a, b ast.SrcSpan) ast.SrcSpan {
	return ast.NewSpan(a.Start, b.End)
}
