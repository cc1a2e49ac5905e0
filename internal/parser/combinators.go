package parser

import "github.com/mml-lang/mmlc/internal/lexer"

// ParserFunc is a combinator-style parse step that reports success/failure
// without a typed result, mirroring the teacher's combinator shapes in
// internal/parser/combinators.go.
type ParserFunc func() bool

// Optional consumes the peek token if it matches tokenType, returning
// whether it did.
func (p *Parser) Optional(tokenType lexer.TokenType) bool {
	if p.peekTokenIs(tokenType) {
		p.nextToken()
		return true
	}
	return false
}

// Choice consumes the peek token if it matches any of tokenTypes.
func (p *Parser) Choice(tokenTypes ...lexer.TokenType) bool {
	for _, tt := range tokenTypes {
		if p.peekTokenIs(tt) {
			p.nextToken()
			return true
		}
	}
	return false
}

// Many repeatedly applies parseFn until it returns false.
func (p *Parser) Many(parseFn ParserFunc) int {
	count := 0
	for parseFn() {
		count++
	}
	return count
}

// Many1 applies parseFn one or more times; returns 0 if it fails immediately.
func (p *Parser) Many1(parseFn ParserFunc) int {
	if !parseFn() {
		return 0
	}
	count := 1
	for parseFn() {
		count++
	}
	return count
}

// ManyUntil applies parseFn until the peek token is terminator or EOF.
func (p *Parser) ManyUntil(terminator lexer.TokenType, parseFn ParserFunc) int {
	count := 0
	for !p.peekTokenIs(terminator) && !p.peekTokenIs(lexer.EOF) {
		if !parseFn() {
			break
		}
		count++
	}
	return count
}

// Between expects opening as the peek token, runs parseFn, then expects
// closing. Returns false (and leaves the cursor at the failure point) if
// either delimiter is missing or parseFn fails.
func (p *Parser) Between(opening, closing lexer.TokenType, parseFn func() bool) bool {
	if !p.expectPeek(opening) {
		return false
	}
	if !parseFn() {
		return false
	}
	return p.expectPeek(closing)
}

// SeparatorConfig configures SeparatedList.
type SeparatorConfig struct {
	Sep           lexer.TokenType
	Term          lexer.TokenType
	ParseItem     ParserFunc
	AllowEmpty    bool
	AllowTrailing bool
}

// SeparatedList parses Sep-delimited items until Term, consuming Term.
// Returns the item count, or -1 on a structural failure.
func (p *Parser) SeparatedList(cfg SeparatorConfig) int {
	if cfg.AllowEmpty && p.peekTokenIs(cfg.Term) {
		p.nextToken()
		return 0
	}
	count := 0
	for {
		if !cfg.ParseItem() {
			return -1
		}
		count++
		if p.peekTokenIs(cfg.Sep) {
			p.nextToken()
			if cfg.AllowTrailing && p.peekTokenIs(cfg.Term) {
				p.nextToken()
				return count
			}
			continue
		}
		break
	}
	if !p.expectPeek(cfg.Term) {
		return -1
	}
	return count
}

// try runs fn from a marked cursor position; if fn fails (returns false) the
// cursor is rewound so the caller can attempt a different member parser.
func (p *Parser) try(fn func() bool) bool {
	mark := p.mark()
	cur, peek := p.curToken, p.peekToken
	if fn() {
		return true
	}
	p.reset(mark)
	p.curToken, p.peekToken = cur, peek
	return false
}
