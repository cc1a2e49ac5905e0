package ast

import (
	"strconv"
	"strings"
)

// symbolTokens maps each operator-charset rune to its mangled token name
// (§4.1 "Operator names are mangled… using a deterministic scheme of
// symbol→token"). Multi-character operators mangle rune-by-rune, e.g.
// "<=" → "lt_eq", "::" → "colon_colon". Lives here (rather than in the
// parser, which is its only first caller) so Standard Library Injection
// can mangle prelude operator names with the exact same scheme without
// depending on the parser package.
var symbolTokens = map[rune]string{
	'+': "plus",
	'-': "minus",
	'*': "mul",
	'/': "div",
	'%': "mod",
	'=': "eq",
	'<': "lt",
	'>': "gt",
	'!': "bang",
	'&': "amp",
	'|': "pipe",
	'^': "caret",
	'~': "tilde",
	':': "colon",
	'.': "dot",
}

// MangleOperatorName turns a raw operator symbol (or a named operator like
// "and") plus its arity into the declaration's mangled binding name,
// `op.<mangled>.<arity>` — `*(a,b)` → "op.mul.2", unary `-(a)` →
// "op.minus.1" (§4.1: "op *(a,b): Int 80 left = … yields Bnd(name=
// \"op.mul.2\", …)"). A named operator (letters, e.g. "and") mangles to
// itself.
func MangleOperatorName(symbol string, arity int) string {
	var mangled string
	if isNamedOperator(symbol) {
		mangled = symbol
	} else {
		parts := make([]string, 0, len(symbol))
		for _, r := range symbol {
			tok, ok := symbolTokens[r]
			if !ok {
				tok = string(r)
			}
			parts = append(parts, tok)
		}
		mangled = strings.Join(parts, "_")
	}
	return "op." + mangled + "." + strconv.Itoa(arity)
}

func isNamedOperator(symbol string) bool {
	for _, r := range symbol {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_') {
			return false
		}
	}
	return len(symbol) > 0
}
