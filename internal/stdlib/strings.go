package stdlib

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// stringCollator orders String operands the same way for every compile-time
// fold of str_compare: a single language.Und collator, built once, avoids
// re-resolving a locale table per comparison.
var stringCollator = collate.New(language.Und)

// NormalizeNFC applies Unicode canonical composition before comparing two
// String operands, so `str_eq` treats a precomposed and a decomposed
// spelling of the same character as equal — the prelude's native String is
// just a length-prefixed byte buffer (§6.3 heapStructDef("String", ...)) and
// carries no normalization form of its own.
func NormalizeNFC(s string) string {
	return norm.NFC.String(s)
}

// StringEqual reports whether two String operands are equal under NFC
// normalization, the semantics the Simplifier's foldStringCall gives a compile-time
// `str_eq` call over two literals.
func StringEqual(a, b string) bool {
	return NormalizeNFC(a) == NormalizeNFC(b)
}

// LocaleCompare orders two strings the way `str_compare` orders them at
// runtime: by collation key rather than by raw byte value, so e.g.
// "a" sorts before "B" as a human reader expects instead of by ASCII code
// point. Returns -1, 0, or 1.
func LocaleCompare(a, b string) int {
	return stringCollator.CompareString(a, b)
}
