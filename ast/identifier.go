package ast

import "unicode"

// identifierCategories are the Unicode general categories a key identifier
// rune may belong to, besides letters/digits/underscore, per spec.md §3:
// "Unicode letters, symbols in categories L/So/Sm/No/Sk/Po excluding
// reserved operator codepoints, digits, underscore".
var identifierCategories = []*unicode.RangeTable{
	unicode.So, // Symbol, other
	unicode.Sm, // Symbol, math
	unicode.No, // Number, other
	unicode.Sk, // Symbol, modifier
	unicode.Po, // Punctuation, other
}

// reservedOperatorRunes are codepoints that look like identifier symbols
// under the L/So/Sm/No/Sk/Po umbrella but are reserved for operators and
// must never be swallowed into a bare identifier.
var reservedOperatorRunes = map[rune]bool{
	'→': true, '⊕': true, '⧺': true, '⇌': true,
	'∧': true, '∨': true, '§': true,
}

// IsIdentifierStart reports whether r may begin a key identifier: any
// Unicode letter or underscore, but never a digit (spec.md §3).
func IsIdentifierStart(r rune) bool {
	if reservedOperatorRunes[r] {
		return false
	}
	return unicode.IsLetter(r) || r == '_'
}

// IsIdentifierContinue reports whether r may continue a key identifier:
// a letter, digit, underscore, or — for non-ASCII runes only — one of the
// extra symbol categories, excluding reserved operator codepoints. ASCII
// punctuation is deliberately excluded from the symbol-category branch
// even where it falls in Po (e.g. '&', '#', '@'): those codepoints are
// OCTAVE's own structural/operator grammar and must never be swallowed
// into a bare identifier.
func IsIdentifierContinue(r rune) bool {
	if reservedOperatorRunes[r] {
		return false
	}
	if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
		return true
	}
	if r < utf8RuneSelf {
		return false
	}
	return unicode.IsOneOf(identifierCategories, r)
}

const utf8RuneSelf = 0x80

// IsEnvelopeIdentChar reports whether r is legal in an envelope identifier:
// [A-Za-z0-9_] only (spec.md §3/§6), stricter than a general key identifier.
func IsEnvelopeIdentChar(r rune, first bool) bool {
	if first {
		return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || r == '_'
	}
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
}
