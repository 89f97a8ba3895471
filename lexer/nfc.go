package lexer

import "strings"

// combiningCompositions maps a base rune + combining mark to the
// precomposed rune, covering the combining diacritics that occur in
// practice in agent-authored OCTAVE text (Latin vowels/consonants with
// acute, grave, circumflex, diaeresis, tilde, and ring above). No
// third-party NFC implementation is present anywhere in the example pack
// (golang.org/x/text is never imported by a retrieved repo), so composition
// here is table-driven rather than a full Unicode decomposition/
// recomposition pass; combining marks outside this table pass through
// unchanged.
var combiningCompositions = map[[2]rune]rune{
	{'a', '́'}: 'á', {'a', '̀'}: 'à', {'a', '̂'}: 'â', {'a', '̈'}: 'ä', {'a', '̃'}: 'ã', {'a', '̊'}: 'å',
	{'e', '́'}: 'é', {'e', '̀'}: 'è', {'e', '̂'}: 'ê', {'e', '̈'}: 'ë',
	{'i', '́'}: 'í', {'i', '̀'}: 'ì', {'i', '̂'}: 'î', {'i', '̈'}: 'ï',
	{'o', '́'}: 'ó', {'o', '̀'}: 'ò', {'o', '̂'}: 'ô', {'o', '̈'}: 'ö', {'o', '̃'}: 'õ',
	{'u', '́'}: 'ú', {'u', '̀'}: 'ù', {'u', '̂'}: 'û', {'u', '̈'}: 'ü',
	{'n', '̃'}: 'ñ', {'c', '̧'}: 'ç', {'y', '́'}: 'ý',
	{'A', '́'}: 'Á', {'A', '̀'}: 'À', {'A', '̂'}: 'Â', {'A', '̈'}: 'Ä', {'A', '̃'}: 'Ã', {'A', '̊'}: 'Å',
	{'E', '́'}: 'É', {'E', '̀'}: 'È', {'E', '̂'}: 'Ê', {'E', '̈'}: 'Ë',
	{'I', '́'}: 'Í', {'I', '̀'}: 'Ì', {'I', '̂'}: 'Î', {'I', '̈'}: 'Ï',
	{'O', '́'}: 'Ó', {'O', '̀'}: 'Ò', {'O', '̂'}: 'Ô', {'O', '̈'}: 'Ö', {'O', '̃'}: 'Õ',
	{'U', '́'}: 'Ú', {'U', '̀'}: 'Ù', {'U', '̂'}: 'Û', {'U', '̈'}: 'Ü',
	{'N', '̃'}: 'Ñ', {'C', '̧'}: 'Ç', {'Y', '́'}: 'Ý',
}

// normalizeNFC composes base+combining-mark rune pairs found in
// combiningCompositions, leaving all other input (including already
// precomposed characters and the OCTAVE operator glyphs, which never
// decompose) untouched.
func normalizeNFC(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(runes); i++ {
		if i+1 < len(runes) {
			if composed, ok := combiningCompositions[[2]rune{runes[i], runes[i+1]}]; ok {
				b.WriteRune(composed)
				i++
				continue
			}
		}
		b.WriteRune(runes[i])
	}

	return b.String()
}
