package lexer

import "github.com/clipperhouse/uax29/v2/words"

// isStandaloneWord reports whether the byte range [start,end) of src is
// exactly one Unicode word-segmentation unit per UAX#29 — i.e. "vs"
// bounded by whitespace, brackets, parens, or string boundaries rather
// than the prefix/suffix of a longer bareword like "vsNOT_ALIAS"
// (spec.md §4.1).
func isStandaloneWord(src []byte, start, end int) bool {
	seg := words.NewSegmenter(src)
	pos := 0
	for seg.Next() {
		b := seg.Bytes()
		segStart, segEnd := pos, pos+len(b)
		pos = segEnd
		if segStart == start && segEnd == end {
			return true
		}
		if segStart >= end {
			break
		}
	}
	return false
}
