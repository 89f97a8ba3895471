package normalize

import (
	"regexp"
	"strings"

	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/token"
)

var whitespaceRun = regexp.MustCompile(`[ \t]{2,}`)

// normalizeStringText unescapes known backslash sequences (\n \t \r \" \\)
// and collapses runs of inter-token whitespace to a single space, spec.md
// §4.3. Unknown escape sequences are left untouched rather than guessed
// at. Returns a warning only if the text actually changed.
func normalizeStringText(pos token.Position, s string) (string, *ast.AuditRecord) {
	unescaped, escChanged := unescapeString(s)
	collapsed := whitespaceRun.ReplaceAllString(unescaped, " ")

	if !escChanged && collapsed == s {
		return s, nil
	}

	rec := ast.NewWarning(ast.CodeW003, pos, "normalized escape sequences and/or collapsed whitespace in string value")
	return collapsed, &rec
}

func unescapeString(s string) (string, bool) {
	if !strings.ContainsRune(s, '\\') {
		return s, false
	}

	runes := []rune(s)
	var sb strings.Builder
	sb.Grow(len(runes))
	changed := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' || i+1 >= len(runes) {
			sb.WriteRune(r)
			continue
		}
		switch runes[i+1] {
		case 'n':
			sb.WriteRune('\n')
			i++
			changed = true
		case 't':
			sb.WriteRune('\t')
			i++
			changed = true
		case 'r':
			sb.WriteRune('\r')
			i++
			changed = true
		case '"':
			sb.WriteRune('"')
			i++
			changed = true
		case '\\':
			sb.WriteRune('\\')
			i++
			changed = true
		default:
			sb.WriteRune(r)
		}
	}

	if !changed {
		return s, false
	}
	return sb.String(), true
}
