package lexer

import (
	"strings"

	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/token"
)

// tryScanLiteralZone checks whether the cursor (immediately after a
// single-colon block opener) sits on a fenced literal zone: "key then
// newline then a fence of >=3 backticks" (spec.md §4.1). If so it consumes
// the entire zone verbatim — no NFC, tabs allowed, no token scanning
// inside — and emits a single LITERAL token. It reports whether it
// consumed a zone.
func (l *Lexer) tryScanLiteralZone() bool {
	save := *l

	for l.peek() == ' ' || l.peek() == '\t' {
		l.advance()
	}
	if l.peek() != '\n' {
		*l = save
		return false
	}
	l.advance() // newline

	lineStart := l.pos
	width := 0
	for l.peek() == '`' {
		width++
		l.advance()
	}
	if width < 3 {
		*l = save
		return false
	}

	infoTag := l.scanToEOL()
	infoTag = strings.TrimSpace(infoTag)
	if !l.atEnd() {
		l.advance() // newline after fence
	}

	contentStart := l.pos
	fence := strings.Repeat("`", width)

	for {
		if l.atEnd() {
			l.error(ast.CodeETokenize, token.Position{Line: l.line, Column: 1, Offset: l.offs[lineStart]},
				"unterminated literal zone: missing closing fence")
			break
		}
		lineBegin := l.pos
		trimmed := l.peekLineTrimmed()
		if trimmed == fence {
			content := runesToString(l.runes[contentStart:lineBegin])
			content = strings.TrimSuffix(content, "\n")
			for l.pos < lineBegin+width {
				l.advance()
			}
			// consume rest of closing fence line
			l.scanToEOL()

			zoneStart := token.Position{Line: save.line, Column: save.col, Offset: save.offs[save.pos]}
			l.emitTok(token.Token{
				Kind: token.LITERAL,
				Pos:  zoneStart,
				Span: token.Span{Start: zoneStart, End: l.here()},
				Payload: &token.LiteralPayload{
					InfoTag:    infoTag,
					Content:    content,
					FenceWidth: width,
				},
			})
			return true
		}
		l.consumeLine()
	}

	return true
}

func runesToString(rs []rune) string {
	var sb strings.Builder
	sb.Grow(len(rs))
	for _, r := range rs {
		sb.WriteRune(r)
	}
	return sb.String()
}

// peekLineTrimmed returns the current line's content (from the cursor to
// the next newline), trimmed of surrounding whitespace, without consuming.
func (l *Lexer) peekLineTrimmed() string {
	i := l.pos
	for i < len(l.runes) && l.runes[i] != '\n' {
		i++
	}
	return strings.TrimSpace(runesToString(l.runes[l.pos:i]))
}

// consumeLine advances the cursor past the current line, including its
// trailing newline if present. Used inside literal zones where newlines
// must still update line/column bookkeeping but must not be tokenized.
func (l *Lexer) consumeLine() {
	for !l.atEnd() && l.peek() != '\n' {
		l.advance()
	}
	if !l.atEnd() {
		l.advance()
	}
}
