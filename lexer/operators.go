package lexer

import (
	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/token"
)

// isOperatorStart reports whether r can begin an ASCII or Unicode operator
// token (spec.md §4.1's alias table plus the canonical glyphs).
func isOperatorStart(r rune) bool {
	switch r {
	case '-', '+', '~', '<', '&', '|', '@',
		'→', '⊕', '⧺', '⇌', '∧', '∨':
		return true
	}
	return false
}

// scanOperator consumes one operator token if the cursor sits on one,
// emitting it and reporting whether it did so. ASCII forms emit a W002
// warning (ASCII alias normalized) since the AST records canonical form
// only; Unicode forms need no warning.
func (l *Lexer) scanOperator() bool {
	start := l.here()
	r := l.peek()

	switch r {
	case '→':
		l.advance()
		l.emit(token.FLOW, "→", start)
		return true
	case '⊕':
		l.advance()
		l.emit(token.SYNTHESIS, "⊕", start)
		return true
	case '⧺':
		l.advance()
		l.emit(token.CONCAT, "⧺", start)
		return true
	case '⇌':
		l.advance()
		l.emit(token.TENSION, "⇌", start)
		return true
	case '∧':
		l.advance()
		l.emit(token.CONSTRAINT, "∧", start)
		return true
	case '∨':
		l.advance()
		l.emit(token.ALTERNATIVE, "∨", start)
		return true
	case '@':
		l.advance()
		l.emit(token.AT, "@", start)
		return true
	case '-':
		if l.peekAt(1) == '>' {
			l.advance()
			l.advance()
			l.warn(ast.CodeW002, start, "ASCII alias '->' normalized to →")
			l.emitTok(token.Token{Kind: token.FLOW, Raw: "->", Normalized: ast.GlyphFlow, Pos: start, Span: token.Span{Start: start, End: l.here()}})
			return true
		}
		return false
	case '+':
		l.advance()
		l.warn(ast.CodeW002, start, "ASCII alias '+' normalized to ⊕")
		l.emitTok(token.Token{Kind: token.SYNTHESIS, Raw: "+", Normalized: ast.GlyphSynthesis, Pos: start, Span: token.Span{Start: start, End: l.here()}})
		return true
	case '~':
		l.advance()
		l.warn(ast.CodeW002, start, "ASCII alias '~' normalized to ⧺")
		l.emitTok(token.Token{Kind: token.CONCAT, Raw: "~", Normalized: ast.GlyphConcat, Pos: start, Span: token.Span{Start: start, End: l.here()}})
		return true
	case '<':
		if l.peekAt(1) == '-' && l.peekAt(2) == '>' {
			l.advance()
			l.advance()
			l.advance()
			l.warn(ast.CodeW002, start, "ASCII alias '<->' normalized to ⇌")
			l.emitTok(token.Token{Kind: token.TENSION, Raw: "<->", Normalized: ast.GlyphTension, Pos: start, Span: token.Span{Start: start, End: l.here()}})
			return true
		}
		return false
	case '&':
		l.advance()
		l.warn(ast.CodeW002, start, "ASCII alias '&' normalized to ∧")
		l.emitTok(token.Token{Kind: token.CONSTRAINT, Raw: "&", Normalized: ast.GlyphConstraint, Pos: start, Span: token.Span{Start: start, End: l.here()}})
		return true
	case '|':
		l.advance()
		l.warn(ast.CodeW002, start, "ASCII alias '|' normalized to ∨")
		l.emitTok(token.Token{Kind: token.ALTERNATIVE, Raw: "|", Normalized: ast.GlyphAlternative, Pos: start, Span: token.Span{Start: start, End: l.here()}})
		return true
	}

	return false
}
