package parser

import (
	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/token"
)

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(offset int) token.Token {
	i := p.pos + offset
	if i >= len(p.toks) || i < 0 {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool {
	return p.peek().Kind == token.EOF
}

// atLineEnd reports whether the cursor sits at a NEWLINE, EOF, or
// ENVELOPE_END — the points a same-line scan must stop at.
func (p *Parser) atLineEnd() bool {
	switch p.peek().Kind {
	case token.NEWLINE, token.EOF, token.ENVELOPE_END:
		return true
	}
	return false
}

func (p *Parser) skipBlankLines() {
	for p.peek().Kind == token.NEWLINE {
		p.advance()
	}
}

func (p *Parser) skipNewlines() {
	for p.peek().Kind == token.NEWLINE {
		p.advance()
	}
}

// expectLineEnd consumes a single NEWLINE if present; EOF/ENVELOPE_END need
// no consumption. Anything else is an unconsumed trailing token on the
// line, which the caller's recovery logic will skip past.
func (p *Parser) expectLineEnd() {
	if p.peek().Kind == token.NEWLINE {
		p.advance()
	}
}

func (p *Parser) skipToNextLine() {
	for !p.atEOF() && p.peek().Kind != token.NEWLINE {
		p.advance()
	}
	if p.peek().Kind == token.NEWLINE {
		p.advance()
	}
}

// skipToNextLineAtOrBelow skips lines until one starts at column <= minIndent,
// or EOF/ENVELOPE_END — the recovery policy for a recoverable parse error
// (spec.md §7: "skip to next newline at same-or-shallower indentation").
func (p *Parser) skipToNextLineAtOrBelow(minIndent int) {
	p.skipToNextLine()
	for {
		p.skipBlankLines()
		if p.atEOF() || p.peek().Kind == token.ENVELOPE_END {
			return
		}
		if p.peek().Pos.Column <= minIndent {
			return
		}
		p.skipToNextLine()
	}
}

func (p *Parser) skipToMatchingBracket() {
	depth := 1
	for !p.atEOF() {
		switch p.peek().Kind {
		case token.LBRACKET:
			depth++
		case token.RBRACKET:
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		case token.NEWLINE, token.ENVELOPE_END:
			return
		}
		p.advance()
	}
}

func (p *Parser) error(code ast.Code, pos token.Position, msg string) *ast.AuditRecord {
	p.diags = append(p.diags, ast.NewError(code, pos, msg))
	return &p.diags[len(p.diags)-1]
}

func (p *Parser) warn(code ast.Code, pos token.Position, msg string) *ast.AuditRecord {
	p.diags = append(p.diags, ast.NewWarning(code, pos, msg))
	return &p.diags[len(p.diags)-1]
}
