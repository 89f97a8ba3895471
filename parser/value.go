package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/token"
)

// isBareContinuation reports whether k can appear inside a bareword run
// (a sequence of unquoted tokens on one line coalesced into a single
// string value, spec.md §4.3 multi-word bareword coalescing).
func isBareContinuation(k token.Kind) bool {
	switch k {
	case token.IDENT, token.STRING, token.NUMBER, token.BOOLEAN, token.NULL, token.VERSION, token.VARIABLE:
		return true
	}
	return false
}

func (p *Parser) parsePrimary(insideBrackets bool) ast.Value {
	tok := p.peek()

	switch tok.Kind {
	case token.LBRACKET:
		return p.parseBracketed()

	case token.SECTION:
		return p.parseSectionRefValue()

	case token.VARIABLE:
		p.advance()
		return parseVariableValue(tok)

	case token.STRING:
		// An explicit quoted/triple-quoted string is already a single
		// atom; it never participates in bareword coalescing even if
		// followed immediately by another bare token.
		p.advance()
		return p.typedValue(tok)

	case token.IDENT:
		if p.peekAt(1).Kind == token.COLON && p.peekAt(2).Kind == token.IDENT {
			return p.parseColonPath()
		}
	}

	if !isBareContinuation(tok.Kind) {
		p.error(ast.CodeETokenize, tok.Pos, fmt.Sprintf("unexpected token %s in value position", tok.Kind))
		p.advance()
		return ast.NewNull(tok.Pos)
	}

	if !isBareContinuation(p.peekAt(1).Kind) {
		p.advance()
		return p.typedValue(tok)
	}

	return p.parseBareRun()
}

// typedValue converts a single lone token into its natural typed Value.
// Only reached when the token is not part of a multi-word bareword run.
func (p *Parser) typedValue(tok token.Token) ast.Value {
	switch tok.Kind {
	case token.NUMBER:
		return p.parseNumberVal(tok)
	case token.BOOLEAN:
		return ast.NewBoolean(tok.Pos, strings.EqualFold(tok.Text(), "true"))
	case token.NULL:
		return ast.NewNull(tok.Pos)
	case token.VERSION:
		return p.parseVersionVal(tok)
	case token.STRING:
		triple := false
		if payload, ok := tok.Payload.(*token.StringPayload); ok && payload != nil {
			triple = payload.Triple
		}
		return ast.NewString(tok.Pos, tok.Text(), tok.Raw, triple)
	default: // IDENT
		return ast.NewString(tok.Pos, tok.Text(), tok.Raw, false)
	}
}

func (p *Parser) parseNumberVal(tok token.Token) ast.Value {
	v, err := strconv.ParseFloat(tok.Raw, 64)
	if err != nil {
		p.warn(ast.CodeW003, tok.Pos, fmt.Sprintf("could not parse number %q", tok.Raw))
	}
	isInt := !strings.ContainsAny(tok.Raw, ".eE")
	return ast.NewNumber(tok.Pos, tok.Raw, v, isInt)
}

func (p *Parser) parseVersionVal(tok token.Token) ast.Value {
	parts := strings.SplitN(tok.Raw, ".", 3)
	nums := make([]int, 3)
	for i := 0; i < len(parts) && i < 3; i++ {
		n, _ := strconv.Atoi(parts[i])
		nums[i] = n
	}
	return ast.NewVersion(tok.Pos, tok.Raw, nums[0], nums[1], nums[2])
}

// parseBareRun coalesces a run of unquoted tokens on the current line into
// a single String, emitting W_MULTIWORD since this silently reinterprets
// the author's intent and must be audited (spec.md: never silently
// discard/transform input without a diagnostic).
func (p *Parser) parseBareRun() ast.Value {
	startPos := p.peek().Pos
	var parts []string
	for isBareContinuation(p.peek().Kind) {
		parts = append(parts, p.advance().Text())
	}
	text := strings.Join(parts, " ")
	if len(parts) > 1 {
		p.warn(ast.CodeWMultiword, startPos, fmt.Sprintf("coalesced %d bare tokens into a single string %q", len(parts), text))
	}
	return ast.NewString(startPos, text, text, false)
}

func (p *Parser) parseColonPath() ast.Value {
	startPos := p.peek().Pos
	segs := []string{p.advance().Text()}
	for p.peek().Kind == token.COLON && p.peekAt(1).Kind == token.IDENT {
		p.advance() // :
		segs = append(segs, p.advance().Text())
	}
	return ast.NewColonPath(startPos, segs)
}

func (p *Parser) parseSectionRefValue() ast.Value {
	tok := p.advance()
	ref := ""
	if p.peek().Kind == token.IDENT || p.peek().Kind == token.NUMBER {
		ref = p.advance().Text()
	}
	return ast.NewSectionRef(tok.Pos, ref)
}

func parseVariableValue(tok token.Token) ast.Value {
	raw := tok.Raw
	name, role := raw, ""
	if i := strings.IndexByte(raw, ':'); i >= 0 {
		name, role = raw[:i], raw[i+1:]
	}
	return ast.NewVariable(tok.Pos, name, role)
}
