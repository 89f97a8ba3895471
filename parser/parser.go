// Package parser consumes a lexer token stream and produces a lenient
// abstract syntax tree plus diagnostics, per spec.md §4.2. Recoverable
// errors do not stop the parse: the parser skips to the next newline at
// the same-or-shallower indentation and continues, so the result is
// always well-typed (possibly with placeholder values).
package parser

import (
	"fmt"

	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/token"
)

const maxSaneDepth = 100

// Parser holds cursor state over a token slice for one document.
type Parser struct {
	toks  []token.Token
	pos   int
	diags ast.Diagnostics
}

// Parse builds a Document from a lexer token stream.
func Parse(toks []token.Token) (ast.Document, ast.Diagnostics) {
	p := &Parser{toks: toks}
	doc := p.parseDocument()
	return doc, p.diags
}

func (p *Parser) parseDocument() ast.Document {
	var doc ast.Document

	for !p.atEOF() {
		p.skipBlankLines()
		if p.atEOF() {
			break
		}
		if p.peek().Kind != token.ENVELOPE_START {
			// Not an envelope: skip the stray line rather than lose the
			// whole document to one malformed line.
			start := p.peek().Pos
			p.error(ast.CodeE003, start, "expected envelope start ===NAME===")
			p.skipToNextLine()
			continue
		}
		doc.Envelopes = append(doc.Envelopes, p.parseEnvelope())
	}

	return doc
}

func (p *Parser) parseEnvelope() ast.Envelope {
	start := p.advance() // ENVELOPE_START
	p.skipNewlines()

	children := p.parseNodes(1)

	env := ast.NewEnvelope(start.Pos, start.Text(), children)

	if p.peek().Kind == token.ENVELOPE_END {
		p.advance()
	} else if !p.atEOF() {
		p.error(ast.CodeE004, p.peek().Pos, fmt.Sprintf("expected ===END===, found %s", p.peek().Kind))
	}

	p.skipNewlines()

	return env
}

// parseNodes parses sibling nodes at exactly minIndent (1-based column of
// the first token on the line), stopping at dedent, ENVELOPE_END, or EOF.
func (p *Parser) parseNodes(minIndent int) []ast.Node {
	var nodes []ast.Node

	depth := (minIndent - 1) / 2
	if depth > maxSaneDepth {
		p.warn(ast.CodeWDeepNesting, p.peek().Pos, fmt.Sprintf("nesting depth %d exceeds %d", depth, maxSaneDepth))
	}

	seenKeys := map[string]token.Position{}

	for {
		p.skipBlankLines()
		if p.atEOF() || p.peek().Kind == token.ENVELOPE_END {
			break
		}

		col := p.peek().Pos.Column
		if col < minIndent {
			break
		}
		if col > minIndent {
			// Unexpected indent increase without a block opener above it;
			// treat as belonging to this level rather than silently
			// dropping it (spec.md: never silently discard input).
			p.warn(ast.CodeW001, p.peek().Pos, "unexpected indentation, treated as sibling")
		}

		node, key := p.parseLine(minIndent)
		if node == nil {
			continue
		}
		if key == "" {
			nodes = append(nodes, node)
			continue
		}
		if prior, dup := seenKeys[key]; dup {
			p.warn(ast.CodeWDuplicateKey, node.Pos(),
				fmt.Sprintf("duplicate key %q (first seen at %s); later value wins", key, prior))
			for i, n := range nodes {
				if k, ok := keyOf(n); ok && k == key {
					nodes[i] = node
				}
			}
		} else {
			seenKeys[key] = node.Pos()
			nodes = append(nodes, node)
		}
	}

	return nodes
}

func keyOf(n ast.Node) (string, bool) {
	switch v := n.(type) {
	case ast.Assignment:
		return v.Key, true
	case ast.Block:
		return v.Key, true
	}
	return "", false
}

// parseLine parses exactly one node starting at the current line, and
// returns the node's key if it is a keyed node (for duplicate-key
// tracking at this scope).
func (p *Parser) parseLine(minIndent int) (ast.Node, string) {
	tok := p.peek()

	switch tok.Kind {
	case token.COMMENT:
		p.advance()
		p.expectLineEnd()
		text := ""
		if payload, ok := tok.Payload.(*token.CommentPayload); ok && payload != nil {
			text = payload.Text
		}
		return ast.NewComment(tok.Pos, text), ""

	case token.SECTION:
		return p.parseSectionMarker(), ""

	case token.IDENT, token.STRING:
		return p.parseKeyedLine(minIndent)

	default:
		p.error(ast.CodeETokenize, tok.Pos, fmt.Sprintf("unexpected token %s", tok.Kind))
		p.skipToNextLineAtOrBelow(minIndent)
		return nil, ""
	}
}

func (p *Parser) parseSectionMarker() ast.Node {
	tok := p.advance()
	sec := ""
	label := ""
	if p.peek().Kind == token.IDENT || p.peek().Kind == token.NUMBER {
		sec = p.advance().Text()
	}
	if p.peek().Kind == token.STRING {
		label = p.advance().Raw
	}
	p.expectLineEnd()
	return ast.NewSectionMarker(tok.Pos, sec, label)
}

func (p *Parser) parseKeyedLine(minIndent int) (ast.Node, string) {
	keyTok := p.advance()
	key := keyTok.Text()

	var target *ast.Target
	if p.peek().Kind == token.LBRACKET {
		target = p.parseTargetAnnotation()
	}

	switch p.peek().Kind {
	case token.ASSIGN:
		p.advance()
		val := p.parseValue()
		if !p.atLineEnd() {
			p.error(ast.CodeETokenize, p.peek().Pos, fmt.Sprintf("unexpected trailing token %s after value", p.peek().Kind))
			p.skipToNextLineAtOrBelow(minIndent)
		} else {
			p.expectLineEnd()
		}
		return ast.NewAssignment(keyTok.Pos, key, val), key

	case token.COLON:
		p.advance()

		if p.peek().Kind == token.LITERAL {
			litTok := p.advance()
			p.expectLineEnd()
			infoTag, content, fenceWidth := "", "", 0
			if payload, ok := litTok.Payload.(*token.LiteralPayload); ok && payload != nil {
				infoTag, content, fenceWidth = payload.InfoTag, payload.Content, payload.FenceWidth
			}
			return ast.NewLiteralZone(keyTok.Pos, key, infoTag, content, fenceWidth), key
		}

		if p.peek().Kind == token.NEWLINE || p.peek().Kind == token.EOF || p.peek().Kind == token.ENVELOPE_END {
			p.skipNewlines()
			childIndent := minIndent + 2
			children := p.parseNodes(childIndent)
			return ast.NewBlock(keyTok.Pos, key, target, children, (minIndent-1)/2), key
		}

		// Single-colon assignment: spec.md E001.
		e := p.error(ast.CodeE001, keyTok.Pos, fmt.Sprintf("single colon assignment for key %q", key))
		e.Expected = key + "::value"
		e.Got = key + ": " + p.restOfLine()
		e.Hint = "use `::` to assign a value; a single `:` opens a block"
		val := p.parseValue()
		p.skipToNextLineAtOrBelow(minIndent)
		return ast.NewAssignment(keyTok.Pos, key, val), key

	case token.NEWLINE, token.EOF, token.ENVELOPE_END:
		p.warn(ast.CodeW001, keyTok.Pos, fmt.Sprintf("bare line %q retained without a value", key))
		p.expectLineEnd()
		return ast.NewComment(keyTok.Pos, key), ""

	default:
		// A bareword run with no `::`/`:` at all: coalesce the whole line
		// as a retained comment rather than discard it.
		text := key
		for !p.atLineEnd() {
			text += " " + p.advance().Text()
		}
		p.warn(ast.CodeW001, keyTok.Pos, fmt.Sprintf("bare line %q retained without a value", text))
		p.expectLineEnd()
		return ast.NewComment(keyTok.Pos, text), ""
	}
}

func (p *Parser) restOfLine() string {
	s := ""
	i := p.pos
	for i < len(p.toks) && p.toks[i].Kind != token.NEWLINE && p.toks[i].Kind != token.EOF {
		if s != "" {
			s += " "
		}
		s += p.toks[i].Text()
		i++
	}
	return s
}

func (p *Parser) parseTargetAnnotation() *ast.Target {
	p.advance() // [
	if p.peek().Kind != token.FLOW {
		p.error(ast.CodeE003, p.peek().Pos, "expected → in target annotation")
		p.skipToMatchingBracket()
		return nil
	}
	p.advance() // →
	t := p.parseTargetRef()
	if p.peek().Kind == token.RBRACKET {
		p.advance()
	} else {
		p.error(ast.CodeEUnbalancedBracket, p.peek().Pos, "expected ']' closing target annotation")
	}
	return &t
}

// parseTargetRef parses a §TARGET, §./path, or §A ∨ §B ∨ §C reference.
func (p *Parser) parseTargetRef() ast.Target {
	first := p.parseOneTarget()
	if p.peek().Kind != token.ALTERNATIVE {
		return first
	}

	multi := []ast.Target{first}
	for p.peek().Kind == token.ALTERNATIVE {
		p.advance()
		multi = append(multi, p.parseOneTarget())
	}
	return ast.Target{Kind: ast.TargetMulti, Multi: multi}
}

func (p *Parser) parseOneTarget() ast.Target {
	if p.peek().Kind != token.SECTION {
		p.error(ast.CodeEUnknownTarget, p.peek().Pos, "expected § target reference")
		return ast.Target{Kind: ast.TargetBuiltin, Name: ""}
	}
	p.advance()

	name := ""
	if p.peek().Kind == token.IDENT {
		name = p.advance().Text()
	} else {
		for !p.atLineEnd() && p.peek().Kind != token.ALTERNATIVE && p.peek().Kind != token.RBRACKET {
			name += p.advance().Raw
		}
	}

	if len(name) > 1 && name[0] == '.' {
		return ast.Target{Kind: ast.TargetFile, Name: name}
	}

	// Whether a non-builtin name is actually unknown depends on
	// POLICY.TARGETS, compiled later by the schema package from a block
	// this target reference may precede; that check belongs to the router
	// stage (spec.md §4.6), not here.
	return ast.Target{Kind: ast.TargetBuiltin, Name: name}
}
