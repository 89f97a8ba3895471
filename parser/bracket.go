package parser

import (
	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/token"
)

// classifyBracket looks ahead from the cursor (just past the opening `[`)
// to the matching `]` without consuming, and reports which depth-1
// punctuation is present. Per spec.md §3/§9, this lookahead decides
// whether the bracket holds a List, an InlineMap, a HolographicPattern, or
// a plain bracketed FlowExpression.
func (p *Parser) classifyBracket() (hasComma, hasConstraint, hasAssign bool) {
	depth := 1
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.LBRACKET:
			depth++
		case token.RBRACKET:
			depth--
			if depth == 0 {
				return
			}
		case token.COMMA:
			if depth == 1 {
				hasComma = true
			}
		case token.CONSTRAINT:
			if depth == 1 {
				hasConstraint = true
			}
		case token.ASSIGN:
			if depth == 1 {
				hasAssign = true
			}
		case token.NEWLINE, token.EOF, token.ENVELOPE_END:
			return
		}
	}
	return
}

func (p *Parser) parseBracketed() ast.Value {
	open := p.advance() // [

	if p.peek().Kind == token.RBRACKET {
		p.advance()
		return ast.NewList(open.Pos, nil, false)
	}

	hasComma, hasConstraint, hasAssign := p.classifyBracket()

	switch {
	case hasComma:
		return p.parseList(open)
	case hasConstraint:
		return p.parseHolographic(open)
	case hasAssign:
		return p.parseInlineMapSingle(open)
	default:
		val := p.parseExpr(maxOperatorPrec, true)
		p.expectRBracket()
		return val
	}
}

func (p *Parser) parseList(open token.Token) ast.Value {
	var items []ast.Value
	trailingComma := false

	for {
		if p.peek().Kind == token.RBRACKET || p.atLineEnd() {
			break
		}
		items = append(items, p.parseListElement())
		if p.peek().Kind == token.COMMA {
			p.advance()
			if p.peek().Kind == token.RBRACKET {
				trailingComma = true
				break
			}
			continue
		}
		break
	}

	p.expectRBracket()
	return ast.NewList(open.Pos, items, trailingComma)
}

func (p *Parser) parseListElement() ast.Value {
	if p.peek().Kind == token.IDENT && p.peekAt(1).Kind == token.ASSIGN {
		keyTok := p.advance()
		p.advance() // ::
		val := p.parseExpr(maxOperatorPrec, true)
		return ast.NewInlineMap(keyTok.Pos, []ast.InlineMapEntry{{Key: keyTok.Text(), Value: val}})
	}
	return p.parseExpr(maxOperatorPrec, true)
}

func (p *Parser) parseInlineMapSingle(open token.Token) ast.Value {
	keyTok := p.advance() // IDENT
	p.advance()           // ::
	val := p.parseExpr(maxOperatorPrec, true)
	p.expectRBracket()
	return ast.NewInlineMap(open.Pos, []ast.InlineMapEntry{{Key: keyTok.Text(), Value: val}})
}

// parseHolographic parses a (example, constraint-chain, target) triple,
// detected when a CONSTRAINT operator appears at depth 1 with no depth-1
// comma (spec.md §3/§4.2). The example is parsed at a precedence tighter
// than CONSTRAINT so the chain boundary is found by the grammar, not by a
// second token buffer.
func (p *Parser) parseHolographic(open token.Token) ast.Value {
	example := p.parseExpr(ast.OpConstraint.Precedence()-1, true)

	var chain ast.ConstraintChain
	if p.peek().Kind != token.CONSTRAINT {
		p.error(ast.CodeETokenize, p.peek().Pos, "expected ∧ in holographic pattern")
	}
	for p.peek().Kind == token.CONSTRAINT {
		p.advance()
		chain.Constraints = append(chain.Constraints, p.parseConstraintAtom())
	}

	var target *ast.Target
	if p.peek().Kind == token.FLOW {
		p.advance()
		t := p.parseTargetRef()
		target = &t
	}

	p.expectRBracket()
	return ast.NewHolographicPattern(open.Pos, example, &chain, target)
}

func (p *Parser) expectRBracket() {
	if p.peek().Kind == token.RBRACKET {
		p.advance()
		return
	}
	p.error(ast.CodeEUnbalancedBracket, p.peek().Pos, "expected ']'")
}
