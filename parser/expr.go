package parser

import (
	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/token"
)

// maxOperatorPrec is the loosest (highest-numbered) operator precedence,
// used as the starting bound for a top-level expression parse.
const maxOperatorPrec = 7

// parseValue parses a full RHS flow expression outside `[ ]`, where the
// CONSTRAINT operator is illegal (spec.md §3/§4.1).
func (p *Parser) parseValue() ast.Value {
	return p.parseExpr(maxOperatorPrec, false)
}

func operatorOf(k token.Kind) ast.Operator {
	switch k {
	case token.FLOW:
		return ast.OpFlow
	case token.SYNTHESIS:
		return ast.OpSynthesis
	case token.CONCAT:
		return ast.OpConcat
	case token.TENSION:
		return ast.OpTension
	case token.CONSTRAINT:
		return ast.OpConstraint
	case token.ALTERNATIVE:
		return ast.OpAlternative
	case token.AT:
		return ast.OpAt
	}
	return ast.OpNone
}

// parseExpr is a precedence-climbing parser over the flow operator set.
// Precedence numbers run tighter-binds-first (spec.md §3's table: Concat=2
// is tightest, Flow=7 loosest), so this climbs on a *maximum* allowed
// precedence rather than the more familiar minimum-binding-power form: an
// operator may be consumed at this level only if its precedence is <=
// maxPrec, and the right operand recurses with a tighter (smaller) bound
// so it can't swallow a looser sibling operator.
//
// TENSION is enforced strictly binary: a second TENSION encountered at the
// same climbing level is a parse error (E_TENSION_CHAIN) rather than being
// silently accepted as a chain.
func (p *Parser) parseExpr(maxPrec int, insideBrackets bool) ast.Value {
	left := p.parsePrimary(insideBrackets)

	usedTension := false
	for p.peek().Kind.IsOperator() {
		op := operatorOf(p.peek().Kind)

		if op == ast.OpConstraint && !insideBrackets {
			p.error(ast.CodeEConstraintOutsideBrkt, p.peek().Pos, "∧ constraint operator used outside `[ ]`")
			break
		}

		prec := op.Precedence()
		if prec > maxPrec {
			break
		}

		if op == ast.OpTension {
			if usedTension {
				p.error(ast.CodeETensionChain, p.peek().Pos, "⇌ tension operator cannot be chained")
				break
			}
			usedTension = true
		}

		opTok := p.advance()
		nextMax := prec - 1
		if op.RightAssociative() {
			nextMax = prec
		}
		right := p.parseExpr(nextMax, insideBrackets)
		left = ast.NewFlowExpression(opTok.Pos, op, left, right)
	}

	return left
}
