package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/token"
)

// parseConstraintAtom parses a single constraint-chain atom, spec.md
// §4.4/§4.5: REQUIRED/OPTIONAL, CONST[...], ENUM[...], TYPE[...],
// REGEX[...], DIR[...], APPEND_ONLY, RANGE[...], MAX_LENGTH[...],
// MIN_LENGTH[...], DATE, ISO8601.
func (p *Parser) parseConstraintAtom() ast.Constraint {
	tok := p.peek()
	if tok.Kind != token.IDENT {
		p.error(ast.CodeETokenize, tok.Pos, fmt.Sprintf("expected constraint keyword, found %s", tok.Kind))
		p.advance()
		return ast.Constraint{Pos: tok.Pos}
	}

	name := strings.ToUpper(tok.Text())
	p.advance()
	c := ast.Constraint{Pos: tok.Pos}

	switch name {
	case "REQ", "REQUIRED":
		c.Kind = ast.ConstraintREQ
	case "OPT", "OPTIONAL":
		c.Kind = ast.ConstraintOPT
	case "APPEND_ONLY":
		c.Kind = ast.ConstraintAPPEND_ONLY
	case "DATE":
		c.Kind = ast.ConstraintDATE
	case "ISO8601":
		c.Kind = ast.ConstraintISO8601
	case "CONST":
		c.Kind = ast.ConstraintCONST
		c.Strings = p.parseBracketedStrings()
	case "ENUM":
		c.Kind = ast.ConstraintENUM
		c.Strings = p.parseBracketedStrings()
	case "REGEX":
		c.Kind = ast.ConstraintREGEX
		c.Strings = p.parseBracketedStrings()
	case "DIR":
		c.Kind = ast.ConstraintDIR
		c.Strings = p.parseBracketedStrings()
	case "TYPE":
		c.Kind = ast.ConstraintTYPE
		c.Type = p.parseBracketedType()
	case "RANGE":
		c.Kind = ast.ConstraintRANGE
		c.Numbers = p.parseBracketedNumbers()
	case "MAX_LENGTH":
		c.Kind = ast.ConstraintMAX_LENGTH
		c.Numbers = p.parseBracketedNumbers()
	case "MIN_LENGTH":
		c.Kind = ast.ConstraintMIN_LENGTH
		c.Numbers = p.parseBracketedNumbers()
	default:
		p.error(ast.CodeEUnknownField, tok.Pos, fmt.Sprintf("unknown constraint keyword %q", name))
	}

	return c
}

// parseBracketedStrings parses an optional `[a, b, c]` argument list,
// returning each element's raw source text. Absent brackets yield nil.
// Bracket nesting is tracked the same way parseBracketed's
// classifyBracket does (spec.md:138): a depth-1 comma splits elements,
// but a nested `[...]` inside an element — e.g. REGEX[^[a-z]+$] — is
// scanned through rather than treated as the argument list's close, so
// only the RBRACKET that returns depth to 0 ends the scan. Tokens are
// rejoined by Raw, not Text: a character like '+' inside a pattern
// lexes as an operator token whose Text() is its normalized glyph, but
// the argument must preserve the literal source character.
func (p *Parser) parseBracketedStrings() []string {
	if p.peek().Kind != token.LBRACKET {
		return nil
	}
	p.advance()

	var out []string
	var cur strings.Builder
	depth := 1
	for depth > 0 {
		switch p.peek().Kind {
		case token.EOF, token.NEWLINE, token.ENVELOPE_END:
			depth = 0
		case token.LBRACKET:
			depth++
			cur.WriteString(p.advance().Raw)
		case token.RBRACKET:
			depth--
			if depth > 0 {
				cur.WriteString(p.advance().Raw)
			}
		case token.COMMA:
			if depth == 1 {
				out = append(out, cur.String())
				cur.Reset()
				p.advance()
			} else {
				cur.WriteString(p.advance().Raw)
			}
		default:
			cur.WriteString(p.advance().Raw)
		}
	}
	if cur.Len() > 0 || len(out) > 0 {
		out = append(out, cur.String())
	}
	p.expectRBracket()
	return out
}

func (p *Parser) parseBracketedNumbers() []float64 {
	strs := p.parseBracketedStrings()
	nums := make([]float64, 0, len(strs))
	for _, s := range strs {
		v, _ := strconv.ParseFloat(s, 64)
		nums = append(nums, v)
	}
	return nums
}

func (p *Parser) parseBracketedType() ast.ValueType {
	strs := p.parseBracketedStrings()
	if len(strs) == 0 {
		return ast.TypeString
	}
	switch strings.ToUpper(strs[0]) {
	case "NUMBER":
		return ast.TypeNumber
	case "LIST":
		return ast.TypeList
	case "BOOLEAN":
		return ast.TypeBoolean
	default:
		return ast.TypeString
	}
}
