// Package normalize rewrites a parsed Document into its canonical form,
// spec.md §4.3. Most canonicalization already happens by construction
// earlier in the pipeline — operator aliasing is resolved to a canonical
// ast.Operator by the lexer/parser (the AST never retains which glyph or
// ASCII alias was used), envelope identifiers are already upper-snake'd by
// the lexer (W_ENVELOPE_CASE), NFC is applied to bare words during
// tokenization (quoted strings and comments are not NFC-normalized), and
// source order is preserved simply by never reordering slices. What
// remains here: quoted-string escape normalization and inter-token
// whitespace collapse within value text, audited together by a single
// W003 warning per changed string.
package normalize

import "github.com/elevanaltd/octave/ast"

// Normalize returns a canonical copy of doc plus any normalization
// warnings. Normalize is idempotent: Normalize(Normalize(x).doc) produces
// no further warnings.
func Normalize(doc ast.Document) (ast.Document, ast.Diagnostics) {
	n := &normalizer{}
	out := ast.Document{}
	for _, env := range doc.Envelopes {
		out.Envelopes = append(out.Envelopes, n.envelope(env))
	}
	return out, n.diags
}

type normalizer struct {
	diags ast.Diagnostics
}

func (n *normalizer) envelope(env ast.Envelope) ast.Envelope {
	return ast.NewEnvelope(env.Pos(), env.Name, n.nodes(env.Children))
}

func (n *normalizer) nodes(in []ast.Node) []ast.Node {
	if in == nil {
		return nil
	}
	out := make([]ast.Node, len(in))
	for i, node := range in {
		out[i] = n.node(node)
	}
	return out
}

func (n *normalizer) node(node ast.Node) ast.Node {
	switch v := node.(type) {
	case ast.Assignment:
		return ast.NewAssignment(v.Pos(), v.Key, n.value(v.Value))
	case ast.Block:
		return ast.NewBlock(v.Pos(), v.Key, v.Target, n.nodes(v.Children), v.Depth)
	case ast.LiteralZone:
		// Literal zones bypass normalization entirely (spec.md §4.1): the
		// content was captured byte-verbatim and must stay that way.
		return v
	default:
		return node
	}
}

func (n *normalizer) value(val ast.Value) ast.Value {
	switch v := val.(type) {
	case ast.String:
		if v.Triple {
			return v
		}
		// A Value that already differs from its Raw lexeme has been
		// normalized before; unescaping it again would not be idempotent.
		if v.Value != v.Raw {
			return v
		}
		newVal, rec := normalizeStringText(v.Pos(), v.Value)
		if rec != nil {
			n.diags = append(n.diags, *rec)
		}
		return ast.NewString(v.Pos(), newVal, v.Raw, v.Triple)

	case ast.List:
		return ast.NewList(v.Pos(), n.values(v.Items), v.TrailingComma)

	case ast.InlineMap:
		entries := make([]ast.InlineMapEntry, len(v.Entries))
		for i, e := range v.Entries {
			entries[i] = ast.InlineMapEntry{Key: e.Key, Value: n.value(e.Value)}
		}
		return ast.NewInlineMap(v.Pos(), entries)

	case ast.HolographicPattern:
		return ast.NewHolographicPattern(v.Pos(), n.value(v.Example), v.Constraint, v.Target)

	case ast.FlowExpression:
		var right ast.Value
		if v.Right != nil {
			right = n.value(v.Right)
		}
		return ast.NewFlowExpression(v.Pos(), v.Op, n.value(v.Left), right)

	default:
		return val
	}
}

func (n *normalizer) values(in []ast.Value) []ast.Value {
	if in == nil {
		return nil
	}
	out := make([]ast.Value, len(in))
	for i, v := range in {
		out[i] = n.value(v)
	}
	return out
}
