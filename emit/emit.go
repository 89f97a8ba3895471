// Package emit implements spec.md §4.9: a deterministic canonical printer
// plus lossy projections (JSON, YAML, Markdown, and a recognized-but-
// unimplemented GBNF stub). Every projection returns a Projection value
// carrying its output alongside a loss tier, so a caller can tell whether
// round-tripping through that projection is safe.
package emit

import (
	"strings"

	"github.com/elevanaltd/octave/ast"
)

// Projection is the {output, lossy, fields_omitted} triple spec.md §4.9
// requires of every projection (the canonical emitter itself is always
// non-lossy and doesn't return one).
type Projection struct {
	Output        string
	Lossy         bool
	FieldsOmitted []string
}

// Canonical deterministically prints doc: two-space indent, one entity
// per line, canonical list rendering, inline maps preserved, operators in
// their Unicode form, and a NUMBER's source Raw lexeme used whenever it
// is non-empty (spec.md's round-trip-fidelity invariant).
func Canonical(doc ast.Document) string {
	var b strings.Builder
	for _, env := range doc.Envelopes {
		b.WriteString("===")
		b.WriteString(env.Name)
		b.WriteString("===\n")
		writeNodes(&b, env.Children, 1)
		b.WriteString("===END===\n")
	}
	return b.String()
}

func writeNodes(b *strings.Builder, nodes []ast.Node, depth int) {
	indent := strings.Repeat("  ", depth-1)
	for _, n := range nodes {
		switch v := n.(type) {
		case ast.Comment:
			b.WriteString(indent)
			b.WriteString("# ")
			b.WriteString(v.Text)
			b.WriteString("\n")

		case ast.SectionMarker:
			b.WriteString(indent)
			b.WriteString(ast.GlyphSection)
			b.WriteString(v.Section)
			if v.Label != "" {
				b.WriteString(" \"")
				b.WriteString(v.Label)
				b.WriteString("\"")
			}
			b.WriteString("\n")

		case ast.LiteralZone:
			writeLiteralZone(b, indent, v)

		case ast.Assignment:
			b.WriteString(indent)
			b.WriteString(v.Key)
			b.WriteString("::")
			writeValue(b, v.Value)
			b.WriteString("\n")

		case ast.Block:
			b.WriteString(indent)
			b.WriteString(v.Key)
			writeTargetAnnotation(b, v.Target)
			b.WriteString(":\n")
			writeNodes(b, v.Children, depth+1)
		}
	}
}

func writeLiteralZone(b *strings.Builder, indent string, v ast.LiteralZone) {
	fence := strings.Repeat("`", v.FenceWidth)
	if fence == "" {
		fence = "```"
	}
	b.WriteString(indent)
	b.WriteString(v.Key)
	b.WriteString(":\n")
	b.WriteString(indent)
	b.WriteString(fence)
	b.WriteString(v.InfoTag)
	b.WriteString("\n")
	b.WriteString(v.Content)
	if !strings.HasSuffix(v.Content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(indent)
	b.WriteString(fence)
	b.WriteString("\n")
}

func writeTargetAnnotation(b *strings.Builder, t *ast.Target) {
	if t == nil {
		return
	}
	b.WriteString("[")
	b.WriteString(ast.GlyphFlow)
	writeTarget(b, *t)
	b.WriteString("]")
}

func writeTarget(b *strings.Builder, t ast.Target) {
	switch t.Kind {
	case ast.TargetMulti:
		for i, m := range t.Multi {
			if i > 0 {
				b.WriteString(" ")
				b.WriteString(ast.GlyphAlternative)
				b.WriteString(" ")
			}
			writeTarget(b, m)
		}
	default:
		b.WriteString(ast.GlyphSection)
		b.WriteString(t.Name)
	}
}
