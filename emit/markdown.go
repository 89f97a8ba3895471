package emit

import (
	"fmt"
	"strings"

	"github.com/elevanaltd/octave/ast"
)

// ToMarkdown projects doc for human reading: an envelope becomes an H1,
// each block an H2 (nesting deeper sections as H3+), a §-marker its own
// heading, a list renders as a bullet list (never a debug repr), and a
// literal zone keeps its fence. It is always lossy: Markdown has no way
// to express operator precedence or constraint chains, so both collapse
// to inline code spans.
func ToMarkdown(doc ast.Document) Projection {
	var b strings.Builder
	var omitted []string

	for _, env := range doc.Envelopes {
		b.WriteString("# ")
		b.WriteString(env.Name)
		b.WriteString("\n\n")
		writeMarkdownNodes(&b, env.Children, 2, env.Name, &omitted)
	}

	return Projection{
		Output:        b.String(),
		Lossy:         true,
		FieldsOmitted: omitted,
	}
}

func writeMarkdownNodes(b *strings.Builder, nodes []ast.Node, level int, path string, omitted *[]string) {
	for _, n := range nodes {
		switch v := n.(type) {
		case ast.Comment:
			b.WriteString("<!-- ")
			b.WriteString(v.Text)
			b.WriteString(" -->\n\n")

		case ast.SectionMarker:
			b.WriteString(strings.Repeat("#", level))
			b.WriteString(" §")
			b.WriteString(v.Section)
			if v.Label != "" {
				b.WriteString(": ")
				b.WriteString(v.Label)
			}
			b.WriteString("\n\n")

		case ast.LiteralZone:
			b.WriteString("**")
			b.WriteString(v.Key)
			b.WriteString("**\n\n")
			b.WriteString("```")
			b.WriteString(v.InfoTag)
			b.WriteString("\n")
			b.WriteString(v.Content)
			if !strings.HasSuffix(v.Content, "\n") {
				b.WriteString("\n")
			}
			b.WriteString("```\n\n")

		case ast.Assignment:
			writeMarkdownField(b, v.Key, v.Value, path+"."+v.Key, omitted)

		case ast.Block:
			b.WriteString(strings.Repeat("#", level))
			b.WriteString(" ")
			b.WriteString(v.Key)
			b.WriteString("\n\n")
			writeMarkdownNodes(b, v.Children, level+1, path+"."+v.Key, omitted)
		}
	}
}

func writeMarkdownField(b *strings.Builder, key string, v ast.Value, path string, omitted *[]string) {
	if list, ok := v.(ast.List); ok {
		b.WriteString("- **")
		b.WriteString(key)
		b.WriteString("**:\n")
		for _, item := range list.Items {
			b.WriteString("  - ")
			b.WriteString(markdownScalar(item, path, omitted))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		return
	}

	b.WriteString("- **")
	b.WriteString(key)
	b.WriteString("**: ")
	b.WriteString(markdownScalar(v, path, omitted))
	b.WriteString("\n\n")
}

func markdownScalar(v ast.Value, path string, omitted *[]string) string {
	switch v.(type) {
	case ast.FlowExpression, ast.HolographicPattern:
		*omitted = append(*omitted, fmt.Sprintf("%s: rendered as inline code, not structured markdown", path))
		return "`" + valueText(v) + "`"
	default:
		return valueText(v)
	}
}
