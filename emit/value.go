package emit

import (
	"strconv"
	"strings"

	"github.com/elevanaltd/octave/ast"
)

func writeValue(b *strings.Builder, v ast.Value) {
	b.WriteString(valueText(v))
}

// valueText renders v the way the canonical emitter would print it on a
// line. Flow-expression/holographic-pattern structure round-trips through
// plain infix text because the grammar has no ambiguity left once a tree
// has been parsed — reprinting left/op/right in order reproduces a token
// sequence that reparses to the same tree.
func valueText(v ast.Value) string {
	switch val := v.(type) {
	case ast.String:
		return quoteString(val)
	case ast.Number:
		if val.Raw != "" {
			return val.Raw
		}
		return strconv.FormatFloat(val.Value, 'g', -1, 64)
	case ast.Boolean:
		if val.Value {
			return "true"
		}
		return "false"
	case ast.Null:
		return "null"
	case ast.Version:
		return val.Raw
	case ast.Variable:
		s := "$" + val.Name
		if val.Role != "" {
			s += ":" + val.Role
		}
		return s
	case ast.SectionRef:
		return ast.GlyphSection + val.Ref
	case ast.ColonPath:
		return strings.Join(val.Segments, ":")
	case ast.List:
		items := make([]string, len(val.Items))
		for i, item := range val.Items {
			items[i] = valueText(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case ast.InlineMap:
		parts := make([]string, len(val.Entries))
		for i, e := range val.Entries {
			parts[i] = e.Key + "::" + valueText(e.Value)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ast.HolographicPattern:
		return holographicText(val)
	case ast.FlowExpression:
		return valueText(val.Left) + " " + val.Op.String() + " " + valueText(val.Right)
	default:
		return ""
	}
}

func holographicText(v ast.HolographicPattern) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(valueText(v.Example))
	if v.Constraint != nil {
		for _, c := range v.Constraint.Constraints {
			b.WriteString(ast.GlyphConstraint)
			b.WriteString(constraintText(c))
		}
	}
	if v.Target != nil {
		b.WriteString(ast.GlyphFlow)
		writeTarget(&b, *v.Target)
	}
	b.WriteString("]")
	return b.String()
}

func constraintText(c ast.Constraint) string {
	switch c.Kind {
	case ast.ConstraintREQ:
		return "REQUIRED"
	case ast.ConstraintOPT:
		return "OPTIONAL"
	case ast.ConstraintAPPEND_ONLY:
		return "APPEND_ONLY"
	case ast.ConstraintDATE:
		return "DATE"
	case ast.ConstraintISO8601:
		return "ISO8601"
	case ast.ConstraintCONST:
		return "CONST[" + strings.Join(c.Strings, ", ") + "]"
	case ast.ConstraintENUM:
		return "ENUM[" + strings.Join(c.Strings, ", ") + "]"
	case ast.ConstraintREGEX:
		return "REGEX[" + strings.Join(c.Strings, ", ") + "]"
	case ast.ConstraintDIR:
		return "DIR[" + strings.Join(c.Strings, ", ") + "]"
	case ast.ConstraintTYPE:
		return "TYPE[" + typeKeyword(c.Type) + "]"
	case ast.ConstraintRANGE:
		return "RANGE[" + formatNumbers(c.Numbers) + "]"
	case ast.ConstraintMAX_LENGTH:
		return "MAX_LENGTH[" + formatNumbers(c.Numbers) + "]"
	case ast.ConstraintMIN_LENGTH:
		return "MIN_LENGTH[" + formatNumbers(c.Numbers) + "]"
	default:
		return ""
	}
}

func typeKeyword(t ast.ValueType) string {
	switch t {
	case ast.TypeNumber:
		return "NUMBER"
	case ast.TypeList:
		return "LIST"
	case ast.TypeBoolean:
		return "BOOLEAN"
	default:
		return "STRING"
	}
}

func formatNumbers(nums []float64) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}

// quoteString renders a String value in the one canonical quoted form.
// Triple-quote input syntax exists only to let a source document spell a
// string containing embedded quotes/newlines without escaping; canonical
// output always collapses to a single regular double-quoted form with
// control characters escaped (spec.md §8 scenario 2: a triple-quoted
// string with no data loss re-emits with plain quotes).
func quoteString(s ast.String) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s.Value {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
