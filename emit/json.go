package emit

import (
	"encoding/json"
	"fmt"

	"github.com/elevanaltd/octave/ast"
)

// ToJSON projects doc the way spec.md §4.9 describes: lists become JSON
// arrays, inline maps become JSON objects, section markers and comments
// are stripped entirely (recorded in FieldsOmitted), a flow expression is
// flattened to its canonical textual form, and a holographic pattern
// becomes an object holding its converted "example" and its whole
// canonical text under "constraint"; both of these are recorded as lossy.
func ToJSON(doc ast.Document) (Projection, error) {
	root := map[string]any{}
	var omitted []string

	for _, env := range doc.Envelopes {
		obj := convertNodes(env.Children, env.Name, &omitted)
		root[env.Name] = obj
	}

	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return Projection{}, fmt.Errorf("emit: marshal json: %w", err)
	}

	return Projection{
		Output:        string(out),
		Lossy:         len(omitted) > 0,
		FieldsOmitted: omitted,
	}, nil
}

func convertNodes(nodes []ast.Node, path string, omitted *[]string) map[string]any {
	obj := map[string]any{}
	for _, n := range nodes {
		switch v := n.(type) {
		case ast.Comment:
			*omitted = append(*omitted, path+": comment stripped")
		case ast.SectionMarker:
			*omitted = append(*omitted, path+"."+v.Section+": section marker stripped")
		case ast.LiteralZone:
			obj[v.Key] = v.Content
			if v.InfoTag != "" {
				*omitted = append(*omitted, fmt.Sprintf("%s.%s: fence info tag %q dropped", path, v.Key, v.InfoTag))
			}
		case ast.Assignment:
			obj[v.Key] = convertValue(v.Value, path+"."+v.Key, omitted)
		case ast.Block:
			obj[v.Key] = convertNodes(v.Children, path+"."+v.Key, omitted)
		}
	}
	return obj
}

func convertValue(v ast.Value, path string, omitted *[]string) any {
	switch val := v.(type) {
	case ast.String:
		return val.Value
	case ast.Number:
		if val.IsInt {
			return int64(val.Value)
		}
		return val.Value
	case ast.Boolean:
		return val.Value
	case ast.Null:
		return nil
	case ast.Version:
		return val.Raw
	case ast.Variable:
		*omitted = append(*omitted, path+": variable reference flattened to string")
		return valueText(val)
	case ast.SectionRef:
		*omitted = append(*omitted, path+": section reference flattened to string")
		return valueText(val)
	case ast.ColonPath:
		return valueText(val)
	case ast.List:
		items := make([]any, len(val.Items))
		for i, item := range val.Items {
			items[i] = convertValue(item, fmt.Sprintf("%s[%d]", path, i), omitted)
		}
		return items
	case ast.InlineMap:
		obj := map[string]any{}
		for _, e := range val.Entries {
			obj[e.Key] = convertValue(e.Value, path+"."+e.Key, omitted)
		}
		return obj
	case ast.HolographicPattern:
		*omitted = append(*omitted, path+": holographic constraint chain flattened to string")
		return map[string]any{
			"example":    convertValue(val.Example, path+".example", omitted),
			"constraint": valueText(val),
		}
	case ast.FlowExpression:
		*omitted = append(*omitted, path+": flow-expression operator tree flattened to string")
		return valueText(val)
	default:
		return nil
	}
}
