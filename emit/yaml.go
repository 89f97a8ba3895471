package emit

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/elevanaltd/octave/ast"
)

// ToYAML mirrors ToJSON's object shape (spec.md §4.9: "mirror of JSON with
// block style") but marshals through goccy/go-yaml so multi-line strings
// come out as literal block scalars (`|`) rather than JSON's escaped form;
// folded scalars (`>`) are not produced.
func ToYAML(doc ast.Document) (Projection, error) {
	root := map[string]any{}
	var omitted []string

	for _, env := range doc.Envelopes {
		root[env.Name] = convertNodes(env.Children, env.Name, &omitted)
	}

	out, err := yaml.MarshalWithOptions(root, yaml.Indent(2), yaml.UseLiteralStyleIfMultiline(true))
	if err != nil {
		return Projection{}, fmt.Errorf("emit: marshal yaml: %w", err)
	}

	return Projection{
		Output:        string(out),
		Lossy:         len(omitted) > 0,
		FieldsOmitted: omitted,
	}, nil
}
