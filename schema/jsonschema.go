package schema

import (
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/elevanaltd/octave/ast"
)

// ToJSONSchema projects a compiled FIELDS/POLICY schema into a JSON Schema,
// the same shape as MacroPower-x/magicschema's YAML→JSON-Schema generator
// but walking ast.Schema instead of a goccy/go-yaml AST: each FieldDef's
// constraint chain maps onto the matching jsonschema.Schema keyword, and
// each nested Sections entry recurses into its own object schema.
func ToJSONSchema(sch *ast.Schema) *jsonschema.Schema {
	if sch == nil {
		return &jsonschema.Schema{}
	}

	root := &jsonschema.Schema{
		Schema:               "https://json-schema.org/draft/2020-12/schema",
		Type:                 "object",
		Properties:           map[string]*jsonschema.Schema{},
		AdditionalProperties: unknownFieldsSchema(sch.Policy.UnknownFields),
	}
	if sch.Policy.Version != "" {
		root.Title = "OCTAVE schema " + sch.Policy.Version
	}

	for _, field := range sch.Fields {
		root.Properties[field.Key] = fieldSchema(field)
		if hasConstraintKind(field.Constraint, ast.ConstraintREQ) {
			root.Required = append(root.Required, field.Key)
			root.PropertyOrder = append(root.PropertyOrder, field.Key)
		}
	}

	for name, sub := range sch.Sections {
		root.Properties[name] = ToJSONSchema(sub)
	}

	if len(root.Properties) == 0 {
		root.Properties = nil
	}

	return root
}

func unknownFieldsSchema(policy ast.UnknownFieldPolicy) *jsonschema.Schema {
	if policy == ast.UnknownReject {
		return &jsonschema.Schema{Not: &jsonschema.Schema{}}
	}
	return &jsonschema.Schema{}
}

// fieldSchema converts one FieldDef's constraint chain into a jsonschema.Schema.
// REQ/OPT affect the parent's `required` list rather than the field schema
// itself; APPEND_ONLY and DIR are write-path/routing concerns with no JSON
// Schema equivalent and are intentionally not projected.
func fieldSchema(field ast.FieldDef) *jsonschema.Schema {
	s := &jsonschema.Schema{}

	for _, c := range field.Constraint.Constraints {
		switch c.Kind {
		case ast.ConstraintTYPE:
			s.Type = jsonSchemaTypeName(c.Type)
		case ast.ConstraintENUM:
			for _, v := range c.Strings {
				s.Enum = append(s.Enum, v)
			}
		case ast.ConstraintCONST:
			if len(c.Strings) == 1 {
				v := any(c.Strings[0])
				s.Const = jsonschema.Ptr(v)
			}
		case ast.ConstraintREGEX:
			if len(c.Strings) == 1 {
				s.Pattern = c.Strings[0]
			}
		case ast.ConstraintRANGE:
			if len(c.Numbers) == 2 {
				min, max := c.Numbers[0], c.Numbers[1]
				s.Minimum = &min
				s.Maximum = &max
			}
		case ast.ConstraintMAX_LENGTH:
			if len(c.Numbers) == 1 {
				n := int(c.Numbers[0])
				s.MaxLength = &n
			}
		case ast.ConstraintMIN_LENGTH:
			if len(c.Numbers) == 1 {
				n := int(c.Numbers[0])
				s.MinLength = &n
			}
		case ast.ConstraintDATE:
			s.Type = "string"
			s.Format = "date"
		case ast.ConstraintISO8601:
			s.Type = "string"
			s.Format = "date-time"
		}
	}

	if s.Type == "" {
		if inferred := inferJSONSchemaType(field.Example); inferred != "" {
			s.Type = inferred
		}
	}

	return s
}

func jsonSchemaTypeName(t ast.ValueType) string {
	switch t {
	case ast.TypeString:
		return "string"
	case ast.TypeNumber:
		return "number"
	case ast.TypeList:
		return "array"
	case ast.TypeBoolean:
		return "boolean"
	default:
		return ""
	}
}

func inferJSONSchemaType(v ast.Value) string {
	switch v.(type) {
	case ast.String:
		return "string"
	case ast.Number:
		return "number"
	case ast.Boolean:
		return "boolean"
	case ast.List:
		return "array"
	default:
		return ""
	}
}
