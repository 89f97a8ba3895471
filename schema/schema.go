// Package schema compiles a document's POLICY and FIELDS blocks into an
// ast.Schema, spec.md §4.4. Field definitions are holographic patterns
// already decomposed by the parser into (example, constraint-chain,
// target); this package's own work is locating the POLICY/FIELDS blocks,
// validating POLICY's required keys, and running chain-time conflict
// detection over each field's constraint chain.
package schema

import (
	"fmt"
	"strings"

	"github.com/elevanaltd/octave/ast"
)

// Extract walks doc's envelopes for POLICY and FIELDS blocks and compiles
// them into a Schema. Returns (nil, nil) if neither block is present —
// the caller (pipeline) decides whether that is itself an error (E002)
// for the operation being requested.
func Extract(doc ast.Document) (*ast.Schema, ast.Diagnostics) {
	var diags ast.Diagnostics
	var policyBlock, fieldsBlock *ast.Block

	for _, env := range doc.Envelopes {
		for _, node := range env.Children {
			block, ok := node.(ast.Block)
			if !ok {
				continue
			}
			switch block.Key {
			case "POLICY":
				b := block
				policyBlock = &b
			case "FIELDS":
				b := block
				fieldsBlock = &b
			}
		}
	}

	if policyBlock == nil && fieldsBlock == nil {
		return nil, diags
	}

	schema := &ast.Schema{}

	if policyBlock != nil {
		policy, pdiags := extractPolicy(*policyBlock)
		schema.Policy = policy
		diags = append(diags, pdiags...)
	} else {
		diags = append(diags, ast.NewError(ast.CodeEMissingRequired, fieldsBlock.Pos(),
			"FIELDS block present without a POLICY block"))
	}

	if fieldsBlock != nil {
		fields, sections, fdiags := extractFields(*fieldsBlock)
		schema.Fields = fields
		schema.Sections = sections
		diags = append(diags, fdiags...)
	}

	return schema, diags
}

// extractFields decomposes FIELDS block children: a plain Assignment
// becomes a FieldDef (typically a HolographicPattern value); a nested
// Block becomes a per-section sub-schema, recursively.
func extractFields(block ast.Block) ([]ast.FieldDef, map[string]*ast.Schema, ast.Diagnostics) {
	var fields []ast.FieldDef
	var diags ast.Diagnostics
	var sections map[string]*ast.Schema

	for _, node := range block.Children {
		switch n := node.(type) {
		case ast.Assignment:
			field, fdiags := fieldFromAssignment(n)
			fields = append(fields, field)
			diags = append(diags, fdiags...)

		case ast.Block:
			subFields, subSections, sdiags := extractFields(n)
			if sections == nil {
				sections = map[string]*ast.Schema{}
			}
			sections[n.Key] = &ast.Schema{Fields: subFields, Sections: subSections}
			diags = append(diags, sdiags...)

		default:
			// Comments/section markers inside FIELDS are not field
			// declarations; nothing to extract, nothing to complain about.
		}
	}

	return fields, sections, diags
}

func fieldFromAssignment(a ast.Assignment) (ast.FieldDef, ast.Diagnostics) {
	field := ast.FieldDef{Key: a.Key, Pos: a.Pos()}

	hp, ok := a.Value.(ast.HolographicPattern)
	if !ok {
		// Lenient: a bare value with no constraint chain declares the key
		// with an implicit empty chain (effectively unconstrained/OPT).
		field.Example = a.Value
		return field, nil
	}

	field.Example = hp.Example
	field.Target = hp.Target
	if hp.Constraint != nil {
		field.Constraint = *hp.Constraint
	}

	diags := checkChainConflicts(field.Constraint, a.Pos())
	return field, diags
}

func extractPolicy(block ast.Block) (ast.Policy, ast.Diagnostics) {
	var diags ast.Diagnostics
	policy := ast.Policy{UnknownFields: ast.UnknownReject}

	var haveVersion, haveUnknown, haveTargets bool

	for _, node := range block.Children {
		a, ok := node.(ast.Assignment)
		if !ok {
			continue
		}
		switch a.Key {
		case "VERSION":
			haveVersion = true
			policy.Version = valueText(a.Value)

		case "UNKNOWN_FIELDS":
			haveUnknown = true
			switch strings.ToUpper(valueText(a.Value)) {
			case "REJECT":
				policy.UnknownFields = ast.UnknownReject
			case "IGNORE":
				policy.UnknownFields = ast.UnknownIgnore
			case "WARN":
				policy.UnknownFields = ast.UnknownWarn
			default:
				diags = append(diags, ast.NewError(ast.CodeEMissingRequired, a.Pos(),
					fmt.Sprintf("UNKNOWN_FIELDS must be one of REJECT/IGNORE/WARN, got %q", valueText(a.Value))))
			}

		case "TARGETS":
			haveTargets = true
			if list, ok := a.Value.(ast.List); ok {
				for _, item := range list.Items {
					policy.Targets = append(policy.Targets, valueText(item))
				}
			}
		}
	}

	if !haveVersion {
		diags = append(diags, ast.NewError(ast.CodeEMissingRequired, block.Pos(), "POLICY.VERSION is required"))
	}
	if !haveUnknown {
		diags = append(diags, ast.NewError(ast.CodeEMissingRequired, block.Pos(), "POLICY.UNKNOWN_FIELDS is required"))
	}
	if !haveTargets {
		diags = append(diags, ast.NewError(ast.CodeEMissingRequired, block.Pos(), "POLICY.TARGETS is required"))
	}

	return policy, diags
}

func valueText(v ast.Value) string {
	switch val := v.(type) {
	case ast.String:
		return val.Value
	case ast.Number:
		return val.Raw
	case ast.Version:
		return val.Raw
	case ast.Boolean:
		if val.Value {
			return "true"
		}
		return "false"
	case ast.SectionRef:
		return val.Ref
	default:
		return ""
	}
}
