// Package repair implements spec.md §4.8's REPAIR tier: opt-in (fix=true),
// narrow coercions — ENUM casefold when unambiguous, string→number/boolean
// coercion when TYPE demands it — each logged as {rule_id, before, after,
// tier, safe, semantics_changed}. NORMALIZATION (always-on) lives in the
// normalize package; FORBIDDEN-tier changes (inventing required fields,
// collapsing ⇌ boundaries, strengthening claims) have no function here at
// all, by construction, not by a runtime guard.
package repair

import (
	"strconv"
	"strings"

	"github.com/elevanaltd/octave/ast"
)

// Log records one applied repair. An attempted but ambiguous repair
// produces a diagnostic instead, not a Log.
type Log struct {
	RuleID           string
	Path             string
	Before           string
	After            string
	Tier             string
	Safe             bool
	SemanticsChanged bool
}

const tierRepair = "REPAIR"

// ApplyDocument walks doc against sch, attempting a REPAIR-tier coercion
// at every field whose present value fails its constraint chain in a way
// this package knows how to fix. It returns the possibly-rewritten
// document, the log of applied repairs, and diagnostics for repairs that
// were attempted but refused (an ambiguous ENUM casefold is E006, not a
// silent no-op — spec.md §4.5).
func ApplyDocument(doc ast.Document, sch *ast.Schema) (ast.Document, []Log, ast.Diagnostics) {
	if sch == nil {
		return doc, nil, nil
	}

	var logs []Log
	var diags ast.Diagnostics

	out := ast.Document{Envelopes: make([]ast.Envelope, len(doc.Envelopes))}
	for i, env := range doc.Envelopes {
		children, elogs, ediags := applyNodes(env.Children, sch, env.Name)
		out.Envelopes[i] = ast.NewEnvelope(env.Pos(), env.Name, children)
		logs = append(logs, elogs...)
		diags = append(diags, ediags...)
	}
	return out, logs, diags
}

func applyNodes(nodes []ast.Node, sch *ast.Schema, path string) ([]ast.Node, []Log, ast.Diagnostics) {
	var logs []Log
	var diags ast.Diagnostics

	out := make([]ast.Node, len(nodes))
	for i, n := range nodes {
		switch node := n.(type) {
		case ast.Assignment:
			field, ok := sch.FieldByKey(node.Key)
			if !ok {
				out[i] = node
				continue
			}
			fieldPath := path + "." + node.Key
			newVal, log, diag, changed := repairValue(node.Value, field.Constraint, fieldPath)
			if changed {
				logs = append(logs, log)
				out[i] = ast.NewAssignment(node.Pos(), node.Key, newVal)
			} else {
				out[i] = node
			}
			if diag != nil {
				diags = append(diags, *diag)
			}

		case ast.Block:
			sub, hasSub := sch.Sections[node.Key]
			if !hasSub {
				out[i] = node
				continue
			}
			children, clogs, cdiags := applyNodes(node.Children, sub, path+"."+node.Key)
			out[i] = ast.NewBlock(node.Pos(), node.Key, node.Target, children, node.Depth)
			logs = append(logs, clogs...)
			diags = append(diags, cdiags...)

		default:
			out[i] = n
		}
	}

	return out, logs, diags
}

// repairValue attempts the one coercion that applies to val under chain,
// returning the possibly-replaced value, the log entry if a repair was
// applied, a diagnostic if a repair was attempted but refused, and whether
// val was actually replaced.
func repairValue(val ast.Value, chain ast.ConstraintChain, path string) (ast.Value, Log, *ast.AuditRecord, bool) {
	for _, c := range chain.Constraints {
		switch c.Kind {
		case ast.ConstraintENUM:
			if s, ok := val.(ast.String); ok {
				if newVal, log, diag, changed := repairEnum(s, c, path); changed || diag != nil {
					return newVal, log, diag, changed
				}
			}
		case ast.ConstraintTYPE:
			if s, ok := val.(ast.String); ok {
				if newVal, log, changed := repairType(s, c, path); changed {
					return newVal, log, nil, true
				}
			}
		}
	}
	return val, Log{}, nil, false
}

// repairEnum performs the unambiguous case-insensitive ENUM match
// spec.md §4.5 allows under REPAIR mode. Exactly one case-insensitive
// match coerces val.Value to the enum's canonical casing; more than one
// is E006 (ambiguous) and is left untouched.
func repairEnum(s ast.String, c ast.Constraint, path string) (ast.Value, Log, *ast.AuditRecord, bool) {
	for _, want := range c.Strings {
		if s.Value == want {
			return s, Log{}, nil, false // already an exact match, nothing to repair
		}
	}

	var matches []string
	for _, want := range c.Strings {
		if strings.EqualFold(s.Value, want) {
			matches = append(matches, want)
		}
	}

	switch len(matches) {
	case 0:
		return s, Log{}, nil, false
	case 1:
		repaired := ast.NewString(s.Pos(), matches[0], s.Raw, s.Triple)
		log := Log{
			RuleID: "enum-casefold", Path: path,
			Before: s.Value, After: matches[0],
			Tier: tierRepair, Safe: true, SemanticsChanged: false,
		}
		return repaired, log, nil, true
	default:
		diag := ast.NewError(ast.CodeE006, s.Pos(),
			path+": ambiguous case-insensitive ENUM match").
			WithContext(path, strings.Join(c.Strings, "|"), s.Value, "")
		return s, Log{}, &diag, false
	}
}

// repairType coerces a STRING (quoted or bare) into the NUMBER or BOOLEAN its
// TYPE constraint requires, when the string's text parses cleanly.
func repairType(s ast.String, c ast.Constraint, path string) (ast.Value, Log, bool) {
	switch c.Type {
	case ast.TypeNumber:
		v, err := strconv.ParseFloat(s.Value, 64)
		if err != nil {
			return s, Log{}, false
		}
		isInt := !strings.ContainsAny(s.Value, ".eE")
		repaired := ast.NewNumber(s.Pos(), s.Value, v, isInt)
		log := Log{
			RuleID: "type-coerce-number", Path: path,
			Before: s.Value, After: s.Value,
			Tier: tierRepair, Safe: true, SemanticsChanged: true,
		}
		return repaired, log, true

	case ast.TypeBoolean:
		lower := strings.ToLower(s.Value)
		if lower != "true" && lower != "false" {
			return s, Log{}, false
		}
		repaired := ast.NewBoolean(s.Pos(), lower == "true")
		log := Log{
			RuleID: "type-coerce-boolean", Path: path,
			Before: s.Value, After: lower,
			Tier: tierRepair, Safe: true, SemanticsChanged: false,
		}
		return repaired, log, true
	}
	return s, Log{}, false
}
