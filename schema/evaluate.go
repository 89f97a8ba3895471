package schema

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/elevanaltd/octave/ast"
)

// EvaluateDocument runs sch's FIELDS constraints and §4.7 unknown-field
// policy over doc's envelope bodies. Each block is checked in one pass
// that reports REQ/OPT presence and the remaining constraint kinds in
// FIELDS declaration order, then unknown keys in source order, then the
// nested sections, so the caller gets every violation rather than failing
// fast at the document level (fail-fast applies within a single field's
// chain, not across fields — spec.md §4.5).
func EvaluateDocument(doc ast.Document, sch *ast.Schema) ast.Diagnostics {
	if sch == nil {
		return nil
	}
	var diags ast.Diagnostics
	for _, env := range doc.Envelopes {
		diags = append(diags, evaluateBlock(env.Children, sch, env.Name)...)
	}
	return diags
}

func evaluateBlock(nodes []ast.Node, sch *ast.Schema, path string) ast.Diagnostics {
	var diags ast.Diagnostics

	present := map[string]ast.Value{}
	actual := map[string]ast.Node{}
	var order []string
	for _, n := range nodes {
		switch v := n.(type) {
		case ast.Assignment:
			present[v.Key] = v.Value
			actual[v.Key] = v
			order = append(order, v.Key)
		case ast.Block:
			actual[v.Key] = v
			order = append(order, v.Key)
		}
	}

	for _, field := range sch.Fields {
		fieldPath := path + "." + field.Key
		val, ok := present[field.Key]
		required := hasConstraintKind(field.Constraint, ast.ConstraintREQ)
		if !ok {
			if required {
				diags = append(diags, ast.NewError(ast.CodeEMissingRequired, field.Pos,
					fmt.Sprintf("%s: required field missing", fieldPath)).
					WithContext(fieldPath, "present", "absent", ""))
			}
			continue
		}
		diags = append(diags, evaluateChain(val, field.Constraint, fieldPath)...)
	}

	for _, key := range order {
		node := actual[key]
		if key == "POLICY" || key == "FIELDS" {
			continue
		}
		if _, declared := sch.FieldByKey(key); declared {
			continue
		}
		if _, hasSection := sch.Sections[key]; hasSection {
			continue
		}
		pos := node.Pos()
		switch sch.Policy.UnknownFields {
		case ast.UnknownReject:
			diags = append(diags, ast.NewError(ast.CodeEUnknownField, pos,
				fmt.Sprintf("%s.%s: unknown field under REJECT policy", path, key)))
		case ast.UnknownWarn:
			diags = append(diags, ast.NewWarning(ast.CodeWUnknownField, pos,
				fmt.Sprintf("%s.%s: unknown field", path, key)))
		case ast.UnknownIgnore:
			// Retained silently, no diagnostic: the governed tree keeps the
			// key but neither validates nor complains about it.
		}
	}

	for _, n := range nodes {
		block, ok := n.(ast.Block)
		if !ok {
			continue
		}
		if sub, ok := sch.Sections[block.Key]; ok {
			diags = append(diags, evaluateBlock(block.Children, sub, path+"."+block.Key)...)
		}
	}

	return diags
}

func hasConstraintKind(chain ast.ConstraintChain, kind ast.ConstraintKind) bool {
	for _, c := range chain.Constraints {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

// evaluateChain runs chain's constraints against val left-to-right,
// stopping at the first failure (spec.md §4.5 fail-fast evaluation).
func evaluateChain(val ast.Value, chain ast.ConstraintChain, path string) ast.Diagnostics {
	for _, c := range chain.Constraints {
		if rec, ok := evaluateConstraint(val, c, path); !ok {
			return ast.Diagnostics{rec}
		}
	}
	return nil
}

func evaluateConstraint(val ast.Value, c ast.Constraint, path string) (ast.AuditRecord, bool) {
	switch c.Kind {
	case ast.ConstraintREQ, ast.ConstraintOPT, ast.ConstraintDIR, ast.ConstraintAPPEND_ONLY:
		// REQ/OPT presence is checked by the caller before the chain runs
		// at all; DIR and APPEND_ONLY are routing/write-path concerns
		// enforced by router and store respectively, not here.
		return ast.AuditRecord{}, true
	case ast.ConstraintTYPE:
		return evalType(val, c, path)
	case ast.ConstraintRANGE:
		return evalRange(val, c, path)
	case ast.ConstraintMAX_LENGTH:
		return evalLength(val, c, path, true)
	case ast.ConstraintMIN_LENGTH:
		return evalLength(val, c, path, false)
	case ast.ConstraintENUM:
		return evalEnum(val, c, path)
	case ast.ConstraintCONST:
		return evalConst(val, c, path)
	case ast.ConstraintREGEX:
		return evalRegex(val, c, path)
	case ast.ConstraintDATE:
		return evalDate(val, path, false)
	case ast.ConstraintISO8601:
		return evalDate(val, path, true)
	}
	return ast.AuditRecord{}, true
}

func typeName(t ast.ValueType) string {
	switch t {
	case ast.TypeString:
		return "STRING"
	case ast.TypeNumber:
		return "NUMBER"
	case ast.TypeList:
		return "LIST"
	case ast.TypeBoolean:
		return "BOOLEAN"
	default:
		return "?"
	}
}

func valueKind(v ast.Value) string {
	switch v.(type) {
	case ast.String:
		return "STRING"
	case ast.Number:
		return "NUMBER"
	case ast.Boolean:
		return "BOOLEAN"
	case ast.List:
		return "LIST"
	case ast.Null:
		return "NULL"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func evalType(v ast.Value, c ast.Constraint, path string) (ast.AuditRecord, bool) {
	var ok bool
	switch c.Type {
	case ast.TypeString:
		_, ok = v.(ast.String)
	case ast.TypeNumber:
		if _, isBool := v.(ast.Boolean); !isBool {
			_, ok = v.(ast.Number)
		}
	case ast.TypeList:
		_, ok = v.(ast.List)
	case ast.TypeBoolean:
		_, ok = v.(ast.Boolean)
	}
	if ok {
		return ast.AuditRecord{}, true
	}
	rec := ast.NewError(ast.CodeEConstraintViolation, v.Pos(),
		fmt.Sprintf("%s: TYPE constraint failed", path)).
		WithContext(path, typeName(c.Type), valueKind(v), "")
	return rec, false
}

func evalRange(v ast.Value, c ast.Constraint, path string) (ast.AuditRecord, bool) {
	n, ok := v.(ast.Number)
	if !ok || len(c.Numbers) != 2 {
		rec := ast.NewError(ast.CodeEConstraintViolation, v.Pos(),
			fmt.Sprintf("%s: RANGE requires a NUMBER value", path)).
			WithContext(path, "NUMBER", valueKind(v), "")
		return rec, false
	}
	min, max := c.Numbers[0], c.Numbers[1]
	if n.Value < min || n.Value > max {
		rec := ast.NewError(ast.CodeEConstraintViolation, v.Pos(),
			fmt.Sprintf("%s: RANGE constraint failed", path)).
			WithContext(path, fmt.Sprintf("[%g,%g]", min, max), n.Raw, "")
		return rec, false
	}
	return ast.AuditRecord{}, true
}

func textLength(v ast.Value) (string, int, bool) {
	switch val := v.(type) {
	case ast.String:
		return val.Value, len([]rune(val.Value)), true
	case ast.List:
		return "", len(val.Items), true
	default:
		return "", 0, false
	}
}

func evalLength(v ast.Value, c ast.Constraint, path string, isMax bool) (ast.AuditRecord, bool) {
	name := "MIN_LENGTH"
	if isMax {
		name = "MAX_LENGTH"
	}
	_, n, ok := textLength(v)
	if !ok || len(c.Numbers) != 1 {
		rec := ast.NewError(ast.CodeEConstraintViolation, v.Pos(),
			fmt.Sprintf("%s: %s requires a STRING or LIST value", path, name)).
			WithContext(path, "STRING|LIST", valueKind(v), "")
		return rec, false
	}
	limit := int(c.Numbers[0])
	bad := (isMax && n > limit) || (!isMax && n < limit)
	if bad {
		rec := ast.NewError(ast.CodeEConstraintViolation, v.Pos(),
			fmt.Sprintf("%s: %s constraint failed", path, name)).
			WithContext(path, fmt.Sprintf("%d", limit), fmt.Sprintf("%d", n), "")
		return rec, false
	}
	return ast.AuditRecord{}, true
}

func evalEnum(v ast.Value, c ast.Constraint, path string) (ast.AuditRecord, bool) {
	got := valueText(v)
	for _, want := range c.Strings {
		if got == want {
			return ast.AuditRecord{}, true
		}
	}
	rec := ast.NewError(ast.CodeEConstraintViolation, v.Pos(),
		fmt.Sprintf("%s: ENUM constraint failed", path)).
		WithContext(path, strings.Join(c.Strings, "|"), got, "")
	return rec, false
}

func evalConst(v ast.Value, c ast.Constraint, path string) (ast.AuditRecord, bool) {
	if len(c.Strings) != 1 {
		return ast.AuditRecord{}, true
	}
	got := valueText(v)
	if got == c.Strings[0] {
		return ast.AuditRecord{}, true
	}
	rec := ast.NewError(ast.CodeEConstraintViolation, v.Pos(),
		fmt.Sprintf("%s: CONST constraint failed", path)).
		WithContext(path, c.Strings[0], got, "")
	return rec, false
}

func evalRegex(v ast.Value, c ast.Constraint, path string) (ast.AuditRecord, bool) {
	s, ok := v.(ast.String)
	if !ok || len(c.Strings) != 1 {
		rec := ast.NewError(ast.CodeEConstraintViolation, v.Pos(),
			fmt.Sprintf("%s: REGEX requires a STRING value", path)).
			WithContext(path, "STRING", valueKind(v), "")
		return rec, false
	}
	re, err := regexp.Compile(c.Strings[0])
	if err != nil {
		rec := ast.NewError(ast.CodeEConstraintViolation, v.Pos(),
			fmt.Sprintf("%s: REGEX pattern %q does not compile: %v", path, c.Strings[0], err)).
			WithContext(path, c.Strings[0], s.Value, "")
		return rec, false
	}
	if !re.MatchString(s.Value) {
		rec := ast.NewError(ast.CodeEConstraintViolation, v.Pos(),
			fmt.Sprintf("%s: REGEX constraint failed", path)).
			WithContext(path, c.Strings[0], s.Value, "")
		return rec, false
	}
	return ast.AuditRecord{}, true
}

// dateLayout is the §4.5 DATE constraint's only accepted form: a strict
// calendar date, not the full timestamp ISO8601 requires.
const dateLayout = "2006-01-02"

func evalDate(v ast.Value, path string, strictISO bool) (ast.AuditRecord, bool) {
	s, ok := v.(ast.String)
	if !ok {
		name := "DATE"
		if strictISO {
			name = "ISO8601"
		}
		rec := ast.NewError(ast.CodeEConstraintViolation, v.Pos(),
			fmt.Sprintf("%s: %s requires a STRING value", path, name)).
			WithContext(path, "STRING", valueKind(v), "")
		return rec, false
	}
	if strictISO {
		if _, err := time.Parse(time.RFC3339, s.Value); err == nil {
			return ast.AuditRecord{}, true
		}
		rec := ast.NewError(ast.CodeEConstraintViolation, v.Pos(),
			fmt.Sprintf("%s: ISO8601 constraint failed", path)).
			WithContext(path, "RFC3339 timestamp", s.Value, "")
		return rec, false
	}
	if _, err := time.Parse(dateLayout, s.Value); err == nil {
		return ast.AuditRecord{}, true
	}
	rec := ast.NewError(ast.CodeEConstraintViolation, v.Pos(),
		fmt.Sprintf("%s: DATE constraint failed", path)).
		WithContext(path, "YYYY-MM-DD", s.Value, "")
	return rec, false
}
