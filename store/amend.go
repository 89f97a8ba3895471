package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/token"
)

// deleteSentinel is a distinct type so it can never be confused with a Go
// nil (which means "set this field to the null literal").
type deleteSentinel struct{}

// Delete is the DELETE sentinel value, spec.md §4.10: a changes entry
// set to Delete removes the field instead of assigning it a value.
var Delete = deleteSentinel{}

// Amend applies a dot-path changes map to doc and returns the resulting
// document plus any diagnostics (unresolvable paths, APPEND_ONLY
// violations). It never mutates doc or any of its nodes in place; every
// touched Envelope/Block is rebuilt, mirroring normalize's functional
// rewrite style.
//
// A changes key like "META.STATUS" names an envelope ("META") and a
// dot-separated path of block keys down to a final assignment key
// ("STATUS"). Each value is one of:
//   - Delete: the field is removed entirely.
//   - nil: the field is set to the null literal (distinct from removal).
//   - string/float64/int/bool/[]any: the field is set to that value,
//     converted to the matching ast.Value.
func Amend(doc ast.Document, sch *ast.Schema, changes map[string]any) (ast.Document, ast.Diagnostics) {
	paths := make([]string, 0, len(changes))
	for p := range changes {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	envelopes := make([]ast.Envelope, len(doc.Envelopes))
	copy(envelopes, doc.Envelopes)

	var diags ast.Diagnostics
	for _, path := range paths {
		segs := strings.Split(path, ".")
		if len(segs) < 2 {
			diags = append(diags, ast.NewError(ast.CodeEUnknownField, token.Position{}, fmt.Sprintf("amendment path %q must be envelope.field", path)))
			continue
		}

		idx := -1
		for i, e := range envelopes {
			if e.Name == segs[0] {
				idx = i
				break
			}
		}
		if idx == -1 {
			diags = append(diags, ast.NewError(ast.CodeEUnknownField, token.Position{}, fmt.Sprintf("amendment path %q: no envelope %q", path, segs[0])))
			continue
		}

		newChildren, rec := amendNodes(envelopes[idx].Children, segs[1:], changes[path], sch, path)
		if rec != nil {
			diags = append(diags, *rec)
			continue
		}
		envelopes[idx] = ast.NewEnvelope(envelopes[idx].Pos(), envelopes[idx].Name, newChildren)
	}

	return ast.Document{Envelopes: envelopes}, diags
}

// amendNodes rewrites nodes for the next path segment in segs, recursing
// through Block children until the final segment names the assignment
// to delete/set. sch tracks the matching schema level so APPEND_ONLY can
// be enforced against the field that actually owns the constraint.
func amendNodes(nodes []ast.Node, segs []string, val any, sch *ast.Schema, path string) ([]ast.Node, *ast.AuditRecord) {
	if len(segs) == 0 {
		rec := ast.NewError(ast.CodeEUnknownField, token.Position{}, fmt.Sprintf("amendment path %q is incomplete", path))
		return nodes, &rec
	}

	key := segs[0]
	if len(segs) == 1 {
		return amendLeaf(nodes, key, val, sch, path)
	}

	for i, n := range nodes {
		blk, ok := n.(ast.Block)
		if !ok || blk.Key != key {
			continue
		}
		childSchema := sch
		if sch != nil {
			if sub, ok := sch.Sections[key]; ok {
				childSchema = sub
			}
		}
		newChildren, rec := amendNodes(blk.Children, segs[1:], val, childSchema, path)
		if rec != nil {
			return nodes, rec
		}
		out := make([]ast.Node, len(nodes))
		copy(out, nodes)
		out[i] = ast.NewBlock(blk.Pos(), blk.Key, blk.Target, newChildren, blk.Depth)
		return out, nil
	}

	rec := ast.NewError(ast.CodeEUnknownField, token.Position{}, fmt.Sprintf("amendment path %q: no block %q", path, key))
	return nodes, &rec
}

func amendLeaf(nodes []ast.Node, key string, val any, sch *ast.Schema, path string) ([]ast.Node, *ast.AuditRecord) {
	idx := -1
	var existing ast.Assignment
	for i, n := range nodes {
		if a, ok := n.(ast.Assignment); ok && a.Key == key {
			idx = i
			existing = a
			break
		}
	}

	if val == Delete {
		if idx == -1 {
			return nodes, nil
		}
		out := make([]ast.Node, 0, len(nodes)-1)
		out = append(out, nodes[:idx]...)
		out = append(out, nodes[idx+1:]...)
		return out, nil
	}

	field, hasField := sch.FieldByKey(key)
	newVal := toASTValue(token.Position{}, val)

	if hasField && isAppendOnly(field.Constraint) {
		oldList, wasList := existingList(idx, nodes)
		newList, isList := newVal.(ast.List)
		if wasList && (!isList || !isPrefixExtension(oldList, newList)) {
			rec := ast.NewError(ast.CodeEAppendOnlyViolation, token.Position{}, fmt.Sprintf("amendment path %q: APPEND_ONLY field must extend the prior list", path)).
				WithContext("", "a prefix-extension of the existing list", "a replacement that is not a superset-in-order", "drop the new elements that come before the old list's tail")
			return nodes, &rec
		}
	}

	if idx == -1 {
		out := make([]ast.Node, len(nodes)+1)
		copy(out, nodes)
		out[len(nodes)] = ast.NewAssignment(token.Position{}, key, newVal)
		return out, nil
	}

	out := make([]ast.Node, len(nodes))
	copy(out, nodes)
	out[idx] = ast.NewAssignment(existing.Pos(), key, newVal)
	return out, nil
}

func existingList(idx int, nodes []ast.Node) (ast.List, bool) {
	if idx == -1 {
		return ast.List{}, false
	}
	a, ok := nodes[idx].(ast.Assignment)
	if !ok {
		return ast.List{}, false
	}
	l, ok := a.Value.(ast.List)
	return l, ok
}

func isAppendOnly(chain ast.ConstraintChain) bool {
	for _, c := range chain.Constraints {
		if c.Kind == ast.ConstraintAPPEND_ONLY {
			return true
		}
	}
	return false
}

// isPrefixExtension reports whether next contains prior as a literal
// prefix, comparing items by their canonical text. Reordering is
// conservatively rejected along with shrinking, per spec.md's Open
// Questions note on APPEND_ONLY semantics.
func isPrefixExtension(prior, next ast.List) bool {
	if len(next.Items) < len(prior.Items) {
		return false
	}
	for i, item := range prior.Items {
		if valueKeyText(item) != valueKeyText(next.Items[i]) {
			return false
		}
	}
	return true
}

// valueKeyText gives a stable textual comparison key for a Value without
// importing the emit package (store must not depend on emit: emit's
// canonical form is a presentation concern, this is a structural one).
func valueKeyText(v ast.Value) string {
	switch val := v.(type) {
	case ast.String:
		return val.Value
	case ast.Number:
		return val.Raw
	case ast.Boolean:
		if val.Value {
			return "true"
		}
		return "false"
	case ast.Null:
		return "null"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// toASTValue converts a Go-native amendment value into the matching
// ast.Value. nil means the null literal, distinct from Delete.
func toASTValue(pos token.Position, val any) ast.Value {
	switch v := val.(type) {
	case nil:
		return ast.NewNull(pos)
	case string:
		return ast.NewString(pos, v, v, false)
	case bool:
		return ast.NewBoolean(pos, v)
	case float64:
		return ast.NewNumber(pos, formatAmendNumber(v), v, v == float64(int64(v)))
	case int:
		return ast.NewNumber(pos, fmt.Sprintf("%d", v), float64(v), true)
	case []any:
		items := make([]ast.Value, len(v))
		for i, e := range v {
			items[i] = toASTValue(pos, e)
		}
		return ast.NewList(pos, items, false)
	default:
		return ast.NewString(pos, fmt.Sprintf("%v", v), fmt.Sprintf("%v", v), false)
	}
}

func formatAmendNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
