// Package router implements spec.md §4.6: resolving each field's
// destination Target through block inheritance/override, validating
// target names against the builtin set and POLICY.TARGETS, and recording
// a routing Manifest that a transport layer would use to perform the
// actual multi-broadcast delivery (out of scope for this core).
package router

import (
	"sort"
	"strings"

	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/token"
)

// Delivery is one routing destination's resolved field set, spec.md's
// Open Question F in SPEC_FULL.md. Resolve never sets Reason: a target
// that fails validation is reported as an E_UNKNOWN_TARGET diagnostic,
// and its fields are still recorded here. Delivery success/failure is a
// transport-layer fact this core never observes, so Delivered is true for
// every recorded Delivery.
type Delivery struct {
	Target    ast.Target
	Fields    []string
	Delivered bool
	Reason    string
}

// Manifest maps a canonical TargetKey to its resolved Delivery.
type Manifest map[ast.TargetKey]Delivery

// Resolve walks doc's envelope bodies, threading target inheritance
// through nested Blocks (a child with no annotation of its own inherits
// the nearest ancestor's target; CHILD[→§OTHER]: replaces rather than
// merges) and recording which field path (ENVELOPE.BLOCK...KEY) routed
// to which target. A
// key under no established target (no ancestor annotation, no per-field
// §TARGET suffix) is left out of the manifest entirely — it isn't routed
// anywhere, which is not itself an error.
func Resolve(doc ast.Document, policy ast.Policy) (Manifest, ast.Diagnostics) {
	manifest := Manifest{}
	var diags ast.Diagnostics

	for _, env := range doc.Envelopes {
		walkNodes(env.Children, nil, policy, manifest, &diags, env.Name)
	}

	return manifest, diags
}

func walkNodes(nodes []ast.Node, inherited *ast.Target, policy ast.Policy, manifest Manifest, diags *ast.Diagnostics, path string) {
	for _, n := range nodes {
		switch node := n.(type) {
		case ast.Block:
			effective := inherited
			if node.Target != nil {
				effective = node.Target
				*diags = append(*diags, Validate(*effective, policy, node.Pos())...)
			}
			walkNodes(node.Children, effective, policy, manifest, diags, path+"."+node.Key)

		case ast.Assignment:
			effective := inherited
			if hp, ok := node.Value.(ast.HolographicPattern); ok && hp.Target != nil {
				effective = hp.Target
				*diags = append(*diags, Validate(*effective, policy, node.Pos())...)
			}
			if effective == nil {
				continue
			}
			record(manifest, *effective, path+"."+node.Key)
		}
	}
}

// record appends fieldPath to every concrete destination t resolves to,
// expanding a multi-broadcast target into one Delivery per member so a
// transport layer can observe the full intended fan-out (spec.md §4.6's
// "non-transactional" multi-broadcast).
func record(manifest Manifest, t ast.Target, fieldPath string) {
	if t.Kind == ast.TargetMulti {
		for _, member := range t.Multi {
			record(manifest, member, fieldPath)
		}
		return
	}
	key := Key(t)
	d := manifest[key]
	d.Target = t
	d.Delivered = true
	d.Fields = append(d.Fields, fieldPath)
	manifest[key] = d
}

// Key canonicalizes t into a comparable TargetKey.
func Key(t ast.Target) ast.TargetKey {
	switch t.Kind {
	case ast.TargetFile:
		return ast.TargetKey(t.Name)
	case ast.TargetMulti:
		parts := make([]string, len(t.Multi))
		for i, m := range t.Multi {
			parts[i] = string(Key(m))
		}
		sort.Strings(parts)
		return ast.TargetKey(strings.Join(parts, "|"))
	default:
		return ast.TargetKey(t.Name)
	}
}

// Validate reports E_UNKNOWN_TARGET for any builtin target not in
// ast.IsBuiltinTarget and any non-builtin, non-file target not declared in
// POLICY.TARGETS (spec.md §4.6's fourth rule). File-relative targets
// (§./path) are always valid — they name a destination by path, not by
// registration. A multi-broadcast target is validated member by member.
func Validate(t ast.Target, policy ast.Policy, pos token.Position) ast.Diagnostics {
	switch t.Kind {
	case ast.TargetFile:
		return nil
	case ast.TargetMulti:
		var diags ast.Diagnostics
		for _, member := range t.Multi {
			diags = append(diags, Validate(member, policy, pos)...)
		}
		return diags
	default:
		if ast.IsBuiltinTarget(t.Name) {
			return nil
		}
		if declaredIn(policy.Targets, t.Name) {
			return nil
		}
		return ast.Diagnostics{ast.NewError(ast.CodeEUnknownTarget, pos,
			"unknown routing target §"+t.Name).
			WithContext("target", "builtin or POLICY.TARGETS member", t.Name, "")}
	}
}

func declaredIn(targets []string, name string) bool {
	for _, t := range targets {
		if t == name {
			return true
		}
	}
	return false
}
