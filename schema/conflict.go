package schema

import (
	"fmt"

	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/token"
)

// checkChainConflicts runs spec.md §4.4's chain-time conflict detection
// over a single constraint chain: REQ∧OPT, ENUM/CONST with an empty
// intersection, and multiple CONST atoms disagreeing with each other.
func checkChainConflicts(chain ast.ConstraintChain, pos token.Position) ast.Diagnostics {
	var diags ast.Diagnostics

	var hasReq, hasOpt bool
	var enumValues []string
	var haveEnum bool
	var constValues []string

	for _, c := range chain.Constraints {
		switch c.Kind {
		case ast.ConstraintREQ:
			hasReq = true
		case ast.ConstraintOPT:
			hasOpt = true
		case ast.ConstraintENUM:
			haveEnum = true
			enumValues = c.Strings
		case ast.ConstraintCONST:
			constValues = append(constValues, c.Strings...)
		}
	}

	if hasReq && hasOpt {
		diags = append(diags, ast.NewError(ast.CodeEConflictingConstraints, pos,
			"REQ and OPT cannot both appear in one constraint chain"))
	}

	if len(constValues) > 1 {
		first := constValues[0]
		for _, v := range constValues[1:] {
			if v != first {
				diags = append(diags, ast.NewError(ast.CodeEConflictingConstraints, pos,
					fmt.Sprintf("CONST values disagree: %q vs %q", first, v)))
				break
			}
		}
	}

	if haveEnum && len(constValues) > 0 {
		if !intersects(enumValues, constValues) {
			diags = append(diags, ast.NewError(ast.CodeEConflictingConstraints, pos,
				"ENUM and CONST constraints have an empty intersection"))
		}
	}

	return diags
}

func intersects(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	for _, v := range b {
		if set[v] {
			return true
		}
	}
	return false
}
