package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/token"
)

func TestDiagnosticsSplit(t *testing.T) {
	t.Parallel()

	diags := ast.Diagnostics{
		ast.NewWarning(ast.CodeWDuplicateKey, token.Position{Line: 1, Column: 1}, "dup"),
		ast.NewError(ast.CodeE001, token.Position{Line: 2, Column: 1}, "bad assignment"),
	}

	assert.Len(t, diags.Warnings(), 1)
	assert.Len(t, diags.Errors(), 1)
	assert.True(t, diags.HasErrors())
}

func TestAuditRecordWithContext(t *testing.T) {
	t.Parallel()

	r := ast.NewError(ast.CodeE001, token.Position{Line: 3, Column: 5}, "single colon").
		WithContext("KEY: value", "KEY::value", "KEY: value", "use `::` not `:`")

	assert.Equal(t, "use `::` not `:`", r.Hint)
	assert.Equal(t, "E001: single colon", r.Error())
}

func TestOperatorPrecedence(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		op   ast.Operator
		want int
	}{
		"concat tightest":    {ast.OpConcat, 2},
		"synthesis":          {ast.OpSynthesis, 3},
		"tension":            {ast.OpTension, 4},
		"constraint":         {ast.OpConstraint, 5},
		"alternative":        {ast.OpAlternative, 6},
		"flow loosest":       {ast.OpFlow, 7},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.op.Precedence())
		})
	}

	assert.True(t, ast.OpFlow.RightAssociative())
	assert.False(t, ast.OpConcat.RightAssociative())
	assert.True(t, ast.OpTension.IsBinaryOnly())
}
