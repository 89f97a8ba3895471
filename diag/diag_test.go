package diag_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/diag"
	"github.com/elevanaltd/octave/token"
)

func TestRenderIncludesPositionAndCaret(t *testing.T) {
	t.Parallel()

	src := "A: 1\nB::2\n"
	rec := ast.NewError(ast.CodeE001, token.Position{Line: 1, Column: 2}, "single-colon assignment").
		WithContext("", "KEY::value", "KEY: value", "use `::` not `:`")

	out := diag.Render(src, rec, false)
	assert.Contains(t, out, "E001")
	assert.Contains(t, out, "single-colon assignment")
	assert.Contains(t, out, "1:2")
	assert.Contains(t, out, "A: 1")
	assert.Contains(t, out, "^")
	assert.Contains(t, out, "use `::` not `:`")
}

func TestRenderNoColorHasNoEscapeCodes(t *testing.T) {
	t.Parallel()

	rec := ast.NewWarning(ast.CodeWMultiword, token.Position{Line: 1, Column: 1}, "multiword bareword coalesced")
	out := diag.Render("A::b c\n", rec, false)
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderAllJoinsDiagnosticsInOrder(t *testing.T) {
	t.Parallel()

	src := "A: 1\nB: 2\n"
	diags := ast.Diagnostics{
		ast.NewError(ast.CodeE001, token.Position{Line: 1, Column: 2}, "first"),
		ast.NewError(ast.CodeE001, token.Position{Line: 2, Column: 2}, "second"),
	}

	out := diag.RenderAll(src, diags, false)
	firstIdx := strings.Index(out, "first")
	secondIdx := strings.Index(out, "second")
	assert.Greater(t, secondIdx, firstIdx)
}
