package router_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/lexer"
	"github.com/elevanaltd/octave/parser"
	"github.com/elevanaltd/octave/router"
)

func wrap(body string) string {
	return "===DOC===\n" + body + "===END===\n"
}

func parseSrc(t *testing.T, body string) ast.Document {
	t.Helper()
	res, err := lexer.Tokenize([]byte(wrap(body)))
	require.NoError(t, err)
	doc, diags := parser.Parse(res.Tokens)
	require.False(t, diags.HasErrors(), "%v", diags.Errors())
	return doc
}

func TestResolveBlockInheritance(t *testing.T) {
	t.Parallel()

	doc := parseSrc(t, ""+
		"GROUP[→§META]:\n"+
		"  A::1\n"+
		"  B::2\n")

	manifest, diags := router.Resolve(doc, ast.Policy{})
	require.Empty(t, diags)

	d, ok := manifest["META"]
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"DOC.GROUP.A", "DOC.GROUP.B"}, d.Fields)
}

func TestResolveChildOverrideReplaces(t *testing.T) {
	t.Parallel()

	doc := parseSrc(t, ""+
		"GROUP[→§META]:\n"+
		"  A::1\n"+
		"  CHILD[→§RISK_LOG]:\n"+
		"    X::1\n")

	manifest, diags := router.Resolve(doc, ast.Policy{})
	require.Empty(t, diags)

	metaFields := manifest["META"].Fields
	assert.ElementsMatch(t, []string{"DOC.GROUP.A"}, metaFields)

	riskFields := manifest["RISK_LOG"].Fields
	assert.ElementsMatch(t, []string{"DOC.GROUP.CHILD.X"}, riskFields)
}

func TestResolveUnknownTargetIsError(t *testing.T) {
	t.Parallel()

	doc := parseSrc(t, "GROUP[→§NOPE]:\n  A::1\n")

	_, diags := router.Resolve(doc, ast.Policy{})
	require.True(t, diags.HasErrors())
	assert.Equal(t, ast.CodeEUnknownTarget, diags.Errors()[0].Code)
}

func TestResolveCustomTargetDeclaredInPolicy(t *testing.T) {
	t.Parallel()

	doc := parseSrc(t, "GROUP[→§CUSTOM]:\n  A::1\n")

	manifest, diags := router.Resolve(doc, ast.Policy{Targets: []string{"CUSTOM"}})
	require.Empty(t, diags)
	assert.Contains(t, manifest, ast.TargetKey("CUSTOM"))
}

func TestResolveMultiBroadcastFansOut(t *testing.T) {
	t.Parallel()

	doc := parseSrc(t, "GROUP[→§SELF ∨ §META]:\n  A::1\n")

	manifest, diags := router.Resolve(doc, ast.Policy{})
	require.Empty(t, diags)
	assert.Contains(t, manifest, ast.TargetKey("SELF"))
	assert.Contains(t, manifest, ast.TargetKey("META"))
}
