package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/pipeline"
)

const schemaSrc = "===SCHEMA===\n" +
	"POLICY:\n" +
	"  VERSION::1.0.0\n" +
	"  UNKNOWN_FIELDS::REJECT\n" +
	"  TARGETS::[SELF]\n" +
	"FIELDS:\n" +
	"  STATUS::[\"x\"∧REQUIRED→§SELF]\n" +
	"===END===\n"

func TestValidatePlainDocumentNoSchema(t *testing.T) {
	t.Parallel()

	result := pipeline.Validate(pipeline.ValidateInput{
		Content: []byte("===DOC===\nA::1\n===END===\n"),
	})
	assert.Equal(t, pipeline.StatusSuccess, result.Status)
	assert.Contains(t, result.Canonical, "A::1")
	assert.NotEmpty(t, result.CanonicalHash)
	assert.Nil(t, result.Schema)
}

func TestValidateRequireSchemaWithoutOneIsE002(t *testing.T) {
	t.Parallel()

	result := pipeline.Validate(pipeline.ValidateInput{
		Content:       []byte("===DOC===\nA::1\n===END===\n"),
		RequireSchema: true,
	})
	require.True(t, result.Diagnostics.HasErrors())
	assert.Equal(t, ast.CodeE002, result.Diagnostics.Errors()[0].Code)
}

func TestValidateWithExternalSchemaEvaluatesConstraints(t *testing.T) {
	t.Parallel()

	result := pipeline.Validate(pipeline.ValidateInput{
		Content:       []byte("===DOC===\nOTHER::1\n===END===\n"),
		SchemaContent: []byte(schemaSrc),
	})
	require.True(t, result.Diagnostics.HasErrors())
	assert.Equal(t, ast.CodeEMissingRequired, result.Diagnostics.Errors()[0].Code)
}

func TestValidateRoutesBlockTargetAnnotation(t *testing.T) {
	t.Parallel()

	ignoreSchema := "===SCHEMA===\n" +
		"POLICY:\n" +
		"  VERSION::1.0.0\n" +
		"  UNKNOWN_FIELDS::IGNORE\n" +
		"  TARGETS::[SELF]\n" +
		"FIELDS:\n" +
		"  STATUS::[\"x\"∧OPTIONAL→§SELF]\n" +
		"===END===\n"

	result := pipeline.Validate(pipeline.ValidateInput{
		Content:       []byte("===DOC===\nGROUP[→§SELF]:\n  STATUS::\"ok\"\n===END===\n"),
		SchemaContent: []byte(ignoreSchema),
	})
	require.False(t, result.Diagnostics.HasErrors())
	require.NotNil(t, result.Manifest)
	d, ok := result.Manifest["SELF"]
	require.True(t, ok)
	assert.True(t, d.Delivered)
	assert.Contains(t, d.Fields, "DOC.GROUP.STATUS")
}

func TestWriteContentThenCASRejectsStaleHash(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "doc.md")

	first := pipeline.Write(pipeline.WriteInput{
		Content:    []byte("===DOC===\nA::1\n===END===\n"),
		TargetPath: target,
	})
	require.Equal(t, pipeline.StatusSuccess, first.Status)
	require.NotEmpty(t, first.CanonicalHash)

	second := pipeline.Write(pipeline.WriteInput{
		Content:    []byte("===DOC===\nA::2\n===END===\n"),
		TargetPath: target,
		BaseHash:   first.CanonicalHash,
	})
	require.Equal(t, pipeline.StatusSuccess, second.Status)

	stale := pipeline.Write(pipeline.WriteInput{
		Content:    []byte("===DOC===\nA::3\n===END===\n"),
		TargetPath: target,
		BaseHash:   first.CanonicalHash,
	})
	require.Equal(t, pipeline.StatusFailed, stale.Status)
	require.True(t, stale.Diagnostics.HasErrors())
	assert.Equal(t, ast.CodeEHash, stale.Diagnostics.Errors()[0].Code)

	onDisk, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(onDisk), "A::2")
}

func TestWriteChangesAmendsExistingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "doc.md")

	first := pipeline.Write(pipeline.WriteInput{
		Content:    []byte("===DOC===\nSTATUS::\"DRAFT\"\n===END===\n"),
		TargetPath: target,
	})
	require.Equal(t, pipeline.StatusSuccess, first.Status)

	second := pipeline.Write(pipeline.WriteInput{
		Changes:    map[string]any{"DOC.STATUS": "ACTIVE"},
		TargetPath: target,
	})
	require.Equal(t, pipeline.StatusSuccess, second.Status)

	onDisk, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(onDisk), "ACTIVE")
}

func TestWriteRejectsBothContentAndChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "doc.md")
	result := pipeline.Write(pipeline.WriteInput{
		Content:    []byte("===DOC===\nA::1\n===END===\n"),
		Changes:    map[string]any{"DOC.A": 2.0},
		TargetPath: target,
	})
	assert.Equal(t, pipeline.StatusFailed, result.Status)
}

func TestEjectJSONStripsMarkersAndReportsLossy(t *testing.T) {
	t.Parallel()

	result := pipeline.Eject(pipeline.EjectInput{
		Content: []byte("===DOC===\n§1\nA::1\n===END===\n"),
		Format:  pipeline.FormatJSON,
	})
	assert.True(t, result.Lossy)
	assert.Contains(t, result.Output, `"A"`)
}

func TestEjectGBNFFailsExplicitly(t *testing.T) {
	t.Parallel()

	result := pipeline.Eject(pipeline.EjectInput{
		Content: []byte("===DOC===\nA::1\n===END===\n"),
		Format:  pipeline.FormatGBNF,
	})
	require.True(t, result.Diagnostics.HasErrors())
	assert.Equal(t, ast.CodeEFormatUnsupported, result.Diagnostics.Errors()[0].Code)
}

func TestEjectExecutiveModeKeepsOnlyNamedBlocks(t *testing.T) {
	t.Parallel()

	result := pipeline.Eject(pipeline.EjectInput{
		Content: []byte("===DOC===\nMETA:\n  A::1\nTESTS:\n  B::2\n===END===\n"),
		Format:  pipeline.FormatOctave,
		Mode:    pipeline.ModeExecutive,
	})
	assert.Contains(t, result.Output, "META")
	assert.NotContains(t, result.Output, "TESTS")
}

func TestValidateBatchRunsConcurrently(t *testing.T) {
	t.Parallel()

	inputs := []pipeline.ValidateInput{
		{Content: []byte("===DOC===\nA::1\n===END===\n")},
		{Content: []byte("===DOC===\nB::2\n===END===\n")},
		{Content: []byte("===DOC===\nC::3\n===END===\n")},
	}

	results, err := pipeline.ValidateBatch(context.Background(), inputs, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, pipeline.StatusSuccess, r.Status)
	}
}
