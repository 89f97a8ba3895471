package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/lexer"
	"github.com/elevanaltd/octave/parser"
	"github.com/elevanaltd/octave/schema"
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

func TestExtractPolicyAndFields(t *testing.T) {
	t.Parallel()

	doc := parseSrc(t, ""+
		"POLICY:\n"+
		"  VERSION::1.0.0\n"+
		"  UNKNOWN_FIELDS::WARN\n"+
		"  TARGETS::[SELF, META]\n"+
		"FIELDS:\n"+
		"  NAME::[\"example\"∧REQUIRED→§SELF]\n")

	sch, diags := schema.Extract(doc)
	require.False(t, diags.HasErrors(), "%v", diags.Errors())
	require.NotNil(t, sch)

	assert.Equal(t, "1.0.0", sch.Policy.Version)
	assert.Equal(t, ast.UnknownWarn, sch.Policy.UnknownFields)
	assert.Equal(t, []string{"SELF", "META"}, sch.Policy.Targets)

	field, ok := sch.FieldByKey("NAME")
	require.True(t, ok)
	assert.NotNil(t, field.Target)
}

func TestExtractMissingPolicyKeysIsError(t *testing.T) {
	t.Parallel()

	doc := parseSrc(t, "POLICY:\n  VERSION::1.0.0\n")
	_, diags := schema.Extract(doc)
	require.True(t, diags.HasErrors())
	assert.Equal(t, ast.CodeEMissingRequired, diags.Errors()[0].Code)
}

func TestConflictingReqAndOptIsError(t *testing.T) {
	t.Parallel()

	doc := parseSrc(t, ""+
		"POLICY:\n"+
		"  VERSION::1.0.0\n"+
		"  UNKNOWN_FIELDS::REJECT\n"+
		"  TARGETS::[SELF]\n"+
		"FIELDS:\n"+
		"  NAME::[\"x\"∧REQUIRED∧OPTIONAL→§SELF]\n")

	_, diags := schema.Extract(doc)
	require.True(t, diags.HasErrors())
	assert.Equal(t, ast.CodeEConflictingConstraints, diags.Errors()[0].Code)
}

func TestEvaluateDocumentMissingRequiredField(t *testing.T) {
	t.Parallel()

	schemaDoc := parseSrc(t, ""+
		"POLICY:\n"+
		"  VERSION::1.0.0\n"+
		"  UNKNOWN_FIELDS::REJECT\n"+
		"  TARGETS::[SELF]\n"+
		"FIELDS:\n"+
		"  NAME::[\"x\"∧REQUIRED→§SELF]\n")
	sch, diags := schema.Extract(schemaDoc)
	require.False(t, diags.HasErrors())

	dataDoc := parseSrc(t, "OTHER::5\n")
	edigs := schema.EvaluateDocument(dataDoc, sch)
	require.True(t, edigs.HasErrors())
	assert.Equal(t, ast.CodeEMissingRequired, edigs.Errors()[0].Code)
}

func TestEvaluateDocumentUnknownFieldReject(t *testing.T) {
	t.Parallel()

	schemaDoc := parseSrc(t, ""+
		"POLICY:\n"+
		"  VERSION::1.0.0\n"+
		"  UNKNOWN_FIELDS::REJECT\n"+
		"  TARGETS::[SELF]\n"+
		"FIELDS:\n"+
		"  NAME::[\"x\"∧OPTIONAL→§SELF]\n")
	sch, diags := schema.Extract(schemaDoc)
	require.False(t, diags.HasErrors())

	dataDoc := parseSrc(t, "NAME::\"a\"\nEXTRA::5\n")
	edigs := schema.EvaluateDocument(dataDoc, sch)
	require.True(t, edigs.HasErrors())
	assert.Equal(t, ast.CodeEUnknownField, edigs.Errors()[0].Code)
}

func TestEvaluateConstraintTypeMismatch(t *testing.T) {
	t.Parallel()

	schemaDoc := parseSrc(t, ""+
		"POLICY:\n"+
		"  VERSION::1.0.0\n"+
		"  UNKNOWN_FIELDS::IGNORE\n"+
		"  TARGETS::[SELF]\n"+
		"FIELDS:\n"+
		"  COUNT::[1∧TYPE[NUMBER]→§SELF]\n")
	sch, diags := schema.Extract(schemaDoc)
	require.False(t, diags.HasErrors())

	dataDoc := parseSrc(t, "COUNT::\"not-a-number\"\n")
	edigs := schema.EvaluateDocument(dataDoc, sch)
	require.True(t, edigs.HasErrors())
	assert.Equal(t, ast.CodeEConstraintViolation, edigs.Errors()[0].Code)
}

func TestEvaluateDateRejectsFullTimestamp(t *testing.T) {
	t.Parallel()

	schemaDoc := parseSrc(t, ""+
		"POLICY:\n"+
		"  VERSION::1.0.0\n"+
		"  UNKNOWN_FIELDS::IGNORE\n"+
		"  TARGETS::[SELF]\n"+
		"FIELDS:\n"+
		"  WHEN::[\"2024-01-15\"∧DATE→§SELF]\n")
	sch, diags := schema.Extract(schemaDoc)
	require.False(t, diags.HasErrors())

	dataDoc := parseSrc(t, "WHEN::\"2024-01-15T10:30:00+05:00\"\n")
	edigs := schema.EvaluateDocument(dataDoc, sch)
	require.True(t, edigs.HasErrors())
	assert.Equal(t, ast.CodeEConstraintViolation, edigs.Errors()[0].Code)

	okDoc := parseSrc(t, "WHEN::\"2024-01-15\"\n")
	okDiags := schema.EvaluateDocument(okDoc, sch)
	assert.False(t, okDiags.HasErrors(), "%v", okDiags.Errors())
}

func TestToJSONSchemaMarksRequired(t *testing.T) {
	t.Parallel()

	doc := parseSrc(t, ""+
		"POLICY:\n"+
		"  VERSION::1.0.0\n"+
		"  UNKNOWN_FIELDS::REJECT\n"+
		"  TARGETS::[SELF]\n"+
		"FIELDS:\n"+
		"  NAME::[\"x\"∧REQUIRED→§SELF]\n")
	sch, diags := schema.Extract(doc)
	require.False(t, diags.HasErrors())

	js := schema.ToJSONSchema(sch)
	assert.Equal(t, "object", js.Type)
	assert.Contains(t, js.Required, "NAME")
	assert.NotNil(t, js.Properties["NAME"])
}
