package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevanaltd/octave/log"
	"github.com/elevanaltd/octave/profile"
)

func TestValidateCmdSucceedsOnPlainDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.oct.md")
	writeTestFile(t, path, "===DOC===\nA::1\n===END===\n")

	root := newRootCmd(log.NewConfig(), profile.NewConfig())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"validate", path})

	err := root.Execute()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "A::1")
}

func TestValidateCmdJSONOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.oct.md")
	writeTestFile(t, path, "===DOC===\nA::1\n===END===\n")

	root := newRootCmd(log.NewConfig(), profile.NewConfig())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"validate", "--json", path})

	err := root.Execute()
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"status": "success"`)
}

func TestValidateCmdRequireSchemaFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.oct.md")
	writeTestFile(t, path, "===DOC===\nA::1\n===END===\n")

	root := newRootCmd(log.NewConfig(), profile.NewConfig())
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"validate", "--require-schema", path})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "E002")
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
