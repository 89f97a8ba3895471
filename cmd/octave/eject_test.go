package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevanaltd/octave/log"
	"github.com/elevanaltd/octave/profile"
)

func TestEjectCmdJSONFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.oct.md")
	writeTestFile(t, path, "===DOC===\nA::1\n===END===\n")

	root := newRootCmd(log.NewConfig(), profile.NewConfig())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"eject", "--format", "json", path})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), `"A"`)
}

func TestEjectCmdGBNFFailsExplicitly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.oct.md")
	writeTestFile(t, path, "===DOC===\nA::1\n===END===\n")

	root := newRootCmd(log.NewConfig(), profile.NewConfig())
	var errOut bytes.Buffer
	root.SetErr(&errOut)
	root.SetArgs([]string{"eject", "--format", "gbnf", path})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "E_FORMAT_UNSUPPORTED")
}
