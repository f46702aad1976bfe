package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.pk")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunCmdExecutesProgram(t *testing.T) {
	path := writeProgram(t, "1 + 1;")
	err := runCmd.RunE(runCmd, []string{path})
	assert.NoError(t, err)
}

func TestDisasmCmdListsInstructions(t *testing.T) {
	path := writeProgram(t, "var double = fun (x) { return x * 2; };")
	err := disasmCmd.RunE(disasmCmd, []string{path, "double"})
	assert.NoError(t, err)
}

func TestDeclsCmdListsToplevelBindings(t *testing.T) {
	path := writeProgram(t, "var answer = 42;")
	err := declsCmd.RunE(declsCmd, []string{path})
	assert.NoError(t, err)
}
