package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/gerby-reader/internal/cmd"
)

func TestRunTUIWithoutTerminalReturnsError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	old := interactive
	interactive = func() bool { return false }
	defer func() { interactive = old }()

	err := runTUI(&cmd.Globals{}, "/tag/0001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal")
}

func TestIsInteractiveTerminalRejectsFiles(t *testing.T) {
	assert.False(t, isInteractiveTerminal(nil))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isInteractiveTerminal(f))
}

func TestRootRegistersCommands(t *testing.T) {
	root := newRoot()
	for _, name := range []string{"render", "serve", "browse", "search", "index", "config"} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
	for _, flag := range []string{"api", "jsonp", "verbose", "log-file"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRootHelpListsCommands(t *testing.T) {
	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--help"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "render")
	assert.Contains(t, out.String(), "serve")
}

func TestMainHelpFlagDoesNotExit(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"gerby", "--help"}
	defer func() { os.Args = oldArgs }()

	// main() should return normally for help (no os.Exit).
	main()
}
