package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"process", "batch", "serve", "runs", "classify"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "sds-assess", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCommand_LogLevelOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(func() { logLevel = "" })

	flag := rootCmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, flag)
	require.NoError(t, flag.Value.Set("debug"))

	require.NoError(t, setup(classifyCmd, nil))
	require.NotNil(t, cfg)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(func() { logLevel = "" })

	logLevel = "loud"
	err := setup(classifyCmd, nil)
	assert.ErrorContains(t, err, "init logger")
}

func TestProcessCommand_Flags(t *testing.T) {
	flag := processCmd.Flags().Lookup("file")
	require.NotNil(t, flag, "process command should have --file flag")
}

func TestBatchCommand_Flags(t *testing.T) {
	flag := batchCmd.Flags().Lookup("glob")
	require.NotNil(t, flag, "batch command should have --glob flag")

	limit := batchCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "0", limit.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestRunsCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range runsCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["list"])
	assert.True(t, names["show"])
}
