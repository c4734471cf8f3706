package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCli(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestCommandsList(t *testing.T) {
	out, _, err := runCli(t, "commands")
	require.NoError(t, err)
	for _, name := range []string{"cursor_move_down", "paste_files", "bulk_rename", "tab_switch", "quit"} {
		assert.Contains(t, out, name)
	}
}

func TestKeymapPrintsConfiguredBindings(t *testing.T) {
	cfg := writeConfig(t, "keymap:\n  - keys: [\"x\"]\n    command: \"cd /tmp\"\n")
	out, _, err := runCli(t, "keymap", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "keymap:")
	assert.Contains(t, out, "cd /tmp")
	assert.Contains(t, out, "cursor_move_down")
}

func TestKeymapRejectsBadEntry(t *testing.T) {
	cfg := writeConfig(t, "keymap:\n  - keys: [\"x\"]\n    command: \"frobnicate\"\n")
	_, _, err := runCli(t, "keymap", "--config", cfg)
	assert.Error(t, err)
}

func TestBadConfigFallsBackToDefaults(t *testing.T) {
	cfg := writeConfig(t, "display: [not, a, map")
	out, errOut, err := runCli(t, "keymap", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, errOut, "using defaults")
	assert.Contains(t, out, "quit")
}

func TestMissingStartDirectory(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "absent.yaml")
	missing := filepath.Join(t.TempDir(), "nope")
	_, _, err := runCli(t, "--config", cfg, missing)
	assert.Error(t, err)
}

func TestTooManyArgs(t *testing.T) {
	_, _, err := runCli(t, "a", "b")
	assert.Error(t, err)
}

func TestStartDir(t *testing.T) {
	cfg := loadConfig(&bytes.Buffer{}, &options{configFile: filepath.Join(t.TempDir(), "absent.yaml")})

	dir, err := startDir(cfg, []string{"/tmp/../tmp"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp", dir)

	cfg.Directories.Start = "/var"
	dir, err = startDir(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "/var", dir)

	cfg.Directories.Start = ""
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir, err = startDir(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, wd, dir)
}

func TestSetupWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colfm", "config.yaml")
	out, _, err := runCli(t, "setup", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sort_method: natural")

	_, _, err = runCli(t, "setup", "--config", path)
	assert.ErrorContains(t, err, "already exists")
	_, _, err = runCli(t, "setup", "--config", path, "--force")
	assert.NoError(t, err)
}
