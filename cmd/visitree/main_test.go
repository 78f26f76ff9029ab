package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/visitree/pkg/tree"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestDemoThenDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.vt")
	code, out, errOut := runCLI(t, "demo", path)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, path)

	code, out, errOut = runCLI(t, "dump", path)
	require.Equal(t, 0, code, errOut)
	assert.True(t, strings.HasPrefix(out, "root: "))
	assert.Contains(t, out, "\n  Name: <Length|u32:8>, <Data|data:")
	assert.Contains(t, out, "<Seed|i64:-42>")

	code, out, errOut = runCLI(t, "dump", "-format", "yaml", path)
	require.Equal(t, 0, code, errOut)
	var snap tree.Snapshot
	require.NoError(t, yaml.Unmarshal([]byte(out), &snap))
	assert.Equal(t, "root", snap.Root.Name)

	code, out, errOut = runCLI(t, "dump", "-format", "cbor", path)
	require.Equal(t, 0, code, errOut)
	require.NoError(t, cbor.Unmarshal([]byte(out), &snap))
	assert.Equal(t, uint32(tree.VersionV1), snap.Version)
}

func TestConfigFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.vt")
	cfg := filepath.Join(dir, "visitree.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("format: yaml\nlog_level: error\n"), 0o644))

	code, _, errOut := runCLI(t, "-config", cfg, "demo", path)
	require.Equal(t, 0, code, errOut)
	code, out, errOut := runCLI(t, "-config", cfg, "dump", path)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "name: root")
}

func TestUsageErrors(t *testing.T) {
	code, _, errOut := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "usage")

	code, _, _ = runCLI(t, "frobnicate")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "dump")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "dump", "-format", "xml", filepath.Join(t.TempDir(), "x"))
	assert.Equal(t, 1, code, "missing file fails before the format is checked")
}

func TestDumpBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.vt")
	require.NoError(t, os.WriteFile(path, []byte("definitely junk"), 0o644))
	code, _, errOut := runCLI(t, "dump", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not a visitree document")
}

func TestProfile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "mem.prof")
	code, stdout, errOut := runCLI(t, "profile", "-n", "3", "-out", out)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, stdout, "3 round trips")
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}
