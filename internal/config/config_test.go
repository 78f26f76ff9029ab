package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaults(t *testing.T) {
	c := Default()
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, FormatText, c.Format)
	assert.False(t, c.AllowDuplicateNames)
	require.NoError(t, c.Validate())
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte("log_level: debug\nformat: yaml\ndevelopment: true\nallow_duplicate_names: true\n"))
	require.NoError(t, err)
	assert.Equal(t, &Config{LogLevel: "debug", Format: FormatYAML, Development: true, AllowDuplicateNames: true}, c)

	l, err := c.NewLogger()
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"bad yaml", "log_level: [\n"},
		{"bad level", "log_level: loud\n"},
		{"bad format", "format: xml\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			require.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visitree.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: cbor\n"), 0o644))
	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, FormatCBOR, c.Format)
	assert.Equal(t, "warn", c.LogLevel)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoggerLevel(t *testing.T) {
	l, err := Default().NewLogger()
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}
