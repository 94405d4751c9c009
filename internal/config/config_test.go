package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Output)
	assert.Empty(t, cfg.Package)
	assert.True(t, cfg.Comments)
	assert.Equal(t, "codec-generator/codable", cfg.Runtime)
	assert.Equal(t, 200*time.Millisecond, cfg.Debounce)
	assert.False(t, cfg.Verbose)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "codecgen.yaml", `
output: gen
package: filepkg
comments: false
debounce: 50ms
`)

	t.Setenv("CODECGEN_PACKAGE", "envpkg")

	cfg, err := Load(New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "gen", cfg.Output)
	assert.Equal(t, "envpkg", cfg.Package)
	assert.False(t, cfg.Comments)
	assert.Equal(t, 50*time.Millisecond, cfg.Debounce)
}

func TestLoad_Dotenv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "CODECGEN_VERBOSE=true\nCODECGEN_LOG_JSON=true\n")

	t.Cleanup(func() {
		_ = os.Unsetenv("CODECGEN_VERBOSE")
		_ = os.Unsetenv("CODECGEN_LOG_JSON")
	})

	cfg, err := Load(New(), dir)
	require.NoError(t, err)

	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.LogJSON)
}

func TestLoad_Explicit(t *testing.T) {
	v := New()
	v.Set(KeyOutput, "flags")
	v.Set(KeyWatch, true)

	cfg, err := Load(v, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "flags", cfg.Output)
	assert.True(t, cfg.Watch)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "package", content: "package: my-models\n"},
		{name: "output", content: "output: \"\"\n"},
		{name: "debounce", content: "debounce: -1s\n"},
		{name: "syntax", content: "output: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "codecgen.yaml", tt.content)

			_, err := Load(New(), dir)
			require.Error(t, err)
		})
	}
}
