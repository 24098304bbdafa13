package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mherod/source-parse/internal/cache"
)

// Test Plan for Config System:
// - Default() returns the plain scan behaviour (src marker, .kt + .java, text)
// - Load uses defaults when no config file exists
// - Load reads .source-parse/config.yml and merges with defaults
// - Load honours an explicit config file path
// - Environment variables override config file values
// - Load returns error for malformed YAML
// - Load returns error for a missing explicit config file
// - Validate rejects bad marker, extension, ignore glob, cache size and format
// - Validate reports several problems at once

func writeConfig(t *testing.T, root, content string) {
	t.Helper()
	dir := filepath.Join(root, DirName)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0644))
}

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "src", cfg.Scan.Marker)
	assert.Equal(t, []string{".kt", ".java"}, cfg.Scan.Extensions)
	assert.Equal(t, []string{".git/**"}, cfg.Scan.Ignore)
	assert.Equal(t, cache.DefaultMaxBytes, cfg.Cache.MaxBytes)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Empty(t, cfg.Output.DB)

	require.NoError(t, Validate(cfg))
}

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := LoadConfigFromDir(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ConfigFileMergesWithDefaults(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
scan:
  marker: source
  ignore:
    - "build/**"
output:
  format: json
`)

	cfg, err := LoadConfigFromDir(root)
	require.NoError(t, err)

	assert.Equal(t, "source", cfg.Scan.Marker)
	assert.Equal(t, []string{"build/**"}, cfg.Scan.Ignore)
	assert.Equal(t, []string{".kt", ".java"}, cfg.Scan.Extensions)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, cache.DefaultMaxBytes, cfg.Cache.MaxBytes)
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: table\n"), 0644))

	cfg, err := NewLoader(t.TempDir(), path).Load()
	require.NoError(t, err)
	assert.Equal(t, "table", cfg.Output.Format)

	_, err = NewLoader(t.TempDir(), filepath.Join(t.TempDir(), "missing.yaml")).Load()
	assert.Error(t, err)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "scan:\n  marker: source\n")

	t.Setenv("SOURCE_PARSE_SCAN_MARKER", "main")
	t.Setenv("SOURCE_PARSE_OUTPUT_FORMAT", "yaml")

	cfg, err := LoadConfigFromDir(root)
	require.NoError(t, err)
	assert.Equal(t, "main", cfg.Scan.Marker)
	assert.Equal(t, "yaml", cfg.Output.Format)
}

func TestLoad_MalformedYAML(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "scan: [unclosed\n")

	_, err := LoadConfigFromDir(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "output:\n  format: xml\n")

	_, err := LoadConfigFromDir(root)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestValidate_SingleErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty marker", func(c *Config) { c.Scan.Marker = " " }, ErrEmptyMarker},
		{"nested marker", func(c *Config) { c.Scan.Marker = "src/main" }, ErrInvalidMarker},
		{"unknown extension", func(c *Config) { c.Scan.Extensions = []string{".go"} }, ErrUnknownExtension},
		{"bad glob", func(c *Config) { c.Scan.Ignore = []string{"[oops"} }, ErrInvalidIgnore},
		{"negative cache", func(c *Config) { c.Cache.MaxBytes = -1 }, ErrInvalidCacheSize},
		{"bad format", func(c *Config) { c.Output.Format = "csv" }, ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, Validate(cfg), tt.want)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Scan.Marker = ""
	cfg.Output.Format = "csv"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "marker is required")
	assert.Contains(t, err.Error(), "csv")
}

func TestScannerOptions(t *testing.T) {
	cfg := Default()
	opts := cfg.ScannerOptions()

	assert.Equal(t, cfg.Scan.Marker, opts.Marker)
	assert.Equal(t, cfg.Scan.Extensions, opts.Extensions)
	assert.Equal(t, cfg.Scan.Ignore, opts.Ignore)
}
