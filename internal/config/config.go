package config

import (
	"github.com/mherod/source-parse/internal/cache"
	"github.com/mherod/source-parse/internal/report"
	"github.com/mherod/source-parse/internal/scanner"
)

// Config represents the complete source-parse configuration.
// It can be loaded from .source-parse/config.yml with environment variable overrides.
type Config struct {
	Scan   ScanConfig   `yaml:"scan" mapstructure:"scan"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// ScanConfig defines which files are indexed.
type ScanConfig struct {
	Marker     string   `yaml:"marker" mapstructure:"marker"`         // directory segment a path must contain
	Extensions []string `yaml:"extensions" mapstructure:"extensions"` // dialect extensions to scan
	Ignore     []string `yaml:"ignore" mapstructure:"ignore"`         // glob patterns to ignore
}

// CacheConfig bounds the in-memory file content cache.
type CacheConfig struct {
	MaxBytes int `yaml:"max_bytes" mapstructure:"max_bytes"`
}

// OutputConfig controls how records are written.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // text, json, yaml or table
	DB     string `yaml:"db" mapstructure:"db"`         // optional SQLite export path
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Marker:     scanner.DefaultMarker,
			Extensions: []string{".kt", ".java"},
			Ignore:     []string{".git/**"},
		},
		Cache: CacheConfig{
			MaxBytes: cache.DefaultMaxBytes,
		},
		Output: OutputConfig{
			Format: report.FormatText,
		},
	}
}

// ScannerOptions converts the scan section into scanner options.
func (c *Config) ScannerOptions() scanner.Options {
	return scanner.Options{
		Marker:     c.Scan.Marker,
		Extensions: c.Scan.Extensions,
		Ignore:     c.Scan.Ignore,
	}
}
