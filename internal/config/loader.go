package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DirName is the per-project configuration directory under the scan root.
const DirName = ".source-parse"

// EnvPrefix prefixes environment overrides, e.g. SOURCE_PARSE_SCAN_MARKER.
const EnvPrefix = "SOURCE_PARSE"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a new configuration loader for the given root directory.
// A non-empty configFile replaces the .source-parse/config.yml lookup.
func NewLoader(rootDir, configFile string) Loader {
	return &loader{
		rootDir:    rootDir,
		configFile: configFile,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (SOURCE_PARSE_*)
// 2. Config file (.source-parse/config.yml or .source-parse/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, DirName))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// SOURCE_PARSE_SCAN_MARKER -> scan.marker
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("scan.marker")
	v.BindEnv("scan.extensions")
	v.BindEnv("scan.ignore")
	v.BindEnv("cache.max_bytes")
	v.BindEnv("output.format")
	v.BindEnv("output.db")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is acceptable - we'll use defaults + env vars.
		// An explicit --config path must exist.
		var notFound viper.ConfigFileNotFoundError
		if l.configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("scan.marker", defaults.Scan.Marker)
	v.SetDefault("scan.extensions", defaults.Scan.Extensions)
	v.SetDefault("scan.ignore", defaults.Scan.Ignore)

	v.SetDefault("cache.max_bytes", defaults.Cache.MaxBytes)

	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.db", defaults.Output.DB)
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir, "").Load()
}
