package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/mherod/source-parse/internal/model"
	"github.com/mherod/source-parse/internal/report"
)

var (
	// ErrEmptyMarker indicates a missing source folder marker
	ErrEmptyMarker = errors.New("empty source folder marker")

	// ErrInvalidMarker indicates a marker that is not a single path segment
	ErrInvalidMarker = errors.New("invalid source folder marker")

	// ErrUnknownExtension indicates an extension with no known dialect
	ErrUnknownExtension = errors.New("unknown source extension")

	// ErrInvalidIgnore indicates an ignore pattern that does not compile
	ErrInvalidIgnore = errors.New("invalid ignore pattern")

	// ErrInvalidCacheSize indicates a negative cache bound
	ErrInvalidCacheSize = errors.New("invalid cache size")

	// ErrInvalidFormat indicates an unsupported output format
	ErrInvalidFormat = errors.New("invalid output format")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateScan(&cfg.Scan); err != nil {
		errs = append(errs, err)
	}

	if cfg.Cache.MaxBytes < 0 {
		errs = append(errs, fmt.Errorf("%w: max_bytes cannot be negative, got %d", ErrInvalidCacheSize, cfg.Cache.MaxBytes))
	}

	if err := validateOutput(&cfg.Output); err != nil {
		errs = append(errs, err)
	}

	return joinErrors(errs)
}

func validateScan(cfg *ScanConfig) error {
	var errs []error

	marker := strings.TrimSpace(cfg.Marker)
	switch {
	case marker == "":
		errs = append(errs, fmt.Errorf("%w: marker is required", ErrEmptyMarker))
	case strings.ContainsAny(marker, `/\`):
		errs = append(errs, fmt.Errorf("%w: must be a single directory name, got '%s'", ErrInvalidMarker, cfg.Marker))
	}

	for _, ext := range cfg.Extensions {
		if _, ok := model.DialectForExtension(ext); !ok {
			errs = append(errs, fmt.Errorf("%w: %s (valid: .kt, .java)", ErrUnknownExtension, ext))
		}
	}

	for _, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidIgnore, pattern, err))
		}
	}

	return joinErrors(errs)
}

func validateOutput(cfg *OutputConfig) error {
	format := strings.ToLower(strings.TrimSpace(cfg.Format))
	if format != "" && !slices.Contains(report.Formats(), format) {
		return fmt.Errorf("%w: must be one of %s, got '%s'", ErrInvalidFormat, strings.Join(report.Formats(), ", "), cfg.Format)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
