// Package report writes scan records to an output stream.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mherod/source-parse/internal/model"
)

// Output formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// ErrUnknownFormat indicates an unsupported output format
var ErrUnknownFormat = errors.New("unknown output format")

// Reporter consumes finished records in arrival order.
type Reporter interface {
	Report(class model.SourceClass) error
	// Close flushes anything buffered. It does not close the writer.
	Close() error
}

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML, FormatTable}
}

// New returns a reporter for format writing to w.
func New(format string, w io.Writer) (Reporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return &textReporter{w: w}, nil
	case FormatJSON:
		return &jsonReporter{enc: json.NewEncoder(w)}, nil
	case FormatYAML:
		return &yamlReporter{enc: yaml.NewEncoder(w)}, nil
	case FormatTable:
		return newTableReporter(w), nil
	default:
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
}

// textReporter prints one display line per record.
type textReporter struct {
	w io.Writer
}

func (r *textReporter) Report(class model.SourceClass) error {
	_, err := fmt.Fprintln(r.w, class.String())
	return err
}

func (r *textReporter) Close() error { return nil }

// jsonReporter writes newline-delimited JSON.
type jsonReporter struct {
	enc *json.Encoder
}

func (r *jsonReporter) Report(class model.SourceClass) error {
	return r.enc.Encode(class)
}

func (r *jsonReporter) Close() error { return nil }

// yamlReporter writes one YAML document per record.
type yamlReporter struct {
	enc *yaml.Encoder
}

func (r *yamlReporter) Report(class model.SourceClass) error {
	return r.enc.Encode(class)
}

func (r *yamlReporter) Close() error {
	return r.enc.Close()
}

// Multi fans each record out to every reporter in order.
func Multi(reporters ...Reporter) Reporter {
	return multiReporter(reporters)
}

type multiReporter []Reporter

func (m multiReporter) Report(class model.SourceClass) error {
	for _, r := range m {
		if err := r.Report(class); err != nil {
			return err
		}
	}
	return nil
}

func (m multiReporter) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
