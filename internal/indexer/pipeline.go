package indexer

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/mherod/source-parse/internal/cache"
	"github.com/mherod/source-parse/internal/extract"
	"github.com/mherod/source-parse/internal/model"
	"github.com/mherod/source-parse/internal/scanner"
)

// Sink receives finished records in the order they are produced.
type Sink interface {
	Report(class model.SourceClass) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(class model.SourceClass) error

// Report calls f(class).
func (f SinkFunc) Report(class model.SourceClass) error {
	return f(class)
}

// Stats summarises one scan.
type Stats struct {
	FilesScanned int           `json:"files_scanned"`
	Classes      int           `json:"classes"`
	Skipped      int           `json:"skipped"` // files without a class declaration
	Duration     time.Duration `json:"duration"`
}

// Indexer turns source files into SourceClass records.
type Indexer struct {
	source   cache.ContentSource
	progress ProgressReporter
}

// New creates an indexer reading content from source. A nil progress
// reporter disables progress callbacks.
func New(source cache.ContentSource, progress ProgressReporter) *Indexer {
	if source == nil {
		source = cache.FileSource{}
	}
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}
	return &Indexer{source: source, progress: progress}
}

// IndexFile builds the record for one file. It returns false when the file
// has no class declaration. Read failures are returned as errors.
func (idx *Indexer) IndexFile(entry scanner.Entry) (model.SourceClass, bool, error) {
	content, err := idx.source.Read(entry.Path)
	if err != nil {
		return model.SourceClass{}, false, err
	}

	pkg, _ := extract.Package(content)

	className, ok := extract.ClassName(content)
	if !ok {
		return model.SourceClass{}, false, nil
	}

	class := model.NewSourceClass(entry.Rel, pkg, className)

	class, err = idx.HydrateImports(entry, class)
	if err != nil {
		return model.SourceClass{}, false, err
	}

	class, err = idx.HydrateProperties(entry, class)
	if err != nil {
		return model.SourceClass{}, false, err
	}

	return class, true, nil
}

// HydrateImports re-reads the file and replaces the record's imports.
// Records of non-hydrated dialects are returned unchanged.
func (idx *Indexer) HydrateImports(entry scanner.Entry, class model.SourceClass) (model.SourceClass, error) {
	if !entry.Dialect.Hydrate {
		return class, nil
	}
	content, err := idx.source.Read(entry.Path)
	if err != nil {
		return class, err
	}
	return class.WithImports(extract.Imports(content)), nil
}

// HydrateProperties re-reads the file and replaces the record's properties.
// Records of non-hydrated dialects are returned unchanged.
func (idx *Indexer) HydrateProperties(entry scanner.Entry, class model.SourceClass) (model.SourceClass, error) {
	if !entry.Dialect.Hydrate {
		return class, nil
	}
	content, err := idx.source.Read(entry.Path)
	if err != nil {
		return class, err
	}
	return class.WithProperties(extract.Properties(content)), nil
}

// Run indexes every entry in order and hands each record to sink. The first
// walk, read or sink error aborts the run; records already delivered stay
// delivered.
func (idx *Indexer) Run(ctx context.Context, entries iter.Seq2[scanner.Entry, error], sink Sink) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	idx.progress.OnScanStart()

	for entry, err := range entries {
		if err != nil {
			return stats, err
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		stats.FilesScanned++

		class, ok, err := idx.IndexFile(entry)
		if err != nil {
			return stats, fmt.Errorf("failed to index %s: %w", entry.Rel, err)
		}
		idx.progress.OnFileProcessed(entry.Rel)

		if !ok {
			stats.Skipped++
			continue
		}

		if err := sink.Report(class); err != nil {
			return stats, fmt.Errorf("failed to report %s: %w", entry.Rel, err)
		}
		stats.Classes++
	}

	stats.Duration = time.Since(start)
	idx.progress.OnComplete(stats)

	return stats, nil
}
