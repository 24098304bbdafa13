package report

import (
	"io"

	"github.com/fatih/color"

	"github.com/mherod/source-parse/internal/indexer"
)

// Summary prints a one-line run summary.
func Summary(w io.Writer, stats *indexer.Stats) {
	if stats == nil {
		return
	}
	green := color.New(color.FgGreen)
	faint := color.New(color.Faint)

	green.Fprintf(w, "✓ Indexed %d classes", stats.Classes)
	faint.Fprintf(w, " from %d files (%d without a class) in %.2fs\n",
		stats.FilesScanned, stats.Skipped, stats.Duration.Seconds())
}
