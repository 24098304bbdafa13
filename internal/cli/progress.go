package cli

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mherod/source-parse/internal/indexer"
)

// CLIProgressReporter shows a spinner while files are scanned. The walk is
// lazy, so the total is unknown up front.
type CLIProgressReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a progress reporter writing to w.
func NewCLIProgressReporter(w io.Writer) *CLIProgressReporter {
	return &CLIProgressReporter{w: w}
}

func (c *CLIProgressReporter) OnScanStart() {
	c.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(c.w),
		progressbar.OptionSetDescription("Scanning sources"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (c *CLIProgressReporter) OnFileProcessed(relPath string) {
	if c.bar != nil {
		c.bar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete(stats *indexer.Stats) {
	if c.bar != nil {
		c.bar.Finish()
	}
}
