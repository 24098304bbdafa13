package indexer

// ProgressReporter provides callbacks for reporting scan progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnScanStart is called before the first file is walked.
	OnScanStart()

	// OnFileProcessed is called after each walked file is indexed.
	OnFileProcessed(relPath string)

	// OnComplete is called when the scan finishes successfully.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnScanStart()                   {}
func (n *NoOpProgressReporter) OnFileProcessed(relPath string) {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)        {}
