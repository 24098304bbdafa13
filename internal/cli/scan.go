package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mherod/source-parse/internal/cache"
	"github.com/mherod/source-parse/internal/config"
	"github.com/mherod/source-parse/internal/indexer"
	"github.com/mherod/source-parse/internal/report"
	"github.com/mherod/source-parse/internal/scanner"
	"github.com/mherod/source-parse/internal/store"
	"github.com/mherod/source-parse/internal/watcher"
)

type scanOptions struct {
	format   string
	db       string
	watch    bool
	progress bool
	quiet    bool
}

func addScanFlags(cmd *cobra.Command, opts *scanOptions) {
	cmd.Flags().StringVarP(&opts.format, "format", "f", report.FormatText, "output format: text, json, yaml or table")
	cmd.Flags().StringVar(&opts.db, "db", "", "also write records to this SQLite database")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "rescan whenever a source file changes")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "show a progress spinner on stderr")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "disable progress and summary output")
}

func newScanCommand(global *globalOptions) *cobra.Command {
	opts := &scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Scan a directory and print one record per class",
		Long: `Scan walks dir (default ".") and prints a record for every Kotlin or Java
file under a "src" folder that declares a class.

A file that cannot be read aborts the scan with a non-zero exit status.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, global, opts)
		},
	}
	addScanFlags(cmd, opts)
	return cmd
}

func runScan(cmd *cobra.Command, args []string, global *globalOptions, opts *scanOptions) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootDir := "."
	if len(args) > 0 {
		rootDir = args[0]
	}

	session, err := newScanSession(cmd, rootDir, global, opts)
	if err != nil {
		return err
	}
	defer session.Close()

	// The watcher starts before the first scan so edits made while it runs
	// still trigger a rescan.
	var fw watcher.FileWatcher
	if opts.watch {
		fw, err = session.startWatcher(ctx)
		if err != nil {
			return err
		}
		defer fw.Stop()
	}

	if err := session.scan(ctx); err != nil {
		return err
	}

	if fw == nil {
		return nil
	}
	if !opts.quiet {
		fmt.Fprintln(session.stderr, "Watching for changes (Ctrl+C to stop)...")
	}
	<-ctx.Done()
	return fw.Stop()
}

// scanSession holds everything that outlives a single scan in watch mode.
type scanSession struct {
	mu      sync.Mutex // one scan at a time
	cfg     *config.Config
	scanner *scanner.Scanner
	content *cache.Cache
	db      *sql.DB
	stdout  io.Writer
	stderr  io.Writer
	opts    *scanOptions
	verbose bool
}

func newScanSession(cmd *cobra.Command, rootDir string, global *globalOptions, opts *scanOptions) (*scanSession, error) {
	cfg, err := config.NewLoader(rootDir, global.configFile).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Flags win over config only when given explicitly.
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = opts.format
	}
	if cmd.Flags().Changed("db") {
		cfg.Output.DB = opts.db
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s, err := scanner.New(rootDir, cfg.ScannerOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	content, err := cache.NewCache(cache.FileSource{}, cfg.Cache.MaxBytes)
	if err != nil {
		return nil, err
	}

	session := &scanSession{
		cfg:     cfg,
		scanner: s,
		content: content,
		stdout:  cmd.OutOrStdout(),
		stderr:  cmd.ErrOrStderr(),
		opts:    opts,
		verbose: global.verbose,
	}

	if cfg.Output.DB != "" {
		db, err := store.Open(cfg.Output.DB)
		if err != nil {
			content.Close()
			return nil, err
		}
		session.db = db
	}

	return session, nil
}

func (s *scanSession) Close() {
	s.content.Close()
	if s.db != nil {
		s.db.Close()
	}
}

// scan runs one full pass over the tree.
func (s *scanSession) scan(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.New().String()
	logger := newLogger(s.stderr, s.verbose, runID)
	logger.Debug("scan starting", "root", s.scanner.Root(), "format", s.cfg.Output.Format)

	reporter, err := report.New(s.cfg.Output.Format, s.stdout)
	if err != nil {
		return err
	}
	var writer *store.Writer
	if s.db != nil {
		writer, err = store.NewWriter(s.db, s.scanner.Root(), runID)
		if err != nil {
			return err
		}
		reporter = report.Multi(reporter, writer)
	}

	var progress indexer.ProgressReporter
	if s.opts.progress && !s.opts.quiet {
		progress = NewCLIProgressReporter(s.stderr)
	}

	stats, runErr := indexer.New(s.content, progress).Run(ctx, s.scanner.Walk(ctx), reporter)
	if runErr == nil && writer != nil {
		pruned, err := writer.Prune()
		if err != nil {
			runErr = err
		} else {
			logger.Debug("pruned stale records", "classes", pruned)
		}
	}
	if err := reporter.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to flush output: %w", err)
	}
	if runErr != nil {
		logger.Debug("scan failed", "error", runErr)
		return runErr
	}

	logger.Debug("scan complete",
		slog.Int("files", stats.FilesScanned),
		slog.Int("classes", stats.Classes),
		slog.Int("skipped", stats.Skipped),
		slog.Int64("cache_hits", s.content.Hits()),
		slog.Int64("cache_misses", s.content.Misses()),
		slog.Duration("duration", stats.Duration),
	)

	if s.verbose && !s.opts.quiet {
		report.Summary(s.stderr, stats)
	}
	return nil
}

// startWatcher rescans after every debounced batch of source changes until
// ctx ends.
func (s *scanSession) startWatcher(ctx context.Context) (watcher.FileWatcher, error) {
	logger := newLogger(s.stderr, s.verbose, "watch")

	fw, err := watcher.NewFileWatcher([]string{s.scanner.Root()}, watcher.Options{
		Filter: s.scanner.Matches,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}

	err = fw.Start(ctx, func(files []string) {
		s.content.Invalidate(files...)
		logger.Info("source change detected", "files", len(files))
		if err := s.scan(ctx); err != nil && ctx.Err() == nil {
			logger.Error("rescan failed", "error", err)
		}
	})
	if err != nil {
		fw.Stop()
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}
	return fw, nil
}
