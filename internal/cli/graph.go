package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mherod/source-parse/internal/cache"
	"github.com/mherod/source-parse/internal/config"
	"github.com/mherod/source-parse/internal/depgraph"
	"github.com/mherod/source-parse/internal/indexer"
	"github.com/mherod/source-parse/internal/model"
	"github.com/mherod/source-parse/internal/scanner"
	"github.com/mherod/source-parse/internal/store"
)

type graphOptions struct {
	db string
}

func newGraphCommand(global *globalOptions) *cobra.Command {
	opts := &graphOptions{}
	cmd := &cobra.Command{
		Use:   "graph [dir]",
		Short: "Print import edges between indexed classes",
		Long: `Graph prints one "A -> B" line for every import from one indexed class to
another, followed by a "cycle:" line for each import cycle.

With --db the classes come from a database written by "scan --db" instead
of a fresh scan.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rootDir := "."
			if len(args) > 0 {
				rootDir = args[0]
			}

			var (
				classes []model.SourceClass
				err     error
			)
			if opts.db != "" {
				classes, err = loadClasses(opts.db)
			} else {
				classes, err = scanClasses(cmd.Context(), rootDir, global)
			}
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), global.verbose, "graph")
			logger.Debug("building dependency graph", "classes", len(classes))

			return printGraph(cmd, classes)
		},
	}
	cmd.Flags().StringVar(&opts.db, "db", "", "read classes from this SQLite database instead of scanning")
	return cmd
}

func loadClasses(path string) ([]model.SourceClass, error) {
	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return store.NewReader(db).Classes()
}

func scanClasses(ctx context.Context, rootDir string, global *globalOptions) ([]model.SourceClass, error) {
	cfg, err := config.NewLoader(rootDir, global.configFile).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	s, err := scanner.New(rootDir, cfg.ScannerOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	content, err := cache.NewCache(cache.FileSource{}, cfg.Cache.MaxBytes)
	if err != nil {
		return nil, err
	}
	defer content.Close()

	var classes []model.SourceClass
	collect := indexer.SinkFunc(func(class model.SourceClass) error {
		classes = append(classes, class)
		return nil
	})
	if _, err := indexer.New(content, nil).Run(ctx, s.Walk(ctx), collect); err != nil {
		return nil, err
	}
	return classes, nil
}

func printGraph(cmd *cobra.Command, classes []model.SourceClass) error {
	g, err := depgraph.Build(classes)
	if err != nil {
		return err
	}

	edges, err := g.Edges()
	if err != nil {
		return err
	}
	cycles, err := g.Cycles()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, e := range edges {
		fmt.Fprintln(out, e.String())
	}
	for _, c := range cycles {
		fmt.Fprintf(out, "cycle: %s\n", strings.Join(c, ", "))
	}
	return nil
}
