package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configFile string
	verbose    bool
}

// NewRootCommand builds the command tree. Running the root command without
// a subcommand scans the current directory.
func NewRootCommand() *cobra.Command {
	global := &globalOptions{}
	scanOpts := &scanOptions{}

	rootCmd := &cobra.Command{
		Use:   "source-parse [dir]",
		Short: "Index classes, imports and properties in Kotlin and Java sources",
		Long: `source-parse walks a directory tree, finds Kotlin and Java files under a
"src" folder and prints one record per class: file, package, class name,
imports and val/var properties.

Extraction is pattern based, not a parser. Kotlin files get imports and
properties; Java files get package and class only.

Examples:
  # Index the current directory
  source-parse

  # Index another checkout as JSON
  source-parse scan ../app --format json

  # Keep a SQLite copy of the index and rescan on every change
  source-parse scan --db index.db --watch`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, global, scanOpts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&global.configFile, "config", "", "config file (default is <dir>/.source-parse/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&global.verbose, "verbose", "v", false, "verbose output")
	addScanFlags(rootCmd, scanOpts)

	rootCmd.AddCommand(
		newScanCommand(global),
		newGraphCommand(global),
		newVersionCommand(),
	)

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
