package cli

import (
	"fmt"
	"os"

	"github.com/communitysubs/subcue/internal/logging"
	"github.com/communitysubs/subcue/internal/store"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	dbPath  string
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "subcue",
	Short: "WebVTT subtitle editing toolkit",
	Long: `Subcue imports, edits, lints and exports WebVTT subtitle cues.

Cues are kept per transcript in a local database so they can be
edited and re-exported across sessions.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringVar(&dbPath, "db", "", "Cue database path (or set SUBCUE_DB env var)")
}

func openStore() (*store.SQLite, error) {
	path := dbPath
	if path == "" {
		path = os.Getenv("SUBCUE_DB")
	}
	if path == "" {
		var err error
		path, err = store.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
	}
	return store.OpenSQLite(path)
}
