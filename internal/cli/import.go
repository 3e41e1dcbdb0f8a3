package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/communitysubs/subcue/internal/collection"
	"github.com/communitysubs/subcue/internal/webvtt"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file.vtt]",
	Short: "Import a WebVTT file into a transcript",
	Long: `Import parses a WebVTT file and stores its cues under the given
transcript. Import is all-or-nothing: a malformed cue header aborts
without storing anything.

Examples:
  subcue import captions.vtt --transcript episode-12
  subcue import captions.vtt -t episode-12 --db ./cues.db`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().
		StringP("transcript", "t", "", "Transcript id to import into (required)")
	_ = importCmd.MarkFlagRequired("transcript")
}

func runImport(cmd *cobra.Command, args []string) error {
	vttPath := args[0]
	ctx := context.Background()

	transcriptID, _ := cmd.Flags().GetString("transcript")

	raw, err := os.ReadFile(vttPath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	logger.Infow("Importing WebVTT file",
		"input", vttPath,
		"transcript", transcriptID,
	)

	cues, err := webvtt.Importer{TranscriptID: transcriptID, Log: logger}.Parse(string(raw))
	if err != nil {
		return fmt.Errorf("unable to import file: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	coll := collection.New(st, transcriptID, logger)
	if err := coll.BulkCreate(ctx, cues); err != nil {
		return err
	}

	fmt.Printf("Imported %d cues into transcript %s\n", len(cues), transcriptID)
	fmt.Printf("  Total in transcript: %d\n", coll.Len())
	return nil
}
