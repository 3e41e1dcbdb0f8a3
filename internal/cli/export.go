package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/communitysubs/subcue/internal/collection"
	"github.com/communitysubs/subcue/internal/webvtt"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a transcript's cues to a WebVTT file",
	Long: `Export writes the transcript's cues as WebVTT. Cues whose text is
blank are left out of the output.

Examples:
  subcue export --transcript episode-12
  subcue export -t episode-12 -o episode-12.vtt`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().
		StringP("transcript", "t", "", "Transcript id to export (required)")
	_ = exportCmd.MarkFlagRequired("transcript")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	transcriptID, _ := cmd.Flags().GetString("transcript")
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = transcriptID + ".vtt"
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	coll := collection.New(st, transcriptID, logger)
	if err := coll.Load(ctx); err != nil {
		return err
	}
	cues := coll.Cues()
	if len(cues) == 0 {
		return fmt.Errorf("transcript %s has no cues", transcriptID)
	}

	out := webvtt.Format(cues)
	if err := os.WriteFile(outputPath, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Exported transcript %s: %s\n", transcriptID, absOutput)
	fmt.Printf("  Cues: %d\n", len(cues))
	return nil
}
