package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/communitysubs/subcue/internal/collection"
	"github.com/communitysubs/subcue/internal/cue"
	"github.com/communitysubs/subcue/internal/lint"
	"github.com/communitysubs/subcue/internal/timecode"
	"github.com/communitysubs/subcue/internal/webvtt"
	"github.com/spf13/cobra"
)

var lintCmd = &cobra.Command{
	Use:   "lint [file.vtt]",
	Short: "Check cue text against caption style rules",
	Long: `Lint evaluates every cue against the caption style rules and prints
each violation with its rule id and character range.

Cues come either from a WebVTT file given as the argument or from a
stored transcript via --transcript. With --fix, violations that have
an automatic correction are rewritten: file mode writes the fixed
WebVTT back out, transcript mode updates the stored cues.

Examples:
  subcue lint captions.vtt
  subcue lint captions.vtt --fix -o fixed.vtt
  subcue lint --transcript episode-12 --fix`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().
		StringP("transcript", "t", "", "Lint a stored transcript instead of a file")
	lintCmd.Flags().
		Bool("fix", false, "Apply automatic fixes where available")
}

func runLint(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	transcriptID, _ := cmd.Flags().GetString("transcript")
	fix, _ := cmd.Flags().GetBool("fix")
	outputPath, _ := cmd.Flags().GetString("output")

	if (len(args) == 0) == (transcriptID == "") {
		return fmt.Errorf("give either a .vtt file or --transcript, not both")
	}

	if len(args) == 1 {
		return lintFile(args[0], outputPath, fix)
	}
	return lintTranscript(ctx, transcriptID, fix)
}

func lintFile(path, outputPath string, fix bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	cues, err := webvtt.Importer{TranscriptID: "lint", Log: logger}.Parse(string(raw))
	if err != nil {
		return fmt.Errorf("unable to lint file: %w", err)
	}

	total := 0
	fixedCount := 0
	for i := range cues {
		if fix {
			var applied int
			cues[i], applied = applyFixes(cues[i])
			fixedCount += applied
		}
		total += reportViolations(i, cues[i])
	}

	if fix {
		if outputPath == "" {
			outputPath = path
		}
		if err := os.WriteFile(outputPath, []byte(webvtt.Format(cues)), 0644); err != nil {
			return fmt.Errorf("failed to write fixed file: %w", err)
		}
		fmt.Printf("Applied %d fixes: %s\n", fixedCount, outputPath)
	}
	fmt.Printf("%d violations in %d cues\n", total, len(cues))
	return nil
}

func lintTranscript(ctx context.Context, transcriptID string, fix bool) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	coll := collection.New(st, transcriptID, logger)
	if err := coll.Load(ctx); err != nil {
		return err
	}

	total := 0
	fixedCount := 0
	var patches []cue.Patch
	for i, c := range coll.Cues() {
		if fix {
			fixed, applied := applyFixes(c)
			if applied > 0 {
				text := fixed.Text
				patches = append(patches, cue.Patch{ID: c.ID, Text: &text})
				fixedCount += applied
				c = fixed
			}
		}
		total += reportViolations(i, c)
	}

	if len(patches) > 0 {
		if _, err := coll.Update(ctx, patches...); err != nil {
			return err
		}
		fmt.Printf("Applied %d fixes to %d cues\n", fixedCount, len(patches))
	}
	fmt.Printf("%d violations in %d cues\n", total, coll.Len())
	return nil
}

// applyFixes repeatedly applies the first available automatic fix
// until the cue has no fixable violations left. Each fix can shift
// character offsets, so violations are re-evaluated every round.
func applyFixes(c cue.Cue) (cue.Cue, int) {
	const maxRounds = 100

	applied := 0
	for round := 0; round < maxRounds; round++ {
		fixed := false
		for _, v := range lint.Evaluate(c) {
			if v.Rule.Fix == nil {
				continue
			}
			c = v.Rule.Fix(c, lint.Range{Start: v.Start, End: v.End})
			fixed = true
			applied++
			break
		}
		if !fixed {
			break
		}
	}
	return c, applied
}

func reportViolations(idx int, c cue.Cue) int {
	violations := lint.Evaluate(c)
	for _, v := range violations {
		fmt.Println(formatViolation(idx, c, v))
	}
	return len(violations)
}

func formatViolation(idx int, c cue.Cue, v lint.Violation) string {
	return fmt.Sprintf("cue %d (%s) [%d,%d) %s: %s",
		idx+1,
		timecode.FromMillis(c.Start).FormatFull(),
		v.Start, v.End,
		v.Rule.ID,
		v.Rule.Name,
	)
}
