package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/communitysubs/subcue/internal/collection"
	"github.com/communitysubs/subcue/internal/timecode"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a transcript's cues in timeline order",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().
		StringP("transcript", "t", "", "Transcript id to list (required)")
	_ = listCmd.MarkFlagRequired("transcript")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	transcriptID, _ := cmd.Flags().GetString("transcript")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	coll := collection.New(st, transcriptID, logger)
	if err := coll.Load(ctx); err != nil {
		return err
	}

	for i, c := range coll.Cues() {
		fmt.Printf("%4d  %s --> %s  %s\n",
			i+1,
			timecode.FromMillis(c.Start).FormatFull(),
			timecode.FromMillis(c.End).FormatFull(),
			firstLine(c.Text),
		)
	}
	return nil
}

func firstLine(text string) string {
	line, extra, found := strings.Cut(text, "\n")
	if found && extra != "" {
		return line + " …"
	}
	return line
}
