package cli

import (
	"fmt"
	"path/filepath"

	"github.com/mgpai22/cuesmith/internal/language"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [subtitle_file]",
	Short: "Convert subtitles between SRT, VTT and ASS",
	Long: `Re-export a subtitle file in another format. Block timing and text are kept;
malformed blocks in the input are skipped and reported.

Examples:
  cuesmith convert talk.srt -f vtt
  cuesmith convert talk.vtt -o talk.ass
  cuesmith convert talk.srt -f vtt --label PT-BR`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	addOutputFlags(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("format") && !cmd.Flags().Changed("output") {
		return fmt.Errorf("convert needs a target: use --format or --output")
	}

	doc, err := openDocument(args[0])
	if err != nil {
		return err
	}

	target, err := resolveOutput(cmd, doc.Path, doc.Format, doc.Store, language.SuffixEdited)
	if err != nil {
		return err
	}
	if err := writeStore(doc.Store, target); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(target.path)
	fmt.Fprintf(cmd.OutOrStdout(), "Converted %d blocks to %s: %s\n",
		doc.Store.Len(), target.format, absOutput)
	return nil
}
