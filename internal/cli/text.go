package cli

import (
	"fmt"
	"os"

	"github.com/mgpai22/cuesmith/internal/editor"
	"github.com/mgpai22/cuesmith/internal/format"
	"github.com/mgpai22/cuesmith/internal/language"
	"github.com/mgpai22/cuesmith/internal/reconcile"
	"github.com/spf13/cobra"
)

var flattenCmd = &cobra.Command{
	Use:   "flatten [subtitle_file]",
	Short: "Print the subtitle text as continuous prose",
	Long: `Print every block's text, blocks separated by a blank line.

Edit the output and feed it back with sync to retime the file. With --offset,
print the block that holds that byte offset of the flattened text instead,
e.g. to find the block under an editor cursor.

Examples:
  cuesmith flatten talk.srt > talk.txt
  cuesmith flatten talk.srt --offset 120`,
	Args: cobra.ExactArgs(1),
	RunE: runFlatten,
}

var syncCmd = &cobra.Command{
	Use:   "sync [subtitle_file]",
	Short: "Retime subtitles after editing their continuous text",
	Long: `Reconcile edited text against the blocks of a subtitle file.

The text is split into blocks at blank lines. Blocks whose text did not change
keep their id and timing; new or edited blocks are timed from the text they
replace.

Examples:
  cuesmith flatten talk.srt > talk.txt
  $EDITOR talk.txt
  cuesmith sync talk.srt --text talk.txt
  cuesmith sync talk.srt --text talk.txt --in-place`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

var formatCmd = &cobra.Command{
	Use:   "format [subtitle_file]",
	Short: "Reformat subtitle text with AI and retime it",
	Long: `Send the continuous text to a formatting provider, which re-breaks it into
blocks of at most two 42-character lines, then reconcile the result against
the original timing.

The local provider wraps text without calling any service.

Examples:
  cuesmith format talk.srt
  cuesmith format talk.srt --provider anthropic -o talk_formatted.srt
  cuesmith format talk.srt --provider local --in-place`,
	Args: cobra.ExactArgs(1),
	RunE: runFormat,
}

func init() {
	rootCmd.AddCommand(flattenCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(formatCmd)

	flattenCmd.Flags().
		Int("offset", -1, "Byte offset in the flattened text to look up")

	syncCmd.Flags().
		StringP("text", "t", "", "File with the edited continuous text (required)")
	syncCmd.Flags().
		Bool("no-seam-fit", false, "Keep estimated timing even when it overlaps neighbouring blocks")
	_ = syncCmd.MarkFlagRequired("text")
	addOutputFlags(syncCmd)

	formatCmd.Flags().
		String("provider", "", "Formatting provider (gemini, openai, anthropic, local); defaults to the config")
	formatCmd.Flags().
		StringP("api-key", "k", "", "Provider API key (or set the provider's *_API_KEY env var)")
	formatCmd.Flags().
		String("model", "", "Provider model override")
	addOutputFlags(formatCmd)
}

func runFlatten(cmd *cobra.Command, args []string) error {
	doc, err := openDocument(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if !cmd.Flags().Changed("offset") {
		if text := doc.Store.Flatten(); text != "" {
			fmt.Fprintln(out, text)
		}
		return nil
	}

	offset, _ := cmd.Flags().GetInt("offset")
	index := doc.Store.BlockAtOffset(offset)
	b, ok := doc.Store.At(index)
	if !ok {
		return fmt.Errorf("offset %d is outside the text (%d bytes)", offset, len(doc.Store.Flatten()))
	}
	fmt.Fprintf(out, "Block %d: %s --> %s\n%s\n",
		index+1, formatClock(b.Start), formatClock(b.End), b.Text)
	return nil
}

func runSync(cmd *cobra.Command, args []string) error {
	doc, err := openDocument(args[0])
	if err != nil {
		return err
	}

	textPath, _ := cmd.Flags().GetString("text")
	noSeamFit, _ := cmd.Flags().GetBool("no-seam-fit")

	edited, err := os.ReadFile(textPath)
	if err != nil {
		return fmt.Errorf("failed to read text: %w", err)
	}

	var opts []reconcile.Option
	if noSeamFit {
		opts = append(opts, reconcile.WithoutSeamFit())
	}
	session := editor.NewSession(idGenerator(),
		editor.WithStore(doc.Store),
		editor.WithReconcileOptions(opts...),
	)

	store, err := session.ApplyText(string(edited))
	if err != nil {
		return err
	}
	logger.Infow("Text reconciled",
		"blocks_before", doc.Store.Len(),
		"blocks_after", store.Len(),
	)

	target, err := resolveOutput(cmd, doc.Path, doc.Format, store, language.SuffixFormatted)
	if err != nil {
		return err
	}
	return writeStore(store, target)
}

func runFormat(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	doc, err := openDocument(args[0])
	if err != nil {
		return err
	}
	if doc.Store.IsEmpty() {
		return fmt.Errorf("nothing to format: %s has no blocks", doc.Path)
	}

	providerStr, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	if providerStr == "" {
		providerStr = cfg.Format.Provider
	}
	if model == "" {
		model = cfg.Format.Model
	}
	provider := format.Provider(providerStr)

	apiKey, err := resolveAPIKey(cmd, providerStr, format.APIKeyEnv(provider))
	if err != nil {
		return err
	}

	formatter, err := format.Factory(ctx, provider, apiKey, format.Options{
		Model:            model,
		BaseURL:          credentials(providerStr).BaseURL,
		MaxCharsPerLine:  cfg.Format.MaxCharsPerLine,
		MaxLinesPerBlock: cfg.Format.MaxLinesPerBlock,
	})
	if err != nil {
		return fmt.Errorf("failed to create formatter: %w", err)
	}

	logger.Infow("Formatting text",
		"input", doc.Path,
		"provider", providerStr,
		"blocks", doc.Store.Len(),
	)

	session := editor.NewSession(idGenerator(), editor.WithStore(doc.Store))
	store, err := session.AutoFormat(ctx, formatter)
	if err != nil {
		return fmt.Errorf("formatting failed: %w", err)
	}

	logger.Infow("Formatting complete",
		"blocks_before", doc.Store.Len(),
		"blocks_after", store.Len(),
	)

	target, err := resolveOutput(cmd, doc.Path, doc.Format, store, language.SuffixFormatted)
	if err != nil {
		return err
	}
	return writeStore(store, target)
}
