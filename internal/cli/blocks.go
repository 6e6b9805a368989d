package cli

import (
	"fmt"
	"strings"

	"github.com/mgpai22/cuesmith/internal/editor"
	"github.com/mgpai22/cuesmith/internal/language"
	"github.com/mgpai22/cuesmith/internal/subtitle"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [subtitle_file]",
	Short: "Insert a placeholder block",
	Long: `Insert a new block right after the given block. The new block starts 100ms
after it ends and lasts two seconds; later blocks are not moved.

Examples:
  cuesmith add talk.srt --after 3
  cuesmith add empty.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var removeCmd = &cobra.Command{
	Use:   "remove [subtitle_file]",
	Short: "Delete a block",
	Long: `Delete one block. Other blocks keep their ids and timing.

Examples:
  cuesmith remove talk.srt --index 4 --in-place`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

var setCmd = &cobra.Command{
	Use:   "set [subtitle_file]",
	Short: "Change the timing or text of a block",
	Long: `Set the start, end or text of one block. Times accept HH:MM:SS,mmm,
HH:MM:SS.mmm or plain milliseconds. Values are stored as given; use list to
check the result.

Examples:
  cuesmith set talk.srt --index 2 --start 00:00:04,500
  cuesmith set talk.srt --index 2 --text "Hello there"`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(setCmd)

	addCmd.Flags().
		Int("after", 0, "Block number to insert after (default the last block)")
	addOutputFlags(addCmd)

	removeCmd.Flags().
		IntP("index", "i", 0, "Block number to delete (required)")
	_ = removeCmd.MarkFlagRequired("index")
	addOutputFlags(removeCmd)

	setCmd.Flags().
		IntP("index", "i", 0, "Block number to change (required)")
	setCmd.Flags().
		String("start", "", "New start time")
	setCmd.Flags().
		String("end", "", "New end time")
	setCmd.Flags().
		String("text", "", "New text (use \\n for a line break)")
	_ = setCmd.MarkFlagRequired("index")
	addOutputFlags(setCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	doc, err := openDocument(args[0])
	if err != nil {
		return err
	}
	session := editor.NewSession(idGenerator(), editor.WithStore(doc.Store))

	anchor := doc.Store.Len() - 1
	if cmd.Flags().Changed("after") {
		after, _ := cmd.Flags().GetInt("after")
		if anchor, err = blockIndex("after", after, doc.Store); err != nil {
			return err
		}
	}

	store, err := session.Insert(anchor)
	if err != nil {
		return err
	}
	added := anchor + 1
	if doc.Store.IsEmpty() {
		added = 0
	}
	if b, ok := store.At(added); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Added block %d: %s --> %s\n",
			added+1, formatClock(b.Start), formatClock(b.End))
	}

	return saveEdited(cmd, doc, store)
}

func runRemove(cmd *cobra.Command, args []string) error {
	doc, err := openDocument(args[0])
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("index")
	index, err := blockIndex("index", n, doc.Store)
	if err != nil {
		return err
	}

	session := editor.NewSession(idGenerator(), editor.WithStore(doc.Store))
	store, err := session.Remove(index)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed block %d, %d left\n", n, store.Len())

	return saveEdited(cmd, doc, store)
}

func runSet(cmd *cobra.Command, args []string) error {
	doc, err := openDocument(args[0])
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("index")
	index, err := blockIndex("index", n, doc.Store)
	if err != nil {
		return err
	}

	patch, err := blockPatch(cmd)
	if err != nil {
		return err
	}
	if patch.Start == nil && patch.End == nil && patch.Text == nil {
		return fmt.Errorf("nothing to set: use --start, --end or --text")
	}

	session := editor.NewSession(idGenerator(), editor.WithStore(doc.Store))
	store, err := session.SetField(index, patch)
	if err != nil {
		return err
	}

	if b, ok := store.At(index); ok && b.Start >= b.End {
		logger.Warnw("Block ends before it starts",
			"block", n,
			"start", formatClock(b.Start),
			"end", formatClock(b.End),
		)
	}

	return saveEdited(cmd, doc, store)
}

func blockPatch(cmd *cobra.Command) (subtitle.Patch, error) {
	var patch subtitle.Patch
	for _, name := range []string{"start", "end"} {
		if !cmd.Flags().Changed(name) {
			continue
		}
		value, _ := cmd.Flags().GetString(name)
		ms, err := parseTimeFlag(name, value)
		if err != nil {
			return patch, err
		}
		if name == "start" {
			patch.Start = &ms
		} else {
			patch.End = &ms
		}
	}
	if cmd.Flags().Changed("text") {
		text, _ := cmd.Flags().GetString("text")
		text = subtitle.CleanText(strings.ReplaceAll(text, `\n`, "\n"))
		patch.Text = &text
	}
	return patch, nil
}

func saveEdited(cmd *cobra.Command, doc *subtitle.Document, store subtitle.Store) error {
	target, err := resolveOutput(cmd, doc.Path, doc.Format, store, language.SuffixEdited)
	if err != nil {
		return err
	}
	return writeStore(store, target)
}
