package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/mgpai22/cuesmith/internal/language"
	"github.com/mgpai22/cuesmith/internal/subtitle"
	"github.com/mgpai22/cuesmith/internal/timecode"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [subtitle_file]",
	Short: "Show the blocks of a subtitle file as a table",
	Long: `List every block with its number, id, timing and text.

Block numbers shown here are the ones the add, remove, set and drag commands
take.

Examples:
  cuesmith list talk.srt
  cuesmith list talk.vtt --ids`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().Bool("ids", false, "Show block ids")
}

func runList(cmd *cobra.Command, args []string) error {
	doc, err := openDocument(args[0])
	if err != nil {
		return err
	}
	showIDs, _ := cmd.Flags().GetBool("ids")

	out := cmd.OutOrStdout()
	tag := language.Detect(doc.Store.Texts())
	fmt.Fprintf(out, "%s: %d blocks, %s (%s)\n",
		doc.Path,
		doc.Store.Len(),
		language.Name(tag),
		language.Label(tag),
	)
	if len(doc.Skipped) > 0 {
		fmt.Fprintf(out, "%d malformed blocks skipped\n", len(doc.Skipped))
	}
	if doc.Store.IsEmpty() {
		return nil
	}

	fmt.Fprintln(out, renderBlockTable(doc.Store, showIDs, isTerminal(out)))
	return nil
}

func renderBlockTable(store subtitle.Store, showIDs, fancy bool) string {
	tw := table.NewWriter()
	if fancy {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	header := table.Row{"#", "Start", "End", "Duration", "Text"}
	if showIDs {
		header = table.Row{"#", "ID", "Start", "End", "Duration", "Text"}
	}
	tw.AppendHeader(header)

	for i, b := range store.Blocks() {
		row := table.Row{
			strconv.Itoa(i + 1),
			formatClock(b.Start),
			formatClock(b.End),
			fmt.Sprintf("%.3fs", float64(b.Duration())/1000),
			strings.ReplaceAll(b.Text, "\n", " / "),
		}
		if showIDs {
			row = append(table.Row{row[0], b.ID}, row[1:]...)
		}
		tw.AppendRow(row)
	}

	columns := len(header)
	configs := make([]table.ColumnConfig, 0, columns)
	for i := 1; i <= columns; i++ {
		align := text.AlignRight
		if i == columns || (showIDs && i == 2) {
			align = text.AlignLeft
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	configs[columns-1].WidthMax = 60
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func formatClock(ms int64) string {
	return timecode.FormatMillis(ms, timecode.Comma)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
