package cli

import (
	"fmt"

	"github.com/mgpai22/cuesmith/internal/audio"
	"github.com/mgpai22/cuesmith/internal/editor"
	"github.com/mgpai22/cuesmith/internal/timeline"
	"github.com/spf13/cobra"
)

var dragCmd = &cobra.Command{
	Use:   "drag [subtitle_file]",
	Short: "Move or trim a block as if dragged on the timeline",
	Long: `Replay a timeline drag on one block. The pointer goes from --from to --to,
both in timeline time; the block moves by the difference.

Modes:
  move        shift the whole block
  trim-start  move only its start (at least 100ms remains)
  trim-end    move only its end (at least 100ms remains)

With --ripple every later block shifts by the same amount. The timeline ends
two seconds after the last block, or at the media duration when longer.

Examples:
  cuesmith drag talk.srt --index 3 --from 10000 --to 10500
  cuesmith drag talk.srt -i 3 --mode trim-end --from 00:00:12,000 --to 00:00:13,250
  cuesmith drag talk.srt -i 1 --from 0 --to 2000 --ripple --media talk.mp4`,
	Args: cobra.ExactArgs(1),
	RunE: runDrag,
}

func init() {
	rootCmd.AddCommand(dragCmd)

	dragCmd.Flags().
		IntP("index", "i", 0, "Block number to drag (required)")
	dragCmd.Flags().
		StringP("mode", "m", "move", "Drag mode (move, trim-start, trim-end)")
	dragCmd.Flags().
		String("from", "", "Pointer position when the drag starts (required)")
	dragCmd.Flags().
		String("to", "", "Pointer position when the drag is released (required)")
	dragCmd.Flags().
		Bool("ripple", false, "Shift every later block too (default from the config)")
	dragCmd.Flags().
		String("media", "", "Audio or video file whose duration extends the timeline")
	dragCmd.Flags().
		String("media-duration", "", "Media duration, instead of --media")
	dragCmd.Flags().
		Int("steps", 1, "Number of pointer moves to replay between --from and --to")
	_ = dragCmd.MarkFlagRequired("index")
	_ = dragCmd.MarkFlagRequired("from")
	_ = dragCmd.MarkFlagRequired("to")
	addOutputFlags(dragCmd)
}

func runDrag(cmd *cobra.Command, args []string) error {
	doc, err := openDocument(args[0])
	if err != nil {
		return err
	}

	n, _ := cmd.Flags().GetInt("index")
	index, err := blockIndex("index", n, doc.Store)
	if err != nil {
		return err
	}

	modeStr, _ := cmd.Flags().GetString("mode")
	mode, err := timeline.ParseMode(modeStr)
	if err != nil {
		return err
	}

	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	from, err := parseTimeFlag("from", fromStr)
	if err != nil {
		return err
	}
	to, err := parseTimeFlag("to", toStr)
	if err != nil {
		return err
	}

	ripple := cfg != nil && cfg.Editor.Ripple
	if cmd.Flags().Changed("ripple") {
		ripple, _ = cmd.Flags().GetBool("ripple")
	}

	steps, _ := cmd.Flags().GetInt("steps")
	if steps < 1 {
		return fmt.Errorf("--steps must be at least 1")
	}

	mediaDuration, err := dragMediaDuration(cmd)
	if err != nil {
		return err
	}

	session := editor.NewSession(idGenerator(),
		editor.WithStore(doc.Store),
		editor.WithMediaDuration(mediaDuration),
	)

	logger.Debugw("Starting drag",
		"block", n,
		"mode", mode,
		"from", from,
		"to", to,
		"ripple", ripple,
		"max_time", session.MaxTime(),
	)

	if err := session.BeginDrag(index, mode, float64(from)); err != nil {
		return err
	}
	delta := float64(to-from) / float64(steps)
	for i := 1; i <= steps; i++ {
		pointer := float64(from) + delta*float64(i)
		if i == steps {
			pointer = float64(to)
		}
		if _, err := session.DragTo(pointer, ripple); err != nil {
			if session.Dragging() {
				session.Cancel()
			}
			return err
		}
	}
	store, err := session.Release()
	if err != nil {
		return err
	}

	if b, ok := store.At(index); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Block %d: %s --> %s\n",
			n, formatClock(b.Start), formatClock(b.End))
	}

	return saveEdited(cmd, doc, store)
}

// media duration in ms from --media or --media-duration, 0 when neither is set
func dragMediaDuration(cmd *cobra.Command) (int64, error) {
	mediaPath, _ := cmd.Flags().GetString("media")
	durationStr, _ := cmd.Flags().GetString("media-duration")

	switch {
	case mediaPath != "" && durationStr != "":
		return 0, fmt.Errorf("--media and --media-duration cannot be combined")
	case mediaPath != "":
		duration, err := audio.GetDuration(mediaPath)
		if err != nil {
			return 0, fmt.Errorf("failed to read media duration: %w", err)
		}
		return duration.Milliseconds(), nil
	case durationStr != "":
		return parseTimeFlag("media-duration", durationStr)
	default:
		return 0, nil
	}
}
