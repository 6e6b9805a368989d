package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/cuesmith/internal/audio"
	"github.com/mgpai22/cuesmith/internal/editor"
	"github.com/mgpai22/cuesmith/internal/subtitle"
	"github.com/mgpai22/cuesmith/internal/transcribe"
	"github.com/spf13/cobra"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [media_file]",
	Short: "Create subtitles by transcribing an audio or video file",
	Long: `Transcribe the specified audio or video file with an AI provider and write
the result as subtitles.

The command accepts both audio files (mp3, wav, aac, etc.) and video files (mp4, mkv, etc.).
For video files, audio is extracted with ffmpeg before transcription.

Word timings are grouped into blocks of up to seven words, starting a new block
at pauses longer than half a second.

Examples:
  cuesmith transcribe interview.mp4
  cuesmith transcribe podcast.mp3 --provider openai -f vtt
  cuesmith transcribe talk.wav --language pt -o talk.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)

	transcribeCmd.Flags().
		StringP("output", "o", "", "Output file path (default <media name>.<ext>)")
	transcribeCmd.Flags().
		StringP("format", "f", "srt", "Output subtitle format (srt, vtt, ass)")
	transcribeCmd.Flags().
		String("provider", "", "Transcription provider (elevenlabs, openai, gemini); defaults to the config")
	transcribeCmd.Flags().
		StringP("api-key", "k", "", "Provider API key (or set the provider's *_API_KEY env var)")
	transcribeCmd.Flags().
		String("model", "", "Provider model override")
	transcribeCmd.Flags().
		StringP("language", "l", "", "Spoken language code (e.g., en, es, pt); auto-detected when empty")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx, cancel := commandContext(cmd)
	defer cancel()

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	formatStr, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	providerStr, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	lang, _ := cmd.Flags().GetString("language")

	format, err := subtitle.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	if providerStr == "" {
		providerStr = cfg.Transcribe.Provider
	}
	provider := transcribe.Provider(strings.ToLower(providerStr))
	if model == "" {
		model = cfg.Transcribe.Model
	}
	if lang == "" {
		lang = cfg.Transcribe.Language
	}

	apiKey, err := resolveAPIKey(cmd, string(provider), transcribe.APIKeyEnv(provider))
	if err != nil {
		return err
	}

	if outputPath == "" {
		baseName := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
		outputPath = baseName + subtitle.GetExtensionForFormat(format)
	}

	logger.Infow("Starting transcription",
		"input", mediaPath,
		"output", outputPath,
		"provider", provider,
		"format", format,
	)

	transcriber, err := transcribe.Factory(ctx, provider, apiKey, transcribe.Options{
		Language: lang,
		Model:    model,
		BaseURL:  credentials(string(provider)).BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	if audio.IsVideoFile(mediaPath) {
		logger.Infow("Extracting audio from video")
	}
	audioPath, cleanup, err := audio.PrepareForTranscription(ctx, mediaPath, "")
	if err != nil {
		return fmt.Errorf("failed to prepare audio: %w", err)
	}
	defer cleanup()

	session := editor.NewSession(idGenerator())
	if duration, err := audio.GetDuration(audioPath); err != nil {
		logger.Warnw("Could not read media duration", "error", err)
	} else {
		session.SetMediaDuration(duration.Milliseconds())
		logger.Infow("Audio prepared", "duration", duration.String())
	}

	result, err := session.Transcribe(ctx, transcriber, audioPath)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}
	reportSkipped(mediaPath, result.Skipped)

	logger.Infow("Transcription complete",
		"blocks", result.Store.Len(),
		"skipped", len(result.Skipped),
	)

	if err := writeStore(result.Store, outputTarget{path: outputPath, format: format}); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Subtitles generated successfully: %s\n", absOutput)
	fmt.Fprintf(cmd.OutOrStdout(), "  Blocks: %d\n", result.Store.Len())
	if end := session.MaxTime(); end > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "  Timeline: %s\n", formatClock(end))
	}

	return nil
}
