package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mgpai22/cuesmith/internal/config"
	"github.com/mgpai22/cuesmith/internal/language"
	"github.com/mgpai22/cuesmith/internal/subtitle"
	"github.com/mgpai22/cuesmith/internal/timecode"
	"github.com/spf13/cobra"
)

// block ids per the configured scheme
func idGenerator() subtitle.IDGenerator {
	if cfg != nil && cfg.Editor.IDScheme == "counter" {
		return subtitle.NewCounterGenerator("block")
	}
	return subtitle.UUIDGenerator{}
}

// opens a subtitle file, logging anything the parser had to skip
func openDocument(path string) (*subtitle.Document, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	doc, err := subtitle.Open(path, idGenerator())
	if err != nil {
		return nil, err
	}

	reportSkipped(path, doc.Skipped)
	if err := doc.Store.Validate(); err != nil {
		logger.Warnw("Imported blocks are not well-formed", "file", path, "error", err)
	}

	logger.Debugw("Subtitles loaded",
		"file", path,
		"format", doc.Format,
		"blocks", doc.Store.Len(),
	)
	return doc, nil
}

func reportSkipped(source string, skipped []subtitle.SkippedBlock) {
	for _, s := range skipped {
		logger.Warnw("Skipped malformed block",
			"source", source,
			"block", s.Ordinal,
			"reason", s.Reason,
		)
	}
}

// parseTimeFlag accepts HH:MM:SS,mmm, HH:MM:SS.mmm or plain milliseconds.
func parseTimeFlag(name, value string) (int64, error) {
	value = strings.TrimSpace(value)
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("--%s must not be negative", name)
		}
		return ms, nil
	}
	ms, err := timecode.Parse(value)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return ms, nil
}

// converts a 1-based block number from the command line
func blockIndex(name string, n int, store subtitle.Store) (int, error) {
	if n < 1 || n > store.Len() {
		return 0, fmt.Errorf("--%s %d is out of range (1-%d): %w", name, n, store.Len(), subtitle.ErrIndexOutOfRange)
	}
	return n - 1, nil
}

// adds -o, -f, --label and --in-place
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().
		StringP("output", "o", "", "Output file path (default <name>_<LANG>_<edited|formatted>.<ext>)")
	cmd.Flags().
		StringP("format", "f", "", "Output subtitle format (srt, vtt, ass); defaults to the input format")
	cmd.Flags().
		String("label", "", "Language label for the output name (e.g. EN-US, PT-BR); detected when empty")
	cmd.Flags().
		Bool("in-place", false, "Overwrite the input file")
}

type outputTarget struct {
	path   string
	format subtitle.Format
}

// resolveOutput picks the output path and format for a command that edited
// the blocks of source.
func resolveOutput(cmd *cobra.Command, source string, sourceFormat subtitle.Format, store subtitle.Store, suffix language.Suffix) (outputTarget, error) {
	outputPath, _ := cmd.Flags().GetString("output")
	formatStr, _ := cmd.Flags().GetString("format")
	labelStr, _ := cmd.Flags().GetString("label")
	inPlace, _ := cmd.Flags().GetBool("in-place")

	if inPlace && outputPath != "" {
		return outputTarget{}, fmt.Errorf("--in-place and --output cannot be combined")
	}

	format := sourceFormat
	switch {
	case formatStr != "":
		parsed, err := subtitle.ParseFormat(formatStr)
		if err != nil {
			return outputTarget{}, err
		}
		format = parsed
	case outputPath != "":
		format = subtitle.GetFormatFromExtension(outputPath)
	}
	if format == "" {
		format = subtitle.FormatSRT
	}

	if inPlace {
		if formatStr != "" && format != sourceFormat {
			return outputTarget{}, fmt.Errorf("--in-place cannot change the format from %s to %s", sourceFormat, format)
		}
		return outputTarget{path: source, format: sourceFormat}, nil
	}

	if outputPath == "" {
		label, err := exportLabel(labelStr, store)
		if err != nil {
			return outputTarget{}, err
		}
		outputPath = language.ExportName(source, label, suffix, subtitle.GetExtensionForFormat(format))
	}

	return outputTarget{path: outputPath, format: format}, nil
}

func exportLabel(flagValue string, store subtitle.Store) (string, error) {
	if flagValue != "" {
		tag, err := language.ParseLabel(flagValue)
		if err != nil {
			return "", err
		}
		return language.Label(tag), nil
	}
	tag := language.Detect(store.Texts())
	logger.Debugw("Detected language", "language", language.Name(tag))
	return language.Label(tag), nil
}

// writeStore validates and writes blocks to target
func writeStore(store subtitle.Store, target outputTarget) error {
	if err := store.Validate(); err != nil {
		logger.Warnw("Writing blocks that are not well-formed", "error", err)
	}

	writer, err := subtitle.NewWriter(target.format)
	if err != nil {
		return fmt.Errorf("failed to create subtitle writer: %w", err)
	}
	if err := writer.Write(store, target.path); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	absOutput, _ := filepath.Abs(target.path)
	logger.Infow("Subtitles written",
		"output", absOutput,
		"format", target.format,
		"blocks", store.Len(),
	)
	return nil
}

// resolveAPIKey prefers the flag, then the config file or environment.
func resolveAPIKey(cmd *cobra.Command, provider, envName string) (string, error) {
	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" && cfg != nil {
		apiKey = cfg.Credentials(provider).APIKey
	}
	if apiKey == "" && envName != "" {
		apiKey = os.Getenv(envName)
	}
	if apiKey == "" && envName != "" {
		return "", fmt.Errorf("%s API key is required: use --api-key, set %s, or add it to the config file", provider, envName)
	}
	return apiKey, nil
}

func credentials(provider string) config.Credentials {
	if cfg == nil {
		return config.Credentials{}
	}
	return cfg.Credentials(provider)
}

// cancelled on interrupt
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}
