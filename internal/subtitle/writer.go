package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/cuesmith/internal/timecode"
)

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

// Advanced SubStation Alpha format
type ASSWriter struct {
	Title    string
	FontName string
	FontSize int
}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	case FormatASS:
		return &ASSWriter{
			Title:    "Cuesmith Subtitles",
			FontName: "Arial",
			FontSize: 20,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// EncodeSRT renders the store as SubRip with 1-based positional indices.
func EncodeSRT(store Store) string {
	cues := make([]string, store.Len())
	for i, b := range store.blocks {
		cues[i] = fmt.Sprintf("%d\n%s --> %s\n%s",
			i+1,
			timecode.FormatMillis(b.Start, timecode.Comma),
			timecode.FormatMillis(b.End, timecode.Comma),
			b.Text)
	}
	return strings.Join(cues, BlockSeparator)
}

// EncodeVTT renders the store as WebVTT without cue identifiers.
func EncodeVTT(store Store) string {
	cues := make([]string, store.Len())
	for i, b := range store.blocks {
		cues[i] = fmt.Sprintf("%s --> %s\n%s",
			timecode.FormatMillis(b.Start, timecode.Dot),
			timecode.FormatMillis(b.End, timecode.Dot),
			b.Text)
	}
	return "WEBVTT" + BlockSeparator + strings.Join(cues, BlockSeparator)
}

func (w *SRTWriter) Encode(store Store) string {
	return EncodeSRT(store)
}

// writes the store to an SRT file
func (w *SRTWriter) Write(store Store, path string) error {
	return writeFile(path, w.Encode(store))
}

func (w *VTTWriter) Encode(store Store) string {
	return EncodeVTT(store)
}

// writes the store to a VTT file
func (w *VTTWriter) Write(store Store, path string) error {
	return writeFile(path, w.Encode(store))
}

func (w *ASSWriter) Encode(store Store) string {
	var sb strings.Builder

	// script info section
	sb.WriteString("[Script Info]\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", w.Title))
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString("Collisions: Normal\n")
	sb.WriteString("PlayDepth: 0\n\n")

	// v4+ styles section
	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	sb.WriteString(fmt.Sprintf("Style: Default,%s,%d,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1\n\n",
		w.FontName, w.FontSize))

	// events section
	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text")

	for _, b := range store.blocks {
		sb.WriteString(fmt.Sprintf("\nDialogue: 0,%s,%s,Default,,0,0,0,,%s",
			formatASSTime(b.Start),
			formatASSTime(b.End),
			escapeASSText(b.Text)))
	}

	return sb.String()
}

// writes the store to an ASS file
func (w *ASSWriter) Write(store Store, path string) error {
	return writeFile(path, w.Encode(store))
}

// ASS uses centiseconds and single-digit hours
func formatASSTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	seconds := (ms % 60000) / 1000
	centis := (ms % 1000) / 10

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}

func escapeASSText(text string) string {
	return strings.ReplaceAll(text, "\n", "\\N")
}

func writeFile(path, content string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content+"\n"), 0644)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		return FormatSRT
	case ".vtt":
		return FormatVTT
	case ".ass", ".ssa":
		return FormatASS
	default:
		return FormatSRT
	}
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatSRT:
		return ".srt"
	case FormatVTT:
		return ".vtt"
	case FormatASS:
		return ".ass"
	default:
		return ".srt"
	}
}
