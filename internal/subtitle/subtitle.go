package subtitle

import (
	"fmt"
	"regexp"
	"strings"
)

// represents single timed subtitle block, times in milliseconds
type Block struct {
	ID    string
	Start int64
	End   int64
	Text  string
}

func (b Block) Duration() int64 {
	return b.End - b.Start
}

// partial update for SetField; nil fields are left alone
type Patch struct {
	Start *int64
	End   *int64
	Text  *string
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatASS Format = "ass"
)

// ParseFormat maps a user supplied format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "srt":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	case "ass", "ssa":
		return FormatASS, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use srt, vtt, or ass", name)
	}
}

// interface for writing subtitles to files
type Writer interface {
	Encode(store Store) string
	Write(store Store, path string) error
}

// separator between blocks in the flattened text view
const BlockSeparator = "\n\n"

var blankLineRun = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)*`)

// NormalizeNewlines converts CRLF and bare CR line endings to LF.
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// CleanText makes s safe to store as block text: normalized line endings,
// no blank lines, no surrounding whitespace.
func CleanText(s string) string {
	s = NormalizeNewlines(s)
	s = blankLineRun.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
