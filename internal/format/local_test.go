package format

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestLocalFormatterExamples(t *testing.T) {
	f := NewLocalFormatter(Options{})
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bottom heavy break after comma",
			in:   "Sit with me on that for a second, because I suspect it's true for all of us.",
			want: "Sit with me on that for a second,\nbecause I suspect it's true for all of us.",
		},
		{
			name: "sentence ends a line",
			in:   "I didn't default to my values. I defaulted to what I had practiced.",
			want: "I didn't default to my values.\nI defaulted to what I had practiced.",
		},
		{
			name: "short sentences fill blocks",
			in:   "Yes. No. Maybe so.",
			want: "Yes.\nNo.\n\nMaybe so.",
		},
		{
			name: "existing breaks are collapsed",
			in:   "Short\n\nline",
			want: "Short line",
		},
		{
			name: "oversized word stands alone",
			in:   "Supercalifragilisticexpialidocious-and-then-some-more ok",
			want: "Supercalifragilisticexpialidocious-and-then-some-more\n\nok",
		},
		{
			name: "blank input",
			in:   " \n\n\t",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Format(context.Background(), tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalFormatterLimits(t *testing.T) {
	text := strings.Repeat(
		"The quick brown fox jumps over the lazy dog, while the cat watches from the fence and wonders why anyone would bother. ",
		6,
	)
	tests := []struct {
		chars, lines int
	}{
		{42, 2},
		{32, 2},
		{20, 3},
	}

	for _, tt := range tests {
		f := NewLocalFormatter(Options{MaxCharsPerLine: tt.chars, MaxLinesPerBlock: tt.lines})
		got, err := f.Format(context.Background(), text)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Join(strings.Fields(got), " ") != PrepareInput(text) {
			t.Errorf("%d/%d: words were not preserved in order", tt.chars, tt.lines)
		}

		for _, block := range strings.Split(got, "\n\n") {
			lines := strings.Split(block, "\n")
			if len(lines) > tt.lines {
				t.Errorf("%d/%d: block has %d lines: %q", tt.chars, tt.lines, len(lines), block)
			}
			for _, line := range lines {
				if line == "" {
					t.Errorf("%d/%d: empty line in %q", tt.chars, tt.lines, block)
				}
				if n := utf8.RuneCountInString(line); n > tt.chars {
					t.Errorf("%d/%d: line %q has %d characters", tt.chars, tt.lines, line, n)
				}
			}
		}
	}
}

func TestLocalFormatterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLocalFormatter(Options{}).Format(ctx, "text"); err == nil {
		t.Error("expected error for cancelled context")
	}
}
