package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgpai22/cuesmith/internal/subtitle"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const sampleSRT = `1
00:00:00,000 --> 00:00:01,000
Hello there.

2
00:00:02,000 --> 00:00:03,000
How are you today?
`

// rootCmd is shared, so every run starts from default flag values.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, env := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "ELEVENLABS_API_KEY"} {
		t.Setenv(env, "")
	}

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSample(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func openStore(t *testing.T, path string) subtitle.Store {
	t.Helper()
	doc, err := subtitle.Open(path, subtitle.NewCounterGenerator("t"))
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	return doc.Store
}

func TestParseTimeFlag(t *testing.T) {
	tests := []struct {
		value   string
		want    int64
		wantErr bool
	}{
		{"1500", 1500, false},
		{" 0 ", 0, false},
		{"00:00:01,500", 1500, false},
		{"00:01:02.003", 62003, false},
		{"-5", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parseTimeFlag("from", tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTimeFlag(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseTimeFlag(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestBlockIndex(t *testing.T) {
	store := subtitle.NewStore([]subtitle.Block{
		{ID: "a", Start: 0, End: 1000, Text: "a"},
		{ID: "b", Start: 1000, End: 2000, Text: "b"},
	})

	tests := []struct {
		n       int
		want    int
		wantErr bool
	}{
		{1, 0, false},
		{2, 1, false},
		{0, 0, true},
		{3, 0, true},
	}

	for _, tt := range tests {
		got, err := blockIndex("index", tt.n, store)
		if tt.wantErr {
			if !errors.Is(err, subtitle.ErrIndexOutOfRange) {
				t.Errorf("blockIndex(%d) error = %v, want ErrIndexOutOfRange", tt.n, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("blockIndex(%d) = %d, %v; want %d", tt.n, got, err, tt.want)
		}
	}
}

func TestConvertWritesRequestedFormat(t *testing.T) {
	input := writeSample(t, "talk.srt", sampleSRT)
	output := filepath.Join(filepath.Dir(input), "talk.vtt")

	out, err := execute(t, "convert", input, "-o", output)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if !strings.Contains(out, "Converted 2 blocks to vtt") {
		t.Errorf("unexpected output: %q", out)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "WEBVTT") {
		t.Errorf("output is not VTT: %q", data)
	}
	if got := openStore(t, output).Len(); got != 2 {
		t.Errorf("converted blocks = %d, want 2", got)
	}
}

func TestConvertNeedsTarget(t *testing.T) {
	input := writeSample(t, "talk.srt", sampleSRT)
	if _, err := execute(t, "convert", input); err == nil {
		t.Fatal("expected an error without --format or --output")
	}
}

func TestConvertDefaultNameUsesLabel(t *testing.T) {
	input := writeSample(t, "talk.srt", sampleSRT)

	if _, err := execute(t, "convert", input, "-f", "vtt", "--label", "pt-br"); err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	want := filepath.Join(filepath.Dir(input), "talk_PT-BR_edited.vtt")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected %s: %v", want, err)
	}
}

func TestFlattenPrintsText(t *testing.T) {
	input := writeSample(t, "talk.srt", sampleSRT)

	out, err := execute(t, "flatten", input)
	if err != nil {
		t.Fatalf("flatten failed: %v", err)
	}
	want := "Hello there.\n\nHow are you today?\n"
	if out != want {
		t.Errorf("flatten = %q, want %q", out, want)
	}
}

func TestFlattenOffsetLookup(t *testing.T) {
	input := writeSample(t, "talk.srt", sampleSRT)

	tests := []struct {
		offset  string
		want    string
		wantErr bool
	}{
		{offset: "0", want: "Block 1: 00:00:00,000 --> 00:00:01,000\nHello there.\n"},
		{offset: "14", want: "Block 1: 00:00:00,000 --> 00:00:01,000\nHello there.\n"},
		{offset: "15", want: "Block 2: 00:00:02,000 --> 00:00:03,000\nHow are you today?\n"},
		{offset: "500", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.offset, func(t *testing.T) {
			out, err := execute(t, "flatten", input, "--offset", tt.offset)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("flatten --offset failed: %v", err)
			}
			if out != tt.want {
				t.Errorf("got %q, want %q", out, tt.want)
			}
		})
	}
}

func TestListRendersTable(t *testing.T) {
	input := writeSample(t, "talk.srt", sampleSRT)

	out, err := execute(t, "list", input, "--ids")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{"2 blocks", "Hello there.", "00:00:02,000", "1.000s", "ID"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestSyncKeepsUnchangedBlocks(t *testing.T) {
	input := writeSample(t, "talk.srt", sampleSRT)
	dir := filepath.Dir(input)
	textPath := filepath.Join(dir, "edited.txt")
	output := filepath.Join(dir, "synced.srt")

	edited := "Hello there.\n\nHow are you doing today, my friend?"
	if err := os.WriteFile(textPath, []byte(edited), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "sync", input, "--text", textPath, "-o", output); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	store := openStore(t, output)
	if store.Len() != 2 {
		t.Fatalf("blocks = %d, want 2", store.Len())
	}
	first, _ := store.At(0)
	if first.Start != 0 || first.End != 1000 || first.Text != "Hello there." {
		t.Errorf("unchanged block moved: %+v", first)
	}
	second, _ := store.At(1)
	if second.Text != "How are you doing today, my friend?" {
		t.Errorf("edited text = %q", second.Text)
	}
	if second.Start < first.End {
		t.Errorf("edited block overlaps: %+v", second)
	}
}

func TestFormatLocalProvider(t *testing.T) {
	long := `1
00:00:00,000 --> 00:00:06,000
This sentence is long enough that it has to be wrapped over two lines. And a second one follows.
`
	input := writeSample(t, "long.srt", long)
	output := filepath.Join(filepath.Dir(input), "long_out.srt")

	if _, err := execute(t, "format", input, "--provider", "local", "-o", output); err != nil {
		t.Fatalf("format failed: %v", err)
	}

	store := openStore(t, output)
	if store.IsEmpty() {
		t.Fatal("formatted store is empty")
	}
	for _, b := range store.Blocks() {
		lines := strings.Split(b.Text, "\n")
		if len(lines) > 2 {
			t.Errorf("block has %d lines: %q", len(lines), b.Text)
		}
		for _, line := range lines {
			if n := len([]rune(line)); n > 42 {
				t.Errorf("line has %d chars: %q", n, line)
			}
		}
		if b.Start < 0 || b.End > 6000 {
			t.Errorf("block outside original timing: %+v", b)
		}
	}
}

func TestFormatRequiresAPIKey(t *testing.T) {
	input := writeSample(t, "talk.srt", sampleSRT)

	_, err := execute(t, "format", input, "--provider", "openai")
	if err == nil || !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestDragMoveAndRipple(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantFirst  [2]int64
		wantSecond [2]int64
	}{
		{
			name:       "move",
			args:       []string{"--index", "1", "--from", "500", "--to", "1000"},
			wantFirst:  [2]int64{500, 1500},
			wantSecond: [2]int64{2000, 3000},
		},
		{
			name:       "move with ripple",
			args:       []string{"--index", "1", "--from", "500", "--to", "1000", "--ripple", "--steps", "4"},
			wantFirst:  [2]int64{500, 1500},
			wantSecond: [2]int64{2500, 3500},
		},
		{
			name:       "trim end",
			args:       []string{"-i", "2", "--mode", "trim-end", "--from", "00:00:03,000", "--to", "00:00:03,750"},
			wantFirst:  [2]int64{0, 1000},
			wantSecond: [2]int64{2000, 3750},
		},
		{
			name:       "trim start keeps minimum duration",
			args:       []string{"-i", "1", "--mode", "trim-start", "--from", "0", "--to", "5000"},
			wantFirst:  [2]int64{900, 1000},
			wantSecond: [2]int64{2000, 3000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := writeSample(t, "talk.srt", sampleSRT)
			output := filepath.Join(filepath.Dir(input), "dragged.srt")

			args := append([]string{"drag", input, "-o", output}, tt.args...)
			if _, err := execute(t, args...); err != nil {
				t.Fatalf("drag failed: %v", err)
			}

			store := openStore(t, output)
			first, _ := store.At(0)
			second, _ := store.At(1)
			if got := [2]int64{first.Start, first.End}; got != tt.wantFirst {
				t.Errorf("first block = %v, want %v", got, tt.wantFirst)
			}
			if got := [2]int64{second.Start, second.End}; got != tt.wantSecond {
				t.Errorf("second block = %v, want %v", got, tt.wantSecond)
			}
		})
	}
}

func TestDragRejectsBadInput(t *testing.T) {
	tests := map[string][]string{
		"bad index":      {"--index", "9", "--from", "0", "--to", "10"},
		"bad mode":       {"--index", "1", "--mode", "spin", "--from", "0", "--to", "10"},
		"bad time":       {"--index", "1", "--from", "later", "--to", "10"},
		"both durations": {"--index", "1", "--from", "0", "--to", "10", "--media", "x.mp4", "--media-duration", "1000"},
	}

	for name, extra := range tests {
		t.Run(name, func(t *testing.T) {
			input := writeSample(t, "talk.srt", sampleSRT)
			args := append([]string{"drag", input, "-o", input + ".out.srt"}, extra...)
			if _, err := execute(t, args...); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestBlockEditCommands(t *testing.T) {
	input := writeSample(t, "talk.srt", sampleSRT)

	if _, err := execute(t, "add", input, "--after", "1", "--in-place"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	store := openStore(t, input)
	if store.Len() != 3 {
		t.Fatalf("after add: %d blocks, want 3", store.Len())
	}
	added, _ := store.At(1)
	if added.Start != 1100 || added.End != 3100 || added.Text != subtitle.PlaceholderText {
		t.Errorf("added block = %+v", added)
	}

	if _, err := execute(t, "set", input, "-i", "2", "--start", "1200", "--end", "00:00:01,900", "--text", `Line one\nLine two`, "--in-place"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	store = openStore(t, input)
	set, _ := store.At(1)
	if set.Start != 1200 || set.End != 1900 || set.Text != "Line one\nLine two" {
		t.Errorf("set block = %+v", set)
	}

	if _, err := execute(t, "remove", input, "--index", "2", "--in-place"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	store = openStore(t, input)
	if store.Len() != 2 {
		t.Fatalf("after remove: %d blocks, want 2", store.Len())
	}
	last, _ := store.At(1)
	if last.Text != "How are you today?" {
		t.Errorf("wrong block removed, second is %q", last.Text)
	}
}

func TestSetNeedsAField(t *testing.T) {
	input := writeSample(t, "talk.srt", sampleSRT)
	if _, err := execute(t, "set", input, "-i", "1", "--in-place"); err == nil {
		t.Fatal("expected an error with nothing to set")
	}
}

func TestInPlaceAndOutputConflict(t *testing.T) {
	input := writeSample(t, "talk.srt", sampleSRT)
	_, err := execute(t, "remove", input, "-i", "1", "--in-place", "-o", input+".srt")
	if err == nil {
		t.Fatal("expected --in-place and --output to conflict")
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cuesmith.toml")

	out, err := execute(t, "config", "init", path)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("output does not name the file: %q", out)
	}

	if _, err := execute(t, "config", "init", path); err == nil {
		t.Fatal("expected an error for an existing file")
	}
	if _, err := execute(t, "config", "init", path, "--force"); err != nil {
		t.Fatalf("config init --force failed: %v", err)
	}
}
