package subtitle

import (
	"strings"
	"testing"
)

func TestParseSRT(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantIDs     []string
		wantTimes   [][2]int64
		wantTexts   []string
		wantSkipped []int
	}{
		{
			name:      "single block",
			content:   "1\n00:00:01,500 --> 00:00:04,250\nHi\n",
			wantIDs:   []string{"1"},
			wantTimes: [][2]int64{{1500, 4250}},
			wantTexts: []string{"Hi"},
		},
		{
			name:      "crlf and bom",
			content:   "\ufeff1\r\n00:00:00,000 --> 00:00:01,000\r\nA\r\nB\r\n\r\n2\r\n00:00:02,000 --> 00:00:03,000\r\nC\r\n",
			wantIDs:   []string{"1", "2"},
			wantTimes: [][2]int64{{0, 1000}, {2000, 3000}},
			wantTexts: []string{"A\nB", "C"},
		},
		{
			name: "malformed timing is skipped",
			content: "1\n00:00:01,000 --> 00:00:02,000\nA\n\n" +
				"2\n00:00:xx,000 --> 00:00:03,000\nB\n\n" +
				"3\n00:00:04,000 --> 00:00:05,000\nC\n",
			wantIDs:     []string{"1", "3"},
			wantTimes:   [][2]int64{{1000, 2000}, {4000, 5000}},
			wantTexts:   []string{"A", "C"},
			wantSkipped: []int{2},
		},
		{
			name:      "text whitespace is trimmed",
			content:   "1\n00:00:00,000 --> 00:00:01,000\nHello \n\n2\n00:00:02,000 --> 00:00:03,000\n\tTwo\nlines  \n",
			wantIDs:   []string{"1", "2"},
			wantTimes: [][2]int64{{0, 1000}, {2000, 3000}},
			wantTexts: []string{"Hello", "Two\nlines"},
		},
		{
			name: "out of range timestamp is skipped",
			content: "1\n9999999999999999:00:00,000 --> 9999999999999999:00:01,000\nA\n\n" +
				"2\n00:00:04,000 --> 00:00:05,000\nB\n",
			wantIDs:     []string{"2"},
			wantTimes:   [][2]int64{{4000, 5000}},
			wantTexts:   []string{"B"},
			wantSkipped: []int{1},
		},
		{
			name: "missing timing line and inverted range",
			content: "1\njust some text\n\n" +
				"2\n00:00:05,000 --> 00:00:04,000\nbackwards\n\n" +
				"3\n00:00:06,000 --> 00:00:07,000\nok\n",
			wantIDs:     []string{"3"},
			wantTimes:   [][2]int64{{6000, 7000}},
			wantTexts:   []string{"ok"},
			wantSkipped: []int{1, 2},
		},
		{
			name: "duplicate and non-numeric labels get generated ids",
			content: "1\n00:00:01,000 --> 00:00:02,000\nA\n\n" +
				"1\n00:00:03,000 --> 00:00:04,000\nB\n\n" +
				"intro\n00:00:05,000 --> 00:00:06,000\nC\n\n" +
				"00:00:07,000 --> 00:00:08,000\nD\n",
			wantIDs:   []string{"1", "t-1", "t-2", "t-3"},
			wantTimes: [][2]int64{{1000, 2000}, {3000, 4000}, {5000, 6000}, {7000, 8000}},
			wantTexts: []string{"A", "B", "C", "D"},
		},
		{
			name: "out of order input is sorted",
			content: "2\n00:00:05,000 --> 00:00:06,000\nsecond\n\n" +
				"1\n00:00:01,000 --> 00:00:02,000\nfirst\n",
			wantIDs:   []string{"1", "2"},
			wantTimes: [][2]int64{{1000, 2000}, {5000, 6000}},
			wantTexts: []string{"first", "second"},
		},
		{
			name:    "empty content",
			content: "\n\n  \n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseSRT(tt.content, NewCounterGenerator("t"))
			assertBlocks(t, result.Store, tt.wantIDs, tt.wantTimes, tt.wantTexts)

			if len(result.Skipped) != len(tt.wantSkipped) {
				t.Fatalf("skipped: got %v, want ordinals %v", result.Skipped, tt.wantSkipped)
			}
			for i, ordinal := range tt.wantSkipped {
				if result.Skipped[i].Ordinal != ordinal {
					t.Errorf("skipped[%d]: got ordinal %d, want %d", i, result.Skipped[i].Ordinal, ordinal)
				}
				if result.Skipped[i].Reason == "" {
					t.Errorf("skipped[%d]: empty reason", i)
				}
			}
		})
	}
}

func TestParseVTT(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantIDs   []string
		wantTimes [][2]int64
		wantTexts []string
	}{
		{
			name:      "header with metadata",
			content:   "WEBVTT - title\nKind: captions\n\n00:00:01.500 --> 00:00:04.250\nHi\n",
			wantIDs:   []string{"t-1"},
			wantTimes: [][2]int64{{1500, 4250}},
			wantTexts: []string{"Hi"},
		},
		{
			name:      "cue directly after header",
			content:   "WEBVTT\n00:00:01.000 --> 00:00:02.000\nA\n",
			wantIDs:   []string{"t-1"},
			wantTimes: [][2]int64{{1000, 2000}},
			wantTexts: []string{"A"},
		},
		{
			name: "note style and region blocks are ignored",
			content: "WEBVTT\n\nSTYLE\n::cue { color: red }\n\nNOTE this is a comment\n\n" +
				"REGION\nid:left\n\nintro\n00:00:01.000 --> 00:00:02.000\nA\n",
			wantIDs:   []string{"intro"},
			wantTimes: [][2]int64{{1000, 2000}},
			wantTexts: []string{"A"},
		},
		{
			name:      "short clock and cue settings",
			content:   "WEBVTT\n\n01:02.500 --> 01:04.000 align:start position:10%\nA\n",
			wantIDs:   []string{"t-1"},
			wantTimes: [][2]int64{{62500, 64000}},
			wantTexts: []string{"A"},
		},
		{
			name:      "comma separator is tolerated",
			content:   "WEBVTT\n\n00:00:01,000 --> 00:00:02,000\nA\n",
			wantIDs:   []string{"t-1"},
			wantTimes: [][2]int64{{1000, 2000}},
			wantTexts: []string{"A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseVTT(tt.content, NewCounterGenerator("t"))
			if len(result.Skipped) != 0 {
				t.Errorf("unexpected skipped blocks: %v", result.Skipped)
			}
			assertBlocks(t, result.Store, tt.wantIDs, tt.wantTimes, tt.wantTexts)
		})
	}
}

func TestParseThenEncodeIsStable(t *testing.T) {
	srt := "1\n00:00:01,500 --> 00:00:04,250\nHi\n\n2\n00:00:05,000 --> 00:00:06,000\nTwo\nlines"
	result := ParseSRT(srt, NewCounterGenerator(""))
	if got := EncodeSRT(result.Store); got != srt {
		t.Errorf("srt: got %q, want %q", got, srt)
	}

	vtt := "WEBVTT\n\n00:00:01.500 --> 00:00:04.250\nHi"
	result = ParseVTT(vtt, NewCounterGenerator(""))
	if got := EncodeVTT(result.Store); got != vtt {
		t.Errorf("vtt: got %q, want %q", got, vtt)
	}
}

func assertBlocks(t *testing.T, store Store, ids []string, times [][2]int64, texts []string) {
	t.Helper()

	blocks := store.Blocks()
	if len(blocks) != len(texts) {
		t.Fatalf("expected %d blocks, got %d: %+v", len(texts), len(blocks), blocks)
	}
	for i, b := range blocks {
		if b.ID != ids[i] {
			t.Errorf("block %d: id got %q, want %q", i, b.ID, ids[i])
		}
		if b.Start != times[i][0] || b.End != times[i][1] {
			t.Errorf("block %d: got %d-%d, want %d-%d", i, b.Start, b.End, times[i][0], times[i][1])
		}
		if b.Text != texts[i] {
			t.Errorf("block %d: text got %q, want %q", i, b.Text, texts[i])
		}
		if strings.Contains(b.Text, BlockSeparator) {
			t.Errorf("block %d: text contains a blank line", i)
		}
	}
}
