package transcribe

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/mgpai22/cuesmith/internal/subtitle"
)

const (
	MaxWordsPerBlock = 7
	MaxWordGap       = 500 // ms of silence that starts a new block
	MinBlockDuration = 100 // ms given to a block whose words carry no duration
)

// single word/token from a word-level transcript, times in seconds
type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Type  string  `json:"type"` // "word", "spacing", "audio_event"
}

// whisper names the token "word"
func (w *Word) UnmarshalJSON(data []byte) error {
	var raw struct {
		Text  string  `json:"text"`
		Word  string  `json:"word"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Type  string  `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	w.Text = raw.Text
	if w.Text == "" {
		w.Text = raw.Word
	}
	w.Start, w.End, w.Type = raw.Start, raw.End, raw.Type
	return nil
}

// top-level word list document
type WordResponse struct {
	LanguageCode string `json:"language_code,omitempty"`
	Text         string `json:"text,omitempty"`
	Words        []Word `json:"words"`
}

// Ingest turns a transcription body into blocks. A JSON document is read as a
// word list (no words gives an empty store); anything else is parsed as SRT.
func Ingest(body []byte, ids subtitle.IDGenerator) subtitle.ParseResult {
	trimmed := bytes.TrimSpace(body)

	var resp WordResponse
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &resp); err == nil {
			return subtitle.ParseResult{Store: GroupWords(resp.Words, ids)}
		}
	}

	return subtitle.ParseSRT(string(body), ids)
}

// GroupWords packs words into blocks of at most MaxWordsPerBlock words,
// breaking early when a word starts more than MaxWordGap after the previous
// one ended. Spacing tokens are skipped.
func GroupWords(words []Word, ids subtitle.IDGenerator) subtitle.Store {
	var blocks []subtitle.Block
	var current []string
	var start, end int64

	flush := func() {
		if len(current) == 0 {
			return
		}
		if n := len(blocks); n > 0 && start < blocks[n-1].End {
			start = blocks[n-1].End
		}
		if end <= start {
			end = start + MinBlockDuration
		}
		blocks = append(blocks, subtitle.Block{
			ID:    ids.NewID(),
			Start: start,
			End:   end,
			Text:  strings.Join(current, " "),
		})
		current = nil
	}

	for _, w := range words {
		if w.Type == "spacing" {
			continue
		}
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}

		wStart, wEnd := secondsToMillis(w.Start), secondsToMillis(w.End)
		if len(current) >= MaxWordsPerBlock || (len(current) > 0 && wStart-end > MaxWordGap) {
			flush()
		}
		if len(current) == 0 {
			start, end = wStart, wEnd
		} else {
			end = max(end, wEnd)
		}
		current = append(current, text)
	}
	flush()

	return subtitle.NewStore(blocks)
}

func secondsToMillis(s float64) int64 {
	if math.IsNaN(s) || s < 0 {
		return 0
	}
	return int64(math.Round(s * 1000))
}
