package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mgpai22/cuesmith/internal/audio"
	"github.com/mgpai22/cuesmith/internal/subtitle"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// implements Transcriber interface using OpenAI Audio API
type OpenAITranscriber struct {
	client  openai.Client
	model   string
	options Options
}

// segment from OpenAI Whisper verbose_json response
type whisperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// verbose_json response structure from Whisper
type whisperVerboseResponse struct {
	Text     string           `json:"text"`
	Words    []Word           `json:"words"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

func NewOpenAITranscriber(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAITranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// transcribes single audio file with word timestamps
func (t *OpenAITranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) ([]byte, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"word", "segment"},
	}

	if t.options.Language != "" {
		params.Language = openai.String(t.options.Language)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	var fallbackMillis int64
	if duration, err := audio.GetDuration(audioPath); err == nil {
		fallbackMillis = duration.Milliseconds()
	}

	return parseVerboseJSONResponse(resp.RawJSON(), fallbackMillis)
}

// parseVerboseJSONResponse normalizes a verbose_json body into something
// Ingest reads: the word list when word timestamps are present, otherwise the
// segments (or the bare text) rendered as SRT.
func parseVerboseJSONResponse(rawJSON string, fallbackMillis int64) ([]byte, error) {
	if rawJSON == "" {
		return nil, fmt.Errorf("empty response")
	}

	var verboseResp whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &verboseResp); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	if len(verboseResp.Words) > 0 {
		return json.Marshal(WordResponse{
			LanguageCode: verboseResp.Language,
			Text:         verboseResp.Text,
			Words:        verboseResp.Words,
		})
	}

	var blocks []subtitle.Block
	for _, seg := range verboseResp.Segments {
		text := subtitle.CleanText(seg.Text)
		if text == "" {
			continue
		}
		blocks = append(blocks, subtitle.Block{
			Start: secondsToMillis(seg.Start),
			End:   secondsToMillis(seg.End),
			Text:  text,
		})
	}

	if len(blocks) == 0 {
		text := subtitle.CleanText(verboseResp.Text)
		if text == "" {
			return nil, fmt.Errorf("no words, segments or text in response")
		}
		end := fallbackMillis
		if verboseResp.Duration > 0 {
			end = secondsToMillis(verboseResp.Duration)
		}
		if end <= 0 {
			end = MinBlockDuration
		}
		blocks = []subtitle.Block{{Start: 0, End: end, Text: text}}
	}

	return []byte(subtitle.EncodeSRT(subtitle.NewStore(blocks))), nil
}
