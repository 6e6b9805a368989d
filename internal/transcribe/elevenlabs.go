package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultElevenLabsURL   = "https://api.elevenlabs.io/v1/speech-to-text"
	DefaultElevenLabsModel = "scribe_v1"
)

// implements Transcriber interface using the ElevenLabs speech-to-text API
type ElevenLabsTranscriber struct {
	apiKey  string
	model   string
	url     string
	options Options
	client  *http.Client
}

func NewElevenLabsTranscriber(apiKey string, opts Options) (*ElevenLabsTranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := opts.Model
	if model == "" {
		model = DefaultElevenLabsModel
	}
	url := opts.BaseURL
	if url == "" {
		url = DefaultElevenLabsURL
	}

	return &ElevenLabsTranscriber{
		apiKey:  apiKey,
		model:   model,
		url:     url,
		options: opts,
		client:  &http.Client{Timeout: 10 * time.Minute},
	}, nil
}

// uploads the audio file and returns the JSON word list
func (t *ElevenLabsTranscriber) Transcribe(ctx context.Context, audioPath string) ([]byte, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("audio file not found: %s", audioPath)
		}
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}
	if err := writer.WriteField("model_id", t.model); err != nil {
		return nil, fmt.Errorf("failed to write form field: %w", err)
	}
	if t.options.Language != "" {
		if err := writer.WriteField("language_code", t.options.Language); err != nil {
			return nil, fmt.Errorf("failed to write form field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("xi-api-key", t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcription response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf(
			"transcription failed: status %d: %s",
			resp.StatusCode,
			truncateString(string(data), 200),
		)
	}

	return data, nil
}
