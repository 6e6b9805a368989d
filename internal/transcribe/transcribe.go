package transcribe

import (
	"context"
	"fmt"
)

// interface for audio transcription; the result is the provider's raw body,
// either a word list JSON document or SRT text, and goes through Ingest
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]byte, error)
}

// transcription service provider
type Provider string

const (
	ProviderElevenLabs Provider = "elevenlabs"
	ProviderOpenAI     Provider = "openai"
	ProviderGemini     Provider = "gemini"
)

// transcription options
type Options struct {
	Language string // ISO code of the spoken language, empty to auto-detect
	Model    string
	BaseURL  string // ElevenLabs endpoint override
}

// creates transcriber based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderElevenLabs, "":
		return NewElevenLabsTranscriber(apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// environment variable holding the API key for a provider
func APIKeyEnv(provider Provider) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "ELEVENLABS_API_KEY"
	}
}

// truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
