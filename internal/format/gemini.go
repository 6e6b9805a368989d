package format

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// implements Formatter using Google Gemini
type GeminiFormatter struct {
	client  *genai.Client
	model   string
	options Options
}

func NewGeminiFormatter(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*GeminiFormatter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey: apiKey,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions.BaseURL = opts.BaseURL
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiFormatter{
		client:  client,
		model:   model,
		options: opts.withDefaults(),
	}, nil
}

func (f *GeminiFormatter) Format(ctx context.Context, text string) (string, error) {
	input := PrepareInput(text)
	if input == "" {
		return "", nil
	}

	contents := []*genai.Content{
		genai.NewContentFromText(input, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(BuildInstruction(f.options), genai.RoleUser),
		Temperature:       genai.Ptr[float32](temperature),
	}

	result, err := f.client.Models.GenerateContent(ctx, f.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("formatting failed: %w", err)
	}

	return parseGeminiResponse(result)
}

func parseGeminiResponse(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var sb strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}

	return cleanOutput(sb.String())
}
