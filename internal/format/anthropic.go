package format

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// implements Formatter using Anthropic Claude
type AnthropicFormatter struct {
	client  anthropic.Client
	model   anthropic.Model
	options Options
}

func NewAnthropicFormatter(apiKey string, opts Options) (*AnthropicFormatter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := anthropic.NewClient(reqOpts...)

	model := anthropic.Model(opts.Model)
	if opts.Model == "" {
		model = anthropic.ModelClaudeHaiku4_5
	}

	return &AnthropicFormatter{
		client:  client,
		model:   model,
		options: opts.withDefaults(),
	}, nil
}

func (f *AnthropicFormatter) Format(ctx context.Context, text string) (string, error) {
	input := PrepareInput(text)
	if input == "" {
		return "", nil
	}

	message, err := f.client.Messages.New(
		ctx,
		anthropic.MessageNewParams{
			Model:       f.model,
			MaxTokens:   8192,
			Temperature: anthropic.Float(temperature),
			System: []anthropic.TextBlockParam{
				{Text: BuildInstruction(f.options)},
			},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(
					anthropic.NewTextBlock(input),
				),
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("formatting failed: %w", err)
	}

	if message == nil || len(message.Content) == 0 {
		return "", fmt.Errorf("empty response from Anthropic")
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return cleanOutput(sb.String())
}
