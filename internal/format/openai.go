package format

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// implements Formatter using OpenAI Chat Completions
type OpenAIFormatter struct {
	client  openai.Client
	model   string
	options Options
}

func NewOpenAIFormatter(apiKey string, opts Options) (*OpenAIFormatter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := openai.NewClient(reqOpts...)

	model := opts.Model
	if model == "" {
		model = "gpt-4.1-mini"
	}

	return &OpenAIFormatter{
		client:  client,
		model:   model,
		options: opts.withDefaults(),
	}, nil
}

func (f *OpenAIFormatter) Format(ctx context.Context, text string) (string, error) {
	input := PrepareInput(text)
	if input == "" {
		return "", nil
	}

	completion, err := f.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(BuildInstruction(f.options)),
				openai.UserMessage(input),
			},
			Model:       f.model,
			Temperature: openai.Float(temperature),
		},
	)
	if err != nil {
		return "", fmt.Errorf("formatting failed: %w", err)
	}

	if completion == nil || len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	return cleanOutput(completion.Choices[0].Message.Content)
}
