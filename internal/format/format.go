// Package format turns continuous prose into subtitle-shaped text: blocks
// separated by a blank line, each at most two lines of 42 characters. The
// remote providers ask a language model to do it; the local provider wraps
// words deterministically.
package format

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	DefaultMaxCharsPerLine  = 42
	DefaultMaxLinesPerBlock = 2

	temperature = 0.1
)

var ErrEmptyOutput = errors.New("formatter returned no text")

// interface for subtitle text formatting
type Formatter interface {
	Format(ctx context.Context, text string) (string, error)
}

// formatting service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderLocal     Provider = "local"
)

type Options struct {
	Model            string
	BaseURL          string
	MaxCharsPerLine  int
	MaxLinesPerBlock int
}

func (o Options) withDefaults() Options {
	if o.MaxCharsPerLine <= 0 {
		o.MaxCharsPerLine = DefaultMaxCharsPerLine
	}
	if o.MaxLinesPerBlock <= 0 {
		o.MaxLinesPerBlock = DefaultMaxLinesPerBlock
	}
	return o
}

// creates Formatter based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Formatter, error) {
	switch provider {
	case ProviderGemini, "":
		return NewGeminiFormatter(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAIFormatter(apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicFormatter(apiKey, opts)
	case ProviderLocal:
		return NewLocalFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported formatting provider: %s", provider)
	}
}

// environment variable holding the API key for a provider, empty when none
// is needed
func APIKeyEnv(provider Provider) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderLocal:
		return ""
	default:
		return "GEMINI_API_KEY"
	}
}

// BuildInstruction returns the system instruction sent with every request.
func BuildInstruction(opts Options) string {
	opts = opts.withDefaults()

	var sb strings.Builder
	sb.WriteString("You are a subtitle editor. Format the continuous text you are given into readable subtitle blocks.\n\n")

	sb.WriteString("RULES:\n")
	sb.WriteString("1. If the text is English, use British English spelling and correct American spellings.\n")
	sb.WriteString(fmt.Sprintf(
		"2. At most %d characters per line and at most %d lines per block.\n",
		opts.MaxCharsPerLine,
		opts.MaxLinesPerBlock,
	))
	sb.WriteString("3. Break lines after commas, full stops or conjunctions. Never leave one or two words of a clause behind a punctuation mark on the same line.\n")
	sb.WriteString("4. The bottom line of a block must be at least as long as the top line.\n")
	sb.WriteString("5. Never start a new sentence at the end of a line; when a sentence ends, break the line or start a new block.\n\n")

	sb.WriteString("BAD:\n")
	sb.WriteString("Sit with me on that for a second, because\nI suspect it's true for all of us.\n\n")
	sb.WriteString("GOOD:\n")
	sb.WriteString("Sit with me on that for a second,\nbecause I suspect it's true for all of us.\n\n")
	sb.WriteString("BAD:\n")
	sb.WriteString("I didn't default to my values. I\ndefaulted to what I had practiced.\n\n")
	sb.WriteString("GOOD:\n")
	sb.WriteString("I didn't default to my values.\nI defaulted to what I had practiced.\n\n")

	sb.WriteString("Output only the formatted plain text. Separate lines of the same block with one line break ")
	sb.WriteString("and separate blocks with a blank line. Do not output timestamps, numbering, markdown or commentary.")

	return sb.String()
}

// PrepareInput collapses all whitespace, including block breaks, to single
// spaces.
func PrepareInput(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

var fenceRegex = regexp.MustCompile("```[a-zA-Z]*[ \t]*\n?")

// normalizes a provider response into block text
func cleanOutput(s string) (string, error) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = fenceRegex.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyOutput
	}
	return s, nil
}
