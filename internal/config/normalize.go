package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() {
	c.Format.Provider = strings.ToLower(strings.TrimSpace(c.Format.Provider))
	if c.Format.Provider == "" {
		c.Format.Provider = defaultFormatProvider
	}
	c.Format.Model = strings.TrimSpace(c.Format.Model)
	if c.Format.MaxCharsPerLine == 0 {
		c.Format.MaxCharsPerLine = defaultMaxCharsPerLine
	}
	if c.Format.MaxLinesPerBlock == 0 {
		c.Format.MaxLinesPerBlock = defaultMaxLinesPerBlock
	}

	c.Transcribe.Provider = strings.ToLower(strings.TrimSpace(c.Transcribe.Provider))
	if c.Transcribe.Provider == "" {
		c.Transcribe.Provider = defaultTranscribeProvider
	}
	c.Transcribe.Model = strings.TrimSpace(c.Transcribe.Model)
	c.Transcribe.Language = strings.TrimSpace(c.Transcribe.Language)

	normalizeCredentials(&c.Gemini, "GEMINI_API_KEY")
	normalizeCredentials(&c.OpenAI, "OPENAI_API_KEY")
	normalizeCredentials(&c.Anthropic, "ANTHROPIC_API_KEY")
	normalizeCredentials(&c.ElevenLabs, "ELEVENLABS_API_KEY")
	if c.ElevenLabs.BaseURL == "" {
		c.ElevenLabs.BaseURL = defaultElevenLabsBaseURL
	}

	c.Editor.IDScheme = strings.ToLower(strings.TrimSpace(c.Editor.IDScheme))
	if c.Editor.IDScheme == "" {
		c.Editor.IDScheme = defaultIDScheme
	}
}

// environment keys win over the file
func normalizeCredentials(creds *Credentials, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		creds.APIKey = value
	}
	creds.APIKey = strings.TrimSpace(creds.APIKey)
	creds.BaseURL = strings.TrimSpace(creds.BaseURL)
}
