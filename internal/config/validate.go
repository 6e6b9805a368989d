package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. API keys are checked by the
// command that needs them, not here.
func (c *Config) Validate() error {
	if err := c.validateFormat(); err != nil {
		return err
	}
	if err := c.validateTranscribe(); err != nil {
		return err
	}
	return c.validateEditor()
}

func (c *Config) validateFormat() error {
	switch c.Format.Provider {
	case "gemini", "openai", "anthropic", "local":
	default:
		return fmt.Errorf("format.provider must be one of gemini, openai, anthropic, local (got %q)", c.Format.Provider)
	}
	if c.Format.MaxCharsPerLine < 0 {
		return errors.New("format.max_chars_per_line must be positive")
	}
	if c.Format.MaxLinesPerBlock < 0 {
		return errors.New("format.max_lines_per_block must be positive")
	}
	return nil
}

func (c *Config) validateTranscribe() error {
	switch c.Transcribe.Provider {
	case "elevenlabs", "openai", "gemini":
		return nil
	default:
		return fmt.Errorf("transcribe.provider must be one of elevenlabs, openai, gemini (got %q)", c.Transcribe.Provider)
	}
}

func (c *Config) validateEditor() error {
	switch c.Editor.IDScheme {
	case "uuid", "counter":
		return nil
	default:
		return fmt.Errorf("editor.id_scheme must be uuid or counter (got %q)", c.Editor.IDScheme)
	}
}
