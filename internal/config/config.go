package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Provider selects a service and model for one collaborator.
type Provider struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
}

// Credentials holds connection settings for one AI vendor.
type Credentials struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Transcribe selects the transcription provider.
type Transcribe struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	Language string `toml:"language"`
}

// Format selects the formatting provider and its layout limits.
type Format struct {
	Provider         string `toml:"provider"`
	Model            string `toml:"model"`
	MaxCharsPerLine  int    `toml:"max_chars_per_line"`
	MaxLinesPerBlock int    `toml:"max_lines_per_block"`
}

// Editor controls block identity and timeline behaviour.
type Editor struct {
	IDScheme string `toml:"id_scheme"`
	Ripple   bool   `toml:"ripple"`
}

// Config encapsulates all configuration values for cuesmith.
//
// Sections:
//   - Format: AI formatting provider
//   - Transcribe: AI transcription provider
//   - Gemini, OpenAI, Anthropic, ElevenLabs: vendor credentials
//   - Editor: id scheme and ripple default
type Config struct {
	Format     Format      `toml:"format"`
	Transcribe Transcribe  `toml:"transcribe"`
	Gemini     Credentials `toml:"gemini"`
	OpenAI     Credentials `toml:"openai"`
	Anthropic  Credentials `toml:"anthropic"`
	ElevenLabs Credentials `toml:"elevenlabs"`
	Editor     Editor      `toml:"editor"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cuesmith/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error; defaults and environment variables apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cuesmith.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Credentials returns the vendor settings for a provider name.
func (c *Config) Credentials(provider string) Credentials {
	switch provider {
	case "openai":
		return c.OpenAI
	case "anthropic":
		return c.Anthropic
	case "elevenlabs":
		return c.ElevenLabs
	case "gemini":
		return c.Gemini
	default:
		return Credentials{}
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
