package config

const (
	defaultFormatProvider     = "gemini"
	defaultTranscribeProvider = "elevenlabs"
	defaultElevenLabsBaseURL  = "https://api.elevenlabs.io/v1/speech-to-text"
	defaultIDScheme           = "uuid"
	defaultMaxCharsPerLine    = 42
	defaultMaxLinesPerBlock   = 2
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Format: Format{
			Provider:         defaultFormatProvider,
			MaxCharsPerLine:  defaultMaxCharsPerLine,
			MaxLinesPerBlock: defaultMaxLinesPerBlock,
		},
		Transcribe: Transcribe{
			Provider: defaultTranscribeProvider,
		},
		ElevenLabs: Credentials{
			BaseURL: defaultElevenLabsBaseURL,
		},
		Editor: Editor{
			IDScheme: defaultIDScheme,
		},
	}
}
