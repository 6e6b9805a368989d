package cli

import (
	"fmt"

	"github.com/mgpai22/cuesmith/internal/config"
	"github.com/mgpai22/cuesmith/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

// commands carrying this annotation run without loading the config file
const skipConfigAnnotation = "skip-config"

var rootCmd = &cobra.Command{
	Use:   "cuesmith",
	Short: "Subtitle timing editor for the command line",
	Long: `cuesmith imports SRT and VTT subtitles, lets you edit them as blocks or as
continuous text, and re-derives timing when the text changes.

Blocks can be retimed with drag gestures (move, trim start, trim end) with
optional ripple, reformatted by an AI provider, or created from scratch by
transcribing audio or video.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		if cmd.Annotations[skipConfigAnnotation] == "true" {
			defaults := config.Default()
			cfg = &defaults
			return nil
		}

		if found, err := config.LoadDotEnv(""); err != nil {
			logger.Warnw("Could not read .env file", "error", err)
		} else if found {
			logger.Debugw("Environment loaded", "file", config.DotEnvFile)
		}

		loaded, path, exists, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		logger.Debugw("Configuration loaded",
			"path", path,
			"exists", exists,
		)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default ~/.config/cuesmith/config.toml)")
}
