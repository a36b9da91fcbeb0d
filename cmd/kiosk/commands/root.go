package commands

import (
	"github.com/spf13/cobra"

	"github.com/koscakluka/ema-kiosk/internal/config"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "kiosk",
	Short: "Interactive memory exhibit",
	Long: `kiosk - the memory exhibit session coordinator.

Visitors browse five memory prompts, pick one and talk about it with a
docent. Sessions return to the idle carousel on their own once the
visitor leaves.

Configuration is read from --config (YAML) and overridden by the
environment: OPENAI_API_KEY, GEMINI_API_KEY, KIOSK_PRESENCE_URL,
KIOSK_ARCHIVE_DIR and KIOSK_S3_*.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}
