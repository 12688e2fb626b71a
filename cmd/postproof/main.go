package main

import (
	"os"

	"postproof/internal/app"
	"postproof/pkg/log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "postproof",
	Short: "Verify that social-media posts contain required keywords",
	Long: `postproof checks public posts on X, Threads, Facebook and LinkedIn
for required keywords and reports engagement counters.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logLevel == "" {
			logLevel = os.Getenv("LOG_LEVEL")
		}
		if logLevel == "" {
			logLevel = "warn"
		}
		// Logs go to stderr so stdout stays machine-readable.
		logger, err := app.NewLogger(logLevel, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		log.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Default().Close()
	},
}

func init() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
