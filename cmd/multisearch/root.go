package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/config"
)

var (
	logLevel string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "multisearch",
	Short: "Fan-out search across YouTube, Reddit, the web, X, Instagram, TikTok and LinkedIn",
	Long: `multisearch queries seven platforms in parallel and returns one merged result.

Commands:
  multisearch serve            Run the HTTP API (and the Telegram bot when TELEGRAM_BOT_TOKEN is set)
  multisearch search <query>   Run one search and print the result as JSON

Configuration is read from the environment, see internal/config.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if logLevel != "" {
			c.Log.Level = logLevel
		}

		l, err := config.NewLogger(c.Log)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}

		cfg, logger = c, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn, error (overrides LOG_LEVEL)")
}
