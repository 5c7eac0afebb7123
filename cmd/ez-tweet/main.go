package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/elmella/ez-tweet/internal/app"
	"github.com/elmella/ez-tweet/internal/draft"
	"github.com/elmella/ez-tweet/internal/gui"
)

var (
	configPath string
	dryRun     bool
	maxLength  int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "ez-tweet",
	Short: "Post a short status update to X from a local window",
	Long: `ez-tweet opens a small window with a text box, a live character
counter, and a Post button. The update is sent to X with a single API call.

Credentials come from environment variables or an optional config file
(JSON or KEY=VALUE lines); environment variables win.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging(verbose)
	},
	RunE: runRoot,
}

func init() {
	// Load .env file if present
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Optional path to a config file (JSON or KEY=VALUE lines) with X credentials")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Log what would be posted without calling the X API")
	rootCmd.PersistentFlags().IntVar(&maxLength, "max-length", draft.DefaultMaxLength, "Maximum allowed characters for the post")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose || os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func runRoot(cmd *cobra.Command, args []string) error {
	a, err := app.New(app.Options{
		ConfigPath: configPath,
		DryRun:     dryRun,
		MaxLength:  maxLength,
	})
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}

	slog.Debug("opening window", "dry_run", dryRun, "max_length", maxLength)
	gui.Run(a)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
