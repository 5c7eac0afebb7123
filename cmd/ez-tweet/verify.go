package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elmella/ez-tweet/internal/app"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the configured X credentials",
	Long: `Verify that the configured credentials are accepted by X.

The OAuth 1.0a user context is checked with an authenticated account
lookup; when a bearer token is configured it is exercised with an
app-only lookup as well.

Examples:
  ez-tweet verify
  ez-tweet verify --config ./x.env`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := app.New(app.Options{
		ConfigPath: configPath,
		DryRun:     dryRun,
		MaxLength:  maxLength,
	})
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}

	if a.DryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "Dry run: credentials are not checked.")
		return nil
	}

	if err := a.Verify(ctx); err != nil {
		return fmt.Errorf("verify credentials: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Credentials OK.")
	return nil
}
