package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/elmella/ez-tweet/internal/app"
)

var postCmd = &cobra.Command{
	Use:   "post [text]",
	Short: "Post an update without opening the window",
	Long: `Post a status update straight from the command line.

The text is the arguments joined with spaces; with no arguments it is
read from stdin.

Examples:
  ez-tweet post "hello world"
  echo "hello world" | ez-tweet post
  ez-tweet post --dry-run "testing the pipes"`,
	RunE: runPost,
}

func init() {
	rootCmd.AddCommand(postCmd)
}

func runPost(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := app.New(app.Options{
		ConfigPath: configPath,
		DryRun:     dryRun,
		MaxLength:  maxLength,
	})
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}

	text := strings.Join(args, " ")
	if len(args) == 0 {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(raw)
	}

	result, err := a.Post(ctx, text)
	if err != nil {
		return err
	}

	if a.DryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "Logged locally (dry-run).")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Posted successfully!\nURL: %s\n", result.PostURL)
	return nil
}
