package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/elmella/ez-tweet/internal/config"
	"github.com/elmella/ez-tweet/internal/draft"
	"github.com/elmella/ez-tweet/internal/poster"
)

// Options configure the application.
type Options struct {
	// ConfigPath is an optional credentials file, KEY=VALUE or JSON.
	ConfigPath string
	// DryRun swaps the real poster for one that only logs.
	DryRun bool
	// MaxLength caps post length in Unicode code points. Defaults to
	// draft.DefaultMaxLength.
	MaxLength int
}

// App wires credentials and the poster behind the single posting path
// shared by the GUI and the CLI.
type App struct {
	Credentials *config.Credentials
	Poster      poster.Poster
	MaxLength   int
	DryRun      bool
}

// New loads credentials and wires the poster. Real runs require the full
// credential set; dry runs skip that check since nothing is sent.
func New(opts Options) (*App, error) {
	creds, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	maxLength := opts.MaxLength
	if maxLength <= 0 {
		maxLength = draft.DefaultMaxLength
	}

	a := &App{
		Credentials: creds,
		MaxLength:   maxLength,
		DryRun:      opts.DryRun,
	}

	if opts.DryRun {
		a.Poster = poster.NewDryRunPoster()
		return a, nil
	}

	if err := creds.Validate(); err != nil {
		return nil, err
	}

	a.Poster = poster.NewXPoster(poster.XConfig{
		BearerToken:    creds.BearerToken,
		ConsumerKey:    creds.ConsumerKey,
		ConsumerSecret: creds.ConsumerSecret,
		AccessToken:    creds.AccessToken,
		AccessSecret:   creds.AccessSecret,
	})
	return a, nil
}

// Post validates the draft text and publishes it. Validation failures
// return before any network activity.
func (a *App) Post(ctx context.Context, text string) (*poster.PostResult, error) {
	trimmed, err := draft.Validate(text, a.MaxLength)
	if err != nil {
		return nil, err
	}

	slog.Debug("posting", "platform", a.Poster.Platform(), "length", draft.Count(trimmed))

	result, err := a.Poster.Post(ctx, poster.PostContent{Text: trimmed})
	if err != nil {
		return nil, fmt.Errorf("post to %s: %w", a.Poster.Platform(), err)
	}
	return result, nil
}

// Verify checks the configured credentials against the platform.
func (a *App) Verify(ctx context.Context) error {
	return a.Poster.ValidateCredentials(ctx)
}
