package poster

import (
	"context"
	"log/slog"
)

// DryRunPoster satisfies Poster without any network activity. It logs
// what would have been posted so dry runs read like the real thing.
type DryRunPoster struct{}

// NewDryRunPoster creates a poster that only logs.
func NewDryRunPoster() *DryRunPoster {
	return &DryRunPoster{}
}

// Platform returns the platform name.
func (d *DryRunPoster) Platform() string {
	return "dry-run"
}

// Post logs the intended text and reports success with an empty result.
func (d *DryRunPoster) Post(ctx context.Context, content PostContent) (*PostResult, error) {
	slog.Info("[dry-run] would have posted", "text", content.Text)
	return &PostResult{}, nil
}

// ValidateCredentials always succeeds; dry runs accept incomplete
// credential sets.
func (d *DryRunPoster) ValidateCredentials(ctx context.Context) error {
	return nil
}
