package poster

import (
	"context"
	"fmt"
)

// PostContent represents the content to be posted.
type PostContent struct {
	Text string
}

// PostResult represents the result of a successful post.
type PostResult struct {
	PostID  string
	PostURL string
}

// Poster is the interface for publishing a status update to a platform.
type Poster interface {
	// Platform returns the name of the platform.
	Platform() string

	// Post publishes content to the platform in a single attempt.
	// Failures are never retried internally; the error carries enough
	// detail for the caller to surface.
	Post(ctx context.Context, content PostContent) (*PostResult, error)

	// ValidateCredentials checks that the configured credentials are
	// accepted by the platform.
	ValidateCredentials(ctx context.Context) error
}

// APIError is a rejection returned by the platform. It keeps the HTTP
// status and whatever title/detail the response body carried.
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("API error (status %d)", e.StatusCode)
	if e.Title != "" {
		msg += ": " + e.Title
	}
	if e.Detail != "" && e.Detail != e.Title {
		msg += ": " + e.Detail
	}
	return msg
}
