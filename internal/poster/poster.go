// Package poster submits replies to social media platforms.
package poster

import (
	"context"
	"errors"
)

// ErrPosting is returned when a reply cannot be submitted.
var ErrPosting = errors.New("posting failed")

// PostResult represents a submitted reply.
type PostResult struct {
	PostID  string
	PostURL string
}

// Replier is the interface for replying on social media platforms.
type Replier interface {
	// Platform returns the name of the platform.
	Platform() string

	// Reply publishes text as a reply to the post identified by postID.
	Reply(ctx context.Context, postID, text string) (*PostResult, error)

	// ValidateCredentials checks if the credentials are valid.
	ValidateCredentials(ctx context.Context) error
}
