package poster

import (
	"context"
	"log/slog"
)

// DryRunPoster logs replies instead of sending them.
type DryRunPoster struct {
	platform string
}

// NewDryRunPoster creates a dry-run poster standing in for platform.
func NewDryRunPoster(platform string) *DryRunPoster {
	return &DryRunPoster{platform: platform}
}

// Platform returns the platform the poster stands in for.
func (d *DryRunPoster) Platform() string {
	return d.platform
}

// ValidateCredentials always succeeds.
func (d *DryRunPoster) ValidateCredentials(ctx context.Context) error {
	return nil
}

// Reply logs the reply.
func (d *DryRunPoster) Reply(ctx context.Context, postID, text string) (*PostResult, error) {
	slog.Info("dry run reply",
		"platform", d.platform,
		"in_reply_to", postID,
		"text", text,
	)
	return &PostResult{}, nil
}
