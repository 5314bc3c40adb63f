// Package shortlink turns long URLs into short display links.
package shortlink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrShortLink is returned when a link cannot be shortened.
var ErrShortLink = errors.New("link shortening failed")

// DefaultPlaceholder is substituted for a link the shortener could not produce.
const DefaultPlaceholder = "https://bit.ly/3HJ6HB6"

// Shortener returns a short link for a long URL.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (string, error)
}

// Passthrough returns links unchanged. It is used when no shortening
// service is configured.
type Passthrough struct{}

// Shorten returns longURL.
func (Passthrough) Shorten(ctx context.Context, longURL string) (string, error) {
	return longURL, nil
}

// FallbackPolicy decides what happens when shortening fails.
type FallbackPolicy string

const (
	// FallbackPlaceholder logs the failure and substitutes a placeholder link.
	FallbackPlaceholder FallbackPolicy = "placeholder"
	// FallbackFail returns the failure to the caller.
	FallbackFail FallbackPolicy = "fail"
)

// ParseFallbackPolicy converts a config value into a policy. Empty means placeholder.
func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	switch FallbackPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", FallbackPlaceholder:
		return FallbackPlaceholder, nil
	case FallbackFail:
		return FallbackFail, nil
	}
	return "", fmt.Errorf("invalid shortlink fallback %q (must be 'placeholder' or 'fail')", s)
}

// fallback substitutes a placeholder when the wrapped shortener fails.
type fallback struct {
	next        Shortener
	placeholder string
}

// WithFallback wraps s so failures are logged and replaced by placeholder.
func WithFallback(s Shortener, placeholder string) Shortener {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return &fallback{next: s, placeholder: placeholder}
}

func (f *fallback) Shorten(ctx context.Context, longURL string) (string, error) {
	short, err := f.next.Shorten(ctx, longURL)
	if err != nil {
		slog.Warn("link shortening failed, using placeholder",
			"url", longURL,
			"placeholder", f.placeholder,
			"error", err,
		)
		return f.placeholder, nil
	}
	return short, nil
}

// Apply wraps s according to policy.
func Apply(s Shortener, policy FallbackPolicy, placeholder string) Shortener {
	if policy == FallbackFail {
		return s
	}
	return WithFallback(s, placeholder)
}
