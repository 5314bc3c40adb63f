// Package monitor searches social platforms for posts matching a query.
package monitor

import (
	"context"
)

// Post is a single social-media item. Posts are not modified after fetch.
type Post struct {
	// ID is the platform handle used to reply: a tweet ID or an at:// URI.
	ID           string
	Text         string
	Author       string
	RetweetCount int
}

// Searcher is the interface for post search sources.
type Searcher interface {
	// Name returns the name of this source.
	Name() string

	// Search returns up to count posts matching query. It may return fewer.
	Search(ctx context.Context, query string, count int) ([]Post, error)
}
