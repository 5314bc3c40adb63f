package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	blueskyPublicURL = "https://public.api.bsky.app/xrpc"
	blueskyMaxPage   = 100
)

// BlueskySearcher searches posts through the public AppView.
type BlueskySearcher struct {
	httpClient *http.Client
	baseURL    string
}

// BlueskyConfig holds configuration for the Bluesky searcher.
type BlueskyConfig struct {
	BaseURL string // Override for tests
	Timeout time.Duration
}

// NewBlueskySearcher creates a new Bluesky searcher.
func NewBlueskySearcher(cfg BlueskyConfig) *BlueskySearcher {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = blueskyPublicURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &BlueskySearcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
	}
}

// Name returns the source name.
func (b *BlueskySearcher) Name() string {
	return "bluesky"
}

// searchPostsResponse is the response from app.bsky.feed.searchPosts.
type searchPostsResponse struct {
	Cursor string `json:"cursor"`
	Posts  []struct {
		URI    string `json:"uri"`
		CID    string `json:"cid"`
		Author struct {
			Handle string `json:"handle"`
		} `json:"author"`
		Record struct {
			Text string `json:"text"`
		} `json:"record"`
		RepostCount int `json:"repostCount"`
	} `json:"posts"`
}

// Search pages through matching posts until count posts are collected.
func (b *BlueskySearcher) Search(ctx context.Context, query string, count int) ([]Post, error) {
	if count <= 0 {
		return nil, nil
	}

	var (
		posts  []Post
		cursor string
	)

	for len(posts) < count {
		limit := min(blueskyMaxPage, count-len(posts))

		resp, err := b.searchPage(ctx, query, limit, cursor)
		if err != nil {
			return nil, err
		}

		for _, p := range resp.Posts {
			posts = append(posts, Post{
				ID:           p.URI,
				Text:         p.Record.Text,
				Author:       p.Author.Handle,
				RetweetCount: p.RepostCount,
			})
		}

		if resp.Cursor == "" || len(resp.Posts) == 0 {
			break
		}
		cursor = resp.Cursor
	}

	if len(posts) > count {
		posts = posts[:count]
	}

	slog.Debug("fetched Bluesky posts", "query", query, "count", len(posts))
	return posts, nil
}

func (b *BlueskySearcher) searchPage(ctx context.Context, query string, limit int, cursor string) (*searchPostsResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", "latest")
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", b.baseURL+"/app.bsky.feed.searchPosts?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Bluesky search failed (status %d): %s", resp.StatusCode, string(body))
	}

	var out searchPostsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &out, nil
}
