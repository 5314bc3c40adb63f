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
	twitterBaseURL = "https://api.twitter.com/2"
	// The recent search endpoint accepts max_results between 10 and 100.
	twitterMinPage = 10
	twitterMaxPage = 100
)

// TwitterSearcher searches recent tweets with the X API v2.
type TwitterSearcher struct {
	httpClient  *http.Client
	baseURL     string
	bearerToken string
}

// TwitterConfig holds configuration for the Twitter searcher.
type TwitterConfig struct {
	BearerToken string
	BaseURL     string // Override for tests
	Timeout     time.Duration
}

// NewTwitterSearcher creates a new Twitter searcher.
func NewTwitterSearcher(cfg TwitterConfig) *TwitterSearcher {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = twitterBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &TwitterSearcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     baseURL,
		bearerToken: cfg.BearerToken,
	}
}

// Name returns the source name.
func (t *TwitterSearcher) Name() string {
	return "twitter"
}

// twitterSearchResponse is the response from the recent search endpoint.
type twitterSearchResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Text          string `json:"text"`
		AuthorID      string `json:"author_id"`
		PublicMetrics struct {
			RetweetCount int `json:"retweet_count"`
		} `json:"public_metrics"`
	} `json:"data"`
	Meta struct {
		ResultCount int    `json:"result_count"`
		NextToken   string `json:"next_token"`
	} `json:"meta"`
}

// Search pages through recent tweets until count posts are collected or
// results run out.
func (t *TwitterSearcher) Search(ctx context.Context, query string, count int) ([]Post, error) {
	if count <= 0 {
		return nil, nil
	}

	var (
		posts     []Post
		nextToken string
	)

	for len(posts) < count {
		page := count - len(posts)
		page = max(twitterMinPage, min(twitterMaxPage, page))

		resp, err := t.searchPage(ctx, query, page, nextToken)
		if err != nil {
			return nil, err
		}

		for _, tw := range resp.Data {
			posts = append(posts, Post{
				ID:           tw.ID,
				Text:         tw.Text,
				Author:       tw.AuthorID,
				RetweetCount: tw.PublicMetrics.RetweetCount,
			})
		}

		if resp.Meta.NextToken == "" || len(resp.Data) == 0 {
			break
		}
		nextToken = resp.Meta.NextToken
	}

	if len(posts) > count {
		posts = posts[:count]
	}

	slog.Debug("fetched tweets", "query", query, "count", len(posts))
	return posts, nil
}

func (t *TwitterSearcher) searchPage(ctx context.Context, query string, maxResults int, nextToken string) (*twitterSearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("tweet.fields", "author_id,public_metrics")
	if nextToken != "" {
		params.Set("next_token", nextToken)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", t.baseURL+"/tweets/search/recent?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.bearerToken)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Twitter search failed (status %d): %s", resp.StatusCode, string(body))
	}

	var out twitterSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &out, nil
}
