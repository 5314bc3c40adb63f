package poster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const twitterBaseURL = "https://api.twitter.com/2"

// TwitterPoster replies to tweets with the X API v2. It needs an OAuth 2.0
// user-context access token with tweet.write scope.
type TwitterPoster struct {
	httpClient *http.Client
	baseURL    string
	userToken  string
	username   string
}

// TwitterConfig holds configuration for the Twitter poster.
type TwitterConfig struct {
	UserToken string
	BaseURL   string // Override for tests
	Timeout   time.Duration
}

// NewTwitterPoster creates a new Twitter poster.
func NewTwitterPoster(cfg TwitterConfig) *TwitterPoster {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = twitterBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &TwitterPoster{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   baseURL,
		userToken: cfg.UserToken,
	}
}

// Platform returns the platform name.
func (t *TwitterPoster) Platform() string {
	return "twitter"
}

// ValidateCredentials looks up the authenticated user.
func (t *TwitterPoster) ValidateCredentials(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", t.baseURL+"/users/me", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.userToken)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("authentication failed (status %d): %s", resp.StatusCode, string(body))
	}

	var me struct {
		Data struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &me); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	t.username = me.Data.Username

	slog.Debug("authenticated with Twitter", "username", me.Data.Username, "id", me.Data.ID)
	return nil
}

type tweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type createTweetRequest struct {
	Text  string     `json:"text"`
	Reply tweetReply `json:"reply"`
}

type createTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// Reply posts text as a reply to the tweet with id postID.
func (t *TwitterPoster) Reply(ctx context.Context, postID, text string) (*PostResult, error) {
	body, err := json.Marshal(createTweetRequest{
		Text:  FormatReply(text, TwitterMaxLength),
		Reply: tweetReply{InReplyToTweetID: postID},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %w", ErrPosting, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.baseURL+"/tweets", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrPosting, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.userToken)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %w", ErrPosting, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrPosting, err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrPosting, resp.StatusCode, string(respBody))
	}

	var created createTweetResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return nil, fmt.Errorf("%w: parse response: %w", ErrPosting, err)
	}

	postURL := ""
	if created.Data.ID != "" {
		user := t.username
		if user == "" {
			user = "i"
		}
		postURL = fmt.Sprintf("https://x.com/%s/status/%s", user, created.Data.ID)
	}

	slog.Info("replied on Twitter",
		"in_reply_to", postID,
		"id", created.Data.ID,
		"url", postURL,
	)

	return &PostResult{
		PostID:  created.Data.ID,
		PostURL: postURL,
	}, nil
}
