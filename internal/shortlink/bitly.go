package shortlink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const bitlyBaseURL = "https://api-ssl.bitly.com/v4"

// BitlyShortener shortens links with the Bitly v4 API.
type BitlyShortener struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// BitlyConfig holds configuration for the Bitly shortener.
type BitlyConfig struct {
	AccessToken string
	BaseURL     string // Override for tests
	Timeout     time.Duration
}

// NewBitlyShortener creates a Bitly shortener.
func NewBitlyShortener(cfg BitlyConfig) *BitlyShortener {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = bitlyBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &BitlyShortener{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     baseURL,
		accessToken: cfg.AccessToken,
	}
}

type shortenRequest struct {
	LongURL string `json:"long_url"`
}

type shortenResponse struct {
	Link string `json:"link"`
}

// Shorten returns the bit.ly link for longURL.
func (b *BitlyShortener) Shorten(ctx context.Context, longURL string) (string, error) {
	body, err := json.Marshal(shortenRequest{LongURL: longURL})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %w", ErrShortLink, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", b.baseURL+"/shorten", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", ErrShortLink, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.accessToken)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: send request: %w", ErrShortLink, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrShortLink, err)
	}

	// Bitly answers 201 for a new link and 200 for one it already knows.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: status %d: %s", ErrShortLink, resp.StatusCode, string(respBody))
	}

	var out shortenResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%w: parse response: %w", ErrShortLink, err)
	}
	if out.Link == "" {
		return "", fmt.Errorf("%w: empty link in response", ErrShortLink)
	}

	return out.Link, nil
}
