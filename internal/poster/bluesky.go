package poster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	blueskyBaseURL = "https://bsky.social/xrpc"
)

// BlueskyPoster replies on Bluesky via the AT Protocol.
type BlueskyPoster struct {
	httpClient  *http.Client
	baseURL     string
	handle      string
	appPassword string
	accessToken string
	did         string
}

// BlueskyConfig holds configuration for the Bluesky poster.
type BlueskyConfig struct {
	Handle      string
	AppPassword string
	BaseURL     string // Override for tests
	Timeout     time.Duration
}

// NewBlueskyPoster creates a new Bluesky poster.
func NewBlueskyPoster(cfg BlueskyConfig) *BlueskyPoster {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = blueskyBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &BlueskyPoster{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     baseURL,
		handle:      cfg.Handle,
		appPassword: cfg.AppPassword,
	}
}

// Platform returns the platform name.
func (b *BlueskyPoster) Platform() string {
	return "bluesky"
}

// createSessionRequest is the request body for session creation.
type createSessionRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// createSessionResponse is the response from session creation.
type createSessionResponse struct {
	DID        string `json:"did"`
	Handle     string `json:"handle"`
	AccessJwt  string `json:"accessJwt"`
	RefreshJwt string `json:"refreshJwt"`
}

// ValidateCredentials authenticates and validates the credentials.
func (b *BlueskyPoster) ValidateCredentials(ctx context.Context) error {
	return b.authenticate(ctx)
}

func (b *BlueskyPoster) authenticate(ctx context.Context) error {
	if b.accessToken != "" {
		return nil // Already authenticated
	}

	body, err := json.Marshal(createSessionRequest{
		Identifier: b.handle,
		Password:   b.appPassword,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", b.baseURL+"/com.atproto.server.createSession", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("authentication failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	var session createSessionResponse
	if err := json.Unmarshal(respBody, &session); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	b.accessToken = session.AccessJwt
	b.did = session.DID

	slog.Debug("authenticated with Bluesky",
		"handle", session.Handle,
		"did", session.DID,
	)

	return nil
}

// strongRef points at a specific version of a record.
type strongRef struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

// replyRef links a reply to its thread root and direct parent.
type replyRef struct {
	Root   strongRef `json:"root"`
	Parent strongRef `json:"parent"`
}

// createRecordRequest is the request body for creating a post.
type createRecordRequest struct {
	Repo       string     `json:"repo"`
	Collection string     `json:"collection"`
	Record     postRecord `json:"record"`
}

// postRecord represents a Bluesky post.
type postRecord struct {
	Type      string    `json:"$type"`
	Text      string    `json:"text"`
	CreatedAt string    `json:"createdAt"`
	Langs     []string  `json:"langs,omitempty"`
	Reply     *replyRef `json:"reply,omitempty"`
}

// createRecordResponse is the response from creating a post.
type createRecordResponse struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

// getPostsResponse is the response from app.bsky.feed.getPosts.
type getPostsResponse struct {
	Posts []struct {
		URI    string `json:"uri"`
		CID    string `json:"cid"`
		Record struct {
			Reply *replyRef `json:"reply"`
		} `json:"record"`
	} `json:"posts"`
}

// Reply posts text as a reply to the post at URI postID.
func (b *BlueskyPoster) Reply(ctx context.Context, postID, text string) (*PostResult, error) {
	if err := b.authenticate(ctx); err != nil {
		return nil, fmt.Errorf("%w: authenticate: %w", ErrPosting, err)
	}

	ref, err := b.resolveReplyRef(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve parent: %w", ErrPosting, err)
	}

	reqBody := createRecordRequest{
		Repo:       b.did,
		Collection: "app.bsky.feed.post",
		Record: postRecord{
			Type:      "app.bsky.feed.post",
			Text:      FormatReply(text, BlueskyMaxLength),
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
			Langs:     []string{"en"},
			Reply:     ref,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %w", ErrPosting, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", b.baseURL+"/com.atproto.repo.createRecord", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrPosting, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.accessToken)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %w", ErrPosting, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrPosting, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrPosting, resp.StatusCode, string(respBody))
	}

	var createResp createRecordResponse
	if err := json.Unmarshal(respBody, &createResp); err != nil {
		return nil, fmt.Errorf("%w: parse response: %w", ErrPosting, err)
	}

	// URI format: at://did:plc:xxx/app.bsky.feed.post/rkey
	// URL format: https://bsky.app/profile/handle/post/rkey
	postURL := ""
	if parts := splitURI(createResp.URI); len(parts) >= 3 {
		postURL = fmt.Sprintf("https://bsky.app/profile/%s/post/%s", b.handle, parts[len(parts)-1])
	}

	slog.Info("replied on Bluesky",
		"in_reply_to", postID,
		"uri", createResp.URI,
		"url", postURL,
	)

	return &PostResult{
		PostID:  createResp.URI,
		PostURL: postURL,
	}, nil
}

// resolveReplyRef looks up the parent's CID and thread root. A parent that
// is not itself a reply is its own root.
func (b *BlueskyPoster) resolveReplyRef(ctx context.Context, uri string) (*replyRef, error) {
	params := url.Values{}
	params.Set("uris", uri)

	req, err := http.NewRequestWithContext(ctx, "GET", b.baseURL+"/app.bsky.feed.getPosts?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.accessToken)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get post failed (status %d): %s", resp.StatusCode, string(body))
	}

	var out getPostsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(out.Posts) == 0 {
		return nil, fmt.Errorf("post not found: %s", uri)
	}

	p := out.Posts[0]
	parent := strongRef{URI: p.URI, CID: p.CID}
	root := parent
	if p.Record.Reply != nil && p.Record.Reply.Root.URI != "" {
		root = p.Record.Reply.Root
	}

	return &replyRef{Root: root, Parent: parent}, nil
}

// splitURI splits an AT Protocol URI into its non-empty path parts.
func splitURI(uri string) []string {
	uri = strings.TrimPrefix(uri, "at://")

	var parts []string
	for _, p := range strings.Split(uri, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
