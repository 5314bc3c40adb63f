package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Database
	DatabasePath string

	// Logging
	LogLevel string

	// Platform selects the search and reply backends: "twitter" or "bluesky".
	Platform string

	// Twitter. The bearer token is app-only and can search; replying needs
	// an OAuth 2.0 user token.
	TwitterBearerToken string
	TwitterUserToken   string

	// Bluesky
	BlueskyHandle      string
	BlueskyAppPassword string

	// Sentiment
	SentimentProvider string // "vader" or "claude" (default: vader)
	AnthropicAPIKey   string
	ClaudeModel       string

	// Link shortening
	BitlyToken           string
	ShortlinkFallback    string // "placeholder" or "fail" (default: placeholder)
	ShortlinkPlaceholder string

	// Reply content
	CatalogPath      string // Optional YAML connector catalog
	KeywordMatchMode string // "substring" or "word" (default: substring)
	SupportEmail     string
	FilterTerms      []string // Extra sensitive terms, comma separated

	// Run settings
	Workers     int
	SearchCount int
	HTTPTimeout time.Duration

	// Notification settings
	SlackBotToken string
	SlackChannel  string
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:         getEnv("DATABASE_PATH", "data/mentionbot.db"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		Platform:             strings.ToLower(getEnv("PLATFORM", "twitter")),
		TwitterBearerToken:   getEnv("TWITTER_BEARER_TOKEN", ""),
		TwitterUserToken:     getEnv("TWITTER_USER_TOKEN", ""),
		BlueskyHandle:        getEnv("BLUESKY_HANDLE", ""),
		BlueskyAppPassword:   getEnv("BLUESKY_APP_PASSWORD", ""),
		SentimentProvider:    strings.ToLower(getEnv("SENTIMENT_PROVIDER", "vader")),
		AnthropicAPIKey:      getEnv("ANTHROPIC_API_KEY", ""),
		ClaudeModel:          getEnv("CLAUDE_MODEL", ""),
		BitlyToken:           getEnv("BITLY_TOKEN", ""),
		ShortlinkFallback:    strings.ToLower(getEnv("SHORTLINK_FALLBACK", "placeholder")),
		ShortlinkPlaceholder: getEnv("SHORTLINK_PLACEHOLDER", "https://bit.ly/3HJ6HB6"),
		CatalogPath:          getEnv("CATALOG_PATH", ""),
		KeywordMatchMode:     strings.ToLower(getEnv("KEYWORD_MATCH_MODE", "substring")),
		SupportEmail:         getEnv("SUPPORT_EMAIL", "support@fivetran.com"),
		FilterTerms:          splitList(getEnv("FILTER_TERMS", "")),
		SlackBotToken:        getEnv("SLACK_BOT_TOKEN", ""),
		SlackChannel:         getEnv("SLACK_CHANNEL", ""),
	}

	// Parse durations
	var err error
	cfg.HTTPTimeout, err = time.ParseDuration(getEnv("HTTP_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	// Parse integers
	cfg.Workers, err = strconv.Atoi(getEnv("WORKERS", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKERS: %w", err)
	}

	cfg.SearchCount, err = strconv.Atoi(getEnv("SEARCH_COUNT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_COUNT: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and well formed.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	switch c.Platform {
	case "twitter", "bluesky":
	default:
		return fmt.Errorf("invalid PLATFORM: %s (must be 'twitter' or 'bluesky')", c.Platform)
	}
	switch c.SentimentProvider {
	case "vader", "claude":
	default:
		return fmt.Errorf("invalid SENTIMENT_PROVIDER: %s (must be 'vader' or 'claude')", c.SentimentProvider)
	}
	switch c.ShortlinkFallback {
	case "placeholder", "fail":
	default:
		return fmt.Errorf("invalid SHORTLINK_FALLBACK: %s (must be 'placeholder' or 'fail')", c.ShortlinkFallback)
	}
	switch c.KeywordMatchMode {
	case "substring", "word":
	default:
		return fmt.Errorf("invalid KEYWORD_MATCH_MODE: %s (must be 'substring' or 'word')", c.KeywordMatchMode)
	}
	if c.Workers < 1 {
		return fmt.Errorf("WORKERS must be at least 1")
	}
	if c.SearchCount < 0 {
		return fmt.Errorf("SEARCH_COUNT must not be negative")
	}
	return nil
}

// ValidateForSearch checks configuration needed to search the platform.
func (c *Config) ValidateForSearch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	// Bluesky search works without auth
	if c.Platform == "twitter" && c.TwitterBearerToken == "" {
		return fmt.Errorf("TWITTER_BEARER_TOKEN is required for searching")
	}
	return nil
}

// ValidateForClassifier checks configuration needed by the sentiment backend.
func (c *Config) ValidateForClassifier() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.SentimentProvider == "claude" && c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required when SENTIMENT_PROVIDER is claude")
	}
	return nil
}

// ValidateForPosting checks configuration needed for replying.
func (c *Config) ValidateForPosting() error {
	if err := c.Validate(); err != nil {
		return err
	}
	switch c.Platform {
	case "twitter":
		if c.TwitterUserToken == "" {
			return fmt.Errorf("TWITTER_USER_TOKEN is required for posting")
		}
	case "bluesky":
		if c.BlueskyHandle == "" {
			return fmt.Errorf("BLUESKY_HANDLE is required for posting")
		}
		if c.BlueskyAppPassword == "" {
			return fmt.Errorf("BLUESKY_APP_PASSWORD is required for posting")
		}
	}
	return nil
}

// ValidateForRun checks all configuration needed for a run. A dry run does
// not post and needs no posting credentials.
func (c *Config) ValidateForRun(dryRun bool) error {
	if err := c.ValidateForSearch(); err != nil {
		return err
	}
	if err := c.ValidateForClassifier(); err != nil {
		return err
	}
	if dryRun {
		return nil
	}
	return c.ValidateForPosting()
}

// SlackEnabled reports whether run summaries go to Slack.
func (c *Config) SlackEnabled() bool {
	return c.SlackBotToken != "" && c.SlackChannel != ""
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// splitList parses a comma separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
