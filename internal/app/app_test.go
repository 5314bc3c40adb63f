package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/mentionbot/internal/config"
	"github.com/abdulachik/mentionbot/internal/monitor"
	"github.com/abdulachik/mentionbot/internal/notify"
	"github.com/abdulachik/mentionbot/internal/orchestrator"
	"github.com/abdulachik/mentionbot/internal/poster"
	"github.com/abdulachik/mentionbot/internal/sentiment"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DatabasePath:      filepath.Join(t.TempDir(), "test.db"),
		Platform:          "bluesky",
		SentimentProvider: "vader",
		ShortlinkFallback: "placeholder",
		KeywordMatchMode:  "substring",
		SupportEmail:      "help@example.com",
		Workers:           1,
		SearchCount:       10,
	}
}

type fixedSearcher struct {
	posts []monitor.Post
}

func (f fixedSearcher) Name() string { return "fixed" }

func (f fixedSearcher) Search(ctx context.Context, query string, count int) ([]monitor.Post, error) {
	return f.posts, nil
}

type recordingNotifier struct {
	sent []notify.Notification
}

func (r *recordingNotifier) Send(ctx context.Context, n notify.Notification) error {
	r.sent = append(r.sent, n)
	return nil
}

func TestNewEngine(t *testing.T) {
	t.Run("default catalog", func(t *testing.T) {
		engine, err := NewEngine(testConfig(t))
		require.NoError(t, err)

		out, err := engine.Decide(context.Background(), "fivetran is down", sentiment.Negative)
		require.NoError(t, err)
		assert.Contains(t, out, "help@example.com")
	})

	t.Run("catalog file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`connectors:
  - name: snowflake
    doc_url: https://example.com/snowflake
`), 0644))

		cfg := testConfig(t)
		cfg.CatalogPath = path
		engine, err := NewEngine(cfg)
		require.NoError(t, err)

		out, err := engine.Decide(context.Background(), "moving data into snowflake", sentiment.Neutral)
		require.NoError(t, err)
		assert.Contains(t, out, "check out our snowflake connector https://example.com/snowflake")
	})

	t.Run("missing catalog file", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.CatalogPath = filepath.Join(t.TempDir(), "nope.yaml")
		_, err := NewEngine(cfg)
		assert.Error(t, err)
	})

	t.Run("bad match mode", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.KeywordMatchMode = "fuzzy"
		_, err := NewEngine(cfg)
		assert.Error(t, err)
	})
}

func TestFactories(t *testing.T) {
	cfg := testConfig(t)

	assert.Equal(t, "vader", NewClassifier(cfg).Name())
	assert.Equal(t, "bluesky", NewSearcher(cfg).Name())
	assert.IsType(t, &poster.BlueskyPoster{}, NewReplier(cfg, false))
	assert.IsType(t, &poster.DryRunPoster{}, NewReplier(cfg, true))
	assert.IsType(t, &notify.LogNotifier{}, NewNotifier(cfg))

	cfg.Platform = "twitter"
	cfg.SentimentProvider = "claude"
	cfg.SlackBotToken = "xoxb"
	cfg.SlackChannel = "C1"
	assert.Equal(t, "claude", NewClassifier(cfg).Name())
	assert.Equal(t, "twitter", NewSearcher(cfg).Name())
	assert.IsType(t, &poster.TwitterPoster{}, NewReplier(cfg, false))
	assert.IsType(t, &notify.SlackNotifier{}, NewNotifier(cfg))
}

func TestApp_Run(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), true)
	require.NoError(t, err)
	defer a.Close()

	notifier := &recordingNotifier{}
	a.Notifier = notifier
	a.Orchestrator = orchestrator.New(orchestrator.Config{
		Searcher: fixedSearcher{posts: []monitor.Post{
			{ID: "at://a/app.bsky.feed.post/1", Text: "fivetran is great"},
			{ID: "at://a/app.bsky.feed.post/2", Text: "my salesforce export is bad"},
		}},
		Classifier: a.Classifier,
		Decider:    a.Engine,
		Replier:    a.Replier,
		Health:     a.Health,
	})

	report, err := a.Run(ctx, "fivetran", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Replied)

	run, err := a.Store.GetRun(ctx, report.RunID)
	require.NoError(t, err)
	assert.Equal(t, "fivetran", run.Query)
	assert.Equal(t, int64(2), run.Replied)
	assert.False(t, run.Error.Valid)

	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0].Subject, "2 replies")
}

func TestApp_RunRecordsEmptyResult(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), true)
	require.NoError(t, err)
	defer a.Close()

	a.Notifier = &recordingNotifier{}
	a.Orchestrator = orchestrator.New(orchestrator.Config{
		Searcher:   fixedSearcher{},
		Classifier: a.Classifier,
		Decider:    a.Engine,
		Replier:    a.Replier,
	})

	report, err := a.Run(ctx, "fivetran", 10)
	require.ErrorIs(t, err, orchestrator.ErrEmptyResultSet)

	run, err := a.Store.GetRun(ctx, report.RunID)
	require.NoError(t, err)
	assert.True(t, run.Error.Valid)
	assert.Equal(t, int64(0), run.Fetched)
}
