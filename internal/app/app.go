// Package app wires configuration into the run pipeline.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/abdulachik/mentionbot/internal/claude"
	"github.com/abdulachik/mentionbot/internal/config"
	"github.com/abdulachik/mentionbot/internal/db"
	"github.com/abdulachik/mentionbot/internal/health"
	"github.com/abdulachik/mentionbot/internal/keyword"
	"github.com/abdulachik/mentionbot/internal/monitor"
	"github.com/abdulachik/mentionbot/internal/notify"
	"github.com/abdulachik/mentionbot/internal/orchestrator"
	"github.com/abdulachik/mentionbot/internal/poster"
	"github.com/abdulachik/mentionbot/internal/reply"
	"github.com/abdulachik/mentionbot/internal/sentiment"
	"github.com/abdulachik/mentionbot/internal/shortlink"
)

// App is the main application container holding all dependencies.
type App struct {
	Config       *config.Config
	Store        *db.Store
	Engine       *reply.Engine
	Classifier   sentiment.Classifier
	Searcher     monitor.Searcher
	Replier      poster.Replier
	Notifier     notify.Notifier
	Health       *health.Tracker
	Orchestrator *orchestrator.Orchestrator
}

// New creates a new application instance with all dependencies wired up.
// A dry run replaces the platform replier with a logging one.
func New(ctx context.Context, cfg *config.Config, dryRun bool) (*App, error) {
	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}

	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}

	a := &App{
		Config:     cfg,
		Store:      store,
		Engine:     engine,
		Classifier: NewClassifier(cfg),
		Searcher:   NewSearcher(cfg),
		Replier:    NewReplier(cfg, dryRun),
		Notifier:   NewNotifier(cfg),
		Health:     health.NewTracker(),
	}

	var exclude []string
	if cfg.Platform == "bluesky" && cfg.BlueskyHandle != "" {
		exclude = append(exclude, cfg.BlueskyHandle)
	}

	a.Orchestrator = orchestrator.New(orchestrator.Config{
		Searcher:   a.Searcher,
		Classifier: a.Classifier,
		Decider:    engine,
		Replier:    a.Replier,
		Filter: monitor.NewFilter(monitor.FilterConfig{
			AdditionalTerms: cfg.FilterTerms,
			ExcludeAuthors:  exclude,
		}),
		Health:  a.Health,
		Workers: cfg.Workers,
	})

	return a, nil
}

// NewEngine builds the reply engine from the catalog, match mode and
// shortener settings.
func NewEngine(cfg *config.Config) (*reply.Engine, error) {
	catalog := keyword.DefaultCatalog()
	if cfg.CatalogPath != "" {
		var err error
		catalog, err = keyword.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
	}

	mode, err := keyword.ParseMode(cfg.KeywordMatchMode)
	if err != nil {
		return nil, err
	}

	policy, err := shortlink.ParseFallbackPolicy(cfg.ShortlinkFallback)
	if err != nil {
		return nil, err
	}

	var s shortlink.Shortener = shortlink.Passthrough{}
	if cfg.BitlyToken != "" {
		s = shortlink.NewBitlyShortener(shortlink.BitlyConfig{
			AccessToken: cfg.BitlyToken,
			Timeout:     cfg.HTTPTimeout,
		})
	}

	return reply.New(reply.Config{
		Matcher:      keyword.New(keyword.Config{Catalog: catalog, Mode: mode}),
		Shortener:    shortlink.Apply(s, policy, cfg.ShortlinkPlaceholder),
		SupportEmail: cfg.SupportEmail,
	}), nil
}

// NewClassifier returns the configured sentiment backend.
func NewClassifier(cfg *config.Config) sentiment.Classifier {
	if cfg.SentimentProvider == "claude" {
		return sentiment.NewClaudeClassifier(claude.New(claude.Config{
			APIKey:  cfg.AnthropicAPIKey,
			Model:   cfg.ClaudeModel,
			Timeout: cfg.HTTPTimeout,
		}))
	}
	return sentiment.NewVaderClassifier(sentiment.VaderConfig{})
}

// NewSearcher returns the search backend for the configured platform.
func NewSearcher(cfg *config.Config) monitor.Searcher {
	if cfg.Platform == "bluesky" {
		return monitor.NewBlueskySearcher(monitor.BlueskyConfig{Timeout: cfg.HTTPTimeout})
	}
	return monitor.NewTwitterSearcher(monitor.TwitterConfig{
		BearerToken: cfg.TwitterBearerToken,
		Timeout:     cfg.HTTPTimeout,
	})
}

// NewReplier returns the reply backend for the configured platform.
func NewReplier(cfg *config.Config, dryRun bool) poster.Replier {
	if dryRun {
		return poster.NewDryRunPoster(cfg.Platform)
	}
	if cfg.Platform == "bluesky" {
		return poster.NewBlueskyPoster(poster.BlueskyConfig{
			Handle:      cfg.BlueskyHandle,
			AppPassword: cfg.BlueskyAppPassword,
			Timeout:     cfg.HTTPTimeout,
		})
	}
	return poster.NewTwitterPoster(poster.TwitterConfig{
		UserToken: cfg.TwitterUserToken,
		Timeout:   cfg.HTTPTimeout,
	})
}

// NewNotifier returns a Slack notifier when configured, otherwise a log one.
func NewNotifier(cfg *config.Config) notify.Notifier {
	if cfg.SlackEnabled() {
		return notify.NewSlackNotifier(notify.SlackConfig{
			BotToken: cfg.SlackBotToken,
			Channel:  cfg.SlackChannel,
		})
	}
	return notify.NewLogNotifier(nil)
}

// Run executes one run, records it in the run history and sends the
// summary. The run error is returned unchanged.
func (a *App) Run(ctx context.Context, query string, count int) (*orchestrator.Report, error) {
	report, runErr := a.Orchestrator.Run(ctx, query, count)
	if report == nil {
		return nil, runErr
	}

	if err := a.RecordRun(ctx, report, runErr); err != nil {
		slog.Error("failed to record run", "run_id", report.RunID, "error", err)
	}

	subject := fmt.Sprintf("mentionbot run on %s: %d replies", report.Platform, report.Replied)
	if runErr != nil {
		subject = fmt.Sprintf("mentionbot run on %s failed: %v", report.Platform, runErr)
	}
	if err := a.Notifier.Send(ctx, notify.Notification{Subject: subject, Body: report.Summary()}); err != nil {
		slog.Warn("failed to send notification", "error", err)
	}

	return report, runErr
}

// RecordRun stores a report in the run history.
func (a *App) RecordRun(ctx context.Context, report *orchestrator.Report, runErr error) error {
	params := db.CreateRunParams{
		ID:                     report.RunID,
		Query:                  report.Query,
		Platform:               report.Platform,
		Classifier:             report.Classifier,
		Fetched:                int64(report.Fetched),
		Filtered:               int64(report.Filtered),
		Duplicates:             int64(report.Duplicates),
		Positive:               int64(len(report.Positive)),
		Negative:               int64(len(report.Negative)),
		Neutral:                int64(len(report.Neutral)),
		PositivePct:            report.Percent(sentiment.Positive),
		NegativePct:            report.Percent(sentiment.Negative),
		NeutralPct:             report.Percent(sentiment.Neutral),
		ClassificationFailures: int64(report.ClassificationFailures),
		RenderFailures:         int64(report.RenderFailures),
		PostingFailures:        int64(report.PostingFailures),
		Replied:                int64(report.Replied),
		StartedAt:              report.StartedAt,
		FinishedAt:             report.FinishedAt,
	}
	if runErr != nil {
		params.Error = sql.NullString{String: runErr.Error(), Valid: true}
	}

	if err := a.Store.CreateRun(ctx, params); err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// Close closes all resources.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
