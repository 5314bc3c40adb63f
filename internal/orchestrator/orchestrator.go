// Package orchestrator runs the fetch, classify, decide and reply pipeline.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/abdulachik/mentionbot/internal/health"
	"github.com/abdulachik/mentionbot/internal/monitor"
	"github.com/abdulachik/mentionbot/internal/poster"
	"github.com/abdulachik/mentionbot/internal/reply"
	"github.com/abdulachik/mentionbot/internal/sentiment"
)

// ErrEmptyResultSet is returned when a run has no posts to work on.
var ErrEmptyResultSet = errors.New("no posts fetched")

// Decider renders the reply for a classified post.
type Decider interface {
	Explain(ctx context.Context, text string, label sentiment.Label) (*reply.Decision, error)
}

// Orchestrator wires the collaborators of a run together.
type Orchestrator struct {
	searcher   monitor.Searcher
	classifier sentiment.Classifier
	decider    Decider
	replier    poster.Replier
	filter     *monitor.Filter
	health     *health.Tracker
	workers    int
}

// Config holds orchestrator configuration.
type Config struct {
	Searcher   monitor.Searcher
	Classifier sentiment.Classifier
	Decider    Decider
	Replier    poster.Replier
	// Filter is optional; nil keeps every fetched post.
	Filter *monitor.Filter
	// Health is optional; nil disables tracking.
	Health *health.Tracker
	// Workers above 1 classify and render concurrently.
	Workers int
}

// New creates a new orchestrator.
func New(cfg Config) *Orchestrator {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	h := cfg.Health
	if h == nil {
		h = health.NewTracker()
	}

	return &Orchestrator{
		searcher:   cfg.Searcher,
		classifier: cfg.Classifier,
		decider:    cfg.Decider,
		replier:    cfg.Replier,
		filter:     cfg.Filter,
		health:     h,
		workers:    workers,
	}
}

// Health returns the tracker the orchestrator reports to.
func (o *Orchestrator) Health() *health.Tracker {
	return o.health
}

// Run fetches up to count posts for query and replies to each of them.
// Per-post failures are counted in the report; only credential, search and
// context errors abort the run.
func (o *Orchestrator) Run(ctx context.Context, query string, count int) (*Report, error) {
	report := &Report{
		RunID:      uuid.NewString(),
		Query:      query,
		Platform:   o.replier.Platform(),
		Classifier: o.classifier.Name(),
		StartedAt:  time.Now(),
	}
	defer func() { report.FinishedAt = time.Now() }()

	log := slog.With("run_id", report.RunID, "query", query)

	if err := o.health.Check(ctx, "replier", o.replier.ValidateCredentials); err != nil {
		return report, fmt.Errorf("validate %s credentials: %w", o.replier.Platform(), err)
	}

	if count <= 0 {
		return report, ErrEmptyResultSet
	}

	posts, err := o.searcher.Search(ctx, query, count)
	if err != nil {
		o.health.SetUnhealthy("searcher", err)
		return report, fmt.Errorf("search %s: %w", o.searcher.Name(), err)
	}
	o.health.SetHealthy("searcher", fmt.Sprintf("%d posts", len(posts)))

	report.Fetched = len(posts)
	if len(posts) == 0 {
		return report, ErrEmptyResultSet
	}

	if o.filter != nil {
		kept := o.filter.FilterPosts(posts)
		report.Filtered = len(posts) - len(kept)
		posts = kept
	}

	log.Info("fetched posts", "fetched", report.Fetched, "filtered", report.Filtered)

	classified, err := o.classifyAll(ctx, posts, report)
	if err != nil {
		return report, err
	}

	classified = dedupeRetweets(classified, report)

	for _, cp := range classified {
		switch cp.Label {
		case sentiment.Positive:
			report.Positive = append(report.Positive, cp)
		case sentiment.Negative:
			report.Negative = append(report.Negative, cp)
		case sentiment.Neutral:
			report.Neutral = append(report.Neutral, cp)
		}
	}

	log.Info("classified posts",
		"positive", len(report.Positive),
		"negative", len(report.Negative),
		"neutral", len(report.Neutral),
		"failed", report.ClassificationFailures,
	)

	ordered := make([]ClassifiedPost, 0, len(classified))
	ordered = append(ordered, report.Positive...)
	ordered = append(ordered, report.Negative...)
	ordered = append(ordered, report.Neutral...)

	outcomes, err := o.renderAll(ctx, ordered)
	if err != nil {
		return report, err
	}

	for i := range outcomes {
		if err := ctx.Err(); err != nil {
			report.Outcomes = outcomes[:i]
			return report, fmt.Errorf("reply: %w", err)
		}
		o.post(ctx, log, &outcomes[i], report)
	}
	report.Outcomes = outcomes

	log.Info("run complete",
		"replied", report.Replied,
		"render_failures", report.RenderFailures,
		"posting_failures", report.PostingFailures,
	)

	return report, nil
}

// classifyAll labels posts in order. Posts that fail classification are
// logged, counted and left out.
func (o *Orchestrator) classifyAll(ctx context.Context, posts []monitor.Post, report *Report) ([]ClassifiedPost, error) {
	labels := make([]sentiment.Label, len(posts))
	errs := make([]error, len(posts))

	err := o.forEach(ctx, len(posts), func(ctx context.Context, i int) {
		label, err := o.classifier.Classify(ctx, sentiment.Clean(posts[i].Text))
		if err == nil && !label.Valid() {
			err = fmt.Errorf("%w: invalid label %q", sentiment.ErrClassification, label)
		}
		labels[i], errs[i] = label, err
	})
	if err != nil {
		return nil, fmt.Errorf("classify posts: %w", err)
	}

	out := make([]ClassifiedPost, 0, len(posts))
	for i, p := range posts {
		if errs[i] != nil {
			report.ClassificationFailures++
			slog.Warn("skipping post", "post_id", p.ID, "error", errs[i])
			continue
		}
		out = append(out, ClassifiedPost{Post: p, Label: labels[i]})
	}

	if report.ClassificationFailures > 0 {
		o.health.SetUnhealthy("classifier", fmt.Errorf("%d of %d posts failed", report.ClassificationFailures, len(posts)))
	} else {
		o.health.SetHealthy("classifier", o.classifier.Name())
	}

	return out, nil
}

// renderAll decides the reply for every post, keeping the input order.
// Render errors are kept on the outcome.
func (o *Orchestrator) renderAll(ctx context.Context, posts []ClassifiedPost) ([]Outcome, error) {
	outcomes := make([]Outcome, len(posts))

	err := o.forEach(ctx, len(posts), func(ctx context.Context, i int) {
		outcomes[i].ClassifiedPost = posts[i]

		d, err := o.decider.Explain(ctx, posts[i].Post.Text, posts[i].Label)
		if err != nil {
			outcomes[i].Err = err
			return
		}
		outcomes[i].Branch = d.Branch
		outcomes[i].Reply = d.Text
	})
	if err != nil {
		return nil, fmt.Errorf("render replies: %w", err)
	}

	return outcomes, nil
}

// forEach calls fn for 0..n-1, sequentially or on up to o.workers
// goroutines. It only fails when ctx is done.
func (o *Orchestrator) forEach(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	if o.workers <= 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(ctx, i)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(gctx, i)
			return nil
		})
	}
	return g.Wait()
}

func (o *Orchestrator) post(ctx context.Context, log *slog.Logger, out *Outcome, report *Report) {
	if out.Err != nil {
		report.RenderFailures++
		log.Warn("skipping reply", "post_id", out.Post.ID, "error", out.Err)
		return
	}

	result, err := o.replier.Reply(ctx, out.Post.ID, out.Reply)
	if err != nil {
		out.Err = err
		report.PostingFailures++
		log.Error("reply failed", "post_id", out.Post.ID, "branch", out.Branch, "error", err)
		return
	}

	out.Result = result
	report.Replied++
	log.Debug("replied", "post_id", out.Post.ID, "branch", out.Branch, "label", out.Label)
}

// dedupeRetweets drops a retweeted post when an earlier post has the same
// text and label.
func dedupeRetweets(posts []ClassifiedPost, report *Report) []ClassifiedPost {
	type key struct {
		text  string
		label sentiment.Label
	}

	seen := make(map[key]bool, len(posts))
	out := make([]ClassifiedPost, 0, len(posts))
	for _, cp := range posts {
		k := key{text: cp.Post.Text, label: cp.Label}
		if cp.Post.RetweetCount > 0 && seen[k] {
			report.Duplicates++
			continue
		}
		seen[k] = true
		out = append(out, cp)
	}
	return out
}
