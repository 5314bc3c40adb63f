package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"github.com/abdulachik/mentionbot/internal/monitor"
	"github.com/abdulachik/mentionbot/internal/poster"
	"github.com/abdulachik/mentionbot/internal/reply"
	"github.com/abdulachik/mentionbot/internal/sentiment"
)

// ClassifiedPost is a fetched post paired with its sentiment.
type ClassifiedPost struct {
	Post  monitor.Post
	Label sentiment.Label
}

// Outcome records what happened to one classified post.
type Outcome struct {
	ClassifiedPost
	Branch reply.Branch
	Reply  string
	Result *poster.PostResult
	Err    error
}

// Report summarizes one run.
type Report struct {
	RunID      string
	Query      string
	Platform   string
	Classifier string

	Fetched                int
	Filtered               int
	Duplicates             int
	ClassificationFailures int
	RenderFailures         int
	PostingFailures        int
	Replied                int

	// Partitions in fetch order.
	Positive []ClassifiedPost
	Negative []ClassifiedPost
	Neutral  []ClassifiedPost

	// Outcomes in processing order: positive, negative, then neutral.
	Outcomes []Outcome

	StartedAt  time.Time
	FinishedAt time.Time
}

// Classified returns the number of posts that received a label.
func (r *Report) Classified() int {
	return len(r.Positive) + len(r.Negative) + len(r.Neutral)
}

// Partition returns the posts carrying label.
func (r *Report) Partition(label sentiment.Label) []ClassifiedPost {
	switch label {
	case sentiment.Positive:
		return r.Positive
	case sentiment.Negative:
		return r.Negative
	case sentiment.Neutral:
		return r.Neutral
	}
	return nil
}

// Percent returns the share of classified posts carrying label, 0 to 100.
// It is 0 when nothing was classified.
func (r *Report) Percent(label sentiment.Label) float64 {
	total := r.Classified()
	if total == 0 {
		return 0
	}
	return 100 * float64(len(r.Partition(label))) / float64(total)
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary renders the report as a short multi-line text.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s: %q on %s\n", r.RunID, r.Query, r.Platform)
	fmt.Fprintf(&b, "Fetched %d, filtered %d, duplicates %d, unclassified %d\n",
		r.Fetched, r.Filtered, r.Duplicates, r.ClassificationFailures)
	for _, label := range sentiment.Labels {
		fmt.Fprintf(&b, "%s posts percentage: %.1f %%\n", label.Title(), r.Percent(label))
	}
	fmt.Fprintf(&b, "Replied %d, render failures %d, posting failures %d", r.Replied, r.RenderFailures, r.PostingFailures)
	return b.String()
}
