// Package reply chooses and renders the canned reply for a classified post.
package reply

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abdulachik/mentionbot/internal/keyword"
	"github.com/abdulachik/mentionbot/internal/sentiment"
	"github.com/abdulachik/mentionbot/internal/shortlink"
)

// Branch names a leaf of the decision tree.
type Branch string

const (
	BranchConnectorFailing Branch = "connector_failing"
	BranchPricingApology   Branch = "pricing_apology"
	BranchSupport          Branch = "support"
	BranchPositive         Branch = "positive"
	BranchConnectorPitch   Branch = "connector_pitch"
	BranchPricingPitch     Branch = "pricing_pitch"
	BranchGenericPitch     Branch = "generic_pitch"
)

// Decision is a rendered reply and the branch that produced it.
type Decision struct {
	Branch    Branch
	Text      string
	Connector string
	Topic     keyword.Topic
}

// facts are the keyword signals a rule can look at.
type facts struct {
	brand     bool
	label     sentiment.Label
	topic     keyword.Topic
	connector keyword.Connector
	hasConn   bool
}

func (f facts) complaint() bool {
	return f.brand && f.label != sentiment.Positive
}

// rule is one row of the decision table.
type rule struct {
	branch Branch
	when   func(f facts) bool
	render func(ctx context.Context, e *Engine, f facts) (string, error)
}

// rules is evaluated top to bottom; the first matching row renders the reply.
// Brand mentions come first (support intent), then product interest (outreach).
var rules = []rule{
	{
		branch: BranchConnectorFailing,
		when:   func(f facts) bool { return f.complaint() && f.topic == keyword.TopicFailure },
		render: func(ctx context.Context, e *Engine, f facts) (string, error) {
			name := ""
			if f.hasConn {
				name = " " + f.connector.Name
			}
			return fmt.Sprintf(connectorFailingTemplate, name) + e.supportContact(), nil
		},
	},
	{
		branch: BranchPricingApology,
		when:   func(f facts) bool { return f.complaint() && f.topic == keyword.TopicPricing },
		render: func(ctx context.Context, e *Engine, f facts) (string, error) {
			return pricingApologyTemplate + e.supportContact(), nil
		},
	},
	{
		branch: BranchSupport,
		when:   func(f facts) bool { return f.complaint() },
		render: func(ctx context.Context, e *Engine, f facts) (string, error) {
			return e.supportContact(), nil
		},
	},
	{
		branch: BranchPositive,
		when:   func(f facts) bool { return f.brand },
		render: func(ctx context.Context, e *Engine, f facts) (string, error) {
			soon, err := e.shorten(ctx, e.links.ComingSoon)
			if err != nil {
				return "", err
			}
			request, err := e.shorten(ctx, e.links.RequestConnector)
			if err != nil {
				return "", err
			}
			return positiveAckTemplate + soon + requestConnectorsTemplate + request, nil
		},
	},
	{
		branch: BranchConnectorPitch,
		when:   func(f facts) bool { return f.hasConn },
		render: func(ctx context.Context, e *Engine, f facts) (string, error) {
			doc, err := e.shorten(ctx, f.connector.DocURL)
			if err != nil {
				return "", err
			}
			return pitchTemplate + fmt.Sprintf(connectorPitchTemplate, f.connector.Name) + doc, nil
		},
	},
	{
		branch: BranchPricingPitch,
		when:   func(f facts) bool { return f.topic == keyword.TopicPricing },
		render: func(ctx context.Context, e *Engine, f facts) (string, error) {
			pricing, err := e.shorten(ctx, e.links.Pricing)
			if err != nil {
				return "", err
			}
			return pitchTemplate + pricingPitchTemplate + pricing, nil
		},
	},
	{
		branch: BranchGenericPitch,
		when:   func(f facts) bool { return true },
		render: func(ctx context.Context, e *Engine, f facts) (string, error) {
			product, err := e.shorten(ctx, e.links.Product)
			if err != nil {
				return "", err
			}
			return pitchTemplate + genericPitchTemplate + product, nil
		},
	},
}

// Engine renders replies. It holds no mutable state; concurrent calls are
// safe when the shortener is.
type Engine struct {
	matcher      *keyword.Matcher
	shortener    shortlink.Shortener
	links        Links
	supportEmail string
}

// Config holds engine configuration.
type Config struct {
	Matcher      *keyword.Matcher
	Shortener    shortlink.Shortener
	Links        Links
	SupportEmail string
}

// New creates an engine. Missing collaborators fall back to the default
// catalog matcher and an unshortened link.
func New(cfg Config) *Engine {
	m := cfg.Matcher
	if m == nil {
		m = keyword.New(keyword.Config{})
	}

	s := cfg.Shortener
	if s == nil {
		s = shortlink.Passthrough{}
	}

	email := cfg.SupportEmail
	if email == "" {
		email = DefaultSupportEmail
	}

	return &Engine{
		matcher:      m,
		shortener:    s,
		links:        cfg.Links.withDefaults(),
		supportEmail: email,
	}
}

// Decide returns the reply text for a post.
func (e *Engine) Decide(ctx context.Context, text string, label sentiment.Label) (string, error) {
	d, err := e.Explain(ctx, text, label)
	if err != nil {
		return "", err
	}
	return d.Text, nil
}

// Explain renders the reply and reports which branch produced it.
func (e *Engine) Explain(ctx context.Context, text string, label sentiment.Label) (*Decision, error) {
	if !label.Valid() {
		return nil, fmt.Errorf("unknown sentiment %q", label)
	}

	f := facts{
		brand: e.matcher.MentionsBrand(text),
		label: label,
		topic: e.matcher.DetectTopic(text),
	}
	f.connector, f.hasConn = e.matcher.DetectConnector(text)

	for _, r := range rules {
		if !r.when(f) {
			continue
		}

		out, err := r.render(ctx, e, f)
		if err != nil {
			return nil, fmt.Errorf("render %s reply: %w", r.branch, err)
		}

		return &Decision{
			Branch:    r.branch,
			Text:      strings.TrimSpace(out),
			Connector: f.connector.Name,
			Topic:     f.topic,
		}, nil
	}

	// The last rule always matches.
	return nil, fmt.Errorf("no reply rule matched")
}

func (e *Engine) supportContact() string {
	return fmt.Sprintf(supportContactTemplate, e.supportEmail)
}

func (e *Engine) shorten(ctx context.Context, longURL string) (string, error) {
	short, err := e.shortener.Shorten(ctx, longURL)
	if err != nil {
		if !errors.Is(err, shortlink.ErrShortLink) {
			err = fmt.Errorf("%w: %w", shortlink.ErrShortLink, err)
		}
		return "", fmt.Errorf("shorten %s: %w", longURL, err)
	}
	return short, nil
}
