package keyword

import (
	"fmt"
	"regexp"
	"strings"
)

// Topic is a coarse complaint category.
type Topic int

const (
	TopicNone Topic = iota
	TopicFailure
	TopicPricing
)

// String returns the topic name.
func (t Topic) String() string {
	switch t {
	case TopicFailure:
		return "failure"
	case TopicPricing:
		return "pricing"
	default:
		return "none"
	}
}

// Mode selects how keywords are located in text.
type Mode string

const (
	// ModeSubstring matches a keyword anywhere, so "cost" matches "costlyish".
	ModeSubstring Mode = "substring"
	// ModeWordBoundary requires non-word characters (or the text edge) around a keyword.
	ModeWordBoundary Mode = "word"
)

// ParseMode converts a config value into a Mode. Empty means substring.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSubstring:
		return ModeSubstring, nil
	case ModeWordBoundary:
		return ModeWordBoundary, nil
	}
	return "", fmt.Errorf("invalid keyword match mode %q (must be 'substring' or 'word')", s)
}

const brandKeyword = "fivetran"

// topicRules are checked in order; the first topic with a matching keyword wins.
var topicRules = []struct {
	topic    Topic
	keywords []string
}{
	{TopicFailure, []string{"failing"}},
	{TopicPricing, []string{"pricing", "expensive", "costly", "cost"}},
}

// Matcher finds keywords in post text. It is immutable and safe for concurrent use.
type Matcher struct {
	catalog Catalog
	mode    Mode
	// patterns caches compiled word-boundary expressions, keyed by lowercase keyword.
	patterns map[string]*regexp.Regexp
}

// Config holds matcher configuration.
type Config struct {
	Catalog Catalog
	Mode    Mode
}

// New creates a matcher. A nil catalog uses DefaultCatalog.
func New(cfg Config) *Matcher {
	cat := cfg.Catalog
	if cat == nil {
		cat = DefaultCatalog()
	}

	mode := cfg.Mode
	if mode == "" {
		mode = ModeSubstring
	}

	m := &Matcher{
		catalog: cat,
		mode:    mode,
	}

	if mode == ModeWordBoundary {
		m.patterns = make(map[string]*regexp.Regexp)
		keywords := []string{brandKeyword}
		for _, r := range topicRules {
			keywords = append(keywords, r.keywords...)
		}
		for _, c := range cat {
			keywords = append(keywords, c.Name)
		}
		for _, kw := range keywords {
			kw = strings.ToLower(kw)
			m.patterns[kw] = regexp.MustCompile(`(^|\W)` + regexp.QuoteMeta(kw) + `($|\W)`)
		}
	}

	return m
}

// Catalog returns the connector catalog the matcher searches.
func (m *Matcher) Catalog() Catalog {
	return m.catalog
}

// Mode returns the match mode.
func (m *Matcher) Mode() Mode {
	return m.mode
}

// Contains reports whether keyword occurs in text, ignoring case.
func (m *Matcher) Contains(text, keyword string) bool {
	text = strings.ToLower(text)
	keyword = strings.ToLower(keyword)
	if m.mode == ModeWordBoundary {
		re, ok := m.patterns[keyword]
		if !ok {
			re = regexp.MustCompile(`(^|\W)` + regexp.QuoteMeta(keyword) + `($|\W)`)
		}
		return re.MatchString(text)
	}
	return strings.Contains(text, keyword)
}

// MentionsBrand reports whether text mentions the brand.
func (m *Matcher) MentionsBrand(text string) bool {
	return m.Contains(text, brandKeyword)
}

// DetectConnector returns the first catalog connector mentioned in text.
func (m *Matcher) DetectConnector(text string) (Connector, bool) {
	for _, c := range m.catalog {
		if m.Contains(text, c.Name) {
			return c, true
		}
	}
	return Connector{}, false
}

// DetectTopic classifies text as failure, pricing or none. Failure wins
// over pricing when both are present.
func (m *Matcher) DetectTopic(text string) Topic {
	for _, r := range topicRules {
		for _, kw := range r.keywords {
			if m.Contains(text, kw) {
				return r.topic
			}
		}
	}
	return TopicNone
}
