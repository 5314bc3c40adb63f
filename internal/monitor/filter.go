package monitor

import (
	"regexp"
	"strings"
)

// SensitiveTopics are subjects a brand account should never reply to.
var SensitiveTopics = []string{
	// Tragedy/violence
	"shooting", "massacre", "terrorist", "terrorism",
	"murder", "killed", "death toll", "casualties",
	"suicide", "self-harm",

	// Hot-button politics
	"election fraud", "abortion", "gun control",

	// Hate speech related
	"racist", "racism", "nazi", "white supremac", "hate crime",

	// Explicit content
	"nsfw", "porn", "nude",

	// Layoffs and legal trouble read badly next to a sales pitch
	"layoff", "laid off", "lawsuit", "data breach",
}

// Filter decides which fetched posts are eligible for a reply.
type Filter struct {
	sensitiveTerms []sensitiveTerm
	excludeAuthors map[string]bool
}

// sensitiveTerm matches a term only where a word starts, so "killed" does
// not hit "skilled" while "layoff" still hits "layoffs".
type sensitiveTerm struct {
	term    string
	pattern *regexp.Regexp
}

// FilterConfig holds filter configuration.
type FilterConfig struct {
	// AdditionalTerms extend SensitiveTopics.
	AdditionalTerms []string
	// ExcludeAuthors are accounts never replied to, usually the bot itself.
	ExcludeAuthors []string
}

// NewFilter creates a new filter.
func NewFilter(cfg FilterConfig) *Filter {
	all := make([]string, 0, len(SensitiveTopics)+len(cfg.AdditionalTerms))
	all = append(all, SensitiveTopics...)
	all = append(all, cfg.AdditionalTerms...)

	terms := make([]sensitiveTerm, 0, len(all))
	for _, term := range all {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		terms = append(terms, sensitiveTerm{
			term:    term,
			pattern: regexp.MustCompile(`(^|\W)` + regexp.QuoteMeta(term)),
		})
	}

	authors := make(map[string]bool, len(cfg.ExcludeAuthors))
	for _, a := range cfg.ExcludeAuthors {
		authors[strings.ToLower(strings.TrimPrefix(a, "@"))] = true
	}

	return &Filter{
		sensitiveTerms: terms,
		excludeAuthors: authors,
	}
}

// FilterResult contains the filter decision.
type FilterResult struct {
	Pass   bool
	Reason string
}

// Check examines a post and returns whether it should be processed.
func (f *Filter) Check(post Post) FilterResult {
	if f.excludeAuthors[strings.ToLower(post.Author)] {
		return FilterResult{
			Pass:   false,
			Reason: "excluded author",
		}
	}

	text := strings.ToLower(post.Text)
	for _, st := range f.sensitiveTerms {
		if st.pattern.MatchString(text) {
			return FilterResult{
				Pass:   false,
				Reason: "contains sensitive topic: " + st.term,
			}
		}
	}

	return FilterResult{Pass: true}
}

// FilterPosts returns the posts that pass, keeping their order.
func (f *Filter) FilterPosts(posts []Post) []Post {
	result := make([]Post, 0, len(posts))

	for _, post := range posts {
		if check := f.Check(post); check.Pass {
			result = append(result, post)
		}
	}

	return result
}
