package sentiment

import (
	"context"
	"fmt"
	"strings"
)

const classifySystemPrompt = `You label the sentiment of short social media posts about data tooling.
Answer with exactly one word: positive, negative or neutral.`

// Completer is the subset of the Claude client used for classification.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ClaudeClassifier asks an LLM for the label.
type ClaudeClassifier struct {
	client Completer
}

// NewClaudeClassifier creates a classifier backed by client.
func NewClaudeClassifier(client Completer) *ClaudeClassifier {
	return &ClaudeClassifier{client: client}
}

// Name returns the backend name.
func (c *ClaudeClassifier) Name() string {
	return "claude"
}

// Classify labels text. Empty text is neutral without an API call.
func (c *ClaudeClassifier) Classify(ctx context.Context, text string) (Label, error) {
	if strings.TrimSpace(text) == "" {
		return Neutral, nil
	}

	answer, err := c.client.Complete(ctx, classifySystemPrompt, text)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrClassification, err)
	}

	// Models sometimes add punctuation or a trailing sentence.
	word := strings.Trim(strings.ToLower(firstWord(answer)), ".,!:;\"'")
	label, err := ParseLabel(word)
	if err != nil {
		return "", fmt.Errorf("%w: unexpected answer %q", ErrClassification, answer)
	}
	return label, nil
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
