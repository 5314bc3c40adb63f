package sentiment

import (
	"context"
	"strings"

	"github.com/jonreiter/govader"
)

// VaderClassifier labels text with the VADER rule-based sentiment model.
type VaderClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// VaderConfig holds configuration for the VADER classifier.
type VaderConfig struct {
	// Extra entries override or extend the VADER lexicon. Valences are on
	// VADER's scale of -4 to 4.
	Extra map[string]float64
}

// NewVaderClassifier loads the VADER lexicon and applies cfg.Extra on top.
func NewVaderClassifier(cfg VaderConfig) *VaderClassifier {
	analyzer := govader.NewSentimentIntensityAnalyzer()
	for w, v := range cfg.Extra {
		analyzer.Lexicon[strings.ToLower(w)] = v
	}
	return &VaderClassifier{analyzer: analyzer}
}

// Name returns the backend name.
func (c *VaderClassifier) Name() string {
	return "vader"
}

// Classify labels text by its compound polarity. Empty text is neutral.
func (c *VaderClassifier) Classify(ctx context.Context, text string) (Label, error) {
	return FromPolarity(c.Polarity(text)), nil
}

// Polarity returns the VADER compound score of text, in [-1, 1].
func (c *VaderClassifier) Polarity(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return c.analyzer.PolarityScores(text).Compound
}
