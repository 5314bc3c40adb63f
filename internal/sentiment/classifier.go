package sentiment

import (
	"context"
	"errors"
)

// ErrClassification is returned when a classifier cannot label a text.
var ErrClassification = errors.New("sentiment classification failed")

// Classifier assigns a polarity label to cleaned text.
type Classifier interface {
	// Name returns the backend name.
	Name() string

	// Classify returns the label for text.
	Classify(ctx context.Context, text string) (Label, error)
}
