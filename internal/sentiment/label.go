// Package sentiment cleans post text and assigns it a polarity label.
package sentiment

import (
	"fmt"
	"strings"
)

// Label is the polarity assigned to a post.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// Labels lists every label in reporting order.
var Labels = []Label{Positive, Negative, Neutral}

// String returns the label name.
func (l Label) String() string {
	return string(l)
}

// Title returns the label name with its first letter upper-cased.
func (l Label) Title() string {
	if l == "" {
		return ""
	}
	return strings.ToUpper(string(l[:1])) + string(l[1:])
}

// Valid reports whether l is one of the known labels.
func (l Label) Valid() bool {
	switch l {
	case Positive, Negative, Neutral:
		return true
	}
	return false
}

// ParseLabel converts a case-insensitive name into a Label.
func ParseLabel(s string) (Label, error) {
	l := Label(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unknown sentiment %q (must be positive, negative or neutral)", s)
	}
	return l, nil
}

// FromPolarity maps a polarity score to a label. Zero is neutral.
func FromPolarity(polarity float64) Label {
	switch {
	case polarity > 0:
		return Positive
	case polarity < 0:
		return Negative
	default:
		return Neutral
	}
}
