package sentiment

import (
	"regexp"
	"strings"
)

// cleanPattern matches mentions, anything outside [0-9A-Za-z \t], and URL-like tokens.
var cleanPattern = regexp.MustCompile(`(@[A-Za-z0-9]+)|([^0-9A-Za-z \t])|(\w+://\S+)`)

// Clean strips mentions, links and special characters from post text and
// collapses whitespace, leaving plain words for scoring.
func Clean(text string) string {
	return strings.Join(strings.Fields(cleanPattern.ReplaceAllString(text, " ")), " ")
}
