package poster

import (
	"strings"
	"unicode/utf8"
)

const (
	// BlueskyMaxLength is the maximum character count for a Bluesky post.
	BlueskyMaxLength = 300

	// TwitterMaxLength is the maximum character count for a Twitter post.
	TwitterMaxLength = 280
)

// FitsInLimit checks if the formatted post fits within the limit.
func FitsInLimit(formatted string, limit int) bool {
	return utf8.RuneCountInString(formatted) <= limit
}

// FormatReply fits a reply into limit characters. When the reply ends in a
// link, the link is kept whole and the prose before it is shortened.
func FormatReply(text string, limit int) string {
	text = strings.TrimSpace(text)
	if FitsInLimit(text, limit) {
		return text
	}

	prose, link := splitTrailingLink(text)
	if link == "" {
		return truncateWords(text, limit)
	}

	available := limit - utf8.RuneCountInString(link) - 1 // space before the link
	if available <= 3 {
		// The link alone does not fit; it would be useless cut in half.
		return truncateWords(text, limit)
	}

	return truncateWords(prose, available) + " " + link
}

// splitTrailingLink separates a final http(s) token from the text before it.
func splitTrailingLink(text string) (string, string) {
	idx := strings.LastIndex(text, " ")
	if idx == -1 {
		return text, ""
	}
	last := text[idx+1:]
	if !strings.HasPrefix(last, "http://") && !strings.HasPrefix(last, "https://") {
		return text, ""
	}
	return strings.TrimSpace(text[:idx]), last
}

// truncateWords cuts text to at most limit runes, ending in "...".
func truncateWords(text string, limit int) string {
	if FitsInLimit(text, limit) {
		return text
	}
	if limit <= 3 {
		return string([]rune(text)[:max(limit, 0)])
	}

	available := limit - 3
	truncated := string([]rune(text)[:available])

	// Find last space to avoid cutting mid-word
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimRight(truncated, " .,;:!?") + "..."
}
