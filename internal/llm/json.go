package llm

import (
	"regexp"
	"strings"
)

// StripFences removes a surrounding markdown code fence, with or without a
// json language tag.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	for _, prefix := range []string{"```json", "```JSON", "```"} {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			if idx := strings.LastIndex(text, "```"); idx >= 0 {
				text = text[:idx]
			}
			break
		}
	}
	return strings.TrimSpace(text)
}

var trailingObjectRe = regexp.MustCompile(`(?s)\{.*\}\s*$`)

// TrailingObject returns the span from the first '{' to a '}' that ends the
// text, or the text unchanged when there is none.
func TrailingObject(text string) string {
	if m := trailingObjectRe.FindString(text); m != "" {
		return m
	}
	return text
}
