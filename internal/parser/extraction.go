package parser

import "strings"

// StripCodeFences removes a surrounding markdown code fence from a model
// response, tolerating an optional language tag on the opening fence.
// Models occasionally wrap output in fences despite instructions not to.
func StripCodeFences(s string) string {
	text := strings.TrimSpace(s)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if idx := strings.Index(text, "\n"); idx >= 0 {
		text = text[idx+1:]
	} else {
		return strings.TrimSpace(strings.TrimPrefix(text, "```"))
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// CleanExtractionOutput normalizes a vision provider's extraction text
// before aggregation: fences stripped, surrounding whitespace trimmed.
func CleanExtractionOutput(s string) string {
	return StripCodeFences(s)
}
