package memory

import "strings"

// trivialPhrases is the closed set of greeting/acknowledgment phrases
// rejected outright regardless of length.
var trivialPhrases = map[string]bool{
	"hi": true, "hello": true, "hey": true,
	"thanks": true, "thank you": true, "ok": true, "okay": true,
	"yes": true, "no": true, "sure": true, "got it": true, "noted": true,
}

// isTrivialContent reports whether content is too short or is an exact
// match (case-insensitive, trimmed) for a known trivial phrase.
func isTrivialContent(content string) bool {
	trimmed := strings.TrimSpace(content)
	if len(trimmed) < 10 {
		return true
	}
	return trivialPhrases[strings.ToLower(trimmed)]
}
