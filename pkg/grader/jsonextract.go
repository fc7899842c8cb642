package grader

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/open-cogeval/cogeval/internal/apperr"
)

// singleScorePayload is the wire shape for a single Grade response.
type singleScorePayload struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// multiScorePayload is the wire shape for a GradeMulti response.
type multiScorePayload struct {
	Scores map[string]struct {
		Score     float64 `json:"score"`
		Reasoning string  `json:"reasoning"`
	} `json:"scores"`
}

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// extractJSONObject applies the three-strategy pipeline spec.md §4.1 and
// §9 require: (i) the raw body is itself JSON, (ii) the body contains a
// fenced code block (with or without a "json" language tag), (iii) the
// first balanced {...} substring anywhere in the body. All three MUST be
// tried, in this order, to survive vendor model drift (extra prose
// before/after the JSON, markdown fencing, etc).
func extractJSONObject(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	// Strategy (i): raw JSON body.
	if looksLikeJSONObject(trimmed) {
		return trimmed, nil
	}

	// Strategy (ii): fenced code block.
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		candidate := strings.TrimSpace(m[1])
		if looksLikeJSONObject(candidate) {
			return candidate, nil
		}
	}

	// Strategy (iii): first balanced {...} substring.
	if candidate, ok := firstBalancedBraces(raw); ok {
		return candidate, nil
	}

	return "", apperr.NewParseError("grader response", raw, "no JSON object could be extracted")
}

func looksLikeJSONObject(s string) bool {
	return strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")
}

// firstBalancedBraces scans for the first top-level balanced {...} span,
// tolerating braces nested inside JSON string values (so a "reasoning"
// field containing literal braces does not break the scan).
func firstBalancedBraces(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func extractSingleScore(raw string) (singleScorePayload, error) {
	obj, err := extractJSONObject(raw)
	if err != nil {
		return singleScorePayload{}, err
	}
	var payload singleScorePayload
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return singleScorePayload{}, apperr.NewParseError("grader response", raw, err.Error())
	}
	return payload, nil
}

func extractMultiScores(raw string) (map[Dimension]DimensionResult, error) {
	obj, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}
	var payload multiScorePayload
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return nil, apperr.NewParseError("grader response", raw, err.Error())
	}
	out := make(map[Dimension]DimensionResult, len(payload.Scores))
	for name, v := range payload.Scores {
		out[Dimension(name)] = DimensionResult{
			Dimension: Dimension(name),
			Score:     v.Score,
			Reasoning: v.Reasoning,
		}
	}
	return out, nil
}
