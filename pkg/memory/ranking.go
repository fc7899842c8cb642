package memory

import (
	"strings"
	"time"

	"github.com/open-cogeval/cogeval/pkg/memorystore"
)

// scoreEntry computes the deterministic retrieval ranking score for one
// candidate against a query: an exact-phrase bonus, per-word overlap
// credit, a recency bonus decaying with age, plus the entry's own
// stored importance.
func scoreEntry(e memorystore.MemoryEntry, queryText string, now time.Time) float64 {
	content := strings.ToLower(e.Content)
	query := strings.ToLower(strings.TrimSpace(queryText))

	var score float64
	if query != "" && strings.Contains(content, query) {
		score += 10.0
	}

	for _, word := range strings.Fields(query) {
		if word == "" {
			continue
		}
		if strings.Contains(content, word) {
			score += 2.0
		}
	}

	ageDays := now.Sub(e.CreatedAt).Hours() / 24
	recency := 5.0 - 0.1*ageDays
	if recency > 0 {
		score += recency
	}

	score += e.Importance
	return score
}

// estimateTokens approximates the token cost of content as length/4,
// the coordinator's deterministic budget unit.
func estimateTokens(content string) int {
	return len(content) / 4
}
