package selfimprove

import (
	"github.com/open-cogeval/cogeval/pkg/catalog"
	"github.com/open-cogeval/cogeval/pkg/taxonomy"
)

// research turns one baseline run's analyses into research decisions,
// applying spec.md §4.10 step 3's ordered decision rule. Cluster size
// is the count of analyses (across every level) sharing the same
// failure mode, including the analysis itself.
func research(analyses []taxonomy.Analysis, levelBaselines map[catalog.LevelID]float64) []ResearchDecision {
	clusterSizes := clusterSizesByMode(analyses)

	decisions := make([]ResearchDecision, 0, len(analyses))
	for _, a := range analyses {
		clusterSize := clusterSizes[a.Mode]
		hasTemplate := a.Entry.PromptTemplateID != ""

		decisions = append(decisions, ResearchDecision{
			Analysis:         a,
			Decision:         decide(a.Question.Score, hasTemplate, clusterSize),
			ClusterSize:      clusterSize,
			LevelBaseline:    levelBaselines[a.Question.Level],
			Evidence:         excerpt(a.Question.AnswerText),
			CounterArguments: fixedCounterArguments,
		})
	}
	return decisions
}

// decide applies the ordered rule from spec.md §4.10 step 3.
func decide(score float64, hasPromptTemplate bool, clusterSize int) Decision {
	switch {
	case hasPromptTemplate && clusterSize >= 2 && score < 0.4:
		return DecisionApply
	case hasPromptTemplate && score < 0.3:
		return DecisionApply
	case score < 0.2:
		return DecisionApply
	case score >= 0.5:
		return DecisionSkip
	default:
		return DecisionDefer
	}
}

func clusterSizesByMode(analyses []taxonomy.Analysis) map[taxonomy.FailureMode]int {
	counts := make(map[taxonomy.FailureMode]int, len(analyses))
	for _, a := range analyses {
		counts[a.Mode]++
	}
	return counts
}

func excerpt(text string) string {
	const maxLen = 200
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen] + "...(truncated)"
}
