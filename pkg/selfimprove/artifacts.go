package selfimprove

import (
	"path/filepath"

	"github.com/open-cogeval/cogeval/internal/artifact"
	"github.com/open-cogeval/cogeval/pkg/harness"
	"github.com/open-cogeval/cogeval/pkg/taxonomy"
)

// writeBaselineScores and its siblings below each write one of the
// iteration_N/ artifacts spec.md §6 lists for the self-improvement
// runner.
func writeBaselineScores(iterDir string, result *harness.ProgressiveResult) error {
	return artifact.WriteJSON(filepath.Join(iterDir, "baseline_scores.json"), result)
}

func writePostScores(iterDir string, result *harness.ProgressiveResult) error {
	return artifact.WriteJSON(filepath.Join(iterDir, "post_scores.json"), result)
}

func writeAnalyses(iterDir string, analyses []taxonomy.Analysis) error {
	return artifact.WriteJSON(filepath.Join(iterDir, "analyses.json"), analyses)
}

func writeResearchDecisions(iterDir string, decisions []ResearchDecision) error {
	return artifact.WriteJSON(filepath.Join(iterDir, "research_decisions.json"), decisions)
}

func writeIterationResult(iterDir string, iteration *IterationResult) error {
	return artifact.WriteJSON(filepath.Join(iterDir, "iteration_result.json"), iteration)
}
