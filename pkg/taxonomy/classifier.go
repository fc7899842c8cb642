package taxonomy

import (
	"strings"

	"github.com/open-cogeval/cogeval/pkg/catalog"
	"github.com/open-cogeval/cogeval/pkg/dialogue"
)

// DefaultThreshold is the score below which a question is classified
// as a failure, per spec.md §4.9.
const DefaultThreshold = 0.6

// Classify routes q to exactly one failure mode. The heuristics are
// deliberately coarse substring/tag checks over the agent's own answer
// text and optional metacognition trace, plus the question's level,
// reasoning type, or long-horizon category — this is a *coarse* router
// feeding the research step, which applies its own filters before
// acting. The fallback for anything unmatched is synthesis_hallucination.
func Classify(q FailedQuestion) FailureMode {
	text := strings.ToLower(q.AnswerText)
	trace := strings.ToLower(q.MetacognitionTrace)

	switch {
	case strings.Contains(trace, "0/"):
		return FailureRetrievalInsufficient
	case strings.Contains(trace, "under-effort"):
		return FailureIntentMisclassification
	case strings.Contains(text, "cannot answer") && strings.Contains(text, "what if"):
		return FailureCounterfactualRefusal
	case strings.Contains(text, "i'm not sure") || strings.Contains(text, "i don't know") || strings.Contains(text, "unsure"):
		return FailureLowConfidenceHedge
	}

	if q.Category != nil {
		switch *q.Category {
		case dialogue.CategoryNeedleInHaystack:
			return FailureDistractorSusceptibility
		case dialogue.CategoryDistractorResistance:
			return FailureDistractorSusceptibility
		case dialogue.CategorySourceAttribution:
			return FailureSourceMisattribution
		case dialogue.CategoryTemporalEvolution:
			return FailureTemporalOrderingWrong
		}
	}

	switch {
	case q.Level == catalog.L6 || q.ReasoningType == catalog.ReasoningIncrementalUpdate || q.ReasoningType == catalog.ReasoningIncrementalTracking:
		return FailureUpdateNotApplied
	case q.ReasoningType == catalog.ReasoningTemporalDifference || q.ReasoningType == catalog.ReasoningTemporalComparison || q.ReasoningType == catalog.ReasoningTemporalTrend:
		return FailureTemporalOrderingWrong
	case q.Level == catalog.L5 || q.ReasoningType == catalog.ReasoningContradictionDetection || q.ReasoningType == catalog.ReasoningContradictionReasoning:
		return FailureContradictionUndetected
	case q.ReasoningType == catalog.ReasoningSourceCredibility:
		return FailureSourceMisattribution
	case q.Level == catalog.L4 || strings.HasPrefix(string(q.ReasoningType), "procedural"):
		return FailureProceduralOrderingLost
	case q.Level == catalog.L2 || q.ReasoningType == catalog.ReasoningCrossSourceSynthesis:
		return FailureCrossSourceMergeFailure
	case q.Level == catalog.L9:
		return FailureCausalMisattribution
	case q.Level == catalog.L10:
		return FailureCounterfactualRefusal
	case q.Level == catalog.L7 || q.Level == catalog.L11 || q.Level == catalog.L12 || strings.HasPrefix(string(q.ReasoningType), "knowledge_transfer"):
		return FailureTransferFailure
	default:
		return FailureSynthesisHallucination
	}
}
