// Package taxonomy classifies low-scoring evaluation questions into a
// closed set of failure modes, each pointing at a responsible component
// and, where one exists, a prompt-template id the self-improvement
// runner can act on (spec.md §4.9).
package taxonomy

import (
	"github.com/open-cogeval/cogeval/pkg/catalog"
	"github.com/open-cogeval/cogeval/pkg/dialogue"
)

// FailureMode is one of the sixteen closed failure categories.
type FailureMode string

const (
	FailureRetrievalInsufficient     FailureMode = "retrieval_insufficient"
	FailureTemporalOrderingWrong     FailureMode = "temporal_ordering_wrong"
	FailureIntentMisclassification   FailureMode = "intent_misclassification"
	FailureFactExtractionIncomplete  FailureMode = "fact_extraction_incomplete"
	FailureSynthesisHallucination    FailureMode = "synthesis_hallucination"
	FailureUpdateNotApplied          FailureMode = "update_not_applied"
	FailureContradictionUndetected   FailureMode = "contradiction_undetected"
	FailureProceduralOrderingLost    FailureMode = "procedural_ordering_lost"
	FailureTeachingCoverageGap       FailureMode = "teaching_coverage_gap"
	FailureCounterfactualRefusal     FailureMode = "counterfactual_refusal"
	FailureSourceMisattribution      FailureMode = "source_misattribution"
	FailureCrossSourceMergeFailure   FailureMode = "cross_source_merge_failure"
	FailureTransferFailure           FailureMode = "transfer_failure"
	FailureCausalMisattribution      FailureMode = "causal_misattribution"
	FailureDistractorSusceptibility  FailureMode = "distractor_susceptibility"
	FailureLowConfidenceHedge        FailureMode = "low_confidence_hedge"
)

// Valid reports whether m is one of the sixteen declared modes.
func (m FailureMode) Valid() bool {
	_, ok := Taxonomy[m]
	return ok
}

// Entry is the closed-mapping record for one failure mode.
type Entry struct {
	Description          string
	ResponsibleComponent string
	PromptTemplateID      string // empty when no prompt template applies
	SymptomTags           []string
}

// Taxonomy is the closed failure-mode -> entry mapping. It is never
// mutated at runtime; the sixteen keys are exhaustive.
var Taxonomy = map[FailureMode]Entry{
	FailureRetrievalInsufficient: {
		Description:           "The agent's memory search returned no usable evidence for a fact it was previously taught.",
		ResponsibleComponent:  "memory_coordinator",
		SymptomTags:           []string{"empty_retrieval", "zero_of_n_search"},
	},
	FailureSynthesisHallucination: {
		Description:           "The agent produced a plausible-sounding answer not grounded in any learned content.",
		ResponsibleComponent:  "agent_reasoning",
		PromptTemplateID:      "pt_grounding_instructions",
		SymptomTags:           []string{"ungrounded_claim", "fabrication"},
	},
	FailureCounterfactualRefusal: {
		Description:           "The agent declined to reason about a hypothetical instead of attempting a grounded counterfactual answer.",
		ResponsibleComponent:  "agent_reasoning",
		PromptTemplateID:      "pt_counterfactual_handling",
		SymptomTags:           []string{"refusal", "hypothetical_avoidance"},
	},
	FailureIntentMisclassification: {
		Description:           "The agent misjudged what the question was asking for and answered a different question than the one posed.",
		ResponsibleComponent:  "agent_reasoning",
		SymptomTags:           []string{"under_effort", "off_target_answer"},
	},
	FailureTemporalOrderingWrong: {
		Description:           "Correct facts were found but the temporal computation over them failed.",
		ResponsibleComponent:  "memory_coordinator",
		PromptTemplateID:      "pt_recency_preference",
		SymptomTags:           []string{"timeline_conflation", "wrong_temporal_arithmetic"},
	},
	FailureFactExtractionIncomplete: {
		Description:           "Key facts present in the source article were never extracted during the learning phase.",
		ResponsibleComponent:  "agentproto_learn_ack",
		PromptTemplateID:      "pt_fact_extraction",
		SymptomTags:           []string{"missing_fact_despite_source"},
	},
	FailureUpdateNotApplied: {
		Description:           "The agent answered with a value that was later superseded instead of the most recently learned one.",
		ResponsibleComponent:  "memory_coordinator",
		PromptTemplateID:      "pt_recency_preference",
		SymptomTags:           []string{"stale_value", "superseded_fact_used"},
	},
	FailureContradictionUndetected: {
		Description:           "The agent failed to notice or acknowledge that two learned sources disagreed.",
		ResponsibleComponent:  "agent_reasoning",
		PromptTemplateID:      "pt_contradiction_ack",
		SymptomTags:           []string{"conflict_unacknowledged"},
	},
	FailureSourceMisattribution: {
		Description:           "The agent attributed a fact to the wrong source or could not name which source reported it.",
		ResponsibleComponent:  "agent_reasoning",
		PromptTemplateID:      "pt_source_citation",
		SymptomTags:           []string{"wrong_source", "missing_citation"},
	},
	FailureProceduralOrderingLost: {
		Description:           "The agent's recalled procedure diverged from the taught sequence of steps.",
		ResponsibleComponent:  "agent_reasoning",
		PromptTemplateID:      "pt_fact_extraction",
		SymptomTags:           []string{"step_omitted", "step_reordered"},
	},
	FailureTeachingCoverageGap: {
		Description:           "The agent was never taught certain key facts in the first place, so no amount of retrieval can recover them.",
		ResponsibleComponent:  "dialogue_teacher",
		PromptTemplateID:      "pt_teaching_response",
		SymptomTags:           []string{"low_score_on_untaught_subtopic"},
	},
	FailureCrossSourceMergeFailure: {
		Description:           "The agent failed to combine facts spread across multiple sources into one coherent answer.",
		ResponsibleComponent:  "agent_reasoning",
		SymptomTags:           []string{"partial_synthesis"},
	},
	FailureTransferFailure: {
		Description:           "The agent could not apply a skill or fact learned in one context to a related new context, whether a skill taught moments earlier in the same run or one it must carry forward into a later, structurally different domain.",
		ResponsibleComponent:  "agent_reasoning",
		SymptomTags:           []string{"no_generalization", "skill_not_applied"},
	},
	FailureCausalMisattribution: {
		Description:           "The agent named the wrong cause for an observed effect, or reversed cause and effect.",
		ResponsibleComponent:  "agent_reasoning",
		SymptomTags:           []string{"reversed_causality", "wrong_cause"},
	},
	FailureDistractorSusceptibility: {
		Description:           "The agent's answer was pulled off course by irrelevant content placed near the real fact, or it failed to recall a fact buried in a longer passage of unrelated text.",
		ResponsibleComponent:  "memory_coordinator",
		SymptomTags:           []string{"distractor_influence", "buried_fact_missed"},
	},
	FailureLowConfidenceHedge: {
		Description:           "The agent hedged or declined to commit to an answer it had sufficient grounding to give.",
		ResponsibleComponent:  "agent_reasoning",
		PromptTemplateID:      "pt_confidence_calibration",
		SymptomTags:           []string{"excessive_hedging"},
	},
}

// FailedQuestion is the evidence record the analyzer classifies. Level
// and Category are both optional — progressive-harness questions carry
// a Level, long-horizon questions carry a Category, and either may be
// absent depending on which evaluator produced the record.
type FailedQuestion struct {
	QuestionID          string
	Level               catalog.LevelID
	ReasoningType        catalog.ReasoningType
	Category             *dialogue.Category
	Question             string
	ExpectedAnswer        string
	AnswerText            string
	MetacognitionTrace     string
	Score                  float64
}
