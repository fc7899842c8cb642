// Package longhorizon implements the long-horizon memory stress test:
// feed an agent a deterministic dialogue turn by turn, quiz it
// afterward, grade each answer on several independent cognitive
// dimensions, and report per-category breakdowns (spec.md §4.7).
package longhorizon

import (
	"time"

	"github.com/open-cogeval/cogeval/pkg/dialogue"
	"github.com/open-cogeval/cogeval/pkg/grader"
)

// DimensionScore is one graded dimension's outcome for a single
// question.
type DimensionScore struct {
	Dimension grader.Dimension `json:"dimension"`
	Score     float64          `json:"score"`
	Reasoning string           `json:"reasoning"`
}

// QuestionResult is the full graded outcome for one quiz question.
type QuestionResult struct {
	QuestionID  string           `json:"question_id"`
	Category    dialogue.Category `json:"category"`
	AnswerText  string           `json:"answer_text"`
	Overall     float64          `json:"overall"`
	Dimensions  []DimensionScore `json:"dimensions"`
	GradingTime time.Duration    `json:"grading_time_ns"`
}

// CategoryBreakdown summarizes one question category's outcomes.
type CategoryBreakdown struct {
	Category          dialogue.Category `json:"category"`
	Count             int               `json:"count"`
	Mean              float64           `json:"mean"`
	Min               float64           `json:"min"`
	Max               float64           `json:"max"`
	DimensionAverages map[string]float64 `json:"dimension_averages"`
}

// Report is the full long-horizon evaluation output for one agent run.
type Report struct {
	GeneratedAt time.Time            `json:"generated_at"`
	AgentName   string               `json:"agent_name"`
	Seed        int64                `json:"seed"`
	TotalTurns   int                 `json:"total_turns"`
	TotalFacts   int                 `json:"total_facts"`
	LearnErrors  int                 `json:"learn_errors"`
	LearningTime time.Duration       `json:"learning_time_ns"`
	OverallMean float64              `json:"overall_mean"`
	Categories  []CategoryBreakdown  `json:"categories"`
	Questions   []QuestionResult     `json:"questions"`
	MemoryStats map[string]any       `json:"memory_stats,omitempty"`
}

// GroundTruthSummary is the artifact persisted as ground_truth.json: a
// summary of facts, current values, and block distribution, not the
// full per-fact record (that lives only in-process on dialogue.Result).
type GroundTruthSummary struct {
	TotalFacts        int               `json:"total_facts"`
	TotalTurns        int               `json:"total_turns"`
	CurrentValues     map[string]string `json:"current_values"`
	SupersededCounts  map[string]int    `json:"superseded_counts"`
	BlockDistribution map[string]int    `json:"block_distribution"`
}

// NewGroundTruthSummary condenses a dialogue.Result into its
// persistable summary form.
func NewGroundTruthSummary(result dialogue.Result) GroundTruthSummary {
	superseded := make(map[string]int, len(result.GroundTruth.SupersededValues))
	for key, values := range result.GroundTruth.SupersededValues {
		superseded[key] = len(values)
	}
	return GroundTruthSummary{
		TotalFacts:        result.GroundTruth.TotalFacts,
		TotalTurns:        len(result.Turns),
		CurrentValues:     result.GroundTruth.CurrentValues,
		SupersededCounts:  superseded,
		BlockDistribution: result.GroundTruth.BlockDistribution,
	}
}
