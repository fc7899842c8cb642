// Package selfimprove implements the closed-loop self-improvement
// runner: EVAL, ANALYZE, RESEARCH, IMPROVE, RE-EVAL, DECIDE, repeated
// for up to a configured number of iterations, with regression gating
// against the baseline (spec.md §4.10).
package selfimprove

import (
	"time"

	"github.com/open-cogeval/cogeval/pkg/taxonomy"
)

// Decision is one of the three research-step outcomes.
type Decision string

const (
	DecisionApply Decision = "apply"
	DecisionSkip  Decision = "skip"
	DecisionDefer Decision = "defer"
)

// fixedCounterArguments is the standing risk checklist every research
// decision records, per spec.md §4.10 step 3.
var fixedCounterArguments = []string{
	"prompt-sharing risk",
	"code-change risk",
	"stochasticity risk",
	"multi-level-spread risk",
}

// ResearchDecision is the RESEARCH step's output for one failure
// analysis.
type ResearchDecision struct {
	Analysis         taxonomy.Analysis `json:"analysis"`
	Decision         Decision          `json:"decision"`
	ClusterSize      int               `json:"cluster_size"`
	LevelBaseline    float64           `json:"level_baseline"`
	Evidence         string            `json:"evidence"` // failing question excerpt
	CounterArguments []string          `json:"counter_arguments"`
}

// PatchDescriptor is the structured record of one applied decision.
// The runner never mutates code in the default path (spec.md §4.10
// step 4); this descriptor is the only artifact of "applying" a fix.
type PatchDescriptor struct {
	FailureMode     taxonomy.FailureMode `json:"failure_mode"`
	PromptTemplateID string              `json:"prompt_template_id,omitempty"`
	Level           string               `json:"level"`
	Description      string              `json:"description"`
	DryRun            bool                `json:"dry_run"`
}

// IterationOutcome is the DECIDE step's final verdict for one
// iteration.
type IterationOutcome string

const (
	OutcomeCommit IterationOutcome = "commit"
	OutcomeRevert IterationOutcome = "revert"
	// OutcomeStopped marks an iteration that terminated early because
	// ANALYZE found nothing or RESEARCH produced no apply decisions; no
	// changes were attempted, so there is nothing to commit or revert.
	OutcomeStopped IterationOutcome = "stopped"
)

// IterationResult is the full record of one EVAL..DECIDE cycle.
type IterationResult struct {
	Iteration       int                       `json:"iteration"`
	BaselineOverall float64                   `json:"baseline_overall"`
	PostOverall     float64                   `json:"post_overall"`
	NetImprovement  float64                   `json:"net_improvement"`
	MaxRegression   float64                   `json:"max_regression"`
	Outcome         IterationOutcome          `json:"outcome"`
	Analyses        []taxonomy.Analysis       `json:"analyses"`
	Decisions       []ResearchDecision        `json:"decisions"`
	AppliedPatches  []PatchDescriptor         `json:"applied_patches"`
}

// RunnerResult is the full multi-iteration self-improvement output.
type RunnerResult struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Iterations  []IterationResult `json:"iterations"`
	FinalOverall float64          `json:"final_overall"`
}

// ShouldFail reports whether the run should be treated as a failure by
// a calling process, per spec.md §6: the final overall score is below
// 0.5, or no iterations completed.
func (r RunnerResult) ShouldFail() bool {
	if len(r.Iterations) == 0 {
		return true
	}
	return r.FinalOverall < 0.5
}
