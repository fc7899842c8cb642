// Package evalframework provides pluggable evaluators over a
// memorystore.Store backend and a comparison runner that scores two
// backends side by side. It exercises the memory core only — it has no
// opinion on grading, harness levels, or dialogue generation.
package evalframework

import (
	"context"
	"time"

	"github.com/open-cogeval/cogeval/pkg/memory"
	"github.com/open-cogeval/cogeval/pkg/memorystore"
)

// EvaluatorResult is one evaluator's findings against a single backend.
type EvaluatorResult struct {
	Name    string
	Score   float64 // 0..1
	Details map[string]any
}

// Evaluator scores one quality dimension of a memory core built on top
// of a single backend. Evaluators go through memory.Coordinator rather
// than memorystore.Store directly, since duplicate rejection,
// trivial-content filtering, and session-isolation enforcement all live
// in the coordinator, not the backend.
type Evaluator interface {
	Name() string
	Evaluate(ctx context.Context, coord *memory.Coordinator) (EvaluatorResult, error)
}

// BuiltinEvaluators returns the three evaluators the framework ships
// with: quality, performance, reliability.
func BuiltinEvaluators() []Evaluator {
	return []Evaluator{
		QualityEvaluator{},
		PerformanceEvaluator{},
		ReliabilityEvaluator{},
	}
}

// BackendComparisonReport carries per-backend evaluator results for a
// side-by-side comparison.
type BackendComparisonReport struct {
	GeneratedAt time.Time
	Backends    map[string][]EvaluatorResult
}

// CompareBackends runs every evaluator against each named backend and
// assembles a BackendComparisonReport. A failing evaluator call on one
// backend does not abort evaluation of the others — its result is
// recorded with Score 0 and an "error" detail instead.
func CompareBackends(ctx context.Context, backends map[string]memorystore.Store, evaluators []Evaluator, now time.Time) BackendComparisonReport {
	report := BackendComparisonReport{
		GeneratedAt: now,
		Backends:    make(map[string][]EvaluatorResult, len(backends)),
	}
	for name, store := range backends {
		coord := memory.New(store, nil)
		var results []EvaluatorResult
		for _, ev := range evaluators {
			res, err := ev.Evaluate(ctx, coord)
			if err != nil {
				res = EvaluatorResult{Name: ev.Name(), Score: 0, Details: map[string]any{"error": err.Error()}}
			}
			results = append(results, res)
		}
		report.Backends[name] = results
	}
	return report
}
