package evalframework

import (
	"context"
	"fmt"
	"time"

	"github.com/open-cogeval/cogeval/pkg/memory"
	"github.com/open-cogeval/cogeval/pkg/memorystore"
)

// PerformanceEvaluator measures storage and retrieval latency against
// the coordinator's own budgets: storage should complete well inside
// memory.StorageTimeout (500ms) and retrieval inside 50ms under typical
// load (no reviewer calls are on the retrieval path).
type PerformanceEvaluator struct{}

func (PerformanceEvaluator) Name() string { return "performance" }

const retrievalBudget = 50 * time.Millisecond

func (PerformanceEvaluator) Evaluate(ctx context.Context, coord *memory.Coordinator) (EvaluatorResult, error) {
	sessionID := "eval-performance"
	defer func() { _, _ = coord.ClearAll(ctx, sessionID) }()

	storeStart := time.Now()
	out, err := coord.Store(ctx, memory.StorageRequest{
		SessionID: sessionID,
		Content:   "performance evaluator writes a representative fact for timing purposes",
		Type:      memorystore.MemoryEpisodic,
	})
	storeElapsed := time.Since(storeStart)
	if err != nil {
		return EvaluatorResult{}, fmt.Errorf("evalframework: performance store: %w", err)
	}

	retrieveStart := time.Now()
	_, err = coord.Retrieve(ctx, memory.RetrievalQuery{SessionID: sessionID, QueryText: "representative fact", TokenBudget: 8000})
	retrieveElapsed := time.Since(retrieveStart)
	if err != nil {
		return EvaluatorResult{}, fmt.Errorf("evalframework: performance retrieve: %w", err)
	}

	storeOK := storeElapsed <= memory.StorageTimeout
	retrieveOK := retrieveElapsed <= retrievalBudget

	score := 0.0
	if storeOK {
		score += 0.5
	}
	if retrieveOK {
		score += 0.5
	}

	return EvaluatorResult{
		Name:  "performance",
		Score: score,
		Details: map[string]any{
			"store_accepted":       out.Accepted,
			"store_elapsed_ms":     storeElapsed.Milliseconds(),
			"retrieve_elapsed_ms":  retrieveElapsed.Milliseconds(),
			"store_within_budget":  storeOK,
			"retrieve_within_budget": retrieveOK,
		},
	}, nil
}
