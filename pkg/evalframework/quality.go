package evalframework

import (
	"context"
	"fmt"

	"github.com/open-cogeval/cogeval/pkg/memory"
	"github.com/open-cogeval/cogeval/pkg/memorystore"
)

// QualityEvaluator checks round-trip store/retrieve fidelity (content
// written is the content read back) and that the duplicate filter
// rejects a byte-identical second write.
type QualityEvaluator struct{}

func (QualityEvaluator) Name() string { return "quality" }

func (QualityEvaluator) Evaluate(ctx context.Context, coord *memory.Coordinator) (EvaluatorResult, error) {
	sessionID := "eval-quality"
	defer func() { _, _ = coord.ClearAll(ctx, sessionID) }()

	content := "the evaluation framework writes this fact for round-trip verification"
	first, err := coord.Store(ctx, memory.StorageRequest{
		SessionID: sessionID, Content: content, Type: memorystore.MemorySemantic,
	})
	if err != nil {
		return EvaluatorResult{}, fmt.Errorf("evalframework: quality store: %w", err)
	}
	if !first.Accepted {
		return EvaluatorResult{Name: "quality", Score: 0, Details: map[string]any{"reason": "first write rejected: " + string(first.Reason)}}, nil
	}

	got, err := coord.Retrieve(ctx, memory.RetrievalQuery{SessionID: sessionID, QueryText: content, TokenBudget: 8000})
	if err != nil {
		return EvaluatorResult{}, fmt.Errorf("evalframework: quality retrieve: %w", err)
	}
	roundTripOK := false
	for _, e := range got {
		if e.Content == content {
			roundTripOK = true
			break
		}
	}

	dup, err := coord.Store(ctx, memory.StorageRequest{
		SessionID: sessionID, Content: content, Type: memorystore.MemorySemantic,
	})
	if err != nil {
		return EvaluatorResult{}, fmt.Errorf("evalframework: quality duplicate store: %w", err)
	}
	duplicateRejected := !dup.Accepted && dup.Reason == memory.RejectDuplicate

	score := 0.0
	if roundTripOK {
		score += 0.5
	}
	if duplicateRejected {
		score += 0.5
	}

	return EvaluatorResult{
		Name:  "quality",
		Score: score,
		Details: map[string]any{
			"round_trip_ok":       roundTripOK,
			"duplicate_rejected":  duplicateRejected,
			"candidates_returned": len(got),
		},
	}, nil
}
