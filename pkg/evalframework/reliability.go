package evalframework

import (
	"context"
	"errors"
	"fmt"

	"github.com/open-cogeval/cogeval/internal/apperr"
	"github.com/open-cogeval/cogeval/pkg/memory"
	"github.com/open-cogeval/cogeval/pkg/memorystore"
)

// ReliabilityEvaluator checks session isolation (writes to one session
// never surface in another's retrieval) and that clear_all on an empty
// session id is refused as an integrity violation rather than silently
// accepted.
type ReliabilityEvaluator struct{}

func (ReliabilityEvaluator) Name() string { return "reliability" }

func (ReliabilityEvaluator) Evaluate(ctx context.Context, coord *memory.Coordinator) (EvaluatorResult, error) {
	sessionA := "eval-reliability-a"
	sessionB := "eval-reliability-b"
	defer func() { _, _ = coord.ClearAll(ctx, sessionA) }()
	defer func() { _, _ = coord.ClearAll(ctx, sessionB) }()

	marker := "reliability evaluator marker fact belonging only to session a"
	out, err := coord.Store(ctx, memory.StorageRequest{SessionID: sessionA, Content: marker, Type: memorystore.MemoryEpisodic})
	if err != nil {
		return EvaluatorResult{}, fmt.Errorf("evalframework: reliability store: %w", err)
	}
	if !out.Accepted {
		return EvaluatorResult{Name: "reliability", Score: 0, Details: map[string]any{"reason": "marker write rejected"}}, nil
	}

	leaked, err := coord.Retrieve(ctx, memory.RetrievalQuery{SessionID: sessionB, QueryText: marker, TokenBudget: 8000})
	if err != nil {
		return EvaluatorResult{}, fmt.Errorf("evalframework: reliability cross-session retrieve: %w", err)
	}
	isolationHeld := len(leaked) == 0

	_, clearErr := coord.ClearAll(ctx, "")
	integrityEnforced := clearErr != nil && errors.Is(clearErr, apperr.ErrIntegrity)

	score := 0.0
	if isolationHeld {
		score += 0.5
	}
	if integrityEnforced {
		score += 0.5
	}

	return EvaluatorResult{
		Name:  "reliability",
		Score: score,
		Details: map[string]any{
			"session_isolation_held":    isolationHeld,
			"empty_session_id_rejected": integrityEnforced,
		},
	}, nil
}
