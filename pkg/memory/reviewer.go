package memory

import (
	"context"
	"sort"

	"github.com/open-cogeval/cogeval/pkg/memorystore"
	"golang.org/x/sync/errgroup"
)

// Reviewer scores a candidate memory entry's importance on a 0..10
// scale. Implementations typically wrap an LLM call; the tests use a
// scripted stand-in, and heuristicImportance is the non-LLM fallback
// score used when fewer than two reviewers respond.
type Reviewer interface {
	Review(ctx context.Context, content string, memType memorystore.MemoryType) (float64, error)
}

// reviewOutcome captures one reviewer's result or its absence.
type reviewOutcome struct {
	score float64
	ok    bool
}

// runReviewers invokes every reviewer concurrently and waits for all,
// per the coordinator's single-process concurrency model (this is the
// one place the core issues concurrent agent calls and waits on all of
// them). A reviewer error or context cancellation yields a non-usable
// outcome rather than aborting the others.
func runReviewers(ctx context.Context, reviewers []Reviewer, content string, memType memorystore.MemoryType) []reviewOutcome {
	outcomes := make([]reviewOutcome, len(reviewers))

	g, gctx := errgroup.WithContext(ctx)
	for i, reviewer := range reviewers {
		i, reviewer := i, reviewer
		g.Go(func() error {
			score, err := reviewer.Review(gctx, content, memType)
			if err != nil {
				return nil // non-usable, not fatal to the group
			}
			outcomes[i] = reviewOutcome{score: score, ok: true}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// medianUsableScore returns the median of the usable outcomes and
// whether at least two outcomes were usable.
func medianUsableScore(outcomes []reviewOutcome) (median float64, quorum bool) {
	var scores []float64
	for _, o := range outcomes {
		if o.ok {
			scores = append(scores, o.score)
		}
	}
	if len(scores) < 2 {
		return 0, false
	}
	sort.Float64s(scores)
	n := len(scores)
	if n%2 == 1 {
		return scores[n/2], true
	}
	return (scores[n/2-1] + scores[n/2]) / 2, true
}

// heuristicImportance is the fallback scoring used when fewer than two
// reviewers responded: a length-based base score plus a flat boost for
// the two memory types whose content is expected to be durable
// knowledge (semantic, procedural).
func heuristicImportance(content string, memType memorystore.MemoryType) float64 {
	base := float64(len(content)) / 50.0
	if base > 6 {
		base = 6
	}
	switch memType {
	case memorystore.MemorySemantic, memorystore.MemoryProcedural:
		base += 2
	}
	if base > 10 {
		base = 10
	}
	return base
}
