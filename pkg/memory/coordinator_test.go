package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/open-cogeval/cogeval/internal/apperr"
	"github.com/open-cogeval/cogeval/pkg/memorystore"
	"github.com/open-cogeval/cogeval/pkg/memorystore/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReviewer returns a fixed score/error pair on every call, with
// an optional delay to exercise the StorageTimeout fallback.
type scriptedReviewer struct {
	score float64
	err   error
	delay time.Duration
}

func (r scriptedReviewer) Review(ctx context.Context, content string, memType memorystore.MemoryType) (float64, error) {
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return r.score, r.err
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + string(rune('0'+n))
	}
}

func TestStore_TrivialContentRejected(t *testing.T) {
	c := New(memstore.New(), nil)
	out, err := c.Store(context.Background(), StorageRequest{SessionID: "s", Content: "hello", Type: memorystore.MemoryEpisodic})
	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.Equal(t, RejectTrivialContent, out.Reason)
}

func TestStore_TrivialContentRejected_ShortContent(t *testing.T) {
	c := New(memstore.New(), nil)
	out, err := c.Store(context.Background(), StorageRequest{SessionID: "s", Content: "a b c", Type: memorystore.MemoryEpisodic})
	require.NoError(t, err)
	assert.False(t, out.Accepted)
}

func TestStore_NoReviewersFallsBackToHeuristicAndAccepts(t *testing.T) {
	c := New(memstore.New(), nil)
	out, err := c.Store(context.Background(), StorageRequest{
		SessionID: "s", Content: "Norway won twelve gold medals in the games", Type: memorystore.MemorySemantic,
	})
	require.NoError(t, err)
	assert.True(t, out.Accepted)
	assert.NotEmpty(t, out.EntryID)
}

func TestStore_DuplicateContentRejectedOnSecondWrite(t *testing.T) {
	c := New(memstore.New(), nil)
	ctx := context.Background()
	req := StorageRequest{SessionID: "s", Content: "Norway finished with twelve gold medals total", Type: memorystore.MemorySemantic}

	first, err := c.Store(ctx, req)
	require.NoError(t, err)
	require.True(t, first.Accepted)

	second, err := c.Store(ctx, req)
	require.NoError(t, err)
	assert.False(t, second.Accepted)
	assert.Equal(t, RejectDuplicate, second.Reason)
}

func TestStore_QuorumOfTwoGoodReviewersAccepts(t *testing.T) {
	reviewers := []Reviewer{
		scriptedReviewer{score: 7},
		scriptedReviewer{score: 8},
		scriptedReviewer{err: errors.New("unavailable")},
	}
	c := New(memstore.New(), reviewers)
	out, err := c.Store(context.Background(), StorageRequest{
		SessionID: "s", Content: "The relay team finished four seconds ahead of the field", Type: memorystore.MemoryEpisodic,
	})
	require.NoError(t, err)
	assert.True(t, out.Accepted)
}

func TestStore_QuorumBelowMedianThresholdRejects(t *testing.T) {
	reviewers := []Reviewer{
		scriptedReviewer{score: 2},
		scriptedReviewer{score: 3},
	}
	c := New(memstore.New(), reviewers)
	out, err := c.Store(context.Background(), StorageRequest{
		SessionID: "s", Content: "The relay team finished four seconds ahead of the field", Type: memorystore.MemoryEpisodic,
	})
	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.Equal(t, RejectLowQuality, out.Reason)
}

func TestStore_FewerThanTwoUsableReviewersFallsBackToHeuristic(t *testing.T) {
	reviewers := []Reviewer{
		scriptedReviewer{score: 1}, // below 5, but alone — no quorum
		scriptedReviewer{err: errors.New("down")},
	}
	c := New(memstore.New(), reviewers)
	out, err := c.Store(context.Background(), StorageRequest{
		SessionID: "s", Content: "The relay team finished four seconds ahead of the field", Type: memorystore.MemorySemantic,
	})
	require.NoError(t, err)
	assert.True(t, out.Accepted)
}

func TestStore_SlowReviewersTriggerHeuristicFallbackWithinTimeout(t *testing.T) {
	reviewers := []Reviewer{
		scriptedReviewer{score: 9, delay: StorageTimeout * 3},
		scriptedReviewer{score: 9, delay: StorageTimeout * 3},
	}
	c := New(memstore.New(), reviewers)
	start := time.Now()
	out, err := c.Store(context.Background(), StorageRequest{
		SessionID: "s", Content: "The relay team finished four seconds ahead of the field", Type: memorystore.MemorySemantic,
	})
	elapsed := time.Since(start)
	require.NoError(t, err)
	assert.True(t, out.Accepted)
	assert.Less(t, elapsed, StorageTimeout*2)
}

func TestRetrieve_ZeroOrNegativeBudgetReturnsEmptyWithoutTouchingStore(t *testing.T) {
	c := New(memstore.New(), nil)
	got, err := c.Retrieve(context.Background(), RetrievalQuery{SessionID: "s", TokenBudget: 0})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = c.Retrieve(context.Background(), RetrievalQuery{SessionID: "s", TokenBudget: -5})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRetrieve_RanksExactPhraseAboveWordOverlap(t *testing.T) {
	store := memstore.New()
	ids := sequentialIDs("e")
	c := New(store, nil, WithIDGenerator(ids), WithClock(func() time.Time { return time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC) }))
	ctx := context.Background()

	_, err := c.Store(ctx, StorageRequest{SessionID: "s", Content: "the norway medal count reached twenty six total", Type: memorystore.MemorySemantic})
	require.NoError(t, err)
	_, err = c.Store(ctx, StorageRequest{SessionID: "s", Content: "exact phrase match test content right here now", Type: memorystore.MemorySemantic})
	require.NoError(t, err)

	got, err := c.Retrieve(ctx, RetrievalQuery{SessionID: "s", QueryText: "exact phrase match test content right here now", TokenBudget: 8000})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Contains(t, got[0].Content, "exact phrase match")
}

func TestRetrieve_FiltersByMemoryType(t *testing.T) {
	store := memstore.New()
	c := New(store, nil)
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, memorystore.MemoryEntry{ID: "1", SessionID: "s", Type: memorystore.MemoryWorking, Content: "working entry content here", CreatedAt: time.Now()}))
	require.NoError(t, store.Insert(ctx, memorystore.MemoryEntry{ID: "2", SessionID: "s", Type: memorystore.MemorySemantic, Content: "semantic entry content here", CreatedAt: time.Now()}))

	wantType := memorystore.MemorySemantic
	got, err := c.Retrieve(ctx, RetrievalQuery{SessionID: "s", MemoryType: &wantType, TokenBudget: 8000})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, memorystore.MemorySemantic, got[0].Type)
}

func TestRetrieve_StopsAtTokenBudget(t *testing.T) {
	store := memstore.New()
	c := New(store, nil)
	ctx := context.Background()
	longContent := ""
	for i := 0; i < 200; i++ {
		longContent += "word "
	}
	require.NoError(t, store.Insert(ctx, memorystore.MemoryEntry{ID: "1", SessionID: "s", Type: memorystore.MemoryEpisodic, Content: longContent, CreatedAt: time.Now()}))
	require.NoError(t, store.Insert(ctx, memorystore.MemoryEntry{ID: "2", SessionID: "s", Type: memorystore.MemoryEpisodic, Content: longContent, CreatedAt: time.Now()}))

	got, err := c.Retrieve(ctx, RetrievalQuery{SessionID: "s", TokenBudget: estimateTokens(longContent) + 10})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestClearWorkingMemory_OnlyDeletesWorkingType(t *testing.T) {
	store := memstore.New()
	c := New(store, nil)
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, memorystore.MemoryEntry{ID: "1", SessionID: "s", Type: memorystore.MemoryWorking, Content: "w", CreatedAt: time.Now()}))
	require.NoError(t, store.Insert(ctx, memorystore.MemoryEntry{ID: "2", SessionID: "s", Type: memorystore.MemorySemantic, Content: "sem", CreatedAt: time.Now()}))

	n, err := c.ClearWorkingMemory(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestClearAll_RequiresSessionID(t *testing.T) {
	c := New(memstore.New(), nil)
	_, err := c.ClearAll(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrIntegrity))
}

func TestClearAll_ThenRetrieveYieldsEmpty(t *testing.T) {
	store := memstore.New()
	c := New(store, nil)
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, memorystore.MemoryEntry{ID: "1", SessionID: "s", Type: memorystore.MemoryEpisodic, Content: "some content here", CreatedAt: time.Now()}))

	n, err := c.ClearAll(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := c.Retrieve(ctx, RetrievalQuery{SessionID: "s", TokenBudget: 8000})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMarkTaskComplete_DeletesMatchingWorkingEntries(t *testing.T) {
	store := memstore.New()
	c := New(store, nil)
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, memorystore.MemoryEntry{
		ID: "1", SessionID: "s", Type: memorystore.MemoryWorking, Content: "w1",
		Metadata: map[string]string{"task_id": "t1"}, CreatedAt: time.Now(),
	}))
	require.NoError(t, store.Insert(ctx, memorystore.MemoryEntry{
		ID: "2", SessionID: "s", Type: memorystore.MemoryWorking, Content: "w2",
		Metadata: map[string]string{"task_id": "t2"}, CreatedAt: time.Now(),
	}))

	n, err := c.MarkTaskComplete(ctx, "s", "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// erroringStore is used to confirm the coordinator never swallows store
// errors.
type erroringStore struct{ memorystore.Store }

func (erroringStore) CandidatesForSession(ctx context.Context, sessionID string, limit int) ([]memorystore.MemoryEntry, error) {
	return nil, errors.New("boom")
}

func TestRetrieve_PropagatesStoreErrors(t *testing.T) {
	c := New(erroringStore{}, nil)
	_, err := c.Retrieve(context.Background(), RetrievalQuery{SessionID: "s", TokenBudget: 100})
	require.Error(t, err)
}
