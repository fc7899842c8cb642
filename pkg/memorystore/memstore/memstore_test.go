package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/open-cogeval/cogeval/pkg/memorystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(session, id string, memType memorystore.MemoryType, content string) memorystore.MemoryEntry {
	return memorystore.MemoryEntry{
		ID:        id,
		SessionID: session,
		Type:      memType,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

func TestInsertAndCandidatesForSession_NoCrossSessionLeak(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, entry("a", "1", memorystore.MemoryEpisodic, "hello world")))
	require.NoError(t, s.Insert(ctx, entry("b", "2", memorystore.MemoryEpisodic, "other session")))

	got, err := s.CandidatesForSession(ctx, "a", 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestCandidatesForSession_RespectsLimitMostRecentFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Now()
	for i := 0; i < 5; i++ {
		e := entry("s", string(rune('a'+i)), memorystore.MemoryEpisodic, "x")
		e.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.Insert(ctx, e))
	}
	got, err := s.CandidatesForSession(ctx, "s", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e", got[0].ID)
	assert.Equal(t, "d", got[1].ID)
}

func TestFindByFingerprint_MatchesExactContentOnly(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, entry("s", "1", memorystore.MemorySemantic, "the quick brown fox")))

	fp := memorystore.NewFingerprint("the quick brown fox")
	got, found, err := s.FindByFingerprint(ctx, "s", fp)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "1", got.ID)

	_, found, err = s.FindByFingerprint(ctx, "s", memorystore.NewFingerprint("a different string entirely"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFindByFingerprint_ScopedToSession(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, entry("a", "1", memorystore.MemorySemantic, "shared content string")))

	_, found, err := s.FindByFingerprint(ctx, "b", memorystore.NewFingerprint("shared content string"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteByType_OnlyDeletesMatchingTypeInSession(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, entry("s", "1", memorystore.MemoryWorking, "w1")))
	require.NoError(t, s.Insert(ctx, entry("s", "2", memorystore.MemorySemantic, "sem1")))
	require.NoError(t, s.Insert(ctx, entry("other", "3", memorystore.MemoryWorking, "w-other")))

	n, err := s.DeleteByType(ctx, "s", memorystore.MemoryWorking)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	remaining, err := s.CandidatesForSession(ctx, "s", 100)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "2", remaining[0].ID)

	otherRemaining, err := s.CandidatesForSession(ctx, "other", 100)
	require.NoError(t, err)
	require.Len(t, otherRemaining, 1)
}

func TestDeleteByTaskID_OnlyWorkingEntriesWithMatchingMetadata(t *testing.T) {
	s := New()
	ctx := context.Background()
	e1 := entry("s", "1", memorystore.MemoryWorking, "w1")
	e1.Metadata = map[string]string{"task_id": "t1"}
	e2 := entry("s", "2", memorystore.MemoryWorking, "w2")
	e2.Metadata = map[string]string{"task_id": "t2"}
	e3 := entry("s", "3", memorystore.MemorySemantic, "sem")
	e3.Metadata = map[string]string{"task_id": "t1"}
	require.NoError(t, s.Insert(ctx, e1))
	require.NoError(t, s.Insert(ctx, e2))
	require.NoError(t, s.Insert(ctx, e3))

	n, err := s.DeleteByTaskID(ctx, "s", "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	remaining, err := s.CandidatesForSession(ctx, "s", 100)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
}

func TestDeleteSession_RemovesAllAndOnlyThatSession(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, entry("a", "1", memorystore.MemoryEpisodic, "x")))
	require.NoError(t, s.Insert(ctx, entry("a", "2", memorystore.MemorySemantic, "y")))
	require.NoError(t, s.Insert(ctx, entry("b", "3", memorystore.MemoryEpisodic, "z")))

	n, err := s.DeleteSession(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	remainingA, err := s.CandidatesForSession(ctx, "a", 100)
	require.NoError(t, err)
	assert.Empty(t, remainingA)

	remainingB, err := s.CandidatesForSession(ctx, "b", 100)
	require.NoError(t, err)
	assert.Len(t, remainingB, 1)
}

func TestTouchAccessed_UpdatesOnlyNamedIDs(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, entry("s", "1", memorystore.MemoryEpisodic, "x")))
	require.NoError(t, s.Insert(ctx, entry("s", "2", memorystore.MemoryEpisodic, "y")))

	require.NoError(t, s.TouchAccessed(ctx, "s", []string{"1"}))

	got, err := s.CandidatesForSession(ctx, "s", 100)
	require.NoError(t, err)
	for _, e := range got {
		if e.ID == "1" {
			assert.False(t, e.AccessedAt.IsZero())
		} else {
			assert.True(t, e.AccessedAt.IsZero())
		}
	}
}
