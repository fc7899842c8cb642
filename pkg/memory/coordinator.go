package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/open-cogeval/cogeval/internal/apperr"
	"github.com/open-cogeval/cogeval/pkg/memorystore"
)

// candidatePoolSize bounds how many of a session's most recent entries
// retrieve() considers before ranking and token-budget selection.
const candidatePoolSize = 100

// StorageTimeout is the wall-clock budget a single store() call may
// spend in quality review before it must fall back to the heuristic
// score.
const StorageTimeout = 500 * time.Millisecond

// Coordinator is the five-type memory coordinator. It owns no state of
// its own beyond its backend and reviewer set; all entries live in the
// configured Store.
type Coordinator struct {
	store     memorystore.Store
	reviewers []Reviewer
	clock     func() time.Time
	newID     func() string
}

// Option configures a Coordinator at construction time.
type Option func(*Coordinator)

// WithClock overrides the coordinator's time source, for deterministic
// tests of recency scoring and timestamp overrides.
func WithClock(clock func() time.Time) Option {
	return func(c *Coordinator) { c.clock = clock }
}

// WithIDGenerator overrides entry id generation, for deterministic
// tests.
func WithIDGenerator(gen func() string) Option {
	return func(c *Coordinator) { c.newID = gen }
}

// New builds a Coordinator over store, using up to three reviewers for
// quality review (spec: "up to three independent reviewer calls").
func New(store memorystore.Store, reviewers []Reviewer, opts ...Option) *Coordinator {
	if len(reviewers) > 3 {
		reviewers = reviewers[:3]
	}
	c := &Coordinator{
		store:     store,
		reviewers: reviewers,
		clock:     time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store runs the trivial-content, duplicate, and quality-review filters
// in order and persists the entry if all three pass.
func (c *Coordinator) Store(ctx context.Context, req StorageRequest) (StoreOutcome, error) {
	if isTrivialContent(req.Content) {
		return StoreOutcome{Reason: RejectTrivialContent}, nil
	}

	fp := memorystore.NewFingerprint(req.Content)
	existing, found, err := c.store.FindByFingerprint(ctx, req.SessionID, fp)
	if err != nil {
		return StoreOutcome{}, err
	}
	if found && existing.Content == req.Content {
		return StoreOutcome{Reason: RejectDuplicate}, nil
	}

	importance, accepted := c.qualityReview(ctx, req.Content, req.Type)
	if !accepted {
		return StoreOutcome{Reason: RejectLowQuality}, nil
	}

	createdAt := req.Timestamp
	if createdAt.IsZero() {
		createdAt = c.clock()
	}

	entry := memorystore.MemoryEntry{
		ID:         c.newID(),
		SessionID:  req.SessionID,
		AgentID:    req.AgentID,
		Type:       req.Type,
		Title:      req.Title,
		Content:    req.Content,
		Metadata:   req.Metadata,
		CreatedAt:  createdAt,
		Importance: importance,
	}
	if err := c.store.Insert(ctx, entry); err != nil {
		return StoreOutcome{}, err
	}
	return StoreOutcome{Accepted: true, EntryID: entry.ID}, nil
}

// qualityReview runs up to three reviewer calls concurrently within
// StorageTimeout, accepting when at least two returned a usable score
// and the median is >= 5. Reviewer unavailability (timeout, error, or
// no reviewers configured) is non-fatal and falls back to the
// heuristic score, which is always accepted.
func (c *Coordinator) qualityReview(ctx context.Context, content string, memType memorystore.MemoryType) (importance float64, accepted bool) {
	if len(c.reviewers) == 0 {
		return heuristicImportance(content, memType), true
	}

	reviewCtx, cancel := context.WithTimeout(ctx, StorageTimeout)
	defer cancel()

	outcomes := runReviewers(reviewCtx, c.reviewers, content, memType)
	median, quorum := medianUsableScore(outcomes)
	if !quorum {
		return heuristicImportance(content, memType), true
	}
	if median < 5 {
		return 0, false
	}
	return median, true
}

// Retrieve fetches up to candidatePoolSize entries for query.SessionID,
// applies the memory-type and time-range filters, ranks the survivors,
// and greedily selects in score order while the cumulative token
// estimate stays within budget. A zero or negative token budget returns
// [] without touching the store.
func (c *Coordinator) Retrieve(ctx context.Context, query RetrievalQuery) ([]memorystore.MemoryEntry, error) {
	budget := query.tokenBudget()
	if budget <= 0 {
		return []memorystore.MemoryEntry{}, nil
	}

	candidates, err := c.store.CandidatesForSession(ctx, query.SessionID, candidatePoolSize)
	if err != nil {
		return nil, err
	}

	now := c.clock()
	type scored struct {
		entry memorystore.MemoryEntry
		score float64
	}
	var filtered []scored
	for _, e := range candidates {
		if query.MemoryType != nil && e.Type != *query.MemoryType {
			continue
		}
		if query.TimeRange != nil && !query.TimeRange.contains(e.CreatedAt) {
			continue
		}
		filtered = append(filtered, scored{entry: e, score: scoreEntry(e, query.QueryText, now)})
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].score > filtered[j].score
	})

	var result []memorystore.MemoryEntry
	var tokens int
	var touchIDs []string
	for _, s := range filtered {
		cost := estimateTokens(s.entry.Content)
		if tokens+cost > budget {
			continue
		}
		tokens += cost
		result = append(result, s.entry)
		touchIDs = append(touchIDs, s.entry.ID)
	}

	if len(touchIDs) > 0 {
		if err := c.store.TouchAccessed(ctx, query.SessionID, touchIDs); err != nil {
			return nil, err
		}
	}

	if result == nil {
		result = []memorystore.MemoryEntry{}
	}
	return result, nil
}

// ClearWorkingMemory deletes every working-type entry in sessionID.
func (c *Coordinator) ClearWorkingMemory(ctx context.Context, sessionID string) (int, error) {
	return c.store.DeleteByType(ctx, sessionID, memorystore.MemoryWorking)
}

// ClearAll deletes every entry in sessionID. sessionID is mandatory; the
// implementation re-fetches the session's candidates and verifies every
// one actually belongs to sessionID before deleting — a mismatch is a
// critical integrity violation that aborts the operation.
func (c *Coordinator) ClearAll(ctx context.Context, sessionID string) (int, error) {
	if sessionID == "" {
		return 0, apperr.NewIntegrityError("clear_all", sessionID, "")
	}

	candidates, err := c.store.CandidatesForSession(ctx, sessionID, 0)
	if err != nil {
		return 0, err
	}
	for _, e := range candidates {
		if e.SessionID != sessionID {
			return 0, apperr.NewIntegrityError("clear_all", sessionID, e.SessionID)
		}
	}

	return c.store.DeleteSession(ctx, sessionID)
}

// MarkTaskComplete deletes working-type entries in sessionID whose
// metadata task_id matches taskID.
func (c *Coordinator) MarkTaskComplete(ctx context.Context, sessionID, taskID string) (int, error) {
	return c.store.DeleteByTaskID(ctx, sessionID, taskID)
}
