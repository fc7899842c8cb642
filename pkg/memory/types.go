// Package memory implements the five-type memory coordinator: the
// quality-gated write path, the ranked token-budget-bounded read path,
// and the session-isolation guarantees that sit on top of a
// memorystore.Store backend.
package memory

import (
	"time"

	"github.com/open-cogeval/cogeval/pkg/memorystore"
)

// DefaultTokenBudget is the conventional retrieval token budget. It is
// not substituted for a zero TokenBudget: a query with a zero or
// negative budget returns no entries.
const DefaultTokenBudget = 8000

// StorageRequest describes one candidate write to the coordinator.
type StorageRequest struct {
	SessionID string
	AgentID   string
	Type      memorystore.MemoryType
	Title     string
	Content   string
	Metadata  map[string]string

	// Timestamp overrides the recorded creation time; zero means now.
	Timestamp time.Time
}

// TimeRange is a half-open [Start, End) filter on entry creation time.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// contains reports whether t falls in [Start, End).
func (r TimeRange) contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && !t.Before(r.End) {
		return false
	}
	return true
}

// RetrievalQuery describes one read against the coordinator.
type RetrievalQuery struct {
	SessionID   string
	QueryText   string
	TokenBudget int
	MemoryType  *memorystore.MemoryType
	TimeRange   *TimeRange
}

func (q RetrievalQuery) tokenBudget() int {
	return q.TokenBudget
}

// StoreOutcome is the result of a store() call: either an accepted
// entry id, or a rejection reason.
type StoreOutcome struct {
	Accepted bool
	EntryID  string
	Reason   RejectReason
}

// RejectReason is a closed set of reasons store() can reject content.
type RejectReason string

const (
	RejectNone          RejectReason = ""
	RejectTrivialContent RejectReason = "trivial_content"
	RejectDuplicate      RejectReason = "duplicate"
	RejectLowQuality     RejectReason = "low_quality"
)
