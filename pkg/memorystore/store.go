package memorystore

import "context"

// Store is the session-scoped persistence contract shared by both
// backends (memstore, pgstore). Every method takes a session id and
// MUST NOT return or mutate entries belonging to a different session —
// the coordinator depends on this for its integrity guarantee.
type Store interface {
	// Insert persists a new entry. entry.ID is assigned by the caller
	// (the coordinator) before Insert is called.
	Insert(ctx context.Context, entry MemoryEntry) error

	// FindByFingerprint looks for an existing entry in sessionID whose
	// composite fingerprint matches fp. Returns (entry, true, nil) on a
	// match, (zero, false, nil) on no match.
	FindByFingerprint(ctx context.Context, sessionID string, fp Fingerprint) (MemoryEntry, bool, error)

	// CandidatesForSession returns up to limit entries belonging to
	// sessionID, most recently created first. The coordinator applies
	// type/time filtering and ranking on the returned slice.
	CandidatesForSession(ctx context.Context, sessionID string, limit int) ([]MemoryEntry, error)

	// TouchAccessed updates AccessedAt to now for the given entry ids
	// within sessionID. Ids outside sessionID are silently ignored.
	TouchAccessed(ctx context.Context, sessionID string, ids []string) error

	// DeleteByType deletes every entry in sessionID tagged memType and
	// returns the count deleted.
	DeleteByType(ctx context.Context, sessionID string, memType MemoryType) (int, error)

	// DeleteByTaskID deletes working-type entries in sessionID whose
	// Metadata["task_id"] equals taskID, and returns the count deleted.
	DeleteByTaskID(ctx context.Context, sessionID, taskID string) (int, error)

	// DeleteSession deletes every entry in sessionID and returns the
	// count deleted. Callers performing clear_all MUST verify, by an
	// independent re-fetch, that the session's entries all carry sessionID
	// before trusting this as an integrity guarantee; the store itself
	// only ever operates within the sessionID it was given.
	DeleteSession(ctx context.Context, sessionID string) (int, error)
}
