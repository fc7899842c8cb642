// Package memstore is the default in-process memorystore.Store backend:
// a mutex-guarded, session-partitioned map. It never touches the
// network and is the backend used by the memory coordinator's and
// evaluation framework's tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/open-cogeval/cogeval/pkg/memorystore"
)

// Store is a memorystore.Store backed by an in-memory map, partitioned
// by session id. A single mutex guards the whole map; sessions never
// see each other's entries because every method is parameterized by
// sessionID and only ever touches that partition.
type Store struct {
	mu       sync.Mutex
	sessions map[string][]memorystore.MemoryEntry
}

// New returns an empty Store.
func New() *Store {
	return &Store{sessions: make(map[string][]memorystore.MemoryEntry)}
}

func (s *Store) Insert(_ context.Context, entry memorystore.MemoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[entry.SessionID] = append(s.sessions[entry.SessionID], entry)
	return nil
}

func (s *Store) FindByFingerprint(_ context.Context, sessionID string, fp memorystore.Fingerprint) (memorystore.MemoryEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.sessions[sessionID] {
		if memorystore.NewFingerprint(e.Content).Equal(fp) {
			return e, true, nil
		}
	}
	return memorystore.MemoryEntry{}, false, nil
}

func (s *Store) CandidatesForSession(_ context.Context, sessionID string, limit int) ([]memorystore.MemoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := append([]memorystore.MemoryEntry(nil), s.sessions[sessionID]...)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *Store) TouchAccessed(_ context.Context, sessionID string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	now := time.Now()
	entries := s.sessions[sessionID]
	for i := range entries {
		if want[entries[i].ID] {
			entries[i].AccessedAt = now
		}
	}
	return nil
}

func (s *Store) DeleteByType(_ context.Context, sessionID string, memType memorystore.MemoryType) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.sessions[sessionID][:0:0]
	deleted := 0
	for _, e := range s.sessions[sessionID] {
		if e.Type == memType {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.sessions[sessionID] = kept
	return deleted, nil
}

func (s *Store) DeleteByTaskID(_ context.Context, sessionID, taskID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.sessions[sessionID][:0:0]
	deleted := 0
	for _, e := range s.sessions[sessionID] {
		if e.Type == memorystore.MemoryWorking && e.Metadata["task_id"] == taskID {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.sessions[sessionID] = kept
	return deleted, nil
}

func (s *Store) DeleteSession(_ context.Context, sessionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := len(s.sessions[sessionID])
	delete(s.sessions, sessionID)
	return deleted, nil
}
