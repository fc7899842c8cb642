// Package memorystore defines the storage contract for the five-type
// memory coordinator and its two backends (memstore, pgstore). The
// coordinator in pkg/memory owns all ranking, filtering, and session
// enforcement logic; a Store is a dumb, session-scoped record keeper.
package memorystore

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// MemoryType is one of the five closed memory kinds. Working-type
// entries are cleared on task completion or session clear; semantic and
// procedural entries persist until explicit deletion.
type MemoryType string

const (
	MemoryEpisodic    MemoryType = "episodic"
	MemorySemantic    MemoryType = "semantic"
	MemoryProspective MemoryType = "prospective"
	MemoryProcedural  MemoryType = "procedural"
	MemoryWorking     MemoryType = "working"
)

// Valid reports whether t is one of the five declared memory types.
func (t MemoryType) Valid() bool {
	switch t {
	case MemoryEpisodic, MemorySemantic, MemoryProspective, MemoryProcedural, MemoryWorking:
		return true
	default:
		return false
	}
}

// MemoryEntry is the shared record shape for all five memory types; the
// type tag alone distinguishes behavior, never a separate struct per
// type.
type MemoryEntry struct {
	ID         string
	SessionID  string
	AgentID    string
	Type       MemoryType
	Title      string
	Content    string
	Metadata   map[string]string
	CreatedAt  time.Time
	AccessedAt time.Time
	Importance float64
}

// Fingerprint is the composite duplicate-detection key: sha256 plus
// length plus the first and last 100 characters of content, scoped to a
// session. All four components must match, and the compared content
// must match byte-for-byte, before an entry is considered a duplicate —
// this guards against hash-collision false positives.
type Fingerprint struct {
	SHA256 string
	Length int
	Prefix string
	Suffix string
}

// NewFingerprint computes the composite fingerprint of content.
func NewFingerprint(content string) Fingerprint {
	sum := sha256.Sum256([]byte(content))
	return Fingerprint{
		SHA256: hex.EncodeToString(sum[:]),
		Length: len(content),
		Prefix: firstN(content, 100),
		Suffix: lastN(content, 100),
	}
}

// Equal reports whether two fingerprints describe identical content.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.SHA256 == other.SHA256 &&
		f.Length == other.Length &&
		f.Prefix == other.Prefix &&
		f.Suffix == other.Suffix
}

func firstN(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func lastN(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
