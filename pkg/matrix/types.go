// Package matrix runs one shared long-horizon dialogue and question set
// against multiple agent configurations and emits a ranked comparison
// report (spec.md §4.8).
package matrix

import (
	"time"

	"github.com/open-cogeval/cogeval/pkg/longhorizon"
)

// AgentConfig is one subject in the matrix run. New constructs a fresh
// longhorizon.Agent rooted at an isolated storagePath; instantiation
// failure marks the agent skipped rather than aborting the run.
type AgentConfig struct {
	Name string
	New  func(storagePath string) (longhorizon.Agent, error)
}

// AgentOutcome is one configuration's result in the matrix.
type AgentOutcome struct {
	Name       string              `json:"name"`
	Skipped    bool                `json:"skipped"`
	SkipReason string              `json:"skip_reason,omitempty"`
	Report     *longhorizon.Report `json:"report,omitempty"`
}

// Report is the full matrix comparison output.
type Report struct {
	GeneratedAt             time.Time          `json:"generated_at"`
	Seed                    int64              `json:"seed"`
	TotalTurns              int                `json:"total_turns"`
	Outcomes                []AgentOutcome     `json:"outcomes"`
	Ranking                 []string           `json:"ranking"` // agent names, best first
	BestPerformerByCategory map[string]string  `json:"best_performer_by_category"`
}
