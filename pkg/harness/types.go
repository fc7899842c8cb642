// Package harness implements the progressive evaluation harness: for
// each selected level, spawn a learning subprocess (twice for
// incremental levels, split by phase), spawn a testing subprocess, and
// grade every answer.
package harness

import (
	"time"

	"github.com/open-cogeval/cogeval/pkg/catalog"
)

// QuestionDetail is the per-question grade record persisted in a
// level's scores.json.
type QuestionDetail struct {
	Question       string               `json:"question"`
	ExpectedAnswer string               `json:"expected_answer"`
	ActualAnswer   string               `json:"actual_answer"`
	ReasoningType  catalog.ReasoningType `json:"reasoning_type"`
	Score          float64              `json:"score"`
	Reasoning      string               `json:"reasoning"`
}

// LevelResult is one level's outcome within a progressive run.
type LevelResult struct {
	LevelID      catalog.LevelID  `json:"level_id"`
	Success      bool             `json:"success"`
	Error        string           `json:"error,omitempty"`
	AverageScore float64          `json:"average_score"`
	Questions    []QuestionDetail `json:"questions,omitempty"`
}

// ProgressiveResult is the full summary.json payload.
type ProgressiveResult struct {
	GeneratedAt  time.Time     `json:"generated_at"`
	AgentName    string        `json:"agent_name"`
	OverallScore float64       `json:"overall_score"`
	PassRate     float64       `json:"pass_rate"`
	Levels       []LevelResult `json:"levels"`
}
