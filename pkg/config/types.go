package config

import (
	"time"

	"github.com/open-cogeval/cogeval/pkg/memorystore/pgstore"
)

// GraderConfig configures the LLM-as-judge scorer shared by the
// progressive harness and the long-horizon evaluator.
type GraderConfig struct {
	Model       string  `yaml:"model" validate:"required"`
	Temperature float64 `yaml:"temperature,omitempty" validate:"omitempty,min=0,max=2"`
}

// HarnessConfig configures a progressive-evaluation run.
type HarnessConfig struct {
	Levels       []string `yaml:"levels,omitempty"`
	OutputDir    string   `yaml:"output_dir" validate:"required"`
	AgentCommand []string `yaml:"agent_command" validate:"required,min=1"`
}

// DialogueConfig configures the long-horizon dialogue/quiz generator.
type DialogueConfig struct {
	Seed         int64 `yaml:"seed"`
	NumTurns     int   `yaml:"num_turns,omitempty" validate:"omitempty,min=1"`
	NumQuestions int   `yaml:"num_questions,omitempty" validate:"omitempty,min=1"`
}

// SelfImproveConfig configures the self-improvement runner's loop
// bounds and regression gating.
type SelfImproveConfig struct {
	MaxIterations           int     `yaml:"max_iterations,omitempty" validate:"omitempty,min=1"`
	AnalysisThreshold       float64 `yaml:"analysis_threshold,omitempty" validate:"omitempty,min=0,max=1"`
	RegressionTolerancePct  float64 `yaml:"regression_tolerance_pct,omitempty" validate:"omitempty,min=0,max=100"`
	ImprovementThresholdPct float64 `yaml:"improvement_threshold_pct,omitempty" validate:"omitempty,min=0,max=100"`
}

// MemoryConfig holds the connection and pool settings for the pgstore
// memory backend. When Host or Database is empty, Enabled reports false
// and no pgstore connection is opened.
type MemoryConfig struct {
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`
	SSLMode  string `yaml:"ssl_mode,omitempty"`

	MaxOpenConns    int           `yaml:"max_open_conns,omitempty" validate:"omitempty,min=1"`
	MaxIdleConns    int           `yaml:"max_idle_conns,omitempty" validate:"omitempty,min=1"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime,omitempty"`
}

// RetentionConfig configures the retention service's run-output sweep.
type RetentionConfig struct {
	RunRetention time.Duration `yaml:"run_retention,omitempty"`
	Interval     time.Duration `yaml:"interval,omitempty"`
}

// RunMode selects which top-level operation cmd/cogeval-run performs.
// CLI argument parsing is out of scope; the run mode is config-driven.
type RunMode string

const (
	RunModeHarness     RunMode = "harness"
	RunModeSelfImprove RunMode = "self_improve"
	RunModeMatrix      RunMode = "matrix"
)

// RunConfig selects the operation cmd/cogeval-run performs and names
// the agent under evaluation.
type RunConfig struct {
	Mode           RunMode `yaml:"mode,omitempty" validate:"omitempty,oneof=harness self_improve matrix"`
	AgentName      string  `yaml:"agent_name,omitempty" validate:"required"`
	IntrospectAddr string  `yaml:"introspect_addr,omitempty"`
}

// Enabled reports whether enough connection detail was supplied to use
// the Postgres-backed store.
func (m MemoryConfig) Enabled() bool {
	return m.Host != "" && m.Database != ""
}

// ToPgstoreConfig converts the YAML-level settings into pgstore's own
// connection config.
func (m MemoryConfig) ToPgstoreConfig() pgstore.Config {
	return pgstore.Config{
		Host:            m.Host,
		Port:            m.Port,
		User:            m.User,
		Password:        m.Password,
		Database:        m.Database,
		SSLMode:         m.SSLMode,
		MaxOpenConns:    m.MaxOpenConns,
		MaxIdleConns:    m.MaxIdleConns,
		ConnMaxLifetime: m.ConnMaxLifetime,
	}
}
