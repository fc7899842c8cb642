// Package apperr defines the shared error taxonomy used across the
// evaluation core: configuration errors, parse errors, subprocess phase
// failures, memory-coordinator integrity violations, grading errors, and
// recoverable per-item failures.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for coarse classification with errors.Is.
var (
	// ErrConfiguration marks a fatal configuration problem: missing
	// credentials, an unknown level id, a circular chain prerequisite, an
	// invalid bundle name. Aborts the run.
	ErrConfiguration = errors.New("configuration error")

	// ErrParse marks a response body that could not be parsed into the
	// expected structured shape (grader JSON, agent subprocess JSON).
	ErrParse = errors.New("parse error")

	// ErrAgentPhase marks a subprocess phase that exited non-zero.
	ErrAgentPhase = errors.New("agent phase failure")

	// ErrIntegrity marks a session-scoping or ownership check that failed
	// inside the memory coordinator. Never recovered locally.
	ErrIntegrity = errors.New("integrity violation")

	// ErrGrading marks a failure raised by the grader's underlying LLM
	// call. Propagated to the caller — never silently converted to a 0.0.
	ErrGrading = errors.New("grading error")
)

// ConfigurationError wraps ErrConfiguration with the offending field.
type ConfigurationError struct {
	Component string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// NewConfigurationError builds a *ConfigurationError.
func NewConfigurationError(component, reason string) error {
	return &ConfigurationError{Component: component, Reason: reason}
}

// ParseError wraps ErrParse with the raw text that failed to parse.
type ParseError struct {
	Source string // what we were trying to parse (e.g. "grader response", "subprocess stdout")
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Source, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// NewParseError builds a *ParseError. raw is truncated to keep error
// strings and logs bounded.
func NewParseError(source, raw, reason string) error {
	const maxRaw = 500
	if len(raw) > maxRaw {
		raw = raw[:maxRaw] + "...(truncated)"
	}
	return &ParseError{Source: source, Raw: raw, Reason: reason}
}

// PhaseError wraps ErrAgentPhase with the subprocess exit code and stderr.
type PhaseError struct {
	Phase    string // "learning" or "testing"
	ExitCode int
	Stderr   string
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("agent %s phase failed with exit code %d: %s", e.Phase, e.ExitCode, e.Stderr)
}

func (e *PhaseError) Unwrap() error { return ErrAgentPhase }

// NewPhaseError builds a *PhaseError.
func NewPhaseError(phase string, exitCode int, stderr string) error {
	return &PhaseError{Phase: phase, ExitCode: exitCode, Stderr: stderr}
}

// IntegrityError wraps ErrIntegrity with the session mismatch detail.
type IntegrityError struct {
	Operation      string
	WantSessionID  string
	FoundSessionID string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation during %s: expected session %q, found entry owned by session %q",
		e.Operation, e.WantSessionID, e.FoundSessionID)
}

func (e *IntegrityError) Unwrap() error { return ErrIntegrity }

// NewIntegrityError builds a *IntegrityError.
func NewIntegrityError(operation, wantSessionID, foundSessionID string) error {
	return &IntegrityError{Operation: operation, WantSessionID: wantSessionID, FoundSessionID: foundSessionID}
}

// GradingError wraps ErrGrading with the underlying transport/LLM error.
type GradingError struct {
	Cause error
}

func (e *GradingError) Error() string {
	return fmt.Sprintf("grading error: %v", e.Cause)
}

func (e *GradingError) Unwrap() error { return errors.Join(ErrGrading, e.Cause) }

// NewGradingError builds a *GradingError.
func NewGradingError(cause error) error {
	return &GradingError{Cause: cause}
}

// IsRecoverable reports whether err represents a per-item failure that
// should be logged and recorded (score 0.0, or a skipped turn) rather
// than aborting the enclosing run. Parse errors on a single grader
// response and per-turn learn failures are recoverable; configuration
// and integrity errors are not.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrConfiguration) && !errors.Is(err, ErrIntegrity)
}
