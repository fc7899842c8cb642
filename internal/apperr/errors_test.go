package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationError_Is(t *testing.T) {
	err := NewConfigurationError("grader", "missing ANTHROPIC_API_KEY")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Contains(t, err.Error(), "grader")
	assert.Contains(t, err.Error(), "missing ANTHROPIC_API_KEY")
}

func TestParseError_TruncatesRaw(t *testing.T) {
	raw := make([]byte, 1000)
	for i := range raw {
		raw[i] = 'x'
	}
	err := NewParseError("grader response", string(raw), "no JSON object found")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Less(t, len(pe.Raw), 1000)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestPhaseError_CarriesExitCodeAndStderr(t *testing.T) {
	err := NewPhaseError("learning", 1, "panic: nil pointer")
	var pe *PhaseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.ExitCode)
	assert.Contains(t, err.Error(), "panic: nil pointer")
	assert.True(t, errors.Is(err, ErrAgentPhase))
}

func TestIntegrityError_NeverRecoverable(t *testing.T) {
	err := NewIntegrityError("clear_all", "session-a", "session-b")
	assert.True(t, errors.Is(err, ErrIntegrity))
	assert.False(t, IsRecoverable(err))
}

func TestGradingError_WrapsCause(t *testing.T) {
	cause := errors.New("upstream 503")
	err := NewGradingError(cause)
	assert.True(t, errors.Is(err, ErrGrading))
	assert.Contains(t, err.Error(), "upstream 503")
}

func TestIsRecoverable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"configuration", NewConfigurationError("x", "y"), false},
		{"integrity", NewIntegrityError("x", "a", "b"), false},
		{"parse", NewParseError("x", "y", "z"), true},
		{"phase", NewPhaseError("testing", 1, "boom"), true},
		{"grading", NewGradingError(errors.New("boom")), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRecoverable(tt.err))
		})
	}
}
