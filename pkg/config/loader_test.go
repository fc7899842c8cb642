package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cogeval.yaml"), []byte(content), 0o644))
}

func TestInitialize_MissingFileReturnsConfigNotFound(t *testing.T) {
	_, err := Initialize(context.Background(), t.TempDir())
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestInitialize_InvalidYAMLReturnsInvalidYAMLError(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "grader: [this is not a mapping")

	_, err := Initialize(context.Background(), dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

func TestInitialize_MinimalFileFallsBackToDefaultsAndValidates(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "harness:\n  agent_command: [\"./agent\"]\n")

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultGraderConfig().Model, cfg.Grader.Model)
	assert.Equal(t, DefaultDialogueConfig().NumTurns, cfg.Dialogue.NumTurns)
	assert.Equal(t, DefaultSelfImproveConfig().MaxIterations, cfg.SelfImprove.MaxIterations)
	assert.Equal(t, []string{"./agent"}, cfg.Harness.AgentCommand)
	assert.Equal(t, dir, cfg.ConfigDir())
}

func TestInitialize_UserValuesOverrideDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
grader:
  model: gpt-4o
harness:
  agent_command: ["./agent"]
  output_dir: /tmp/cogeval-out
dialogue:
  num_turns: 120
self_improve:
  max_iterations: 7
`)

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.Grader.Model)
	assert.Equal(t, "/tmp/cogeval-out", cfg.Harness.OutputDir)
	assert.Equal(t, 120, cfg.Dialogue.NumTurns)
	assert.Equal(t, 7, cfg.SelfImprove.MaxIterations)
}

func TestInitialize_MissingRequiredAgentCommandFailsValidation(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "grader:\n  model: gpt-4o\n")

	_, err := Initialize(context.Background(), dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestInitialize_ExpandsEnvironmentVariablesBeforeParsing(t *testing.T) {
	t.Setenv("COGEVAL_TEST_GRADER_MODEL", "env-model")
	dir := t.TempDir()
	writeConfigFile(t, dir, "grader:\n  model: ${COGEVAL_TEST_GRADER_MODEL}\nharness:\n  agent_command: [\"./agent\"]\n")

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "env-model", cfg.Grader.Model)
}

func TestInitialize_MemoryDisabledByDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "harness:\n  agent_command: [\"./agent\"]\n")

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, cfg.Memory.Enabled())
}
