package retention

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touchDir(t *testing.T, parent, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(parent, name)
	require.NoError(t, os.MkdirAll(path, 0o755))
	modTime := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

func TestPruneOldRuns_RemovesOnlyDirectoriesOlderThanRetention(t *testing.T) {
	dir := t.TempDir()
	oldRun := touchDir(t, dir, "run-old", 48*time.Hour)
	freshRun := touchDir(t, dir, "run-fresh", time.Minute)

	s := NewService(Config{OutputDir: dir, RunRetention: 24 * time.Hour, Interval: time.Hour})

	removed, err := s.pruneOldRuns()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(oldRun)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(freshRun)
	assert.NoError(t, err)
}

func TestPruneOldRuns_MissingOutputDirIsNotAnError(t *testing.T) {
	s := NewService(Config{OutputDir: filepath.Join(t.TempDir(), "does-not-exist"), RunRetention: time.Hour})
	removed, err := s.pruneOldRuns()
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestPruneOldRuns_IgnoresPlainFilesAtTopLevel(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "not-a-run-dir.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0o644))
	oldTime := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filePath, oldTime, oldTime))

	s := NewService(Config{OutputDir: dir, RunRetention: time.Hour})
	removed, err := s.pruneOldRuns()
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	_, err = os.Stat(filePath)
	assert.NoError(t, err)
}

func TestService_StartRunsAnImmediateSweepAndStopTerminatesTheLoop(t *testing.T) {
	dir := t.TempDir()
	touchDir(t, dir, "run-old", 48*time.Hour)

	s := NewService(Config{OutputDir: dir, RunRetention: 24 * time.Hour, Interval: time.Hour})
	s.Start(context.Background())

	require.Eventually(t, func() bool {
		entries, err := os.ReadDir(dir)
		return err == nil && len(entries) == 0
	}, time.Second, 10*time.Millisecond)

	s.Stop()
}

func TestService_StartIsIdempotent(t *testing.T) {
	s := NewService(Config{OutputDir: t.TempDir(), RunRetention: time.Hour, Interval: time.Hour})
	s.Start(context.Background())
	firstCancel := s.cancel
	s.Start(context.Background())
	assert.NotNil(t, firstCancel)
	s.Stop()
}
