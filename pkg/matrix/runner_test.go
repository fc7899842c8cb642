package matrix

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/open-cogeval/cogeval/pkg/grader"
	"github.com/open-cogeval/cogeval/pkg/longhorizon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAgent struct {
	answer      string
	storagePath string
}

func (a *fakeAgent) Learn(ctx context.Context, content string) error { return nil }
func (a *fakeAgent) Answer(ctx context.Context, question string) (string, string, error) {
	return a.answer, "", nil
}
func (a *fakeAgent) MemoryStats(ctx context.Context) (map[string]any, error) { return nil, nil }
func (a *fakeAgent) Close() error                                           { return nil }

type scriptedGraderClient struct{ score float64 }

func (c *scriptedGraderClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return fmt.Sprintf(`{"scores": {"factual_accuracy": {"score": %.2f, "reasoning": "ok"}, "specificity": {"score": %.2f, "reasoning": "ok"}}}`, c.score, c.score), nil
}

func TestRun_SharesDialogueAndQuestionsAcrossAgents(t *testing.T) {
	var capturedPaths []string
	ev := longhorizon.New(grader.New(&scriptedGraderClient{score: 0.9}, "test-model"))
	r := New(ev, t.TempDir(), 20, 7, 3)

	configs := []AgentConfig{
		{Name: "agent-a", New: func(path string) (longhorizon.Agent, error) {
			capturedPaths = append(capturedPaths, path)
			return &fakeAgent{answer: "ok", storagePath: path}, nil
		}},
		{Name: "agent-b", New: func(path string) (longhorizon.Agent, error) {
			capturedPaths = append(capturedPaths, path)
			return &fakeAgent{answer: "ok", storagePath: path}, nil
		}},
	}

	report, err := r.Run(context.Background(), configs)
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 2)
	assert.NotEqual(t, capturedPaths[0], capturedPaths[1])
	assert.Equal(t, report.Outcomes[0].Report.Seed, report.Outcomes[1].Report.Seed)
	assert.Equal(t, report.Outcomes[0].Report.TotalTurns, report.Outcomes[1].Report.TotalTurns)
}

func TestRun_InstantiationFailureMarksAgentSkippedAndContinues(t *testing.T) {
	ev := longhorizon.New(grader.New(&scriptedGraderClient{score: 1.0}, "test-model"))
	r := New(ev, t.TempDir(), 16, 2, 2)

	configs := []AgentConfig{
		{Name: "broken", New: func(path string) (longhorizon.Agent, error) {
			return nil, errors.New("missing credentials")
		}},
		{Name: "healthy", New: func(path string) (longhorizon.Agent, error) {
			return &fakeAgent{answer: "ok"}, nil
		}},
	}

	report, err := r.Run(context.Background(), configs)
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 2)
	assert.True(t, report.Outcomes[0].Skipped)
	assert.Contains(t, report.Outcomes[0].SkipReason, "missing credentials")
	assert.False(t, report.Outcomes[1].Skipped)
	assert.Equal(t, []string{"healthy"}, report.Ranking)
}

func TestRun_RankingOrdersByOverallScoreDescending(t *testing.T) {
	ev1 := longhorizon.New(grader.New(&scriptedGraderClient{score: 0.3}, "test-model"))
	ev2 := longhorizon.New(grader.New(&scriptedGraderClient{score: 0.9}, "test-model"))

	// Build two separate single-agent runs since each evaluator fixes one
	// score, then combine their outcomes to test the pure ranking logic.
	r1 := New(ev1, t.TempDir(), 16, 2, 2)
	low, err := r1.Run(context.Background(), []AgentConfig{{Name: "low", New: func(string) (longhorizon.Agent, error) { return &fakeAgent{answer: "ok"}, nil }}})
	require.NoError(t, err)

	r2 := New(ev2, t.TempDir(), 16, 2, 2)
	high, err := r2.Run(context.Background(), []AgentConfig{{Name: "high", New: func(string) (longhorizon.Agent, error) { return &fakeAgent{answer: "ok"}, nil }}})
	require.NoError(t, err)

	combined := append(low.Outcomes, high.Outcomes...)
	ranking := rankOutcomes(combined)
	assert.Equal(t, []string{"high", "low"}, ranking)
}

func TestRun_BestPerformerByCategoryPicksHighestMean(t *testing.T) {
	ev := longhorizon.New(grader.New(&scriptedGraderClient{score: 0.5}, "test-model"))
	r := New(ev, t.TempDir(), 16, 2, 2)

	report, err := r.Run(context.Background(), []AgentConfig{
		{Name: "solo", New: func(string) (longhorizon.Agent, error) { return &fakeAgent{answer: "ok"}, nil }},
	})
	require.NoError(t, err)
	for category, name := range report.BestPerformerByCategory {
		assert.Equal(t, "solo", name, "category %s", category)
	}
}

func TestWriteReport_WritesMatrixReportJSON(t *testing.T) {
	dir := t.TempDir()
	err := WriteReport(dir, &Report{})
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "matrix_report.json"))
	require.NoError(t, statErr)
}
