package taxonomy

import (
	"testing"

	"github.com/open-cogeval/cogeval/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_OnlyClassifiesQuestionsBelowThreshold(t *testing.T) {
	a := New(0.6)
	questions := []FailedQuestion{
		{QuestionID: "q1", Score: 0.9, Level: catalog.L1},
		{QuestionID: "q2", Score: 0.2, Level: catalog.L6},
		{QuestionID: "q3", Score: 0.6, Level: catalog.L1}, // exactly at threshold: passes
	}

	analyses := a.Analyze(questions)
	require.Len(t, analyses, 1)
	assert.Equal(t, "q2", analyses[0].Question.QuestionID)
	assert.Equal(t, FailureUpdateNotApplied, analyses[0].Mode)
}

func TestAnalyze_EmptyWhenNothingFails(t *testing.T) {
	a := New(0.6)
	analyses := a.Analyze([]FailedQuestion{{Score: 0.95}, {Score: 1.0}})
	assert.Empty(t, analyses)
}

func TestNew_NonPositiveThresholdFallsBackToDefault(t *testing.T) {
	a := New(0)
	assert.Equal(t, DefaultThreshold, a.Threshold)

	a2 := New(-1)
	assert.Equal(t, DefaultThreshold, a2.Threshold)
}

func TestAnalyze_EntryMatchesTaxonomyForClassifiedMode(t *testing.T) {
	a := New(0.6)
	analyses := a.Analyze([]FailedQuestion{{Score: 0.1, Level: catalog.L5}})
	require.Len(t, analyses, 1)
	assert.Equal(t, Taxonomy[analyses[0].Mode], analyses[0].Entry)
}
