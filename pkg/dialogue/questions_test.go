package dialogue

import (
	"testing"

	"github.com/open-cogeval/cogeval/pkg/grader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateQuestions_DeterministicForSameResult(t *testing.T) {
	result := Generate(80, 42)
	a := GenerateQuestions(result, 20)
	b := GenerateQuestions(result, 20)
	assert.Equal(t, a, b)
}

func TestGenerateQuestions_RespectsK(t *testing.T) {
	result := Generate(80, 42)
	all := GenerateQuestions(result, 0)
	require.NotEmpty(t, all)

	limited := GenerateQuestions(result, 3)
	assert.Len(t, limited, 3)
	assert.Equal(t, all[:3], limited)
}

func TestGenerateQuestions_EveryQuestionHasValidCategoryAndDimensions(t *testing.T) {
	result := Generate(200, 13)
	questions := GenerateQuestions(result, 0)
	require.NotEmpty(t, questions)

	for _, q := range questions {
		assert.True(t, q.Category.Valid(), "category %q must be one of the seven declared categories", q.Category)
		assert.NotEmpty(t, q.Dimensions)
		assert.NotEmpty(t, q.EvidenceTurns)
		assert.NotEmpty(t, q.ID)
		for _, turnIdx := range q.EvidenceTurns {
			assert.GreaterOrEqual(t, turnIdx, 0)
			assert.Less(t, turnIdx, len(result.Turns))
		}
	}
}

func TestGenerateQuestions_NeedleInHaystackRequiresFactualAccuracyAndSpecificity(t *testing.T) {
	result := Generate(200, 13)
	for _, q := range GenerateQuestions(result, 0) {
		if q.Category != CategoryNeedleInHaystack {
			continue
		}
		assert.Contains(t, q.Dimensions, grader.DimensionFactualAccuracy)
		assert.Contains(t, q.Dimensions, grader.DimensionSpecificity)
	}
}

func TestGenerateQuestions_TemporalEvolutionAddsTemporalAwareness(t *testing.T) {
	result := Generate(200, 13)
	found := false
	for _, q := range GenerateQuestions(result, 0) {
		if q.Category != CategoryTemporalEvolution {
			continue
		}
		found = true
		assert.Contains(t, q.Dimensions, grader.DimensionTemporalAwareness)
		assert.Contains(t, q.Dimensions, grader.DimensionFactualAccuracy)
		assert.Contains(t, q.Dimensions, grader.DimensionSpecificity)
	}
	assert.True(t, found, "expected at least one temporal_evolution question across 200 turns")
}

func TestGenerateQuestions_SourceAttributionAddsSourceAttributionDimension(t *testing.T) {
	result := Generate(200, 13)
	found := false
	for _, q := range GenerateQuestions(result, 0) {
		if q.Category != CategorySourceAttribution {
			continue
		}
		found = true
		assert.Contains(t, q.Dimensions, grader.DimensionSourceAttribution)
	}
	assert.True(t, found, "expected at least one source_attribution question across 200 turns")
}

func TestGenerateQuestions_NeedleQuestionExpectedAnswerMatchesCurrentValue(t *testing.T) {
	result := Generate(200, 13)
	for _, q := range GenerateQuestions(result, 0) {
		if q.Category != CategoryNeedleInHaystack {
			continue
		}
		turn := result.Turns[q.EvidenceTurns[0]]
		require.NotEmpty(t, turn.Facts)
		f := turn.Facts[0]
		want := result.GroundTruth.CurrentValues[factKey(f.Entity, f.Attribute)]
		assert.Equal(t, want, q.ExpectedAnswer)
	}
}

func TestGenerateQuestions_IDsAreSequentialAndUnique(t *testing.T) {
	result := Generate(120, 21)
	questions := GenerateQuestions(result, 0)
	seen := map[string]bool{}
	for _, q := range questions {
		assert.False(t, seen[q.ID], "duplicate question ID %s", q.ID)
		seen[q.ID] = true
	}
}
