package longhorizon

import (
	"testing"

	"github.com/open-cogeval/cogeval/pkg/dialogue"
	"github.com/stretchr/testify/assert"
)

func TestNewGroundTruthSummary_MatchesGeneratedResult(t *testing.T) {
	result := dialogue.Generate(48, 21)
	summary := NewGroundTruthSummary(result)

	assert.Equal(t, result.GroundTruth.TotalFacts, summary.TotalFacts)
	assert.Equal(t, len(result.Turns), summary.TotalTurns)
	assert.Equal(t, result.GroundTruth.CurrentValues, summary.CurrentValues)
	assert.Equal(t, result.GroundTruth.BlockDistribution, summary.BlockDistribution)

	for key, values := range result.GroundTruth.SupersededValues {
		assert.Equal(t, len(values), summary.SupersededCounts[key])
	}
}
