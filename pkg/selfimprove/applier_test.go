package selfimprove

import (
	"context"
	"testing"

	"github.com/open-cogeval/cogeval/pkg/catalog"
	"github.com/open-cogeval/cogeval/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorOnlyApplier_RecordsDescriptorWithoutError(t *testing.T) {
	mode := taxonomy.FailureMode("retrieval_insufficient")
	decision := ResearchDecision{
		Analysis: taxonomy.Analysis{
			Question: taxonomy.FailedQuestion{Level: catalog.L4},
			Mode:     mode,
			Entry:    taxonomy.Taxonomy[mode],
		},
		Decision: DecisionApply,
	}

	patch, err := DescriptorOnlyApplier{}.Apply(context.Background(), decision)
	require.NoError(t, err)
	assert.Equal(t, mode, patch.FailureMode)
	assert.Equal(t, taxonomy.Taxonomy[mode].PromptTemplateID, patch.PromptTemplateID)
	assert.Equal(t, string(catalog.L4), patch.Level)
	assert.Equal(t, taxonomy.Taxonomy[mode].Description, patch.Description)
	assert.True(t, patch.DryRun)
}
