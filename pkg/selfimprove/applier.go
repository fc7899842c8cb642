package selfimprove

import "context"

// PatchApplier is the IMPROVE step's extension point. The default
// DescriptorOnlyApplier never mutates code, matching spec.md §4.10
// step 4's "the runner does NOT modify code in the default path";
// a production variant can supply its own PatchApplier to actually
// edit prompt templates or source files.
type PatchApplier interface {
	Apply(ctx context.Context, decision ResearchDecision) (PatchDescriptor, error)
}

// DescriptorOnlyApplier records what it would have done without
// touching any file. This is the default applier; every descriptor it
// returns has DryRun set.
type DescriptorOnlyApplier struct{}

func (DescriptorOnlyApplier) Apply(ctx context.Context, decision ResearchDecision) (PatchDescriptor, error) {
	return PatchDescriptor{
		FailureMode:      decision.Analysis.Mode,
		PromptTemplateID: decision.Analysis.Entry.PromptTemplateID,
		Level:            string(decision.Analysis.Question.Level),
		Description:      decision.Analysis.Entry.Description,
		DryRun:           true,
	}, nil
}
