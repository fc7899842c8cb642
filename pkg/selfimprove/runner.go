package selfimprove

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/open-cogeval/cogeval/pkg/catalog"
	"github.com/open-cogeval/cogeval/pkg/grader"
	"github.com/open-cogeval/cogeval/pkg/harness"
	"github.com/open-cogeval/cogeval/pkg/taxonomy"
)

// DefaultRegressionTolerance and DefaultImprovementThreshold are
// percentage-point thresholds (spec.md §4.10 step 6's "default 5%" /
// "default 2%").
const (
	DefaultRegressionTolerance  = 5.0
	DefaultImprovementThreshold = 2.0
)

// Runner orchestrates the EVAL -> ANALYZE -> RESEARCH -> IMPROVE ->
// RE-EVAL -> DECIDE loop over a shared progressive-harness setup.
type Runner struct {
	Registry *catalog.Registry
	Grader   *grader.Grader
	Agent    harness.AgentRunner
	OutputDir string
	LevelIDs  []catalog.LevelID

	MaxIterations        int
	AnalysisThreshold    float64 // passed to taxonomy.New; <=0 uses its default
	RegressionTolerance  float64 // percentage points; <=0 uses DefaultRegressionTolerance
	ImprovementThreshold float64 // percentage points; <=0 uses DefaultImprovementThreshold
	Applier              PatchApplier

	clock func() time.Time
}

// New builds a Runner with the DescriptorOnlyApplier as its default
// patch applier and time.Now as its clock.
func New(registry *catalog.Registry, g *grader.Grader, agent harness.AgentRunner, outputDir string, levelIDs []catalog.LevelID, maxIterations int) *Runner {
	return &Runner{
		Registry:      registry,
		Grader:        g,
		Agent:         agent,
		OutputDir:     outputDir,
		LevelIDs:      levelIDs,
		MaxIterations: maxIterations,
		Applier:       DescriptorOnlyApplier{},
		clock:         time.Now,
	}
}

// Run executes the loop for up to MaxIterations iterations, stopping
// early when an iteration's ANALYZE step finds nothing or RESEARCH
// decides nothing should be applied.
func (r *Runner) Run(ctx context.Context) (*RunnerResult, error) {
	result := &RunnerResult{GeneratedAt: r.now()}
	analyzer := taxonomy.New(r.AnalysisThreshold)

	for i := 1; i <= r.MaxIterations; i++ {
		iterDir := filepath.Join(r.OutputDir, fmt.Sprintf("iteration_%d", i))

		iteration, err := r.runIteration(ctx, i, iterDir, analyzer)
		if err != nil {
			return nil, err
		}
		result.Iterations = append(result.Iterations, *iteration)
		result.FinalOverall = effectiveOverall(*iteration)

		if iteration.Outcome == OutcomeStopped {
			slog.Info("self-improvement stopping early", "iteration", i)
			break
		}
	}

	return result, nil
}

func (r *Runner) runIteration(ctx context.Context, i int, iterDir string, analyzer *taxonomy.Analyzer) (*IterationResult, error) {
	baselineName := fmt.Sprintf("selfimprove-iter%d-baseline", i)
	baseline, err := r.runHarness(ctx, filepath.Join(iterDir, "baseline_run"), baselineName)
	if err != nil {
		return nil, err
	}
	if err := writeBaselineScores(iterDir, baseline); err != nil {
		return nil, err
	}

	levelBaselines := levelBaselineScores(baseline)
	analyses := analyzeAll(analyzer, baseline)
	if err := writeAnalyses(iterDir, analyses); err != nil {
		return nil, err
	}

	iteration := &IterationResult{Iteration: i, BaselineOverall: baseline.OverallScore, Analyses: analyses}
	if len(analyses) == 0 {
		iteration.PostOverall = baseline.OverallScore
		iteration.Outcome = OutcomeStopped
		return r.finishIteration(iterDir, iteration)
	}

	decisions := research(analyses, levelBaselines)
	if err := writeResearchDecisions(iterDir, decisions); err != nil {
		return nil, err
	}
	iteration.Decisions = decisions

	applyDecisions := decisionsByType(decisions, DecisionApply)
	if len(applyDecisions) == 0 {
		iteration.PostOverall = baseline.OverallScore
		iteration.Outcome = OutcomeStopped
		return r.finishIteration(iterDir, iteration)
	}

	patches := r.applyAll(ctx, applyDecisions)
	iteration.AppliedPatches = patches

	var post *harness.ProgressiveResult
	if len(patches) > 0 {
		postName := fmt.Sprintf("selfimprove-iter%d-post", i)
		post, err = r.runHarness(ctx, filepath.Join(iterDir, "post_run"), postName)
		if err != nil {
			return nil, err
		}
	} else {
		post = baseline
	}
	if err := writePostScores(iterDir, post); err != nil {
		return nil, err
	}

	iteration.PostOverall = post.OverallScore
	iteration.NetImprovement = (post.OverallScore - baseline.OverallScore) * 100
	iteration.MaxRegression = maxRegression(baseline, post)
	iteration.Outcome = decideOutcome(iteration.MaxRegression, iteration.NetImprovement, r.regressionTolerance(), r.improvementThreshold())

	return r.finishIteration(iterDir, iteration)
}

func (r *Runner) finishIteration(iterDir string, iteration *IterationResult) (*IterationResult, error) {
	if err := writeIterationResult(iterDir, iteration); err != nil {
		return nil, err
	}
	return iteration, nil
}

func (r *Runner) runHarness(ctx context.Context, outputDir, agentName string) (*harness.ProgressiveResult, error) {
	h := harness.New(r.Registry, r.Grader, r.Agent, outputDir)
	h.Clock = r.clock
	return h.Run(ctx, agentName, r.LevelIDs)
}

func (r *Runner) applyAll(ctx context.Context, decisions []ResearchDecision) []PatchDescriptor {
	var patches []PatchDescriptor
	for _, d := range decisions {
		patch, err := r.Applier.Apply(ctx, d)
		if err != nil {
			slog.Warn("self-improvement: patch application failed, skipping", "failure_mode", d.Analysis.Mode, "error", err)
			continue
		}
		patches = append(patches, patch)
	}
	return patches
}

func analyzeAll(analyzer *taxonomy.Analyzer, result *harness.ProgressiveResult) []taxonomy.Analysis {
	var all []taxonomy.Analysis
	for _, level := range result.Levels {
		questions := taxonomy.FromLevelResult(level)
		all = append(all, analyzer.Analyze(questions)...)
	}
	return all
}

func levelBaselineScores(result *harness.ProgressiveResult) map[catalog.LevelID]float64 {
	out := make(map[catalog.LevelID]float64, len(result.Levels))
	for _, l := range result.Levels {
		out[l.LevelID] = l.AverageScore
	}
	return out
}

func decisionsByType(decisions []ResearchDecision, want Decision) []ResearchDecision {
	var out []ResearchDecision
	for _, d := range decisions {
		if d.Decision == want {
			out = append(out, d)
		}
	}
	return out
}

// maxRegression is the largest per-level score drop from baseline to
// post, in percentage points; positive means worse, per spec.md §4.10
// step 6. Levels absent from either run are skipped.
func maxRegression(baseline, post *harness.ProgressiveResult) float64 {
	baselineScores := levelBaselineScores(baseline)
	postScores := levelBaselineScores(post)

	var max float64
	for level, baseScore := range baselineScores {
		postScore, ok := postScores[level]
		if !ok {
			continue
		}
		delta := (baseScore - postScore) * 100
		if delta > max {
			max = delta
		}
	}
	return max
}

func decideOutcome(maxRegression, netImprovement, regressionTolerance, improvementThreshold float64) IterationOutcome {
	if maxRegression > regressionTolerance {
		return OutcomeRevert
	}
	if netImprovement >= improvementThreshold {
		return OutcomeCommit
	}
	// no regression beyond tolerance and improvement below threshold:
	// still a commit, marginal, per spec.md §4.10 step 6's third branch.
	return OutcomeCommit
}

func effectiveOverall(iteration IterationResult) float64 {
	if iteration.Outcome == OutcomeRevert {
		return iteration.BaselineOverall
	}
	return iteration.PostOverall
}

func (r *Runner) regressionTolerance() float64 {
	if r.RegressionTolerance > 0 {
		return r.RegressionTolerance
	}
	return DefaultRegressionTolerance
}

func (r *Runner) improvementThreshold() float64 {
	if r.ImprovementThreshold > 0 {
		return r.ImprovementThreshold
	}
	return DefaultImprovementThreshold
}

func (r *Runner) now() time.Time {
	if r.clock != nil {
		return r.clock()
	}
	return time.Now()
}
