package matrix

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/open-cogeval/cogeval/pkg/dialogue"
	"github.com/open-cogeval/cogeval/pkg/longhorizon"
)

// Runner feeds a single shared dialogue/question set to each of several
// agent configurations, sequentially. Spec.md §5 mandates sequential
// (not concurrent) agent runs here specifically to avoid bursting a
// shared vendor rate limit across configurations.
type Runner struct {
	Evaluator  *longhorizon.Evaluator
	BaseDir    string
	NumTurns   int
	Seed       int64
	NumQuestions int
	clock      func() time.Time
}

// New builds a Runner. clock defaults to time.Now.
func New(evaluator *longhorizon.Evaluator, baseDir string, numTurns int, seed int64, numQuestions int) *Runner {
	return &Runner{Evaluator: evaluator, BaseDir: baseDir, NumTurns: numTurns, Seed: seed, NumQuestions: numQuestions, clock: time.Now}
}

// Run generates the shared dialogue once and evaluates every
// configuration against it, in order, never concurrently.
func (r *Runner) Run(ctx context.Context, configs []AgentConfig) (*Report, error) {
	result := dialogue.Generate(r.NumTurns, r.Seed)
	questions := dialogue.GenerateQuestions(result, r.NumQuestions)

	outcomes := make([]AgentOutcome, 0, len(configs))
	for _, cfg := range configs {
		outcomes = append(outcomes, r.runOne(ctx, cfg, result, questions))
	}

	report := &Report{
		GeneratedAt: r.now(),
		Seed:        r.Seed,
		TotalTurns:  len(result.Turns),
		Outcomes:    outcomes,
	}
	report.Ranking = rankOutcomes(outcomes)
	report.BestPerformerByCategory = bestPerformerByCategory(outcomes)
	return report, nil
}

func (r *Runner) runOne(ctx context.Context, cfg AgentConfig, result dialogue.Result, questions []dialogue.Question) AgentOutcome {
	storagePath := filepath.Join(r.BaseDir, cfg.Name)
	agent, err := cfg.New(storagePath)
	if err != nil {
		slog.Warn("matrix: agent instantiation failed, skipping", "agent", cfg.Name, "error", err)
		return AgentOutcome{Name: cfg.Name, Skipped: true, SkipReason: err.Error()}
	}
	defer agent.Close()

	report, err := r.Evaluator.Run(ctx, agent, cfg.Name, result, questions)
	if err != nil {
		slog.Warn("matrix: evaluation failed, skipping", "agent", cfg.Name, "error", err)
		return AgentOutcome{Name: cfg.Name, Skipped: true, SkipReason: err.Error()}
	}
	return AgentOutcome{Name: cfg.Name, Report: report}
}

// rankOutcomes orders non-skipped agents by overall score descending,
// breaking ties by lower learning time, per spec.md §4.8.
func rankOutcomes(outcomes []AgentOutcome) []string {
	ranked := make([]AgentOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Skipped {
			ranked = append(ranked, o)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Report, ranked[j].Report
		if a.OverallMean != b.OverallMean {
			return a.OverallMean > b.OverallMean
		}
		return a.LearningTime < b.LearningTime
	})
	names := make([]string, len(ranked))
	for i, o := range ranked {
		names[i] = o.Name
	}
	return names
}

func bestPerformerByCategory(outcomes []AgentOutcome) map[string]string {
	best := map[string]string{}
	bestScore := map[string]float64{}
	for _, o := range outcomes {
		if o.Skipped {
			continue
		}
		for _, cb := range o.Report.Categories {
			cat := string(cb.Category)
			if current, ok := bestScore[cat]; !ok || cb.Mean > current {
				bestScore[cat] = cb.Mean
				best[cat] = o.Name
			}
		}
	}
	return best
}

func (r *Runner) now() time.Time {
	if r.clock != nil {
		return r.clock()
	}
	return time.Now()
}
