package longhorizon

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/open-cogeval/cogeval/pkg/dialogue"
	"github.com/open-cogeval/cogeval/pkg/grader"
)

// logProgressEvery is how often the learn loop logs progress, per
// spec.md §5 ("logs progress every 50 turns").
const logProgressEvery = 50

// Evaluator runs the two-phase long-horizon stress test: learn every
// turn, then quiz and grade every question.
type Evaluator struct {
	Grader *grader.Grader
	clock  func() time.Time
}

// New builds an Evaluator around g. clock defaults to time.Now.
func New(g *grader.Grader) *Evaluator {
	return &Evaluator{Grader: g, clock: time.Now}
}

// Run executes both phases against agent and returns the full report.
// Phase 1 (learn) tolerates individual turn failures: they are logged,
// counted, and skipped, never aborting the run. Phase 2 (quiz+grade)
// calls the agent once per question and grades the answer on that
// question's declared dimension subset.
func (e *Evaluator) Run(ctx context.Context, agent Agent, agentName string, result dialogue.Result, questions []dialogue.Question) (*Report, error) {
	learnStarted := e.now()
	learnErrors := e.learnPhase(ctx, agent, result)
	learningTime := e.now().Sub(learnStarted)

	questionResults, err := e.quizPhase(ctx, agent, questions)
	if err != nil {
		return nil, err
	}

	memStats, _ := agent.MemoryStats(ctx) // best-effort; failures ignored per spec.md §4.7

	report := &Report{
		GeneratedAt:  e.now(),
		AgentName:    agentName,
		Seed:         result.Seed,
		TotalTurns:   len(result.Turns),
		TotalFacts:   result.GroundTruth.TotalFacts,
		LearnErrors:  learnErrors,
		LearningTime: learningTime,
		Questions:    questionResults,
		MemoryStats:  memStats,
	}
	report.Categories = buildCategoryBreakdowns(questionResults)
	report.OverallMean = meanOverall(questionResults)
	return report, nil
}

func (e *Evaluator) learnPhase(ctx context.Context, agent Agent, result dialogue.Result) int {
	errCount := 0
	for _, turn := range result.Turns {
		if turn.Text == "" {
			continue
		}
		if err := agent.Learn(ctx, turn.Text); err != nil {
			errCount++
			slog.Warn("long-horizon learn call failed, skipping turn",
				"turn_index", turn.Index, "block", turn.Block, "error", err)
			continue
		}
		if (turn.Index+1)%logProgressEvery == 0 {
			slog.Info("long-horizon learn progress", "turns_learned", turn.Index+1, "total_turns", len(result.Turns))
		}
	}
	return errCount
}

func (e *Evaluator) quizPhase(ctx context.Context, agent Agent, questions []dialogue.Question) ([]QuestionResult, error) {
	results := make([]QuestionResult, 0, len(questions))
	for _, q := range questions {
		answer, _, err := agent.Answer(ctx, q.Text)
		if err != nil {
			slog.Warn("long-horizon answer call failed, recording zero score", "question_id", q.ID, "error", err)
			results = append(results, QuestionResult{QuestionID: q.ID, Category: q.Category, Overall: 0})
			continue
		}

		started := e.now()
		dims, err := e.Grader.GradeMulti(ctx, q.Text, q.ExpectedAnswer, answer, q.Dimensions)
		elapsed := e.now().Sub(started)
		if err != nil {
			return nil, err
		}

		scored := make([]DimensionScore, len(dims))
		for i, d := range dims {
			scored[i] = DimensionScore{Dimension: d.Dimension, Score: d.Score, Reasoning: d.Reasoning}
		}
		results = append(results, QuestionResult{
			QuestionID:  q.ID,
			Category:    q.Category,
			AnswerText:  answer,
			Overall:     grader.Overall(dims),
			Dimensions:  scored,
			GradingTime: elapsed,
		})
	}
	return results, nil
}

func buildCategoryBreakdowns(results []QuestionResult) []CategoryBreakdown {
	byCategory := map[dialogue.Category][]QuestionResult{}
	for _, r := range results {
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, string(c))
	}
	sort.Strings(categories)

	out := make([]CategoryBreakdown, 0, len(categories))
	for _, cs := range categories {
		c := dialogue.Category(cs)
		group := byCategory[c]
		out = append(out, summarizeCategory(c, group))
	}
	return out
}

func summarizeCategory(category dialogue.Category, group []QuestionResult) CategoryBreakdown {
	min, max, sum := group[0].Overall, group[0].Overall, 0.0
	dimSums := map[string]float64{}
	dimCounts := map[string]int{}
	for _, r := range group {
		sum += r.Overall
		if r.Overall < min {
			min = r.Overall
		}
		if r.Overall > max {
			max = r.Overall
		}
		for _, d := range r.Dimensions {
			dimSums[string(d.Dimension)] += d.Score
			dimCounts[string(d.Dimension)]++
		}
	}
	dimAverages := make(map[string]float64, len(dimSums))
	for dim, s := range dimSums {
		dimAverages[dim] = s / float64(dimCounts[dim])
	}
	return CategoryBreakdown{
		Category:          category,
		Count:             len(group),
		Mean:              sum / float64(len(group)),
		Min:               min,
		Max:               max,
		DimensionAverages: dimAverages,
	}
}

func meanOverall(results []QuestionResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.Overall
	}
	return sum / float64(len(results))
}

func (e *Evaluator) now() time.Time {
	if e.clock != nil {
		return e.clock()
	}
	return time.Now()
}
