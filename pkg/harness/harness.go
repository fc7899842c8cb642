package harness

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/open-cogeval/cogeval/internal/artifact"
	"github.com/open-cogeval/cogeval/pkg/agentproto"
	"github.com/open-cogeval/cogeval/pkg/catalog"
	"github.com/open-cogeval/cogeval/pkg/grader"
)

// Harness runs the progressive evaluation over a catalog registry.
type Harness struct {
	Registry  *catalog.Registry
	Grader    *grader.Grader
	Runner    AgentRunner
	OutputDir string
	Clock     func() time.Time
}

// New builds a Harness. Clock defaults to time.Now.
func New(registry *catalog.Registry, g *grader.Grader, runner AgentRunner, outputDir string) *Harness {
	return &Harness{Registry: registry, Grader: g, Runner: runner, OutputDir: outputDir, Clock: time.Now}
}

// Run executes every requested level in catalog order, writes its
// artifacts, and returns the aggregated ProgressiveResult. A single
// level failing does not abort the run; a single question failing
// grading does not abort its level.
func (h *Harness) Run(ctx context.Context, agentName string, levelIDs []catalog.LevelID) (*ProgressiveResult, error) {
	selected, err := h.Registry.Select(levelIDs)
	if err != nil {
		return nil, err
	}
	requested := make(map[catalog.LevelID]bool, len(selected))
	for _, l := range selected {
		requested[l.ID] = true
	}
	var levels []catalog.TestLevel
	for _, l := range h.Registry.All() {
		if requested[l.ID] {
			levels = append(levels, l)
		}
	}

	result := &ProgressiveResult{
		GeneratedAt: h.clock(),
		AgentName:   agentName,
	}

	var sumScores float64
	var succeeded int
	for _, level := range levels {
		lr := h.runLevel(ctx, level, agentName)
		result.Levels = append(result.Levels, lr)
		if lr.Success {
			succeeded++
			sumScores += lr.AverageScore
		}
	}

	if succeeded > 0 {
		result.OverallScore = sumScores / float64(succeeded)
	}
	if len(levels) > 0 {
		result.PassRate = float64(succeeded) / float64(len(levels))
	}

	if err := artifact.WriteJSON(filepath.Join(h.OutputDir, "summary.json"), result); err != nil {
		return nil, err
	}
	return result, nil
}

func (h *Harness) clock() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now()
}

func (h *Harness) runLevel(ctx context.Context, level catalog.TestLevel, agentName string) LevelResult {
	levelDir := filepath.Join(h.OutputDir, string(level.ID))

	learningLog, err := h.runLearning(ctx, level, agentName)
	_ = artifact.WriteText(filepath.Join(levelDir, "learning_phase.log"), learningLog)
	if err != nil {
		return LevelResult{LevelID: level.ID, Success: false, Error: err.Error()}
	}

	testResp, err := h.Runner.Invoke(ctx, agentproto.Request{
		Phase:     agentproto.PhaseTesting,
		AgentName: agentName,
		LevelID:   string(level.ID),
		Questions: toQuestionInputs(level.Questions),
	})
	_ = artifact.WriteText(filepath.Join(levelDir, "testing_phase.log"), testingLogText(testResp, err))
	if err != nil {
		return LevelResult{LevelID: level.ID, Success: false, Error: err.Error()}
	}

	answers := make(map[string]string, len(testResp.Answers))
	for _, a := range testResp.Answers {
		answers[a.Question] = a.Answer
	}

	details := make([]QuestionDetail, 0, len(level.Questions))
	var sum float64
	for _, q := range level.Questions {
		actual := answers[q.Question]
		detail := QuestionDetail{
			Question:       q.Question,
			ExpectedAnswer: q.ExpectedAnswer,
			ActualAnswer:   actual,
			ReasoningType:  q.ReasoningType,
		}
		res, err := h.Grader.Grade(ctx, q, actual)
		if err != nil {
			detail.Score = 0.0
			detail.Reasoning = err.Error()
		} else {
			detail.Score = res.Score
			detail.Reasoning = res.Reasoning
		}
		sum += detail.Score
		details = append(details, detail)
	}

	lr := LevelResult{LevelID: level.ID, Success: true, Questions: details}
	if len(details) > 0 {
		lr.AverageScore = sum / float64(len(details))
	}
	_ = artifact.WriteJSON(filepath.Join(levelDir, "scores.json"), lr)
	return lr
}

// runLearning invokes the learning subprocess once, or twice (initial
// then update) for levels that require update handling, and returns a
// combined log of both invocations.
func (h *Harness) runLearning(ctx context.Context, level catalog.TestLevel, agentName string) (string, error) {
	if !level.RequiresUpdateHandling {
		resp, err := h.Runner.Invoke(ctx, agentproto.Request{
			Phase:     agentproto.PhaseLearning,
			AgentName: agentName,
			LevelID:   string(level.ID),
			Articles:  toArticleInputs(level.InitialArticles()),
		})
		return learningLogText("initial", resp, err), err
	}

	initialResp, err := h.Runner.Invoke(ctx, agentproto.Request{
		Phase:     agentproto.PhaseLearning,
		AgentName: agentName,
		LevelID:   string(level.ID),
		Articles:  toArticleInputs(level.InitialArticles()),
	})
	log := learningLogText("initial", initialResp, err)
	if err != nil {
		return log, err
	}

	updateResp, err := h.Runner.Invoke(ctx, agentproto.Request{
		Phase:     agentproto.PhaseLearning,
		AgentName: agentName,
		LevelID:   string(level.ID),
		Articles:  toArticleInputs(level.UpdateArticles()),
	})
	log += "\n" + learningLogText("update", updateResp, err)
	return log, err
}

func learningLogText(phase string, resp *agentproto.Response, err error) string {
	if err != nil {
		return fmt.Sprintf("[%s] phase failed: %v", phase, err)
	}
	return fmt.Sprintf("[%s] learn acks: %d", phase, len(resp.LearnResults))
}

func testingLogText(resp *agentproto.Response, err error) string {
	if err != nil {
		return fmt.Sprintf("testing phase failed: %v", err)
	}
	return fmt.Sprintf("testing answers: %d", len(resp.Answers))
}
