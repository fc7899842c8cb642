// Package grader scores an agent's answer against an expected answer
// using a single LLM call, optionally across several named scoring
// dimensions at once.
package grader

import (
	"context"
	"fmt"
	"strings"

	"github.com/open-cogeval/cogeval/internal/apperr"
	"github.com/open-cogeval/cogeval/pkg/catalog"
)

// ChatClient is the Go-side interface to whatever LLM backs the grader.
// It is intentionally a single blocking call — grading is not agentic,
// so there is no tool use, no streaming, no internal reasoning trace to
// surface, unlike the richer interfaces an investigating agent needs.
type ChatClient interface {
	// Complete sends one system+user prompt pair and returns the model's
	// full text response.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Result is the outcome of a single-score Grade call.
type Result struct {
	Score     float64
	Reasoning string
}

// DimensionResult is one dimension's outcome from a GradeMulti call.
type DimensionResult struct {
	Dimension Dimension
	Score     float64
	Reasoning string
}

// Dimension is one of the five long-horizon cognitive grading axes.
type Dimension string

const (
	DimensionFactualAccuracy       Dimension = "factual_accuracy"
	DimensionSpecificity           Dimension = "specificity"
	DimensionTemporalAwareness     Dimension = "temporal_awareness"
	DimensionSourceAttribution     Dimension = "source_attribution"
	DimensionConfidenceCalibration Dimension = "confidence_calibration"
)

// Grader scores an agent's answer against an expected answer.
type Grader struct {
	client ChatClient
	model  string
}

// New builds a Grader around the given ChatClient. model is recorded
// for prompt context only (the ChatClient itself owns the actual model
// selection / credentials).
func New(client ChatClient, model string) *Grader {
	return &Grader{client: client, model: model}
}

// Grade scores a single answer on [0.0, 1.0] against the expected answer
// for the given level, following the rubric in spec.md §4.1: examine the
// final conclusion (agents may self-correct mid-answer), award full
// credit for acknowledging a contradiction on contradiction-handling
// questions even without resolution, and require the most recent value
// on incremental-update questions.
func (g *Grader) Grade(ctx context.Context, question catalog.TestQuestion, actual string) (Result, error) {
	prompt := buildSinglePrompt(question, actual)
	raw, err := g.client.Complete(ctx, systemPrompt(question.Level), prompt)
	if err != nil {
		return Result{}, apperr.NewGradingError(err)
	}

	parsed, err := extractSingleScore(raw)
	if err != nil {
		return Result{}, err
	}
	return Result{Score: clamp01(parsed.Score), Reasoning: parsed.Reasoning}, nil
}

// GradeMulti scores actual against the given dimensions in a single LLM
// call. Any dimension the grader fails to return is recorded with score
// 0 and reasoning "Not graded" rather than failing the whole call — a
// vendor model dropping one requested dimension should not invalidate
// the others.
func (g *Grader) GradeMulti(ctx context.Context, questionText, expected, actual string, dims []Dimension) ([]DimensionResult, error) {
	prompt := buildMultiPrompt(questionText, expected, actual, dims)
	raw, err := g.client.Complete(ctx, multiSystemPrompt(), prompt)
	if err != nil {
		return nil, apperr.NewGradingError(err)
	}

	scores, err := extractMultiScores(raw)
	if err != nil {
		return nil, err
	}

	out := make([]DimensionResult, 0, len(dims))
	for _, d := range dims {
		if s, ok := scores[d]; ok {
			out = append(out, DimensionResult{Dimension: d, Score: clamp01(s.Score), Reasoning: s.Reasoning})
		} else {
			out = append(out, DimensionResult{Dimension: d, Score: 0, Reasoning: "Not graded"})
		}
	}
	return out, nil
}

// Overall returns the mean score across dims, the multi-dimensional
// analogue of a single Result.Score. Returns 0 for an empty slice.
func Overall(dims []DimensionResult) float64 {
	if len(dims) == 0 {
		return 0
	}
	var sum float64
	for _, d := range dims {
		sum += d.Score
	}
	return sum / float64(len(dims))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func systemPrompt(level catalog.LevelID) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are grading an AI agent's answer for evaluation level %s.\n", level)
	b.WriteString("Score the answer from 0.0 to 1.0 against the expected answer.\n")
	b.WriteString("The agent's answer may include internal reasoning before reaching a conclusion; " +
		"judge only the final conclusion it settles on, since agents are allowed to self-correct mid-answer.\n")
	b.WriteString("If this question is about a contradiction between sources, award full credit (1.0) for an " +
		"answer that clearly acknowledges the contradiction exists, even if it does not resolve which source is correct.\n")
	b.WriteString("If this question is about an incremental update to a previously learned fact, the answer MUST " +
		"reflect the most recently learned value; an answer using an outdated value should score low even if that " +
		"value was once correct.\n")
	b.WriteString("Respond with a single JSON object: {\"score\": <float 0-1>, \"reasoning\": \"<string>\"}. " +
		"No other text.\n")
	return b.String()
}

func multiSystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are grading an AI agent's answer along several independent scoring dimensions.\n")
	b.WriteString("Score each dimension from 0.0 to 1.0 based on how well the answer satisfies it. " +
		"Judge only the final conclusion, since agents may self-correct mid-answer.\n")
	b.WriteString("Respond with a single JSON object of the form " +
		"{\"scores\": {\"<dimension>\": {\"score\": <float 0-1>, \"reasoning\": \"<string>\"}, ...}}. No other text.\n")
	return b.String()
}

func buildSinglePrompt(question catalog.TestQuestion, actual string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", question.Question)
	fmt.Fprintf(&b, "Expected answer: %s\n", question.ExpectedAnswer)
	fmt.Fprintf(&b, "Agent's answer: %s\n", actual)
	fmt.Fprintf(&b, "Reasoning type: %s\n", question.ReasoningType)
	return b.String()
}

func buildMultiPrompt(questionText, expected, actual string, dims []Dimension) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", questionText)
	fmt.Fprintf(&b, "Expected answer: %s\n", expected)
	fmt.Fprintf(&b, "Agent's answer: %s\n", actual)
	b.WriteString("Dimensions to score: ")
	names := make([]string, len(dims))
	for i, d := range dims {
		names[i] = string(d)
	}
	b.WriteString(strings.Join(names, ", "))
	b.WriteString("\n")
	return b.String()
}
