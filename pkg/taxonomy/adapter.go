package taxonomy

import "github.com/open-cogeval/cogeval/pkg/harness"

// FromLevelResult converts one progressive-harness level result into
// the analyzer's input shape. Levels that failed outright (learning or
// testing subprocess failure) carry no per-question detail and convert
// to an empty slice — the level failure itself is a harness-level
// concern, not a per-question classification target.
func FromLevelResult(result harness.LevelResult) []FailedQuestion {
	out := make([]FailedQuestion, 0, len(result.Questions))
	for _, q := range result.Questions {
		out = append(out, FailedQuestion{
			QuestionID:     q.Question,
			Level:          result.LevelID,
			ReasoningType:  q.ReasoningType,
			Question:       q.Question,
			ExpectedAnswer: q.ExpectedAnswer,
			AnswerText:     q.ActualAnswer,
			Score:          q.Score,
		})
	}
	return out
}
