package dialogue

import (
	"fmt"

	"github.com/open-cogeval/cogeval/pkg/grader"
)

// categoryDimensions is the closed mapping from question category to
// the scoring dimensions that apply, per spec.md §4.6 (needle-in-
// haystack always requires factual_accuracy + specificity;
// temporal-evolution adds temporal_awareness; source-attribution adds
// source_attribution).
var categoryDimensions = map[Category][]grader.Dimension{
	CategoryNeedleInHaystack:     {grader.DimensionFactualAccuracy, grader.DimensionSpecificity},
	CategoryTemporalEvolution:    {grader.DimensionFactualAccuracy, grader.DimensionSpecificity, grader.DimensionTemporalAwareness},
	CategorySourceAttribution:    {grader.DimensionFactualAccuracy, grader.DimensionSourceAttribution},
	CategoryCrossReference:       {grader.DimensionFactualAccuracy, grader.DimensionSpecificity},
	CategoryNumericalPrecision:   {grader.DimensionFactualAccuracy, grader.DimensionSpecificity},
	CategoryMetaMemory:           {grader.DimensionFactualAccuracy, grader.DimensionConfidenceCalibration},
	CategoryDistractorResistance: {grader.DimensionFactualAccuracy},
}

// GenerateQuestions derives up to k questions from a Generate result.
// Question derivation is itself deterministic: it walks turns in order
// and is a pure function of the already-seeded Result, so repeated
// calls against the same Result yield an identical question list.
func GenerateQuestions(result Result, k int) []Question {
	var candidates []Question
	var lastFactTurn *Turn

	for i := range result.Turns {
		turn := &result.Turns[i]
		switch turn.Block {
		case "fact_statement", "needle_in_haystack":
			candidates = append(candidates, needleQuestion(result, *turn))
		case "correction":
			candidates = append(candidates, temporalQuestion(result, *turn))
		case "cross_reference":
			candidates = append(candidates, crossReferenceQuestion(result, *turn))
		case "source_attribution":
			candidates = append(candidates, sourceAttributionQuestion(*turn))
		case "numerical_precision":
			candidates = append(candidates, numericalPrecisionQuestion(*turn))
		case "meta_memory":
			if lastFactTurn != nil {
				candidates = append(candidates, metaMemoryQuestion(*lastFactTurn, *turn))
			}
		case "distractor":
			if lastFactTurn != nil {
				candidates = append(candidates, distractorResistanceQuestion(*lastFactTurn))
			}
		}
		if len(turn.Facts) > 0 {
			lastFactTurn = turn
		}
	}

	if k > 0 && len(candidates) > k {
		candidates = candidates[:k]
	}
	for i := range candidates {
		candidates[i].ID = fmt.Sprintf("q-%03d", i+1)
	}
	return candidates
}

func needleQuestion(result Result, turn Turn) Question {
	f := turn.Facts[0]
	key := factKey(f.Entity, f.Attribute)
	expected := result.GroundTruth.CurrentValues[key]
	return Question{
		Text:           fmt.Sprintf("What is %s's %s based on everything discussed so far?", f.Entity, humanAttribute(f.Attribute)),
		ExpectedAnswer: expected,
		Category:       CategoryNeedleInHaystack,
		EvidenceTurns:  []int{turn.Index},
		Dimensions:     categoryDimensions[CategoryNeedleInHaystack],
	}
}

func temporalQuestion(result Result, turn Turn) Question {
	f := turn.Facts[0]
	key := factKey(f.Entity, f.Attribute)
	expected := result.GroundTruth.CurrentValues[key]
	return Question{
		Text:           fmt.Sprintf("How has %s's %s changed over the course of this conversation, and what is the current value?", f.Entity, humanAttribute(f.Attribute)),
		ExpectedAnswer: expected,
		Category:       CategoryTemporalEvolution,
		EvidenceTurns:  []int{turn.Index},
		Dimensions:     categoryDimensions[CategoryTemporalEvolution],
	}
}

func crossReferenceQuestion(result Result, turn Turn) Question {
	a, b := turn.Facts[0], turn.Facts[1]
	expected := fmt.Sprintf("%s: %s, %s: %s", a.Entity, a.Value, b.Entity, b.Value)
	return Question{
		Text:           fmt.Sprintf("Compare %s's and %s's medal counts as most recently reported.", a.Entity, b.Entity),
		ExpectedAnswer: expected,
		Category:       CategoryCrossReference,
		EvidenceTurns:  []int{turn.Index},
		Dimensions:     categoryDimensions[CategoryCrossReference],
	}
}

func sourceAttributionQuestion(turn Turn) Question {
	f := turn.Facts[0]
	return Question{
		Text:           fmt.Sprintf("According to which source was %s's medal count most recently reported?", f.Entity),
		ExpectedAnswer: f.SourceLabel,
		Category:       CategorySourceAttribution,
		EvidenceTurns:  []int{turn.Index},
		Dimensions:     categoryDimensions[CategorySourceAttribution],
	}
}

func numericalPrecisionQuestion(turn Turn) Question {
	f := turn.Facts[0]
	return Question{
		Text:           fmt.Sprintf("What exact finishing time was reported for %s?", f.Entity),
		ExpectedAnswer: f.Value + " seconds",
		Category:       CategoryNumericalPrecision,
		EvidenceTurns:  []int{turn.Index},
		Dimensions:     categoryDimensions[CategoryNumericalPrecision],
	}
}

func metaMemoryQuestion(factTurn, metaTurn Turn) Question {
	f := factTurn.Facts[0]
	return Question{
		Text:           fmt.Sprintf("You were asked earlier to remember %s's standing. What was it?", f.Entity),
		ExpectedAnswer: f.Value,
		Category:       CategoryMetaMemory,
		EvidenceTurns:  []int{factTurn.Index, metaTurn.Index},
		Dimensions:     categoryDimensions[CategoryMetaMemory],
	}
}

func distractorResistanceQuestion(factTurn Turn) Question {
	f := factTurn.Facts[0]
	return Question{
		Text:           fmt.Sprintf("Despite the unrelated updates since, what was %s's most recently reported %s?", f.Entity, humanAttribute(f.Attribute)),
		ExpectedAnswer: f.Value,
		Category:       CategoryDistractorResistance,
		EvidenceTurns:  []int{factTurn.Index},
		Dimensions:     categoryDimensions[CategoryDistractorResistance],
	}
}

func humanAttribute(attribute string) string {
	switch attribute {
	case "medal_count":
		return "medal count"
	case "finish_time_seconds":
		return "finishing time"
	default:
		return attribute
	}
}
