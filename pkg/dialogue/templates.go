package dialogue

import (
	"fmt"
	"math/rand"
	"sort"
)

// entities and attributes are fixed, ordered pools so template output
// depends only on the seeded PRNG draw, never map iteration order.
var entityPool = []string{"Norway", "Germany", "the United States", "Klaebo", "Braathen", "the curling team", "the relay team", "Sweden"}

type blockFunc func(rng *rand.Rand, turnIndex int, gt *GroundTruth) (text string, facts []Fact)

// blocks is the fixed, ordered set of eight information-block
// templates. Turn i always uses blocks[i%8] — the sequence, combined
// with the seeded rng, is what makes generation byte-identical for a
// given (num_turns, seed).
var blocks = []struct {
	name string
	fn   blockFunc
}{
	{"fact_statement", factStatementBlock},
	{"distractor", distractorBlock},
	{"correction", correctionBlock},
	{"cross_reference", crossReferenceBlock},
	{"source_attribution", sourceAttributionBlock},
	{"numerical_precision", numericalPrecisionBlock},
	{"meta_memory", metaMemoryBlock},
	{"needle_in_haystack", needleInHaystackBlock},
}

func pickEntity(rng *rand.Rand) string {
	return entityPool[rng.Intn(len(entityPool))]
}

func factStatementBlock(rng *rand.Rand, turnIndex int, gt *GroundTruth) (string, []Fact) {
	entity := pickEntity(rng)
	count := 1 + rng.Intn(30)
	text := fmt.Sprintf("As of today, %s has recorded %d medals across all events.", entity, count)
	fact := Fact{Entity: entity, Attribute: "medal_count", Value: fmt.Sprintf("%d", count), SourceLabel: "daily tally"}
	return text, []Fact{fact}
}

func distractorBlock(rng *rand.Rand, turnIndex int, gt *GroundTruth) (string, []Fact) {
	topics := []string{"the weather forecast for tomorrow", "the volunteer schedule", "local transit delays", "the opening ceremony rehearsal", "souvenir shop hours"}
	topic := topics[rng.Intn(len(topics))]
	text := fmt.Sprintf("A brief note on %s was shared with staff; it has no bearing on the competition results.", topic)
	return text, nil
}

func correctionBlock(rng *rand.Rand, turnIndex int, gt *GroundTruth) (string, []Fact) {
	keys := make([]string, 0, len(gt.CurrentValues))
	for k := range gt.CurrentValues {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return factStatementBlock(rng, turnIndex, gt)
	}
	key := keys[rng.Intn(len(keys))]
	entity, attribute := splitKey(key)
	newCount := 1 + rng.Intn(30)
	text := fmt.Sprintf("Correction: %s's %s has been updated to %d.", entity, attribute, newCount)
	fact := Fact{Entity: entity, Attribute: attribute, Value: fmt.Sprintf("%d", newCount), SourceLabel: "correction notice"}
	return text, []Fact{fact}
}

func crossReferenceBlock(rng *rand.Rand, turnIndex int, gt *GroundTruth) (string, []Fact) {
	a := pickEntity(rng)
	b := pickEntity(rng)
	for b == a {
		b = pickEntity(rng)
	}
	countA := 1 + rng.Intn(30)
	countB := 1 + rng.Intn(30)
	text := fmt.Sprintf("While %s sits at %d medals, %s trails with %d.", a, countA, b, countB)
	facts := []Fact{
		{Entity: a, Attribute: "medal_count", Value: fmt.Sprintf("%d", countA), SourceLabel: "comparison report"},
		{Entity: b, Attribute: "medal_count", Value: fmt.Sprintf("%d", countB), SourceLabel: "comparison report"},
	}
	return text, facts
}

func sourceAttributionBlock(rng *rand.Rand, turnIndex int, gt *GroundTruth) (string, []Fact) {
	entity := pickEntity(rng)
	sources := []string{"the official results board", "broadcast commentary", "the federation's press release"}
	source := sources[rng.Intn(len(sources))]
	count := 1 + rng.Intn(30)
	text := fmt.Sprintf("According to %s, %s now has %d medals.", source, entity, count)
	fact := Fact{Entity: entity, Attribute: "medal_count", Value: fmt.Sprintf("%d", count), SourceLabel: source}
	return text, []Fact{fact}
}

func numericalPrecisionBlock(rng *rand.Rand, turnIndex int, gt *GroundTruth) (string, []Fact) {
	entity := pickEntity(rng)
	seconds := 40 + rng.Float64()*20
	text := fmt.Sprintf("%s posted a finishing time of %.2f seconds in the timed event.", entity, seconds)
	fact := Fact{Entity: entity, Attribute: "finish_time_seconds", Value: fmt.Sprintf("%.2f", seconds), SourceLabel: "timing system"}
	return text, []Fact{fact}
}

func metaMemoryBlock(rng *rand.Rand, turnIndex int, gt *GroundTruth) (string, []Fact) {
	entity := pickEntity(rng)
	text := fmt.Sprintf("Make a note to remember %s's current standing — it may be referenced again later in this conversation.", entity)
	return text, nil
}

func needleInHaystackBlock(rng *rand.Rand, turnIndex int, gt *GroundTruth) (string, []Fact) {
	entity := pickEntity(rng)
	count := 1 + rng.Intn(30)
	text := fmt.Sprintf(
		"The venue operations team completed their morning briefing, covering logistics, security rotations, and "+
			"catering schedules for the day; buried in the closing remarks, the briefing noted in passing that %s "+
			"had reached %d medals, before moving on to discuss parking arrangements for the evening session.",
		entity, count)
	fact := Fact{Entity: entity, Attribute: "medal_count", Value: fmt.Sprintf("%d", count), SourceLabel: "operations briefing"}
	return text, []Fact{fact}
}

func splitKey(key string) (entity, attribute string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '|' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}
