// Package dialogue generates the deterministic, seed-reproducible
// long-horizon dialogue used to stress-test an agent's memory: a
// sequence of turns built from eight templated information-block
// types, a ground-truth fact index, and a derived question set. No LLM
// is involved — every turn is template-rendered from a seeded PRNG.
package dialogue

import "github.com/open-cogeval/cogeval/pkg/grader"

// Fact is one ground-truth datum delivered by a turn.
type Fact struct {
	Entity        string
	Attribute     string
	Value         string
	SourceLabel   string
	TemporalIndex *int
}

func factKey(entity, attribute string) string { return entity + "|" + attribute }

// GroundTruth is the full record of facts delivered across a dialogue,
// keyed for both per-entity lookup and current/superseded value
// tracking.
type GroundTruth struct {
	FactsByEntity    map[string][]Fact
	CurrentValues    map[string]string   // factKey -> current value
	SupersededValues map[string][]string // factKey -> prior values, oldest first
	TotalFacts        int
	BlockDistribution map[string]int // template name -> turn count
}

func newGroundTruth() *GroundTruth {
	return &GroundTruth{
		FactsByEntity:     make(map[string][]Fact),
		CurrentValues:     make(map[string]string),
		SupersededValues:  make(map[string][]string),
		BlockDistribution: make(map[string]int),
	}
}

func (gt *GroundTruth) record(f Fact) {
	gt.FactsByEntity[f.Entity] = append(gt.FactsByEntity[f.Entity], f)
	gt.TotalFacts++
	key := factKey(f.Entity, f.Attribute)
	if prior, ok := gt.CurrentValues[key]; ok && prior != f.Value {
		gt.SupersededValues[key] = append(gt.SupersededValues[key], prior)
	}
	gt.CurrentValues[key] = f.Value
}

// Turn is one rendered dialogue turn.
type Turn struct {
	Index int
	Block string // which of the eight templates produced this turn
	Text  string
	Facts []Fact
}

// Category is one of the seven closed long-horizon question
// categories.
type Category string

const (
	CategoryNeedleInHaystack    Category = "needle_in_haystack"
	CategoryMetaMemory          Category = "meta_memory"
	CategorySourceAttribution   Category = "source_attribution"
	CategoryTemporalEvolution   Category = "temporal_evolution"
	CategoryCrossReference      Category = "cross_reference"
	CategoryNumericalPrecision  Category = "numerical_precision"
	CategoryDistractorResistance Category = "distractor_resistance"
)

// Valid reports whether c is one of the seven declared categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryNeedleInHaystack, CategoryMetaMemory, CategorySourceAttribution,
		CategoryTemporalEvolution, CategoryCrossReference, CategoryNumericalPrecision,
		CategoryDistractorResistance:
		return true
	default:
		return false
	}
}

// Question is one derived long-horizon question.
type Question struct {
	ID             string
	Text           string
	ExpectedAnswer string
	Category       Category
	EvidenceTurns  []int
	Dimensions     []grader.Dimension
}

// Result is the full deterministic output of Generate.
type Result struct {
	Turns       []Turn
	GroundTruth GroundTruth
	Seed        int64
}
