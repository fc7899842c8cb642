package dialogue

import "math/rand"

// Generate produces numTurns turns deterministically: for the same
// (numTurns, seed) pair the returned Result is byte-identical across
// invocations and platforms, since it depends only on the fixed block
// sequence and a seeded math/rand source.
func Generate(numTurns int, seed int64) Result {
	rng := rand.New(rand.NewSource(seed))
	gt := newGroundTruth()

	turns := make([]Turn, 0, numTurns)
	for i := 0; i < numTurns; i++ {
		block := blocks[i%len(blocks)]
		text, facts := block.fn(rng, i, gt)
		for _, f := range facts {
			gt.record(f)
		}
		gt.BlockDistribution[block.name]++
		turns = append(turns, Turn{Index: i, Block: block.name, Text: text, Facts: facts})
	}

	return Result{Turns: turns, GroundTruth: *gt, Seed: seed}
}
