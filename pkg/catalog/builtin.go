package catalog

import "time"

// date is a small helper for constructing the fixed "as of" timestamps
// the built-in articles use — the levels are about an (invented) Winter
// Olympics medal table, chosen because it supports every reasoning type
// the catalog needs to exercise: running totals, per-country breakdowns,
// procedural rules, conflicting viewership reports, and updated medal
// counts for a named athlete.
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BuiltinRegistry returns the default L1..L12 catalog described in
// spec.md §3. Each call returns a fresh Registry backed by fresh slices,
// so callers may freely mutate the returned levels without affecting
// other callers (TestLevel holds value-typed Articles/Questions slices,
// but copying the registry per call avoids any accidental aliasing).
func BuiltinRegistry() *Registry {
	return NewRegistry(
		l1SingleSourceRecall(),
		l2MultiSourceSynthesis(),
		l3TemporalReasoning(),
		l4ProceduralLearning(),
		l5ContradictionHandling(),
		l6IncrementalUpdates(),
		l7TeacherStudentTransfer(),
		l8Metacognition(),
		l9CausalReasoning(),
		l10Counterfactual(),
		l11NovelSkill(),
		l12FarTransfer(),
	)
}

func l1SingleSourceRecall() TestLevel {
	return TestLevel{
		ID:          L1,
		Name:        "Single-Source Recall",
		Description: "Recall facts stated directly in a single article.",
		Articles: []TestArticle{
			{
				Title: "Norway Leads Winter Games Medal Table",
				Content: "As of February 15, Norway has won 26 total medals at the Winter " +
					"Games: 12 gold, 8 silver, and 6 bronze. The haul is the largest of any " +
					"nation so far this Games.",
				URL:       "https://example.test/articles/norway-medals-feb15",
				Published: date(2026, time.February, 15),
			},
		},
		Questions: []TestQuestion{
			{
				Question:       "How many total medals does Norway have as of February 15?",
				ExpectedAnswer: "26 total medals (12 gold, 8 silver, 6 bronze)",
				Level:          L1,
				ReasoningType:  ReasoningDirectRecall,
			},
		},
	}
}

func l2MultiSourceSynthesis() TestLevel {
	return TestLevel{
		ID:          L2,
		Name:        "Multi-Source Synthesis",
		Description: "Combine facts spread across independent articles.",
		Articles: []TestArticle{
			{
				Title:     "Norway's Gold Tally Reaches 12",
				Content:   "Norway's cross-country and biathlon teams have combined for 12 gold medals this Games.",
				URL:       "https://example.test/articles/norway-gold-12",
				Published: date(2026, time.February, 14),
			},
			{
				Title:     "Germany Close Behind With 9 Golds",
				Content:   "Germany's speed skating and bobsled programs have produced 9 gold medals so far.",
				URL:       "https://example.test/articles/germany-gold-9",
				Published: date(2026, time.February, 14),
			},
		},
		Questions: []TestQuestion{
			{
				Question:       "How many more gold medals does Norway have than Germany?",
				ExpectedAnswer: "3 more gold medals (12 vs 9)",
				Level:          L2,
				ReasoningType:  ReasoningCrossSourceSynthesis,
			},
		},
	}
}

func l3TemporalReasoning() TestLevel {
	return TestLevel{
		ID:          L3,
		Name:        "Temporal Reasoning",
		Description: "Track how a quantity changes across a sequence of dated articles.",
		Articles: []TestArticle{
			{
				Title:     "Day 7 Update: Norway at 18 Medals",
				Content:   "Through Day 7 of the Winter Games, Norway has accumulated 18 total medals.",
				URL:       "https://example.test/articles/day7-norway-18",
				Published: date(2026, time.February, 7),
			},
			{
				Title:     "Day 9 Update: Norway at 26 Medals",
				Content:   "Through Day 9, Norway's medal count has risen to 26 total medals.",
				URL:       "https://example.test/articles/day9-norway-26",
				Published: date(2026, time.February, 9),
			},
			{
				Title:     "Day 10 Update: Norway at 28 Medals",
				Content:   "Through Day 10, Norway now holds 28 total medals, the Games-leading total.",
				URL:       "https://example.test/articles/day10-norway-28",
				Published: date(2026, time.February, 10),
			},
		},
		Questions: []TestQuestion{
			{
				Question:       "How many medals did Norway win between Day 7 and Day 9?",
				ExpectedAnswer: "8 medals (from 18 to 26)",
				Level:          L3,
				ReasoningType:  ReasoningTemporalDifference,
			},
			{
				Question:       "How did Norway's medal total trend from Day 7 through Day 10?",
				ExpectedAnswer: "It rose steadily: 18 on Day 7, 26 on Day 9, 28 on Day 10.",
				Level:          L3,
				ReasoningType:  ReasoningTemporalTrend,
			},
		},
		RequiresTemporalOrdering: true,
	}
}

func l4ProceduralLearning() TestLevel {
	return TestLevel{
		ID:          L4,
		Name:        "Procedural Learning",
		Description: "Learn and apply a multi-step procedure from a how-to article.",
		Articles: []TestArticle{
			{
				Title: "How Olympic Medal Ties Are Broken",
				Content: "When two nations are tied on total medals, ties are broken first by " +
					"gold medal count, then by silver medal count, then by bronze medal count. " +
					"If all three are equal, the nations are ranked as co-equal.",
				URL:       "https://example.test/articles/tiebreak-procedure",
				Published: date(2026, time.February, 5),
			},
		},
		Questions: []TestQuestion{
			{
				Question:       "Two nations are tied on total medals. What is checked first to break the tie?",
				ExpectedAnswer: "Gold medal count is compared first.",
				Level:          L4,
				ReasoningType:  ReasoningProceduralRecall,
			},
			{
				Question:       "Nation A and Nation B are tied on total medals and tied on gold medals. What's checked next?",
				ExpectedAnswer: "Silver medal count is compared next.",
				Level:          L4,
				ReasoningType:  ReasoningProceduralSequence,
			},
			{
				Question: "Nation A has 10 total (3 gold) and Nation B has 10 total (3 gold, more silver). " +
					"Who ranks higher under the procedure?",
				ExpectedAnswer: "Nation B ranks higher because it has more silver medals.",
				Level:          L4,
				ReasoningType:  ReasoningProceduralApplication,
			},
		},
	}
}

func l5ContradictionHandling() TestLevel {
	return TestLevel{
		ID:          L5,
		Name:        "Contradiction Handling",
		Description: "Detect and reason about directly conflicting reports.",
		Articles: []TestArticle{
			{
				Title:     "Opening Ceremony Draws 1.2 Billion Viewers",
				Content:   "The broadcaster's official release states the opening ceremony drew 1.2 billion viewers worldwide.",
				URL:       "https://example.test/articles/viewership-1-2b",
				Published: date(2026, time.February, 1),
			},
			{
				Title:     "Independent Analysis Puts Viewership at 800 Million",
				Content:   "An independent ratings analyst estimates the real worldwide audience at 800 million, well below the broadcaster's claim.",
				URL:       "https://example.test/articles/viewership-800m",
				Published: date(2026, time.February, 2),
			},
		},
		Questions: []TestQuestion{
			{
				Question:       "How many people watched the opening ceremony worldwide?",
				ExpectedAnswer: "Sources conflict: the broadcaster claims 1.2 billion, while an independent analyst estimates 800 million.",
				Level:          L5,
				ReasoningType:  ReasoningContradictionDetection,
			},
			{
				Question:       "Why might the two viewership reports disagree so sharply?",
				ExpectedAnswer: "The broadcaster has an incentive to report a higher, more favorable figure than an independent, less biased analyst.",
				Level:          L5,
				ReasoningType:  ReasoningSourceCredibility,
			},
		},
	}
}

func l6IncrementalUpdates() TestLevel {
	return TestLevel{
		ID:          L6,
		Name:        "Incremental Updates",
		Description: "Apply a later update to an earlier fact rather than reusing stale data.",
		Articles: []TestArticle{
			{
				Title:     "Klaebo Wins Ninth Career Gold",
				Content:   "Johannes Klaebo's relay victory on February 15 gives him 9 career Olympic gold medals.",
				URL:       "https://example.test/articles/klaebo-9-gold",
				Published: date(2026, time.February, 15),
				Metadata:  map[string]string{"phase": "initial"},
			},
			{
				Title:     "Klaebo Adds a Tenth Gold",
				Content:   "Johannes Klaebo won the 50km classic on February 17, his tenth career Olympic gold medal.",
				URL:       "https://example.test/articles/klaebo-10-gold",
				Published: date(2026, time.February, 17),
				Metadata:  map[string]string{"phase": "update"},
			},
		},
		Questions: []TestQuestion{
			{
				Question:       "How many Olympic gold medals does Johannes Klaebo have?",
				ExpectedAnswer: "10",
				Level:          L6,
				ReasoningType:  ReasoningIncrementalUpdate,
			},
			{
				Question:       "How did Klaebo's gold medal count change between February 15 and February 17?",
				ExpectedAnswer: "It increased from 9 to 10.",
				Level:          L6,
				ReasoningType:  ReasoningIncrementalTracking,
			},
		},
		RequiresUpdateHandling: true,
	}
}

func l7TeacherStudentTransfer() TestLevel {
	return TestLevel{
		ID:          L7,
		Name:        "Teacher-to-Student Transfer",
		Description: "Learn a scoring rule from one article and transfer it to a worked example in another.",
		Articles: []TestArticle{
			{
				Title: "Understanding Combined-Event Scoring",
				Content: "In the Nordic combined event, an athlete's ski jump distance is converted to points, " +
					"then cross-country finish time subtracts points at a fixed rate of 1 point per 4 seconds behind the leader.",
				URL:       "https://example.test/articles/combined-scoring-rule",
				Published: date(2026, time.February, 3),
				Metadata:  map[string]string{"phase": "initial"},
			},
			{
				Title:     "Worked Example: Today's Combined Event",
				Content:   "Today's leader scored 130 jump points. The athlete in question finished 40 seconds behind the leader.",
				URL:       "https://example.test/articles/combined-example",
				Published: date(2026, time.February, 4),
				Metadata:  map[string]string{"phase": "update"},
			},
		},
		Questions: []TestQuestion{
			{
				Question:       "Using the scoring rule, how many points behind the leader is an athlete who finishes 40 seconds back?",
				ExpectedAnswer: "10 points behind (40 seconds / 4 seconds-per-point).",
				Level:          L7,
				ReasoningType:  ReasoningKnowledgeTransferSynth,
			},
			{
				Question:       "What is the conversion rate for finish time in the combined-event scoring rule?",
				ExpectedAnswer: "1 point per 4 seconds behind the leader.",
				Level:          L7,
				ReasoningType:  ReasoningKnowledgeTransferRecall,
			},
		},
		RequiresUpdateHandling: true,
	}
}

func l8Metacognition() TestLevel {
	return TestLevel{
		ID:          L8,
		Name:        "Metacognition",
		Description: "Recognize the limits of what has been learned and say so rather than guessing.",
		Articles: []TestArticle{
			{
				Title:     "Curling Round-Robin Standings, Through Round 6",
				Content:   "After 6 rounds of round-robin curling play, Canada leads the standings with a 5-1 record.",
				URL:       "https://example.test/articles/curling-round6",
				Published: date(2026, time.February, 11),
			},
		},
		Questions: []TestQuestion{
			{
				Question:       "Who won the curling gold medal?",
				ExpectedAnswer: "Not yet known from the material learned — only round-robin standings through round 6 have been reported, not a final result.",
				Level:          L8,
				ReasoningType:  ReasoningProceduralRecall,
			},
		},
	}
}

func l9CausalReasoning() TestLevel {
	return TestLevel{
		ID:          L9,
		Name:        "Causal Reasoning",
		Description: "Connect a stated cause to its reported effect across articles.",
		Articles: []TestArticle{
			{
				Title:     "Warm Weather Forces Course Change",
				Content:   "Unseasonably warm temperatures softened the downhill course, forcing organizers to move the men's downhill start gate lower on the mountain.",
				URL:       "https://example.test/articles/warm-weather-course",
				Published: date(2026, time.February, 6),
			},
			{
				Title:     "Lower Start Gate Produces Slower Times",
				Content:   "With the start gate moved lower, average downhill run times were over two seconds slower than the pre-Games forecast.",
				URL:       "https://example.test/articles/slower-times",
				Published: date(2026, time.February, 6),
			},
		},
		Questions: []TestQuestion{
			{
				Question:       "Why were the men's downhill times slower than forecast?",
				ExpectedAnswer: "Warm weather softened the course, forcing a lower start gate, which produced slower times.",
				Level:          L9,
				ReasoningType:  ReasoningCrossSourceSynthesis,
			},
		},
	}
}

func l10Counterfactual() TestLevel {
	return TestLevel{
		ID:          L10,
		Name:        "Counterfactual Reasoning",
		Description: "Reason about a hypothetical variant of a learned scenario without refusing to engage.",
		Articles: []TestArticle{
			{
				Title:     "Norway Wins Relay by 0.8 Seconds",
				Content:   "Norway's men's relay team won gold by 0.8 seconds over Germany, after a strong final leg.",
				URL:       "https://example.test/articles/relay-0-8",
				Published: date(2026, time.February, 12),
			},
		},
		Questions: []TestQuestion{
			{
				Question:       "What if Norway's final leg had been 1 second slower — who would have won the relay?",
				ExpectedAnswer: "Germany would have won, since Norway's margin of victory was only 0.8 seconds.",
				Level:          L10,
				ReasoningType:  ReasoningTemporalComparison,
			},
		},
	}
}

func l11NovelSkill() TestLevel {
	return TestLevel{
		ID:          L11,
		Name:        "Novel Skill Acquisition",
		Description: "Learn a brand-new scoring convention introduced only in this level and apply it immediately.",
		Articles: []TestArticle{
			{
				Title: "New This Year: The Momentum Bonus",
				Content: "This Games introduces a momentum bonus in ski jumping: an athlete who improves their " +
					"distance in the second jump by more than 5 meters over the first receives a 3-point bonus added " +
					"to their total score.",
				URL:       "https://example.test/articles/momentum-bonus-rule",
				Published: date(2026, time.February, 13),
			},
		},
		Questions: []TestQuestion{
			{
				Question:       "An athlete jumps 95m then 102m. Do they receive the momentum bonus, and if so how many points?",
				ExpectedAnswer: "Yes — the improvement is 7 meters, more than 5, so they receive a 3-point bonus.",
				Level:          L11,
				ReasoningType:  ReasoningProceduralApplication,
			},
		},
	}
}

func l12FarTransfer() TestLevel {
	return TestLevel{
		ID:          L12,
		Name:        "Far Transfer",
		Description: "Apply the Level 4 tiebreak procedure to a structurally different domain without being retaught.",
		Articles: []TestArticle{
			{
				Title: "Final Standings Reminder",
				Content: "As a reminder, the medal-table tiebreak procedure compares gold count, then silver count, " +
					"then bronze count, in that order.",
				URL:       "https://example.test/articles/tiebreak-reminder",
				Published: date(2026, time.February, 18),
			},
		},
		Questions: []TestQuestion{
			{
				Question: "Two club teams finish a regional chess tournament tied on match points. Using the same kind " +
					"of tiebreak logic learned for Olympic medals (compare the most prestigious count first, then the " +
					"next, then the next), what should organizers compare first if the analogous ranks are game wins, " +
					"then draws, then losses?",
				ExpectedAnswer: "Compare game wins first, exactly as gold medals are compared first in the medal-table procedure.",
				Level:          L12,
				ReasoningType:  ReasoningKnowledgeTransferSynth,
			},
		},
	}
}
