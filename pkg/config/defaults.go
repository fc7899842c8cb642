package config

import "time"

// Default* functions return the system's built-in default values,
// applied by the loader wherever the YAML file leaves a field unset.

func DefaultGraderConfig() GraderConfig {
	return GraderConfig{Model: "claude-sonnet-4-5", Temperature: 0}
}

func DefaultHarnessConfig() HarnessConfig {
	return HarnessConfig{OutputDir: "./output/harness"}
}

func DefaultDialogueConfig() DialogueConfig {
	return DialogueConfig{Seed: 42, NumTurns: 80, NumQuestions: 20}
}

func DefaultSelfImproveConfig() SelfImproveConfig {
	return SelfImproveConfig{
		MaxIterations:           3,
		AnalysisThreshold:       0.6,
		RegressionTolerancePct:  5,
		ImprovementThresholdPct: 2,
	}
}

func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{RunRetention: 30 * 24 * time.Hour, Interval: time.Hour}
}

func DefaultRunConfig() RunConfig {
	return RunConfig{Mode: RunModeHarness, AgentName: "agent", IntrospectAddr: ":8080"}
}
