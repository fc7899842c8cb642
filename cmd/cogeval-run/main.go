// cogeval-run wires up the configured evaluation mode and runs it to
// completion. It is a thin wiring main — argument parsing stays
// external (per spec.md §1); everything here is config-driven.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/open-cogeval/cogeval/internal/artifact"
	"github.com/open-cogeval/cogeval/pkg/agentproto"
	"github.com/open-cogeval/cogeval/pkg/catalog"
	"github.com/open-cogeval/cogeval/pkg/config"
	"github.com/open-cogeval/cogeval/pkg/grader"
	"github.com/open-cogeval/cogeval/pkg/harness"
	"github.com/open-cogeval/cogeval/pkg/introspect"
	"github.com/open-cogeval/cogeval/pkg/longhorizon"
	"github.com/open-cogeval/cogeval/pkg/matrix"
	"github.com/open-cogeval/cogeval/pkg/memorystore/pgstore"
	"github.com/open-cogeval/cogeval/pkg/retention"
	"github.com/open-cogeval/cogeval/pkg/selfimprove"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := getEnv("CONFIG_DIR", "./deploy/config")

	envPath := filepath.Join(configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("warning: could not load %s: %v", envPath, err)
		log.Printf("continuing with existing environment variables")
	} else {
		log.Printf("loaded environment from %s", envPath)
	}

	ctx := context.Background()

	cfg, err := config.Initialize(ctx, configDir)
	if err != nil {
		log.Fatalf("failed to initialize configuration: %v", err)
	}

	introspectSrv := introspect.NewServer()
	gin.SetMode(gin.ReleaseMode)
	if cfg.Run.IntrospectAddr != "" {
		go func() {
			if err := introspectSrv.Start(cfg.Run.IntrospectAddr); err != nil {
				slog.Warn("introspection server stopped", "error", err)
			}
		}()
		log.Printf("introspection endpoints on %s", cfg.Run.IntrospectAddr)
	}

	if cfg.Memory.Enabled() {
		store, err := pgstore.Open(ctx, cfg.Memory.ToPgstoreConfig())
		if err != nil {
			log.Fatalf("failed to open memory store: %v", err)
		}
		defer store.Close()
		log.Println("connected to postgres-backed memory store")
	}

	retentionSvc := retention.NewService(retention.Config{
		RunRetention: cfg.Retention.RunRetention,
		Interval:     cfg.Retention.Interval,
		OutputDir:    cfg.Harness.OutputDir,
	})
	retentionSvc.Start(ctx)
	defer retentionSvc.Stop()

	chatClient, err := grader.NewHTTPChatClient(cfg.Grader.Model, "")
	if err != nil {
		log.Fatalf("failed to build grader client: %v", err)
	}
	g := grader.New(chatClient, cfg.Grader.Model)

	agentRunner := agentproto.NewRunner(cfg.Harness.AgentCommand[0], cfg.Harness.AgentCommand[1:], 5*time.Minute)

	registry := catalog.BuiltinRegistry()
	levelIDs := levelIDsFrom(cfg.Harness.Levels)

	switch cfg.Run.Mode {
	case config.RunModeSelfImprove:
		runSelfImprove(ctx, cfg, registry, g, agentRunner, levelIDs, introspectSrv)
	case config.RunModeMatrix:
		runMatrix(ctx, cfg, g, introspectSrv)
	default:
		runHarness(ctx, cfg, registry, g, agentRunner, levelIDs, introspectSrv)
	}
}

func levelIDsFrom(levels []string) []catalog.LevelID {
	if len(levels) == 0 {
		return nil
	}
	ids := make([]catalog.LevelID, len(levels))
	for i, l := range levels {
		ids[i] = catalog.LevelID(l)
	}
	return ids
}

func runHarness(ctx context.Context, cfg *config.Config, registry *catalog.Registry, g *grader.Grader, agentRunner *agentproto.Runner, levelIDs []catalog.LevelID, introspectSrv *introspect.Server) {
	h := harness.New(registry, g, agentRunner, cfg.Harness.OutputDir)
	result, err := h.Run(ctx, cfg.Run.AgentName, levelIDs)
	if err != nil {
		log.Fatalf("harness run failed: %v", err)
	}
	introspectSrv.SetHarnessResult(result)

	if err := artifact.WriteJSON(filepath.Join(cfg.Harness.OutputDir, "summary.json"), result); err != nil {
		log.Fatalf("failed to write summary: %v", err)
	}
	log.Printf("harness run complete: overall=%.3f pass_rate=%.3f", result.OverallScore, result.PassRate)
}

func runSelfImprove(ctx context.Context, cfg *config.Config, registry *catalog.Registry, g *grader.Grader, agentRunner *agentproto.Runner, levelIDs []catalog.LevelID, introspectSrv *introspect.Server) {
	runner := selfimprove.New(registry, g, agentRunner, cfg.Harness.OutputDir, levelIDs, cfg.SelfImprove.MaxIterations)
	runner.AnalysisThreshold = cfg.SelfImprove.AnalysisThreshold
	runner.RegressionTolerance = cfg.SelfImprove.RegressionTolerancePct
	runner.ImprovementThreshold = cfg.SelfImprove.ImprovementThresholdPct

	result, err := runner.Run(ctx)
	if err != nil {
		log.Fatalf("self-improvement run failed: %v", err)
	}
	introspectSrv.SetSelfImproveResult(result)

	if err := artifact.WriteJSON(filepath.Join(cfg.Harness.OutputDir, "self_improve_summary.json"), result); err != nil {
		log.Fatalf("failed to write summary: %v", err)
	}
	log.Printf("self-improvement run complete: final_overall=%.3f iterations=%d should_fail=%v",
		result.FinalOverall, len(result.Iterations), result.ShouldFail())
}

// runMatrix compares the single configured agent command against
// itself under the long-horizon evaluator. Comparing genuinely
// distinct agent binaries requires more than one configured command,
// which cmd/cogeval-run's single-command HarnessConfig does not carry;
// this still exercises the full matrix.Runner/ranking path.
func runMatrix(ctx context.Context, cfg *config.Config, g *grader.Grader, introspectSrv *introspect.Server) {
	evaluator := longhorizon.New(g)
	runner := matrix.New(evaluator, cfg.Harness.OutputDir, cfg.Dialogue.NumTurns, cfg.Dialogue.Seed, cfg.Dialogue.NumQuestions)

	binary := cfg.Harness.AgentCommand[0]
	baseArgs := cfg.Harness.AgentCommand[1:]

	configs := []matrix.AgentConfig{
		{
			Name: cfg.Run.AgentName,
			New: func(storagePath string) (longhorizon.Agent, error) {
				args := append(append([]string{}, baseArgs...), "--storage-path", storagePath)
				return &longhorizon.SubprocessAgent{
					Runner:    agentproto.NewRunner(binary, args, 5*time.Minute),
					AgentName: cfg.Run.AgentName,
				}, nil
			},
		},
	}

	report, err := runner.Run(ctx, configs)
	if err != nil {
		log.Fatalf("matrix run failed: %v", err)
	}
	introspectSrv.SetMatrixResult(report)

	if err := matrix.WriteReport(cfg.Harness.OutputDir, report); err != nil {
		log.Fatalf("failed to write matrix report: %v", err)
	}
	log.Printf("matrix run complete: ranking=%v", report.Ranking)
}
