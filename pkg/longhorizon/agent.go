package longhorizon

import (
	"context"

	"github.com/open-cogeval/cogeval/pkg/agentproto"
)

// Agent is the in-process shape every long-horizon subject exposes,
// per spec.md §6's four required agent operations: learn, answer,
// memory stats, close. MemoryStats is best-effort and its failures are
// ignored by the evaluator rather than aborting the run.
type Agent interface {
	Learn(ctx context.Context, content string) error
	Answer(ctx context.Context, question string) (answer string, trace string, err error)
	MemoryStats(ctx context.Context) (map[string]any, error)
	Close() error
}

// SubprocessAgent adapts the same subprocess protocol the progressive
// harness uses (pkg/agentproto) to the long-horizon Agent interface:
// one subprocess invocation per Learn/Answer call, each carrying a
// single article or question. This keeps cross-call isolation
// identical to the harness's cross-level isolation — no agent state
// leaks between invocations except whatever the subprocess persists to
// its own storage path.
type SubprocessAgent struct {
	Runner    *agentproto.Runner
	AgentName string
}

func (a *SubprocessAgent) Learn(ctx context.Context, content string) error {
	_, err := a.Runner.Invoke(ctx, agentproto.Request{
		Phase:     agentproto.PhaseLearning,
		AgentName: a.AgentName,
		Articles:  []agentproto.ArticleInput{{Content: content}},
	})
	return err
}

func (a *SubprocessAgent) Answer(ctx context.Context, question string) (string, string, error) {
	resp, err := a.Runner.Invoke(ctx, agentproto.Request{
		Phase:     agentproto.PhaseTesting,
		AgentName: a.AgentName,
		Questions: []agentproto.QuestionInput{{Question: question}},
	})
	if err != nil {
		return "", "", err
	}
	for _, pair := range resp.Answers {
		if pair.Question == question {
			return pair.Answer, "", nil
		}
	}
	if len(resp.Answers) > 0 {
		return resp.Answers[0].Answer, "", nil
	}
	return "", "", nil
}

// MemoryStats is not part of the subprocess wire protocol (spec.md §4.4
// describes only learning/testing phases); a subprocess-backed agent
// has no channel to report it, so it always returns an empty map. The
// evaluator treats this the same as any other best-effort failure.
func (a *SubprocessAgent) MemoryStats(ctx context.Context) (map[string]any, error) {
	return map[string]any{}, nil
}

// Close is a no-op: the subprocess protocol is one-shot per call, there
// is no persistent process to release.
func (a *SubprocessAgent) Close() error { return nil }
