package harness

import (
	"context"

	"github.com/open-cogeval/cogeval/pkg/agentproto"
	"github.com/open-cogeval/cogeval/pkg/catalog"
)

// AgentRunner is the subset of agentproto.Runner the harness depends
// on, so tests can substitute a fake without spawning real processes.
type AgentRunner interface {
	Invoke(ctx context.Context, req agentproto.Request) (*agentproto.Response, error)
}

func toArticleInputs(articles []catalog.TestArticle) []agentproto.ArticleInput {
	out := make([]agentproto.ArticleInput, 0, len(articles))
	for _, a := range articles {
		out = append(out, agentproto.ArticleInput{
			Title:     a.Title,
			Content:   a.Content,
			URL:       a.URL,
			Published: a.Published.UTC().Format("2006-01-02T15:04:05Z07:00"),
			Metadata:  a.Metadata,
		})
	}
	return out
}

func toQuestionInputs(questions []catalog.TestQuestion) []agentproto.QuestionInput {
	out := make([]agentproto.QuestionInput, 0, len(questions))
	for _, q := range questions {
		out = append(out, agentproto.QuestionInput{
			Question:      q.Question,
			ReasoningType: string(q.ReasoningType),
		})
	}
	return out
}
