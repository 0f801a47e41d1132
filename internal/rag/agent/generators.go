package agent

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/anveshk/workflowgen/internal/config"
	"github.com/anveshk/workflowgen/internal/rag/llm"
	"github.com/anveshk/workflowgen/internal/rag/ragerr"
)

// Both generators are terminal nodes. They accept empty context
// without failing - the completion model is instructed to answer from
// context only, so with nothing retrieved it states that it has no
// information rather than the generator raising.

type QAGenerator struct {
	provider llm.Provider
}

func NewQAGenerator(p llm.Provider) *QAGenerator {
	return &QAGenerator{provider: p}
}

func (g *QAGenerator) Node(ctx context.Context, s State) (Update, error) {
	prompt := fmt.Sprintf(config.QAPromptTemplate, s.Context, s.Question)

	answer, err := generate(ctx, g.provider, prompt)
	if err != nil {
		return Update{}, fmt.Errorf("qa generation: %w", err)
	}
	return Update{Answer: &answer}, nil
}

type SummaryGenerator struct {
	provider llm.Provider
}

func NewSummaryGenerator(p llm.Provider) *SummaryGenerator {
	return &SummaryGenerator{provider: p}
}

func (g *SummaryGenerator) Node(ctx context.Context, s State) (Update, error) {
	// the question is deliberately not part of the summary prompt
	contextText := s.Context
	if len(contextText) > config.SummaryMaxContextChars {
		cut := config.SummaryMaxContextChars
		// back off to a rune boundary so the prompt stays valid UTF-8
		for cut > 0 && !utf8.RuneStart(contextText[cut]) {
			cut--
		}
		contextText = contextText[:cut]
	}
	prompt := fmt.Sprintf(config.SummaryPromptTemplate, contextText)

	summary, err := generate(ctx, g.provider, prompt)
	if err != nil {
		return Update{}, fmt.Errorf("summary generation: %w", err)
	}
	answer := config.SummaryLabel + summary
	return Update{Answer: &answer}, nil
}

func generate(ctx context.Context, p llm.Provider, prompt string) (string, error) {
	var text string
	err := ragerr.Retry(ctx, config.UpstreamMaxRetries, config.UpstreamRetryBackoff, func() error {
		var callErr error
		text, callErr = p.Generate(ctx, prompt)
		return callErr
	})
	return text, err
}
