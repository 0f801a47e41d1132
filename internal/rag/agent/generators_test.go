package agent

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/anveshk/workflowgen/internal/config"
	"github.com/anveshk/workflowgen/internal/rag/llm"
)

type promptCapturingProvider struct {
	prompt string
}

func (p *promptCapturingProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.prompt = prompt
	return "generated", nil
}

func (p *promptCapturingProvider) GenerateStructured(ctx context.Context, prompt string) (llm.Decision, error) {
	return llm.Decision{Category: "qa"}, nil
}

func TestSummaryGenerator_TruncatesOnRuneBoundary(t *testing.T) {
	// a multi-byte rune straddles the truncation bound
	ctxText := strings.Repeat("a", config.SummaryMaxContextChars-2) + "日日"
	s, err := NewState("q", "").merge(Update{Context: &ctxText})
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	provider := &promptCapturingProvider{}
	g := NewSummaryGenerator(provider)

	update, err := g.Node(context.Background(), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !utf8.ValidString(provider.prompt) {
		t.Error("summary prompt contains invalid UTF-8")
	}
	if strings.Contains(provider.prompt, "日") {
		t.Error("rune past the truncation bound leaked into the prompt")
	}
	if update.Answer == nil || !strings.HasPrefix(*update.Answer, config.SummaryLabel) {
		t.Error("summary answer missing its label")
	}
}

func TestSummaryGenerator_ShortContextUntouched(t *testing.T) {
	ctxText := "short context, well under the bound"
	s, err := NewState("q", "").merge(Update{Context: &ctxText})
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	provider := &promptCapturingProvider{}
	if _, err := NewSummaryGenerator(provider).Node(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(provider.prompt, ctxText) {
		t.Error("short context must pass through whole")
	}
}
