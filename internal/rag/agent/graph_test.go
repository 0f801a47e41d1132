package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/anveshk/workflowgen/pkg/applog"
)

func stubGraph(route Node, qa Node, summary Node) *Graph {
	ctxVal := "ctx"
	return &Graph{
		retrieve: func(ctx context.Context, s State) (Update, error) {
			return Update{Context: &ctxVal, Sources: []string{"doc#chunk-0"}}, nil
		},
		route:           route,
		generateQA:      qa,
		generateSummary: summary,
		logger:          applog.NewLogger("WorkflowGraph"),
	}
}

func answerNode(answer string) Node {
	return func(ctx context.Context, s State) (Update, error) {
		return Update{Answer: &answer}, nil
	}
}

func intentNode(intent Intent) Node {
	return func(ctx context.Context, s State) (Update, error) {
		return Update{Intent: &intent}, nil
	}
}

func TestRun_BranchesOnIntent(t *testing.T) {
	tests := []struct {
		name       string
		intent     Intent
		wantAnswer string
	}{
		{"QA_Branch", IntentQA, "qa answer"},
		{"Summary_Branch", IntentSummary, "summary answer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := stubGraph(intentNode(tt.intent), answerNode("qa answer"), answerNode("summary answer"))

			final, err := g.Run(context.Background(), NewState("q", ""))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if final.Answer != tt.wantAnswer {
				t.Errorf("Answer got %q, want %q", final.Answer, tt.wantAnswer)
			}
			if final.Intent != tt.intent {
				t.Errorf("Intent got %v, want %v", final.Intent, tt.intent)
			}
			if final.Context == "" {
				t.Error("retrieval context missing from final state")
			}
		})
	}
}

func TestRun_PreResolvedIntentSkipsRoute(t *testing.T) {
	routeCalled := false
	route := func(ctx context.Context, s State) (Update, error) {
		routeCalled = true
		if s.IntentResolved() {
			return Update{}, nil
		}
		intent := IntentQA
		return Update{Intent: &intent}, nil
	}

	g := stubGraph(route, answerNode("qa"), answerNode("summary"))

	final, err := g.Run(context.Background(), NewResolvedState("q", "doc-1", IntentSummary))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !routeCalled {
		t.Error("route node must still run, even as a no-op")
	}
	if final.Answer != "summary" {
		t.Errorf("Answer got %q, want summary branch", final.Answer)
	}
}

func TestRun_NodeErrorStopsWalk(t *testing.T) {
	boom := errors.New("boom")
	route := func(ctx context.Context, s State) (Update, error) {
		return Update{}, boom
	}
	generated := false
	qa := func(ctx context.Context, s State) (Update, error) {
		generated = true
		return Update{}, nil
	}

	g := stubGraph(route, qa, qa)

	if _, err := g.Run(context.Background(), NewState("q", "")); !errors.Is(err, boom) {
		t.Fatalf("expected node error, got %v", err)
	}
	if generated {
		t.Error("generation ran after an earlier node failed")
	}
}

func TestRun_UnresolvedIntentIsAnError(t *testing.T) {
	route := func(ctx context.Context, s State) (Update, error) {
		return Update{}, nil
	}

	g := stubGraph(route, answerNode("qa"), answerNode("summary"))

	if _, err := g.Run(context.Background(), NewState("q", "")); err == nil {
		t.Fatal("route returning no intent must fail the run")
	}
}

func TestNext_Transitions(t *testing.T) {
	intent := IntentQA
	s, _ := NewState("q", "").merge(Update{Intent: &intent})

	step, err := next(StepRetrieve, s)
	if err != nil || step != StepRoute {
		t.Errorf("retrieve -> got %v, %v", step, err)
	}
	step, err = next(StepRoute, s)
	if err != nil || step != StepGenerateQA {
		t.Errorf("route(qa) -> got %v, %v", step, err)
	}
	step, err = next(StepGenerateQA, s)
	if err != nil || step != StepDone {
		t.Errorf("generate_qa -> got %v, %v", step, err)
	}

	summary := NewResolvedState("q", "", IntentSummary)
	step, err = next(StepRoute, summary)
	if err != nil || step != StepGenerateSummary {
		t.Errorf("route(summary) -> got %v, %v", step, err)
	}
	step, err = next(StepGenerateSummary, summary)
	if err != nil || step != StepDone {
		t.Errorf("generate_summary -> got %v, %v", step, err)
	}
}
