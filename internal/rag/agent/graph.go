package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/anveshk/workflowgen/internal/config"
	"github.com/anveshk/workflowgen/internal/metrics"
	"github.com/anveshk/workflowgen/internal/rag/embedding"
	"github.com/anveshk/workflowgen/internal/rag/llm"
	"github.com/anveshk/workflowgen/internal/rag/vectorDB"
	"github.com/anveshk/workflowgen/pkg/applog"
)

// Step is a position in the workflow graph.
//
//	Retrieve -> Route -> {GenerateQA | GenerateSummary} -> Done
//
// Retrieve always runs first so context exists before any
// classification-dependent generation, even for summary-only runs.
type Step int

const (
	StepRetrieve Step = iota
	StepRoute
	StepGenerateQA
	StepGenerateSummary
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepRetrieve:
		return "retrieve"
	case StepRoute:
		return "route"
	case StepGenerateQA:
		return "generate_qa"
	case StepGenerateSummary:
		return "generate_summary"
	default:
		return "done"
	}
}

// Node executes one component against the current accumulator and
// returns a partial update for the engine to merge.
type Node func(ctx context.Context, s State) (Update, error)

type Graph struct {
	retrieve        Node
	route           Node
	generateQA      Node
	generateSummary Node
	logger          *applog.Logger
}

func New(e embedding.Embedder, index vectorDB.DataProcessor, provider llm.Provider) *Graph {
	return &Graph{
		retrieve:        NewRetriever(e, index, config.RetrieverTopK).Node,
		route:           NewRouter(provider).Node,
		generateQA:      NewQAGenerator(provider).Node,
		generateSummary: NewSummaryGenerator(provider).Node,
		logger:          applog.NewLogger("WorkflowGraph"),
	}
}

// Run walks the graph from Retrieve to Done with a private copy of
// the accumulator. Each query gets its own run; nothing is shared
// between concurrent runs.
func (g *Graph) Run(ctx context.Context, initial State) (State, error) {
	log := g.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	s := initial
	for step := StepRetrieve; step != StepDone; {
		node := g.node(step)

		start := time.Now()
		update, err := node(ctx, s)
		metrics.CaptureExecutionMetrics("graph_"+step.String(), time.Since(start))
		if err != nil {
			return s, fmt.Errorf("node %s: %w", step, err)
		}

		s, err = s.merge(update)
		if err != nil {
			return s, fmt.Errorf("node %s: %w", step, err)
		}
		log.Debug("Node finished", "step", step.String())

		step, err = next(step, s)
		if err != nil {
			return s, err
		}
	}
	return s, nil
}

func (g *Graph) node(step Step) Node {
	switch step {
	case StepRoute:
		return g.route
	case StepGenerateQA:
		return g.generateQA
	case StepGenerateSummary:
		return g.generateSummary
	default:
		return g.retrieve
	}
}

// next is the only branch point. The switch over Intent is exhaustive:
// the enum has exactly two members and everything the classifier emits
// was already normalized into one of them.
func next(step Step, s State) (Step, error) {
	switch step {
	case StepRetrieve:
		return StepRoute, nil
	case StepRoute:
		if !s.IntentResolved() {
			return StepDone, fmt.Errorf("route finished without resolving intent")
		}
		switch s.Intent {
		case IntentSummary:
			return StepGenerateSummary, nil
		case IntentQA:
			return StepGenerateQA, nil
		default:
			return StepDone, fmt.Errorf("intent out of domain: %d", s.Intent)
		}
	case StepGenerateQA, StepGenerateSummary:
		return StepDone, nil
	default:
		return StepDone, nil
	}
}
