package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/anveshk/workflowgen/internal/config"
	"github.com/anveshk/workflowgen/internal/metrics"
	"github.com/anveshk/workflowgen/internal/rag/llm"
	"github.com/anveshk/workflowgen/internal/rag/ragerr"
	"github.com/anveshk/workflowgen/pkg/applog"
)

// Router classifies the question into one of the two intents with a
// schema-constrained completion call.
//
// Fail-open contract: a response that cannot be parsed resolves to
// IntentQA so a broken classifier can never block the workflow, only
// bias it toward the general answering strategy. Transport failures
// are a different animal - they are retried and, once retries are
// exhausted, surfaced as upstream errors rather than defaulted.
type Router struct {
	provider llm.Provider
	logger   *applog.Logger
}

func NewRouter(p llm.Provider) *Router {
	return &Router{provider: p, logger: applog.NewLogger("IntentRouter")}
}

func (r *Router) Node(ctx context.Context, s State) (Update, error) {
	log := r.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if s.IntentResolved() {
		log.Debug("Intent pre-resolved, skipping classification", "intent", s.Intent.String())
		return Update{}, nil
	}

	prompt := fmt.Sprintf(config.RouterPromptTemplate, s.Question)

	var decision llm.Decision
	err := ragerr.Retry(ctx, config.UpstreamMaxRetries, config.UpstreamRetryBackoff, func() error {
		var callErr error
		decision, callErr = r.provider.GenerateStructured(ctx, prompt)
		return callErr
	})
	if err != nil {
		if errors.Is(err, llm.ErrMalformedDecision) {
			log.Warn("Classifier output unusable, defaulting to qa", "error", err)
			intent := IntentQA
			metrics.CaptureIntentResolution(intent.String(), true)
			return Update{Intent: &intent}, nil
		}
		return Update{}, fmt.Errorf("intent classification: %w", err)
	}

	intent := ResolveIntent(decision.Category)
	log.Debug("Intent resolved", "intent", intent.String(), "reasoning", decision.Reasoning)
	metrics.CaptureIntentResolution(intent.String(), false)
	return Update{Intent: &intent}, nil
}
