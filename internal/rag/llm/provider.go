package llm

import (
	"context"
	"errors"
)

// Decision is the schema-constrained classification result. Structured
// generation is used instead of free text so the router never has to
// guess at parsing.
type Decision struct {
	Category  string `json:"category"`
	Reasoning string `json:"reasoning"`
}

// ErrMalformedDecision wraps responses that arrived but could not be
// parsed into a Decision. Callers treat it differently from transport
// failures: a malformed decision is absorbed by the fail-open default,
// a transport failure is retried.
var ErrMalformedDecision = errors.New("malformed router decision")

type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateStructured(ctx context.Context, prompt string) (Decision, error)
}
