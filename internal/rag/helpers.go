package rag

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/anveshk/workflowgen/internal/config"
	"github.com/anveshk/workflowgen/internal/domain/jobmodel"
	"github.com/anveshk/workflowgen/internal/metrics"
	"github.com/anveshk/workflowgen/internal/rag/agent"
	"github.com/anveshk/workflowgen/internal/rag/embedding"
	"github.com/anveshk/workflowgen/internal/rag/ragerr"
)

func validateQuestion(question string) error {
	if strings.TrimSpace(question) == "" {
		return ragerr.Validation("question is empty")
	}
	return nil
}

// requireDocument enforces that a referenced document exists. An empty
// id means "search everything" and is always fine.
func (s *service) requireDocument(ctx context.Context, documentId string) error {
	if documentId == "" {
		return nil
	}
	if _, found := s.documents.GetDocument(ctx, documentId); !found {
		return ragerr.NotFound("document", documentId)
	}
	return nil
}

func toResult(final agent.State) Result {
	return Result{
		Question: final.Question,
		Answer:   final.Answer,
		Sources:  final.Sources,
		Intent:   final.Intent.String(),
	}
}

func returnOutput(job jobmodel.Job, res Result) jobmodel.Job {
	job.JobPayload.Answer = res.Answer
	job.JobPayload.Sources = res.Sources
	job.JobPayload.Intent = res.Intent
	job.CurrentStep = jobmodel.Complete
	return job
}

// jobError maps the error taxonomy onto the job envelope. Validation
// and not-found failures are the caller's fault and never retried;
// upstream failures already burned their in-process retries, so the
// flag tells a future scheduler a re-run might still help.
func (s *service) jobError(job jobmodel.Job, err error) jobmodel.Job {
	code := http.StatusInternalServerError
	message := "Internal Server Error"
	canRetry := true

	switch {
	case ragerr.IsValidation(err):
		code = http.StatusBadRequest
		message = err.Error()
		canRetry = false
	case ragerr.IsNotFound(err):
		code = http.StatusNotFound
		message = err.Error()
		canRetry = false
	case ragerr.IsUpstream(err):
		code = http.StatusBadGateway
		message = "Upstream dependency failed"
	}

	job.Error = jobmodel.JobError{
		Code:    code,
		Message: message,
		Retry:   canRetry,
	}
	job.Status = jobmodel.JobStatusError
	job.CurrentStep = jobmodel.Error
	return job
}

func (s *service) executeEmbeddingStep(ctx context.Context, question string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	var queryVector []float32
	err := ragerr.Retry(ctx, config.UpstreamMaxRetries, config.UpstreamRetryBackoff, func() error {
		var callErr error
		queryVector, callErr = s.embedder.GetEmbedding(ctx, question, embedding.KindQuery)
		return callErr
	})
	return queryVector, err
}

func (s *service) executeCacheCheckStep(ctx context.Context, queryVector []float32) (string, bool) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	answer, found, err := s.vectorDB.GetCachedAnswer(ctx, queryVector)
	if err != nil {
		// A dead cache never blocks the query path.
		s.logger.Error("Cache lookup failed", "error", err)
		return "", false
	}
	return answer, found
}
