package rag

import (
	"context"
	"time"

	"github.com/anveshk/workflowgen/internal/adapter/utils"
	"github.com/anveshk/workflowgen/internal/config"
	"github.com/anveshk/workflowgen/internal/domain/docmodel"
	"github.com/anveshk/workflowgen/internal/domain/jobmodel"
	"github.com/anveshk/workflowgen/internal/metrics"
	"github.com/anveshk/workflowgen/internal/rag/agent"
	"github.com/anveshk/workflowgen/internal/rag/embedding"
	"github.com/anveshk/workflowgen/internal/rag/ingest"
	"github.com/anveshk/workflowgen/internal/rag/llm"
	"github.com/anveshk/workflowgen/internal/rag/ragerr"
	"github.com/anveshk/workflowgen/internal/rag/vectorDB"
	"github.com/anveshk/workflowgen/pkg/applog"
)

// Result is the terminal output of one workflow run.
type Result struct {
	Question string
	Answer   string
	Sources  []string
	Intent   string
}

// Service is the only surface the worker, the HTTP handlers and the
// MCP tools call. It hides the vector index, the LLM provider and the
// graph behind document-level operations.
type Service interface {
	Ask(ctx context.Context, question string, documentId string) (Result, error)
	Summarize(ctx context.Context, documentId string) (Result, error)

	IngestText(ctx context.Context, title string, text string) (docmodel.Document, error)
	IngestFile(ctx context.Context, docName string, docPath string) (docmodel.Document, error)
	ListDocuments(ctx context.Context) ([]docmodel.Document, error)
	GetDocument(ctx context.Context, id string) (docmodel.Document, bool)
	DeleteDocument(ctx context.Context, id string) error

	ProcessQuery(ctx context.Context, job jobmodel.Job) jobmodel.Job
	ProcessIngestion(ctx context.Context, job jobmodel.Job) jobmodel.Job
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	documents   docmodel.DocumentStore
	graph       *agent.Graph
	logger      *applog.Logger
}

// NewService wires the graph and its dependencies behind the Service
// interface so callers can swap real clients for mocks in tests.
func NewService(vector vectorDB.DataProcessor, provider llm.Provider, em embedding.Embedder, docs docmodel.DocumentStore) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: provider,
		embedder:    em,
		documents:   docs,
		graph:       agent.New(em, vector, provider),
		logger:      applog.NewLogger("RAG Service"),
	}
}

// Ask answers a free-form question, scoped to one document when
// documentId is non-empty. The semantic cache is consulted before the
// graph runs and fed after it finishes.
func (s *service) Ask(ctx context.Context, question string, documentId string) (Result, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if err := validateQuestion(question); err != nil {
		return Result{}, err
	}
	if err := s.requireDocument(ctx, documentId); err != nil {
		return Result{}, err
	}

	runCtx, cancel := context.WithTimeout(ctx, config.UpstreamCallTimeout)
	defer cancel()

	queryVector, err := s.executeEmbeddingStep(runCtx, question)
	if err != nil {
		return Result{}, err
	}

	if answer, found := s.executeCacheCheckStep(runCtx, queryVector); found {
		log.Debug("Semantic cache hit", "question", question)
		return Result{Question: question, Answer: answer, Intent: agent.IntentQA.String()}, nil
	}

	final, err := s.graph.Run(runCtx, agent.NewState(question, documentId))
	if err != nil {
		return Result{}, err
	}

	if final.Intent == agent.IntentQA {
		go s.saveToCache(queryVector, final.Answer)
	}

	return toResult(final), nil
}

// Summarize runs the graph with the intent pre-resolved, so the
// classifier never gets a vote. The retrieval question is a fixed
// phrase purely to anchor the similarity search.
func (s *service) Summarize(ctx context.Context, documentId string) (Result, error) {
	if documentId == "" {
		return Result{}, ragerr.Validation("document id is required")
	}
	if err := s.requireDocument(ctx, documentId); err != nil {
		return Result{}, err
	}

	runCtx, cancel := context.WithTimeout(ctx, config.UpstreamCallTimeout)
	defer cancel()

	initial := agent.NewResolvedState("Summarize this document.", documentId, agent.IntentSummary)
	final, err := s.graph.Run(runCtx, initial)
	if err != nil {
		return Result{}, err
	}
	return toResult(final), nil
}

func (s *service) IngestText(ctx context.Context, title string, text string) (docmodel.Document, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()
	return ingest.ProcessTextIngestion(ctx, title, text, s.embedder, s.vectorDB, s.documents)
}

func (s *service) IngestFile(ctx context.Context, docName string, docPath string) (docmodel.Document, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()
	return ingest.ProcessFileIngestion(ctx, docName, docPath, s.embedder, s.vectorDB, s.documents)
}

func (s *service) ListDocuments(ctx context.Context) ([]docmodel.Document, error) {
	return s.documents.ListDocuments(ctx)
}

func (s *service) GetDocument(ctx context.Context, id string) (docmodel.Document, bool) {
	return s.documents.GetDocument(ctx, id)
}

// DeleteDocument removes the record and every vector carrying its
// source_doc_id. Vectors go first so a half-finished delete leaves a
// listable document rather than orphaned chunks.
func (s *service) DeleteDocument(ctx context.Context, id string) error {
	if err := s.requireDocument(ctx, id); err != nil {
		return err
	}
	err := ragerr.Retry(ctx, config.UpstreamMaxRetries, config.UpstreamRetryBackoff, func() error {
		return s.vectorDB.DeleteByDocument(ctx, id)
	})
	if err != nil {
		return ragerr.Upstream("qdrant", err)
	}
	s.documents.DeleteDocument(ctx, id)
	return nil
}

// ProcessQuery executes an Ask or Summarize job on behalf of a worker.
func (s *service) ProcessQuery(ctx context.Context, job jobmodel.Job) jobmodel.Job {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", job.Id)

	job.CurrentStep = jobmodel.GraphRun

	var (
		res Result
		err error
	)
	switch job.JobType {
	case jobmodel.JobTypeSummarize:
		res, err = s.Summarize(ctx, job.JobPayload.DocumentId)
	default:
		res, err = s.Ask(ctx, job.JobPayload.Question, job.JobPayload.DocumentId)
	}
	if err != nil {
		log.Error("Query job failed", "error", err)
		return s.jobError(job, err)
	}
	return returnOutput(job, res)
}

// ProcessIngestion executes an Ingest job, from raw text or from an
// uploaded file depending on the payload.
func (s *service) ProcessIngestion(ctx context.Context, job jobmodel.Job) jobmodel.Job {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", job.Id)

	job.CurrentStep = jobmodel.IngestProcessing

	var (
		doc docmodel.Document
		err error
	)
	if job.JobPayload.IngestURL != "" {
		doc, err = s.IngestFile(ctx, job.JobPayload.IngestFileName, job.JobPayload.IngestURL)
	} else {
		doc, err = s.IngestText(ctx, job.JobPayload.IngestTitle, job.JobPayload.IngestText)
	}
	if err != nil {
		log.Error("Ingest job failed", "error", err)
		return s.jobError(job, err)
	}

	job.JobPayload.DocumentId = doc.Id
	job.JobPayload.Answer = "Document ingested: " + doc.Title
	job.CurrentStep = jobmodel.Complete
	return job
}

func (s *service) saveToCache(queryVector []float32, answer string) {
	ctx, cancel := context.WithTimeout(context.Background(), config.UpstreamCallTimeout)
	defer cancel()
	if err := s.vectorDB.SaveToCache(ctx, utils.GetNewUUID(), queryVector, answer); err != nil {
		s.logger.Error("Failed to save answer to cache", "error", err)
	}
}
