package ingest

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/anveshk/workflowgen/internal/adapter/utils"
	"github.com/anveshk/workflowgen/internal/config"
	"github.com/anveshk/workflowgen/internal/domain/docmodel"
	"github.com/anveshk/workflowgen/internal/rag/chunker"
	"github.com/anveshk/workflowgen/internal/rag/embedding"
	"github.com/anveshk/workflowgen/internal/rag/ragerr"
	"github.com/anveshk/workflowgen/internal/rag/vectorDB"
	"github.com/anveshk/workflowgen/pkg/applog"
)

var (
	logger     *applog.Logger
	loggerOnce sync.Once
)

// ingestLogger defers construction past applog.Init in main; workers
// run ingestion concurrently, so the var is written exactly once.
func ingestLogger() *applog.Logger {
	loggerOnce.Do(func() { logger = applog.NewLogger("Document Ingestion") })
	return logger
}

// ProcessTextIngestion creates a Document with its chunks and vectors
// from raw text. Text that is blank after trimming is rejected with a
// ValidationError and nothing is persisted.
func ProcessTextIngestion(ctx context.Context, title string, text string, e embedding.Embedder, vectorDatabase vectorDB.DataProcessor, docs docmodel.DocumentStore) (docmodel.Document, error) {
	log := ingestLogger().With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if strings.TrimSpace(title) == "" {
		return docmodel.Document{}, ragerr.Validation("document title is empty")
	}
	if strings.TrimSpace(text) == "" {
		return docmodel.Document{}, ragerr.Validation("document has no extractable text")
	}

	if err := vectorDatabase.CreateCollection(ctx, config.DocumentCollectionName); err != nil {
		log.Error("Error creating collection", "error", err)
		return docmodel.Document{}, ragerr.Upstream("qdrant", err)
	}

	doc := docmodel.Document{
		Id:        utils.GetNewUUID(),
		Title:     title,
		Text:      text,
		CreatedAt: time.Now(),
	}

	chunks := chunker.New(config.ChunkWindowSize).Split(doc)
	for i := range chunks {
		chunks[i].ChunkId = utils.GetNewUUID()
	}
	log.Debug("Processing document", "title", title, "chunks", len(chunks))

	if err := BatchIngest(ctx, chunks, vectorDatabase, e); err != nil {
		log.Error("Error processing document", "error", err)
		return docmodel.Document{}, err
	}

	if err := docs.SaveDocument(ctx, doc); err != nil {
		log.Error("Error saving document record", "error", err)
		return docmodel.Document{}, err
	}
	return doc, nil
}

// ProcessFileIngestion extracts text from an uploaded PDF/DOCX/TXT
// file and hands it to the raw-text pipeline. The temporary upload is
// removed afterwards.
func ProcessFileIngestion(ctx context.Context, docName string, docPath string, e embedding.Embedder, vectorDatabase vectorDB.DataProcessor, docs docmodel.DocumentStore) (docmodel.Document, error) {
	log := ingestLogger().With("traceId", ctx.Value(config.TRACE_ID_KEY))
	log.Debug("Processing document", "filename", docName, "path", docPath)

	docType := getDocType(docPath)
	if docType == docmodel.ERR {
		return docmodel.Document{}, ragerr.Validation("unsupported document format")
	}

	rawPages, err := extractText(docPath, docType)
	if err != nil {
		log.Error("Error extracting document content", "error", err)
		return docmodel.Document{}, ragerr.Validation("could not extract document content")
	}

	contents := make([]string, 0, len(rawPages))
	for _, page := range rawPages {
		contents = append(contents, page.Content)
	}

	doc, err := ProcessTextIngestion(ctx, docName, strings.Join(contents, "\n"), e, vectorDatabase, docs)
	if err != nil {
		return docmodel.Document{}, err
	}

	if err := os.Remove(docPath); err != nil {
		log.Error("Error removing uploaded file", "error", err)
	}
	return doc, nil
}
