package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"context"

	"github.com/anveshk/workflowgen/internal/config"
	"github.com/anveshk/workflowgen/internal/domain/docmodel"
	"github.com/anveshk/workflowgen/internal/rag/embedding"
	"github.com/anveshk/workflowgen/internal/rag/ragerr"
	"github.com/anveshk/workflowgen/internal/rag/vectorDB"
	"golang.org/x/sync/errgroup"
)

func getDocType(docPath string) docmodel.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return docmodel.PDF
	case ".docx", ".rtf", ".odt":
		return docmodel.DOCX
	case ".txt":
		return docmodel.TXT
	default:
		return docmodel.ERR
	}
}

func extractText(path string, contentType docmodel.DocType) ([]rawPage, error) {
	switch contentType {
	case docmodel.PDF:
		return extractPDF(path)
	case docmodel.DOCX, docmodel.TXT:
		return extractDocxTxtRtf(path)
	default:
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}
}

// BatchIngest embeds and upserts chunks in batches, with a bounded
// number of batches in flight at once. Chunk order in the index is
// carried by the chunk_index payload field, never by completion order,
// so parallel batches are safe.
func BatchIngest(ctx context.Context, chunks []docmodel.DocChunk, vectorDatabase vectorDB.DataProcessor, embedder embedding.Embedder) error {
	log := ingestLogger().With("traceId", ctx.Value(config.TRACE_ID_KEY))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(config.IngestEmbedConcurrency)

	batches := 0
	for i := 0; i < len(chunks); i += config.IngestBatchSize {
		end := i + config.IngestBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		currentBatch := chunks[i:end]
		batches++

		group.Go(func() error {
			texts := make([]string, 0, len(currentBatch))
			for _, c := range currentBatch {
				texts = append(texts, c.Text)
			}

			var vectors [][]float32
			err := ragerr.Retry(groupCtx, config.UpstreamMaxRetries, config.UpstreamRetryBackoff, func() error {
				var callErr error
				vectors, callErr = embedder.BatchEmbedding(groupCtx, texts)
				return callErr
			})
			if err != nil {
				return fmt.Errorf("embedding batch failed: %w", err)
			}

			err = ragerr.Retry(groupCtx, config.UpstreamMaxRetries, config.UpstreamRetryBackoff, func() error {
				return vectorDatabase.UpsertBatch(groupCtx, config.DocumentCollectionName, currentBatch, vectors)
			})
			if err != nil {
				return fmt.Errorf("upserting batch failed: %w", err)
			}
			return nil
		})
	}

	log.Debug("Batch ingestion dispatched", "batches", batches, "chunks", len(chunks))
	return group.Wait()
}
