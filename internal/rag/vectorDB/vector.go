package vectorDB

import (
	"context"

	"github.com/anveshk/workflowgen/internal/domain/docmodel"
)

// Match is one ranked nearest-neighbor hit. Distance is cosine
// distance, ascending = more similar first.
type Match struct {
	ChunkId    string
	DocId      string
	DocTitle   string
	ChunkIndex int
	Text       string
	Distance   float32
}

type DataProcessor interface {
	// TopK returns the k nearest chunks by ascending distance. An empty
	// docId searches the whole index; otherwise hits are restricted to
	// that document.
	TopK(ctx context.Context, vector []float32, k int, docId string) ([]Match, error)

	GetCachedAnswer(ctx context.Context, queryVector []float32) (string, bool, error)
	SaveToCache(ctx context.Context, id string, vector []float32, answer string) error

	// ingestion path
	CreateCollection(ctx context.Context, collectionName string) error
	UpsertBatch(ctx context.Context, collectionName string, chunks []docmodel.DocChunk, vectors [][]float32) error

	// DeleteByDocument removes every point owned by the document
	// (cascading ownership - chunks die with their document).
	DeleteByDocument(ctx context.Context, docId string) error
}
