package embedding

import "context"

// Kind distinguishes query-time embeddings from ingestion-time ones.
// The embedding services treat the two task types asymmetrically, so
// the caller must say which side of retrieval it is on.
type Kind string

const (
	KindDocument Kind = "RETRIEVAL_DOCUMENT"
	KindQuery    Kind = "RETRIEVAL_QUERY"
)

type Embedder interface {
	GetEmbedding(ctx context.Context, text string, kind Kind) ([]float32, error)
	// BatchEmbedding embeds ingestion chunks (document kind).
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}
