package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/anveshk/workflowgen/internal/config"
	"github.com/anveshk/workflowgen/internal/rag/embedding"
	"github.com/anveshk/workflowgen/internal/rag/ragerr"
	"github.com/anveshk/workflowgen/internal/rag/vectorDB"
	"github.com/anveshk/workflowgen/pkg/applog"
)

// Retriever embeds the question (query kind), asks the vector index
// for the k nearest chunks and assembles the ranked context text. An
// empty index is not an error: the context is simply empty and the
// generators handle the "no information" case themselves.
type Retriever struct {
	embedder embedding.Embedder
	index    vectorDB.DataProcessor
	topK     int
	logger   *applog.Logger
}

func NewRetriever(e embedding.Embedder, index vectorDB.DataProcessor, topK int) *Retriever {
	if topK <= 0 {
		topK = config.RetrieverTopK
	}
	return &Retriever{
		embedder: e,
		index:    index,
		topK:     topK,
		logger:   applog.NewLogger("Retriever"),
	}
}

func (r *Retriever) Node(ctx context.Context, s State) (Update, error) {
	log := r.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	var vector []float32
	err := ragerr.Retry(ctx, config.UpstreamMaxRetries, config.UpstreamRetryBackoff, func() error {
		var callErr error
		vector, callErr = r.embedder.GetEmbedding(ctx, s.Question, embedding.KindQuery)
		return callErr
	})
	if err != nil {
		return Update{}, fmt.Errorf("question embedding: %w", err)
	}

	var matches []vectorDB.Match
	err = ragerr.Retry(ctx, config.UpstreamMaxRetries, config.UpstreamRetryBackoff, func() error {
		var callErr error
		matches, callErr = r.index.TopK(ctx, vector, r.topK, s.DocumentId)
		return callErr
	})
	if err != nil {
		return Update{}, fmt.Errorf("vector query: %w", err)
	}

	// qdrant ranks by distance; equidistant hits get a deterministic
	// secondary order by chunk index
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].ChunkIndex < matches[j].ChunkIndex
	})

	texts := make([]string, 0, len(matches))
	sources := make([]string, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, m.Text)
		sources = append(sources, fmt.Sprintf("%s#chunk-%d", m.DocTitle, m.ChunkIndex))
	}

	log.Debug("Retrieved context", "matches", len(matches))
	contextText := strings.Join(texts, "\n\n")
	return Update{Context: &contextText, Sources: sources}, nil
}
