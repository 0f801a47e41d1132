package openaiEmbedding

import (
	"context"
	"errors"
	"sync"

	"github.com/anveshk/workflowgen/internal/config"
	"github.com/anveshk/workflowgen/internal/customHttpClient"
	"github.com/anveshk/workflowgen/internal/rag/embedding"
	"github.com/anveshk/workflowgen/internal/rag/ragerr"
	"github.com/anveshk/workflowgen/pkg/applog"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *applog.Logger
var once sync.Once
var embeddingClient *client

var errResultCount = errors.New("embedding response vector count does not match input")

type client struct {
	openAi openai.Client
	model  string
}

// GetOpenAIEmbeddingClient is the alternative to the google embedder,
// selected with LLM_PROVIDER=openai. The OpenAI API has no query vs
// document task type, so Kind is accepted and ignored here.
func GetOpenAIEmbeddingClient(modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = applog.NewLogger("openai_embedding")
		if apikey == "" {
			logger.Error("OpenAI API key is empty")
			return
		}
		embeddingClient = &client{
			openAi: openai.NewClient(option.WithAPIKey(apikey), option.WithHTTPClient(customHttpClient.Client())),
			model:  modelName,
		}
		logger.Info("OpenAI Embedding client created")
	})

	if embeddingClient == nil {
		return nil
	}
	return &client{openAi: embeddingClient.openAi, model: embeddingClient.model}
}

func (c *client) GetEmbedding(ctx context.Context, text string, kind embedding.Kind) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	resp, err := c.openAi.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: chunks},
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: openai.Int(int64(config.EmbeddingOutputDimensionality)),
	})
	if err != nil {
		log.Error("Error getting Embeddings from OpenAI", "error", err.Error())
		return nil, ragerr.Upstream("openai-embedding", err)
	}
	if len(resp.Data) != len(chunks) {
		return nil, ragerr.Upstream("openai-embedding", errResultCount)
	}

	vectors := make([][]float32, 0, len(resp.Data))
	for _, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}
