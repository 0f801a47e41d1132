package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/anveshk/workflowgen/internal/config"
	"github.com/anveshk/workflowgen/internal/data/store"
	"github.com/anveshk/workflowgen/internal/domain/docmodel"
	"github.com/anveshk/workflowgen/internal/mcpserver"
	"github.com/anveshk/workflowgen/internal/rag"
	"github.com/anveshk/workflowgen/internal/rag/embedding"
	"github.com/anveshk/workflowgen/internal/rag/embedding/googleEmbedding"
	"github.com/anveshk/workflowgen/internal/rag/embedding/openaiEmbedding"
	"github.com/anveshk/workflowgen/internal/rag/llm"
	"github.com/anveshk/workflowgen/internal/rag/llm/gemini"
	"github.com/anveshk/workflowgen/internal/rag/llm/openaiLLM"
	"github.com/anveshk/workflowgen/internal/rag/vectorDB/qdrantDB"
	"github.com/anveshk/workflowgen/pkg/applog"
)

// Serves the query tools over MCP stdio. Shares the whole service
// stack with the HTTP API, but runs the graph synchronously per tool
// call instead of queueing jobs.
func main() {
	applog.InitStderr(config.LOG_LEVEL_PROD) //stdout is the protocol channel
	logger := applog.NewLogger("mcp-main")

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	var documentStore docmodel.DocumentStore
	if ds := store.GetRedisDocumentStore(serviceContext); ds != nil {
		documentStore = ds
	} else {
		logger.Error("Redis document store is offline, using in-memory store")
		documentStore = store.InitInMemoryDocumentStore()
	}

	vectorDatabase := qdrantDB.GetQdrantClient(serviceContext)

	var embeddingService embedding.Embedder
	var llmProvider llm.Provider
	switch config.LLMProvider() {
	case "openai":
		embeddingService = openaiEmbedding.GetOpenAIEmbeddingClient(config.OpenAIEmbeddingModel, config.OpenAIAPIKey())
		llmProvider = openaiLLM.GetOpenAIClient(config.OpenAIModelName, config.OpenAIAPIKey())
	default:
		embeddingService = googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleAPIKey())
		llmProvider = gemini.GetGeminiClient(serviceContext, config.GeminiModelName, config.GoogleAPIKey())
	}

	if vectorDatabase == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		os.Exit(1)
	}

	ragService := rag.NewService(vectorDatabase, llmProvider, embeddingService, documentStore)

	mcpServer, err := mcpserver.NewServer(ragService)
	if err != nil {
		logger.Error("Could not create MCP server", "error", err)
		os.Exit(1)
	}

	runCtx, stop := signal.NotifyContext(serviceContext, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := mcpServer.Run(runCtx); err != nil {
		os.Exit(1)
	}
}
