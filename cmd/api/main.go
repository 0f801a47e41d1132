// @title           Document Workflow API
// @version         1.0
// @description     Asynchronous document Q&A and summarization over a retrieval workflow graph.
// @termsOfService  http://swagger.io/terms/

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/anveshk/workflowgen/internal/config"
	"github.com/anveshk/workflowgen/internal/data/store"
	"github.com/anveshk/workflowgen/internal/domain/docmodel"
	"github.com/anveshk/workflowgen/internal/domain/jobmodel"
	"github.com/anveshk/workflowgen/internal/handlers"
	"github.com/anveshk/workflowgen/internal/job"
	"github.com/anveshk/workflowgen/internal/rag"
	"github.com/anveshk/workflowgen/internal/rag/embedding"
	"github.com/anveshk/workflowgen/internal/rag/embedding/googleEmbedding"
	"github.com/anveshk/workflowgen/internal/rag/embedding/openaiEmbedding"
	"github.com/anveshk/workflowgen/internal/rag/llm"
	"github.com/anveshk/workflowgen/internal/rag/llm/gemini"
	"github.com/anveshk/workflowgen/internal/rag/llm/openaiLLM"
	"github.com/anveshk/workflowgen/internal/rag/vectorDB/qdrantDB"
	"github.com/anveshk/workflowgen/internal/server"
	"github.com/anveshk/workflowgen/internal/worker"
	"github.com/anveshk/workflowgen/pkg/applog"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	applog.Init(config.IS_PROD, config.LOG_LEVEL_PROD)
	var logger = applog.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init stores, falling back to in-memory when redis is offline
	var jobStore jobmodel.JobStore
	if rs := store.GetRedisJobStore(serviceContext); rs != nil {
		jobStore = rs
	} else {
		logger.Error("Redis job store is offline, using in-memory store")
		jobStore = store.InitInMemoryJobStore()
	}

	var documentStore docmodel.DocumentStore
	if ds := store.GetRedisDocumentStore(serviceContext); ds != nil {
		documentStore = ds
	} else {
		logger.Error("Redis document store is offline, using in-memory store")
		documentStore = store.InitInMemoryDocumentStore()
	}

	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          jobStore,
		DocumentStore:     documentStore,
	}
	logger.Info("Starting job service")
	service := job.InitJobService(serviceConfig)

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
		logger.Debug("Available services", "VectorDB", vectorDatabase != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	ragService := rag.NewService(vectorDatabase, llmProvider, embeddingService, documentStore)

	handlers.InitJobHandler(service, ragService)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
