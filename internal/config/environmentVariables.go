package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	NoAuthBypass = true //flip for deployments with a real token
	AuthToken    = ""

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//chunking - fixed windows, no overlap, so chunk concatenation
	//reproduces the source document
	ChunkWindowSize = 1000

	//retrieval
	RetrieverTopK         = 5
	CacheSimilarityCutoff = 0.97

	//summary generation
	SummaryMaxContextChars = 10000
	SummaryLabel           = "📝 **Agent Auto-Summary:**\n"

	EmbeddingOutputDimensionality int32 = 768
	DocumentCollectionName              = "workflowgen-docs"
	SemanticCacheCollectionName         = "semantic-cache"

	//upstream call policy
	UpstreamCallTimeout  = 30 * time.Second
	UpstreamMaxRetries   = 3
	UpstreamRetryBackoff = 500 * time.Millisecond

	//ingestion
	IngestBatchSize        = 100
	IngestEmbedConcurrency = 4

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	JobExecutionTimeout             = 60 * time.Second

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantHost             = ""
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false
	QdrantPoolSize         = 1

	//providers: "google" or "openai"
	DefaultLLMProvider = "google"

	GeminiModelName      = "gemini-2.0-flash"
	GoogleEmbeddingModel = "gemini-embedding-001"

	OpenAIModelName      = "gpt-4o-mini"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	ModelTemperature float32 = 0.7

	QAPromptTemplate = "Answer the question based ONLY on the context below.\nContext:\n%s\n\nQuestion: %s"

	SummaryPromptTemplate = "Analyze the following text and provide a concise, professional summary.\nExtract key points, dates, and action items if any.\n\nText:\n%s"

	RouterPromptTemplate = `You are an intelligent workflow router. Your job is to classify the user's intent based on their meaning.

User Query: "%s"

Analyze the query and assign it to one of these two agents:

1. "summary": Use this for requests asking to condense, shorten, overview, capture main points, or "TL;DR".
2. "qa": Use this for specific questions, factual lookups, reasoning, advice, critiques, improvements, or "how-to".

Output the category ("summary" or "qa") and your reasoning.`

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore      = 0
	RedisDocumentStore = 1

	RedisJobStoreTTL = 24 * time.Hour
)

// LLMProvider resolves the configured model provider, defaulting when
// the environment does not say otherwise.
func LLMProvider() string {
	if p := os.Getenv("LLM_PROVIDER"); p != "" {
		return p
	}
	return DefaultLLMProvider
}

func GoogleAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}
