package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/anveshk/workflowgen/internal/config"
)

var (
	once         sync.Once
	pooledClient *http.Client
)

// Client returns a shared http.Client with connection pooling tuned
// for the chatty upstream APIs (embeddings are called per batch, the
// LLM per graph run). Per-call deadlines come from the caller's
// context, so no client-level timeout is set here.
func Client() *http.Client {
	once.Do(func() {
		pooledClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        config.MaxIdleConns,
				MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
				IdleConnTimeout:     config.IdleConnTimeout,
			},
		}
	})
	return pooledClient
}
