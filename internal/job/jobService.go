package job

import (
	"github.com/anveshk/workflowgen/internal/domain/docmodel"
	"github.com/anveshk/workflowgen/internal/domain/jobmodel"
)

// Service carries the queue plumbing shared by the handlers and the
// worker pool. The dispatcher channel is how handlers hint that load
// is rising and another worker may be worth spawning.
type Service struct {
	JobChannel        chan jobmodel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobmodel.JobStore
	DocumentStore     docmodel.DocumentStore
}

type ServiceConfig struct {
	JobChannel        chan jobmodel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobmodel.JobStore
	DocumentStore     docmodel.DocumentStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		DocumentStore:     cfg.DocumentStore,
	}
}
