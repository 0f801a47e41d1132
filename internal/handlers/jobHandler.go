package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anveshk/workflowgen/internal/config"
	"github.com/anveshk/workflowgen/internal/domain/jobmodel"
	"github.com/anveshk/workflowgen/internal/job"
	"github.com/anveshk/workflowgen/internal/metrics"
	"github.com/anveshk/workflowgen/internal/rag"
	"github.com/anveshk/workflowgen/pkg/applog"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *applog.Logger
)

type JobHandler struct {
	service    *job.Service
	ragService rag.Service
}

func InitJobHandler(jobService *job.Service, ragService rag.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService, ragService: ragService}

		logJH = applog.NewLogger("JobHandler")
		logRH = applog.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})
}

func CreateNewJob(newJob newJobData) {
	logJH.Debug("Creating new job", "traceId", newJob.traceId, "jobId", newJob.id, "type", newJob.jobType)
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobmodel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {
	_job := jobmodel.Job{}
	_job.Id = newJob.id
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobmodel.JobStatusQueued
	_job.JobType = newJob.jobType

	switch newJob.jobType {
	case jobmodel.JobTypeIngest:
		_job.CurrentStep = jobmodel.IngestInit
		_job.JobPayload.IngestTitle = newJob.ingestTitle
		_job.JobPayload.IngestText = newJob.ingestText
		_job.JobPayload.IngestFileName = newJob.documentName
		_job.JobPayload.IngestURL = newJob.documentSource

	default:
		_job.CurrentStep = jobmodel.QueryInit
		_job.JobPayload.Question = newJob.question
		_job.JobPayload.DocumentId = newJob.documentId
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //blocking send so the queue applies backpressure
	logJH.Info("Created new job")

	//a new worker is requested every N jobs, and always for ingestion:
	//ingestion is batch work against external services and should not
	//starve short query jobs. Idle workers retire on their own.
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1)
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || _job.JobType == jobmodel.JobTypeIngest {
		metrics.StartDispatcherSignalCount() //metrics
		logJH.Debug("Signaling dispatcher", "requestCount", accurateCount)
		h.service.DispatcherChannel <- true
	}
}
