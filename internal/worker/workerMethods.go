package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/anveshk/workflowgen/internal/config"
	"github.com/anveshk/workflowgen/internal/domain/jobmodel"
	"github.com/anveshk/workflowgen/internal/metrics"
)

func executeJob(currentJob jobmodel.Job) {
	start := time.Now()

	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, currentJob.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.JobExecutionTimeout)
	defer cancel()

	log := logger.With("traceId", currentJob.TraceId, "jobId", currentJob.Id)
	log.Debug("Processing job", "type", currentJob.JobType)

	saveJobState(ctx, currentJob, jobmodel.JobStatusRunning)

	if currentJob.JobType == jobmodel.JobTypeIngest {
		currentJob = _ragService.ProcessIngestion(ctx, currentJob)
	} else {
		currentJob = _ragService.ProcessQuery(ctx, currentJob)
	}

	currentJob.EndTime = time.Now()
	if currentJob.Status != jobmodel.JobStatusError {
		currentJob.Status = jobmodel.JobStatusComplete
	}
	saveJobState(ctx, currentJob, currentJob.Status)

	metrics.CaptureJobMetrics(string(currentJob.Status), time.Since(start))
}

func removeWorker(reason string) {
	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()
}

func saveJobState(ctx context.Context, currentJob jobmodel.Job, jobStatus jobmodel.JobStatus) {
	currentJob.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, currentJob); err != nil {
		logger.Error("Failed to persist job state", "err", err)
	}
}
