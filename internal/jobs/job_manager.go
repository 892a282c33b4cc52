package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	dispatchRetryJob *DispatchRetryJob
}

// NewJobManager creates the manager with every job the service runs.
func NewJobManager(
	pendingOrdersAssigner PendingOrdersAssigner,
	retrySchedule string,
	retryBatch int,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		dispatchRetryJob: NewDispatchRetryJob(pendingOrdersAssigner, retrySchedule, retryBatch, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.dispatchRetryJob.Start(); err != nil {
		return fmt.Errorf("failed to start dispatch retry job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones.
func (jm *JobManager) StopAll() {
	jm.dispatchRetryJob.Stop()
}
