package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	redeliveryJob *RedeliveryJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(redeliveryJob *RedeliveryJob) *JobManager {
	return &JobManager{
		redeliveryJob: redeliveryJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.redeliveryJob.Start(); err != nil {
		return fmt.Errorf("failed to start redelivery job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs and waits for running passes.
func (jm *JobManager) StopAll() {
	jm.redeliveryJob.Stop()
}
