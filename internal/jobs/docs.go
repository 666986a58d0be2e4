// Package jobs provides scheduled background tasks for the field service engine.
//
// Jobs are cron-based, using github.com/robfig/cron/v3 with seconds enabled.
//
// # Available Jobs
//
// RedeliveryJob retries the notification rows and audit records that failed
// inside a committed transition and were spooled in memory. Each row is retried
// up to MaxRedeliveryAttempts times before it is dropped with an ERROR log.
//
// # Usage
//
//	job := jobs.NewRedeliveryJob(uowFactory, dispatcher, recorder, cfg.RedeliverySchedule, m, log)
//	jobManager := jobs.NewJobManager(job)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The schedule accepts six-field cron expressions or descriptors such as
// "@every 30s". Overlapping runs are skipped.
package jobs
