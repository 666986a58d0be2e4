package jobs

import (
	"context"
	"time"

	"fieldservice/internal/core/application/auditor"
	"fieldservice/internal/core/application/notifier"
	"fieldservice/internal/core/ports"
	"fieldservice/internal/pkg/logger"
	"fieldservice/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// DefaultRedeliverySchedule retries spooled rows every thirty seconds.
const DefaultRedeliverySchedule = "@every 30s"

// redeliveryTimeout bounds one pass so a stuck database never piles up runs.
const redeliveryTimeout = 20 * time.Second

// RedeliveryReport summarizes one pass over both spools.
type RedeliveryReport struct {
	NotificationsDelivered int
	NotificationsDropped   int
	NotificationsPending   int
	AuditDelivered         int
	AuditDropped           int
	AuditPending           int
}

// RedeliveryJob retries the notification and audit rows that could not be
// written inside their transition. Rows are written outside any transaction;
// each one is independent.
type RedeliveryJob struct {
	uowFactory ports.UnitOfWorkFactory
	dispatcher *notifier.Dispatcher
	recorder   *auditor.Recorder
	metrics    *metrics.TransitionMetrics
	schedule   string
	cron       *cron.Cron
	logger     *logger.Logger
}

// NewRedeliveryJob creates the job. An empty schedule falls back to
// DefaultRedeliverySchedule; m and log may be nil.
func NewRedeliveryJob(
	uowFactory ports.UnitOfWorkFactory,
	dispatcher *notifier.Dispatcher,
	recorder *auditor.Recorder,
	schedule string,
	m *metrics.TransitionMetrics,
	log *logger.Logger,
) *RedeliveryJob {
	if schedule == "" {
		schedule = DefaultRedeliverySchedule
	}
	if log == nil {
		log = logger.NewNop()
	}
	log = log.Component("redelivery_job")
	return &RedeliveryJob{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		recorder:   recorder,
		metrics:    m,
		schedule:   schedule,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{log: log})),
		),
		logger: log,
	}
}

// RunOnce drains both spools a single time.
func (j *RedeliveryJob) RunOnce(ctx context.Context) RedeliveryReport {
	var report RedeliveryReport
	if j.dispatcher.Pending() == 0 && j.recorder.Pending() == 0 {
		j.publishDepth(report)
		return report
	}

	uow := j.uowFactory.Create()
	if j.dispatcher.Pending() > 0 {
		report.NotificationsDelivered, report.NotificationsDropped =
			j.dispatcher.Redeliver(ctx, uow.NotificationRepository())
	}
	if j.recorder.Pending() > 0 {
		report.AuditDelivered, report.AuditDropped = j.recorder.Redeliver(ctx, uow.AuditRepository())
	}
	report.NotificationsPending = j.dispatcher.Pending()
	report.AuditPending = j.recorder.Pending()
	j.publishDepth(report)

	logCtx := j.logger.WithFields(ctx, map[string]any{
		"notifications_delivered": report.NotificationsDelivered,
		"notifications_dropped":   report.NotificationsDropped,
		"notifications_pending":   report.NotificationsPending,
		"audit_delivered":         report.AuditDelivered,
		"audit_dropped":           report.AuditDropped,
		"audit_pending":           report.AuditPending,
	})
	j.logger.Info(logCtx, "redelivery pass finished")
	return report
}

func (j *RedeliveryJob) publishDepth(report RedeliveryReport) {
	j.metrics.SetSpoolDepth("notifications", report.NotificationsPending)
	j.metrics.SetSpoolDepth("audit", report.AuditPending)
}

// Start schedules the job.
func (j *RedeliveryJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), redeliveryTimeout)
		defer cancel()
		j.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info(j.logger.WithField(context.Background(), "schedule", j.schedule), "redelivery job started")
	return nil
}

// Stop stops scheduling and waits for a running pass to finish.
func (j *RedeliveryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info(context.Background(), "redelivery job stopped")
}

// cronLogger routes the scheduler's own messages to the service logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(l.log.WithFields(context.Background(), fields(keysAndValues)), msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(l.log.WithFields(context.Background(), fields(keysAndValues)), msg, err)
}

func fields(keysAndValues []any) map[string]any {
	out := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			out[key] = keysAndValues[i+1]
		}
	}
	return out
}
