// Package auditor appends audit records for lifecycle transitions. A failed audit
// write is downgraded to a warning and spooled; it never fails the transition.
package auditor

import (
	"context"
	"errors"

	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/ports"
	"fieldservice/internal/pkg/logger"
	"fieldservice/internal/pkg/metrics"
	"fieldservice/internal/pkg/spool"
)

// MaxRedeliveryAttempts is how many times a spooled record is retried before it is dropped.
const MaxRedeliveryAttempts = 5

// Entry describes one audited action.
type Entry struct {
	ActorID     kernel.UUID
	OrderID     *kernel.UUID
	Action      audit.Action
	Description string
}

// Outcome is the result of one Record call. Record is nil when the entry could
// not be built; Err is nil when the record was written.
type Outcome struct {
	Record *audit.Record
	Err    error
}

// Recorder writes audit records through the transaction's AuditRepository.
type Recorder struct {
	clock   ports.Clock
	queue   *spool.Queue[*audit.Record]
	metrics *metrics.TransitionMetrics
	log     *logger.Logger
}

// NewRecorder creates a Recorder. metrics and log may be nil.
func NewRecorder(clock ports.Clock, spoolCapacity int, m *metrics.TransitionMetrics, log *logger.Logger) *Recorder {
	if log == nil {
		log = logger.NewNop()
	}
	return &Recorder{
		clock:   clock,
		queue:   spool.New[*audit.Record](spoolCapacity),
		metrics: m,
		log:     log.Component("auditor"),
	}
}

// Record appends one audit record. Failures are logged at WARN and reported in the
// Outcome, never returned as an error.
func (r *Recorder) Record(ctx context.Context, repo ports.AuditRepository, entry Entry) Outcome {
	record, err := audit.NewRecord(kernel.NewUUID(), entry.ActorID, entry.OrderID, entry.Action, entry.Description, r.clock.Now())
	if err == nil {
		err = repo.Add(ctx, record)
	} else {
		record = nil
	}

	if err != nil {
		r.metrics.IncAuditFailure()
		logCtx := r.log.WithField(ctx, "action", string(entry.Action))
		if entry.OrderID != nil {
			logCtx = r.log.WithOrderID(logCtx, entry.OrderID.String())
		}
		r.log.Warn(logCtx, "audit record could not be written", err)
	}
	return Outcome{Record: record, Err: err}
}

// Spool queues the records of failed outcomes for redelivery. Call it only after
// the transition that produced them committed.
func (r *Recorder) Spool(outcomes ...Outcome) {
	for _, o := range outcomes {
		if o.Err == nil || o.Record == nil {
			continue
		}
		r.queue.Push(spool.Entry[*audit.Record]{Item: o.Record, Attempts: 1})
	}
}

// Pending returns the number of spooled records.
func (r *Recorder) Pending() int {
	return r.queue.Len()
}

// Redeliver retries every spooled record once.
func (r *Recorder) Redeliver(ctx context.Context, repo ports.AuditRepository) (delivered, dropped int) {
	var retry []spool.Entry[*audit.Record]
	var failures []error

	for _, entry := range r.queue.Drain() {
		if err := repo.Add(ctx, entry.Item); err != nil {
			entry.Attempts++
			if entry.Attempts > MaxRedeliveryAttempts {
				dropped++
				failures = append(failures, err)
				continue
			}
			retry = append(retry, entry)
			continue
		}
		delivered++
	}

	r.queue.Push(retry...)
	if dropped > 0 {
		r.log.Error(ctx, "dropping audit records after repeated redelivery failures", errors.Join(failures...))
	}
	return delivered, dropped
}
