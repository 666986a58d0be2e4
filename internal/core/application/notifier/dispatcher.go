// Package notifier fans a lifecycle event out to its recipients as independent
// notification rows and reports the rows it could not write.
package notifier

import (
	"context"
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/notification"
	"fieldservice/internal/core/ports"
	"fieldservice/internal/pkg/errs"
	"fieldservice/internal/pkg/logger"
	"fieldservice/internal/pkg/metrics"
	"fieldservice/internal/pkg/spool"
)

// MaxRedeliveryAttempts is how many times a spooled notification is retried before it is dropped.
const MaxRedeliveryAttempts = 5

// Event is one logical lifecycle event to announce.
type Event struct {
	OrderID    *kernel.UUID
	Type       notification.Type
	Message    string
	Recipients []kernel.UUID
}

// Failure is a recipient whose row could not be written. Notification is nil when
// the row could not even be built.
type Failure struct {
	RecipientID  kernel.UUID
	Notification *notification.Notification
	Err          error
}

// Result is the outcome of one fan-out.
type Result struct {
	Type      notification.Type
	Delivered []*notification.Notification
	Failed    []Failure
}

// Total is the number of distinct recipients the event was addressed to.
func (r Result) Total() int {
	return len(r.Delivered) + len(r.Failed)
}

// Err returns a NotificationPartialFailureError when any recipient failed, nil otherwise.
func (r Result) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	causes := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		causes = append(causes, f.Err)
	}
	return errs.NewNotificationPartialFailureError(string(r.Type), len(r.Failed), r.Total(), causes)
}

// Dispatcher produces notification rows for lifecycle events.
//
// Example:
//
//	result := dispatcher.Fanout(ctx, uow.NotificationRepository(), notifier.Event{
//	    OrderID:    &orderID,
//	    Type:       notification.TypeOrderValidated,
//	    Message:    "Your order OS-20250109-3F2A1B was validated",
//	    Recipients: append([]kernel.UUID{clientID}, coordinatorIDs...),
//	})
//	// after commit
//	dispatcher.Spool(result)
type Dispatcher struct {
	clock   ports.Clock
	channel notification.Channel
	queue   *spool.Queue[*notification.Notification]
	metrics *metrics.TransitionMetrics
	log     *logger.Logger
}

// NewDispatcher creates a Dispatcher writing rows on channel. metrics may be nil.
func NewDispatcher(
	clock ports.Clock,
	channel notification.Channel,
	spoolCapacity int,
	m *metrics.TransitionMetrics,
	log *logger.Logger,
) *Dispatcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Dispatcher{
		clock:   clock,
		channel: channel,
		queue:   spool.New[*notification.Notification](spoolCapacity),
		metrics: m,
		log:     log.Component("notifier"),
	}
}

// Fanout writes one row per distinct recipient. A failed row never prevents the
// others from being written; the failures are returned in the Result.
func (d *Dispatcher) Fanout(ctx context.Context, repo ports.NotificationRepository, event Event) Result {
	result := Result{Type: event.Type}
	sentAt := d.clock.Now()

	for _, recipient := range dedupe(event.Recipients) {
		n, err := notification.NewNotification(
			kernel.NewUUID(), event.OrderID, recipient, event.Type, d.channel, event.Message, sentAt,
		)
		if err != nil {
			result.Failed = append(result.Failed, Failure{RecipientID: recipient, Err: err})
			continue
		}

		if err = repo.Add(ctx, n); err != nil {
			result.Failed = append(result.Failed, Failure{RecipientID: recipient, Notification: n, Err: err})
			continue
		}
		result.Delivered = append(result.Delivered, n)
	}

	d.metrics.AddNotifications(string(event.Type), len(result.Delivered), len(result.Failed))
	if err := result.Err(); err != nil {
		logCtx := ctx
		if event.OrderID != nil {
			logCtx = d.log.WithOrderID(ctx, event.OrderID.String())
		}
		d.log.Warn(logCtx, "notification fan-out partially failed", err)
	}
	return result
}

// Spool queues the failed rows of results for redelivery. Call it only after the
// transition that produced them committed.
func (d *Dispatcher) Spool(results ...Result) {
	for _, r := range results {
		for _, f := range r.Failed {
			if f.Notification == nil {
				continue
			}
			d.queue.Push(spool.Entry[*notification.Notification]{Item: f.Notification, Attempts: 1})
		}
	}
}

// Pending returns the number of spooled notifications.
func (d *Dispatcher) Pending() int {
	return d.queue.Len()
}

// Redeliver retries every spooled notification once. Rows failing again are
// re-queued until MaxRedeliveryAttempts is reached.
func (d *Dispatcher) Redeliver(ctx context.Context, repo ports.NotificationRepository) (delivered, dropped int) {
	var retry []spool.Entry[*notification.Notification]
	var failures []error

	for _, entry := range d.queue.Drain() {
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

	d.queue.Push(retry...)
	d.metrics.AddNotifications("redelivery", delivered, dropped)
	if dropped > 0 {
		d.log.Error(ctx, "dropping notifications after repeated redelivery failures", errors.Join(failures...))
	}
	return delivered, dropped
}

func dedupe(ids []kernel.UUID) []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(ids))
	out := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
