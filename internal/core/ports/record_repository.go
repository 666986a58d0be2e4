package ports

import (
	"context"

	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/notification"
)

// NotificationRepository stores fan-out rows. Rows are write-once except for the read flag.
type NotificationRepository interface {
	// Add writes one notification. Inside a transaction the write is isolated so
	// that a failed row leaves the rest of the transaction usable.
	Add(ctx context.Context, n *notification.Notification) error

	// MarkRead persists the read flag of n.
	MarkRead(ctx context.Context, n *notification.Notification) error

	// Get retrieves a notification by id, or ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error)

	// ListByRecipient returns a user's notifications, newest first.
	ListByRecipient(ctx context.Context, recipientID kernel.UUID, unreadOnly bool) ([]*notification.Notification, error)
}

// AuditRepository appends audit records. There is no update or delete.
type AuditRepository interface {
	// Add appends one record with the same isolation as NotificationRepository.Add.
	Add(ctx context.Context, r *audit.Record) error

	// ListByOrder returns an order's audit trail, oldest first.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*audit.Record, error)
}
