// Package notification provides the Notification record produced by fan-out.
// A notification is written once and only its read flag ever changes.
package notification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
)

var ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewNotification constructor")

// Type names the lifecycle event a notification reports.
type Type string

const (
	TypeOrderCreated         Type = "Orden Creada"
	TypeOrderValidated       Type = "Orden Validada"
	TypeOrderRejected        Type = "Orden Rechazada"
	TypeOrderCancelled       Type = "Orden Cancelada"
	TypeTechnicianAssigned   Type = "Técnico Asignado"
	TypeAppointmentProposed  Type = "Cita Propuesta"
	TypeAppointmentConfirmed Type = "Cita Confirmada"
	TypeReprogramRequested   Type = "Solicitud de Reprogramación"
	TypeWorkFinished         Type = "Servicio Finalizado"
	TypeServiceConfirmed     Type = "Servicio Confirmado"
	TypeServiceRejected      Type = "Servicio Rechazado"
)

// Types lists every notification type.
func Types() []Type {
	return []Type{
		TypeOrderCreated, TypeOrderValidated, TypeOrderRejected, TypeOrderCancelled,
		TypeTechnicianAssigned, TypeAppointmentProposed, TypeAppointmentConfirmed,
		TypeReprogramRequested, TypeWorkFinished, TypeServiceConfirmed, TypeServiceRejected,
	}
}

func (t Type) Validate() error {
	for _, known := range Types() {
		if t == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("notification type", fmt.Errorf("%q is not a known type", string(t)))
}

// Channel is the delivery channel an external collaborator uses for the row.
type Channel string

const (
	ChannelInApp Channel = "sistema"
	ChannelEmail Channel = "email"
	ChannelPush  Channel = "push"
)

func (c Channel) Validate() error {
	switch c {
	case ChannelInApp, ChannelEmail, ChannelPush:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("notification channel", fmt.Errorf("%q is not a known channel", string(c)))
	}
}

// Notification is one delivered message for one recipient.
type Notification struct {
	id          kernel.UUID
	orderID     *kernel.UUID
	recipientID kernel.UUID
	kind        Type
	channel     Channel
	message     string
	sentAt      time.Time
	read        bool

	isConstructed bool
}

// NewNotification creates an unread notification.
func NewNotification(
	id kernel.UUID,
	orderID *kernel.UUID,
	recipientID kernel.UUID,
	kind Type,
	channel Channel,
	message string,
	sentAt time.Time,
) (*Notification, error) {
	var orderErr error
	if orderID != nil {
		orderErr = orderID.Validate()
	}
	message = strings.TrimSpace(message)
	var messageErr error
	if message == "" {
		messageErr = errs.NewValueIsRequiredError("message")
	}
	var sentErr error
	if sentAt.IsZero() {
		sentErr = errs.NewValueIsRequiredError("sent at")
	}

	if err := errors.Join(
		id.Validate(),
		orderErr,
		recipientID.Validate(),
		kind.Validate(),
		channel.Validate(),
		messageErr,
		sentErr,
	); err != nil {
		return nil, err
	}

	return &Notification{
		id:            id,
		orderID:       orderID,
		recipientID:   recipientID,
		kind:          kind,
		channel:       channel,
		message:       message,
		sentAt:        sentAt,
		isConstructed: true,
	}, nil
}

// RestoreNotification rebuilds a stored notification.
func RestoreNotification(
	id kernel.UUID,
	orderID *kernel.UUID,
	recipientID kernel.UUID,
	kind Type,
	channel Channel,
	message string,
	sentAt time.Time,
	read bool,
) (*Notification, error) {
	n, err := NewNotification(id, orderID, recipientID, kind, channel, message, sentAt)
	if err != nil {
		return nil, err
	}
	n.read = read
	return n, nil
}

func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

func (n *Notification) ID() kernel.UUID {
	return n.id
}

func (n *Notification) OrderID() *kernel.UUID {
	return n.orderID
}

func (n *Notification) RecipientID() kernel.UUID {
	return n.recipientID
}

func (n *Notification) Type() Type {
	return n.kind
}

func (n *Notification) Channel() Channel {
	return n.channel
}

func (n *Notification) Message() string {
	return n.message
}

func (n *Notification) SentAt() time.Time {
	return n.sentAt
}

func (n *Notification) IsRead() bool {
	return n.read
}

// MarkRead sets the read flag. Only the recipient may do so; marking twice is a no-op.
func (n *Notification) MarkRead(userID kernel.UUID) error {
	if !n.recipientID.IsEqual(userID) {
		return errs.NewUnauthorizedError(userID.String(), "mark notification read", "not the recipient")
	}
	n.read = true
	return nil
}
