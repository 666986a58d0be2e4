package commands

import (
	"context"
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

const OperationMarkNotificationRead = "mark notification read"

var ErrMarkNotificationReadCommandIsNotConstructed = errors.New(
	"MarkNotificationReadCommand must be created via NewMarkNotificationReadCommand constructor",
)

type MarkNotificationReadCommand struct { //nolint:recvcheck //using for validation
	actor          kernel.Actor
	notificationID kernel.UUID

	guard guard.ConstructorGuard
}

func NewMarkNotificationReadCommand(actor kernel.Actor, notificationID kernel.UUID) (MarkNotificationReadCommand, error) {
	if err := errors.Join(actor.Validate(), notificationID.Validate()); err != nil {
		return MarkNotificationReadCommand{}, err
	}
	return MarkNotificationReadCommand{
		actor:          actor,
		notificationID: notificationID,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c MarkNotificationReadCommand) Validate() error {
	return c.guard.Validate(ErrMarkNotificationReadCommandIsNotConstructed)
}

func (c MarkNotificationReadCommand) Actor() kernel.Actor {
	return c.actor
}

func (c MarkNotificationReadCommand) NotificationID() kernel.UUID {
	return c.notificationID
}

// MarkNotificationReadCommandHandler flips the read flag for the recipient only.
type MarkNotificationReadCommandHandler struct {
	engine *Engine
}

func NewMarkNotificationReadCommandHandler(engine *Engine) MarkNotificationReadCommandHandler {
	return MarkNotificationReadCommandHandler{engine: engine}
}

func (h MarkNotificationReadCommandHandler) Handle(ctx context.Context, command MarkNotificationReadCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	_, err := h.engine.Run(ctx, OperationMarkNotificationRead, command.Actor(), nil, func(tx *Tx) error {
		n, err := tx.Notifications().Get(tx.Context(), command.NotificationID())
		if err != nil {
			return err
		}
		if err = n.MarkRead(tx.Actor().UserID()); err != nil {
			return err
		}
		return tx.Notifications().MarkRead(tx.Context(), n)
	})
	return err
}
