package queries

import (
	"context"
	"errors"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
	"fieldservice/internal/pkg/guard"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const OperationGetAuditTrail = "get audit trail"

var ErrGetOrderAuditTrailQueryIsNotConstructed = errors.New(
	"GetOrderAuditTrailQuery must be created via NewGetOrderAuditTrailQuery constructor",
)

// GetOrderAuditTrailQuery reads the audit records of an order in the order they
// were written. Only agents, coordinators and admins may read it.
type GetOrderAuditTrailQuery struct {
	actor   kernel.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderAuditTrailQuery(actor kernel.Actor, orderID kernel.UUID) (GetOrderAuditTrailQuery, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return GetOrderAuditTrailQuery{}, err
	}
	return GetOrderAuditTrailQuery{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderAuditTrailQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderAuditTrailQueryIsNotConstructed)
}

// AuditRecordView is the audit read model.
type AuditRecordView struct {
	ID          kernel.UUID
	ActorID     kernel.UUID
	Action      string
	Description string
	RecordedAt  time.Time
}

type GetOrderAuditTrailQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderAuditTrailQueryHandler(db *gorm.DB) GetOrderAuditTrailQueryHandler {
	return GetOrderAuditTrailQueryHandler{db: db}
}

type auditRow struct {
	ID          uuid.UUID
	ActorID     uuid.UUID
	Action      string
	Description string
	RecordedAt  time.Time
}

func (h GetOrderAuditTrailQueryHandler) Handle(
	ctx context.Context,
	query GetOrderAuditTrailQuery,
) ([]AuditRecordView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if !query.actor.HasRole(kernel.RoleAgent, kernel.RoleCoordinator) {
		return nil, errs.NewUnauthorizedError(query.actor.UserID().String(), OperationGetAuditTrail,
			"requires role agente or coordinador")
	}

	var rows []auditRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			actor_id,
			action,
			description,
			recorded_at
		FROM audit_records
		WHERE order_id = ?
		ORDER BY recorded_at, id`, query.orderID.Bytes()).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]AuditRecordView, 0, len(rows))
	for _, r := range rows {
		id, err := kernel.UUIDFromBytes(r.ID[:])
		if err != nil {
			return nil, err
		}
		actorID, err := kernel.UUIDFromBytes(r.ActorID[:])
		if err != nil {
			return nil, err
		}
		views = append(views, AuditRecordView{
			ID:          id,
			ActorID:     actorID,
			Action:      r.Action,
			Description: r.Description,
			RecordedAt:  r.RecordedAt,
		})
	}
	return views, nil
}
