package queries

import (
	"context"
	"errors"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrGetNotificationsQueryIsNotConstructed = errors.New(
	"GetNotificationsQuery must be created via NewGetNotificationsQuery constructor",
)

// GetNotificationsQuery reads the actor's own inbox, newest first.
type GetNotificationsQuery struct {
	actor      kernel.Actor
	unreadOnly bool
	limit      int

	guard guard.ConstructorGuard
}

// DefaultNotificationsLimit caps an inbox page when no limit is given.
const DefaultNotificationsLimit = 50

func NewGetNotificationsQuery(actor kernel.Actor, unreadOnly bool, limit int) (GetNotificationsQuery, error) {
	if err := actor.Validate(); err != nil {
		return GetNotificationsQuery{}, err
	}
	if limit <= 0 {
		limit = DefaultNotificationsLimit
	}
	return GetNotificationsQuery{
		actor:      actor,
		unreadOnly: unreadOnly,
		limit:      limit,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrGetNotificationsQueryIsNotConstructed)
}

// NotificationView is the inbox read model.
type NotificationView struct {
	ID      kernel.UUID
	OrderID *kernel.UUID
	Type    string
	Channel string
	Message string
	SentAt  time.Time
	Read    bool
}

type GetNotificationsQueryHandler struct {
	db *gorm.DB
}

func NewGetNotificationsQueryHandler(db *gorm.DB) GetNotificationsQueryHandler {
	return GetNotificationsQueryHandler{db: db}
}

type notificationRow struct {
	ID      uuid.UUID
	OrderID *uuid.UUID
	Type    string
	Channel string
	Message string
	SentAt  time.Time
	IsRead  bool
}

func (h GetNotificationsQueryHandler) Handle(
	ctx context.Context,
	query GetNotificationsQuery,
) ([]NotificationView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			id,
			order_id,
			type,
			channel,
			message,
			sent_at,
			is_read
		FROM notifications
		WHERE recipient_id = ?`
	args := []any{query.actor.UserID().Bytes()}
	if query.unreadOnly {
		sql += ` AND is_read = ?`
		args = append(args, false)
	}
	sql += ` ORDER BY sent_at DESC, id LIMIT ?`
	args = append(args, query.limit)

	var rows []notificationRow
	if err := h.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]NotificationView, 0, len(rows))
	for _, r := range rows {
		id, err := kernel.UUIDFromBytes(r.ID[:])
		if err != nil {
			return nil, err
		}
		orderID, err := optionalID(r.OrderID)
		if err != nil {
			return nil, err
		}
		views = append(views, NotificationView{
			ID:      id,
			OrderID: orderID,
			Type:    r.Type,
			Channel: r.Channel,
			Message: r.Message,
			SentAt:  r.SentAt,
			Read:    r.IsRead,
		})
	}
	return views, nil
}
