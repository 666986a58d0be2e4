// Package notificationrepo persists fan-out rows. Each insert runs in its own
// nested transaction so that, inside a unit of work, a failed row rolls back to its
// savepoint and leaves the surrounding transition intact.
package notificationrepo

import (
	"context"
	"errors"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/notification"
	"fieldservice/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationDTO represents the database structure for notifications.
type NotificationDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID     *uuid.UUID `gorm:"type:uuid;index"`
	RecipientID uuid.UUID  `gorm:"type:uuid;index:idx_notifications_recipient;not null"`
	Type        string     `gorm:"type:varchar(64);not null"`
	Channel     string     `gorm:"type:varchar(16);not null"`
	Message     string     `gorm:"type:text;not null"`
	SentAt      time.Time  `gorm:"not null;index:idx_notifications_recipient"`
	Read        bool       `gorm:"column:is_read;not null;default:false"`
}

// TableName specifies the database table name for notifications.
func (NotificationDTO) TableName() string {
	return "notifications"
}

func fromDomain(n *notification.Notification) NotificationDTO {
	var orderID *uuid.UUID
	if id := n.OrderID(); id != nil {
		raw := id.Bytes()
		orderID = &raw
	}
	return NotificationDTO{
		ID:          n.ID().Bytes(),
		OrderID:     orderID,
		RecipientID: n.RecipientID().Bytes(),
		Type:        string(n.Type()),
		Channel:     string(n.Channel()),
		Message:     n.Message(),
		SentAt:      n.SentAt(),
		Read:        n.IsRead(),
	}
}

func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	recipientID, err := kernel.UUIDFromBytes(dto.RecipientID[:])
	if err != nil {
		return nil, err
	}
	var orderID *kernel.UUID
	if dto.OrderID != nil {
		oID, orderErr := kernel.UUIDFromBytes(dto.OrderID[:])
		if orderErr != nil {
			return nil, orderErr
		}
		orderID = &oID
	}
	return notification.RestoreNotification(id, orderID, recipientID,
		notification.Type(dto.Type), notification.Channel(dto.Channel), dto.Message, dto.SentAt, dto.Read)
}

// GormNotificationRepository implements NotificationRepository using GORM.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM notification repository.
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Add inserts one row inside a nested transaction.
func (r *GormNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	dto := fromDomain(n)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&dto).Error
	})
}

// MarkRead persists the read flag.
func (r *GormNotificationRepository) MarkRead(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&NotificationDTO{}).
		Where("id = ?", n.ID().Bytes()).
		Update("is_read", n.IsRead())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification", n.ID().String())
	}
	return nil
}

func (r *GormNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto NotificationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("notification", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormNotificationRepository) ListByRecipient(
	ctx context.Context,
	recipientID kernel.UUID,
	unreadOnly bool,
) ([]*notification.Notification, error) {
	q := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID.Bytes())
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var dtos []NotificationDTO
	if err := q.Order("sent_at DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	notifications := make([]*notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		n, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}
