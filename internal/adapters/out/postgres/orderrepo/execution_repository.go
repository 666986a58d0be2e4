package orderrepo

import (
	"context"
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/order"
	"fieldservice/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormExecutionRepository implements ExecutionRepository using GORM.
type GormExecutionRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormExecutionRepository creates a new GORM execution repository.
func NewGormExecutionRepository(db *gorm.DB, tracker aggregateTracker) *GormExecutionRepository {
	return &GormExecutionRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new execution. The unique index on order_id refuses a second one.
func (r *GormExecutionRepository) Add(ctx context.Context, execution *order.Execution) error {
	if err := execution.Validate(); err != nil {
		return err
	}

	dto := executionFromDomain(execution)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(execution.ID(), execution)
	return nil
}

// Update saves every column of an existing execution.
func (r *GormExecutionRepository) Update(ctx context.Context, execution *order.Execution) error {
	if err := execution.Validate(); err != nil {
		return err
	}

	dto := executionFromDomain(execution)
	result := r.db.WithContext(ctx).Model(&ExecutionDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("execution", execution.ID().String())
	}

	r.tracker.TrackAggregate(execution.ID(), execution)
	return nil
}

// GetByOrder retrieves the execution of an order.
func (r *GormExecutionRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*order.Execution, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto ExecutionDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("execution of order", orderID.String())
		}
		return nil, err
	}

	return executionToDomain(dto)
}

// CountByOrder counts the executions of an order.
func (r *GormExecutionRepository) CountByOrder(ctx context.Context, orderID kernel.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ExecutionDTO{}).Where("order_id = ?", orderID.Bytes()).Count(&count).Error
	return count, err
}
