package queries

import (
	"context"

	"fieldservice/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle filters by status after normalizing stored values, so orders saved with
// legacy status spellings are still matched.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `SELECT ` + orderColumns
	var args []any
	actor := query.Actor()
	switch actor.Role() {
	case kernel.RoleClient:
		sql += ` WHERE o.client_id = ?`
		args = append(args, actor.UserID().Bytes())
	case kernel.RoleTechnician:
		sql += ` WHERE o.technician_id = ?`
		args = append(args, actor.UserID().Bytes())
	}
	sql += ` ORDER BY o.requested_at DESC, o.number`

	var rows []orderRow
	if err := h.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(rows))
	for _, r := range rows {
		view, err := r.toView()
		if err != nil {
			return nil, err
		}
		if status := query.Status(); status != nil && view.Status != status.String() {
			continue
		}
		views = append(views, view)
	}
	return views, nil
}
