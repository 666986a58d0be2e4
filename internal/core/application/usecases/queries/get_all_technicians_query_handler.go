package queries

import (
	"context"

	"fieldservice/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAllTechniciansQueryHandler reads technicians with direct SQL.
type GetAllTechniciansQueryHandler struct {
	db *gorm.DB
}

func NewGetAllTechniciansQueryHandler(db *gorm.DB) GetAllTechniciansQueryHandler {
	return GetAllTechniciansQueryHandler{db: db}
}

// Handle returns technicians sorted by name. Stored zone spellings are normalized.
func (h GetAllTechniciansQueryHandler) Handle(
	ctx context.Context,
	query GetAllTechniciansQuery,
) ([]GetAllTechniciansQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	technicians := make([]GetAllTechniciansQueryResponse, 0)

	sql := `
		SELECT
			id,
			name,
			zone,
			active
		FROM technicians`
	args := []any{}
	if query.OnlyAvailable() {
		sql += ` WHERE active = ?`
		args = append(args, true)
	}
	sql += ` ORDER BY name, id`

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var tech GetAllTechniciansQueryResponse
		var id uuid.UUID
		var zone string

		if err = rows.Scan(&id, &tech.Name, &zone, &tech.Active); err != nil {
			return nil, err
		}

		techID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		tech.ID = techID

		parsed, zoneErr := kernel.ParseZone(zone)
		if zoneErr != nil {
			return nil, zoneErr
		}
		tech.Zone = parsed
		technicians = append(technicians, tech)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return technicians, nil
}
