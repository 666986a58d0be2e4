package commands

import (
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/order"
)

const visitLayout = "2006-01-02 15:04"

func formatVisit(tx *Tx, at time.Time) string {
	return at.In(tx.Now().Location()).Format(visitLayout)
}

// supervisorsOf returns the order's supervising coordinator, or every active
// coordinator when the order has none.
func supervisorsOf(tx *Tx, o *order.ServiceOrder) ([]kernel.UUID, error) {
	if id := o.Coordinator(); id != nil {
		return []kernel.UUID{*id}, nil
	}
	return tx.ActiveCoordinatorIDs()
}

func technicianOf(o *order.ServiceOrder) []kernel.UUID {
	if id := o.Technician(); id != nil {
		return []kernel.UUID{*id}
	}
	return nil
}
