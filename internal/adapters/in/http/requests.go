package http

type CreateOrderRequest struct {
	// ClientID defaults to the caller when a client creates its own order.
	ClientID    string `json:"client_id" validate:"omitempty,uuid"`
	ServiceType string `json:"service_type" validate:"required"`
	Description string `json:"description" validate:"max=2000"`
	Address     string `json:"address" validate:"max=500"`
}

type ReasonRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

type AssignTechnicianRequest struct {
	TechnicianID string `json:"technician_id" validate:"required,uuid"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Time         string `json:"time" validate:"required,datetime=15:04"`
}

type FinishWorkRequest struct {
	Summary string `json:"summary" validate:"max=4000"`
}

type RequestReprogramRequest struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Time   string `json:"time" validate:"required,datetime=15:04"`
	Reason string `json:"reason" validate:"max=1000"`
}

// ReproposeRequest keeps the client's requested date when both fields are empty.
type ReproposeRequest struct {
	Date string `json:"date" validate:"required_with=Time,omitempty,datetime=2006-01-02"`
	Time string `json:"time" validate:"required_with=Date,omitempty,datetime=15:04"`
}

type CreateTechnicianRequest struct {
	TechnicianID string `json:"technician_id" validate:"required,uuid"`
	Name         string `json:"name" validate:"required,max=255"`
	Zone         string `json:"zone" validate:"required"`
}

type UpdateTechnicianRequest struct {
	Zone   *string `json:"zone"`
	Active *bool   `json:"active"`
}
