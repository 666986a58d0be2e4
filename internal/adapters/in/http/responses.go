package http

import (
	"time"

	"fieldservice/internal/core/application/usecases/commands"
	"fieldservice/internal/core/application/usecases/queries"
	"fieldservice/internal/core/domain/model/kernel"
)

// TransitionResponse reports a committed transition. Warnings are set when some
// notification or audit rows were queued for redelivery.
type TransitionResponse struct {
	OrderID       string              `json:"order_id"`
	AppointmentID *string             `json:"appointment_id,omitempty"`
	Delivered     int                 `json:"notifications_delivered"`
	Warnings      *TransitionWarnings `json:"warnings,omitempty"`
}

type TransitionWarnings struct {
	NotificationsFailed int    `json:"notifications_failed,omitempty"`
	NotificationsTotal  int    `json:"notifications_total,omitempty"`
	Message             string `json:"message,omitempty"`
	AuditFailures       int    `json:"audit_failures,omitempty"`
}

func newTransitionResponse(r commands.TransitionResult) TransitionResponse {
	resp := TransitionResponse{
		OrderID:       r.OrderID.String(),
		AppointmentID: optionalString(r.AppointmentID),
		Delivered:     r.Delivered,
	}
	if r.NotificationFailure != nil || r.AuditFailures > 0 {
		w := &TransitionWarnings{AuditFailures: r.AuditFailures}
		if nf := r.NotificationFailure; nf != nil {
			w.NotificationsFailed = nf.Failed
			w.NotificationsTotal = nf.Total
			w.Message = nf.Error()
		}
		resp.Warnings = w
	}
	return resp
}

type OrderResponse struct {
	ID                 string     `json:"id"`
	Number             string     `json:"number"`
	ClientID           string     `json:"client_id"`
	ClientName         string     `json:"client_name"`
	ServiceType        string     `json:"service_type"`
	Description        string     `json:"description"`
	Address            string     `json:"address"`
	Status             string     `json:"status"`
	TechnicianID       *string    `json:"technician_id,omitempty"`
	TechnicianName     string     `json:"technician_name,omitempty"`
	CoordinatorID      *string    `json:"coordinator_id,omitempty"`
	RequestedAt        time.Time  `json:"requested_at"`
	AssignedAt         *time.Time `json:"assigned_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	RejectionReason    string     `json:"rejection_reason,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
}

func newOrderResponse(v queries.OrderView) OrderResponse {
	return OrderResponse{
		ID:                 v.ID.String(),
		Number:             v.Number,
		ClientID:           v.ClientID.String(),
		ClientName:         v.ClientName,
		ServiceType:        v.ServiceType,
		Description:        v.Description,
		Address:            v.Address,
		Status:             v.Status,
		TechnicianID:       optionalString(v.TechnicianID),
		TechnicianName:     v.TechnicianName,
		CoordinatorID:      optionalString(v.CoordinatorID),
		RequestedAt:        v.RequestedAt,
		AssignedAt:         v.AssignedAt,
		CompletedAt:        v.CompletedAt,
		RejectionReason:    v.RejectionReason,
		CancellationReason: v.CancellationReason,
	}
}

type ExecutionResponse struct {
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	Summary      string     `json:"summary,omitempty"`
	Result       string     `json:"result,omitempty"`
	Confirmation string     `json:"confirmation,omitempty"`
}

type OrderDetailResponse struct {
	Order             OrderResponse        `json:"order"`
	Execution         *ExecutionResponse   `json:"execution,omitempty"`
	ActiveAppointment *AppointmentResponse `json:"active_appointment,omitempty"`
}

func newOrderDetailResponse(r queries.GetOrderQueryResponse) OrderDetailResponse {
	resp := OrderDetailResponse{Order: newOrderResponse(r.Order)}
	if e := r.Execution; e != nil {
		resp.Execution = &ExecutionResponse{
			StartedAt:    e.StartedAt,
			FinishedAt:   e.FinishedAt,
			Summary:      e.Summary,
			Result:       e.Result,
			Confirmation: e.Confirmation,
		}
	}
	if a := r.ActiveAppointment; a != nil {
		appointment := newAppointmentResponse(*a)
		resp.ActiveAppointment = &appointment
	}
	return resp
}

type AppointmentResponse struct {
	ID              string     `json:"id"`
	ScheduledAt     time.Time  `json:"scheduled_at"`
	Status          string     `json:"status"`
	ReprogramReason string     `json:"reprogram_reason,omitempty"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func newAppointmentResponse(v queries.AppointmentView) AppointmentResponse {
	return AppointmentResponse{
		ID:              v.ID.String(),
		ScheduledAt:     v.ScheduledAt,
		Status:          v.Status,
		ReprogramReason: v.ReprogramReason,
		ConfirmedAt:     v.ConfirmedAt,
		CreatedAt:       v.CreatedAt,
	}
}

type NotificationResponse struct {
	ID      string    `json:"id"`
	OrderID *string   `json:"order_id,omitempty"`
	Type    string    `json:"type"`
	Channel string    `json:"channel"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
	Read    bool      `json:"read"`
}

type AuditRecordResponse struct {
	ID          string    `json:"id"`
	ActorID     string    `json:"actor_id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	RecordedAt  time.Time `json:"recorded_at"`
}

type TechnicianResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Zone   string `json:"zone"`
	Active bool   `json:"active"`
}

func optionalString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
