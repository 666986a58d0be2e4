package http

import (
	"net/http"
	"time"

	"fieldservice/internal/core/application/usecases/commands"
	"fieldservice/internal/core/application/usecases/queries"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/order"
	"fieldservice/internal/pkg/clock"

	"github.com/labstack/echo/v4"
)

// Handlers groups the use cases the REST surface exposes.
type Handlers struct {
	CreateOrder          commands.CreateOrderCommandHandler
	ValidateOrder        commands.ValidateOrderCommandHandler
	RejectOrder          commands.RejectOrderCommandHandler
	AssignTechnician     commands.AssignTechnicianCommandHandler
	ConfirmAppointment   commands.ConfirmAppointmentCommandHandler
	RequestReprogram     commands.RequestReprogramCommandHandler
	ReproposeAppointment commands.ReproposeAppointmentCommandHandler
	StartWork            commands.StartWorkCommandHandler
	FinishWork           commands.FinishWorkCommandHandler
	ConfirmService       commands.ConfirmServiceCommandHandler
	RejectService        commands.RejectServiceCommandHandler
	CancelOrder          commands.CancelOrderCommandHandler
	CreateTechnician     commands.CreateTechnicianCommandHandler
	UpdateTechnician     commands.UpdateTechnicianCommandHandler
	MarkNotificationRead commands.MarkNotificationReadCommandHandler

	GetOrder             queries.GetOrderQueryHandler
	ListOrders           queries.ListOrdersQueryHandler
	GetOrderAppointments queries.GetOrderAppointmentsQueryHandler
	GetOrderAuditTrail   queries.GetOrderAuditTrailQueryHandler
	GetNotifications     queries.GetNotificationsQueryHandler
	GetAllTechnicians    queries.GetAllTechniciansQueryHandler
}

// Server adapts HTTP requests to commands and queries. Dates arrive as a civil
// date and wall-clock time and are read in the service timezone.
type Server struct {
	h   Handlers
	loc *time.Location
}

// NewServer creates a Server reading civil dates in loc.
func NewServer(h Handlers, loc *time.Location) *Server {
	if loc == nil {
		loc = time.UTC
	}
	return &Server{h: h, loc: loc}
}

// Register mounts the API routes on g. g must run ActorMiddleware.
func (s *Server) Register(g *echo.Group) {
	g.POST("/orders", s.CreateOrder)
	g.GET("/orders", s.ListOrders)
	g.GET("/orders/:orderId", s.GetOrder)
	g.POST("/orders/:orderId/validate", s.ValidateOrder)
	g.POST("/orders/:orderId/reject", s.RejectOrder)
	g.POST("/orders/:orderId/assign", s.AssignTechnician)
	g.POST("/orders/:orderId/start", s.StartWork)
	g.POST("/orders/:orderId/finish", s.FinishWork)
	g.POST("/orders/:orderId/confirm-service", s.ConfirmService)
	g.POST("/orders/:orderId/reject-service", s.RejectService)
	g.POST("/orders/:orderId/cancel", s.CancelOrder)
	g.GET("/orders/:orderId/appointments", s.GetOrderAppointments)
	g.GET("/orders/:orderId/audit", s.GetOrderAuditTrail)

	g.POST("/appointments/:appointmentId/confirm", s.ConfirmAppointment)
	g.POST("/appointments/:appointmentId/reprogram", s.RequestReprogram)
	g.POST("/appointments/:appointmentId/repropose", s.ReproposeAppointment)

	g.GET("/technicians", s.GetTechnicians)
	g.POST("/technicians", s.CreateTechnician)
	g.PATCH("/technicians/:technicianId", s.UpdateTechnician)

	g.GET("/notifications", s.GetNotifications)
	g.POST("/notifications/:notificationId/read", s.MarkNotificationRead)
}

// request resolves the actor and optionally a uuid path parameter.
func (s *Server) request(c echo.Context, param string) (kernel.Actor, kernel.UUID, error) {
	actor, ok := actorOf(c)
	if !ok {
		return kernel.Actor{}, kernel.UUID{}, echo.NewHTTPError(http.StatusUnauthorized, "no actor")
	}
	if param == "" {
		return actor, kernel.UUID{}, nil
	}
	id, err := pathUUID(c, param)
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, echo.NewHTTPError(http.StatusBadRequest, "invalid "+param+": "+err.Error())
	}
	return actor, id, nil
}

// body binds and validates the request body into dst.
func (s *Server) body(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(dst)
}

func (s *Server) transitioned(c echo.Context, status int, result commands.TransitionResult, err error) error {
	if err != nil {
		return err
	}
	return c.JSON(status, newTransitionResponse(result))
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	actor, _, err := s.request(c, "")
	if err != nil {
		return err
	}
	var req CreateOrderRequest
	if err = s.body(c, &req); err != nil {
		return err
	}

	clientID := actor.UserID()
	if req.ClientID != "" {
		if clientID, err = kernel.UUIDFromString(req.ClientID); err != nil {
			return err
		}
	}
	serviceType, err := order.ParseServiceType(req.ServiceType)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(actor, clientID, serviceType, req.Description, req.Address)
	if err != nil {
		return err
	}
	result, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	return s.transitioned(c, http.StatusCreated, result, err)
}

// ValidateOrder handles POST /api/v1/orders/{orderId}/validate.
func (s *Server) ValidateOrder(c echo.Context) error {
	actor, orderID, err := s.request(c, "orderId")
	if err != nil {
		return err
	}
	cmd, err := commands.NewValidateOrderCommand(actor, orderID)
	if err != nil {
		return err
	}
	result, err := s.h.ValidateOrder.Handle(c.Request().Context(), cmd)
	return s.transitioned(c, http.StatusOK, result, err)
}

// RejectOrder handles POST /api/v1/orders/{orderId}/reject.
func (s *Server) RejectOrder(c echo.Context) error {
	actor, orderID, err := s.request(c, "orderId")
	if err != nil {
		return err
	}
	var req ReasonRequest
	if err = s.body(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewRejectOrderCommand(actor, orderID, req.Reason)
	if err != nil {
		return err
	}
	result, err := s.h.RejectOrder.Handle(c.Request().Context(), cmd)
	return s.transitioned(c, http.StatusOK, result, err)
}

// AssignTechnician handles POST /api/v1/orders/{orderId}/assign.
func (s *Server) AssignTechnician(c echo.Context) error {
	actor, orderID, err := s.request(c, "orderId")
	if err != nil {
		return err
	}
	var req AssignTechnicianRequest
	if err = s.body(c, &req); err != nil {
		return err
	}
	technicianID, err := kernel.UUIDFromString(req.TechnicianID)
	if err != nil {
		return err
	}
	scheduledAt, err := clock.CombineIn(s.loc, req.Date, req.Time)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignTechnicianCommand(actor, orderID, technicianID, scheduledAt)
	if err != nil {
		return err
	}
	result, err := s.h.AssignTechnician.Handle(c.Request().Context(), cmd)
	return s.transitioned(c, http.StatusOK, result, err)
}

// StartWork handles POST /api/v1/orders/{orderId}/start.
func (s *Server) StartWork(c echo.Context) error {
	actor, orderID, err := s.request(c, "orderId")
	if err != nil {
		return err
	}
	cmd, err := commands.NewStartWorkCommand(actor, orderID)
	if err != nil {
		return err
	}
	result, err := s.h.StartWork.Handle(c.Request().Context(), cmd)
	return s.transitioned(c, http.StatusOK, result, err)
}

// FinishWork handles POST /api/v1/orders/{orderId}/finish.
func (s *Server) FinishWork(c echo.Context) error {
	actor, orderID, err := s.request(c, "orderId")
	if err != nil {
		return err
	}
	var req FinishWorkRequest
	if err = s.body(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewFinishWorkCommand(actor, orderID, req.Summary)
	if err != nil {
		return err
	}
	result, err := s.h.FinishWork.Handle(c.Request().Context(), cmd)
	return s.transitioned(c, http.StatusOK, result, err)
}

// ConfirmService handles POST /api/v1/orders/{orderId}/confirm-service.
func (s *Server) ConfirmService(c echo.Context) error {
	actor, orderID, err := s.request(c, "orderId")
	if err != nil {
		return err
	}
	cmd, err := commands.NewConfirmServiceCommand(actor, orderID)
	if err != nil {
		return err
	}
	result, err := s.h.ConfirmService.Handle(c.Request().Context(), cmd)
	return s.transitioned(c, http.StatusOK, result, err)
}

// RejectService handles POST /api/v1/orders/{orderId}/reject-service.
func (s *Server) RejectService(c echo.Context) error {
	actor, orderID, err := s.request(c, "orderId")
	if err != nil {
		return err
	}
	var req ReasonRequest
	if err = s.body(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewRejectServiceCommand(actor, orderID, req.Reason)
	if err != nil {
		return err
	}
	result, err := s.h.RejectService.Handle(c.Request().Context(), cmd)
	return s.transitioned(c, http.StatusOK, result, err)
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	actor, orderID, err := s.request(c, "orderId")
	if err != nil {
		return err
	}
	var req ReasonRequest
	if err = s.body(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewCancelOrderCommand(actor, orderID, req.Reason)
	if err != nil {
		return err
	}
	result, err := s.h.CancelOrder.Handle(c.Request().Context(), cmd)
	return s.transitioned(c, http.StatusOK, result, err)
}

// ConfirmAppointment handles POST /api/v1/appointments/{appointmentId}/confirm.
func (s *Server) ConfirmAppointment(c echo.Context) error {
	actor, appointmentID, err := s.request(c, "appointmentId")
	if err != nil {
		return err
	}
	cmd, err := commands.NewConfirmAppointmentCommand(actor, appointmentID)
	if err != nil {
		return err
	}
	result, err := s.h.ConfirmAppointment.Handle(c.Request().Context(), cmd)
	return s.transitioned(c, http.StatusOK, result, err)
}

// RequestReprogram handles POST /api/v1/appointments/{appointmentId}/reprogram.
func (s *Server) RequestReprogram(c echo.Context) error {
	actor, appointmentID, err := s.request(c, "appointmentId")
	if err != nil {
		return err
	}
	var req RequestReprogramRequest
	if err = s.body(c, &req); err != nil {
		return err
	}
	newAt, err := clock.CombineIn(s.loc, req.Date, req.Time)
	if err != nil {
		return err
	}
	cmd, err := commands.NewRequestReprogramCommand(actor, appointmentID, newAt, req.Reason)
	if err != nil {
		return err
	}
	result, err := s.h.RequestReprogram.Handle(c.Request().Context(), cmd)
	return s.transitioned(c, http.StatusOK, result, err)
}

// ReproposeAppointment handles POST /api/v1/appointments/{appointmentId}/repropose.
func (s *Server) ReproposeAppointment(c echo.Context) error {
	actor, appointmentID, err := s.request(c, "appointmentId")
	if err != nil {
		return err
	}
	var req ReproposeRequest
	if err = s.body(c, &req); err != nil {
		return err
	}
	var scheduledAt time.Time
	if req.Date != "" {
		if scheduledAt, err = clock.CombineIn(s.loc, req.Date, req.Time); err != nil {
			return err
		}
	}
	cmd, err := commands.NewReproposeAppointmentCommand(actor, appointmentID, scheduledAt)
	if err != nil {
		return err
	}
	result, err := s.h.ReproposeAppointment.Handle(c.Request().Context(), cmd)
	return s.transitioned(c, http.StatusOK, result, err)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(c echo.Context) error {
	actor, orderID, err := s.request(c, "orderId")
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(actor, orderID)
	if err != nil {
		return err
	}
	resp, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderDetailResponse(resp))
}

// ListOrders handles GET /api/v1/orders?status=.
func (s *Server) ListOrders(c echo.Context) error {
	actor, _, err := s.request(c, "")
	if err != nil {
		return err
	}
	var status *order.Status
	if raw := c.QueryParam("status"); raw != "" {
		parsed, parseErr := order.ParseStatus(raw)
		if parseErr != nil {
			return parseErr
		}
		status = &parsed
	}
	query, err := queries.NewListOrdersQuery(actor, status)
	if err != nil {
		return err
	}
	views, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]OrderResponse, len(views))
	for i, v := range views {
		response[i] = newOrderResponse(v)
	}
	return c.JSON(http.StatusOK, response)
}

// GetOrderAppointments handles GET /api/v1/orders/{orderId}/appointments.
func (s *Server) GetOrderAppointments(c echo.Context) error {
	actor, orderID, err := s.request(c, "orderId")
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderAppointmentsQuery(actor, orderID)
	if err != nil {
		return err
	}
	views, err := s.h.GetOrderAppointments.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]AppointmentResponse, len(views))
	for i, v := range views {
		response[i] = newAppointmentResponse(v)
	}
	return c.JSON(http.StatusOK, response)
}

// GetOrderAuditTrail handles GET /api/v1/orders/{orderId}/audit.
func (s *Server) GetOrderAuditTrail(c echo.Context) error {
	actor, orderID, err := s.request(c, "orderId")
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderAuditTrailQuery(actor, orderID)
	if err != nil {
		return err
	}
	views, err := s.h.GetOrderAuditTrail.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]AuditRecordResponse, len(views))
	for i, v := range views {
		response[i] = AuditRecordResponse{
			ID:          v.ID.String(),
			ActorID:     v.ActorID.String(),
			Action:      v.Action,
			Description: v.Description,
			RecordedAt:  v.RecordedAt,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// GetTechnicians handles GET /api/v1/technicians?available=.
func (s *Server) GetTechnicians(c echo.Context) error {
	if _, _, err := s.request(c, ""); err != nil {
		return err
	}
	var onlyAvailable bool
	if err := echo.QueryParamsBinder(c).Bool("available", &onlyAvailable).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid available flag")
	}

	technicians, err := s.h.GetAllTechnicians.Handle(c.Request().Context(), queries.NewGetAllTechniciansQuery(onlyAvailable))
	if err != nil {
		return err
	}

	response := make([]TechnicianResponse, len(technicians))
	for i, t := range technicians {
		response[i] = TechnicianResponse{
			ID:     t.ID.String(),
			Name:   t.Name,
			Zone:   t.Zone.String(),
			Active: t.Active,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// CreateTechnician handles POST /api/v1/technicians.
func (s *Server) CreateTechnician(c echo.Context) error {
	actor, _, err := s.request(c, "")
	if err != nil {
		return err
	}
	var req CreateTechnicianRequest
	if err = s.body(c, &req); err != nil {
		return err
	}
	technicianID, err := kernel.UUIDFromString(req.TechnicianID)
	if err != nil {
		return err
	}
	zone, err := kernel.ParseZone(req.Zone)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateTechnicianCommand(actor, technicianID, req.Name, zone)
	if err != nil {
		return err
	}
	if err = s.h.CreateTechnician.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

// UpdateTechnician handles PATCH /api/v1/technicians/{technicianId}.
func (s *Server) UpdateTechnician(c echo.Context) error {
	actor, technicianID, err := s.request(c, "technicianId")
	if err != nil {
		return err
	}
	var req UpdateTechnicianRequest
	if err = s.body(c, &req); err != nil {
		return err
	}
	var zone *kernel.Zone
	if req.Zone != nil {
		parsed, parseErr := kernel.ParseZone(*req.Zone)
		if parseErr != nil {
			return parseErr
		}
		zone = &parsed
	}

	cmd, err := commands.NewUpdateTechnicianCommand(actor, technicianID, zone, req.Active)
	if err != nil {
		return err
	}
	if err = s.h.UpdateTechnician.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetNotifications handles GET /api/v1/notifications?unread=&limit=.
func (s *Server) GetNotifications(c echo.Context) error {
	actor, _, err := s.request(c, "")
	if err != nil {
		return err
	}
	var unreadOnly bool
	var limit int
	if err = echo.QueryParamsBinder(c).Bool("unread", &unreadOnly).Int("limit", &limit).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid unread or limit parameter")
	}

	query, err := queries.NewGetNotificationsQuery(actor, unreadOnly, limit)
	if err != nil {
		return err
	}
	views, err := s.h.GetNotifications.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]NotificationResponse, len(views))
	for i, v := range views {
		response[i] = NotificationResponse{
			ID:      v.ID.String(),
			OrderID: optionalString(v.OrderID),
			Type:    v.Type,
			Channel: v.Channel,
			Message: v.Message,
			SentAt:  v.SentAt,
			Read:    v.Read,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// MarkNotificationRead handles POST /api/v1/notifications/{notificationId}/read.
func (s *Server) MarkNotificationRead(c echo.Context) error {
	actor, notificationID, err := s.request(c, "notificationId")
	if err != nil {
		return err
	}
	cmd, err := commands.NewMarkNotificationReadCommand(actor, notificationID)
	if err != nil {
		return err
	}
	if err = s.h.MarkNotificationRead.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
