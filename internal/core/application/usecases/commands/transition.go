package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"fieldservice/internal/core/application/auditor"
	"fieldservice/internal/core/application/notifier"
	"fieldservice/internal/core/domain/model/appointment"
	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/notification"
	"fieldservice/internal/core/domain/model/order"
	"fieldservice/internal/core/ports"
	"fieldservice/internal/pkg/errs"
	"fieldservice/internal/pkg/logger"
	"fieldservice/internal/pkg/metrics"
)

// DefaultTransitionTimeout bounds a transition that sets no explicit timeout.
const DefaultTransitionTimeout = 10 * time.Second

var ErrEngineDependencyMissing = errors.New("engine dependency missing")

// TransitionResult describes a committed transition.
type TransitionResult struct {
	OrderID       kernel.UUID
	AppointmentID *kernel.UUID
	// Delivered counts notification rows written in the transition.
	Delivered int
	// NotificationFailure is set when some recipients could not be notified. The
	// transition is committed regardless.
	NotificationFailure *errs.NotificationPartialFailureError
	// AuditFailures counts audit records spooled for redelivery.
	AuditFailures int
	// Writes counts the order, appointment, execution and technician rows the
	// transition committed. Notification and audit rows are not included.
	Writes int
}

// writeCounter is implemented by units of work that track the aggregates
// their repositories wrote.
type writeCounter interface {
	TrackedCount() int
}

// Engine runs transitions. It is shared by every command handler and safe for
// concurrent use.
type Engine struct {
	uowFactory UoWFactory
	locker     ports.OrderLocker
	clock      ports.Clock
	notifier   *notifier.Dispatcher
	auditor    *auditor.Recorder
	metrics    *metrics.TransitionMetrics
	log        *logger.Logger
	timeout    time.Duration
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithTimeout sets the upper bound of one transition.
func WithTimeout(timeout time.Duration) EngineOption {
	return func(e *Engine) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// WithMetrics records transitions on m.
func WithMetrics(m *metrics.TransitionMetrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLogger logs transitions on log.
func WithLogger(log *logger.Logger) EngineOption {
	return func(e *Engine) {
		if log != nil {
			e.log = log.Component("transitions")
		}
	}
}

// NewEngine creates an Engine.
func NewEngine(
	uowFactory UoWFactory,
	locker ports.OrderLocker,
	clock ports.Clock,
	dispatcher *notifier.Dispatcher,
	recorder *auditor.Recorder,
	opts ...EngineOption,
) (*Engine, error) {
	if uowFactory == nil || locker == nil || clock == nil || dispatcher == nil || recorder == nil {
		return nil, ErrEngineDependencyMissing
	}
	e := &Engine{
		uowFactory: uowFactory,
		locker:     locker,
		clock:      clock,
		notifier:   dispatcher,
		auditor:    recorder,
		log:        logger.NewNop(),
		timeout:    DefaultTransitionTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Tx is the view of one running transition handed to a handler: the repositories
// of its unit of work, the actor, "now" and the best-effort side effects.
type Tx struct {
	ctx    context.Context
	uow    ports.UnitOfWork
	actor  kernel.Actor
	now    time.Time
	engine *Engine

	fanouts []notifier.Result
	audits  []auditor.Outcome
	result  TransitionResult
}

func (t *Tx) Context() context.Context {
	return t.ctx
}

func (t *Tx) Actor() kernel.Actor {
	return t.actor
}

// Now is the instant of the transition in the service timezone.
func (t *Tx) Now() time.Time {
	return t.now
}

func (t *Tx) Orders() ports.OrderRepository {
	return t.uow.OrderRepository()
}

func (t *Tx) Executions() ports.ExecutionRepository {
	return t.uow.ExecutionRepository()
}

func (t *Tx) Appointments() ports.AppointmentRepository {
	return t.uow.AppointmentRepository()
}

func (t *Tx) Technicians() ports.TechnicianRepository {
	return t.uow.TechnicianRepository()
}

func (t *Tx) Coordinators() ports.CoordinatorRepository {
	return t.uow.CoordinatorRepository()
}

func (t *Tx) Clients() ports.ClientRepository {
	return t.uow.ClientRepository()
}

func (t *Tx) Notifications() ports.NotificationRepository {
	return t.uow.NotificationRepository()
}

// Notify fans an event out inside the transaction. Failed rows are reported in
// the result and spooled once the transition commits.
func (t *Tx) Notify(orderID *kernel.UUID, kind notification.Type, message string, recipients ...kernel.UUID) {
	res := t.engine.notifier.Fanout(t.ctx, t.uow.NotificationRepository(), notifier.Event{
		OrderID:    orderID,
		Type:       kind,
		Message:    message,
		Recipients: recipients,
	})
	t.fanouts = append(t.fanouts, res)
}

// Audit appends an audit record for the actor inside the transaction.
func (t *Tx) Audit(orderID *kernel.UUID, action audit.Action, description string) {
	outcome := t.engine.auditor.Record(t.ctx, t.uow.AuditRepository(), auditor.Entry{
		ActorID:     t.actor.UserID(),
		OrderID:     orderID,
		Action:      action,
		Description: description,
	})
	t.audits = append(t.audits, outcome)
}

// ActiveCoordinatorIDs returns the user ids of every active coordinator.
func (t *Tx) ActiveCoordinatorIDs() ([]kernel.UUID, error) {
	coordinators, err := t.uow.CoordinatorRepository().ListActive(t.ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]kernel.UUID, 0, len(coordinators))
	for _, c := range coordinators {
		ids = append(ids, c.ID())
	}
	return ids, nil
}

// SetOrder records the order the transition acted on.
func (t *Tx) SetOrder(id kernel.UUID) {
	t.result.OrderID = id
}

// SetAppointment records the appointment the transition acted on.
func (t *Tx) SetAppointment(id kernel.UUID) {
	t.result.AppointmentID = &id
}

// Run executes fn as one transition named operation. When orderID is set, the
// order is locked for the whole transition. The error returned is classified:
// domain errors pass through and storage errors become PersistenceError.
func (e *Engine) Run(
	ctx context.Context,
	operation string,
	actor kernel.Actor,
	orderID *kernel.UUID,
	fn func(tx *Tx) error,
) (TransitionResult, error) {
	started := time.Now()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	ctx = e.scope(ctx, operation, actor, orderID)

	result, err := e.execute(ctx, actor, orderID, fn)
	if err == nil {
		ctx = e.log.WithField(ctx, "aggregate_writes", result.Writes)
	}
	return result, e.report(ctx, operation, started, err)
}

// RunForAppointment runs fn against an appointment and its order, both loaded
// inside the transition. The order of the appointment is resolved first so the
// transition holds the same per-order lock as every other operation on it.
func (e *Engine) RunForAppointment(
	ctx context.Context,
	operation string,
	actor kernel.Actor,
	appointmentID kernel.UUID,
	fn func(tx *Tx, a *appointment.Appointment, o *order.ServiceOrder) error,
) (TransitionResult, error) {
	started := time.Now()

	lookupCtx, cancel := context.WithTimeout(ctx, e.timeout)
	a, err := e.uowFactory.Create().AppointmentRepository().Get(lookupCtx, appointmentID)
	cancel()
	if err != nil {
		scoped := e.scope(ctx, operation, actor, nil)
		return TransitionResult{}, e.report(scoped, operation, started, err)
	}

	orderID := a.OrderID()
	return e.Run(ctx, operation, actor, &orderID, func(tx *Tx) error {
		a, err := tx.Appointments().Get(tx.Context(), appointmentID)
		if err != nil {
			return err
		}
		o, err := tx.Orders().GetForUpdate(tx.Context(), orderID)
		if err != nil {
			return err
		}
		tx.SetAppointment(appointmentID)
		return fn(tx, a, o)
	})
}

func (e *Engine) scope(ctx context.Context, operation string, actor kernel.Actor, orderID *kernel.UUID) context.Context {
	ctx = e.log.WithFields(ctx, map[string]any{
		"operation":  operation,
		"user_id":    actor.UserID().String(),
		"actor_role": string(actor.Role()),
	})
	if orderID != nil {
		ctx = e.log.WithOrderID(ctx, orderID.String())
	}
	return ctx
}

func (e *Engine) report(ctx context.Context, operation string, started time.Time, err error) error {
	if err != nil {
		err = errs.ClassifyPersistence(operation, err)
	}

	kind := errs.KindOf(err)
	e.metrics.ObserveTransition(operation, string(kind), time.Since(started))

	switch kind {
	case errs.KindNone:
		e.log.Info(ctx, "transition committed")
	case errs.KindPersistence, errs.KindInternal:
		e.log.Error(ctx, "transition aborted", err)
	default:
		e.log.Debug(ctx, "transition refused: "+err.Error())
	}
	return err
}

func (e *Engine) execute(
	ctx context.Context,
	actor kernel.Actor,
	orderID *kernel.UUID,
	fn func(tx *Tx) error,
) (TransitionResult, error) {
	if err := actor.Validate(); err != nil {
		return TransitionResult{}, err
	}

	if orderID != nil {
		unlock, err := e.locker.Lock(ctx, *orderID)
		if err != nil {
			return TransitionResult{}, err
		}
		defer unlock()
	}

	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return TransitionResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	tx := &Tx{
		ctx:    ctx,
		uow:    uow,
		actor:  actor,
		now:    e.clock.Now(),
		engine: e,
	}
	if orderID != nil {
		tx.result.OrderID = *orderID
	}

	if err := fn(tx); err != nil {
		return TransitionResult{}, err
	}

	var writes int
	if counter, ok := uow.(writeCounter); ok {
		writes = counter.TrackedCount()
	}
	if err := uow.Commit(ctx); err != nil {
		return TransitionResult{}, err
	}
	tx.result.Writes = writes

	e.notifier.Spool(tx.fanouts...)
	e.auditor.Spool(tx.audits...)

	return tx.summarize(), nil
}

func (t *Tx) summarize() TransitionResult {
	result := t.result

	var failed, total int
	var causes []error
	var events []string
	for _, f := range t.fanouts {
		result.Delivered += len(f.Delivered)
		total += f.Total()
		if len(f.Failed) == 0 {
			continue
		}
		failed += len(f.Failed)
		events = append(events, string(f.Type))
		for _, fail := range f.Failed {
			causes = append(causes, fail.Err)
		}
	}
	if failed > 0 {
		result.NotificationFailure = errs.NewNotificationPartialFailureError(
			strings.Join(events, ", "), failed, total, causes,
		)
	}

	for _, a := range t.audits {
		if a.Err != nil {
			result.AuditFailures++
		}
	}
	return result
}
