package order

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
)

const (
	// MinRejectionReasonLength is the shortest reason an agent may give when rejecting an order.
	MinRejectionReasonLength = 10

	// CheckRejectionReason is the validation check code for a too-short rejection reason.
	CheckRejectionReason = "rejection_reason_too_short"
)

var (
	// ErrOrderIsNotConstructed is returned when a ServiceOrder was not created through
	// NewServiceOrder or RestoreServiceOrder.
	ErrOrderIsNotConstructed = errors.New("ServiceOrder must be created via NewServiceOrder constructor")
)

// ServiceOrder is a client's request for installation, repair or removal work. It is
// the aggregate root of the order lifecycle and the only place its status changes.
//
// ServiceOrder follows these invariants:
//   - An assigned technician is present iff the status is Assigned, InProgress or Completed
//   - completedAt is present iff the status is Completed
//   - The supervising coordinator is fixed at assignment time and never recomputed
//   - Status transitions follow the Status state machine
type ServiceOrder struct {
	id          kernel.UUID
	number      string
	clientID    kernel.UUID
	createdBy   *kernel.UUID
	serviceType ServiceType
	description string
	address     string
	status      Status

	technicianID  *kernel.UUID
	coordinatorID *kernel.UUID

	requestedAt time.Time
	assignedAt  *time.Time
	completedAt *time.Time

	rejectionReason    string
	cancellationReason string

	// version increases on every persisted change and backs the optimistic check
	// in the storage adapter.
	version int

	isConstructed bool
}

// NewServiceOrder creates an order in Created status.
//
// Parameters:
//   - id: unique identifier
//   - number: human-readable order number (see NewOrderNumber)
//   - clientID: user id of the requesting client
//   - createdBy: user id of the agent that registered the order on the client's behalf, or nil
//   - serviceType: requested kind of work
//   - description, address: free text, checked when the order is validated
//   - requestedAt: creation instant in the service timezone
//
// Example:
//
//	id := kernel.NewUUID()
//	o, err := order.NewServiceOrder(id, order.NewOrderNumber(now, id), clientID, nil,
//	    order.ServiceRepair, "Router does not power on after storm", "Calle 10 # 4-21", now)
func NewServiceOrder(
	id kernel.UUID,
	number string,
	clientID kernel.UUID,
	createdBy *kernel.UUID,
	serviceType ServiceType,
	description string,
	address string,
	requestedAt time.Time,
) (*ServiceOrder, error) {
	o := &ServiceOrder{
		status:        Created,
		description:   strings.TrimSpace(description),
		address:       strings.TrimSpace(address),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setClientID(clientID),
		o.setCreatedBy(createdBy),
		o.setServiceType(serviceType),
		o.setRequestedAt(requestedAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot carries every persisted field of a ServiceOrder.
type Snapshot struct {
	ID                 kernel.UUID
	Number             string
	ClientID           kernel.UUID
	CreatedBy          *kernel.UUID
	ServiceType        ServiceType
	Description        string
	Address            string
	Status             Status
	TechnicianID       *kernel.UUID
	CoordinatorID      *kernel.UUID
	RequestedAt        time.Time
	AssignedAt         *time.Time
	CompletedAt        *time.Time
	RejectionReason    string
	CancellationReason string
	Version            int
}

// RestoreServiceOrder rebuilds an order from persistence and re-checks its invariants.
func RestoreServiceOrder(s Snapshot) (*ServiceOrder, error) {
	o := &ServiceOrder{
		description:        s.Description,
		address:            s.Address,
		assignedAt:         s.AssignedAt,
		completedAt:        s.CompletedAt,
		rejectionReason:    s.RejectionReason,
		cancellationReason: s.CancellationReason,
		version:            s.Version,
		isConstructed:      true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setNumber(s.Number),
		o.setClientID(s.ClientID),
		o.setCreatedBy(s.CreatedBy),
		o.setServiceType(s.ServiceType),
		o.setRequestedAt(s.RequestedAt),
		o.setStatus(s.Status, s.TechnicianID, s.CompletedAt),
		optionalID(s.CoordinatorID),
	); err != nil {
		return nil, err
	}
	o.coordinatorID = s.CoordinatorID

	return o, nil
}

// Validate ensures the order was built by a constructor.
func (o *ServiceOrder) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// Snapshot exports the persisted fields.
func (o *ServiceOrder) Snapshot() Snapshot {
	return Snapshot{
		ID:                 o.id,
		Number:             o.number,
		ClientID:           o.clientID,
		CreatedBy:          o.createdBy,
		ServiceType:        o.serviceType,
		Description:        o.description,
		Address:            o.address,
		Status:             o.status,
		TechnicianID:       o.technicianID,
		CoordinatorID:      o.coordinatorID,
		RequestedAt:        o.requestedAt,
		AssignedAt:         o.assignedAt,
		CompletedAt:        o.completedAt,
		RejectionReason:    o.rejectionReason,
		CancellationReason: o.cancellationReason,
		Version:            o.version,
	}
}

func (o *ServiceOrder) ID() kernel.UUID {
	return o.id
}

func (o *ServiceOrder) Number() string {
	return o.number
}

func (o *ServiceOrder) ClientID() kernel.UUID {
	return o.clientID
}

func (o *ServiceOrder) CreatedBy() *kernel.UUID {
	return o.createdBy
}

func (o *ServiceOrder) ServiceType() ServiceType {
	return o.serviceType
}

func (o *ServiceOrder) Description() string {
	return o.description
}

func (o *ServiceOrder) Address() string {
	return o.address
}

func (o *ServiceOrder) Status() Status {
	return o.status
}

func (o *ServiceOrder) Technician() *kernel.UUID {
	return o.technicianID
}

func (o *ServiceOrder) Coordinator() *kernel.UUID {
	return o.coordinatorID
}

func (o *ServiceOrder) RequestedAt() time.Time {
	return o.requestedAt
}

func (o *ServiceOrder) AssignedAt() *time.Time {
	return o.assignedAt
}

func (o *ServiceOrder) CompletedAt() *time.Time {
	return o.completedAt
}

func (o *ServiceOrder) RejectionReason() string {
	return o.rejectionReason
}

func (o *ServiceOrder) CancellationReason() string {
	return o.cancellationReason
}

func (o *ServiceOrder) Version() int {
	return o.version
}

func (o *ServiceOrder) IsEqual(other *ServiceOrder) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// IsOwnedBy reports whether userID is the order's client.
func (o *ServiceOrder) IsOwnedBy(userID kernel.UUID) bool {
	return o.clientID.IsEqual(userID)
}

// IsAssignedTo reports whether userID is the order's assigned technician.
func (o *ServiceOrder) IsAssignedTo(userID kernel.UUID) bool {
	return o.technicianID != nil && o.technicianID.IsEqual(userID)
}

// MarkVersion records the version the storage adapter persisted.
func (o *ServiceOrder) MarkVersion(version int) {
	o.version = version
}

// Approve moves a Created order to Validated. The caller is responsible for the
// validation policy; Approve only guards the state machine.
func (o *ServiceOrder) Approve() error {
	next, err := o.status.Approve()
	if err != nil {
		return err
	}
	o.status = next
	return nil
}

// Reject cancels a Created order with a reason of at least MinRejectionReasonLength characters.
func (o *ServiceOrder) Reject(reason string) error {
	next, err := o.status.Reject()
	if err != nil {
		return err
	}

	reason = strings.TrimSpace(reason)
	if utf8.RuneCountInString(reason) < MinRejectionReasonLength {
		return errs.NewValidationError(errs.Check{
			Code:    CheckRejectionReason,
			Message: fmt.Sprintf("rejection reason must have at least %d characters", MinRejectionReasonLength),
		})
	}

	o.status = next
	o.rejectionReason = reason
	return nil
}

// Assign hands a Validated order to a technician. coordinatorID is the supervising
// coordinator resolved at this moment, or nil when none covers the technician's zone.
func (o *ServiceOrder) Assign(technicianID kernel.UUID, coordinatorID *kernel.UUID, at time.Time) error {
	if err := errors.Join(technicianID.Validate(), optionalID(coordinatorID)); err != nil {
		return err
	}

	next, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.status = next
	o.technicianID = &technicianID
	o.coordinatorID = coordinatorID
	o.assignedAt = &at
	return nil
}

// StartWork moves an Assigned order to InProgress.
func (o *ServiceOrder) StartWork() error {
	next, err := o.status.Start()
	if err != nil {
		return err
	}
	o.status = next
	return nil
}

// FinishWork moves an InProgress order to Completed and stamps completedAt.
func (o *ServiceOrder) FinishWork(at time.Time) error {
	next, err := o.status.Finish()
	if err != nil {
		return err
	}
	o.status = next
	o.completedAt = &at
	return nil
}

// Reopen sends a Completed order back to InProgress after the client rejected the service.
func (o *ServiceOrder) Reopen() error {
	next, err := o.status.Reopen()
	if err != nil {
		return err
	}
	o.status = next
	o.completedAt = nil
	return nil
}

// Cancel moves any non-terminal order to Cancelled. The technician reference is
// dropped so the status/technician invariant keeps holding.
func (o *ServiceOrder) Cancel(reason string) error {
	next, err := o.status.Cancel()
	if err != nil {
		return err
	}
	o.status = next
	o.technicianID = nil
	o.cancellationReason = strings.TrimSpace(reason)
	return nil
}

func (o *ServiceOrder) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *ServiceOrder) setNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	o.number = number
	return nil
}

func (o *ServiceOrder) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("client", err)
	}
	o.clientID = clientID
	return nil
}

func (o *ServiceOrder) setCreatedBy(createdBy *kernel.UUID) error {
	if err := optionalID(createdBy); err != nil {
		return err
	}
	o.createdBy = createdBy
	return nil
}

func (o *ServiceOrder) setServiceType(serviceType ServiceType) error {
	if err := serviceType.Validate(); err != nil {
		return err
	}
	o.serviceType = serviceType
	return nil
}

func (o *ServiceOrder) setRequestedAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("requested at")
	}
	o.requestedAt = at
	return nil
}

func (o *ServiceOrder) setStatus(status Status, technicianID *kernel.UUID, completedAt *time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if err := optionalID(technicianID); err != nil {
		return err
	}
	if err := status.ValidateCanHaveTechnician(technicianID != nil); err != nil {
		return err
	}
	if (completedAt != nil) != (status == Completed) {
		return errs.NewValueIsInvalidErrorWithCause(
			"completed at",
			fmt.Errorf("%s is not a valid status with completed-at=%t", status, completedAt != nil),
		)
	}
	o.status = status
	o.technicianID = technicianID
	return nil
}

func optionalID(id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	return id.Validate()
}

// NewOrderNumber builds the human-readable number "OS-YYYYMMDD-XXXXXX" from the
// request date and the first six hex digits of the order id.
func NewOrderNumber(requestedAt time.Time, id kernel.UUID) string {
	raw := strings.ReplaceAll(id.String(), "-", "")
	return fmt.Sprintf("OS-%s-%s", requestedAt.Format("20060102"), strings.ToUpper(raw[:6]))
}
