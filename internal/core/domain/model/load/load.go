package load

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/pkg/errs"
)

// Load is the aggregate root of a shipment. It enforces the lifecycle and the
// payment rules, and records an Event for every transition.
//
// Load follows these invariants:
//   - Must have a valid identifier and sender
//   - Origin, destination, load type and expected date are required
//   - Weight is a finite number greater than 0
//   - A driver is present exactly while status is assigned, intransit or delivered
//   - Payment is paid only after delivery
//
// Price is fixed at creation and never recomputed. A nil price means the
// pricing advisor could not produce a quote.
type Load struct {
	id            kernel.ID
	senderID      kernel.ID
	driverID      *kernel.ID
	origin        string
	destination   string
	loadType      string
	weight        float64
	expectedDate  string
	status        Status
	price         *float64
	paymentStatus PaymentStatus
	position      *kernel.Position

	// version is the optimistic concurrency token the store compares on update
	version int

	domainEvents  []Event
	isConstructed bool
}

// NewLoad creates a pending, unpaid load and records EventPosted.
//
// Example:
//
//	price := 21000.0
//	l, err := load.NewLoad(id, senderID, "Delhi", "Mumbai", "Textiles", 500, "2025-05-01", &price)
//	if err != nil {
//	    // Handle validation error
//	}
func NewLoad(
	id, senderID kernel.ID,
	origin, destination, loadType string,
	weight float64,
	expectedDate string,
	price *float64,
) (*Load, error) {
	l := &Load{
		status:        Pending,
		paymentStatus: Unpaid,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		l.setID(id),
		l.setSender(senderID),
		l.setRoute(origin, destination),
		l.setLoadType(loadType),
		l.setWeight(weight),
		l.setExpectedDate(expectedDate),
		l.setPrice(price),
	); err != nil {
		return nil, err
	}

	l.raise(EventPosted)
	return l, nil
}

// RestoreLoad rebuilds a load from storage. It checks the same field rules as
// NewLoad plus the consistency of status, driver and payment, and records no events.
func RestoreLoad(
	id, senderID kernel.ID,
	driverID *kernel.ID,
	origin, destination, loadType string,
	weight float64,
	expectedDate string,
	status Status,
	price *float64,
	paymentStatus PaymentStatus,
	position *kernel.Position,
	version int,
) (*Load, error) {
	l := &Load{
		status:        status,
		paymentStatus: paymentStatus,
		driverID:      driverID,
		position:      position,
		version:       version,
		isConstructed: true,
	}

	if err := errors.Join(
		l.setID(id),
		l.setSender(senderID),
		l.setRoute(origin, destination),
		l.setLoadType(loadType),
		l.setWeight(weight),
		l.setExpectedDate(expectedDate),
		l.setPrice(price),
		status.Validate(),
		paymentStatus.Validate(),
		status.ValidateCanHaveDriver(driverID != nil),
		validatePayment(status, paymentStatus),
	); err != nil {
		return nil, err
	}

	return l, nil
}

// Validate ensures the Load was created through NewLoad or RestoreLoad.
func (l *Load) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLoadIsNotConstructed
	}
	return nil
}

func (l *Load) ID() kernel.ID {
	return l.id
}

// Reference returns the public "UTI-<id>" reference.
func (l *Load) Reference() kernel.Reference {
	ref, _ := kernel.NewReference(l.id)
	return ref
}

func (l *Load) SenderID() kernel.ID {
	return l.senderID
}

// DriverID returns the assigned driver, nil until the load is assigned.
func (l *Load) DriverID() *kernel.ID {
	return l.driverID
}

func (l *Load) Origin() string {
	return l.origin
}

func (l *Load) Destination() string {
	return l.destination
}

func (l *Load) LoadType() string {
	return l.loadType
}

func (l *Load) Weight() float64 {
	return l.weight
}

func (l *Load) ExpectedDate() string {
	return l.expectedDate
}

func (l *Load) Status() Status {
	return l.status
}

func (l *Load) Price() *float64 {
	return l.price
}

func (l *Load) PaymentStatus() PaymentStatus {
	return l.paymentStatus
}

// Position returns the latest reported driver position, nil before the first report.
func (l *Load) Position() *kernel.Position {
	return l.position
}

func (l *Load) Version() int {
	return l.version
}

// AdvanceVersion is called by the store once an update has been written.
func (l *Load) AdvanceVersion() {
	l.version++
}

// IsSentBy reports whether the given user posted the load.
func (l *Load) IsSentBy(userID kernel.ID) bool {
	return l.senderID == userID
}

// IsAssignedTo reports whether the given user is the assigned driver.
func (l *Load) IsAssignedTo(userID kernel.ID) bool {
	return l.driverID != nil && *l.driverID == userID
}

// Request records a driver's bid. The load must be pending and the driver must
// not be its sender. The caller is responsible for the duplicate-bid check.
func (l *Load) Request(driverID kernel.ID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	newStatus, err := l.status.Request()
	if err != nil {
		return err
	}

	if l.IsSentBy(driverID) {
		return ErrSelfRequestForbidden
	}

	l.status = newStatus
	l.raise(EventRequested)
	return nil
}

// Assign hands a requested load to the winning driver.
func (l *Load) Assign(driverID kernel.ID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	newStatus, err := l.status.Assign()
	if err != nil {
		return err
	}

	l.status = newStatus
	l.driverID = &driverID
	l.raise(EventAssigned)
	return nil
}

// UpdateLocation stores the latest position reported by the assigned driver.
// The first report on an assigned load moves it to intransit.
func (l *Load) UpdateLocation(driverID kernel.ID, position kernel.Position) error {
	if err := position.Validate(); err != nil {
		return err
	}

	if !l.IsAssignedTo(driverID) {
		return ErrNotAssignedDriver
	}

	newStatus, err := l.status.Track()
	if err != nil {
		return err
	}

	startsTransit := l.status != newStatus
	l.status = newStatus
	l.position = &position

	if startsTransit {
		l.raise(EventInTransit)
	}
	l.raise(EventLocationUpdated)
	return nil
}

// MarkDelivered closes the trip. Only the assigned driver may do it, and only
// from intransit.
func (l *Load) MarkDelivered(driverID kernel.ID) error {
	if !l.IsAssignedTo(driverID) {
		return ErrNotAssignedDriver
	}

	newStatus, err := l.status.Deliver()
	if err != nil {
		return err
	}

	l.status = newStatus
	l.raise(EventDelivered)
	return nil
}

// MarkPaid acknowledges settlement. It is one-way and requires delivery.
func (l *Load) MarkPaid() error {
	if l.status != Delivered {
		return errs.NewStateConflictError(ErrNotDelivered.Code,
			fmt.Sprintf("payment only for delivered loads, status: %s", l.status))
	}

	newStatus, err := l.paymentStatus.MarkPaid()
	if err != nil {
		return err
	}

	l.paymentStatus = newStatus
	l.raise(EventPaid)
	return nil
}

func validatePayment(status Status, payment PaymentStatus) error {
	if payment == Paid && status != Delivered {
		return errs.NewValueIsInvalidErrorWithCause("payment status is invalid",
			fmt.Errorf("%s load cannot be paid", status))
	}
	return nil
}

func (l *Load) setID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	l.id = id
	return nil
}

func (l *Load) setSender(senderID kernel.ID) error {
	if err := senderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("sender", err)
	}
	l.senderID = senderID
	return nil
}

func (l *Load) setRoute(origin, destination string) error {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)

	var err error
	if origin == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("origin"))
	}
	if destination == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("destination"))
	}
	if err != nil {
		return err
	}

	l.origin = origin
	l.destination = destination
	return nil
}

func (l *Load) setLoadType(loadType string) error {
	loadType = strings.TrimSpace(loadType)
	if loadType == "" {
		return errs.NewValueIsRequiredError("load_type")
	}
	l.loadType = loadType
	return nil
}

func (l *Load) setWeight(weight float64) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weight", fmt.Errorf("%v is not a positive number", weight))
	}
	l.weight = weight
	return nil
}

func (l *Load) setExpectedDate(expectedDate string) error {
	expectedDate = strings.TrimSpace(expectedDate)
	if expectedDate == "" {
		return errs.NewValueIsRequiredError("expected_date")
	}
	l.expectedDate = expectedDate
	return nil
}

func (l *Load) setPrice(price *float64) error {
	if price == nil {
		l.price = nil
		return nil
	}
	if math.IsNaN(*price) || math.IsInf(*price, 0) || *price < 0 {
		return errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%v is not a valid price", *price))
	}
	p := *price
	l.price = &p
	return nil
}
