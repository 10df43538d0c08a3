package load

import (
	"time"

	"loadboard/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// EventName is the routing name of a lifecycle event.
type EventName string

const (
	EventPosted          EventName = "load.posted"
	EventRequested       EventName = "load.requested"
	EventAssigned        EventName = "load.assigned"
	EventInTransit       EventName = "load.in_transit"
	EventLocationUpdated EventName = "load.location_updated"
	EventDelivered       EventName = "load.delivered"
	EventPaid            EventName = "load.paid"
)

// Event is a snapshot of the load taken when a transition happened.
type Event struct {
	ID            uuid.UUID
	Name          EventName
	LoadID        kernel.ID
	Status        Status
	PaymentStatus PaymentStatus
	DriverID      *kernel.ID
	Position      *kernel.Position
	OccurredAt    time.Time
}

// Reference returns the public reference of the load the event belongs to.
func (e Event) Reference() string {
	return kernel.ReferencePrefix + e.LoadID.String()
}

func (l *Load) raise(name EventName) {
	l.domainEvents = append(l.domainEvents, Event{
		ID:            uuid.New(),
		Name:          name,
		LoadID:        l.id,
		Status:        l.status,
		PaymentStatus: l.paymentStatus,
		DriverID:      l.driverID,
		Position:      l.position,
		OccurredAt:    time.Now().UTC(),
	})
}

// DomainEvents returns the events recorded since the aggregate was loaded.
func (l *Load) DomainEvents() []Event {
	return l.domainEvents
}

// ClearDomainEvents drops recorded events once they have been published.
func (l *Load) ClearDomainEvents() {
	l.domainEvents = nil
}
