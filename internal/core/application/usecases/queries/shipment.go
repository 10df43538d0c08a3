package queries

import (
	"database/sql"

	"loadboard/internal/core/domain/model/kernel"
)

const (
	unassignedDriverName = "Not Assigned Yet"
	unknownName          = "N/A"
)

// Shipment is the full status snapshot of one load as shown to trackers.
type Shipment struct {
	LoadID            kernel.ID
	Reference         string
	Origin            string
	Destination       string
	Status            string
	ExpectedDate      string
	DriverName        string
	SenderName        string
	DriverLat         *float64
	DriverLng         *float64
	Price             *float64
	PaymentStatus     string
	RequiredDocuments []string
}

// shipmentColumns must match scanShipment.
const shipmentColumns = `
	l.id, l.origin, l.destination, l.status, l.expected_date,
	d.username, s.username, l.driver_lat, l.driver_lng, l.price, l.payment_status`

const shipmentJoins = `
	FROM loads l
	LEFT JOIN users d ON d.id = l.driver_id
	LEFT JOIN users s ON s.id = l.sender_id`

func scanShipment(rows *sql.Rows, documents documentAdvisor, noDriver string) (Shipment, error) {
	var (
		id                     int64
		driverName, senderName *string
		item                   Shipment
	)
	if err := rows.Scan(
		&id,
		&item.Origin,
		&item.Destination,
		&item.Status,
		&item.ExpectedDate,
		&driverName,
		&senderName,
		&item.DriverLat,
		&item.DriverLng,
		&item.Price,
		&item.PaymentStatus,
	); err != nil {
		return Shipment{}, err
	}

	item.LoadID = kernel.ID(id)
	item.Reference = referenceOf(id)
	item.DriverName = stringOr(driverName, noDriver)
	item.SenderName = stringOr(senderName, unknownName)
	item.RequiredDocuments = documentsFor(documents, item.Origin, item.Destination)
	return item, nil
}
