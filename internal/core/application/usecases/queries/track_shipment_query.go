package queries

import (
	"context"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/core/domain/services"
	"loadboard/internal/pkg/errs"

	"gorm.io/gorm"
)

var ErrTrackShipmentQueryIsNotConstructed = errs.NewValueIsRequiredError(
	"TrackShipmentQuery must be created via NewTrackShipmentQuery constructor",
)

type TrackShipmentQuery struct {
	identityQuery
	reference kernel.Reference
}

func NewTrackShipmentQuery(identity user.Identity, reference kernel.Reference) (TrackShipmentQuery, error) {
	base, err := newIdentityQuery(identity)
	if err != nil {
		return TrackShipmentQuery{}, err
	}
	if err = reference.Validate(); err != nil {
		return TrackShipmentQuery{}, err
	}
	return TrackShipmentQuery{identityQuery: base, reference: reference}, nil
}

func (q TrackShipmentQuery) Reference() kernel.Reference {
	return q.reference
}

// TrackShipmentQueryHandler reads one shipment and checks that the caller may
// see it. A load the caller may not track is reported as forbidden, not as missing.
type TrackShipmentQueryHandler struct {
	db        *gorm.DB
	policy    services.TrackingPolicy
	documents documentAdvisor
}

func NewTrackShipmentQueryHandler(
	db *gorm.DB,
	policy services.TrackingPolicy,
	documents documentAdvisor,
) TrackShipmentQueryHandler {
	return TrackShipmentQueryHandler{db: db, policy: policy, documents: documents}
}

func (h TrackShipmentQueryHandler) Handle(ctx context.Context, query TrackShipmentQuery) (Shipment, error) {
	if err := authorizedQuery(query.identityQuery, ErrTrackShipmentQueryIsNotConstructed,
		services.ActionTrackShipment); err != nil {
		return Shipment{}, err
	}

	loadID := query.Reference().LoadID().Int64()

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+shipmentColumns+`, l.sender_id, l.driver_id, d.managed_by
		`+shipmentJoins+`
		WHERE l.id = ?
	`, loadID).Rows()
	if err != nil {
		return Shipment{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return Shipment{}, err
		}
		return Shipment{}, errs.NewObjectNotFoundError("load", query.Reference().String())
	}

	var (
		id                     int64
		driverName, senderName *string
		senderID               int64
		driverID, managedBy    *int64
		shipment               Shipment
	)
	if err = rows.Scan(
		&id,
		&shipment.Origin,
		&shipment.Destination,
		&shipment.Status,
		&shipment.ExpectedDate,
		&driverName,
		&senderName,
		&shipment.DriverLat,
		&shipment.DriverLng,
		&shipment.Price,
		&shipment.PaymentStatus,
		&senderID,
		&driverID,
		&managedBy,
	); err != nil {
		return Shipment{}, err
	}

	subject := services.TrackingSubject{
		SenderID:        kernel.ID(senderID),
		DriverID:        idOrNil(driverID),
		DriverManagedBy: idOrNil(managedBy),
	}
	if err = h.policy.Authorize(query.Identity(), subject); err != nil {
		return Shipment{}, err
	}

	shipment.LoadID = kernel.ID(id)
	shipment.Reference = referenceOf(id)
	shipment.DriverName = stringOr(driverName, unassignedDriverName)
	shipment.SenderName = stringOr(senderName, unknownName)
	shipment.RequiredDocuments = documentsFor(h.documents, shipment.Origin, shipment.Destination)

	return shipment, nil
}
