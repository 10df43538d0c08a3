package queries

import (
	"context"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/load"
	"loadboard/internal/core/domain/model/loadrequest"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/core/domain/services"
	"loadboard/internal/pkg/errs"

	"gorm.io/gorm"
)

var ErrListIncomingRequestsQueryIsNotConstructed = errs.NewValueIsRequiredError(
	"ListIncomingRequestsQuery must be created via NewListIncomingRequestsQuery constructor",
)

// ListIncomingRequestsQuery lists the pending bids on the sender's requested loads.
type ListIncomingRequestsQuery struct {
	identityQuery
}

func NewListIncomingRequestsQuery(identity user.Identity) (ListIncomingRequestsQuery, error) {
	base, err := newIdentityQuery(identity)
	if err != nil {
		return ListIncomingRequestsQuery{}, err
	}
	return ListIncomingRequestsQuery{identityQuery: base}, nil
}

type IncomingRequest struct {
	RequestID         kernel.ID
	LoadID            kernel.ID
	Reference         string
	Origin            string
	Destination       string
	DriverID          kernel.ID
	DriverName        string
	Price             *float64
	RequiredDocuments []string
}

type ListIncomingRequestsQueryHandler struct {
	db        *gorm.DB
	documents documentAdvisor
}

func NewListIncomingRequestsQueryHandler(db *gorm.DB, documents documentAdvisor) ListIncomingRequestsQueryHandler {
	return ListIncomingRequestsQueryHandler{db: db, documents: documents}
}

func (h ListIncomingRequestsQueryHandler) Handle(
	ctx context.Context,
	query ListIncomingRequestsQuery,
) ([]IncomingRequest, error) {
	if err := authorizedQuery(query.identityQuery, ErrListIncomingRequestsQueryIsNotConstructed,
		services.ActionListIncomingRequests); err != nil {
		return nil, err
	}

	requests := make([]IncomingRequest, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			r.id,
			l.id,
			l.origin,
			l.destination,
			r.driver_id,
			d.username,
			l.price
		FROM load_requests r
		JOIN loads l ON l.id = r.load_id
		LEFT JOIN users d ON d.id = r.driver_id
		WHERE l.sender_id = ?
			AND l.status = ?
			AND r.status = ?
		ORDER BY r.id
	`, query.Identity().UserID().Int64(), load.Requested.String(), loadrequest.Pending.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			requestID, loadID, driverID int64
			driverName                  *string
			item                        IncomingRequest
		)
		if err = rows.Scan(
			&requestID,
			&loadID,
			&item.Origin,
			&item.Destination,
			&driverID,
			&driverName,
			&item.Price,
		); err != nil {
			return nil, err
		}

		item.RequestID = kernel.ID(requestID)
		item.LoadID = kernel.ID(loadID)
		item.Reference = referenceOf(loadID)
		item.DriverID = kernel.ID(driverID)
		item.DriverName = stringOr(driverName, "N/A")
		item.RequiredDocuments = documentsFor(h.documents, item.Origin, item.Destination)
		requests = append(requests, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}
