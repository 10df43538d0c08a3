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

var ErrGetDriverJobsQueryIsNotConstructed = errs.NewValueIsRequiredError(
	"GetDriverJobsQuery must be created via NewGetDriverJobsQuery constructor",
)

// GetDriverJobsQuery returns the carrier's running jobs and open bids.
type GetDriverJobsQuery struct {
	identityQuery
}

func NewGetDriverJobsQuery(identity user.Identity) (GetDriverJobsQuery, error) {
	base, err := newIdentityQuery(identity)
	if err != nil {
		return GetDriverJobsQuery{}, err
	}
	return GetDriverJobsQuery{identityQuery: base}, nil
}

type ConfirmedJob struct {
	LoadID            kernel.ID
	Reference         string
	Origin            string
	Destination       string
	LoadType          string
	Weight            float64
	ExpectedDate      string
	Status            string
	Price             *float64
	PaymentStatus     string
	SenderName        string
	RequiredDocuments []string
}

type PendingBid struct {
	RequestID    kernel.ID
	LoadID       kernel.ID
	Reference    string
	Origin       string
	Destination  string
	ExpectedDate string
	Price        *float64
}

type DriverJobsResponse struct {
	ConfirmedJobs   []ConfirmedJob
	PendingRequests []PendingBid
}

type GetDriverJobsQueryHandler struct {
	db        *gorm.DB
	documents documentAdvisor
}

func NewGetDriverJobsQueryHandler(db *gorm.DB, documents documentAdvisor) GetDriverJobsQueryHandler {
	return GetDriverJobsQueryHandler{db: db, documents: documents}
}

func (h GetDriverJobsQueryHandler) Handle(ctx context.Context, query GetDriverJobsQuery) (DriverJobsResponse, error) {
	if err := authorizedQuery(query.identityQuery, ErrGetDriverJobsQueryIsNotConstructed,
		services.ActionViewDriverJobs); err != nil {
		return DriverJobsResponse{}, err
	}

	driverID := query.Identity().UserID().Int64()

	confirmed, err := h.confirmedJobs(ctx, driverID)
	if err != nil {
		return DriverJobsResponse{}, err
	}

	pending, err := h.pendingBids(ctx, driverID)
	if err != nil {
		return DriverJobsResponse{}, err
	}

	return DriverJobsResponse{ConfirmedJobs: confirmed, PendingRequests: pending}, nil
}

func (h GetDriverJobsQueryHandler) confirmedJobs(ctx context.Context, driverID int64) ([]ConfirmedJob, error) {
	jobs := make([]ConfirmedJob, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			l.id,
			l.origin,
			l.destination,
			l.load_type,
			l.weight,
			l.expected_date,
			l.status,
			l.price,
			l.payment_status,
			s.username
		FROM loads l
		LEFT JOIN users s ON s.id = l.sender_id
		WHERE l.driver_id = ?
			AND l.status IN (?, ?)
		ORDER BY l.expected_date, l.id
	`, driverID, load.Assigned.String(), load.InTransit.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id         int64
			senderName *string
			job        ConfirmedJob
		)
		if err = rows.Scan(
			&id,
			&job.Origin,
			&job.Destination,
			&job.LoadType,
			&job.Weight,
			&job.ExpectedDate,
			&job.Status,
			&job.Price,
			&job.PaymentStatus,
			&senderName,
		); err != nil {
			return nil, err
		}

		job.LoadID = kernel.ID(id)
		job.Reference = referenceOf(id)
		job.SenderName = stringOr(senderName, "N/A")
		job.RequiredDocuments = documentsFor(h.documents, job.Origin, job.Destination)
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

func (h GetDriverJobsQueryHandler) pendingBids(ctx context.Context, driverID int64) ([]PendingBid, error) {
	bids := make([]PendingBid, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			r.id,
			l.id,
			l.origin,
			l.destination,
			l.expected_date,
			l.price
		FROM load_requests r
		JOIN loads l ON l.id = r.load_id
		WHERE r.driver_id = ?
			AND r.status = ?
			AND l.status = ?
		ORDER BY r.id DESC
	`, driverID, loadrequest.Pending.String(), load.Requested.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			requestID, loadID int64
			bid               PendingBid
		)
		if err = rows.Scan(
			&requestID,
			&loadID,
			&bid.Origin,
			&bid.Destination,
			&bid.ExpectedDate,
			&bid.Price,
		); err != nil {
			return nil, err
		}

		bid.RequestID = kernel.ID(requestID)
		bid.LoadID = kernel.ID(loadID)
		bid.Reference = referenceOf(loadID)
		bids = append(bids, bid)
	}

	return bids, rows.Err()
}
