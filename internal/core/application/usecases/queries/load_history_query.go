package queries

import (
	"context"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/load"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/core/domain/services"
	"loadboard/internal/pkg/errs"

	"gorm.io/gorm"
)

var (
	ErrGetDriverHistoryQueryIsNotConstructed = errs.NewValueIsRequiredError(
		"GetDriverHistoryQuery must be created via NewGetDriverHistoryQuery constructor",
	)
	ErrGetSenderHistoryQueryIsNotConstructed = errs.NewValueIsRequiredError(
		"GetSenderHistoryQuery must be created via NewGetSenderHistoryQuery constructor",
	)
)

// GetDriverHistoryQuery lists the latest delivered or canceled loads that
// carry the driver's id.
type GetDriverHistoryQuery struct {
	identityQuery
}

func NewGetDriverHistoryQuery(identity user.Identity) (GetDriverHistoryQuery, error) {
	base, err := newIdentityQuery(identity)
	if err != nil {
		return GetDriverHistoryQuery{}, err
	}
	return GetDriverHistoryQuery{identityQuery: base}, nil
}

// GetSenderHistoryQuery lists the sender's latest delivered or canceled loads.
type GetSenderHistoryQuery struct {
	identityQuery
}

func NewGetSenderHistoryQuery(identity user.Identity) (GetSenderHistoryQuery, error) {
	base, err := newIdentityQuery(identity)
	if err != nil {
		return GetSenderHistoryQuery{}, err
	}
	return GetSenderHistoryQuery{identityQuery: base}, nil
}

// HistoryEntry is a load in a terminal state. CounterpartName is the sender
// for a driver's history and the driver for a sender's history.
type HistoryEntry struct {
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
	CounterpartName   string
	RequiredDocuments []string
}

// LoadHistoryQueryHandler serves both history views, newest first, capped at 50.
// A canceled load keeps the id of the driver it was assigned to, so it stays
// in that driver's history.
type LoadHistoryQueryHandler struct {
	db        *gorm.DB
	documents documentAdvisor
}

func NewLoadHistoryQueryHandler(db *gorm.DB, documents documentAdvisor) LoadHistoryQueryHandler {
	return LoadHistoryQueryHandler{db: db, documents: documents}
}

func (h LoadHistoryQueryHandler) HandleDriver(ctx context.Context, query GetDriverHistoryQuery) ([]HistoryEntry, error) {
	if err := authorizedQuery(query.identityQuery, ErrGetDriverHistoryQueryIsNotConstructed,
		services.ActionViewDriverHistory); err != nil {
		return nil, err
	}

	return h.list(ctx, `
		SELECT
			l.id, l.origin, l.destination, l.load_type, l.weight, l.expected_date,
			l.status, l.price, l.payment_status, s.username
		FROM loads l
		LEFT JOIN users s ON s.id = l.sender_id
		WHERE l.driver_id = ?
			AND l.status IN (?, ?)
		ORDER BY l.id DESC
		LIMIT ?
	`, query.Identity().UserID().Int64(), load.Delivered.String(), load.Canceled.String(), historyLimit)
}

func (h LoadHistoryQueryHandler) HandleSender(ctx context.Context, query GetSenderHistoryQuery) ([]HistoryEntry, error) {
	if err := authorizedQuery(query.identityQuery, ErrGetSenderHistoryQueryIsNotConstructed,
		services.ActionViewSenderHistory); err != nil {
		return nil, err
	}

	return h.list(ctx, `
		SELECT
			l.id, l.origin, l.destination, l.load_type, l.weight, l.expected_date,
			l.status, l.price, l.payment_status, d.username
		FROM loads l
		LEFT JOIN users d ON d.id = l.driver_id
		WHERE l.sender_id = ?
			AND l.status IN (?, ?)
		ORDER BY l.id DESC
		LIMIT ?
	`, query.Identity().UserID().Int64(), load.Delivered.String(), load.Canceled.String(), historyLimit)
}

func (h LoadHistoryQueryHandler) list(ctx context.Context, sql string, values ...any) ([]HistoryEntry, error) {
	entries := make([]HistoryEntry, 0)

	rows, err := h.db.WithContext(ctx).Raw(sql, values...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id          int64
			counterpart *string
			entry       HistoryEntry
		)
		if err = rows.Scan(
			&id,
			&entry.Origin,
			&entry.Destination,
			&entry.LoadType,
			&entry.Weight,
			&entry.ExpectedDate,
			&entry.Status,
			&entry.Price,
			&entry.PaymentStatus,
			&counterpart,
		); err != nil {
			return nil, err
		}

		entry.LoadID = kernel.ID(id)
		entry.Reference = referenceOf(id)
		entry.CounterpartName = stringOr(counterpart, unknownName)
		entry.RequiredDocuments = documentsFor(h.documents, entry.Origin, entry.Destination)
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
