package queries

import (
	"context"
	"strings"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/load"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/core/domain/services"
	"loadboard/internal/pkg/errs"

	"gorm.io/gorm"
)

var ErrListAvailableLoadsQueryIsNotConstructed = errs.NewValueIsRequiredError(
	"ListAvailableLoadsQuery must be created via NewListAvailableLoadsQuery constructor",
)

// ListAvailableLoadsQuery lists pending loads for carriers. When Date is set,
// loads expected on that date are reported apart from the rest.
type ListAvailableLoadsQuery struct {
	identityQuery
	date string
}

func NewListAvailableLoadsQuery(identity user.Identity, date string) (ListAvailableLoadsQuery, error) {
	base, err := newIdentityQuery(identity)
	if err != nil {
		return ListAvailableLoadsQuery{}, err
	}
	return ListAvailableLoadsQuery{identityQuery: base, date: strings.TrimSpace(date)}, nil
}

func (q ListAvailableLoadsQuery) Date() string {
	return q.date
}

type AvailableLoad struct {
	ID                kernel.ID
	Reference         string
	Origin            string
	Destination       string
	LoadType          string
	Weight            float64
	ExpectedDate      string
	Price             *float64
	RequiredDocuments []string
}

type AvailableLoadsResponse struct {
	ExactMatches []AvailableLoad
	Others       []AvailableLoad
}

type ListAvailableLoadsQueryHandler struct {
	db        *gorm.DB
	documents documentAdvisor
}

func NewListAvailableLoadsQueryHandler(db *gorm.DB, documents documentAdvisor) ListAvailableLoadsQueryHandler {
	return ListAvailableLoadsQueryHandler{db: db, documents: documents}
}

// Handle returns exact date matches newest first, then every other pending
// load by expected date descending. Without a date every load is in Others.
func (h ListAvailableLoadsQueryHandler) Handle(
	ctx context.Context,
	query ListAvailableLoadsQuery,
) (AvailableLoadsResponse, error) {
	if err := authorizedQuery(query.identityQuery, ErrListAvailableLoadsQueryIsNotConstructed,
		services.ActionListAvailableLoads); err != nil {
		return AvailableLoadsResponse{}, err
	}

	response := AvailableLoadsResponse{
		ExactMatches: make([]AvailableLoad, 0),
		Others:       make([]AvailableLoad, 0),
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			origin,
			destination,
			load_type,
			weight,
			expected_date,
			price
		FROM loads
		WHERE status = ?
		ORDER BY expected_date DESC, id DESC
	`, load.Pending.String()).Rows()
	if err != nil {
		return AvailableLoadsResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			item AvailableLoad
		)
		if err = rows.Scan(
			&id,
			&item.Origin,
			&item.Destination,
			&item.LoadType,
			&item.Weight,
			&item.ExpectedDate,
			&item.Price,
		); err != nil {
			return AvailableLoadsResponse{}, err
		}

		item.ID = kernel.ID(id)
		item.Reference = referenceOf(id)
		item.RequiredDocuments = documentsFor(h.documents, item.Origin, item.Destination)

		if query.Date() != "" && item.ExpectedDate == query.Date() {
			response.ExactMatches = append(response.ExactMatches, item)
		} else {
			response.Others = append(response.Others, item)
		}
	}

	if err = rows.Err(); err != nil {
		return AvailableLoadsResponse{}, err
	}

	return response, nil
}
