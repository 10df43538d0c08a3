package queries

import (
	"context"
	"strings"

	"loadboard/internal/core/domain/model/load"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/core/domain/services"
	"loadboard/internal/pkg/errs"

	"gorm.io/gorm"
)

var ErrGetOwnerOverviewQueryIsNotConstructed = errs.NewValueIsRequiredError(
	"GetOwnerOverviewQuery must be created via NewGetOwnerOverviewQuery constructor",
)

type GetOwnerOverviewQuery struct {
	identityQuery
}

func NewGetOwnerOverviewQuery(identity user.Identity) (GetOwnerOverviewQuery, error) {
	base, err := newIdentityQuery(identity)
	if err != nil {
		return GetOwnerOverviewQuery{}, err
	}
	return GetOwnerOverviewQuery{identityQuery: base}, nil
}

type OwnerOverviewResponse struct {
	ActiveLoads    []Shipment
	CompletedLoads []Shipment
}

// GetOwnerOverviewQueryHandler shows truck owners the fleet's running and
// finished loads. With the managed_drivers scope only loads hauled by the
// owner's own drivers are listed.
type GetOwnerOverviewQueryHandler struct {
	db        *gorm.DB
	scope     services.OwnerTrackingScope
	documents documentAdvisor
}

func NewGetOwnerOverviewQueryHandler(
	db *gorm.DB,
	scope services.OwnerTrackingScope,
	documents documentAdvisor,
) GetOwnerOverviewQueryHandler {
	if scope == "" {
		scope = services.OwnerTracksAnyAssigned
	}
	return GetOwnerOverviewQueryHandler{db: db, scope: scope, documents: documents}
}

func (h GetOwnerOverviewQueryHandler) Handle(
	ctx context.Context,
	query GetOwnerOverviewQuery,
) (OwnerOverviewResponse, error) {
	if err := authorizedQuery(query.identityQuery, ErrGetOwnerOverviewQueryIsNotConstructed,
		services.ActionViewOwnerOverview); err != nil {
		return OwnerOverviewResponse{}, err
	}

	ownerID := query.Identity().UserID().Int64()

	active, err := h.list(ctx, ownerID,
		[]string{load.Assigned.String(), load.InTransit.String()},
		"ORDER BY l.expected_date, l.id", 0)
	if err != nil {
		return OwnerOverviewResponse{}, err
	}

	completed, err := h.list(ctx, ownerID,
		[]string{load.Delivered.String(), load.Canceled.String()},
		"ORDER BY l.id DESC", historyLimit)
	if err != nil {
		return OwnerOverviewResponse{}, err
	}

	return OwnerOverviewResponse{ActiveLoads: active, CompletedLoads: completed}, nil
}

func (h GetOwnerOverviewQueryHandler) list(
	ctx context.Context,
	ownerID int64,
	statuses []string,
	orderBy string,
	limit int,
) ([]Shipment, error) {
	var sb strings.Builder
	sb.WriteString("SELECT " + shipmentColumns + shipmentJoins + "\nWHERE l.status IN ?")
	values := []any{statuses}

	if h.scope == services.OwnerTracksManagedDrivers {
		sb.WriteString(" AND d.managed_by = ?")
		values = append(values, ownerID)
	}

	sb.WriteString("\n" + orderBy)
	if limit > 0 {
		sb.WriteString(" LIMIT ?")
		values = append(values, limit)
	}

	shipments := make([]Shipment, 0)

	rows, err := h.db.WithContext(ctx).Raw(sb.String(), values...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanShipment(rows, h.documents, unknownName)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return shipments, nil
}
