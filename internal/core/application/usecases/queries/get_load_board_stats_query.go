package queries

import (
	"context"

	"loadboard/internal/core/domain/model/loadrequest"

	"gorm.io/gorm"
)

// LoadBoardStats counts loads per status and per payment status. Statuses
// without loads are absent from the maps.
type LoadBoardStats struct {
	TotalLoads      int64
	ByStatus        map[string]int64
	ByPayment       map[string]int64
	PendingRequests int64
}

// GetLoadBoardStatsQueryHandler is used by the report job, not by the gateway,
// so it takes no identity.
type GetLoadBoardStatsQueryHandler struct {
	db *gorm.DB
}

func NewGetLoadBoardStatsQueryHandler(db *gorm.DB) GetLoadBoardStatsQueryHandler {
	return GetLoadBoardStatsQueryHandler{db: db}
}

func (h GetLoadBoardStatsQueryHandler) Handle(ctx context.Context) (LoadBoardStats, error) {
	stats := LoadBoardStats{
		ByStatus:  make(map[string]int64),
		ByPayment: make(map[string]int64),
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT status, payment_status, COUNT(*)
		FROM loads
		GROUP BY status, payment_status
	`).Rows()
	if err != nil {
		return LoadBoardStats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status, payment string
			count           int64
		)
		if err = rows.Scan(&status, &payment, &count); err != nil {
			return LoadBoardStats{}, err
		}
		stats.ByStatus[status] += count
		stats.ByPayment[payment] += count
		stats.TotalLoads += count
	}
	if err = rows.Err(); err != nil {
		return LoadBoardStats{}, err
	}

	err = h.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM load_requests WHERE status = ?
	`, loadrequest.Pending.String()).Scan(&stats.PendingRequests).Error
	if err != nil {
		return LoadBoardStats{}, err
	}

	return stats, nil
}
