// Package requestrepo persists load requests with GORM.
package requestrepo

import (
	"time"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/loadrequest"
)

// LoadRequestDTO is the row of the load_requests table. The partial unique
// indexes on it are created by postgres.Migrate.
type LoadRequestDTO struct {
	ID        int64  `gorm:"primaryKey"`
	LoadID    int64  `gorm:"not null;index"`
	DriverID  int64  `gorm:"not null;index"`
	Status    string `gorm:"type:varchar(20);not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LoadRequestDTO) TableName() string {
	return "load_requests"
}

func fromDomain(r *loadrequest.LoadRequest) LoadRequestDTO {
	return LoadRequestDTO{
		ID:       r.ID().Int64(),
		LoadID:   r.LoadID().Int64(),
		DriverID: r.DriverID().Int64(),
		Status:   r.Status().String(),
	}
}

func toDomain(dto LoadRequestDTO) (*loadrequest.LoadRequest, error) {
	status, err := loadrequest.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}
	return loadrequest.RestoreLoadRequest(kernel.ID(dto.ID), kernel.ID(dto.LoadID), kernel.ID(dto.DriverID), status)
}
