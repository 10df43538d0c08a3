// Package loadrepo persists the Load aggregate with GORM.
package loadrepo

import (
	"time"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/load"
)

// LoadDTO is the row of the loads table. Status and payment status are stored
// by name so the table reads the same from SQL as from the API.
type LoadDTO struct {
	ID            int64   `gorm:"primaryKey"`
	SenderID      int64   `gorm:"not null;index"`
	DriverID      *int64  `gorm:"index"`
	Origin        string  `gorm:"not null"`
	Destination   string  `gorm:"not null"`
	LoadType      string  `gorm:"not null"`
	Weight        float64 `gorm:"not null"`
	ExpectedDate  string  `gorm:"type:varchar(32);not null;index"`
	Status        string  `gorm:"type:varchar(20);not null;index"`
	Price         *float64
	PaymentStatus string `gorm:"type:varchar(20);not null;default:unpaid"`
	DriverLat     *float64
	DriverLng     *float64
	Version       int `gorm:"not null;default:1"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (LoadDTO) TableName() string {
	return "loads"
}

func fromDomain(aggregate *load.Load) LoadDTO {
	dto := LoadDTO{
		ID:            aggregate.ID().Int64(),
		SenderID:      aggregate.SenderID().Int64(),
		Origin:        aggregate.Origin(),
		Destination:   aggregate.Destination(),
		LoadType:      aggregate.LoadType(),
		Weight:        aggregate.Weight(),
		ExpectedDate:  aggregate.ExpectedDate(),
		Status:        aggregate.Status().String(),
		Price:         aggregate.Price(),
		PaymentStatus: aggregate.PaymentStatus().String(),
		Version:       aggregate.Version(),
	}

	if driverID := aggregate.DriverID(); driverID != nil {
		id := driverID.Int64()
		dto.DriverID = &id
	}

	if pos := aggregate.Position(); pos != nil {
		lat, lng := pos.Lat(), pos.Lng()
		dto.DriverLat = &lat
		dto.DriverLng = &lng
	}

	return dto
}

func toDomain(dto LoadDTO) (*load.Load, error) {
	status, err := load.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	paymentStatus, err := load.PaymentStatusFromString(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	var driverID *kernel.ID
	if dto.DriverID != nil {
		id := kernel.ID(*dto.DriverID)
		driverID = &id
	}

	var position *kernel.Position
	if dto.DriverLat != nil && dto.DriverLng != nil {
		pos, posErr := kernel.NewPosition(*dto.DriverLat, *dto.DriverLng)
		if posErr != nil {
			return nil, posErr
		}
		position = &pos
	}

	return load.RestoreLoad(
		kernel.ID(dto.ID),
		kernel.ID(dto.SenderID),
		driverID,
		dto.Origin,
		dto.Destination,
		dto.LoadType,
		dto.Weight,
		dto.ExpectedDate,
		status,
		dto.Price,
		paymentStatus,
		position,
		dto.Version,
	)
}
