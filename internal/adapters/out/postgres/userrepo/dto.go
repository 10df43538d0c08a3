// Package userrepo persists users with GORM.
package userrepo

import (
	"time"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/user"
)

type UserDTO struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"type:varchar(80);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(128);not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	ManagedBy    *int64 `gorm:"index"`
	CreatedAt    time.Time
}

func (UserDTO) TableName() string {
	return "users"
}

func fromDomain(u *user.User) UserDTO {
	dto := UserDTO{
		ID:           u.ID().Int64(),
		Username:     u.Username(),
		PasswordHash: u.PasswordHash(),
		Role:         u.Role().String(),
	}
	if owner := u.ManagedBy(); owner != nil {
		id := owner.Int64()
		dto.ManagedBy = &id
	}
	return dto
}

func toDomain(dto UserDTO) (*user.User, error) {
	role, err := user.RoleFromString(dto.Role)
	if err != nil {
		return nil, err
	}

	var managedBy *kernel.ID
	if dto.ManagedBy != nil {
		id := kernel.ID(*dto.ManagedBy)
		managedBy = &id
	}

	return user.RestoreUser(kernel.ID(dto.ID), dto.Username, dto.PasswordHash, role, managedBy)
}
