package userrepo

import (
	"context"
	"errors"
	"strings"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) NextID(ctx context.Context) (kernel.ID, error) {
	var id int64
	if err := r.db.WithContext(ctx).
		Raw("SELECT nextval(pg_get_serial_sequence('users', 'id'))").
		Scan(&id).Error; err != nil {
		return 0, err
	}
	return kernel.ID(id), nil
}

func (r *GormUserRepository) Add(ctx context.Context, u *user.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	dto := fromDomain(u)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user.ErrUsernameTaken
		}
		return err
	}
	return nil
}

func (r *GormUserRepository) Get(ctx context.Context, id kernel.ID) (*user.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "user", id, "id = ?", id.Int64())
}

func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errs.NewValueIsRequiredError("username")
	}
	return r.first(ctx, "username", username, "username = ?", username)
}

func (r *GormUserRepository) first(ctx context.Context, param string, key any, query string, args ...any) (*user.User, error) {
	var dto UserDTO
	if err := r.db.WithContext(ctx).Where(query, args...).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(param, key)
		}
		return nil, err
	}
	return toDomain(dto)
}
