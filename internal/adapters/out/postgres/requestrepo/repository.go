package requestrepo

import (
	"context"
	"errors"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/loadrequest"
	"loadboard/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormLoadRequestRepository implements LoadRequestRepository using GORM.
// Duplicate pending bids are rejected by the database as well, which requires
// the connection to be opened with TranslateError.
type GormLoadRequestRepository struct {
	db *gorm.DB
}

func NewGormLoadRequestRepository(db *gorm.DB) *GormLoadRequestRepository {
	return &GormLoadRequestRepository{db: db}
}

func (r *GormLoadRequestRepository) NextID(ctx context.Context) (kernel.ID, error) {
	var id int64
	if err := r.db.WithContext(ctx).
		Raw("SELECT nextval(pg_get_serial_sequence('load_requests', 'id'))").
		Scan(&id).Error; err != nil {
		return 0, err
	}
	return kernel.ID(id), nil
}

func (r *GormLoadRequestRepository) Add(ctx context.Context, request *loadrequest.LoadRequest) error {
	if err := request.Validate(); err != nil {
		return err
	}

	dto := fromDomain(request)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return loadrequest.ErrAlreadyRequested
		}
		return err
	}

	return nil
}

// Update stores the new status of a request that is still pending.
func (r *GormLoadRequestRepository) Update(ctx context.Context, request *loadrequest.LoadRequest) error {
	if err := request.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&LoadRequestDTO{}).
		Where("id = ? AND status = ?", request.ID().Int64(), loadrequest.Pending.String()).
		Update("status", request.Status().String())
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return loadrequest.ErrRequestAlreadyProcessed
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, request.ID()); err != nil {
			return err
		}
		return loadrequest.ErrRequestAlreadyProcessed
	}

	return nil
}

func (r *GormLoadRequestRepository) Get(ctx context.Context, id kernel.ID) (*loadrequest.LoadRequest, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto LoadRequestDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Int64()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("load request", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormLoadRequestRepository) HasPending(ctx context.Context, loadID, driverID kernel.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LoadRequestDTO{}).
		Where("load_id = ? AND driver_id = ? AND status = ?",
			loadID.Int64(), driverID.Int64(), loadrequest.Pending.String()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormLoadRequestRepository) ListPendingByLoad(
	ctx context.Context,
	loadID kernel.ID,
) ([]*loadrequest.LoadRequest, error) {
	var dtos []LoadRequestDTO
	if err := r.db.WithContext(ctx).
		Where("load_id = ? AND status = ?", loadID.Int64(), loadrequest.Pending.String()).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	requests := make([]*loadrequest.LoadRequest, 0, len(dtos))
	for _, dto := range dtos {
		req, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, nil
}
