package ports

import (
	"context"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/loadrequest"
)

type LoadRequestRepository interface {
	NextID(ctx context.Context) (kernel.ID, error)

	Add(ctx context.Context, request *loadrequest.LoadRequest) error

	// Update persists the resolution of a request. Only pending rows are
	// updated, resolving an already resolved request is a state conflict.
	Update(ctx context.Context, request *loadrequest.LoadRequest) error

	Get(ctx context.Context, id kernel.ID) (*loadrequest.LoadRequest, error)

	// HasPending reports whether the driver already has a pending bid on the load.
	HasPending(ctx context.Context, loadID, driverID kernel.ID) (bool, error)

	// ListPendingByLoad returns every pending bid on the load ordered by id.
	ListPendingByLoad(ctx context.Context, loadID kernel.ID) ([]*loadrequest.LoadRequest, error)
}
