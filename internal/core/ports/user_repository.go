package ports

import (
	"context"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/user"
)

type UserRepository interface {
	NextID(ctx context.Context) (kernel.ID, error)

	// Add persists a new user. A taken username is a state conflict.
	Add(ctx context.Context, u *user.User) error

	Get(ctx context.Context, id kernel.ID) (*user.User, error)

	GetByUsername(ctx context.Context, username string) (*user.User, error)
}
