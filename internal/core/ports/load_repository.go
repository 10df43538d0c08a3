// Package ports defines the contracts between the load board core and its
// adapters: persistence, the unit of work, pricing and document advisors,
// event publishing and password hashing.
package ports

import (
	"context"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/load"
)

// LoadRepository is the persistence contract of the Load aggregate. Only the
// command handlers of the load registry write through it.
type LoadRepository interface {
	// NextID reserves the identity of a load about to be posted.
	NextID(ctx context.Context) (kernel.ID, error)

	// Add persists a newly posted load.
	Add(ctx context.Context, aggregate *load.Load) error

	// Update persists a transition. It fails with a state conflict when the
	// stored version no longer matches the aggregate's version.
	Update(ctx context.Context, aggregate *load.Load) error

	// Get reads a load without locking it.
	Get(ctx context.Context, id kernel.ID) (*load.Load, error)

	// GetForUpdate reads a load and holds its row lock until the transaction
	// ends, serializing every guarded transition on that load.
	GetForUpdate(ctx context.Context, id kernel.ID) (*load.Load, error)
}
