package ports

import (
	"context"

	"loadboard/internal/core/domain/model/load"
)

// EventPublisher delivers load lifecycle events after their transaction committed.
type EventPublisher interface {
	Publish(ctx context.Context, events ...load.Event) error
}
