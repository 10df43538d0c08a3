// Package events combines event publishers.
package events

import (
	"context"
	"errors"

	"loadboard/internal/core/domain/model/load"
	"loadboard/internal/core/ports"
)

// FanOut hands every batch to each publisher in turn. One failing publisher
// does not keep the batch from the others; the errors are joined.
type FanOut struct {
	publishers []ports.EventPublisher
}

// NewFanOut skips nil publishers so optional infrastructure can be passed as is.
func NewFanOut(publishers ...ports.EventPublisher) *FanOut {
	f := &FanOut{}
	for _, p := range publishers {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

func (f *FanOut) Publish(ctx context.Context, batch ...load.Event) error {
	var err error
	for _, p := range f.publishers {
		err = errors.Join(err, p.Publish(ctx, batch...))
	}
	return err
}
