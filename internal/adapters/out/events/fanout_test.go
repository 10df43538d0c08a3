package events_test

import (
	"context"
	"errors"
	"testing"

	"loadboard/internal/adapters/out/events"
	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/load"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, batch ...load.Event) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func TestFanOut_DeliversToEveryPublisher(t *testing.T) {
	batch := []load.Event{{Name: load.EventPosted, LoadID: kernel.ID(1)}}
	broken := errors.New("broker down")

	first := new(MockPublisher)
	first.On("Publish", mock.Anything, batch).Return(broken).Once()
	second := new(MockPublisher)
	second.On("Publish", mock.Anything, batch).Return(nil).Once()

	err := events.NewFanOut(first, nil, second).Publish(context.Background(), batch...)

	assert.ErrorIs(t, err, broken)
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestFanOut_Empty(t *testing.T) {
	assert.NoError(t, events.NewFanOut().Publish(context.Background()))
}
