package commands_test

import (
	"context"
	"errors"
	"testing"

	"loadboard/internal/core/application/usecases/commands"
	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/load"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubQuoter struct {
	price *float64
	calls int
}

func (q *stubQuoter) Quote(_ context.Context, _, _ string) *float64 {
	q.calls++
	return q.price
}

func TestPostLoadCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPostLoadCommand(mustIdentity(10, user.Sender), "Delhi", "Mumbai", "Textiles", 500, "2025-05-01")
	require.NoError(t, err)

	price := 21000.0
	quoter := &stubQuoter{price: &price}

	repo := new(MockLoadRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("LoadRepository").Return(repo).Once(),
		repo.On("NextID", ctx).Return(kernel.ID(1), nil).Once(),
		repo.On("Add", ctx, mock.MatchedBy(func(l *load.Load) bool {
			return l.Status() == load.Pending &&
				l.SenderID() == 10 &&
				l.Price() != nil && *l.Price() == 21000.0
		})).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLoadUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewPostLoadCommandHandler(factory, quoter)
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "UTI-1", result.Reference)
	require.NotNil(t, result.EstimatedPrice)
	assert.InDelta(t, 21000.0, *result.EstimatedPrice, 1e-9)
	assert.Equal(t, 1, quoter.calls)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestPostLoadCommandHandler_Handle_UnknownPrice(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPostLoadCommand(mustIdentity(10, user.Sender), "Nowhere", "Mumbai", "Textiles", 500, "2025-05-01")
	require.NoError(t, err)

	repo := new(MockLoadRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("LoadRepository").Return(repo).Once()
	repo.On("NextID", ctx).Return(kernel.ID(2), nil).Once()
	repo.On("Add", ctx, mock.MatchedBy(func(l *load.Load) bool { return l.Price() == nil })).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockLoadUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewPostLoadCommandHandler(factory, &stubQuoter{})
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "UTI-2", result.Reference)
	assert.Nil(t, result.EstimatedPrice)
}

func TestPostLoadCommandHandler_Handle_WrongRole(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPostLoadCommand(mustIdentity(20, user.Driver), "Delhi", "Mumbai", "Textiles", 500, "2025-05-01")
	require.NoError(t, err)

	quoter := &stubQuoter{}
	factory := new(MockLoadUoWFactory)
	h := commands.NewPostLoadCommandHandler(factory, quoter)

	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, services.ErrRoleForbidden)
	assert.Zero(t, quoter.calls, "No quote for a rejected actor")
	factory.AssertNotCalled(t, "Create")
}

func TestPostLoadCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockLoadUoWFactory)
	h := commands.NewPostLoadCommandHandler(factory, nil)

	_, err := h.Handle(t.Context(), commands.PostLoadCommand{})
	require.ErrorIs(t, err, commands.ErrPostLoadCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestPostLoadCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPostLoadCommand(mustIdentity(10, user.Sender), "Delhi", "Mumbai", "Textiles", 500, "2025-05-01")
	require.NoError(t, err)

	repo := new(MockLoadRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("LoadRepository").Return(repo).Once(),
		repo.On("NextID", ctx).Return(kernel.ID(1), nil).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*load.Load")).Return(errors.New("add error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLoadUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewPostLoadCommandHandler(factory, nil)
	_, err = h.Handle(ctx, cmd)

	require.EqualError(t, err, "add error")
	uow.AssertNotCalled(t, "Commit", ctx)
	uow.AssertExpectations(t)
}
