package commands_test

import (
	"errors"
	"testing"

	"loadboard/internal/core/application/usecases/commands"
	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/load"
	"loadboard/internal/core/domain/model/loadrequest"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/core/domain/services"
	"loadboard/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRequest(id, driverID int64, status loadrequest.Status) *loadrequest.LoadRequest {
	r, err := loadrequest.RestoreLoadRequest(kernel.ID(id), 1, kernel.ID(driverID), status)
	if err != nil {
		panic(err)
	}
	return r
}

func TestConfirmRequestCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewConfirmRequestCommand(mustIdentity(10, user.Sender), 5)
	require.NoError(t, err)

	target := restoreLoad(load.Requested, nil, load.Unpaid)
	first := newRequest(5, 20, loadrequest.Pending)
	pending := []*loadrequest.LoadRequest{
		newRequest(5, 20, loadrequest.Pending),
		newRequest(6, 21, loadrequest.Pending),
		newRequest(7, 22, loadrequest.Pending),
	}

	loadRepo := new(MockLoadRepository)
	requestRepo := new(MockLoadRequestRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("LoadRepository").Return(loadRepo).Once(),
		uow.On("LoadRequestRepository").Return(requestRepo).Once(),
		requestRepo.On("Get", ctx, kernel.ID(5)).Return(first, nil).Once(),
		loadRepo.On("GetForUpdate", ctx, kernel.ID(1)).Return(target, nil).Once(),
		requestRepo.On("ListPendingByLoad", ctx, kernel.ID(1)).Return(pending, nil).Once(),
		requestRepo.On("Update", ctx, pending[0]).Return(nil).Once(),
		requestRepo.On("Update", ctx, pending[1]).Return(nil).Once(),
		requestRepo.On("Update", ctx, pending[2]).Return(nil).Once(),
		loadRepo.On("Update", ctx, target).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	err = commands.NewConfirmRequestCommandHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, load.Assigned, target.Status())
	require.NotNil(t, target.DriverID())
	assert.Equal(t, kernel.ID(20), *target.DriverID())
	assert.Equal(t, loadrequest.Confirmed, pending[0].Status())
	assert.Equal(t, loadrequest.Rejected, pending[1].Status())
	assert.Equal(t, loadrequest.Rejected, pending[2].Status())
	loadRepo.AssertExpectations(t)
	requestRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestConfirmRequestCommandHandler_Handle_AlreadyProcessed(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewConfirmRequestCommand(mustIdentity(10, user.Sender), 5)
	require.NoError(t, err)

	requestRepo := new(MockLoadRequestRepository)
	loadRepo := new(MockLoadRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("LoadRepository").Return(loadRepo).Once()
	uow.On("LoadRequestRepository").Return(requestRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	requestRepo.On("Get", ctx, kernel.ID(5)).Return(newRequest(5, 20, loadrequest.Rejected), nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	err = commands.NewConfirmRequestCommandHandler(factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, loadrequest.ErrRequestAlreadyProcessed)
	loadRepo.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
}

func TestConfirmRequestCommandHandler_Handle_LostRace(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewConfirmRequestCommand(mustIdentity(10, user.Sender), 5)
	require.NoError(t, err)

	// The request was pending when read, but another confirmation resolved it
	// before this transaction got the load lock.
	requestRepo := new(MockLoadRequestRepository)
	loadRepo := new(MockLoadRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("LoadRepository").Return(loadRepo).Once()
	uow.On("LoadRequestRepository").Return(requestRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	requestRepo.On("Get", ctx, kernel.ID(5)).Return(newRequest(5, 20, loadrequest.Pending), nil).Once()
	loadRepo.On("GetForUpdate", ctx, kernel.ID(1)).Return(restoreLoad(load.Assigned, idPtr(21), load.Unpaid), nil).Once()
	requestRepo.On("ListPendingByLoad", ctx, kernel.ID(1)).Return([]*loadrequest.LoadRequest{}, nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	err = commands.NewConfirmRequestCommandHandler(factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, loadrequest.ErrRequestAlreadyProcessed)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestConfirmRequestCommandHandler_Handle_Failures(t *testing.T) {
	tests := []struct {
		name     string
		identity user.Identity
		target   *load.Load
		wantErr  error
	}{
		{
			name:     "not the sender",
			identity: mustIdentity(11, user.Sender),
			target:   restoreLoad(load.Requested, nil, load.Unpaid),
			wantErr:  services.ErrLoadNotOwned,
		},
		{
			name:     "load not requested",
			identity: mustIdentity(10, user.Sender),
			target:   newPostedLoad(),
			wantErr:  load.ErrLoadWrongState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			cmd, err := commands.NewConfirmRequestCommand(tt.identity, 5)
			require.NoError(t, err)

			pending := []*loadrequest.LoadRequest{
				newRequest(5, 20, loadrequest.Pending),
				newRequest(6, 21, loadrequest.Pending),
			}

			requestRepo := new(MockLoadRequestRepository)
			loadRepo := new(MockLoadRepository)
			uow := new(MockUoW)
			uow.On("Begin", ctx).Return(nil).Once()
			uow.On("LoadRepository").Return(loadRepo).Once()
			uow.On("LoadRequestRepository").Return(requestRepo).Once()
			uow.On("Rollback", ctx).Return(nil).Once()
			requestRepo.On("Get", ctx, kernel.ID(5)).Return(newRequest(5, 20, loadrequest.Pending), nil).Once()
			loadRepo.On("GetForUpdate", ctx, kernel.ID(1)).Return(tt.target, nil).Once()
			requestRepo.On("ListPendingByLoad", ctx, kernel.ID(1)).Return(pending, nil).Once()

			factory := new(MockUoWFactory)
			factory.On("Create").Return(uow).Once()

			err = commands.NewConfirmRequestCommandHandler(factory).Handle(ctx, cmd)

			require.ErrorIs(t, err, tt.wantErr)
			for _, r := range pending {
				assert.True(t, r.IsPending(), "Failed arbitration must not touch requests")
			}
			requestRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			uow.AssertNotCalled(t, "Commit", ctx)
		})
	}
}

func TestConfirmRequestCommandHandler_Handle_UpdateErrorRollsBack(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewConfirmRequestCommand(mustIdentity(10, user.Sender), 5)
	require.NoError(t, err)

	pending := []*loadrequest.LoadRequest{newRequest(5, 20, loadrequest.Pending)}

	requestRepo := new(MockLoadRequestRepository)
	loadRepo := new(MockLoadRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("LoadRepository").Return(loadRepo).Once()
	uow.On("LoadRequestRepository").Return(requestRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	requestRepo.On("Get", ctx, kernel.ID(5)).Return(newRequest(5, 20, loadrequest.Pending), nil).Once()
	loadRepo.On("GetForUpdate", ctx, kernel.ID(1)).Return(restoreLoad(load.Requested, nil, load.Unpaid), nil).Once()
	requestRepo.On("ListPendingByLoad", ctx, kernel.ID(1)).Return(pending, nil).Once()
	requestRepo.On("Update", ctx, pending[0]).Return(nil).Once()
	loadRepo.On("Update", ctx, mock.AnythingOfType("*load.Load")).Return(errors.New("update error")).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	err = commands.NewConfirmRequestCommandHandler(factory).Handle(ctx, cmd)

	require.EqualError(t, err, "update error")
	uow.AssertNotCalled(t, "Commit", ctx)
	uow.AssertCalled(t, "Rollback", ctx)
}

func TestConfirmRequestCommandHandler_Handle_WrongRole(t *testing.T) {
	cmd, err := commands.NewConfirmRequestCommand(mustIdentity(20, user.Driver), 5)
	require.NoError(t, err)

	factory := new(MockUoWFactory)
	err = commands.NewConfirmRequestCommandHandler(factory).Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrAccessDenied)
	factory.AssertNotCalled(t, "Create")
}
