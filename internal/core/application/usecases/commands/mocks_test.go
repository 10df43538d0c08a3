package commands_test

import (
	"context"

	"loadboard/internal/core/application/usecases/commands"
	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/load"
	"loadboard/internal/core/domain/model/loadrequest"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockLoadRepository struct{ mock.Mock }

func (m *MockLoadRepository) NextID(ctx context.Context) (kernel.ID, error) {
	args := m.Called(ctx)
	return args.Get(0).(kernel.ID), args.Error(1)
}

func (m *MockLoadRepository) Add(ctx context.Context, l *load.Load) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLoadRepository) Update(ctx context.Context, l *load.Load) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLoadRepository) Get(ctx context.Context, id kernel.ID) (*load.Load, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*load.Load), args.Error(1)
}

func (m *MockLoadRepository) GetForUpdate(ctx context.Context, id kernel.ID) (*load.Load, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*load.Load), args.Error(1)
}

type MockLoadRequestRepository struct{ mock.Mock }

func (m *MockLoadRequestRepository) NextID(ctx context.Context) (kernel.ID, error) {
	args := m.Called(ctx)
	return args.Get(0).(kernel.ID), args.Error(1)
}

func (m *MockLoadRequestRepository) Add(ctx context.Context, r *loadrequest.LoadRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockLoadRequestRepository) Update(ctx context.Context, r *loadrequest.LoadRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockLoadRequestRepository) Get(ctx context.Context, id kernel.ID) (*loadrequest.LoadRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loadrequest.LoadRequest), args.Error(1)
}

func (m *MockLoadRequestRepository) HasPending(ctx context.Context, loadID, driverID kernel.ID) (bool, error) {
	args := m.Called(ctx, loadID, driverID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoadRequestRepository) ListPendingByLoad(
	ctx context.Context,
	loadID kernel.ID,
) ([]*loadrequest.LoadRequest, error) {
	args := m.Called(ctx, loadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*loadrequest.LoadRequest), args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) NextID(ctx context.Context) (kernel.ID, error) {
	args := m.Called(ctx)
	return args.Get(0).(kernel.ID), args.Error(1)
}

func (m *MockUserRepository) Add(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, id kernel.ID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

// MockUoW satisfies every unit of work flavour of the commands package.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) LoadRepository() ports.LoadRepository {
	args := m.Called()
	return args.Get(0).(ports.LoadRepository)
}

func (m *MockUoW) LoadRequestRepository() ports.LoadRequestRepository {
	args := m.Called()
	return args.Get(0).(ports.LoadRequestRepository)
}

func (m *MockUoW) UserRepository() ports.UserRepository {
	args := m.Called()
	return args.Get(0).(ports.UserRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockLoadUoWFactory struct{ mock.Mock }

func (m *MockLoadUoWFactory) Create() commands.LoadUoW {
	args := m.Called()
	return args.Get(0).(commands.LoadUoW)
}

type MockUserUoWFactory struct{ mock.Mock }

func (m *MockUserUoWFactory) Create() commands.UserUoW {
	args := m.Called()
	return args.Get(0).(commands.UserUoW)
}

func mustIdentity(id int64, role user.Role) user.Identity {
	identity, err := user.NewIdentity(kernel.ID(id), role)
	if err != nil {
		panic(err)
	}
	return identity
}

func mustReference(id int64) kernel.Reference {
	ref, err := kernel.NewReference(kernel.ID(id))
	if err != nil {
		panic(err)
	}
	return ref
}

// newPostedLoad returns a pending load with id 1 posted by user 10.
func newPostedLoad() *load.Load {
	price := 21000.0
	l, err := load.NewLoad(1, 10, "Delhi", "Mumbai", "Textiles", 500, "2025-05-01", &price)
	if err != nil {
		panic(err)
	}
	l.ClearDomainEvents()
	return l
}

func restoreLoad(status load.Status, driverID *kernel.ID, payment load.PaymentStatus) *load.Load {
	price := 21000.0
	l, err := load.RestoreLoad(1, 10, driverID, "Delhi", "Mumbai", "Textiles", 500, "2025-05-01",
		status, &price, payment, nil, 3)
	if err != nil {
		panic(err)
	}
	return l
}

func idPtr(id int64) *kernel.ID {
	v := kernel.ID(id)
	return &v
}
