package postgres_test

import (
	"context"
	"testing"

	postgres_adapter "loadboard/internal/adapters/out/postgres"
	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/load"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/core/ports"
	"loadboard/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type UnitOfWorkIntegrationTestSuite struct {
	databaseSuite
	publisher *recordingPublisher
	factory   ports.UnitOfWorkFactory
}

func (s *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	s.databaseSuite.SetupSuite()
	s.publisher = &recordingPublisher{}
	s.factory = postgres_adapter.NewGormUnitOfWorkFactory(s.db, s.publisher, nil)
}

func (s *UnitOfWorkIntegrationTestSuite) SetupTest() {
	s.databaseSuite.SetupTest()
	s.publisher.reset()
}

func (s *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := s.factory.Create()
	uow2 := s.factory.Create()

	s.NotSame(uow1, uow2, "Factory should create separate instances")
	s.NotNil(uow1.LoadRepository())
	s.NotNil(uow1.LoadRequestRepository())
	s.NotNil(uow2.UserRepository())
}

func (s *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := s.factory.Create()

	s.Require().NoError(uow.Begin(ctx))
	s.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	s.Require().NoError(uow.Commit(ctx))

	s.Require().NoError(uow.Begin(ctx))
	s.Require().NoError(uow.Rollback(ctx))
}

func (s *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := s.factory.Create()

	s.Require().Error(uow.Commit(ctx), "Should error when committing without active transaction")
	s.Require().Error(uow.Rollback(ctx), "Should error when rolling back without active transaction")
}

func (s *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitPublishesEvents() {
	ctx := context.Background()
	sender := s.addUser(s.factory, "sender", user.Sender)
	driver := s.addUser(s.factory, "driver", user.Driver)
	s.publisher.reset()

	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))

	id, err := uow.LoadRepository().NextID(ctx)
	s.Require().NoError(err)
	l, err := load.NewLoad(id, sender.ID(), "Delhi", "Mumbai", "Textiles", 500, "2025-05-01", nil)
	s.Require().NoError(err)
	s.Require().NoError(uow.LoadRepository().Add(ctx, l))

	s.Require().NoError(l.Request(driver.ID()))
	s.Require().NoError(uow.LoadRepository().Update(ctx, l))

	s.Empty(s.publisher.names(), "Nothing is published before commit")

	s.Require().NoError(uow.Commit(ctx))
	s.Equal([]load.EventName{load.EventPosted, load.EventRequested}, s.publisher.names())
	s.Empty(l.DomainEvents())
}

func (s *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsChangesAndEvents() {
	ctx := context.Background()
	sender := s.addUser(s.factory, "sender", user.Sender)
	s.publisher.reset()

	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))

	id, err := uow.LoadRepository().NextID(ctx)
	s.Require().NoError(err)
	l, err := load.NewLoad(id, sender.ID(), "Delhi", "Mumbai", "Textiles", 500, "2025-05-01", nil)
	s.Require().NoError(err)
	s.Require().NoError(uow.LoadRepository().Add(ctx, l))

	_, err = uow.LoadRepository().Get(ctx, id)
	s.Require().NoError(err, "Load is visible inside its transaction")

	s.Require().NoError(uow.Rollback(ctx))
	s.Empty(s.publisher.names())
	s.Empty(l.DomainEvents())

	_, err = s.factory.Create().LoadRepository().Get(ctx, id)
	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()
	sender := s.addUser(s.factory, "sender", user.Sender)

	uow1 := s.factory.Create()
	uow2 := s.factory.Create()
	s.Require().NoError(uow1.Begin(ctx))
	s.Require().NoError(uow2.Begin(ctx))

	id1, err := uow1.LoadRepository().NextID(ctx)
	s.Require().NoError(err)
	l1, err := load.NewLoad(id1, sender.ID(), "Delhi", "Mumbai", "Textiles", 500, "2025-05-01", nil)
	s.Require().NoError(err)
	s.Require().NoError(uow1.LoadRepository().Add(ctx, l1))

	_, err = uow2.LoadRepository().Get(ctx, id1)
	s.Require().Error(err, "Uncommitted load must not be visible to another unit of work")

	s.Require().NoError(uow1.Commit(ctx))
	s.Require().NoError(uow2.Rollback(ctx))

	_, err = s.factory.Create().LoadRepository().Get(ctx, id1)
	s.Require().NoError(err)
}

func (s *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_StaleVersionIsRejected() {
	ctx := context.Background()
	sender := s.addUser(s.factory, "sender", user.Sender)
	driver := s.addUser(s.factory, "driver", user.Driver)
	posted := s.addLoad(s.factory, sender.ID())

	first, err := s.factory.Create().LoadRepository().Get(ctx, posted.ID())
	s.Require().NoError(err)
	second, err := s.factory.Create().LoadRepository().Get(ctx, posted.ID())
	s.Require().NoError(err)

	s.Require().NoError(first.Request(driver.ID()))
	s.Require().NoError(s.factory.Create().LoadRepository().Update(ctx, first))
	s.Equal(2, first.Version())

	s.Require().NoError(second.Request(driver.ID()))
	err = s.factory.Create().LoadRepository().Update(ctx, second)
	s.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
}

func (s *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_UpdateMissingLoad() {
	ctx := context.Background()
	sender := s.addUser(s.factory, "sender", user.Sender)

	ghost, err := load.NewLoad(kernel.ID(999), sender.ID(), "Delhi", "Mumbai", "Textiles", 500, "2025-05-01", nil)
	s.Require().NoError(err)

	err = s.factory.Create().LoadRepository().Update(ctx, ghost)
	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
