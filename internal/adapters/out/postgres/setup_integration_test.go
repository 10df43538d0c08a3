package postgres_test

import (
	"context"
	"sync"

	postgres_adapter "loadboard/internal/adapters/out/postgres"
	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/load"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// databaseSuite starts one PostgreSQL container per suite and truncates the
// schema before each test.
type databaseSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
}

func (s *databaseSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := postgres_adapter.Open(dsn)
	s.Require().NoError(err)
	s.db = db

	s.Require().NoError(postgres_adapter.Migrate(ctx, db))
	// Migrating twice must be harmless.
	s.Require().NoError(postgres_adapter.Migrate(ctx, db))
}

func (s *databaseSuite) SetupTest() {
	err := s.db.Exec("TRUNCATE TABLE load_requests, loads, users RESTART IDENTITY CASCADE").Error
	s.Require().NoError(err)
}

func (s *databaseSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *databaseSuite) addUser(factory ports.UnitOfWorkFactory, username string, role user.Role) *user.User {
	ctx := context.Background()
	repo := factory.Create().UserRepository()

	id, err := repo.NextID(ctx)
	s.Require().NoError(err)
	u, err := user.NewUser(id, username, "$2a$10$hash", role, nil)
	s.Require().NoError(err)
	s.Require().NoError(repo.Add(ctx, u))
	return u
}

func (s *databaseSuite) addLoad(factory ports.UnitOfWorkFactory, senderID kernel.ID) *load.Load {
	ctx := context.Background()
	repo := factory.Create().LoadRepository()

	id, err := repo.NextID(ctx)
	s.Require().NoError(err)
	price := 21000.0
	l, err := load.NewLoad(id, senderID, "Delhi", "Mumbai", "Textiles", 500, "2025-05-01", &price)
	s.Require().NoError(err)
	s.Require().NoError(repo.Add(ctx, l))
	return l
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []load.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events ...load.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) names() []load.EventName {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]load.EventName, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.Name)
	}
	return names
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
