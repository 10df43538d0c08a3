package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	httpin "loadboard/internal/adapters/in/http"
	"loadboard/internal/adapters/in/ws"
	"loadboard/internal/adapters/out/bcrypt"
	"loadboard/internal/adapters/out/events"
	"loadboard/internal/adapters/out/geo"
	"loadboard/internal/adapters/out/postgres"
	"loadboard/internal/adapters/out/rabbitmq"
	"loadboard/internal/core/application/usecases/commands"
	"loadboard/internal/core/application/usecases/queries"
	"loadboard/internal/core/domain/services"
	"loadboard/internal/core/ports"
	"loadboard/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	logger     *slog.Logger
	uowFactory *postgres.GormUnitOfWorkFactory
	hub        *ws.Hub
	tokens     *httpin.TokenIssuer
	quoter     *services.PriceQuoter
	tracking   services.TrackingPolicy
	scope      services.OwnerTrackingScope
	documents  services.StateDocumentAdvisor
	hasher     ports.PasswordHasher
	closers    []io.Closer
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	scope, err := services.OwnerTrackingScopeFromString(configs.OwnerTrackingScope)
	if err != nil {
		return nil, err
	}

	tokens, err := httpin.NewTokenIssuer(configs.JWTSecret, configs.JWTTTL)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		configs:   configs,
		gormDB:    gormDB,
		logger:    logger,
		hub:       ws.NewHub(logger),
		tokens:    tokens,
		tracking:  services.NewTrackingPolicy(scope),
		scope:     scope,
		documents: services.NewStateDocumentAdvisor(),
		hasher:    bcrypt.NewHasher(0),
	}

	publishers := []ports.EventPublisher{c.hub}
	if configs.RabbitMQURL != "" {
		publisher, err := rabbitmq.NewPublisher(configs.RabbitMQURL, configs.RabbitMQExchange)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, publisher)
		publishers = append(publishers, publisher)
	} else {
		logger.Warn("RABBITMQ_URL is empty, lifecycle events stay in process")
	}
	c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, events.NewFanOut(publishers...), logger)

	var estimator ports.DistanceEstimator = geo.NewHTTPEstimator(geo.Config{
		GeocoderURL: configs.GeocoderURL,
		RouterURL:   configs.RouterURL,
		UserAgent:   configs.GeoUserAgent,
		Timeout:     configs.PricingTimeout,
	})
	if configs.RedisURL != "" {
		client, err := newRedisClient(configs.RedisURL, logger)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, client)
		estimator = geo.NewCachedEstimator(estimator, client, configs.DistanceCacheTTL, logger)
	}
	c.quoter = services.NewPriceQuoter(estimator, configs.RatePerKm, configs.PricingTimeout, logger)

	return c, nil
}

// newRedisClient fails only on a malformed URL. An unreachable server is
// logged, the cache falls through to the estimator until it comes back.
func newRedisClient(url string, logger *slog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis is unreachable, distance cache disabled until it responds", "error", err)
	}
	return client, nil
}

func (c *CompositionRoot) CreatePostLoadCommandHandler() commands.PostLoadCommandHandler {
	var f commands.LoadUoWFactory = FuncLoadUoWFactory(func() commands.LoadUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPostLoadCommandHandler(f, c.quoter)
}

func (c *CompositionRoot) CreateRequestLoadCommandHandler() commands.RequestLoadCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRequestLoadCommandHandler(f)
}

func (c *CompositionRoot) CreateConfirmRequestCommandHandler() commands.ConfirmRequestCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmRequestCommandHandler(f)
}

func (c *CompositionRoot) CreateUpdateLocationCommandHandler() commands.UpdateLocationCommandHandler {
	var f commands.LoadUoWFactory = FuncLoadUoWFactory(func() commands.LoadUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateLocationCommandHandler(f)
}

func (c *CompositionRoot) CreateMarkDeliveredCommandHandler() commands.MarkDeliveredCommandHandler {
	var f commands.LoadUoWFactory = FuncLoadUoWFactory(func() commands.LoadUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkDeliveredCommandHandler(f)
}

func (c *CompositionRoot) CreateMarkAsPaidCommandHandler() commands.MarkAsPaidCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkAsPaidCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateRegisterUserCommandHandler() commands.RegisterUserCommandHandler {
	var f commands.UserUoWFactory = FuncUserUoWFactory(func() commands.UserUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterUserCommandHandler(f, c.hasher)
}

func (c *CompositionRoot) CreateAuthenticateUserQueryHandler() queries.AuthenticateUserQueryHandler {
	return queries.NewAuthenticateUserQueryHandler(c.gormDB, c.hasher)
}

func (c *CompositionRoot) CreateListAvailableLoadsQueryHandler() queries.ListAvailableLoadsQueryHandler {
	return queries.NewListAvailableLoadsQueryHandler(c.gormDB, c.documents)
}

func (c *CompositionRoot) CreateListIncomingRequestsQueryHandler() queries.ListIncomingRequestsQueryHandler {
	return queries.NewListIncomingRequestsQueryHandler(c.gormDB, c.documents)
}

func (c *CompositionRoot) CreateGetDriverJobsQueryHandler() queries.GetDriverJobsQueryHandler {
	return queries.NewGetDriverJobsQueryHandler(c.gormDB, c.documents)
}

func (c *CompositionRoot) CreateLoadHistoryQueryHandler() queries.LoadHistoryQueryHandler {
	return queries.NewLoadHistoryQueryHandler(c.gormDB, c.documents)
}

func (c *CompositionRoot) CreateTrackShipmentQueryHandler() queries.TrackShipmentQueryHandler {
	return queries.NewTrackShipmentQueryHandler(c.gormDB, c.tracking, c.documents)
}

func (c *CompositionRoot) CreateGetOwnerOverviewQueryHandler() queries.GetOwnerOverviewQueryHandler {
	return queries.NewGetOwnerOverviewQueryHandler(c.gormDB, c.scope, c.documents)
}

func (c *CompositionRoot) CreateGetLoadBoardStatsQueryHandler() queries.GetLoadBoardStatsQueryHandler {
	return queries.NewGetLoadBoardStatsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		RegisterUser:         c.CreateRegisterUserCommandHandler(),
		AuthenticateUser:     c.CreateAuthenticateUserQueryHandler(),
		PostLoad:             c.CreatePostLoadCommandHandler(),
		ListAvailableLoads:   c.CreateListAvailableLoadsQueryHandler(),
		RequestLoad:          c.CreateRequestLoadCommandHandler(),
		ListIncomingRequests: c.CreateListIncomingRequestsQueryHandler(),
		ConfirmRequest:       c.CreateConfirmRequestCommandHandler(),
		DriverJobs:           c.CreateGetDriverJobsQueryHandler(),
		History:              c.CreateLoadHistoryQueryHandler(),
		UpdateLocation:       c.CreateUpdateLocationCommandHandler(),
		MarkDelivered:        c.CreateMarkDeliveredCommandHandler(),
		TrackShipment:        c.CreateTrackShipmentQueryHandler(),
		OwnerOverview:        c.CreateGetOwnerOverviewQueryHandler(),
		MarkAsPaid:           c.CreateMarkAsPaidCommandHandler(),
		Stream:               c.hub,
	}, c.tokens)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateGetLoadBoardStatsQueryHandler(), c.configs.ReportSchedule, c.logger)
}

func (c *CompositionRoot) Hub() *ws.Hub {
	return c.hub
}

// Close releases the broker connection and the cache client.
func (c *CompositionRoot) Close() error {
	var err error
	for _, closer := range c.closers {
		err = errors.Join(err, closer.Close())
	}
	return err
}

type FuncLoadUoWFactory func() commands.LoadUoW

func (f FuncLoadUoWFactory) Create() commands.LoadUoW {
	return f()
}

type FuncUserUoWFactory func() commands.UserUoW

func (f FuncUserUoWFactory) Create() commands.UserUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
