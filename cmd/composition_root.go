package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpadapter "storefront/internal/adapters/in/http"
	"storefront/internal/adapters/out/jwtauth"
	"storefront/internal/adapters/out/memory"
	"storefront/internal/adapters/out/postgres"
	"storefront/internal/adapters/out/postgres/orderrepo"
	"storefront/internal/adapters/out/redisrelay"
	"storefront/internal/core/application/authgate"
	"storefront/internal/core/application/notifications"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
	"storefront/internal/jobs"
	"storefront/internal/metrics"
	"storefront/internal/pkg/keyedmutex"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// CompositionRoot owns every long-lived component of the service and hands
// out the use case handlers wired to them.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	gormDB      *gorm.DB
	redisClient *redis.Client
	uowFactory  ports.UnitOfWorkFactory
	reader      queries.OrderReader

	promRegistry *prometheus.Registry
	metrics      *metrics.Collector

	policy     services.AccessPolicy
	gate       *authgate.Gate
	locks      *keyedmutex.KeyedMutex
	dispatcher *notifications.Dispatcher
	publisher  *notifications.Publisher
	registry   *notifications.Registry
}

// NewCompositionRoot connects the configured store and relay and builds the
// notification pipeline.
func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:          cfg,
		logger:       logger,
		promRegistry: prometheus.NewRegistry(),
		policy:       services.NewAccessPolicy(),
		locks:        keyedmutex.New(),
	}
	c.promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.metrics = metrics.New(c.promRegistry)

	if err := c.openStore(ctx); err != nil {
		return nil, err
	}

	verifier, err := jwtauth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		return nil, errors.Join(err, c.Close())
	}
	c.gate = authgate.NewGate(verifier, c.policy)

	var relay ports.EventRelay
	if cfg.RedisURL != "" {
		c.redisClient, err = redisrelay.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, errors.Join(err, c.Close())
		}
		relay = redisrelay.NewRelay(c.redisClient, cfg.RedisChannel)
		logger.InfoContext(ctx, "event relay enabled", "channel", cfg.RedisChannel)
	}

	c.dispatcher = notifications.NewDispatcher(notifications.DispatcherConfig{
		Timeout:          cfg.DispatchTimeout,
		FailureThreshold: cfg.FailureThreshold,
		Metrics:          c.metrics,
	}, logger)
	c.publisher = notifications.NewPublisher(c.dispatcher, notifications.PublisherConfig{
		BufferSize: cfg.ReplayBufferSize,
		Relay:      relay,
		Metrics:    c.metrics,
	}, logger)
	c.registry = notifications.NewRegistry(
		c.gate,
		c.publisher,
		c.dispatcher,
		queries.NewPendingOrdersCounter(c.reader),
		notifications.RegistryConfig{
			QueueSize:           cfg.SessionQueueSize,
			MaxMissedHeartbeats: cfg.MaxMissedHeartbeats,
			HeartbeatTimeout:    cfg.DispatchTimeout,
			PollSessionTTL:      cfg.PollSessionTTL,
			Metrics:             c.metrics,
		},
		logger,
	)

	return c, nil
}

func (c *CompositionRoot) openStore(ctx context.Context) error {
	switch c.cfg.StoreDriver {
	case StoreDriverMemory:
		store := memory.NewStore()
		c.uowFactory = memory.NewUnitOfWorkFactory(store)
		c.reader = store.OrderRepository()
		c.logger.WarnContext(ctx, "using in-memory order store; orders are lost on restart")
		return nil
	case StoreDriverPostgres:
		db, err := gorm.Open(gorm_postgres.Open(c.cfg.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		if err = postgres.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		c.gormDB = db
		c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
		c.reader = orderrepo.NewGormOrderRepository(db)
		return nil
	default:
		return fmt.Errorf("unknown store driver %q", c.cfg.StoreDriver)
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.locks, c.gate, c.publisher, c.logger,
		commands.WithMetrics(c.metrics))
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() *commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.orderUoWFactory(), c.locks, c.gate, c.publisher, c.logger,
		commands.WithMetrics(c.metrics))
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.reader, c.gate)
}

func (c *CompositionRoot) CreateGetOrdersByStatusQueryHandler() queries.GetOrdersByStatusQueryHandler {
	return queries.NewGetOrdersByStatusQueryHandler(c.reader, c.gate)
}

// CreateRouter builds the echo instance with every route mounted.
func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	server := httpadapter.NewServer(httpadapter.Dependencies{
		CreateOrder:       c.CreateCreateOrderCommandHandler(),
		TransitionOrder:   c.CreateTransitionOrderCommandHandler(),
		GetOrder:          c.CreateGetOrderQueryHandler(),
		GetOrdersByStatus: c.CreateGetOrdersByStatusQueryHandler(),
		Registry:          c.registry,
		Publisher:         c.publisher,
		Gate:              c.gate,
		WSOriginPatterns:  c.cfg.WSOriginPatterns,
	}, c.logger)

	return httpadapter.NewRouter(server, httpadapter.RouterConfig{
		Authenticator: c.gate,
		Metrics:       c.metrics,
		Gatherer:      c.promRegistry,
		Logger:        c.logger,
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.registry, c.cfg.HeartbeatInterval, c.logger)
}

func (c *CompositionRoot) Publisher() *notifications.Publisher {
	return c.publisher
}

func (c *CompositionRoot) Registry() *notifications.Registry {
	return c.registry
}

// Close releases the store and relay connections. Sessions must already be
// closed through Registry().Close.
func (c *CompositionRoot) Close() error {
	var closeErrs []error
	if c.redisClient != nil {
		closeErrs = append(closeErrs, c.redisClient.Close())
	}
	if c.gormDB != nil {
		sqlDB, err := c.gormDB.DB()
		if err != nil {
			closeErrs = append(closeErrs, err)
		} else {
			closeErrs = append(closeErrs, sqlDB.Close())
		}
	}
	return errors.Join(closeErrs...)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
