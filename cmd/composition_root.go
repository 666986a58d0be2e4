package cmd

import (
	"context"
	"fmt"
	"os"

	fshttp "fieldservice/internal/adapters/in/http"
	"fieldservice/internal/adapters/out/lock"
	"fieldservice/internal/adapters/out/postgres"
	"fieldservice/internal/core/application/auditor"
	"fieldservice/internal/core/application/notifier"
	"fieldservice/internal/core/application/usecases/commands"
	"fieldservice/internal/core/application/usecases/queries"
	"fieldservice/internal/core/domain/model/notification"
	"fieldservice/internal/core/ports"
	"fieldservice/internal/jobs"
	"fieldservice/internal/pkg/clock"
	"fieldservice/internal/pkg/logger"
	"fieldservice/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *logger.Logger
	clock      *clock.ServiceClock
	locker     ports.OrderLocker
	registry   *prometheus.Registry
	metrics    *metrics.TransitionMetrics
	dispatcher *notifier.Dispatcher
	recorder   *auditor.Recorder
	engine     *commands.Engine
	closers    []func() error
}

// NewLogger builds the service logger from configs.
func NewLogger(configs Config) *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: configs.ServiceName,
		Level:       logger.ParseLevel(configs.LogLevel),
		Format:      configs.LogFormat,
		Output:      os.Stdout,
	})
}

// OpenDatabase connects to postgres with the configured pool limits.
func OpenDatabase(configs Config) (*gorm.DB, error) {
	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(configs.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(configs.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(configs.DBConnMaxLifetime)

	if configs.DBAutoMigrate {
		if err = postgres.AutoMigrate(gormDB); err != nil {
			return nil, fmt.Errorf("migrate schema: %w", err)
		}
	}
	return gormDB, nil
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, log *logger.Logger) (*CompositionRoot, error) {
	serviceClock, err := clock.New(configs.ServiceTimezone)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	transitionMetrics := metrics.NewTransitionMetrics(registry)

	root := &CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     log,
		clock:      serviceClock,
		registry:   registry,
		metrics:    transitionMetrics,
		dispatcher: notifier.NewDispatcher(serviceClock, notification.Channel(configs.NotificationChannel),
			configs.SpoolCapacity, transitionMetrics, log),
		recorder: auditor.NewRecorder(serviceClock, configs.SpoolCapacity, transitionMetrics, log),
	}

	if root.locker, err = root.createOrderLocker(); err != nil {
		return nil, err
	}

	root.engine, err = commands.NewEngine(root.uowFactory, root.locker, root.clock, root.dispatcher, root.recorder,
		commands.WithTimeout(configs.TransitionTimeout),
		commands.WithMetrics(transitionMetrics),
		commands.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	return root, nil
}

func (c *CompositionRoot) createOrderLocker() (ports.OrderLocker, error) {
	if c.configs.LockBackend != LockBackendRedis {
		return lock.NewMemoryOrderLocker(), nil
	}

	opts, err := redis.ParseURL(c.configs.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err = client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	c.closers = append(c.closers, client.Close)
	return lock.NewRedisOrderLocker(client, c.configs.LockTTL, c.configs.LockRetryInterval, c.logger), nil
}

func (c *CompositionRoot) CreateHandlers() fshttp.Handlers {
	return fshttp.Handlers{
		CreateOrder:          commands.NewCreateOrderCommandHandler(c.engine),
		ValidateOrder:        commands.NewValidateOrderCommandHandler(c.engine),
		RejectOrder:          commands.NewRejectOrderCommandHandler(c.engine),
		AssignTechnician:     commands.NewAssignTechnicianCommandHandler(c.engine),
		ConfirmAppointment:   commands.NewConfirmAppointmentCommandHandler(c.engine),
		RequestReprogram:     commands.NewRequestReprogramCommandHandler(c.engine),
		ReproposeAppointment: commands.NewReproposeAppointmentCommandHandler(c.engine),
		StartWork:            commands.NewStartWorkCommandHandler(c.engine),
		FinishWork:           commands.NewFinishWorkCommandHandler(c.engine),
		ConfirmService:       commands.NewConfirmServiceCommandHandler(c.engine),
		RejectService:        commands.NewRejectServiceCommandHandler(c.engine),
		CancelOrder:          commands.NewCancelOrderCommandHandler(c.engine),
		CreateTechnician:     commands.NewCreateTechnicianCommandHandler(c.engine),
		UpdateTechnician:     commands.NewUpdateTechnicianCommandHandler(c.engine),
		MarkNotificationRead: commands.NewMarkNotificationReadCommandHandler(c.engine),
		GetOrder:             queries.NewGetOrderQueryHandler(c.gormDB),
		ListOrders:           queries.NewListOrdersQueryHandler(c.gormDB),
		GetOrderAppointments: queries.NewGetOrderAppointmentsQueryHandler(c.gormDB),
		GetOrderAuditTrail:   queries.NewGetOrderAuditTrailQueryHandler(c.gormDB),
		GetNotifications:     queries.NewGetNotificationsQueryHandler(c.gormDB),
		GetAllTechnicians:    queries.NewGetAllTechniciansQueryHandler(c.gormDB),
	}
}

func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	server := fshttp.NewServer(c.CreateHandlers(), c.clock.Location())
	return fshttp.NewRouter(server, fshttp.RouterOptions{
		Log:     c.logger,
		Metrics: promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry}),
		Ping:    c.ping,
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewRedeliveryJob(c.uowFactory, c.dispatcher, c.recorder,
			c.configs.RedeliverySchedule, c.metrics, c.logger),
	)
}

func (c *CompositionRoot) ping(ctx context.Context) error {
	sqlDB, err := c.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connections opened by the root, the database last.
func (c *CompositionRoot) Close() error {
	var firstErr error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if sqlDB, err := c.gormDB.DB(); err == nil {
		if err = sqlDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
