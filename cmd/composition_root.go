package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	httpin "orderhub/internal/adapters/in/http"
	"orderhub/internal/adapters/out/clickhouse"
	"orderhub/internal/adapters/out/events"
	"orderhub/internal/adapters/out/metrics"
	"orderhub/internal/adapters/out/postgres"
	"orderhub/internal/adapters/out/postgres/catalogrepo"
	"orderhub/internal/adapters/out/postgres/notificationrepo"
	"orderhub/internal/adapters/out/rabbitmq"
	"orderhub/internal/adapters/out/webpush"
	"orderhub/internal/core/application/fanout"
	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/application/usecases/queries"
	"orderhub/internal/core/domain/services"
	"orderhub/internal/core/ports"
	"orderhub/internal/jobs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg           Config
	gormDB        *gorm.DB
	uowFactory    *postgres.GormUnitOfWorkFactory
	catalog       *catalogrepo.GormCatalog
	notifications *notificationrepo.GormNotificationRepository
	subscriptions *notificationrepo.GormPushSubscriptionRepository
	dispatcher    services.OrderDispatcher
	publisher     *events.Multicaster
	metrics       *metrics.Metrics
	logger        *slog.Logger
	closers       []io.Closer
}

// NewCompositionRoot wires the event pipeline: notifications and metrics always,
// RabbitMQ and ClickHouse when configured.
func NewCompositionRoot(ctx context.Context, cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c := &CompositionRoot{
		cfg:           cfg,
		gormDB:        gormDB,
		uowFactory:    postgres.NewGormUnitOfWorkFactory(gormDB),
		catalog:       catalogrepo.NewGormCatalog(gormDB),
		notifications: notificationrepo.NewGormNotificationRepository(gormDB),
		subscriptions: notificationrepo.NewGormPushSubscriptionRepository(gormDB),
		dispatcher: services.NewOrderDispatcher(services.DispatchPolicy{
			ExcludeBusy:     true,
			MaxRadiusMeters: cfg.DispatchRadiusMeters,
		}),
		publisher: events.NewMulticaster(logger),
		metrics:   metrics.New(reg),
		logger:    logger,
	}

	sender, err := c.pushSender()
	if err != nil {
		return nil, err
	}
	notifier := fanout.NewService(c.notifications, c.subscriptions, sender, c.metrics, fanout.Config{
		SiteName:        cfg.SiteName,
		Icon:            cfg.NotificationIcon,
		PushTimeout:     cfg.PushTimeout,
		PushMaxParallel: cfg.PushMaxParallel,
	}, logger)

	c.publisher.Subscribe(c.metrics)
	c.publisher.Subscribe(fanout.NewEventHandler(notifier, c.catalog, c.uowFactory.Create().DriverRepository(), logger))

	if cfg.RabbitMQURL != "" {
		publisher, err := rabbitmq.NewPublisher(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange}, logger)
		if err != nil {
			return nil, errors.Join(err, c.Close())
		}
		c.closers = append(c.closers, publisher)
		c.publisher.Subscribe(publisher)
	}

	if cfg.ClickHouseAddr != "" {
		recorder, err := clickhouse.NewRecorder(ctx, clickhouse.Config{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUser,
			Password: cfg.ClickHousePassword,
		}, logger)
		if err != nil {
			return nil, errors.Join(err, c.Close())
		}
		c.closers = append(c.closers, recorder)
		if err = recorder.EnsureSchema(ctx); err != nil {
			return nil, errors.Join(err, c.Close())
		}
		c.publisher.Subscribe(recorder)
	}

	return c, nil
}

func (c *CompositionRoot) pushSender() (ports.PushSender, error) {
	if c.cfg.VAPIDPublicKey == "" && c.cfg.VAPIDPrivateKey == "" {
		c.logger.Warn("VAPID keys are not configured, web push is disabled")
		return webpush.NewNoopSender(c.logger), nil
	}

	sender, err := webpush.NewSender(webpush.Config{
		VAPIDPublicKey:  c.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: c.cfg.VAPIDPrivateKey,
		Subject:         c.cfg.VAPIDSubject,
	}, &http.Client{Timeout: c.cfg.PushTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to create web push sender: %w", err)
	}
	return sender, nil
}

// Close releases the broker and analytics connections.
func (c *CompositionRoot) Close() error {
	var errList []error
	for _, closer := range c.closers {
		errList = append(errList, closer.Close())
	}
	c.closers = nil
	return errors.Join(errList...)
}

func (c *CompositionRoot) Metrics() *metrics.Metrics {
	return c.metrics
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.catalog, c.catalog,
		c.publisher, c.cfg.DefaultDelivery(), c.logger)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignDriverCommandHandler(f, c.dispatcher, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateOrderStatusCommandHandler(f, c.publisher, c.CreateAssignDriverCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateAssignPendingOrdersCommandHandler() commands.AssignPendingOrdersCommandHandler {
	return commands.NewAssignPendingOrdersCommandHandler(c.orderUoWFactory(), c.CreateAssignDriverCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateAddOrderItemCommandHandler() commands.AddOrderItemCommandHandler {
	return commands.NewAddOrderItemCommandHandler(c.orderUoWFactory(), c.catalog)
}

func (c *CompositionRoot) CreateRemoveOrderItemCommandHandler() commands.RemoveOrderItemCommandHandler {
	return commands.NewRemoveOrderItemCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateAdjustOrderChargesCommandHandler() commands.AdjustOrderChargesCommandHandler {
	return commands.NewAdjustOrderChargesCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateRecordPaymentCommandHandler() commands.RecordPaymentCommandHandler {
	return commands.NewRecordPaymentCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCreateDriverCommandHandler() commands.CreateDriverCommandHandler {
	return commands.NewCreateDriverCommandHandler(c.driverUoWFactory(), c.cfg.DriverCapacity)
}

func (c *CompositionRoot) CreateSetDriverAvailabilityCommandHandler() commands.SetDriverAvailabilityCommandHandler {
	return commands.NewSetDriverAvailabilityCommandHandler(c.driverUoWFactory())
}

func (c *CompositionRoot) CreateSetDriverActiveCommandHandler() commands.SetDriverActiveCommandHandler {
	return commands.NewSetDriverActiveCommandHandler(c.driverUoWFactory())
}

func (c *CompositionRoot) CreateRateDriverCommandHandler() commands.RateDriverCommandHandler {
	return commands.NewRateDriverCommandHandler(c.driverUoWFactory())
}

func (c *CompositionRoot) CreateUpdateDriverLocationCommandHandler() commands.UpdateDriverLocationCommandHandler {
	return commands.NewUpdateDriverLocationCommandHandler(c.driverUoWFactory())
}

func (c *CompositionRoot) CreateMarkNotificationReadCommandHandler() commands.MarkNotificationReadCommandHandler {
	return commands.NewMarkNotificationReadCommandHandler(c.notifications)
}

func (c *CompositionRoot) CreateSubscribePushCommandHandler() commands.SubscribePushCommandHandler {
	return commands.NewSubscribePushCommandHandler(c.subscriptions)
}

func (c *CompositionRoot) CreateUnsubscribePushCommandHandler() commands.UnsubscribePushCommandHandler {
	return commands.NewUnsubscribePushCommandHandler(c.subscriptions)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListDriversInAreaQueryHandler() queries.ListDriversInAreaQueryHandler {
	return queries.NewListDriversInAreaQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListNotificationsQueryHandler() queries.ListNotificationsQueryHandler {
	return queries.NewListNotificationsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateUnreadCountQueryHandler() queries.UnreadCountQueryHandler {
	return queries.NewUnreadCountQueryHandler(c.gormDB)
}

// HTTPHandlers collects the use cases served by the HTTP adapter.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		CreateOrder:           c.CreateCreateOrderCommandHandler(),
		UpdateOrderStatus:     c.CreateUpdateOrderStatusCommandHandler(),
		CancelOrder:           c.CreateCancelOrderCommandHandler(),
		AssignDriver:          c.CreateAssignDriverCommandHandler(),
		AddOrderItem:          c.CreateAddOrderItemCommandHandler(),
		RemoveOrderItem:       c.CreateRemoveOrderItemCommandHandler(),
		AdjustOrderCharges:    c.CreateAdjustOrderChargesCommandHandler(),
		RecordPayment:         c.CreateRecordPaymentCommandHandler(),
		CreateDriver:          c.CreateCreateDriverCommandHandler(),
		SetDriverAvailability: c.CreateSetDriverAvailabilityCommandHandler(),
		SetDriverActive:       c.CreateSetDriverActiveCommandHandler(),
		RateDriver:            c.CreateRateDriverCommandHandler(),
		UpdateDriverLocation:  c.CreateUpdateDriverLocationCommandHandler(),
		MarkNotificationRead:  c.CreateMarkNotificationReadCommandHandler(),
		SubscribePush:         c.CreateSubscribePushCommandHandler(),
		UnsubscribePush:       c.CreateUnsubscribePushCommandHandler(),

		GetActiveOrders:   c.CreateGetActiveOrdersQueryHandler(),
		ListDriversInArea: c.CreateListDriversInAreaQueryHandler(),
		ListNotifications: c.CreateListNotificationsQueryHandler(),
		UnreadCount:       c.CreateUnreadCountQueryHandler(),
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateAssignPendingOrdersCommandHandler(),
		c.cfg.DispatchRetrySchedule,
		c.cfg.DispatchRetryBatch,
		c.logger,
	)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) driverUoWFactory() commands.DriverUoWFactory {
	return FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
