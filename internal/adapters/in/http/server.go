package http

import (
	"context"
	"log/slog"
	"net/http"

	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/application/usecases/queries"
	"orderhub/internal/core/domain/model/driver"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

type (
	OrderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (kernel.UUID, error)
	}
	OrderStatusUpdater interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error)
	}
	OrderCanceller interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error)
	}
	DriverAssigner interface {
		Handle(ctx context.Context, cmd commands.AssignDriverCommand) (*driver.Driver, error)
	}
	DriverCreator interface {
		Handle(ctx context.Context, cmd commands.CreateDriverCommand) (kernel.UUID, error)
	}
	DriverAvailabilitySetter interface {
		Handle(ctx context.Context, cmd commands.SetDriverAvailabilityCommand) (*driver.Driver, error)
	}
	OrderItemAdder interface {
		Handle(ctx context.Context, cmd commands.AddOrderItemCommand) (*order.Order, error)
	}
	OrderItemRemover interface {
		Handle(ctx context.Context, cmd commands.RemoveOrderItemCommand) (*order.Order, error)
	}
	OrderChargesAdjuster interface {
		Handle(ctx context.Context, cmd commands.AdjustOrderChargesCommand) (*order.Order, error)
	}
	PaymentRecorder interface {
		Handle(ctx context.Context, cmd commands.RecordPaymentCommand) (*order.Order, error)
	}
	DriverActivator interface {
		Handle(ctx context.Context, cmd commands.SetDriverActiveCommand) (*driver.Driver, error)
	}
	DriverRater interface {
		Handle(ctx context.Context, cmd commands.RateDriverCommand) (*driver.Driver, error)
	}
	DriverLocationUpdater interface {
		Handle(ctx context.Context, cmd commands.UpdateDriverLocationCommand) error
	}
	NotificationReader interface {
		Handle(ctx context.Context, cmd commands.MarkNotificationReadCommand) (bool, error)
	}
	PushSubscriber interface {
		Handle(ctx context.Context, cmd commands.SubscribePushCommand) (bool, error)
	}
	PushUnsubscriber interface {
		Handle(ctx context.Context, cmd commands.UnsubscribePushCommand) (bool, error)
	}
	ActiveOrdersLister interface {
		Handle(ctx context.Context, query queries.GetActiveOrdersQuery) ([]queries.GetActiveOrdersQueryResponse, error)
	}
	DriversInAreaLister interface {
		Handle(ctx context.Context, query queries.ListDriversInAreaQuery) ([]queries.ListDriversInAreaQueryResponse, error)
	}
	NotificationsLister interface {
		Handle(ctx context.Context, query queries.ListNotificationsQuery) ([]queries.ListNotificationsQueryResponse, error)
	}
	UnreadCounter interface {
		Handle(ctx context.Context, query queries.UnreadCountQuery) (int, error)
	}
)

// Handlers are the use cases served over HTTP.
type Handlers struct {
	CreateOrder           OrderCreator
	UpdateOrderStatus     OrderStatusUpdater
	CancelOrder           OrderCanceller
	AssignDriver          DriverAssigner
	AddOrderItem          OrderItemAdder
	RemoveOrderItem       OrderItemRemover
	AdjustOrderCharges    OrderChargesAdjuster
	RecordPayment         PaymentRecorder
	CreateDriver          DriverCreator
	SetDriverAvailability DriverAvailabilitySetter
	SetDriverActive       DriverActivator
	RateDriver            DriverRater
	UpdateDriverLocation  DriverLocationUpdater
	MarkNotificationRead  NotificationReader
	SubscribePush         PushSubscriber
	UnsubscribePush       PushUnsubscriber

	GetActiveOrders   ActiveOrdersLister
	ListDriversInArea DriversInAreaLister
	ListNotifications NotificationsLister
	UnreadCount       UnreadCounter
}

// Server translates HTTP requests into commands and queries and maps their results
// and errors back to JSON responses.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{h: handlers, logger: logger.With("component", "http_server")}
}

// Register mounts the API under /api/v1 and the health check.
func (s *Server) Register(e *echo.Echo) {
	e.HTTPErrorHandler = s.handleError
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1", s.logRequests)

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/active", s.GetActiveOrders)
	api.PATCH("/orders/:id/status", s.UpdateOrderStatus)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/assign", s.AssignDriver)
	api.POST("/orders/:id/items", s.AddOrderItem)
	api.DELETE("/orders/:id/items/:product_id", s.RemoveOrderItem)
	api.PATCH("/orders/:id/charges", s.AdjustOrderCharges)
	api.POST("/orders/:id/payment", s.RecordPayment)

	api.POST("/drivers", s.CreateDriver)
	api.PUT("/drivers/:id/availability", s.SetDriverAvailability)
	api.PUT("/drivers/:id/active", s.SetDriverActive)
	api.POST("/drivers/:id/ratings", s.RateDriver)
	api.PUT("/drivers/:id/location", s.UpdateDriverLocation)
	api.GET("/areas/:id/drivers", s.ListDriversInArea)

	api.GET("/notifications", s.ListNotifications)
	api.GET("/notifications/unread-count", s.UnreadCount)
	api.POST("/notifications/:id/read", s.MarkNotificationRead)

	api.POST("/push/subscriptions", s.SubscribePush)
	api.POST("/push/subscriptions/remove", s.UnsubscribePush)
}
