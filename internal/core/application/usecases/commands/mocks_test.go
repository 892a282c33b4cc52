package commands_test

import (
	"context"

	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/domain/model/driver"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/notification"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAwaitingDriver(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) FindEligible(
	ctx context.Context,
	areaID kernel.UUID,
	excludeBusy bool,
) ([]*driver.Driver, error) {
	args := m.Called(ctx, areaID, excludeBusy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

// MockUoW satisfies every unit-of-work flavour the handlers depend on.
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

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

func (m *MockUoW) PullDomainEvents() []kernel.DomainEvent {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]kernel.DomainEvent)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockDriverUoWFactory struct{ mock.Mock }

func (m *MockDriverUoWFactory) Create() commands.DriverUoW {
	args := m.Called()
	return args.Get(0).(commands.DriverUoW)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, events ...kernel.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type MockDriverAssigner struct{ mock.Mock }

func (m *MockDriverAssigner) Handle(ctx context.Context, cmd commands.AssignDriverCommand) (*driver.Driver, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

type MockProductCatalog struct{ mock.Mock }

func (m *MockProductCatalog) GetProducts(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]ports.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.UUID]ports.Product), args.Error(1)
}

type MockStoreDirectory struct{ mock.Mock }

func (m *MockStoreDirectory) GetStore(ctx context.Context, id kernel.UUID) (ports.Store, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.Store), args.Error(1)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockPushSubscriptionRepository struct{ mock.Mock }

func (m *MockPushSubscriptionRepository) Add(ctx context.Context, s *notification.PushSubscription) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockPushSubscriptionRepository) Update(ctx context.Context, s *notification.PushSubscription) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockPushSubscriptionRepository) GetByEndpoint(
	ctx context.Context,
	userID kernel.UUID,
	endpoint string,
) (*notification.PushSubscription, error) {
	args := m.Called(ctx, userID, endpoint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.PushSubscription), args.Error(1)
}

func (m *MockPushSubscriptionRepository) ListActiveByUser(
	ctx context.Context,
	userID kernel.UUID,
) ([]*notification.PushSubscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.PushSubscription), args.Error(1)
}
