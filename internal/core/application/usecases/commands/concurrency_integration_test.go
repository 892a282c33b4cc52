package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	postgres_adapter "orderhub/internal/adapters/out/postgres"
	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/domain/model/driver"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/domain/services"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/pgtest"

	"github.com/stretchr/testify/suite"
)

type uowFactoryFunc func() commands.UoW

func (f uowFactoryFunc) Create() commands.UoW { return f() }

// ConcurrencyIntegrationTestSuite runs competing handlers against one PostgreSQL
// database to check that row locks and version checks let exactly one writer win.
type ConcurrencyIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	uowFactory commands.UoWFactory
}

func (suite *ConcurrencyIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background(), postgres_adapter.Models()...)
	suite.Require().NoError(err)
	suite.pg = pg

	gormFactory := postgres_adapter.NewGormUnitOfWorkFactory(pg.DB)
	suite.uowFactory = uowFactoryFunc(func() commands.UoW { return gormFactory.Create() })
}

func (suite *ConcurrencyIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(postgres_adapter.TruncateAll(suite.pg.DB))
}

func (suite *ConcurrencyIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *ConcurrencyIntegrationTestSuite) TestUpdateOrderStatus_SameOrderOnlyOneTransitionWins() {
	ctx := context.Background()
	o := orderIn(suite.T(), kernel.NewUUID(), order.Confirmed)
	suite.store(o)

	handler := commands.NewUpdateOrderStatusCommandHandler(suite.uowFactory, nil, nil, nil)
	cmd, err := commands.NewUpdateOrderStatusCommand(o.ID(), order.Preparing, mustActor(suite.T(), order.RoleStoreOwner))
	suite.Require().NoError(err)

	results := race(2, func() error {
		_, handleErr := handler.Handle(ctx, cmd)
		return handleErr
	})

	var succeeded int
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		suite.True(errors.Is(err, errs.ErrInvalidTransition) || errors.Is(err, errs.ErrConflict),
			"unexpected error: %v", err)
	}
	suite.Equal(1, succeeded)

	stored, err := suite.uowFactory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Preparing, stored.Status())
	suite.Equal(o.Version()+1, stored.Version())
}

func (suite *ConcurrencyIntegrationTestSuite) TestAssignDriver_CapacityOneDriverHoldsOneOrder() {
	ctx := context.Background()
	areaID := kernel.NewUUID()
	first := orderIn(suite.T(), areaID, order.Ready)
	second := orderIn(suite.T(), areaID, order.Ready)
	d := availableDriver(suite.T(), areaID, 4.8)
	suite.store(first, second)
	suite.storeDriver(d)

	handler := commands.NewAssignDriverCommandHandler(suite.uowFactory,
		services.NewOrderDispatcher(services.DispatchPolicy{ExcludeBusy: true}), nil, nil)

	var mu sync.Mutex
	var assigned []*driver.Driver
	orders := []kernel.UUID{first.ID(), second.ID()}
	results := raceEach(orders, func(orderID kernel.UUID) error {
		cmd, err := commands.NewAssignDriverCommand(orderID)
		if err != nil {
			return err
		}
		got, err := handler.Handle(ctx, cmd)
		if got != nil {
			mu.Lock()
			assigned = append(assigned, got)
			mu.Unlock()
		}
		return err
	})

	for _, err := range results {
		suite.Require().NoError(err)
	}
	suite.Require().Len(assigned, 1)
	suite.Equal(d.ID(), assigned[0].ID())

	repo := suite.uowFactory.Create().OrderRepository()
	var holders int
	for _, id := range orders {
		stored, err := repo.Get(ctx, id)
		suite.Require().NoError(err)
		if stored.Driver() != nil {
			holders++
			suite.Equal(d.ID(), *stored.Driver())
		}
	}
	suite.Equal(1, holders)

	storedDriver, err := suite.uowFactory.Create().DriverRepository().Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Len(storedDriver.ActiveOrders(), 1)
	suite.Equal(driver.Busy, storedDriver.Status())
}

func (suite *ConcurrencyIntegrationTestSuite) store(orders ...*order.Order) {
	ctx := context.Background()
	uow := suite.uowFactory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	for _, o := range orders {
		suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	}
	suite.Require().NoError(uow.Commit(ctx))
	uow.PullDomainEvents()
}

func (suite *ConcurrencyIntegrationTestSuite) storeDriver(d *driver.Driver) {
	ctx := context.Background()
	uow := suite.uowFactory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.DriverRepository().Add(ctx, d))
	suite.Require().NoError(uow.Commit(ctx))
}

// race runs fn n times at once and returns every result.
func race(n int, fn func() error) []error {
	calls := make([]int, n)
	return raceEach(calls, func(int) error { return fn() })
}

// raceEach calls fn for every input from its own goroutine. All goroutines are
// released together.
func raceEach[T any](inputs []T, fn func(T) error) []error {
	results := make([]error, len(inputs))
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i] = fn(in)
		}()
	}
	close(start)
	wg.Wait()
	return results
}

func TestConcurrencyIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ConcurrencyIntegrationTestSuite))
}
