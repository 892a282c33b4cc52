package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderhub/internal/core/domain/model/driver"
	"orderhub/internal/core/domain/services"
	"orderhub/internal/core/ports"
)

// AssignDriverCommandHandler is the dispatch coordinator. It pairs one ready order
// with the best eligible driver of its area.
//
// Both rows are locked for the whole attempt: the order first, then each candidate
// in rank order. A candidate whose state changed since the eligibility snapshot is
// skipped. Orders that are no longer ready, or already have a driver, are rejected
// with services.ErrOrderNotDispatchable and nothing is written.
//
// Example:
//
//	cmd, _ := NewAssignDriverCommand(orderID)
//	d, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, services.ErrOrderNotDispatchable):
//	    // stale attempt, discard
//	case err != nil:
//	    return err
//	case d == nil:
//	    // nobody available, retry later
//	}
type AssignDriverCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.OrderDispatcher
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewAssignDriverCommandHandler(
	uowFactory UoWFactory,
	dispatcher services.OrderDispatcher,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     loggerOrDefault(logger),
	}
}

// Handle returns the assigned driver, or (nil, nil) when no driver is eligible.
func (h AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) (*driver.Driver, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	driverRepo := uow.DriverRepository()

	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if !o.IsAwaitingDriver() {
		return nil, services.ErrOrderNotDispatchable
	}

	candidates, err := driverRepo.FindEligible(ctx, o.AreaID(), h.dispatcher.Policy().ExcludeBusy)
	if err != nil {
		return nil, err
	}

	ranked, err := h.dispatcher.Rank(o, candidates)
	if err != nil {
		return nil, err
	}

	for _, candidate := range ranked {
		locked, lockErr := driverRepo.GetForUpdate(ctx, candidate.ID())
		if lockErr != nil {
			return nil, lockErr
		}

		assigned, dispatchErr := h.dispatcher.Dispatch(o, []*driver.Driver{locked}, time.Now().UTC())
		if errors.Is(dispatchErr, services.ErrNoEligibleDriver) {
			h.logger.DebugContext(ctx, "candidate no longer eligible",
				slog.String("order_id", o.ID().String()),
				slog.String("driver_id", candidate.ID().String()))
			continue
		}
		if dispatchErr != nil {
			return nil, dispatchErr
		}

		if err = orderRepo.Update(ctx, o); err != nil {
			return nil, err
		}
		if err = driverRepo.Update(ctx, assigned); err != nil {
			return nil, err
		}
		if err = uow.Commit(ctx); err != nil {
			return nil, err
		}

		publishCommitted(ctx, h.publisher, h.logger, uow)
		return assigned, nil
	}

	return nil, nil
}
