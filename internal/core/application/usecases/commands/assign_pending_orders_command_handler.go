package commands

import (
	"context"
	"errors"
	"log/slog"

	"orderhub/internal/core/domain/services"
)

// AssignPendingOrdersResult summarises one retry sweep.
type AssignPendingOrdersResult struct {
	Attempted int
	Assigned  int
	Failed    int
}

// AssignPendingOrdersCommandHandler sweeps ready, unassigned orders and runs the
// dispatch coordinator for each one. Every order gets its own transaction, so one
// failure does not block the rest of the batch.
type AssignPendingOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	assigner   DriverAssigner
	logger     *slog.Logger
}

func NewAssignPendingOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	assigner DriverAssigner,
	logger *slog.Logger,
) AssignPendingOrdersCommandHandler {
	return AssignPendingOrdersCommandHandler{
		uowFactory: uowFactory,
		assigner:   assigner,
		logger:     loggerOrDefault(logger),
	}
}

func (h AssignPendingOrdersCommandHandler) Handle(
	ctx context.Context,
	cmd AssignPendingOrdersCommand,
) (AssignPendingOrdersResult, error) {
	var result AssignPendingOrdersResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	pending, err := h.uowFactory.Create().OrderRepository().GetAwaitingDriver(ctx, cmd.BatchSize())
	if err != nil {
		return result, err
	}

	for _, o := range pending {
		if err = ctx.Err(); err != nil {
			return result, err
		}

		assignCmd, cmdErr := NewAssignDriverCommand(o.ID())
		if cmdErr != nil {
			return result, cmdErr
		}

		result.Attempted++
		assigned, assignErr := h.assigner.Handle(ctx, assignCmd)
		switch {
		case errors.Is(assignErr, services.ErrOrderNotDispatchable):
			// Changed since the sweep read it.
		case assignErr != nil:
			result.Failed++
			h.logger.WarnContext(ctx, "retry assignment failed",
				slog.String("order_id", o.ID().String()),
				slog.String("error", assignErr.Error()))
		case assigned != nil:
			result.Assigned++
		}
	}

	return result, nil
}
