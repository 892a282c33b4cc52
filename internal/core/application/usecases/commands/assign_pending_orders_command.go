package commands

import (
	"errors"

	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

var ErrAssignPendingOrdersCommandIsNotConstructed = errors.New(
	"AssignPendingOrdersCommand must be created via NewAssignPendingOrdersCommand constructor",
)

const MaxPendingBatch = 500

// AssignPendingOrdersCommand retries dispatch for ready orders still waiting for a driver.
type AssignPendingOrdersCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

func NewAssignPendingOrdersCommand(batchSize int) (AssignPendingOrdersCommand, error) {
	if batchSize < 1 || batchSize > MaxPendingBatch {
		return AssignPendingOrdersCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, MaxPendingBatch)
	}

	return AssignPendingOrdersCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AssignPendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAssignPendingOrdersCommandIsNotConstructed)
}

func (c AssignPendingOrdersCommand) BatchSize() int {
	return c.batchSize
}
