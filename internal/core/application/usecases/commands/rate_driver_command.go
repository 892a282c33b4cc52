package commands

import (
	"errors"
	"math"

	"orderhub/internal/core/domain/model/driver"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

var ErrRateDriverCommandIsNotConstructed = errors.New(
	"RateDriverCommand must be created via NewRateDriverCommand constructor",
)

// RateDriverCommand folds one customer score into the driver's rating, which
// ranks drivers during dispatch.
type RateDriverCommand struct {
	driverID kernel.UUID
	score    float64

	guard guard.ConstructorGuard
}

func NewRateDriverCommand(driverID kernel.UUID, score float64) (RateDriverCommand, error) {
	var scoreErr error
	if score < driver.MinRating || score > driver.MaxRating || math.IsNaN(score) {
		scoreErr = errs.NewValueIsOutOfRangeError("score", score, driver.MinRating, driver.MaxRating)
	}
	if err := errors.Join(driverID.Validate(), scoreErr); err != nil {
		return RateDriverCommand{}, err
	}

	return RateDriverCommand{
		driverID: driverID,
		score:    score,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RateDriverCommand) Validate() error {
	return c.guard.Validate(ErrRateDriverCommandIsNotConstructed)
}

func (c RateDriverCommand) DriverID() kernel.UUID { return c.driverID }
func (c RateDriverCommand) Score() float64        { return c.score }
