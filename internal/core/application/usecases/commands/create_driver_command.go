package commands

import (
	"errors"
	"strings"

	"orderhub/internal/core/domain/model/driver"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

var ErrCreateDriverCommandIsNotConstructed = errors.New(
	"CreateDriverCommand must be created via NewCreateDriverCommand constructor",
)

type CreateDriverCommand struct { //nolint:recvcheck //using for validation
	userID   kernel.UUID
	name     string
	phone    string
	vehicle  driver.VehicleType
	areaID   kernel.UUID
	capacity int

	guard guard.ConstructorGuard
}

// NewCreateDriverCommand registers a driver account. A zero capacity means the
// handler's configured default.
func NewCreateDriverCommand(
	userID kernel.UUID,
	name, phone string,
	vehicle driver.VehicleType,
	areaID kernel.UUID,
	capacity int,
) (CreateDriverCommand, error) {
	cmd := CreateDriverCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setName(name),
		cmd.setPhone(phone),
		cmd.setVehicle(vehicle),
		cmd.setAreaID(areaID),
		cmd.setCapacity(capacity),
	); err != nil {
		return CreateDriverCommand{}, err
	}

	return cmd, nil
}

func (c CreateDriverCommand) Validate() error {
	return c.guard.Validate(ErrCreateDriverCommandIsNotConstructed)
}

func (c CreateDriverCommand) UserID() kernel.UUID         { return c.userID }
func (c CreateDriverCommand) Name() string                { return c.name }
func (c CreateDriverCommand) Phone() string               { return c.phone }
func (c CreateDriverCommand) Vehicle() driver.VehicleType { return c.vehicle }
func (c CreateDriverCommand) AreaID() kernel.UUID         { return c.areaID }
func (c CreateDriverCommand) Capacity() int               { return c.capacity }

func (c *CreateDriverCommand) setUserID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.userID = id
	return nil
}

func (c *CreateDriverCommand) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *CreateDriverCommand) setPhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return errs.NewValueIsRequiredError("phone")
	}
	c.phone = phone
	return nil
}

func (c *CreateDriverCommand) setVehicle(v driver.VehicleType) error {
	if err := v.Validate(); err != nil {
		return err
	}
	c.vehicle = v
	return nil
}

func (c *CreateDriverCommand) setAreaID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.areaID = id
	return nil
}

func (c *CreateDriverCommand) setCapacity(capacity int) error {
	if capacity < 0 {
		return errs.NewValueIsOutOfRangeError("capacity", capacity, 0, nil)
	}
	c.capacity = capacity
	return nil
}
