package commands

import (
	"errors"

	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/pkg/errs"
	"pizzatools/internal/pkg/guard"
)

var ErrReturnDriverCommandIsNotConstructed = errors.New(
	"ReturnDriverCommand must be created via NewReturnDriverCommand constructor",
)

// ReturnDriverCommand marks a driver as back from a delivery run. The handler
// settles the driver's ledger orders and frees the driver for the next
// dispatch.
type ReturnDriverCommand struct {
	driverID kernel.UUID
	guard    guard.ConstructorGuard
}

// NewReturnDriverCommand creates a return command for the given driver.
func NewReturnDriverCommand(driverID kernel.UUID) (ReturnDriverCommand, error) {
	if err := driverID.Validate(); err != nil {
		return ReturnDriverCommand{}, errs.NewValueIsRequiredErrorWithCause("driverID", err)
	}

	return ReturnDriverCommand{
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// DriverID returns the returning driver.
func (c *ReturnDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Validate ensures the command was created through the constructor.
func (c *ReturnDriverCommand) Validate() error {
	return c.guard.Validate(
		ErrReturnDriverCommandIsNotConstructed,
	)
}
