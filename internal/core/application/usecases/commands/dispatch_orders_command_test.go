package commands_test

import (
	"testing"

	"pizzatools/internal/core/application/usecases/commands"
	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/core/domain/services"
	"pizzatools/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDispatchOrdersCommand(t *testing.T) {
	t.Run("creates command from a valid plan", func(t *testing.T) {
		driverID := kernel.NewUUID()
		orderID := kernel.NewUUID()

		cmd, err := commands.NewDispatchOrdersCommand(map[kernel.UUID][]kernel.UUID{
			driverID: {orderID},
		})

		require.NoError(t, err)
		assert.NoError(t, cmd.Validate())
		assert.Len(t, cmd.Assignments()[driverID], 1)
	})

	t.Run("copies the plan instead of aliasing it", func(t *testing.T) {
		driverID := kernel.NewUUID()
		input := map[kernel.UUID][]kernel.UUID{
			driverID: {kernel.NewUUID()},
		}

		cmd, err := commands.NewDispatchOrdersCommand(input)
		require.NoError(t, err)

		input[driverID][0] = kernel.NewUUID()
		delete(input, driverID)

		assert.Len(t, cmd.Assignments(), 1)
	})

	t.Run("rejects empty plan", func(t *testing.T) {
		_, err := commands.NewDispatchOrdersCommand(nil)

		assert.ErrorIs(t, err, services.ErrNoAssignments)
	})

	t.Run("rejects driver with no orders", func(t *testing.T) {
		_, err := commands.NewDispatchOrdersCommand(map[kernel.UUID][]kernel.UUID{
			kernel.NewUUID(): {},
		})

		assert.ErrorIs(t, err, services.ErrEmptyAssignment)
	})

	t.Run("rejects order claimed by two drivers", func(t *testing.T) {
		orderID := kernel.NewUUID()

		_, err := commands.NewDispatchOrdersCommand(map[kernel.UUID][]kernel.UUID{
			kernel.NewUUID(): {orderID},
			kernel.NewUUID(): {orderID},
		})

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value command fails validation", func(t *testing.T) {
		var cmd commands.DispatchOrdersCommand

		assert.ErrorIs(t, cmd.Validate(), commands.ErrDispatchOrdersCommandIsNotConstructed)
	})
}
