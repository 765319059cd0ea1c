package commands_test

import (
	"context"
	"testing"

	"pizzatools/internal/core/application/usecases/commands"
	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/core/domain/model/order"
	"pizzatools/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionOrderCommandHandler_Handle(t *testing.T) {
	catalog, stateIDs := pipelineCatalog()
	states := &fakeStateStore{catalog: catalog}

	newHandler := func(orders *fakeOrderStore) commands.TransitionOrderCommandHandler {
		return commands.NewTransitionOrderCommandHandler(orders, states)
	}

	t.Run("moves order one stage forward", func(t *testing.T) {
		orders := newFakeOrderStore()
		orderID := kernel.NewUUID()
		orders.add(orderID, stateIDs[order.StagePrepPending])

		cmd, err := commands.NewTransitionOrderCommand(orderID, "in-oven")
		require.NoError(t, err)

		result, err := newHandler(orders).Handle(context.Background(), cmd)

		require.NoError(t, err)
		assert.Equal(t, "prep-pending", result.FromState)
		assert.Equal(t, "in-oven", result.ToState)
		assert.Equal(t, int64(2), result.Version)
		assert.True(t, orders.stateOf(orderID).IsEqual(stateIDs[order.StageInOven]))
	})

	t.Run("walks the full pipeline to delivered", func(t *testing.T) {
		orders := newFakeOrderStore()
		orderID := kernel.NewUUID()
		orders.add(orderID, stateIDs[order.StagePrepPending])
		handler := newHandler(orders)

		for _, key := range []string{"in-oven", "pending-delivery", "out-for-delivery", "delivered"} {
			cmd, err := commands.NewTransitionOrderCommand(orderID, key)
			require.NoError(t, err)

			result, err := handler.Handle(context.Background(), cmd)
			require.NoError(t, err)
			assert.Equal(t, key, result.ToState)
		}

		assert.True(t, orders.stateOf(orderID).IsEqual(stateIDs[order.StageDelivered]))
	})

	t.Run("repeated transition to the same stage succeeds without a write", func(t *testing.T) {
		orders := newFakeOrderStore()
		orderID := kernel.NewUUID()
		orders.add(orderID, stateIDs[order.StageDelivered])

		cmd, err := commands.NewTransitionOrderCommand(orderID, "delivered")
		require.NoError(t, err)

		result, err := newHandler(orders).Handle(context.Background(), cmd)

		require.NoError(t, err)
		assert.Equal(t, "delivered", result.FromState)
		assert.Equal(t, "delivered", result.ToState)
		assert.Equal(t, int64(1), result.Version)
	})

	t.Run("rejects stage skipping", func(t *testing.T) {
		orders := newFakeOrderStore()
		orderID := kernel.NewUUID()
		orders.add(orderID, stateIDs[order.StagePrepPending])

		cmd, err := commands.NewTransitionOrderCommand(orderID, "out-for-delivery")
		require.NoError(t, err)

		_, err = newHandler(orders).Handle(context.Background(), cmd)

		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
		assert.True(t, orders.stateOf(orderID).IsEqual(stateIDs[order.StagePrepPending]))
	})

	t.Run("rejects reviving a cancelled order", func(t *testing.T) {
		orders := newFakeOrderStore()
		orderID := kernel.NewUUID()
		orders.add(orderID, stateIDs[order.StageCancelled])

		cmd, err := commands.NewTransitionOrderCommand(orderID, "in-oven")
		require.NoError(t, err)

		_, err = newHandler(orders).Handle(context.Background(), cmd)

		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
	})

	t.Run("allows cancelling from any active stage", func(t *testing.T) {
		orders := newFakeOrderStore()
		orderID := kernel.NewUUID()
		orders.add(orderID, stateIDs[order.StageOutForDelivery])

		cmd, err := commands.NewTransitionOrderCommand(orderID, "cancelled")
		require.NoError(t, err)

		result, err := newHandler(orders).Handle(context.Background(), cmd)

		require.NoError(t, err)
		assert.Equal(t, "cancelled", result.ToState)
	})

	t.Run("surfaces version conflicts without retry", func(t *testing.T) {
		orders := newFakeOrderStore()
		orderID := kernel.NewUUID()
		orders.add(orderID, stateIDs[order.StagePrepPending])
		orders.failNextTransition(orderID, errs.NewVersionConflictError("order", orderID.String(), 1))

		cmd, err := commands.NewTransitionOrderCommand(orderID, "in-oven")
		require.NoError(t, err)

		_, err = newHandler(orders).Handle(context.Background(), cmd)

		assert.ErrorIs(t, err, errs.ErrVersionConflict)
		assert.True(t, orders.stateOf(orderID).IsEqual(stateIDs[order.StagePrepPending]))
	})

	t.Run("fails when order does not exist", func(t *testing.T) {
		orders := newFakeOrderStore()

		cmd, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), "in-oven")
		require.NoError(t, err)

		_, err = newHandler(orders).Handle(context.Background(), cmd)

		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("fails when target state is missing from the catalog", func(t *testing.T) {
		orders := newFakeOrderStore()
		orderID := kernel.NewUUID()
		orders.add(orderID, stateIDs[order.StagePrepPending])

		cmd, err := commands.NewTransitionOrderCommand(orderID, "in-oven")
		require.NoError(t, err)

		emptyStates := &fakeStateStore{}
		handler := commands.NewTransitionOrderCommandHandler(orders, emptyStates)

		_, err = handler.Handle(context.Background(), cmd)

		assert.ErrorIs(t, err, errs.ErrUnknownState)
	})

	t.Run("rejects unconstructed command", func(t *testing.T) {
		var cmd commands.TransitionOrderCommand

		_, err := newHandler(newFakeOrderStore()).Handle(context.Background(), cmd)

		assert.ErrorIs(t, err, commands.ErrTransitionOrderCommandIsNotConstructed)
	})
}
