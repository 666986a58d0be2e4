package order_test

import (
	"testing"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/order"
	"fieldservice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecution(t *testing.T) {
	started := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)

	newExecution := func(t *testing.T) *order.Execution {
		t.Helper()
		e, err := order.StartExecution(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), started)
		require.NoError(t, err)
		return e
	}

	t.Run("should open with no confirmation", func(t *testing.T) {
		e := newExecution(t)

		assert.True(t, e.IsOpen())
		assert.Equal(t, order.ConfirmationNone, e.Confirmation())
		assert.Equal(t, order.ResultNone, e.Result())
	})

	t.Run("should finish and wait for the client", func(t *testing.T) {
		e := newExecution(t)

		require.NoError(t, e.Finish(" replaced the modem ", started.Add(2*time.Hour)))

		assert.False(t, e.IsOpen())
		assert.Equal(t, "replaced the modem", e.Summary())
		assert.Equal(t, order.ResultCompleted, e.Result())
		assert.Equal(t, order.ConfirmationPending, e.Confirmation())
	})

	t.Run("should require a summary", func(t *testing.T) {
		e := newExecution(t)

		var validation *errs.ValidationError
		require.ErrorAs(t, e.Finish("   ", started), &validation)
		assert.True(t, validation.Has(order.CheckWorkSummary))
		assert.True(t, e.IsOpen())
	})

	t.Run("should refuse to finish twice", func(t *testing.T) {
		e := newExecution(t)
		require.NoError(t, e.Finish("done", started))

		require.ErrorIs(t, e.Finish("done again", started), errs.ErrStateConflict)
	})

	t.Run("should confirm only a pending execution", func(t *testing.T) {
		e := newExecution(t)
		require.ErrorIs(t, e.Confirm(), errs.ErrStateConflict)

		require.NoError(t, e.Finish("done", started))
		require.NoError(t, e.Confirm())
		assert.Equal(t, order.ConfirmationConfirmed, e.Confirmation())

		require.ErrorIs(t, e.Confirm(), errs.ErrStateConflict)
		require.ErrorIs(t, e.Reject(), errs.ErrStateConflict)
	})

	t.Run("should reopen on rejection", func(t *testing.T) {
		e := newExecution(t)
		require.NoError(t, e.Finish("done", started))

		require.NoError(t, e.Reject())

		assert.Equal(t, order.ConfirmationRejected, e.Confirmation())
		assert.True(t, e.IsOpen())
		require.NoError(t, e.Finish("fixed the wiring too", started.Add(time.Hour)))
		assert.Equal(t, order.ConfirmationPending, e.Confirmation())
	})
}

func TestParseClientConfirmation(t *testing.T) {
	c, err := order.ParseClientConfirmation("confirmado")
	require.NoError(t, err)
	assert.Equal(t, order.ConfirmationConfirmed, c)

	c, err = order.ParseClientConfirmation("")
	require.NoError(t, err)
	assert.Equal(t, order.ConfirmationNone, c)

	_, err = order.ParseClientConfirmation("quizas")
	require.Error(t, err)
}
