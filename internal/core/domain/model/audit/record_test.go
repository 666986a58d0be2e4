package audit_test

import (
	"testing"
	"time"

	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	at := time.Date(2025, 1, 9, 8, 0, 0, 0, time.UTC)

	t.Run("should create a record tied to an order", func(t *testing.T) {
		orderID := kernel.NewUUID()
		actor := kernel.NewUUID()

		r, err := audit.NewRecord(kernel.NewUUID(), actor, &orderID, audit.ActionRejectOrder, " Motivo: duplicated ", at)

		require.NoError(t, err)
		require.NoError(t, r.Validate())
		assert.Equal(t, audit.ActionRejectOrder, r.Action())
		assert.Equal(t, "Motivo: duplicated", r.Description())
		assert.True(t, r.ActorID().IsEqual(actor))
		assert.Equal(t, orderID, *r.OrderID())
	})

	t.Run("should allow records without order", func(t *testing.T) {
		r, err := audit.NewRecord(kernel.NewUUID(), kernel.NewUUID(), nil, audit.ActionCreateTechnician, "", at)

		require.NoError(t, err)
		assert.Nil(t, r.OrderID())
	})

	t.Run("should reject malformed action codes", func(t *testing.T) {
		for _, action := range []audit.Action{"", "validate order", "Validate"} {
			_, err := audit.NewRecord(kernel.NewUUID(), kernel.NewUUID(), nil, action, "", at)

			require.ErrorIs(t, err, errs.ErrValueIsInvalid, string(action))
		}
	})
}
