package services_test

import (
	"errors"
	"testing"
	"time"

	"fieldservice/internal/core/domain/model/client"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/order"
	"fieldservice/internal/core/domain/services"
	"fieldservice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 1, 9, 9, 30, 0, 0, time.UTC)

func newOrder(t *testing.T, clientID kernel.UUID, description, address string) *order.ServiceOrder {
	t.Helper()
	id := kernel.NewUUID()
	o, err := order.NewServiceOrder(id, order.NewOrderNumber(now, id), clientID, nil,
		order.ServiceInstallation, description, address, now)
	require.NoError(t, err)
	return o
}

func newClient(t *testing.T, phone, email string, state client.AccountState) *client.Client {
	t.Helper()
	c, err := client.NewClient(kernel.NewUUID(), "Ana Torres", phone, email, state)
	require.NoError(t, err)
	return c
}

func TestOrderValidationPolicy_Validate(t *testing.T) {
	policy := services.NewOrderValidationPolicy()

	t.Run("should validate order meeting every check", func(t *testing.T) {
		c := newClient(t, "3001234567", "ana@example.com", client.AccountActive)
		o := newOrder(t, c.ID(), "Install fiber modem in 2nd floor", "Calle 10 # 4-21")

		err := policy.Validate(o, c)

		require.NoError(t, err)
		assert.Equal(t, order.Validated, o.Status())
	})

	t.Run("should report all four checks for an inactive client", func(t *testing.T) {
		c := newClient(t, "", "", client.AccountInactive)
		o := newOrder(t, c.ID(), "too short", "")

		err := policy.Validate(o, c)

		var validation *errs.ValidationError
		require.True(t, errors.As(err, &validation))
		assert.Len(t, validation.Checks, 4)
		assert.True(t, validation.Has(services.CheckClientInactive))
		assert.True(t, validation.Has(services.CheckDescriptionShort))
		assert.True(t, validation.Has(services.CheckAddressMissing))
		assert.True(t, validation.Has(services.CheckContactDataMissing))
		assert.Equal(t, order.Created, o.Status())
	})

	t.Run("should report only the inactive account when everything else is fine", func(t *testing.T) {
		c := newClient(t, "3001234567", "ana@example.com", client.AccountInactive)
		o := newOrder(t, c.ID(), "Install fiber modem in 2nd floor", "Calle 10 # 4-21")

		err := policy.Validate(o, c)

		var validation *errs.ValidationError
		require.True(t, errors.As(err, &validation))
		assert.Len(t, validation.Checks, 1)
		assert.True(t, validation.Has(services.CheckClientInactive))
	})

	t.Run("should count characters not bytes", func(t *testing.T) {
		c := newClient(t, "3001234567", "ana@example.com", client.AccountActive)
		o := newOrder(t, c.ID(), "Reparación eléctric", "Calle 10 # 4-21")

		err := policy.Validate(o, c)

		var validation *errs.ValidationError
		require.True(t, errors.As(err, &validation))
		assert.True(t, validation.Has(services.CheckDescriptionShort))

		o = newOrder(t, c.ID(), "Reparación eléctrica", "Calle 10 # 4-21")
		require.NoError(t, policy.Validate(o, c))
	})

	t.Run("should refuse an order that is not created", func(t *testing.T) {
		c := newClient(t, "3001234567", "ana@example.com", client.AccountActive)
		o := newOrder(t, c.ID(), "Install fiber modem in 2nd floor", "Calle 10 # 4-21")
		require.NoError(t, o.Approve())

		err := policy.Validate(o, c)

		require.ErrorIs(t, err, errs.ErrStateConflict)
	})
}
