package guard_test

import (
	"errors"
	"testing"
	"time"

	"fieldservice/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("entity not constructed")

		err := g.Validate(expected)

		require.Error(t, err)
		assert.Equal(t, expected, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

func TestConstructorGuard_EmbeddedInValueObject(t *testing.T) {
	type visitSlot struct {
		at    time.Time
		guard guard.ConstructorGuard
	}

	errSlotNotConstructed := errors.New("visit slot must be created via newVisitSlot")

	newVisitSlot := func(at time.Time) (visitSlot, error) {
		if at.IsZero() {
			return visitSlot{}, errors.New("slot time is required")
		}
		return visitSlot{at: at, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("slot_built_by_constructor_is_valid", func(t *testing.T) {
		slot, err := newVisitSlot(time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC))

		require.NoError(t, err)
		require.NoError(t, slot.guard.Validate(errSlotNotConstructed))
	})

	t.Run("zero_value_slot_fails", func(t *testing.T) {
		var slot visitSlot

		assert.Equal(t, errSlotNotConstructed, slot.guard.Validate(errSlotNotConstructed))
	})

	t.Run("constructor_rejects_zero_time", func(t *testing.T) {
		_, err := newVisitSlot(time.Time{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "slot time is required")
	})
}
