package metrics_test

import (
	"testing"
	"time"

	"fieldservice/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionMetrics(t *testing.T) {
	t.Run("should count transitions by outcome", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := metrics.NewTransitionMetrics(reg)

		m.ObserveTransition("ASSIGN_TECHNICIAN", "", 20*time.Millisecond)
		m.ObserveTransition("ASSIGN_TECHNICIAN", "state_conflict", 5*time.Millisecond)

		count, err := testutil.GatherAndCount(reg, "fieldservice_transitions_total")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("should count notification rows", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := metrics.NewTransitionMetrics(reg)

		m.AddNotifications("Orden Validada", 3, 1)
		m.IncAuditFailure()

		count, err := testutil.GatherAndCount(reg, "fieldservice_notifications_total")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("should publish spool depth", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := metrics.NewTransitionMetrics(reg)

		m.SetSpoolDepth("notifications", 4)
		m.SetSpoolDepth("audit", 0)

		count, err := testutil.GatherAndCount(reg, "fieldservice_redelivery_spool_depth")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("nil recorder is a no-op", func(t *testing.T) {
		var m *metrics.TransitionMetrics

		assert.NotPanics(t, func() {
			m.ObserveTransition("CANCEL_ORDER", "", time.Second)
			m.AddNotifications("Orden Cancelada", 1, 0)
			m.IncAuditFailure()
			m.SetSpoolDepth("audit", 1)
		})
	})
}
