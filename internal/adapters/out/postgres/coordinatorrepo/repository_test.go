package coordinatorrepo_test

import (
	"context"
	"testing"

	"fieldservice/internal/adapters/out/postgres/coordinatorrepo"
	"fieldservice/internal/adapters/out/postgres/testdb"
	"fieldservice/internal/core/domain/model/coordinator"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCoordinatorRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("should list only active coordinators", func(t *testing.T) {
		repo := coordinatorrepo.NewGormCoordinatorRepository(testdb.Open(t))
		north, err := coordinator.NewCoordinator(kernel.NewUUID(), "Beatriz Norte", kernel.ZoneNorth, true)
		require.NoError(t, err)
		floating, err := coordinator.NewCoordinator(kernel.NewUUID(), "Andrés Sin Zona", "", true)
		require.NoError(t, err)
		retired, err := coordinator.NewCoordinator(kernel.NewUUID(), "Carla Retirada", kernel.ZoneSouth, false)
		require.NoError(t, err)
		for _, c := range []*coordinator.Coordinator{north, floating, retired} {
			require.NoError(t, repo.Add(ctx, c))
		}

		active, err := repo.ListActive(ctx)

		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, "Andrés Sin Zona", active[0].Name())
		assert.Empty(t, active[0].Zone())
		assert.True(t, active[1].Supervises(kernel.ZoneNorth))
	})

	t.Run("should report unknown coordinators", func(t *testing.T) {
		repo := coordinatorrepo.NewGormCoordinatorRepository(testdb.Open(t))

		_, err := repo.Get(ctx, kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}
