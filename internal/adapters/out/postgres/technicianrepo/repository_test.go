package technicianrepo_test

import (
	"context"
	"testing"

	"fieldservice/internal/adapters/out/postgres/technicianrepo"
	"fieldservice/internal/adapters/out/postgres/testdb"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/technician"
	"fieldservice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTracker struct {
	mock.Mock
}

func (m *mockTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

func TestGormTechnicianRepository(t *testing.T) {
	ctx := context.Background()
	newRepo := func(t *testing.T) *technicianrepo.GormTechnicianRepository {
		tracker := new(mockTracker)
		tracker.On("TrackAggregate", mock.Anything, mock.Anything).Return()
		return technicianrepo.NewGormTechnicianRepository(testdb.Open(t), tracker)
	}

	t.Run("should store relocation and availability", func(t *testing.T) {
		repo := newRepo(t)
		tech, err := technician.NewTechnician(kernel.NewUUID(), "Luis Pérez", kernel.ZoneNorth)
		require.NoError(t, err)
		require.NoError(t, repo.Add(ctx, tech))

		require.NoError(t, tech.Relocate(kernel.ZoneSouth))
		tech.SetAvailability(false)
		require.NoError(t, repo.Update(ctx, tech))

		loaded, err := repo.Get(ctx, tech.ID())
		require.NoError(t, err)
		assert.Equal(t, kernel.ZoneSouth, loaded.Zone())
		assert.False(t, loaded.IsActive())
	})

	t.Run("should list technicians by name", func(t *testing.T) {
		repo := newRepo(t)
		for _, name := range []string{"Zoe Ríos", "Ana Gil"} {
			tech, err := technician.NewTechnician(kernel.NewUUID(), name, kernel.ZoneCenter)
			require.NoError(t, err)
			require.NoError(t, repo.Add(ctx, tech))
		}

		all, err := repo.GetAll(ctx)

		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Ana Gil", all[0].Name())
	})

	t.Run("should report unknown technicians", func(t *testing.T) {
		repo := newRepo(t)
		tech, err := technician.NewTechnician(kernel.NewUUID(), "Nadie", kernel.ZoneNorth)
		require.NoError(t, err)

		require.ErrorIs(t, repo.Update(ctx, tech), errs.ErrObjectNotFound)
		_, err = repo.Get(ctx, tech.ID())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}
