package queries_test

import (
	"context"
	"testing"
	"time"

	"fieldservice/internal/adapters/out/postgres"
	"fieldservice/internal/core/application/usecases/queries"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/technician"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetAllTechniciansQueryHandlerTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetAllTechniciansQueryHandler
}

func (suite *GetAllTechniciansQueryHandlerTestSuite) SetupSuite() {
	if testing.Short() {
		suite.T().Skip("integration test")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres.AutoMigrate(db))
	suite.handler = queries.NewGetAllTechniciansQueryHandler(db)
}

func (suite *GetAllTechniciansQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetAllTechniciansQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE technicians CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *GetAllTechniciansQueryHandlerTestSuite) TestHandle_EmptyDatabase_ReturnsEmptySlice() {
	result, err := suite.handler.Handle(context.Background(), queries.NewGetAllTechniciansQuery(false))

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *GetAllTechniciansQueryHandlerTestSuite) TestHandle_ReturnsTechniciansOrderedByName() {
	suite.saveTechnicians()

	result, err := suite.handler.Handle(context.Background(), queries.NewGetAllTechniciansQuery(false))

	suite.Require().NoError(err)
	suite.Require().Len(result, 3)
	suite.Equal("Carlos", result[0].Name)
	suite.Equal(kernel.ZoneNorth, result[0].Zone)
	suite.Equal("Diana", result[1].Name)
	suite.Equal("Elena", result[2].Name)
	suite.False(result[2].Active)
}

func (suite *GetAllTechniciansQueryHandlerTestSuite) TestHandle_OnlyAvailable_SkipsInactive() {
	suite.saveTechnicians()

	result, err := suite.handler.Handle(context.Background(), queries.NewGetAllTechniciansQuery(true))

	suite.Require().NoError(err)
	suite.Len(result, 2)
	for _, tech := range result {
		suite.True(tech.Active)
	}
}

// TestHandle_LegacyZoneSpelling_IsNormalized covers rows written by older
// clients with lower-case zone names.
func (suite *GetAllTechniciansQueryHandlerTestSuite) TestHandle_LegacyZoneSpelling_IsNormalized() {
	err := suite.db.Exec(`INSERT INTO technicians (id, name, zone, active) VALUES (?, ?, ?, ?)`,
		kernel.NewUUID().Bytes(), "Felipe", "zona sur", true).Error
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), queries.NewGetAllTechniciansQuery(false))

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(kernel.ZoneSouth, result[0].Zone)
}

func (suite *GetAllTechniciansQueryHandlerTestSuite) saveTechnicians() {
	repo := postgres.NewGormUnitOfWorkFactory(suite.db).Create().TechnicianRepository()
	for _, tc := range []struct {
		name   string
		zone   kernel.Zone
		active bool
	}{
		{"Diana", kernel.ZoneSouth, true},
		{"Carlos", kernel.ZoneNorth, true},
		{"Elena", kernel.ZoneCenter, false},
	} {
		tech, err := technician.RestoreTechnician(kernel.NewUUID(), tc.name, tc.zone, tc.active)
		suite.Require().NoError(err)
		suite.Require().NoError(repo.Add(context.Background(), tech))
	}
}

func TestGetAllTechniciansQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetAllTechniciansQueryHandlerTestSuite))
}
