//go:build integration

package catalog_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"ProductStore/internal/catalog"
)

type PostgresStoreSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sql.DB
}

func TestPostgresStore(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()

	var err error
	s.container, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("products"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2*time.Minute),
		),
	)
	require.NoError(s.T(), err, "start postgres container")

	dsn, err := s.container.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err)

	s.db, err = catalog.OpenPostgres(s.ctx, dsn)
	require.NoError(s.T(), err)

	require.NoError(s.T(), catalog.Migrate(s.db))
	require.NoError(s.T(), catalog.Migrate(s.db), "second run is a no-op")
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresStoreSuite) TestContract() {
	runStoreContract(s.T(), func(t *testing.T) catalog.Store {
		_, err := s.db.ExecContext(s.ctx, "TRUNCATE TABLE products RESTART IDENTITY")
		require.NoError(t, err)
		return catalog.NewPostgresStore(s.db)
	})
}

func (s *PostgresStoreSuite) TestPing() {
	require.NoError(s.T(), catalog.NewPostgresStore(s.db).Ping(s.ctx))
}
