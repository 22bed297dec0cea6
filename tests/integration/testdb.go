//go:build integration

// Package integration runs the CRM stack against a real PostgreSQL started
// with testcontainers. Run with: go test -tags integration ./tests/integration/...
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/infrastructure/migration"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TestDB is a migrated database in its own container
type TestDB struct {
	DB       *gorm.DB
	SqlDB    *sql.DB
	Migrator *migration.Migrator
	t        *testing.T
}

// NewTestDB starts PostgreSQL, applies the embedded migrations and
// registers cleanup of both
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("crm_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logLevel := "silent"
	if os.Getenv("TEST_DB_DEBUG") != "" {
		logLevel = "info"
	}
	database, err := persistence.Open(gormpostgres.Open(dsn), persistence.Options{LogLevel: logLevel})
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)

	m, err := migration.New(sqlDB, migration.Source{FS: migrations.FS}, nil)
	require.NoError(t, err)
	require.NoError(t, m.Up(), "Failed to run migrations")

	t.Cleanup(func() { _ = sqlDB.Close() })

	return &TestDB{DB: database.DB, SqlDB: sqlDB, Migrator: m, t: t}
}

// CreateTenant stores an active tenant and returns it
func (tdb *TestDB) CreateTenant(slug string) *identity.Tenant {
	tdb.t.Helper()

	tenant, err := identity.NewTenant(fmt.Sprintf("Tenant %s", slug), slug, slug+"@example.com", identity.PlanStarter)
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormTenantRepository(tdb.DB).Save(context.Background(), tenant))
	return tenant
}

// TenantUser returns a tenant user actor holding every permission
func TenantUser(tenantID uuid.UUID) identity.Actor {
	return identity.NewActor(uuid.New(), &tenantID, identity.UserTypeTenantUser, "*")
}
