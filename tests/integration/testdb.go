// Package integration provides integration testing utilities for the
// CRM backend. It uses testcontainers to spin up real PostgreSQL
// databases and runs the repository and API suites against them.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// Shared container reused by tests in this package
	sharedContainer    testcontainers.Container
	sharedContainerMu  sync.Mutex
	sharedContainerDSN string
)

// TestDB represents a test database connection
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Container testcontainers.Container
	DSN       string
	t         *testing.T
}

// NewTestDB creates a fresh PostgreSQL container with migrations
// applied, giving the test complete isolation. Skips in short mode.
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

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	db, sqlDB := connectToDatabase(t, dsn)
	runMigrations(t, sqlDB)

	testDB := &TestDB{
		DB:        db,
		SqlDB:     sqlDB,
		Container: container,
		DSN:       dsn,
		t:         t,
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// NewSharedTestDB returns a connection to a shared PostgreSQL container.
// Cheaper than NewTestDB for tests that clean up after themselves; call
// CleanTables when a test needs an empty schema. Skips in short mode.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	ctx := context.Background()

	if sharedContainer == nil {
		container, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("crm_shared_test"),
			tcpostgres.WithUsername("postgres"),
			tcpostgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		require.NoError(t, err, "Failed to start shared PostgreSQL container")

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err, "Failed to get connection string")

		sharedContainer = container
		sharedContainerDSN = dsn

		// Migrations run once against the shared container
		_, sqlDB := connectToDatabase(t, dsn)
		runMigrations(t, sqlDB)
		sqlDB.Close()
	}

	db, sqlDB := connectToDatabase(t, sharedContainerDSN)

	testDB := &TestDB{
		DB:        db,
		SqlDB:     sqlDB,
		Container: sharedContainer,
		DSN:       sharedContainerDSN,
		t:         t,
	}

	// Only the connection is cleaned up here; the shared container
	// lives until CleanupSharedContainer.
	t.Cleanup(func() {
		if testDB.SqlDB != nil {
			testDB.SqlDB.Close()
		}
	})

	return testDB
}

// Close closes the database connection and terminates the container
func (tdb *TestDB) Close() {
	ctx := context.Background()

	if tdb.SqlDB != nil {
		tdb.SqlDB.Close()
	}

	if tdb.Container != nil && tdb.Container != sharedContainer {
		if err := tdb.Container.Terminate(ctx); err != nil {
			tdb.t.Logf("Warning: Failed to terminate container: %v", err)
		}
	}
}

// CleanTables truncates all tables except the migration bookkeeping
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to get table names")

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			tdb.t.Logf("Warning: Failed to truncate table %s: %v", table, err)
		}
	}
}

// WithTransaction runs fn inside a transaction that is always rolled
// back, for tests that must not leave state behind.
func (tdb *TestDB) WithTransaction(fn func(tx *gorm.DB)) {
	tdb.t.Helper()

	tx := tdb.DB.Begin()
	require.NoError(tdb.t, tx.Error, "Failed to begin transaction")

	defer func() {
		tx.Rollback()
	}()

	fn(tx)
}

func connectToDatabase(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig)
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err, "Failed to get underlying SQL DB")

	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, sqlDB
}

func runMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	migrationsPath := findMigrationsPath()
	require.NotEmpty(t, migrationsPath, "Could not find migrations directory")

	driver, err := mpg.WithInstance(sqlDB, &mpg.Config{})
	require.NoError(t, err, "Failed to create migration driver")

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+migrationsPath,
		"postgres",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to run migrations")
	}
}

// findMigrationsPath walks up from this file until it finds the
// migrations directory at the repository root.
func findMigrationsPath() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}

	dir := filepath.Dir(filename)
	for i := 0; i < 5; i++ {
		migrationsPath := filepath.Join(dir, "migrations")
		if _, err := os.Stat(migrationsPath); err == nil {
			return migrationsPath
		}
		dir = filepath.Dir(dir)
	}

	if wd, err := os.Getwd(); err == nil {
		paths := []string{
			filepath.Join(wd, "migrations"),
			filepath.Join(wd, "..", "migrations"),
			filepath.Join(wd, "..", "..", "migrations"),
		}
		for _, p := range paths {
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}

	return ""
}

// CleanupSharedContainer terminates the shared container. Call from
// TestMain when the package uses NewSharedTestDB.
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		sharedContainer.Terminate(ctx)
		sharedContainer = nil
		sharedContainerDSN = ""
	}
}
