// Package testsupport provisions isolated service instances for integration
// tests. Each instance runs against a freshly created database no other test
// can observe.
package testsupport

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/mailcrate/mailcrate/internal/config"
	"github.com/mailcrate/mailcrate/internal/database"
	"github.com/mailcrate/mailcrate/internal/logging"
	"github.com/mailcrate/mailcrate/internal/server"
)

// App is one isolated running service instance.
type App struct {
	// Address is the externally reachable base URL, e.g. "http://127.0.0.1:54321".
	Address string
	// Pool is connected to this instance's private database.
	Pool *pgxpool.Pool
	// Settings is the resolved configuration with the database name already
	// overridden to the ephemeral one.
	Settings *config.Settings
}

// SpawnApp provisions a uniquely named database, migrates it, binds the
// service to an OS-assigned port and serves it in the background. No
// database teardown happens on purpose: ephemeral databases are reaped
// externally. The pool and the server itself are cleaned up with the test.
func SpawnApp(t *testing.T) *App {
	t.Helper()
	ctx := context.Background()

	configDir, err := config.FindConfigDir()
	require.NoError(t, err, "locate configuration directory")
	settings, err := config.LoadFrom(configDir)
	require.NoError(t, err, "load configuration")

	settings.Database.Name = ephemeralDatabaseName()

	maintenance, err := database.NewMaintenancePool(ctx, settings.Database)
	if err != nil {
		t.Skipf("postgres not reachable, skipping integration test: %v", err)
	}
	defer maintenance.Close()

	_, err = maintenance.Exec(ctx,
		"CREATE DATABASE "+pgx.Identifier{settings.Database.Name}.Sanitize())
	require.NoError(t, err, "create ephemeral database")

	pool, err := database.NewConnectionPool(ctx, settings.Database)
	require.NoError(t, err, "connect to ephemeral database")
	t.Cleanup(pool.Close)

	migrationsDir, err := database.FindMigrationsDir()
	require.NoError(t, err, "locate migrations directory")
	require.NoError(t, database.NewMigrationRunner(pool, migrationsDir).Run(ctx),
		"apply migrations")

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "bind test listener")

	logger := logging.New("mailcrate-test", settings.Logging.Level, io.Discard)
	srv := server.New(listener, pool, logger, config.ServerSettings{})
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("test server exited: %v", err)
		}
	}()
	t.Cleanup(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})

	return &App{
		Address:  "http://" + srv.Addr(),
		Pool:     pool,
		Settings: settings,
	}
}

func ephemeralDatabaseName() string {
	return "mailcrate_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
