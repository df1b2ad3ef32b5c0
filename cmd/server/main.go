// Package main is the entry point for the mailcrate service.
package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mailcrate/mailcrate/internal/config"
	"github.com/mailcrate/mailcrate/internal/database"
	"github.com/mailcrate/mailcrate/internal/logging"
	"github.com/mailcrate/mailcrate/internal/server"
)

const serviceName = "mailcrate"

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: load configuration: %v", err)
	}

	logger := logging.New(serviceName, logging.LevelFromEnv(settings.Logging.Level), os.Stdout)
	logging.InstallGlobal(logger)

	logger.Info("configuration loaded",
		"server_host", settings.Server.Host,
		"server_port", settings.Server.Port,
		"db_host", settings.Database.Host,
		"db_port", settings.Database.Port,
		"db_name", settings.Database.Name,
		"log_level", settings.Logging.Level,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewConnectionPool(ctx, settings.Database)
	if err != nil {
		logger.WithError(err).Error("database connection failed")
		log.Fatalf("FATAL: connect to database: %v", err)
	}
	defer pool.Close()

	migrationsDir, err := database.FindMigrationsDir()
	if err != nil {
		log.Fatalf("FATAL: locate migrations: %v", err)
	}
	if err := database.NewMigrationRunner(pool, migrationsDir).Run(ctx); err != nil {
		logger.WithError(err).Error("migrations failed")
		log.Fatalf("FATAL: run migrations: %v", err)
	}

	listener, err := net.Listen("tcp", settings.Server.Address())
	if err != nil {
		log.Fatalf("FATAL: bind %s: %v", settings.Server.Address(), err)
	}

	srv := server.New(listener, pool, logger, settings.Server)
	go func() {
		logger.Info("server listening", "address", srv.Addr())
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server failed")
			log.Fatalf("FATAL: serve: %v", err)
		}
	}()

	waitForShutdown(srv, logger)
}

// waitForShutdown blocks until SIGINT/SIGTERM, then drains the server.
func waitForShutdown(srv *server.Server, logger *logging.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logger.Info("shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutdown incomplete")
		return
	}
	logger.Info("shutdown complete")
}
