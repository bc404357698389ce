package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/customers-api/internal/config"
	"github.com/deppfellow/customers-api/internal/database"
	"github.com/deppfellow/customers-api/internal/handler"
	"github.com/deppfellow/customers-api/internal/logger"
	"github.com/deppfellow/customers-api/internal/repository"
	"github.com/deppfellow/customers-api/internal/router"
	"github.com/deppfellow/customers-api/internal/server"
	"github.com/deppfellow/customers-api/internal/service"
)

const DefaultContextTimeout = 30

func main() {
	os.Exit(run())
}

// run wires and serves the application and returns the process exit code.
// Deferred cleanup runs on every path, including a failed listen.
func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		return 1
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		return 1
	}

	if err := database.Migrate(context.Background(), &log, srv.DB, cfg); err != nil {
		log.Error().Err(err).Msg("failed to migrate database")
		_ = srv.DB.Close()
		return 1
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewServices(srv, repos)
	if err != nil {
		log.Error().Err(err).Msg("could not create services")
		_ = srv.DB.Close()
		return 1
	}

	handlers := handler.NewHandlers(srv, services)

	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("failed to start server")
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return 1
	}

	log.Info().Msg("server exited properly")
	return exitCode
}
