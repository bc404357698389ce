// Package testutil builds fully wired servers for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/deppfellow/customers-api/internal/config"
	"github.com/deppfellow/customers-api/internal/database"
	"github.com/deppfellow/customers-api/internal/logger"
	"github.com/deppfellow/customers-api/internal/server"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// NewTestConfig returns a config for a private in-memory sqlite database.
func NewTestConfig() *config.Config {
	return &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        5,
			WriteTimeout:       5,
			IdleTimeout:        5,
			CORSAllowedOrigins: []string{"*"},
			RateLimit:          1000,
		},
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			URL:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		},
		Observability: config.DefaultObservabilityConfig(),
	}
}

// NewTestServer opens and migrates a fresh sqlite database and returns a
// server around it. The database is closed when the test ends.
func NewTestServer(t *testing.T) *server.Server {
	t.Helper()

	cfg := NewTestConfig()
	log := zerolog.Nop()

	srv, err := server.New(cfg, &log, logger.NewLoggerService(cfg.Observability))
	require.NoError(t, err)

	require.NoError(t, database.Migrate(context.Background(), &log, srv.DB, cfg))

	t.Cleanup(func() {
		_ = srv.DB.Close()
	})

	return srv
}
