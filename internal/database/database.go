// Package database establishes connections to the relational store.
//
// Postgres is the primary backend: a pgx connection pool with query
// tracing/logging and optional New Relic instrumentation. SQLite, accessed
// through sqlx, serves single-file deployments and tests.
package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/deppfellow/customers-api/internal/config"
	loggerConfig "github.com/deppfellow/customers-api/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/jmoiron/sqlx"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"

	// Registers the "sqlite3" driver with database/sql.
	_ "github.com/mattn/go-sqlite3"
)

// Database is the process-wide store handle. Exactly one of Pool (postgres)
// or SQL (sqlite) is set, according to Driver.
type Database struct {
	Driver string
	Pool   *pgxpool.Pool
	SQL    *sqlx.DB
	log    *zerolog.Logger
}

// multiTracer fans pgx query events out to several tracers, since pgx only
// has a single Tracer slot.
type multiTracer struct {
	tracers []pgx.QueryTracer
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		ctx = tracer.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		tracer.TraceQueryEnd(ctx, conn, data)
	}
}

type queryStartKey struct{}

// slowQueryTracer warns about statements slower than threshold.
type slowQueryTracer struct {
	threshold time.Duration
	log       *zerolog.Logger
}

func (t *slowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{at: time.Now(), sql: data.SQL})
}

func (t *slowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	if elapsed := time.Since(start.at); elapsed > t.threshold {
		t.log.Warn().
			Dur("duration", elapsed).
			Dur("threshold", t.threshold).
			Str("sql", start.sql).
			Msg("slow query")
	}
}

type queryStart struct {
	at  time.Time
	sql string
}

// DatabasePingTimeout is the number of seconds to wait for the startup ping.
const DatabasePingTimeout = 10

// New opens the store selected by cfg.Database.Driver and pings it.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		return NewSQLite(cfg, logger)
	default:
		return NewPostgres(cfg, logger, loggerService)
	}
}

// PostgresDSN returns cfg.Database.URL, or a postgres URL assembled from
// the individual connection fields when no URL is set.
func PostgresDSN(cfg *config.Config) string {
	if cfg.Database.URL != "" {
		return cfg.Database.URL
	}

	// JoinHostPort handles IPv6 brackets; the password is escaped so
	// characters like '@' or ':' do not break the URL.
	hostPort := net.JoinHostPort(cfg.Database.Host, strconv.Itoa(cfg.Database.Port))
	encodedPassword := url.QueryEscape(cfg.Database.Password)

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		cfg.Database.User,
		encodedPassword,
		hostPort,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

// NewPostgres creates a pgx connection pool with instrumentation.
//
// Behavior:
//   - Parse the DSN and apply pool sizing from config
//   - Attach the New Relic tracer if available
//   - Attach the slow query tracer
//   - In local env, attach the SQL tracelogger
//   - Create the pool, ping it, and return the Database
func NewPostgres(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(PostgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pgxPoolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	pgxPoolConfig.MinConns = int32(min(cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns))
	pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second

	var tracers []pgx.QueryTracer

	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	if threshold := cfg.Observability.Logging.SlowQueryThreshold; threshold > 0 {
		tracers = append(tracers, &slowQueryTracer{threshold: threshold, log: logger})
	}

	// Statement logging is very noisy, so it is limited to local env.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)

		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: tracelog.LogLevel(loggerConfig.GetPgxTraceLogLevel(globalLevel)),
		})
	}

	switch len(tracers) {
	case 0:
	case 1:
		pgxPoolConfig.ConnConfig.Tracer = tracers[0]
	default:
		pgxPoolConfig.ConnConfig.Tracer = &multiTracer{tracers: tracers}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	database := &Database{
		Driver: config.DriverPostgres,
		Pool:   pool,
		log:    logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("driver", database.Driver).Msg("connected to the database")

	return database, nil
}

// NewSQLite opens the sqlite database at cfg.Database.URL through sqlx.
//
// The handle is limited to one connection: sqlite serializes writers anyway,
// and an in-memory database only lives as long as its connection.
func NewSQLite(cfg *config.Config, logger *zerolog.Logger) (*Database, error) {
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("sqlite driver requires database.url")
	}

	db, err := sqlx.Open("sqlite3", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &Database{
		Driver: config.DriverSQLite,
		SQL:    db,
		log:    logger,
	}

	logger.Info().Str("driver", database.Driver).Msg("connected to the database")

	return database, nil
}

// Ping checks connectivity of whichever backend is open.
func (db *Database) Ping(ctx context.Context) error {
	if db.Pool != nil {
		return db.Pool.Ping(ctx)
	}
	if db.SQL != nil {
		return db.SQL.PingContext(ctx)
	}
	return fmt.Errorf("database is not initialized")
}

// Close releases the pool or connection.
func (db *Database) Close() error {
	db.log.Info().Str("driver", db.Driver).Msg("closing database connection pool")

	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.SQL != nil {
		return db.SQL.Close()
	}
	return nil
}
