package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/deppfellow/customers-api/internal/config"
	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

// Postgres migrations are embedded so the binary carries its schema.
//
//go:embed migrations/*.sql
var migrations embed.FS

//go:embed schema/sqlite.sql
var sqliteSchema string

// Migrate brings the schema of db up to date.
//
// Postgres runs the tern migrations over a dedicated connection, recording
// the version in schema_version. SQLite applies the idempotent embedded
// schema on db's own connection, which keeps in-memory databases usable.
func Migrate(ctx context.Context, logger *zerolog.Logger, db *Database, cfg *config.Config) error {
	if db.Driver == config.DriverSQLite {
		return migrateSQLite(ctx, logger, db)
	}
	return migratePostgres(ctx, logger, cfg)
}

func migrateSQLite(ctx context.Context, logger *zerolog.Logger, db *Database) error {
	if _, err := db.SQL.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("applying sqlite schema: %w", err)
	}
	logger.Info().Msg("sqlite schema up to date")
	return nil
}

func migratePostgres(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	conn, err := pgx.Connect(ctx, PostgresDSN(cfg))
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, "schema_version")
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return err
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}
