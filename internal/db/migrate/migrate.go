// Package migrate applies the embedded goose migrations.
package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/db"
)

const (
	CommandUp     = "up"
	CommandDown   = "down"
	CommandStatus = "status"
)

// TableName is the goose version table.
const TableName = "goose_db_version"

func init() {
	goose.SetBaseFS(db.Migrations)
	goose.SetTableName(TableName)
}

// Run executes a goose command against an open database/sql handle.
func Run(ctx context.Context, sqlDB *sql.DB, command string, logger zerolog.Logger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	switch command {
	case CommandUp:
		if err := goose.UpContext(ctx, sqlDB, db.MigrationsDir); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	case CommandDown:
		if err := goose.DownContext(ctx, sqlDB, db.MigrationsDir); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	case CommandStatus:
		if err := goose.StatusContext(ctx, sqlDB, db.MigrationsDir); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("read migration version: %w", err)
	}
	logger.Info().Str("command", command).Int64("version", version).Msg("migrations complete")
	return nil
}

// UpFromPool migrates through a database/sql view of the pgx pool.
func UpFromPool(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()
	return Run(ctx, sqlDB, CommandUp, logger)
}
