package persistence

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationCommand is a goose command supported by the migrate entrypoints.
type MigrationCommand string

const (
	MigrateUp     MigrationCommand = "up"
	MigrateDown   MigrationCommand = "down"
	MigrateStatus MigrationCommand = "status"
	MigrateReset  MigrationCommand = "reset"
)

// RunMigrations applies every pending embedded migration.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping migrations")
		return nil
	}
	return Migrate(ctx, pool, MigrateUp, logger)
}

// Migrate executes a goose command against the embedded migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cmd MigrationCommand, logger *zap.Logger) error {
	if pool == nil {
		return errors.New("postgres pool is required")
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationFS)
	goose.SetLogger(zapGooseLogger{logger.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	logger.Info("running migrations", zap.String("command", string(cmd)))
	if err := goose.RunContext(ctx, string(cmd), db, migrationsDir); err != nil {
		return fmt.Errorf("goose %s: %w", cmd, err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.Info("migrations complete", zap.String("command", string(cmd)), zap.Int64("version", version))
	return nil
}

type zapGooseLogger struct {
	sugar *zap.SugaredLogger
}

func (l zapGooseLogger) Fatalf(format string, v ...interface{}) { l.sugar.Fatalf(format, v...) }
func (l zapGooseLogger) Printf(format string, v ...interface{}) { l.sugar.Infof(format, v...) }
