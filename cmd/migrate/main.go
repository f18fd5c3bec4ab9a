package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/giftcard-service/internal/config"
	"github.com/spec-kit/giftcard-service/internal/observability"
	"github.com/spec-kit/giftcard-service/internal/persistence"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the giftcard-service database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		migrationCmd(persistence.MigrateUp, "Apply all pending migrations"),
		migrationCmd(persistence.MigrateDown, "Roll back the most recent migration"),
		migrationCmd(persistence.MigrateStatus, "Print the status of every migration"),
		migrationCmd(persistence.MigrateReset, "Roll back all migrations"),
	)
	return root
}

func migrationCmd(command persistence.MigrationCommand, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(command),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigration(cmd.Context(), command)
		},
	}
}

func runMigration(ctx context.Context, command persistence.MigrationCommand) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	if err := persistence.Migrate(ctx, pg.PoolHandle(), command, logger); err != nil {
		logger.Error("migration failed", zap.String("command", string(command)), zap.Error(err))
		return err
	}
	return nil
}
