package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/wajir-county/ict-helpdesk/internal/persistence"
)

var (
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations",
		RunE:  runMigrate,
	}
	migrateRollback bool
)

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Postgres.DSN == "" {
		return errors.New("POSTGRES_DSN is required to migrate")
	}
	pg, err := persistence.NewPostgres(cmd.Context(), cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer pg.Close()

	if migrateRollback {
		return persistence.RollbackMigration(cmd.Context(), pg.PoolHandle(), logger)
	}
	return persistence.RunMigrations(cmd.Context(), pg.PoolHandle(), logger)
}
