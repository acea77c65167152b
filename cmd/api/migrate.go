package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/spec-kit/support-desk/internal/persistence"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply, roll back or inspect the embedded database migrations.`,
	}

	cmd.AddCommand(
		newMigrationSubcommand("up", "Run all pending migrations", persistence.MigrateUp),
		newMigrationSubcommand("down", "Roll back the latest migration", persistence.MigrateDown),
		newMigrationSubcommand("status", "Show migration status", persistence.MigrateStatus),
	)
	return cmd
}

func newMigrationSubcommand(use, short string, command persistence.MigrationCommand) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			if rt.pg.PoolHandle() == nil {
				return errors.New("POSTGRES_DSN is required for migrations")
			}
			return persistence.Migrate(ctx, rt.pg.PoolHandle(), rt.logger, command)
		},
	}
}
