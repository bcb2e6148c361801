package main

import (
	"context"
	"database/sql"
	root "linkvault"
	"linkvault/internal/config"
	"linkvault/pkg/logger"

	"github.com/pressly/goose/v3"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateSchema applies the embedded bookmark migrations.
func migrateSchema(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(root.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, "migrations")
}

// migrateQueue brings the River tables to the latest version and returns the
// version it started from.
func migrateQueue(ctx context.Context, db *sql.DB) (int, int, error) {
	migrator, err := rivermigrate.New(riverdatabasesql.New(db), nil)
	if err != nil {
		return 0, 0, err
	}

	versions := migrator.AllVersions()
	latest := versions[len(versions)-1].Version
	current := 0
	existing, err := migrator.ExistingVersions(ctx)
	if err != nil {
		return 0, 0, err
	}
	if len(existing) > 0 {
		current = existing[len(existing)-1].Version
	}
	if latest <= current {
		return current, current, nil
	}

	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{
		TargetVersion: latest,
	}); err != nil {
		return current, current, err
	}

	return current, latest, nil
}

// migrateCommand constructs the 'migrate' subcommand that brings the bookmark
// schema (goose) and the job queue tables (River) to their latest versions.
func migrateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrates database to the latest version",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			db, _ := strg.DB.(*sql.DB)
			if err := migrateSchema(ctx, db); err != nil {
				logger.Fatal(ctx, "could not migrate bookmark schema", zap.Error(err))
			}

			from, to, err := migrateQueue(ctx, db)
			if err != nil {
				logger.Fatal(ctx, "could not migrate river queue tables", zap.Error(err))
			}
			logger.Info(ctx, "database migrated", zap.Int("riverFrom", from), zap.Int("riverTo", to))
		},
	}

	return cmd
}
