package testutils

import (
	"context"
	"fmt"
	"log/slog"

	fixturemigrations "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories/migrations"
	reminderqueue "github.com/matchday-pool/predictor/app/modules/reminder/infrastructure/queue"
	ledgermigrations "github.com/matchday-pool/predictor/app/modules/scoring/infrastructure/repositories/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// runMigrations applies module migrations in dependency order, then River's
// schema so the reminder queue can be exercised against the same database.
func runMigrations(ctx context.Context, db *bun.DB, connStr string, logger *slog.Logger) error {
	modules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"fixture", fixturemigrations.Migrations},
		{"ledger", ledgermigrations.Migrations},
	}

	for _, m := range modules {
		migrator := migrate.NewMigrator(db, m.migrations,
			migrate.WithTableName("bun_migrations_"+m.name),
			migrate.WithLocksTableName("bun_migration_locks_"+m.name),
		)
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to init %s migrations: %w", m.name, err)
		}
		if _, err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", m.name, err)
		}
	}

	if _, err := reminderqueue.Migrate(ctx, connStr, logger); err != nil {
		return fmt.Errorf("failed to run river migrations: %w", err)
	}
	return nil
}
