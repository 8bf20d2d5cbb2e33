package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/matchday-pool/predictor/app"
	reminderqueue "github.com/matchday-pool/predictor/app/modules/reminder/infrastructure/queue"
	"github.com/matchday-pool/predictor/app/observability/logging"
	"github.com/matchday-pool/predictor/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	// Import for migrator creation
	fixturemigrations "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories/migrations"
	ledgermigrations "github.com/matchday-pool/predictor/app/modules/scoring/infrastructure/repositories/migrations"
)

// moduleMigrator pairs a module with its migrator. Order matters: the
// ledger references matches and participants.
type moduleMigrator struct {
	name     string
	migrator *migrate.Migrator
}

func newMigrators(db *bun.DB) []moduleMigrator {
	return []moduleMigrator{
		{"fixture", migrate.NewMigrator(db, fixturemigrations.Migrations,
			migrate.WithTableName("bun_migrations_fixture"),
			migrate.WithLocksTableName("bun_migration_locks_fixture"))},
		{"ledger", migrate.NewMigrator(db, ledgermigrations.Migrations,
			migrate.WithTableName("bun_migrations_ledger"),
			migrate.WithLocksTableName("bun_migration_locks_ledger"))},
	}
}

func main() {
	var (
		cfg       *config.Config
		db        *bun.DB
		migrators []moduleMigrator
	)

	cliApp := &cli.App{
		Name: "bun",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
		},
		Before: func(c *cli.Context) error {
			// Load configuration for database connection ONLY
			var err error
			cfg, err = config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			db, err = app.OpenDB(c.Context, cfg.Postgres.DSN)
			if err != nil {
				return err
			}
			migrators = newMigrators(db)
			return nil
		},
		After: func(*cli.Context) error {
			if db != nil {
				return db.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			newMultiModuleDBCommand(func() []moduleMigrator { return migrators }),
			newRiverCommand(func() *config.Config { return cfg }),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func findMigrator(migrators []moduleMigrator, name string) (*migrate.Migrator, error) {
	for _, m := range migrators {
		if m.name == name {
			return m.migrator, nil
		}
	}
	return nil, fmt.Errorf("invalid module name: %s", name)
}

func newMultiModuleDBCommand(get func() []moduleMigrator) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					for _, m := range get() {
						fmt.Printf("Initializing migrations for module: %s\n", m.name)
						if err := m.migrator.Init(c.Context); err != nil {
							return fmt.Errorf("init %s: %w", m.name, err)
						}
					}
					return nil
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					for _, m := range get() {
						if err := migrateModule(c.Context, m); err != nil {
							return err
						}
					}
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group of every module, last module first",
				Action: func(c *cli.Context) error {
					ms := slices.Clone(get())
					slices.Reverse(ms)
					for _, m := range ms {
						fmt.Printf("Rolling back migrations for module: %s\n", m.name)
						group, err := m.migrator.Rollback(c.Context)
						if err != nil {
							return fmt.Errorf("rollback %s: %w", m.name, err)
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", m.name)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", m.name, group)
						}
					}
					return nil
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					migrator, err := findMigrator(get(), c.Args().First())
					if err != nil {
						return err
					}
					name := strings.Join(c.Args().Tail(), "_")
					mf, err := migrator.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", c.Args().First(), mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:      "create_sql",
				Usage:     "create up and down SQL migrations",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					migrator, err := findMigrator(get(), c.Args().First())
					if err != nil {
						return err
					}
					name := strings.Join(c.Args().Tail(), "_")
					files, err := migrator.CreateSQLMigrations(c.Context, name)
					if err != nil {
						return err
					}
					for _, mf := range files {
						fmt.Printf("Created migration for module %s: %s (%s)\n", c.Args().First(), mf.Name, mf.Path)
					}
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					for _, m := range get() {
						ms, err := m.migrator.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations for module: %s\n", m.name)
						fmt.Printf("  %s\n", ms)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					}
					return nil
				},
			},
		},
	}
}

func migrateModule(ctx context.Context, m moduleMigrator) error {
	if err := m.migrator.Lock(ctx); err != nil {
		return fmt.Errorf("lock %s: %w", m.name, err)
	}
	defer m.migrator.Unlock(ctx) //nolint:errcheck

	fmt.Printf("Running migrations for module: %s\n", m.name)
	group, err := m.migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migrate %s: %w", m.name, err)
	}
	if group.IsZero() {
		fmt.Printf("No new migrations to run for module: %s\n", m.name)
	} else {
		fmt.Printf("Migrated module: %s to %s\n", m.name, group)
	}
	return nil
}

func newRiverCommand(get func() *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "river",
		Usage: "job queue schema",
		Subcommands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "apply River's migrations",
				Action: func(c *cli.Context) error {
					cfg := get()
					logger := logging.New(cfg.Logging.Level, "text", os.Stderr)
					n, err := reminderqueue.Migrate(c.Context, cfg.Postgres.DSN, logger)
					if err != nil {
						return err
					}
					fmt.Printf("Applied %d River migration(s)\n", n)
					return nil
				},
			},
		},
	}
}
