package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matchday-pool/predictor/app/eventbus"
	"github.com/matchday-pool/predictor/app/modules/fixture"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	"github.com/matchday-pool/predictor/app/modules/leaderboard"
	"github.com/matchday-pool/predictor/app/modules/scoring"
	"github.com/matchday-pool/predictor/app/modules/stage"
	"github.com/matchday-pool/predictor/app/observability"
	"github.com/matchday-pool/predictor/config"
	"github.com/matchday-pool/predictor/integration_tests/containers"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// appTables are truncated between tests, in no particular order.
var appTables = []string{
	"points_ledger",
	"predictions",
	"matches",
	"tours",
	"current_stage",
	"stages",
	"participants",
	"teams",
}

// TestEnvironment holds a migrated Postgres container shared by a test
// package, plus the modules wired the way the app wires them.
type TestEnvironment struct {
	PgContainer *postgres.PostgresContainer
	ConnStr     string
	DB          *bun.DB
	Config      *config.Config
	Obs         *observability.Observability
	Events      *FakeEventRecorder

	Fixture     *fixture.Module
	Stage       *stage.Module
	Scoring     *scoring.Module
	Leaderboard *leaderboard.Module
}

var (
	globalEnv     *TestEnvironment
	globalEnvErr  error
	globalEnvOnce sync.Once
)

// GetOrCreateTestEnv returns the package-wide environment, starting it on
// first use. Tests are skipped under -short.
func GetOrCreateTestEnv(t *testing.T) *TestEnvironment {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	globalEnvOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		globalEnv, globalEnvErr = NewTestEnvironment(ctx)
	})
	if globalEnvErr != nil {
		t.Fatalf("failed to set up test environment: %v", globalEnvErr)
	}
	if err := globalEnv.Reset(context.Background()); err != nil {
		t.Fatalf("failed to reset test environment: %v", err)
	}
	return globalEnv
}

// ShutdownTestEnv terminates the shared environment, if one was started.
// Call it from TestMain after m.Run.
func ShutdownTestEnv(ctx context.Context) {
	if globalEnv != nil {
		globalEnv.Close(ctx)
	}
}

// NewTestEnvironment starts Postgres, applies every migration and wires the
// modules.
func NewTestEnvironment(ctx context.Context) (*TestEnvironment, error) {
	pgContainer, connStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return nil, err
	}

	env := &TestEnvironment{
		PgContainer: pgContainer,
		ConnStr:     connStr,
		Events:      NewFakeEventRecorder(),
	}

	sqldb, err := sql.Open("pgx", connStr)
	if err != nil {
		env.Close(ctx)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	env.DB = bun.NewDB(sqldb, pgdialect.New())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := runMigrations(ctx, env.DB, connStr, logger); err != nil {
		env.Close(ctx)
		return nil, err
	}

	cfg := config.Default()
	cfg.Postgres.DSN = connStr
	cfg.Observability.MetricsEnabled = false
	cfg.Logging.Level = "error"
	env.Config = cfg
	env.Obs = observability.New(cfg, io.Discard)

	env.wireModules(ctx)
	return env, nil
}

func (env *TestEnvironment) wireModules(ctx context.Context) {
	fixtures := fixturedb.NewRepository(env.DB)
	var events eventbus.Publisher = env.Events

	env.Stage = stage.NewStageModule(ctx, env.Obs, env.DB, fixtures, events)
	env.Scoring = scoring.NewScoringModule(ctx, env.Obs, env.DB, fixtures, events, env.Config.Scoring.RescoreConcurrency)
	env.Fixture = fixture.NewFixtureModule(ctx, env.Obs, env.DB, fixtures, env.Stage.Service, env.Scoring.Service)
	env.Leaderboard = leaderboard.NewLeaderboardModule(ctx, env.Obs, env.DB, fixtures)
}

// Reset clears every application table and the recorded events.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(appTables, ", "))
	if _, err := env.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	env.Events.Clear()
	return nil
}

func (env *TestEnvironment) Close(ctx context.Context) {
	if env.DB != nil {
		_ = env.DB.Close()
	}
	if env.PgContainer != nil {
		_ = env.PgContainer.Terminate(ctx)
	}
}
