package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/matchday-pool/predictor/app/eventbus"
	"github.com/matchday-pool/predictor/app/httpapi"
	"github.com/matchday-pool/predictor/app/modules/fixture"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	"github.com/matchday-pool/predictor/app/modules/leaderboard"
	"github.com/matchday-pool/predictor/app/modules/reminder"
	"github.com/matchday-pool/predictor/app/modules/scoring"
	"github.com/matchday-pool/predictor/app/modules/stage"
	"github.com/matchday-pool/predictor/app/observability"
	"github.com/matchday-pool/predictor/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// App holds every module and the infrastructure they share.
type App struct {
	Config *config.Config
	Obs    *observability.Observability
	DB     *bun.DB
	Events *eventbus.EventBus

	Fixture     *fixture.Module
	Stage       *stage.Module
	Scoring     *scoring.Module
	Leaderboard *leaderboard.Module
	Reminder    *reminder.Module

	server *http.Server
}

// New connects to Postgres and the event transport and wires the modules.
func New(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*App, error) {
	db, err := OpenDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}

	events, err := newEventBus(cfg, obs)
	if err != nil {
		db.Close()
		return nil, err
	}

	app := &App{Config: cfg, Obs: obs, DB: db, Events: events}
	if err := app.initializeModules(ctx); err != nil {
		app.Close()
		return nil, err
	}

	router := httpapi.NewRouter(httpapi.RouterConfig{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		RateLimit:      cfg.HTTP.RateLimit,
		RateBurst:      cfg.HTTP.RateBurst,
	}, obs.Logger, obs.Gatherer(),
		app.Fixture.Handlers,
		app.Stage.Handlers,
		app.Scoring.Handlers,
		app.Leaderboard.Handlers,
	)
	app.server = &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return app, nil
}

// initializeModules builds the modules in dependency order: the fixture
// store backs everything, stage gates and scoring feed the fixture service.
func (app *App) initializeModules(ctx context.Context) error {
	fixtures := fixturedb.NewRepository(app.DB)

	app.Stage = stage.NewStageModule(ctx, app.Obs, app.DB, fixtures, app.Events)
	app.Scoring = scoring.NewScoringModule(ctx, app.Obs, app.DB, fixtures, app.Events, app.Config.Scoring.RescoreConcurrency)
	app.Fixture = fixture.NewFixtureModule(ctx, app.Obs, app.DB, fixtures, app.Stage.Service, app.Scoring.Service)
	app.Leaderboard = leaderboard.NewLeaderboardModule(ctx, app.Obs, app.DB, fixtures)

	rem, err := reminder.NewReminderModule(ctx, app.Obs, app.Config, fixtures, app.Events)
	if err != nil {
		return err
	}
	app.Reminder = rem
	return nil
}

// OpenDB opens a bun handle over pgdriver and checks the connection.
func OpenDB(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

// newEventBus publishes over NATS when a URL is configured and in-process
// otherwise.
func newEventBus(cfg *config.Config, obs *observability.Observability) (*eventbus.EventBus, error) {
	if cfg.NATS.URL == "" {
		obs.Logger.Info("No NATS URL configured; events stay in-process")
		bus, _ := eventbus.NewInProcess(obs.Logger)
		return bus, nil
	}
	pub, err := eventbus.NewNatsPublisher(cfg.NATS.URL, watermill.NewSlogLogger(obs.Logger))
	if err != nil {
		return nil, err
	}
	return eventbus.New(pub, obs.Logger), nil
}

// Close releases the event transport and the database.
func (app *App) Close() {
	if app.Events != nil {
		if err := app.Events.Close(); err != nil {
			app.Obs.Logger.Error("Error closing event bus", "error", err)
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Obs.Logger.Error("Error closing database", "error", err)
		}
	}
}
