package fixture

import (
	"context"

	fixtureservice "github.com/matchday-pool/predictor/app/modules/fixture/application"
	fixturehandlers "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/handlers"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	"github.com/matchday-pool/predictor/app/observability"
	"github.com/uptrace/bun"
)

// Module represents the fixture module.
type Module struct {
	Service  fixtureservice.Service
	Handlers *fixturehandlers.FixtureHandlers
}

// NewFixtureModule wires the fixture service over repo. Stage gates and
// match scoring come from the stage and scoring modules.
func NewFixtureModule(
	ctx context.Context,
	obs *observability.Observability,
	db *bun.DB,
	repo fixturedb.Repository,
	stages fixtureservice.StageGate,
	scorer fixtureservice.Scorer,
) *Module {
	obs.Logger.InfoContext(ctx, "fixture.NewFixtureModule initializing")

	service := fixtureservice.NewFixtureService(repo, stages, scorer, obs.Logger, obs.Metrics, obs.Tracer("fixture"), db)

	return &Module{
		Service:  service,
		Handlers: fixturehandlers.NewFixtureHandlers(service, obs.Logger),
	}
}
