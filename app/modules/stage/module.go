package stage

import (
	"context"

	"github.com/matchday-pool/predictor/app/eventbus"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	stageservice "github.com/matchday-pool/predictor/app/modules/stage/application"
	stagehandlers "github.com/matchday-pool/predictor/app/modules/stage/infrastructure/handlers"
	"github.com/matchday-pool/predictor/app/observability"
	"github.com/uptrace/bun"
)

// Module represents the stage lifecycle module.
type Module struct {
	Service  stageservice.Service
	Handlers *stagehandlers.StageHandlers
}

// NewStageModule wires the lifecycle over the stage rows of the fixture store.
func NewStageModule(
	ctx context.Context,
	obs *observability.Observability,
	db *bun.DB,
	fixtures fixturedb.Repository,
	events eventbus.Publisher,
) *Module {
	obs.Logger.InfoContext(ctx, "stage.NewStageModule initializing")

	service := stageservice.NewStageService(fixtures, events, obs.Logger, obs.Metrics, obs.Tracer("stage"), db)

	return &Module{
		Service:  service,
		Handlers: stagehandlers.NewStageHandlers(service, obs.Logger),
	}
}
