package scoring

import (
	"context"

	"github.com/matchday-pool/predictor/app/eventbus"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	scoringservice "github.com/matchday-pool/predictor/app/modules/scoring/application"
	scoringhandlers "github.com/matchday-pool/predictor/app/modules/scoring/infrastructure/handlers"
	ledgerdb "github.com/matchday-pool/predictor/app/modules/scoring/infrastructure/repositories"
	"github.com/matchday-pool/predictor/app/observability"
	"github.com/uptrace/bun"
)

// Module represents the scoring module.
type Module struct {
	Service  scoringservice.Service
	Handlers *scoringhandlers.ScoringHandlers
}

// NewScoringModule wires the orchestrator over the ledger repository.
func NewScoringModule(
	ctx context.Context,
	obs *observability.Observability,
	db *bun.DB,
	fixtures fixturedb.Repository,
	events eventbus.Publisher,
	rescoreConcurrency int,
) *Module {
	obs.Logger.InfoContext(ctx, "scoring.NewScoringModule initializing")

	ledger := ledgerdb.NewRepository(db)
	service := scoringservice.NewScoringService(fixtures, ledger, events, obs.Logger, obs.Metrics, obs.Tracer("scoring"), db, rescoreConcurrency)

	return &Module{
		Service:  service,
		Handlers: scoringhandlers.NewScoringHandlers(service, obs.Logger),
	}
}
