package leaderboard

import (
	"context"

	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	leaderboardservice "github.com/matchday-pool/predictor/app/modules/leaderboard/application"
	leaderboardhandlers "github.com/matchday-pool/predictor/app/modules/leaderboard/infrastructure/handlers"
	leaderboarddb "github.com/matchday-pool/predictor/app/modules/leaderboard/infrastructure/repositories"
	"github.com/matchday-pool/predictor/app/observability"
	"github.com/uptrace/bun"
)

// Module represents the leaderboard module.
type Module struct {
	Service  leaderboardservice.Service
	Handlers *leaderboardhandlers.LeaderboardHandlers
}

func NewLeaderboardModule(
	ctx context.Context,
	obs *observability.Observability,
	db *bun.DB,
	fixtures fixturedb.Repository,
) *Module {
	obs.Logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule initializing")

	repo := leaderboarddb.NewRepository(db)
	service := leaderboardservice.NewLeaderboardService(repo, fixtures, obs.Logger, obs.Metrics, obs.Tracer("leaderboard"))

	return &Module{
		Service:  service,
		Handlers: leaderboardhandlers.NewLeaderboardHandlers(service, obs.Logger),
	}
}
