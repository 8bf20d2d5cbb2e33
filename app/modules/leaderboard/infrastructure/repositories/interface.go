package leaderboarddb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository reads aggregates from the points ledger. Every query filters
// to matches of one stage and to prediction rows; admins never appear.
type Repository interface {
	SumUserPoints(ctx context.Context, db bun.IDB, stageID, userID uuid.UUID) (float64, error)
	ListStageTotals(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]TotalRow, error)
	ListStageHits(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]HitsRow, error)
	ListUserAwards(ctx context.Context, db bun.IDB, stageID, userID uuid.UUID) ([]AwardRow, error)
}
