package leaderboardservice

import (
	"context"

	"github.com/google/uuid"
	leaderboarddomain "github.com/matchday-pool/predictor/app/modules/leaderboard/domain"
)

// Service defines the read side over the points ledger.
type Service interface {
	GetUserTotal(ctx context.Context, stageID, userID uuid.UUID) (UserTotal, error)
	GetLeaderboard(ctx context.Context, stageID uuid.UUID) (Leaderboard, error)
	// GetCurrentLeaderboard returns an empty board when no stage is current.
	GetCurrentLeaderboard(ctx context.Context) (Leaderboard, error)
	GetStageQuality(ctx context.Context, stageID uuid.UUID) ([]leaderboarddomain.QualityRate, error)
	GetPointSeries(ctx context.Context, stageID, userID uuid.UUID) ([]leaderboarddomain.SeriesPoint, error)

	RenderPointSeriesChart(ctx context.Context, stageID, userID uuid.UUID) ([]byte, error)
	ExportLeaderboardXLSX(ctx context.Context, stageID uuid.UUID) ([]byte, error)
}
