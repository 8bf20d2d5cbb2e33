package leaderboardservice

import (
	"context"

	"github.com/google/uuid"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	leaderboarddomain "github.com/matchday-pool/predictor/app/modules/leaderboard/domain"
	"github.com/uptrace/bun"
)

// StageReader resolves stages and the current-stage pointer.
type StageReader interface {
	GetStage(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Stage, error)
	GetCurrentStageID(ctx context.Context, db bun.IDB) (*uuid.UUID, error)
}

type UserTotal struct {
	StageID uuid.UUID `json:"stage_id"`
	UserID  uuid.UUID `json:"user_id"`
	Points  float64   `json:"points"`
}

type Leaderboard struct {
	StageID   *uuid.UUID                   `json:"stage_id"`
	StageName string                       `json:"stage_name,omitempty"`
	Standings []leaderboarddomain.Standing `json:"standings"`
}
