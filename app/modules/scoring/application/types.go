package scoringservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/matchday-pool/predictor/app/domainerr"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	scoringdomain "github.com/matchday-pool/predictor/app/modules/scoring/domain"
	"github.com/uptrace/bun"
)

// FixtureReader is the slice of the fixture store scoring reads from.
type FixtureReader interface {
	GetStage(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Stage, error)
	GetMatch(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Match, error)
	GetMatchForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Match, error)
	ListMatchPredictions(ctx context.Context, db bun.IDB, matchID uuid.UUID) ([]fixturedb.Prediction, error)
	ListFinishedMatchIDs(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]uuid.UUID, error)
}

// ScoredEntry is one ledger row as reported back to the caller.
type ScoredEntry struct {
	UserID    uuid.UUID               `json:"user_id"`
	Points    float64                 `json:"points"`
	Breakdown scoringdomain.Breakdown `json:"breakdown"`
}

// MatchScoringResult is the outcome of ScoreMatch. Skipped is set, and
// nothing was written, when the match could not be scored yet.
type MatchScoringResult struct {
	MatchID       uuid.UUID      `json:"match_id"`
	StageID       uuid.UUID      `json:"stage_id"`
	Entries       []ScoredEntry  `json:"entries"`
	TotalPoints   float64        `json:"total_points"`
	AffectedCount int            `json:"affected_count"`
	RemovedCount  int            `json:"removed_count"`
	OutcomeCount  int            `json:"outcome_co_predictors"`
	DiffCount     int            `json:"diff_co_predictors"`
	Skipped       domainerr.Code `json:"skipped,omitempty"`
}

type VoidResult struct {
	MatchID      uuid.UUID `json:"match_id"`
	StageID      uuid.UUID `json:"stage_id"`
	RemovedCount int       `json:"removed_count"`
}

type StageRescoreResult struct {
	StageID       uuid.UUID            `json:"stage_id"`
	MatchesScored int                  `json:"matches_scored"`
	TotalPoints   float64              `json:"total_points"`
	AffectedCount int                  `json:"affected_count"`
	Matches       []MatchScoringResult `json:"matches"`
}
