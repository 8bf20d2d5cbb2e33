package fixtureservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	fixturedomain "github.com/matchday-pool/predictor/app/modules/fixture/domain"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	scoringservice "github.com/matchday-pool/predictor/app/modules/scoring/application"
	"github.com/uptrace/bun"
)

// StageGate is the lifecycle check the fixture module defers to.
type StageGate interface {
	EnsureFixturesEditable(ctx context.Context, db bun.IDB, stageID uuid.UUID) error
	EnsureResultsEnterable(ctx context.Context, db bun.IDB, stageID uuid.UUID) error
	EnsurePredictionsAllowed(ctx context.Context, db bun.IDB, stageID uuid.UUID) error
}

// Scorer recomputes a match's ledger rows after its result changed.
type Scorer interface {
	ScoreMatch(ctx context.Context, matchID uuid.UUID) (scoringservice.MatchScoringResult, error)
	VoidMatch(ctx context.Context, matchID uuid.UUID) (scoringservice.VoidResult, error)
}

type CreateParticipantInput struct {
	DisplayName string `json:"display_name"`
	IsAdmin     bool   `json:"is_admin"`
}

type CreateStageInput struct {
	Name            string `json:"name"`
	MatchesRequired int    `json:"matches_required"`
}

type CreateTourInput struct {
	TourNo int    `json:"tour_no"`
	Name   string `json:"name"`
}

type CreateMatchInput struct {
	StageID    uuid.UUID `json:"stage_id"`
	TourID     uuid.UUID `json:"tour_id"`
	HomeTeamID uuid.UUID `json:"home_team_id"`
	AwayTeamID uuid.UUID `json:"away_team_id"`
	KickoffAt  time.Time `json:"kickoff_at"`
	DeadlineAt time.Time `json:"deadline_at"`
}

// UpdateMatchInput changes only the fields that are set.
type UpdateMatchInput struct {
	TourID     *uuid.UUID `json:"tour_id,omitempty"`
	HomeTeamID *uuid.UUID `json:"home_team_id,omitempty"`
	AwayTeamID *uuid.UUID `json:"away_team_id,omitempty"`
	KickoffAt  *time.Time `json:"kickoff_at,omitempty"`
	DeadlineAt *time.Time `json:"deadline_at,omitempty"`
}

type RecordResultInput struct {
	Status    fixturedomain.MatchStatus `json:"status"`
	HomeScore *int                      `json:"home_score"`
	AwayScore *int                      `json:"away_score"`
}

// RecordResultOutput carries the stored match and what happened to its
// ledger rows. Exactly one of Scoring and Void is set when the follow-up
// step ran; ScoringErr is set when it failed after the result committed.
type RecordResultOutput struct {
	Match      *fixturedb.Match                   `json:"match"`
	Scoring    *scoringservice.MatchScoringResult `json:"scoring,omitempty"`
	Void       *scoringservice.VoidResult         `json:"void,omitempty"`
	ScoringErr string                             `json:"scoring_error,omitempty"`
}

type PredictionInput struct {
	HomePred *int `json:"home_pred"`
	AwayPred *int `json:"away_pred"`
}
