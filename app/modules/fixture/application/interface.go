package fixtureservice

import (
	"context"

	"github.com/google/uuid"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
)

// Service defines the contract for fixture administration and predictions.
type Service interface {
	CreateTeam(ctx context.Context, name string) (*fixturedb.Team, error)
	CreateParticipant(ctx context.Context, in CreateParticipantInput) (*fixturedb.Participant, error)
	CreateStage(ctx context.Context, in CreateStageInput) (*fixturedb.Stage, error)
	CreateTour(ctx context.Context, stageID uuid.UUID, in CreateTourInput) (*fixturedb.Tour, error)

	CreateMatch(ctx context.Context, in CreateMatchInput) (*fixturedb.Match, error)
	UpdateMatch(ctx context.Context, matchID uuid.UUID, in UpdateMatchInput) (*fixturedb.Match, error)
	DeleteMatch(ctx context.Context, matchID uuid.UUID) error

	// RecordResult stores a match's status and score, then rescores or
	// voids the match's ledger rows.
	RecordResult(ctx context.Context, matchID uuid.UUID, in RecordResultInput) (RecordResultOutput, error)

	SubmitPrediction(ctx context.Context, matchID, userID uuid.UUID, in PredictionInput) (*fixturedb.Prediction, error)
}
