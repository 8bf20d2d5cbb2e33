package fixturedb

import (
	"context"
	"time"

	"github.com/google/uuid"
	fixturedomain "github.com/matchday-pool/predictor/app/modules/fixture/domain"
	stagedomain "github.com/matchday-pool/predictor/app/modules/stage/domain"
	"github.com/uptrace/bun"
)

// Repository is the fixture store: teams, participants, stages, tours,
// matches and predictions. Every method takes an optional bun.IDB so
// callers can run it inside their transaction; nil uses the repository's
// own handle.
type Repository interface {
	// Teams & participants
	CreateTeam(ctx context.Context, db bun.IDB, team *Team) error
	GetTeam(ctx context.Context, db bun.IDB, id uuid.UUID) (*Team, error)
	ListTeams(ctx context.Context, db bun.IDB) ([]Team, error)
	CreateParticipant(ctx context.Context, db bun.IDB, p *Participant) error
	GetParticipant(ctx context.Context, db bun.IDB, id uuid.UUID) (*Participant, error)
	ListScorableParticipants(ctx context.Context, db bun.IDB) ([]Participant, error)

	// Stages
	CreateStage(ctx context.Context, db bun.IDB, stage *Stage) error
	GetStage(ctx context.Context, db bun.IDB, id uuid.UUID) (*Stage, error)
	GetStageForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*Stage, error)
	ListStages(ctx context.Context, db bun.IDB) ([]Stage, error)
	UpdateStageStatus(ctx context.Context, db bun.IDB, id uuid.UUID, status stagedomain.Status) error
	CountStageMatches(ctx context.Context, db bun.IDB, stageID uuid.UUID) (int, error)
	GetCurrentStageID(ctx context.Context, db bun.IDB) (*uuid.UUID, error)
	SetCurrentStage(ctx context.Context, db bun.IDB, stageID uuid.UUID) error

	// Tours
	CreateTour(ctx context.Context, db bun.IDB, tour *Tour) error
	GetTour(ctx context.Context, db bun.IDB, id uuid.UUID) (*Tour, error)
	ListStageTours(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]Tour, error)

	// Matches
	CreateMatch(ctx context.Context, db bun.IDB, match *Match) error
	GetMatch(ctx context.Context, db bun.IDB, id uuid.UUID) (*Match, error)
	GetMatchForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*Match, error)
	UpdateMatch(ctx context.Context, db bun.IDB, match *Match) error
	UpdateMatchResult(ctx context.Context, db bun.IDB, id uuid.UUID, status fixturedomain.MatchStatus, home, away *int, recordedAt *time.Time) error
	DeleteMatch(ctx context.Context, db bun.IDB, id uuid.UUID) error
	ListStageMatches(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]Match, error)
	ListFinishedMatchIDs(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]uuid.UUID, error)
	ListMatchesClosingBetween(ctx context.Context, db bun.IDB, from, to time.Time) ([]MatchClosing, error)

	// Predictions
	UpsertPrediction(ctx context.Context, db bun.IDB, p *Prediction) error
	ListMatchPredictions(ctx context.Context, db bun.IDB, matchID uuid.UUID) ([]Prediction, error)
	ListParticipantsMissingPrediction(ctx context.Context, db bun.IDB, matchID uuid.UUID) ([]uuid.UUID, error)
}
