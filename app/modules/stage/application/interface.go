package stageservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service defines the contract for the stage lifecycle.
type Service interface {
	PublishStage(ctx context.Context, stageID uuid.UUID) (TransitionResult, error)
	LockStage(ctx context.Context, stageID uuid.UUID) (TransitionResult, error)
	SetCurrentStage(ctx context.Context, stageID uuid.UUID) (CurrentStageResult, error)
	GetStage(ctx context.Context, stageID uuid.UUID) (StageView, error)
	GetCurrentStage(ctx context.Context) (StageView, error)

	// Gates used by the fixture module. db is the caller's transaction;
	// the stage row stays locked until it ends.
	EnsureFixturesEditable(ctx context.Context, db bun.IDB, stageID uuid.UUID) error
	EnsureResultsEnterable(ctx context.Context, db bun.IDB, stageID uuid.UUID) error
	EnsurePredictionsAllowed(ctx context.Context, db bun.IDB, stageID uuid.UUID) error
}
