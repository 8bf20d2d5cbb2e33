package scoringservice

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the contract for match scoring.
type Service interface {
	// ScoreMatch recomputes the prediction ledger rows of a finished match.
	// It is idempotent and is a no-op for matches that are not finished.
	ScoreMatch(ctx context.Context, matchID uuid.UUID) (MatchScoringResult, error)
	// VoidMatch removes the prediction ledger rows of a match that is no
	// longer finished.
	VoidMatch(ctx context.Context, matchID uuid.UUID) (VoidResult, error)
	// RescoreStage rescores every finished match of a stage.
	RescoreStage(ctx context.Context, stageID uuid.UUID) (StageRescoreResult, error)
}
