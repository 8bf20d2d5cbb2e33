package stageservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/matchday-pool/predictor/app/domainerr"
	stagedomain "github.com/matchday-pool/predictor/app/modules/stage/domain"
	"github.com/uptrace/bun"
)

// EnsureFixturesEditable rejects structural edits once the stage is locked.
// Returned errors are *domainerr.Error for rejections.
func (s *StageService) EnsureFixturesEditable(ctx context.Context, db bun.IDB, stageID uuid.UUID) error {
	return s.gate(ctx, db, stageID, true, stagedomain.AllowsFixtureEdit)
}

// EnsureResultsEnterable rejects result entry on a draft stage.
func (s *StageService) EnsureResultsEnterable(ctx context.Context, db bun.IDB, stageID uuid.UUID) error {
	return s.gate(ctx, db, stageID, true, stagedomain.AllowsResultEntry)
}

// EnsurePredictionsAllowed rejects predictions on a draft stage. It reads
// without a row lock.
func (s *StageService) EnsurePredictionsAllowed(ctx context.Context, db bun.IDB, stageID uuid.UUID) error {
	return s.gate(ctx, db, stageID, false, stagedomain.AllowsPredictions)
}

func (s *StageService) gate(ctx context.Context, db bun.IDB, stageID uuid.UUID, forUpdate bool, allows func(stagedomain.Status) *domainerr.Error) error {
	load := s.store.GetStage
	if forUpdate {
		load = s.store.GetStageForUpdate
	}
	stage, failure, err := s.loadStage(ctx, db, stageID, load)
	if err != nil {
		return err
	}
	if failure != nil {
		return failure
	}
	if failure := allows(stage.Status); failure != nil {
		return failure
	}
	return nil
}
