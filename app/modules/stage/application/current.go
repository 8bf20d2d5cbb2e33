package stageservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/matchday-pool/predictor/app/domainerr"
	"github.com/matchday-pool/predictor/app/eventbus"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	"github.com/matchday-pool/predictor/app/observability/attr"
	"github.com/matchday-pool/predictor/app/results"
	"github.com/uptrace/bun"
)

type currentResult = results.OperationResult[CurrentStageResult, error]

// SetCurrentStage points the current-stage singleton at stageID. Any
// lifecycle status may be current.
func (s *StageService) SetCurrentStage(ctx context.Context, stageID uuid.UUID) (CurrentStageResult, error) {
	s.currentMu.Lock()
	defer s.currentMu.Unlock()

	out, err := unwrap(withTelemetry(s, ctx, "SetCurrentStage", stageID.String(), func(ctx context.Context) (currentResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (currentResult, error) {
			_, failure, err := s.loadForUpdate(ctx, db, stageID)
			if err != nil {
				return currentResult{}, err
			}
			if failure != nil {
				return results.FailureResult[CurrentStageResult, error](failure), nil
			}

			previous, err := s.store.GetCurrentStageID(ctx, db)
			if err != nil {
				return currentResult{}, fmt.Errorf("failed to read current stage: %w", err)
			}
			res := CurrentStageResult{StageID: stageID, PreviousStageID: previous}
			if previous != nil && *previous == stageID {
				return results.SuccessResult[CurrentStageResult, error](res), nil
			}

			if err := s.store.SetCurrentStage(ctx, db, stageID); err != nil {
				return currentResult{}, fmt.Errorf("failed to set current stage: %w", err)
			}
			res.Changed = true
			s.logger.InfoContext(ctx, "Current stage changed",
				attr.ExtractCorrelationID(ctx),
				attr.StageID(stageID),
			)
			return results.SuccessResult[CurrentStageResult, error](res), nil
		})
	}))
	if err == nil && out.Changed {
		s.publish(ctx, eventbus.CurrentStageChangedTopic, eventbus.CurrentStageChangedPayload{
			StageID:         out.StageID,
			PreviousStageID: out.PreviousStageID,
		})
	}
	return out, err
}

type viewResult = results.OperationResult[StageView, error]

func (s *StageService) GetStage(ctx context.Context, stageID uuid.UUID) (StageView, error) {
	return unwrap(withTelemetry(s, ctx, "GetStage", stageID.String(), func(ctx context.Context) (viewResult, error) {
		return s.readStage(ctx, stageID)
	}))
}

// GetCurrentStage fails with stage_not_found when no stage is current.
func (s *StageService) GetCurrentStage(ctx context.Context) (StageView, error) {
	return unwrap(withTelemetry(s, ctx, "GetCurrentStage", "current", func(ctx context.Context) (viewResult, error) {
		current, err := s.store.GetCurrentStageID(ctx, nil)
		if err != nil {
			return viewResult{}, fmt.Errorf("failed to read current stage: %w", err)
		}
		if current == nil {
			return results.FailureResult[StageView, error](
				domainerr.New(domainerr.StageNotFound, "no stage is current")), nil
		}
		return s.readStage(ctx, *current)
	}))
}

func (s *StageService) readStage(ctx context.Context, stageID uuid.UUID) (viewResult, error) {
	stage, err := s.store.GetStage(ctx, nil, stageID)
	if err != nil {
		if errors.Is(err, fixturedb.ErrNotFound) {
			return results.FailureResult[StageView, error](
				domainerr.New(domainerr.StageNotFound, "stage %s not found", stageID)), nil
		}
		return viewResult{}, fmt.Errorf("failed to load stage: %w", err)
	}
	v, err := s.view(ctx, nil, stage)
	if err != nil {
		return viewResult{}, err
	}
	return results.SuccessResult[StageView, error](v), nil
}
