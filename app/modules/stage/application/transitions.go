package stageservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/matchday-pool/predictor/app/domainerr"
	"github.com/matchday-pool/predictor/app/eventbus"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	stagedomain "github.com/matchday-pool/predictor/app/modules/stage/domain"
	"github.com/matchday-pool/predictor/app/observability/attr"
	"github.com/matchday-pool/predictor/app/results"
	"github.com/uptrace/bun"
)

type transitionResult = results.OperationResult[TransitionResult, error]

// PublishStage moves a draft stage to published. Publishing a published
// stage is a successful no-op.
func (s *StageService) PublishStage(ctx context.Context, stageID uuid.UUID) (TransitionResult, error) {
	out, err := s.transition(ctx, "PublishStage", stageID, func(ctx context.Context, db bun.IDB, stage *fixturedb.Stage) (stagedomain.Transition, *domainerr.Error, error) {
		t, failure := stagedomain.CanPublish(stage.Status)
		return t, failure, nil
	})
	if err == nil && out.Changed {
		s.publish(ctx, eventbus.StagePublishedTopic, eventbus.StageTransitionPayload{
			StageID: stageID,
			Status:  string(stagedomain.StatusPublished),
		})
	}
	return out, err
}

// LockStage freezes a stage once it holds exactly its required number of
// matches. Locking a locked stage is a successful no-op.
func (s *StageService) LockStage(ctx context.Context, stageID uuid.UUID) (TransitionResult, error) {
	out, err := s.transition(ctx, "LockStage", stageID, func(ctx context.Context, db bun.IDB, stage *fixturedb.Stage) (stagedomain.Transition, *domainerr.Error, error) {
		count, err := s.store.CountStageMatches(ctx, db, stage.ID)
		if err != nil {
			return stagedomain.Transition{}, nil, fmt.Errorf("failed to count matches: %w", err)
		}
		t, failure := stagedomain.CanLock(stage.Status, stage.MatchesRequired, count)
		return t, failure, nil
	})
	if err == nil && out.Changed {
		s.publish(ctx, eventbus.StageLockedTopic, eventbus.StageTransitionPayload{
			StageID: stageID,
			Status:  string(stagedomain.StatusLocked),
		})
	}
	return out, err
}

type checkFunc func(ctx context.Context, db bun.IDB, stage *fixturedb.Stage) (stagedomain.Transition, *domainerr.Error, error)

// transition serializes lifecycle changes of one stage: an in-process lock
// per stage plus the row lock inside the transaction.
func (s *StageService) transition(ctx context.Context, op string, stageID uuid.UUID, check checkFunc) (TransitionResult, error) {
	unlock := s.stageLocks.Lock(stageID)
	defer unlock()

	return unwrap(withTelemetry(s, ctx, op, stageID.String(), func(ctx context.Context) (transitionResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (transitionResult, error) {
			stage, failure, err := s.loadForUpdate(ctx, db, stageID)
			if err != nil {
				return transitionResult{}, err
			}
			if failure != nil {
				return results.FailureResult[TransitionResult, error](failure), nil
			}

			t, failure, err := check(ctx, db, stage)
			if err != nil {
				return transitionResult{}, err
			}
			if failure != nil {
				return results.FailureResult[TransitionResult, error](failure), nil
			}

			if t.Changed {
				if err := s.store.UpdateStageStatus(ctx, db, stage.ID, t.To); err != nil {
					return transitionResult{}, fmt.Errorf("failed to update stage status: %w", err)
				}
				stage.Status = t.To
				s.logger.InfoContext(ctx, "Stage status changed",
					attr.ExtractCorrelationID(ctx),
					attr.StageID(stage.ID),
					attr.String("from", string(t.From)),
					attr.String("to", string(t.To)),
				)
			}

			view, err := s.view(ctx, db, stage)
			if err != nil {
				return transitionResult{}, err
			}
			return results.SuccessResult[TransitionResult, error](TransitionResult{
				Stage:   view,
				From:    t.From,
				Changed: t.Changed,
			}), nil
		})
	}))
}

func (s *StageService) view(ctx context.Context, db bun.IDB, stage *fixturedb.Stage) (StageView, error) {
	count, err := s.store.CountStageMatches(ctx, db, stage.ID)
	if err != nil {
		return StageView{}, fmt.Errorf("failed to count matches: %w", err)
	}
	current, err := s.store.GetCurrentStageID(ctx, db)
	if err != nil {
		return StageView{}, fmt.Errorf("failed to read current stage: %w", err)
	}
	return toView(stage, count, current), nil
}
