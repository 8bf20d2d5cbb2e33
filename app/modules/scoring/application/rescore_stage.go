package scoringservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/matchday-pool/predictor/app/domainerr"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	scoringdomain "github.com/matchday-pool/predictor/app/modules/scoring/domain"
	"github.com/matchday-pool/predictor/app/results"
	"golang.org/x/sync/errgroup"
)

type rescoreResult = results.OperationResult[StageRescoreResult, error]

// RescoreStage rescores every finished match of a stage. Matches run in
// parallel up to the configured concurrency; each keeps its own atomic
// replace, so a failure leaves already-rescored matches in their new state.
func (s *ScoringService) RescoreStage(ctx context.Context, stageID uuid.UUID) (StageRescoreResult, error) {
	result, err := withTelemetry(s, ctx, "RescoreStage", stageID.String(), func(ctx context.Context) (rescoreResult, error) {
		if _, err := s.fixtures.GetStage(ctx, nil, stageID); err != nil {
			if errors.Is(err, fixturedb.ErrNotFound) {
				return results.FailureResult[StageRescoreResult, error](
					domainerr.New(domainerr.StageNotFound, "stage %s not found", stageID)), nil
			}
			return rescoreResult{}, fmt.Errorf("failed to load stage: %w", err)
		}

		ids, err := s.fixtures.ListFinishedMatchIDs(ctx, nil, stageID)
		if err != nil {
			return rescoreResult{}, fmt.Errorf("failed to list finished matches: %w", err)
		}

		perMatch := make([]MatchScoringResult, len(ids))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.concurrency)
		for i, id := range ids {
			g.Go(func() error {
				r, err := s.ScoreMatch(gctx, id)
				if err != nil {
					return fmt.Errorf("match %s: %w", id, err)
				}
				perMatch[i] = r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return rescoreResult{}, err
		}

		out := StageRescoreResult{StageID: stageID, Matches: perMatch}
		var total float64
		for _, r := range perMatch {
			if r.Skipped != "" {
				continue
			}
			out.MatchesScored++
			out.AffectedCount += r.AffectedCount
			total += r.TotalPoints
		}
		out.TotalPoints = scoringdomain.Round2(total)
		return results.SuccessResult[StageRescoreResult, error](out), nil
	})
	if err != nil {
		return StageRescoreResult{}, err
	}
	if result.IsFailure() {
		return StageRescoreResult{}, *result.Failure
	}
	return *result.Success, nil
}
