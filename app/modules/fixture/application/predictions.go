package fixtureservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/matchday-pool/predictor/app/domainerr"
	fixturedomain "github.com/matchday-pool/predictor/app/modules/fixture/domain"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	"github.com/matchday-pool/predictor/app/results"
	"github.com/uptrace/bun"
)

type predictionResult = results.OperationResult[*fixturedb.Prediction, error]

// SubmitPrediction creates or replaces a participant's prediction while the
// match is scheduled and its deadline has not passed. Submitting both sides
// empty clears the prediction.
func (s *FixtureService) SubmitPrediction(ctx context.Context, matchID, userID uuid.UUID, in PredictionInput) (*fixturedb.Prediction, error) {
	return unwrap(withTelemetry(s, ctx, "SubmitPrediction", matchID.String(), func(ctx context.Context) (predictionResult, error) {
		if failure := fixturedomain.ValidateScorePair(in.HomePred, in.AwayPred); failure != nil {
			return results.FailureResult[*fixturedb.Prediction, error](failure), nil
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (predictionResult, error) {
			if _, err := s.repo.GetParticipant(ctx, db, userID); err != nil {
				return fail[*fixturedb.Prediction](err, domainerr.ParticipantMissing, "participant")
			}
			match, err := s.repo.GetMatch(ctx, db, matchID)
			if err != nil {
				return fail[*fixturedb.Prediction](err, domainerr.MatchNotFound, "match")
			}
			if err := s.stages.EnsurePredictionsAllowed(ctx, db, match.StageID); err != nil {
				return fail[*fixturedb.Prediction](err, domainerr.StageNotFound, "stage")
			}
			if failure := fixturedomain.PredictionWindowOpen(match.Status, match.DeadlineAt, s.now()); failure != nil {
				return results.FailureResult[*fixturedb.Prediction, error](failure), nil
			}

			p := &fixturedb.Prediction{
				ID:       uuid.New(),
				MatchID:  matchID,
				UserID:   userID,
				HomePred: in.HomePred,
				AwayPred: in.AwayPred,
			}
			if err := s.repo.UpsertPrediction(ctx, db, p); err != nil {
				return fail[*fixturedb.Prediction](err, domainerr.MatchNotFound, "match")
			}
			return results.SuccessResult[*fixturedb.Prediction, error](p), nil
		})
	}))
}
