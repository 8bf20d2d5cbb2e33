package fixtureservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/matchday-pool/predictor/app/domainerr"
	fixturedomain "github.com/matchday-pool/predictor/app/modules/fixture/domain"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	"github.com/matchday-pool/predictor/app/observability/attr"
	"github.com/matchday-pool/predictor/app/results"
	"github.com/uptrace/bun"
)

// RecordResult commits the result first and only then touches the ledger,
// in a separate transaction owned by the scorer. If that second step fails
// the result stays recorded and the failure is reported in ScoringErr;
// scoring the match again repairs it.
func (s *FixtureService) RecordResult(ctx context.Context, matchID uuid.UUID, in RecordResultInput) (RecordResultOutput, error) {
	match, err := unwrap(withTelemetry(s, ctx, "RecordResult", matchID.String(), func(ctx context.Context) (matchResult, error) {
		if failure := fixturedomain.ValidateResult(in.Status, in.HomeScore, in.AwayScore); failure != nil {
			return results.FailureResult[*fixturedb.Match, error](failure), nil
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (matchResult, error) {
			match, err := s.repo.GetMatchForUpdate(ctx, db, matchID)
			if err != nil {
				return fail[*fixturedb.Match](err, domainerr.MatchNotFound, "match")
			}
			if err := s.stages.EnsureResultsEnterable(ctx, db, match.StageID); err != nil {
				return fail[*fixturedb.Match](err, domainerr.StageNotFound, "stage")
			}

			recordedAt := s.recordedAt(match, in)
			if err := s.repo.UpdateMatchResult(ctx, db, matchID, in.Status, in.HomeScore, in.AwayScore, recordedAt); err != nil {
				return fail[*fixturedb.Match](err, domainerr.MatchNotFound, "match")
			}
			match.Status = in.Status
			match.HomeScore = in.HomeScore
			match.AwayScore = in.AwayScore
			match.ResultRecordedAt = recordedAt
			return results.SuccessResult[*fixturedb.Match, error](match), nil
		})
	}))
	if err != nil {
		return RecordResultOutput{}, err
	}

	// Only a finished match with both scores has ledger rows. Anything else,
	// including finished with the score cleared, is voided.
	out := RecordResultOutput{Match: match}
	if match.Finished() {
		r, err := s.scorer.ScoreMatch(ctx, matchID)
		if err != nil {
			out.ScoringErr = err.Error()
		} else {
			out.Scoring = &r
		}
	} else {
		r, err := s.scorer.VoidMatch(ctx, matchID)
		if err != nil {
			out.ScoringErr = err.Error()
		} else {
			out.Void = &r
		}
	}
	if out.ScoringErr != "" {
		s.logger.ErrorContext(ctx, "Ledger update after result failed; rescore the match",
			attr.ExtractCorrelationID(ctx),
			attr.MatchID(matchID),
			attr.String("error", out.ScoringErr),
		)
	}
	return out, nil
}

// recordedAt keeps the previous timestamp when the score is unchanged so a
// repeated submission leaves the ledger rows identical.
func (s *FixtureService) recordedAt(m *fixturedb.Match, in RecordResultInput) *time.Time {
	if in.HomeScore == nil {
		return nil
	}
	if m.ResultRecordedAt != nil && sameScore(m.HomeScore, in.HomeScore) && sameScore(m.AwayScore, in.AwayScore) {
		return m.ResultRecordedAt
	}
	now := s.now()
	return &now
}

func sameScore(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
