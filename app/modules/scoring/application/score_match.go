package scoringservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/matchday-pool/predictor/app/domainerr"
	"github.com/matchday-pool/predictor/app/eventbus"
	fixturedomain "github.com/matchday-pool/predictor/app/modules/fixture/domain"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	scoringdomain "github.com/matchday-pool/predictor/app/modules/scoring/domain"
	ledgerdb "github.com/matchday-pool/predictor/app/modules/scoring/infrastructure/repositories"
	"github.com/matchday-pool/predictor/app/observability/attr"
	"github.com/matchday-pool/predictor/app/results"
	"github.com/uptrace/bun"
)

type scoreResult = results.OperationResult[MatchScoringResult, error]

// ScoreMatch scores every prediction of a finished match and replaces the
// match's ledger rows with the result.
func (s *ScoringService) ScoreMatch(ctx context.Context, matchID uuid.UUID) (MatchScoringResult, error) {
	unlock := s.matchLocks.Lock(matchID)
	defer unlock()

	result, err := withTelemetry(s, ctx, "ScoreMatch", matchID.String(), func(ctx context.Context) (scoreResult, error) {
		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (scoreResult, error) {
			return s.scoreMatchLogic(ctx, db, matchID)
		})
		return result, retryable(err)
	})
	if err != nil {
		return MatchScoringResult{}, err
	}
	if result.IsFailure() {
		return MatchScoringResult{}, *result.Failure
	}

	out := *result.Success
	if out.Skipped != "" {
		s.metrics.RecordMatchSkipped(ctx, string(out.Skipped))
		return out, nil
	}

	s.metrics.RecordLedgerRowsWritten(ctx, out.AffectedCount)
	s.publish(ctx, eventbus.MatchScoredTopic, scoredPayload(out))
	return out, nil
}

func (s *ScoringService) scoreMatchLogic(ctx context.Context, db bun.IDB, matchID uuid.UUID) (scoreResult, error) {
	match, err := s.fixtures.GetMatchForUpdate(ctx, db, matchID)
	if err != nil {
		if errors.Is(err, fixturedb.ErrNotFound) {
			return results.FailureResult[MatchScoringResult, error](
				domainerr.New(domainerr.MatchNotFound, "match %s not found", matchID)), nil
		}
		return scoreResult{}, fmt.Errorf("failed to load match: %w", err)
	}

	out := MatchScoringResult{MatchID: match.ID, StageID: match.StageID, Entries: []ScoredEntry{}}
	if match.Status != fixturedomain.MatchFinished {
		out.Skipped = domainerr.NotFinished
		return results.SuccessResult[MatchScoringResult, error](out), nil
	}
	if match.HomeScore == nil || match.AwayScore == nil {
		out.Skipped = domainerr.IncompleteScore
		return results.SuccessResult[MatchScoringResult, error](out), nil
	}

	preds, err := s.fixtures.ListMatchPredictions(ctx, db, matchID)
	if err != nil {
		return scoreResult{}, fmt.Errorf("failed to load predictions: %w", err)
	}

	actual := scoringdomain.Score{Home: match.HomeScore, Away: match.AwayScore}
	scored, rarity := scoringdomain.ScoreAll(toDomainPredictions(preds), actual)

	entries := make([]ledgerdb.LedgerEntry, 0, len(scored))
	for _, sp := range scored {
		entries = append(entries, toLedgerEntry(match, sp, scoredAt(match)))
	}

	stats, err := s.ledger.ReplaceMatchEntries(ctx, db, matchID, scoringdomain.ReasonPrediction, entries)
	if err != nil {
		return scoreResult{}, fmt.Errorf("%w: %w", ErrLedgerReplaceFailed, err)
	}

	var total float64
	for _, sp := range scored {
		out.Entries = append(out.Entries, ScoredEntry{
			UserID:    sp.UserID,
			Points:    sp.Breakdown.Points,
			Breakdown: sp.Breakdown,
		})
		total += sp.Breakdown.Points
	}
	out.TotalPoints = scoringdomain.Round2(total)
	out.AffectedCount = stats.Written
	out.RemovedCount = stats.Removed
	out.OutcomeCount = rarity.OutcomeCount
	out.DiffCount = rarity.DiffCount

	s.logger.InfoContext(ctx, "Match ledger replaced",
		attr.ExtractCorrelationID(ctx),
		attr.MatchID(matchID),
		attr.Int("written", stats.Written),
		attr.Int("removed", stats.Removed),
		attr.Float64("total_points", out.TotalPoints),
	)
	return results.SuccessResult[MatchScoringResult, error](out), nil
}

type voidResult = results.OperationResult[VoidResult, error]

// VoidMatch deletes the ledger rows of a match that has been moved away from
// finished. Finished matches are rescored instead, so voiding one is rejected.
func (s *ScoringService) VoidMatch(ctx context.Context, matchID uuid.UUID) (VoidResult, error) {
	unlock := s.matchLocks.Lock(matchID)
	defer unlock()

	result, err := withTelemetry(s, ctx, "VoidMatch", matchID.String(), func(ctx context.Context) (voidResult, error) {
		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (voidResult, error) {
			match, err := s.fixtures.GetMatchForUpdate(ctx, db, matchID)
			if err != nil {
				if errors.Is(err, fixturedb.ErrNotFound) {
					return results.FailureResult[VoidResult, error](
						domainerr.New(domainerr.MatchNotFound, "match %s not found", matchID)), nil
				}
				return voidResult{}, fmt.Errorf("failed to load match: %w", err)
			}
			if match.Finished() {
				return results.FailureResult[VoidResult, error](
					domainerr.New(domainerr.InvalidTransition, "match is finished; rescore it instead")), nil
			}

			removed, err := s.ledger.DeleteMatchEntries(ctx, db, matchID, scoringdomain.ReasonPrediction)
			if err != nil {
				return voidResult{}, fmt.Errorf("%w: %w", ErrLedgerReplaceFailed, err)
			}
			return results.SuccessResult[VoidResult, error](VoidResult{
				MatchID:      matchID,
				StageID:      match.StageID,
				RemovedCount: removed,
			}), nil
		})
		return result, retryable(err)
	})
	if err != nil {
		return VoidResult{}, err
	}
	if result.IsFailure() {
		return VoidResult{}, *result.Failure
	}

	out := *result.Success
	if out.RemovedCount > 0 {
		s.publish(ctx, eventbus.MatchVoidedTopic, eventbus.MatchVoidedPayload{
			MatchID:        out.MatchID,
			StageID:        out.StageID,
			RemovedEntries: out.RemovedCount,
		})
	}
	return out, nil
}

// retryable marks a failed ledger transaction as safe to retry. It rolled
// back, so the previous rows are still in place.
func retryable(err error) error {
	if err == nil || errors.Is(err, ErrLedgerReplaceFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrLedgerReplaceFailed, err)
}

func toDomainPredictions(preds []fixturedb.Prediction) []scoringdomain.Prediction {
	out := make([]scoringdomain.Prediction, 0, len(preds))
	for _, p := range preds {
		out = append(out, scoringdomain.Prediction{
			UserID: p.UserID,
			Score:  scoringdomain.Score{Home: p.HomePred, Away: p.AwayPred},
		})
	}
	return out
}

// scoredAt stamps ledger rows with the time the result was recorded so a
// rerun on unchanged inputs writes identical rows.
func scoredAt(m *fixturedb.Match) time.Time {
	if m.ResultRecordedAt != nil {
		return m.ResultRecordedAt.UTC()
	}
	return m.UpdatedAt.UTC()
}

func toLedgerEntry(m *fixturedb.Match, sp scoringdomain.ScoredPrediction, at time.Time) ledgerdb.LedgerEntry {
	b := sp.Breakdown
	return ledgerdb.LedgerEntry{
		UserID:             sp.UserID,
		MatchID:            m.ID,
		Reason:             scoringdomain.ReasonPrediction,
		Points:             b.Points,
		PointsOutcome:      b.PointsOutcome,
		PointsDiff:         b.PointsDiff,
		PointsH1:           b.PointsH1,
		PointsH2:           b.PointsH2,
		PointsBonus:        b.PointsBonus,
		PointsOutcomeBase:  b.PointsOutcomeBase,
		PointsOutcomeBonus: b.PointsOutcomeBonus,
		PointsDiffBase:     b.PointsDiffBase,
		PointsDiffBonus:    b.PointsDiffBonus,
		OutcomeMultiplier:  b.OutcomeMultiplier,
		DiffMultiplier:     b.DiffMultiplier,
		PredHome:           b.PredHome,
		PredAway:           b.PredAway,
		ActualHome:         b.ActualHome,
		ActualAway:         b.ActualAway,
		GuessedHome:        b.GuessedHome,
		GuessedAway:        b.GuessedAway,
		GuessedOutcome:     b.GuessedOutcome,
		GuessedDiff:        b.GuessedDiff,
		NearMiss:           b.NearMiss,
		ScoredAt:           at,
	}
}

func scoredPayload(r MatchScoringResult) eventbus.MatchScoredPayload {
	entries := make([]eventbus.ScoredEntry, 0, len(r.Entries))
	for _, e := range r.Entries {
		entries = append(entries, eventbus.ScoredEntry{UserID: e.UserID, Points: e.Points})
	}
	return eventbus.MatchScoredPayload{
		MatchID:       r.MatchID,
		StageID:       r.StageID,
		Entries:       entries,
		TotalPoints:   r.TotalPoints,
		AffectedCount: r.AffectedCount,
	}
}
