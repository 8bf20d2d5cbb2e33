package leaderboardservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/matchday-pool/predictor/app/domainerr"
	leaderboarddomain "github.com/matchday-pool/predictor/app/modules/leaderboard/domain"
	leaderboarddb "github.com/matchday-pool/predictor/app/modules/leaderboard/infrastructure/repositories"
	scoringdomain "github.com/matchday-pool/predictor/app/modules/scoring/domain"
	"github.com/matchday-pool/predictor/app/results"
)

// GetUserTotal is zero for a user without rows in the stage.
func (s *LeaderboardService) GetUserTotal(ctx context.Context, stageID, userID uuid.UUID) (UserTotal, error) {
	type res = results.OperationResult[UserTotal, error]
	return unwrap(withTelemetry(s, ctx, "GetUserTotal", stageID.String(), func(ctx context.Context) (res, error) {
		if _, failure, err := s.requireStage(ctx, stageID); failure != nil || err != nil {
			return failed[UserTotal](failure, err)
		}
		points, err := s.repo.SumUserPoints(ctx, nil, stageID, userID)
		if err != nil {
			return res{}, err
		}
		return results.SuccessResult[UserTotal, error](UserTotal{
			StageID: stageID,
			UserID:  userID,
			Points:  scoringdomain.Round2(points),
		}), nil
	}))
}

type boardResult = results.OperationResult[Leaderboard, error]

func (s *LeaderboardService) GetLeaderboard(ctx context.Context, stageID uuid.UUID) (Leaderboard, error) {
	return unwrap(withTelemetry(s, ctx, "GetLeaderboard", stageID.String(), func(ctx context.Context) (boardResult, error) {
		return s.board(ctx, stageID)
	}))
}

func (s *LeaderboardService) GetCurrentLeaderboard(ctx context.Context) (Leaderboard, error) {
	return unwrap(withTelemetry(s, ctx, "GetCurrentLeaderboard", "current", func(ctx context.Context) (boardResult, error) {
		current, err := s.stages.GetCurrentStageID(ctx, nil)
		if err != nil {
			return boardResult{}, fmt.Errorf("failed to read current stage: %w", err)
		}
		if current == nil {
			return results.SuccessResult[Leaderboard, error](Leaderboard{Standings: []leaderboarddomain.Standing{}}), nil
		}
		return s.board(ctx, *current)
	}))
}

func (s *LeaderboardService) board(ctx context.Context, stageID uuid.UUID) (boardResult, error) {
	stage, failure, err := s.requireStage(ctx, stageID)
	if failure != nil || err != nil {
		return failed[Leaderboard](failure, err)
	}
	rows, err := s.repo.ListStageTotals(ctx, nil, stageID)
	if err != nil {
		return boardResult{}, err
	}
	id := stage.ID
	return results.SuccessResult[Leaderboard, error](Leaderboard{
		StageID:   &id,
		StageName: stage.Name,
		Standings: leaderboarddomain.Rank(toTotals(rows)),
	}), nil
}

func (s *LeaderboardService) GetStageQuality(ctx context.Context, stageID uuid.UUID) ([]leaderboarddomain.QualityRate, error) {
	type res = results.OperationResult[[]leaderboarddomain.QualityRate, error]
	return unwrap(withTelemetry(s, ctx, "GetStageQuality", stageID.String(), func(ctx context.Context) (res, error) {
		if _, failure, err := s.requireStage(ctx, stageID); failure != nil || err != nil {
			return failed[[]leaderboarddomain.QualityRate](failure, err)
		}
		rows, err := s.repo.ListStageHits(ctx, nil, stageID)
		if err != nil {
			return res{}, err
		}
		out := make([]leaderboarddomain.QualityRate, 0, len(rows))
		for _, r := range rows {
			out = append(out, leaderboarddomain.Quality(leaderboarddomain.Hits{
				UserID:         r.UserID,
				DisplayName:    r.DisplayName,
				MatchesCounted: r.MatchesCounted,
				Points:         r.Points,
				Outcome:        r.OutcomeHits,
				Diff:           r.DiffHits,
				Exact:          r.ExactHits,
				NearMiss:       r.NearMisses,
			}))
		}
		return results.SuccessResult[[]leaderboarddomain.QualityRate, error](out), nil
	}))
}

func (s *LeaderboardService) GetPointSeries(ctx context.Context, stageID, userID uuid.UUID) ([]leaderboarddomain.SeriesPoint, error) {
	type res = results.OperationResult[[]leaderboarddomain.SeriesPoint, error]
	return unwrap(withTelemetry(s, ctx, "GetPointSeries", stageID.String(), func(ctx context.Context) (res, error) {
		if _, failure, err := s.requireStage(ctx, stageID); failure != nil || err != nil {
			return failed[[]leaderboarddomain.SeriesPoint](failure, err)
		}
		series, err := s.series(ctx, stageID, userID)
		if err != nil {
			return res{}, err
		}
		return results.SuccessResult[[]leaderboarddomain.SeriesPoint, error](series), nil
	}))
}

func (s *LeaderboardService) series(ctx context.Context, stageID, userID uuid.UUID) ([]leaderboarddomain.SeriesPoint, error) {
	rows, err := s.repo.ListUserAwards(ctx, nil, stageID, userID)
	if err != nil {
		return nil, err
	}
	awards := make([]leaderboarddomain.Award, 0, len(rows))
	for _, r := range rows {
		awards = append(awards, leaderboarddomain.Award{MatchID: r.MatchID, KickoffAt: r.KickoffAt, Points: r.Points})
	}
	return leaderboarddomain.Cumulative(awards), nil
}

func toTotals(rows []leaderboarddb.TotalRow) []leaderboarddomain.Total {
	out := make([]leaderboarddomain.Total, 0, len(rows))
	for _, r := range rows {
		out = append(out, leaderboarddomain.Total{
			UserID:         r.UserID,
			DisplayName:    r.DisplayName,
			Points:         r.Points,
			MatchesCounted: r.MatchesCounted,
		})
	}
	return out
}

func failed[S any](failure *domainerr.Error, err error) (results.OperationResult[S, error], error) {
	if err != nil {
		return results.OperationResult[S, error]{}, err
	}
	return results.FailureResult[S, error](failure), nil
}
