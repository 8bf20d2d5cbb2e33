package fixtureservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/matchday-pool/predictor/app/domainerr"
	fixturedomain "github.com/matchday-pool/predictor/app/modules/fixture/domain"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	"github.com/matchday-pool/predictor/app/observability/attr"
	"github.com/matchday-pool/predictor/app/results"
	"github.com/uptrace/bun"
)

type matchResult = results.OperationResult[*fixturedb.Match, error]

// CreateMatch schedules a match in a tour of an editable stage.
func (s *FixtureService) CreateMatch(ctx context.Context, in CreateMatchInput) (*fixturedb.Match, error) {
	return unwrap(withTelemetry(s, ctx, "CreateMatch", in.StageID.String(), func(ctx context.Context) (matchResult, error) {
		match := &fixturedb.Match{
			ID:         uuid.New(),
			StageID:    in.StageID,
			TourID:     in.TourID,
			HomeTeamID: in.HomeTeamID,
			AwayTeamID: in.AwayTeamID,
			KickoffAt:  in.KickoffAt.UTC(),
			DeadlineAt: in.DeadlineAt.UTC(),
			Status:     fixturedomain.MatchScheduled,
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (matchResult, error) {
			if err := s.stages.EnsureFixturesEditable(ctx, db, in.StageID); err != nil {
				return fail[*fixturedb.Match](err, domainerr.StageNotFound, "stage")
			}
			if failure, err := s.validateStructure(ctx, db, match); failure != nil || err != nil {
				return matchFailure(failure, err)
			}
			if err := s.repo.CreateMatch(ctx, db, match); err != nil {
				return fail[*fixturedb.Match](err, domainerr.MatchNotFound, "match")
			}
			s.logger.InfoContext(ctx, "Match created",
				attr.ExtractCorrelationID(ctx),
				attr.MatchID(match.ID),
				attr.StageID(match.StageID),
			)
			return results.SuccessResult[*fixturedb.Match, error](match), nil
		})
	}))
}

// UpdateMatch edits teams, tour or schedule. Results go through RecordResult.
func (s *FixtureService) UpdateMatch(ctx context.Context, matchID uuid.UUID, in UpdateMatchInput) (*fixturedb.Match, error) {
	return unwrap(withTelemetry(s, ctx, "UpdateMatch", matchID.String(), func(ctx context.Context) (matchResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (matchResult, error) {
			match, err := s.repo.GetMatchForUpdate(ctx, db, matchID)
			if err != nil {
				return fail[*fixturedb.Match](err, domainerr.MatchNotFound, "match")
			}
			if err := s.stages.EnsureFixturesEditable(ctx, db, match.StageID); err != nil {
				return fail[*fixturedb.Match](err, domainerr.StageNotFound, "stage")
			}

			if in.TourID != nil {
				match.TourID = *in.TourID
			}
			if in.HomeTeamID != nil {
				match.HomeTeamID = *in.HomeTeamID
			}
			if in.AwayTeamID != nil {
				match.AwayTeamID = *in.AwayTeamID
			}
			if in.KickoffAt != nil {
				match.KickoffAt = in.KickoffAt.UTC()
			}
			if in.DeadlineAt != nil {
				match.DeadlineAt = in.DeadlineAt.UTC()
			}

			if failure, err := s.validateStructure(ctx, db, match); failure != nil || err != nil {
				return matchFailure(failure, err)
			}
			if err := s.repo.UpdateMatch(ctx, db, match); err != nil {
				return fail[*fixturedb.Match](err, domainerr.MatchNotFound, "match")
			}
			return results.SuccessResult[*fixturedb.Match, error](match), nil
		})
	}))
}

// DeleteMatch removes a match of an editable stage. Its predictions and
// ledger rows go with it.
func (s *FixtureService) DeleteMatch(ctx context.Context, matchID uuid.UUID) error {
	type res = results.OperationResult[uuid.UUID, error]
	_, err := unwrap(withTelemetry(s, ctx, "DeleteMatch", matchID.String(), func(ctx context.Context) (res, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (res, error) {
			match, err := s.repo.GetMatchForUpdate(ctx, db, matchID)
			if err != nil {
				return fail[uuid.UUID](err, domainerr.MatchNotFound, "match")
			}
			if err := s.stages.EnsureFixturesEditable(ctx, db, match.StageID); err != nil {
				return fail[uuid.UUID](err, domainerr.StageNotFound, "stage")
			}
			if err := s.repo.DeleteMatch(ctx, db, matchID); err != nil {
				return fail[uuid.UUID](err, domainerr.MatchNotFound, "match")
			}
			return results.SuccessResult[uuid.UUID, error](matchID), nil
		})
	}))
	return err
}

// validateStructure checks teams, schedule and that the tour belongs to the
// match's stage.
func (s *FixtureService) validateStructure(ctx context.Context, db bun.IDB, m *fixturedb.Match) (*domainerr.Error, error) {
	if failure := fixturedomain.ValidateTeams(m.HomeTeamID, m.AwayTeamID); failure != nil {
		return failure, nil
	}
	if failure := fixturedomain.ValidateSchedule(m.KickoffAt, m.DeadlineAt); failure != nil {
		return failure, nil
	}
	for _, id := range []uuid.UUID{m.HomeTeamID, m.AwayTeamID} {
		if _, err := s.repo.GetTeam(ctx, db, id); err != nil {
			if errors.Is(err, fixturedb.ErrNotFound) {
				return domainerr.New(domainerr.TeamNotFound, "team %s not found", id), nil
			}
			return nil, fmt.Errorf("failed to load team: %w", err)
		}
	}
	tour, err := s.repo.GetTour(ctx, db, m.TourID)
	if err != nil {
		if errors.Is(err, fixturedb.ErrNotFound) {
			return domainerr.New(domainerr.TourNotFound, "tour %s not found", m.TourID), nil
		}
		return nil, fmt.Errorf("failed to load tour: %w", err)
	}
	if tour.StageID != m.StageID {
		return domainerr.New(domainerr.TourStageMismatch, "tour %s belongs to another stage", tour.ID), nil
	}
	return nil, nil
}

func matchFailure(failure *domainerr.Error, err error) (matchResult, error) {
	if err != nil {
		return matchResult{}, err
	}
	return results.FailureResult[*fixturedb.Match, error](failure), nil
}
