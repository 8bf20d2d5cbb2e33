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

func (s *FixtureService) CreateTeam(ctx context.Context, name string) (*fixturedb.Team, error) {
	type res = results.OperationResult[*fixturedb.Team, error]
	return unwrap(withTelemetry(s, ctx, "CreateTeam", name, func(ctx context.Context) (res, error) {
		name, failure := fixturedomain.ValidateName("name", name)
		if failure != nil {
			return results.FailureResult[*fixturedb.Team, error](failure), nil
		}
		team := &fixturedb.Team{ID: uuid.New(), Name: name}
		if err := s.repo.CreateTeam(ctx, nil, team); err != nil {
			return fail[*fixturedb.Team](err, domainerr.TeamNotFound, "team "+name)
		}
		return results.SuccessResult[*fixturedb.Team, error](team), nil
	}))
}

func (s *FixtureService) CreateParticipant(ctx context.Context, in CreateParticipantInput) (*fixturedb.Participant, error) {
	type res = results.OperationResult[*fixturedb.Participant, error]
	return unwrap(withTelemetry(s, ctx, "CreateParticipant", in.DisplayName, func(ctx context.Context) (res, error) {
		name, failure := fixturedomain.ValidateName("display_name", in.DisplayName)
		if failure != nil {
			return results.FailureResult[*fixturedb.Participant, error](failure), nil
		}
		p := &fixturedb.Participant{ID: uuid.New(), DisplayName: name, IsAdmin: in.IsAdmin}
		if err := s.repo.CreateParticipant(ctx, nil, p); err != nil {
			return fail[*fixturedb.Participant](err, domainerr.ParticipantMissing, "participant")
		}
		return results.SuccessResult[*fixturedb.Participant, error](p), nil
	}))
}

// CreateStage creates a draft stage.
func (s *FixtureService) CreateStage(ctx context.Context, in CreateStageInput) (*fixturedb.Stage, error) {
	type res = results.OperationResult[*fixturedb.Stage, error]
	return unwrap(withTelemetry(s, ctx, "CreateStage", in.Name, func(ctx context.Context) (res, error) {
		name, failure := fixturedomain.ValidateName("name", in.Name)
		if failure != nil {
			return results.FailureResult[*fixturedb.Stage, error](failure), nil
		}
		if in.MatchesRequired < 0 {
			return results.FailureResult[*fixturedb.Stage, error](
				domainerr.New(domainerr.InvalidInput, "matches_required cannot be negative")), nil
		}
		stage := &fixturedb.Stage{ID: uuid.New(), Name: name, MatchesRequired: in.MatchesRequired}
		if err := s.repo.CreateStage(ctx, nil, stage); err != nil {
			return fail[*fixturedb.Stage](err, domainerr.StageNotFound, "stage "+name)
		}
		return results.SuccessResult[*fixturedb.Stage, error](stage), nil
	}))
}

func (s *FixtureService) CreateTour(ctx context.Context, stageID uuid.UUID, in CreateTourInput) (*fixturedb.Tour, error) {
	type res = results.OperationResult[*fixturedb.Tour, error]
	return unwrap(withTelemetry(s, ctx, "CreateTour", stageID.String(), func(ctx context.Context) (res, error) {
		if in.TourNo < 1 {
			return results.FailureResult[*fixturedb.Tour, error](
				domainerr.New(domainerr.InvalidInput, "tour_no must be positive")), nil
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (res, error) {
			if err := s.stages.EnsureFixturesEditable(ctx, db, stageID); err != nil {
				return fail[*fixturedb.Tour](err, domainerr.StageNotFound, "stage")
			}
			tour := &fixturedb.Tour{ID: uuid.New(), StageID: stageID, TourNo: in.TourNo, Name: in.Name}
			if err := s.repo.CreateTour(ctx, db, tour); err != nil {
				return fail[*fixturedb.Tour](err, domainerr.TourNotFound, "tour")
			}
			return results.SuccessResult[*fixturedb.Tour, error](tour), nil
		})
	}))
}
