package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	fixtureservice "github.com/matchday-pool/predictor/app/modules/fixture/application"
)

// StageFixture is a published stage with one tour, its matches and a set of
// participants, all created through the fixture and stage services.
type StageFixture struct {
	StageID      uuid.UUID
	TourID       uuid.UUID
	MatchIDs     []uuid.UUID
	Participants []uuid.UUID
	Names        map[uuid.UUID]string
}

// SeedPublishedStage creates matches matches between freshly generated teams
// and players participants, then publishes the stage. Deadlines are a day
// out so predictions are accepted.
func SeedPublishedStage(t *testing.T, env *TestEnvironment, gen *TestDataGenerator, matches, players int) StageFixture {
	t.Helper()
	ctx := context.Background()
	svc := env.Fixture.Service

	stage, err := svc.CreateStage(ctx, fixtureservice.CreateStageInput{Name: gen.StageName(), MatchesRequired: matches})
	if err != nil {
		t.Fatalf("create stage: %v", err)
	}
	tour, err := svc.CreateTour(ctx, stage.ID, fixtureservice.CreateTourInput{TourNo: 1, Name: "Tour 1"})
	if err != nil {
		t.Fatalf("create tour: %v", err)
	}

	out := StageFixture{StageID: stage.ID, TourID: tour.ID, Names: make(map[uuid.UUID]string)}
	kickoff := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	for i := 0; i < matches; i++ {
		home, err := svc.CreateTeam(ctx, gen.TeamName())
		if err != nil {
			t.Fatalf("create team: %v", err)
		}
		away, err := svc.CreateTeam(ctx, gen.TeamName())
		if err != nil {
			t.Fatalf("create team: %v", err)
		}
		m, err := svc.CreateMatch(ctx, fixtureservice.CreateMatchInput{
			StageID:    stage.ID,
			TourID:     tour.ID,
			HomeTeamID: home.ID,
			AwayTeamID: away.ID,
			KickoffAt:  kickoff.Add(time.Duration(i) * time.Hour),
			DeadlineAt: kickoff.Add(-24 * time.Hour),
		})
		if err != nil {
			t.Fatalf("create match: %v", err)
		}
		out.MatchIDs = append(out.MatchIDs, m.ID)
	}

	for i := 0; i < players; i++ {
		p, err := svc.CreateParticipant(ctx, fixtureservice.CreateParticipantInput{DisplayName: gen.DisplayName()})
		if err != nil {
			t.Fatalf("create participant: %v", err)
		}
		out.Participants = append(out.Participants, p.ID)
		out.Names[p.ID] = p.DisplayName
	}

	if _, err := env.Stage.Service.PublishStage(ctx, stage.ID); err != nil {
		t.Fatalf("publish stage: %v", err)
	}
	return out
}

// Predict submits a prediction and fails the test on error.
func Predict(t *testing.T, env *TestEnvironment, matchID, userID uuid.UUID, home, away int) {
	t.Helper()
	_, err := env.Fixture.Service.SubmitPrediction(context.Background(), matchID, userID, fixtureservice.PredictionInput{
		HomePred: &home,
		AwayPred: &away,
	})
	if err != nil {
		t.Fatalf("submit prediction: %v", err)
	}
}
