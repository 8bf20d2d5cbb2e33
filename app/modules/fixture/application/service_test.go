package fixtureservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/matchday-pool/predictor/app/domainerr"
	fixturedomain "github.com/matchday-pool/predictor/app/modules/fixture/domain"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	scoringservice "github.com/matchday-pool/predictor/app/modules/scoring/application"
	stagedomain "github.com/matchday-pool/predictor/app/modules/stage/domain"
	"github.com/matchday-pool/predictor/app/observability/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

func intp(v int) *int { return &v }

var testNow = time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)

type world struct {
	repo    *FakeFixtureRepo
	gate    *FakeStageGate
	scorer  *FakeScorer
	svc     *FixtureService
	stageID uuid.UUID
	tourID  uuid.UUID
	home    uuid.UUID
	away    uuid.UUID
	user    uuid.UUID
	matchID uuid.UUID
}

// newWorld seeds one stage in the given status with a tour, two teams, a
// participant and a scheduled match whose deadline is an hour away.
func newWorld(t *testing.T, status stagedomain.Status) *world {
	t.Helper()
	w := &world{
		repo:    NewFakeFixtureRepo(),
		gate:    NewFakeStageGate(),
		scorer:  &FakeScorer{},
		stageID: uuid.New(),
		tourID:  uuid.New(),
		home:    uuid.New(),
		away:    uuid.New(),
		user:    uuid.New(),
		matchID: uuid.New(),
	}
	w.gate.Set(w.stageID, status)
	w.repo.stages[w.stageID] = fixturedb.Stage{ID: w.stageID, Name: "Group stage", Status: status, MatchesRequired: 2}
	w.repo.tours[w.tourID] = fixturedb.Tour{ID: w.tourID, StageID: w.stageID, TourNo: 1}
	w.repo.teams[w.home] = fixturedb.Team{ID: w.home, Name: "Home"}
	w.repo.teams[w.away] = fixturedb.Team{ID: w.away, Name: "Away"}
	w.repo.participants[w.user] = fixturedb.Participant{ID: w.user, DisplayName: "Sam"}
	w.repo.matches[w.matchID] = fixturedb.Match{
		ID:         w.matchID,
		StageID:    w.stageID,
		TourID:     w.tourID,
		HomeTeamID: w.home,
		AwayTeamID: w.away,
		KickoffAt:  testNow.Add(2 * time.Hour),
		DeadlineAt: testNow.Add(time.Hour),
		Status:     fixturedomain.MatchScheduled,
	}

	w.svc = NewFixtureService(w.repo, w.gate, w.scorer, slog.Default(), metrics.NewNoop(), noop.NewTracerProvider().Tracer("test"), nil)
	w.svc.now = func() time.Time { return testNow }
	return w
}

func TestCreateMatch(t *testing.T) {
	tests := []struct {
		name     string
		status   stagedomain.Status
		mutate   func(w *world, in *CreateMatchInput)
		wantCode domainerr.Code
	}{
		{name: "draft stage accepts", status: stagedomain.StatusDraft},
		{name: "published stage accepts", status: stagedomain.StatusPublished},
		{name: "locked stage rejects", status: stagedomain.StatusLocked, wantCode: domainerr.StageLocked},
		{
			name:     "same teams",
			status:   stagedomain.StatusDraft,
			mutate:   func(w *world, in *CreateMatchInput) { in.AwayTeamID = in.HomeTeamID },
			wantCode: domainerr.SameTeams,
		},
		{
			name:     "unknown team",
			status:   stagedomain.StatusDraft,
			mutate:   func(w *world, in *CreateMatchInput) { in.AwayTeamID = uuid.New() },
			wantCode: domainerr.TeamNotFound,
		},
		{
			name:   "tour of another stage",
			status: stagedomain.StatusDraft,
			mutate: func(w *world, in *CreateMatchInput) {
				other := uuid.New()
				w.repo.tours[other] = fixturedb.Tour{ID: other, StageID: uuid.New(), TourNo: 1}
				in.TourID = other
			},
			wantCode: domainerr.TourStageMismatch,
		},
		{
			name:     "unknown stage",
			status:   stagedomain.StatusDraft,
			mutate:   func(w *world, in *CreateMatchInput) { in.StageID = uuid.New() },
			wantCode: domainerr.StageNotFound,
		},
		{
			name:     "missing deadline",
			status:   stagedomain.StatusDraft,
			mutate:   func(w *world, in *CreateMatchInput) { in.DeadlineAt = time.Time{} },
			wantCode: domainerr.InvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t, tt.status)
			in := CreateMatchInput{
				StageID:    w.stageID,
				TourID:     w.tourID,
				HomeTeamID: w.home,
				AwayTeamID: w.away,
				KickoffAt:  testNow.Add(48 * time.Hour),
				DeadlineAt: testNow.Add(47 * time.Hour),
			}
			if tt.mutate != nil {
				tt.mutate(w, &in)
			}

			m, err := w.svc.CreateMatch(context.Background(), in)

			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, domainerr.CodeOf(err))
				assert.NotContains(t, w.repo.Trace(), "CreateMatch")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, fixturedomain.MatchScheduled, m.Status)
			assert.Equal(t, m, ptr(w.repo.Match(m.ID)))
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestUpdateAndDeleteMatch_LockedStage(t *testing.T) {
	w := newWorld(t, stagedomain.StatusLocked)
	ctx := context.Background()
	kickoff := testNow.Add(72 * time.Hour)

	_, err := w.svc.UpdateMatch(ctx, w.matchID, UpdateMatchInput{KickoffAt: &kickoff})
	assert.Equal(t, domainerr.StageLocked, domainerr.CodeOf(err))

	err = w.svc.DeleteMatch(ctx, w.matchID)
	assert.Equal(t, domainerr.StageLocked, domainerr.CodeOf(err))

	assert.NotContains(t, w.repo.Trace(), "UpdateMatch")
	assert.NotContains(t, w.repo.Trace(), "DeleteMatch")
}

func TestUpdateMatch_PartialFields(t *testing.T) {
	w := newWorld(t, stagedomain.StatusPublished)
	deadline := testNow.Add(30 * time.Minute)

	m, err := w.svc.UpdateMatch(context.Background(), w.matchID, UpdateMatchInput{DeadlineAt: &deadline})
	require.NoError(t, err)
	assert.Equal(t, deadline, m.DeadlineAt)
	assert.Equal(t, w.home, m.HomeTeamID)

	swap := w.home
	_, err = w.svc.UpdateMatch(context.Background(), w.matchID, UpdateMatchInput{AwayTeamID: &swap})
	assert.Equal(t, domainerr.SameTeams, domainerr.CodeOf(err))
}

func TestDeleteMatch(t *testing.T) {
	w := newWorld(t, stagedomain.StatusDraft)
	require.NoError(t, w.svc.DeleteMatch(context.Background(), w.matchID))

	err := w.svc.DeleteMatch(context.Background(), w.matchID)
	assert.Equal(t, domainerr.MatchNotFound, domainerr.CodeOf(err))
}

func TestRecordResult(t *testing.T) {
	tests := []struct {
		name       string
		status     stagedomain.Status
		input      RecordResultInput
		wantCode   domainerr.Code
		wantScorer []string
	}{
		{
			name:       "finished result is scored",
			status:     stagedomain.StatusPublished,
			input:      RecordResultInput{Status: fixturedomain.MatchFinished, HomeScore: intp(2), AwayScore: intp(1)},
			wantScorer: []string{"ScoreMatch"},
		},
		{
			name:       "locked stage still accepts results",
			status:     stagedomain.StatusLocked,
			input:      RecordResultInput{Status: fixturedomain.MatchFinished, HomeScore: intp(0), AwayScore: intp(0)},
			wantScorer: []string{"ScoreMatch"},
		},
		{
			name:       "cancellation voids",
			status:     stagedomain.StatusPublished,
			input:      RecordResultInput{Status: fixturedomain.MatchCanceled},
			wantScorer: []string{"VoidMatch"},
		},
		{
			name:       "finished without a score voids",
			status:     stagedomain.StatusPublished,
			input:      RecordResultInput{Status: fixturedomain.MatchFinished},
			wantScorer: []string{"VoidMatch"},
		},
		{
			name:     "draft stage rejects",
			status:   stagedomain.StatusDraft,
			input:    RecordResultInput{Status: fixturedomain.MatchFinished, HomeScore: intp(1), AwayScore: intp(1)},
			wantCode: domainerr.StageNotPublished,
		},
		{
			name:     "half a score",
			status:   stagedomain.StatusPublished,
			input:    RecordResultInput{Status: fixturedomain.MatchFinished, HomeScore: intp(1)},
			wantCode: domainerr.InvalidScore,
		},
		{
			name:     "negative score",
			status:   stagedomain.StatusPublished,
			input:    RecordResultInput{Status: fixturedomain.MatchFinished, HomeScore: intp(-1), AwayScore: intp(0)},
			wantCode: domainerr.InvalidScore,
		},
		{
			name:     "unknown status",
			status:   stagedomain.StatusPublished,
			input:    RecordResultInput{Status: "postponed"},
			wantCode: domainerr.InvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t, tt.status)

			out, err := w.svc.RecordResult(context.Background(), w.matchID, tt.input)

			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, domainerr.CodeOf(err))
				assert.Empty(t, w.scorer.Trace())
				assert.Equal(t, fixturedomain.MatchScheduled, w.repo.Match(w.matchID).Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantScorer, w.scorer.Trace())
			assert.Equal(t, tt.input.Status, out.Match.Status)
			assert.Empty(t, out.ScoringErr)

			stored := w.repo.Match(w.matchID)
			assert.Equal(t, tt.input.Status, stored.Status)
			if tt.input.HomeScore != nil {
				require.NotNil(t, stored.ResultRecordedAt)
				assert.Equal(t, testNow, *stored.ResultRecordedAt)
			} else {
				assert.Nil(t, stored.ResultRecordedAt)
			}
		})
	}
}

func TestRecordResult_SameScoreKeepsTimestamp(t *testing.T) {
	w := newWorld(t, stagedomain.StatusPublished)
	ctx := context.Background()
	in := RecordResultInput{Status: fixturedomain.MatchFinished, HomeScore: intp(3), AwayScore: intp(3)}

	_, err := w.svc.RecordResult(ctx, w.matchID, in)
	require.NoError(t, err)

	w.svc.now = func() time.Time { return testNow.Add(time.Hour) }
	_, err = w.svc.RecordResult(ctx, w.matchID, in)
	require.NoError(t, err)
	assert.Equal(t, testNow, *w.repo.Match(w.matchID).ResultRecordedAt)

	in.AwayScore = intp(2)
	_, err = w.svc.RecordResult(ctx, w.matchID, in)
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(time.Hour), *w.repo.Match(w.matchID).ResultRecordedAt)
}

func TestRecordResult_ClearingScoreVoidsLedger(t *testing.T) {
	w := newWorld(t, stagedomain.StatusPublished)
	ctx := context.Background()

	_, err := w.svc.RecordResult(ctx, w.matchID,
		RecordResultInput{Status: fixturedomain.MatchFinished, HomeScore: intp(2), AwayScore: intp(1)})
	require.NoError(t, err)

	out, err := w.svc.RecordResult(ctx, w.matchID, RecordResultInput{Status: fixturedomain.MatchFinished})
	require.NoError(t, err)
	assert.Equal(t, []string{"ScoreMatch", "VoidMatch"}, w.scorer.Trace())
	assert.NotNil(t, out.Void)
	assert.Nil(t, out.Scoring)

	stored := w.repo.Match(w.matchID)
	assert.Equal(t, fixturedomain.MatchFinished, stored.Status)
	assert.Nil(t, stored.HomeScore)
	assert.Nil(t, stored.ResultRecordedAt)
}

func TestRecordResult_ScoringFailureKeepsResult(t *testing.T) {
	w := newWorld(t, stagedomain.StatusPublished)
	w.scorer.ScoreMatchFunc = func(ctx context.Context, matchID uuid.UUID) (scoringservice.MatchScoringResult, error) {
		return scoringservice.MatchScoringResult{}, scoringservice.ErrLedgerReplaceFailed
	}

	out, err := w.svc.RecordResult(context.Background(), w.matchID,
		RecordResultInput{Status: fixturedomain.MatchFinished, HomeScore: intp(1), AwayScore: intp(0)})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ScoringErr)
	assert.Nil(t, out.Scoring)
	assert.Equal(t, fixturedomain.MatchFinished, w.repo.Match(w.matchID).Status)
}

func TestRecordResult_StoreFailure(t *testing.T) {
	w := newWorld(t, stagedomain.StatusPublished)
	w.repo.UpdateMatchResultFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID, status fixturedomain.MatchStatus, home, away *int, recordedAt *time.Time) error {
		return errors.New("connection refused")
	}

	_, err := w.svc.RecordResult(context.Background(), w.matchID,
		RecordResultInput{Status: fixturedomain.MatchFinished, HomeScore: intp(1), AwayScore: intp(0)})
	require.Error(t, err)
	assert.Equal(t, domainerr.Code(""), domainerr.CodeOf(err))
	assert.Empty(t, w.scorer.Trace())
}

func TestSubmitPrediction(t *testing.T) {
	tests := []struct {
		name     string
		status   stagedomain.Status
		setup    func(w *world)
		input    PredictionInput
		wantCode domainerr.Code
	}{
		{
			name:   "open match accepts",
			status: stagedomain.StatusPublished,
			input:  PredictionInput{HomePred: intp(2), AwayPred: intp(0)},
		},
		{
			name:   "clearing both sides is allowed",
			status: stagedomain.StatusPublished,
			input:  PredictionInput{},
		},
		{
			name:     "draft stage rejects",
			status:   stagedomain.StatusDraft,
			input:    PredictionInput{HomePred: intp(1), AwayPred: intp(1)},
			wantCode: domainerr.StageNotPublished,
		},
		{
			name:   "deadline passed",
			status: stagedomain.StatusPublished,
			setup: func(w *world) {
				m := w.repo.matches[w.matchID]
				m.DeadlineAt = testNow
				w.repo.matches[w.matchID] = m
			},
			input:    PredictionInput{HomePred: intp(1), AwayPred: intp(1)},
			wantCode: domainerr.DeadlinePassed,
		},
		{
			name:   "live match rejects",
			status: stagedomain.StatusPublished,
			setup: func(w *world) {
				m := w.repo.matches[w.matchID]
				m.Status = fixturedomain.MatchLive
				w.repo.matches[w.matchID] = m
			},
			input:    PredictionInput{HomePred: intp(1), AwayPred: intp(1)},
			wantCode: domainerr.MatchNotOpen,
		},
		{
			name:     "unknown participant",
			status:   stagedomain.StatusPublished,
			setup:    func(w *world) { delete(w.repo.participants, w.user) },
			input:    PredictionInput{HomePred: intp(1), AwayPred: intp(1)},
			wantCode: domainerr.ParticipantMissing,
		},
		{
			name:     "half a prediction",
			status:   stagedomain.StatusPublished,
			input:    PredictionInput{AwayPred: intp(1)},
			wantCode: domainerr.InvalidScore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t, tt.status)
			if tt.setup != nil {
				tt.setup(w)
			}

			p, err := w.svc.SubmitPrediction(context.Background(), w.matchID, w.user, tt.input)

			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, domainerr.CodeOf(err))
				assert.Equal(t, 0, w.repo.PredictionCount())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input.HomePred, p.HomePred)
			assert.Equal(t, 1, w.repo.PredictionCount())
		})
	}
}

func TestSubmitPrediction_ReplacesPrevious(t *testing.T) {
	w := newWorld(t, stagedomain.StatusPublished)
	ctx := context.Background()

	first, err := w.svc.SubmitPrediction(ctx, w.matchID, w.user, PredictionInput{HomePred: intp(1), AwayPred: intp(0)})
	require.NoError(t, err)
	second, err := w.svc.SubmitPrediction(ctx, w.matchID, w.user, PredictionInput{HomePred: intp(0), AwayPred: intp(0)})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, w.repo.PredictionCount())
}

func TestCatalog(t *testing.T) {
	w := newWorld(t, stagedomain.StatusDraft)
	ctx := context.Background()

	team, err := w.svc.CreateTeam(ctx, "  Rovers ")
	require.NoError(t, err)
	assert.Equal(t, "Rovers", team.Name)

	_, err = w.svc.CreateTeam(ctx, "Rovers")
	assert.Equal(t, domainerr.Conflict, domainerr.CodeOf(err))

	_, err = w.svc.CreateTeam(ctx, "   ")
	assert.Equal(t, domainerr.InvalidInput, domainerr.CodeOf(err))

	stage, err := w.svc.CreateStage(ctx, CreateStageInput{Name: "Knockouts", MatchesRequired: 8})
	require.NoError(t, err)
	assert.Equal(t, stagedomain.StatusDraft, stage.Status)

	_, err = w.svc.CreateStage(ctx, CreateStageInput{Name: "Bad", MatchesRequired: -1})
	assert.Equal(t, domainerr.InvalidInput, domainerr.CodeOf(err))

	admin, err := w.svc.CreateParticipant(ctx, CreateParticipantInput{DisplayName: "Referee", IsAdmin: true})
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	tour, err := w.svc.CreateTour(ctx, w.stageID, CreateTourInput{TourNo: 2, Name: "Round 2"})
	require.NoError(t, err)
	assert.Equal(t, w.stageID, tour.StageID)

	_, err = w.svc.CreateTour(ctx, w.stageID, CreateTourInput{TourNo: 1})
	assert.Equal(t, domainerr.Conflict, domainerr.CodeOf(err))

	w.gate.Set(w.stageID, stagedomain.StatusLocked)
	_, err = w.svc.CreateTour(ctx, w.stageID, CreateTourInput{TourNo: 3})
	assert.Equal(t, domainerr.StageLocked, domainerr.CodeOf(err))
}
