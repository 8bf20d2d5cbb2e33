package fixturehandlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/matchday-pool/predictor/app/domainerr"
	fixtureservice "github.com/matchday-pool/predictor/app/modules/fixture/application"
	fixturedomain "github.com/matchday-pool/predictor/app/modules/fixture/domain"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	scoringservice "github.com/matchday-pool/predictor/app/modules/scoring/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type FakeService struct {
	CreateTeamFunc        func(ctx context.Context, name string) (*fixturedb.Team, error)
	CreateParticipantFunc func(ctx context.Context, in fixtureservice.CreateParticipantInput) (*fixturedb.Participant, error)
	CreateStageFunc       func(ctx context.Context, in fixtureservice.CreateStageInput) (*fixturedb.Stage, error)
	CreateTourFunc        func(ctx context.Context, stageID uuid.UUID, in fixtureservice.CreateTourInput) (*fixturedb.Tour, error)
	CreateMatchFunc       func(ctx context.Context, in fixtureservice.CreateMatchInput) (*fixturedb.Match, error)
	UpdateMatchFunc       func(ctx context.Context, id uuid.UUID, in fixtureservice.UpdateMatchInput) (*fixturedb.Match, error)
	DeleteMatchFunc       func(ctx context.Context, id uuid.UUID) error
	RecordResultFunc      func(ctx context.Context, id uuid.UUID, in fixtureservice.RecordResultInput) (fixtureservice.RecordResultOutput, error)
	SubmitPredictionFunc  func(ctx context.Context, matchID, userID uuid.UUID, in fixtureservice.PredictionInput) (*fixturedb.Prediction, error)
}

func (f *FakeService) CreateTeam(ctx context.Context, name string) (*fixturedb.Team, error) {
	return f.CreateTeamFunc(ctx, name)
}

func (f *FakeService) CreateParticipant(ctx context.Context, in fixtureservice.CreateParticipantInput) (*fixturedb.Participant, error) {
	return f.CreateParticipantFunc(ctx, in)
}

func (f *FakeService) CreateStage(ctx context.Context, in fixtureservice.CreateStageInput) (*fixturedb.Stage, error) {
	return f.CreateStageFunc(ctx, in)
}

func (f *FakeService) CreateTour(ctx context.Context, stageID uuid.UUID, in fixtureservice.CreateTourInput) (*fixturedb.Tour, error) {
	return f.CreateTourFunc(ctx, stageID, in)
}

func (f *FakeService) CreateMatch(ctx context.Context, in fixtureservice.CreateMatchInput) (*fixturedb.Match, error) {
	return f.CreateMatchFunc(ctx, in)
}

func (f *FakeService) UpdateMatch(ctx context.Context, id uuid.UUID, in fixtureservice.UpdateMatchInput) (*fixturedb.Match, error) {
	return f.UpdateMatchFunc(ctx, id, in)
}

func (f *FakeService) DeleteMatch(ctx context.Context, id uuid.UUID) error {
	return f.DeleteMatchFunc(ctx, id)
}

func (f *FakeService) RecordResult(ctx context.Context, id uuid.UUID, in fixtureservice.RecordResultInput) (fixtureservice.RecordResultOutput, error) {
	return f.RecordResultFunc(ctx, id, in)
}

func (f *FakeService) SubmitPrediction(ctx context.Context, matchID, userID uuid.UUID, in fixtureservice.PredictionInput) (*fixturedb.Prediction, error) {
	return f.SubmitPredictionFunc(ctx, matchID, userID, in)
}

var _ fixtureservice.Service = (*FakeService)(nil)

func serve(svc *FakeService, method, path, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	NewFixtureHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env.Error.Code
}

func TestCreateMatch(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"created", `{"stage_id":"` + uuid.NewString() + `","kickoff_at":"2026-06-11T19:00:00Z","deadline_at":"2026-06-11T18:00:00Z"}`, nil, http.StatusCreated, ""},
		{"same teams", `{}`, domainerr.New(domainerr.SameTeams, "a team cannot play itself"), http.StatusUnprocessableEntity, "same_teams"},
		{"locked stage", `{}`, domainerr.New(domainerr.StageLocked, "stage is locked"), http.StatusConflict, "stage_locked"},
		{"bad json", `{"stage_id":`, nil, http.StatusBadRequest, "bad_request"},
		{"unknown field", `{"venue":"x"}`, nil, http.StatusBadRequest, "bad_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got fixtureservice.CreateMatchInput
			svc := &FakeService{CreateMatchFunc: func(ctx context.Context, in fixtureservice.CreateMatchInput) (*fixturedb.Match, error) {
				got = in
				if tt.err != nil {
					return nil, tt.err
				}
				return &fixturedb.Match{ID: uuid.New(), StageID: in.StageID, KickoffAt: in.KickoffAt}, nil
			}}
			rec := serve(svc, http.MethodPost, "/api/admin/matches", tt.body)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, rec))
				return
			}
			assert.Equal(t, 19, got.KickoffAt.Hour())
			var m map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&m))
			assert.Equal(t, got.StageID.String(), m["stage_id"])
		})
	}
}

func TestRecordResult(t *testing.T) {
	matchID := uuid.New()
	var got fixtureservice.RecordResultInput
	svc := &FakeService{RecordResultFunc: func(ctx context.Context, id uuid.UUID, in fixtureservice.RecordResultInput) (fixtureservice.RecordResultOutput, error) {
		got = in
		return fixtureservice.RecordResultOutput{
			Match:      &fixturedb.Match{ID: id, Status: in.Status, HomeScore: in.HomeScore, AwayScore: in.AwayScore},
			ScoringErr: "ledger replace failed; previous rows kept",
		}, nil
	}}
	rec := serve(svc, http.MethodPost, "/api/admin/matches/"+matchID.String()+"/result", `{"status":"finished","home_score":2,"away_score":1}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fixturedomain.MatchFinished, got.Status)
	require.NotNil(t, got.HomeScore)
	assert.Equal(t, 2, *got.HomeScore)

	var out map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Contains(t, out, "scoring_error")
	assert.NotContains(t, out, "scoring")
}

func TestRecordResult_WithScoring(t *testing.T) {
	svc := &FakeService{RecordResultFunc: func(ctx context.Context, id uuid.UUID, in fixtureservice.RecordResultInput) (fixtureservice.RecordResultOutput, error) {
		return fixtureservice.RecordResultOutput{
			Match:   &fixturedb.Match{ID: id},
			Scoring: &scoringservice.MatchScoringResult{MatchID: id, TotalPoints: 6.25, AffectedCount: 1},
		}, nil
	}}
	rec := serve(svc, http.MethodPost, "/api/admin/matches/"+uuid.NewString()+"/result", `{"status":"finished","home_score":0,"away_score":0}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var out fixtureservice.RecordResultOutput
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	require.NotNil(t, out.Scoring)
	assert.Equal(t, 6.25, out.Scoring.TotalPoints)
}

func TestSubmitPrediction(t *testing.T) {
	matchID, userID := uuid.New(), uuid.New()

	t.Run("stored", func(t *testing.T) {
		svc := &FakeService{SubmitPredictionFunc: func(ctx context.Context, m, u uuid.UUID, in fixtureservice.PredictionInput) (*fixturedb.Prediction, error) {
			return &fixturedb.Prediction{ID: uuid.New(), MatchID: m, UserID: u, HomePred: in.HomePred, AwayPred: in.AwayPred}, nil
		}}
		rec := serve(svc, http.MethodPut, "/api/matches/"+matchID.String()+"/predictions/"+userID.String(), `{"home_pred":1,"away_pred":1}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var p map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
		assert.Equal(t, userID.String(), p["user_id"])
		assert.Equal(t, float64(1), p["home_pred"])
	})

	t.Run("deadline passed", func(t *testing.T) {
		svc := &FakeService{SubmitPredictionFunc: func(ctx context.Context, m, u uuid.UUID, in fixtureservice.PredictionInput) (*fixturedb.Prediction, error) {
			return nil, domainerr.New(domainerr.DeadlinePassed, "prediction deadline has passed")
		}}
		rec := serve(svc, http.MethodPut, "/api/matches/"+matchID.String()+"/predictions/"+userID.String(), `{"home_pred":1,"away_pred":1}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "deadline_passed", errorCode(t, rec))
	})

	t.Run("bad user id", func(t *testing.T) {
		rec := serve(&FakeService{}, http.MethodPut, "/api/matches/"+matchID.String()+"/predictions/nope", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteMatch(t *testing.T) {
	svc := &FakeService{DeleteMatchFunc: func(ctx context.Context, id uuid.UUID) error { return nil }}
	rec := serve(svc, http.MethodDelete, "/api/admin/matches/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	svc.DeleteMatchFunc = func(ctx context.Context, id uuid.UUID) error {
		return domainerr.New(domainerr.MatchNotFound, "match not found")
	}
	rec = serve(svc, http.MethodDelete, "/api/admin/matches/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogRoutes(t *testing.T) {
	stageID := uuid.New()
	svc := &FakeService{
		CreateTeamFunc: func(ctx context.Context, name string) (*fixturedb.Team, error) {
			return &fixturedb.Team{ID: uuid.New(), Name: name}, nil
		},
		CreateParticipantFunc: func(ctx context.Context, in fixtureservice.CreateParticipantInput) (*fixturedb.Participant, error) {
			return &fixturedb.Participant{ID: uuid.New(), DisplayName: in.DisplayName}, nil
		},
		CreateStageFunc: func(ctx context.Context, in fixtureservice.CreateStageInput) (*fixturedb.Stage, error) {
			return &fixturedb.Stage{ID: stageID, Name: in.Name, MatchesRequired: in.MatchesRequired}, nil
		},
		CreateTourFunc: func(ctx context.Context, id uuid.UUID, in fixtureservice.CreateTourInput) (*fixturedb.Tour, error) {
			return &fixturedb.Tour{ID: uuid.New(), StageID: id, TourNo: in.TourNo}, nil
		},
		UpdateMatchFunc: func(ctx context.Context, id uuid.UUID, in fixtureservice.UpdateMatchInput) (*fixturedb.Match, error) {
			return &fixturedb.Match{ID: id}, nil
		},
	}

	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodPost, "/api/admin/teams", `{"name":"Lions"}`, http.StatusCreated},
		{http.MethodPost, "/api/admin/participants", `{"display_name":"Ana"}`, http.StatusCreated},
		{http.MethodPost, "/api/admin/stages", `{"name":"Group","matches_required":4}`, http.StatusCreated},
		{http.MethodPost, "/api/admin/stages/" + stageID.String() + "/tours", `{"tour_no":1}`, http.StatusCreated},
		{http.MethodPatch, "/api/admin/matches/" + uuid.NewString(), `{"kickoff_at":"2026-06-12T19:00:00Z"}`, http.StatusOK},
	}
	for _, c := range cases {
		rec := serve(svc, c.method, c.path, c.body)
		assert.Equal(t, c.want, rec.Code, c.path)
	}
}
