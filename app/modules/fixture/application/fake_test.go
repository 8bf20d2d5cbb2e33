package fixtureservice

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matchday-pool/predictor/app/domainerr"
	fixturedomain "github.com/matchday-pool/predictor/app/modules/fixture/domain"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	scoringservice "github.com/matchday-pool/predictor/app/modules/scoring/application"
	stagedomain "github.com/matchday-pool/predictor/app/modules/stage/domain"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Fixture Repository
// ------------------------

// FakeFixtureRepo is an in-memory fixturedb.Repository. Only the state the
// service touches is modelled; the remaining methods return zero values.
type FakeFixtureRepo struct {
	mu    sync.Mutex
	trace []string

	teams        map[uuid.UUID]fixturedb.Team
	participants map[uuid.UUID]fixturedb.Participant
	stages       map[uuid.UUID]fixturedb.Stage
	tours        map[uuid.UUID]fixturedb.Tour
	matches      map[uuid.UUID]fixturedb.Match
	predictions  map[[2]uuid.UUID]fixturedb.Prediction

	CreateTeamFunc        func(ctx context.Context, db bun.IDB, team *fixturedb.Team) error
	UpdateMatchResultFunc func(ctx context.Context, db bun.IDB, id uuid.UUID, status fixturedomain.MatchStatus, home, away *int, recordedAt *time.Time) error
}

func NewFakeFixtureRepo() *FakeFixtureRepo {
	return &FakeFixtureRepo{
		trace:        []string{},
		teams:        map[uuid.UUID]fixturedb.Team{},
		participants: map[uuid.UUID]fixturedb.Participant{},
		stages:       map[uuid.UUID]fixturedb.Stage{},
		tours:        map[uuid.UUID]fixturedb.Tour{},
		matches:      map[uuid.UUID]fixturedb.Match{},
		predictions:  map[[2]uuid.UUID]fixturedb.Prediction{},
	}
}

func (f *FakeFixtureRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeFixtureRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeFixtureRepo) CreateTeam(ctx context.Context, db bun.IDB, team *fixturedb.Team) error {
	f.mu.Lock()
	f.record("CreateTeam")
	f.mu.Unlock()
	if f.CreateTeamFunc != nil {
		return f.CreateTeamFunc(ctx, db, team)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.teams {
		if t.Name == team.Name {
			return fixturedb.ErrConflict
		}
	}
	f.teams[team.ID] = *team
	return nil
}

func (f *FakeFixtureRepo) GetTeam(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetTeam")
	t, ok := f.teams[id]
	if !ok {
		return nil, fixturedb.ErrNotFound
	}
	return &t, nil
}

func (f *FakeFixtureRepo) ListTeams(ctx context.Context, db bun.IDB) ([]fixturedb.Team, error) {
	return nil, nil
}

func (f *FakeFixtureRepo) CreateParticipant(ctx context.Context, db bun.IDB, p *fixturedb.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateParticipant")
	f.participants[p.ID] = *p
	return nil
}

func (f *FakeFixtureRepo) GetParticipant(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetParticipant")
	p, ok := f.participants[id]
	if !ok {
		return nil, fixturedb.ErrNotFound
	}
	return &p, nil
}

func (f *FakeFixtureRepo) ListScorableParticipants(ctx context.Context, db bun.IDB) ([]fixturedb.Participant, error) {
	return nil, nil
}

func (f *FakeFixtureRepo) CreateStage(ctx context.Context, db bun.IDB, stage *fixturedb.Stage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateStage")
	if stage.Status == "" {
		stage.Status = stagedomain.StatusDraft
	}
	f.stages[stage.ID] = *stage
	return nil
}

func (f *FakeFixtureRepo) GetStage(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Stage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stages[id]
	if !ok {
		return nil, fixturedb.ErrNotFound
	}
	return &s, nil
}

func (f *FakeFixtureRepo) GetStageForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Stage, error) {
	return f.GetStage(ctx, db, id)
}

func (f *FakeFixtureRepo) ListStages(ctx context.Context, db bun.IDB) ([]fixturedb.Stage, error) {
	return nil, nil
}

func (f *FakeFixtureRepo) UpdateStageStatus(ctx context.Context, db bun.IDB, id uuid.UUID, status stagedomain.Status) error {
	return nil
}

func (f *FakeFixtureRepo) CountStageMatches(ctx context.Context, db bun.IDB, stageID uuid.UUID) (int, error) {
	return 0, nil
}

func (f *FakeFixtureRepo) GetCurrentStageID(ctx context.Context, db bun.IDB) (*uuid.UUID, error) {
	return nil, nil
}

func (f *FakeFixtureRepo) SetCurrentStage(ctx context.Context, db bun.IDB, stageID uuid.UUID) error {
	return nil
}

func (f *FakeFixtureRepo) CreateTour(ctx context.Context, db bun.IDB, tour *fixturedb.Tour) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTour")
	for _, t := range f.tours {
		if t.StageID == tour.StageID && t.TourNo == tour.TourNo {
			return fixturedb.ErrConflict
		}
	}
	f.tours[tour.ID] = *tour
	return nil
}

func (f *FakeFixtureRepo) GetTour(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Tour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetTour")
	t, ok := f.tours[id]
	if !ok {
		return nil, fixturedb.ErrNotFound
	}
	return &t, nil
}

func (f *FakeFixtureRepo) ListStageTours(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]fixturedb.Tour, error) {
	return nil, nil
}

func (f *FakeFixtureRepo) CreateMatch(ctx context.Context, db bun.IDB, match *fixturedb.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateMatch")
	f.matches[match.ID] = *match
	return nil
}

func (f *FakeFixtureRepo) GetMatch(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetMatch")
	m, ok := f.matches[id]
	if !ok {
		return nil, fixturedb.ErrNotFound
	}
	return &m, nil
}

func (f *FakeFixtureRepo) GetMatchForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetMatchForUpdate")
	m, ok := f.matches[id]
	if !ok {
		return nil, fixturedb.ErrNotFound
	}
	return &m, nil
}

func (f *FakeFixtureRepo) UpdateMatch(ctx context.Context, db bun.IDB, match *fixturedb.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateMatch")
	if _, ok := f.matches[match.ID]; !ok {
		return fixturedb.ErrNoRowsAffected
	}
	f.matches[match.ID] = *match
	return nil
}

func (f *FakeFixtureRepo) UpdateMatchResult(ctx context.Context, db bun.IDB, id uuid.UUID, status fixturedomain.MatchStatus, home, away *int, recordedAt *time.Time) error {
	f.mu.Lock()
	f.record("UpdateMatchResult")
	f.mu.Unlock()
	if f.UpdateMatchResultFunc != nil {
		return f.UpdateMatchResultFunc(ctx, db, id, status, home, away, recordedAt)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return fixturedb.ErrNoRowsAffected
	}
	m.Status, m.HomeScore, m.AwayScore, m.ResultRecordedAt = status, home, away, recordedAt
	f.matches[id] = m
	return nil
}

func (f *FakeFixtureRepo) DeleteMatch(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteMatch")
	if _, ok := f.matches[id]; !ok {
		return fixturedb.ErrNoRowsAffected
	}
	delete(f.matches, id)
	return nil
}

func (f *FakeFixtureRepo) ListStageMatches(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]fixturedb.Match, error) {
	return nil, nil
}

func (f *FakeFixtureRepo) ListFinishedMatchIDs(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *FakeFixtureRepo) ListMatchesClosingBetween(ctx context.Context, db bun.IDB, from, to time.Time) ([]fixturedb.MatchClosing, error) {
	return nil, nil
}

func (f *FakeFixtureRepo) UpsertPrediction(ctx context.Context, db bun.IDB, p *fixturedb.Prediction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpsertPrediction")
	key := [2]uuid.UUID{p.MatchID, p.UserID}
	if old, ok := f.predictions[key]; ok {
		p.ID = old.ID
	}
	f.predictions[key] = *p
	return nil
}

func (f *FakeFixtureRepo) ListMatchPredictions(ctx context.Context, db bun.IDB, matchID uuid.UUID) ([]fixturedb.Prediction, error) {
	return nil, nil
}

func (f *FakeFixtureRepo) ListParticipantsMissingPrediction(ctx context.Context, db bun.IDB, matchID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *FakeFixtureRepo) Match(id uuid.UUID) fixturedb.Match {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.matches[id]
}

func (f *FakeFixtureRepo) PredictionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.predictions)
}

var _ fixturedb.Repository = (*FakeFixtureRepo)(nil)

// ------------------------
// Fake Stage Gate
// ------------------------

// FakeStageGate answers gates from a stage status table. Unknown stages
// fail with ErrNotFound like the real store.
type FakeStageGate struct {
	statuses map[uuid.UUID]stagedomain.Status
}

func NewFakeStageGate() *FakeStageGate {
	return &FakeStageGate{statuses: map[uuid.UUID]stagedomain.Status{}}
}

func (g *FakeStageGate) Set(id uuid.UUID, s stagedomain.Status) { g.statuses[id] = s }

func (g *FakeStageGate) check(id uuid.UUID, allows func(stagedomain.Status) *domainerr.Error) error {
	s, ok := g.statuses[id]
	if !ok {
		return fixturedb.ErrNotFound
	}
	if failure := allows(s); failure != nil {
		return failure
	}
	return nil
}

func (g *FakeStageGate) EnsureFixturesEditable(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	return g.check(id, stagedomain.AllowsFixtureEdit)
}

func (g *FakeStageGate) EnsureResultsEnterable(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	return g.check(id, stagedomain.AllowsResultEntry)
}

func (g *FakeStageGate) EnsurePredictionsAllowed(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	return g.check(id, stagedomain.AllowsPredictions)
}

var _ StageGate = (*FakeStageGate)(nil)

// ------------------------
// Fake Scorer
// ------------------------

type FakeScorer struct {
	trace []string

	ScoreMatchFunc func(ctx context.Context, matchID uuid.UUID) (scoringservice.MatchScoringResult, error)
	VoidMatchFunc  func(ctx context.Context, matchID uuid.UUID) (scoringservice.VoidResult, error)
}

func (f *FakeScorer) ScoreMatch(ctx context.Context, matchID uuid.UUID) (scoringservice.MatchScoringResult, error) {
	f.trace = append(f.trace, "ScoreMatch")
	if f.ScoreMatchFunc != nil {
		return f.ScoreMatchFunc(ctx, matchID)
	}
	return scoringservice.MatchScoringResult{MatchID: matchID}, nil
}

func (f *FakeScorer) VoidMatch(ctx context.Context, matchID uuid.UUID) (scoringservice.VoidResult, error) {
	f.trace = append(f.trace, "VoidMatch")
	if f.VoidMatchFunc != nil {
		return f.VoidMatchFunc(ctx, matchID)
	}
	return scoringservice.VoidResult{MatchID: matchID}, nil
}

func (f *FakeScorer) Trace() []string {
	return append([]string{}, f.trace...)
}

var _ Scorer = (*FakeScorer)(nil)
