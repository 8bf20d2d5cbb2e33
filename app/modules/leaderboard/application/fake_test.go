package leaderboardservice

import (
	"context"
	"errors"

	"github.com/google/uuid"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	leaderboarddb "github.com/matchday-pool/predictor/app/modules/leaderboard/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Leaderboard Repository
// ------------------------

type FakeLeaderboardRepo struct {
	trace []string

	SumUserPointsFunc   func(ctx context.Context, db bun.IDB, stageID, userID uuid.UUID) (float64, error)
	ListStageTotalsFunc func(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]leaderboarddb.TotalRow, error)
	ListStageHitsFunc   func(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]leaderboarddb.HitsRow, error)
	ListUserAwardsFunc  func(ctx context.Context, db bun.IDB, stageID, userID uuid.UUID) ([]leaderboarddb.AwardRow, error)
}

func NewFakeLeaderboardRepo() *FakeLeaderboardRepo {
	return &FakeLeaderboardRepo{trace: []string{}}
}

func (f *FakeLeaderboardRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLeaderboardRepo) SumUserPoints(ctx context.Context, db bun.IDB, stageID, userID uuid.UUID) (float64, error) {
	f.record("SumUserPoints")
	if f.SumUserPointsFunc != nil {
		return f.SumUserPointsFunc(ctx, db, stageID, userID)
	}
	return 0, nil
}

func (f *FakeLeaderboardRepo) ListStageTotals(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]leaderboarddb.TotalRow, error) {
	f.record("ListStageTotals")
	if f.ListStageTotalsFunc != nil {
		return f.ListStageTotalsFunc(ctx, db, stageID)
	}
	return nil, nil
}

func (f *FakeLeaderboardRepo) ListStageHits(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]leaderboarddb.HitsRow, error) {
	f.record("ListStageHits")
	if f.ListStageHitsFunc != nil {
		return f.ListStageHitsFunc(ctx, db, stageID)
	}
	return nil, nil
}

func (f *FakeLeaderboardRepo) ListUserAwards(ctx context.Context, db bun.IDB, stageID, userID uuid.UUID) ([]leaderboarddb.AwardRow, error) {
	f.record("ListUserAwards")
	if f.ListUserAwardsFunc != nil {
		return f.ListUserAwardsFunc(ctx, db, stageID, userID)
	}
	return nil, nil
}

func (f *FakeLeaderboardRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ leaderboarddb.Repository = (*FakeLeaderboardRepo)(nil)

// ------------------------
// Fake Stage Reader
// ------------------------

type FakeStageReader struct {
	stages  map[uuid.UUID]fixturedb.Stage
	current *uuid.UUID
	err     error
}

func NewFakeStageReader() *FakeStageReader {
	return &FakeStageReader{stages: map[uuid.UUID]fixturedb.Stage{}}
}

func (f *FakeStageReader) Add(name string) uuid.UUID {
	id := uuid.New()
	f.stages[id] = fixturedb.Stage{ID: id, Name: name}
	return id
}

func (f *FakeStageReader) GetStage(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Stage, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.stages[id]
	if !ok {
		return nil, fixturedb.ErrNotFound
	}
	return &s, nil
}

func (f *FakeStageReader) GetCurrentStageID(ctx context.Context, db bun.IDB) (*uuid.UUID, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.current, nil
}

var _ StageReader = (*FakeStageReader)(nil)

var errStoreDown = errors.New("store down")
