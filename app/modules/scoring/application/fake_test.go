package scoringservice

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	ledgerdb "github.com/matchday-pool/predictor/app/modules/scoring/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Fixture Reader
// ------------------------

type FakeFixtureReader struct {
	mu    sync.Mutex
	trace []string

	GetStageFunc             func(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Stage, error)
	GetMatchFunc             func(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Match, error)
	GetMatchForUpdateFunc    func(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Match, error)
	ListMatchPredictionsFunc func(ctx context.Context, db bun.IDB, matchID uuid.UUID) ([]fixturedb.Prediction, error)
	ListFinishedMatchIDsFunc func(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]uuid.UUID, error)
}

func NewFakeFixtureReader() *FakeFixtureReader {
	return &FakeFixtureReader{trace: []string{}}
}

func (f *FakeFixtureReader) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeFixtureReader) GetStage(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Stage, error) {
	f.record("GetStage")
	if f.GetStageFunc != nil {
		return f.GetStageFunc(ctx, db, id)
	}
	return nil, fixturedb.ErrNotFound
}

func (f *FakeFixtureReader) GetMatch(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Match, error) {
	f.record("GetMatch")
	if f.GetMatchFunc != nil {
		return f.GetMatchFunc(ctx, db, id)
	}
	return nil, fixturedb.ErrNotFound
}

func (f *FakeFixtureReader) GetMatchForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Match, error) {
	f.record("GetMatchForUpdate")
	if f.GetMatchForUpdateFunc != nil {
		return f.GetMatchForUpdateFunc(ctx, db, id)
	}
	return nil, fixturedb.ErrNotFound
}

func (f *FakeFixtureReader) ListMatchPredictions(ctx context.Context, db bun.IDB, matchID uuid.UUID) ([]fixturedb.Prediction, error) {
	f.record("ListMatchPredictions")
	if f.ListMatchPredictionsFunc != nil {
		return f.ListMatchPredictionsFunc(ctx, db, matchID)
	}
	return nil, nil
}

func (f *FakeFixtureReader) ListFinishedMatchIDs(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]uuid.UUID, error) {
	f.record("ListFinishedMatchIDs")
	if f.ListFinishedMatchIDsFunc != nil {
		return f.ListFinishedMatchIDsFunc(ctx, db, stageID)
	}
	return nil, nil
}

func (f *FakeFixtureReader) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ FixtureReader = (*FakeFixtureReader)(nil)

// ------------------------
// Fake Ledger Repo
// ------------------------

type ledgerKey struct {
	user, match uuid.UUID
	reason      string
}

// FakeLedgerRepo keeps rows in memory with the same replace semantics as
// the bun implementation. Func fields override individual methods.
type FakeLedgerRepo struct {
	mu     sync.Mutex
	trace  []string
	rows   map[ledgerKey]ledgerdb.LedgerEntry
	nextID int64

	ReplaceMatchEntriesFunc func(ctx context.Context, db bun.IDB, matchID uuid.UUID, reason string, entries []ledgerdb.LedgerEntry) (ledgerdb.ReplaceStats, error)
	DeleteMatchEntriesFunc  func(ctx context.Context, db bun.IDB, matchID uuid.UUID, reason string) (int, error)
}

func NewFakeLedgerRepo() *FakeLedgerRepo {
	return &FakeLedgerRepo{trace: []string{}, rows: map[ledgerKey]ledgerdb.LedgerEntry{}}
}

func (f *FakeLedgerRepo) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeLedgerRepo) ReplaceMatchEntries(ctx context.Context, db bun.IDB, matchID uuid.UUID, reason string, entries []ledgerdb.LedgerEntry) (ledgerdb.ReplaceStats, error) {
	f.record("ReplaceMatchEntries")
	if f.ReplaceMatchEntriesFunc != nil {
		return f.ReplaceMatchEntriesFunc(ctx, db, matchID, reason, entries)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	keep := map[uuid.UUID]bool{}
	for _, e := range entries {
		keep[e.UserID] = true
	}
	var stats ledgerdb.ReplaceStats
	for k := range f.rows {
		if k.match == matchID && k.reason == reason && !keep[k.user] {
			delete(f.rows, k)
			stats.Removed++
		}
	}
	for _, e := range entries {
		k := ledgerKey{e.UserID, e.MatchID, e.Reason}
		if old, ok := f.rows[k]; ok {
			e.ID = old.ID
		} else {
			f.nextID++
			e.ID = f.nextID
		}
		f.rows[k] = e
		stats.Written++
	}
	return stats, nil
}

func (f *FakeLedgerRepo) DeleteMatchEntries(ctx context.Context, db bun.IDB, matchID uuid.UUID, reason string) (int, error) {
	f.record("DeleteMatchEntries")
	if f.DeleteMatchEntriesFunc != nil {
		return f.DeleteMatchEntriesFunc(ctx, db, matchID, reason)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for k := range f.rows {
		if k.match == matchID && k.reason == reason {
			delete(f.rows, k)
			n++
		}
	}
	return n, nil
}

func (f *FakeLedgerRepo) ListMatchEntries(ctx context.Context, db bun.IDB, matchID uuid.UUID, reason string) ([]ledgerdb.LedgerEntry, error) {
	f.record("ListMatchEntries")
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ledgerdb.LedgerEntry
	for k, e := range f.rows {
		if k.match == matchID && k.reason == reason {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID.String() < out[j].UserID.String() })
	return out, nil
}

func (f *FakeLedgerRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ ledgerdb.Repository = (*FakeLedgerRepo)(nil)

// ------------------------
// Recording publisher
// ------------------------

type publishedEvent struct {
	Topic   string
	Payload any
}

type FakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	Err    error
}

func (p *FakePublisher) Publish(_ context.Context, topic string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, Payload: payload})
	return p.Err
}

func (p *FakePublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}
